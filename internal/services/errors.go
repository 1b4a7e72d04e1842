package services

import (
	"errors"
	"fmt"
	"strings"
)

var (
	ErrExternalTool  = errors.New("external tool error")
	ErrValidation    = errors.New("validation error")
	ErrConfiguration = errors.New("configuration error")
	ErrNotFound      = errors.New("not found")
	ErrTimeout       = errors.New("timeout")
	ErrTransient     = errors.New("transient failure")
)

// Wrap builds an error message that includes stage context while tagging it with
// the provided marker for later classification. The marker should be one of the
// exported sentinel errors above.
func Wrap(marker error, stage, operation, message string, err error) error {
	detail := buildDetail(stage, operation, message)
	if marker == nil {
		marker = ErrTransient
	}
	if err != nil {
		return fmt.Errorf("%w: %s: %w", marker, detail, err)
	}
	return fmt.Errorf("%w: %s", marker, detail)
}

// Marker reports the sentinel a wrapped error was tagged with, or nil when the
// error carries none of the exported markers.
func Marker(err error) error {
	for _, marker := range []error{ErrExternalTool, ErrValidation, ErrConfiguration, ErrNotFound, ErrTimeout, ErrTransient} {
		if errors.Is(err, marker) {
			return marker
		}
	}
	return nil
}

// ErrorHint returns a short operator-facing next step for a classified error.
func ErrorHint(err error) string {
	switch Marker(err) {
	case ErrExternalTool:
		return "verify the transcription backend is installed and reachable (orchive doctor)"
	case ErrConfiguration:
		return "check the configuration file (orchive config validate)"
	case ErrValidation:
		return "inspect the input file; it does not match the expected archive layout"
	case ErrNotFound:
		return "confirm the path exists"
	case ErrTimeout:
		return "raise transcription.timeout_seconds or check backend load"
	default:
		return "check logs for details"
	}
}

func buildDetail(stage, operation, message string) string {
	parts := make([]string, 0, 3)
	if stage = strings.TrimSpace(stage); stage != "" {
		parts = append(parts, stage)
	}
	if operation = strings.TrimSpace(operation); operation != "" {
		parts = append(parts, operation)
	}
	if message = strings.TrimSpace(message); message != "" {
		parts = append(parts, message)
	}
	if len(parts) == 0 {
		return "service failure"
	}
	return strings.Join(parts, ": ")
}
