// Package deps resolves the external binaries orchive shells out to.
package deps

import (
	"bytes"
	"context"
	"fmt"
	"os/exec"
	"strings"
	"time"
)

const versionTimeout = 5 * time.Second

// Requirement names an external binary and how to ask it for a version.
type Requirement struct {
	Name        string
	Command     string
	Description string
	// VersionArgs, when set, are passed to the binary to report its version.
	VersionArgs []string
	Optional    bool
}

// Status reports where a requirement resolved and what it reported.
type Status struct {
	Requirement
	Available bool
	Path      string
	Version   string
	Detail    string
}

// Summary renders the status for a single check line.
func (s Status) Summary() string {
	if !s.Available {
		return s.Detail
	}
	if s.Version != "" {
		return fmt.Sprintf("%s (%s)", s.Path, s.Version)
	}
	return s.Path
}

// CheckBinaries resolves every requirement on PATH. A failing version probe
// leaves the binary available with no version.
func CheckBinaries(ctx context.Context, requirements []Requirement) []Status {
	results := make([]Status, 0, len(requirements))
	for _, req := range requirements {
		req.Command = strings.TrimSpace(req.Command)
		req.Description = strings.TrimSpace(req.Description)
		status := Status{Requirement: req}
		switch path, err := exec.LookPath(req.Command); {
		case req.Command == "":
			status.Detail = "command not configured"
		case err != nil:
			status.Detail = fmt.Sprintf("binary %q not found", req.Command)
		default:
			status.Available = true
			status.Path = path
			if len(req.VersionArgs) > 0 {
				status.Version = probeVersion(ctx, path, req.VersionArgs)
			}
		}
		results = append(results, status)
	}
	return results
}

func probeVersion(ctx context.Context, path string, args []string) string {
	ctx, cancel := context.WithTimeout(ctx, versionTimeout)
	defer cancel()
	var out bytes.Buffer
	cmd := exec.CommandContext(ctx, path, args...)
	cmd.Stdout = &out
	cmd.Stderr = &out
	if err := cmd.Run(); err != nil {
		return ""
	}
	line, _, _ := strings.Cut(strings.TrimSpace(out.String()), "\n")
	return strings.TrimSpace(line)
}
