package asr

import (
	"context"
	"errors"
	"fmt"
	"time"

	"orchive/internal/services"
)

// WithTimeout bounds every call to t by d. A zero or negative d returns t
// unchanged. A call that exceeds d fails with an error marked
// services.ErrTimeout.
func WithTimeout(t Transcriber, d time.Duration) Transcriber {
	if d <= 0 {
		return t
	}
	return &boundedTranscriber{next: t, timeout: d}
}

type boundedTranscriber struct {
	next    Transcriber
	timeout time.Duration
}

func (b *boundedTranscriber) Transcribe(ctx context.Context, audioPath string) (string, error) {
	callCtx, cancel := context.WithTimeout(ctx, b.timeout)
	defer cancel()

	text, err := b.next.Transcribe(callCtx, audioPath)
	if err != nil && errors.Is(callCtx.Err(), context.DeadlineExceeded) && ctx.Err() == nil {
		return "", services.Wrap(
			services.ErrTimeout,
			"transcribe",
			"asr call",
			fmt.Sprintf("no result after %s", b.timeout),
			err,
		)
	}
	return text, err
}
