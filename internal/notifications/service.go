package notifications

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"orchive/internal/config"
)

const userAgent = "orchive/0.1"

// Event names a run milestone worth alerting on.
type Event string

const (
	EventRunCompleted        Event = "run_completed"
	EventRunFailed           Event = "run_failed"
	EventAnnotationCompleted Event = "annotation_completed"
	EventTest                Event = "test"
)

// Payload carries event fields. Missing keys render as empty.
type Payload map[string]any

// Service defines the notification surface exposed to the workflow.
type Service interface {
	Publish(ctx context.Context, event Event, payload Payload) error
}

// NewService builds a notifier backed by ntfy when a topic is configured.
func NewService(cfg *config.Config) Service {
	if cfg == nil {
		return noopService{}
	}
	topic := strings.TrimSpace(cfg.Notifications.NtfyTopic)
	if topic == "" {
		return noopService{}
	}
	return &ntfyService{
		endpoint: topic,
		client:   &http.Client{Timeout: cfg.NotificationTimeout()},
	}
}

type message struct {
	title    string
	body     string
	tags     []string
	priority string
}

type ntfyService struct {
	endpoint string
	client   *http.Client
}

func (n *ntfyService) Publish(ctx context.Context, event Event, payload Payload) error {
	msg, ok := format(event, payload)
	if !ok {
		return nil
	}
	return n.send(ctx, msg)
}

func format(event Event, payload Payload) (message, bool) {
	switch event {
	case EventRunCompleted:
		status := text(payload, "status")
		files := number(payload, "files")
		failed := number(payload, "failed")
		elapsed := duration(payload, "elapsed")
		body := fmt.Sprintf("Transcribed %d files in %s", files, elapsed)
		if failed > 0 {
			body = fmt.Sprintf("Transcribed %d files, %d failed, in %s", files-failed, failed, elapsed)
		}
		if dir := text(payload, "runDir"); dir != "" {
			body += "\nRun: " + dir
		}
		msg := message{
			title: "Orchive - Run Complete",
			body:  body,
			tags:  []string{"orchive", "run", "completed"},
		}
		if status != "" && status != "completed" {
			msg.title = fmt.Sprintf("Orchive - Run %s", titleCase(status))
			msg.tags = []string{"orchive", "run", status}
		}
		return msg, true
	case EventRunFailed:
		cause := text(payload, "error")
		if cause == "" {
			cause = "unknown"
		}
		body := "❌ Transcription run failed: " + cause
		if dir := text(payload, "runDir"); dir != "" {
			body += "\nRun: " + dir
		}
		return message{
			title:    "Orchive - Run Failed",
			body:     body,
			tags:     []string{"orchive", "run", "error"},
			priority: "high",
		}, true
	case EventAnnotationCompleted:
		return message{
			title: "Orchive - Annotated",
			body: fmt.Sprintf("Annotated %d transcripts (%d with matriline codes, %d mentioning transients)",
				number(payload, "transcripts"), number(payload, "withCodes"), number(payload, "transients")),
			tags: []string{"orchive", "annotate", "completed"},
		}, true
	case EventTest:
		return message{
			title:    "Orchive - Test",
			body:     "🧪 Notification system test",
			tags:     []string{"orchive", "test"},
			priority: "low",
		}, true
	default:
		return message{}, false
	}
}

func (n *ntfyService) send(ctx context.Context, msg message) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, n.endpoint, strings.NewReader(msg.body))
	if err != nil {
		return fmt.Errorf("build ntfy request: %w", err)
	}
	req.Header.Set("User-Agent", userAgent)
	req.Header.Set("Content-Type", "text/plain; charset=utf-8")
	if msg.title != "" {
		req.Header.Set("Title", msg.title)
	}
	if len(msg.tags) > 0 {
		req.Header.Set("Tags", strings.Join(msg.tags, ","))
	}
	if msg.priority != "" && msg.priority != "default" {
		req.Header.Set("Priority", msg.priority)
	}

	resp, err := n.client.Do(req)
	if err != nil {
		return fmt.Errorf("send ntfy notification: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 2048))
		return fmt.Errorf("ntfy returned %d: %s", resp.StatusCode, strings.TrimSpace(string(body)))
	}
	_, _ = io.Copy(io.Discard, resp.Body)
	return nil
}

func text(payload Payload, key string) string {
	switch v := payload[key].(type) {
	case string:
		return strings.TrimSpace(v)
	case fmt.Stringer:
		return strings.TrimSpace(v.String())
	case nil:
		return ""
	default:
		return fmt.Sprint(v)
	}
}

func number(payload Payload, key string) int {
	switch v := payload[key].(type) {
	case int:
		return v
	case int64:
		return int(v)
	default:
		return 0
	}
}

func duration(payload Payload, key string) string {
	d, _ := payload[key].(time.Duration)
	d = d.Round(time.Second)
	if d <= 0 {
		return "0s"
	}
	return d.String()
}

func titleCase(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}

type noopService struct{}

func (noopService) Publish(context.Context, Event, Payload) error { return nil }
