// Package notifications publishes run events to ntfy.
//
// NewService returns a no-op Service when no topic is configured, so callers
// publish unconditionally. Events carry a loose Payload map; the ntfy
// implementation shapes each event into a title, tags, and a plain-text body.
package notifications
