package events

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
)

type EventType string

const (
	EventInfo    EventType = "info"
	EventWarn    EventType = "warn"
	EventSuccess EventType = "success"
	EventError   EventType = "error"
)

const (
	WizardTransition = "event:wizard:transition"
	WizardReset      = "event:wizard:reset"
	BackendRequest   = "event:backend:request"
	LLMGenerate      = "event:llm:generate"
)

// WizardEvent is one entry of the event stream: a step change, a backend
// call outcome or a model invocation.
type WizardEvent struct {
	ID         string            `json:"id"`
	Type       EventType         `json:"type"`
	Message    string            `json:"message"`
	Timestamp  time.Time         `json:"timestamp"`
	SessionKey string            `json:"sessionKey,omitempty"`
	Metadata   map[string]string `json:"metadata,omitempty"`
}

type contextKey string

const sessionContextKey contextKey = "rmgen/events/session"

// WithSession returns a derived context annotated with the given session key
// so emitters can scope payloads without threading it through every call.
func WithSession(ctx context.Context, sessionKey string) context.Context {
	if strings.TrimSpace(sessionKey) == "" {
		return ctx
	}
	return context.WithValue(ctx, sessionContextKey, sessionKey)
}

// SessionFromContext extracts the session key associated with ctx.
func SessionFromContext(ctx context.Context) string {
	if ctx == nil {
		return ""
	}
	if v, ok := ctx.Value(sessionContextKey).(string); ok {
		return v
	}
	return ""
}

func CreateEvent(eventType EventType, message string) WizardEvent {
	return WizardEvent{
		ID:        uuid.NewString(),
		Type:      eventType,
		Message:   message,
		Timestamp: time.Now(),
	}
}

// NewInfo creates an info event.
func NewInfo(message string) WizardEvent {
	return CreateEvent(EventInfo, message)
}

// NewWarn creates a warn event.
func NewWarn(message string) WizardEvent {
	return CreateEvent(EventWarn, message)
}

// NewError creates an error event.
func NewError(message string) WizardEvent {
	return CreateEvent(EventError, message)
}

// NewSuccess creates a success event.
func NewSuccess(message string) WizardEvent {
	return CreateEvent(EventSuccess, message)
}

// WithMetadata returns a copy of e carrying the given key/value pair.
func (e WizardEvent) WithMetadata(key, value string) WizardEvent {
	md := make(map[string]string, len(e.Metadata)+1)
	for k, v := range e.Metadata {
		md[k] = v
	}
	md[key] = value
	e.Metadata = md
	return e
}
