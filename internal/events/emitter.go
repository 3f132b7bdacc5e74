package events

import (
	"context"
	"encoding/json"
	"log"
)

// Emit publishes an event. It logs by default; tests swap it out with
// SetCustomEmitter.
var Emit = defaultEmit

func defaultEmit(ctx context.Context, name string, evt WizardEvent) {
	logEvent(name, scoped(ctx, evt))
}

func scoped(ctx context.Context, evt WizardEvent) WizardEvent {
	if evt.SessionKey == "" {
		if session := SessionFromContext(ctx); session != "" {
			evt.SessionKey = session
		}
	}
	return evt
}

// SetCustomEmitter replaces Emit. A nil f silences events; ResetEmitter
// restores logging.
func SetCustomEmitter(f func(ctx context.Context, name string, evt WizardEvent)) {
	if f == nil {
		Emit = func(context.Context, string, WizardEvent) {}
		return
	}
	Emit = func(ctx context.Context, name string, evt WizardEvent) {
		f(ctx, name, scoped(ctx, evt))
	}
}

// ResetEmitter restores the logging emitter.
func ResetEmitter() {
	Emit = defaultEmit
}

func logEvent(name string, event WizardEvent) {
	data, err := json.Marshal(event)
	if err != nil {
		log.Printf("events: failed to marshal %s event: %v", name, err)
		return
	}
	switch event.Type {
	case EventError:
		log.Printf("ERROR %s %s", name, data)
	case EventWarn:
		log.Printf("WARN %s %s", name, data)
	default:
		log.Printf("INFO %s %s", name, data)
	}
}
