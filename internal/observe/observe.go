// Package observe provides structured event logging for the wizard, the
// creation service and the HTTP server.
package observe

import (
	"fmt"
	"log"
	"sort"
	"strings"
	"time"
)

// Observer receives log lines and structured events.
type Observer interface {
	Printf(format string, v ...interface{})

	// Event emits a structured event.
	Event(event Event)

	// WithFields returns a new Observer with additional context fields.
	WithFields(fields map[string]string) Observer
}

// Event is a structured wizard or service event.
type Event struct {
	Type      EventType
	Step      string // wizard step name, if applicable
	Message   string
	Resource  string // wizard session or property id
	Timestamp time.Time
	Fields    map[string]string
}

// EventType identifies the kind of event.
type EventType string

const (
	// EventStepChanged indicates the wizard moved to another step.
	EventStepChanged EventType = "wizard.step"
	// EventValidationFailed indicates a step or the draft failed validation.
	EventValidationFailed EventType = "wizard.validation_failed"
	// EventWizardClosed indicates the wizard was discarded or completed.
	EventWizardClosed EventType = "wizard.closed"

	// EventUploadRejected indicates a photo or photo batch was rejected.
	EventUploadRejected EventType = "upload.rejected"
	// EventPhotoAdded indicates a photo was accepted.
	EventPhotoAdded EventType = "upload.accepted"

	EventSubmissionStarted   EventType = "submission.started"
	EventSubmissionSucceeded EventType = "submission.succeeded"
	EventSubmissionFailed    EventType = "submission.failed"

	// EventSessionOpened indicates a server wizard session was created.
	EventSessionOpened EventType = "session.opened"
	// EventSessionExpired indicates an idle session was swept.
	EventSessionExpired EventType = "session.expired"

	// EventPropertyCreated indicates a property was persisted.
	EventPropertyCreated EventType = "property.created"
	// EventPublishFailed indicates a creation event could not be published.
	EventPublishFailed EventType = "property.publish_failed"
)

// ConsoleObserver implements Observer using the standard log package.
type ConsoleObserver struct {
	contextFields map[string]string
}

// NewConsoleObserver creates a console-based observer.
func NewConsoleObserver() *ConsoleObserver {
	return &ConsoleObserver{contextFields: make(map[string]string)}
}

// Printf implements Observer.
func (o *ConsoleObserver) Printf(format string, v ...interface{}) {
	log.Printf(format, v...)
}

// Event implements Observer.
func (o *ConsoleObserver) Event(event Event) {
	if event.Timestamp.IsZero() {
		event.Timestamp = time.Now()
	}
	event.Fields = mergeFields(o.contextFields, event.Fields)
	log.Print(formatEvent(event))
}

// WithFields implements Observer.
func (o *ConsoleObserver) WithFields(fields map[string]string) Observer {
	return &ConsoleObserver{contextFields: mergeFields(o.contextFields, fields)}
}

// Nop discards everything.
type Nop struct{}

func (Nop) Printf(string, ...interface{}) {}

func (Nop) Event(Event) {}

func (n Nop) WithFields(map[string]string) Observer { return n }

// mergeFields copies base and overlays extra; keys already in extra win.
func mergeFields(base, extra map[string]string) map[string]string {
	out := make(map[string]string, len(base)+len(extra))
	for k, v := range base {
		out[k] = v
	}
	for k, v := range extra {
		out[k] = v
	}
	return out
}

func formatEvent(event Event) string {
	parts := []string{string(event.Type)}
	if event.Step != "" {
		parts = append(parts, fmt.Sprintf("[%s]", event.Step))
	}
	if event.Resource != "" {
		parts = append(parts, fmt.Sprintf("resource=%s", event.Resource))
	}
	parts = append(parts, event.Message)

	if len(event.Fields) > 0 {
		keys := make([]string, 0, len(event.Fields))
		for k := range event.Fields {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		fieldParts := make([]string, 0, len(keys))
		for _, k := range keys {
			fieldParts = append(fieldParts, fmt.Sprintf("%s=%s", k, event.Fields[k]))
		}
		parts = append(parts, fmt.Sprintf("(%s)", strings.Join(fieldParts, ", ")))
	}
	return strings.Join(parts, " ")
}
