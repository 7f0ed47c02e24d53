package tui

import (
	"sync"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/imamik/rentwise/internal/observe"
)

// Relay is an observe.Observer that forwards to a base observer and, while
// a program is attached, turns submission events into progress messages.
type Relay struct {
	base observe.Observer
	hub  *hub
}

type hub struct {
	mu   sync.Mutex
	send func(tea.Msg)
}

// NewRelay wraps base.
func NewRelay(base observe.Observer) *Relay {
	if base == nil {
		base = observe.Nop{}
	}
	return &Relay{base: base, hub: &hub{}}
}

// Attach starts forwarding events to send.
func (r *Relay) Attach(send func(tea.Msg)) {
	r.hub.mu.Lock()
	defer r.hub.mu.Unlock()
	r.hub.send = send
}

// Detach stops forwarding.
func (r *Relay) Detach() {
	r.Attach(nil)
}

// Printf implements observe.Observer.
func (r *Relay) Printf(format string, v ...interface{}) {
	r.base.Printf(format, v...)
}

// Event implements observe.Observer.
func (r *Relay) Event(event observe.Event) {
	r.base.Event(event)

	msg := eventMsg(event)
	if msg == nil {
		return
	}
	r.hub.mu.Lock()
	send := r.hub.send
	r.hub.mu.Unlock()
	if send != nil {
		send(msg)
	}
}

// WithFields implements observe.Observer. Children share the attachment.
func (r *Relay) WithFields(fields map[string]string) observe.Observer {
	return &Relay{base: r.base.WithFields(fields), hub: r.hub}
}

func eventMsg(e observe.Event) tea.Msg {
	switch e.Type {
	case observe.EventSubmissionStarted:
		return PhaseMsg{Phase: PhaseValidate, Done: true}
	case observe.EventPropertyCreated:
		return PhaseMsg{Phase: PhaseCreate, Done: true}
	case observe.EventPublishFailed:
		return WarningMsg{Text: "listing event not published: " + e.Message}
	default:
		return nil
	}
}
