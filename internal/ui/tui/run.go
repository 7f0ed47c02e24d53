package tui

import (
	"context"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/imamik/rentwise/internal/property"
)

// RunSubmit shows m while submit runs. When relay is non-nil it feeds the
// program for the duration of the call. Closing the display early does not
// cancel the submission; RunSubmit still waits for its result.
func RunSubmit(
	ctx context.Context,
	m Model,
	relay *Relay,
	submit func(ctx context.Context) (*property.Created, error),
	opts ...tea.ProgramOption,
) (*property.Created, error) {
	p := tea.NewProgram(m, append([]tea.ProgramOption{tea.WithContext(ctx)}, opts...)...)

	if relay != nil {
		relay.Attach(p.Send)
		defer relay.Detach()
	}

	var (
		created   *property.Created
		submitErr error
		done      = make(chan struct{})
	)
	go func() {
		defer close(done)
		created, submitErr = submit(ctx)
		if submitErr != nil {
			p.Send(ErrMsg{Err: submitErr})
			return
		}
		p.Send(DoneMsg{Created: created})
	}()

	_, runErr := p.Run()
	<-done

	if submitErr != nil {
		return nil, submitErr
	}
	if created == nil && runErr != nil {
		return nil, fmt.Errorf("TUI error: %w", runErr)
	}
	return created, nil
}
