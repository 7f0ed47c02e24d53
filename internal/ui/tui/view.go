package tui

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
)

func renderView(m Model) string {
	sections := []string{header(m), card(m)}
	if m.Created != nil {
		sections = append(sections, result(m))
	}
	sections = append(sections, footer(m))
	return lipgloss.JoinVertical(lipgloss.Left, sections...) + "\n"
}

func header(m Model) string {
	title := "rentwise: " + m.PropertyName
	if m.Target != "" {
		title += " (" + m.Target + ")"
	}

	var state string
	switch {
	case m.Done:
		state = okStyle.Render("Created")
	case m.Err != nil:
		state = errStyle.Render("Failed: " + m.Err.Error())
	default:
		state = boldStyle.Render(spinner(m.SpinnerFrame) + " Submitting")
	}
	return brandStyle.Render(title) + "  " + state
}

// card lists the submission phases followed by any warnings.
func card(m Model) string {
	lines := make([]string, 0, len(m.Phases)+len(m.Warnings))
	for _, p := range m.Phases {
		lines = append(lines, phaseLine(p, m.SpinnerFrame))
	}
	for _, w := range m.Warnings {
		lines = append(lines, noteStyle.Render(glyphNote+" "+w))
	}
	return cardStyle.Render(strings.Join(lines, "\n"))
}

func phaseLine(p Phase, frame int) string {
	switch p.State {
	case PhaseFailed:
		return errStyle.Render(glyphFailed + " " + p.Name)
	case PhaseDone:
		return okStyle.Render(glyphDone) + " " + p.Name
	case PhaseRunning:
		return boldStyle.Render(spinner(frame) + " " + p.Name)
	default:
		return mutedStyle.Render(glyphWaiting + " " + p.Name)
	}
}

func result(m Model) string {
	rows := []string{labelStyle.Render("id") + m.Created.ID}
	for i, u := range m.Created.PhotoURLs {
		rows = append(rows, labelStyle.Render("photo "+strconv.Itoa(i+1))+mutedStyle.Render(u))
	}
	return strings.Join(rows, "\n")
}

func footer(m Model) string {
	text := "elapsed " + formatElapsed(time.Since(m.StartTime))
	if !m.Done && m.Err == nil {
		text += " · ctrl+c stops watching, the submission keeps running"
	}
	return mutedStyle.Render(text)
}

func spinner(frame int) string {
	if frame < 0 {
		frame = -frame
	}
	return spinnerFrames[frame%len(spinnerFrames)]
}

// formatElapsed shows tenths of a second below a minute.
func formatElapsed(d time.Duration) string {
	switch {
	case d < time.Minute:
		return fmt.Sprintf("%.1fs", d.Round(100*time.Millisecond).Seconds())
	case d < time.Hour:
		d = d.Round(time.Second)
		return fmt.Sprintf("%dm%02ds", int(d.Minutes()), int(d.Seconds())%60)
	default:
		d = d.Round(time.Minute)
		return fmt.Sprintf("%dh%02dm", int(d.Hours()), int(d.Minutes())%60)
	}
}
