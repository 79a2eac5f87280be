package tui

import (
	"github.com/at-ishikawa/notesync/internal/savestatus"
	"github.com/charmbracelet/lipgloss"
)

type styles struct {
	Title    lipgloss.Style
	Label    lipgloss.Style
	Focused  lipgloss.Style
	Muted    lipgloss.Style
	Selected lipgloss.Style
	Danger   lipgloss.Style
	Status   map[savestatus.State]lipgloss.Style
}

func defaultStyles() styles {
	return styles{
		Title: lipgloss.NewStyle().
			Foreground(lipgloss.Color("#bd93f9")).
			Bold(true).
			MarginBottom(1),
		Label: lipgloss.NewStyle().
			Foreground(lipgloss.Color("#6272a4")),
		Focused: lipgloss.NewStyle().
			Foreground(lipgloss.Color("#8be9fd")).
			Bold(true),
		Muted: lipgloss.NewStyle().
			Foreground(lipgloss.Color("#6272a4")),
		Selected: lipgloss.NewStyle().
			Foreground(lipgloss.Color("#282a36")).
			Background(lipgloss.Color("#8be9fd")),
		Danger: lipgloss.NewStyle().
			Foreground(lipgloss.Color("#ff5555")).
			Bold(true),
		Status: map[savestatus.State]lipgloss.Style{
			savestatus.StatePending: lipgloss.NewStyle().Foreground(lipgloss.Color("#f1fa8c")),
			savestatus.StateSaving:  lipgloss.NewStyle().Foreground(lipgloss.Color("#8be9fd")),
			savestatus.StateSaved:   lipgloss.NewStyle().Foreground(lipgloss.Color("#50fa7b")),
			savestatus.StateError:   lipgloss.NewStyle().Foreground(lipgloss.Color("#ff5555")).Bold(true),
		},
	}
}

// status renders the save-status line.
func (s styles) status(snapshot savestatus.Snapshot) string {
	text := snapshot.Text()
	if snapshot.State == savestatus.StateError && snapshot.LastError != "" {
		text += ": " + snapshot.LastError
	}
	style, ok := s.Status[snapshot.State]
	if !ok {
		return s.Muted.Render(text)
	}
	return style.Render(text)
}
