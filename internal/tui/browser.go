package tui

import (
	"fmt"
	"strings"
	"time"

	"github.com/at-ishikawa/notesync/internal/entity"
	"github.com/at-ishikawa/notesync/internal/search"
	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
)

// Item is an entity the browser can list and search.
type Item interface {
	entity.Entity
	entity.Searchable
}

const browserRefresh = 100 * time.Millisecond

// Browser lists a collection under a search box. The query is applied once
// typing pauses; enter applies it at once and picks the highlighted entry.
type Browser[E Item] struct {
	box    *search.Box[E]
	items  func() []E
	label  func(E) string
	input  textinput.Model
	cursor int
	height int
	picked string
	keys   keyMap
	styles styles
	help   help.Model
}

// NewBrowser creates a browser over items, which is read on every render so
// the list follows the collection as it changes.
func NewBrowser[E Item](box *search.Box[E], items func() []E, label func(E) string) Browser[E] {
	input := textinput.New()
	input.Prompt = "/ "
	input.Placeholder = "Search"
	input.SetValue(box.Query())
	input.Focus()

	return Browser[E]{
		box:    box,
		items:  items,
		label:  label,
		input:  input,
		height: 20,
		keys:   defaultKeyMap(),
		styles: defaultStyles(),
		help:   help.New(),
	}
}

type refreshMsg time.Time

func refreshCmd() tea.Cmd {
	return tea.Tick(browserRefresh, func(t time.Time) tea.Msg {
		return refreshMsg(t)
	})
}

func (b Browser[E]) Init() tea.Cmd {
	return tea.Batch(textinput.Blink, refreshCmd())
}

func (b Browser[E]) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case refreshMsg:
		b.clampCursor()
		return b, refreshCmd()

	case tea.WindowSizeMsg:
		b.height = max(msg.Height-6, 1)
		b.help.Width = msg.Width
		return b, nil

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, b.keys.Quit):
			return b, tea.Quit
		case key.Matches(msg, b.keys.Up):
			if b.cursor > 0 {
				b.cursor--
			}
			return b, nil
		case key.Matches(msg, b.keys.Down):
			if b.cursor < len(b.Visible())-1 {
				b.cursor++
			}
			return b, nil
		case key.Matches(msg, b.keys.Pick):
			b.box.Apply()
			b.clampCursor()
			if visible := b.Visible(); len(visible) > 0 {
				b.picked = visible[b.cursor].EntityID()
				return b, tea.Quit
			}
			return b, nil
		}
	}

	before := b.input.Value()
	var cmd tea.Cmd
	b.input, cmd = b.input.Update(msg)
	if after := b.input.Value(); after != before {
		b.box.SetQuery(after)
		b.cursor = 0
	}
	return b, cmd
}

// Visible returns the entries matching the applied query.
func (b Browser[E]) Visible() []E {
	return b.box.Visible(b.items())
}

func (b *Browser[E]) clampCursor() {
	if n := len(b.Visible()); b.cursor >= n {
		b.cursor = max(n-1, 0)
	}
}

func (b Browser[E]) View() string {
	var sb strings.Builder
	sb.WriteString(b.input.View())
	sb.WriteString("\n\n")

	visible := b.Visible()
	if len(visible) == 0 {
		sb.WriteString(b.styles.Muted.Render("No matches"))
		sb.WriteString("\n")
	}
	start := 0
	if b.cursor >= b.height {
		start = b.cursor - b.height + 1
	}
	for i := start; i < len(visible) && i < start+b.height; i++ {
		line := b.label(visible[i])
		if i == b.cursor {
			sb.WriteString(b.styles.Selected.Render("> " + line))
		} else {
			sb.WriteString("  " + line)
		}
		sb.WriteString("\n")
	}

	sb.WriteString(b.styles.Muted.Render(fmt.Sprintf("%d of %d", len(visible), len(b.items()))))
	sb.WriteString("\n")
	sb.WriteString(b.help.View(browserHelp(b.keys)))
	return sb.String()
}

// Picked returns the id chosen with enter, or "" when the browser was closed.
func (b Browser[E]) Picked() string {
	return b.picked
}

// RunBrowser shows the browser and returns the picked id.
func RunBrowser[E Item](box *search.Box[E], items func() []E, label func(E) string) (string, error) {
	final, err := tea.NewProgram(NewBrowser(box, items, label), tea.WithAltScreen()).Run()
	if err != nil {
		return "", err
	}
	return final.(Browser[E]).Picked(), nil
}

func NoteLabel(note entity.Note) string {
	title := note.Title
	if title == "" {
		title = "Untitled"
	}
	if tags := note.TagList(); len(tags) > 0 {
		return fmt.Sprintf("%s  [%s]", title, strings.Join(tags, ", "))
	}
	return title
}

func BookmarkLabel(bookmark entity.Bookmark) string {
	title := bookmark.Title
	if title == "" {
		title = bookmark.URL
	}
	return fmt.Sprintf("%s  (%s)", title, bookmark.Status)
}
