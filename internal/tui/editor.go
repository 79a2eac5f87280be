// Package tui provides the Bubble Tea views of notesync: an autosaving
// editor and an incrementally searched browser.
package tui

import (
	"context"
	"strings"
	"time"

	"github.com/at-ishikawa/notesync/internal/entity"
	"github.com/at-ishikawa/notesync/internal/savestatus"
	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textarea"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
)

// Session is the part of an autosave session the editor drives.
type Session interface {
	ID() string
	Set(field, value string) error
	Save() error
	Delete(ctx context.Context) error
	Draft() entity.Fields
	Status() savestatus.Snapshot
}

// Field describes one editable input.
type Field struct {
	Name      string
	Label     string
	Multiline bool
}

var NoteFields = []Field{
	{Name: entity.FieldTitle, Label: "Title"},
	{Name: entity.FieldContent, Label: "Content", Multiline: true},
	{Name: entity.FieldTags, Label: "Tags"},
}

var BookmarkFields = []Field{
	{Name: entity.FieldTitle, Label: "Title"},
	{Name: entity.FieldURL, Label: "URL"},
	{Name: entity.FieldTags, Label: "Tags"},
	{Name: entity.FieldStatus, Label: "Status"},
}

const statusTick = 200 * time.Millisecond

type fieldInput struct {
	spec  Field
	input textinput.Model
	area  textarea.Model
}

func (f fieldInput) value() string {
	if f.spec.Multiline {
		return f.area.Value()
	}
	return f.input.Value()
}

func (f *fieldInput) setValue(value string) {
	if f.spec.Multiline {
		f.area.SetValue(value)
		return
	}
	f.input.SetValue(value)
}

// EditorResult is what the editor ended with.
type EditorResult struct {
	Deleted bool
	Err     error
}

// Editor edits the fields of one entity through an autosave session. Every
// change goes to the session immediately; persisting is the session's job.
type Editor struct {
	ctx        context.Context
	session    Session
	fields     []fieldInput
	sent       map[string]string
	focus      int
	confirming bool
	deleting   bool
	status     savestatus.Snapshot
	result     EditorResult
	keys       keyMap
	styles     styles
	help       help.Model
}

func NewEditor(ctx context.Context, session Session, fields []Field) Editor {
	draft := session.Draft()
	inputs := make([]fieldInput, len(fields))
	sent := make(map[string]string, len(fields))
	for i, spec := range fields {
		sent[spec.Name] = draft.Get(spec.Name)
		f := fieldInput{spec: spec}
		if spec.Multiline {
			f.area = textarea.New()
			f.area.ShowLineNumbers = false
			f.area.SetValue(draft.Get(spec.Name))
		} else {
			f.input = textinput.New()
			f.input.Prompt = ""
			f.input.Placeholder = spec.Label
			f.input.SetValue(draft.Get(spec.Name))
		}
		inputs[i] = f
	}

	e := Editor{
		ctx:     ctx,
		session: session,
		fields:  inputs,
		sent:    sent,
		status:  session.Status(),
		keys:    defaultKeyMap(),
		styles:  defaultStyles(),
		help:    help.New(),
	}
	e.focusField(0)
	return e
}

func (e Editor) Init() tea.Cmd {
	return tea.Batch(textinput.Blink, statusTickCmd())
}

type statusTickMsg time.Time

type deletedMsg struct {
	err error
}

func statusTickCmd() tea.Cmd {
	return tea.Tick(statusTick, func(t time.Time) tea.Msg {
		return statusTickMsg(t)
	})
}

func (e Editor) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case statusTickMsg:
		e.syncDrafts()
		e.status = e.session.Status()
		return e, statusTickCmd()

	case deletedMsg:
		e.deleting = false
		if msg.err != nil {
			e.result.Err = msg.err
			return e, nil
		}
		e.result = EditorResult{Deleted: true}
		return e, tea.Quit

	case tea.WindowSizeMsg:
		for i := range e.fields {
			if e.fields[i].spec.Multiline {
				e.fields[i].area.SetWidth(msg.Width)
			} else {
				e.fields[i].input.Width = msg.Width - 12
			}
		}
		e.help.Width = msg.Width
		return e, nil

	case tea.KeyMsg:
		return e.handleKey(msg)
	}
	return e.updateFocused(msg)
}

func (e Editor) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if e.confirming {
		switch {
		case key.Matches(msg, e.keys.Confirm):
			e.confirming = false
			e.deleting = true
			e.result.Err = nil
			return e, e.deleteCmd()
		case key.Matches(msg, e.keys.Cancel):
			e.confirming = false
		}
		return e, nil
	}

	switch {
	case key.Matches(msg, e.keys.Quit):
		return e, tea.Quit
	case key.Matches(msg, e.keys.Next):
		cmd := e.focusField((e.focus + 1) % len(e.fields))
		return e, cmd
	case key.Matches(msg, e.keys.Prev):
		cmd := e.focusField((e.focus - 1 + len(e.fields)) % len(e.fields))
		return e, cmd
	case key.Matches(msg, e.keys.Save):
		e.result.Err = e.session.Save()
		e.status = e.session.Status()
		return e, nil
	case key.Matches(msg, e.keys.Delete):
		if !e.deleting {
			e.confirming = true
		}
		return e, nil
	}
	return e.updateFocused(msg)
}

// updateFocused forwards msg to the focused input and reports a changed
// value to the session.
func (e Editor) updateFocused(msg tea.Msg) (tea.Model, tea.Cmd) {
	if len(e.fields) == 0 {
		return e, nil
	}
	f := &e.fields[e.focus]
	before := f.value()

	var cmd tea.Cmd
	if f.spec.Multiline {
		f.area, cmd = f.area.Update(msg)
	} else {
		f.input, cmd = f.input.Update(msg)
	}

	if after := f.value(); after != before {
		e.result.Err = e.session.Set(f.spec.Name, after)
		if e.result.Err == nil {
			e.sent[f.spec.Name] = after
		}
		e.status = e.session.Status()
	}
	return e, cmd
}

// syncDrafts shows values the session took from the server. sent holds the
// last value of each field handed to the session; a field the user edited
// since then keeps its text.
func (e *Editor) syncDrafts() {
	draft := e.session.Draft()
	for i := range e.fields {
		f := &e.fields[i]
		name := f.spec.Name
		latest, ok := draft[name]
		if !ok || latest == e.sent[name] || f.value() != e.sent[name] {
			continue
		}
		f.setValue(latest)
		e.sent[name] = latest
	}
}

func (e *Editor) focusField(index int) tea.Cmd {
	if len(e.fields) == 0 {
		return nil
	}
	current := &e.fields[e.focus]
	if current.spec.Multiline {
		current.area.Blur()
	} else {
		current.input.Blur()
	}

	e.focus = index
	next := &e.fields[index]
	if next.spec.Multiline {
		return next.area.Focus()
	}
	return next.input.Focus()
}

func (e Editor) deleteCmd() tea.Cmd {
	ctx, session := e.ctx, e.session
	return func() tea.Msg {
		return deletedMsg{err: session.Delete(ctx)}
	}
}

func (e Editor) View() string {
	var b strings.Builder
	b.WriteString(e.styles.Title.Render("Editing " + e.session.ID()))
	b.WriteString("\n")

	for i, f := range e.fields {
		label := e.styles.Label
		if i == e.focus {
			label = e.styles.Focused
		}
		b.WriteString(label.Render(f.spec.Label))
		b.WriteString("\n")
		if f.spec.Multiline {
			b.WriteString(f.area.View())
		} else {
			b.WriteString(f.input.View())
		}
		b.WriteString("\n\n")
	}

	switch {
	case e.confirming:
		b.WriteString(e.styles.Danger.Render("Delete this item? (y/n)"))
	case e.deleting:
		b.WriteString(e.styles.Muted.Render("Deleting..."))
	case e.result.Err != nil:
		b.WriteString(e.styles.Danger.Render(e.result.Err.Error()))
	default:
		b.WriteString(e.styles.status(e.status))
	}
	b.WriteString("\n")
	b.WriteString(e.help.View(editorHelp(e.keys)))
	return b.String()
}

// Result returns how the editor ended.
func (e Editor) Result() EditorResult {
	return e.result
}

// RunEditor runs the editor until the user closes it or deletes the entity.
func RunEditor(ctx context.Context, session Session, fields []Field) (EditorResult, error) {
	final, err := tea.NewProgram(NewEditor(ctx, session, fields), tea.WithAltScreen(), tea.WithContext(ctx)).Run()
	if err != nil {
		return EditorResult{}, err
	}
	return final.(Editor).Result(), nil
}
