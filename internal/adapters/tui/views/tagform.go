package views

import (
	"context"
	"fmt"
	"strconv"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"tourtags/internal/adapters/tui/styles"
	"tourtags/internal/application/commands"
	"tourtags/internal/ports"
)

// TagFormModel asks for a tag id and attaches it to, or removes it from,
// the tours of the target
type TagFormModel struct {
	ViewState
	store  ports.TourStore
	form   *InputForm
	target Target
	remove bool
}

// NewTagFormModel creates a new tag form model
func NewTagFormModel(store ports.TourStore) *TagFormModel {
	return &TagFormModel{
		store: store,
		form:  NewInputForm("Tag ID", "e.g. 3", 12),
	}
}

// SetTarget prepares the form for a selection. Removal is prefilled with the
// nearest tag above the selection.
func (m *TagFormModel) SetTarget(t Target, remove bool) {
	m.target = t
	m.remove = remove
	m.ClearMessage()

	value := ""
	if remove && t.TagID > 0 {
		value = strconv.FormatInt(t.TagID, 10)
	}
	m.form.Reset(value)
}

// Init initializes the tag form
func (m *TagFormModel) Init() tea.Cmd {
	return m.form.Init()
}

// Update handles messages for the tag form
func (m *TagFormModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.SetSize(msg.Width, msg.Height)
		return m, nil

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, m.form.Keys.Cancel):
			return m, func() tea.Msg { return SwitchToBrowserMsg{} }
		case key.Matches(msg, m.form.Keys.Submit):
			tagID, err := strconv.ParseInt(m.form.Value(), 10, 64)
			if err != nil || tagID <= 0 {
				m.SetMessage(fmt.Sprintf("invalid tag ID %q", m.form.Value()), true)
				return m, nil
			}
			return m, m.submit(tagID)
		}
	}

	return m, m.form.Update(msg)
}

func (m *TagFormModel) submit(tagID int64) tea.Cmd {
	target, remove := m.target, m.remove
	return func() tea.Msg {
		c := commands.NewTagToursCommand(m.store, tagID, target.TourIDs)
		if remove {
			c = commands.NewUntagToursCommand(m.store, tagID, target.TourIDs)
		}
		result, err := c.Execute(context.Background())
		if err != nil {
			return ErrMsg{Err: err}
		}
		return EventMsg{Event: result.Event, Message: result.Message}
	}
}

// View renders the tag form
func (m *TagFormModel) View() string {
	title, action := "Tag Tours", "Tag every tour below"
	if m.remove {
		title, action = "Untag Tours", "Untag every tour below"
	}

	v := NewViewBuilder().
		Title(title).
		Line(RenderTarget(m.target, action)).
		BlankLine().
		Line(m.form.Render()).
		BlankLine().
		Message(m.Message, m.MessageErr).
		Raw(m.form.RenderHelp("apply"))

	if len(m.target.TourIDs) == 0 {
		v.BlankLine().Raw(styles.WarningMsg.Render("No tours selected."))
	}
	return v.String()
}
