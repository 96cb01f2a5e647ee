package views

import (
	"context"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"tourtags/internal/application/commands"
	"tourtags/internal/ports"
)

// RetitleModel edits the title of one tour
type RetitleModel struct {
	ViewState
	store  ports.TourStore
	form   *InputForm
	target Target
}

// NewRetitleModel creates a new retitle model
func NewRetitleModel(store ports.TourStore) *RetitleModel {
	return &RetitleModel{
		store: store,
		form:  NewInputForm("Title", "tour title", 120),
	}
}

// SetTarget prepares the form with the tour's current title
func (m *RetitleModel) SetTarget(t Target) {
	m.target = t
	m.ClearMessage()
	m.form.Reset(t.Name)
}

// Init initializes the retitle view
func (m *RetitleModel) Init() tea.Cmd {
	return m.form.Init()
}

// Update handles messages for the retitle view
func (m *RetitleModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.SetSize(msg.Width, msg.Height)
		return m, nil

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, m.form.Keys.Cancel):
			return m, func() tea.Msg { return SwitchToBrowserMsg{} }
		case key.Matches(msg, m.form.Keys.Submit):
			if m.form.Value() == "" {
				m.SetMessage("title is required", true)
				return m, nil
			}
			return m, m.submit(m.target.Key.ID, m.form.Value())
		}
	}

	return m, m.form.Update(msg)
}

func (m *RetitleModel) submit(tourID int64, title string) tea.Cmd {
	return func() tea.Msg {
		result, err := commands.NewRetitleTourCommand(m.store, tourID, title).Execute(context.Background())
		if err != nil {
			return ErrMsg{Err: err}
		}
		return EventMsg{Event: result.Event, Message: result.Message}
	}
}

// View renders the retitle view
func (m *RetitleModel) View() string {
	return NewViewBuilder().
		Title("Retitle Tour").
		Line(RenderTarget(m.target, "Tour")).
		BlankLine().
		Line(m.form.Render()).
		BlankLine().
		Message(m.Message, m.MessageErr).
		Raw(m.form.RenderHelp("save")).
		String()
}
