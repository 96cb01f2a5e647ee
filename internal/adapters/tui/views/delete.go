package views

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"tourtags/internal/adapters/tui/styles"
	"tourtags/internal/application/commands"
	"tourtags/internal/ports"
)

const (
	// bulkDeleteThreshold is the selection size from which the tour count
	// has to be typed to confirm.
	bulkDeleteThreshold = 20
	previewIDs          = 8
)

// DeleteKeyMap defines key bindings for the delete view
type DeleteKeyMap struct {
	Confirm key.Binding
	Cancel  key.Binding
}

var DeleteKeys = DeleteKeyMap{
	Confirm: key.NewBinding(
		key.WithKeys("y"),
		key.WithHelp("y", "delete"),
	),
	Cancel: key.NewBinding(
		key.WithKeys("n", "esc"),
		key.WithHelp("n/esc", "cancel"),
	),
}

// DeleteModel confirms and runs the deletion of every tour below a node
type DeleteModel struct {
	ViewState
	store  ports.TourStore
	target Target
	count  *InputForm
}

// NewDeleteModel creates a new delete view model
func NewDeleteModel(store ports.TourStore) *DeleteModel {
	return &DeleteModel{
		store: store,
		count: NewInputForm("Tour count", "number of tours to delete", 8),
	}
}

// SetTarget sets the selection to delete
func (m *DeleteModel) SetTarget(t Target) {
	m.target = t
	m.ClearMessage()
	m.count.Reset("")
}

func (m *DeleteModel) bulk() bool {
	return len(m.target.TourIDs) >= bulkDeleteThreshold
}

// Init focuses the count input for bulk deletions
func (m *DeleteModel) Init() tea.Cmd {
	if m.bulk() {
		return m.count.Init()
	}
	return nil
}

// Update handles messages for the delete view
func (m *DeleteModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.SetSize(msg.Width, msg.Height)
		return m, nil

	case tea.KeyMsg:
		if !m.bulk() {
			switch {
			case key.Matches(msg, DeleteKeys.Cancel):
				return m, func() tea.Msg { return SwitchToBrowserMsg{} }
			case key.Matches(msg, DeleteKeys.Confirm):
				return m, m.submit()
			}
			return m, nil
		}

		switch {
		case key.Matches(msg, m.count.Keys.Cancel):
			return m, func() tea.Msg { return SwitchToBrowserMsg{} }
		case key.Matches(msg, m.count.Keys.Submit):
			want := strconv.Itoa(len(m.target.TourIDs))
			if strings.TrimSpace(m.count.Value()) != want {
				m.SetMessage("type "+want+" to confirm", true)
				return m, nil
			}
			return m, m.submit()
		}
	}

	if m.bulk() {
		return m, m.count.Update(msg)
	}
	return m, nil
}

func (m *DeleteModel) submit() tea.Cmd {
	ids := m.target.TourIDs
	nodeKey := m.target.Key
	return func() tea.Msg {
		if len(ids) == 0 {
			return ErrMsg{Err: fmt.Errorf("no tours below %s", nodeKey)}
		}
		result, err := commands.NewDeleteToursCommand(m.store, ids).Execute(context.Background())
		if err != nil {
			return ErrMsg{Err: err}
		}
		return EventMsg{Event: result.Event, Message: result.Message}
	}
}

// View renders the delete confirmation view
func (m *DeleteModel) View() string {
	v := NewViewBuilder().
		Title("Delete Tours").
		Line(styles.ErrorMsg.Render("Deleted tours and their tag links cannot be restored.")).
		BlankLine().
		Line(RenderTarget(m.target, "Delete every tour below")).
		Line(styles.MutedText.Render("  ids " + idPreview(m.target.TourIDs))).
		BlankLine()

	if m.bulk() {
		return v.Line(m.count.Render()).
			BlankLine().
			Message(m.Message, m.MessageErr).
			Raw(m.count.RenderHelp("delete")).
			String()
	}
	return v.Message(m.Message, m.MessageErr).
		Help(DeleteKeys.Confirm, DeleteKeys.Cancel).
		String()
}

func idPreview(ids []int64) string {
	parts := make([]string, 0, previewIDs+1)
	for i, id := range ids {
		if i == previewIDs {
			parts = append(parts, fmt.Sprintf("and %d more", len(ids)-previewIDs))
			break
		}
		parts = append(parts, strconv.FormatInt(id, 10))
	}
	return strings.Join(parts, ", ")
}
