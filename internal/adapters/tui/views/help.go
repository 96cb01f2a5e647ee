package views

import (
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"tourtags/internal/adapters/tui/styles"
)

// HelpKeyMap defines key bindings for the help view
type HelpKeyMap struct {
	Close key.Binding
}

var HelpKeys = HelpKeyMap{
	Close: key.NewBinding(
		key.WithKeys("esc", "q", "?"),
		key.WithHelp("esc/q/?", "close"),
	),
}

// HelpModel is the model for the help view
type HelpModel struct {
	width  int
	height int
}

// NewHelpModel creates a new help view model
func NewHelpModel() *HelpModel {
	return &HelpModel{}
}

// Init initializes the help view
func (m *HelpModel) Init() tea.Cmd {
	return nil
}

// Update handles messages for the help view
func (m *HelpModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case tea.KeyMsg:
		if key.Matches(msg, HelpKeys.Close) {
			return m, func() tea.Msg {
				return SwitchToBrowserMsg{}
			}
		}
	}

	return m, nil
}

// View renders the help view
func (m *HelpModel) View() string {
	var b strings.Builder

	b.WriteString(styles.Title.Render("Tour Tags Help"))
	b.WriteString("\n\n")

	b.WriteString(styles.InputLabel.Render("Navigation"))
	b.WriteString("\n")
	b.WriteString(helpBinding(BrowserKeys.Up, "Move up"))
	b.WriteString(helpBinding(BrowserKeys.Down, "Move down"))
	b.WriteString(helpBinding(BrowserKeys.PageUp, "Page up"))
	b.WriteString(helpBinding(BrowserKeys.PageDown, "Page down"))
	b.WriteString(helpBinding(BrowserKeys.Left, "Collapse / go to parent"))
	b.WriteString(helpBinding(BrowserKeys.Right, "Expand"))
	b.WriteString(helpBinding(BrowserKeys.Enter, "Expand / collapse"))
	b.WriteString("\n")

	b.WriteString(styles.InputLabel.Render("View"))
	b.WriteString("\n")
	b.WriteString(helpBinding(BrowserKeys.Layout, "Toggle flat and hierarchical layout"))
	b.WriteString(helpBinding(BrowserKeys.Reload, "Reload from the database"))
	b.WriteString(helpBinding(BrowserKeys.Details, "Show all statistics of the selection"))
	b.WriteString(helpBinding(BrowserKeys.Copy, "Copy ids of the tours below the selection"))
	b.WriteString("\n")

	b.WriteString(styles.InputLabel.Render("Edit"))
	b.WriteString("\n")
	b.WriteString(helpBinding(BrowserKeys.Tag, "Tag the tours below the selection"))
	b.WriteString(helpBinding(BrowserKeys.Untag, "Untag the tours below the selection"))
	b.WriteString(helpBinding(BrowserKeys.Retitle, "Retitle the selected tour"))
	b.WriteString(helpBinding(BrowserKeys.Delete, "Delete the tours below the selection"))
	b.WriteString("\n")

	b.WriteString(styles.InputLabel.Render("General"))
	b.WriteString("\n")
	b.WriteString(helpBinding(BrowserKeys.Help, "Toggle help"))
	b.WriteString(helpBinding(BrowserKeys.Quit, "Save the expanded state and quit"))
	b.WriteString("\n\n")

	b.WriteString(styles.InputLabel.Render("Tree"))
	b.WriteString("\n")
	b.WriteString(styles.NodeCategory.Render("  Category"))
	b.WriteString(styles.MutedText.Render("  groups tags and categories"))
	b.WriteString("\n")
	b.WriteString(styles.NodeTag.Render("  Tag"))
	b.WriteString(styles.MutedText.Render("       lists tours flat or by year"))
	b.WriteString("\n")
	b.WriteString(styles.NodeYear.Render("  Year"))
	b.WriteString(styles.MutedText.Render("      lists months or tours"))
	b.WriteString("\n")
	b.WriteString(styles.NodeMonth.Render("  Month"))
	b.WriteString(styles.MutedText.Render("     lists tours"))
	b.WriteString("\n\n")

	b.WriteString(styles.HelpDesc.Render("Press "))
	b.WriteString(styles.HelpKey.Render("esc"))
	b.WriteString(styles.HelpDesc.Render(" or "))
	b.WriteString(styles.HelpKey.Render("?"))
	b.WriteString(styles.HelpDesc.Render(" to close"))

	return styles.App.Render(b.String())
}

func helpBinding(b key.Binding, desc string) string {
	return "  " + styles.HelpKey.Render(padRight(b.Help().Key, 12)) + styles.HelpDesc.Render(desc) + "\n"
}

func padRight(s string, length int) string {
	if len(s) >= length {
		return s
	}
	return s + strings.Repeat(" ", length-len(s))
}

// SetSize updates the view dimensions
func (m *HelpModel) SetSize(width, height int) {
	m.width = width
	m.height = height
}
