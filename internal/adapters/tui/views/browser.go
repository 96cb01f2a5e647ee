package views

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/atotto/clipboard"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"tourtags/internal/adapters/tui/styles"
	"tourtags/internal/application/commands"
	"tourtags/internal/application/tagtree"
	"tourtags/internal/domain"
	"tourtags/internal/format"
	"tourtags/internal/ports"
)

// BrowserKeyMap defines key bindings for the browser view
type BrowserKeyMap struct {
	Up       key.Binding
	Down     key.Binding
	Left     key.Binding
	Right    key.Binding
	Enter    key.Binding
	PageUp   key.Binding
	PageDown key.Binding
	Reload   key.Binding
	Layout   key.Binding
	Details  key.Binding
	Copy     key.Binding
	Tag      key.Binding
	Untag    key.Binding
	Retitle  key.Binding
	Delete   key.Binding
	Help     key.Binding
	Quit     key.Binding
}

var BrowserKeys = BrowserKeyMap{
	Up: key.NewBinding(
		key.WithKeys("k", "up"),
		key.WithHelp("k/↑", "up"),
	),
	Down: key.NewBinding(
		key.WithKeys("j", "down"),
		key.WithHelp("j/↓", "down"),
	),
	Left: key.NewBinding(
		key.WithKeys("h", "left"),
		key.WithHelp("h/←", "collapse"),
	),
	Right: key.NewBinding(
		key.WithKeys("l", "right"),
		key.WithHelp("l/→", "expand"),
	),
	Enter: key.NewBinding(
		key.WithKeys("enter"),
		key.WithHelp("enter", "toggle"),
	),
	PageUp: key.NewBinding(
		key.WithKeys("pgup", "ctrl+u"),
		key.WithHelp("pgup", "page up"),
	),
	PageDown: key.NewBinding(
		key.WithKeys("pgdown", "ctrl+d"),
		key.WithHelp("pgdn", "page down"),
	),
	Reload: key.NewBinding(
		key.WithKeys("r"),
		key.WithHelp("r", "reload"),
	),
	Layout: key.NewBinding(
		key.WithKeys("L"),
		key.WithHelp("L", "flat/hierarchical"),
	),
	Details: key.NewBinding(
		key.WithKeys("s"),
		key.WithHelp("s", "stats"),
	),
	Copy: key.NewBinding(
		key.WithKeys("y"),
		key.WithHelp("y", "copy tour ids"),
	),
	Tag: key.NewBinding(
		key.WithKeys("t"),
		key.WithHelp("t", "tag"),
	),
	Untag: key.NewBinding(
		key.WithKeys("u"),
		key.WithHelp("u", "untag"),
	),
	Retitle: key.NewBinding(
		key.WithKeys("e"),
		key.WithHelp("e", "retitle"),
	),
	Delete: key.NewBinding(
		key.WithKeys("x"),
		key.WithHelp("x", "delete"),
	),
	Help: key.NewBinding(
		key.WithKeys("?"),
		key.WithHelp("?", "help"),
	),
	Quit: key.NewBinding(
		key.WithKeys("q", "ctrl+c"),
		key.WithHelp("q", "quit"),
	),
}

// chromeLines is the height taken by the title, message and help lines.
const chromeLines = 8

// BrowserModel is the model for the tag tree browser. It owns the tree:
// every fetch and event patch happens inside Update.
type BrowserModel struct {
	ViewState
	tree  *tagtree.Tree
	state ports.StateStore
	view  string

	rows        []tagtree.NodeID
	cursor      int
	offset      int
	showDetails bool
	changes     int

	copy func(string) error
}

// NewBrowserModel creates a browser over an already restored tree
func NewBrowserModel(tree *tagtree.Tree, state ports.StateStore, view string) *BrowserModel {
	m := &BrowserModel{
		tree:  tree,
		state: state,
		view:  view,
		copy:  clipboard.WriteAll,
	}
	tree.Subscribe(func(tagtree.Notification) { m.changes++ })
	m.refreshRows()
	return m
}

// Init initializes the browser
func (m *BrowserModel) Init() tea.Cmd {
	return nil
}

// Update handles messages for the browser
func (m *BrowserModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.SetSize(msg.Width, msg.Height)
		m.scrollToCursor()
		return m, nil

	case EventMsg:
		m.ApplyEvent(msg)
		return m, nil

	case ErrMsg:
		m.SetMessage(msg.Err.Error(), true)
		return m, nil

	case tea.KeyMsg:
		m.ClearMessage()
		return m, m.handleKey(msg)
	}

	return m, nil
}

func (m *BrowserModel) handleKey(msg tea.KeyMsg) tea.Cmd {
	ctx := context.Background()

	switch {
	case key.Matches(msg, BrowserKeys.Quit):
		if err := m.Save(); err != nil {
			m.SetMessage(err.Error(), true)
		}
		return tea.Quit

	case key.Matches(msg, BrowserKeys.Up):
		m.moveCursor(-1)

	case key.Matches(msg, BrowserKeys.Down):
		m.moveCursor(1)

	case key.Matches(msg, BrowserKeys.PageUp):
		m.moveCursor(-m.listHeight())

	case key.Matches(msg, BrowserKeys.PageDown):
		m.moveCursor(m.listHeight())

	case key.Matches(msg, BrowserKeys.Left):
		id, ok := m.selected()
		if !ok {
			return nil
		}
		if m.tree.IsExpanded(id) {
			m.tree.Collapse(id)
			m.refreshRows()
		} else if p := m.tree.Parent(id); p != tagtree.RootID && p != tagtree.NoNode {
			m.selectNode(p)
		}

	case key.Matches(msg, BrowserKeys.Right), key.Matches(msg, BrowserKeys.Enter):
		id, ok := m.selected()
		if !ok {
			return nil
		}
		if m.tree.IsExpanded(id) {
			if key.Matches(msg, BrowserKeys.Enter) {
				m.tree.Collapse(id)
			}
		} else {
			m.tree.Expand(ctx, id)
		}
		m.refreshRows()

	case key.Matches(msg, BrowserKeys.Reload):
		m.reload(func() error { return m.tree.Reload(ctx) }, "Reloaded")

	case key.Matches(msg, BrowserKeys.Layout):
		next := m.tree.Layout().Toggle()
		m.reload(func() error { return m.tree.SetLayout(ctx, next) }, fmt.Sprintf("Layout: %s", next))

	case key.Matches(msg, BrowserKeys.Details):
		m.showDetails = !m.showDetails

	case key.Matches(msg, BrowserKeys.Copy):
		m.copyTourIDs()

	case key.Matches(msg, BrowserKeys.Tag), key.Matches(msg, BrowserKeys.Untag):
		t, ok := m.target()
		if !ok {
			return nil
		}
		remove := key.Matches(msg, BrowserKeys.Untag)
		return func() tea.Msg { return SwitchToTagMsg{Target: t, Remove: remove} }

	case key.Matches(msg, BrowserKeys.Retitle):
		t, ok := m.target()
		if !ok {
			return nil
		}
		if t.Key.Variant != domain.VariantTour {
			m.SetMessage("only tours can be retitled", true)
			return nil
		}
		return func() tea.Msg { return SwitchToRetitleMsg{Target: t} }

	case key.Matches(msg, BrowserKeys.Delete):
		t, ok := m.target()
		if !ok {
			return nil
		}
		return func() tea.Msg { return SwitchToDeleteMsg{Target: t} }

	case key.Matches(msg, BrowserKeys.Help):
		return func() tea.Msg { return SwitchToHelpMsg{} }
	}

	return nil
}

// ApplyEvent patches the tree with a committed change and reports how many
// nodes it touched.
func (m *BrowserModel) ApplyEvent(msg EventMsg) {
	m.changes = 0
	err := m.tree.Apply(context.Background(), msg.Event)
	m.refreshRows()
	if err != nil {
		m.SetMessage(fmt.Sprintf("%s (%v)", msg.Message, err), true)
		return
	}
	m.SetMessage(fmt.Sprintf("%s, %d nodes changed", msg.Message, m.changes), false)
}

// Save persists the layout and expand state of the view.
func (m *BrowserModel) Save() error {
	_, err := commands.NewSaveViewStateCommand(m.state, m.view, m.tree).Execute(context.Background())
	return err
}

func (m *BrowserModel) reload(fn func() error, done string) {
	if err := fn(); err != nil {
		m.SetMessage(err.Error(), true)
	} else {
		m.SetMessage(done, false)
	}
	m.refreshRows()
}

func (m *BrowserModel) copyTourIDs() {
	t, ok := m.target()
	if !ok {
		return
	}
	ids := make([]string, len(t.TourIDs))
	for i, id := range t.TourIDs {
		ids[i] = strconv.FormatInt(id, 10)
	}
	if err := m.copy(strings.Join(ids, ",")); err != nil {
		m.SetMessage(fmt.Sprintf("clipboard: %v", err), true)
		return
	}
	m.SetMessage(fmt.Sprintf("Copied %d tour ids", len(ids)), false)
}

// target describes the selected node together with every tour below it.
func (m *BrowserModel) target() (Target, bool) {
	id, ok := m.selected()
	if !ok {
		return Target{}, false
	}
	v, _ := m.tree.Node(id)
	t := Target{
		Key:     v.Key,
		Name:    v.Name,
		TourIDs: m.tree.CollectTourIDs(context.Background(), id),
	}
	for cur := id; cur != tagtree.RootID && cur != tagtree.NoNode; cur = m.tree.Parent(cur) {
		if cv, _ := m.tree.Node(cur); cv.Key.Variant == domain.VariantTag {
			t.TagID = cv.Key.ID
			break
		}
	}
	// Collecting may have fetched below a collapsed node.
	m.refreshRows()
	return t, true
}

func (m *BrowserModel) selected() (tagtree.NodeID, bool) {
	if m.cursor >= 0 && m.cursor < len(m.rows) {
		return m.rows[m.cursor], true
	}
	return tagtree.NoNode, false
}

// refreshRows recomputes the visible rows and keeps the cursor on the same
// key where that node still exists.
func (m *BrowserModel) refreshRows() {
	var current domain.Key
	hadSelection := false
	if id, ok := m.selected(); ok {
		if v, ok := m.tree.Node(id); ok {
			current, hadSelection = v.Key, true
		}
	}

	m.rows = m.tree.Visible()

	if hadSelection {
		for i, id := range m.rows {
			if v, _ := m.tree.Node(id); v.Key == current {
				m.cursor = i
				break
			}
		}
	}
	m.cursor = min(m.cursor, len(m.rows)-1)
	m.cursor = max(m.cursor, 0)
	m.scrollToCursor()
}

func (m *BrowserModel) selectNode(id tagtree.NodeID) {
	for i, r := range m.rows {
		if r == id {
			m.cursor = i
			m.scrollToCursor()
			return
		}
	}
}

func (m *BrowserModel) moveCursor(delta int) {
	m.cursor = max(0, min(m.cursor+delta, len(m.rows)-1))
	m.scrollToCursor()
}

func (m *BrowserModel) listHeight() int {
	if m.Height <= chromeLines {
		return max(len(m.rows), 1)
	}
	return m.Height - chromeLines
}

func (m *BrowserModel) scrollToCursor() {
	h := m.listHeight()
	if m.cursor < m.offset {
		m.offset = m.cursor
	}
	if m.cursor >= m.offset+h {
		m.offset = m.cursor - h + 1
	}
	m.offset = max(0, min(m.offset, max(len(m.rows)-h, 0)))
}

// View renders the browser
func (m *BrowserModel) View() string {
	var b strings.Builder

	b.WriteString(styles.Title.Render("Tour Tags"))
	b.WriteString("\n")
	b.WriteString(styles.Subtitle.Render(fmt.Sprintf("%s view • %s layout • %d nodes", m.view, m.tree.Layout(), m.tree.Len())))
	b.WriteString("\n\n")

	var list strings.Builder
	if len(m.rows) == 0 {
		list.WriteString(styles.MutedText.Render("No tags."))
	}
	end := min(m.offset+m.listHeight(), len(m.rows))
	for i := m.offset; i < end; i++ {
		list.WriteString(m.renderNode(m.rows[i], i == m.cursor))
		list.WriteString("\n")
	}

	panel := ""
	if id, ok := m.selected(); ok && m.showDetails {
		v, _ := m.tree.Node(id)
		panel = RenderStatsPanel(format.Label(v), v.Stats)
	}
	b.WriteString(SideBySide(list.String(), panel))

	if m.Message != "" {
		b.WriteString("\n")
		b.WriteString(RenderMessage(m.Message, m.MessageErr))
	}

	b.WriteString("\n")
	b.WriteString(RenderHelpLine(
		BrowserKeys.Right, BrowserKeys.Left, BrowserKeys.Layout, BrowserKeys.Details,
		BrowserKeys.Tag, BrowserKeys.Copy, BrowserKeys.Help, BrowserKeys.Quit,
	))

	return styles.App.Render(b.String())
}

func (m *BrowserModel) renderNode(id tagtree.NodeID, selected bool) string {
	v, ok := m.tree.Node(id)
	if !ok {
		return ""
	}
	indent := strings.Repeat("  ", m.tree.Depth(id)-1)
	label := format.Label(v)

	text := styles.NodeStyle(v.Key.Variant).Render(label)
	if selected {
		text = styles.NodeSelected.Render(label)
	}

	return fmt.Sprintf("%s%s %s  %s",
		indent,
		styles.TreeBranch.Render(format.Expander(v)),
		text,
		styles.NodeStats.Render(format.Summary(v)),
	)
}
