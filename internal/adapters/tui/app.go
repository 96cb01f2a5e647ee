package tui

import (
	tea "github.com/charmbracelet/bubbletea"

	"tourtags/internal/adapters/tui/views"
	"tourtags/internal/application/tagtree"
	"tourtags/internal/ports"
)

// ViewState represents the current view
type ViewState int

const (
	ViewBrowser ViewState = iota
	ViewTag
	ViewRetitle
	ViewDelete
	ViewHelp
)

// App is the main TUI application model
type App struct {
	state   ViewState
	browser *views.BrowserModel
	tag     *views.TagFormModel
	retitle *views.RetitleModel
	delete  *views.DeleteModel
	help    *views.HelpModel

	width  int
	height int
}

// NewApp creates a TUI over a restored tree. Store changes are made through
// store and patched into the tree; the view state is saved on quit.
func NewApp(tree *tagtree.Tree, store ports.TourStore, state ports.StateStore, view string) *App {
	return &App{
		state:   ViewBrowser,
		browser: views.NewBrowserModel(tree, state, view),
		tag:     views.NewTagFormModel(store),
		retitle: views.NewRetitleModel(store),
		delete:  views.NewDeleteModel(store),
		help:    views.NewHelpModel(),
	}
}

// Init initializes the application
func (a *App) Init() tea.Cmd {
	return a.browser.Init()
}

// Update handles messages for the application
func (a *App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		a.width = msg.Width
		a.height = msg.Height
		a.browser.SetSize(msg.Width, msg.Height)
		a.tag.SetSize(msg.Width, msg.Height)
		a.retitle.SetSize(msg.Width, msg.Height)
		a.delete.SetSize(msg.Width, msg.Height)
		a.help.SetSize(msg.Width, msg.Height)
		return a, nil

	// View switching messages
	case views.SwitchToTagMsg:
		a.state = ViewTag
		a.tag.SetTarget(msg.Target, msg.Remove)
		return a, a.tag.Init()

	case views.SwitchToRetitleMsg:
		a.state = ViewRetitle
		a.retitle.SetTarget(msg.Target)
		return a, a.retitle.Init()

	case views.SwitchToDeleteMsg:
		a.state = ViewDelete
		a.delete.SetTarget(msg.Target)
		return a, a.delete.Init()

	case views.SwitchToHelpMsg:
		a.state = ViewHelp
		return a, nil

	case views.SwitchToBrowserMsg:
		a.state = ViewBrowser
		return a, nil

	// Committed changes always go to the browser, which owns the tree
	case views.EventMsg:
		a.state = ViewBrowser
		_, cmd := a.browser.Update(msg)
		return a, cmd

	case views.ErrMsg:
		a.state = ViewBrowser
		_, cmd := a.browser.Update(msg)
		return a, cmd
	}

	// Delegate to current view
	var cmd tea.Cmd
	switch a.state {
	case ViewBrowser:
		_, cmd = a.browser.Update(msg)
	case ViewTag:
		_, cmd = a.tag.Update(msg)
	case ViewRetitle:
		_, cmd = a.retitle.Update(msg)
	case ViewDelete:
		_, cmd = a.delete.Update(msg)
	case ViewHelp:
		_, cmd = a.help.Update(msg)
	}

	return a, cmd
}

// View renders the current view
func (a *App) View() string {
	switch a.state {
	case ViewTag:
		return a.tag.View()
	case ViewRetitle:
		return a.retitle.View()
	case ViewDelete:
		return a.delete.View()
	case ViewHelp:
		return a.help.View()
	default:
		return a.browser.View()
	}
}
