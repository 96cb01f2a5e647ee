package views

import (
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"tourtags/internal/adapters/tui/styles"
)

// InputFormKeyMap defines key bindings for input forms
type InputFormKeyMap struct {
	Submit key.Binding
	Cancel key.Binding
}

// DefaultInputFormKeys returns the default input form key bindings
var DefaultInputFormKeys = InputFormKeyMap{
	Submit: key.NewBinding(
		key.WithKeys("enter"),
		key.WithHelp("enter", "submit"),
	),
	Cancel: key.NewBinding(
		key.WithKeys("esc"),
		key.WithHelp("esc", "cancel"),
	),
}

// InputForm is a single labelled text input
type InputForm struct {
	Label string
	Input textinput.Model
	Keys  InputFormKeyMap
}

// NewInputForm creates a focused input with the given label and placeholder
func NewInputForm(label, placeholder string, charLimit int) *InputForm {
	input := textinput.New()
	input.Placeholder = placeholder
	if charLimit > 0 {
		input.CharLimit = charLimit
	}
	input.Focus()
	return &InputForm{
		Label: label,
		Input: input,
		Keys:  DefaultInputFormKeys,
	}
}

// Init returns the blink command for the input
func (f *InputForm) Init() tea.Cmd {
	return textinput.Blink
}

// Update forwards a message to the input
func (f *InputForm) Update(msg tea.Msg) tea.Cmd {
	var cmd tea.Cmd
	f.Input, cmd = f.Input.Update(msg)
	return cmd
}

// Value returns the trimmed input
func (f *InputForm) Value() string {
	return strings.TrimSpace(f.Input.Value())
}

// Reset replaces the input value and focuses it
func (f *InputForm) Reset(value string) {
	f.Input.SetValue(value)
	f.Input.CursorEnd()
	f.Input.Focus()
}

// Render renders the label and the input box
func (f *InputForm) Render() string {
	var b strings.Builder
	b.WriteString(styles.InputLabel.Render(f.Label))
	b.WriteString("\n")
	b.WriteString(styles.InputFocused.Render(f.Input.View()))
	return b.String()
}

// RenderHelp renders the help text for the form
func (f *InputForm) RenderHelp(submitText string) string {
	return styles.HelpKey.Render("enter") + " " + styles.HelpDesc.Render(submitText) + "  " +
		styles.HelpKey.Render("esc") + " " + styles.HelpDesc.Render("cancel")
}
