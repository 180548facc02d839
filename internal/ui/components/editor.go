package components

import (
	"strings"

	"charm.land/bubbles/v2/textarea"
	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/abhisek/gotutor/internal/ui/theme"
)

// tabWidth is how many spaces a tab in loaded source occupies.
const tabWidth = 4

// Editor wraps bubbles/textarea as a small code editor.
type Editor struct {
	Model textarea.Model
}

// NewEditor creates a focused editor holding code.
func NewEditor(code string) Editor {
	ta := textarea.New()
	ta.ShowLineNumbers = true
	ta.Placeholder = "// write your Go code here"
	ta.Prompt = ""
	ta.SetValue(expandTabs(code))
	ta.Focus()
	return Editor{Model: ta}
}

// Init returns the cursor blink command.
func (e Editor) Init() tea.Cmd {
	return textarea.Blink
}

// Update forwards messages to the textarea.
func (e Editor) Update(msg tea.Msg) (Editor, tea.Cmd) {
	var cmd tea.Cmd
	e.Model, cmd = e.Model.Update(msg)
	return e, cmd
}

// SetSize fits the editor inside a bordered box of the given outer size.
func (e *Editor) SetSize(width, height int) {
	e.Model.SetWidth(max(width-2, 10))
	e.Model.SetHeight(max(height-2, 3))
}

// View renders the editor in a border that highlights when focused.
func (e Editor) View() string {
	border := theme.Border
	if e.Model.Focused() {
		border = theme.Primary
	}
	return lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(border).
		Render(e.Model.View())
}

// Value returns the current code.
func (e Editor) Value() string {
	return e.Model.Value()
}

// SetValue replaces the code and moves the cursor to the top.
func (e *Editor) SetValue(code string) {
	e.Model.SetValue(expandTabs(code))
	e.Model.MoveToBegin()
}

func expandTabs(s string) string {
	return strings.ReplaceAll(s, "\t", strings.Repeat(" ", tabWidth))
}
