package main

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/sahilm/fuzzy"

	"github.com/hayeah/ctxdump"
)

// ExitState indicates how the program is exiting
type ExitState int

const (
	ExitStateNone    ExitState = iota // Not exiting
	ExitStateAbort                    // Exiting without saving (ESC, Ctrl+C)
	ExitStateConfirm                  // Exiting with confirmation (Enter)
)

var (
	cursorStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("12"))
	errorStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("9"))
	hintStyle   = lipgloss.NewStyle().Faint(true)
)

// pickModel is the picker's Bubble Tea model. The selection expression is the
// single source of truth: toggling rows rewrites it as file numbers, and every
// edit re-parses it.
type pickModel struct {
	session *ctxdump.Session
	files   []string

	expr   textinput.Model
	filter textinput.Model

	// selection is the result of the last expression that parsed.
	selection []string
	selected  map[int]bool
	parseErr  error

	// visible holds positions in files that pass the fuzzy filter.
	visible    []int
	filterTerm string
	cursor     int

	viewport  viewport.Model
	ready     bool
	exitState ExitState
}

func newPickModel(session *ctxdump.Session) pickModel {
	expr := textinput.New()
	expr.Placeholder = "1-5 8 src/main.go -*.png"
	expr.Prompt = "select> "
	expr.CharLimit = 0
	expr.Focus()

	filter := textinput.New()
	filter.Placeholder = "Tab to fuzzy-filter the list..."
	filter.Prompt = "filter> "
	filter.CharLimit = 0

	files := session.Files()
	visible := make([]int, len(files))
	for i := range files {
		visible[i] = i
	}

	return pickModel{
		session:  session,
		files:    files,
		expr:     expr,
		filter:   filter,
		selected: make(map[int]bool),
		visible:  visible,
		viewport: viewport.New(0, 0),
	}
}

func (m pickModel) Init() tea.Cmd {
	return tea.Batch(textinput.Blink, tea.EnterAltScreen)
}

func (m pickModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if m.exitState != ExitStateNone {
		return m, tea.Quit
	}

	var (
		cmd  tea.Cmd
		cmds []tea.Cmd
	)

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		headerHeight := 3
		footerHeight := 3
		m.viewport.Width = msg.Width
		m.viewport.Height = max(msg.Height-headerHeight-footerHeight, 1)
		m.viewport.YPosition = headerHeight
		if !m.ready {
			m.ready = true
		}
		m.updateViewportContent()
		return m, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c", "esc":
			m.exitState = ExitStateAbort
			return m, tea.Quit

		case "enter":
			if m.parseErr != nil {
				return m, nil
			}
			m.exitState = ExitStateConfirm
			return m, tea.Quit

		case "tab":
			if m.expr.Focused() {
				m.expr.Blur()
				cmds = append(cmds, m.filter.Focus())
			} else {
				m.filter.Blur()
				cmds = append(cmds, m.expr.Focus())
			}
			return m, tea.Batch(cmds...)

		case "up":
			m.moveCursor(-1)
			return m, nil

		case "down":
			m.moveCursor(1)
			return m, nil

		case "pgup":
			m.moveCursor(-max(m.viewport.Height/2, 1))
			return m, nil

		case "pgdown":
			m.moveCursor(max(m.viewport.Height/2, 1))
			return m, nil

		case "ctrl+t":
			m.toggleCursor()
			return m, nil

		case " ":
			if m.filter.Focused() {
				m.toggleCursor()
				return m, nil
			}

		case "ctrl+a":
			m.setVisible(true)
			return m, nil

		case "ctrl+q":
			m.setVisible(false)
			return m, nil
		}
	}

	if m.expr.Focused() {
		before := m.expr.Value()
		m.expr, cmd = m.expr.Update(msg)
		cmds = append(cmds, cmd)
		if m.expr.Value() != before {
			m.parse()
			m.updateViewportContent()
		}
	} else {
		m.filter, cmd = m.filter.Update(msg)
		cmds = append(cmds, cmd)
		if m.filter.Value() != m.filterTerm {
			m.filterTerm = m.filter.Value()
			m.refilter()
			m.updateViewportContent()
		}
	}

	return m, tea.Batch(cmds...)
}

func (m pickModel) View() string {
	if !m.ready {
		return "Initializing..."
	}

	status := fmt.Sprintf("%d/%d files shown, %d selected", len(m.visible), len(m.files), len(m.selection))
	if m.parseErr != nil {
		status = errorStyle.Render(m.parseErr.Error())
	}
	hint := hintStyle.Render("(↑/↓ move, Ctrl+T toggle, Tab switch input, Ctrl+A/Ctrl+Q select/clear shown, Enter write, Esc abort)")

	return fmt.Sprintf("%s\n%s\n\n%s\n%s\n%s",
		m.expr.View(), m.filter.View(), m.viewport.View(), status, hint)
}

// setExpression replaces the expression text and re-parses it.
func (m *pickModel) setExpression(text string) {
	m.expr.SetValue(text)
	m.expr.CursorEnd()
	m.parse()
	m.updateViewportContent()
}

// parse evaluates the expression. On error the previous selection is kept so
// the list does not flicker while typing.
func (m *pickModel) parse() {
	files, err := m.session.Parse(m.expr.Value())
	if err != nil {
		m.parseErr = err
		return
	}
	m.parseErr = nil
	m.selection = files
	m.selected = make(map[int]bool, len(files))
	for _, i := range m.session.Indices(files) {
		m.selected[i] = true
	}
}

// syncExpression rewrites the expression as the selected positions in list
// order. Positions are unambiguous whatever the file names look like.
func (m *pickModel) syncExpression() {
	positions := make([]int, 0, len(m.selected))
	for i, ok := range m.selected {
		if ok {
			positions = append(positions, i)
		}
	}
	sort.Ints(positions)
	m.setExpression(formatPositions(positions))
}

// formatPositions renders sorted 0-based positions as 1-based selection
// tokens, collapsing consecutive runs into ranges: [0 1 2 4] is "1-3 5".
func formatPositions(positions []int) string {
	var tokens []string
	for i := 0; i < len(positions); {
		j := i
		for j+1 < len(positions) && positions[j+1] == positions[j]+1 {
			j++
		}
		if j == i {
			tokens = append(tokens, strconv.Itoa(positions[i]+1))
		} else {
			tokens = append(tokens, fmt.Sprintf("%d-%d", positions[i]+1, positions[j]+1))
		}
		i = j + 1
	}
	return strings.Join(tokens, " ")
}

func (m *pickModel) toggleCursor() {
	if len(m.visible) == 0 {
		return
	}
	i := m.visible[m.cursor]
	m.selected[i] = !m.selected[i]
	m.syncExpression()
}

func (m *pickModel) setVisible(on bool) {
	for _, i := range m.visible {
		m.selected[i] = on
	}
	m.syncExpression()
}

func (m *pickModel) moveCursor(delta int) {
	if len(m.visible) == 0 {
		return
	}
	m.cursor = min(max(m.cursor+delta, 0), len(m.visible)-1)
	m.updateViewportContent()
	m.ensureCursorVisible()
}

// refilter keeps the files that fuzzy-match the filter term, in list order.
func (m *pickModel) refilter() {
	visible := make([]int, 0, len(m.files))
	if m.filterTerm == "" {
		for i := range m.files {
			visible = append(visible, i)
		}
	} else {
		for _, match := range fuzzy.Find(m.filterTerm, m.files) {
			visible = append(visible, match.Index)
		}
		sort.Ints(visible)
	}
	m.visible = visible

	if len(m.visible) == 0 {
		m.cursor = 0
	} else {
		m.cursor = min(m.cursor, len(m.visible)-1)
	}
}

func (m *pickModel) updateViewportContent() {
	var sb strings.Builder

	for row, i := range m.visible {
		cursor := " "
		if row == m.cursor {
			cursor = ">"
		}
		check := " "
		if m.selected[i] {
			check = "✓"
		}

		line := fmt.Sprintf("%s [%s] %4d. %s", cursor, check, i+1, m.files[i])
		if row == m.cursor {
			line = cursorStyle.Render(line)
		}
		sb.WriteString(line + "\n")
	}

	m.viewport.SetContent(sb.String())
}

func (m *pickModel) ensureCursorVisible() {
	top := m.viewport.YOffset
	bottom := m.viewport.YOffset + m.viewport.Height - 1

	if m.cursor < top {
		m.viewport.SetYOffset(m.cursor)
	} else if m.cursor > bottom {
		m.viewport.SetYOffset(m.cursor - m.viewport.Height + 1)
	}
}
