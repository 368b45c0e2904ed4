package main

import (
	"os"
	"path/filepath"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hayeah/ctxdump"
)

func newTestPickModel(t *testing.T) pickModel {
	t.Helper()

	cfg, err := CommonArgs{Root: createTestTree(t)}.LoadConfig()
	require.NoError(t, err)
	session, err := ctxdump.InitSession(cfg)
	require.NoError(t, err)

	m := newPickModel(session)
	updated, _ := m.Update(tea.WindowSizeMsg{Width: 80, Height: 24})
	return updated.(pickModel)
}

func typeText(m pickModel, text string) pickModel {
	for _, r := range text {
		updated, _ := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{r}})
		m = updated.(pickModel)
	}
	return m
}

func press(m pickModel, key tea.KeyType) pickModel {
	updated, _ := m.Update(tea.KeyMsg{Type: key})
	return updated.(pickModel)
}

func TestPickModel_TypingParsesSelection(t *testing.T) {
	m := newTestPickModel(t)

	m = typeText(m, "1-3")
	assert.NoError(t, m.parseErr)
	assert.Equal(t, []string{"README.md", "main.go", filepath.FromSlash("pkg/util.go")}, m.selection)
	assert.True(t, m.selected[0])
	assert.False(t, m.selected[3])

	m = typeText(m, "0")
	assert.Error(t, m.parseErr)
	assert.Len(t, m.selection, 3, "last good selection is kept")

	m = press(m, tea.KeyEnter)
	assert.Equal(t, ExitStateNone, m.exitState, "enter is refused while the expression is invalid")
}

func TestPickModel_ToggleRewritesExpression(t *testing.T) {
	m := newTestPickModel(t)

	m = press(m, tea.KeyDown)
	m = press(m, tea.KeyCtrlT)
	assert.Equal(t, "2", m.expr.Value())
	assert.Equal(t, []string{"main.go"}, m.selection)

	m = press(m, tea.KeyUp)
	m = press(m, tea.KeyCtrlT)
	assert.Equal(t, "1-2", m.expr.Value())

	m = press(m, tea.KeyDown)
	m = press(m, tea.KeyDown)
	m = press(m, tea.KeyDown)
	m = press(m, tea.KeyCtrlT)
	assert.Equal(t, "1-2 4", m.expr.Value())

	m = press(m, tea.KeyUp)
	m = press(m, tea.KeyUp)
	m = press(m, tea.KeyUp)
	m = press(m, tea.KeyCtrlT)
	assert.Equal(t, "2 4", m.expr.Value())
}

func TestPickModel_ToggleAwkwardFileNames(t *testing.T) {
	root := t.TempDir()
	for _, name := range []string{"2", "b.go", "my notes.md", "-x.go"} {
		require.NoError(t, os.WriteFile(filepath.Join(root, name), []byte(name), 0644))
	}

	cfg, err := CommonArgs{Root: root}.LoadConfig()
	require.NoError(t, err)
	session, err := ctxdump.InitSession(cfg)
	require.NoError(t, err)
	require.Equal(t, []string{"-x.go", "2", "b.go", "my notes.md"}, session.Files())

	m := newPickModel(session)
	updated, _ := m.Update(tea.WindowSizeMsg{Width: 80, Height: 24})
	m = updated.(pickModel)

	// toggle every row, one at a time
	for i := range session.Files() {
		if i > 0 {
			m = press(m, tea.KeyDown)
		}
		m = press(m, tea.KeyCtrlT)
		require.NoError(t, m.parseErr)
	}

	assert.Equal(t, "1-4", m.expr.Value())
	assert.Equal(t, []string{"-x.go", "2", "b.go", "my notes.md"}, m.selection)
}

func TestFormatPositions(t *testing.T) {
	tests := []struct {
		positions []int
		want      string
	}{
		{nil, ""},
		{[]int{0}, "1"},
		{[]int{0, 1, 2, 4}, "1-3 5"},
		{[]int{1, 3, 5}, "2 4 6"},
		{[]int{0, 1, 3, 4, 9}, "1-2 4-5 10"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, formatPositions(tt.positions))
	}
}

func TestPickModel_FilterAndSelectShown(t *testing.T) {
	m := newTestPickModel(t)

	m = press(m, tea.KeyTab)
	assert.True(t, m.filter.Focused())

	m = typeText(m, "pkg")
	assert.Equal(t, []int{2}, m.visible)

	m = press(m, tea.KeyCtrlA)
	assert.Equal(t, []string{filepath.FromSlash("pkg/util.go")}, m.selection)
	assert.Equal(t, "3", m.expr.Value())

	m = press(m, tea.KeyEnter)
	assert.Equal(t, ExitStateConfirm, m.exitState)
}

func TestPickModel_Abort(t *testing.T) {
	m := newTestPickModel(t)
	m = typeText(m, "1")
	m = press(m, tea.KeyEsc)
	assert.Equal(t, ExitStateAbort, m.exitState)
}

func TestPickModel_View(t *testing.T) {
	m := newTestPickModel(t)
	m = typeText(m, "2")

	view := m.View()
	assert.Contains(t, view, "[✓]    2. main.go")
	assert.Contains(t, view, "4/4 files shown, 1 selected")
}
