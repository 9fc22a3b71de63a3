package status

import (
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/docsync/internal/adapters/driving/tui/keymap"
	"github.com/custodia-labs/docsync/internal/adapters/driving/tui/styles"
)

func TestNewBar(t *testing.T) {
	s := styles.DefaultStyles()
	km := keymap.DefaultKeyMap()
	bar := NewBar(s, km)

	require.NotNil(t, bar)
	assert.Equal(t, StateIdle, bar.State())
	assert.Equal(t, "", bar.Message())
	assert.Equal(t, "", bar.Tenant())
	assert.Equal(t, 0, bar.Pending())
}

func TestNewBar_NilStyles(t *testing.T) {
	bar := NewBar(nil, nil)

	require.NotNil(t, bar)
	assert.NotNil(t, bar.styles)
	assert.NotNil(t, bar.keymap)
}

func TestStatusBar_Init(t *testing.T) {
	bar := NewBar(nil, nil)

	cmd := bar.Init()

	assert.Nil(t, cmd)
}

func TestStatusBar_Update(t *testing.T) {
	bar := NewBar(nil, nil)

	msg := tea.KeyMsg{Type: tea.KeyEnter}
	updated, cmd := bar.Update(msg)

	assert.Equal(t, bar, updated)
	assert.Nil(t, cmd)
}

func TestStatusBar_SetState(t *testing.T) {
	bar := NewBar(nil, nil)

	bar.SetState(StateWatching)

	assert.Equal(t, StateWatching, bar.State())
}

func TestStatusBar_State(t *testing.T) {
	bar := NewBar(nil, nil)

	assert.Equal(t, StateIdle, bar.State())
}

func TestStatusBar_SetMessage(t *testing.T) {
	bar := NewBar(nil, nil)

	bar.SetMessage("test message")

	assert.Equal(t, "test message", bar.Message())
}

func TestStatusBar_SetTenant(t *testing.T) {
	bar := NewBar(nil, nil)

	bar.SetTenant("myproject:main")

	assert.Equal(t, "myproject:main", bar.Tenant())
}

func TestStatusBar_SetPending(t *testing.T) {
	bar := NewBar(nil, nil)

	bar.SetPending(7)

	assert.Equal(t, 7, bar.Pending())
}

func TestStatusBar_SetWidth(t *testing.T) {
	bar := NewBar(nil, nil)

	bar.SetWidth(120)

	assert.Equal(t, 120, bar.Width())
}

func TestStatusBar_Width(t *testing.T) {
	bar := NewBar(nil, nil)

	assert.Equal(t, 80, bar.Width()) // Default
}

func TestStatusBar_Clear(t *testing.T) {
	bar := NewBar(nil, nil)
	bar.SetState(StateError)
	bar.SetMessage("error message")
	bar.SetPending(10)

	bar.Clear()

	assert.Equal(t, StateIdle, bar.State())
	assert.Equal(t, "", bar.Message())
	assert.Equal(t, 0, bar.Pending())
}

func TestStatusBar_View_Idle(t *testing.T) {
	bar := NewBar(nil, nil)

	view := bar.View()

	assert.NotEmpty(t, view)
	assert.Contains(t, view, "idle")
}

func TestStatusBar_View_Watching(t *testing.T) {
	bar := NewBar(nil, nil)
	bar.SetState(StateWatching)

	view := bar.View()

	assert.Contains(t, view, "watching")
}

func TestStatusBar_View_WatchingWithTenant(t *testing.T) {
	bar := NewBar(nil, nil)
	bar.SetState(StateWatching)
	bar.SetTenant("myproject:main")

	view := bar.View()

	assert.Contains(t, view, "watching")
	assert.Contains(t, view, "myproject:main")
}

func TestStatusBar_View_WatchingWithPending(t *testing.T) {
	bar := NewBar(nil, nil)
	bar.SetState(StateWatching)
	bar.SetPending(3)

	view := bar.View()

	assert.Contains(t, view, "3 pending")
}

func TestStatusBar_View_Reconciling(t *testing.T) {
	bar := NewBar(nil, nil)
	bar.SetState(StateReconciling)

	view := bar.View()

	assert.Contains(t, view, "Reconciling")
}

func TestStatusBar_View_Error(t *testing.T) {
	bar := NewBar(nil, nil)
	bar.SetState(StateError)

	view := bar.View()

	assert.Contains(t, view, "Error")
}

func TestStatusBar_View_ErrorWithMessage(t *testing.T) {
	bar := NewBar(nil, nil)
	bar.SetState(StateError)
	bar.SetMessage("root unreadable")

	view := bar.View()

	assert.Contains(t, view, "Error")
	assert.Contains(t, view, "root unreadable")
}

func TestStatusBar_View_ShowsKeybindings(t *testing.T) {
	bar := NewBar(nil, nil)

	view := bar.View()

	// Should show quit keybinding
	assert.Contains(t, view, "quit")
}

func TestState_Constants(t *testing.T) {
	assert.Equal(t, State("idle"), StateIdle)
	assert.Equal(t, State("watching"), StateWatching)
	assert.Equal(t, State("reconciling"), StateReconciling)
	assert.Equal(t, State("error"), StateError)
}
