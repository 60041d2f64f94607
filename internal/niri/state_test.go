package niri

import (
	"testing"

	"github.com/rbright/niriws/internal/compositor"
	"github.com/stretchr/testify/require"
)

func twoOutputSnapshot() []Workspace {
	return []Workspace{
		{ID: 3, Name: strPtr("chat"), Output: strPtr("DP-2"), IsActive: true},
		{ID: 1, Name: strPtr("web"), Output: strPtr("DP-1"), IsActive: true, IsFocused: true},
		{ID: 2, Output: strPtr("DP-1")},
	}
}

func TestStateSortsSnapshot(t *testing.T) {
	state := NewState(twoOutputSnapshot())
	got := state.Workspaces()
	require.Equal(t, []uint64{1, 2, 3}, []uint64{got[0].ID, got[1].ID, got[2].ID})
}

func TestStateWorkspacesChangedReplaces(t *testing.T) {
	state := NewState(nil)
	require.True(t, state.Apply(WorkspacesChanged(twoOutputSnapshot())))
	require.Len(t, state.Workspaces(), 3)

	require.False(t, state.Apply(WorkspacesChanged(twoOutputSnapshot())))
	require.True(t, state.Apply(WorkspacesChanged([]Workspace{})))
	require.Empty(t, state.Workspaces())
}

func TestStateActivateWithFocusMovesFocusAndActivity(t *testing.T) {
	state := NewState(twoOutputSnapshot())

	require.True(t, state.Apply(WorkspaceActivated(2, true)))

	got := state.Compositor()
	require.Equal(t, []compositor.Visibility{
		compositor.VisibilityHidden,
		compositor.VisibilityFocused,
		compositor.VisibilityVisible,
	}, []compositor.Visibility{got[0].Visibility, got[1].Visibility, got[2].Visibility})
}

func TestStateActivateWithoutFocusKeepsFocus(t *testing.T) {
	state := NewState([]Workspace{
		{ID: 1, Output: strPtr("DP-1"), IsActive: true, IsFocused: true},
		{ID: 2, Output: strPtr("DP-2"), IsActive: true},
		{ID: 3, Output: strPtr("DP-2")},
	})

	require.True(t, state.Apply(WorkspaceActivated(3, false)))

	got := state.Workspaces()
	require.True(t, got[0].IsFocused)
	require.True(t, got[0].IsActive)
	require.False(t, got[1].IsActive)
	require.True(t, got[2].IsActive)
	require.False(t, got[2].IsFocused)
}

func TestStateIgnoresUnknownAndOther(t *testing.T) {
	state := NewState(twoOutputSnapshot())
	before := state.Workspaces()

	require.False(t, state.Apply(WorkspaceActivated(99, true)))
	require.False(t, state.Apply(OtherEvent()))
	require.False(t, state.Apply(WorkspaceActivated(1, true)))
	require.Equal(t, before, state.Workspaces())
}

func TestStateWorkspacesReturnsCopy(t *testing.T) {
	state := NewState(twoOutputSnapshot())
	got := state.Workspaces()
	got[0].IsFocused = false
	require.True(t, state.Workspaces()[0].IsFocused)
}
