package niri

import (
	"testing"

	"github.com/rbright/niriws/internal/compositor"
	"github.com/stretchr/testify/require"
)

func TestToCompositorNameFallsBackToID(t *testing.T) {
	got := ToCompositor(Workspace{ID: 7})
	require.Equal(t, compositor.Workspace{
		ID:         7,
		Name:       "7",
		Monitor:    "",
		Visibility: compositor.VisibilityHidden,
	}, got)
}

func TestToCompositorCopiesNameAndOutput(t *testing.T) {
	got := ToCompositor(Workspace{ID: 3, Name: strPtr("web"), Output: strPtr("DP-2"), IsActive: true})
	require.Equal(t, "web", got.Name)
	require.Equal(t, "DP-2", got.Monitor)
	require.Equal(t, int64(3), got.ID)
}

func TestToCompositorVisibilityPrecedence(t *testing.T) {
	tests := []struct {
		name    string
		focused bool
		active  bool
		want    compositor.Visibility
	}{
		{name: "focused only", focused: true, active: false, want: compositor.VisibilityFocused},
		{name: "active only", focused: false, active: true, want: compositor.VisibilityVisible},
		{name: "neither", focused: false, active: false, want: compositor.VisibilityHidden},
		{name: "focus wins", focused: true, active: true, want: compositor.VisibilityFocused},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got := ToCompositor(Workspace{ID: 1, IsFocused: tc.focused, IsActive: tc.active})
			require.Equal(t, tc.want, got.Visibility)
		})
	}
}

func TestToCompositorAllPreservesOrder(t *testing.T) {
	got := ToCompositorAll(sampleWorkspaces())
	require.Len(t, got, 3)
	require.Equal(t, []string{"web", "2", "chat"}, []string{got[0].Name, got[1].Name, got[2].Name})
	require.Empty(t, ToCompositorAll(nil))
}
