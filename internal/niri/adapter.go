package niri

import (
	"strconv"

	"github.com/rbright/niriws/internal/compositor"
)

// ToCompositor maps a niri workspace onto the backend-neutral model.
// Unnamed workspaces are labelled with their id, and focus takes precedence
// over activity.
func ToCompositor(w Workspace) compositor.Workspace {
	name := strconv.FormatUint(w.ID, 10)
	if w.Name != nil {
		name = *w.Name
	}

	monitor := ""
	if w.Output != nil {
		monitor = *w.Output
	}

	visibility := compositor.VisibilityHidden
	switch {
	case w.IsFocused:
		visibility = compositor.VisibilityFocused
	case w.IsActive:
		visibility = compositor.VisibilityVisible
	}

	return compositor.Workspace{
		ID:         int64(w.ID),
		Name:       name,
		Monitor:    monitor,
		Visibility: visibility,
	}
}

// ToCompositorAll maps a snapshot, preserving order.
func ToCompositorAll(workspaces []Workspace) []compositor.Workspace {
	out := make([]compositor.Workspace, 0, len(workspaces))
	for _, w := range workspaces {
		out = append(out, ToCompositor(w))
	}
	return out
}
