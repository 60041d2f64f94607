package niri

import (
	"slices"

	"github.com/rbright/niriws/internal/compositor"
)

// State folds the event stream into the current workspace snapshot.
type State struct {
	workspaces []Workspace
}

// NewState starts from a snapshot, for example a Workspaces reply.
func NewState(workspaces []Workspace) *State {
	s := &State{}
	s.replace(workspaces)
	return s
}

// Apply updates the snapshot and reports whether it changed.
//
// Activating a workspace deactivates the others on its output; activating
// with focus moves the single global focus to it. Unknown ids are ignored.
func (s *State) Apply(event Event) bool {
	switch event.Kind {
	case EventWorkspacesChanged:
		before := s.Workspaces()
		s.replace(event.Workspaces)
		return !slices.EqualFunc(before, s.workspaces, workspaceEqual)
	case EventWorkspaceActivated:
		return s.activate(event.ID, event.Focused)
	default:
		return false
	}
}

// Workspaces returns a copy of the snapshot ordered by Workspace.Compare.
func (s *State) Workspaces() []Workspace {
	return slices.Clone(s.workspaces)
}

// Compositor returns the snapshot in the backend-neutral model.
func (s *State) Compositor() []compositor.Workspace {
	return ToCompositorAll(s.workspaces)
}

func (s *State) replace(workspaces []Workspace) {
	s.workspaces = slices.Clone(workspaces)
	slices.SortFunc(s.workspaces, Workspace.Compare)
}

func (s *State) activate(id uint64, focused bool) bool {
	index := slices.IndexFunc(s.workspaces, func(w Workspace) bool { return w.ID == id })
	if index < 0 {
		return false
	}

	target := s.workspaces[index]
	changed := false
	for i := range s.workspaces {
		w := &s.workspaces[i]
		next := *w
		if i == index {
			next.IsActive = true
			if focused {
				next.IsFocused = true
			}
		} else {
			if sameOutput(w.Output, target.Output) {
				next.IsActive = false
			}
			if focused {
				next.IsFocused = false
			}
		}
		if !workspaceEqual(*w, next) {
			*w = next
			changed = true
		}
	}
	return changed
}

func sameOutput(a, b *string) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return *a == *b
}

func workspaceEqual(a, b Workspace) bool {
	return a.Compare(b) == 0
}
