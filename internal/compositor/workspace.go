// Package compositor holds the backend-neutral workspace model consumed by the status display.
package compositor

// Visibility describes how a workspace is currently shown.
type Visibility string

const (
	VisibilityFocused Visibility = "focused"
	VisibilityVisible Visibility = "visible"
	VisibilityHidden  Visibility = "hidden"
)

// Visible reports whether the workspace is on screen, focused or not.
func (v Visibility) Visible() bool {
	return v == VisibilityFocused || v == VisibilityVisible
}

// Focused reports whether the workspace has input focus.
func (v Visibility) Focused() bool {
	return v == VisibilityFocused
}

// Workspace is one workspace as every compositor backend reports it.
type Workspace struct {
	ID         int64      `json:"id"`
	Name       string     `json:"name"`
	Monitor    string     `json:"monitor"`
	Visibility Visibility `json:"visibility"`
}

// Focused returns the focused workspace of a snapshot, if any.
func Focused(workspaces []Workspace) (Workspace, bool) {
	for _, ws := range workspaces {
		if ws.Visibility.Focused() {
			return ws, true
		}
	}
	return Workspace{}, false
}
