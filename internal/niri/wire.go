package niri

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
)

// The compositor encodes enums in the externally tagged form: unit variants
// are bare strings ("Handled"), variants with data are single-key objects
// ({"Workspaces":[...]}).

var errMissingPayload = errors.New("missing variant payload")

// splitTag returns the variant tag and its payload. The payload is nil for
// unit variants.
func splitTag(data []byte) (string, json.RawMessage, error) {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) > 0 && trimmed[0] == '"' {
		var tag string
		if err := json.Unmarshal(trimmed, &tag); err != nil {
			return "", nil, err
		}
		return tag, nil, nil
	}

	var object map[string]json.RawMessage
	if err := json.Unmarshal(trimmed, &object); err != nil {
		return "", nil, err
	}
	if len(object) != 1 {
		return "", nil, fmt.Errorf("expected a single variant tag, got %d keys", len(object))
	}
	for tag, payload := range object {
		return tag, payload, nil
	}
	return "", nil, nil
}

func isUnitPayload(payload json.RawMessage) bool {
	return payload == nil || bytes.Equal(bytes.TrimSpace(payload), []byte("null"))
}

func tagged(tag string, payload any) ([]byte, error) {
	return json.Marshal(map[string]any{tag: payload})
}

func nonNil(workspaces []Workspace) []Workspace {
	if workspaces == nil {
		return []Workspace{}
	}
	return workspaces
}

func (r Request) MarshalJSON() ([]byte, error) {
	switch r.Kind {
	case RequestEventStream, RequestWorkspaces:
		return json.Marshal(string(r.Kind))
	case RequestAction:
		return tagged(string(RequestAction), r.Action)
	default:
		return nil, fmt.Errorf("unknown request kind %q", r.Kind)
	}
}

func (r *Request) UnmarshalJSON(data []byte) error {
	tag, payload, err := splitTag(data)
	if err != nil {
		return fmt.Errorf("request: %w", err)
	}

	switch RequestKind(tag) {
	case RequestEventStream, RequestWorkspaces:
		if !isUnitPayload(payload) {
			return fmt.Errorf("request %s: unexpected payload", tag)
		}
		*r = Request{Kind: RequestKind(tag)}
		return nil
	case RequestAction:
		if isUnitPayload(payload) {
			return fmt.Errorf("request %s: %w", tag, errMissingPayload)
		}
		var action Action
		if err := json.Unmarshal(payload, &action); err != nil {
			return err
		}
		*r = ActionRequest(action)
		return nil
	default:
		return fmt.Errorf("unknown request %q", tag)
	}
}

type focusWorkspacePayload struct {
	Reference *WorkspaceReferenceArg `json:"reference"`
}

func (a Action) MarshalJSON() ([]byte, error) {
	switch a.Kind {
	case ActionFocusWorkspace:
		reference := a.Reference
		return tagged(string(a.Kind), focusWorkspacePayload{Reference: &reference})
	default:
		return nil, fmt.Errorf("unknown action kind %q", a.Kind)
	}
}

func (a *Action) UnmarshalJSON(data []byte) error {
	tag, payload, err := splitTag(data)
	if err != nil {
		return fmt.Errorf("action: %w", err)
	}

	switch ActionKind(tag) {
	case ActionFocusWorkspace:
		if isUnitPayload(payload) {
			return fmt.Errorf("action %s: %w", tag, errMissingPayload)
		}
		var body focusWorkspacePayload
		if err := json.Unmarshal(payload, &body); err != nil {
			return fmt.Errorf("action %s: %w", tag, err)
		}
		if body.Reference == nil {
			return fmt.Errorf("action %s: missing field %q", tag, "reference")
		}
		*a = FocusWorkspace(*body.Reference)
		return nil
	default:
		return fmt.Errorf("unknown action %q", tag)
	}
}

func (r WorkspaceReferenceArg) MarshalJSON() ([]byte, error) {
	switch r.Kind {
	case ReferenceID:
		return tagged(string(r.Kind), r.ID)
	case ReferenceName:
		return tagged(string(r.Kind), r.Name)
	default:
		return nil, fmt.Errorf("unknown workspace reference kind %q", r.Kind)
	}
}

func (r *WorkspaceReferenceArg) UnmarshalJSON(data []byte) error {
	tag, payload, err := splitTag(data)
	if err != nil {
		return fmt.Errorf("workspace reference: %w", err)
	}
	if isUnitPayload(payload) {
		return fmt.Errorf("workspace reference %s: %w", tag, errMissingPayload)
	}

	switch ReferenceKind(tag) {
	case ReferenceID:
		var id uint64
		if err := json.Unmarshal(payload, &id); err != nil {
			return fmt.Errorf("workspace reference %s: %w", tag, err)
		}
		*r = IDReference(id)
		return nil
	case ReferenceName:
		var name string
		if err := json.Unmarshal(payload, &name); err != nil {
			return fmt.Errorf("workspace reference %s: %w", tag, err)
		}
		*r = NameReference(name)
		return nil
	default:
		return fmt.Errorf("unknown workspace reference %q", tag)
	}
}

func (r Reply) MarshalJSON() ([]byte, error) {
	if r.OK {
		return tagged("Ok", r.Response)
	}
	return tagged("Err", r.Err)
}

func (r *Reply) UnmarshalJSON(data []byte) error {
	tag, payload, err := splitTag(data)
	if err != nil {
		return fmt.Errorf("reply: %w", err)
	}
	if isUnitPayload(payload) {
		return fmt.Errorf("reply %s: %w", tag, errMissingPayload)
	}

	switch tag {
	case "Ok":
		var response Response
		if err := json.Unmarshal(payload, &response); err != nil {
			return err
		}
		*r = OKReply(response)
		return nil
	case "Err":
		var message string
		if err := json.Unmarshal(payload, &message); err != nil {
			return fmt.Errorf("reply Err: %w", err)
		}
		*r = ErrReply(message)
		return nil
	default:
		return fmt.Errorf("unknown reply %q", tag)
	}
}

func (r Response) MarshalJSON() ([]byte, error) {
	switch r.Kind {
	case ResponseHandled:
		return json.Marshal(string(r.Kind))
	case ResponseWorkspaces:
		return tagged(string(r.Kind), nonNil(r.Workspaces))
	default:
		return nil, fmt.Errorf("unknown response kind %q", r.Kind)
	}
}

func (r *Response) UnmarshalJSON(data []byte) error {
	tag, payload, err := splitTag(data)
	if err != nil {
		return fmt.Errorf("response: %w", err)
	}

	switch ResponseKind(tag) {
	case ResponseHandled:
		if !isUnitPayload(payload) {
			return fmt.Errorf("response %s: unexpected payload", tag)
		}
		*r = HandledResponse()
		return nil
	case ResponseWorkspaces:
		if isUnitPayload(payload) {
			return fmt.Errorf("response %s: %w", tag, errMissingPayload)
		}
		var workspaces []Workspace
		if err := json.Unmarshal(payload, &workspaces); err != nil {
			return fmt.Errorf("response %s: %w", tag, err)
		}
		*r = WorkspacesResponse(workspaces)
		return nil
	default:
		return fmt.Errorf("unknown response %q", tag)
	}
}

type workspaceFields struct {
	ID        *uint64 `json:"id"`
	Name      *string `json:"name"`
	Output    *string `json:"output"`
	IsActive  *bool   `json:"is_active"`
	IsFocused *bool   `json:"is_focused"`
}

// UnmarshalJSON requires the id and state flags; name and output may be
// null or absent. Fields the client does not model are ignored.
func (w *Workspace) UnmarshalJSON(data []byte) error {
	var fields workspaceFields
	if err := json.Unmarshal(data, &fields); err != nil {
		return fmt.Errorf("workspace: %w", err)
	}
	switch {
	case fields.ID == nil:
		return fmt.Errorf("workspace: missing field %q", "id")
	case fields.IsActive == nil:
		return fmt.Errorf("workspace: missing field %q", "is_active")
	case fields.IsFocused == nil:
		return fmt.Errorf("workspace: missing field %q", "is_focused")
	}

	*w = Workspace{
		ID:        *fields.ID,
		Name:      fields.Name,
		Output:    fields.Output,
		IsActive:  *fields.IsActive,
		IsFocused: *fields.IsFocused,
	}
	return nil
}

type workspacesChangedPayload struct {
	Workspaces *[]Workspace `json:"workspaces"`
}

type workspaceActivatedPayload struct {
	ID      *uint64 `json:"id"`
	Focused *bool   `json:"focused"`
}

func (e Event) MarshalJSON() ([]byte, error) {
	switch e.Kind {
	case EventWorkspacesChanged:
		workspaces := nonNil(e.Workspaces)
		return tagged(string(e.Kind), workspacesChangedPayload{Workspaces: &workspaces})
	case EventWorkspaceActivated:
		id, focused := e.ID, e.Focused
		return tagged(string(e.Kind), workspaceActivatedPayload{ID: &id, Focused: &focused})
	case EventOther, "":
		return json.Marshal(string(EventOther))
	default:
		return nil, fmt.Errorf("unknown event kind %q", e.Kind)
	}
}

// UnmarshalJSON maps every tag it does not model to OtherEvent. Malformed
// JSON and modelled tags with a malformed payload are still errors.
func (e *Event) UnmarshalJSON(data []byte) error {
	tag, payload, err := splitTag(data)
	if err != nil {
		return fmt.Errorf("event: %w", err)
	}

	switch EventKind(tag) {
	case EventWorkspacesChanged:
		if isUnitPayload(payload) {
			return fmt.Errorf("event %s: %w", tag, errMissingPayload)
		}
		var body workspacesChangedPayload
		if err := json.Unmarshal(payload, &body); err != nil {
			return fmt.Errorf("event %s: %w", tag, err)
		}
		if body.Workspaces == nil {
			return fmt.Errorf("event %s: missing field %q", tag, "workspaces")
		}
		*e = WorkspacesChanged(*body.Workspaces)
		return nil
	case EventWorkspaceActivated:
		if isUnitPayload(payload) {
			return fmt.Errorf("event %s: %w", tag, errMissingPayload)
		}
		var body workspaceActivatedPayload
		if err := json.Unmarshal(payload, &body); err != nil {
			return fmt.Errorf("event %s: %w", tag, err)
		}
		if body.ID == nil || body.Focused == nil {
			return fmt.Errorf("event %s: missing field", tag)
		}
		*e = WorkspaceActivated(*body.ID, *body.Focused)
		return nil
	default:
		*e = OtherEvent()
		return nil
	}
}
