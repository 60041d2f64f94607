// Package niri speaks the niri compositor's IPC protocol over its unix socket.
//
// A session is one request line, one reply line, and then an optional
// stream of event lines pushed by the compositor on the same socket.
package niri

import (
	"cmp"
	"strconv"
)

// RequestKind selects the Request variant.
type RequestKind string

const (
	RequestAction      RequestKind = "Action"
	RequestEventStream RequestKind = "EventStream"
	RequestWorkspaces  RequestKind = "Workspaces"
)

// Request is a message sent to the compositor. Action is only meaningful
// when Kind is RequestAction.
type Request struct {
	Kind   RequestKind
	Action Action
}

// EventStreamRequest asks the compositor to push events after its reply.
func EventStreamRequest() Request {
	return Request{Kind: RequestEventStream}
}

// WorkspacesRequest asks for the current workspace list.
func WorkspacesRequest() Request {
	return Request{Kind: RequestWorkspaces}
}

// ActionRequest wraps an Action.
func ActionRequest(action Action) Request {
	return Request{Kind: RequestAction, Action: action}
}

// ActionKind selects the Action variant.
type ActionKind string

const (
	ActionFocusWorkspace ActionKind = "FocusWorkspace"
)

// Action is a compositor command.
type Action struct {
	Kind      ActionKind
	Reference WorkspaceReferenceArg
}

// FocusWorkspace builds the action that focuses the referenced workspace.
func FocusWorkspace(reference WorkspaceReferenceArg) Action {
	return Action{Kind: ActionFocusWorkspace, Reference: reference}
}

// ReferenceKind selects the WorkspaceReferenceArg variant.
type ReferenceKind string

const (
	ReferenceName ReferenceKind = "Name"
	ReferenceID   ReferenceKind = "Id"
)

// WorkspaceReferenceArg targets a workspace by name or by id.
type WorkspaceReferenceArg struct {
	Kind ReferenceKind
	Name string
	ID   uint64
}

func NameReference(name string) WorkspaceReferenceArg {
	return WorkspaceReferenceArg{Kind: ReferenceName, Name: name}
}

func IDReference(id uint64) WorkspaceReferenceArg {
	return WorkspaceReferenceArg{Kind: ReferenceID, ID: id}
}

func (r WorkspaceReferenceArg) String() string {
	if r.Kind == ReferenceID {
		return strconv.FormatUint(r.ID, 10)
	}
	return r.Name
}

// Reply is the compositor's answer to a request. A reply with OK false
// carries the compositor's own error message; that is data, not a
// transport failure.
type Reply struct {
	OK       bool
	Response Response
	Err      string
}

func OKReply(response Response) Reply {
	return Reply{OK: true, Response: response}
}

func ErrReply(message string) Reply {
	return Reply{Err: message}
}

// Result converts an error reply into a *ReplyError.
func (r Reply) Result() (Response, error) {
	if !r.OK {
		return Response{}, &ReplyError{Message: r.Err}
	}
	return r.Response, nil
}

// ResponseKind selects the Response variant.
type ResponseKind string

const (
	ResponseHandled    ResponseKind = "Handled"
	ResponseWorkspaces ResponseKind = "Workspaces"
)

// Response is the payload of a successful reply.
type Response struct {
	Kind       ResponseKind
	Workspaces []Workspace
}

func HandledResponse() Response {
	return Response{Kind: ResponseHandled}
}

func WorkspacesResponse(workspaces []Workspace) Response {
	return Response{Kind: ResponseWorkspaces, Workspaces: workspaces}
}

// Workspace is the compositor's record of one workspace. ID is stable for
// the lifetime of the compositor session.
type Workspace struct {
	ID        uint64  `json:"id"`
	Name      *string `json:"name"`
	Output    *string `json:"output"`
	IsActive  bool    `json:"is_active"`
	IsFocused bool    `json:"is_focused"`
}

// Compare orders workspaces field by field, id first. A missing name or
// output sorts before any present one.
func (w Workspace) Compare(other Workspace) int {
	if c := cmp.Compare(w.ID, other.ID); c != 0 {
		return c
	}
	if c := compareOptional(w.Name, other.Name); c != 0 {
		return c
	}
	if c := compareOptional(w.Output, other.Output); c != 0 {
		return c
	}
	if c := compareBool(w.IsActive, other.IsActive); c != 0 {
		return c
	}
	return compareBool(w.IsFocused, other.IsFocused)
}

func compareOptional(a, b *string) int {
	switch {
	case a == nil && b == nil:
		return 0
	case a == nil:
		return -1
	case b == nil:
		return 1
	default:
		return cmp.Compare(*a, *b)
	}
}

func compareBool(a, b bool) int {
	switch {
	case a == b:
		return 0
	case !a:
		return -1
	default:
		return 1
	}
}

// EventKind selects the Event variant.
type EventKind string

const (
	EventWorkspacesChanged  EventKind = "WorkspacesChanged"
	EventWorkspaceActivated EventKind = "WorkspaceActivated"
	EventOther              EventKind = "Other"
)

// Event is one message of the compositor's event stream. Every event the
// client does not model decodes as EventOther.
type Event struct {
	Kind       EventKind
	Workspaces []Workspace
	ID         uint64
	Focused    bool
}

func WorkspacesChanged(workspaces []Workspace) Event {
	return Event{Kind: EventWorkspacesChanged, Workspaces: workspaces}
}

func WorkspaceActivated(id uint64, focused bool) Event {
	return Event{Kind: EventWorkspaceActivated, ID: id, Focused: focused}
}

func OtherEvent() Event {
	return Event{Kind: EventOther}
}
