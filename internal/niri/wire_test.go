package niri

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/require"
)

func strPtr(s string) *string {
	return &s
}

func sampleWorkspaces() []Workspace {
	return []Workspace{
		{ID: 1, Name: strPtr("web"), Output: strPtr("DP-1"), IsActive: true, IsFocused: true},
		{ID: 2, Name: nil, Output: strPtr("DP-1"), IsActive: false, IsFocused: false},
		{ID: 3, Name: strPtr("chat"), Output: nil, IsActive: true, IsFocused: false},
	}
}

func TestRequestEncoding(t *testing.T) {
	tests := []struct {
		name string
		req  Request
		want string
	}{
		{name: "event stream", req: EventStreamRequest(), want: `"EventStream"`},
		{name: "workspaces", req: WorkspacesRequest(), want: `"Workspaces"`},
		{name: "focus by id", req: ActionRequest(FocusWorkspace(IDReference(3))), want: `{"Action":{"FocusWorkspace":{"reference":{"Id":3}}}}`},
		{name: "focus by name", req: ActionRequest(FocusWorkspace(NameReference("web"))), want: `{"Action":{"FocusWorkspace":{"reference":{"Name":"web"}}}}`},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			data, err := json.Marshal(tc.req)
			require.NoError(t, err)
			require.JSONEq(t, tc.want, string(data))

			var decoded Request
			require.NoError(t, json.Unmarshal(data, &decoded))
			require.Equal(t, tc.req, decoded)
		})
	}
}

func TestReplyAndResponseRoundTrip(t *testing.T) {
	replies := []Reply{
		OKReply(HandledResponse()),
		OKReply(WorkspacesResponse(sampleWorkspaces())),
		OKReply(WorkspacesResponse([]Workspace{})),
		ErrReply("no such workspace"),
		ErrReply(""),
	}

	for _, reply := range replies {
		data, err := json.Marshal(reply)
		require.NoError(t, err)

		var decoded Reply
		require.NoError(t, json.Unmarshal(data, &decoded), string(data))
		require.Equal(t, reply, decoded)
	}
}

func TestReplyWireShape(t *testing.T) {
	data, err := json.Marshal(OKReply(HandledResponse()))
	require.NoError(t, err)
	require.JSONEq(t, `{"Ok":"Handled"}`, string(data))

	data, err = json.Marshal(ErrReply("boom"))
	require.NoError(t, err)
	require.JSONEq(t, `{"Err":"boom"}`, string(data))

	data, err = json.Marshal(OKReply(WorkspacesResponse(nil)))
	require.NoError(t, err)
	require.JSONEq(t, `{"Ok":{"Workspaces":[]}}`, string(data))
}

func TestEventRoundTrip(t *testing.T) {
	events := []Event{
		WorkspacesChanged(sampleWorkspaces()),
		WorkspacesChanged([]Workspace{}),
		WorkspaceActivated(7, true),
		WorkspaceActivated(0, false),
		OtherEvent(),
	}

	for _, event := range events {
		data, err := json.Marshal(event)
		require.NoError(t, err)

		var decoded Event
		require.NoError(t, json.Unmarshal(data, &decoded), string(data))
		require.Equal(t, event, decoded)
	}
}

func TestWorkspaceRoundTrip(t *testing.T) {
	for _, ws := range sampleWorkspaces() {
		data, err := json.Marshal(ws)
		require.NoError(t, err)

		var decoded Workspace
		require.NoError(t, json.Unmarshal(data, &decoded))
		require.Equal(t, ws, decoded)
	}
}

func TestWorkspaceDecodeIgnoresExtraFieldsAndRequiresFlags(t *testing.T) {
	var ws Workspace
	err := json.Unmarshal([]byte(`{"id":4,"idx":2,"name":null,"output":"HDMI-A-1","is_active":true,"is_focused":false,"active_window_id":12}`), &ws)
	require.NoError(t, err)
	require.Equal(t, Workspace{ID: 4, Output: strPtr("HDMI-A-1"), IsActive: true}, ws)

	err = json.Unmarshal([]byte(`{"id":4,"is_active":true}`), &ws)
	require.Error(t, err)
	require.Contains(t, err.Error(), "is_focused")

	err = json.Unmarshal([]byte(`{"name":"x","is_active":true,"is_focused":true}`), &ws)
	require.Error(t, err)
	require.Contains(t, err.Error(), `"id"`)
}

func TestEventUnknownTagsDecodeAsOther(t *testing.T) {
	lines := []string{
		`{"WindowOpenedOrChanged":{"window":{"id":1}}}`,
		`{"KeyboardLayoutsChanged":{"keyboard_layouts":{"names":[],"current_idx":0}}}`,
		`"SomethingNew"`,
		`"Other"`,
	}

	for _, line := range lines {
		var event Event
		require.NoError(t, json.Unmarshal([]byte(line), &event), line)
		require.Equal(t, OtherEvent(), event)
	}
}

func TestEventMalformedPayloadFails(t *testing.T) {
	lines := []string{
		`not-json`,
		`{"WorkspaceActivated":{"id":"seven","focused":true}}`,
		`{"WorkspaceActivated":{"id":7}}`,
		`{"WorkspacesChanged":{}}`,
		`{"WorkspacesChanged":null}`,
		`{"A":1,"B":2}`,
	}

	for _, line := range lines {
		var event Event
		require.Error(t, json.Unmarshal([]byte(line), &event), line)
	}
}

func TestStrictTypesRejectUnknownTags(t *testing.T) {
	var req Request
	require.Error(t, json.Unmarshal([]byte(`"Outputs"`), &req))
	require.Error(t, json.Unmarshal([]byte(`{"Action":{"CloseWindow":{"id":null}}}`), &req))
	require.Error(t, json.Unmarshal([]byte(`{"Action":{"FocusWorkspace":{}}}`), &req))
	require.Error(t, json.Unmarshal([]byte(`{"Action":null}`), &req))

	var ref WorkspaceReferenceArg
	require.Error(t, json.Unmarshal([]byte(`{"Index":2}`), &ref))
	require.Error(t, json.Unmarshal([]byte(`{"Id":-1}`), &ref))

	var reply Reply
	require.Error(t, json.Unmarshal([]byte(`{"Maybe":"Handled"}`), &reply))
	require.Error(t, json.Unmarshal([]byte(`{"Ok":"Outputs"}`), &reply))
	require.Error(t, json.Unmarshal([]byte(`"Ok"`), &reply))

	var resp Response
	require.Error(t, json.Unmarshal([]byte(`{"Workspaces":[{"id":1}]}`), &resp))
}

func TestReplyResult(t *testing.T) {
	resp, err := OKReply(HandledResponse()).Result()
	require.NoError(t, err)
	require.Equal(t, ResponseHandled, resp.Kind)

	_, err = ErrReply("no such workspace").Result()
	var replyErr *ReplyError
	require.ErrorAs(t, err, &replyErr)
	require.Equal(t, "no such workspace", replyErr.Message)
	require.Equal(t, "niri: no such workspace", err.Error())
}

func TestWorkspaceCompare(t *testing.T) {
	a := Workspace{ID: 1}
	b := Workspace{ID: 1, Name: strPtr("a")}
	c := Workspace{ID: 1, Name: strPtr("b")}
	d := Workspace{ID: 2}

	require.Equal(t, -1, a.Compare(b))
	require.Equal(t, -1, b.Compare(c))
	require.Equal(t, 1, d.Compare(c))
	require.Equal(t, 0, c.Compare(Workspace{ID: 1, Name: strPtr("b")}))
	require.Equal(t, -1, Workspace{ID: 1, IsActive: false}.Compare(Workspace{ID: 1, IsActive: true}))
}
