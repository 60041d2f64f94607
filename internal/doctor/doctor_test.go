package doctor

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/rbright/niriws/internal/config"
	"github.com/rbright/niriws/internal/niri"
	"github.com/rbright/niriws/internal/niri/niritest"
	"github.com/stretchr/testify/require"
)

func strPtr(s string) *string {
	return &s
}

func TestReportOKAndString(t *testing.T) {
	report := Report{Checks: []Check{
		{Name: "one", Pass: true, Message: "good"},
		{Name: "two", Pass: false, Message: "bad"},
	}}

	require.False(t, report.OK())
	text := report.String()
	require.Contains(t, text, "[OK] one: good")
	require.Contains(t, text, "[FAIL] two: bad")
}

func TestCheckEnv(t *testing.T) {
	t.Setenv("TEST_DOCTOR_ENV", "wayland")

	check := checkEnv(
		"TEST_DOCTOR_ENV",
		func(v string) bool { return strings.EqualFold(v, "wayland") },
		"looks good",
		"unexpected",
	)

	require.True(t, check.Pass)
	require.Equal(t, "looks good", check.Message)
}

func TestCheckBinaryFound(t *testing.T) {
	check := checkBinary("sh", "shell available")
	require.True(t, check.Pass)
	require.Contains(t, check.Message, "shell available")
}

func TestCheckBinaryMissing(t *testing.T) {
	check := checkBinary("definitely-not-a-real-binary", "unused")
	require.False(t, check.Pass)
	require.Contains(t, check.Message, "binary not found")
}

func TestCheckSocketReportsResolutionError(t *testing.T) {
	check := checkSocket(NewTarget("", niri.ErrSocketNotConfigured, niri.Dialer{}))
	require.False(t, check.Pass)
	require.Contains(t, check.Message, niri.SocketEnv)

	check = checkSocket(NewTarget("", nil, niri.Dialer{}))
	require.False(t, check.Pass)
}

func TestCheckSocketRejectsRegularFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "niri.sock")
	require.NoError(t, os.WriteFile(path, nil, 0o600))

	check := checkSocket(NewTarget(path, nil, niri.Dialer{}))
	require.False(t, check.Pass)
	require.Contains(t, check.Message, "not a socket")
}

func TestRunAgainstLiveSocket(t *testing.T) {
	workspaces := []niri.Workspace{
		{ID: 1, Name: strPtr("web"), Output: strPtr("DP-1"), IsActive: true, IsFocused: true},
		{ID: 2, Output: strPtr("DP-1")},
	}
	socketPath := niritest.Start(t, niritest.Reply(niri.OKReply(niri.WorkspacesResponse(workspaces))))

	binDir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(binDir, "niri"), []byte("#!/bin/sh\nexit 0\n"), 0o755))
	t.Setenv("PATH", binDir)
	t.Setenv("XDG_SESSION_TYPE", "wayland")

	loaded := config.Loaded{Path: "/tmp/config.jsonc", Config: config.Default()}
	report := Run(context.Background(), loaded, NewTarget(socketPath, nil, niri.Dialer{Timeout: time.Second}))

	require.True(t, report.OK(), report.String())
	text := report.String()
	require.Contains(t, text, "not found; using defaults")
	require.Contains(t, text, "[OK] niri.socket: "+socketPath)
	require.Contains(t, text, `[OK] niri.workspaces: 2 workspaces, focused "web" on DP-1`)
}

func TestRunReportsCompositorError(t *testing.T) {
	socketPath := niritest.Start(t, niritest.Reply(niri.ErrReply("not ready")))
	t.Setenv("XDG_SESSION_TYPE", "x11")

	loaded := config.Loaded{Path: "/tmp/config.jsonc", Config: config.Default(), Exists: true}
	report := Run(context.Background(), loaded, NewTarget(socketPath, nil, niri.Dialer{Timeout: time.Second}))

	require.False(t, report.OK())
	text := report.String()
	require.Contains(t, text, `[OK] config: loaded "/tmp/config.jsonc"`)
	require.Contains(t, text, "[FAIL] XDG_SESSION_TYPE")
	require.Contains(t, text, "[FAIL] niri.workspaces: niri: not ready")
}

func TestRunSkipsProbeWithoutSocket(t *testing.T) {
	loaded := config.Loaded{Path: "/tmp/config.jsonc", Config: config.Default()}
	report := Run(context.Background(), loaded, NewTarget("", niri.ErrSocketNotConfigured, niri.Dialer{}))

	require.False(t, report.OK())
	require.NotContains(t, report.String(), "niri.workspaces")
}
