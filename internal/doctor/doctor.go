// Package doctor runs readiness diagnostics for config, session, and the niri socket.
package doctor

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"strings"
	"time"

	"github.com/rbright/niriws/internal/compositor"
	"github.com/rbright/niriws/internal/config"
	"github.com/rbright/niriws/internal/niri"
)

// Check is one doctor assertion result.
type Check struct {
	Name    string
	Pass    bool
	Message string
}

// Report is the full doctor output contract.
type Report struct {
	Checks []Check
}

// OK returns true when all checks pass.
func (r Report) OK() bool {
	for _, check := range r.Checks {
		if !check.Pass {
			return false
		}
	}
	return true
}

// String renders the report as user-facing text output.
func (r Report) String() string {
	var b strings.Builder
	for _, check := range r.Checks {
		status := "OK"
		if !check.Pass {
			status = "FAIL"
		}
		b.WriteString(fmt.Sprintf("[%s] %s: %s\n", status, check.Name, check.Message))
	}
	return strings.TrimSuffix(b.String(), "\n")
}

// Target is the socket the remaining checks run against. Err is the
// resolution failure when no path could be determined.
type Target struct {
	Socket string
	Err    error
	Dialer niri.Dialer
}

// errNoSocket is reported when a caller builds a Target without a path or error.
var errNoSocket = errors.New("no socket path resolved")

// NewTarget wraps a socket resolution result.
func NewTarget(socket string, err error, dialer niri.Dialer) Target {
	if err == nil && strings.TrimSpace(socket) == "" {
		err = errNoSocket
	}
	return Target{Socket: socket, Err: err, Dialer: dialer}
}

// Run executes environment/config/socket checks for a loaded config.
func Run(ctx context.Context, cfg config.Loaded, target Target) Report {
	checks := []Check{}

	configMessage := fmt.Sprintf("loaded %q", cfg.Path)
	if !cfg.Exists {
		configMessage = fmt.Sprintf("%q not found; using defaults", cfg.Path)
	}
	checks = append(checks, Check{Name: "config", Pass: true, Message: configMessage})

	checks = append(checks, checkEnv("XDG_SESSION_TYPE", func(v string) bool {
		return strings.EqualFold(strings.TrimSpace(v), "wayland")
	}, "session type is wayland", "expected XDG_SESSION_TYPE=wayland"))

	checks = append(checks, checkBinary("niri", "compositor binary available"))

	socketCheck := checkSocket(target)
	checks = append(checks, socketCheck)
	if socketCheck.Pass {
		checks = append(checks, checkWorkspaces(ctx, target, cfg.Config.Timeouts.Request))
	}

	return Report{Checks: checks}
}

// checkEnv validates an environment variable through a caller-supplied predicate.
func checkEnv(name string, predicate func(string) bool, okMsg, failMsg string) Check {
	value := os.Getenv(name)
	if predicate(value) {
		return Check{Name: name, Pass: true, Message: okMsg}
	}
	return Check{Name: name, Pass: false, Message: failMsg}
}

// checkBinary validates that a binary exists in PATH.
func checkBinary(bin string, okMsg string) Check {
	path, err := exec.LookPath(bin)
	if err != nil {
		return Check{Name: bin, Pass: false, Message: fmt.Sprintf("binary not found in PATH: %s", bin)}
	}
	return Check{Name: bin, Pass: true, Message: fmt.Sprintf("found at %s (%s)", path, okMsg)}
}

func checkSocket(target Target) Check {
	if target.Err != nil {
		return Check{Name: "niri.socket", Pass: false, Message: target.Err.Error()}
	}
	info, err := os.Stat(target.Socket)
	if err != nil {
		return Check{Name: "niri.socket", Pass: false, Message: err.Error()}
	}
	if info.Mode()&os.ModeSocket == 0 {
		return Check{Name: "niri.socket", Pass: false, Message: fmt.Sprintf("%s is not a socket", target.Socket)}
	}
	return Check{Name: "niri.socket", Pass: true, Message: target.Socket}
}

// checkWorkspaces runs one Workspaces round-trip against the live socket.
func checkWorkspaces(ctx context.Context, target Target, timeout time.Duration) Check {
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	conn, err := target.Dialer.Dial(ctx, target.Socket)
	if err != nil {
		return Check{Name: "niri.workspaces", Pass: false, Message: err.Error()}
	}
	defer conn.Close()

	reply, _, err := conn.Send(ctx, niri.WorkspacesRequest())
	if err != nil {
		return Check{Name: "niri.workspaces", Pass: false, Message: err.Error()}
	}
	resp, err := reply.Result()
	if err != nil {
		return Check{Name: "niri.workspaces", Pass: false, Message: err.Error()}
	}
	if resp.Kind != niri.ResponseWorkspaces {
		return Check{Name: "niri.workspaces", Pass: false, Message: fmt.Sprintf("unexpected response %s", resp.Kind)}
	}

	message := fmt.Sprintf("%d workspaces", len(resp.Workspaces))
	if focused, ok := compositor.Focused(niri.ToCompositorAll(resp.Workspaces)); ok {
		message += fmt.Sprintf(", focused %q on %s", focused.Name, focused.Monitor)
	}
	return Check{Name: "niri.workspaces", Pass: true, Message: message}
}
