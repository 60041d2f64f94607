// Package app dispatches parsed niriws commands against the niri socket.
package app

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/rbright/niriws/internal/cli"
	"github.com/rbright/niriws/internal/compositor"
	"github.com/rbright/niriws/internal/config"
	"github.com/rbright/niriws/internal/doctor"
	"github.com/rbright/niriws/internal/logging"
	"github.com/rbright/niriws/internal/niri"
	"github.com/rbright/niriws/internal/version"
)

// Runner executes one niriws invocation.
type Runner struct {
	Stdout io.Writer
	Stderr io.Writer
	// Logger overrides the file logger built from config.
	Logger *slog.Logger
}

// Execute runs args and returns the process exit code: 0 on success, 1 on
// runtime failure, 2 on usage errors.
func Execute(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	r := Runner{Stdout: stdout, Stderr: stderr}
	return r.Execute(ctx, args)
}

// invocation is the resolved state shared by the socket commands.
type invocation struct {
	parsed cli.Parsed
	cfg    config.Config
	logger *slog.Logger
	dialer niri.Dialer
	socket string
}

func (r Runner) Execute(ctx context.Context, args []string) int {
	parsed, err := cli.Parse(args)
	if err != nil {
		fmt.Fprintf(r.Stderr, "error: %v\n\n", err)
		fmt.Fprint(r.Stderr, cli.HelpText())
		return 2
	}

	if parsed.ShowHelp {
		fmt.Fprint(r.Stdout, parsed.Help)
		return 0
	}

	if parsed.Command == cli.CommandVersion {
		fmt.Fprintln(r.Stdout, version.String())
		return 0
	}

	cfgLoaded, err := config.Load(parsed.ConfigPath)
	if err != nil {
		fmt.Fprintf(r.Stderr, "error: %v\n", err)
		return 1
	}

	logRuntime, err := logging.New(logging.Options{
		Level:   cfgLoaded.Config.Log.Level,
		Verbose: parsed.Verbose,
		Stderr:  r.Stderr,
	})
	if err != nil {
		fmt.Fprintf(r.Stderr, "error: setup logging: %v\n", err)
		return 1
	}
	defer func() { _ = logRuntime.Close() }()

	logger := r.Logger
	if logger == nil {
		logger = logRuntime.Logger
	}

	for _, w := range cfgLoaded.Warnings {
		if !cfgLoaded.Exists {
			logger.Debug("config warning", "message", w.Message)
			continue
		}
		msg := w.Message
		if w.Line > 0 {
			msg = fmt.Sprintf("line %d: %s", w.Line, w.Message)
		}
		fmt.Fprintf(r.Stderr, "warning: %s\n", msg)
		logger.Warn("config warning", "line", w.Line, "message", w.Message)
	}

	explicitSocket := strings.TrimSpace(parsed.Socket)
	if explicitSocket == "" {
		explicitSocket = cfgLoaded.Config.Socket
	}
	socketPath, socketErr := niri.ResolveSocketPath(explicitSocket, os.LookupEnv)

	logger.Info("command start",
		"command", parsed.Command,
		"config", cfgLoaded.Path,
		"socket", socketPath,
		"log", logRuntime.Path,
	)

	inv := invocation{
		parsed: parsed,
		cfg:    cfgLoaded.Config,
		logger: logger,
		dialer: niri.Dialer{Timeout: cfgLoaded.Config.Timeouts.Dial, Logger: logger},
		socket: socketPath,
	}

	if parsed.Command == cli.CommandDoctor {
		report := doctor.Run(ctx, cfgLoaded, doctor.NewTarget(socketPath, socketErr, inv.dialer))
		fmt.Fprintln(r.Stdout, report.String())
		if report.OK() {
			return 0
		}
		return 1
	}

	if socketErr != nil {
		fmt.Fprintf(r.Stderr, "error: %v\n", socketErr)
		logger.Error("resolve socket failed", "error", socketErr.Error())
		return 1
	}

	var runErr error
	switch parsed.Command {
	case cli.CommandWorkspaces:
		runErr = r.commandWorkspaces(ctx, inv)
	case cli.CommandFocus:
		runErr = r.commandFocus(ctx, inv)
	case cli.CommandWatch:
		runErr = r.commandWatch(ctx, inv)
	default:
		fmt.Fprintf(r.Stderr, "error: unsupported command %q\n", parsed.Command)
		return 2
	}

	if runErr != nil {
		fmt.Fprintf(r.Stderr, "error: %v\n", runErr)
		logger.Error("command failed", "command", parsed.Command, "error", runErr.Error())
		return 1
	}
	logger.Info("command complete", "command", parsed.Command)
	return 0
}

// request runs one request/reply exchange bounded by the request timeout.
func request(ctx context.Context, inv invocation, req niri.Request) (niri.Response, error) {
	ctx, cancel := context.WithTimeout(ctx, inv.cfg.Timeouts.Request)
	defer cancel()

	conn, err := inv.dialer.Dial(ctx, inv.socket)
	if err != nil {
		return niri.Response{}, err
	}
	defer conn.Close()

	reply, _, err := conn.Send(ctx, req)
	if err != nil {
		return niri.Response{}, err
	}
	return reply.Result()
}

func (r Runner) commandWorkspaces(ctx context.Context, inv invocation) error {
	resp, err := request(ctx, inv, niri.WorkspacesRequest())
	if err != nil {
		return err
	}
	if resp.Kind != niri.ResponseWorkspaces {
		return fmt.Errorf("unexpected response %s to workspaces request", resp.Kind)
	}

	workspaces := niri.NewState(resp.Workspaces).Compositor()
	inv.logger.Debug("workspaces listed", "count", len(workspaces))
	if inv.parsed.JSON {
		return writeJSON(r.Stdout, workspaces)
	}
	return renderWorkspaces(r.Stdout, workspaces)
}

func (r Runner) commandFocus(ctx context.Context, inv invocation) error {
	ref := niri.ParseReference(inv.parsed.Reference)
	resp, err := request(ctx, inv, niri.ActionRequest(niri.FocusWorkspace(ref)))
	if err != nil {
		return err
	}
	if resp.Kind != niri.ResponseHandled {
		return fmt.Errorf("unexpected response %s to focus request", resp.Kind)
	}
	inv.logger.Info("workspace focused", "reference", ref.String())
	return nil
}

// commandWatch prints the workspace snapshot after every change until the
// compositor closes the stream or ctx ends.
func (r Runner) commandWatch(ctx context.Context, inv invocation) error {
	dialCtx, cancelDial := context.WithTimeout(ctx, inv.cfg.Timeouts.Request)
	defer cancelDial()

	conn, err := inv.dialer.Dial(dialCtx, inv.socket)
	if err != nil {
		return err
	}
	defer conn.Close()

	reply, events, err := conn.Send(dialCtx, niri.EventStreamRequest())
	if err != nil {
		return err
	}
	if _, err := reply.Result(); err != nil {
		return err
	}
	cancelDial()

	format := inv.cfg.Watch.Format
	if inv.parsed.JSON {
		format = config.FormatJSON
	}

	state := niri.NewState(nil)
	for {
		event, err := events.Next(ctx)
		var decodeErr *niri.DecodeError
		switch {
		case err == nil:
		case errors.As(err, &decodeErr):
			inv.logger.Warn("skipping undecodable event", "error", decodeErr.Err.Error())
			continue
		case errors.Is(err, io.EOF):
			inv.logger.Info("event stream closed by compositor")
			return nil
		case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
			inv.logger.Info("watch stopped", "reason", err.Error())
			return nil
		default:
			return err
		}

		if !state.Apply(event) {
			continue
		}
		if err := r.printSnapshot(format, state.Compositor()); err != nil {
			return err
		}
	}
}

func (r Runner) printSnapshot(format string, workspaces []compositor.Workspace) error {
	if format == config.FormatJSON {
		return writeJSONLine(r.Stdout, workspaces)
	}
	if err := renderWorkspaces(r.Stdout, workspaces); err != nil {
		return err
	}
	_, err := fmt.Fprintln(r.Stdout)
	return err
}
