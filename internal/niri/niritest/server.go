// Package niritest runs an in-process stand-in for the niri IPC socket.
package niritest

import (
	"bufio"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net"
	"path/filepath"
	"sync"
	"testing"

	"github.com/rbright/niriws/internal/niri"
)

// Session is what the server writes back for one request: a raw reply line
// followed by raw event lines. Lines are written verbatim so tests can send
// malformed payloads; use Line to encode typed values.
type Session struct {
	Reply  string
	Events []string
	// HoldOpen keeps the socket open after the last event until the server stops.
	HoldOpen bool
}

// Handler answers one decoded request.
type Handler interface {
	Handle(context.Context, niri.Request) Session
}

// HandlerFunc adapts a function to the Handler interface.
type HandlerFunc func(context.Context, niri.Request) Session

func (f HandlerFunc) Handle(ctx context.Context, req niri.Request) Session {
	return f(ctx, req)
}

// Line encodes v as one protocol line without the trailing newline.
func Line(v any) string {
	data, err := json.Marshal(v)
	if err != nil {
		panic(fmt.Sprintf("niritest: encode %T: %v", v, err))
	}
	return string(data)
}

// Reply answers every request with the same reply and events.
func Reply(reply niri.Reply, events ...niri.Event) Handler {
	lines := make([]string, 0, len(events))
	for _, event := range events {
		lines = append(lines, Line(event))
	}
	return HandlerFunc(func(context.Context, niri.Request) Session {
		return Session{Reply: Line(reply), Events: lines}
	})
}

// Serve accepts clients until ctx is cancelled or the listener closes. Each
// client gets one request line read and one Session written.
func Serve(ctx context.Context, listener net.Listener, handler Handler) error {
	var wg sync.WaitGroup

	go func() {
		<-ctx.Done()
		_ = listener.Close()
	}()

	for {
		conn, err := listener.Accept()
		if err != nil {
			if errors.Is(err, net.ErrClosed) || ctx.Err() != nil {
				wg.Wait()
				return nil
			}
			return fmt.Errorf("accept niri connection: %w", err)
		}

		wg.Add(1)
		go func(c net.Conn) {
			defer wg.Done()
			defer c.Close()
			serveConn(ctx, c, handler)
		}(conn)
	}
}

func serveConn(ctx context.Context, c net.Conn, handler Handler) {
	stop := context.AfterFunc(ctx, func() { _ = c.Close() })
	defer stop()

	reader := bufio.NewReader(c)
	line, err := reader.ReadBytes('\n')
	if err != nil {
		writeLine(c, Line(niri.ErrReply(fmt.Sprintf("read request: %v", err))))
		return
	}

	var req niri.Request
	if err := json.Unmarshal(line, &req); err != nil {
		writeLine(c, Line(niri.ErrReply(fmt.Sprintf("decode request: %v", err))))
		return
	}

	session := handler.Handle(ctx, req)
	if !writeLine(c, session.Reply) {
		return
	}
	for _, event := range session.Events {
		if !writeLine(c, event) {
			return
		}
	}
	if session.HoldOpen {
		<-ctx.Done()
	}
}

func writeLine(c net.Conn, line string) bool {
	_, err := c.Write([]byte(line + "\n"))
	return err == nil
}

// Start serves handler on a socket in a fresh temp dir and returns its path.
// The server stops when the test ends.
func Start(tb testing.TB, handler Handler) string {
	tb.Helper()

	socketPath := filepath.Join(tb.TempDir(), "niri.sock")
	listener, err := net.Listen("unix", socketPath)
	if err != nil {
		tb.Fatalf("listen %s: %v", socketPath, err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() {
		done <- Serve(ctx, listener, handler)
	}()

	tb.Cleanup(func() {
		cancel()
		if err := <-done; err != nil {
			tb.Errorf("niritest serve: %v", err)
		}
	})
	return socketPath
}
