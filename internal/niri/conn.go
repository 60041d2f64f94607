package niri

import (
	"bufio"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/rbright/niriws/internal/fsm"
)

// Transport is the byte stream a Conn runs on. *net.UnixConn implements it.
type Transport interface {
	io.ReadWriteCloser
	CloseWrite() error
}

type deadlineSetter interface {
	SetDeadline(time.Time) error
}

// Dialer opens connections to the compositor socket.
type Dialer struct {
	Timeout time.Duration
	Logger  *slog.Logger
}

// Dial opens a connection with a zero Dialer.
func Dial(ctx context.Context, path string) (*Conn, error) {
	return Dialer{}.Dial(ctx, path)
}

// Connect dials the socket named by NIRI_SOCKET.
func Connect(ctx context.Context) (*Conn, error) {
	path, err := SocketPathFromEnv()
	if err != nil {
		return nil, err
	}
	return Dial(ctx, path)
}

// Dial connects to the unix socket at path. An empty path fails with
// ErrSocketNotConfigured before any transport operation.
func (d Dialer) Dial(ctx context.Context, path string) (*Conn, error) {
	path = strings.TrimSpace(path)
	if path == "" {
		return nil, ErrSocketNotConfigured
	}

	dialer := net.Dialer{Timeout: d.Timeout}
	raw, err := dialer.DialContext(ctx, "unix", path)
	if err != nil {
		return nil, &TransportError{Op: "connect", Path: path, Err: err}
	}
	unixConn, ok := raw.(*net.UnixConn)
	if !ok {
		_ = raw.Close()
		return nil, &TransportError{Op: "connect", Path: path, Err: fmt.Errorf("unexpected connection type %T", raw)}
	}

	conn := NewConn(unixConn, d.Logger)
	conn.path = path
	conn.logger.DebugContext(ctx, "niri connected", "socket", path)
	return conn, nil
}

// Conn is one open session with the compositor. It carries exactly one
// request; after Send the write side is shut and only events can be read.
// A Conn must not be shared between goroutines.
type Conn struct {
	transport Transport
	path      string
	logger    *slog.Logger

	mu        sync.Mutex
	state     fsm.State
	closeOnce sync.Once
	closeErr  error
}

// NewConn wraps an already open transport. A nil logger discards output.
func NewConn(transport Transport, logger *slog.Logger) *Conn {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Conn{
		transport: transport,
		logger:    logger,
		state:     fsm.StateConnected,
	}
}

// State returns the current session state.
func (c *Conn) State() fsm.State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// Send writes req, shuts the write side, and reads the one reply line. The
// returned stream reads the events the compositor pushes afterwards on the
// same socket.
func (c *Conn) Send(ctx context.Context, req Request) (Reply, *EventStream, error) {
	if err := c.begin(); err != nil {
		return Reply{}, nil, err
	}

	payload, err := json.Marshal(req)
	if err != nil {
		c.fail()
		return Reply{}, nil, fmt.Errorf("encode request: %w", err)
	}
	payload = append(payload, '\n')

	release := c.bindContext(ctx)
	defer release()

	if _, err := c.transport.Write(payload); err != nil {
		c.fail()
		return Reply{}, nil, c.transportError(ctx, "write", err)
	}
	if err := c.transport.CloseWrite(); err != nil {
		c.fail()
		return Reply{}, nil, c.transportError(ctx, "shutdown", err)
	}
	c.logger.DebugContext(ctx, "niri request sent", "kind", string(req.Kind))

	reader := bufio.NewReader(c.transport)
	line, err := reader.ReadBytes('\n')
	if err != nil && !(errors.Is(err, io.EOF) && len(line) > 0) {
		c.fail()
		if errors.Is(err, io.EOF) {
			err = io.ErrUnexpectedEOF
		}
		return Reply{}, nil, c.transportError(ctx, "read", err)
	}

	var reply Reply
	if err := json.Unmarshal(line, &reply); err != nil {
		c.fail()
		return Reply{}, nil, &ProtocolError{Line: strings.TrimSpace(string(line)), Err: err}
	}

	c.transition(fsm.EventReply)
	c.logger.DebugContext(ctx, "niri reply received", "ok", reply.OK)

	stream := &EventStream{conn: c, reader: reader}
	if err != nil {
		// The reply was the last line before the compositor closed the socket.
		stream.end(io.EOF)
	}
	return reply, stream, nil
}

// Close releases the socket. It is safe to call more than once.
func (c *Conn) Close() error {
	c.transition(fsm.EventClose)
	c.closeOnce.Do(func() {
		c.closeErr = c.transport.Close()
	})
	return c.closeErr
}

func (c *Conn) begin() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	switch c.state {
	case fsm.StateConnected:
	case fsm.StateBroken:
		return ErrSessionBroken
	case fsm.StateClosed:
		return ErrClosed
	default:
		return ErrSessionUsed
	}

	next, err := fsm.Transition(c.state, fsm.EventSend)
	if err != nil {
		return err
	}
	c.state = next
	return nil
}

func (c *Conn) fail() {
	c.transition(fsm.EventFail)
}

func (c *Conn) transition(event fsm.Event) {
	c.mu.Lock()
	defer c.mu.Unlock()

	next, err := fsm.Transition(c.state, event)
	if err != nil {
		c.logger.Debug("niri session transition ignored", "state", string(c.state), "event", string(event), "error", err.Error())
		return
	}
	c.state = next
}

func (c *Conn) transportError(ctx context.Context, op string, err error) error {
	if ctxErr := contextCause(ctx, err); ctxErr != nil {
		err = ctxErr
	}
	return &TransportError{Op: op, Path: c.path, Err: err}
}

// contextCause reports the context error behind an I/O failure. A socket
// deadline copied from ctx can expire a moment before ctx itself does.
func contextCause(ctx context.Context, err error) error {
	if ctxErr := ctx.Err(); ctxErr != nil {
		return ctxErr
	}
	if errors.Is(err, os.ErrDeadlineExceeded) {
		if deadline, ok := ctx.Deadline(); ok && !time.Now().Before(deadline) {
			return context.DeadlineExceeded
		}
	}
	return nil
}

// bindContext makes blocking socket I/O honour ctx: the context deadline
// becomes the socket deadline, and cancellation moves the deadline into the
// past so a pending read or write returns. The returned func must be called
// once the I/O is done.
func (c *Conn) bindContext(ctx context.Context) func() {
	setter, ok := c.transport.(deadlineSetter)
	if !ok {
		return func() {}
	}

	deadline, _ := ctx.Deadline()
	_ = setter.SetDeadline(deadline)

	fired := make(chan struct{})
	stop := context.AfterFunc(ctx, func() {
		defer close(fired)
		_ = setter.SetDeadline(time.Unix(1, 0))
	})
	return func() {
		if !stop() {
			<-fired
		}
	}
}
