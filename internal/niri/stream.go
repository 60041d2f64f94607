package niri

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"

	"github.com/rbright/niriws/internal/fsm"
)

// EventStream reads the events the compositor pushes after a reply. It owns
// the read side of its Conn's socket.
type EventStream struct {
	conn   *Conn
	reader *bufio.Reader
	err    error
}

// Next blocks until the next event line arrives or ctx is done.
//
// The result is one of:
//   - an Event and a nil error;
//   - io.EOF once the compositor has closed the socket, on every later call too;
//   - ErrClosed after the caller closed the stream or its Conn;
//   - a *DecodeError for a line that is not an event; the stream stays usable;
//   - a *TransportError for any other read failure, after which the stream is dead;
//   - ctx.Err() when ctx ends before a line starts arriving; the stream stays usable.
func (s *EventStream) Next(ctx context.Context) (Event, error) {
	for {
		if s.err != nil {
			return Event{}, s.err
		}
		if fsm.Terminal(s.conn.State()) {
			// Only Close reaches a terminal state without setting s.err.
			s.err = ErrClosed
			return Event{}, s.err
		}
		if err := ctx.Err(); err != nil {
			return Event{}, err
		}

		line, err := s.readLine(ctx)
		if err != nil {
			return Event{}, err
		}

		line = bytes.TrimSpace(line)
		if len(line) == 0 {
			continue
		}

		var event Event
		if err := json.Unmarshal(line, &event); err != nil {
			s.conn.logger.DebugContext(ctx, "niri event dropped", "error", err.Error())
			return Event{}, &DecodeError{Line: string(line), Err: err}
		}
		return event, nil
	}
}

// Pull is the best-effort form of Next: every failure, including the end
// of the stream, comes back as OtherEvent. It blocks without a deadline.
func (s *EventStream) Pull() Event {
	event, err := s.Next(context.Background())
	if err != nil {
		return OtherEvent()
	}
	return event
}

// Err returns the terminal error of the stream, or nil while it is live.
func (s *EventStream) Err() error {
	return s.err
}

// Close releases the underlying connection.
func (s *EventStream) Close() error {
	return s.conn.Close()
}

func (s *EventStream) readLine(ctx context.Context) ([]byte, error) {
	release := s.conn.bindContext(ctx)
	defer release()

	line, err := s.reader.ReadBytes('\n')
	if err == nil {
		return line, nil
	}

	switch {
	case errors.Is(err, io.EOF):
		s.end(io.EOF)
		if len(bytes.TrimSpace(line)) > 0 {
			return line, nil
		}
		return nil, io.EOF
	case len(line) == 0 && contextCause(ctx, err) != nil:
		return nil, contextCause(ctx, err)
	default:
		s.conn.transition(fsm.EventFail)
		s.err = s.conn.transportError(ctx, "read", err)
		return nil, s.err
	}
}

func (s *EventStream) end(err error) {
	s.conn.transition(fsm.EventEnd)
	s.err = err
}
