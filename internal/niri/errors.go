package niri

import (
	"errors"
	"fmt"
)

var (
	// ErrSocketNotConfigured means no socket path was given and NIRI_SOCKET is unset.
	ErrSocketNotConfigured = errors.New(SocketEnv + " is not set and no socket path was given")

	// ErrSessionUsed is returned by a second Send on the same connection.
	ErrSessionUsed = errors.New("niri connection already carried a request")

	// ErrSessionBroken is returned by Send after an earlier failure on the connection.
	ErrSessionBroken = errors.New("niri connection is broken")

	// ErrClosed is returned by operations on a closed connection.
	ErrClosed = errors.New("niri connection closed")
)

// TransportError reports a failure to connect, write, half-close or read.
type TransportError struct {
	Op   string
	Path string
	Err  error
}

func (e *TransportError) Error() string {
	if e.Path != "" {
		return fmt.Sprintf("niri %s %s: %v", e.Op, e.Path, e.Err)
	}
	return fmt.Sprintf("niri %s: %v", e.Op, e.Err)
}

func (e *TransportError) Unwrap() error {
	return e.Err
}

// ProtocolError reports a reply line that does not decode as a Reply.
type ProtocolError struct {
	Line string
	Err  error
}

func (e *ProtocolError) Error() string {
	return fmt.Sprintf("decode niri reply: %v", e.Err)
}

func (e *ProtocolError) Unwrap() error {
	return e.Err
}

// DecodeError reports an event line that does not decode as an Event. The
// stream stays usable after a DecodeError.
type DecodeError struct {
	Line string
	Err  error
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("decode niri event: %v", e.Err)
}

func (e *DecodeError) Unwrap() error {
	return e.Err
}

// ReplyError carries the message of an Err reply.
type ReplyError struct {
	Message string
}

func (e *ReplyError) Error() string {
	return "niri: " + e.Message
}
