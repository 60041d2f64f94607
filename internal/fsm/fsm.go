// Package fsm defines the lifecycle of a single niri IPC session.
//
// A connection carries exactly one request. It moves from connected to
// awaiting a reply, then to streaming events until the compositor ends the
// stream or the caller closes it.
package fsm

import "fmt"

type State string

type Event string

const (
	StateConnected     State = "connected"
	StateAwaitingReply State = "awaiting_reply"
	StateStreaming     State = "streaming"
	StateEnded         State = "ended"
	StateBroken        State = "broken"
	StateClosed        State = "closed"
)

const (
	EventSend  Event = "send"
	EventReply Event = "reply"
	EventEnd   Event = "end"
	EventFail  Event = "fail"
	EventClose Event = "close"
)

func Transition(current State, event Event) (State, error) {
	if event == EventClose {
		switch current {
		case StateConnected, StateAwaitingReply, StateStreaming, StateEnded, StateBroken, StateClosed:
			return StateClosed, nil
		default:
			return current, fmt.Errorf("unknown state %q", current)
		}
	}

	switch current {
	case StateConnected:
		switch event {
		case EventSend:
			return StateAwaitingReply, nil
		case EventFail:
			return StateBroken, nil
		default:
			return current, invalidTransition(current, event)
		}
	case StateAwaitingReply:
		switch event {
		case EventReply:
			return StateStreaming, nil
		case EventFail:
			return StateBroken, nil
		default:
			return current, invalidTransition(current, event)
		}
	case StateStreaming:
		switch event {
		case EventEnd:
			return StateEnded, nil
		case EventFail:
			return StateBroken, nil
		default:
			return current, invalidTransition(current, event)
		}
	case StateEnded, StateBroken, StateClosed:
		return current, invalidTransition(current, event)
	default:
		return current, fmt.Errorf("unknown state %q", current)
	}
}

// Terminal reports whether no further reads can succeed in state s.
func Terminal(s State) bool {
	return s == StateEnded || s == StateBroken || s == StateClosed
}

func invalidTransition(state State, event Event) error {
	return fmt.Errorf("invalid transition: %s --(%s)--> ?", state, event)
}
