// Package retry runs resolvers and actions until they succeed, fail for good or run
// out of time.
package retry

import (
	"context"
	"errors"

	"browser-keywords/internal/domain/failure"
)

type State int

const (
	WaitingReady State = iota
	Resolving
	Acting
	VerifyingPost
	Retrying
	Failed
	Done
)

var stateNames = [...]string{"waiting-ready", "resolving", "acting", "verifying-post", "retrying", "failed", "done"}

func (s State) String() string {
	if int(s) < len(stateNames) {
		return stateNames[s]
	}
	return "unknown"
}

func (s State) Terminal() bool {
	return s == Failed || s == Done
}

// Event is the typed outcome that drives a transition.
type Event int

const (
	EventReady Event = iota
	EventSuccess
	EventRetryable
	EventSurface
	EventFatal
	EventExpired
	EventResume
)

var eventNames = [...]string{"ready", "success", "retryable", "surface", "fatal", "expired", "resume"}

func (e Event) String() string {
	if int(e) < len(eventNames) {
		return eventNames[e]
	}
	return "unknown"
}

// Machine describes one run: whether the work is an action and whether a
// post-condition follows it.
type Machine struct {
	Act    bool
	Verify bool
}

func (m Machine) work() State {
	if m.Act {
		return Acting
	}
	return Resolving
}

func (m Machine) Start(skipWait bool) State {
	if skipWait {
		return m.work()
	}
	return WaitingReady
}

// Next is the transition function. Unknown pairs leave the state unchanged.
func (m Machine) Next(s State, ev Event) State {
	switch s {
	case WaitingReady:
		switch ev {
		case EventReady, EventRetryable, EventExpired:
			return m.work()
		case EventSurface, EventFatal:
			return Failed
		}
	case Resolving, Acting:
		switch ev {
		case EventSuccess:
			if m.Act && m.Verify {
				return VerifyingPost
			}
			return Done
		case EventRetryable:
			return Retrying
		case EventSurface, EventFatal, EventExpired:
			return Failed
		}
	case VerifyingPost:
		switch ev {
		case EventSuccess:
			return Done
		case EventRetryable:
			return Retrying
		case EventSurface, EventFatal, EventExpired:
			return Failed
		}
	case Retrying:
		switch ev {
		case EventResume:
			return m.work()
		case EventExpired, EventSurface, EventFatal:
			return Failed
		}
	}
	return s
}

// Classify maps an error to the event it raises. Unknown errors count as transient
// driver failures; context cancellation ends the run.
func Classify(err error, handleAlerts bool) Event {
	if err == nil {
		return EventSuccess
	}
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return EventSurface
	}
	switch kind := failure.KindOf(err); {
	case kind == failure.KindBrowserFatal:
		return EventFatal
	case kind == failure.KindUnexpectedAlert:
		if handleAlerts {
			return EventRetryable
		}
		return EventSurface
	case kind == failure.KindInvalidElementState,
		kind == failure.KindInstanceDoesNotExist:
		return EventSurface
	case kind == failure.KindValueMismatch:
		return EventRetryable
	case kind.IsA(failure.KindValueError):
		return EventSurface
	case kind == failure.KindUnknown && failure.IsFatalMessage(err.Error()):
		return EventFatal
	default:
		return EventRetryable
	}
}
