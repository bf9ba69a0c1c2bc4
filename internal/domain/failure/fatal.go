package failure

import (
	"errors"
	"strings"
)

// FatalMessages are substrings of driver errors that mean the browser session is gone.
var FatalMessages = []string{
	"Failed to decode response",
	"chrome not reachable",
	"window was already closed",
	"Unable to get browser",
	"session deleted",
	"0 tabs open",
	"use of closed network connection",
	"websocket: close",
	"target closed",
	"No target with given id",
}

var staleMessages = []string{
	"stale element",
	"Cannot find context with specified id",
	"Could not find node with given id",
	"No node with given id",
	"Node is detached",
	"Object reference chain is too long",
	"Cannot find object with id",
	"Execution context was destroyed",
}

var invalidSelectorMessages = []string{
	"is not a valid XPath expression",
	"is not a valid selector",
	"invalid selector",
}

func IsFatalMessage(msg string) bool {
	for _, s := range FatalMessages {
		if strings.Contains(msg, s) {
			return true
		}
	}
	return false
}

// FromDriver classifies a raw driver error. Errors that already carry a kind pass through.
func FromDriver(err error, format string, args ...any) error {
	if err == nil {
		return nil
	}
	var fe *Error
	if errors.As(err, &fe) {
		return err
	}
	msg := err.Error()
	switch {
	case IsFatalMessage(msg):
		return Wrap(KindBrowserFatal, err, format, args...)
	case containsAny(msg, staleMessages):
		return Wrap(KindStaleElement, err, format, args...)
	case containsAny(msg, invalidSelectorMessages):
		return Wrap(KindValueError, err, format, args...)
	default:
		return Wrap(KindDriverError, err, format, args...)
	}
}

func containsAny(s string, subs []string) bool {
	for _, sub := range subs {
		if strings.Contains(s, sub) {
			return true
		}
	}
	return false
}
