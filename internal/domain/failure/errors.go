package failure

import (
	"errors"
	"fmt"
)

type Kind int

const (
	KindUnknown Kind = iota
	KindElementNotFound
	KindStaleElement
	KindValueError
	KindValueMismatch
	KindFileNotFound
	KindInvalidElementState
	KindInstanceDoesNotExist
	KindDriverError
	KindBrowserFatal
	KindUnexpectedAlert
	KindTimeout
	KindUnexpectedCondition
	KindTextNotFound
	KindIconNotFound
)

var kindNames = map[Kind]string{
	KindUnknown:              "Unknown",
	KindElementNotFound:      "ElementNotFound",
	KindStaleElement:         "StaleElement",
	KindValueError:           "ValueError",
	KindValueMismatch:        "ValueMismatch",
	KindFileNotFound:         "FileNotFound",
	KindInvalidElementState:  "InvalidElementState",
	KindInstanceDoesNotExist: "InstanceDoesNotExist",
	KindDriverError:          "DriverError",
	KindBrowserFatal:         "BrowserFatal",
	KindUnexpectedAlert:      "UnexpectedAlert",
	KindTimeout:              "Timeout",
	KindUnexpectedCondition:  "UnexpectedCondition",
	KindTextNotFound:         "TextNotFound",
	KindIconNotFound:         "IconNotFound",
}

// parents encodes the kind hierarchy used by errors.Is.
var parents = map[Kind]Kind{
	KindValueMismatch:       KindValueError,
	KindFileNotFound:        KindValueError,
	KindInvalidElementState: KindDriverError,
}

func (k Kind) String() string {
	if name, ok := kindNames[k]; ok {
		return name
	}
	return fmt.Sprintf("Kind(%d)", int(k))
}

// IsA reports whether k equals other or descends from it.
func (k Kind) IsA(other Kind) bool {
	for cur := k; ; {
		if cur == other {
			return true
		}
		parent, ok := parents[cur]
		if !ok {
			return false
		}
		cur = parent
	}
}

type Error struct {
	Kind Kind
	Msg  string
	Err  error
}

func (e *Error) Error() string {
	switch {
	case e.Msg != "" && e.Err != nil:
		return fmt.Sprintf("%s: %s: %v", e.Kind, e.Msg, e.Err)
	case e.Msg != "":
		return fmt.Sprintf("%s: %s", e.Kind, e.Msg)
	case e.Err != nil:
		return fmt.Sprintf("%s: %v", e.Kind, e.Err)
	default:
		return e.Kind.String()
	}
}

func (e *Error) Unwrap() error { return e.Err }

// Is matches sentinels by kind, honoring the hierarchy: a ValueMismatch is a ValueError.
func (e *Error) Is(target error) bool {
	var t *Error
	if !errors.As(target, &t) {
		return false
	}
	if t.Msg != "" || t.Err != nil {
		return e == t
	}
	return e.Kind.IsA(t.Kind)
}

var (
	ErrElementNotFound      = &Error{Kind: KindElementNotFound}
	ErrStaleElement         = &Error{Kind: KindStaleElement}
	ErrValue                = &Error{Kind: KindValueError}
	ErrValueMismatch        = &Error{Kind: KindValueMismatch}
	ErrFileNotFound         = &Error{Kind: KindFileNotFound}
	ErrInvalidElementState  = &Error{Kind: KindInvalidElementState}
	ErrInstanceDoesNotExist = &Error{Kind: KindInstanceDoesNotExist}
	ErrDriver               = &Error{Kind: KindDriverError}
	ErrBrowserFatal         = &Error{Kind: KindBrowserFatal}
	ErrUnexpectedAlert      = &Error{Kind: KindUnexpectedAlert}
	ErrTimeout              = &Error{Kind: KindTimeout}
	ErrUnexpectedCondition  = &Error{Kind: KindUnexpectedCondition}
	ErrTextNotFound         = &Error{Kind: KindTextNotFound}
	ErrIconNotFound         = &Error{Kind: KindIconNotFound}
)

func New(kind Kind, format string, args ...any) *Error {
	return &Error{Kind: kind, Msg: fmt.Sprintf(format, args...)}
}

func Wrap(kind Kind, err error, format string, args ...any) *Error {
	return &Error{Kind: kind, Msg: fmt.Sprintf(format, args...), Err: err}
}

func NotFound(format string, args ...any) *Error {
	return New(KindElementNotFound, format, args...)
}

func Mismatch(format string, args ...any) *Error {
	return New(KindValueMismatch, format, args...)
}

func Invalid(format string, args ...any) *Error {
	return New(KindValueError, format, args...)
}

// KindOf returns the kind of the outermost *Error in the chain, or KindUnknown.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindUnknown
}

func IsKind(err error, kind Kind) bool {
	return KindOf(err).IsA(kind)
}
