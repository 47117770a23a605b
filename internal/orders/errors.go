package orders

import (
	"errors"
	"fmt"

	pkgerrors "github.com/pkg/errors"
	"gorm.io/gorm"
)

// Kind classifies a rejected operation so callers can map it to a transport
// status without parsing messages.
type Kind int

const (
	KindUnknown Kind = iota
	// KindInvalidArgument marks malformed or missing input.
	KindInvalidArgument
	// KindNotFound marks an absent referenced entity.
	KindNotFound
	// KindConflict marks a business-rule violation: duplicate order number,
	// missing product reference, overproduction, invalid date ordering.
	KindConflict
	// KindUnavailable marks an unreachable underlying store.
	KindUnavailable
)

// Error is a classified service error. Message always echoes the offending
// values; Err carries the storage cause when there is one.
type Error struct {
	Kind    Kind
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return e.Message + ": " + e.Err.Error()
	}
	return e.Message
}

func (e *Error) Unwrap() error { return e.Err }

func invalidf(format string, args ...interface{}) error {
	return &Error{Kind: KindInvalidArgument, Message: fmt.Sprintf(format, args...)}
}

func notFoundf(format string, args ...interface{}) error {
	return &Error{Kind: KindNotFound, Message: fmt.Sprintf(format, args...)}
}

func conflictf(format string, args ...interface{}) error {
	return &Error{Kind: KindConflict, Message: fmt.Sprintf(format, args...)}
}

// storeErr classifies a repository error: record-not-found becomes
// KindNotFound with the given message, anything else KindUnavailable.
func storeErr(err error, msg string) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return &Error{Kind: KindNotFound, Message: msg, Err: err}
	}
	return &Error{Kind: KindUnavailable, Message: msg, Err: pkgerrors.Wrap(err, "storage")}
}

// KindOf extracts the classification of err, or KindUnknown for foreign
// errors.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindUnknown
}

func IsInvalidArgument(err error) bool { return KindOf(err) == KindInvalidArgument }
func IsNotFound(err error) bool        { return KindOf(err) == KindNotFound }
func IsConflict(err error) bool        { return KindOf(err) == KindConflict }
func IsUnavailable(err error) bool     { return KindOf(err) == KindUnavailable }
