package pull

import (
	"errors"
	"fmt"

	"github.com/ducka/go-pull/stream"
)

var (
	// ErrNotSubscribed is returned when cancelling an iterator that has never been pulled from
	ErrNotSubscribed = errors.New("pull: iterator has not subscribed to its source yet")

	// ErrCanceled is raised by Next once an iterator has been cancelled and its buffered notifications are drained
	ErrCanceled = errors.New("pull: subscription cancelled")

	// ErrUnexpectedNotification is wrapped by every ExpectationError
	ErrUnexpectedNotification = errors.New("pull: unexpected notification")
)

// ExpectationError reports that an assertion combinator observed a different notification than it expected
type ExpectationError struct {
	Expected stream.NotificationKind
	// Got describes the observed notification, e.g. "item(99)" or "completion"
	Got string
}

func (e *ExpectationError) Error() string {
	return fmt.Sprintf("expected %s, got %s", describeKind(e.Expected), e.Got)
}

func (e *ExpectationError) Unwrap() error {
	return ErrUnexpectedNotification
}

func describeKind(kind stream.NotificationKind) string {
	switch kind {
	case stream.NextKind:
		return "item"
	case stream.ErrorKind:
		return "error"
	case stream.CompleteKind:
		return "completion"
	default:
		return string(kind)
	}
}
