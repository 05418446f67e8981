package stream

import (
	"fmt"
)

// NotificationKind
type NotificationKind string

const (
	// NextKind indicates the next value in the downstream
	NextKind NotificationKind = "NextKind"
	// ErrorKind indicates an error occurred
	ErrorKind NotificationKind = "ErrorKind"
	// CompleteKind indicates the downstream is complete
	CompleteKind NotificationKind = "CompleteKind"
)

type Notification[T any] interface {
	Kind() NotificationKind
	Value() T // returns the underlying value if it's a "Next" notification
	Err() error
	// Done reports whether the notification terminates the sequence
	Done() bool
	String() string
}

type notification[T any] struct {
	kind NotificationKind
	v    T
	err  error
}

var _ Notification[any] = (*notification[any])(nil)

func (d notification[T]) Kind() NotificationKind {
	return d.kind
}

func (d notification[T]) Value() T {
	return d.v
}

func (d notification[T]) Err() error {
	return d.err
}

func (d notification[T]) Done() bool {
	return d.kind != NextKind
}

// String describes the notification the way expectation failures report it, e.g. item(99) or completion.
func (d notification[T]) String() string {
	switch d.kind {
	case NextKind:
		return fmt.Sprintf("item(%v)", d.v)
	case ErrorKind:
		return fmt.Sprintf("error(%v)", d.err)
	default:
		return "completion"
	}
}

func Next[T any](v T) Notification[T] {
	return &notification[T]{kind: NextKind, v: v}
}

func Error[T any](err error) Notification[T] {
	return &notification[T]{kind: ErrorKind, err: err}
}

func Complete[T any]() Notification[T] {
	return &notification[T]{kind: CompleteKind}
}
