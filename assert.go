package pull

import (
	"context"

	"github.com/ducka/go-pull/stream"
)

// NextValue pulls the next notification and expects it to be an item. Completion fails with an ExpectationError and
// a source error is returned as is.
func (it *Iterator[T]) NextValue(ctx context.Context) (T, error) {
	var zero T

	notification, err := it.next(ctx)
	if err != nil {
		return zero, err
	}

	switch notification.Kind() {
	case stream.NextKind:
		return notification.Value(), nil
	case stream.ErrorKind:
		return zero, notification.Err()
	default:
		return zero, &ExpectationError{Expected: stream.NextKind, Got: notification.String()}
	}
}

// ShouldComplete pulls the next notification and expects the sequence to be complete. An item fails with an
// ExpectationError naming it and a source error is returned as is.
func (it *Iterator[T]) ShouldComplete(ctx context.Context) error {
	notification, err := it.next(ctx)
	if err != nil {
		return err
	}

	switch notification.Kind() {
	case stream.CompleteKind:
		return nil
	case stream.ErrorKind:
		return notification.Err()
	default:
		return &ExpectationError{Expected: stream.CompleteKind, Got: notification.String()}
	}
}

// ShouldThrow pulls the next notification and expects the source to have failed. The source's error is returned as
// raised. An item or completion fails with an ExpectationError.
func (it *Iterator[T]) ShouldThrow(ctx context.Context) (raised error, err error) {
	notification, err := it.next(ctx)
	if err != nil {
		return nil, err
	}

	if notification.Kind() == stream.ErrorKind {
		return notification.Err(), nil
	}

	return nil, &ExpectationError{Expected: stream.ErrorKind, Got: notification.String()}
}

// ShouldBeEmpty subscribes to source and expects it to complete without emitting anything
func ShouldBeEmpty[T any](ctx context.Context, source stream.Source[T], options ...Option) error {
	it := New(source, options...)
	return it.ShouldComplete(ctx)
}

// ShouldGenerateOneValue subscribes to source and expects it to emit exactly one item before completing. The item
// is returned.
func ShouldGenerateOneValue[T any](ctx context.Context, source stream.Source[T], options ...Option) (T, error) {
	it := New(source, options...)

	v, err := it.NextValue(ctx)
	if err != nil {
		return v, err
	}

	if err := it.ShouldComplete(ctx); err != nil {
		var zero T
		return zero, err
	}

	return v, nil
}
