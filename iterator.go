package pull

import (
	"context"
	"iter"
	"sync/atomic"
	"time"

	"github.com/ducka/go-pull/handoff"
	"github.com/ducka/go-pull/instrumentation"
	"github.com/ducka/go-pull/stream"
	"github.com/google/uuid"
	"github.com/teivah/onecontext"
	"go.uber.org/zap"
)

// Iterator pulls the notifications of a push based Source one at a time. The source is subscribed to lazily on the
// first call to Next; anything it emits before then is never observed. Notifications the source emits while nobody
// is pulling are buffered without limit.
//
// An Iterator has a single consumer. Next must not be called concurrently.
type Iterator[T any] struct {
	id       string
	opts     iteratorOptions
	logger   *zap.Logger
	queue    *handoff.Queue[T]
	bridge   *bridge[T]
	terminal atomic.Bool
}

// New creates an iterator over source. Nothing is subscribed to until the first pull.
func New[T any](source stream.Source[T], options ...Option) *Iterator[T] {
	if source == nil {
		panic(`"New" expected a source`)
	}

	opts := newIteratorOptions()
	for _, opt := range options {
		opt(&opts)
	}

	id := uuid.NewString()
	logger := instrumentation.ActivityLogger(opts.logger, opts.activity).With(zap.String("iterator_id", id))
	queue := handoff.New[T]()

	return &Iterator[T]{
		id:     id,
		opts:   opts,
		logger: logger,
		queue:  queue,
		bridge: newBridge(source, queue, logger, opts),
	}
}

// Next waits for the next notification. An item is returned with ok set to true. Completion returns ok false and
// a nil error; a source error is returned as err. Both are terminal: every later call returns the zero value, false
// and nil. If ctx ends while waiting, ctx's error is returned and the iterator remains usable.
func (it *Iterator[T]) Next(ctx context.Context) (value T, ok bool, err error) {
	notification, err := it.next(ctx)
	if err != nil {
		return value, false, err
	}

	switch notification.Kind() {
	case stream.NextKind:
		return notification.Value(), true, nil
	case stream.ErrorKind:
		return value, false, notification.Err()
	default:
		return value, false, nil
	}
}

// next resolves the next notification. Exhausted iterators resolve to completion. The only error it returns is a
// context error.
func (it *Iterator[T]) next(ctx context.Context) (stream.Notification[T], error) {
	if it.terminal.Load() {
		return stream.Complete[T](), nil
	}

	it.bridge.attach()

	merged, cancel := onecontext.Merge(ctx, it.opts.ctx)
	defer cancel()

	now := time.Now()
	request := it.queue.RequestNext()

	var notification stream.Notification[T]

	select {
	case notification = <-request:
	case <-merged.Done():
		it.queue.Withdraw(request)
		err := firstErr(ctx.Err(), it.opts.ctx.Err(), merged.Err())
		it.logger.Debug("pull abandoned", zap.Error(err))
		return nil, err
	}

	it.opts.measurer.Timing(it.opts.activity, "pull_wait", time.Since(now))

	if notification.Done() {
		it.terminal.Store(true)
		it.logger.Debug("iterator terminated", zap.Stringer("notification", notification))
		return notification, nil
	}

	it.opts.measurer.Incr(it.opts.activity, "item_pulled", 1)

	return notification, nil
}

// All ranges over the remaining items. Iteration stops after completion, or after yielding a source or context
// error alongside the zero value.
func (it *Iterator[T]) All(ctx context.Context) iter.Seq2[T, error] {
	return func(yield func(T, error) bool) {
		for {
			v, ok, err := it.Next(ctx)
			if err != nil {
				yield(v, err)
				return
			}

			if !ok || !yield(v, nil) {
				return
			}
		}
	}
}

// ToSlice pulls until the iterator is exhausted and returns the items received. If the source fails, the items
// received before the failure are returned with the error.
func (it *Iterator[T]) ToSlice(ctx context.Context) ([]T, error) {
	items := make([]T, 0)

	for v, err := range it.All(ctx) {
		if err != nil {
			return items, err
		}

		items = append(items, v)
	}

	return items, nil
}

// Cancel stops the subscription to the source. It returns ErrNotSubscribed if nothing has been pulled yet, and does
// nothing when called again. Items already buffered can still be pulled; after them Next returns ErrCanceled unless
// the source had already finished.
func (it *Iterator[T]) Cancel() error {
	return it.bridge.cancel()
}

// ID uniquely identifies the iterator in logs
func (it *Iterator[T]) ID() string {
	return it.id
}

// Terminal reports whether completion or an error has been delivered to the consumer
func (it *Iterator[T]) Terminal() bool {
	return it.terminal.Load()
}

// Buffered returns the number of notifications waiting to be pulled
func (it *Iterator[T]) Buffered() int {
	return it.queue.Len()
}

func firstErr(errs ...error) error {
	for _, err := range errs {
		if err != nil {
			return err
		}
	}
	return nil
}
