package observe

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/ducka/go-pull/instrumentation"
	"github.com/ducka/go-pull/stream"
	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
)

type (
	// ProducerFunc emits items to the writer until it returns. Returning without calling Error or Complete completes
	// the sequence. ctx ends when the subscriber cancels.
	ProducerFunc[T any] func(ctx context.Context, streamWriter stream.Writer[T])

	producerFunc[T any] func(ctx context.Context, streamWriter stream.Writer[T], opts observableOptions)
)

// ErrInvalidCronPattern is returned by Cron when the pattern can't be parsed
var ErrInvalidCronPattern = errors.New("observe: invalid cron pattern")

// Observable is a cold push source. Every subscription runs the producer afresh on its own goroutine and receives
// the full sequence.
type Observable[T any] struct {
	opts     observableOptions
	producer producerFunc[T]
}

var _ stream.Source[any] = (*Observable[any])(nil)

func newObservable[T any](producer producerFunc[T], options ...ObservableOption) *Observable[T] {
	opts := newObservableOptions()

	for _, opt := range options {
		opt(&opts)
	}

	return &Observable[T]{
		opts:     opts,
		producer: producer,
	}
}

// Subscribe starts the producer and returns immediately. The callbacks are invoked from the producer's goroutine.
func (o *Observable[T]) Subscribe(onNext stream.OnNextFunc[T], onError stream.OnErrorFunc, onComplete stream.OnCompleteFunc) stream.Subscription {
	ctx, cancel := context.WithCancel(o.opts.ctx)
	sub := newSubscription(cancel, onNext, onError, onComplete)
	logger := instrumentation.ActivityLogger(o.opts.logger, o.opts.activity)

	go func() {
		defer sub.finish(ctx)

		logger.Debug("producer started")
		o.producer(ctx, sub, o.opts)
		logger.Debug("producer finished", zap.Error(ctx.Err()))
	}()

	return sub
}

// Producer observes items produced by a callback function
func Producer[T any](producer ProducerFunc[T], opts ...ObservableOption) *Observable[T] {
	if producer == nil {
		panic(`"Producer" expected producer func`)
	}

	return newObservable[T](
		func(ctx context.Context, streamWriter stream.Writer[T], _ observableOptions) {
			producer(ctx, streamWriter)
		},
		opts...,
	)
}

// Empty is an observable that emits nothing. This observable completes immediately.
func Empty[T any](opts ...ObservableOption) *Observable[T] {
	return newObservable[T](func(context.Context, stream.Writer[T], observableOptions) {}, opts...)
}

// Value is an observable that emits a single item
func Value[T any](value T, opts ...ObservableOption) *Observable[T] {
	return newObservable[T](func(_ context.Context, streamWriter stream.Writer[T], _ observableOptions) {
		streamWriter.Write(value)
	}, opts...)
}

// Sequence observes an array of values
func Sequence[T any](sequence []T, opts ...ObservableOption) *Observable[T] {
	return newObservable[T](func(_ context.Context, streamWriter stream.Writer[T], _ observableOptions) {
		for _, item := range sequence {
			if !streamWriter.Write(item) {
				return
			}
		}
	}, opts...)
}

// Range observes a range of generated integers
func Range(start, count int, opts ...ObservableOption) *Observable[int] {
	return newObservable[int](func(_ context.Context, streamWriter stream.Writer[int], _ observableOptions) {
		for i := start; i < start+count; i++ {
			if !streamWriter.Write(i) {
				return
			}
		}
	}, opts...)
}

// Throw is an observable that emits nothing and fails immediately with err
func Throw[T any](err error, opts ...ObservableOption) *Observable[T] {
	return newObservable[T](func(_ context.Context, streamWriter stream.Writer[T], _ observableOptions) {
		streamWriter.Error(err)
	}, opts...)
}

// Timer emits the sequence 0, 1, 2, ... with the first item after delay and the rest every period. It completes
// after count items; a count of zero or less never completes.
func Timer(delay, period time.Duration, count int, opts ...ObservableOption) *Observable[int] {
	if count != 1 && period <= 0 {
		panic(`"Timer" expected a positive period`)
	}

	return newObservable[int](func(ctx context.Context, streamWriter stream.Writer[int], _ observableOptions) {
		timer := time.NewTimer(delay)
		defer timer.Stop()

		select {
		case <-ctx.Done():
			return
		case <-timer.C:
		}

		if !streamWriter.Write(0) || count == 1 {
			return
		}

		ticker := time.NewTicker(period)
		defer ticker.Stop()

		for i := 1; count <= 0 || i < count; i++ {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				if !streamWriter.Write(i) {
					return
				}
			}
		}
	}, opts...)
}

// Cron is an observable that emits the scheduled time on a specified cron schedule. Patterns may include an
// optional seconds field or a descriptor such as @every 1s. The sequence never completes.
func Cron(cronPattern string, opts ...ObservableOption) (*Observable[time.Time], error) {
	parser := cron.NewParser(
		cron.SecondOptional | cron.Minute | cron.Hour | cron.Dom | cron.Month | cron.Dow | cron.Descriptor,
	)

	schedule, err := parser.Parse(cronPattern)
	if err != nil {
		return nil, fmt.Errorf("%w %q: %v", ErrInvalidCronPattern, cronPattern, err)
	}

	return newObservable[time.Time](func(ctx context.Context, streamWriter stream.Writer[time.Time], _ observableOptions) {
		for {
			next := schedule.Next(time.Now())
			timer := time.NewTimer(time.Until(next))

			select {
			case <-ctx.Done():
				timer.Stop()
				return
			case <-timer.C:
				if !streamWriter.Write(next) {
					return
				}
			}
		}
	}, opts...), nil
}
