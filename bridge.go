package pull

import (
	"sync"

	"github.com/ducka/go-pull/handoff"
	"github.com/ducka/go-pull/instrumentation"
	"github.com/ducka/go-pull/stream"
	"go.uber.org/zap"
)

// bridge subscribes to the source on first demand and republishes its callbacks as notifications on the queue
type bridge[T any] struct {
	mu       sync.Mutex
	once     sync.Once
	source   stream.Source[T]
	queue    *handoff.Queue[T]
	logger   *zap.Logger
	measurer instrumentation.Measurer
	activity string

	subscription stream.Subscription
	subscribed   bool
	// stopped is set once a terminal notification has been forwarded or the subscription was cancelled. Callbacks
	// arriving afterwards are ignored.
	stopped   bool
	cancelled bool
}

func newBridge[T any](source stream.Source[T], queue *handoff.Queue[T], logger *zap.Logger, opts iteratorOptions) *bridge[T] {
	return &bridge[T]{
		source:   source,
		queue:    queue,
		logger:   logger,
		measurer: opts.measurer,
		activity: opts.activity,
	}
}

// attach subscribes to the source the first time it's called. The source may emit synchronously from inside
// Subscribe, so no lock is held while subscribing.
func (b *bridge[T]) attach() {
	b.once.Do(func() {
		b.logger.Debug("subscribing to source")

		subscription := b.source.Subscribe(b.onNext, b.onError, b.onComplete)

		b.mu.Lock()
		defer b.mu.Unlock()
		b.subscription = subscription
		b.subscribed = true
	})
}

func (b *bridge[T]) onNext(v T) {
	b.forward(stream.Next(v))
}

func (b *bridge[T]) onError(err error) {
	b.forward(stream.Error[T](err))
}

func (b *bridge[T]) onComplete() {
	b.forward(stream.Complete[T]())
}

func (b *bridge[T]) forward(notification stream.Notification[T]) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.stopped {
		return
	}

	if notification.Done() {
		b.stopped = true
	}

	b.queue.Publish(notification)
	b.measurer.Incr(b.activity, "notification_published", 1)
}

// cancel stops the subscription. Buffered notifications stay in the queue, followed by ErrCanceled when the source
// hadn't already terminated.
func (b *bridge[T]) cancel() error {
	b.mu.Lock()

	if !b.subscribed {
		b.mu.Unlock()
		return ErrNotSubscribed
	}

	if b.cancelled {
		b.mu.Unlock()
		return nil
	}

	b.cancelled = true

	if !b.stopped {
		b.stopped = true
		b.queue.Publish(stream.Error[T](ErrCanceled))
	}

	subscription := b.subscription
	b.mu.Unlock()

	// A callback in flight on the source's goroutine may be waiting on b.mu
	if subscription != nil {
		subscription.Cancel()
	}

	b.measurer.Incr(b.activity, "cancelled", 1)
	b.logger.Debug("subscription cancelled")

	return nil
}
