package observe

import (
	"context"
	"sync"

	"github.com/ducka/go-pull/stream"
)

// subscription is the Writer handed to a producer and the cancellation handle handed to the subscriber. Once it has
// stopped, either through a terminal notification or Cancel, no further callbacks start.
type subscription[T any] struct {
	mu         sync.Mutex
	cancel     context.CancelFunc
	onNext     stream.OnNextFunc[T]
	onError    stream.OnErrorFunc
	onComplete stream.OnCompleteFunc
	stopped    bool
}

var (
	_ stream.Writer[any]  = (*subscription[any])(nil)
	_ stream.Subscription = (*subscription[any])(nil)
)

func newSubscription[T any](cancel context.CancelFunc, onNext stream.OnNextFunc[T], onError stream.OnErrorFunc, onComplete stream.OnCompleteFunc) *subscription[T] {
	if onNext == nil {
		onNext = func(T) {}
	}
	if onError == nil {
		onError = func(error) {}
	}
	if onComplete == nil {
		onComplete = func() {}
	}

	return &subscription[T]{
		cancel:     cancel,
		onNext:     onNext,
		onError:    onError,
		onComplete: onComplete,
	}
}

func (s *subscription[T]) Write(value T) bool {
	if s.isStopped() {
		return false
	}

	s.onNext(value)
	return true
}

func (s *subscription[T]) Error(err error) {
	if !s.stop() {
		return
	}

	s.onError(err)
}

func (s *subscription[T]) Complete() {
	if !s.stop() {
		return
	}

	s.onComplete()
}

// Cancel stops callback delivery and signals the producer through its context
func (s *subscription[T]) Cancel() {
	s.stop()
}

// finish terminates a subscription whose producer has returned. A producer that returns because the observable's
// context ended reports the context's error; otherwise the sequence completes.
func (s *subscription[T]) finish(ctx context.Context) {
	if err := ctx.Err(); err != nil {
		s.Error(err)
		return
	}

	s.Complete()
}

// stop reports whether this call was the one that stopped the subscription
func (s *subscription[T]) stop() bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.stopped {
		return false
	}

	s.stopped = true
	s.cancel()
	return true
}

func (s *subscription[T]) isStopped() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.stopped
}
