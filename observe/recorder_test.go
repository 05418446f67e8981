package observe

import (
	"sync"
	"testing"
	"time"

	"github.com/ducka/go-pull/stream"
	"github.com/stretchr/testify/mock"
)

// recorder collects the notifications delivered to a subscriber
type recorder[T any] struct {
	mu            sync.Mutex
	notifications []stream.Notification[T]
	done          chan struct{}
}

func newRecorder[T any]() *recorder[T] {
	return &recorder[T]{
		notifications: make([]stream.Notification[T], 0),
		done:          make(chan struct{}),
	}
}

func (r *recorder[T]) subscribe(source stream.Source[T]) stream.Subscription {
	return source.Subscribe(r.onNext, r.onError, r.onComplete)
}

func (r *recorder[T]) onNext(v T) {
	r.record(stream.Next(v))
}

func (r *recorder[T]) onError(err error) {
	r.record(stream.Error[T](err))
	close(r.done)
}

func (r *recorder[T]) onComplete() {
	r.record(stream.Complete[T]())
	close(r.done)
}

func (r *recorder[T]) record(n stream.Notification[T]) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.notifications = append(r.notifications, n)
}

func (r *recorder[T]) snapshot() []stream.Notification[T] {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]stream.Notification[T]{}, r.notifications...)
}

// wait blocks until the subscriber receives a terminal notification
func (r *recorder[T]) wait(t *testing.T, timeout time.Duration) []stream.Notification[T] {
	t.Helper()
	select {
	case <-r.done:
	case <-time.After(timeout):
		t.Fatalf("subscriber did not terminate within %v", timeout)
	}
	return r.snapshot()
}

func values[T any](notifications []stream.Notification[T]) []T {
	result := make([]T, 0, len(notifications))
	for _, n := range notifications {
		if n.Kind() == stream.NextKind {
			result = append(result, n.Value())
		}
	}
	return result
}

func last[T any](notifications []stream.Notification[T]) stream.Notification[T] {
	if len(notifications) == 0 {
		return nil
	}
	return notifications[len(notifications)-1]
}

type SubscriberMock[T any] struct {
	mock.Mock
}

func (s *SubscriberMock[T]) OnNext(next T) {
	s.Called(next)
}

func (s *SubscriberMock[T]) OnError(err error) {
	s.Called(err)
}

func (s *SubscriberMock[T]) OnComplete() {
	s.Called()
}
