package handoff

import (
	"errors"
	"sync"

	"github.com/ducka/go-pull/stream"
)

// ErrPendingRequest is the panic value raised when a second consumer waits on a queue that already has one waiting.
var ErrPendingRequest = errors.New("handoff: next requested while a request is already pending")

// Queue hands notifications from a producer to a single consumer. Notifications published while nobody waits are
// buffered; a consumer that asks while the buffer is empty waits in the pending slot until the next Publish.
type Queue[T any] struct {
	mu       sync.Mutex
	buffered []stream.Notification[T]
	// pending is the slot of the consumer waiting for the next notification. It has a capacity of one so Publish
	// never blocks.
	pending chan stream.Notification[T]
}

func New[T any]() *Queue[T] {
	return &Queue[T]{
		buffered: make([]stream.Notification[T], 0),
	}
}

// Publish delivers the notification to the waiting consumer, or buffers it if nobody is waiting
func (q *Queue[T]) Publish(notification stream.Notification[T]) {
	q.mu.Lock()
	defer q.mu.Unlock()

	if q.pending != nil {
		q.pending <- notification
		q.pending = nil
		return
	}

	q.buffered = append(q.buffered, notification)
}

// RequestNext returns a channel that yields the next notification. The channel is ready immediately when something
// is buffered. Otherwise the caller becomes the pending consumer until the next Publish. Requesting while another
// request is pending is a programming error and panics with ErrPendingRequest.
func (q *Queue[T]) RequestNext() <-chan stream.Notification[T] {
	q.mu.Lock()
	defer q.mu.Unlock()

	if q.pending != nil {
		panic(ErrPendingRequest)
	}

	ch := make(chan stream.Notification[T], 1)

	if len(q.buffered) > 0 {
		ch <- q.dequeue()
		return ch
	}

	q.pending = ch
	return ch
}

// Withdraw releases a request returned by RequestNext that the consumer has stopped waiting on. If a notification
// was already delivered to it, the notification goes back to the front of the buffer.
func (q *Queue[T]) Withdraw(request <-chan stream.Notification[T]) {
	q.mu.Lock()
	defer q.mu.Unlock()

	if q.pending != nil && q.pending == request {
		q.pending = nil
		return
	}

	select {
	case notification := <-request:
		q.buffered = append([]stream.Notification[T]{notification}, q.buffered...)
	default:
	}
}

// Len returns the number of buffered notifications
func (q *Queue[T]) Len() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.buffered)
}

// Pending reports whether a consumer is waiting
func (q *Queue[T]) Pending() bool {
	q.mu.Lock()
	defer q.mu.Unlock()
	return q.pending != nil
}

func (q *Queue[T]) dequeue() stream.Notification[T] {
	item := q.buffered[0]
	// drop the consumed reference from the backing array
	q.buffered[0] = nil
	q.buffered = q.buffered[1:]
	return item
}
