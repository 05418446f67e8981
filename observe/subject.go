package observe

import (
	"sync"

	"github.com/ducka/go-pull/stream"
)

type subscriber[T any] struct {
	id       uint64
	next     stream.OnNextFunc[T]
	err      stream.OnErrorFunc
	complete stream.OnCompleteFunc
}

type subscribers[T any] struct {
	s      []subscriber[T]
	nextID uint64
}

func (s *subscribers[T]) len() int {
	return len(s.s)
}

func (s *subscribers[T]) add(onNext stream.OnNextFunc[T], onError stream.OnErrorFunc, onComplete stream.OnCompleteFunc) uint64 {
	s.nextID++
	s.s = append(s.s, subscriber[T]{
		id:       s.nextID,
		next:     onNext,
		err:      onError,
		complete: onComplete,
	})
	return s.nextID
}

func (s *subscribers[T]) remove(id uint64) {
	for i, sub := range s.s {
		if sub.id == id {
			s.s = append(s.s[:i], s.s[i+1:]...)
			return
		}
	}
}

func (s *subscribers[T]) dispatchNext(v T) {
	for _, sub := range s.s {
		sub.next(v)
	}
}

func (s *subscribers[T]) dispatchError(err error) {
	for _, sub := range s.s {
		sub.err(err)
	}
	s.s = nil
}

func (s *subscribers[T]) dispatchComplete() {
	for _, sub := range s.s {
		sub.complete()
	}
	s.s = nil
}

// Subject is a hot push source. Items are multicast to whoever is subscribed when they are emitted; subscribers
// miss everything emitted before they subscribed. A subject created with NewBehaviorSubject also replays its
// current value to each new subscriber. Subscribers that arrive after the subject has terminated receive the
// terminal notification straight away.
//
// Callbacks run synchronously on the emitting goroutine and must not call back into the subject.
type Subject[T any] struct {
	mu       sync.Mutex
	subs     subscribers[T]
	replay   bool
	current  T
	terminal stream.Notification[T]
}

var _ stream.Source[any] = (*Subject[any])(nil)

func NewSubject[T any]() *Subject[T] {
	return &Subject[T]{}
}

// NewBehaviorSubject creates a subject that holds a current value, starting with initial
func NewBehaviorSubject[T any](initial T) *Subject[T] {
	return &Subject[T]{
		replay:  true,
		current: initial,
	}
}

func (s *Subject[T]) Subscribe(onNext stream.OnNextFunc[T], onError stream.OnErrorFunc, onComplete stream.OnCompleteFunc) stream.Subscription {
	if onNext == nil {
		onNext = func(T) {}
	}
	if onError == nil {
		onError = func(error) {}
	}
	if onComplete == nil {
		onComplete = func() {}
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.terminal != nil {
		if s.terminal.Kind() == stream.ErrorKind {
			onError(s.terminal.Err())
		} else {
			onComplete()
		}
		return stream.SubscriptionFunc(func() {})
	}

	id := s.subs.add(onNext, onError, onComplete)

	if s.replay {
		onNext(s.current)
	}

	return stream.SubscriptionFunc(func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		s.subs.remove(id)
	})
}

// Next emits v to every current subscriber. It is ignored once the subject has terminated.
func (s *Subject[T]) Next(v T) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.terminal != nil {
		return
	}

	s.current = v
	s.subs.dispatchNext(v)
}

func (s *Subject[T]) Error(err error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.terminal != nil {
		return
	}

	s.terminal = stream.Error[T](err)
	s.subs.dispatchError(err)
}

func (s *Subject[T]) Complete() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.terminal != nil {
		return
	}

	s.terminal = stream.Complete[T]()
	s.subs.dispatchComplete()
}

// Value returns the most recently emitted value, or the initial value of a behavior subject
func (s *Subject[T]) Value() T {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.current
}

// Subscribers returns the number of active subscribers
func (s *Subject[T]) Subscribers() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.subs.len()
}
