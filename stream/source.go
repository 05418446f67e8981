package stream

type (
	OnNextFunc[T any] func(v T)
	OnErrorFunc       func(err error)
	OnCompleteFunc    func()
)

// Source is a push based stream. Subscribe registers the three callbacks and returns a handle that stops further
// delivery. OnNext may be called any number of times, followed by at most one call to either OnError or OnComplete.
type Source[T any] interface {
	Subscribe(onNext OnNextFunc[T], onError OnErrorFunc, onComplete OnCompleteFunc) Subscription
}

// Subscription cancels the delivery of callbacks to a subscriber
type Subscription interface {
	Cancel()
}

// SourceFunc adapts a plain subscribe function to a Source
type SourceFunc[T any] func(onNext OnNextFunc[T], onError OnErrorFunc, onComplete OnCompleteFunc) Subscription

func (f SourceFunc[T]) Subscribe(onNext OnNextFunc[T], onError OnErrorFunc, onComplete OnCompleteFunc) Subscription {
	return f(onNext, onError, onComplete)
}

// SubscriptionFunc adapts a plain cancel function to a Subscription
type SubscriptionFunc func()

func (f SubscriptionFunc) Cancel() {
	f()
}
