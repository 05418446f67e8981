package stream

// Writer is handed to producers so they can push notifications to a subscriber.
type Writer[T any] interface {
	// Write emits an item. It returns false once the writer no longer accepts notifications, either because the
	// sequence has terminated or because the subscriber cancelled.
	Write(value T) bool
	// Error terminates the sequence with an error
	Error(err error)
	// Complete terminates the sequence successfully
	Complete()
}

// WriterFunc adapts a plain notification handler to a Writer
type WriterFunc[T any] func(notification Notification[T]) bool

func (f WriterFunc[T]) Write(value T) bool {
	return f(Next(value))
}

func (f WriterFunc[T]) Error(err error) {
	f(Error[T](err))
}

func (f WriterFunc[T]) Complete() {
	f(Complete[T]())
}
