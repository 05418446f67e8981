package observe

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

func TestSubject(t *testing.T) {
	t.Run("When items are emitted before and after a subscriber arrives", func(t *testing.T) {
		sut := NewSubject[int]()
		sut.Next(1)

		subscriberMock := &SubscriberMock[int]{}
		first := subscriberMock.On("OnNext", 2).Return().Once()
		second := subscriberMock.On("OnNext", 3).Return().NotBefore(first).Once()
		subscriberMock.On("OnComplete").Return().NotBefore(second).Once()

		sut.Subscribe(subscriberMock.OnNext, subscriberMock.OnError, subscriberMock.OnComplete)
		sut.Next(2)
		sut.Next(3)
		sut.Complete()
		sut.Next(4)

		t.Run("Then the subscriber only sees what was emitted while it was subscribed", func(t *testing.T) {
			subscriberMock.AssertExpectations(t)
			subscriberMock.AssertNotCalled(t, "OnNext", 1)
			subscriberMock.AssertNotCalled(t, "OnNext", 4)
		})
	})

	t.Run("When subscribing to a behavior subject", func(t *testing.T) {
		sut := NewBehaviorSubject("initial")
		sut.Next("current")

		subscriberMock := &SubscriberMock[string]{}
		subscriberMock.On("OnNext", "current").Return().Once()

		sut.Subscribe(subscriberMock.OnNext, subscriberMock.OnError, subscriberMock.OnComplete)

		t.Run("Then the current value is replayed to the new subscriber", func(t *testing.T) {
			subscriberMock.AssertExpectations(t)
			assert.Equal(t, "current", sut.Value())
		})
	})

	t.Run("When a subscriber cancels", func(t *testing.T) {
		sut := NewSubject[int]()
		subscriberMock := &SubscriberMock[int]{}
		subscriberMock.On("OnNext", 1).Return().Once()

		sub := sut.Subscribe(subscriberMock.OnNext, subscriberMock.OnError, subscriberMock.OnComplete)
		sut.Next(1)
		sub.Cancel()
		sut.Next(2)

		t.Run("Then it stops receiving items", func(t *testing.T) {
			subscriberMock.AssertExpectations(t)
			subscriberMock.AssertNotCalled(t, "OnNext", 2)
			assert.Zero(t, sut.Subscribers())
		})
	})

	t.Run("When the subject fails", func(t *testing.T) {
		err := errors.New("whoops")
		sut := NewSubject[int]()

		early := &SubscriberMock[int]{}
		early.On("OnError", err).Return().Once()
		sut.Subscribe(early.OnNext, early.OnError, early.OnComplete)

		sut.Error(err)

		late := &SubscriberMock[int]{}
		late.On("OnError", err).Return().Once()
		sut.Subscribe(late.OnNext, late.OnError, late.OnComplete)

		t.Run("Then current and later subscribers receive the error", func(t *testing.T) {
			early.AssertExpectations(t)
			late.AssertExpectations(t)
			late.AssertNotCalled(t, "OnNext", mock.Anything)
		})
	})
}
