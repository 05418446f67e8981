package observe

import (
	"context"
	"fmt"

	"github.com/ducka/go-pull/stream"
	"github.com/redis/go-redis/v9"
)

// PubSub is the part of *redis.PubSub consumed by RedisPubSub
type PubSub interface {
	Receive(ctx context.Context) (interface{}, error)
	Channel(opts ...redis.ChannelOption) <-chan *redis.Message
	Close() error
}

var _ PubSub = (*redis.PubSub)(nil)

// Redis observes the messages published to the given redis channels. Each subscriber opens its own redis
// subscription, which is closed when the subscriber cancels.
func Redis(client redis.UniversalClient, channels []string, opts ...ObservableOption) *Observable[*redis.Message] {
	if client == nil {
		panic("client should not be nil")
	}

	return RedisPubSub(func(ctx context.Context) PubSub {
		return client.Subscribe(ctx, channels...)
	}, opts...)
}

// RedisPubSub observes the messages of a redis subscription opened by open. The sequence fails if the subscription
// can't be confirmed and completes when the subscription's channel closes.
func RedisPubSub(open func(ctx context.Context) PubSub, opts ...ObservableOption) *Observable[*redis.Message] {
	if open == nil {
		panic(`"RedisPubSub" expected open func`)
	}

	return newObservable[*redis.Message](func(ctx context.Context, streamWriter stream.Writer[*redis.Message], _ observableOptions) {
		pubsub := open(ctx)
		defer pubsub.Close()

		// Wait for the subscription to be confirmed so connection failures surface as errors
		if _, err := pubsub.Receive(ctx); err != nil {
			if ctx.Err() == nil {
				streamWriter.Error(fmt.Errorf("redis: subscribe: %w", err))
			}
			return
		}

		messages := pubsub.Channel()

		for {
			select {
			case <-ctx.Done():
				return
			case msg, ok := <-messages:
				if !ok {
					return
				}

				if !streamWriter.Write(msg) {
					return
				}
			}
		}
	}, opts...)
}
