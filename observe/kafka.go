package observe

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/avast/retry-go/v4"
	"github.com/ducka/go-pull/instrumentation"
	"github.com/ducka/go-pull/stream"
	"github.com/segmentio/kafka-go"
	"go.uber.org/zap"
)

// MessageFetcher is the part of *kafka.Reader consumed by the Kafka observable
type MessageFetcher interface {
	FetchMessage(ctx context.Context) (kafka.Message, error)
	CommitMessages(ctx context.Context, msgs ...kafka.Message) error
}

var _ MessageFetcher = (*kafka.Reader)(nil)

// Kafka observes the messages fetched by reader. Failed fetches are retried as configured by WithRetry before the
// error is emitted. Each message is committed once it has been handed to the subscriber. The sequence completes when
// the reader is closed.
//
// A kafka reader belongs to a single consumer, so the observable should only be subscribed to once.
func Kafka(reader MessageFetcher, opts ...ObservableOption) *Observable[kafka.Message] {
	if reader == nil {
		panic("reader should not be nil")
	}

	return newObservable[kafka.Message](func(ctx context.Context, streamWriter stream.Writer[kafka.Message], options observableOptions) {
		logger := instrumentation.ActivityLogger(options.logger, options.activity)

		for {
			msg, err := retry.DoWithData(
				func() (kafka.Message, error) {
					return reader.FetchMessage(ctx)
				},
				retry.Context(ctx),
				retry.Attempts(options.retryAttempts),
				retry.Delay(options.retryDelay),
				retry.LastErrorOnly(true),
				retry.RetryIf(isRetryableFetchError),
				retry.OnRetry(func(attempt uint, err error) {
					logger.Warn("kafka fetch failed", zap.Uint("attempt", attempt+1), zap.Error(err))
				}),
			)

			if ctx.Err() != nil || errors.Is(err, io.EOF) {
				return
			}

			if err != nil {
				streamWriter.Error(fmt.Errorf("kafka: fetch message: %w", err))
				return
			}

			if !streamWriter.Write(msg) {
				return
			}

			if err := reader.CommitMessages(ctx, msg); err != nil {
				if ctx.Err() == nil {
					streamWriter.Error(fmt.Errorf("kafka: commit offset %d: %w", msg.Offset, err))
				}
				return
			}
		}
	}, opts...)
}

func isRetryableFetchError(err error) bool {
	return !errors.Is(err, io.EOF) &&
		!errors.Is(err, context.Canceled) &&
		!errors.Is(err, context.DeadlineExceeded)
}
