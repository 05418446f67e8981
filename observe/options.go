package observe

import (
	"context"
	"time"

	"github.com/ducka/go-pull/instrumentation"
	"go.uber.org/zap"
)

const (
	defaultRetryAttempts uint = 3
	defaultRetryDelay         = 100 * time.Millisecond
)

type observableOptions struct {
	ctx           context.Context
	activity      string
	logger        *zap.Logger
	retryAttempts uint
	retryDelay    time.Duration
}

func newObservableOptions() observableOptions {
	return observableOptions{
		ctx:           context.Background(),
		logger:        instrumentation.Logging(),
		retryAttempts: defaultRetryAttempts,
		retryDelay:    defaultRetryDelay,
	}
}

type ObservableOption func(options *observableOptions)

// WithContext bounds the lifetime of every subscription. When ctx ends, subscribers receive ctx's error.
func WithContext(ctx context.Context) ObservableOption {
	return func(options *observableOptions) {
		options.ctx = ctx
	}
}

func WithActivityName(activityName string) ObservableOption {
	return func(options *observableOptions) {
		options.activity = activityName
	}
}

func WithLogger(logger *zap.Logger) ObservableOption {
	return func(options *observableOptions) {
		if logger != nil {
			options.logger = logger
		}
	}
}

// WithRetry configures how often broker backed observables retry a failed read before emitting the error. An
// attempts value of 0 retries until the read succeeds or the subscription ends.
func WithRetry(attempts uint, delay time.Duration) ObservableOption {
	return func(options *observableOptions) {
		options.retryAttempts = attempts
		options.retryDelay = delay
	}
}
