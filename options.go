package pull

import (
	"context"

	"github.com/ducka/go-pull/instrumentation"
	"go.uber.org/zap"
)

type iteratorOptions struct {
	ctx      context.Context
	activity string
	logger   *zap.Logger
	measurer instrumentation.Measurer
}

func newIteratorOptions() iteratorOptions {
	return iteratorOptions{
		ctx:      context.Background(),
		activity: "pull",
		logger:   instrumentation.Logging(),
		measurer: instrumentation.Metrics(),
	}
}

type Option func(options *iteratorOptions)

// WithContext bounds every Next call made on the iterator by ctx, in addition to the context passed to the call itself
func WithContext(ctx context.Context) Option {
	return func(options *iteratorOptions) {
		options.ctx = ctx
	}
}

// WithActivityName labels the iterator's logs and metrics
func WithActivityName(activityName string) Option {
	return func(options *iteratorOptions) {
		options.activity = activityName
	}
}

func WithLogger(logger *zap.Logger) Option {
	return func(options *iteratorOptions) {
		if logger != nil {
			options.logger = logger
		}
	}
}

func WithMeasurer(measurer instrumentation.Measurer) Option {
	return func(options *iteratorOptions) {
		if measurer != nil {
			options.measurer = measurer
		}
	}
}
