package instrumentation

import (
	"go.uber.org/zap"
)

// ActivityLogger tags every entry written through the returned logger with the activity name. An empty activity
// leaves the logger untouched.
func ActivityLogger(logger *zap.Logger, activity string) *zap.Logger {
	if logger == nil {
		logger = Logging()
	}

	if activity == "" {
		return logger
	}

	return logger.With(zap.String("activity", activity))
}
