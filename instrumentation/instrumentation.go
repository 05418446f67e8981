package instrumentation

import (
	"sync"

	"go.uber.org/zap"
)

var (
	mu       sync.RWMutex
	measurer Measurer
	logger   *zap.Logger
)

func init() {
	SetMeasurer(&NilMeasurer{})
	SetLogger(zap.NewNop())
}

// SetMeasurer replaces the process wide measurer used by iterators and observables that weren't given one explicitly
func SetMeasurer(provider Measurer) {
	if provider == nil {
		panic("Metrics provider must be specified")
	}

	mu.Lock()
	defer mu.Unlock()
	measurer = provider
}

// SetLogger replaces the process wide logger used by iterators and observables that weren't given one explicitly
func SetLogger(provider *zap.Logger) {
	if provider == nil {
		panic("Logging provider must be specified")
	}

	mu.Lock()
	defer mu.Unlock()
	logger = provider
}

func Metrics() Measurer {
	mu.RLock()
	defer mu.RUnlock()
	return measurer
}

func Logging() *zap.Logger {
	mu.RLock()
	defer mu.RUnlock()
	return logger
}
