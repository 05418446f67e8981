package instrumentation

import (
	"time"
)

type Measurer interface {
	Incr(activity string, name string, value float64)
	Timing(activity string, name string, value time.Duration)
}

type NilMeasurer struct{}

func (*NilMeasurer) Incr(activity string, name string, value float64)         {}
func (*NilMeasurer) Timing(activity string, name string, value time.Duration) {}
