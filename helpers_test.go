package pull

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/mock"
)

const waitTimeout = 2 * time.Second

func testContext(t *testing.T) context.Context {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), waitTimeout)
	t.Cleanup(cancel)
	return ctx
}

type MeasurerMock struct {
	mock.Mock
}

func (m *MeasurerMock) Incr(activity string, name string, value float64) {
	m.Called(activity, name, value)
}

func (m *MeasurerMock) Timing(activity string, name string, value time.Duration) {
	m.Called(activity, name, value)
}
