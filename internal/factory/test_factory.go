package factory

import (
	"time"

	"github.com/rinkhq/pickup-admin/internal/dependencies/mocks"
	"github.com/rinkhq/pickup-admin/internal/services/cities"
	"github.com/rinkhq/pickup-admin/internal/store/memory"
	"github.com/rinkhq/pickup-admin/internal/testutil"
)

// TestApp extends App with test-specific helpers
type TestApp struct {
	*App

	// Mocks for test control
	MockClock  *mocks.MockClock
	MockRandom *mocks.MockRandom
}

// NewTestApp creates an App configured for testing with mocked dependencies
func NewTestApp() (*TestApp, error) {
	st := memory.New()
	mockClock := mocks.NewMockClock(time.Date(2024, 3, 5, 20, 0, 0, 0, time.UTC))
	mockRandom := mocks.NewMockRandom()

	app, err := newWithDependencies(st, mockClock, mockRandom, cities.DefaultTTL, testutil.NopLogger())
	if err != nil {
		return nil, err
	}

	return &TestApp{
		App:        app,
		MockClock:  mockClock,
		MockRandom: mockRandom,
	}, nil
}
