package insight

import (
	"context"

	"github.com/manas360/practice-api/internal/llm"
	"github.com/stretchr/testify/mock"
)

// MockProvider mocks llm.Provider
type MockProvider struct {
	mock.Mock
}

func (m *MockProvider) Name() string {
	args := m.Called()
	return args.String(0)
}

func (m *MockProvider) AvailableModels() []string {
	args := m.Called()
	return args.Get(0).([]string)
}

func (m *MockProvider) DefaultModel() string {
	args := m.Called()
	return args.String(0)
}

func (m *MockProvider) IsConfigured() bool {
	args := m.Called()
	return args.Bool(0)
}

func (m *MockProvider) Generate(ctx context.Context, req llm.Request, model string) (*llm.Response, error) {
	args := m.Called(ctx, req, model)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*llm.Response), args.Error(1)
}
