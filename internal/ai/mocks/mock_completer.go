package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"vaultcast/internal/model"
)

type MockCompleter struct {
	mock.Mock
}

func (m *MockCompleter) Complete(ctx context.Context, system string, messages []model.ChatMessage) (string, error) {
	args := m.Called(ctx, system, messages)
	return args.String(0), args.Error(1)
}

// Stream delivers each string in the first return value to onChunk.
func (m *MockCompleter) Stream(ctx context.Context, system string, messages []model.ChatMessage, onChunk func(string) error) error {
	args := m.Called(ctx, system, messages)
	if chunks, ok := args.Get(0).([]string); ok {
		for _, c := range chunks {
			if err := onChunk(c); err != nil {
				return err
			}
		}
	}
	return args.Error(1)
}

type MockVision struct {
	mock.Mock
}

func (m *MockVision) Describe(ctx context.Context, image []byte, contentType, prompt string) (model.ImageAnalysis, error) {
	args := m.Called(ctx, image, contentType, prompt)
	return args.Get(0).(model.ImageAnalysis), args.Error(1)
}
