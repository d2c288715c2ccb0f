package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"vaultcast/internal/model"
	"vaultcast/internal/service"
)

// MockBulkUpdater emits the events given as its first return value.
type MockBulkUpdater struct {
	mock.Mock
}

func (m *MockBulkUpdater) Run(ctx context.Context, opts service.BulkOptions, emit func(service.Progress)) error {
	args := m.Called(ctx, opts)
	if events, ok := args.Get(0).([]service.Progress); ok {
		for _, e := range events {
			emit(e)
		}
	}
	return args.Error(1)
}

type MockReconciler struct {
	mock.Mock
}

func (m *MockReconciler) Reconcile(ctx context.Context, kind, dir string) (*service.ReconcileResult, error) {
	args := m.Called(ctx, kind, dir)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.ReconcileResult), args.Error(1)
}

type MockVisionService struct {
	mock.Mock
}

func (m *MockVisionService) Analyze(ctx context.Context, req service.AnalyzeRequest) (*model.ImageAnalysis, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.ImageAnalysis), args.Error(1)
}
