package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"vaultcast/internal/model"
	"vaultcast/internal/service"
)

type MockCatalogService struct {
	mock.Mock
}

func (m *MockCatalogService) List(ctx context.Context, kind string, q service.ListQuery) (*service.ListResult[model.Video], error) {
	args := m.Called(ctx, kind, q)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.ListResult[model.Video]), args.Error(1)
}

func (m *MockCatalogService) All(ctx context.Context, kind string) ([]model.Video, error) {
	args := m.Called(ctx, kind)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.Video), args.Error(1)
}

func (m *MockCatalogService) Get(ctx context.Context, kind, id string) (*model.Video, error) {
	args := m.Called(ctx, kind, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Video), args.Error(1)
}

func (m *MockCatalogService) GetByFilename(ctx context.Context, kind, filename string) (*model.Video, error) {
	args := m.Called(ctx, kind, filename)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Video), args.Error(1)
}

func (m *MockCatalogService) Create(ctx context.Context, kind string, in model.VideoFormData) (*model.Video, error) {
	args := m.Called(ctx, kind, in)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Video), args.Error(1)
}

func (m *MockCatalogService) Update(ctx context.Context, kind, id string, in model.VideoFormData) (*model.Video, error) {
	args := m.Called(ctx, kind, id, in)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Video), args.Error(1)
}

func (m *MockCatalogService) Delete(ctx context.Context, kind, id string) error {
	args := m.Called(ctx, kind, id)
	return args.Error(0)
}
