package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"vaultcast/internal/tmdb"
)

type MockAPI struct {
	mock.Mock
}

func (m *MockAPI) SearchMovie(ctx context.Context, query string, year int) ([]tmdb.MovieResult, error) {
	args := m.Called(ctx, query, year)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]tmdb.MovieResult), args.Error(1)
}

func (m *MockAPI) SearchTV(ctx context.Context, query string) ([]tmdb.TVResult, error) {
	args := m.Called(ctx, query)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]tmdb.TVResult), args.Error(1)
}

func (m *MockAPI) MovieDetails(ctx context.Context, id int) (*tmdb.MovieDetails, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*tmdb.MovieDetails), args.Error(1)
}

func (m *MockAPI) TVDetails(ctx context.Context, id int) (*tmdb.TVDetails, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*tmdb.TVDetails), args.Error(1)
}

func (m *MockAPI) EpisodeDetails(ctx context.Context, tvID, season, episode int) (*tmdb.EpisodeDetails, error) {
	args := m.Called(ctx, tvID, season, episode)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*tmdb.EpisodeDetails), args.Error(1)
}
