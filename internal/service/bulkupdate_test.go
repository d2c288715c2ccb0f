package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"vaultcast/internal/content"
	"vaultcast/internal/model"
	"vaultcast/internal/repository/memory"
	"vaultcast/internal/tmdb"
	tmdbMocks "vaultcast/internal/tmdb/mocks"
)

type fakeLister struct {
	files []string
	err   error
}

func (f fakeLister) List(_ context.Context, dir string, _ bool) (content.Listing, error) {
	if f.err != nil {
		return content.Listing{}, f.err
	}
	out := content.Listing{Directory: dir}
	for _, n := range f.files {
		out.Files = append(out.Files, content.FileEntry{Name: n, Size: 1})
	}
	return out, nil
}

type sleepRecorder struct {
	calls []time.Duration
	err   error
}

func (s *sleepRecorder) sleep(_ context.Context, d time.Duration) error {
	s.calls = append(s.calls, d)
	return s.err
}

func newBulk(t *testing.T, catalog CatalogService, files []string, api tmdb.API) (*bulkUpdater, *sleepRecorder, *BulkMetrics) {
	t.Helper()
	metrics, err := NewBulkMetrics(prometheus.NewRegistry())
	require.NoError(t, err)
	b := NewBulkUpdater(catalog, fakeLister{files: files}, api,
		map[string]string{model.KindMovies: "movies", model.KindTV: "tv"},
		BulkOptions{BatchSize: 10, Pause: time.Second}, metrics, zerolog.Nop()).(*bulkUpdater)
	rec := &sleepRecorder{}
	b.sleep = rec.sleep
	return b, rec, metrics
}

func collect(events *[]Progress) func(Progress) {
	return func(p Progress) { *events = append(*events, p) }
}

func ofType(events []Progress, typ string) []Progress {
	var out []Progress
	for _, e := range events {
		if e.Type == typ {
			out = append(out, e)
		}
	}
	return out
}

func TestBulkUpdater_MoviesPausesAndContinues(t *testing.T) {
	ctx := context.Background()
	catalog := NewCatalogService(memory.NewRecordsMemory())
	for _, f := range []model.VideoFormData{
		{Filename: "Alien (1979).mp4", Title: "alien"},
		{Filename: "Brazil (1985).mkv", Title: "Brazil", Description: "Dystopia", TMDbID: 68},
		{Filename: "Dune (1984).mkv", Title: "dune"},
		{Filename: "Eraserhead.mkv", Title: "eraserhead"},
	} {
		_, err := catalog.Create(ctx, model.KindMovies, f)
		require.NoError(t, err)
	}

	api := new(tmdbMocks.MockAPI)
	api.On("SearchMovie", mock.Anything, "Alien", 1979).Return([]tmdb.MovieResult{{ID: 348}}, nil)
	api.On("MovieDetails", mock.Anything, 348).Return(&tmdb.MovieDetails{ID: 348, Title: "Alien", Overview: "In space", VoteAverage: 8.16}, nil)
	api.On("SearchMovie", mock.Anything, "Dune", 1984).Return(nil, errors.New("upstream exploded"))
	api.On("SearchMovie", mock.Anything, "Eraserhead", 0).Return([]tmdb.MovieResult{{ID: 985}}, nil)
	api.On("MovieDetails", mock.Anything, 985).Return(&tmdb.MovieDetails{ID: 985, Title: "Eraserhead", Overview: "Industrial"}, nil)

	files := []string{"Alien (1979).mp4", "Brazil (1985).mkv", "Casablanca.mkv", "Dune (1984).mkv", "Eraserhead.mkv"}
	b, sleeps, metrics := newBulk(t, catalog, files, api)

	var events []Progress
	err := b.Run(ctx, BulkOptions{Kind: model.KindMovies, BatchSize: 2, OnlyMissing: true}, collect(&events))
	require.NoError(t, err)

	items := ofType(events, ProgressItem)
	require.Len(t, items, 5)
	assert.Equal(t, []string{StatusUpdated, StatusSkipped, StatusMissing, StatusFailed, StatusUpdated},
		[]string{items[0].Status, items[1].Status, items[2].Status, items[3].Status, items[4].Status})
	assert.Contains(t, items[3].Message, "upstream exploded")

	pauses := ofType(events, ProgressPause)
	require.Len(t, pauses, 2)
	assert.Equal(t, 2, pauses[0].Index)
	assert.Equal(t, 4, pauses[1].Index)
	assert.Equal(t, []time.Duration{time.Second, time.Second}, sleeps.calls)

	assert.Equal(t, ProgressStart, events[0].Type)
	assert.Equal(t, 5, events[0].Total)
	done := events[len(events)-1]
	assert.Equal(t, ProgressDone, done.Type)
	assert.Equal(t, map[string]int{StatusUpdated: 2, StatusSkipped: 1, StatusMissing: 1, StatusFailed: 1}, done.Counts)

	alien, err := catalog.GetByFilename(ctx, model.KindMovies, "Alien (1979).mp4")
	require.NoError(t, err)
	assert.Equal(t, "Alien", alien.Title)
	assert.Equal(t, 8.2, alien.Score)
	assert.Equal(t, 348, alien.TMDbID)
	assert.Equal(t, "Alien (1979).mp4", alien.Filename)

	assert.Equal(t, 2.0, testutil.ToFloat64(metrics.items.WithLabelValues(model.KindMovies, StatusUpdated)))
	api.AssertExpectations(t)
}

func TestBulkUpdater_TVCreatesAndCachesShowLookups(t *testing.T) {
	ctx := context.Background()
	catalog := NewCatalogService(memory.NewRecordsMemory())

	api := new(tmdbMocks.MockAPI)
	api.On("SearchTV", mock.Anything, "Show").Return([]tmdb.TVResult{{ID: 7}}, nil).Once()
	api.On("TVDetails", mock.Anything, 7).Return(&tmdb.TVDetails{ID: 7, Name: "Show"}, nil).Once()
	api.On("EpisodeDetails", mock.Anything, 7, 1, 1).Return(&tmdb.EpisodeDetails{Name: "Pilot", SeasonNumber: 1, EpisodeNumber: 1}, nil)
	api.On("EpisodeDetails", mock.Anything, 7, 1, 2).Return(&tmdb.EpisodeDetails{Name: "Second", SeasonNumber: 1, EpisodeNumber: 2}, nil)

	files := []string{"Show/Season 1/Show.S01E01.mkv", "Show/Season 1/Show.S01E02.mkv", "Show/extras.mkv"}
	b, sleeps, _ := newBulk(t, catalog, files, api)

	var events []Progress
	err := b.Run(ctx, BulkOptions{Kind: model.KindTV, CreateMissing: true}, collect(&events))
	require.NoError(t, err)

	items := ofType(events, ProgressItem)
	require.Len(t, items, 3)
	assert.Equal(t, StatusCreated, items[0].Status)
	assert.Equal(t, StatusCreated, items[1].Status)
	assert.Equal(t, StatusSkipped, items[2].Status)
	assert.Empty(t, sleeps.calls)

	ep, err := catalog.GetByFilename(ctx, model.KindTV, "Show/Season 1/Show.S01E02.mkv")
	require.NoError(t, err)
	assert.Equal(t, "Second", ep.EpisodeTitle)
	assert.Equal(t, "Show", ep.ShowName)
	require.NotNil(t, ep.Episode)
	assert.Equal(t, 2, *ep.Episode)
	api.AssertExpectations(t)
}

func TestBulkUpdater_AbortsOnUnauthorized(t *testing.T) {
	ctx := context.Background()
	catalog := NewCatalogService(memory.NewRecordsMemory())

	api := new(tmdbMocks.MockAPI)
	api.On("SearchMovie", mock.Anything, "Alien", 1979).Return(nil, tmdb.ErrUnauthorized)

	b, _, _ := newBulk(t, catalog, []string{"Alien (1979).mp4", "Brazil.mkv"}, api)

	var events []Progress
	err := b.Run(ctx, BulkOptions{Kind: model.KindMovies, CreateMissing: true}, collect(&events))
	assert.ErrorIs(t, err, tmdb.ErrUnauthorized)
	assert.Len(t, ofType(events, ProgressItem), 1)
	assert.Equal(t, ProgressError, events[len(events)-1].Type)
}

func TestBulkUpdater_StopsWhenPauseIsCancelled(t *testing.T) {
	ctx := context.Background()
	catalog := NewCatalogService(memory.NewRecordsMemory())

	b, sleeps, _ := newBulk(t, catalog, []string{"a.mkv", "b.mkv", "c.mkv"}, new(tmdbMocks.MockAPI))
	sleeps.err = context.Canceled

	var events []Progress
	err := b.Run(ctx, BulkOptions{Kind: model.KindMovies, BatchSize: 1}, collect(&events))
	assert.ErrorIs(t, err, context.Canceled)
	assert.Len(t, ofType(events, ProgressItem), 1)
	assert.Len(t, sleeps.calls, 1)
}

func TestBulkUpdater_ListingError(t *testing.T) {
	b := NewBulkUpdater(nil, fakeLister{err: content.ErrDirectoryNotFound}, nil, nil, BulkOptions{}, nil, zerolog.Nop())

	var events []Progress
	err := b.Run(context.Background(), BulkOptions{Kind: model.KindMovies, Dir: "nope"}, collect(&events))
	assert.ErrorIs(t, err, content.ErrDirectoryNotFound)
	assert.Empty(t, events)

	assert.ErrorIs(t, b.Run(context.Background(), BulkOptions{Kind: "music"}, nil), ErrInvalidKind)
}
