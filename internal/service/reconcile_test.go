package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"vaultcast/internal/content"
	"vaultcast/internal/model"
	"vaultcast/internal/repository/memory"
)

func TestReconciler_Partitions(t *testing.T) {
	ctx := context.Background()
	catalog := NewCatalogService(memory.NewRecordsMemory())
	for _, f := range []string{"b.mkv", "a.mkv", "gone.mkv"} {
		_, err := catalog.Create(ctx, model.KindMovies, model.VideoFormData{Filename: f, Title: f})
		require.NoError(t, err)
	}

	r := NewReconciler(catalog, fakeLister{files: []string{"new.mkv", "a.mkv", "b.mkv"}}, map[string]string{model.KindMovies: "movies"})

	res, err := r.Reconcile(ctx, model.KindMovies, "")
	require.NoError(t, err)
	assert.Equal(t, "movies", res.Directory)
	assert.Equal(t, []string{"a.mkv", "b.mkv"}, res.Matched)
	assert.Equal(t, []string{"new.mkv"}, res.MissingInDB)
	assert.Equal(t, []string{"gone.mkv"}, res.MissingOnDisk)
}

func TestReconciler_Errors(t *testing.T) {
	catalog := NewCatalogService(memory.NewRecordsMemory())

	_, err := NewReconciler(catalog, fakeLister{}, nil).Reconcile(context.Background(), "books", "")
	assert.ErrorIs(t, err, ErrInvalidKind)

	_, err = NewReconciler(catalog, fakeLister{err: content.ErrDirectoryNotFound}, nil).Reconcile(context.Background(), model.KindTV, "x")
	assert.ErrorIs(t, err, content.ErrDirectoryNotFound)

	empty, err := NewReconciler(catalog, fakeLister{}, nil).Reconcile(context.Background(), model.KindTV, "tv")
	require.NoError(t, err)
	assert.Empty(t, empty.Matched)
	assert.NotNil(t, empty.MissingOnDisk)
}
