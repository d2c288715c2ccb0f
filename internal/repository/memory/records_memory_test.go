package memory

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"vaultcast/internal/repository"
)

func doc(id, key, title string) *repository.Document {
	return &repository.Document{Collection: "movies", ID: id, Key: key, Title: title, Data: []byte(`{}`)}
}

func TestRecordsMemory_CRUD(t *testing.T) {
	ctx := context.Background()
	r := NewRecordsMemory()

	created, err := r.Create(ctx, doc("1", "a.mkv", "Alpha"))
	require.NoError(t, err)
	assert.False(t, created.CreatedAt.IsZero())

	_, err = r.Create(ctx, doc("2", "a.mkv", "Dup"))
	assert.ErrorIs(t, err, repository.ErrConflict)

	_, err = r.Create(ctx, doc("2", "b.mkv", "Beta"))
	require.NoError(t, err)

	got, err := r.FindByKey(ctx, "movies", "b.mkv")
	require.NoError(t, err)
	assert.Equal(t, "2", got.ID)

	_, err = r.Update(ctx, doc("2", "a.mkv", "Beta"))
	assert.ErrorIs(t, err, repository.ErrConflict)

	updated, err := r.Update(ctx, doc("2", "c.mkv", "Gamma"))
	require.NoError(t, err)
	assert.Equal(t, "c.mkv", updated.Key)
	assert.False(t, updated.UpdatedAt.Before(updated.CreatedAt))

	res, err := r.List(ctx, "movies", repository.PageQuery{Search: "GAM"})
	require.NoError(t, err)
	assert.Equal(t, 1, res.Total)
	assert.Equal(t, "Gamma", res.Items[0].Title)

	require.NoError(t, r.Delete(ctx, "movies", "1"))
	assert.ErrorIs(t, r.Delete(ctx, "movies", "1"), repository.ErrNotFound)
	_, err = r.FindByID(ctx, "movies", "1")
	assert.ErrorIs(t, err, repository.ErrNotFound)
}

func TestRecordsMemory_ListPaging(t *testing.T) {
	ctx := context.Background()
	r := NewRecordsMemory()
	for _, id := range []string{"a", "b", "c"} {
		_, err := r.Create(ctx, doc(id, "", id))
		require.NoError(t, err)
	}

	page, err := r.List(ctx, "movies", repository.PageQuery{Limit: 2, Offset: 2})
	require.NoError(t, err)
	assert.Equal(t, 3, page.Total)
	assert.Len(t, page.Items, 1)

	empty, err := r.List(ctx, "tv", repository.All)
	require.NoError(t, err)
	assert.Equal(t, 0, empty.Total)
}
