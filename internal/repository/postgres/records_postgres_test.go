package postgres

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"vaultcast/internal/repository"
)

var rowColumns = []string{"collection", "id", "key", "title", "data", "created_at", "updated_at"}

func fixedNow(t *testing.T) time.Time {
	t.Helper()
	ts := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	orig := now
	now = func() time.Time { return ts }
	t.Cleanup(func() { now = orig })
	return ts
}

func TestRecordsPostgres_Create(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	ts := fixedNow(t)
	repo := NewRecordsPostgres(db)
	ctx := context.Background()

	doc := &repository.Document{
		Collection: "movies",
		ID:         "4b0f3c9e-8d7a-4f43-9a3c-3c1f1a2b9e01",
		Key:        "alien.mkv",
		Title:      "Alien",
		Data:       []byte(`{"filename":"alien.mkv","title":"Alien"}`),
	}

	t.Run("success", func(t *testing.T) {
		rows := sqlmock.NewRows(rowColumns).
			AddRow(doc.Collection, doc.ID, doc.Key, doc.Title, []byte(doc.Data), ts, ts)

		mock.ExpectQuery("INSERT INTO records").
			WithArgs(doc.Collection, doc.ID, doc.Key, doc.Title, string(doc.Data), ts).
			WillReturnRows(rows)

		out, err := repo.Create(ctx, doc)

		require.NoError(t, err)
		assert.Equal(t, doc.ID, out.ID)
		assert.Equal(t, "alien.mkv", out.Key)
		assert.JSONEq(t, string(doc.Data), string(out.Data))
		assert.Equal(t, ts, out.CreatedAt)
	})

	t.Run("duplicate key", func(t *testing.T) {
		mock.ExpectQuery("INSERT INTO records").
			WillReturnError(&pgconn.PgError{Code: "23505"})

		out, err := repo.Create(ctx, doc)

		assert.Nil(t, out)
		assert.ErrorIs(t, err, repository.ErrConflict)
	})

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRecordsPostgres_FindByID(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	repo := NewRecordsPostgres(db)
	ctx := context.Background()

	t.Run("found", func(t *testing.T) {
		rows := sqlmock.NewRows(rowColumns).
			AddRow("tasks", "test-id", "", "Buy milk", []byte(`{"title":"Buy milk"}`), time.Now(), time.Now())

		mock.ExpectQuery("SELECT (.+) FROM records WHERE collection = \\$1 AND id = \\$2").
			WithArgs("tasks", "test-id").
			WillReturnRows(rows)

		doc, err := repo.FindByID(ctx, "tasks", "test-id")

		require.NoError(t, err)
		assert.Equal(t, "test-id", doc.ID)
		assert.Equal(t, "Buy milk", doc.Title)
	})

	t.Run("not found", func(t *testing.T) {
		mock.ExpectQuery("SELECT (.+) FROM records WHERE collection = \\$1 AND id = \\$2").
			WithArgs("tasks", "missing").
			WillReturnError(sql.ErrNoRows)

		doc, err := repo.FindByID(ctx, "tasks", "missing")

		assert.ErrorIs(t, err, repository.ErrNotFound)
		assert.Nil(t, doc)
	})

	t.Run("malformed uuid", func(t *testing.T) {
		mock.ExpectQuery("SELECT (.+) FROM records WHERE collection = \\$1 AND id = \\$2").
			WithArgs("email_designs", "abc").
			WillReturnError(&pgconn.PgError{Code: "22P02", Message: `invalid input syntax for type uuid: "abc"`})

		doc, err := repo.FindByID(ctx, "email_designs", "abc")

		assert.ErrorIs(t, err, repository.ErrNotFound)
		assert.Nil(t, doc)
	})

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRecordsPostgres_FindByKey(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	repo := NewRecordsPostgres(db)

	rows := sqlmock.NewRows(rowColumns).
		AddRow("tv", "id-1", "show/s01e01.mkv", "Pilot", []byte(`{}`), time.Now(), time.Now())
	mock.ExpectQuery("SELECT (.+) FROM records WHERE collection = \\$1 AND key = \\$2").
		WithArgs("tv", "show/s01e01.mkv").
		WillReturnRows(rows)

	doc, err := repo.FindByKey(context.Background(), "tv", "show/s01e01.mkv")

	require.NoError(t, err)
	assert.Equal(t, "id-1", doc.ID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRecordsPostgres_List(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	repo := NewRecordsPostgres(db)
	ctx := context.Background()

	t.Run("paged", func(t *testing.T) {
		mock.ExpectQuery("SELECT COUNT\\(\\*\\) FROM records WHERE collection = \\$1").
			WithArgs("movies").
			WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(1))

		rows := sqlmock.NewRows(rowColumns).
			AddRow("movies", "id-1", "alien.mkv", "Alien", []byte(`{}`), time.Now(), time.Now())
		mock.ExpectQuery("SELECT (.+) FROM records WHERE collection = \\$1 ORDER BY (.+) LIMIT \\$2 OFFSET \\$3").
			WithArgs("movies", 10, 20).
			WillReturnRows(rows)

		res, err := repo.List(ctx, "movies", repository.PageQuery{Limit: 10, Offset: 20})

		require.NoError(t, err)
		assert.Equal(t, 1, res.Total)
		assert.Len(t, res.Items, 1)
	})

	t.Run("search without limit", func(t *testing.T) {
		mock.ExpectQuery("SELECT COUNT\\(\\*\\) FROM records WHERE collection = \\$1 AND \\(key ILIKE \\$2 OR title ILIKE \\$2\\)").
			WithArgs("movies", `%50\%%`).
			WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(0))
		mock.ExpectQuery("SELECT (.+) FROM records WHERE (.+) ORDER BY created_at DESC, id DESC$").
			WithArgs("movies", `%50\%%`).
			WillReturnRows(sqlmock.NewRows(rowColumns))

		res, err := repo.List(ctx, "movies", repository.PageQuery{Search: "50%"})

		require.NoError(t, err)
		assert.Equal(t, 0, res.Total)
		assert.Empty(t, res.Items)
	})

	t.Run("offset without limit", func(t *testing.T) {
		mock.ExpectQuery("SELECT COUNT").
			WithArgs("movies").
			WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(3))
		mock.ExpectQuery("SELECT (.+) FROM records WHERE collection = \\$1 ORDER BY created_at DESC, id DESC OFFSET \\$2$").
			WithArgs("movies", 2).
			WillReturnRows(sqlmock.NewRows(rowColumns).
				AddRow("movies", "id-3", "c.mkv", "C", []byte(`{}`), time.Now(), time.Now()))

		res, err := repo.List(ctx, "movies", repository.PageQuery{Offset: 2})

		require.NoError(t, err)
		assert.Equal(t, 3, res.Total)
		assert.Len(t, res.Items, 1)
	})

	t.Run("count error", func(t *testing.T) {
		mock.ExpectQuery("SELECT COUNT").WillReturnError(errors.New("boom"))

		res, err := repo.List(ctx, "movies", repository.PageQuery{Limit: 5})

		assert.Error(t, err)
		assert.Nil(t, res)
	})

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRecordsPostgres_Update(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	ts := fixedNow(t)
	repo := NewRecordsPostgres(db)
	ctx := context.Background()
	doc := &repository.Document{Collection: "movies", ID: "id-1", Key: "b.mkv", Title: "B", Data: []byte(`{"title":"B"}`)}

	t.Run("success", func(t *testing.T) {
		rows := sqlmock.NewRows(rowColumns).
			AddRow("movies", "id-1", "b.mkv", "B", []byte(`{"title":"B"}`), ts.Add(-time.Hour), ts)
		mock.ExpectQuery("UPDATE records").
			WithArgs("movies", "id-1", "b.mkv", "B", `{"title":"B"}`, ts).
			WillReturnRows(rows)

		out, err := repo.Update(ctx, doc)

		require.NoError(t, err)
		assert.Equal(t, ts, out.UpdatedAt)
	})

	t.Run("missing", func(t *testing.T) {
		mock.ExpectQuery("UPDATE records").WillReturnError(sql.ErrNoRows)

		_, err := repo.Update(ctx, doc)

		assert.ErrorIs(t, err, repository.ErrNotFound)
	})

	t.Run("key taken", func(t *testing.T) {
		mock.ExpectQuery("UPDATE records").WillReturnError(&pgconn.PgError{Code: "23505"})

		_, err := repo.Update(ctx, doc)

		assert.ErrorIs(t, err, repository.ErrConflict)
	})
}

func TestRecordsPostgres_Delete(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	repo := NewRecordsPostgres(db)
	ctx := context.Background()

	mock.ExpectExec("DELETE FROM records WHERE collection = \\$1 AND id = \\$2").
		WithArgs("tasks", "test-id").
		WillReturnResult(sqlmock.NewResult(0, 1))
	assert.NoError(t, repo.Delete(ctx, "tasks", "test-id"))

	mock.ExpectExec("DELETE FROM records").
		WithArgs("tasks", "gone").
		WillReturnResult(sqlmock.NewResult(0, 0))
	assert.ErrorIs(t, repo.Delete(ctx, "tasks", "gone"), repository.ErrNotFound)

	mock.ExpectExec("DELETE FROM records").
		WithArgs("tasks", "not-a-uuid").
		WillReturnError(&pgconn.PgError{Code: "22P02"})
	assert.ErrorIs(t, repo.Delete(ctx, "tasks", "not-a-uuid"), repository.ErrNotFound)

	assert.NoError(t, mock.ExpectationsWereMet())
}
