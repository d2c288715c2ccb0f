package postgres

import (
	"context"
	"database/sql"
	"errors"
	"strconv"
	"strings"
	"time"

	"github.com/jackc/pgx/v5/pgconn"

	"vaultcast/internal/repository"
)

const (
	uniqueViolation = "23505"
	// invalidTextRepresentation is raised when an id is not a valid UUID.
	invalidTextRepresentation = "22P02"
)

var now = func() time.Time { return time.Now().UTC() }

// RecordsPostgres is a PostgreSQL implementation of repository.DocumentRepository.
// All collections share the records table; data is stored as JSONB.
type RecordsPostgres struct {
	db *sql.DB
}

// NewRecordsPostgres creates a new RecordsPostgres repository.
func NewRecordsPostgres(db *sql.DB) *RecordsPostgres {
	return &RecordsPostgres{db: db}
}

var _ repository.DocumentRepository = (*RecordsPostgres)(nil)

const columns = `collection, id, COALESCE(key, ''), title, data, created_at, updated_at`

func scanDocument(row interface{ Scan(...any) error }) (*repository.Document, error) {
	var (
		d    repository.Document
		data []byte
	)
	if err := row.Scan(&d.Collection, &d.ID, &d.Key, &d.Title, &data, &d.CreatedAt, &d.UpdatedAt); err != nil {
		return nil, err
	}
	d.Data = data
	return &d, nil
}

func translate(err error) error {
	if errors.Is(err, sql.ErrNoRows) {
		return repository.ErrNotFound
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case uniqueViolation:
			return repository.ErrConflict
		case invalidTextRepresentation:
			// A malformed id cannot name any record.
			return repository.ErrNotFound
		}
	}
	return err
}

// Create inserts a new record row and returns the stored document.
func (r *RecordsPostgres) Create(ctx context.Context, doc *repository.Document) (*repository.Document, error) {
	const q = `
		INSERT INTO records (collection, id, key, title, data, created_at, updated_at)
		VALUES ($1, $2, NULLIF($3, ''), $4, $5, $6, $6)
		RETURNING ` + columns
	ts := now()
	row := r.db.QueryRowContext(ctx, q,
		doc.Collection,
		doc.ID,
		doc.Key,
		doc.Title,
		string(doc.Data),
		ts,
	)
	out, err := scanDocument(row)
	if err != nil {
		return nil, translate(err)
	}
	return out, nil
}

// FindByID fetches a single document by collection and ID.
func (r *RecordsPostgres) FindByID(ctx context.Context, collection, id string) (*repository.Document, error) {
	const q = `SELECT ` + columns + ` FROM records WHERE collection = $1 AND id = $2`
	out, err := scanDocument(r.db.QueryRowContext(ctx, q, collection, id))
	if err != nil {
		return nil, translate(err)
	}
	return out, nil
}

// FindByKey fetches a single document by collection and unique key.
func (r *RecordsPostgres) FindByKey(ctx context.Context, collection, key string) (*repository.Document, error) {
	const q = `SELECT ` + columns + ` FROM records WHERE collection = $1 AND key = $2`
	out, err := scanDocument(r.db.QueryRowContext(ctx, q, collection, key))
	if err != nil {
		return nil, translate(err)
	}
	return out, nil
}

// likePattern escapes LIKE metacharacters and wraps s in wildcards.
func likePattern(s string) string {
	r := strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)
	return "%" + r.Replace(s) + "%"
}

// List returns documents using LIMIT/OFFSET pagination and a total count.
// A zero Limit returns every matching document.
func (r *RecordsPostgres) List(ctx context.Context, collection string, pq repository.PageQuery) (*repository.PageResult[repository.Document], error) {
	where := `WHERE collection = $1`
	args := []any{collection}
	if s := strings.TrimSpace(pq.Search); s != "" {
		where += ` AND (key ILIKE $2 OR title ILIKE $2)`
		args = append(args, likePattern(s))
	}

	var total int
	if err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM records `+where, args...).Scan(&total); err != nil {
		return nil, err
	}

	qList := `SELECT ` + columns + ` FROM records ` + where + ` ORDER BY created_at DESC, id DESC`
	if pq.Limit > 0 {
		args = append(args, pq.Limit)
		qList += ` LIMIT $` + strconv.Itoa(len(args))
	}
	if pq.Offset > 0 {
		args = append(args, pq.Offset)
		qList += ` OFFSET $` + strconv.Itoa(len(args))
	}

	rows, err := r.db.QueryContext(ctx, qList, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	items := make([]repository.Document, 0)
	for rows.Next() {
		d, err := scanDocument(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, *d)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	return &repository.PageResult[repository.Document]{
		Items: items,
		Total: total,
	}, nil
}

// Update replaces key, title and data of an existing record.
func (r *RecordsPostgres) Update(ctx context.Context, doc *repository.Document) (*repository.Document, error) {
	const q = `
		UPDATE records
		SET key = NULLIF($3, ''), title = $4, data = $5, updated_at = $6
		WHERE collection = $1 AND id = $2
		RETURNING ` + columns
	row := r.db.QueryRowContext(ctx, q,
		doc.Collection,
		doc.ID,
		doc.Key,
		doc.Title,
		string(doc.Data),
		now(),
	)
	out, err := scanDocument(row)
	if err != nil {
		return nil, translate(err)
	}
	return out, nil
}

// Delete removes a record by ID.
func (r *RecordsPostgres) Delete(ctx context.Context, collection, id string) error {
	const q = `DELETE FROM records WHERE collection = $1 AND id = $2`
	res, err := r.db.ExecContext(ctx, q, collection, id)
	if err != nil {
		return translate(err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return repository.ErrNotFound
	}
	return nil
}
