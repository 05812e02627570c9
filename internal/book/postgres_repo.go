package book

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// yearBucketSQL lets the engine assign each book to a boundary slot.
// width_bucket yields 0 below the first boundary and len(boundaries) at or
// above the last one; both, and NULL years, fold into slot 0 (Other).
const yearBucketSQL = `
	SELECT CASE WHEN s.slot BETWEEN 1 AND $2 THEN s.slot ELSE 0 END AS bucket,
	       COUNT(*) AS book_count,
	       array_agg(s.title ORDER BY s.id) AS titles
	FROM (
		SELECT id, title, width_bucket(published_year, $1::int[]) AS slot
		FROM books
	) s
	GROUP BY 1
	ORDER BY 1`

type PostgresRepo struct {
	db      *pgxpool.Pool
	timeout time.Duration
	sql     sqlBuilder
}

func NewPostgresRepo(db *pgxpool.Pool, timeout time.Duration) *PostgresRepo {
	return &PostgresRepo{db: db, timeout: timeout, sql: newSQLBuilder(dialectPostgres)}
}

func (r *PostgresRepo) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(ctx, r.timeout)
}

func (r *PostgresRepo) Find(ctx context.Context, q Query) ([]Book, error) {
	query, args, err := r.sql.selectBooks(q)
	if err != nil {
		return nil, err
	}

	timeoutCtx, cancel := r.withTimeout(ctx)
	defer cancel()
	rows, err := r.db.Query(timeoutCtx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []Book{}
	for rows.Next() {
		var b Book
		if err := rows.Scan(&b.ID, &b.Title, &b.Author, &b.Genre, &b.PublishedYear, &b.Price, &b.InStock); err != nil {
			return nil, err
		}
		out = append(out, b)
	}
	return out, rows.Err()
}

func (r *PostgresRepo) FindProjected(ctx context.Context, q Query, fields []Field) ([]Document, error) {
	cols, err := projectionColumns(fields)
	if err != nil {
		return nil, err
	}
	query, args, err := r.sql.selectBooks(q, cols...)
	if err != nil {
		return nil, err
	}

	timeoutCtx, cancel := r.withTimeout(ctx)
	defer cancel()
	rows, err := r.db.Query(timeoutCtx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []Document{}
	for rows.Next() {
		values, err := rows.Values()
		if err != nil {
			return nil, err
		}
		doc := make(Document, len(values))
		for i, fd := range rows.FieldDescriptions() {
			doc[fd.Name] = normalizeValue(values[i])
		}
		out = append(out, doc)
	}
	return out, rows.Err()
}

// UpdateOne locks the first book with the title and sets its price.
func (r *PostgresRepo) UpdateOne(ctx context.Context, title string, price float64) (UpdateResult, error) {
	timeoutCtx, cancel := r.withTimeout(ctx)
	defer cancel()

	tx, err := r.db.Begin(timeoutCtx)
	if err != nil {
		return UpdateResult{}, err
	}
	defer tx.Rollback(timeoutCtx)

	id, current, err := r.firstByTitle(timeoutCtx, tx, title)
	if errors.Is(err, pgx.ErrNoRows) {
		return UpdateResult{}, nil
	}
	if err != nil {
		return UpdateResult{}, err
	}
	if current == price {
		return UpdateResult{Matched: 1}, tx.Commit(timeoutCtx)
	}

	query, args, err := r.sql.updatePrice(id, price)
	if err != nil {
		return UpdateResult{}, err
	}
	tag, err := tx.Exec(timeoutCtx, query, args...)
	if err != nil {
		return UpdateResult{}, fmt.Errorf("update price: %w", err)
	}
	if err := tx.Commit(timeoutCtx); err != nil {
		return UpdateResult{}, err
	}
	return UpdateResult{Matched: 1, Modified: tag.RowsAffected()}, nil
}

func (r *PostgresRepo) DeleteOne(ctx context.Context, title string) (int64, error) {
	timeoutCtx, cancel := r.withTimeout(ctx)
	defer cancel()

	tx, err := r.db.Begin(timeoutCtx)
	if err != nil {
		return 0, err
	}
	defer tx.Rollback(timeoutCtx)

	id, _, err := r.firstByTitle(timeoutCtx, tx, title)
	if errors.Is(err, pgx.ErrNoRows) {
		return 0, nil
	}
	if err != nil {
		return 0, err
	}

	query, args, err := r.sql.deleteByID(id)
	if err != nil {
		return 0, err
	}
	tag, err := tx.Exec(timeoutCtx, query, args...)
	if err != nil {
		return 0, fmt.Errorf("delete book: %w", err)
	}
	return tag.RowsAffected(), tx.Commit(timeoutCtx)
}

func (r *PostgresRepo) firstByTitle(ctx context.Context, tx pgx.Tx, title string) (int64, float64, error) {
	query, args, err := r.sql.firstByTitle(title)
	if err != nil {
		return 0, 0, err
	}
	var (
		id    int64
		price float64
	)
	err = tx.QueryRow(ctx, query, args...).Scan(&id, &price)
	return id, price, err
}

func (r *PostgresRepo) AvgPriceByGenre(ctx context.Context) ([]GenrePrice, error) {
	query, args, err := r.sql.avgPriceByGenre()
	if err != nil {
		return nil, err
	}

	timeoutCtx, cancel := r.withTimeout(ctx)
	defer cancel()
	rows, err := r.db.Query(timeoutCtx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []GenrePrice{}
	for rows.Next() {
		var gp GenrePrice
		if err := rows.Scan(&gp.Genre, &gp.AvgPrice); err != nil {
			return nil, err
		}
		out = append(out, gp)
	}
	return out, rows.Err()
}

func (r *PostgresRepo) AuthorWithMostBooks(ctx context.Context) (AuthorCount, error) {
	query, args, err := r.sql.authorWithMostBooks()
	if err != nil {
		return AuthorCount{}, err
	}

	timeoutCtx, cancel := r.withTimeout(ctx)
	defer cancel()
	var ac AuthorCount
	err = r.db.QueryRow(timeoutCtx, query, args...).Scan(&ac.Author, &ac.Count)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return AuthorCount{}, ErrNotFound
		}
		return AuthorCount{}, err
	}
	return ac, nil
}

func (r *PostgresRepo) CountByYearBucket(ctx context.Context, boundaries []int) ([]YearBucket, error) {
	timeoutCtx, cancel := r.withTimeout(ctx)
	defer cancel()
	rows, err := r.db.Query(timeoutCtx, yearBucketSQL, boundaries, len(boundaries)-1)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	buckets := newYearBuckets(boundaries)
	other := len(buckets) - 1
	for rows.Next() {
		var (
			slot   int
			count  int
			titles []string
		)
		if err := rows.Scan(&slot, &count, &titles); err != nil {
			return nil, err
		}
		idx := other
		if slot > 0 {
			idx = slot - 1
		}
		buckets[idx].Count = count
		buckets[idx].Titles = titles
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return compactBuckets(buckets), nil
}

func (r *PostgresRepo) CreateIndex(ctx context.Context, spec IndexSpec) (string, error) {
	stmt, err := createIndexSQL(spec)
	if err != nil {
		return "", err
	}

	timeoutCtx, cancel := r.withTimeout(ctx)
	defer cancel()
	if _, err := r.db.Exec(timeoutCtx, stmt); err != nil {
		return "", fmt.Errorf("create index %s: %w", spec.Name(), err)
	}
	return spec.Name(), nil
}

func (r *PostgresRepo) InsertMany(ctx context.Context, books []Book) ([]int64, error) {
	timeoutCtx, cancel := r.withTimeout(ctx)
	defer cancel()

	tx, err := r.db.Begin(timeoutCtx)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback(timeoutCtx)

	ids := make([]int64, 0, len(books))
	for _, b := range books {
		query, args, err := r.sql.insertBook(b)
		if err != nil {
			return nil, err
		}
		var id int64
		if err := tx.QueryRow(timeoutCtx, query, args...).Scan(&id); err != nil {
			return nil, fmt.Errorf("insert %q: %w", b.Title, err)
		}
		ids = append(ids, id)
	}
	return ids, tx.Commit(timeoutCtx)
}

func (r *PostgresRepo) Clear(ctx context.Context) (int64, error) {
	query, args, err := r.sql.deleteAll()
	if err != nil {
		return 0, err
	}

	timeoutCtx, cancel := r.withTimeout(ctx)
	defer cancel()
	tag, err := r.db.Exec(timeoutCtx, query, args...)
	if err != nil {
		return 0, err
	}
	return tag.RowsAffected(), nil
}
