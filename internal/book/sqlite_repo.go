package book

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jmoiron/sqlx"
)

const sqliteSchema = `
CREATE TABLE IF NOT EXISTS books (
	id             INTEGER PRIMARY KEY AUTOINCREMENT,
	title          TEXT    NOT NULL,
	author         TEXT    NOT NULL,
	genre          TEXT    NOT NULL,
	published_year INTEGER NOT NULL,
	price          REAL    NOT NULL,
	in_stock       BOOLEAN NOT NULL DEFAULT 0
)`

// SQLiteRepo stores the collection in a SQLite database. SQLite has no
// width_bucket, so year bucketing streams the rows through BucketByYear.
type SQLiteRepo struct {
	db      *sqlx.DB
	timeout time.Duration
	sql     sqlBuilder
}

func NewSQLiteRepo(db *sqlx.DB, timeout time.Duration) *SQLiteRepo {
	return &SQLiteRepo{db: db, timeout: timeout, sql: newSQLBuilder(dialectSQLite)}
}

// EnsureSchema creates the books table when it does not exist yet, and
// rejects an existing table whose id is not an INTEGER PRIMARY KEY. Any
// other id column is not a rowid alias and is left NULL on insert.
func (r *SQLiteRepo) EnsureSchema(ctx context.Context) error {
	timeoutCtx, cancel := r.withTimeout(ctx)
	defer cancel()
	if _, err := r.db.ExecContext(timeoutCtx, sqliteSchema); err != nil {
		return fmt.Errorf("create books table: %w", err)
	}

	var idType string
	err := r.db.GetContext(timeoutCtx, &idType,
		`SELECT type FROM pragma_table_info('books') WHERE name = 'id' AND pk = 1`)
	if errors.Is(err, sql.ErrNoRows) {
		return errors.New("books table has no id primary key")
	}
	if err != nil {
		return fmt.Errorf("inspect books table: %w", err)
	}
	if !strings.EqualFold(idType, "INTEGER") {
		return fmt.Errorf("books.id is %s; it must be INTEGER PRIMARY KEY", idType)
	}
	return nil
}

func (r *SQLiteRepo) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(ctx, r.timeout)
}

func (r *SQLiteRepo) Find(ctx context.Context, q Query) ([]Book, error) {
	query, args, err := r.sql.selectBooks(q)
	if err != nil {
		return nil, err
	}

	timeoutCtx, cancel := r.withTimeout(ctx)
	defer cancel()
	out := []Book{}
	if err := r.db.SelectContext(timeoutCtx, &out, query, args...); err != nil {
		return nil, err
	}
	return out, nil
}

func (r *SQLiteRepo) FindProjected(ctx context.Context, q Query, fields []Field) ([]Document, error) {
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
	rows, err := r.db.QueryxContext(timeoutCtx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []Document{}
	for rows.Next() {
		row := make(map[string]any, len(fields))
		if err := rows.MapScan(row); err != nil {
			return nil, err
		}
		doc := make(Document, len(row))
		for k, v := range row {
			doc[k] = normalizeValue(v)
		}
		// SQLite reports booleans as integers unless the driver maps the declared type.
		if v, ok := doc[string(FieldInStock)].(int); ok {
			doc[string(FieldInStock)] = v != 0
		}
		out = append(out, doc)
	}
	return out, rows.Err()
}

func (r *SQLiteRepo) UpdateOne(ctx context.Context, title string, price float64) (UpdateResult, error) {
	timeoutCtx, cancel := r.withTimeout(ctx)
	defer cancel()

	tx, err := r.db.BeginTxx(timeoutCtx, nil)
	if err != nil {
		return UpdateResult{}, err
	}
	defer tx.Rollback()

	id, current, err := r.firstByTitle(timeoutCtx, tx, title)
	if errors.Is(err, sql.ErrNoRows) {
		return UpdateResult{}, nil
	}
	if err != nil {
		return UpdateResult{}, err
	}
	if current == price {
		return UpdateResult{Matched: 1}, tx.Commit()
	}

	query, args, err := r.sql.updatePrice(id, price)
	if err != nil {
		return UpdateResult{}, err
	}
	res, err := tx.ExecContext(timeoutCtx, query, args...)
	if err != nil {
		return UpdateResult{}, fmt.Errorf("update price: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return UpdateResult{}, err
	}
	return UpdateResult{Matched: 1, Modified: n}, tx.Commit()
}

func (r *SQLiteRepo) DeleteOne(ctx context.Context, title string) (int64, error) {
	timeoutCtx, cancel := r.withTimeout(ctx)
	defer cancel()

	tx, err := r.db.BeginTxx(timeoutCtx, nil)
	if err != nil {
		return 0, err
	}
	defer tx.Rollback()

	id, _, err := r.firstByTitle(timeoutCtx, tx, title)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, nil
	}
	if err != nil {
		return 0, err
	}

	query, args, err := r.sql.deleteByID(id)
	if err != nil {
		return 0, err
	}
	res, err := tx.ExecContext(timeoutCtx, query, args...)
	if err != nil {
		return 0, fmt.Errorf("delete book: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, err
	}
	return n, tx.Commit()
}

func (r *SQLiteRepo) firstByTitle(ctx context.Context, tx *sqlx.Tx, title string) (int64, float64, error) {
	query, args, err := r.sql.firstByTitle(title)
	if err != nil {
		return 0, 0, err
	}
	var (
		id    int64
		price float64
	)
	err = tx.QueryRowxContext(ctx, query, args...).Scan(&id, &price)
	return id, price, err
}

func (r *SQLiteRepo) AvgPriceByGenre(ctx context.Context) ([]GenrePrice, error) {
	query, args, err := r.sql.avgPriceByGenre()
	if err != nil {
		return nil, err
	}

	timeoutCtx, cancel := r.withTimeout(ctx)
	defer cancel()
	out := []GenrePrice{}
	if err := r.db.SelectContext(timeoutCtx, &out, query, args...); err != nil {
		return nil, err
	}
	return out, nil
}

func (r *SQLiteRepo) AuthorWithMostBooks(ctx context.Context) (AuthorCount, error) {
	query, args, err := r.sql.authorWithMostBooks()
	if err != nil {
		return AuthorCount{}, err
	}

	timeoutCtx, cancel := r.withTimeout(ctx)
	defer cancel()
	var ac AuthorCount
	if err := r.db.GetContext(timeoutCtx, &ac, query, args...); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return AuthorCount{}, ErrNotFound
		}
		return AuthorCount{}, err
	}
	return ac, nil
}

func (r *SQLiteRepo) CountByYearBucket(ctx context.Context, boundaries []int) ([]YearBucket, error) {
	books, err := r.Find(ctx, Query{})
	if err != nil {
		return nil, err
	}
	return BucketByYear(books, boundaries), nil
}

func (r *SQLiteRepo) CreateIndex(ctx context.Context, spec IndexSpec) (string, error) {
	stmt, err := createIndexSQL(spec)
	if err != nil {
		return "", err
	}

	timeoutCtx, cancel := r.withTimeout(ctx)
	defer cancel()
	if _, err := r.db.ExecContext(timeoutCtx, stmt); err != nil {
		return "", fmt.Errorf("create index %s: %w", spec.Name(), err)
	}
	return spec.Name(), nil
}

// Indexes lists the index names defined on the books table.
func (r *SQLiteRepo) Indexes(ctx context.Context) ([]string, error) {
	timeoutCtx, cancel := r.withTimeout(ctx)
	defer cancel()
	var names []string
	err := r.db.SelectContext(timeoutCtx, &names,
		`SELECT name FROM sqlite_master WHERE type = 'index' AND tbl_name = ? AND sql IS NOT NULL ORDER BY name`,
		tableBooks)
	return names, err
}

func (r *SQLiteRepo) InsertMany(ctx context.Context, books []Book) ([]int64, error) {
	timeoutCtx, cancel := r.withTimeout(ctx)
	defer cancel()

	tx, err := r.db.BeginTxx(timeoutCtx, nil)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()

	ids := make([]int64, 0, len(books))
	for _, b := range books {
		query, args, err := r.sql.insertBook(b)
		if err != nil {
			return nil, err
		}
		res, err := tx.ExecContext(timeoutCtx, query, args...)
		if err != nil {
			return nil, fmt.Errorf("insert %q: %w", b.Title, err)
		}
		id, err := res.LastInsertId()
		if err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, tx.Commit()
}

func (r *SQLiteRepo) Clear(ctx context.Context) (int64, error) {
	query, args, err := r.sql.deleteAll()
	if err != nil {
		return 0, err
	}

	timeoutCtx, cancel := r.withTimeout(ctx)
	defer cancel()
	res, err := r.db.ExecContext(timeoutCtx, query, args...)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}
