package book

import (
	"fmt"
	"strings"

	"github.com/doug-martin/goqu/v9"
	_ "github.com/doug-martin/goqu/v9/dialect/postgres" // dialect registration
	_ "github.com/doug-martin/goqu/v9/dialect/sqlite3"  // dialect registration
	"github.com/doug-martin/goqu/v9/exp"
	"github.com/jackc/pgx/v5"
)

const (
	tableBooks       = "books"
	colID            = "id"
	colTitle         = "title"
	colAuthor        = "author"
	colGenre         = "genre"
	colPublishedYear = "published_year"
	colPrice         = "price"
	colInStock       = "in_stock"
	aliasAvgPrice    = "avg_price"
	aliasBookCount   = "book_count"
	dialectPostgres  = "postgres"
	dialectSQLite    = "sqlite3"
)

var bookColumns = []any{colID, colTitle, colAuthor, colGenre, colPublishedYear, colPrice, colInStock}

// sqlBuilder renders the statements shared by the SQL backends. Every
// statement is prepared so values travel as bind arguments.
type sqlBuilder struct {
	dialect  goqu.DialectWrapper
	lockRows bool
}

func newSQLBuilder(dialect string) sqlBuilder {
	return sqlBuilder{
		dialect:  goqu.Dialect(dialect),
		lockRows: dialect == dialectPostgres,
	}
}

func (b sqlBuilder) selectBooks(q Query, columns ...any) (string, []any, error) {
	if len(columns) == 0 {
		columns = bookColumns
	}
	ds := b.dialect.From(tableBooks).
		Prepared(true).
		Select(columns...).
		Where(filterExpressions(q)...).
		Order(orderExpressions(q)...)

	if q.Offset < 0 {
		return "", nil, fmt.Errorf("negative offset %d", q.Offset)
	}
	if q.Limit > 0 {
		ds = ds.Limit(uint(q.Limit))
		if q.Offset > 0 {
			ds = ds.Offset(uint(q.Offset))
		}
	} else if q.Offset > 0 {
		return "", nil, fmt.Errorf("offset %d without limit", q.Offset)
	}
	return ds.ToSQL()
}

func filterExpressions(q Query) []exp.Expression {
	var where []exp.Expression
	if q.Genre != "" {
		where = append(where, goqu.C(colGenre).Eq(q.Genre))
	}
	if q.Author != "" {
		where = append(where, goqu.C(colAuthor).Eq(q.Author))
	}
	if q.Title != "" {
		where = append(where, goqu.C(colTitle).Eq(q.Title))
	}
	if q.InStock != nil {
		where = append(where, goqu.C(colInStock).Eq(*q.InStock))
	}
	if q.PublishedAfter != nil {
		where = append(where, goqu.C(colPublishedYear).Gt(*q.PublishedAfter))
	}
	return where
}

// orderExpressions always ends with the id so that equal keys come back in a
// stable order and a descending sort mirrors the ascending one.
func orderExpressions(q Query) []exp.OrderedExpression {
	var order []exp.OrderedExpression
	if q.SortBy != "" {
		order = append(order, ordered(goqu.C(string(q.SortBy)), q.Direction))
	}
	return append(order, ordered(goqu.C(colID), q.Direction))
}

func ordered(col exp.IdentifierExpression, dir Direction) exp.OrderedExpression {
	if dir == Descending {
		return col.Desc()
	}
	return col.Asc()
}

func (b sqlBuilder) firstByTitle(title string) (string, []any, error) {
	ds := b.dialect.From(tableBooks).
		Prepared(true).
		Select(colID, colPrice).
		Where(goqu.C(colTitle).Eq(title)).
		Order(goqu.C(colID).Asc()).
		Limit(1)
	if b.lockRows {
		ds = ds.ForUpdate(exp.Wait)
	}
	return ds.ToSQL()
}

func (b sqlBuilder) updatePrice(id int64, price float64) (string, []any, error) {
	return b.dialect.Update(tableBooks).
		Prepared(true).
		Set(goqu.Record{colPrice: price}).
		Where(goqu.C(colID).Eq(id)).
		ToSQL()
}

func (b sqlBuilder) deleteByID(id int64) (string, []any, error) {
	return b.dialect.Delete(tableBooks).
		Prepared(true).
		Where(goqu.C(colID).Eq(id)).
		ToSQL()
}

func (b sqlBuilder) deleteAll() (string, []any, error) {
	return b.dialect.Delete(tableBooks).ToSQL()
}

func (b sqlBuilder) avgPriceByGenre() (string, []any, error) {
	return b.dialect.From(tableBooks).
		Prepared(true).
		Select(goqu.C(colGenre), goqu.AVG(colPrice).As(aliasAvgPrice)).
		GroupBy(colGenre).
		Order(goqu.C(colGenre).Asc()).
		ToSQL()
}

func (b sqlBuilder) authorWithMostBooks() (string, []any, error) {
	return b.dialect.From(tableBooks).
		Prepared(true).
		Select(goqu.C(colAuthor), goqu.COUNT(goqu.Star()).As(aliasBookCount)).
		GroupBy(colAuthor).
		Order(goqu.I(aliasBookCount).Desc(), goqu.C(colAuthor).Asc()).
		Limit(1).
		ToSQL()
}

func (b sqlBuilder) insertBook(bk Book) (string, []any, error) {
	ds := b.dialect.Insert(tableBooks).
		Prepared(true).
		Rows(goqu.Record{
			colTitle:         bk.Title,
			colAuthor:        bk.Author,
			colGenre:         bk.Genre,
			colPublishedYear: bk.PublishedYear,
			colPrice:         bk.Price,
			colInStock:       bk.InStock,
		})
	if b.lockRows {
		ds = ds.Returning(colID)
	}
	return ds.ToSQL()
}

// createIndexSQL renders an idempotent CREATE INDEX understood by both
// PostgreSQL and SQLite.
func createIndexSQL(spec IndexSpec) (string, error) {
	if len(spec.Keys) == 0 {
		return "", fmt.Errorf("index without keys")
	}
	cols := make([]string, 0, len(spec.Keys))
	for _, k := range spec.Keys {
		if !knownFields[k.Field] {
			return "", fmt.Errorf("%w: %q", ErrInvalidField, k.Field)
		}
		dir := "ASC"
		if k.Direction == Descending {
			dir = "DESC"
		}
		cols = append(cols, pgx.Identifier{string(k.Field)}.Sanitize()+" "+dir)
	}
	return fmt.Sprintf("CREATE INDEX IF NOT EXISTS %s ON %s (%s)",
		pgx.Identifier{spec.Name()}.Sanitize(),
		pgx.Identifier{tableBooks}.Sanitize(),
		strings.Join(cols, ", "),
	), nil
}

func projectionColumns(fields []Field) ([]any, error) {
	if len(fields) == 0 {
		return nil, fmt.Errorf("%w: empty projection", ErrInvalidField)
	}
	cols := make([]any, 0, len(fields))
	for _, f := range fields {
		if !knownFields[f] {
			return nil, fmt.Errorf("%w: %q", ErrInvalidField, f)
		}
		cols = append(cols, string(f))
	}
	return cols, nil
}

// normalizeValue turns driver-specific integer widths into int so projected
// documents look the same on every backend.
func normalizeValue(v any) any {
	switch n := v.(type) {
	case int32:
		return int(n)
	case int64:
		return int(n)
	case []byte:
		return string(n)
	}
	return v
}
