package book

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSelectBooks_Postgres(t *testing.T) {
	b := newSQLBuilder(dialectPostgres)
	inStock := true
	year := 2010

	query, args, err := b.selectBooks(Query{InStock: &inStock, PublishedAfter: &year, SortBy: FieldPrice, Direction: Descending, Limit: 5, Offset: 10})
	require.NoError(t, err)

	assert.Contains(t, query, `FROM "books"`)
	assert.Contains(t, query, `"in_stock" IS TRUE`)
	assert.Contains(t, query, `"published_year" > $1`)
	assert.Contains(t, query, `ORDER BY "price" DESC, "id" DESC`)
	assert.Contains(t, query, `LIMIT $2 OFFSET $3`)
	assert.Equal(t, []any{int64(2010), int64(5), int64(10)}, args)
}

func TestSelectBooks_NaturalOrder(t *testing.T) {
	query, args, err := newSQLBuilder(dialectSQLite).selectBooks(Query{Genre: "Fiction"})
	require.NoError(t, err)

	assert.Contains(t, query, "`genre` = ?")
	assert.Contains(t, query, "ORDER BY `id` ASC")
	assert.NotContains(t, query, "LIMIT")
	assert.Equal(t, []any{"Fiction"}, args)
}

func TestSelectBooks_OffsetWithoutLimit(t *testing.T) {
	_, _, err := newSQLBuilder(dialectPostgres).selectBooks(Query{Offset: 5})
	assert.Error(t, err)
}

func TestSelectBooks_NegativeOffset(t *testing.T) {
	_, _, err := newSQLBuilder(dialectSQLite).selectBooks(Query{Offset: -10, Limit: 5})
	assert.Error(t, err)
}

func TestFirstByTitle_LocksOnPostgresOnly(t *testing.T) {
	pg, _, err := newSQLBuilder(dialectPostgres).firstByTitle("Moby Dick")
	require.NoError(t, err)
	assert.Contains(t, pg, "FOR UPDATE")
	assert.Contains(t, pg, `ORDER BY "id" ASC LIMIT $2`)

	lite, _, err := newSQLBuilder(dialectSQLite).firstByTitle("Moby Dick")
	require.NoError(t, err)
	assert.NotContains(t, lite, "FOR UPDATE")
}

func TestAggregateStatements(t *testing.T) {
	b := newSQLBuilder(dialectPostgres)

	avg, _, err := b.avgPriceByGenre()
	require.NoError(t, err)
	assert.Contains(t, avg, `AVG("price") AS "avg_price"`)
	assert.Contains(t, avg, `GROUP BY "genre"`)
	assert.Contains(t, avg, `ORDER BY "genre" ASC`)

	top, _, err := b.authorWithMostBooks()
	require.NoError(t, err)
	assert.Contains(t, top, `COUNT(*) AS "book_count"`)
	assert.Contains(t, top, `ORDER BY "book_count" DESC, "author" ASC`)
}

func TestInsertBook_ReturningOnPostgres(t *testing.T) {
	bk := Book{Title: "1984", Author: "George Orwell", Genre: "Dystopian", PublishedYear: 1949, Price: 8.99, InStock: true}

	pg, args, err := newSQLBuilder(dialectPostgres).insertBook(bk)
	require.NoError(t, err)
	assert.Contains(t, pg, `RETURNING "id"`)
	assert.Len(t, args, 6)

	lite, _, err := newSQLBuilder(dialectSQLite).insertBook(bk)
	require.NoError(t, err)
	assert.NotContains(t, lite, "RETURNING")
}

func TestCreateIndexSQL(t *testing.T) {
	stmt, err := createIndexSQL(AuthorYearIndex)
	require.NoError(t, err)
	assert.Equal(t,
		`CREATE INDEX IF NOT EXISTS "author_1_published_year_-1" ON "books" ("author" ASC, "published_year" DESC)`,
		stmt)

	_, err = createIndexSQL(IndexSpec{})
	assert.Error(t, err)

	_, err = createIndexSQL(IndexSpec{Keys: []IndexKey{{Field: "isbn", Direction: Ascending}}})
	assert.ErrorIs(t, err, ErrInvalidField)
}

func TestProjectionColumns(t *testing.T) {
	cols, err := projectionColumns(DefaultProjection)
	require.NoError(t, err)
	assert.Equal(t, []any{"title", "author", "price"}, cols)

	_, err = projectionColumns(nil)
	assert.ErrorIs(t, err, ErrInvalidField)
}

func TestNormalizeValue(t *testing.T) {
	assert.Equal(t, 1949, normalizeValue(int32(1949)))
	assert.Equal(t, 1949, normalizeValue(int64(1949)))
	assert.Equal(t, "x", normalizeValue([]byte("x")))
	assert.Equal(t, 8.99, normalizeValue(8.99))
}
