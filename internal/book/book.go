package book

import (
	"errors"
	"fmt"
)

var (
	// ErrNotFound is returned when an operation that yields exactly one record finds none.
	ErrNotFound = errors.New("book not found")
	// ErrInvalidPage is returned for page numbers below 1.
	ErrInvalidPage = errors.New("page number must be at least 1")
	// ErrInvalidField is returned when a projection names an unknown field.
	ErrInvalidField = errors.New("unknown book field")
	// ErrInvalidDocument is returned when a document fails ingress validation.
	ErrInvalidDocument = errors.New("invalid book document")
)

// DefaultPageSize is the page size used when the caller does not pick one.
const DefaultPageSize = 5

// Book represents a document of the books collection.
type Book struct {
	ID            int64   `json:"id" db:"id"`
	Title         string  `json:"title" db:"title" validate:"required,max=512"`
	Author        string  `json:"author" db:"author" validate:"required,max=256"`
	Genre         string  `json:"genre" db:"genre" validate:"required,max=128"`
	PublishedYear int     `json:"published_year" db:"published_year"`
	Price         float64 `json:"price" db:"price" validate:"gte=0"`
	InStock       bool    `json:"in_stock" db:"in_stock"`
}

// Field names a book attribute. The set is closed.
type Field string

const (
	FieldTitle         Field = "title"
	FieldAuthor        Field = "author"
	FieldGenre         Field = "genre"
	FieldPublishedYear Field = "published_year"
	FieldPrice         Field = "price"
	FieldInStock       Field = "in_stock"
)

var knownFields = map[Field]bool{
	FieldTitle:         true,
	FieldAuthor:        true,
	FieldGenre:         true,
	FieldPublishedYear: true,
	FieldPrice:         true,
	FieldInStock:       true,
}

// DefaultProjection is the field set returned for in-stock listings.
var DefaultProjection = []Field{FieldTitle, FieldAuthor, FieldPrice}

// ParseField validates a field name.
func ParseField(s string) (Field, error) {
	f := Field(s)
	if !knownFields[f] {
		return "", fmt.Errorf("%w: %q", ErrInvalidField, s)
	}
	return f, nil
}

// Value returns the attribute named by f.
func (b Book) Value(f Field) any {
	switch f {
	case FieldTitle:
		return b.Title
	case FieldAuthor:
		return b.Author
	case FieldGenre:
		return b.Genre
	case FieldPublishedYear:
		return b.PublishedYear
	case FieldPrice:
		return b.Price
	case FieldInStock:
		return b.InStock
	}
	return nil
}

// Document is a projected book holding only the requested fields.
type Document map[string]any

// Direction is a sort direction.
type Direction int

const (
	Ascending  Direction = 1
	Descending Direction = -1
)

// ParseDirection accepts "asc"/"desc" as well as Mongo-style "1"/"-1".
// An empty string means ascending.
func ParseDirection(s string) (Direction, error) {
	switch s {
	case "", "asc", "ascending", "1":
		return Ascending, nil
	case "desc", "descending", "-1":
		return Descending, nil
	}
	return 0, fmt.Errorf("invalid sort direction %q", s)
}

func (d Direction) String() string {
	if d == Descending {
		return "desc"
	}
	return "asc"
}

// Query defines filters, ordering and pagination for listing books.
// Zero values mean "no constraint". Without SortBy, books come back in
// natural (insertion) order.
type Query struct {
	Genre          string
	Author         string
	Title          string
	PublishedAfter *int
	InStock        *bool
	SortBy         Field
	Direction      Direction
	Limit          int
	Offset         int
}

// UpdateResult reports the outcome of a first-match update.
type UpdateResult struct {
	Matched  int64 `json:"matched"`
	Modified int64 `json:"modified"`
}

// GenrePrice is one row of the average price per genre aggregation.
type GenrePrice struct {
	Genre    string  `json:"genre" db:"genre"`
	AvgPrice float64 `json:"avg_price" db:"avg_price"`
}

// AuthorCount is the author with the highest number of books.
type AuthorCount struct {
	Author string `json:"author" db:"author"`
	Count  int    `json:"count" db:"book_count"`
}

// OtherBucket labels books whose published year falls outside every boundary range.
const OtherBucket = "Other"

// YearBoundaries are the lower bounds of the publication year buckets; the
// last value is the exclusive upper bound of the final bucket.
var YearBoundaries = []int{1800, 1900, 1950, 2000, 2025}

// YearBucket groups books whose published year lies in [Lower, Upper).
// Lower and Upper are zero for the Other bucket.
type YearBucket struct {
	Label  string   `json:"label"`
	Lower  int      `json:"lower,omitempty"`
	Upper  int      `json:"upper,omitempty"`
	Count  int      `json:"count"`
	Titles []string `json:"titles"`
}

// IndexKey is one component of an index.
type IndexKey struct {
	Field     Field
	Direction Direction
}

// IndexSpec describes an index on the books collection.
type IndexSpec struct {
	Keys []IndexKey
}

// Name returns the conventional index name, e.g. "author_1_published_year_-1".
func (s IndexSpec) Name() string {
	name := ""
	for i, k := range s.Keys {
		if i > 0 {
			name += "_"
		}
		name += fmt.Sprintf("%s_%d", k.Field, int(k.Direction))
	}
	return name
}

var (
	// TitleIndex speeds up lookups by title.
	TitleIndex = IndexSpec{Keys: []IndexKey{{Field: FieldTitle, Direction: Ascending}}}
	// AuthorYearIndex serves author listings newest first.
	AuthorYearIndex = IndexSpec{Keys: []IndexKey{
		{Field: FieldAuthor, Direction: Ascending},
		{Field: FieldPublishedYear, Direction: Descending},
	}}
)
