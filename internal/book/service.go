package book

import (
	"context"
	"log/slog"
	"math"
	"time"

	"bookquery/internal/metrics"
)

// Service is the query façade over the books collection. Each method maps to
// exactly one repository call; repository errors are returned as they are.
type Service struct {
	repo     Repository
	logger   *slog.Logger
	pageSize int
}

// NewService creates a new book service. A pageSize of zero or less selects
// DefaultPageSize.
func NewService(repo Repository, logger *slog.Logger, pageSize int) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	if pageSize <= 0 {
		pageSize = DefaultPageSize
	}
	return &Service{repo: repo, logger: logger, pageSize: pageSize}
}

// PageSize returns the page size used when GetPage is called without one.
func (s *Service) PageSize() int {
	return s.pageSize
}

func (s *Service) observe(op string, start time.Time, err error, attrs ...any) {
	metrics.ObserveOperation(op, start, err)
	attrs = append(attrs, "operation", op, "duration_ms", time.Since(start).Milliseconds())
	if err != nil {
		s.logger.Error("book operation failed", append(attrs, "error", err)...)
		return
	}
	s.logger.Debug("book operation completed", attrs...)
}

func (s *Service) find(ctx context.Context, op string, q Query) ([]Book, error) {
	start := time.Now()
	books, err := s.repo.Find(ctx, q)
	s.observe(op, start, err, "results", len(books))
	return books, err
}

// FindByGenre returns the books whose genre equals genre.
func (s *Service) FindByGenre(ctx context.Context, genre string) ([]Book, error) {
	return s.find(ctx, "find_by_genre", Query{Genre: genre})
}

// FindPublishedAfter returns the books published strictly after year.
func (s *Service) FindPublishedAfter(ctx context.Context, year int) ([]Book, error) {
	return s.find(ctx, "find_published_after", Query{PublishedAfter: &year})
}

// FindByAuthor returns the books written by author.
func (s *Service) FindByAuthor(ctx context.Context, author string) ([]Book, error) {
	return s.find(ctx, "find_by_author", Query{Author: author})
}

// FindByTitle returns every book carrying title.
func (s *Service) FindByTitle(ctx context.Context, title string) ([]Book, error) {
	return s.find(ctx, "find_by_title", Query{Title: title})
}

// FindInStockAfterYear returns in-stock books published strictly after year.
func (s *Service) FindInStockAfterYear(ctx context.Context, year int) ([]Book, error) {
	inStock := true
	return s.find(ctx, "find_in_stock_after_year", Query{InStock: &inStock, PublishedAfter: &year})
}

// FindInStockProjected returns in-stock books carrying only the requested
// fields, without ids. No fields means DefaultProjection.
func (s *Service) FindInStockProjected(ctx context.Context, fields ...Field) ([]Document, error) {
	if len(fields) == 0 {
		fields = DefaultProjection
	}
	start := time.Now()
	inStock := true
	docs, err := s.repo.FindProjected(ctx, Query{InStock: &inStock}, fields)
	s.observe("find_in_stock_projected", start, err, "results", len(docs))
	return docs, err
}

// SortByPrice returns every book ordered by price.
func (s *Service) SortByPrice(ctx context.Context, dir Direction) ([]Book, error) {
	return s.find(ctx, "sort_by_price", Query{SortBy: FieldPrice, Direction: dir})
}

// GetPage returns page pageNumber (1-based) of the collection in natural
// order. Pages past the end are empty, including pages whose offset does
// not fit in an int.
func (s *Service) GetPage(ctx context.Context, pageNumber, pageSize int) ([]Book, error) {
	if pageNumber < 1 {
		return nil, ErrInvalidPage
	}
	if pageSize <= 0 {
		pageSize = s.pageSize
	}
	if pageNumber-1 > math.MaxInt/pageSize {
		s.logger.Debug("page offset out of range", "page", pageNumber, "page_size", pageSize)
		return []Book{}, nil
	}
	return s.find(ctx, "get_page", Query{Offset: (pageNumber - 1) * pageSize, Limit: pageSize})
}

// UpdatePrice sets the price of the first book titled title. No match is
// not an error; the result then reports zero matched documents.
func (s *Service) UpdatePrice(ctx context.Context, title string, newPrice float64) (UpdateResult, error) {
	start := time.Now()
	res, err := s.repo.UpdateOne(ctx, title, newPrice)
	s.observe("update_price", start, err, "title", title, "matched", res.Matched, "modified", res.Modified)
	return res, err
}

// DeleteByTitle removes the first book titled title and returns how many
// books were deleted (0 or 1).
func (s *Service) DeleteByTitle(ctx context.Context, title string) (int64, error) {
	start := time.Now()
	n, err := s.repo.DeleteOne(ctx, title)
	s.observe("delete_by_title", start, err, "title", title, "deleted", n)
	return n, err
}

// AvgPriceByGenre returns the mean price of each genre.
func (s *Service) AvgPriceByGenre(ctx context.Context) ([]GenrePrice, error) {
	start := time.Now()
	out, err := s.repo.AvgPriceByGenre(ctx)
	s.observe("avg_price_by_genre", start, err, "genres", len(out))
	return out, err
}

// AuthorWithMostBooks returns the most prolific author.
func (s *Service) AuthorWithMostBooks(ctx context.Context) (AuthorCount, error) {
	start := time.Now()
	out, err := s.repo.AuthorWithMostBooks(ctx)
	s.observe("author_with_most_books", start, err)
	return out, err
}

// CountByDecadeBucket groups books into the YearBoundaries ranges plus Other.
func (s *Service) CountByDecadeBucket(ctx context.Context) ([]YearBucket, error) {
	start := time.Now()
	out, err := s.repo.CountByYearBucket(ctx, YearBoundaries)
	s.observe("count_by_decade_bucket", start, err, "buckets", len(out))
	return out, err
}

// CreateTitleIndex asks the store for an index on title.
func (s *Service) CreateTitleIndex(ctx context.Context) (string, error) {
	return s.createIndex(ctx, TitleIndex)
}

// CreateAuthorYearIndex asks the store for an index on author ascending,
// published_year descending.
func (s *Service) CreateAuthorYearIndex(ctx context.Context) (string, error) {
	return s.createIndex(ctx, AuthorYearIndex)
}

func (s *Service) createIndex(ctx context.Context, spec IndexSpec) (string, error) {
	start := time.Now()
	name, err := s.repo.CreateIndex(ctx, spec)
	s.observe("create_index", start, err, "index", spec.Name())
	return name, err
}

// Seed validates and inserts books, returning the assigned ids.
func (s *Service) Seed(ctx context.Context, books []Book) ([]int64, error) {
	if err := ValidateBooks(books); err != nil {
		return nil, err
	}
	start := time.Now()
	ids, err := s.repo.InsertMany(ctx, books)
	s.observe("seed", start, err, "inserted", len(ids))
	return ids, err
}

// Reset deletes every book.
func (s *Service) Reset(ctx context.Context) (int64, error) {
	start := time.Now()
	n, err := s.repo.Clear(ctx)
	s.observe("reset", start, err, "deleted", n)
	return n, err
}
