package book

import (
	"context"
)

//go:generate mockgen -source=ports.go -destination=mock_repository.go -package=book

// Repository defines the contract for the books collection.
//
// UpdateOne and DeleteOne act on the first matching book only, where first
// means lowest id. A miss is not an error.
type Repository interface {
	Find(ctx context.Context, q Query) ([]Book, error)
	FindProjected(ctx context.Context, q Query, fields []Field) ([]Document, error)
	UpdateOne(ctx context.Context, title string, price float64) (UpdateResult, error)
	DeleteOne(ctx context.Context, title string) (int64, error)
	AvgPriceByGenre(ctx context.Context) ([]GenrePrice, error)
	AuthorWithMostBooks(ctx context.Context) (AuthorCount, error)
	CountByYearBucket(ctx context.Context, boundaries []int) ([]YearBucket, error)
	CreateIndex(ctx context.Context, spec IndexSpec) (string, error)
	InsertMany(ctx context.Context, books []Book) ([]int64, error)
	Clear(ctx context.Context) (int64, error)
}
