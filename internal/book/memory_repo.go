package book

import (
	"context"
	"sync"
)

// MemoryRepo keeps the collection in process. Every aggregation runs through
// the pipeline stages in aggregate.go.
type MemoryRepo struct {
	mu      sync.RWMutex
	books   []Book
	nextID  int64
	indexes map[string]IndexSpec
}

// NewMemoryRepo constructs a MemoryRepo seeded with the provided books.
// Books without an id are assigned one in order.
func NewMemoryRepo(seed []Book) *MemoryRepo {
	r := &MemoryRepo{
		books:   make([]Book, 0, len(seed)),
		nextID:  1,
		indexes: make(map[string]IndexSpec),
	}
	for _, b := range seed {
		if b.ID >= r.nextID {
			r.nextID = b.ID + 1
		}
	}
	for _, b := range seed {
		if b.ID == 0 {
			b.ID = r.nextID
			r.nextID++
		}
		r.books = append(r.books, b)
	}
	r.books = Sort(r.books, "", Ascending)
	return r
}

func (r *MemoryRepo) Find(_ context.Context, q Query) ([]Book, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := Match(r.books, q)
	if q.SortBy != "" || q.Direction == Descending {
		out = Sort(out, q.SortBy, q.Direction)
	}
	return Paginate(out, q.Offset, q.Limit), nil
}

func (r *MemoryRepo) FindProjected(ctx context.Context, q Query, fields []Field) ([]Document, error) {
	if _, err := projectionColumns(fields); err != nil {
		return nil, err
	}
	books, err := r.Find(ctx, q)
	if err != nil {
		return nil, err
	}
	return Project(books, fields), nil
}

func (r *MemoryRepo) UpdateOne(_ context.Context, title string, price float64) (UpdateResult, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for i := range r.books {
		if r.books[i].Title != title {
			continue
		}
		if r.books[i].Price == price {
			return UpdateResult{Matched: 1}, nil
		}
		r.books[i].Price = price
		return UpdateResult{Matched: 1, Modified: 1}, nil
	}
	return UpdateResult{}, nil
}

func (r *MemoryRepo) DeleteOne(_ context.Context, title string) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for i := range r.books {
		if r.books[i].Title == title {
			r.books = append(r.books[:i], r.books[i+1:]...)
			return 1, nil
		}
	}
	return 0, nil
}

func (r *MemoryRepo) AvgPriceByGenre(_ context.Context) ([]GenrePrice, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return GroupAvgPrice(r.books), nil
}

func (r *MemoryRepo) AuthorWithMostBooks(_ context.Context) (AuthorCount, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	top, ok := TopAuthor(r.books)
	if !ok {
		return AuthorCount{}, ErrNotFound
	}
	return top, nil
}

func (r *MemoryRepo) CountByYearBucket(_ context.Context, boundaries []int) ([]YearBucket, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return BucketByYear(r.books, boundaries), nil
}

// CreateIndex only records the index; lookups are linear either way.
func (r *MemoryRepo) CreateIndex(_ context.Context, spec IndexSpec) (string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	name := spec.Name()
	r.indexes[name] = spec
	return name, nil
}

// Indexes lists the names of the recorded indexes.
func (r *MemoryRepo) Indexes() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	names := make([]string, 0, len(r.indexes))
	for name := range r.indexes {
		names = append(names, name)
	}
	return names
}

func (r *MemoryRepo) InsertMany(_ context.Context, books []Book) ([]int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	ids := make([]int64, 0, len(books))
	for _, b := range books {
		b.ID = r.nextID
		r.nextID++
		r.books = append(r.books, b)
		ids = append(ids, b.ID)
	}
	return ids, nil
}

func (r *MemoryRepo) Clear(_ context.Context) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	n := int64(len(r.books))
	r.books = r.books[:0]
	return n, nil
}
