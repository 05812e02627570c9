package book

import (
	"cmp"
	"slices"
	"strconv"
)

// The functions in this file are the pipeline stages used by backends that
// cannot push an operation down to their engine. They never mutate their
// input.

// Match returns the books satisfying every filter of q, in input order.
func Match(books []Book, q Query) []Book {
	out := make([]Book, 0, len(books))
	for _, b := range books {
		if matches(b, q) {
			out = append(out, b)
		}
	}
	return out
}

func matches(b Book, q Query) bool {
	if q.Genre != "" && b.Genre != q.Genre {
		return false
	}
	if q.Author != "" && b.Author != q.Author {
		return false
	}
	if q.Title != "" && b.Title != q.Title {
		return false
	}
	if q.PublishedAfter != nil && b.PublishedYear <= *q.PublishedAfter {
		return false
	}
	if q.InStock != nil && b.InStock != *q.InStock {
		return false
	}
	return true
}

// Sort orders books by field, breaking ties by id. A descending sort is the
// exact reverse of the ascending one. An empty field sorts by id.
func Sort(books []Book, field Field, dir Direction) []Book {
	out := slices.Clone(books)
	slices.SortStableFunc(out, func(a, b Book) int {
		c := 0
		if field != "" {
			c = compareValues(a.Value(field), b.Value(field))
		}
		if c == 0 {
			c = cmp.Compare(a.ID, b.ID)
		}
		if dir == Descending {
			return -c
		}
		return c
	})
	return out
}

func compareValues(a, b any) int {
	switch av := a.(type) {
	case string:
		return cmp.Compare(av, b.(string))
	case int:
		return cmp.Compare(av, b.(int))
	case float64:
		return cmp.Compare(av, b.(float64))
	case bool:
		bv := b.(bool)
		switch {
		case av == bv:
			return 0
		case !av:
			return -1
		default:
			return 1
		}
	}
	return 0
}

// Paginate skips offset books and returns at most limit of the rest.
// A limit of zero or less means no limit. A negative offset selects nothing.
func Paginate(books []Book, offset, limit int) []Book {
	if offset < 0 || offset >= len(books) {
		return []Book{}
	}
	end := len(books)
	if limit > 0 && offset+limit < end {
		end = offset + limit
	}
	return slices.Clone(books[offset:end])
}

// Project keeps only the requested fields; the id is always dropped.
func Project(books []Book, fields []Field) []Document {
	out := make([]Document, 0, len(books))
	for _, b := range books {
		doc := make(Document, len(fields))
		for _, f := range fields {
			doc[string(f)] = b.Value(f)
		}
		out = append(out, doc)
	}
	return out
}

// GroupAvgPrice computes the mean price per distinct genre, ordered by genre.
func GroupAvgPrice(books []Book) []GenrePrice {
	type acc struct {
		sum float64
		n   int
	}
	groups := make(map[string]*acc)
	for _, b := range books {
		a, ok := groups[b.Genre]
		if !ok {
			a = &acc{}
			groups[b.Genre] = a
		}
		a.sum += b.Price
		a.n++
	}

	out := make([]GenrePrice, 0, len(groups))
	for genre, a := range groups {
		out = append(out, GenrePrice{Genre: genre, AvgPrice: a.sum / float64(a.n)})
	}
	slices.SortFunc(out, func(x, y GenrePrice) int { return cmp.Compare(x.Genre, y.Genre) })
	return out
}

// TopAuthor returns the author with the most books. Ties go to the author
// whose name sorts first. ok is false for an empty input.
func TopAuthor(books []Book) (top AuthorCount, ok bool) {
	counts := make(map[string]int)
	for _, b := range books {
		counts[b.Author]++
	}
	for author, n := range counts {
		if !ok || n > top.Count || (n == top.Count && author < top.Author) {
			top = AuthorCount{Author: author, Count: n}
			ok = true
		}
	}
	return top, ok
}

// BucketByYear partitions books into [boundaries[i], boundaries[i+1]) ranges
// plus an Other bucket for years outside all of them. Empty buckets are
// omitted, Other comes last and titles keep input order.
func BucketByYear(books []Book, boundaries []int) []YearBucket {
	buckets := newYearBuckets(boundaries)
	for _, b := range books {
		buckets[bucketSlot(b.PublishedYear, boundaries)].add(b.Title)
	}
	return compactBuckets(buckets)
}

// newYearBuckets allocates one bucket per boundary range plus a trailing Other bucket.
func newYearBuckets(boundaries []int) []YearBucket {
	n := len(boundaries) - 1
	if n < 0 {
		n = 0
	}
	buckets := make([]YearBucket, n+1)
	for i := 0; i < n; i++ {
		buckets[i] = YearBucket{
			Label: strconv.Itoa(boundaries[i]),
			Lower: boundaries[i],
			Upper: boundaries[i+1],
		}
	}
	buckets[n] = YearBucket{Label: OtherBucket}
	return buckets
}

// bucketSlot returns the index of the range holding year, or
// len(boundaries)-1 (the Other slot) when none does.
func bucketSlot(year int, boundaries []int) int {
	for i := 0; i+1 < len(boundaries); i++ {
		if year >= boundaries[i] && year < boundaries[i+1] {
			return i
		}
	}
	if len(boundaries) == 0 {
		return 0
	}
	return len(boundaries) - 1
}

func (yb *YearBucket) add(title string) {
	yb.Count++
	yb.Titles = append(yb.Titles, title)
}

func compactBuckets(buckets []YearBucket) []YearBucket {
	out := make([]YearBucket, 0, len(buckets))
	for _, yb := range buckets {
		if yb.Count > 0 {
			out = append(out, yb)
		}
	}
	return out
}
