// Package pagination computes the visible slice of a post listing and the
// previous/next navigation links for a requested page.
package pagination

import (
	"fmt"
	"strconv"
)

// InertLink is the placeholder target used when there is no page in a direction.
const InertLink = "#"

// DefaultBasePath is the path the page links point at.
const DefaultBasePath = "/"

// Page is the result of paginating a listing.
type Page[T any] struct {
	Posts []T
	Prev  string
	Next  string

	// Number is the normalized page number the slice was computed for.
	Number   int
	LastPage int
	// OutOfRange reports a numeric page outside [1, LastPage]. The result is
	// computed as requested; callers decide whether to surface it.
	OutOfRange bool
}

// Paginator builds page links against BasePath.
type Paginator struct {
	BasePath string
}

// New returns a Paginator whose links point at basePath ("/" when empty).
func New(basePath string) Paginator {
	if basePath == "" {
		basePath = DefaultBasePath
	}
	return Paginator{BasePath: basePath}
}

// Paginate uses the default base path.
func Paginate[T any](posts []T, requestedPage string, pageSize int) Page[T] {
	return Apply(New(DefaultBasePath), posts, requestedPage, pageSize)
}

// Apply paginates posts with p's link settings. pageSize must be >= 1.
func Apply[T any](p Paginator, posts []T, requestedPage string, pageSize int) Page[T] {
	n := len(posts)
	last := LastPage(n, pageSize)
	page := ParsePage(requestedPage)

	out := Page[T]{
		Posts:      window(posts, page, pageSize, last),
		Number:     page,
		LastPage:   last,
		OutOfRange: page < 1 || page > last,
	}

	// page == 1 is checked first, so a single-page listing still gets a next link.
	switch {
	case page == 1:
		out.Prev = InertLink
		out.Next = p.link(page + 1)
	case page == last:
		out.Prev = p.link(page - 1)
		out.Next = InertLink
	default:
		out.Prev = p.link(page - 1)
		out.Next = p.link(page + 1)
	}
	return out
}

// LastPage returns ceil(n / pageSize), 0 for an empty listing.
func LastPage(n, pageSize int) int {
	if n <= 0 || pageSize <= 0 {
		return 0
	}
	return (n + pageSize - 1) / pageSize
}

// ParsePage normalizes a raw page parameter. Anything that is not a run of
// decimal digits (including "" and "-3") becomes 1. Numeric values are not
// clamped, so "0" and "999" come back as-is.
func ParsePage(raw string) int {
	if raw == "" {
		return 1
	}
	for i := 0; i < len(raw); i++ {
		if raw[i] < '0' || raw[i] > '9' {
			return 1
		}
	}
	page, err := strconv.Atoi(raw)
	if err != nil {
		// digits only, so this is an int overflow
		return 1
	}
	return page
}

func (p Paginator) link(page int) string {
	base := p.BasePath
	if base == "" {
		base = DefaultBasePath
	}
	return fmt.Sprintf("%s?page=%d", base, page)
}

// window slices posts[(page-1)*size : page*size] with bounds clamped to [0, n].
// Pages outside [1, last] are empty; checking first keeps the offset math
// from overflowing on huge page numbers.
func window[T any](posts []T, page, size, last int) []T {
	if page < 1 || page > last {
		return []T{}
	}
	n := len(posts)
	start := (page - 1) * size
	end := start + size
	start = clamp(start, 0, n)
	end = clamp(end, 0, n)
	if start >= end {
		return []T{}
	}
	return posts[start:end]
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
