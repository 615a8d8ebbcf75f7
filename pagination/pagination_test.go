package pagination

import (
	"strconv"
	"testing"

	"github.com/stretchr/testify/assert"
)

func seq(n int) []int {
	out := make([]int, n)
	for i := range out {
		out[i] = i
	}
	return out
}

func TestLastPage(t *testing.T) {
	testCases := []struct {
		n, size, want int
	}{
		{0, 10, 0},
		{1, 10, 1},
		{10, 10, 1},
		{11, 10, 2},
		{25, 10, 3},
		{25, 1, 25},
		{7, 3, 3},
	}
	for _, tc := range testCases {
		assert.Equal(t, tc.want, LastPage(tc.n, tc.size), "n=%d size=%d", tc.n, tc.size)
	}
}

func TestParsePage(t *testing.T) {
	testCases := []struct {
		raw  string
		want int
	}{
		{"", 1},
		{"1", 1},
		{"3", 3},
		{"abc", 1},
		{"2a", 1},
		{"-5", 1},
		{"+2", 1},
		{" 2", 1},
		{"1.5", 1},
		{"0", 0},
		{"007", 7},
		{"999", 999},
		{"99999999999999999999999", 1},
	}
	for _, tc := range testCases {
		t.Run(tc.raw, func(t *testing.T) {
			assert.Equal(t, tc.want, ParsePage(tc.raw))
		})
	}
}

func TestPaginateScenarios(t *testing.T) {
	posts := seq(25)

	testCases := []struct {
		name      string
		posts     []int
		page      string
		wantPosts []int
		wantPrev  string
		wantNext  string
	}{
		{
			name:      "first page",
			posts:     posts,
			page:      "1",
			wantPosts: posts[0:10],
			wantPrev:  "#",
			wantNext:  "/?page=2",
		},
		{
			name:      "last partial page",
			posts:     posts,
			page:      "3",
			wantPosts: posts[20:25],
			wantPrev:  "/?page=2",
			wantNext:  "#",
		},
		{
			name:      "middle page",
			posts:     posts,
			page:      "2",
			wantPosts: posts[10:20],
			wantPrev:  "/?page=1",
			wantNext:  "/?page=3",
		},
		{
			name:      "empty listing",
			posts:     nil,
			page:      "",
			wantPosts: []int{},
			wantPrev:  "#",
			wantNext:  "/?page=2",
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			got := Paginate(tc.posts, tc.page, 10)
			assert.Equal(t, tc.wantPosts, got.Posts)
			assert.Equal(t, tc.wantPrev, got.Prev)
			assert.Equal(t, tc.wantNext, got.Next)
		})
	}
}

func TestPaginateSinglePageKeepsNextLink(t *testing.T) {
	got := Paginate(seq(4), "1", 10)

	assert.Equal(t, 1, got.LastPage)
	assert.Equal(t, seq(4), got.Posts)
	assert.Equal(t, "#", got.Prev)
	assert.Equal(t, "/?page=2", got.Next)
	assert.False(t, got.OutOfRange)
}

func TestPaginateInvalidInputBehavesLikePageOne(t *testing.T) {
	posts := seq(25)
	want := Paginate(posts, "1", 10)

	for _, raw := range []string{"", "abc", "-1", "1e3"} {
		assert.Equal(t, want, Paginate(posts, raw, 10), "raw=%q", raw)
	}
}

func TestPaginateOutOfRangeIsFlaggedNotClamped(t *testing.T) {
	posts := seq(25)

	zero := Paginate(posts, "0", 10)
	assert.Empty(t, zero.Posts)
	assert.Equal(t, 0, zero.Number)
	assert.True(t, zero.OutOfRange)
	assert.Equal(t, "/?page=-1", zero.Prev)
	assert.Equal(t, "/?page=1", zero.Next)

	past := Paginate(posts, "9", 10)
	assert.Empty(t, past.Posts)
	assert.True(t, past.OutOfRange)
	assert.Equal(t, "/?page=8", past.Prev)
	assert.Equal(t, "/?page=10", past.Next)

	huge := Paginate(posts, "9223372036854775807", 10)
	assert.Empty(t, huge.Posts)
	assert.True(t, huge.OutOfRange)
}

func TestPaginatePageSizes(t *testing.T) {
	for n := 0; n <= 23; n++ {
		for size := 1; size <= 6; size++ {
			posts := seq(n)
			last := LastPage(n, size)
			total := 0
			for page := 1; page <= last; page++ {
				got := Paginate(posts, strconv.Itoa(page), size)
				assert.LessOrEqual(t, len(got.Posts), size)
				if page < last {
					assert.Len(t, got.Posts, size)
				} else {
					assert.Len(t, got.Posts, n-(last-1)*size)
				}
				assert.False(t, got.OutOfRange)
				total += len(got.Posts)
			}
			assert.Equal(t, n, total, "n=%d size=%d", n, size)
		}
	}
}

func TestPaginateIsIdempotent(t *testing.T) {
	posts := seq(17)
	first := Paginate(posts, "2", 5)
	second := Paginate(posts, "2", 5)
	assert.Equal(t, first, second)
}

func TestPaginatorBasePath(t *testing.T) {
	p := New("/blog")
	got := Apply(p, seq(25), "2", 10)

	assert.Equal(t, "/blog?page=1", got.Prev)
	assert.Equal(t, "/blog?page=3", got.Next)
	assert.Equal(t, DefaultBasePath, New("").BasePath)
}
