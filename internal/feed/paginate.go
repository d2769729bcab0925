package feed

const (
	// DefaultPageCount is used when the caller omits or mangles count.
	DefaultPageCount = 10
	// MaxPageCount bounds response size regardless of what was asked for.
	MaxPageCount = 100
)

// Page is one window into an aggregated ordering. NextStart is nil when
// the window reaches the end of the collection; the cursor is stateless
// and recomputed from the full ordering on every request.
type Page struct {
	Posts     []FeedPost
	Start     int
	Count     int
	NextStart *int
}

// Paginate slices the ordered collection. Malformed inputs are clamped,
// never rejected: start below zero becomes zero, count is forced into
// [1, MaxPageCount] with DefaultPageCount standing in for nonsense.
func Paginate(ordered []FeedPost, start, count int) Page {
	if start < 0 {
		start = 0
	}
	if count <= 0 {
		count = DefaultPageCount
	}
	if count > MaxPageCount {
		count = MaxPageCount
	}

	if start >= len(ordered) {
		return Page{Posts: []FeedPost{}, Start: start, Count: count}
	}

	end := start + count
	if end > len(ordered) {
		end = len(ordered)
	}

	page := Page{
		Posts: ordered[start:end],
		Start: start,
		Count: count,
	}

	// A partial page is the terminal page; only a window that stops short
	// of the collection end gets a cursor.
	if end < len(ordered) {
		next := end
		page.NextStart = &next
	}
	return page
}
