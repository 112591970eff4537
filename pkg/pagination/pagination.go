package pagination

const (
	// DefaultPageSize is the standard page size when one is not provided.
	DefaultPageSize = 20
	// MaxPageSize caps how many hits any query can request per page.
	MaxPageSize = 100
)

// Window describes where a page sits inside a result set.
type Window struct {
	Page       int  `json:"page"`
	PageSize   int  `json:"page_size"`
	TotalHits  int  `json:"total_hits"`
	TotalPages int  `json:"total_pages"`
	IsFirst    bool `json:"is_first"`
	IsLast     bool `json:"is_last"`
}

// ClampPageSize enforces the configured maximum page size. Non-positive
// sizes are not defaulted here: callers reject them as invalid input.
func ClampPageSize(size, max int) int {
	if max <= 0 {
		max = MaxPageSize
	}
	if size > max {
		return max
	}
	return size
}

// PageCount returns how many pages a result set spans. An empty result set
// has zero pages.
func PageCount(totalHits, pageSize int) int {
	if totalHits <= 0 || pageSize <= 0 {
		return 0
	}
	return (totalHits + pageSize - 1) / pageSize
}

// NewWindow builds the pagination metadata for a zero-based page. Pages at
// or beyond the page count are still described so callers can report correct
// totals alongside an empty hit list.
func NewWindow(page, pageSize, totalHits int) Window {
	totalPages := PageCount(totalHits, pageSize)
	return Window{
		Page:       page,
		PageSize:   pageSize,
		TotalHits:  totalHits,
		TotalPages: totalPages,
		IsFirst:    page == 0,
		IsLast:     totalPages == 0 || page >= totalPages-1,
	}
}

// Bounds returns the half-open hit range [start, end) for a zero-based page.
// Pages beyond the last yield an empty range.
func Bounds(page, pageSize, totalHits int) (int, int) {
	if page < 0 || pageSize <= 0 {
		return 0, 0
	}
	start := page * pageSize
	if start >= totalHits {
		return 0, 0
	}
	end := start + pageSize
	if end > totalHits {
		end = totalHits
	}
	return start, end
}
