package core

// DefaultPageSize is the number of records shown per page.
const DefaultPageSize = 10

// TotalPages returns ceil(n/pageSize), never less than 1.
func TotalPages(n, pageSize int) int {
	if pageSize <= 0 {
		pageSize = DefaultPageSize
	}
	pages := (n + pageSize - 1) / pageSize
	if pages < 1 {
		return 1
	}
	return pages
}

// ClampPage limits page to [1, totalPages].
func ClampPage(page, totalPages int) int {
	if totalPages < 1 {
		totalPages = 1
	}
	if page < 1 {
		return 1
	}
	if page > totalPages {
		return totalPages
	}
	return page
}

// Paginate returns the records of view shown on the given 1-based page.
// Pages outside the view yield an empty slice; callers clamp beforehand.
// The returned slice shares no memory with view.
func Paginate(view []Record, page, pageSize int) []Record {
	if pageSize <= 0 {
		pageSize = DefaultPageSize
	}
	if page < 1 {
		return []Record{}
	}
	start := (page - 1) * pageSize
	if start >= len(view) {
		return []Record{}
	}
	end := min(start+pageSize, len(view))
	out := make([]Record, end-start)
	copy(out, view[start:end])
	return out
}
