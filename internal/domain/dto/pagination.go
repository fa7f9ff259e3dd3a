package dto

// Pagination describes one page of an offset-based listing. Window holds
// the page buttons the listing should render.
type Pagination struct {
	Total      int   `json:"total"`
	Page       int   `json:"page"`
	Limit      int   `json:"limit"`
	TotalPages int   `json:"totalPages"`
	Window     []int `json:"window"`
}

// NewPagination computes page metadata. The requested page is clamped
// into [1, totalPages]; totalPages is at least 1 so an empty listing
// still renders page 1 of 1.
func NewPagination(total, page, limit int) Pagination {
	if limit < 1 {
		limit = 10
	}
	totalPages := (total + limit - 1) / limit
	if totalPages < 1 {
		totalPages = 1
	}
	page = ClampPage(page, totalPages)
	return Pagination{
		Total:      total,
		Page:       page,
		Limit:      limit,
		TotalPages: totalPages,
		Window:     PageWindow(page, totalPages),
	}
}

// ClampPage forces a requested page number into [1, totalPages].
func ClampPage(page, totalPages int) int {
	if page < 1 {
		return 1
	}
	if page > totalPages {
		return totalPages
	}
	return page
}

// Offset returns the storage offset for the clamped page.
func (p Pagination) Offset() int {
	return (p.Page - 1) * p.Limit
}

// PageWindow returns the page buttons to render: a sliding window of at
// most five numbers centered on the current page, pinned to the first or
// last five near the edges.
func PageWindow(current, totalPages int) []int {
	const size = 5

	current = ClampPage(current, totalPages)
	if totalPages <= size {
		window := make([]int, 0, totalPages)
		for i := 1; i <= totalPages; i++ {
			window = append(window, i)
		}
		return window
	}

	start := current - size/2
	if start < 1 {
		start = 1
	}
	if start > totalPages-size+1 {
		start = totalPages - size + 1
	}

	window := make([]int, 0, size)
	for i := start; i < start+size; i++ {
		window = append(window, i)
	}
	return window
}
