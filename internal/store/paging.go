package store

// totalPages is ceil(total / perPage); zero items means zero pages.
func totalPages(total, perPage int) int {
	if perPage <= 0 {
		return 0
	}
	return (total + perPage - 1) / perPage
}

// pageBounds returns the half-open index range for a page over total
// items. The page is clamped to [1, max(totalPages, 1)] so a stale page
// selection can never slice out of range.
func pageBounds(total, page, perPage int) (int, int) {
	pages := totalPages(total, perPage)
	if pages == 0 {
		return 0, 0
	}
	if page < 1 {
		page = 1
	}
	if page > pages {
		page = pages
	}
	start := (page - 1) * perPage
	end := start + perPage
	if end > total {
		end = total
	}
	return start, end
}
