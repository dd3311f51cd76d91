package models

// Paginate returns the 1-based page of items and the total page count.
// Pages past the end are empty; page numbers below 1 are treated as 1.
func Paginate[T any](items []T, page, perPage int) ([]T, int) {
	if perPage <= 0 {
		perPage = len(items)
		if perPage == 0 {
			return []T{}, 0
		}
	}
	total := (len(items) + perPage - 1) / perPage
	if page < 1 {
		page = 1
	}
	start := (page - 1) * perPage
	if start >= len(items) {
		return []T{}, total
	}
	end := min(start+perPage, len(items))
	return items[start:end], total
}
