package result

// PerPage is the number of results on one page.
const PerPage = 10

// Page returns the 1-based page of results. Out-of-range pages are empty.
func Page(results []Result, page int) []Result {
	if page < 1 {
		return []Result{}
	}
	start := (page - 1) * PerPage
	if start >= len(results) {
		return []Result{}
	}
	end := min(start+PerPage, len(results))
	return results[start:end]
}

// PageCount returns how many pages n results fill.
func PageCount(n int) int {
	return (n + PerPage - 1) / PerPage
}
