package service

// PageSize is fixed; visitors cannot change it.
const PageSize = 100

// TotalPages is ceil(totalCount / pageSize).
func TotalPages(totalCount, pageSize int) int {
	if totalCount <= 0 || pageSize <= 0 {
		return 0
	}
	return (totalCount + pageSize - 1) / pageSize
}
