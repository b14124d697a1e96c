package domain

const (
	// DefaultPageSize is used when a caller does not specify a limit.
	DefaultPageSize = 20
	// MaxPageSize caps list queries.
	MaxPageSize = 100
)

// ValidatePagination clamps limit and offset to sane bounds.
func ValidatePagination(limit, offset int) (int, int) {
	if limit <= 0 {
		limit = DefaultPageSize
	}
	if limit > MaxPageSize {
		limit = MaxPageSize
	}
	if offset < 0 {
		offset = 0
	}
	return limit, offset
}
