package page

import "math"

// Page is the paged listing envelope returned by list endpoints.
type Page[T any] struct {
	Content          []T   `json:"content"`
	Number           int   `json:"number"`
	Size             int   `json:"size"`
	TotalElements    int64 `json:"totalElements"`
	TotalPages       int   `json:"totalPages"`
	NumberOfElements int   `json:"numberOfElements"`
	First            bool  `json:"first"`
	Last             bool  `json:"last"`
	Empty            bool  `json:"empty"`
}

// New builds a page from a slice of content and the total number of matching rows.
// number is 0-based; size must be positive.
func New[T any](content []T, number, size int, total int64) Page[T] {
	if content == nil {
		content = []T{}
	}

	totalPages := 0
	if size > 0 {
		totalPages = int((total + int64(size) - 1) / int64(size))
	}

	return Page[T]{
		Content:          content,
		Number:           number,
		Size:             size,
		TotalElements:    total,
		TotalPages:       totalPages,
		NumberOfElements: len(content),
		First:            number == 0,
		Last:             number >= totalPages-1,
		Empty:            len(content) == 0,
	}
}

// InRange reports whether the first row of page number can be addressed as an int.
func InRange(number, size int) bool {
	if number < 0 || size <= 0 {
		return false
	}
	return number <= math.MaxInt/size
}

// Offset returns the row offset for a 0-based page number. It saturates at
// math.MaxInt instead of overflowing.
func Offset(number, size int) int {
	if number < 0 || size <= 0 {
		return 0
	}
	if !InRange(number, size) {
		return math.MaxInt
	}
	return number * size
}
