package models

import "math"

// Default and maximum pagination values.
const (
	DefaultPage  = 1
	DefaultLimit = 9
	MaxLimit     = 100
	// MaxOffset is the largest OFFSET ever sent to the database.
	MaxOffset = math.MaxInt32
)

// Page is a coerced pagination request. Page is 1-based.
type Page struct {
	Page  int
	Limit int
}

// MaxPage is the last page whose offset stays within MaxOffset.
func MaxPage(limit int) int {
	if limit <= 0 {
		return DefaultPage
	}
	return MaxOffset/limit + 1
}

// Offset returns the number of rows to skip, never negative and never
// above MaxOffset.
func (p Page) Offset() int {
	if p.Page <= 1 || p.Limit <= 0 {
		return 0
	}
	if p.Page > MaxPage(p.Limit) {
		return (MaxPage(p.Limit) - 1) * p.Limit
	}
	return (p.Page - 1) * p.Limit
}
