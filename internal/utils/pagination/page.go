package pagination

import (
	"math"

	"github.com/weqtian/user_center/internal/apperrors"
	"github.com/weqtian/user_center/internal/core/domain"
)

const (
	DefaultPageSize = 10
	MaxPageSize     = 100
)

// Page is a validated page request.
type Page struct {
	Number int
	Size   int
	Order  domain.SortOrder
}

// NewPage validates raw page parameters. A page below 1 is clamped to 1.
// page_size must lie in [1, MaxPageSize] and sort_by must be 0 or 1.
func NewPage(number, size, sortBy int) (Page, error) {
	if number < 1 {
		number = 1
	}
	if size < 1 || size > MaxPageSize {
		return Page{}, apperrors.Validation(apperrors.CodePageSizeError, "").WithDetail("page_size", size)
	}
	order := domain.SortOrder(sortBy)
	if !order.Valid() {
		return Page{}, apperrors.Validation(apperrors.CodeSortByError, "").WithDetail("sort_by", sortBy)
	}
	return Page{Number: number, Size: size, Order: order}, nil
}

// Offset is the number of records to skip. It saturates instead of
// overflowing, so an absurdly large page still yields an empty result.
func (p Page) Offset() int {
	if p.Size <= 0 || p.Number <= 1 {
		return 0
	}
	if p.Number-1 > (math.MaxInt-p.Size)/p.Size {
		return math.MaxInt - p.Size
	}
	return (p.Number - 1) * p.Size
}

// Limit is the maximum number of records to return.
func (p Page) Limit() int {
	return p.Size
}
