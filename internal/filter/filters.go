package filter

import "github.com/siahsang/yatube/internal/validator"

const MaxPageSize = 100

// Filter selects one page of an ordered listing. Pages are numbered from 1.
type Filter struct {
	Page     int64
	PageSize int64
}

type Metadata struct {
	CurrentPage  int64 `json:"current_page"`
	PageSize     int64 `json:"page_size"`
	FirstPage    int64 `json:"first_page"`
	LastPage     int64 `json:"last_page"`
	TotalRecords int64 `json:"total_records"`
	HasNext      bool  `json:"has_next"`
	HasPrevious  bool  `json:"has_previous"`
}

func NewFilter(page, pageSize int64) Filter {
	return Filter{
		Page:     page,
		PageSize: pageSize,
	}
}

func ValidateFilters(filters Filter, v *validator.Validator) {
	v.Check(filters.PageSize > 0, "page_size", "must be greater than 0")
	v.Check(filters.PageSize <= MaxPageSize, "page_size", "must be a maximum of 100")
	v.Check(filters.Page <= 10_000_000, "page", "must be a maximum of 10_000_000")
}

func (f Filter) Limit() int64 {
	return f.PageSize
}

func (f Filter) Offset() int64 {
	return (f.Page - 1) * f.PageSize
}

// LastPage is the number of pages needed for totalRecords. An empty
// listing still has one (empty) page.
func LastPage(totalRecords, pageSize int64) int64 {
	if totalRecords <= 0 || pageSize <= 0 {
		return 1
	}
	return (totalRecords + pageSize - 1) / pageSize
}

// Clamp moves the page into [1, LastPage] so that out-of-range requests
// resolve to the nearest existing page instead of failing.
func (f Filter) Clamp(totalRecords int64) Filter {
	last := LastPage(totalRecords, f.PageSize)
	switch {
	case f.Page < 1:
		f.Page = 1
	case f.Page > last:
		f.Page = last
	}
	return f
}

func CalculateMetadata(totalRecords int64, filters Filter) Metadata {
	last := LastPage(totalRecords, filters.PageSize)
	return Metadata{
		CurrentPage:  filters.Page,
		PageSize:     filters.PageSize,
		FirstPage:    1,
		LastPage:     last,
		TotalRecords: totalRecords,
		HasNext:      filters.Page < last,
		HasPrevious:  filters.Page > 1,
	}
}
