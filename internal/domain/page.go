package domain

// PageResult is one page of a collection plus its pagination metadata.
// PageNumber is 1-indexed.
type PageResult[T any] struct {
	Items           []T  `json:"items"`
	PageNumber      int  `json:"pageNumber"`
	PageSize        int  `json:"pageSize"`
	TotalCount      int  `json:"totalCount"`
	TotalPages      int  `json:"totalPages"`
	HasPreviousPage bool `json:"hasPreviousPage"`
	HasNextPage     bool `json:"hasNextPage"`
}

// NewSinglePage wraps an unpaginated result as page 1 of 1.
func NewSinglePage[T any](items []T) PageResult[T] {
	if items == nil {
		items = []T{}
	}

	return PageResult[T]{
		Items:      items,
		PageNumber: 1,
		PageSize:   len(items),
		TotalCount: len(items),
		TotalPages: 1,
	}
}

// EmptyPage is the state before anything has been loaded.
func EmptyPage[T any](pageSize int) PageResult[T] {
	return PageResult[T]{
		Items:      []T{},
		PageNumber: 1,
		PageSize:   pageSize,
		TotalPages: 1,
	}
}

// Normalize fills in metadata the server may omit. TotalPages is derived from TotalCount
// when missing and is never below 1; everything else is kept as received.
func (p PageResult[T]) Normalize() PageResult[T] {
	if p.Items == nil {
		p.Items = []T{}
	}
	if p.PageNumber < 1 {
		p.PageNumber = 1
	}
	if p.TotalPages < 1 && p.PageSize > 0 {
		p.TotalPages = (p.TotalCount + p.PageSize - 1) / p.PageSize
	}
	if p.TotalPages < 1 {
		p.TotalPages = 1
	}

	return p
}

// Clone returns a copy whose Items slice is not shared.
func (p PageResult[T]) Clone() PageResult[T] {
	items := make([]T, len(p.Items))
	copy(items, p.Items)
	p.Items = items

	return p
}
