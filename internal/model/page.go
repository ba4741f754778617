package model

const (
	DefaultPageSize = 10
	MaxPageSize     = 100
)

// PageRequest is a 1-indexed page selector.
type PageRequest struct {
	Number int
	Size   int
}

// Normalize applies defaults and bounds.
func (p PageRequest) Normalize() PageRequest {
	if p.Number < 1 {
		p.Number = 1
	}
	if p.Size < 1 {
		p.Size = DefaultPageSize
	}
	if p.Size > MaxPageSize {
		p.Size = MaxPageSize
	}
	return p
}

// Offset returns the number of rows to skip.
func (p PageRequest) Offset() int {
	return (p.Number - 1) * p.Size
}

// Page is the envelope returned by list endpoints.
type Page[T any] struct {
	PageSize       int   `json:"pageSize"`
	PageNumber     int   `json:"pageNumber"`
	TotalRegisters int64 `json:"totalRegisters"`
	List           []T   `json:"list"`
}

// NewPage builds a Page from a normalized request.
func NewPage[T any](req PageRequest, total int64, items []T) Page[T] {
	if items == nil {
		items = []T{}
	}
	return Page[T]{
		PageSize:       req.Size,
		PageNumber:     req.Number,
		TotalRegisters: total,
		List:           items,
	}
}

// Sort orders a list by one column.
type Sort struct {
	Column string
	Desc   bool
}

// ListOptions combines paging and ordering for list queries.
type ListOptions struct {
	Page PageRequest
	Sort Sort
	// UserID, when set, limits the list to rows owned by that user.
	UserID uint
}
