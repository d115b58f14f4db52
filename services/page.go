package services

// PageResponse is the envelope every listing endpoint returns. Page numbers
// are 0-based.
type PageResponse[T any] struct {
	Content          []T   `json:"content"`
	PageNumber       int   `json:"pageNumber"`
	PageSize         int   `json:"pageSize"`
	TotalElements    int64 `json:"totalElements"`
	TotalPages       int   `json:"totalPages"`
	NumberOfElements int   `json:"numberOfElements"`
	IsLast           bool  `json:"isLast"`
}

// NewPageResponse assembles the envelope from one page of content and the
// total row count reported by the repository.
func NewPageResponse[T any](content []T, page, size int, total int64) PageResponse[T] {
	totalPages := 0
	if size > 0 {
		totalPages = int((total + int64(size) - 1) / int64(size))
	}
	return PageResponse[T]{
		Content:          content,
		PageNumber:       page,
		PageSize:         size,
		TotalElements:    total,
		TotalPages:       totalPages,
		NumberOfElements: len(content),
		IsLast:           page >= totalPages-1,
	}
}
