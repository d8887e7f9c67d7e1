package utils

// MaxPageSize caps the limit a client may request
const MaxPageSize = 200

// PaginationParams holds pagination request parameters.
// A zero Limit means every row.
type PaginationParams struct {
	Page  int `form:"page"`
	Limit int `form:"limit"`
}

// PaginationMeta holds pagination response metadata
type PaginationMeta struct {
	Page       int   `json:"page"`
	Limit      int   `json:"limit"`
	TotalCount int64 `json:"totalCount"`
	TotalPages int   `json:"totalPages"`
}

// GetPaginationParams normalises raw query values: page starts at 1,
// a negative limit means no limit and limits above MaxPageSize are capped.
func GetPaginationParams(page, limit int) PaginationParams {
	p := PaginationParams{Page: page, Limit: limit}
	if p.Page < 1 {
		p.Page = 1
	}
	switch {
	case p.Limit < 0:
		p.Limit = 0
	case p.Limit > MaxPageSize:
		p.Limit = MaxPageSize
	}
	return p
}

// CalculateOffset returns the SQL offset
func (p PaginationParams) CalculateOffset() int {
	if p.Page < 1 || p.Limit <= 0 {
		return 0
	}
	return (p.Page - 1) * p.Limit
}

// CalculateMeta generates pagination metadata
func CalculateMeta(totalCount int64, page, limit int) PaginationMeta {
	if limit <= 0 {
		return PaginationMeta{Page: 1, Limit: int(totalCount), TotalCount: totalCount, TotalPages: 1}
	}
	pages := int((totalCount + int64(limit) - 1) / int64(limit))
	return PaginationMeta{Page: page, Limit: limit, TotalCount: totalCount, TotalPages: pages}
}
