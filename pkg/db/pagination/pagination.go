package pagination

import "math"

// Pagination is the page/limit pair accepted on list endpoints.
type Pagination struct {
	Page  int `form:"page"`
	Limit int `form:"limit"`
}

type PageInfo struct {
	Page       int   `json:"page"`
	Limit      int   `json:"limit"`
	Total      int64 `json:"total"`
	TotalPages int   `json:"total_pages"`
}

// MaxOffset bounds (page-1)*limit so offsets stay representable in every
// dialect's OFFSET clause.
const MaxOffset = math.MaxInt32

// Normalize clamps page to >= 1 and limit to 1..maxLimit, substituting
// defaultLimit when no limit was supplied. Page is capped so Offset never
// exceeds MaxOffset.
func (p Pagination) Normalize(defaultLimit, maxLimit int) Pagination {
	if p.Page < 1 {
		p.Page = 1
	}
	if p.Limit == 0 {
		p.Limit = defaultLimit
	}
	if p.Limit < 1 {
		p.Limit = 1
	}
	if maxLimit > 0 && p.Limit > maxLimit {
		p.Limit = maxLimit
	}
	if maxPage := MaxOffset/p.Limit + 1; p.Page > maxPage {
		p.Page = maxPage
	}
	return p
}

func (p Pagination) Offset() int {
	if p.Page < 1 || p.Limit < 1 {
		return 0
	}
	if p.Page-1 > MaxOffset/p.Limit {
		return MaxOffset
	}
	return (p.Page - 1) * p.Limit
}

func BuildPageInfo(p Pagination, total int64) *PageInfo {
	info := &PageInfo{
		Page:  p.Page,
		Limit: p.Limit,
		Total: total,
	}
	if p.Limit > 0 {
		info.TotalPages = int(math.Ceil(float64(total) / float64(p.Limit)))
	}
	return info
}
