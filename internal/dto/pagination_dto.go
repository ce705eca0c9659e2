package dto

// Pagination is bound from the query string of list endpoints.
type Pagination struct {
	Limit  int `form:"limit,default=10"  validate:"min=1,max=100"`
	Offset int `form:"offset,default=0"  validate:"min=0"`
}

// Normalize clamps the pagination window to sane bounds and returns it.
func (p Pagination) Normalize() (limit, offset int) {
	limit, offset = p.Limit, p.Offset
	if limit < 1 {
		limit = 10
	}
	if limit > 100 {
		limit = 100
	}
	if offset < 0 {
		offset = 0
	}
	return limit, offset
}
