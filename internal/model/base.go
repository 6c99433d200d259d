package model

// ListParams represents offset/limit pagination parameters
type ListParams struct {
	Skip  *int `form:"skip" binding:"omitnil,gte=0"`
	Limit *int `form:"limit" binding:"omitnil,gte=1"`
}

// Resolve applies defaults and caps the limit at max when max is positive.
func (p ListParams) Resolve(defaultLimit, max int) (skip, limit int) {
	limit = defaultLimit
	if p.Skip != nil {
		skip = *p.Skip
	}
	if p.Limit != nil {
		limit = *p.Limit
	}
	if max > 0 && limit > max {
		limit = max
	}
	return skip, limit
}
