package repository

// PageQuery is the offset pagination request shared by the list
// endpoints.
type PageQuery struct {
	Page  int
	Limit int
}

// Normalize clamps the query to sane bounds. defaultLimit is used when
// the caller sent none.
func (q PageQuery) Normalize(defaultLimit int) PageQuery {
	if q.Page < 1 {
		q.Page = 1
	}
	if q.Limit < 1 {
		q.Limit = defaultLimit
	}
	if q.Limit > 100 {
		q.Limit = 100
	}
	return q
}

func (q PageQuery) Skip() int64 {
	return int64(q.Page-1) * int64(q.Limit)
}

// Page is the paginated response envelope.
type Page struct {
	Items      interface{} `json:"items"`
	Total      int64       `json:"total"`
	Page       int         `json:"page"`
	Limit      int         `json:"limit"`
	TotalPages int64       `json:"total_pages"`
}

func NewPage(items interface{}, total int64, q PageQuery) Page {
	pages := total / int64(q.Limit)
	if total%int64(q.Limit) != 0 {
		pages++
	}
	return Page{
		Items:      items,
		Total:      total,
		Page:       q.Page,
		Limit:      q.Limit,
		TotalPages: pages,
	}
}
