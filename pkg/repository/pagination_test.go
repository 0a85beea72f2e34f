package repository

import "testing"

func TestPageQueryNormalize(t *testing.T) {
	tests := []struct {
		name      string
		in        PageQuery
		def       int
		wantPage  int
		wantLimit int
	}{
		{"zero values", PageQuery{}, 20, 1, 20},
		{"negative page", PageQuery{Page: -3, Limit: 10}, 20, 1, 10},
		{"limit capped", PageQuery{Page: 2, Limit: 500}, 20, 2, 100},
		{"passthrough", PageQuery{Page: 4, Limit: 25}, 20, 4, 25},
		{"custom default", PageQuery{}, 10, 1, 10},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := tt.in.Normalize(tt.def)
			if got.Page != tt.wantPage || got.Limit != tt.wantLimit {
				t.Errorf("Normalize(%d) = %+v, want page %d limit %d", tt.def, got, tt.wantPage, tt.wantLimit)
			}
		})
	}
}

func TestPageQuerySkip(t *testing.T) {
	q := PageQuery{Page: 3, Limit: 25}
	if got := q.Skip(); got != 50 {
		t.Errorf("Skip() = %d, want 50", got)
	}
}

func TestNewPage(t *testing.T) {
	q := PageQuery{Page: 2, Limit: 10}

	page := NewPage([]int{1, 2, 3}, 25, q)
	if page.TotalPages != 3 {
		t.Errorf("TotalPages = %d, want 3", page.TotalPages)
	}
	if page.Page != 2 || page.Limit != 10 || page.Total != 25 {
		t.Errorf("page = %+v", page)
	}

	exact := NewPage(nil, 30, q)
	if exact.TotalPages != 3 {
		t.Errorf("TotalPages = %d, want 3 for an exact multiple", exact.TotalPages)
	}
}
