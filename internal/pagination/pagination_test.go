package pagination

import "testing"

func TestParse(t *testing.T) {
	tests := []struct {
		name       string
		page, lim  string
		wantPage   int
		wantLimit  int
		wantOffset int
	}{
		{"defaults", "", "", 1, 10, 0},
		{"explicit", "3", "25", 3, 25, 50},
		{"garbage", "abc", "xyz", 1, 10, 0},
		{"zero page", "0", "10", 1, 10, 0},
		{"negative", "-2", "-5", 1, 10, 0},
		{"limit capped", "1", "500", 1, 100, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := Parse(tt.page, tt.lim)
			if p.Page != tt.wantPage || p.Limit != tt.wantLimit || p.Offset() != tt.wantOffset {
				t.Errorf("got page=%d limit=%d offset=%d", p.Page, p.Limit, p.Offset())
			}
		})
	}
}

func TestNewPageNeverNil(t *testing.T) {
	page := NewPage[string](nil, 0, Parse("", ""))
	if page.Data == nil {
		t.Error("Data should be an empty slice, not nil")
	}
	if page.TotalCount != 0 || page.Page != 1 || page.Limit != 10 {
		t.Errorf("envelope: %+v", page)
	}
}
