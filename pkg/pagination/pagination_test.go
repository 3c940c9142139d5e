package pagination

import "testing"

func TestNormalizeLimit(t *testing.T) {
	if got := NormalizeLimit(0); got != DefaultLimit {
		t.Fatalf("expected default limit, got %d", got)
	}
	if got := NormalizeLimit(-5); got != DefaultLimit {
		t.Fatalf("expected default limit for negative input, got %d", got)
	}
	if got := NormalizeLimit(1000); got != MaxLimit {
		t.Fatalf("expected max limit cap, got %d", got)
	}
	if got := NormalizeLimit(30); got != 30 {
		t.Fatalf("expected passthrough, got %d", got)
	}
}

func TestParamsOffset(t *testing.T) {
	if got := (Params{Page: 1, Limit: 10}).Offset(); got != 0 {
		t.Fatalf("first page offset should be 0, got %d", got)
	}
	if got := (Params{Page: 3, Limit: 10}).Offset(); got != 20 {
		t.Fatalf("expected offset 20, got %d", got)
	}
	if got := (Params{Page: 0, Limit: 0}).Offset(); got != 0 {
		t.Fatalf("unset params should normalize to offset 0, got %d", got)
	}
}

func TestNewPageNeverNil(t *testing.T) {
	page := NewPage[string](nil, 0, Params{})
	if page.Data == nil {
		t.Fatalf("data slice must not be nil")
	}
	if page.Page != 1 || page.Limit != DefaultLimit {
		t.Fatalf("unexpected normalization: page=%d limit=%d", page.Page, page.Limit)
	}
}
