package weather

import (
	"math"
	"testing"
)

func TestDescribe(t *testing.T) {
	table := DefaultCodeTable()

	tests := []struct {
		code int
		want CodeInfo
	}{
		{0, CodeInfo{"Clear sky", "icons8-sun"}},
		{3, CodeInfo{"Overcast", "icons8-cloud"}},
		{45, CodeInfo{"Fog", "icons8-fog"}},
		{61, CodeInfo{"Slight rain", "icons8-light-rain"}},
		{63, CodeInfo{"Moderate rain", "icons8-moderate-rain"}},
		{77, CodeInfo{"Snow grains", "icons8-snow-storm"}},
		{99, CodeInfo{"Heavy hail thunderstorm", "icons8-storm-with-heavy-rain"}},
		{150, CodeInfo{UnknownDescription, FallbackIcon}},
		{4, CodeInfo{UnknownDescription, FallbackIcon}},
		{-1, CodeInfo{UnknownDescription, FallbackIcon}},
		{math.MaxInt32, CodeInfo{UnknownDescription, FallbackIcon}},
		{math.MinInt32, CodeInfo{UnknownDescription, FallbackIcon}},
	}

	for _, tt := range tests {
		if got := table.Describe(tt.code); got != tt.want {
			t.Errorf("Describe(%d) = %+v, want %+v", tt.code, got, tt.want)
		}
	}
}

func TestDefaultCodeTableDescriptionsAreDistinct(t *testing.T) {
	table := DefaultCodeTable()
	if len(table) != 28 {
		t.Fatalf("expected 28 entries, got %d", len(table))
	}

	seen := make(map[string]int)
	for code, info := range table {
		if info.Description == "" || info.Icon == "" {
			t.Errorf("code %d has an empty field: %+v", code, info)
		}
		if other, ok := seen[info.Description]; ok {
			t.Errorf("codes %d and %d share description %q", code, other, info.Description)
		}
		seen[info.Description] = code
	}
}

func TestDefaultCodeTableIsACopy(t *testing.T) {
	a := DefaultCodeTable()
	a[0] = CodeInfo{"changed", "changed"}

	if got := DefaultCodeTable().Describe(0).Description; got != "Clear sky" {
		t.Errorf("default table was mutated: %q", got)
	}
}

func TestInjectedCodeTable(t *testing.T) {
	table := CodeTable{1: {"One", "one"}}
	if got := table.Describe(1); got.Description != "One" {
		t.Errorf("expected injected entry, got %+v", got)
	}
	if got := table.Describe(0); got.Description != UnknownDescription {
		t.Errorf("expected fallback for code missing from injected table, got %+v", got)
	}

	var empty CodeTable
	if got := empty.Describe(0); got.Icon != FallbackIcon {
		t.Errorf("nil table should fall back, got %+v", got)
	}
}

func TestIconURL(t *testing.T) {
	if got := IconURL("", "icons8-sun"); got != "" {
		t.Errorf("expected empty URL without base, got %q", got)
	}
	if got := IconURL("https://cdn.example.com/icons/", "icons8-sun"); got != "https://cdn.example.com/icons/icons8-sun.png" {
		t.Errorf("unexpected URL %q", got)
	}
}
