package core

import "testing"

func TestParseListOptions(t *testing.T) {
	cases := []struct {
		name                    string
		category, sortBy, order string
		ok                      bool
		field                   string
	}{
		{"all empty", "", "", "", true, ""},
		{"category only", "Travel", "", "", true, ""},
		{"sort by amount", "", "amount", "", true, ""},
		{"sort desc", "", "spentOnDate", "desc", true, ""},
		{"order case-insensitive", "", "amount", "DESC", true, ""},
		{"filter and sort combined", "Food", "createdAt", "asc", true, ""},
		{"bad category", "Snacks", "", "", false, "category"},
		{"bad sort field", "", "title", "", false, "sortBy"},
		{"bad order", "", "amount", "sideways", false, "order"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			opts, verr := ParseListOptions(tc.category, tc.sortBy, tc.order)
			if tc.ok {
				if verr != nil {
					t.Fatalf("expected ok, got %v", verr)
				}
				if tc.category != "" && (opts.Category == nil || string(*opts.Category) != tc.category) {
					t.Fatalf("expected category %s, got %v", tc.category, opts.Category)
				}
				if tc.category == "" && opts.Category != nil {
					t.Fatalf("expected no filter, got %v", *opts.Category)
				}
				return
			}
			if verr == nil {
				t.Fatal("expected validation error")
			}
			if _, okField := verr.Fields[tc.field]; !okField {
				t.Fatalf("expected field %s in %v", tc.field, verr.Fields)
			}
		})
	}
}

func TestParseListOptionsDefaults(t *testing.T) {
	opts, verr := ParseListOptions("", "", "")
	if verr != nil {
		t.Fatalf("expected ok, got %v", verr)
	}
	if opts.SortBy != "" {
		t.Fatalf("expected empty sort field, got %q", opts.SortBy)
	}
	if opts.Order != OrderAsc {
		t.Fatalf("expected asc default, got %q", opts.Order)
	}
}
