package core

import (
	"strings"
	"testing"
	"time"
)

func TestParseCategory(t *testing.T) {
	for _, c := range Categories() {
		got, err := ParseCategory(string(c))
		if err != nil || got != c {
			t.Fatalf("%q expected valid, got %q (err=%v)", c, got, err)
		}
	}

	for _, bad := range []string{"Snacks", "food", "FOOD", "", "Travel "} {
		if _, err := ParseCategory(bad); err == nil {
			t.Fatalf("%q expected error", bad)
		}
	}
}

func TestParseCategoryErrorListsValidSet(t *testing.T) {
	_, err := ParseCategory("Snacks")
	if err == nil {
		t.Fatal("expected error")
	}
	for _, want := range []string{"Food", "Travel", "Utilities", "Others"} {
		if !strings.Contains(err.Error(), want) {
			t.Fatalf("error %q missing category %s", err.Error(), want)
		}
	}
}

func TestParseDate(t *testing.T) {
	cases := []struct {
		in string
		ok bool
	}{
		{"2024-01-20", true},
		{"2024-02-10T15:04:05Z", true},
		{"2024-02-10T15:04:05+02:00", true},
		{"20-01-2024", false},
		{"2024-13-01", false},
		{"not a date", false},
		{"", false},
	}
	for _, tc := range cases {
		d, err := ParseDate(tc.in)
		if tc.ok {
			if err != nil {
				t.Fatalf("%q expected ok, got %v", tc.in, err)
			}
			if d.Location() != time.UTC {
				t.Fatalf("%q expected UTC, got %v", tc.in, d.Location())
			}
		} else if err == nil {
			t.Fatalf("%q expected error", tc.in)
		}
	}
}

func TestExpenseValidate(t *testing.T) {
	good := Expense{
		Title:       "Groceries",
		Amount:      Money{Cents: 5575},
		Category:    CategoryFood,
		SpentOnDate: NewDate(2024, 1, 20),
	}
	if err := good.Validate(); err != nil {
		t.Fatalf("expected ok, got %v", err)
	}

	bads := []Expense{
		{Title: " ", Amount: Money{Cents: 100}, Category: CategoryFood, SpentOnDate: NewDate(2024, 1, 1)},
		{Title: "a", Amount: Money{Cents: 0}, Category: CategoryFood, SpentOnDate: NewDate(2024, 1, 1)},
		{Title: "a", Amount: Money{Cents: -5}, Category: CategoryFood, SpentOnDate: NewDate(2024, 1, 1)},
		{Title: "a", Amount: Money{Cents: 100}, Category: "Snacks", SpentOnDate: NewDate(2024, 1, 1)},
		{Title: "a", Amount: Money{Cents: 100}, Category: CategoryFood},
	}
	for i, e := range bads {
		if err := e.Validate(); err == nil {
			t.Fatalf("case %d expected error", i)
		}
	}
}
