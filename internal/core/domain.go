package core

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

// Category classifies an expense. The set is closed: anything outside it
// is rejected at the validation boundary, never stored.
type Category string

const (
	CategoryFood      Category = "Food"
	CategoryTravel    Category = "Travel"
	CategoryUtilities Category = "Utilities"
	CategoryOthers    Category = "Others"
)

// Categories returns the closed set of valid categories in display order.
func Categories() []Category {
	return []Category{CategoryFood, CategoryTravel, CategoryUtilities, CategoryOthers}
}

// Valid reports whether c is a member of the category set.
func (c Category) Valid() bool {
	switch c {
	case CategoryFood, CategoryTravel, CategoryUtilities, CategoryOthers:
		return true
	}
	return false
}

// ParseCategory validates a raw category string. The returned error lists
// the valid set so it can be surfaced to the client as-is.
func ParseCategory(s string) (Category, error) {
	c := Category(s)
	if !c.Valid() {
		return "", fmt.Errorf("invalid category %q: must be one of %s", s, categoryList())
	}
	return c, nil
}

func categoryList() string {
	names := make([]string, 0, 4)
	for _, c := range Categories() {
		names = append(names, string(c))
	}
	return strings.Join(names, ", ")
}

var (
	ErrEmptyTitle    = errors.New("title cannot be empty")
	ErrInvalidAmount = errors.New("amount must be a positive number")
	ErrInvalidDate   = errors.New("invalid date")
)

type (
	// Money is an exact decimal amount held as integer cents.
	// All arithmetic happens on cents; floats appear only at the JSON edge.
	Money struct {
		Cents int64
	}

	// Date is a calendar date or instant an expense was spent on.
	Date struct {
		time.Time
	}

	// Expense is the stored form of one spending event. ID and the two
	// timestamps are assigned by the persistence layer.
	Expense struct {
		ID          string    `json:"id"`
		Title       string    `json:"title"`
		Description string    `json:"description,omitempty"`
		Amount      Money     `json:"amount"`
		Category    Category  `json:"category"`
		SpentOnDate Date      `json:"spentOnDate"`
		CreatedAt   time.Time `json:"createdAt"`
		UpdatedAt   time.Time `json:"updatedAt"`
	}
)

func (m Money) Validate() error {
	if m.Cents <= 0 {
		return ErrInvalidAmount
	}
	return nil
}

func (d Date) Validate() error {
	if d.IsZero() {
		return ErrInvalidDate
	}
	return nil
}

// dateLayouts are the accepted wire formats, tried in order.
var dateLayouts = []string{time.RFC3339, "2006-01-02"}

// ParseDate parses an ISO-8601 date ("2024-01-20") or date-time string.
func ParseDate(s string) (Date, error) {
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return Date{Time: t.UTC()}, nil
		}
	}
	return Date{}, fmt.Errorf("%w: %q is not an ISO-8601 date", ErrInvalidDate, s)
}

// NewDate builds a Date from calendar parts, midnight UTC.
func NewDate(year, month, day int) Date {
	return Date{Time: time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC)}
}

func (d Date) MarshalJSON() ([]byte, error) {
	return []byte(`"` + d.UTC().Format(time.RFC3339) + `"`), nil
}

func (d *Date) UnmarshalJSON(data []byte) error {
	s := strings.Trim(string(data), `"`)
	if s == "null" || s == "" {
		return ErrInvalidDate
	}
	parsed, err := ParseDate(s)
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}

// Validate checks the stored-record invariants. Inputs coming over the wire
// are checked field by field in input.go; this is the last line of defense
// before persistence.
func (e Expense) Validate() error {
	if strings.TrimSpace(e.Title) == "" {
		return ErrEmptyTitle
	}
	if err := e.Amount.Validate(); err != nil {
		return err
	}
	if !e.Category.Valid() {
		return fmt.Errorf("invalid category %q: must be one of %s", e.Category, categoryList())
	}
	if err := e.SpentOnDate.Validate(); err != nil {
		return err
	}
	return nil
}
