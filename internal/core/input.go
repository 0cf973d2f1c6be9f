package core

import (
	"encoding/json"
	"fmt"
	"sort"
	"strings"
)

// ValidationError is a client-recoverable input failure. Fields maps each
// offending field name to a human-readable reason.
type ValidationError struct {
	Message string            `json:"message"`
	Fields  map[string]string `json:"fields,omitempty"`
}

func (e *ValidationError) Error() string {
	if len(e.Fields) == 0 {
		return e.Message
	}
	names := make([]string, 0, len(e.Fields))
	for name := range e.Fields {
		names = append(names, name)
	}
	sort.Strings(names)
	parts := make([]string, 0, len(names))
	for _, name := range names {
		parts = append(parts, name+": "+e.Fields[name])
	}
	return e.Message + " (" + strings.Join(parts, "; ") + ")"
}

func newValidationError(msg string) *ValidationError {
	return &ValidationError{Message: msg, Fields: make(map[string]string)}
}

// CreateExpenseInput is the untyped shape of a POST /expenses body.
// Every field is a pointer or json.Number so that "absent", "present but
// malformed" and "present and valid" are three distinguishable states.
type CreateExpenseInput struct {
	Title       *string      `json:"title"`
	Description *string      `json:"description"`
	Amount      *json.Number `json:"amount"`
	Category    *string      `json:"category"`
	SpentOnDate *string      `json:"spentOnDate"`
}

// UpdateExpenseInput is the untyped shape of a PUT /expenses/{id} body.
// All fields are optional; only supplied fields are validated and applied.
type UpdateExpenseInput struct {
	Title       *string      `json:"title"`
	Description *string      `json:"description"`
	Amount      *json.Number `json:"amount"`
	Category    *string      `json:"category"`
	SpentOnDate *string      `json:"spentOnDate"`
}

// ExpensePatch is a validated partial update: nil means "leave untouched".
type ExpensePatch struct {
	Title       *string
	Description *string
	Amount      *Money
	Category    *Category
	SpentOnDate *Date
}

// IsEmpty reports whether the patch changes nothing.
func (p ExpensePatch) IsEmpty() bool {
	return p.Title == nil && p.Description == nil && p.Amount == nil &&
		p.Category == nil && p.SpentOnDate == nil
}

// Validate checks the create payload and returns the expense fields ready
// for persistence. It touches no storage; the ID and timestamps stay zero.
func (in CreateExpenseInput) Validate() (Expense, *ValidationError) {
	missing := make([]string, 0, 4)
	if in.Title == nil {
		missing = append(missing, "title")
	}
	if in.Amount == nil {
		missing = append(missing, "amount")
	}
	if in.Category == nil {
		missing = append(missing, "category")
	}
	if in.SpentOnDate == nil {
		missing = append(missing, "spentOnDate")
	}
	if len(missing) > 0 {
		verr := newValidationError("missing required fields: " + strings.Join(missing, ", "))
		for _, name := range missing {
			verr.Fields[name] = name + " is required"
		}
		return Expense{}, verr
	}

	verr := newValidationError("validation failed")
	var e Expense

	if strings.TrimSpace(*in.Title) == "" {
		verr.Fields["title"] = ErrEmptyTitle.Error()
	} else {
		e.Title = strings.TrimSpace(*in.Title)
	}
	if in.Description != nil {
		e.Description = strings.TrimSpace(*in.Description)
	}
	if amount, err := ParseAmount(in.Amount.String()); err != nil || amount.Validate() != nil {
		verr.Fields["amount"] = ErrInvalidAmount.Error()
	} else {
		e.Amount = amount
	}
	if category, err := ParseCategory(*in.Category); err != nil {
		verr.Fields["category"] = err.Error()
	} else {
		e.Category = category
	}
	if date, err := ParseDate(*in.SpentOnDate); err != nil {
		verr.Fields["spentOnDate"] = fmt.Sprintf("%q is not a valid date", *in.SpentOnDate)
	} else {
		e.SpentOnDate = date
	}

	if len(verr.Fields) > 0 {
		return Expense{}, verr
	}
	return e, nil
}

// Validate checks only the supplied fields and returns the resulting patch.
func (in UpdateExpenseInput) Validate() (ExpensePatch, *ValidationError) {
	verr := newValidationError("validation failed")
	var p ExpensePatch

	if in.Title != nil {
		title := strings.TrimSpace(*in.Title)
		if title == "" {
			verr.Fields["title"] = ErrEmptyTitle.Error()
		} else {
			p.Title = &title
		}
	}
	if in.Description != nil {
		desc := strings.TrimSpace(*in.Description)
		p.Description = &desc
	}
	if in.Amount != nil {
		amount, err := ParseAmount(in.Amount.String())
		if err != nil || amount.Validate() != nil {
			verr.Fields["amount"] = ErrInvalidAmount.Error()
		} else {
			p.Amount = &amount
		}
	}
	if in.Category != nil {
		category, err := ParseCategory(*in.Category)
		if err != nil {
			verr.Fields["category"] = err.Error()
		} else {
			p.Category = &category
		}
	}
	if in.SpentOnDate != nil {
		date, err := ParseDate(*in.SpentOnDate)
		if err != nil {
			verr.Fields["spentOnDate"] = fmt.Sprintf("%q is not a valid date", *in.SpentOnDate)
		} else {
			p.SpentOnDate = &date
		}
	}

	if len(verr.Fields) > 0 {
		return ExpensePatch{}, verr
	}
	return p, nil
}
