package core

import "strings"

// SortField is an allow-listed field expenses can be ordered by.
type SortField string

const (
	SortByAmount      SortField = "amount"
	SortBySpentOnDate SortField = "spentOnDate"
	SortByCreatedAt   SortField = "createdAt"
)

// SortOrder is the requested direction, asc or desc.
type SortOrder string

const (
	OrderAsc  SortOrder = "asc"
	OrderDesc SortOrder = "desc"
)

// ListOptions is the validated form of the list query parameters.
// A nil Category means no filter; an empty SortBy means the default
// ordering (newest first by creation time).
type ListOptions struct {
	Category *Category
	SortBy   SortField
	Order    SortOrder
}

// ParseListOptions translates raw category/sortBy/order query parameters
// into ListOptions. Filter and sort are independent and composable; any
// unrecognized value fails the whole request.
func ParseListOptions(category, sortBy, order string) (ListOptions, *ValidationError) {
	verr := newValidationError("invalid query parameters")
	var opts ListOptions

	if category != "" {
		c, err := ParseCategory(category)
		if err != nil {
			verr.Fields["category"] = err.Error()
		} else {
			opts.Category = &c
		}
	}

	switch SortField(sortBy) {
	case "", SortByAmount, SortBySpentOnDate, SortByCreatedAt:
		opts.SortBy = SortField(sortBy)
	default:
		verr.Fields["sortBy"] = "invalid sort field \"" + sortBy + "\": must be one of amount, spentOnDate, createdAt"
	}

	switch SortOrder(strings.ToLower(order)) {
	case "":
		opts.Order = OrderAsc
	case OrderAsc:
		opts.Order = OrderAsc
	case OrderDesc:
		opts.Order = OrderDesc
	default:
		verr.Fields["order"] = "invalid sort order \"" + order + "\": must be asc or desc"
	}

	if len(verr.Fields) > 0 {
		return ListOptions{}, verr
	}
	return opts, nil
}
