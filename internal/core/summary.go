package core

// CategoryTotal is one row of the per-category spending summary.
// Only categories with at least one expense appear; the total is the
// exact sum of cents for that category.
type CategoryTotal struct {
	Category   Category `json:"category"`
	TotalSpent Money    `json:"totalSpent"`
}
