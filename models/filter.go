package models

import "time"

const PageSize = 10

// OrderField is one entry of an ordering clause.
type OrderField struct {
	Field string
	Desc  bool
}

// TodoFilter is the parsed form of the /todos query string. Every field is optional
// and set fields combine with AND.
type TodoFilter struct {
	Title      *string
	TitleExact *string
	Priority   *int
	PriorityGT *int
	PriorityLT *int
	Status     *string
	StatusIn   []Status
	DueDate    *time.Time
	DueDateGT  *time.Time
	DueDateLT  *time.Time
	Tag        *string
	Search     []string
	Ordering   []OrderField
	Page       int
}

// Page is a window over a filtered todo listing.
type Page struct {
	Count   int
	Number  int
	Results []Todo
}

func (p Page) HasNext() bool {
	return p.Number*PageSize < p.Count
}

func (p Page) HasPrevious() bool {
	return p.Number > 1
}
