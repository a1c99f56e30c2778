package models

import (
	"strings"
	"time"
)

const MaxTitleLength = 200

// TodoPayload is the body of create, update and partial update. Owner fields
// in the body are not decoded; the caller is always the owner.
type TodoPayload struct {
	Title       *string          `json:"title" validate:"required,min=1,max=200"`
	Description Nullable[string] `json:"description" validate:"-"`
	DueDate     Nullable[string] `json:"due_date" validate:"-"`
	Priority    *Priority        `json:"priority" validate:"omitempty,min=1,max=4"`
	Status      *Status          `json:"status" validate:"omitempty,oneof=pending in_progress completed archived"`
	Tags        *[]TagPayload    `json:"tags" validate:"omitempty,dive"`

	dueDate *time.Time
}

// Validate checks the payload. partial is true for PATCH where every field is
// optional. Titles and tag names are trimmed before checking.
func (p *TodoPayload) Validate(partial bool) error {
	errs := &ValidationError{}

	p.Title = trimPtr(p.Title)
	if p.Tags != nil {
		for i := range *p.Tags {
			(*p.Tags)[i].Name = trimPtr((*p.Tags)[i].Name)
		}
	}

	var skip []string
	if partial && p.Title == nil {
		skip = append(skip, "Title")
	}
	if err := validateStruct(p, errs, nil, skip...); err != nil {
		return err
	}

	if p.DueDate.Valid {
		ts, err := ParseTimestamp(p.DueDate.Value)
		if err != nil {
			errs.Add("due_date", "Datetime has wrong format.")
		} else {
			p.dueDate = &ts
		}
	}

	return errs.OrNil()
}

// ApplyTo copies the supplied fields onto t. Validate must have succeeded first.
func (p *TodoPayload) ApplyTo(t *Todo) {
	if p.Title != nil {
		t.Title = strings.TrimSpace(*p.Title)
	}
	if p.Description.Set {
		t.Description = p.Description.Ptr()
	}
	if p.DueDate.Set {
		t.DueDate = p.dueDate
	}
	if p.Priority != nil {
		t.Priority = *p.Priority
	}
	if p.Status != nil {
		t.Status = *p.Status
	}
}

// TagList returns the resolved tag payloads and whether a tag list was supplied at all.
func (p *TodoPayload) TagList() ([]Tag, bool) {
	if p.Tags == nil {
		return nil, false
	}
	tags := make([]Tag, 0, len(*p.Tags))
	for _, tp := range *p.Tags {
		tags = append(tags, tp.ToTag())
	}
	return tags, true
}

// NewTodo builds a Todo with defaults applied from a create payload.
func (p *TodoPayload) NewTodo(ownerID int64) *Todo {
	t := &Todo{
		Priority: PriorityMedium,
		Status:   StatusPending,
		UserID:   ownerID,
	}
	p.ApplyTo(t)
	return t
}

// StatusPayload is the body of the status only update.
type StatusPayload struct {
	Status *string `json:"status" validate:"required,oneof=pending in_progress completed archived"`
}

func (p StatusPayload) Validate() (Status, error) {
	errs := &ValidationError{}
	if err := validateStruct(p, errs, map[string]string{"oneof": "Invalid status"}); err != nil {
		return "", err
	}
	if err := errs.OrNil(); err != nil {
		return "", err
	}
	return Status(*p.Status), nil
}
