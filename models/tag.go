package models

import (
	"strings"
	"time"
)

const DefaultTagColor = "#FFFFFF"

// Tag is a globally shared, name unique label.
type Tag struct {
	ID        int64     `json:"id" db:"id"`
	Name      string    `json:"name" db:"name"`
	Color     string    `json:"color" db:"color"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
}

// TagPayload identifies a tag by name on todo writes and carries the tag resource body.
type TagPayload struct {
	Name  *string `json:"name" validate:"required,min=1,max=50"`
	Color *string `json:"color" validate:"omitempty,hexcolor,len=7"`
}

// Validate checks the body of the tag resource. partial is true for PATCH.
func (p *TagPayload) Validate(partial bool) error {
	errs := &ValidationError{}
	p.Name = trimPtr(p.Name)

	var skip []string
	if partial && p.Name == nil {
		skip = append(skip, "Name")
	}
	if err := validateStruct(p, errs, nil, skip...); err != nil {
		return err
	}
	return errs.OrNil()
}

// ToTag resolves the payload into a Tag, applying the default color.
func (p TagPayload) ToTag() Tag {
	t := Tag{Color: DefaultTagColor}
	if p.Name != nil {
		t.Name = strings.TrimSpace(*p.Name)
	}
	if p.Color != nil {
		t.Color = *p.Color
	}
	return t
}

// ApplyTo copies the supplied fields onto an existing tag.
func (p TagPayload) ApplyTo(t *Tag) {
	if p.Name != nil {
		t.Name = strings.TrimSpace(*p.Name)
	}
	if p.Color != nil {
		t.Color = *p.Color
	}
}
