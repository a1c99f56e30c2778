package models

import "time"

type UserResponse struct {
	ID       int64  `json:"id"`
	Username string `json:"username"`
	Email    string `json:"email"`
}

type AttachmentResponse struct {
	ID         int64     `json:"id"`
	File       string    `json:"file"`
	Name       string    `json:"name"`
	UploadedAt time.Time `json:"uploaded_at"`
}

// TodoResponse is the list representation of a Todo, derived fields included.
type TodoResponse struct {
	ID            int64        `json:"id"`
	Title         string       `json:"title"`
	Description   *string      `json:"description"`
	DueDate       *time.Time   `json:"due_date"`
	Priority      Priority     `json:"priority"`
	Status        Status       `json:"status"`
	CreatedAt     time.Time    `json:"created_at"`
	UpdatedAt     time.Time    `json:"updated_at"`
	CompletedAt   *time.Time   `json:"completed_at"`
	User          UserResponse `json:"user"`
	Tags          []Tag        `json:"tags"`
	DaysRemaining *int         `json:"days_remaining"`
	IsOverdue     bool         `json:"is_overdue"`
}

// TodoDetailResponse is the retrieve representation, a superset of TodoResponse.
type TodoDetailResponse struct {
	TodoResponse
	Attachments []AttachmentResponse `json:"attachments"`
}

type PageResponse struct {
	Count    int            `json:"count"`
	Next     *string        `json:"next"`
	Previous *string        `json:"previous"`
	Results  []TodoResponse `json:"results"`
}

type StatusResponse struct {
	Status Status `json:"status"`
}

type HealthResponse struct {
	Status     string            `json:"status"`
	Components map[string]string `json:"components"`
}

func NewTodoResponse(t *Todo, now time.Time) TodoResponse {
	tags := t.Tags
	if tags == nil {
		tags = []Tag{}
	}
	return TodoResponse{
		ID:          t.ID,
		Title:       t.Title,
		Description: t.Description,
		DueDate:     t.DueDate,
		Priority:    t.Priority,
		Status:      t.Status,
		CreatedAt:   t.CreatedAt,
		UpdatedAt:   t.UpdatedAt,
		CompletedAt: t.CompletedAt,
		User: UserResponse{
			ID:       t.Owner.ID,
			Username: t.Owner.Username,
			Email:    t.Owner.Email,
		},
		Tags:          tags,
		DaysRemaining: t.DaysRemaining(now),
		IsOverdue:     t.IsOverdue(now),
	}
}

// NewTodoDetailResponse renders attachments with fileURL turning an attachment into its download URL.
func NewTodoDetailResponse(t *Todo, now time.Time, fileURL func(Attachment) string) TodoDetailResponse {
	atts := make([]AttachmentResponse, 0, len(t.Attachments))
	for _, a := range t.Attachments {
		atts = append(atts, NewAttachmentResponse(a, fileURL))
	}
	return TodoDetailResponse{
		TodoResponse: NewTodoResponse(t, now),
		Attachments:  atts,
	}
}

func NewAttachmentResponse(a Attachment, fileURL func(Attachment) string) AttachmentResponse {
	return AttachmentResponse{
		ID:         a.ID,
		File:       fileURL(a),
		Name:       a.Name,
		UploadedAt: a.UploadedAt,
	}
}
