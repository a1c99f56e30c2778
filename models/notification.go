package models

import (
	"fmt"
	"time"
)

type NotificationKind string

const (
	NotificationCreated   NotificationKind = "created"
	NotificationCompleted NotificationKind = "completed"
)

// Notification is what the mail and SMS channels receive after a todo write commits.
type Notification struct {
	Kind           NotificationKind
	Title          string
	Priority       Priority
	DueDate        *time.Time
	RecipientEmail string
	RecipientPhone string
}

func NewNotification(kind NotificationKind, t *Todo) Notification {
	return Notification{
		Kind:           kind,
		Title:          t.Title,
		Priority:       t.Priority,
		DueDate:        t.DueDate,
		RecipientEmail: t.Owner.Email,
		RecipientPhone: t.Owner.PhoneNumber,
	}
}

func (n Notification) Subject() string {
	if n.Kind == NotificationCompleted {
		return fmt.Sprintf("Todo Completed: %s", n.Title)
	}
	return fmt.Sprintf("New Todo Created: %s", n.Title)
}

func (n Notification) Body() string {
	if n.Kind == NotificationCompleted {
		return fmt.Sprintf("Congratulations! You have completed the todo:\n\nTitle: %s", n.Title)
	}
	due := "None"
	if n.DueDate != nil {
		due = n.DueDate.Format(time.RFC3339)
	}
	return fmt.Sprintf("You have created a new todo:\n\nTitle: %s\nPriority: %s\nDue Date: %s", n.Title, n.Priority.Label(), due)
}

type SendSMSResponse struct {
	Successful   bool   `json:"successful"`
	ErrorMessage string `json:"error_message"`
}
