package models

import "time"

const day = 24 * time.Hour

// EnforceCompletion keeps CompletedAt in step with Status and touches UpdatedAt.
// It must run on every save of a Todo.
func (t *Todo) EnforceCompletion(now time.Time) {
	if t.Status == StatusCompleted {
		if t.CompletedAt == nil {
			stamp := now
			t.CompletedAt = &stamp
		}
	} else {
		t.CompletedAt = nil
	}
	t.UpdatedAt = now
}

// DaysRemaining is the number of whole days until the due date, floored, so a
// todo due twelve hours ago reports -1. Nil without a due date.
func (t *Todo) DaysRemaining(now time.Time) *int {
	if t.DueDate == nil {
		return nil
	}
	d := t.DueDate.Sub(now)
	days := int(d / day)
	if d < 0 && d%day != 0 {
		days--
	}
	return &days
}

// IsOverdue reports a due date in the past on a todo that is not completed.
func (t *Todo) IsOverdue(now time.Time) bool {
	if t.DueDate == nil || t.Status == StatusCompleted {
		return false
	}
	return now.After(*t.DueDate)
}

// BecameCompleted reports a transition into the completed status between two saves.
func BecameCompleted(before Status, after Status) bool {
	return before != StatusCompleted && after == StatusCompleted
}
