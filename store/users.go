package store

import (
	"context"
	"fmt"

	"github.com/jalexanderII/zero-todos/models"
)

// EnsureUser upserts the identity provider's subject and fills in the local id.
// Profile fields follow the latest token.
func (s *Store) EnsureUser(ctx context.Context, u *models.User) error {
	now := s.timestamp()
	u.UpdatedAt = now

	err := s.db.QueryRowxContext(ctx, s.db.Rebind(`
		INSERT INTO users (subject, username, email, phone_number, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?)
		ON CONFLICT (subject) DO UPDATE SET
			username = excluded.username,
			email = excluded.email,
			phone_number = excluded.phone_number,
			updated_at = excluded.updated_at
		RETURNING id, created_at`),
		u.Subject, u.Username, u.Email, u.PhoneNumber, now, now,
	).Scan(&u.ID, &u.CreatedAt)
	if err != nil {
		return fmt.Errorf("upserting user %s: %w", u.Subject, err)
	}
	return nil
}
