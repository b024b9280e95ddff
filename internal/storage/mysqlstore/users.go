package mysqlstore

import (
	"context"
	"database/sql"
	"fmt"

	"expensor/internal/models"
	"expensor/internal/storage"
)

// UpsertUser creates or refreshes the account record keyed by the
// Microsoft account id.
func (s *Store) UpsertUser(ctx context.Context, u *models.User) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO users (microsoft_id, name, email, profile_image_url)
		VALUES (?, ?, ?, ?)
		ON DUPLICATE KEY UPDATE
			name = VALUES(name),
			email = VALUES(email),
			profile_image_url = VALUES(profile_image_url)
	`, u.MicrosoftID, u.Name, u.Email, u.ProfileImageURL)
	if err != nil {
		return fmt.Errorf("upsert user: %w", err)
	}
	return nil
}

// GetUser returns the account record, or ErrNotFound.
func (s *Store) GetUser(ctx context.Context, microsoftID string) (*models.User, error) {
	var u models.User
	err := s.db.QueryRowContext(ctx, `
		SELECT microsoft_id, id, name, email, profile_image_url, created_at
		FROM users
		WHERE microsoft_id = ?
	`, microsoftID).
		Scan(&u.MicrosoftID, &u.ID, &u.Name, &u.Email, &u.ProfileImageURL, &u.CreatedAt)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, storage.ErrNotFound
		}
		return nil, fmt.Errorf("get user: %w", err)
	}
	return &u, nil
}
