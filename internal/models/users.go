package models

import "database/sql"

type User struct {
	MicrosoftID     string         `json:"microsoft_id,omitempty" db:"microsoft_id,omitempty"`
	ID              int            `json:"id,omitempty" db:"id,omitempty"`
	Email           string         `json:"email,omitempty" db:"email,omitempty"`
	Name            string         `json:"name,omitempty" db:"name,omitempty"`
	ProfileImageURL sql.NullString `json:"profile_image_url,omitempty" db:"profile_image_url,omitempty"`
	CreatedAt       sql.NullString `json:"created_at,omitempty" db:"created_at,omitempty"`
}
