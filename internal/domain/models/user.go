package models

import (
	"time"

	"github.com/google/uuid"
)

type User struct {
	ID        uuid.UUID `db:"id" json:"id"`
	Email     string    `db:"email" json:"email"`
	Password  []byte    `db:"password" json:"-"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
	LastLogin time.Time `db:"last_login,omitempty" json:"last_login,omitempty"`
}

// Profile хранит публичные данные пользователя
type Profile struct {
	UserID    uuid.UUID `db:"id" json:"id"`
	FullName  *string   `db:"full_name" json:"full_name"`
	AvatarURL *string   `db:"avatar_url" json:"avatar_url"`
	UpdatedAt time.Time `db:"updated_at" json:"updated_at"`
}

// Account is the authenticated user together with their profile.
type Account struct {
	User    User    `json:"user"`
	Profile Profile `json:"profile"`
}
