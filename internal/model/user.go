package model

import (
	"time"

	"github.com/google/uuid"
)

type User struct {
	ID           int       `json:"id" db:"id"`
	Name         string    `json:"name" db:"name"`
	Email        string    `json:"email" db:"email"`
	PasswordHash string    `json:"-" db:"password_hash"`
	CreatedAt    time.Time `json:"created_at" db:"created_at"`
	UpdatedAt    time.Time `json:"updated_at" db:"updated_at"`
}

// Session 登入後發給的 bearer token；過期即失效
type Session struct {
	Token     uuid.UUID `json:"token" db:"token"`
	UserID    int       `json:"user_id" db:"user_id"`
	ExpiresAt time.Time `json:"expires_at" db:"expires_at"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
}

// IsExpired 檢查 session 是否過期
func (s *Session) IsExpired(now time.Time) bool {
	return now.After(s.ExpiresAt)
}
