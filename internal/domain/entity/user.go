// Package entity defines the core business entities for the domain layer.
package entity

import (
	"time"

	"github.com/google/uuid"
)

// User represents a wallet owner.
type User struct {
	ID                 uuid.UUID
	Email              string
	Name               string
	PasswordHash       string
	EmailNotifications bool
	BudgetAlerts       bool
	TelegramChatID     int64 // 0 when no chat is linked
	CreatedAt          time.Time
	UpdatedAt          time.Time
}

// NewUser creates a new User with default notification preferences.
func NewUser(email, name, passwordHash string) *User {
	now := time.Now().UTC()
	return &User{
		ID:                 uuid.New(),
		Email:              email,
		Name:               name,
		PasswordHash:       passwordHash,
		EmailNotifications: true,
		BudgetAlerts:       true,
		CreatedAt:          now,
		UpdatedAt:          now,
	}
}

// HasTelegram reports whether a Telegram chat is bound to the user.
func (u *User) HasTelegram() bool {
	return u.TelegramChatID != 0
}

// LinkTelegram binds a Telegram chat to the user.
func (u *User) LinkTelegram(chatID int64) {
	u.TelegramChatID = chatID
	u.UpdatedAt = time.Now().UTC()
}
