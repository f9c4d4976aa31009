package domain

import "time"

// Preferences are per-user display and notification settings.
type Preferences struct {
	Theme          string `json:"theme"`
	Currency       string `json:"currency"`
	DateFormat     string `json:"date_format"`
	EmailReminders bool   `json:"email_reminders"`
}

// DefaultPreferences are applied to new accounts.
func DefaultPreferences() Preferences {
	return Preferences{
		Theme:          "light",
		Currency:       "USD",
		DateFormat:     "YYYY-MM-DD",
		EmailReminders: true,
	}
}

// User models an authenticated member of a group.
type User struct {
	ID           string      `json:"id"`
	Name         string      `json:"name"`
	Email        string      `json:"email"`
	PasswordHash string      `json:"-"`
	Role         Role        `json:"role"`
	GroupID      string      `json:"group_id"`
	Preferences  Preferences `json:"preferences"`
	CreatedAt    time.Time   `json:"created_at"`
	UpdatedAt    time.Time   `json:"updated_at"`
}

// Actor is the authenticated caller as carried by a token.
type Actor struct {
	UserID  string
	GroupID string
	Email   string
	Role    Role
}

// Can reports whether the actor's role grants c.
func (a Actor) Can(c Capability) bool {
	return PermissionsFor(a.Role).Allows(c)
}
