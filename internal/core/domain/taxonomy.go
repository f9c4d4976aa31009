package domain

import (
	"regexp"
	"strings"
	"time"
)

// Category is a single-valued classification of items.
type Category struct {
	ID          string    `json:"id"`
	GroupID     string    `json:"group_id"`
	Name        string    `json:"name"`
	Description string    `json:"description,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// Label is a colored tag; an item may carry many.
type Label struct {
	ID          string    `json:"id"`
	GroupID     string    `json:"group_id"`
	Name        string    `json:"name"`
	Description string    `json:"description,omitempty"`
	Color       string    `json:"color"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// DefaultLabelColor is used when a label is created without one.
const DefaultLabelColor = "#9e9e9e"

var hexColor = regexp.MustCompile(`^#(?:[0-9a-fA-F]{3}|[0-9a-fA-F]{6})$`)

// NormalizeColor lowercases a hex color, defaulting blanks. Invalid input
// is reported as a ValidationError.
func NormalizeColor(c string) (string, error) {
	c = strings.TrimSpace(c)
	if c == "" {
		return DefaultLabelColor, nil
	}
	if !hexColor.MatchString(c) {
		return "", Invalid("color must be a hex value like #1e88e5")
	}
	return strings.ToLower(c), nil
}
