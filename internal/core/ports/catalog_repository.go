package ports

import (
	"context"
	"time"

	"github.com/boxwise/inventory/internal/core/domain"
)

// LocationRepository defines persistence for the location hierarchy.
type LocationRepository interface {
	Create(ctx context.Context, loc *domain.Location) error
	FindByID(ctx context.Context, groupID, id string) (*domain.Location, error)
	ListByGroup(ctx context.Context, groupID string) ([]domain.Location, error)
	Update(ctx context.Context, loc *domain.Location) error
	Delete(ctx context.Context, groupID, id string) error
	// Reparent points every child of fromParent at toParent ("" = root).
	Reparent(ctx context.Context, groupID, fromParent, toParent string) (int64, error)
	Count(ctx context.Context, groupID string) (int64, error)
}

// CategoryRepository defines persistence for categories.
type CategoryRepository interface {
	Create(ctx context.Context, c *domain.Category) error
	FindByID(ctx context.Context, groupID, id string) (*domain.Category, error)
	// FindByName matches case-insensitively.
	FindByName(ctx context.Context, groupID, name string) (*domain.Category, error)
	List(ctx context.Context, groupID string) ([]*domain.Category, error)
	Update(ctx context.Context, c *domain.Category) error
	Delete(ctx context.Context, groupID, id string) error
	Count(ctx context.Context, groupID string) (int64, error)
}

// LabelRepository defines persistence for labels.
type LabelRepository interface {
	Create(ctx context.Context, l *domain.Label) error
	FindByID(ctx context.Context, groupID, id string) (*domain.Label, error)
	// FindByName matches case-insensitively.
	FindByName(ctx context.Context, groupID, name string) (*domain.Label, error)
	List(ctx context.Context, groupID string) ([]*domain.Label, error)
	Update(ctx context.Context, l *domain.Label) error
	Delete(ctx context.Context, groupID, id string) error
	Count(ctx context.Context, groupID string) (int64, error)
}

// ReminderFilter carries query parameters for reminders.
type ReminderFilter struct {
	GroupID   string
	ItemID    string
	Completed *bool
	DueAfter  time.Time // optional: date >= value
	DueBefore time.Time // optional: date < value
	Limit     int
}

// ReminderRepository defines persistence for reminders.
type ReminderRepository interface {
	Create(ctx context.Context, r *domain.Reminder) error
	FindByID(ctx context.Context, groupID, id string) (*domain.Reminder, error)
	Update(ctx context.Context, r *domain.Reminder) error
	Delete(ctx context.Context, groupID, id string) error
	DeleteByItem(ctx context.Context, groupID, itemID string) (int64, error)
	// List returns reminders sorted by date ascending.
	List(ctx context.Context, filter ReminderFilter) ([]*domain.Reminder, error)
	Count(ctx context.Context, filter ReminderFilter) (int64, error)
	// FindDue returns open, unnotified reminders dated before cutoff across all groups.
	FindDue(ctx context.Context, cutoff time.Time, limit int) ([]*domain.Reminder, error)
	MarkNotified(ctx context.Context, id string, at time.Time) error
}
