package ports

import (
	"context"
	"time"

	"github.com/boxwise/inventory/internal/core/domain"
)

// LocationInput carries the editable fields of a location.
type LocationInput struct {
	Name        string
	ParentID    string
	Description string
}

// LocationDetail is a location with its place in the hierarchy.
type LocationDetail struct {
	Location   *domain.Location
	Breadcrumb []domain.Location
	Children   []domain.Location
	ItemCount  int64
}

// LocationService defines use-case operations for the location hierarchy.
type LocationService interface {
	List(ctx context.Context, actor domain.Actor) ([]domain.FlatLocation, error)
	Tree(ctx context.Context, actor domain.Actor) ([]*domain.LocationNode, error)
	Get(ctx context.Context, actor domain.Actor, id string) (*LocationDetail, error)
	Create(ctx context.Context, actor domain.Actor, input LocationInput) (*domain.Location, error)
	Update(ctx context.Context, actor domain.Actor, id string, input LocationInput) (*domain.Location, error)
	Delete(ctx context.Context, actor domain.Actor, id string) error
}

// CategoryInput carries the editable fields of a category.
type CategoryInput struct {
	Name        string
	Description string
}

// CategoryService defines use-case operations for categories.
type CategoryService interface {
	List(ctx context.Context, actor domain.Actor) ([]*domain.Category, error)
	Get(ctx context.Context, actor domain.Actor, id string) (*domain.Category, error)
	Create(ctx context.Context, actor domain.Actor, input CategoryInput) (*domain.Category, error)
	Update(ctx context.Context, actor domain.Actor, id string, input CategoryInput) (*domain.Category, error)
	Delete(ctx context.Context, actor domain.Actor, id string) error
}

// LabelInput carries the editable fields of a label.
type LabelInput struct {
	Name        string
	Description string
	Color       string
}

// LabelService defines use-case operations for labels.
type LabelService interface {
	List(ctx context.Context, actor domain.Actor) ([]*domain.Label, error)
	Get(ctx context.Context, actor domain.Actor, id string) (*domain.Label, error)
	Create(ctx context.Context, actor domain.Actor, input LabelInput) (*domain.Label, error)
	Update(ctx context.Context, actor domain.Actor, id string, input LabelInput) (*domain.Label, error)
	// Delete removes the label and detaches it from every item.
	Delete(ctx context.Context, actor domain.Actor, id string) error
}

// ReminderInput carries the editable fields of a reminder.
type ReminderInput struct {
	ItemID    string
	Title     string
	Type      domain.ReminderType
	Date      time.Time
	Notes     string
	Recurring bool
	Interval  *domain.Interval
}

// ListRemindersInput filters the reminder list. Status "" or "all" lists everything.
type ListRemindersInput struct {
	Status string
	ItemID string
	Limit  int
}

// CompleteResult reports the completed reminder and its follow-up, if any.
type CompleteResult struct {
	Completed *domain.Reminder
	Next      *domain.Reminder
}

// ReminderService defines use-case operations for reminders.
type ReminderService interface {
	List(ctx context.Context, actor domain.Actor, input ListRemindersInput) ([]*domain.Reminder, error)
	Get(ctx context.Context, actor domain.Actor, id string) (*domain.Reminder, error)
	Create(ctx context.Context, actor domain.Actor, input ReminderInput) (*domain.Reminder, error)
	Update(ctx context.Context, actor domain.Actor, id string, input ReminderInput) (*domain.Reminder, error)
	Delete(ctx context.Context, actor domain.Actor, id string) error
	Complete(ctx context.Context, actor domain.Actor, id string) (*CompleteResult, error)
	Reopen(ctx context.Context, actor domain.Actor, id string) (*domain.Reminder, error)
	// DueNotices returns reminders that should be announced as of now.
	DueNotices(ctx context.Context, now time.Time) ([]domain.ReminderNotice, error)
}
