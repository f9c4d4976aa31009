package handler

import (
	"time"

	"github.com/boxwise/inventory/internal/core/domain"
	"github.com/boxwise/inventory/internal/core/ports"
)

// --- Locations ---

type locationRequest struct {
	Name        string `json:"name"        validate:"required,max=100"`
	ParentID    string `json:"parent_id"`
	Description string `json:"description" validate:"max=500"`
}

type locationDetailResponse struct {
	Location   *domain.Location  `json:"location"`
	Breadcrumb []domain.Location `json:"breadcrumb"`
	Children   []domain.Location `json:"children"`
	ItemCount  int64             `json:"item_count"`
}

// --- Categories & labels ---

type categoryRequest struct {
	Name        string `json:"name"        validate:"required,max=100"`
	Description string `json:"description" validate:"max=500"`
}

type labelRequest struct {
	Name        string `json:"name"        validate:"required,max=50"`
	Description string `json:"description" validate:"max=500"`
	Color       string `json:"color"       validate:"omitempty,hexcolor"`
}

// --- Reminders ---

type intervalRequest struct {
	Every int    `json:"every" validate:"min=1,max=365"`
	Unit  string `json:"unit"  validate:"required,oneof=day week month year"`
}

type reminderRequest struct {
	ItemID    string           `json:"item_id"   validate:"required"`
	Title     string           `json:"title"     validate:"required,max=200"`
	Type      string           `json:"type"      validate:"omitempty,oneof=maintenance warranty loan insurance other"`
	Date      *dateValue       `json:"date"`
	Notes     string           `json:"notes"     validate:"max=2000"`
	Recurring bool             `json:"recurring"`
	Interval  *intervalRequest `json:"interval"`
}

func (r reminderRequest) toInput() ports.ReminderInput {
	in := ports.ReminderInput{
		ItemID:    r.ItemID,
		Title:     r.Title,
		Type:      domain.ReminderType(r.Type),
		Notes:     r.Notes,
		Recurring: r.Recurring,
	}
	if r.Date != nil {
		in.Date = r.Date.Time
	}
	if r.Interval != nil {
		in.Interval = &domain.Interval{Every: r.Interval.Every, Unit: domain.IntervalUnit(r.Interval.Unit)}
	}
	return in
}

// reminderResponse adds the computed status bucket to a reminder.
type reminderResponse struct {
	*domain.Reminder
	Status domain.ReminderStatus `json:"status"`
}

func toReminderResponse(r *domain.Reminder, now time.Time) *reminderResponse {
	if r == nil {
		return nil
	}
	return &reminderResponse{Reminder: r, Status: r.Status(now)}
}

type completeReminderResponse struct {
	Completed *reminderResponse `json:"completed"`
	Next      *reminderResponse `json:"next,omitempty"`
}
