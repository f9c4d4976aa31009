package domain

import (
	"strings"
	"time"
)

// ReminderType classifies what a reminder is about.
type ReminderType string

const (
	ReminderMaintenance ReminderType = "maintenance"
	ReminderWarranty    ReminderType = "warranty"
	ReminderLoan        ReminderType = "loan"
	ReminderInsurance   ReminderType = "insurance"
	ReminderOther       ReminderType = "other"
)

// ParseReminderType defaults blanks to "other".
func ParseReminderType(s string) (ReminderType, bool) {
	t := ReminderType(strings.ToLower(strings.TrimSpace(s)))
	switch t {
	case "":
		return ReminderOther, true
	case ReminderMaintenance, ReminderWarranty, ReminderLoan, ReminderInsurance, ReminderOther:
		return t, true
	}
	return "", false
}

// IntervalUnit is the calendar unit of a recurrence.
type IntervalUnit string

const (
	UnitDay   IntervalUnit = "day"
	UnitWeek  IntervalUnit = "week"
	UnitMonth IntervalUnit = "month"
	UnitYear  IntervalUnit = "year"
)

// Interval is "every N units".
type Interval struct {
	Every int          `json:"every"`
	Unit  IntervalUnit `json:"unit"`
}

// Valid reports whether the interval can advance a date.
func (iv Interval) Valid() bool {
	if iv.Every < 1 {
		return false
	}
	switch iv.Unit {
	case UnitDay, UnitWeek, UnitMonth, UnitYear:
		return true
	}
	return false
}

// Advance moves t forward by one interval.
func (iv Interval) Advance(t time.Time) time.Time {
	switch iv.Unit {
	case UnitDay:
		return t.AddDate(0, 0, iv.Every)
	case UnitWeek:
		return t.AddDate(0, 0, 7*iv.Every)
	case UnitMonth:
		return t.AddDate(0, iv.Every, 0)
	case UnitYear:
		return t.AddDate(iv.Every, 0, 0)
	}
	return t
}

// ReminderStatus is the listing bucket of a reminder.
type ReminderStatus string

const (
	ReminderUpcoming  ReminderStatus = "upcoming"
	ReminderOverdue   ReminderStatus = "overdue"
	ReminderCompleted ReminderStatus = "completed"
)

// Reminder is a dated, optionally recurring notification tied to an item.
type Reminder struct {
	ID          string       `json:"id"`
	GroupID     string       `json:"group_id"`
	ItemID      string       `json:"item_id"`
	Title       string       `json:"title"`
	Type        ReminderType `json:"type"`
	Date        time.Time    `json:"date"`
	Notes       string       `json:"notes,omitempty"`
	Recurring   bool         `json:"recurring"`
	Interval    *Interval    `json:"interval,omitempty"`
	Completed   bool         `json:"completed"`
	CompletedAt *time.Time   `json:"completed_at,omitempty"`
	NotifiedAt  *time.Time   `json:"notified_at,omitempty"`
	NextID      string       `json:"next_id,omitempty"`
	CreatedBy   string       `json:"created_by,omitempty"`
	CreatedAt   time.Time    `json:"created_at"`
	UpdatedAt   time.Time    `json:"updated_at"`
}

// Status buckets the reminder relative to now.
func (r *Reminder) Status(now time.Time) ReminderStatus {
	switch {
	case r.Completed:
		return ReminderCompleted
	case r.Date.Before(now):
		return ReminderOverdue
	default:
		return ReminderUpcoming
	}
}

// Next returns the follow-up occurrence of a recurring reminder. The date
// advances past after so that completing a long-overdue reminder does not
// spawn another overdue one.
func (r *Reminder) Next(after time.Time) (*Reminder, bool) {
	if !r.Recurring || r.Interval == nil || !r.Interval.Valid() {
		return nil, false
	}
	date := r.Interval.Advance(r.Date)
	for !date.After(after) {
		date = r.Interval.Advance(date)
	}
	iv := *r.Interval
	return &Reminder{
		GroupID:   r.GroupID,
		ItemID:    r.ItemID,
		Title:     r.Title,
		Type:      r.Type,
		Date:      date,
		Notes:     r.Notes,
		Recurring: true,
		Interval:  &iv,
		CreatedBy: r.CreatedBy,
	}, true
}

// ReminderNotice is a due reminder queued for delivery.
type ReminderNotice struct {
	ReminderID string
	GroupID    string
	ItemID     string
	Title      string
	Type       ReminderType
	Date       time.Time
}
