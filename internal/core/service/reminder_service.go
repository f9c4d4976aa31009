package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/boxwise/inventory/internal/core/domain"
	"github.com/boxwise/inventory/internal/core/ports"
)

// dueBatchSize caps how many reminders a single scan hands to the dispatcher.
const dueBatchSize = 500

// ReminderService implements reminder scheduling and completion.
type ReminderService struct {
	reminders ports.ReminderRepository
	items     ports.ItemRepository
	cache     ports.StatsCache
	dedup     DedupChecker
	lead      time.Duration
	log       zerolog.Logger
}

// NewReminderService wires the service. lead is how far ahead of its date a
// reminder becomes due for notification.
func NewReminderService(reminders ports.ReminderRepository, items ports.ItemRepository, cache ports.StatsCache, lead time.Duration, log zerolog.Logger) *ReminderService {
	return &ReminderService{reminders: reminders, items: items, cache: cache, lead: lead, log: log}
}

// WithDedup lets Reopen clear the notification dedup key. A nil dedup
// leaves it unset.
func (s *ReminderService) WithDedup(dedup DedupChecker) *ReminderService {
	s.dedup = dedup
	return s
}

func (s *ReminderService) List(ctx context.Context, actor domain.Actor, in ports.ListRemindersInput) ([]*domain.Reminder, error) {
	filter := ports.ReminderFilter{GroupID: actor.GroupID, ItemID: in.ItemID, Limit: in.Limit}
	now := time.Now().UTC()
	open, done := false, true

	switch domain.ReminderStatus(strings.ToLower(in.Status)) {
	case "", "all":
	case domain.ReminderUpcoming:
		filter.Completed = &open
		filter.DueAfter = now
	case domain.ReminderOverdue:
		filter.Completed = &open
		filter.DueBefore = now
	case domain.ReminderCompleted:
		filter.Completed = &done
	default:
		return nil, domain.Invalid("status must be one of upcoming, overdue, completed, all")
	}

	out, err := s.reminders.List(ctx, filter)
	if err != nil {
		return nil, err
	}
	if out == nil {
		out = []*domain.Reminder{}
	}
	return out, nil
}

func (s *ReminderService) Get(ctx context.Context, actor domain.Actor, id string) (*domain.Reminder, error) {
	return s.reminders.FindByID(ctx, actor.GroupID, id)
}

func (s *ReminderService) Create(ctx context.Context, actor domain.Actor, in ports.ReminderInput) (*domain.Reminder, error) {
	in, err := s.checkInput(ctx, actor.GroupID, in)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	r := &domain.Reminder{
		GroupID:   actor.GroupID,
		CreatedBy: actor.UserID,
		CreatedAt: now,
		UpdatedAt: now,
	}
	applyReminderInput(r, in)
	if err := s.reminders.Create(ctx, r); err != nil {
		return nil, err
	}
	invalidateStats(ctx, s.cache, s.log, actor.GroupID)
	return r, nil
}

// Update edits a reminder. Moving its date re-arms the notification.
func (s *ReminderService) Update(ctx context.Context, actor domain.Actor, id string, in ports.ReminderInput) (*domain.Reminder, error) {
	r, err := s.reminders.FindByID(ctx, actor.GroupID, id)
	if err != nil {
		return nil, err
	}
	in, err = s.checkInput(ctx, actor.GroupID, in)
	if err != nil {
		return nil, err
	}

	if !in.Date.Equal(r.Date) {
		r.NotifiedAt = nil
	}
	applyReminderInput(r, in)
	r.UpdatedAt = time.Now().UTC()
	if err := s.reminders.Update(ctx, r); err != nil {
		return nil, err
	}
	invalidateStats(ctx, s.cache, s.log, actor.GroupID)
	return r, nil
}

func (s *ReminderService) Delete(ctx context.Context, actor domain.Actor, id string) error {
	if err := s.reminders.Delete(ctx, actor.GroupID, id); err != nil {
		return err
	}
	invalidateStats(ctx, s.cache, s.log, actor.GroupID)
	return nil
}

// Complete marks the reminder done. A recurring reminder spawns its next
// occurrence, dated after now. Completing twice is a no-op.
func (s *ReminderService) Complete(ctx context.Context, actor domain.Actor, id string) (*ports.CompleteResult, error) {
	r, err := s.reminders.FindByID(ctx, actor.GroupID, id)
	if err != nil {
		return nil, err
	}
	if r.Completed {
		return &ports.CompleteResult{Completed: r}, nil
	}

	now := time.Now().UTC()
	result := &ports.CompleteResult{Completed: r}

	// A reopened reminder already spawned its successor.
	if r.NextID == "" {
		if next, ok := r.Next(now); ok {
			next.CreatedAt = now
			next.UpdatedAt = now
			if err := s.reminders.Create(ctx, next); err != nil {
				return nil, fmt.Errorf("complete reminder: schedule next: %w", err)
			}
			r.NextID = next.ID
			result.Next = next
			s.log.Info().Str("reminder_id", r.ID).Str("next_id", next.ID).Time("next_date", next.Date).Msg("recurring reminder rescheduled")
		}
	}

	r.Completed = true
	r.CompletedAt = &now
	r.UpdatedAt = now
	if err := s.reminders.Update(ctx, r); err != nil {
		return nil, err
	}
	invalidateStats(ctx, s.cache, s.log, actor.GroupID)
	return result, nil
}

func (s *ReminderService) Reopen(ctx context.Context, actor domain.Actor, id string) (*domain.Reminder, error) {
	r, err := s.reminders.FindByID(ctx, actor.GroupID, id)
	if err != nil {
		return nil, err
	}
	r.Completed = false
	r.CompletedAt = nil
	r.NotifiedAt = nil
	r.UpdatedAt = time.Now().UTC()
	if err := s.reminders.Update(ctx, r); err != nil {
		return nil, err
	}
	if s.dedup != nil {
		if err := s.dedup.Forget(ctx, r.ID, r.Date); err != nil {
			s.log.Warn().Err(err).Str("reminder_id", r.ID).Msg("failed to clear dedup key")
		}
	}
	invalidateStats(ctx, s.cache, s.log, actor.GroupID)
	return r, nil
}

// DueNotices collects open reminders, across all groups, whose date falls
// before now plus the lead time and that were not announced yet.
func (s *ReminderService) DueNotices(ctx context.Context, now time.Time) ([]domain.ReminderNotice, error) {
	due, err := s.reminders.FindDue(ctx, now.Add(s.lead), dueBatchSize)
	if err != nil {
		return nil, fmt.Errorf("find due reminders: %w", err)
	}
	notices := make([]domain.ReminderNotice, 0, len(due))
	for _, r := range due {
		notices = append(notices, domain.ReminderNotice{
			ReminderID: r.ID,
			GroupID:    r.GroupID,
			ItemID:     r.ItemID,
			Title:      r.Title,
			Type:       r.Type,
			Date:       r.Date,
		})
	}
	return notices, nil
}

func (s *ReminderService) checkInput(ctx context.Context, groupID string, in ports.ReminderInput) (ports.ReminderInput, error) {
	in.Title = strings.TrimSpace(in.Title)
	if in.Title == "" {
		return in, domain.Invalid("title is required")
	}
	if in.ItemID == "" {
		return in, domain.Invalid("item_id is required")
	}
	if in.Date.IsZero() {
		return in, domain.Invalid("date is required")
	}
	t, ok := domain.ParseReminderType(string(in.Type))
	if !ok {
		return in, domain.Invalid("type must be one of maintenance, warranty, loan, insurance, other")
	}
	in.Type = t
	if in.Recurring {
		if in.Interval == nil || !in.Interval.Valid() {
			return in, domain.Invalid("recurring reminders need an interval of at least 1 day, week, month or year")
		}
	} else {
		in.Interval = nil
	}

	if _, err := s.items.FindByID(ctx, groupID, in.ItemID); err != nil {
		if errors.Is(err, domain.ErrItemNotFound) {
			return in, domain.Invalid("item not found")
		}
		return in, err
	}
	return in, nil
}

func applyReminderInput(r *domain.Reminder, in ports.ReminderInput) {
	r.ItemID = in.ItemID
	r.Title = in.Title
	r.Type = in.Type
	r.Date = in.Date.UTC()
	r.Notes = strings.TrimSpace(in.Notes)
	r.Recurring = in.Recurring
	r.Interval = in.Interval
}
