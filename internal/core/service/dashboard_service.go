package service

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/boxwise/inventory/internal/core/domain"
	"github.com/boxwise/inventory/internal/core/ports"
)

const (
	warrantyWindow  = 30 * 24 * time.Hour
	recentItemCount = 5
)

// DashboardService aggregates the group overview, reading through the
// stats cache when one is configured.
type DashboardService struct {
	items      ports.ItemRepository
	locations  ports.LocationRepository
	categories ports.CategoryRepository
	labels     ports.LabelRepository
	reminders  ports.ReminderRepository
	cache      ports.StatsCache
	log        zerolog.Logger
}

func NewDashboardService(
	items ports.ItemRepository,
	locations ports.LocationRepository,
	categories ports.CategoryRepository,
	labels ports.LabelRepository,
	reminders ports.ReminderRepository,
	cache ports.StatsCache,
	log zerolog.Logger,
) *DashboardService {
	return &DashboardService{
		items:      items,
		locations:  locations,
		categories: categories,
		labels:     labels,
		reminders:  reminders,
		cache:      cache,
		log:        log,
	}
}

func (s *DashboardService) Summary(ctx context.Context, actor domain.Actor) (*ports.DashboardSummary, error) {
	if s.cache != nil {
		cached, ok, err := s.cache.Get(ctx, actor.GroupID)
		if err != nil {
			s.log.Warn().Err(err).Str("group_id", actor.GroupID).Msg("dashboard cache read failed, recomputing")
		} else if ok {
			return cached, nil
		}
	}

	summary, err := s.compute(ctx, actor.GroupID, time.Now().UTC())
	if err != nil {
		return nil, fmt.Errorf("dashboard summary: %w", err)
	}

	if s.cache != nil {
		if err := s.cache.Set(ctx, actor.GroupID, summary); err != nil {
			s.log.Warn().Err(err).Str("group_id", actor.GroupID).Msg("failed to cache dashboard")
		}
	}
	return summary, nil
}

func (s *DashboardService) compute(ctx context.Context, groupID string, now time.Time) (*ports.DashboardSummary, error) {
	active, archived, onLoan, open, done := false, true, true, false, true
	var (
		stats domain.Stats
		err   error
	)

	if stats.Items, err = s.items.Count(ctx, ports.ItemFilter{GroupID: groupID, Archived: &active}); err != nil {
		return nil, err
	}
	if stats.ArchivedItems, err = s.items.Count(ctx, ports.ItemFilter{GroupID: groupID, Archived: &archived}); err != nil {
		return nil, err
	}
	if stats.ItemsOnLoan, err = s.items.Count(ctx, ports.ItemFilter{GroupID: groupID, OnLoan: &onLoan}); err != nil {
		return nil, err
	}
	if stats.LoansEver, err = s.items.CountLoansEver(ctx, groupID); err != nil {
		return nil, err
	}
	if stats.Locations, err = s.locations.Count(ctx, groupID); err != nil {
		return nil, err
	}
	if stats.Categories, err = s.categories.Count(ctx, groupID); err != nil {
		return nil, err
	}
	if stats.Labels, err = s.labels.Count(ctx, groupID); err != nil {
		return nil, err
	}
	if stats.CompletedReminders, err = s.reminders.Count(ctx, ports.ReminderFilter{GroupID: groupID, Completed: &done}); err != nil {
		return nil, err
	}

	summary := &ports.DashboardSummary{Stats: stats, Progress: domain.Score(stats)}

	if summary.TotalValue, err = s.items.TotalValue(ctx, groupID); err != nil {
		return nil, err
	}
	if summary.UpcomingReminders, err = s.reminders.Count(ctx, ports.ReminderFilter{GroupID: groupID, Completed: &open, DueAfter: now}); err != nil {
		return nil, err
	}
	if summary.OverdueReminders, err = s.reminders.Count(ctx, ports.ReminderFilter{GroupID: groupID, Completed: &open, DueBefore: now}); err != nil {
		return nil, err
	}
	if summary.ExpiringWarranties, err = s.items.Count(ctx, ports.ItemFilter{
		GroupID:               groupID,
		Archived:              &active,
		WarrantyExpiresAfter:  now,
		WarrantyExpiresBefore: now.Add(warrantyWindow),
	}); err != nil {
		return nil, err
	}

	recent, _, err := s.items.List(ctx, ports.ItemFilter{
		GroupID:  groupID,
		Archived: &active,
		Sort:     "created_at",
		Desc:     true,
		Page:     1,
		Limit:    recentItemCount,
	})
	if err != nil {
		return nil, err
	}
	if recent == nil {
		recent = []*domain.Item{}
	}
	summary.RecentItems = recent
	return summary, nil
}
