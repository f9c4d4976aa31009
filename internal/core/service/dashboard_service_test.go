package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/boxwise/inventory/internal/core/domain"
	"github.com/boxwise/inventory/internal/core/ports"
)

func TestDashboardService_Summary(t *testing.T) {
	f := newFixture()
	svc := NewDashboardService(f.items, f.locations, f.categories, f.labels, f.reminders, f.cache, nopLog)
	ctx := context.Background()
	now := time.Now()
	soon := now.Add(10 * 24 * time.Hour)
	later := now.Add(90 * 24 * time.Hour)

	loc := f.location("House", "")
	f.category("Tools")
	f.label("Red")

	items := []*domain.Item{
		{GroupID: f.group.ID, Name: "Drill", Quantity: 2, LocationID: loc, Purchase: domain.Purchase{Price: 50}, Warranty: domain.Warranty{Expires: &soon}},
		{GroupID: f.group.ID, Name: "Tent", Quantity: 1, LocationID: loc, Purchase: domain.Purchase{Price: 100}, Loan: &domain.Loan{Borrower: "Sam", LoanedAt: now}},
		{GroupID: f.group.ID, Name: "TV", Quantity: 1, LocationID: loc, Warranty: domain.Warranty{Expires: &later}},
		{GroupID: f.group.ID, Name: "Old", Quantity: 1, LocationID: loc, Purchase: domain.Purchase{Price: 999}, Archived: true},
	}
	for _, it := range items {
		_ = f.items.Create(ctx, it)
	}
	for _, r := range []*domain.Reminder{
		{GroupID: f.group.ID, Title: "a", Date: now.Add(-time.Hour)},
		{GroupID: f.group.ID, Title: "b", Date: now.Add(time.Hour)},
		{GroupID: f.group.ID, Title: "c", Date: now.Add(-time.Hour), Completed: true},
	} {
		_ = f.reminders.Create(ctx, r)
	}

	s, err := svc.Summary(ctx, f.owner)
	if err != nil {
		t.Fatalf("Summary failed: %v", err)
	}

	want := domain.Stats{Items: 3, ArchivedItems: 1, ItemsOnLoan: 1, LoansEver: 1, Locations: 1, Categories: 1, Labels: 1, CompletedReminders: 1}
	if s.Stats != want {
		t.Fatalf("stats = %+v, want %+v", s.Stats, want)
	}
	if s.TotalValue != 200 {
		t.Fatalf("expected total value 200, got %v", s.TotalValue)
	}
	if s.OverdueReminders != 1 || s.UpcomingReminders != 1 {
		t.Fatalf("unexpected reminder counts: overdue=%d upcoming=%d", s.OverdueReminders, s.UpcomingReminders)
	}
	if s.ExpiringWarranties != 1 {
		t.Fatalf("expected 1 expiring warranty, got %d", s.ExpiringWarranties)
	}
	if len(s.RecentItems) != 3 || s.RecentItems[0].Name != "TV" {
		t.Fatalf("unexpected recent items: %d", len(s.RecentItems))
	}
	if s.Progress.Points != 3*10+5+3+2+4 {
		t.Fatalf("unexpected points: %d", s.Progress.Points)
	}
	if _, ok := f.cache.data[f.group.ID]; !ok {
		t.Fatalf("expected summary cached")
	}
}

func TestDashboardService_ServesFromCache(t *testing.T) {
	f := newFixture()
	svc := NewDashboardService(f.items, f.locations, f.categories, f.labels, f.reminders, f.cache, nopLog)
	cached := &ports.DashboardSummary{TotalValue: 42}
	f.cache.data[f.group.ID] = cached

	s, err := svc.Summary(context.Background(), f.owner)
	if err != nil {
		t.Fatalf("Summary failed: %v", err)
	}
	if s != cached {
		t.Fatalf("expected cached summary to be returned")
	}
}

func TestDashboardService_CacheErrorFallsBack(t *testing.T) {
	f := newFixture()
	f.cache.getErr = errors.New("redis down")
	svc := NewDashboardService(f.items, f.locations, f.categories, f.labels, f.reminders, f.cache, nopLog)

	s, err := svc.Summary(context.Background(), f.owner)
	if err != nil {
		t.Fatalf("expected recompute when cache fails, got %v", err)
	}
	if s.RecentItems == nil {
		t.Fatalf("expected empty, non-nil recent items")
	}
}

func TestDashboardService_WithoutCache(t *testing.T) {
	f := newFixture()
	svc := NewDashboardService(f.items, f.locations, f.categories, f.labels, f.reminders, nil, nopLog)

	if _, err := svc.Summary(context.Background(), f.owner); err != nil {
		t.Fatalf("Summary failed: %v", err)
	}
}
