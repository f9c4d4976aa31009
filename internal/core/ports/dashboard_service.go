package ports

import (
	"context"
	"io"

	"github.com/boxwise/inventory/internal/core/domain"
)

// DashboardSummary is the group overview shown on the landing page.
type DashboardSummary struct {
	Stats              domain.Stats    `json:"stats"`
	TotalValue         float64         `json:"total_value"`
	UpcomingReminders  int64           `json:"upcoming_reminders"`
	OverdueReminders   int64           `json:"overdue_reminders"`
	ExpiringWarranties int64           `json:"expiring_warranties"`
	RecentItems        []*domain.Item  `json:"recent_items"`
	Progress           domain.Progress `json:"progress"`
}

// DashboardService builds the group overview.
type DashboardService interface {
	Summary(ctx context.Context, actor domain.Actor) (*DashboardSummary, error)
}

// StatsCache stores dashboard summaries per group.
type StatsCache interface {
	Get(ctx context.Context, groupID string) (*DashboardSummary, bool, error)
	Set(ctx context.Context, groupID string, summary *DashboardSummary) error
	Invalidate(ctx context.Context, groupID string) error
}

// ImportRowError describes why one CSV row was rejected.
type ImportRowError struct {
	Row     int    `json:"row"`
	Message string `json:"message"`
}

// ImportReport summarises a CSV import.
type ImportReport struct {
	BatchID  string           `json:"batch_id"`
	Total    int              `json:"total"`
	Imported int              `json:"imported"`
	Failed   int              `json:"failed"`
	Errors   []ImportRowError `json:"errors"`
}

// ExportInput selects what to export.
type ExportInput struct {
	IncludeArchived bool
}

// TransferService moves items in and out as CSV.
type TransferService interface {
	// Export writes the CSV and returns the number of item rows written.
	Export(ctx context.Context, actor domain.Actor, w io.Writer, input ExportInput) (int, error)
	Import(ctx context.Context, actor domain.Actor, r io.Reader) (*ImportReport, error)
}

// NotificationService delivers a single due reminder.
type NotificationService interface {
	Notify(ctx context.Context, notice domain.ReminderNotice) error
}

// Mailer sends an HTML email.
type Mailer interface {
	Send(ctx context.Context, to []string, subject, html string) error
}
