package service

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"html/template"
	"time"

	"github.com/rs/zerolog"

	"github.com/boxwise/inventory/internal/core/domain"
	"github.com/boxwise/inventory/internal/core/ports"
)

// DedupChecker abstracts the notification idempotency store (Redis).
type DedupChecker interface {
	IsDuplicate(ctx context.Context, reminderID string, due time.Time) (bool, error)
	Mark(ctx context.Context, reminderID string, due time.Time) error
	Forget(ctx context.Context, reminderID string, due time.Time) error
}

var reminderMail = template.Must(template.New("reminder").Parse(`
<div style="font-family: Arial, sans-serif; max-width: 600px; margin: auto; padding: 20px; border: 1px solid #ddd; border-radius: 8px;">
	<h2 style="color: #333;">{{.Title}}</h2>
	<p>{{if .Overdue}}This reminder was due on{{else}}This reminder is due on{{end}} <strong>{{.Date}}</strong>.</p>
	{{if .Item}}<p>Item: <strong>{{.Item}}</strong>{{if .AssetID}} ({{.AssetID}}){{end}}</p>{{end}}
	<p>Type: {{.Type}}</p>
	{{if .Notes}}<p>{{.Notes}}</p>{{end}}
	<p style="color: #777;">You receive this because email reminders are enabled for your Boxwise account.</p>
</div>`))

type reminderMailData struct {
	Title   string
	Date    string
	Overdue bool
	Item    string
	AssetID string
	Type    domain.ReminderType
	Notes   string
}

type notificationService struct {
	reminders ports.ReminderRepository
	items     ports.ItemRepository
	users     ports.UserRepository
	mailer    ports.Mailer
	dedup     DedupChecker
	log       zerolog.Logger
}

// NewNotificationService returns a NotificationService that emails due
// reminders to the members of their group. dedup may be nil, in which case
// notified_at alone prevents repeats.
func NewNotificationService(
	reminders ports.ReminderRepository,
	items ports.ItemRepository,
	users ports.UserRepository,
	mailer ports.Mailer,
	dedup DedupChecker,
	log zerolog.Logger,
) ports.NotificationService {
	return &notificationService{
		reminders: reminders,
		items:     items,
		users:     users,
		mailer:    mailer,
		dedup:     dedup,
		log:       log,
	}
}

// Notify delivers one due reminder. Owners and admins are always mailed;
// other members only when they enabled email reminders.
func (s *notificationService) Notify(ctx context.Context, n domain.ReminderNotice) error {
	r, err := s.reminders.FindByID(ctx, n.GroupID, n.ReminderID)
	if errors.Is(err, domain.ErrReminderNotFound) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("notify: load reminder: %w", err)
	}
	if r.Completed || r.NotifiedAt != nil {
		return nil
	}

	if s.dedup != nil {
		isDup, err := s.dedup.IsDuplicate(ctx, n.ReminderID, n.Date)
		if err != nil {
			s.log.Warn().Err(err).Str("reminder_id", n.ReminderID).Msg("dedup check failed, notifying anyway")
		} else if isDup {
			// Mail went out but notified_at was never written. Settle it so the
			// reminder leaves the due sweep.
			s.log.Debug().Str("reminder_id", n.ReminderID).Msg("duplicate notice skipped")
			if err := s.reminders.MarkNotified(ctx, r.ID, time.Now().UTC()); err != nil {
				return fmt.Errorf("notify: mark notified: %w", err)
			}
			return nil
		}
	}

	members, err := s.users.ListByGroup(ctx, n.GroupID)
	if err != nil {
		return fmt.Errorf("notify: load members: %w", err)
	}
	var to []string
	for _, u := range members {
		if u.Role.AtLeast(domain.RoleAdmin) || u.Preferences.EmailReminders {
			to = append(to, u.Email)
		}
	}

	if len(to) > 0 {
		body, err := s.render(ctx, r)
		if err != nil {
			return fmt.Errorf("notify: render: %w", err)
		}
		if err := s.mailer.Send(ctx, to, "Reminder: "+r.Title, body); err != nil {
			return fmt.Errorf("notify: send: %w", err)
		}
	}

	if s.dedup != nil {
		if err := s.dedup.Mark(ctx, n.ReminderID, n.Date); err != nil {
			s.log.Warn().Err(err).Str("reminder_id", n.ReminderID).Msg("failed to set dedup key")
		}
	}
	if err := s.reminders.MarkNotified(ctx, r.ID, time.Now().UTC()); err != nil {
		return fmt.Errorf("notify: mark notified: %w", err)
	}

	s.log.Info().
		Str("reminder_id", r.ID).
		Str("group_id", n.GroupID).
		Int("recipients", len(to)).
		Msg("reminder notified")
	return nil
}

func (s *notificationService) render(ctx context.Context, r *domain.Reminder) (string, error) {
	data := reminderMailData{
		Title:   r.Title,
		Date:    r.Date.Format("Mon, 02 Jan 2006"),
		Overdue: r.Date.Before(time.Now()),
		Type:    r.Type,
		Notes:   r.Notes,
	}
	if item, err := s.items.FindByID(ctx, r.GroupID, r.ItemID); err == nil {
		data.Item = item.Name
		data.AssetID = item.AssetID
	}

	var buf bytes.Buffer
	if err := reminderMail.Execute(&buf, data); err != nil {
		return "", err
	}
	return buf.String(), nil
}
