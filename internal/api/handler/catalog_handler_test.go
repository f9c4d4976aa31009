package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"testing"
	"time"

	"github.com/boxwise/inventory/internal/core/domain"
	"github.com/boxwise/inventory/internal/core/ports"
)

type stubLocationService struct {
	ports.LocationService
	getFn    func(ctx context.Context, actor domain.Actor, id string) (*ports.LocationDetail, error)
	deleteFn func(ctx context.Context, actor domain.Actor, id string) error
}

func (s *stubLocationService) Get(ctx context.Context, actor domain.Actor, id string) (*ports.LocationDetail, error) {
	return s.getFn(ctx, actor, id)
}

func (s *stubLocationService) Delete(ctx context.Context, actor domain.Actor, id string) error {
	return s.deleteFn(ctx, actor, id)
}

func TestLocationHandler_Get(t *testing.T) {
	stub := &stubLocationService{
		getFn: func(_ context.Context, _ domain.Actor, id string) (*ports.LocationDetail, error) {
			if id != "garage" {
				return nil, domain.ErrLocationNotFound
			}
			return &ports.LocationDetail{
				Location:   &domain.Location{ID: "garage", Name: "Garage", ParentID: "house"},
				Breadcrumb: []domain.Location{{ID: "house", Name: "House"}, {ID: "garage", Name: "Garage"}},
				Children:   []domain.Location{},
				ItemCount:  4,
			}, nil
		},
	}
	h := NewLocationHandler(stub)

	c, rec := newContext(http.MethodGet, "/api/locations/garage", "", &testActor)
	if err := h.Get(withParam(c, "id", "garage")); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	var got locationDetailResponse
	decodeData(t, rec, &got)
	if len(got.Breadcrumb) != 2 || got.ItemCount != 4 {
		t.Fatalf("unexpected detail: %+v", got)
	}

	c, _ = newContext(http.MethodGet, "/api/locations/nope", "", &testActor)
	if err := h.Get(withParam(c, "id", "nope")); !errors.Is(err, domain.ErrLocationNotFound) {
		t.Fatalf("expected ErrLocationNotFound, got %v", err)
	}
}

func TestLocationHandler_DeleteInUse(t *testing.T) {
	stub := &stubLocationService{
		deleteFn: func(context.Context, domain.Actor, string) error { return domain.ErrLocationInUse },
	}
	c, _ := newContext(http.MethodDelete, "/api/locations/house", "", &testActor)
	if err := NewLocationHandler(stub).Delete(withParam(c, "id", "house")); !errors.Is(err, domain.ErrLocationInUse) {
		t.Fatalf("expected ErrLocationInUse, got %v", err)
	}
}

type stubLabelService struct {
	ports.LabelService
	createFn func(ctx context.Context, actor domain.Actor, in ports.LabelInput) (*domain.Label, error)
}

func (s *stubLabelService) Create(ctx context.Context, actor domain.Actor, in ports.LabelInput) (*domain.Label, error) {
	return s.createFn(ctx, actor, in)
}

func TestLabelHandler_CreateValidatesColor(t *testing.T) {
	stub := &stubLabelService{
		createFn: func(_ context.Context, _ domain.Actor, in ports.LabelInput) (*domain.Label, error) {
			return &domain.Label{ID: "l1", Name: in.Name, Color: in.Color}, nil
		},
	}
	h := NewLabelHandler(stub)

	tests := []struct {
		body string
		ok   bool
	}{
		{`{"name":"Fragile","color":"#ff0000"}`, true},
		{`{"name":"Fragile"}`, true},
		{`{"name":"Fragile","color":"red"}`, false},
		{`{"color":"#ff0000"}`, false},
	}
	for _, tc := range tests {
		c, rec := newContext(http.MethodPost, "/api/labels", tc.body, &testActor)
		err := h.Create(c)
		if tc.ok && (err != nil || rec.Code != http.StatusCreated) {
			t.Errorf("%s: expected 201, got %d (%v)", tc.body, rec.Code, err)
		}
		if !tc.ok && !domain.IsValidation(err) {
			t.Errorf("%s: expected validation error, got %v", tc.body, err)
		}
	}
}

type stubReminderService struct {
	ports.ReminderService
	listFn     func(ctx context.Context, actor domain.Actor, in ports.ListRemindersInput) ([]*domain.Reminder, error)
	createFn   func(ctx context.Context, actor domain.Actor, in ports.ReminderInput) (*domain.Reminder, error)
	completeFn func(ctx context.Context, actor domain.Actor, id string) (*ports.CompleteResult, error)
}

func (s *stubReminderService) List(ctx context.Context, actor domain.Actor, in ports.ListRemindersInput) ([]*domain.Reminder, error) {
	return s.listFn(ctx, actor, in)
}

func (s *stubReminderService) Create(ctx context.Context, actor domain.Actor, in ports.ReminderInput) (*domain.Reminder, error) {
	return s.createFn(ctx, actor, in)
}

func (s *stubReminderService) Complete(ctx context.Context, actor domain.Actor, id string) (*ports.CompleteResult, error) {
	return s.completeFn(ctx, actor, id)
}

func TestReminderHandler_ListAddsStatus(t *testing.T) {
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	var got ports.ListRemindersInput
	stub := &stubReminderService{
		listFn: func(_ context.Context, _ domain.Actor, in ports.ListRemindersInput) ([]*domain.Reminder, error) {
			got = in
			return []*domain.Reminder{
				{ID: "r1", Date: now.Add(-time.Hour)},
				{ID: "r2", Date: now.Add(time.Hour)},
				{ID: "r3", Date: now.Add(-time.Hour), Completed: true},
			}, nil
		},
	}
	h := NewReminderHandler(stub)
	h.now = func() time.Time { return now }

	c, rec := newContext(http.MethodGet, "/api/reminders?status=all&item_id=i1", "", &testActor)
	if err := h.List(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if got.Status != "all" || got.ItemID != "i1" {
		t.Fatalf("query not forwarded: %+v", got)
	}
	var body []struct {
		ID     string `json:"id"`
		Status string `json:"status"`
	}
	decodeData(t, rec, &body)
	want := []string{"overdue", "upcoming", "completed"}
	for i, r := range body {
		if r.Status != want[i] {
			t.Errorf("%s status = %q, want %q", r.ID, r.Status, want[i])
		}
	}
}

func TestReminderHandler_Create(t *testing.T) {
	var got ports.ReminderInput
	stub := &stubReminderService{
		createFn: func(_ context.Context, _ domain.Actor, in ports.ReminderInput) (*domain.Reminder, error) {
			got = in
			return &domain.Reminder{ID: "r1", Date: in.Date, Interval: in.Interval, Recurring: in.Recurring}, nil
		},
	}
	h := NewReminderHandler(stub)

	body := `{"item_id":"i1","title":"Filter","type":"maintenance","date":"2030-01-15","recurring":true,"interval":{"every":3,"unit":"month"}}`
	c, rec := newContext(http.MethodPost, "/api/reminders", body, &testActor)
	if err := h.Create(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d", rec.Code)
	}
	if got.Type != domain.ReminderMaintenance || got.Interval == nil || got.Interval.Unit != domain.UnitMonth || got.Interval.Every != 3 {
		t.Fatalf("unexpected input: %+v", got)
	}
	if !got.Date.Equal(time.Date(2030, 1, 15, 0, 0, 0, 0, time.UTC)) {
		t.Fatalf("unexpected date: %v", got.Date)
	}

	c, _ = newContext(http.MethodPost, "/api/reminders", `{"item_id":"i1","title":"x","interval":{"every":1,"unit":"fortnight"}}`, &testActor)
	if err := h.Create(c); !domain.IsValidation(err) {
		t.Fatalf("expected validation error for unknown unit, got %v", err)
	}
}

func TestReminderHandler_CompleteReturnsNext(t *testing.T) {
	next := time.Now().Add(7 * 24 * time.Hour)
	stub := &stubReminderService{
		completeFn: func(_ context.Context, _ domain.Actor, id string) (*ports.CompleteResult, error) {
			return &ports.CompleteResult{
				Completed: &domain.Reminder{ID: id, Completed: true},
				Next:      &domain.Reminder{ID: "r2", Date: next},
			}, nil
		},
	}
	c, rec := newContext(http.MethodPost, "/api/reminders/r1/complete", "", &testActor)
	if err := NewReminderHandler(stub).Complete(withParam(c, "id", "r1")); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	var body struct {
		Completed struct {
			Status string `json:"status"`
		} `json:"completed"`
		Next *struct {
			ID     string `json:"id"`
			Status string `json:"status"`
		} `json:"next"`
	}
	decodeData(t, rec, &body)
	if body.Completed.Status != "completed" || body.Next == nil || body.Next.Status != "upcoming" {
		t.Fatalf("unexpected body: %+v", body)
	}
}

type stubDashboardService struct {
	summary *ports.DashboardSummary
}

func (s *stubDashboardService) Summary(context.Context, domain.Actor) (*ports.DashboardSummary, error) {
	return s.summary, nil
}

func TestDashboardHandler_Summary(t *testing.T) {
	stub := &stubDashboardService{summary: &ports.DashboardSummary{
		Stats:       domain.Stats{Items: 7},
		TotalValue:  120.5,
		RecentItems: []*domain.Item{},
	}}
	c, rec := newContext(http.MethodGet, "/api/dashboard", "", &testActor)
	if err := NewDashboardHandler(stub).Summary(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	var got ports.DashboardSummary
	decodeData(t, rec, &got)
	if got.Stats.Items != 7 || got.TotalValue != 120.5 {
		t.Fatalf("unexpected summary: %+v", got)
	}
}

func TestHealthHandler_Readiness(t *testing.T) {
	ok := PingFunc(func(context.Context) error { return nil })
	down := PingFunc(func(context.Context) error { return errors.New("connection refused") })

	tests := []struct {
		name     string
		deps     []NamedPinger
		wantCode int
		wantKeys int
	}{
		{"all up", []NamedPinger{{"mongodb", ok}, {"redis", ok}}, http.StatusOK, 2},
		{"redis down", []NamedPinger{{"mongodb", ok}, {"redis", down}}, http.StatusServiceUnavailable, 2},
		{"redis disabled", []NamedPinger{{"mongodb", ok}, {"redis", nil}}, http.StatusOK, 1},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			c, rec := newContext(http.MethodGet, "/health/ready", "", nil)
			if err := NewHealthHandler(tc.deps...).Readiness(c); err != nil {
				t.Fatalf("handler error: %v", err)
			}
			if rec.Code != tc.wantCode {
				t.Fatalf("expected %d, got %d", tc.wantCode, rec.Code)
			}
			var body readinessResponse
			if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
				t.Fatalf("invalid json: %v", err)
			}
			if len(body.Dependencies) != tc.wantKeys {
				t.Fatalf("unexpected dependencies: %+v", body.Dependencies)
			}
		})
	}
}
