package handler

import (
	"context"
	"errors"
	"net/http"
	"testing"

	"github.com/boxwise/inventory/internal/core/domain"
	"github.com/boxwise/inventory/internal/core/ports"
)

type stubAuthService struct {
	ports.AuthService
	registerFn func(ctx context.Context, in ports.RegisterInput) (*ports.AuthResult, error)
	loginFn    func(ctx context.Context, email, password string) (*ports.AuthResult, error)
	meFn       func(ctx context.Context, actor domain.Actor) (*ports.Profile, error)
}

func (s *stubAuthService) Register(ctx context.Context, in ports.RegisterInput) (*ports.AuthResult, error) {
	return s.registerFn(ctx, in)
}

func (s *stubAuthService) Login(ctx context.Context, email, password string) (*ports.AuthResult, error) {
	return s.loginFn(ctx, email, password)
}

func (s *stubAuthService) Me(ctx context.Context, actor domain.Actor) (*ports.Profile, error) {
	return s.meFn(ctx, actor)
}

func TestAuthHandler_Register_Success(t *testing.T) {
	stub := &stubAuthService{
		registerFn: func(_ context.Context, in ports.RegisterInput) (*ports.AuthResult, error) {
			if in.Name != "Olive" || in.Email != "olive@example.com" || in.GroupName != "Home" {
				t.Fatalf("unexpected input: %+v", in)
			}
			return &ports.AuthResult{Token: "tok", User: &domain.User{ID: "u1", Name: in.Name, Email: in.Email, Role: domain.RoleOwner}}, nil
		},
	}
	c, rec := newContext(http.MethodPost, "/api/auth/register",
		`{"name":"Olive","email":"olive@example.com","password":"secret123","group_name":"Home"}`, nil)

	if err := NewAuthHandler(stub).Register(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d", rec.Code)
	}
	var got struct {
		Token string `json:"token"`
		User  struct {
			Role string `json:"role"`
		} `json:"user"`
	}
	decodeData(t, rec, &got)
	if got.Token != "tok" || got.User.Role != "owner" {
		t.Fatalf("unexpected payload: %+v", got)
	}
}

func TestAuthHandler_Register_Errors(t *testing.T) {
	tests := []struct {
		name    string
		body    string
		svcErr  error
		wantErr func(error) bool
	}{
		{
			name:    "malformed json",
			body:    "not-json",
			wantErr: func(err error) bool { return httpCode(err) == http.StatusBadRequest },
		},
		{
			name:    "short password",
			body:    `{"name":"Olive","email":"olive@example.com","password":"short"}`,
			wantErr: domain.IsValidation,
		},
		{
			name:    "bad email",
			body:    `{"name":"Olive","email":"nope","password":"secret123"}`,
			wantErr: domain.IsValidation,
		},
		{
			name:    "email taken",
			body:    `{"name":"Olive","email":"olive@example.com","password":"secret123"}`,
			svcErr:  domain.ErrUserExists,
			wantErr: func(err error) bool { return errors.Is(err, domain.ErrUserExists) },
		},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			called := false
			stub := &stubAuthService{
				registerFn: func(context.Context, ports.RegisterInput) (*ports.AuthResult, error) {
					called = true
					return nil, tc.svcErr
				},
			}
			c, _ := newContext(http.MethodPost, "/api/auth/register", tc.body, nil)

			err := NewAuthHandler(stub).Register(c)
			if !tc.wantErr(err) {
				t.Fatalf("unexpected error: %v", err)
			}
			if called != (tc.svcErr != nil) {
				t.Fatalf("service called = %v", called)
			}
		})
	}
}

func TestAuthHandler_Login(t *testing.T) {
	stub := &stubAuthService{
		loginFn: func(_ context.Context, email, password string) (*ports.AuthResult, error) {
			if email != "olive@example.com" || password != "secret123" {
				return nil, domain.ErrInvalidCredentials
			}
			return &ports.AuthResult{Token: "tok", User: &domain.User{ID: "u1"}}, nil
		},
	}
	h := NewAuthHandler(stub)

	c, rec := newContext(http.MethodPost, "/api/auth/login", `{"email":"olive@example.com","password":"secret123"}`, nil)
	if err := h.Login(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	c, _ = newContext(http.MethodPost, "/api/auth/login", `{"email":"olive@example.com","password":"wrong"}`, nil)
	if err := h.Login(c); !errors.Is(err, domain.ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials, got %v", err)
	}
}

func TestAuthHandler_Me(t *testing.T) {
	stub := &stubAuthService{
		meFn: func(_ context.Context, actor domain.Actor) (*ports.Profile, error) {
			return &ports.Profile{
				User:        &domain.User{ID: actor.UserID, Role: actor.Role},
				Permissions: domain.PermissionsFor(actor.Role),
				Group:       &domain.Group{ID: actor.GroupID, Name: "Home", Members: []domain.Member{{UserID: actor.UserID}}},
			}, nil
		},
	}
	h := NewAuthHandler(stub)

	c, _ := newContext(http.MethodGet, "/api/auth/me", "", nil)
	if err := h.Me(c); httpCode(err) != http.StatusUnauthorized {
		t.Fatalf("expected 401 without actor, got %v", err)
	}

	viewer := testActor
	viewer.Role = domain.RoleViewer
	c, rec := newContext(http.MethodGet, "/api/auth/me", "", &viewer)
	if err := h.Me(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	var got profileResponse
	decodeData(t, rec, &got)
	if !got.Permissions.CanView || got.Permissions.CanEdit {
		t.Fatalf("unexpected permissions: %+v", got.Permissions)
	}
	if got.Group == nil || got.Group.Members != 1 || got.Group.Name != "Home" {
		t.Fatalf("unexpected group summary: %+v", got.Group)
	}
}

type stubUserService struct {
	ports.UserService
	createFn func(ctx context.Context, actor domain.Actor, in ports.CreateUserInput) (*domain.User, error)
	deleteFn func(ctx context.Context, actor domain.Actor, id string) error
}

func (s *stubUserService) Create(ctx context.Context, actor domain.Actor, in ports.CreateUserInput) (*domain.User, error) {
	return s.createFn(ctx, actor, in)
}

func (s *stubUserService) Delete(ctx context.Context, actor domain.Actor, id string) error {
	return s.deleteFn(ctx, actor, id)
}

func TestUserHandler_Create(t *testing.T) {
	stub := &stubUserService{
		createFn: func(_ context.Context, actor domain.Actor, in ports.CreateUserInput) (*domain.User, error) {
			if actor.GroupID != "g1" || in.Role != domain.RoleViewer {
				t.Fatalf("unexpected call: %+v %+v", actor, in)
			}
			return &domain.User{ID: "u2", Role: in.Role}, nil
		},
	}
	h := NewUserHandler(stub)

	c, rec := newContext(http.MethodPost, "/api/users", `{"name":"Sam","email":"sam@example.com","password":"secret123","role":"viewer"}`, &testActor)
	if err := h.Create(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d", rec.Code)
	}

	// Owners are never created through this endpoint.
	c, _ = newContext(http.MethodPost, "/api/users", `{"name":"Sam","email":"sam@example.com","password":"secret123","role":"owner"}`, &testActor)
	if err := h.Create(c); !domain.IsValidation(err) {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestUserHandler_Delete(t *testing.T) {
	stub := &stubUserService{
		deleteFn: func(_ context.Context, _ domain.Actor, id string) error {
			if id == "u1" {
				return domain.ErrForbidden
			}
			return nil
		},
	}
	h := NewUserHandler(stub)

	c, rec := newContext(http.MethodDelete, "/api/users/u2", "", &testActor)
	if err := h.Delete(withParam(c, "id", "u2")); err != nil || rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d (%v)", rec.Code, err)
	}
	c, _ = newContext(http.MethodDelete, "/api/users/u1", "", &testActor)
	if err := h.Delete(withParam(c, "id", "u1")); !errors.Is(err, domain.ErrForbidden) {
		t.Fatalf("expected ErrForbidden, got %v", err)
	}
}

type stubGroupService struct {
	ports.GroupService
	changePlanFn func(ctx context.Context, actor domain.Actor, in ports.ChangePlanInput) (*ports.SubscriptionView, error)
	updateFn     func(ctx context.Context, actor domain.Actor, in ports.GroupSettingsInput) (*domain.Group, error)
}

func (s *stubGroupService) ChangePlan(ctx context.Context, actor domain.Actor, in ports.ChangePlanInput) (*ports.SubscriptionView, error) {
	return s.changePlanFn(ctx, actor, in)
}

func (s *stubGroupService) UpdateSettings(ctx context.Context, actor domain.Actor, in ports.GroupSettingsInput) (*domain.Group, error) {
	return s.updateFn(ctx, actor, in)
}

func TestGroupHandler_ChangePlan(t *testing.T) {
	stub := &stubGroupService{
		changePlanFn: func(_ context.Context, _ domain.Actor, in ports.ChangePlanInput) (*ports.SubscriptionView, error) {
			return &ports.SubscriptionView{
				Subscription: domain.Subscription{Plan: in.Plan, Status: domain.SubscriptionActive},
				Limits:       in.Plan.Limits(),
				Usage:        ports.Usage{Items: 12, Members: 2},
			}, nil
		},
	}
	h := NewGroupHandler(stub)

	c, rec := newContext(http.MethodPut, "/api/subscriptions", `{"plan":"pro"}`, &testActor)
	if err := h.ChangePlan(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	var got subscriptionResponse
	decodeData(t, rec, &got)
	if got.Subscription.Plan != domain.PlanPro || got.Usage.Items != 12 {
		t.Fatalf("unexpected payload: %+v", got)
	}

	c, _ = newContext(http.MethodPut, "/api/subscriptions", `{"plan":"platinum"}`, &testActor)
	if err := h.ChangePlan(c); !domain.IsValidation(err) {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestGroupHandler_UpdateLeavesAbsentFields(t *testing.T) {
	var got ports.GroupSettingsInput
	stub := &stubGroupService{
		updateFn: func(_ context.Context, _ domain.Actor, in ports.GroupSettingsInput) (*domain.Group, error) {
			got = in
			return &domain.Group{ID: "g1"}, nil
		},
	}
	c, _ := newContext(http.MethodPut, "/api/admin/group", `{"asset_id_prefix":"HOME"}`, &testActor)
	if err := NewGroupHandler(stub).Update(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if got.AssetIDPrefix == nil || *got.AssetIDPrefix != "HOME" {
		t.Fatalf("expected prefix to be passed, got %+v", got)
	}
	if got.Name != nil || got.AssetIDPadding != nil || got.AssetAutoAssign != nil {
		t.Fatalf("absent fields must stay nil: %+v", got)
	}
}
