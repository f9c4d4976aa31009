package service

import (
	"context"
	"errors"
	"testing"

	"github.com/boxwise/inventory/internal/core/domain"
	"github.com/boxwise/inventory/internal/core/ports"
)

func TestUserService_Create_RoleRules(t *testing.T) {
	f := newFixture()
	f.group.Subscription.Plan = domain.PlanPro
	_ = f.groups.Update(context.Background(), f.group)
	svc := NewUserService(f.users, f.groups, nopLog)
	ctx := context.Background()

	admin, err := svc.Create(ctx, f.owner, ports.CreateUserInput{Name: "Ada", Email: "ada@example.com", Password: "pass1234", Role: domain.RoleAdmin})
	if err != nil {
		t.Fatalf("owner creating admin failed: %v", err)
	}
	adminActor := domain.Actor{UserID: admin.ID, GroupID: f.group.ID, Role: domain.RoleAdmin}

	tests := []struct {
		name  string
		actor domain.Actor
		role  domain.Role
		want  error
	}{
		{"nobody creates an owner", f.owner, domain.RoleOwner, domain.ErrForbidden},
		{"admin cannot create admin", adminActor, domain.RoleAdmin, domain.ErrForbidden},
		{"admin creates user", adminActor, domain.RoleUser, nil},
		{"admin creates viewer", adminActor, domain.RoleViewer, nil},
	}
	for i, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			email := string(rune('a'+i)) + "-member@example.com"
			_, err := svc.Create(ctx, tc.actor, ports.CreateUserInput{Name: "M", Email: email, Password: "pass1234", Role: tc.role})
			if !errors.Is(err, tc.want) {
				t.Fatalf("expected %v, got %v", tc.want, err)
			}
		})
	}

	g, _ := f.groups.FindByID(ctx, f.group.ID)
	if len(g.Members) != 4 {
		t.Fatalf("expected 4 members, got %d", len(g.Members))
	}
}

func TestUserService_Create_MemberLimit(t *testing.T) {
	f := newFixture()
	svc := NewUserService(f.users, f.groups, nopLog)
	ctx := context.Background()

	if _, err := svc.Create(ctx, f.owner, ports.CreateUserInput{Name: "A", Email: "a@example.com", Password: "pass1234", Role: domain.RoleUser}); err != nil {
		t.Fatalf("first member failed: %v", err)
	}
	_, err := svc.Create(ctx, f.owner, ports.CreateUserInput{Name: "B", Email: "b@example.com", Password: "pass1234", Role: domain.RoleUser})
	if !errors.Is(err, domain.ErrPlanLimit) {
		t.Fatalf("expected ErrPlanLimit, got %v", err)
	}
}

func TestUserService_UpdateAndDelete(t *testing.T) {
	f := newFixture()
	svc := NewUserService(f.users, f.groups, nopLog)
	ctx := context.Background()

	member, err := svc.Create(ctx, f.owner, ports.CreateUserInput{Name: "Uma", Email: "uma@example.com", Password: "pass1234", Role: domain.RoleUser})
	if err != nil {
		t.Fatalf("create failed: %v", err)
	}
	memberActor := domain.Actor{UserID: member.ID, GroupID: f.group.ID, Role: domain.RoleUser}

	updated, err := svc.Update(ctx, f.owner, member.ID, ports.UpdateUserInput{Role: domain.RoleViewer})
	if err != nil {
		t.Fatalf("update failed: %v", err)
	}
	if updated.Role != domain.RoleViewer {
		t.Fatalf("expected viewer, got %s", updated.Role)
	}
	g, _ := f.groups.FindByID(ctx, f.group.ID)
	if role, _ := g.MemberRole(member.ID); role != domain.RoleViewer {
		t.Fatalf("member role not synced, got %s", role)
	}

	if _, err := svc.Update(ctx, memberActor, f.owner.UserID, ports.UpdateUserInput{Name: "Hacked"}); !errors.Is(err, domain.ErrForbidden) {
		t.Fatalf("expected ErrForbidden touching owner, got %v", err)
	}
	if _, err := svc.Update(ctx, f.owner, f.owner.UserID, ports.UpdateUserInput{Role: domain.RoleUser}); !errors.Is(err, domain.ErrForbidden) {
		t.Fatalf("expected ErrForbidden changing own role, got %v", err)
	}
	if err := svc.Delete(ctx, f.owner, f.owner.UserID); !errors.Is(err, domain.ErrForbidden) {
		t.Fatalf("expected ErrForbidden deleting self, got %v", err)
	}

	if err := svc.Delete(ctx, f.owner, member.ID); err != nil {
		t.Fatalf("delete failed: %v", err)
	}
	if _, err := f.users.FindByID(ctx, member.ID); !errors.Is(err, domain.ErrUserNotFound) {
		t.Fatalf("expected user to be gone, got %v", err)
	}
}

func TestUserService_OtherGroupHidden(t *testing.T) {
	f := newFixture()
	svc := NewUserService(f.users, f.groups, nopLog)
	stranger, _ := f.users.Create(context.Background(), &domain.User{Name: "S", Email: "s@example.com", Role: domain.RoleUser, GroupID: "elsewhere"})

	if err := svc.Delete(context.Background(), f.owner, stranger.ID); !errors.Is(err, domain.ErrUserNotFound) {
		t.Fatalf("expected ErrUserNotFound, got %v", err)
	}
}

func TestGroupService_UpdateSettings(t *testing.T) {
	f := newFixture()
	svc := NewGroupService(f.groups, f.items, nopLog)
	ctx := context.Background()

	prefix, padding := "inv", 6
	g, err := svc.UpdateSettings(ctx, f.owner, ports.GroupSettingsInput{AssetIDPrefix: &prefix, AssetIDPadding: &padding})
	if err != nil {
		t.Fatalf("UpdateSettings failed: %v", err)
	}
	if g.AssetIDs.Prefix != "INV" || g.AssetIDs.Padding != 6 {
		t.Fatalf("unexpected asset settings: %+v", g.AssetIDs)
	}

	bad := "no-dashes"
	if _, err := svc.UpdateSettings(ctx, f.owner, ports.GroupSettingsInput{AssetIDPrefix: &bad}); !domain.IsValidation(err) {
		t.Fatalf("expected validation error, got %v", err)
	}

	before := g.InviteCode
	g, err = svc.RegenerateInvite(ctx, f.owner)
	if err != nil || g.InviteCode == before {
		t.Fatalf("invite not regenerated: %v", err)
	}
}

func TestGroupService_ChangePlan(t *testing.T) {
	f := newFixture()
	svc := NewGroupService(f.groups, f.items, nopLog)
	ctx := context.Background()

	admin := domain.Actor{UserID: "x", GroupID: f.group.ID, Role: domain.RoleAdmin}
	if _, err := svc.ChangePlan(ctx, admin, ports.ChangePlanInput{Plan: domain.PlanPro}); !errors.Is(err, domain.ErrForbidden) {
		t.Fatalf("expected ErrForbidden for admin, got %v", err)
	}

	view, err := svc.ChangePlan(ctx, f.owner, ports.ChangePlanInput{Plan: domain.PlanPro})
	if err != nil {
		t.Fatalf("upgrade failed: %v", err)
	}
	if view.Subscription.Plan != domain.PlanPro || view.Subscription.RenewsAt == nil || view.Limits.MaxItems != 2000 {
		t.Fatalf("unexpected view: %+v", view)
	}

	for i := 0; i < 101; i++ {
		_ = f.items.Create(ctx, &domain.Item{GroupID: f.group.ID, Name: "thing"})
	}
	if _, err := svc.ChangePlan(ctx, f.owner, ports.ChangePlanInput{Plan: domain.PlanFree}); !errors.Is(err, domain.ErrPlanLimit) {
		t.Fatalf("expected ErrPlanLimit on downgrade, got %v", err)
	}

	view, err = svc.ChangePlan(ctx, f.owner, ports.ChangePlanInput{Cancel: true})
	if err != nil {
		t.Fatalf("cancel failed: %v", err)
	}
	if view.Subscription.Status != domain.SubscriptionCanceled || view.Usage.Items != 101 {
		t.Fatalf("unexpected view after cancel: %+v", view)
	}
}

func TestGroupService_ChangePlanRejectsUnknownPlan(t *testing.T) {
	f := newFixture()
	svc := NewGroupService(f.groups, f.items, nopLog)

	if _, err := svc.ChangePlan(context.Background(), f.owner, ports.ChangePlanInput{Plan: "platinum"}); !domain.IsValidation(err) {
		t.Fatalf("expected validation error, got %v", err)
	}
	if _, err := svc.ChangePlan(context.Background(), f.owner, ports.ChangePlanInput{}); !domain.IsValidation(err) {
		t.Fatalf("expected validation error for empty plan, got %v", err)
	}
}
