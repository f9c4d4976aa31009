package ports

import (
	"context"

	"github.com/boxwise/inventory/internal/core/domain"
)

// RegisterInput creates a new group together with its owner.
type RegisterInput struct {
	Name      string
	Email     string
	Password  string
	GroupName string
}

// JoinInput adds a user to an existing group through its invite code.
type JoinInput struct {
	Name       string
	Email      string
	Password   string
	InviteCode string
}

// AuthResult is returned on successful registration or login.
type AuthResult struct {
	Token string
	User  *domain.User
}

// Profile is the authenticated user's own view.
type Profile struct {
	User        *domain.User
	Permissions domain.Permissions
	Group       *domain.Group
}

// AuthService covers account lifecycle and token issuance.
type AuthService interface {
	Register(ctx context.Context, input RegisterInput) (*AuthResult, error)
	Join(ctx context.Context, input JoinInput) (*AuthResult, error)
	Login(ctx context.Context, email, password string) (*AuthResult, error)
	Me(ctx context.Context, actor domain.Actor) (*Profile, error)
	UpdatePreferences(ctx context.Context, actor domain.Actor, prefs domain.Preferences) (*domain.User, error)
	ChangePassword(ctx context.Context, actor domain.Actor, oldPassword, newPassword string) error
}

// CreateUserInput adds a member to the actor's group.
type CreateUserInput struct {
	Name     string
	Email    string
	Password string
	Role     domain.Role
}

// UpdateUserInput changes a member. Empty fields are left untouched.
type UpdateUserInput struct {
	Name string
	Role domain.Role
}

// UserService manages the members of the actor's group.
type UserService interface {
	List(ctx context.Context, actor domain.Actor) ([]*domain.User, error)
	Create(ctx context.Context, actor domain.Actor, input CreateUserInput) (*domain.User, error)
	Update(ctx context.Context, actor domain.Actor, id string, input UpdateUserInput) (*domain.User, error)
	Delete(ctx context.Context, actor domain.Actor, id string) error
}

// GroupSettingsInput changes group-wide settings. Nil fields are left untouched.
type GroupSettingsInput struct {
	Name            *string
	AssetIDPrefix   *string
	AssetIDPadding  *int
	AssetAutoAssign *bool
}

// Usage counts resources held against plan limits.
type Usage struct {
	Items   int64
	Members int64
}

// SubscriptionView is the subscription state plus usage.
type SubscriptionView struct {
	Subscription domain.Subscription
	Limits       domain.Limits
	Usage        Usage
}

// ChangePlanInput switches or cancels a plan.
type ChangePlanInput struct {
	Plan   domain.Plan
	Cancel bool
}

// GroupService covers tenant-wide settings and subscriptions.
type GroupService interface {
	Get(ctx context.Context, actor domain.Actor) (*domain.Group, error)
	UpdateSettings(ctx context.Context, actor domain.Actor, input GroupSettingsInput) (*domain.Group, error)
	RegenerateInvite(ctx context.Context, actor domain.Actor) (*domain.Group, error)
	Subscription(ctx context.Context, actor domain.Actor) (*SubscriptionView, error)
	ChangePlan(ctx context.Context, actor domain.Actor, input ChangePlanInput) (*SubscriptionView, error)
}
