package handler

import "github.com/boxwise/inventory/internal/core/domain"

type registerRequest struct {
	Name      string `json:"name"       validate:"required,max=100"`
	Email     string `json:"email"      validate:"required,email"`
	Password  string `json:"password"   validate:"required,min=8"`
	GroupName string `json:"group_name" validate:"max=100"`
}

type joinRequest struct {
	Name       string `json:"name"        validate:"required,max=100"`
	Email      string `json:"email"       validate:"required,email"`
	Password   string `json:"password"    validate:"required,min=8"`
	InviteCode string `json:"invite_code" validate:"required"`
}

type loginRequest struct {
	Email    string `json:"email"    validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type preferencesRequest struct {
	Theme          string `json:"theme"           validate:"omitempty,oneof=light dark system"`
	Currency       string `json:"currency"        validate:"omitempty,len=3"`
	DateFormat     string `json:"date_format"     validate:"omitempty,max=20"`
	EmailReminders bool   `json:"email_reminders"`
}

type changePasswordRequest struct {
	OldPassword string `json:"old_password" validate:"required"`
	NewPassword string `json:"new_password" validate:"required,min=8"`
}

type authResponse struct {
	Token string       `json:"token,omitempty"`
	User  *domain.User `json:"user,omitempty"`
}

type groupSummary struct {
	ID           string              `json:"id"`
	Name         string              `json:"name"`
	Subscription domain.Subscription `json:"subscription"`
	Members      int                 `json:"members"`
}

type profileResponse struct {
	User        *domain.User       `json:"user"`
	Permissions domain.Permissions `json:"permissions"`
	Group       *groupSummary      `json:"group,omitempty"`
}

// --- Users ---

type createUserRequest struct {
	Name     string `json:"name"     validate:"required,max=100"`
	Email    string `json:"email"    validate:"required,email"`
	Password string `json:"password" validate:"required,min=8"`
	Role     string `json:"role"     validate:"required,oneof=admin user viewer"`
}

type updateUserRequest struct {
	Name string `json:"name" validate:"max=100"`
	Role string `json:"role" validate:"omitempty,oneof=owner admin user viewer"`
}

// --- Group settings & subscriptions ---

type groupSettingsRequest struct {
	Name            *string `json:"name"              validate:"omitempty,min=1,max=100"`
	AssetIDPrefix   *string `json:"asset_id_prefix"   validate:"omitempty,max=10"`
	AssetIDPadding  *int    `json:"asset_id_padding"  validate:"omitempty,min=1,max=10"`
	AssetAutoAssign *bool   `json:"asset_auto_assign"`
}

type usageResponse struct {
	Items   int64 `json:"items"`
	Members int64 `json:"members"`
}

type subscriptionResponse struct {
	Subscription domain.Subscription `json:"subscription"`
	Limits       domain.Limits       `json:"limits"`
	Usage        usageResponse       `json:"usage"`
}

type changePlanRequest struct {
	Plan   string `json:"plan"   validate:"omitempty,oneof=free pro business"`
	Cancel bool   `json:"cancel"`
}
