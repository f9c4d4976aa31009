package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"

	"github.com/boxwise/inventory/internal/core/domain"
	"github.com/boxwise/inventory/internal/core/ports"
)

const minPasswordLength = 8

// AuthService implements registration, login and profile operations.
type AuthService struct {
	users     ports.UserRepository
	groups    ports.GroupRepository
	jwtSecret string
	tokenTTL  time.Duration
	log       zerolog.Logger
}

func NewAuthService(users ports.UserRepository, groups ports.GroupRepository, jwtSecret string, tokenTTL time.Duration, log zerolog.Logger) *AuthService {
	if tokenTTL <= 0 {
		tokenTTL = 24 * time.Hour
	}
	return &AuthService{users: users, groups: groups, jwtSecret: jwtSecret, tokenTTL: tokenTTL, log: log}
}

// Register creates a household group on the free plan and its owner.
func (s *AuthService) Register(ctx context.Context, in ports.RegisterInput) (*ports.AuthResult, error) {
	name, email, err := validateAccount(in.Name, in.Email, in.Password)
	if err != nil {
		return nil, err
	}
	if err := s.ensureEmailFree(ctx, email); err != nil {
		return nil, err
	}

	hash, err := hashPassword(in.Password)
	if err != nil {
		return nil, err
	}

	groupName := strings.TrimSpace(in.GroupName)
	if groupName == "" {
		groupName = name + "'s Household"
	}

	now := time.Now().UTC()
	group, err := s.groups.Create(ctx, &domain.Group{
		Name:         groupName,
		Subscription: domain.Subscription{Plan: domain.PlanFree, Status: domain.SubscriptionActive},
		AssetIDs:     domain.DefaultAssetIDSettings(),
		InviteCode:   uuid.NewString(),
		CreatedAt:    now,
		UpdatedAt:    now,
	})
	if err != nil {
		return nil, fmt.Errorf("register: create group: %w", err)
	}

	user, err := s.users.Create(ctx, &domain.User{
		Name:         name,
		Email:        email,
		PasswordHash: hash,
		Role:         domain.RoleOwner,
		GroupID:      group.ID,
		Preferences:  domain.DefaultPreferences(),
		CreatedAt:    now,
		UpdatedAt:    now,
	})
	if err != nil {
		return nil, err
	}

	group.OwnerID = user.ID
	if err := s.groups.Update(ctx, group); err != nil {
		return nil, fmt.Errorf("register: set owner: %w", err)
	}
	if err := s.groups.AddMember(ctx, group.ID, domain.Member{UserID: user.ID, Role: domain.RoleOwner, JoinedAt: now}); err != nil {
		return nil, fmt.Errorf("register: add member: %w", err)
	}

	s.log.Info().Str("user_id", user.ID).Str("group_id", group.ID).Msg("group registered")
	return s.issue(user)
}

// Join adds a new user account to the group that owns the invite code.
func (s *AuthService) Join(ctx context.Context, in ports.JoinInput) (*ports.AuthResult, error) {
	name, email, err := validateAccount(in.Name, in.Email, in.Password)
	if err != nil {
		return nil, err
	}
	code := strings.TrimSpace(in.InviteCode)
	if code == "" {
		return nil, domain.ErrInvalidInvite
	}

	group, err := s.groups.FindByInviteCode(ctx, code)
	if err != nil {
		if errors.Is(err, domain.ErrGroupNotFound) {
			return nil, domain.ErrInvalidInvite
		}
		return nil, err
	}
	if !group.Subscription.Plan.Limits().AllowsMembers(int64(len(group.Members)), 1) {
		return nil, domain.ErrPlanLimit
	}
	if err := s.ensureEmailFree(ctx, email); err != nil {
		return nil, err
	}

	hash, err := hashPassword(in.Password)
	if err != nil {
		return nil, err
	}
	now := time.Now().UTC()
	user, err := s.users.Create(ctx, &domain.User{
		Name:         name,
		Email:        email,
		PasswordHash: hash,
		Role:         domain.RoleUser,
		GroupID:      group.ID,
		Preferences:  domain.DefaultPreferences(),
		CreatedAt:    now,
		UpdatedAt:    now,
	})
	if err != nil {
		return nil, err
	}
	if err := s.groups.AddMember(ctx, group.ID, domain.Member{UserID: user.ID, Role: domain.RoleUser, JoinedAt: now}); err != nil {
		return nil, fmt.Errorf("join: add member: %w", err)
	}

	s.log.Info().Str("user_id", user.ID).Str("group_id", group.ID).Msg("user joined group")
	return s.issue(user)
}

// Login checks credentials and returns a signed token.
// Unknown emails and wrong passwords are indistinguishable to the caller.
func (s *AuthService) Login(ctx context.Context, email, password string) (*ports.AuthResult, error) {
	email = normalizeEmail(email)
	if email == "" || password == "" {
		return nil, domain.ErrInvalidCredentials
	}

	user, err := s.users.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			return nil, domain.ErrInvalidCredentials
		}
		return nil, err
	}

	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)) != nil {
		return nil, domain.ErrInvalidCredentials
	}

	return s.issue(user)
}

func (s *AuthService) Me(ctx context.Context, actor domain.Actor) (*ports.Profile, error) {
	user, err := s.users.FindByID(ctx, actor.UserID)
	if err != nil {
		return nil, err
	}
	group, err := s.groups.FindByID(ctx, user.GroupID)
	if err != nil {
		return nil, err
	}
	return &ports.Profile{User: user, Permissions: domain.PermissionsFor(user.Role), Group: group}, nil
}

func (s *AuthService) UpdatePreferences(ctx context.Context, actor domain.Actor, prefs domain.Preferences) (*domain.User, error) {
	user, err := s.users.FindByID(ctx, actor.UserID)
	if err != nil {
		return nil, err
	}
	defaults := domain.DefaultPreferences()
	if prefs.Theme == "" {
		prefs.Theme = defaults.Theme
	}
	if prefs.Currency == "" {
		prefs.Currency = defaults.Currency
	}
	if prefs.DateFormat == "" {
		prefs.DateFormat = defaults.DateFormat
	}
	user.Preferences = prefs
	user.UpdatedAt = time.Now().UTC()
	if err := s.users.Update(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}

func (s *AuthService) ChangePassword(ctx context.Context, actor domain.Actor, oldPassword, newPassword string) error {
	user, err := s.users.FindByID(ctx, actor.UserID)
	if err != nil {
		return err
	}
	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(oldPassword)) != nil {
		return domain.ErrInvalidCredentials
	}
	if len(newPassword) < minPasswordLength {
		return domain.Invalid(fmt.Sprintf("password must be at least %d characters", minPasswordLength))
	}
	hash, err := hashPassword(newPassword)
	if err != nil {
		return err
	}
	user.PasswordHash = hash
	user.UpdatedAt = time.Now().UTC()
	return s.users.Update(ctx, user)
}

func (s *AuthService) ensureEmailFree(ctx context.Context, email string) error {
	_, err := s.users.FindByEmail(ctx, email)
	switch {
	case err == nil:
		return domain.ErrUserExists
	case errors.Is(err, domain.ErrUserNotFound):
		return nil
	default:
		return err
	}
}

func (s *AuthService) issue(user *domain.User) (*ports.AuthResult, error) {
	token, err := s.generateToken(user)
	if err != nil {
		return nil, err
	}
	return &ports.AuthResult{Token: token, User: user}, nil
}

func (s *AuthService) generateToken(user *domain.User) (string, error) {
	now := time.Now()
	claims := jwt.MapClaims{
		"sub":      user.ID,
		"email":    user.Email,
		"role":     string(user.Role),
		"group_id": user.GroupID,
		"iat":      now.Unix(),
		"exp":      now.Add(s.tokenTTL).Unix(),
		"jti":      uuid.NewString(),
	}

	t := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return t.SignedString([]byte(s.jwtSecret))
}

func validateAccount(name, email, password string) (string, string, error) {
	name = strings.TrimSpace(name)
	email = normalizeEmail(email)
	switch {
	case name == "":
		return "", "", domain.Invalid("name is required")
	case email == "" || !strings.Contains(email, "@"):
		return "", "", domain.Invalid("a valid email is required")
	case len(password) < minPasswordLength:
		return "", "", domain.Invalid(fmt.Sprintf("password must be at least %d characters", minPasswordLength))
	}
	return name, email, nil
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func hashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", fmt.Errorf("hash password: %w", err)
	}
	return string(hash), nil
}
