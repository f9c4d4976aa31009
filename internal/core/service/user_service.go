package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/boxwise/inventory/internal/core/domain"
	"github.com/boxwise/inventory/internal/core/ports"
)

// UserService manages the members of a group.
type UserService struct {
	users  ports.UserRepository
	groups ports.GroupRepository
	log    zerolog.Logger
}

func NewUserService(users ports.UserRepository, groups ports.GroupRepository, log zerolog.Logger) *UserService {
	return &UserService{users: users, groups: groups, log: log}
}

func (s *UserService) List(ctx context.Context, actor domain.Actor) ([]*domain.User, error) {
	return s.users.ListByGroup(ctx, actor.GroupID)
}

// Create adds a member. Only the owner may create admins and nobody may
// create a second owner.
func (s *UserService) Create(ctx context.Context, actor domain.Actor, in ports.CreateUserInput) (*domain.User, error) {
	if !domain.CanAssignRole(actor.Role, in.Role) {
		return nil, domain.ErrForbidden
	}
	name, email, err := validateAccount(in.Name, in.Email, in.Password)
	if err != nil {
		return nil, err
	}

	group, err := s.groups.FindByID(ctx, actor.GroupID)
	if err != nil {
		return nil, err
	}
	if !group.Subscription.Plan.Limits().AllowsMembers(int64(len(group.Members)), 1) {
		return nil, domain.ErrPlanLimit
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
		Role:         in.Role,
		GroupID:      actor.GroupID,
		Preferences:  domain.DefaultPreferences(),
		CreatedAt:    now,
		UpdatedAt:    now,
	})
	if err != nil {
		return nil, err
	}
	if err := s.groups.AddMember(ctx, actor.GroupID, domain.Member{UserID: user.ID, Role: in.Role, JoinedAt: now}); err != nil {
		return nil, fmt.Errorf("create user: add member: %w", err)
	}

	s.log.Info().Str("user_id", user.ID).Str("role", string(in.Role)).Str("by", actor.UserID).Msg("member created")
	return user, nil
}

func (s *UserService) Update(ctx context.Context, actor domain.Actor, id string, in ports.UpdateUserInput) (*domain.User, error) {
	target, err := s.member(ctx, actor, id)
	if err != nil {
		return nil, err
	}
	if err := guardTarget(actor, target); err != nil {
		return nil, err
	}

	roleChanged := in.Role != "" && in.Role != target.Role
	if roleChanged {
		if target.ID == actor.UserID || !domain.CanAssignRole(actor.Role, in.Role) {
			return nil, domain.ErrForbidden
		}
		target.Role = in.Role
	}
	if name := strings.TrimSpace(in.Name); name != "" {
		target.Name = name
	}
	target.UpdatedAt = time.Now().UTC()

	if err := s.users.Update(ctx, target); err != nil {
		return nil, err
	}
	if roleChanged {
		if err := s.groups.UpdateMemberRole(ctx, actor.GroupID, target.ID, target.Role); err != nil {
			return nil, fmt.Errorf("update user: member role: %w", err)
		}
	}
	return target, nil
}

func (s *UserService) Delete(ctx context.Context, actor domain.Actor, id string) error {
	target, err := s.member(ctx, actor, id)
	if err != nil {
		return err
	}
	if target.ID == actor.UserID {
		return domain.ErrForbidden
	}
	if err := guardTarget(actor, target); err != nil {
		return err
	}

	if err := s.users.Delete(ctx, actor.GroupID, target.ID); err != nil {
		return err
	}
	if err := s.groups.RemoveMember(ctx, actor.GroupID, target.ID); err != nil {
		return fmt.Errorf("delete user: remove member: %w", err)
	}
	s.log.Info().Str("user_id", target.ID).Str("by", actor.UserID).Msg("member removed")
	return nil
}

// member loads id and hides users of other groups.
func (s *UserService) member(ctx context.Context, actor domain.Actor, id string) (*domain.User, error) {
	u, err := s.users.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if u.GroupID != actor.GroupID {
		return nil, domain.ErrUserNotFound
	}
	return u, nil
}

// guardTarget stops anyone touching the owner and non-owners touching admins.
func guardTarget(actor domain.Actor, target *domain.User) error {
	if target.ID == actor.UserID {
		return nil
	}
	switch target.Role {
	case domain.RoleOwner:
		return domain.ErrForbidden
	case domain.RoleAdmin:
		if actor.Role != domain.RoleOwner {
			return domain.ErrForbidden
		}
	}
	return nil
}
