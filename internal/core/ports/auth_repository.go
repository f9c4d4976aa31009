package ports

import (
	"context"

	"github.com/boxwise/inventory/internal/core/domain"
)

// UserRepository defines persistence for user accounts.
type UserRepository interface {
	// Create inserts user and returns it with its ID. Duplicate emails yield domain.ErrUserExists.
	Create(ctx context.Context, user *domain.User) (*domain.User, error)
	FindByEmail(ctx context.Context, email string) (*domain.User, error)
	FindByID(ctx context.Context, id string) (*domain.User, error)
	ListByGroup(ctx context.Context, groupID string) ([]*domain.User, error)
	Update(ctx context.Context, user *domain.User) error
	Delete(ctx context.Context, groupID, id string) error
}

// GroupRepository defines persistence for tenants and their memberships.
type GroupRepository interface {
	Create(ctx context.Context, group *domain.Group) (*domain.Group, error)
	FindByID(ctx context.Context, id string) (*domain.Group, error)
	FindByInviteCode(ctx context.Context, code string) (*domain.Group, error)
	// Update persists name, owner, subscription, asset ID settings and invite code.
	Update(ctx context.Context, group *domain.Group) error
	AddMember(ctx context.Context, groupID string, member domain.Member) error
	UpdateMemberRole(ctx context.Context, groupID, userID string, role domain.Role) error
	RemoveMember(ctx context.Context, groupID, userID string) error
	// NextAssetSeq atomically reserves the next asset sequence number.
	NextAssetSeq(ctx context.Context, groupID string) (int64, error)
}
