package ports

import (
	"context"
	"time"

	"github.com/boxwise/inventory/internal/core/domain"
)

// ItemFilter carries all query parameters for listing and counting items.
// GroupID is always set by the service layer.
type ItemFilter struct {
	GroupID     string
	Search      string   // optional: partial match on name, description, asset_id, serial_number
	LocationIDs []string // optional: item must sit in one of these
	CategoryID  string
	LabelID     string
	Archived    *bool
	OnLoan      *bool

	WarrantyExpiresAfter  time.Time // optional: warranty.expires >= value
	WarrantyExpiresBefore time.Time // optional: warranty.expires <= value

	Sort  string // name | created_at | updated_at
	Desc  bool
	Page  int // 1-based
	Limit int // 0 = no limit
}

// ItemRepository defines persistence operations for items.
type ItemRepository interface {
	Create(ctx context.Context, item *domain.Item) error
	FindByID(ctx context.Context, groupID, id string) (*domain.Item, error)
	Update(ctx context.Context, item *domain.Item) error
	Delete(ctx context.Context, groupID, id string) error
	// List returns a page of items matching filter and the total count.
	List(ctx context.Context, filter ItemFilter) ([]*domain.Item, int64, error)
	Count(ctx context.Context, filter ItemFilter) (int64, error)
	// TotalValue sums quantity * purchase price over non-archived items.
	TotalValue(ctx context.Context, groupID string) (float64, error)
	// CountLoansEver counts items that are or have been on loan.
	CountLoansEver(ctx context.Context, groupID string) (int64, error)
	MoveLocation(ctx context.Context, groupID, fromLocationID, toLocationID string) (int64, error)
	MoveItems(ctx context.Context, groupID string, ids []string, locationID string) (int64, error)
	// RemoveLabel detaches labelID from every item of the group.
	RemoveLabel(ctx context.Context, groupID, labelID string) (int64, error)
}
