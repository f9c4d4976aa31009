package ports

import (
	"context"
	"time"

	"github.com/boxwise/inventory/internal/core/domain"
)

// ItemInput carries the editable fields of an item.
type ItemInput struct {
	Name         string
	Description  string
	LocationID   string
	CategoryID   string
	LabelIDs     []string
	Quantity     int
	AssetID      string
	SerialNumber string
	Model        string
	Manufacturer string
	Notes        string
	Purchase     domain.Purchase
	Warranty     domain.Warranty
	CustomFields []domain.CustomField
}

// ListItemsInput carries all parameters for the list endpoint.
type ListItemsInput struct {
	Search             string
	LocationID         string
	IncludeSubLocation bool
	CategoryID         string
	LabelID            string
	Archived           bool
	OnLoan             *bool
	Sort               string
	Desc               bool
	Page               int
	Limit              int
}

// ItemPage is a page of items.
type ItemPage struct {
	Items      []*domain.Item
	Total      int64
	Page       int
	Limit      int
	TotalPages int
}

// ItemDetail is an item with its resolved location breadcrumb.
type ItemDetail struct {
	Item       *domain.Item
	Breadcrumb []domain.Location
}

// LoanInput lends an item out.
type LoanInput struct {
	Borrower string
	DueAt    *time.Time
	Notes    string
}

// ItemService defines use-case operations for items.
type ItemService interface {
	List(ctx context.Context, actor domain.Actor, input ListItemsInput) (*ItemPage, error)
	Get(ctx context.Context, actor domain.Actor, id string) (*ItemDetail, error)
	Create(ctx context.Context, actor domain.Actor, input ItemInput) (*domain.Item, error)
	Update(ctx context.Context, actor domain.Actor, id string, input ItemInput) (*domain.Item, error)
	Delete(ctx context.Context, actor domain.Actor, id string) error
	SetArchived(ctx context.Context, actor domain.Actor, id string, archived bool) (*domain.Item, error)
	Move(ctx context.Context, actor domain.Actor, ids []string, locationID string) (int64, error)
	Lend(ctx context.Context, actor domain.Actor, id string, input LoanInput) (*domain.Item, error)
	Return(ctx context.Context, actor domain.Actor, id string) (*domain.Item, error)
}
