package handler

import (
	"github.com/boxwise/inventory/internal/core/domain"
	"github.com/boxwise/inventory/internal/core/ports"
)

type purchaseRequest struct {
	Date   *dateValue `json:"date"`
	Price  float64    `json:"price"  validate:"min=0"`
	Vendor string     `json:"vendor" validate:"max=200"`
}

type warrantyRequest struct {
	Expires  *dateValue `json:"expires"`
	Provider string     `json:"provider" validate:"max=200"`
	Notes    string     `json:"notes"    validate:"max=2000"`
}

type customFieldRequest struct {
	Name  string `json:"name"  validate:"required,max=100"`
	Value string `json:"value" validate:"max=1000"`
}

type itemRequest struct {
	Name         string               `json:"name"          validate:"required,max=200"`
	Description  string               `json:"description"   validate:"max=2000"`
	LocationID   string               `json:"location_id"   validate:"required"`
	CategoryID   string               `json:"category_id"   validate:"required"`
	LabelIDs     []string             `json:"label_ids"`
	Quantity     int                  `json:"quantity"      validate:"min=0"`
	AssetID      string               `json:"asset_id"      validate:"max=50"`
	SerialNumber string               `json:"serial_number" validate:"max=100"`
	Model        string               `json:"model"         validate:"max=100"`
	Manufacturer string               `json:"manufacturer"  validate:"max=100"`
	Notes        string               `json:"notes"         validate:"max=5000"`
	Purchase     purchaseRequest      `json:"purchase"`
	Warranty     warrantyRequest      `json:"warranty"`
	CustomFields []customFieldRequest `json:"custom_fields" validate:"dive"`
}

func (r itemRequest) toInput() ports.ItemInput {
	in := ports.ItemInput{
		Name:         r.Name,
		Description:  r.Description,
		LocationID:   r.LocationID,
		CategoryID:   r.CategoryID,
		LabelIDs:     r.LabelIDs,
		Quantity:     r.Quantity,
		AssetID:      r.AssetID,
		SerialNumber: r.SerialNumber,
		Model:        r.Model,
		Manufacturer: r.Manufacturer,
		Notes:        r.Notes,
		Purchase: domain.Purchase{
			Date:   r.Purchase.Date.timePtr(),
			Price:  r.Purchase.Price,
			Vendor: r.Purchase.Vendor,
		},
		Warranty: domain.Warranty{
			Expires:  r.Warranty.Expires.timePtr(),
			Provider: r.Warranty.Provider,
			Notes:    r.Warranty.Notes,
		},
	}
	for _, f := range r.CustomFields {
		in.CustomFields = append(in.CustomFields, domain.CustomField{Name: f.Name, Value: f.Value})
	}
	return in
}

type moveItemsRequest struct {
	ItemIDs    []string `json:"item_ids"    validate:"min=1,max=500"`
	LocationID string   `json:"location_id" validate:"required"`
}

type moveItemsResponse struct {
	Moved int64 `json:"moved"`
}

type lendRequest struct {
	Borrower string     `json:"borrower" validate:"required,max=200"`
	DueAt    *dateValue `json:"due_at"`
	Notes    string     `json:"notes"    validate:"max=2000"`
}

type itemListResponse struct {
	Items      []*domain.Item     `json:"items"`
	Pagination paginationResponse `json:"pagination"`
}

type itemDetailResponse struct {
	Item       *domain.Item      `json:"item"`
	Breadcrumb []domain.Location `json:"breadcrumb"`
}
