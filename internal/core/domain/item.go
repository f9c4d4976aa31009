package domain

import "time"

// Purchase records how an item was acquired.
type Purchase struct {
	Date   *time.Time `json:"date,omitempty"`
	Price  float64    `json:"price,omitempty"`
	Vendor string     `json:"vendor,omitempty"`
}

// Warranty records coverage for an item.
type Warranty struct {
	Expires  *time.Time `json:"expires,omitempty"`
	Provider string     `json:"provider,omitempty"`
	Notes    string     `json:"notes,omitempty"`
}

// Loan records an item lent to someone outside the inventory.
type Loan struct {
	Borrower   string     `json:"borrower"`
	LoanedAt   time.Time  `json:"loaned_at"`
	DueAt      *time.Time `json:"due_at,omitempty"`
	ReturnedAt *time.Time `json:"returned_at,omitempty"`
	Notes      string     `json:"notes,omitempty"`
}

// CustomField is a free-form name/value pair attached to an item.
type CustomField struct {
	Name  string `json:"name"`
	Value string `json:"value"`
}

// Item is a cataloged possession.
type Item struct {
	ID           string        `json:"id"`
	GroupID      string        `json:"group_id"`
	Name         string        `json:"name"`
	Description  string        `json:"description,omitempty"`
	LocationID   string        `json:"location_id"`
	CategoryID   string        `json:"category_id"`
	LabelIDs     []string      `json:"label_ids"`
	Quantity     int           `json:"quantity"`
	AssetID      string        `json:"asset_id,omitempty"`
	SerialNumber string        `json:"serial_number,omitempty"`
	Model        string        `json:"model,omitempty"`
	Manufacturer string        `json:"manufacturer,omitempty"`
	Notes        string        `json:"notes,omitempty"`
	Purchase     Purchase      `json:"purchase"`
	Warranty     Warranty      `json:"warranty"`
	Loan         *Loan         `json:"loan,omitempty"`
	LoanHistory  []Loan        `json:"loan_history,omitempty"`
	CustomFields []CustomField `json:"custom_fields,omitempty"`
	Archived     bool          `json:"archived"`
	CreatedBy    string        `json:"created_by,omitempty"`
	CreatedAt    time.Time     `json:"created_at"`
	UpdatedAt    time.Time     `json:"updated_at"`
}

// OnLoan reports whether the item is currently lent out.
func (i *Item) OnLoan() bool {
	return i.Loan != nil && i.Loan.ReturnedAt == nil
}

// WarrantyActive reports whether the warranty has not yet expired at now.
func (i *Item) WarrantyActive(now time.Time) bool {
	return i.Warranty.Expires != nil && !i.Warranty.Expires.Before(now)
}

// HasLabel reports whether labelID is attached.
func (i *Item) HasLabel(labelID string) bool {
	for _, id := range i.LabelIDs {
		if id == labelID {
			return true
		}
	}
	return false
}

// TotalValue is quantity times purchase price.
func (i *Item) TotalValue() float64 {
	return float64(i.Quantity) * i.Purchase.Price
}
