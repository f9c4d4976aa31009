package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/boxwise/inventory/internal/core/domain"
	"github.com/boxwise/inventory/internal/core/ports"
)

const (
	defaultPageSize = 20
	maxPageSize     = 100
)

var itemSorts = map[string]bool{"name": true, "created_at": true, "updated_at": true}

// ItemService implements the item catalog use cases.
type ItemService struct {
	items      ports.ItemRepository
	locations  ports.LocationRepository
	categories ports.CategoryRepository
	labels     ports.LabelRepository
	groups     ports.GroupRepository
	reminders  ports.ReminderRepository
	cache      ports.StatsCache
	log        zerolog.Logger
}

// NewItemService wires the service. cache may be nil.
func NewItemService(
	items ports.ItemRepository,
	locations ports.LocationRepository,
	categories ports.CategoryRepository,
	labels ports.LabelRepository,
	groups ports.GroupRepository,
	reminders ports.ReminderRepository,
	cache ports.StatsCache,
	log zerolog.Logger,
) *ItemService {
	return &ItemService{
		items:      items,
		locations:  locations,
		categories: categories,
		labels:     labels,
		groups:     groups,
		reminders:  reminders,
		cache:      cache,
		log:        log,
	}
}

// List returns a page of items. Archived items are only listed when asked for.
func (s *ItemService) List(ctx context.Context, actor domain.Actor, in ports.ListItemsInput) (*ports.ItemPage, error) {
	page, limit := normalizePage(in.Page, in.Limit)
	sort := in.Sort
	if !itemSorts[sort] {
		sort = "created_at"
	}
	archived := in.Archived
	filter := ports.ItemFilter{
		GroupID:    actor.GroupID,
		Search:     strings.TrimSpace(in.Search),
		CategoryID: in.CategoryID,
		LabelID:    in.LabelID,
		Archived:   &archived,
		OnLoan:     in.OnLoan,
		Sort:       sort,
		Desc:       in.Desc || in.Sort == "",
		Page:       page,
		Limit:      limit,
	}

	if in.LocationID != "" {
		filter.LocationIDs = []string{in.LocationID}
		if in.IncludeSubLocation {
			locs, err := s.locations.ListByGroup(ctx, actor.GroupID)
			if err != nil {
				return nil, fmt.Errorf("list items: load locations: %w", err)
			}
			filter.LocationIDs = append(filter.LocationIDs, domain.NewLocationTree(locs).Descendants(in.LocationID)...)
		}
	}

	items, total, err := s.items.List(ctx, filter)
	if err != nil {
		return nil, err
	}
	if items == nil {
		items = []*domain.Item{}
	}
	return &ports.ItemPage{
		Items:      items,
		Total:      total,
		Page:       page,
		Limit:      limit,
		TotalPages: int((total + int64(limit) - 1) / int64(limit)),
	}, nil
}

func normalizePage(page, limit int) (int, int) {
	if page < 1 {
		page = 1
	}
	switch {
	case limit < 1:
		limit = defaultPageSize
	case limit > maxPageSize:
		limit = maxPageSize
	}
	return page, limit
}

// Get returns the item with the breadcrumb of its location.
func (s *ItemService) Get(ctx context.Context, actor domain.Actor, id string) (*ports.ItemDetail, error) {
	item, err := s.items.FindByID(ctx, actor.GroupID, id)
	if err != nil {
		return nil, err
	}
	locs, err := s.locations.ListByGroup(ctx, actor.GroupID)
	if err != nil {
		return nil, fmt.Errorf("get item: load locations: %w", err)
	}
	crumbs, err := domain.NewLocationTree(locs).Breadcrumb(item.LocationID)
	if err != nil {
		crumbs = []domain.Location{}
	}
	return &ports.ItemDetail{Item: item, Breadcrumb: crumbs}, nil
}

// Create adds an item. A blank asset ID is filled from the group sequence
// when auto-assignment is on.
func (s *ItemService) Create(ctx context.Context, actor domain.Actor, in ports.ItemInput) (*domain.Item, error) {
	in, err := s.checkInput(ctx, actor.GroupID, in)
	if err != nil {
		return nil, err
	}

	group, err := s.groups.FindByID(ctx, actor.GroupID)
	if err != nil {
		return nil, err
	}
	count, err := s.items.Count(ctx, ports.ItemFilter{GroupID: actor.GroupID})
	if err != nil {
		return nil, fmt.Errorf("create item: count items: %w", err)
	}
	if !group.Subscription.Plan.Limits().AllowsItems(count, 1) {
		return nil, domain.ErrPlanLimit
	}

	if in.AssetID == "" && group.AssetIDs.AutoAssign {
		seq, err := s.groups.NextAssetSeq(ctx, actor.GroupID)
		if err != nil {
			return nil, fmt.Errorf("create item: asset id: %w", err)
		}
		in.AssetID = domain.FormatAssetID(group.AssetIDs.Prefix, seq, group.AssetIDs.Padding)
	}

	now := time.Now().UTC()
	item := &domain.Item{
		GroupID:   actor.GroupID,
		CreatedBy: actor.UserID,
		CreatedAt: now,
		UpdatedAt: now,
	}
	applyItemInput(item, in)
	if err := s.items.Create(ctx, item); err != nil {
		s.log.Error().Err(err).Str("group_id", actor.GroupID).Msg("failed to create item")
		return nil, err
	}

	s.log.Info().Str("item_id", item.ID).Str("asset_id", item.AssetID).Str("group_id", actor.GroupID).Msg("item created")
	invalidateStats(ctx, s.cache, s.log, actor.GroupID)
	return item, nil
}

// Update replaces the editable fields. A blank asset ID keeps the current one.
func (s *ItemService) Update(ctx context.Context, actor domain.Actor, id string, in ports.ItemInput) (*domain.Item, error) {
	item, err := s.items.FindByID(ctx, actor.GroupID, id)
	if err != nil {
		return nil, err
	}
	in, err = s.checkInput(ctx, actor.GroupID, in)
	if err != nil {
		return nil, err
	}
	if in.AssetID == "" {
		in.AssetID = item.AssetID
	}

	applyItemInput(item, in)
	item.UpdatedAt = time.Now().UTC()
	if err := s.items.Update(ctx, item); err != nil {
		return nil, err
	}
	invalidateStats(ctx, s.cache, s.log, actor.GroupID)
	return item, nil
}

// Delete removes the item together with its reminders.
func (s *ItemService) Delete(ctx context.Context, actor domain.Actor, id string) error {
	if err := s.items.Delete(ctx, actor.GroupID, id); err != nil {
		return err
	}
	removed, err := s.reminders.DeleteByItem(ctx, actor.GroupID, id)
	if err != nil {
		s.log.Warn().Err(err).Str("item_id", id).Msg("failed to delete item reminders")
	}
	s.log.Info().Str("item_id", id).Int64("reminders_removed", removed).Msg("item deleted")
	invalidateStats(ctx, s.cache, s.log, actor.GroupID)
	return nil
}

func (s *ItemService) SetArchived(ctx context.Context, actor domain.Actor, id string, archived bool) (*domain.Item, error) {
	item, err := s.items.FindByID(ctx, actor.GroupID, id)
	if err != nil {
		return nil, err
	}
	if item.Archived == archived {
		return item, nil
	}
	item.Archived = archived
	item.UpdatedAt = time.Now().UTC()
	if err := s.items.Update(ctx, item); err != nil {
		return nil, err
	}
	invalidateStats(ctx, s.cache, s.log, actor.GroupID)
	return item, nil
}

// Move relocates several items at once and returns how many changed.
func (s *ItemService) Move(ctx context.Context, actor domain.Actor, ids []string, locationID string) (int64, error) {
	if len(ids) == 0 {
		return 0, domain.Invalid("item_ids must not be empty")
	}
	if _, err := s.locations.FindByID(ctx, actor.GroupID, locationID); err != nil {
		if errors.Is(err, domain.ErrLocationNotFound) {
			return 0, domain.Invalid("location not found")
		}
		return 0, err
	}
	moved, err := s.items.MoveItems(ctx, actor.GroupID, ids, locationID)
	if err != nil {
		return 0, fmt.Errorf("move items: %w", err)
	}
	s.log.Info().Int64("moved", moved).Str("location_id", locationID).Msg("items moved")
	invalidateStats(ctx, s.cache, s.log, actor.GroupID)
	return moved, nil
}

// Lend records a loan. An item can only be on one loan at a time.
func (s *ItemService) Lend(ctx context.Context, actor domain.Actor, id string, in ports.LoanInput) (*domain.Item, error) {
	borrower := strings.TrimSpace(in.Borrower)
	if borrower == "" {
		return nil, domain.Invalid("borrower is required")
	}
	item, err := s.items.FindByID(ctx, actor.GroupID, id)
	if err != nil {
		return nil, err
	}
	if item.OnLoan() {
		return nil, domain.ErrItemOnLoan
	}

	now := time.Now().UTC()
	if in.DueAt != nil && in.DueAt.Before(now) {
		return nil, domain.Invalid("due_at must be in the future")
	}
	item.Loan = &domain.Loan{
		Borrower: borrower,
		LoanedAt: now,
		DueAt:    in.DueAt,
		Notes:    strings.TrimSpace(in.Notes),
	}
	item.UpdatedAt = now
	if err := s.items.Update(ctx, item); err != nil {
		return nil, err
	}
	invalidateStats(ctx, s.cache, s.log, actor.GroupID)
	return item, nil
}

// Return closes the current loan and files it in the loan history.
func (s *ItemService) Return(ctx context.Context, actor domain.Actor, id string) (*domain.Item, error) {
	item, err := s.items.FindByID(ctx, actor.GroupID, id)
	if err != nil {
		return nil, err
	}
	if !item.OnLoan() {
		return nil, domain.ErrItemNotOnLoan
	}

	now := time.Now().UTC()
	loan := *item.Loan
	loan.ReturnedAt = &now
	item.LoanHistory = append(item.LoanHistory, loan)
	item.Loan = nil
	item.UpdatedAt = now
	if err := s.items.Update(ctx, item); err != nil {
		return nil, err
	}
	invalidateStats(ctx, s.cache, s.log, actor.GroupID)
	return item, nil
}

// checkInput trims the input and verifies that every reference belongs to
// the group.
func (s *ItemService) checkInput(ctx context.Context, groupID string, in ports.ItemInput) (ports.ItemInput, error) {
	in.Name = strings.TrimSpace(in.Name)
	in.AssetID = strings.TrimSpace(in.AssetID)
	switch {
	case in.Name == "":
		return in, domain.Invalid("name is required")
	case in.LocationID == "":
		return in, domain.Invalid("location_id is required")
	case in.CategoryID == "":
		return in, domain.Invalid("category_id is required")
	case in.Quantity < 0:
		return in, domain.Invalid("quantity must be at least 1")
	case in.Purchase.Price < 0:
		return in, domain.Invalid("purchase price must not be negative")
	}
	if in.Quantity == 0 {
		in.Quantity = 1
	}

	if _, err := s.locations.FindByID(ctx, groupID, in.LocationID); err != nil {
		if errors.Is(err, domain.ErrLocationNotFound) {
			return in, domain.Invalid("location not found")
		}
		return in, err
	}
	if _, err := s.categories.FindByID(ctx, groupID, in.CategoryID); err != nil {
		if errors.Is(err, domain.ErrCategoryNotFound) {
			return in, domain.Invalid("category not found")
		}
		return in, err
	}

	seen := make(map[string]bool, len(in.LabelIDs))
	labels := make([]string, 0, len(in.LabelIDs))
	for _, id := range in.LabelIDs {
		if id == "" || seen[id] {
			continue
		}
		seen[id] = true
		if _, err := s.labels.FindByID(ctx, groupID, id); err != nil {
			if errors.Is(err, domain.ErrLabelNotFound) {
				return in, domain.Invalid("label not found: " + id)
			}
			return in, err
		}
		labels = append(labels, id)
	}
	in.LabelIDs = labels

	fields := make([]domain.CustomField, 0, len(in.CustomFields))
	for _, f := range in.CustomFields {
		if f.Name = strings.TrimSpace(f.Name); f.Name != "" {
			fields = append(fields, f)
		}
	}
	in.CustomFields = fields
	return in, nil
}

func applyItemInput(item *domain.Item, in ports.ItemInput) {
	item.Name = in.Name
	item.Description = strings.TrimSpace(in.Description)
	item.LocationID = in.LocationID
	item.CategoryID = in.CategoryID
	item.LabelIDs = in.LabelIDs
	item.Quantity = in.Quantity
	item.AssetID = in.AssetID
	item.SerialNumber = strings.TrimSpace(in.SerialNumber)
	item.Model = strings.TrimSpace(in.Model)
	item.Manufacturer = strings.TrimSpace(in.Manufacturer)
	item.Notes = in.Notes
	item.Purchase = in.Purchase
	item.Warranty = in.Warranty
	item.CustomFields = in.CustomFields
}
