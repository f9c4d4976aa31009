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

// LocationService implements the location hierarchy use cases.
type LocationService struct {
	locations ports.LocationRepository
	items     ports.ItemRepository
	cache     ports.StatsCache
	log       zerolog.Logger
}

// NewLocationService wires the service. cache may be nil.
func NewLocationService(locations ports.LocationRepository, items ports.ItemRepository, cache ports.StatsCache, log zerolog.Logger) *LocationService {
	return &LocationService{locations: locations, items: items, cache: cache, log: log}
}

func (s *LocationService) tree(ctx context.Context, groupID string) (*domain.LocationTree, error) {
	locs, err := s.locations.ListByGroup(ctx, groupID)
	if err != nil {
		return nil, fmt.Errorf("load locations: %w", err)
	}
	return domain.NewLocationTree(locs), nil
}

// List returns every location depth first with its full path.
func (s *LocationService) List(ctx context.Context, actor domain.Actor) ([]domain.FlatLocation, error) {
	t, err := s.tree(ctx, actor.GroupID)
	if err != nil {
		return nil, err
	}
	return t.Flatten(), nil
}

func (s *LocationService) Tree(ctx context.Context, actor domain.Actor) ([]*domain.LocationNode, error) {
	t, err := s.tree(ctx, actor.GroupID)
	if err != nil {
		return nil, err
	}
	return t.Nested(), nil
}

func (s *LocationService) Get(ctx context.Context, actor domain.Actor, id string) (*ports.LocationDetail, error) {
	t, err := s.tree(ctx, actor.GroupID)
	if err != nil {
		return nil, err
	}
	loc, ok := t.Get(id)
	if !ok {
		return nil, domain.ErrLocationNotFound
	}
	crumbs, err := t.Breadcrumb(id)
	if err != nil {
		return nil, err
	}

	count, err := s.items.Count(ctx, ports.ItemFilter{GroupID: actor.GroupID, LocationIDs: []string{id}})
	if err != nil {
		return nil, err
	}
	return &ports.LocationDetail{Location: &loc, Breadcrumb: crumbs, Children: t.Children(id), ItemCount: count}, nil
}

func (s *LocationService) Create(ctx context.Context, actor domain.Actor, in ports.LocationInput) (*domain.Location, error) {
	name := strings.TrimSpace(in.Name)
	if name == "" {
		return nil, domain.Invalid("name is required")
	}
	t, err := s.tree(ctx, actor.GroupID)
	if err != nil {
		return nil, err
	}
	if err := checkParent(t, "", in.ParentID); err != nil {
		return nil, err
	}
	if siblingNameTaken(t, "", in.ParentID, name) {
		return nil, domain.ErrDuplicateName
	}

	now := time.Now().UTC()
	loc := &domain.Location{
		GroupID:     actor.GroupID,
		Name:        name,
		ParentID:    in.ParentID,
		Description: strings.TrimSpace(in.Description),
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := s.locations.Create(ctx, loc); err != nil {
		return nil, err
	}
	invalidateStats(ctx, s.cache, s.log, actor.GroupID)
	return loc, nil
}

// Update edits a location. Moving it under itself or one of its
// descendants fails with domain.ErrLocationCycle.
func (s *LocationService) Update(ctx context.Context, actor domain.Actor, id string, in ports.LocationInput) (*domain.Location, error) {
	name := strings.TrimSpace(in.Name)
	if name == "" {
		return nil, domain.Invalid("name is required")
	}
	t, err := s.tree(ctx, actor.GroupID)
	if err != nil {
		return nil, err
	}
	current, ok := t.Get(id)
	if !ok {
		return nil, domain.ErrLocationNotFound
	}
	if err := checkParent(t, id, in.ParentID); err != nil {
		return nil, fmt.Errorf("update location: %w", err)
	}
	if siblingNameTaken(t, id, in.ParentID, name) {
		return nil, domain.ErrDuplicateName
	}

	current.Name = name
	current.ParentID = in.ParentID
	current.Description = strings.TrimSpace(in.Description)
	current.UpdatedAt = time.Now().UTC()
	if err := s.locations.Update(ctx, &current); err != nil {
		return nil, err
	}
	invalidateStats(ctx, s.cache, s.log, actor.GroupID)
	return &current, nil
}

// Delete removes a location. Its children and items move up to its parent;
// a root location that still holds items cannot be deleted.
func (s *LocationService) Delete(ctx context.Context, actor domain.Actor, id string) error {
	t, err := s.tree(ctx, actor.GroupID)
	if err != nil {
		return err
	}
	if _, ok := t.Get(id); !ok {
		return domain.ErrLocationNotFound
	}

	parent := ""
	if crumbs, _ := t.Breadcrumb(id); len(crumbs) > 1 {
		parent = crumbs[len(crumbs)-2].ID
	}

	held, err := s.items.Count(ctx, ports.ItemFilter{GroupID: actor.GroupID, LocationIDs: []string{id}})
	if err != nil {
		return err
	}
	if held > 0 {
		if parent == "" {
			return domain.ErrLocationInUse
		}
		if _, err := s.items.MoveLocation(ctx, actor.GroupID, id, parent); err != nil {
			return fmt.Errorf("delete location: move items: %w", err)
		}
	}
	if _, err := s.locations.Reparent(ctx, actor.GroupID, id, parent); err != nil {
		return fmt.Errorf("delete location: reparent children: %w", err)
	}
	if err := s.locations.Delete(ctx, actor.GroupID, id); err != nil {
		return err
	}

	s.log.Info().Str("location_id", id).Int64("items_moved", held).Str("to", parent).Msg("location deleted")
	invalidateStats(ctx, s.cache, s.log, actor.GroupID)
	return nil
}

func checkParent(t *domain.LocationTree, id, parentID string) error {
	err := t.ValidateParent(id, parentID)
	if errors.Is(err, domain.ErrLocationNotFound) {
		return domain.Invalid("parent location not found")
	}
	return err
}

func siblingNameTaken(t *domain.LocationTree, id, parentID, name string) bool {
	for _, f := range t.Flatten() {
		if f.ID == id || !strings.EqualFold(f.Name, name) {
			continue
		}
		crumbs, _ := t.Breadcrumb(f.ID)
		siblingParent := ""
		if len(crumbs) > 1 {
			siblingParent = crumbs[len(crumbs)-2].ID
		}
		if siblingParent == parentID {
			return true
		}
	}
	return false
}

// invalidateStats drops the cached dashboard of a group. Failures only cost
// freshness, so they are logged and swallowed.
func invalidateStats(ctx context.Context, cache ports.StatsCache, log zerolog.Logger, groupID string) {
	if cache == nil {
		return
	}
	if err := cache.Invalidate(ctx, groupID); err != nil {
		log.Warn().Err(err).Str("group_id", groupID).Msg("failed to invalidate dashboard cache")
	}
}
