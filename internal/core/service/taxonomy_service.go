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

// CategoryService manages item categories.
type CategoryService struct {
	categories ports.CategoryRepository
	items      ports.ItemRepository
	cache      ports.StatsCache
	log        zerolog.Logger
}

func NewCategoryService(categories ports.CategoryRepository, items ports.ItemRepository, cache ports.StatsCache, log zerolog.Logger) *CategoryService {
	return &CategoryService{categories: categories, items: items, cache: cache, log: log}
}

func (s *CategoryService) List(ctx context.Context, actor domain.Actor) ([]*domain.Category, error) {
	return s.categories.List(ctx, actor.GroupID)
}

func (s *CategoryService) Get(ctx context.Context, actor domain.Actor, id string) (*domain.Category, error) {
	return s.categories.FindByID(ctx, actor.GroupID, id)
}

func (s *CategoryService) Create(ctx context.Context, actor domain.Actor, in ports.CategoryInput) (*domain.Category, error) {
	name := strings.TrimSpace(in.Name)
	if name == "" {
		return nil, domain.Invalid("name is required")
	}
	if err := s.ensureNameFree(ctx, actor.GroupID, "", name); err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	c := &domain.Category{
		GroupID:     actor.GroupID,
		Name:        name,
		Description: strings.TrimSpace(in.Description),
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := s.categories.Create(ctx, c); err != nil {
		return nil, err
	}
	invalidateStats(ctx, s.cache, s.log, actor.GroupID)
	return c, nil
}

func (s *CategoryService) Update(ctx context.Context, actor domain.Actor, id string, in ports.CategoryInput) (*domain.Category, error) {
	name := strings.TrimSpace(in.Name)
	if name == "" {
		return nil, domain.Invalid("name is required")
	}
	c, err := s.categories.FindByID(ctx, actor.GroupID, id)
	if err != nil {
		return nil, err
	}
	if err := s.ensureNameFree(ctx, actor.GroupID, id, name); err != nil {
		return nil, err
	}

	c.Name = name
	c.Description = strings.TrimSpace(in.Description)
	c.UpdatedAt = time.Now().UTC()
	if err := s.categories.Update(ctx, c); err != nil {
		return nil, err
	}
	return c, nil
}

// Delete refuses while any item, archived or not, still uses the category.
func (s *CategoryService) Delete(ctx context.Context, actor domain.Actor, id string) error {
	if _, err := s.categories.FindByID(ctx, actor.GroupID, id); err != nil {
		return err
	}
	used, err := s.items.Count(ctx, ports.ItemFilter{GroupID: actor.GroupID, CategoryID: id})
	if err != nil {
		return fmt.Errorf("delete category: count items: %w", err)
	}
	if used > 0 {
		return domain.ErrCategoryInUse
	}
	if err := s.categories.Delete(ctx, actor.GroupID, id); err != nil {
		return err
	}
	invalidateStats(ctx, s.cache, s.log, actor.GroupID)
	return nil
}

func (s *CategoryService) ensureNameFree(ctx context.Context, groupID, id, name string) error {
	existing, err := s.categories.FindByName(ctx, groupID, name)
	switch {
	case errors.Is(err, domain.ErrCategoryNotFound):
		return nil
	case err != nil:
		return err
	case existing.ID != id:
		return domain.ErrDuplicateName
	}
	return nil
}

// LabelService manages item labels.
type LabelService struct {
	labels ports.LabelRepository
	items  ports.ItemRepository
	cache  ports.StatsCache
	log    zerolog.Logger
}

func NewLabelService(labels ports.LabelRepository, items ports.ItemRepository, cache ports.StatsCache, log zerolog.Logger) *LabelService {
	return &LabelService{labels: labels, items: items, cache: cache, log: log}
}

func (s *LabelService) List(ctx context.Context, actor domain.Actor) ([]*domain.Label, error) {
	return s.labels.List(ctx, actor.GroupID)
}

func (s *LabelService) Get(ctx context.Context, actor domain.Actor, id string) (*domain.Label, error) {
	return s.labels.FindByID(ctx, actor.GroupID, id)
}

func (s *LabelService) Create(ctx context.Context, actor domain.Actor, in ports.LabelInput) (*domain.Label, error) {
	name := strings.TrimSpace(in.Name)
	if name == "" {
		return nil, domain.Invalid("name is required")
	}
	color, err := domain.NormalizeColor(in.Color)
	if err != nil {
		return nil, err
	}
	if err := s.ensureNameFree(ctx, actor.GroupID, "", name); err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	l := &domain.Label{
		GroupID:     actor.GroupID,
		Name:        name,
		Description: strings.TrimSpace(in.Description),
		Color:       color,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := s.labels.Create(ctx, l); err != nil {
		return nil, err
	}
	invalidateStats(ctx, s.cache, s.log, actor.GroupID)
	return l, nil
}

func (s *LabelService) Update(ctx context.Context, actor domain.Actor, id string, in ports.LabelInput) (*domain.Label, error) {
	name := strings.TrimSpace(in.Name)
	if name == "" {
		return nil, domain.Invalid("name is required")
	}
	color, err := domain.NormalizeColor(in.Color)
	if err != nil {
		return nil, err
	}
	l, err := s.labels.FindByID(ctx, actor.GroupID, id)
	if err != nil {
		return nil, err
	}
	if err := s.ensureNameFree(ctx, actor.GroupID, id, name); err != nil {
		return nil, err
	}

	l.Name = name
	l.Description = strings.TrimSpace(in.Description)
	l.Color = color
	l.UpdatedAt = time.Now().UTC()
	if err := s.labels.Update(ctx, l); err != nil {
		return nil, err
	}
	return l, nil
}

// Delete removes the label and pulls it from every item that carries it.
func (s *LabelService) Delete(ctx context.Context, actor domain.Actor, id string) error {
	if _, err := s.labels.FindByID(ctx, actor.GroupID, id); err != nil {
		return err
	}
	detached, err := s.items.RemoveLabel(ctx, actor.GroupID, id)
	if err != nil {
		return fmt.Errorf("delete label: detach from items: %w", err)
	}
	if err := s.labels.Delete(ctx, actor.GroupID, id); err != nil {
		return err
	}
	s.log.Info().Str("label_id", id).Int64("items_detached", detached).Msg("label deleted")
	invalidateStats(ctx, s.cache, s.log, actor.GroupID)
	return nil
}

func (s *LabelService) ensureNameFree(ctx context.Context, groupID, id, name string) error {
	existing, err := s.labels.FindByName(ctx, groupID, name)
	switch {
	case errors.Is(err, domain.ErrLabelNotFound):
		return nil
	case err != nil:
		return err
	case existing.ID != id:
		return domain.ErrDuplicateName
	}
	return nil
}
