package service

import (
	"context"
	"regexp"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/boxwise/inventory/internal/core/domain"
	"github.com/boxwise/inventory/internal/core/ports"
)

const billingPeriod = 30 * 24 * time.Hour

var assetPrefixPattern = regexp.MustCompile(`^[A-Za-z0-9]{0,10}$`)

// GroupService covers tenant settings and the subscription plan.
type GroupService struct {
	groups ports.GroupRepository
	items  ports.ItemRepository
	log    zerolog.Logger
}

func NewGroupService(groups ports.GroupRepository, items ports.ItemRepository, log zerolog.Logger) *GroupService {
	return &GroupService{groups: groups, items: items, log: log}
}

func (s *GroupService) Get(ctx context.Context, actor domain.Actor) (*domain.Group, error) {
	return s.groups.FindByID(ctx, actor.GroupID)
}

func (s *GroupService) UpdateSettings(ctx context.Context, actor domain.Actor, in ports.GroupSettingsInput) (*domain.Group, error) {
	group, err := s.groups.FindByID(ctx, actor.GroupID)
	if err != nil {
		return nil, err
	}

	if in.Name != nil {
		name := strings.TrimSpace(*in.Name)
		if name == "" {
			return nil, domain.Invalid("name is required")
		}
		group.Name = name
	}
	if in.AssetIDPrefix != nil {
		prefix := strings.ToUpper(strings.TrimSpace(*in.AssetIDPrefix))
		if !assetPrefixPattern.MatchString(prefix) {
			return nil, domain.Invalid("asset id prefix must be up to 10 letters or digits")
		}
		group.AssetIDs.Prefix = prefix
	}
	if in.AssetIDPadding != nil {
		if *in.AssetIDPadding < 1 || *in.AssetIDPadding > 10 {
			return nil, domain.Invalid("asset id padding must be between 1 and 10")
		}
		group.AssetIDs.Padding = *in.AssetIDPadding
	}
	if in.AssetAutoAssign != nil {
		group.AssetIDs.AutoAssign = *in.AssetAutoAssign
	}
	group.UpdatedAt = time.Now().UTC()

	if err := s.groups.Update(ctx, group); err != nil {
		return nil, err
	}
	return group, nil
}

// RegenerateInvite invalidates the previous invite code.
func (s *GroupService) RegenerateInvite(ctx context.Context, actor domain.Actor) (*domain.Group, error) {
	group, err := s.groups.FindByID(ctx, actor.GroupID)
	if err != nil {
		return nil, err
	}
	group.InviteCode = uuid.NewString()
	group.UpdatedAt = time.Now().UTC()
	if err := s.groups.Update(ctx, group); err != nil {
		return nil, err
	}
	return group, nil
}

func (s *GroupService) Subscription(ctx context.Context, actor domain.Actor) (*ports.SubscriptionView, error) {
	group, err := s.groups.FindByID(ctx, actor.GroupID)
	if err != nil {
		return nil, err
	}
	return s.view(ctx, group)
}

// ChangePlan switches plans or cancels. A downgrade that would leave the
// group above the new limits is refused.
func (s *GroupService) ChangePlan(ctx context.Context, actor domain.Actor, in ports.ChangePlanInput) (*ports.SubscriptionView, error) {
	if !actor.Can(domain.CanManageSubscription) {
		return nil, domain.ErrForbidden
	}
	group, err := s.groups.FindByID(ctx, actor.GroupID)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	switch {
	case in.Cancel:
		group.Subscription.Status = domain.SubscriptionCanceled
		group.Subscription.RenewsAt = nil
	default:
		plan, ok := domain.ParsePlan(string(in.Plan))
		if !ok {
			return nil, domain.Invalid("plan must be one of free, pro, business")
		}
		in.Plan = plan
		items, err := s.items.Count(ctx, ports.ItemFilter{GroupID: group.ID})
		if err != nil {
			return nil, err
		}
		limits := in.Plan.Limits()
		if !limits.AllowsItems(items, 0) || !limits.AllowsMembers(int64(len(group.Members)), 0) {
			return nil, domain.ErrPlanLimit
		}
		group.Subscription.Plan = in.Plan
		group.Subscription.Status = domain.SubscriptionActive
		group.Subscription.RenewsAt = nil
		if in.Plan != domain.PlanFree {
			renews := now.Add(billingPeriod)
			group.Subscription.RenewsAt = &renews
		}
	}
	group.UpdatedAt = now

	if err := s.groups.Update(ctx, group); err != nil {
		return nil, err
	}
	s.log.Info().
		Str("group_id", group.ID).
		Str("plan", string(group.Subscription.Plan)).
		Str("status", string(group.Subscription.Status)).
		Msg("subscription changed")
	return s.view(ctx, group)
}

func (s *GroupService) view(ctx context.Context, group *domain.Group) (*ports.SubscriptionView, error) {
	items, err := s.items.Count(ctx, ports.ItemFilter{GroupID: group.ID})
	if err != nil {
		return nil, err
	}
	return &ports.SubscriptionView{
		Subscription: group.Subscription,
		Limits:       group.Subscription.Plan.Limits(),
		Usage:        ports.Usage{Items: items, Members: int64(len(group.Members))},
	}, nil
}
