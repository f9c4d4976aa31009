package domain

import (
	"fmt"
	"strings"
	"time"
)

// Plan is a subscription tier.
type Plan string

const (
	PlanFree     Plan = "free"
	PlanPro      Plan = "pro"
	PlanBusiness Plan = "business"
)

// SubscriptionStatus is the billing state of a group's plan.
type SubscriptionStatus string

const (
	SubscriptionActive   SubscriptionStatus = "active"
	SubscriptionTrialing SubscriptionStatus = "trialing"
	SubscriptionCanceled SubscriptionStatus = "canceled"
)

// Unlimited marks a limit that is not enforced.
const Unlimited = -1

// Limits caps what a group may hold under a plan.
type Limits struct {
	MaxItems   int `json:"max_items"`
	MaxMembers int `json:"max_members"`
}

var planLimits = map[Plan]Limits{
	PlanFree:     {MaxItems: 100, MaxMembers: 2},
	PlanPro:      {MaxItems: 2000, MaxMembers: 10},
	PlanBusiness: {MaxItems: Unlimited, MaxMembers: Unlimited},
}

// ParsePlan reports whether s names a known plan.
func ParsePlan(s string) (Plan, bool) {
	p := Plan(strings.ToLower(strings.TrimSpace(s)))
	_, ok := planLimits[p]
	return p, ok
}

// Limits returns the caps of p. Unknown plans fall back to free.
func (p Plan) Limits() Limits {
	if l, ok := planLimits[p]; ok {
		return l
	}
	return planLimits[PlanFree]
}

// withinLimit reports whether adding to current stays under limit.
func withinLimit(limit int, current, adding int64) bool {
	if limit == Unlimited {
		return true
	}
	return current+adding <= int64(limit)
}

// AllowsItems reports whether adding n items to current stays within the plan.
func (l Limits) AllowsItems(current, n int64) bool { return withinLimit(l.MaxItems, current, n) }

// AllowsMembers reports whether adding n members to current stays within the plan.
func (l Limits) AllowsMembers(current, n int64) bool { return withinLimit(l.MaxMembers, current, n) }

// Subscription is the plan state of a group.
type Subscription struct {
	Plan     Plan               `json:"plan"`
	Status   SubscriptionStatus `json:"status"`
	RenewsAt *time.Time         `json:"renews_at,omitempty"`
}

// Member is a user's membership in a group.
type Member struct {
	UserID   string    `json:"user_id"`
	Role     Role      `json:"role"`
	JoinedAt time.Time `json:"joined_at"`
}

// AssetIDSettings configures the group's asset identifier sequence.
type AssetIDSettings struct {
	Prefix     string `json:"prefix"`
	NextSeq    int64  `json:"next_seq"`
	Padding    int    `json:"padding"`
	AutoAssign bool   `json:"auto_assign"`
}

// DefaultAssetIDSettings are applied to new groups.
func DefaultAssetIDSettings() AssetIDSettings {
	return AssetIDSettings{Prefix: "BX", NextSeq: 1, Padding: 4, AutoAssign: true}
}

// Group is a tenant: every other entity is scoped to one.
type Group struct {
	ID           string          `json:"id"`
	Name         string          `json:"name"`
	OwnerID      string          `json:"owner_id"`
	Members      []Member        `json:"members"`
	Subscription Subscription    `json:"subscription"`
	AssetIDs     AssetIDSettings `json:"asset_ids"`
	InviteCode   string          `json:"invite_code,omitempty"`
	CreatedAt    time.Time       `json:"created_at"`
	UpdatedAt    time.Time       `json:"updated_at"`
}

// MemberRole returns the role userID holds in g.
func (g *Group) MemberRole(userID string) (Role, bool) {
	for _, m := range g.Members {
		if m.UserID == userID {
			return m.Role, true
		}
	}
	return "", false
}

// FormatAssetID renders seq with prefix and zero padding, e.g. "BX-0007".
func FormatAssetID(prefix string, seq int64, padding int) string {
	if padding < 1 {
		padding = 1
	}
	num := fmt.Sprintf("%0*d", padding, seq)
	if prefix == "" {
		return num
	}
	return prefix + "-" + num
}
