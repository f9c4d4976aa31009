package service

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/boxwise/inventory/internal/core/domain"
	"github.com/boxwise/inventory/internal/core/ports"
)

// ---------------------------------------------------------------------------
// In-memory repositories shared by the service tests.
// ---------------------------------------------------------------------------

var nopLog = zerolog.Nop()

type idSeq struct{ n int }

func (s *idSeq) next(prefix string) string {
	s.n++
	return fmt.Sprintf("%s%d", prefix, s.n)
}

type stubUserRepo struct {
	ids   idSeq
	users map[string]*domain.User
}

func newStubUserRepo() *stubUserRepo {
	return &stubUserRepo{users: make(map[string]*domain.User)}
}

func cloneUser(u *domain.User) *domain.User {
	if u == nil {
		return nil
	}
	clone := *u
	return &clone
}

func (r *stubUserRepo) Create(_ context.Context, user *domain.User) (*domain.User, error) {
	for _, u := range r.users {
		if u.Email == user.Email {
			return nil, domain.ErrUserExists
		}
	}
	c := cloneUser(user)
	if c.ID == "" {
		c.ID = r.ids.next("u")
	}
	r.users[c.ID] = cloneUser(c)
	return c, nil
}

func (r *stubUserRepo) FindByEmail(_ context.Context, email string) (*domain.User, error) {
	for _, u := range r.users {
		if u.Email == email {
			return cloneUser(u), nil
		}
	}
	return nil, domain.ErrUserNotFound
}

func (r *stubUserRepo) FindByID(_ context.Context, id string) (*domain.User, error) {
	if u, ok := r.users[id]; ok {
		return cloneUser(u), nil
	}
	return nil, domain.ErrUserNotFound
}

func (r *stubUserRepo) ListByGroup(_ context.Context, groupID string) ([]*domain.User, error) {
	var out []*domain.User
	for _, u := range r.users {
		if u.GroupID == groupID {
			out = append(out, cloneUser(u))
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (r *stubUserRepo) Update(_ context.Context, user *domain.User) error {
	if _, ok := r.users[user.ID]; !ok {
		return domain.ErrUserNotFound
	}
	r.users[user.ID] = cloneUser(user)
	return nil
}

func (r *stubUserRepo) Delete(_ context.Context, groupID, id string) error {
	u, ok := r.users[id]
	if !ok || u.GroupID != groupID {
		return domain.ErrUserNotFound
	}
	delete(r.users, id)
	return nil
}

type stubGroupRepo struct {
	ids    idSeq
	groups map[string]*domain.Group
}

func newStubGroupRepo() *stubGroupRepo {
	return &stubGroupRepo{groups: make(map[string]*domain.Group)}
}

func cloneGroup(g *domain.Group) *domain.Group {
	c := *g
	c.Members = append([]domain.Member(nil), g.Members...)
	return &c
}

func (r *stubGroupRepo) Create(_ context.Context, g *domain.Group) (*domain.Group, error) {
	c := cloneGroup(g)
	if c.ID == "" {
		c.ID = r.ids.next("g")
	}
	r.groups[c.ID] = cloneGroup(c)
	return c, nil
}

func (r *stubGroupRepo) FindByID(_ context.Context, id string) (*domain.Group, error) {
	if g, ok := r.groups[id]; ok {
		return cloneGroup(g), nil
	}
	return nil, domain.ErrGroupNotFound
}

func (r *stubGroupRepo) FindByInviteCode(_ context.Context, code string) (*domain.Group, error) {
	for _, g := range r.groups {
		if g.InviteCode == code {
			return cloneGroup(g), nil
		}
	}
	return nil, domain.ErrGroupNotFound
}

func (r *stubGroupRepo) Update(_ context.Context, g *domain.Group) error {
	cur, ok := r.groups[g.ID]
	if !ok {
		return domain.ErrGroupNotFound
	}
	c := cloneGroup(g)
	c.Members = cur.Members
	c.AssetIDs.NextSeq = cur.AssetIDs.NextSeq
	r.groups[g.ID] = c
	return nil
}

func (r *stubGroupRepo) AddMember(_ context.Context, groupID string, m domain.Member) error {
	g, ok := r.groups[groupID]
	if !ok {
		return domain.ErrGroupNotFound
	}
	g.Members = append(g.Members, m)
	return nil
}

func (r *stubGroupRepo) UpdateMemberRole(_ context.Context, groupID, userID string, role domain.Role) error {
	g, ok := r.groups[groupID]
	if !ok {
		return domain.ErrGroupNotFound
	}
	for i := range g.Members {
		if g.Members[i].UserID == userID {
			g.Members[i].Role = role
			return nil
		}
	}
	return domain.ErrUserNotFound
}

func (r *stubGroupRepo) RemoveMember(_ context.Context, groupID, userID string) error {
	g, ok := r.groups[groupID]
	if !ok {
		return domain.ErrGroupNotFound
	}
	kept := g.Members[:0]
	for _, m := range g.Members {
		if m.UserID != userID {
			kept = append(kept, m)
		}
	}
	g.Members = kept
	return nil
}

func (r *stubGroupRepo) NextAssetSeq(_ context.Context, groupID string) (int64, error) {
	g, ok := r.groups[groupID]
	if !ok {
		return 0, domain.ErrGroupNotFound
	}
	seq := g.AssetIDs.NextSeq
	g.AssetIDs.NextSeq++
	return seq, nil
}

type stubItemRepo struct {
	ids   idSeq
	items map[string]*domain.Item
	clock time.Time
}

func newStubItemRepo() *stubItemRepo {
	return &stubItemRepo{items: make(map[string]*domain.Item), clock: time.Now().UTC()}
}

func cloneItem(i *domain.Item) *domain.Item {
	c := *i
	c.LabelIDs = append([]string(nil), i.LabelIDs...)
	c.LoanHistory = append([]domain.Loan(nil), i.LoanHistory...)
	if i.Loan != nil {
		l := *i.Loan
		c.Loan = &l
	}
	return &c
}

func (r *stubItemRepo) Create(_ context.Context, item *domain.Item) error {
	item.ID = r.ids.next("i")
	// Distinct creation times keep created_at ordering deterministic.
	r.clock = r.clock.Add(time.Second)
	item.CreatedAt = r.clock
	r.items[item.ID] = cloneItem(item)
	return nil
}

func (r *stubItemRepo) FindByID(_ context.Context, groupID, id string) (*domain.Item, error) {
	i, ok := r.items[id]
	if !ok || i.GroupID != groupID {
		return nil, domain.ErrItemNotFound
	}
	return cloneItem(i), nil
}

func (r *stubItemRepo) Update(_ context.Context, item *domain.Item) error {
	if _, ok := r.items[item.ID]; !ok {
		return domain.ErrItemNotFound
	}
	r.items[item.ID] = cloneItem(item)
	return nil
}

func (r *stubItemRepo) Delete(_ context.Context, groupID, id string) error {
	i, ok := r.items[id]
	if !ok || i.GroupID != groupID {
		return domain.ErrItemNotFound
	}
	delete(r.items, id)
	return nil
}

func (r *stubItemRepo) match(f ports.ItemFilter) []*domain.Item {
	var out []*domain.Item
	for _, i := range r.items {
		if i.GroupID != f.GroupID {
			continue
		}
		if f.Search != "" {
			q := strings.ToLower(f.Search)
			hay := strings.ToLower(i.Name + " " + i.Description + " " + i.AssetID + " " + i.SerialNumber)
			if !strings.Contains(hay, q) {
				continue
			}
		}
		if len(f.LocationIDs) > 0 && !containsString(f.LocationIDs, i.LocationID) {
			continue
		}
		if f.CategoryID != "" && i.CategoryID != f.CategoryID {
			continue
		}
		if f.LabelID != "" && !i.HasLabel(f.LabelID) {
			continue
		}
		if f.Archived != nil && i.Archived != *f.Archived {
			continue
		}
		if f.OnLoan != nil && i.OnLoan() != *f.OnLoan {
			continue
		}
		if !f.WarrantyExpiresAfter.IsZero() || !f.WarrantyExpiresBefore.IsZero() {
			if i.Warranty.Expires == nil {
				continue
			}
			if !f.WarrantyExpiresAfter.IsZero() && i.Warranty.Expires.Before(f.WarrantyExpiresAfter) {
				continue
			}
			if !f.WarrantyExpiresBefore.IsZero() && i.Warranty.Expires.After(f.WarrantyExpiresBefore) {
				continue
			}
		}
		out = append(out, cloneItem(i))
	}
	sort.Slice(out, func(a, b int) bool {
		less := out[a].CreatedAt.Before(out[b].CreatedAt)
		if f.Sort == "name" {
			less = out[a].Name < out[b].Name
		}
		if f.Desc {
			return !less
		}
		return less
	})
	return out
}

func (r *stubItemRepo) List(_ context.Context, f ports.ItemFilter) ([]*domain.Item, int64, error) {
	all := r.match(f)
	total := int64(len(all))
	if f.Limit > 0 {
		start := (f.Page - 1) * f.Limit
		if start > len(all) {
			start = len(all)
		}
		end := start + f.Limit
		if end > len(all) {
			end = len(all)
		}
		all = all[start:end]
	}
	return all, total, nil
}

func (r *stubItemRepo) Count(_ context.Context, f ports.ItemFilter) (int64, error) {
	return int64(len(r.match(f))), nil
}

func (r *stubItemRepo) TotalValue(_ context.Context, groupID string) (float64, error) {
	var sum float64
	for _, i := range r.items {
		if i.GroupID == groupID && !i.Archived {
			sum += i.TotalValue()
		}
	}
	return sum, nil
}

func (r *stubItemRepo) CountLoansEver(_ context.Context, groupID string) (int64, error) {
	var n int64
	for _, i := range r.items {
		if i.GroupID == groupID && (i.Loan != nil || len(i.LoanHistory) > 0) {
			n++
		}
	}
	return n, nil
}

func (r *stubItemRepo) MoveLocation(_ context.Context, groupID, from, to string) (int64, error) {
	var n int64
	for _, i := range r.items {
		if i.GroupID == groupID && i.LocationID == from {
			i.LocationID = to
			n++
		}
	}
	return n, nil
}

func (r *stubItemRepo) MoveItems(_ context.Context, groupID string, ids []string, locationID string) (int64, error) {
	var n int64
	for _, id := range ids {
		if i, ok := r.items[id]; ok && i.GroupID == groupID && i.LocationID != locationID {
			i.LocationID = locationID
			n++
		}
	}
	return n, nil
}

func (r *stubItemRepo) RemoveLabel(_ context.Context, groupID, labelID string) (int64, error) {
	var n int64
	for _, i := range r.items {
		if i.GroupID != groupID || !i.HasLabel(labelID) {
			continue
		}
		kept := i.LabelIDs[:0]
		for _, id := range i.LabelIDs {
			if id != labelID {
				kept = append(kept, id)
			}
		}
		i.LabelIDs = kept
		n++
	}
	return n, nil
}

type stubLocationRepo struct {
	ids  idSeq
	locs map[string]*domain.Location
}

func newStubLocationRepo() *stubLocationRepo {
	return &stubLocationRepo{locs: make(map[string]*domain.Location)}
}

func (r *stubLocationRepo) Create(_ context.Context, l *domain.Location) error {
	l.ID = r.ids.next("l")
	c := *l
	r.locs[l.ID] = &c
	return nil
}

func (r *stubLocationRepo) FindByID(_ context.Context, groupID, id string) (*domain.Location, error) {
	l, ok := r.locs[id]
	if !ok || l.GroupID != groupID {
		return nil, domain.ErrLocationNotFound
	}
	c := *l
	return &c, nil
}

func (r *stubLocationRepo) ListByGroup(_ context.Context, groupID string) ([]domain.Location, error) {
	var out []domain.Location
	for _, l := range r.locs {
		if l.GroupID == groupID {
			out = append(out, *l)
		}
	}
	return out, nil
}

func (r *stubLocationRepo) Update(_ context.Context, l *domain.Location) error {
	if _, ok := r.locs[l.ID]; !ok {
		return domain.ErrLocationNotFound
	}
	c := *l
	r.locs[l.ID] = &c
	return nil
}

func (r *stubLocationRepo) Delete(_ context.Context, groupID, id string) error {
	l, ok := r.locs[id]
	if !ok || l.GroupID != groupID {
		return domain.ErrLocationNotFound
	}
	delete(r.locs, id)
	return nil
}

func (r *stubLocationRepo) Reparent(_ context.Context, groupID, from, to string) (int64, error) {
	var n int64
	for _, l := range r.locs {
		if l.GroupID == groupID && l.ParentID == from {
			l.ParentID = to
			n++
		}
	}
	return n, nil
}

func (r *stubLocationRepo) Count(_ context.Context, groupID string) (int64, error) {
	var n int64
	for _, l := range r.locs {
		if l.GroupID == groupID {
			n++
		}
	}
	return n, nil
}

type stubCategoryRepo struct {
	ids  idSeq
	cats map[string]*domain.Category
}

func newStubCategoryRepo() *stubCategoryRepo {
	return &stubCategoryRepo{cats: make(map[string]*domain.Category)}
}

func (r *stubCategoryRepo) Create(_ context.Context, c *domain.Category) error {
	c.ID = r.ids.next("c")
	cp := *c
	r.cats[c.ID] = &cp
	return nil
}

func (r *stubCategoryRepo) FindByID(_ context.Context, groupID, id string) (*domain.Category, error) {
	c, ok := r.cats[id]
	if !ok || c.GroupID != groupID {
		return nil, domain.ErrCategoryNotFound
	}
	cp := *c
	return &cp, nil
}

func (r *stubCategoryRepo) FindByName(_ context.Context, groupID, name string) (*domain.Category, error) {
	for _, c := range r.cats {
		if c.GroupID == groupID && strings.EqualFold(c.Name, name) {
			cp := *c
			return &cp, nil
		}
	}
	return nil, domain.ErrCategoryNotFound
}

func (r *stubCategoryRepo) List(_ context.Context, groupID string) ([]*domain.Category, error) {
	var out []*domain.Category
	for _, c := range r.cats {
		if c.GroupID == groupID {
			cp := *c
			out = append(out, &cp)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (r *stubCategoryRepo) Update(_ context.Context, c *domain.Category) error {
	if _, ok := r.cats[c.ID]; !ok {
		return domain.ErrCategoryNotFound
	}
	cp := *c
	r.cats[c.ID] = &cp
	return nil
}

func (r *stubCategoryRepo) Delete(_ context.Context, groupID, id string) error {
	c, ok := r.cats[id]
	if !ok || c.GroupID != groupID {
		return domain.ErrCategoryNotFound
	}
	delete(r.cats, id)
	return nil
}

func (r *stubCategoryRepo) Count(ctx context.Context, groupID string) (int64, error) {
	list, _ := r.List(ctx, groupID)
	return int64(len(list)), nil
}

type stubLabelRepo struct {
	ids    idSeq
	labels map[string]*domain.Label
}

func newStubLabelRepo() *stubLabelRepo {
	return &stubLabelRepo{labels: make(map[string]*domain.Label)}
}

func (r *stubLabelRepo) Create(_ context.Context, l *domain.Label) error {
	l.ID = r.ids.next("lb")
	cp := *l
	r.labels[l.ID] = &cp
	return nil
}

func (r *stubLabelRepo) FindByID(_ context.Context, groupID, id string) (*domain.Label, error) {
	l, ok := r.labels[id]
	if !ok || l.GroupID != groupID {
		return nil, domain.ErrLabelNotFound
	}
	cp := *l
	return &cp, nil
}

func (r *stubLabelRepo) FindByName(_ context.Context, groupID, name string) (*domain.Label, error) {
	for _, l := range r.labels {
		if l.GroupID == groupID && strings.EqualFold(l.Name, name) {
			cp := *l
			return &cp, nil
		}
	}
	return nil, domain.ErrLabelNotFound
}

func (r *stubLabelRepo) List(_ context.Context, groupID string) ([]*domain.Label, error) {
	var out []*domain.Label
	for _, l := range r.labels {
		if l.GroupID == groupID {
			cp := *l
			out = append(out, &cp)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (r *stubLabelRepo) Update(_ context.Context, l *domain.Label) error {
	if _, ok := r.labels[l.ID]; !ok {
		return domain.ErrLabelNotFound
	}
	cp := *l
	r.labels[l.ID] = &cp
	return nil
}

func (r *stubLabelRepo) Delete(_ context.Context, groupID, id string) error {
	l, ok := r.labels[id]
	if !ok || l.GroupID != groupID {
		return domain.ErrLabelNotFound
	}
	delete(r.labels, id)
	return nil
}

func (r *stubLabelRepo) Count(ctx context.Context, groupID string) (int64, error) {
	list, _ := r.List(ctx, groupID)
	return int64(len(list)), nil
}

type stubReminderRepo struct {
	ids       idSeq
	reminders map[string]*domain.Reminder
}

func newStubReminderRepo() *stubReminderRepo {
	return &stubReminderRepo{reminders: make(map[string]*domain.Reminder)}
}

func (r *stubReminderRepo) Create(_ context.Context, rem *domain.Reminder) error {
	rem.ID = r.ids.next("r")
	cp := *rem
	r.reminders[rem.ID] = &cp
	return nil
}

func (r *stubReminderRepo) FindByID(_ context.Context, groupID, id string) (*domain.Reminder, error) {
	rem, ok := r.reminders[id]
	if !ok || rem.GroupID != groupID {
		return nil, domain.ErrReminderNotFound
	}
	cp := *rem
	return &cp, nil
}

func (r *stubReminderRepo) Update(_ context.Context, rem *domain.Reminder) error {
	if _, ok := r.reminders[rem.ID]; !ok {
		return domain.ErrReminderNotFound
	}
	cp := *rem
	r.reminders[rem.ID] = &cp
	return nil
}

func (r *stubReminderRepo) Delete(_ context.Context, groupID, id string) error {
	rem, ok := r.reminders[id]
	if !ok || rem.GroupID != groupID {
		return domain.ErrReminderNotFound
	}
	delete(r.reminders, id)
	return nil
}

func (r *stubReminderRepo) DeleteByItem(_ context.Context, groupID, itemID string) (int64, error) {
	var n int64
	for id, rem := range r.reminders {
		if rem.GroupID == groupID && rem.ItemID == itemID {
			delete(r.reminders, id)
			n++
		}
	}
	return n, nil
}

func (r *stubReminderRepo) match(f ports.ReminderFilter) []*domain.Reminder {
	var out []*domain.Reminder
	for _, rem := range r.reminders {
		if rem.GroupID != f.GroupID {
			continue
		}
		if f.ItemID != "" && rem.ItemID != f.ItemID {
			continue
		}
		if f.Completed != nil && rem.Completed != *f.Completed {
			continue
		}
		if !f.DueAfter.IsZero() && rem.Date.Before(f.DueAfter) {
			continue
		}
		if !f.DueBefore.IsZero() && !rem.Date.Before(f.DueBefore) {
			continue
		}
		cp := *rem
		out = append(out, &cp)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Date.Before(out[j].Date) })
	if f.Limit > 0 && len(out) > f.Limit {
		out = out[:f.Limit]
	}
	return out
}

func (r *stubReminderRepo) List(_ context.Context, f ports.ReminderFilter) ([]*domain.Reminder, error) {
	return r.match(f), nil
}

func (r *stubReminderRepo) Count(_ context.Context, f ports.ReminderFilter) (int64, error) {
	return int64(len(r.match(f))), nil
}

func (r *stubReminderRepo) FindDue(_ context.Context, cutoff time.Time, limit int) ([]*domain.Reminder, error) {
	var out []*domain.Reminder
	for _, rem := range r.reminders {
		if !rem.Completed && rem.NotifiedAt == nil && rem.Date.Before(cutoff) {
			cp := *rem
			out = append(out, &cp)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Date.Before(out[j].Date) })
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (r *stubReminderRepo) MarkNotified(_ context.Context, id string, at time.Time) error {
	rem, ok := r.reminders[id]
	if !ok {
		return domain.ErrReminderNotFound
	}
	rem.NotifiedAt = &at
	return nil
}

type stubCache struct {
	data        map[string]*ports.DashboardSummary
	invalidated []string
	getErr      error
}

func newStubCache() *stubCache {
	return &stubCache{data: make(map[string]*ports.DashboardSummary)}
}

func (c *stubCache) Get(_ context.Context, groupID string) (*ports.DashboardSummary, bool, error) {
	if c.getErr != nil {
		return nil, false, c.getErr
	}
	s, ok := c.data[groupID]
	return s, ok, nil
}

func (c *stubCache) Set(_ context.Context, groupID string, s *ports.DashboardSummary) error {
	c.data[groupID] = s
	return nil
}

func (c *stubCache) Invalidate(_ context.Context, groupID string) error {
	delete(c.data, groupID)
	c.invalidated = append(c.invalidated, groupID)
	return nil
}

func containsString(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}

// ---------------------------------------------------------------------------
// Fixture: one group on the free plan with an owner.
// ---------------------------------------------------------------------------

type fixture struct {
	users      *stubUserRepo
	groups     *stubGroupRepo
	items      *stubItemRepo
	locations  *stubLocationRepo
	categories *stubCategoryRepo
	labels     *stubLabelRepo
	reminders  *stubReminderRepo
	cache      *stubCache
	group      *domain.Group
	owner      domain.Actor
}

func newFixture() *fixture {
	f := &fixture{
		users:      newStubUserRepo(),
		groups:     newStubGroupRepo(),
		items:      newStubItemRepo(),
		locations:  newStubLocationRepo(),
		categories: newStubCategoryRepo(),
		labels:     newStubLabelRepo(),
		reminders:  newStubReminderRepo(),
		cache:      newStubCache(),
	}
	ctx := context.Background()
	g, _ := f.groups.Create(ctx, &domain.Group{
		Name:         "Home",
		Subscription: domain.Subscription{Plan: domain.PlanFree, Status: domain.SubscriptionActive},
		AssetIDs:     domain.DefaultAssetIDSettings(),
		InviteCode:   "invite-1",
	})
	owner, _ := f.users.Create(ctx, &domain.User{
		Name:        "Olive",
		Email:       "olive@example.com",
		Role:        domain.RoleOwner,
		GroupID:     g.ID,
		Preferences: domain.DefaultPreferences(),
	})
	_ = f.groups.AddMember(ctx, g.ID, domain.Member{UserID: owner.ID, Role: domain.RoleOwner})
	g.OwnerID = owner.ID
	_ = f.groups.Update(ctx, g)

	f.group = g
	f.owner = domain.Actor{UserID: owner.ID, GroupID: g.ID, Email: owner.Email, Role: domain.RoleOwner}
	return f
}

func (f *fixture) location(name, parent string) string {
	l := &domain.Location{GroupID: f.group.ID, Name: name, ParentID: parent}
	_ = f.locations.Create(context.Background(), l)
	return l.ID
}

func (f *fixture) category(name string) string {
	c := &domain.Category{GroupID: f.group.ID, Name: name}
	_ = f.categories.Create(context.Background(), c)
	return c.ID
}

func (f *fixture) label(name string) string {
	l := &domain.Label{GroupID: f.group.ID, Name: name, Color: domain.DefaultLabelColor}
	_ = f.labels.Create(context.Background(), l)
	return l.ID
}

func (f *fixture) itemService() *ItemService {
	return NewItemService(f.items, f.locations, f.categories, f.labels, f.groups, f.reminders, f.cache, nopLog)
}
