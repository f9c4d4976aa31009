package mongo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/boxwise/inventory/internal/core/domain"
)

const collectionGroups = "groups"

type GroupRepository struct {
	col *mongo.Collection
}

func NewGroupRepository(db *mongo.Database) *GroupRepository {
	return &GroupRepository{col: db.Collection(collectionGroups)}
}

type mongoMember struct {
	UserID   string    `bson:"user_id"`
	Role     string    `bson:"role"`
	JoinedAt time.Time `bson:"joined_at"`
}

type mongoSubscription struct {
	Plan     string     `bson:"plan"`
	Status   string     `bson:"status"`
	RenewsAt *time.Time `bson:"renews_at,omitempty"`
}

type mongoAssetIDs struct {
	Prefix     string `bson:"prefix"`
	NextSeq    int64  `bson:"next_seq"`
	Padding    int    `bson:"padding"`
	AutoAssign bool   `bson:"auto_assign"`
}

type mongoGroup struct {
	ID           primitive.ObjectID `bson:"_id,omitempty"`
	Name         string             `bson:"name"`
	OwnerID      string             `bson:"owner_id"`
	Members      []mongoMember      `bson:"members"`
	Subscription mongoSubscription  `bson:"subscription"`
	AssetIDs     mongoAssetIDs      `bson:"asset_ids"`
	InviteCode   string             `bson:"invite_code"`
	CreatedAt    time.Time          `bson:"created_at"`
	UpdatedAt    time.Time          `bson:"updated_at"`
}

func toGroupDoc(g *domain.Group) mongoGroup {
	members := make([]mongoMember, 0, len(g.Members))
	for _, m := range g.Members {
		members = append(members, mongoMember{UserID: m.UserID, Role: string(m.Role), JoinedAt: m.JoinedAt})
	}
	return mongoGroup{
		Name:    g.Name,
		OwnerID: g.OwnerID,
		Members: members,
		Subscription: mongoSubscription{
			Plan:     string(g.Subscription.Plan),
			Status:   string(g.Subscription.Status),
			RenewsAt: g.Subscription.RenewsAt,
		},
		AssetIDs: mongoAssetIDs{
			Prefix:     g.AssetIDs.Prefix,
			NextSeq:    g.AssetIDs.NextSeq,
			Padding:    g.AssetIDs.Padding,
			AutoAssign: g.AssetIDs.AutoAssign,
		},
		InviteCode: g.InviteCode,
		CreatedAt:  g.CreatedAt,
		UpdatedAt:  g.UpdatedAt,
	}
}

func (d mongoGroup) toDomain() *domain.Group {
	members := make([]domain.Member, 0, len(d.Members))
	for _, m := range d.Members {
		members = append(members, domain.Member{UserID: m.UserID, Role: domain.Role(m.Role), JoinedAt: m.JoinedAt.UTC()})
	}
	return &domain.Group{
		ID:      d.ID.Hex(),
		Name:    d.Name,
		OwnerID: d.OwnerID,
		Members: members,
		Subscription: domain.Subscription{
			Plan:     domain.Plan(d.Subscription.Plan),
			Status:   domain.SubscriptionStatus(d.Subscription.Status),
			RenewsAt: d.Subscription.RenewsAt,
		},
		AssetIDs: domain.AssetIDSettings{
			Prefix:     d.AssetIDs.Prefix,
			NextSeq:    d.AssetIDs.NextSeq,
			Padding:    d.AssetIDs.Padding,
			AutoAssign: d.AssetIDs.AutoAssign,
		},
		InviteCode: d.InviteCode,
		CreatedAt:  d.CreatedAt.UTC(),
		UpdatedAt:  d.UpdatedAt.UTC(),
	}
}

func (r *GroupRepository) EnsureIndexes(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, indexTimeout)
	defer cancel()

	_, err := r.col.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{
			Keys: bson.D{{Key: "invite_code", Value: 1}},
			Options: options.Index().SetUnique(true).
				SetPartialFilterExpression(bson.M{"invite_code": bson.M{"$gt": ""}}),
		},
		{Keys: bson.D{{Key: "members.user_id", Value: 1}}},
	})
	return err
}

func (r *GroupRepository) Create(ctx context.Context, group *domain.Group) (*domain.Group, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	doc := toGroupDoc(group)
	doc.ID = primitive.NewObjectID()
	if _, err := r.col.InsertOne(ctx, doc); err != nil {
		return nil, fmt.Errorf("insert group: %w", err)
	}
	return doc.toDomain(), nil
}

func (r *GroupRepository) findOne(ctx context.Context, filter bson.M) (*domain.Group, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	var doc mongoGroup
	if err := r.col.FindOne(ctx, filter).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrGroupNotFound
		}
		return nil, fmt.Errorf("find group: %w", err)
	}
	return doc.toDomain(), nil
}

func (r *GroupRepository) FindByID(ctx context.Context, id string) (*domain.Group, error) {
	oid, ok := objectID(id)
	if !ok {
		return nil, domain.ErrGroupNotFound
	}
	return r.findOne(ctx, bson.M{"_id": oid})
}

func (r *GroupRepository) FindByInviteCode(ctx context.Context, code string) (*domain.Group, error) {
	if code == "" {
		return nil, domain.ErrGroupNotFound
	}
	return r.findOne(ctx, bson.M{"invite_code": code})
}

// Update leaves members and the asset sequence counter alone; both have
// their own atomic operations.
func (r *GroupRepository) Update(ctx context.Context, group *domain.Group) error {
	doc := toGroupDoc(group)
	return r.updateOne(ctx, group.ID, bson.M{}, bson.M{"$set": bson.M{
		"name":                  doc.Name,
		"owner_id":              doc.OwnerID,
		"subscription":          doc.Subscription,
		"asset_ids.prefix":      doc.AssetIDs.Prefix,
		"asset_ids.padding":     doc.AssetIDs.Padding,
		"asset_ids.auto_assign": doc.AssetIDs.AutoAssign,
		"invite_code":           doc.InviteCode,
		"updated_at":            doc.UpdatedAt,
	}})
}

func (r *GroupRepository) AddMember(ctx context.Context, groupID string, member domain.Member) error {
	m := mongoMember{UserID: member.UserID, Role: string(member.Role), JoinedAt: member.JoinedAt}
	return r.updateOne(ctx, groupID,
		bson.M{"members.user_id": bson.M{"$ne": member.UserID}},
		bson.M{"$push": bson.M{"members": m}},
	)
}

func (r *GroupRepository) UpdateMemberRole(ctx context.Context, groupID, userID string, role domain.Role) error {
	return r.updateOne(ctx, groupID,
		bson.M{"members.user_id": userID},
		bson.M{"$set": bson.M{"members.$.role": string(role), "updated_at": time.Now().UTC()}},
	)
}

func (r *GroupRepository) RemoveMember(ctx context.Context, groupID, userID string) error {
	return r.updateOne(ctx, groupID, bson.M{},
		bson.M{"$pull": bson.M{"members": bson.M{"user_id": userID}}},
	)
}

// updateOne applies update to the group, narrowed by extra. A miss on
// either the id or extra reports the group as not found.
func (r *GroupRepository) updateOne(ctx context.Context, groupID string, extra bson.M, update bson.M) error {
	oid, ok := objectID(groupID)
	if !ok {
		return domain.ErrGroupNotFound
	}
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	filter := bson.M{"_id": oid}
	for k, v := range extra {
		filter[k] = v
	}
	res, err := r.col.UpdateOne(ctx, filter, update)
	if err != nil {
		return fmt.Errorf("update group: %w", err)
	}
	if res.MatchedCount == 0 {
		return domain.ErrGroupNotFound
	}
	return nil
}

func (r *GroupRepository) NextAssetSeq(ctx context.Context, groupID string) (int64, error) {
	oid, ok := objectID(groupID)
	if !ok {
		return 0, domain.ErrGroupNotFound
	}
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	opts := options.FindOneAndUpdate().
		SetReturnDocument(options.Before).
		SetProjection(bson.M{"asset_ids.next_seq": 1})

	var doc struct {
		AssetIDs struct {
			NextSeq int64 `bson:"next_seq"`
		} `bson:"asset_ids"`
	}
	err := r.col.FindOneAndUpdate(ctx, bson.M{"_id": oid},
		bson.M{"$inc": bson.M{"asset_ids.next_seq": 1}}, opts).Decode(&doc)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return 0, domain.ErrGroupNotFound
		}
		return 0, fmt.Errorf("reserve asset sequence: %w", err)
	}
	return doc.AssetIDs.NextSeq, nil
}
