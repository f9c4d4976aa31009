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

const collectionLocations = "locations"

type LocationRepository struct {
	col *mongo.Collection
}

func NewLocationRepository(db *mongo.Database) *LocationRepository {
	return &LocationRepository{col: db.Collection(collectionLocations)}
}

type mongoLocation struct {
	ID          primitive.ObjectID `bson:"_id,omitempty"`
	GroupID     string             `bson:"group_id"`
	Name        string             `bson:"name"`
	ParentID    string             `bson:"parent_id"`
	Description string             `bson:"description,omitempty"`
	CreatedAt   time.Time          `bson:"created_at"`
	UpdatedAt   time.Time          `bson:"updated_at"`
}

func (d mongoLocation) toDomain() domain.Location {
	return domain.Location{
		ID:          d.ID.Hex(),
		GroupID:     d.GroupID,
		Name:        d.Name,
		ParentID:    d.ParentID,
		Description: d.Description,
		CreatedAt:   d.CreatedAt.UTC(),
		UpdatedAt:   d.UpdatedAt.UTC(),
	}
}

func (r *LocationRepository) EnsureIndexes(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, indexTimeout)
	defer cancel()

	_, err := r.col.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{Keys: bson.D{{Key: "group_id", Value: 1}, {Key: "parent_id", Value: 1}}},
	})
	return err
}

func (r *LocationRepository) Create(ctx context.Context, loc *domain.Location) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	doc := mongoLocation{
		ID:          primitive.NewObjectID(),
		GroupID:     loc.GroupID,
		Name:        loc.Name,
		ParentID:    loc.ParentID,
		Description: loc.Description,
		CreatedAt:   loc.CreatedAt,
		UpdatedAt:   loc.UpdatedAt,
	}
	if _, err := r.col.InsertOne(ctx, doc); err != nil {
		return fmt.Errorf("insert location: %w", err)
	}
	loc.ID = doc.ID.Hex()
	return nil
}

func (r *LocationRepository) FindByID(ctx context.Context, groupID, id string) (*domain.Location, error) {
	oid, ok := objectID(id)
	if !ok {
		return nil, domain.ErrLocationNotFound
	}
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	var doc mongoLocation
	if err := r.col.FindOne(ctx, bson.M{"_id": oid, "group_id": groupID}).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrLocationNotFound
		}
		return nil, fmt.Errorf("find location: %w", err)
	}
	loc := doc.toDomain()
	return &loc, nil
}

// ListByGroup loads the whole hierarchy of a group in one query; trees are
// assembled in memory.
func (r *LocationRepository) ListByGroup(ctx context.Context, groupID string) ([]domain.Location, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	opts := options.Find().SetSort(bson.D{{Key: "name", Value: 1}}).SetCollation(caseInsensitive)
	cursor, err := r.col.Find(ctx, bson.M{"group_id": groupID}, opts)
	if err != nil {
		return nil, fmt.Errorf("list locations: %w", err)
	}
	defer cursor.Close(ctx)

	var docs []mongoLocation
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("decode locations: %w", err)
	}
	out := make([]domain.Location, 0, len(docs))
	for _, d := range docs {
		out = append(out, d.toDomain())
	}
	return out, nil
}

func (r *LocationRepository) Update(ctx context.Context, loc *domain.Location) error {
	oid, ok := objectID(loc.ID)
	if !ok {
		return domain.ErrLocationNotFound
	}
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	res, err := r.col.UpdateOne(ctx, bson.M{"_id": oid, "group_id": loc.GroupID}, bson.M{"$set": bson.M{
		"name":        loc.Name,
		"parent_id":   loc.ParentID,
		"description": loc.Description,
		"updated_at":  loc.UpdatedAt,
	}})
	if err != nil {
		return fmt.Errorf("update location: %w", err)
	}
	if res.MatchedCount == 0 {
		return domain.ErrLocationNotFound
	}
	return nil
}

func (r *LocationRepository) Delete(ctx context.Context, groupID, id string) error {
	oid, ok := objectID(id)
	if !ok {
		return domain.ErrLocationNotFound
	}
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	res, err := r.col.DeleteOne(ctx, bson.M{"_id": oid, "group_id": groupID})
	if err != nil {
		return fmt.Errorf("delete location: %w", err)
	}
	if res.DeletedCount == 0 {
		return domain.ErrLocationNotFound
	}
	return nil
}

func (r *LocationRepository) Reparent(ctx context.Context, groupID, fromParent, toParent string) (int64, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	res, err := r.col.UpdateMany(ctx,
		bson.M{"group_id": groupID, "parent_id": fromParent},
		bson.M{"$set": bson.M{"parent_id": toParent, "updated_at": time.Now().UTC()}},
	)
	if err != nil {
		return 0, fmt.Errorf("reparent locations: %w", err)
	}
	return res.ModifiedCount, nil
}

func (r *LocationRepository) Count(ctx context.Context, groupID string) (int64, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	n, err := r.col.CountDocuments(ctx, bson.M{"group_id": groupID})
	if err != nil {
		return 0, fmt.Errorf("count locations: %w", err)
	}
	return n, nil
}
