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

const (
	collectionCategories = "categories"
	collectionLabels     = "labels"
)

// mongoTaxon is the stored form of both categories and labels. Color is
// only set on labels.
type mongoTaxon struct {
	ID          primitive.ObjectID `bson:"_id,omitempty"`
	GroupID     string             `bson:"group_id"`
	Name        string             `bson:"name"`
	Description string             `bson:"description,omitempty"`
	Color       string             `bson:"color,omitempty"`
	CreatedAt   time.Time          `bson:"created_at"`
	UpdatedAt   time.Time          `bson:"updated_at"`
}

// taxonomy holds the queries categories and labels share. Names are unique
// per group, ignoring case.
type taxonomy struct {
	col      *mongo.Collection
	notFound error
}

func (t taxonomy) ensureIndexes(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, indexTimeout)
	defer cancel()

	_, err := t.col.Indexes().CreateMany(ctx, []mongo.IndexModel{{
		Keys:    bson.D{{Key: "group_id", Value: 1}, {Key: "name", Value: 1}},
		Options: options.Index().SetUnique(true).SetCollation(caseInsensitive),
	}})
	return err
}

func (t taxonomy) insert(ctx context.Context, doc mongoTaxon) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	doc.ID = primitive.NewObjectID()
	if _, err := t.col.InsertOne(ctx, doc); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return "", domain.ErrDuplicateName
		}
		return "", fmt.Errorf("insert %s: %w", t.col.Name(), err)
	}
	return doc.ID.Hex(), nil
}

func (t taxonomy) findOne(ctx context.Context, filter bson.M, opts ...*options.FindOneOptions) (mongoTaxon, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	var doc mongoTaxon
	if err := t.col.FindOne(ctx, filter, opts...).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return doc, t.notFound
		}
		return doc, fmt.Errorf("find %s: %w", t.col.Name(), err)
	}
	return doc, nil
}

func (t taxonomy) findByID(ctx context.Context, groupID, id string) (mongoTaxon, error) {
	oid, ok := objectID(id)
	if !ok {
		return mongoTaxon{}, t.notFound
	}
	return t.findOne(ctx, bson.M{"_id": oid, "group_id": groupID})
}

func (t taxonomy) findByName(ctx context.Context, groupID, name string) (mongoTaxon, error) {
	return t.findOne(ctx, bson.M{"group_id": groupID, "name": name},
		options.FindOne().SetCollation(caseInsensitive))
}

func (t taxonomy) list(ctx context.Context, groupID string) ([]mongoTaxon, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	opts := options.Find().SetSort(bson.D{{Key: "name", Value: 1}}).SetCollation(caseInsensitive)
	cursor, err := t.col.Find(ctx, bson.M{"group_id": groupID}, opts)
	if err != nil {
		return nil, fmt.Errorf("list %s: %w", t.col.Name(), err)
	}
	defer cursor.Close(ctx)

	var docs []mongoTaxon
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("decode %s: %w", t.col.Name(), err)
	}
	return docs, nil
}

func (t taxonomy) update(ctx context.Context, groupID, id string, set bson.M) error {
	oid, ok := objectID(id)
	if !ok {
		return t.notFound
	}
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	res, err := t.col.UpdateOne(ctx, bson.M{"_id": oid, "group_id": groupID}, bson.M{"$set": set})
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return domain.ErrDuplicateName
		}
		return fmt.Errorf("update %s: %w", t.col.Name(), err)
	}
	if res.MatchedCount == 0 {
		return t.notFound
	}
	return nil
}

func (t taxonomy) delete(ctx context.Context, groupID, id string) error {
	oid, ok := objectID(id)
	if !ok {
		return t.notFound
	}
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	res, err := t.col.DeleteOne(ctx, bson.M{"_id": oid, "group_id": groupID})
	if err != nil {
		return fmt.Errorf("delete %s: %w", t.col.Name(), err)
	}
	if res.DeletedCount == 0 {
		return t.notFound
	}
	return nil
}

func (t taxonomy) count(ctx context.Context, groupID string) (int64, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	n, err := t.col.CountDocuments(ctx, bson.M{"group_id": groupID})
	if err != nil {
		return 0, fmt.Errorf("count %s: %w", t.col.Name(), err)
	}
	return n, nil
}

// ---------------------------------------------------------------------------
// Categories
// ---------------------------------------------------------------------------

type CategoryRepository struct {
	t taxonomy
}

func NewCategoryRepository(db *mongo.Database) *CategoryRepository {
	return &CategoryRepository{t: taxonomy{col: db.Collection(collectionCategories), notFound: domain.ErrCategoryNotFound}}
}

func categoryFromDoc(d mongoTaxon) *domain.Category {
	return &domain.Category{
		ID:          d.ID.Hex(),
		GroupID:     d.GroupID,
		Name:        d.Name,
		Description: d.Description,
		CreatedAt:   d.CreatedAt.UTC(),
		UpdatedAt:   d.UpdatedAt.UTC(),
	}
}

func (r *CategoryRepository) EnsureIndexes(ctx context.Context) error {
	return r.t.ensureIndexes(ctx)
}

func (r *CategoryRepository) Create(ctx context.Context, c *domain.Category) error {
	id, err := r.t.insert(ctx, mongoTaxon{
		GroupID:     c.GroupID,
		Name:        c.Name,
		Description: c.Description,
		CreatedAt:   c.CreatedAt,
		UpdatedAt:   c.UpdatedAt,
	})
	if err != nil {
		return err
	}
	c.ID = id
	return nil
}

func (r *CategoryRepository) FindByID(ctx context.Context, groupID, id string) (*domain.Category, error) {
	doc, err := r.t.findByID(ctx, groupID, id)
	if err != nil {
		return nil, err
	}
	return categoryFromDoc(doc), nil
}

func (r *CategoryRepository) FindByName(ctx context.Context, groupID, name string) (*domain.Category, error) {
	doc, err := r.t.findByName(ctx, groupID, name)
	if err != nil {
		return nil, err
	}
	return categoryFromDoc(doc), nil
}

func (r *CategoryRepository) List(ctx context.Context, groupID string) ([]*domain.Category, error) {
	docs, err := r.t.list(ctx, groupID)
	if err != nil {
		return nil, err
	}
	out := make([]*domain.Category, 0, len(docs))
	for _, d := range docs {
		out = append(out, categoryFromDoc(d))
	}
	return out, nil
}

func (r *CategoryRepository) Update(ctx context.Context, c *domain.Category) error {
	return r.t.update(ctx, c.GroupID, c.ID, bson.M{
		"name":        c.Name,
		"description": c.Description,
		"updated_at":  c.UpdatedAt,
	})
}

func (r *CategoryRepository) Delete(ctx context.Context, groupID, id string) error {
	return r.t.delete(ctx, groupID, id)
}

func (r *CategoryRepository) Count(ctx context.Context, groupID string) (int64, error) {
	return r.t.count(ctx, groupID)
}

// ---------------------------------------------------------------------------
// Labels
// ---------------------------------------------------------------------------

type LabelRepository struct {
	t taxonomy
}

func NewLabelRepository(db *mongo.Database) *LabelRepository {
	return &LabelRepository{t: taxonomy{col: db.Collection(collectionLabels), notFound: domain.ErrLabelNotFound}}
}

func labelFromDoc(d mongoTaxon) *domain.Label {
	return &domain.Label{
		ID:          d.ID.Hex(),
		GroupID:     d.GroupID,
		Name:        d.Name,
		Description: d.Description,
		Color:       d.Color,
		CreatedAt:   d.CreatedAt.UTC(),
		UpdatedAt:   d.UpdatedAt.UTC(),
	}
}

func (r *LabelRepository) EnsureIndexes(ctx context.Context) error {
	return r.t.ensureIndexes(ctx)
}

func (r *LabelRepository) Create(ctx context.Context, l *domain.Label) error {
	id, err := r.t.insert(ctx, mongoTaxon{
		GroupID:     l.GroupID,
		Name:        l.Name,
		Description: l.Description,
		Color:       l.Color,
		CreatedAt:   l.CreatedAt,
		UpdatedAt:   l.UpdatedAt,
	})
	if err != nil {
		return err
	}
	l.ID = id
	return nil
}

func (r *LabelRepository) FindByID(ctx context.Context, groupID, id string) (*domain.Label, error) {
	doc, err := r.t.findByID(ctx, groupID, id)
	if err != nil {
		return nil, err
	}
	return labelFromDoc(doc), nil
}

func (r *LabelRepository) FindByName(ctx context.Context, groupID, name string) (*domain.Label, error) {
	doc, err := r.t.findByName(ctx, groupID, name)
	if err != nil {
		return nil, err
	}
	return labelFromDoc(doc), nil
}

func (r *LabelRepository) List(ctx context.Context, groupID string) ([]*domain.Label, error) {
	docs, err := r.t.list(ctx, groupID)
	if err != nil {
		return nil, err
	}
	out := make([]*domain.Label, 0, len(docs))
	for _, d := range docs {
		out = append(out, labelFromDoc(d))
	}
	return out, nil
}

func (r *LabelRepository) Update(ctx context.Context, l *domain.Label) error {
	return r.t.update(ctx, l.GroupID, l.ID, bson.M{
		"name":        l.Name,
		"description": l.Description,
		"color":       l.Color,
		"updated_at":  l.UpdatedAt,
	})
}

func (r *LabelRepository) Delete(ctx context.Context, groupID, id string) error {
	return r.t.delete(ctx, groupID, id)
}

func (r *LabelRepository) Count(ctx context.Context, groupID string) (int64, error) {
	return r.t.count(ctx, groupID)
}
