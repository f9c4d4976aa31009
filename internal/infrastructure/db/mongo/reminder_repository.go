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
	"github.com/boxwise/inventory/internal/core/ports"
)

const collectionReminders = "reminders"

// ReminderRepository implements ports.ReminderRepository using MongoDB.
type ReminderRepository struct {
	col *mongo.Collection
}

func NewReminderRepository(db *mongo.Database) *ReminderRepository {
	return &ReminderRepository{col: db.Collection(collectionReminders)}
}

type mongoInterval struct {
	Every int    `bson:"every"`
	Unit  string `bson:"unit"`
}

type mongoReminder struct {
	ID          primitive.ObjectID `bson:"_id,omitempty"`
	GroupID     string             `bson:"group_id"`
	ItemID      string             `bson:"item_id"`
	Title       string             `bson:"title"`
	Type        string             `bson:"type"`
	Date        time.Time          `bson:"date"`
	Notes       string             `bson:"notes,omitempty"`
	Recurring   bool               `bson:"recurring"`
	Interval    *mongoInterval     `bson:"interval,omitempty"`
	Completed   bool               `bson:"completed"`
	CompletedAt *time.Time         `bson:"completed_at"`
	NotifiedAt  *time.Time         `bson:"notified_at"`
	NextID      string             `bson:"next_id,omitempty"`
	CreatedBy   string             `bson:"created_by,omitempty"`
	CreatedAt   time.Time          `bson:"created_at"`
	UpdatedAt   time.Time          `bson:"updated_at"`
}

func toReminderDoc(r *domain.Reminder) mongoReminder {
	doc := mongoReminder{
		GroupID:     r.GroupID,
		ItemID:      r.ItemID,
		Title:       r.Title,
		Type:        string(r.Type),
		Date:        r.Date,
		Notes:       r.Notes,
		Recurring:   r.Recurring,
		Completed:   r.Completed,
		CompletedAt: r.CompletedAt,
		NotifiedAt:  r.NotifiedAt,
		NextID:      r.NextID,
		CreatedBy:   r.CreatedBy,
		CreatedAt:   r.CreatedAt,
		UpdatedAt:   r.UpdatedAt,
	}
	if r.Interval != nil {
		doc.Interval = &mongoInterval{Every: r.Interval.Every, Unit: string(r.Interval.Unit)}
	}
	return doc
}

func (d mongoReminder) toDomain() *domain.Reminder {
	r := &domain.Reminder{
		ID:          d.ID.Hex(),
		GroupID:     d.GroupID,
		ItemID:      d.ItemID,
		Title:       d.Title,
		Type:        domain.ReminderType(d.Type),
		Date:        d.Date.UTC(),
		Notes:       d.Notes,
		Recurring:   d.Recurring,
		Completed:   d.Completed,
		CompletedAt: d.CompletedAt,
		NotifiedAt:  d.NotifiedAt,
		NextID:      d.NextID,
		CreatedBy:   d.CreatedBy,
		CreatedAt:   d.CreatedAt.UTC(),
		UpdatedAt:   d.UpdatedAt.UTC(),
	}
	if d.Interval != nil {
		r.Interval = &domain.Interval{Every: d.Interval.Every, Unit: domain.IntervalUnit(d.Interval.Unit)}
	}
	return r
}

// EnsureIndexes creates the listing index and the sweep index used by FindDue.
func (r *ReminderRepository) EnsureIndexes(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, indexTimeout)
	defer cancel()

	_, err := r.col.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{Keys: bson.D{{Key: "group_id", Value: 1}, {Key: "date", Value: 1}}},
		{Keys: bson.D{{Key: "group_id", Value: 1}, {Key: "item_id", Value: 1}}},
		{Keys: bson.D{{Key: "completed", Value: 1}, {Key: "notified_at", Value: 1}, {Key: "date", Value: 1}}},
	})
	return err
}

func (r *ReminderRepository) Create(ctx context.Context, rem *domain.Reminder) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	doc := toReminderDoc(rem)
	doc.ID = primitive.NewObjectID()
	if _, err := r.col.InsertOne(ctx, doc); err != nil {
		return fmt.Errorf("insert reminder: %w", err)
	}
	rem.ID = doc.ID.Hex()
	return nil
}

func (r *ReminderRepository) FindByID(ctx context.Context, groupID, id string) (*domain.Reminder, error) {
	oid, ok := objectID(id)
	if !ok {
		return nil, domain.ErrReminderNotFound
	}
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	var doc mongoReminder
	if err := r.col.FindOne(ctx, bson.M{"_id": oid, "group_id": groupID}).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrReminderNotFound
		}
		return nil, fmt.Errorf("find reminder: %w", err)
	}
	return doc.toDomain(), nil
}

func (r *ReminderRepository) Update(ctx context.Context, rem *domain.Reminder) error {
	oid, ok := objectID(rem.ID)
	if !ok {
		return domain.ErrReminderNotFound
	}
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	doc := toReminderDoc(rem)
	doc.ID = oid
	res, err := r.col.ReplaceOne(ctx, bson.M{"_id": oid, "group_id": rem.GroupID}, doc)
	if err != nil {
		return fmt.Errorf("update reminder: %w", err)
	}
	if res.MatchedCount == 0 {
		return domain.ErrReminderNotFound
	}
	return nil
}

func (r *ReminderRepository) Delete(ctx context.Context, groupID, id string) error {
	oid, ok := objectID(id)
	if !ok {
		return domain.ErrReminderNotFound
	}
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	res, err := r.col.DeleteOne(ctx, bson.M{"_id": oid, "group_id": groupID})
	if err != nil {
		return fmt.Errorf("delete reminder: %w", err)
	}
	if res.DeletedCount == 0 {
		return domain.ErrReminderNotFound
	}
	return nil
}

func (r *ReminderRepository) DeleteByItem(ctx context.Context, groupID, itemID string) (int64, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	res, err := r.col.DeleteMany(ctx, bson.M{"group_id": groupID, "item_id": itemID})
	if err != nil {
		return 0, fmt.Errorf("delete reminders of item: %w", err)
	}
	return res.DeletedCount, nil
}

func reminderFilter(f ports.ReminderFilter) bson.M {
	filter := bson.M{"group_id": f.GroupID}
	if f.ItemID != "" {
		filter["item_id"] = f.ItemID
	}
	if f.Completed != nil {
		filter["completed"] = *f.Completed
	}
	date := bson.M{}
	if !f.DueAfter.IsZero() {
		date["$gte"] = f.DueAfter
	}
	if !f.DueBefore.IsZero() {
		date["$lt"] = f.DueBefore
	}
	if len(date) > 0 {
		filter["date"] = date
	}
	return filter
}

func (r *ReminderRepository) find(ctx context.Context, filter bson.M, limit int) ([]*domain.Reminder, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	opts := options.Find().SetSort(bson.D{{Key: "date", Value: 1}, {Key: "_id", Value: 1}})
	if limit > 0 {
		opts.SetLimit(int64(limit))
	}
	cursor, err := r.col.Find(ctx, filter, opts)
	if err != nil {
		return nil, fmt.Errorf("list reminders: %w", err)
	}
	defer cursor.Close(ctx)

	var docs []mongoReminder
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("decode reminders: %w", err)
	}
	out := make([]*domain.Reminder, 0, len(docs))
	for _, d := range docs {
		out = append(out, d.toDomain())
	}
	return out, nil
}

func (r *ReminderRepository) List(ctx context.Context, f ports.ReminderFilter) ([]*domain.Reminder, error) {
	return r.find(ctx, reminderFilter(f), f.Limit)
}

func (r *ReminderRepository) Count(ctx context.Context, f ports.ReminderFilter) (int64, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	n, err := r.col.CountDocuments(ctx, reminderFilter(f))
	if err != nil {
		return 0, fmt.Errorf("count reminders: %w", err)
	}
	return n, nil
}

func (r *ReminderRepository) FindDue(ctx context.Context, cutoff time.Time, limit int) ([]*domain.Reminder, error) {
	return r.find(ctx, bson.M{
		"completed":   false,
		"notified_at": nil,
		"date":        bson.M{"$lt": cutoff},
	}, limit)
}

func (r *ReminderRepository) MarkNotified(ctx context.Context, id string, at time.Time) error {
	oid, ok := objectID(id)
	if !ok {
		return domain.ErrReminderNotFound
	}
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	res, err := r.col.UpdateOne(ctx, bson.M{"_id": oid}, bson.M{"$set": bson.M{"notified_at": at.UTC()}})
	if err != nil {
		return fmt.Errorf("mark reminder notified: %w", err)
	}
	if res.MatchedCount == 0 {
		return domain.ErrReminderNotFound
	}
	return nil
}
