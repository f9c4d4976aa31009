package mongo

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const (
	defaultTimeout = 10 * time.Second
	indexTimeout   = 30 * time.Second
)

// Config captures the minimal settings required to establish a MongoDB connection.
type Config struct {
	URI      string
	Database string
	Timeout  time.Duration
}

// Connect establishes a MongoDB client, verifies connectivity with a ping, and
// returns both the client and the selected database. A default timeout is
// applied when none is provided.
func Connect(ctx context.Context, cfg Config) (*mongo.Client, *mongo.Database, error) {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}

	connectCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	client, err := mongo.Connect(connectCtx, options.Client().ApplyURI(cfg.URI))
	if err != nil {
		return nil, nil, fmt.Errorf("mongo connect: %w", err)
	}

	if err := client.Ping(connectCtx, nil); err != nil {
		_ = client.Disconnect(connectCtx)
		return nil, nil, fmt.Errorf("mongo ping: %w", err)
	}

	db := client.Database(cfg.Database)
	return client, db, nil
}

// Store bundles the repositories that share one database.
type Store struct {
	db         *mongo.Database
	Users      *UserRepository
	Groups     *GroupRepository
	Items      *ItemRepository
	Locations  *LocationRepository
	Categories *CategoryRepository
	Labels     *LabelRepository
	Reminders  *ReminderRepository
}

func NewStore(db *mongo.Database) *Store {
	return &Store{
		db:         db,
		Users:      NewUserRepository(db),
		Groups:     NewGroupRepository(db),
		Items:      NewItemRepository(db),
		Locations:  NewLocationRepository(db),
		Categories: NewCategoryRepository(db),
		Labels:     NewLabelRepository(db),
		Reminders:  NewReminderRepository(db),
	}
}

// EnsureIndexes creates the indexes of every collection.
func (s *Store) EnsureIndexes(ctx context.Context) error {
	steps := []struct {
		name string
		fn   func(context.Context) error
	}{
		{collectionUsers, s.Users.EnsureIndexes},
		{collectionGroups, s.Groups.EnsureIndexes},
		{collectionItems, s.Items.EnsureIndexes},
		{collectionLocations, s.Locations.EnsureIndexes},
		{collectionCategories, s.Categories.EnsureIndexes},
		{collectionLabels, s.Labels.EnsureIndexes},
		{collectionReminders, s.Reminders.EnsureIndexes},
	}
	for _, step := range steps {
		if err := step.fn(ctx); err != nil {
			return fmt.Errorf("ensure indexes %s: %w", step.name, err)
		}
	}
	return nil
}

// Reset drops every collection owned by the store.
func (s *Store) Reset(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, indexTimeout)
	defer cancel()

	for _, name := range []string{
		collectionUsers, collectionGroups, collectionItems, collectionLocations,
		collectionCategories, collectionLabels, collectionReminders,
	} {
		if err := s.db.Collection(name).Drop(ctx); err != nil {
			return fmt.Errorf("drop %s: %w", name, err)
		}
	}
	return nil
}

// Ping reports whether the database answers.
func (s *Store) Ping(ctx context.Context) error {
	return s.db.Client().Ping(ctx, nil)
}

// objectID parses a hex id. Malformed ids can never match a document, so
// callers treat them as not found.
func objectID(id string) (primitive.ObjectID, bool) {
	oid, err := primitive.ObjectIDFromHex(id)
	return oid, err == nil
}

func objectIDs(ids []string) []primitive.ObjectID {
	out := make([]primitive.ObjectID, 0, len(ids))
	for _, id := range ids {
		if oid, ok := objectID(id); ok {
			out = append(out, oid)
		}
	}
	return out
}

// caseInsensitive matches strings ignoring case in finds and unique indexes.
var caseInsensitive = &options.Collation{Locale: "en", Strength: 2}
