package main

import (
	"context"
	"time"

	mongodriver "go.mongodb.org/mongo-driver/mongo"

	"github.com/boxwise/inventory/internal/api"
	"github.com/boxwise/inventory/internal/core/ports"
	"github.com/boxwise/inventory/internal/core/service"
	"github.com/boxwise/inventory/internal/infrastructure/db/mongo"
	"github.com/boxwise/inventory/internal/pkg/config"
	"github.com/boxwise/inventory/pkg/logger"
)

// app holds the storage connection and the services built on it.
type app struct {
	client *mongodriver.Client
	store  *mongo.Store

	auth       *service.AuthService
	users      *service.UserService
	groups     *service.GroupService
	locations  *service.LocationService
	categories *service.CategoryService
	labels     *service.LabelService
	items      *service.ItemService
	transfer   *service.TransferService
	reminders  *service.ReminderService
	dashboard  *service.DashboardService
}

// openApp connects to MongoDB, ensures indexes and wires the services. cache
// may be nil.
func openApp(ctx context.Context, cfg *config.Config, cache ports.StatsCache) (*app, error) {
	client, db, err := mongo.Connect(ctx, mongo.Config{URI: cfg.Mongo.URI, Database: cfg.Mongo.Database})
	if err != nil {
		return nil, err
	}
	store := mongo.NewStore(db)
	if err := store.EnsureIndexes(ctx); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, err
	}

	a := &app{client: client, store: store}
	a.auth = service.NewAuthService(store.Users, store.Groups, cfg.JWTSecret, cfg.JWTTTL, logger.Component("auth"))
	a.users = service.NewUserService(store.Users, store.Groups, logger.Component("users"))
	a.groups = service.NewGroupService(store.Groups, store.Items, logger.Component("groups"))
	a.locations = service.NewLocationService(store.Locations, store.Items, cache, logger.Component("locations"))
	a.categories = service.NewCategoryService(store.Categories, store.Items, cache, logger.Component("categories"))
	a.labels = service.NewLabelService(store.Labels, store.Items, cache, logger.Component("labels"))
	a.items = service.NewItemService(store.Items, store.Locations, store.Categories, store.Labels, store.Groups, store.Reminders, cache,
		logger.Component("items"))
	a.transfer = service.NewTransferService(a.items, store.Items, store.Locations, store.Categories, store.Labels,
		logger.Component("transfer"))
	a.reminders = service.NewReminderService(store.Reminders, store.Items, cache, cfg.Reminders.Lead, logger.Component("reminders"))
	a.dashboard = service.NewDashboardService(store.Items, store.Locations, store.Categories, store.Labels, store.Reminders, cache,
		logger.Component("dashboard"))
	return a, nil
}

func (a *app) services() api.Services {
	return api.Services{
		Auth:       a.auth,
		Users:      a.users,
		Groups:     a.groups,
		Locations:  a.locations,
		Categories: a.categories,
		Labels:     a.labels,
		Items:      a.items,
		Transfer:   a.transfer,
		Reminders:  a.reminders,
		Dashboard:  a.dashboard,
	}
}

func (a *app) Close() {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := a.client.Disconnect(ctx); err != nil {
		l := logger.Get()
		l.Warn().Err(err).Msg("mongo disconnect failed")
	}
}
