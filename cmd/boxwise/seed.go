package main

import (
	"context"
	"crypto/rand"
	"errors"
	"flag"
	"fmt"
	"math/big"
	"time"

	"github.com/boxwise/inventory/internal/core/domain"
	"github.com/boxwise/inventory/internal/core/ports"
	"github.com/boxwise/inventory/internal/pkg/config"
	"github.com/boxwise/inventory/pkg/logger"
)

const demoEmail = "demo@boxwise.local"

// cmdInitDB creates the indexes and seeds a demo household.
func cmdInitDB(ctx context.Context, cfg *config.Config, args []string) error {
	fs := flag.NewFlagSet("init-db", flag.ExitOnError)
	reset := fs.Bool("reset", false, "drop all collections before seeding")
	password := fs.String("password", "", "demo account password (generated if empty)")
	if err := fs.Parse(args); err != nil {
		return err
	}

	if cfg.JWTSecret == "" {
		// Seeding issues no tokens that outlive the process.
		secret, err := generatePassword(32)
		if err != nil {
			return err
		}
		cfg.JWTSecret = secret
	}
	if *password == "" {
		p, err := generatePassword(16)
		if err != nil {
			return fmt.Errorf("generating password: %w", err)
		}
		*password = p
	}

	a, err := openApp(ctx, cfg, nil)
	if err != nil {
		return err
	}
	defer a.Close()

	if *reset {
		if err := a.store.Reset(ctx); err != nil {
			return err
		}
		// Dropping collections drops their indexes too.
		if err := a.store.EnsureIndexes(ctx); err != nil {
			return err
		}
		l := logger.Component("cli")
		l.Warn().Msg("database reset")
	}

	res, err := a.auth.Register(ctx, ports.RegisterInput{
		Name:      "Demo Owner",
		Email:     demoEmail,
		Password:  *password,
		GroupName: "Demo Household",
	})
	if errors.Is(err, domain.ErrUserExists) {
		return fmt.Errorf("%s already exists; run init-db -reset to start over", demoEmail)
	}
	if err != nil {
		return fmt.Errorf("create demo owner: %w", err)
	}
	actor := domain.Actor{UserID: res.User.ID, GroupID: res.User.GroupID, Email: res.User.Email, Role: res.User.Role}

	counts, err := seedDemo(ctx, a, actor)
	if err != nil {
		return err
	}

	fmt.Println("Indexes ensured and demo data seeded.")
	fmt.Printf("  %d locations, %d categories, %d labels, %d items, %d reminders\n",
		counts.locations, counts.categories, counts.labels, counts.items, counts.reminders)
	fmt.Println()
	fmt.Println("Demo account:")
	fmt.Printf("  Email:    %s\n", demoEmail)
	fmt.Printf("  Password: %s\n", *password)
	return nil
}

type seedCounts struct {
	locations, categories, labels, items, reminders int
}

type demoItem struct {
	name, location, category string
	labels                   []string
	quantity                 int
	price                    float64
	boughtAgo                time.Duration
	warranty                 time.Duration
	manufacturer             string
}

func seedDemo(ctx context.Context, a *app, actor domain.Actor) (seedCounts, error) {
	var n seedCounts

	// Parents come before children.
	locationTree := []struct{ name, parent string }{
		{"House", ""},
		{"Kitchen", "House"},
		{"Living Room", "House"},
		{"Office", "House"},
		{"Garage", ""},
		{"Workbench", "Garage"},
		{"Storage Unit", ""},
	}
	locations := make(map[string]string, len(locationTree))
	for _, l := range locationTree {
		loc, err := a.locations.Create(ctx, actor, ports.LocationInput{Name: l.name, ParentID: locations[l.parent]})
		if err != nil {
			return n, fmt.Errorf("seed location %s: %w", l.name, err)
		}
		locations[l.name] = loc.ID
		n.locations++
	}

	categories := make(map[string]string)
	for _, name := range []string{"Electronics", "Tools", "Appliances", "Furniture", "Outdoor"} {
		cat, err := a.categories.Create(ctx, actor, ports.CategoryInput{Name: name})
		if err != nil {
			return n, fmt.Errorf("seed category %s: %w", name, err)
		}
		categories[name] = cat.ID
		n.categories++
	}

	labels := make(map[string]string)
	for _, l := range []struct{ name, color string }{
		{"Fragile", "#e53935"},
		{"Insured", "#43a047"},
		{"Seasonal", "#fb8c00"},
		{"Borrowable", "#1e88e5"},
	} {
		label, err := a.labels.Create(ctx, actor, ports.LabelInput{Name: l.name, Color: l.color})
		if err != nil {
			return n, fmt.Errorf("seed label %s: %w", l.name, err)
		}
		labels[l.name] = label.ID
		n.labels++
	}

	const day = 24 * time.Hour
	now := time.Now().UTC().Truncate(day)
	items := []demoItem{
		{"Laptop", "Office", "Electronics", []string{"Fragile", "Insured"}, 1, 1299, 400 * day, 330 * day, "Lenovo"},
		{"Television", "Living Room", "Electronics", []string{"Fragile", "Insured"}, 1, 899, 700 * day, 20 * day, "Samsung"},
		{"Cordless Drill", "Workbench", "Tools", []string{"Borrowable"}, 1, 129, 200 * day, 500 * day, "Makita"},
		{"Socket Set", "Workbench", "Tools", []string{"Borrowable"}, 1, 59, 900 * day, 0, ""},
		{"Stand Mixer", "Kitchen", "Appliances", nil, 1, 349, 300 * day, 60 * day, "KitchenAid"},
		{"Dining Chair", "Kitchen", "Furniture", nil, 6, 85, 1200 * day, 0, ""},
		{"Camping Tent", "Storage Unit", "Outdoor", []string{"Seasonal", "Borrowable"}, 1, 219, 500 * day, 0, "Coleman"},
		{"Snow Shovel", "Garage", "Outdoor", []string{"Seasonal"}, 2, 35, 800 * day, 0, ""},
	}

	created := make(map[string]*domain.Item, len(items))
	for _, d := range items {
		in := ports.ItemInput{
			Name:         d.name,
			LocationID:   locations[d.location],
			CategoryID:   categories[d.category],
			Quantity:     d.quantity,
			Manufacturer: d.manufacturer,
		}
		for _, l := range d.labels {
			in.LabelIDs = append(in.LabelIDs, labels[l])
		}
		bought := now.Add(-d.boughtAgo)
		in.Purchase = domain.Purchase{Date: &bought, Price: d.price}
		if d.warranty > 0 {
			expires := now.Add(d.warranty)
			in.Warranty = domain.Warranty{Expires: &expires}
		}
		item, err := a.items.Create(ctx, actor, in)
		if err != nil {
			return n, fmt.Errorf("seed item %s: %w", d.name, err)
		}
		created[d.name] = item
		n.items++
	}

	due := now.Add(14 * day)
	if _, err := a.items.Lend(ctx, actor, created["Camping Tent"].ID, ports.LoanInput{Borrower: "Sam (neighbour)", DueAt: &due}); err != nil {
		return n, fmt.Errorf("seed loan: %w", err)
	}

	reminders := []ports.ReminderInput{
		{ItemID: created["Stand Mixer"].ID, Title: "Warranty ends", Type: domain.ReminderWarranty, Date: now.Add(55 * day)},
		{ItemID: created["Camping Tent"].ID, Title: "Tent due back", Type: domain.ReminderLoan, Date: due},
		{ItemID: created["Television"].ID, Title: "Check insurance renewal", Type: domain.ReminderInsurance, Date: now.Add(-3 * day)},
		{
			ItemID:    created["Cordless Drill"].ID,
			Title:     "Charge batteries",
			Type:      domain.ReminderMaintenance,
			Date:      now.Add(2 * day),
			Recurring: true,
			Interval:  &domain.Interval{Every: 3, Unit: domain.UnitMonth},
		},
	}
	for _, r := range reminders {
		if _, err := a.reminders.Create(ctx, actor, r); err != nil {
			return n, fmt.Errorf("seed reminder %s: %w", r.Title, err)
		}
		n.reminders++
	}
	return n, nil
}

// generatePassword creates a random password of the given length.
func generatePassword(length int) (string, error) {
	const charset = "abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"
	result := make([]byte, length)
	for i := range result {
		n, err := rand.Int(rand.Reader, big.NewInt(int64(len(charset))))
		if err != nil {
			return "", err
		}
		result[i] = charset[n.Int64()]
	}
	return string(result), nil
}
