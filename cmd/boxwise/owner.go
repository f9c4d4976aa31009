package main

import (
	"context"
	"errors"
	"fmt"

	"github.com/boxwise/inventory/internal/core/ports"
	"github.com/boxwise/inventory/internal/pkg/config"
)

// cmdCreateOwner registers a new group with its owner, bypassing the HTTP API.
func cmdCreateOwner(ctx context.Context, cfg *config.Config, args []string) error {
	if len(args) < 3 || len(args) > 4 {
		return errors.New("usage: boxwise create-owner <name> <email> <password> [group]")
	}
	in := ports.RegisterInput{Name: args[0], Email: args[1], Password: args[2]}
	if len(args) == 4 {
		in.GroupName = args[3]
	}

	if cfg.JWTSecret == "" {
		secret, err := generatePassword(32)
		if err != nil {
			return err
		}
		cfg.JWTSecret = secret
	}

	a, err := openApp(ctx, cfg, nil)
	if err != nil {
		return err
	}
	defer a.Close()

	res, err := a.auth.Register(ctx, in)
	if err != nil {
		return fmt.Errorf("create owner: %w", err)
	}
	fmt.Println("Owner account created:")
	fmt.Printf("  Email:    %s\n", res.User.Email)
	fmt.Printf("  Group ID: %s\n", res.User.GroupID)
	return nil
}
