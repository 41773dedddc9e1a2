package db

import (
	"context"
	"log/slog"
	"strings"

	"github.com/jackc/pgx/v5/pgxpool"

	"payscribe/internal/domain/auth"
	"payscribe/internal/platform/config"
)

// Seed creates the operator account and the default departments when missing.
// Running it again changes nothing.
func Seed(ctx context.Context, pool *pgxpool.Pool, cfg config.Config) error {
	if err := ensureAdminUser(ctx, auth.NewStore(pool), cfg.SeedAdminEmail, cfg.SeedAdminPassword); err != nil {
		return err
	}
	return ensureDepartments(ctx, pool, cfg.SeedDepartments)
}

func ensureAdminUser(ctx context.Context, store *auth.Store, email, password string) error {
	if strings.TrimSpace(email) == "" || strings.TrimSpace(password) == "" {
		return nil
	}

	hash, err := auth.HashPassword(password)
	if err != nil {
		return err
	}
	created, err := store.EnsureUser(ctx, strings.TrimSpace(email), hash)
	if err != nil {
		return err
	}
	if created {
		slog.Info("seeded operator account", "email", email)
	}
	return nil
}

func ensureDepartments(ctx context.Context, pool *pgxpool.Pool, names []string) error {
	for _, name := range names {
		name = strings.TrimSpace(name)
		if name == "" {
			continue
		}
		_, err := pool.Exec(ctx, "INSERT INTO departments (name) VALUES ($1) ON CONFLICT (name) DO NOTHING", name)
		if err != nil {
			return err
		}
	}
	return nil
}
