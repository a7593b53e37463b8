// Command migrate applies the embedded schema migrations and, with -seed,
// the country and person fixtures.
package main

import (
	"context"
	"database/sql"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"time"

	_ "github.com/lib/pq"

	"github.com/contactsmgr/contacts/internal/repository"
	"github.com/contactsmgr/contacts/internal/seed"
	"github.com/contactsmgr/contacts/migrations"
)

func main() {
	var (
		databaseURL = flag.String("database-url", os.Getenv("DATABASE_URL"), "PostgreSQL connection string")
		direction   = flag.String("direction", "up", "Migration direction: up or down")
		steps       = flag.Int("steps", 0, "Number of down steps (0 means all)")
		withSeed    = flag.Bool("seed", false, "Apply seed fixtures after migrating up")
		seedDir     = flag.String("seed-dir", os.Getenv("SEED_DIR"), "Directory with countries/persons fixtures (default: embedded)")
		timeout     = flag.Duration("timeout", time.Minute, "Overall timeout")
	)
	flag.Parse()

	logger := slog.New(slog.NewTextHandler(os.Stderr, nil))

	if *databaseURL == "" {
		fmt.Fprintln(os.Stderr, "DATABASE_URL is required")
		os.Exit(1)
	}

	ctx, cancel := context.WithTimeout(context.Background(), *timeout)
	defer cancel()

	if err := run(ctx, logger, *databaseURL, *direction, *steps, *withSeed, *seedDir); err != nil {
		logger.Error("migrate failed", "error", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, logger *slog.Logger, databaseURL, direction string, steps int, withSeed bool, seedDir string) error {
	db, err := sql.Open("postgres", databaseURL)
	if err != nil {
		return fmt.Errorf("open database: %w", err)
	}
	defer db.Close()

	if err := db.PingContext(ctx); err != nil {
		return fmt.Errorf("ping database: %w", err)
	}

	all, err := migrations.All()
	if err != nil {
		return fmt.Errorf("load migrations: %w", err)
	}

	m := &migrator{db: db, logger: logger}
	if err := m.ensureTable(ctx); err != nil {
		return err
	}

	switch direction {
	case "up":
		if err := m.up(ctx, all); err != nil {
			return err
		}
	case "down":
		if withSeed {
			return fmt.Errorf("-seed cannot be combined with -direction=down")
		}
		return m.down(ctx, all, steps)
	default:
		return fmt.Errorf("invalid direction %q; use up or down", direction)
	}

	if !withSeed {
		return nil
	}

	fixtures, err := seed.Load(seedDir)
	if err != nil {
		return fmt.Errorf("load seed: %w", err)
	}

	repo, err := repository.New(ctx, databaseURL)
	if err != nil {
		return fmt.Errorf("connect for seed: %w", err)
	}
	defer repo.Close()

	res, err := seed.Apply(ctx, repo, fixtures, logger)
	if err != nil {
		return err
	}
	fmt.Printf("seeded %d countries, %d persons\n", res.Countries, res.Persons)
	return nil
}
