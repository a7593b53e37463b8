package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/contactsmgr/contacts/internal/model"
)

// Common errors for country repository operations.
var (
	ErrCountryNotFound   = errors.New("country not found")
	ErrCountryNameExists = errors.New("country name already exists")
)

// CreateCountry inserts a new country.
func (r *Repository) CreateCountry(ctx context.Context, country *model.Country) error {
	query := `INSERT INTO countries (id, country_name) VALUES ($1, $2)`

	_, err := r.pool.Exec(ctx, query, country.ID, country.Name)
	if err != nil {
		if pgErrorCode(err) == pgUniqueViolation {
			return ErrCountryNameExists
		}
		return fmt.Errorf("failed to create country: %w", err)
	}

	return nil
}

// ListCountries returns every country ordered by name.
func (r *Repository) ListCountries(ctx context.Context) ([]*model.Country, error) {
	rows, err := r.pool.Query(ctx, `SELECT id, country_name FROM countries ORDER BY country_name, id`)
	if err != nil {
		return nil, fmt.Errorf("failed to list countries: %w", err)
	}
	defer rows.Close()

	var countries []*model.Country
	for rows.Next() {
		var c model.Country
		if err := rows.Scan(&c.ID, &c.Name); err != nil {
			return nil, fmt.Errorf("failed to scan country: %w", err)
		}
		countries = append(countries, &c)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating countries: %w", err)
	}

	return countries, nil
}

// GetCountryByID retrieves a country by its ID.
func (r *Repository) GetCountryByID(ctx context.Context, id uuid.UUID) (*model.Country, error) {
	var c model.Country
	err := r.pool.QueryRow(ctx, `SELECT id, country_name FROM countries WHERE id = $1`, id).Scan(&c.ID, &c.Name)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrCountryNotFound
		}
		return nil, fmt.Errorf("failed to get country by ID: %w", err)
	}
	return &c, nil
}

// GetCountryByName retrieves a country by its exact name.
func (r *Repository) GetCountryByName(ctx context.Context, name string) (*model.Country, error) {
	var c model.Country
	err := r.pool.QueryRow(ctx, `SELECT id, country_name FROM countries WHERE country_name = $1`, name).Scan(&c.ID, &c.Name)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrCountryNotFound
		}
		return nil, fmt.Errorf("failed to get country by name: %w", err)
	}
	return &c, nil
}

// CreateCountries inserts a batch of countries in one transaction.
// Names already present are skipped. It returns the countries actually inserted.
func (r *Repository) CreateCountries(ctx context.Context, countries []*model.Country) ([]*model.Country, error) {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx) //nolint:errcheck

	var inserted []*model.Country
	for _, c := range countries {
		tag, err := tx.Exec(ctx,
			`INSERT INTO countries (id, country_name) VALUES ($1, $2) ON CONFLICT (country_name) DO NOTHING`,
			c.ID, c.Name,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to insert country %q: %w", c.Name, err)
		}
		if tag.RowsAffected() > 0 {
			inserted = append(inserted, c)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("failed to commit countries: %w", err)
	}
	return inserted, nil
}
