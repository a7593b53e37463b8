package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/contactsmgr/contacts/internal/model"
)

// Common errors for person repository operations.
var (
	ErrPersonNotFound = errors.New("person not found")
	ErrUnknownCountry = errors.New("country reference does not exist")
	ErrInvalidTIN     = errors.New("tax identification number must be 8 characters")
)

const personColumns = `
	p.id, p.person_name, p.email, p.date_of_birth, p.gender, p.country_id,
	COALESCE(c.country_name, ''), p.address, p.receive_news_letters, p.tax_identification_number
`

const personFrom = `
	FROM persons p
	LEFT JOIN countries c ON c.id = p.country_id
`

// CreatePerson inserts a new person.
func (r *Repository) CreatePerson(ctx context.Context, person *model.Person) error {
	query := `
		INSERT INTO persons (id, person_name, email, date_of_birth, gender, country_id, address, receive_news_letters, tax_identification_number)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`

	_, err := r.pool.Exec(ctx, query,
		person.ID,
		person.Name,
		person.Email,
		person.DateOfBirth,
		string(person.Gender),
		person.CountryID,
		person.Address,
		person.ReceiveNewsLetters,
		person.TIN,
	)
	if err != nil {
		return mapPersonWriteError("create", err)
	}

	return nil
}

// GetPersonByID retrieves a person with its country name.
func (r *Repository) GetPersonByID(ctx context.Context, id uuid.UUID) (*model.Person, error) {
	query := `SELECT ` + personColumns + personFrom + ` WHERE p.id = $1`

	person, err := scanPerson(r.pool.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrPersonNotFound
		}
		return nil, fmt.Errorf("failed to get person by ID: %w", err)
	}

	return person, nil
}

// ListPersons returns the persons selected by filter, ordered by name then id.
func (r *Repository) ListPersons(ctx context.Context, filter PersonFilter) ([]*model.Person, error) {
	query := `SELECT ` + personColumns + personFrom
	clause, args := filter.whereClause(1)
	if clause != "" {
		query += " WHERE " + clause
	}
	query += " ORDER BY p.person_name, p.id"

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list persons: %w", err)
	}
	defer rows.Close()

	var persons []*model.Person
	for rows.Next() {
		person, err := scanPerson(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan person: %w", err)
		}
		persons = append(persons, person)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating persons: %w", err)
	}

	return persons, nil
}

// UpdatePerson overwrites the mutable fields of an existing person.
func (r *Repository) UpdatePerson(ctx context.Context, person *model.Person) error {
	query := `
		UPDATE persons
		SET person_name = $2, email = $3, date_of_birth = $4, gender = $5,
		    country_id = $6, address = $7, receive_news_letters = $8
		WHERE id = $1
	`

	result, err := r.pool.Exec(ctx, query,
		person.ID,
		person.Name,
		person.Email,
		person.DateOfBirth,
		string(person.Gender),
		person.CountryID,
		person.Address,
		person.ReceiveNewsLetters,
	)
	if err != nil {
		return mapPersonWriteError("update", err)
	}

	if result.RowsAffected() == 0 {
		return ErrPersonNotFound
	}

	return nil
}

// DeletePerson removes a person. It reports whether a row was deleted.
func (r *Repository) DeletePerson(ctx context.Context, id uuid.UUID) (bool, error) {
	result, err := r.pool.Exec(ctx, `DELETE FROM persons WHERE id = $1`, id)
	if err != nil {
		return false, fmt.Errorf("failed to delete person: %w", err)
	}
	return result.RowsAffected() > 0, nil
}

func mapPersonWriteError(op string, err error) error {
	switch pgErrorCode(err) {
	case pgForeignKeyViolation:
		return ErrUnknownCountry
	case pgCheckViolation:
		return ErrInvalidTIN
	}
	return fmt.Errorf("failed to %s person: %w", op, err)
}

// scanPerson scans a single row into a Person model.
func scanPerson(row pgx.Row) (*model.Person, error) {
	var (
		p      model.Person
		gender string
	)
	err := row.Scan(
		&p.ID,
		&p.Name,
		&p.Email,
		&p.DateOfBirth,
		&gender,
		&p.CountryID,
		&p.CountryName,
		&p.Address,
		&p.ReceiveNewsLetters,
		&p.TIN,
	)
	p.Gender = model.Gender(gender)
	return &p, err
}
