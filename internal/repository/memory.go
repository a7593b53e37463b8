package repository

import (
	"context"
	"strings"
	"sync"

	"github.com/google/uuid"

	"github.com/contactsmgr/contacts/internal/model"
)

// MemoryRepository keeps persons, countries and users in process memory.
// It backs the service and handler tests.
// Listings preserve insertion order.
type MemoryRepository struct {
	mu        sync.RWMutex
	countries []*model.Country
	persons   []*model.Person
	users     []*model.User
}

// NewMemoryRepository creates an empty in-memory repository.
func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{}
}

// Ping always succeeds.
func (r *MemoryRepository) Ping(ctx context.Context) error {
	return nil
}

// CreateCountry inserts a new country.
func (r *MemoryRepository) CreateCountry(ctx context.Context, country *model.Country) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.countryByNameLocked(country.Name) != nil {
		return ErrCountryNameExists
	}
	c := *country
	r.countries = append(r.countries, &c)
	return nil
}

// CreateCountries inserts the countries whose names are not yet present.
func (r *MemoryRepository) CreateCountries(ctx context.Context, countries []*model.Country) ([]*model.Country, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var inserted []*model.Country
	for _, country := range countries {
		if r.countryByNameLocked(country.Name) != nil {
			continue
		}
		c := *country
		r.countries = append(r.countries, &c)
		inserted = append(inserted, country)
	}
	return inserted, nil
}

// ListCountries returns every country.
func (r *MemoryRepository) ListCountries(ctx context.Context) ([]*model.Country, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]*model.Country, 0, len(r.countries))
	for _, c := range r.countries {
		cp := *c
		out = append(out, &cp)
	}
	return out, nil
}

// GetCountryByID retrieves a country by its ID.
func (r *MemoryRepository) GetCountryByID(ctx context.Context, id uuid.UUID) (*model.Country, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	c := r.countryByIDLocked(id)
	if c == nil {
		return nil, ErrCountryNotFound
	}
	cp := *c
	return &cp, nil
}

// GetCountryByName retrieves a country by its exact name.
func (r *MemoryRepository) GetCountryByName(ctx context.Context, name string) (*model.Country, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	c := r.countryByNameLocked(name)
	if c == nil {
		return nil, ErrCountryNotFound
	}
	cp := *c
	return &cp, nil
}

// CreatePerson inserts a new person.
func (r *MemoryRepository) CreatePerson(ctx context.Context, person *model.Person) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if err := r.checkPersonLocked(person); err != nil {
		return err
	}
	p := *person
	p.CountryName = ""
	r.persons = append(r.persons, &p)
	return nil
}

// GetPersonByID retrieves a person with its country name.
func (r *MemoryRepository) GetPersonByID(ctx context.Context, id uuid.UUID) (*model.Person, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, p := range r.persons {
		if p.ID == id {
			return r.withCountryLocked(p), nil
		}
	}
	return nil, ErrPersonNotFound
}

// ListPersons returns the persons selected by filter.
func (r *MemoryRepository) ListPersons(ctx context.Context, filter PersonFilter) ([]*model.Person, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	all := make([]*model.Person, 0, len(r.persons))
	for _, p := range r.persons {
		all = append(all, r.withCountryLocked(p))
	}
	return model.FilterPersons(all, filter.Field, filter.Term), nil
}

// UpdatePerson overwrites the mutable fields of an existing person.
func (r *MemoryRepository) UpdatePerson(ctx context.Context, person *model.Person) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, p := range r.persons {
		if p.ID != person.ID {
			continue
		}
		if err := r.checkPersonLocked(person); err != nil {
			return err
		}
		tin := p.TIN
		*p = *person
		p.TIN = tin
		p.CountryName = ""
		return nil
	}
	return ErrPersonNotFound
}

// DeletePerson removes a person. It reports whether a person was deleted.
func (r *MemoryRepository) DeletePerson(ctx context.Context, id uuid.UUID) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for i, p := range r.persons {
		if p.ID == id {
			r.persons = append(r.persons[:i], r.persons[i+1:]...)
			return true, nil
		}
	}
	return false, nil
}

// CreateUser inserts a new user.
func (r *MemoryRepository) CreateUser(ctx context.Context, user *model.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.userByEmailLocked(user.Email) != nil {
		return ErrEmailExists
	}
	u := *user
	u.Roles = append([]string(nil), user.Roles...)
	r.users = append(r.users, &u)
	return nil
}

// GetUserByEmail retrieves a user by email, ignoring case.
func (r *MemoryRepository) GetUserByEmail(ctx context.Context, email string) (*model.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	u := r.userByEmailLocked(email)
	if u == nil {
		return nil, ErrUserNotFound
	}
	cp := *u
	return &cp, nil
}

// EmailExists reports whether an account already uses email.
func (r *MemoryRepository) EmailExists(ctx context.Context, email string) (bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.userByEmailLocked(email) != nil, nil
}

// checkPersonLocked mirrors the foreign key and TIN check constraints.
func (r *MemoryRepository) checkPersonLocked(p *model.Person) error {
	if p.CountryID != nil && r.countryByIDLocked(*p.CountryID) == nil {
		return ErrUnknownCountry
	}
	if p.TIN != "" && len([]rune(p.TIN)) != 8 {
		return ErrInvalidTIN
	}
	return nil
}

func (r *MemoryRepository) withCountryLocked(p *model.Person) *model.Person {
	cp := *p
	if cp.CountryID != nil {
		if c := r.countryByIDLocked(*cp.CountryID); c != nil {
			cp.CountryName = c.Name
		}
	}
	return &cp
}

func (r *MemoryRepository) countryByIDLocked(id uuid.UUID) *model.Country {
	for _, c := range r.countries {
		if c.ID == id {
			return c
		}
	}
	return nil
}

func (r *MemoryRepository) countryByNameLocked(name string) *model.Country {
	for _, c := range r.countries {
		if c.Name == name {
			return c
		}
	}
	return nil
}

func (r *MemoryRepository) userByEmailLocked(email string) *model.User {
	for _, u := range r.users {
		if strings.EqualFold(u.Email, email) {
			return u
		}
	}
	return nil
}
