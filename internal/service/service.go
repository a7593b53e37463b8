package service

import (
	"context"
	"errors"
	"log/slog"

	"github.com/google/uuid"

	"github.com/contactsmgr/contacts/internal/auth"
	"github.com/contactsmgr/contacts/internal/cache"
	"github.com/contactsmgr/contacts/internal/events"
	"github.com/contactsmgr/contacts/internal/metrics"
	"github.com/contactsmgr/contacts/internal/model"
	"github.com/contactsmgr/contacts/internal/repository"
	"github.com/contactsmgr/contacts/internal/storage"
)

// CountryRepository is the country persistence the services need.
type CountryRepository interface {
	CreateCountry(ctx context.Context, country *model.Country) error
	CreateCountries(ctx context.Context, countries []*model.Country) ([]*model.Country, error)
	ListCountries(ctx context.Context) ([]*model.Country, error)
	GetCountryByID(ctx context.Context, id uuid.UUID) (*model.Country, error)
	GetCountryByName(ctx context.Context, name string) (*model.Country, error)
}

// PersonRepository is the person persistence the services need.
type PersonRepository interface {
	CreatePerson(ctx context.Context, person *model.Person) error
	GetPersonByID(ctx context.Context, id uuid.UUID) (*model.Person, error)
	ListPersons(ctx context.Context, filter repository.PersonFilter) ([]*model.Person, error)
	UpdatePerson(ctx context.Context, person *model.Person) error
	DeletePerson(ctx context.Context, id uuid.UUID) (bool, error)
}

// UserRepository is the account persistence the services need.
type UserRepository interface {
	CreateUser(ctx context.Context, user *model.User) error
	GetUserByEmail(ctx context.Context, email string) (*model.User, error)
	EmailExists(ctx context.Context, email string) (bool, error)
}

// SessionStore keeps signed-in sessions.
type SessionStore interface {
	SaveSession(ctx context.Context, s *model.Session) error
	GetSession(ctx context.Context, token string) (*model.Session, error)
	DeleteSession(ctx context.Context, token string) error
}

// LoginLimiter throttles login attempts per subject.
type LoginLimiter interface {
	CheckLoginRateLimit(ctx context.Context, subject string, ratePerMinute, burst int) (*cache.RateLimitResult, error)
}

// EventDispatcher sends change events without blocking.
type EventDispatcher interface {
	Dispatch(event events.Event)
}

// Deps are the ambient collaborators shared by every service.
// Zero values are replaced with no-op implementations.
type Deps struct {
	Logger   *slog.Logger
	Metrics  metrics.Recorder
	Events   EventDispatcher
	Archiver storage.Archiver
}

type discardEvents struct{}

func (discardEvents) Dispatch(events.Event) {}

func (d Deps) withDefaults() Deps {
	if d.Logger == nil {
		d.Logger = slog.Default()
	}
	if d.Metrics == nil {
		d.Metrics = metrics.NewNoop()
	}
	if d.Events == nil {
		d.Events = discardEvents{}
	}
	if d.Archiver == nil {
		d.Archiver = storage.NoopArchiver{}
	}
	return d
}

// checkCountryExists returns a validation error when id names no country.
func checkCountryExists(ctx context.Context, countries CountryRepository, id *uuid.UUID) error {
	if id == nil {
		return nil
	}
	if _, err := countries.GetCountryByID(ctx, *id); err != nil {
		if errors.Is(err, repository.ErrCountryNotFound) {
			return newValidationError("countryId", "Country does not exist")
		}
		return err
	}
	return nil
}

// actorID is the signed-in user recorded on change events.
func actorID(ctx context.Context) string {
	return auth.UserIDFromContext(ctx)
}

func toPersonResponses(persons []*model.Person) []model.PersonResponse {
	out := make([]model.PersonResponse, 0, len(persons))
	for _, p := range persons {
		out = append(out, p.ToResponse())
	}
	return out
}
