package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/contactsmgr/contacts/internal/events"
	"github.com/contactsmgr/contacts/internal/model"
	"github.com/contactsmgr/contacts/internal/repository"
)

// PersonsUpdaterService replaces the mutable fields of existing persons.
type PersonsUpdaterService struct {
	persons   PersonRepository
	countries CountryRepository
	deps      Deps
	log       *slog.Logger
}

// NewPersonsUpdaterService creates a new PersonsUpdaterService.
func NewPersonsUpdaterService(persons PersonRepository, countries CountryRepository, deps Deps) *PersonsUpdaterService {
	deps = deps.withDefaults()
	return &PersonsUpdaterService{
		persons:   persons,
		countries: countries,
		deps:      deps,
		log:       deps.Logger.With("component", "service.persons"),
	}
}

// UpdatePerson overwrites the person named by req.PersonID.
// The tax identification number is left as stored.
func (s *PersonsUpdaterService) UpdatePerson(ctx context.Context, req *model.PersonUpdateRequest) (*model.PersonResponse, error) {
	if req == nil {
		return nil, ErrArgumentRequired
	}
	req.Normalize()
	if err := validateStruct(req); err != nil {
		return nil, err
	}

	person, err := s.persons.GetPersonByID(ctx, req.PersonID)
	if err != nil {
		if errors.Is(err, repository.ErrPersonNotFound) {
			return nil, ErrPersonNotFound
		}
		return nil, fmt.Errorf("failed to get person: %w", err)
	}

	if err := checkCountryExists(ctx, s.countries, req.CountryID); err != nil {
		return nil, err
	}

	req.ApplyTo(person)
	if err := s.persons.UpdatePerson(ctx, person); err != nil {
		return nil, mapPersonWriteError(err, "update")
	}

	stored, err := s.persons.GetPersonByID(ctx, person.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to reload person: %w", err)
	}

	s.deps.Metrics.IncPersonUpdated()
	s.deps.Events.Dispatch(events.New(events.PersonUpdated, stored.ID, stored.Name, actorID(ctx)))
	s.log.Info("person_updated", "person_id", stored.ID)

	resp := stored.ToResponse()
	return &resp, nil
}
