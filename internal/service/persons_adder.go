package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"github.com/contactsmgr/contacts/internal/events"
	"github.com/contactsmgr/contacts/internal/model"
	"github.com/contactsmgr/contacts/internal/repository"
)

// PersonsAdderService creates persons.
type PersonsAdderService struct {
	persons   PersonRepository
	countries CountryRepository
	deps      Deps
	log       *slog.Logger
}

// NewPersonsAdderService creates a new PersonsAdderService.
func NewPersonsAdderService(persons PersonRepository, countries CountryRepository, deps Deps) *PersonsAdderService {
	deps = deps.withDefaults()
	return &PersonsAdderService{
		persons:   persons,
		countries: countries,
		deps:      deps,
		log:       deps.Logger.With("component", "service.persons"),
	}
}

// AddPerson validates req and stores a new person.
func (s *PersonsAdderService) AddPerson(ctx context.Context, req *model.PersonAddRequest) (*model.PersonResponse, error) {
	if req == nil {
		return nil, ErrArgumentRequired
	}
	req.Normalize()
	if err := validateStruct(req); err != nil {
		return nil, err
	}
	if err := checkCountryExists(ctx, s.countries, req.CountryID); err != nil {
		return nil, err
	}

	person := req.ToPerson()
	person.ID = uuid.New()

	if err := s.persons.CreatePerson(ctx, person); err != nil {
		return nil, mapPersonWriteError(err, "create")
	}

	// Re-read so the response carries the joined country name.
	stored, err := s.persons.GetPersonByID(ctx, person.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to reload person: %w", err)
	}

	s.deps.Metrics.IncPersonAdded()
	s.deps.Events.Dispatch(events.New(events.PersonCreated, stored.ID, stored.Name, actorID(ctx)))
	s.log.Info("person_added", "person_id", stored.ID)

	resp := stored.ToResponse()
	return &resp, nil
}

// mapPersonWriteError translates repository write failures into service errors.
func mapPersonWriteError(err error, op string) error {
	switch {
	case errors.Is(err, repository.ErrPersonNotFound):
		return ErrPersonNotFound
	case errors.Is(err, repository.ErrUnknownCountry):
		return newValidationError("countryId", "Country does not exist")
	case errors.Is(err, repository.ErrInvalidTIN):
		return newValidationError("tin", "Tax Identification Number should be 8 characters")
	default:
		return fmt.Errorf("failed to %s person: %w", op, err)
	}
}
