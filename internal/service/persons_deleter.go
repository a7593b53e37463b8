package service

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"github.com/contactsmgr/contacts/internal/events"
)

// PersonsDeleterService removes persons.
type PersonsDeleterService struct {
	persons PersonRepository
	deps    Deps
	log     *slog.Logger
}

// NewPersonsDeleterService creates a new PersonsDeleterService.
func NewPersonsDeleterService(persons PersonRepository, deps Deps) *PersonsDeleterService {
	deps = deps.withDefaults()
	return &PersonsDeleterService{
		persons: persons,
		deps:    deps,
		log:     deps.Logger.With("component", "service.persons"),
	}
}

// DeletePerson removes the person. It returns false, not an error, when
// no person has that id.
func (s *PersonsDeleterService) DeletePerson(ctx context.Context, id *uuid.UUID) (bool, error) {
	if id == nil {
		return false, ErrArgumentRequired
	}

	deleted, err := s.persons.DeletePerson(ctx, *id)
	if err != nil {
		return false, fmt.Errorf("failed to delete person: %w", err)
	}
	if !deleted {
		return false, nil
	}

	s.deps.Metrics.IncPersonDeleted()
	s.deps.Events.Dispatch(events.New(events.PersonDeleted, *id, "", actorID(ctx)))
	s.log.Info("person_deleted", "person_id", *id)

	return true, nil
}
