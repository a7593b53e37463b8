package service

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/contactsmgr/contacts/internal/export"
	"github.com/contactsmgr/contacts/internal/model"
	"github.com/contactsmgr/contacts/internal/repository"
	"github.com/contactsmgr/contacts/internal/storage"
)

// PersonsGetterService reads and exports persons.
type PersonsGetterService struct {
	persons PersonRepository
	deps    Deps
	log     *slog.Logger
}

// NewPersonsGetterService creates a new PersonsGetterService.
func NewPersonsGetterService(persons PersonRepository, deps Deps) *PersonsGetterService {
	deps = deps.withDefaults()
	return &PersonsGetterService{
		persons: persons,
		deps:    deps,
		log:     deps.Logger.With("component", "service.persons"),
	}
}

// GetAllPersons returns every person.
func (s *PersonsGetterService) GetAllPersons(ctx context.Context) ([]model.PersonResponse, error) {
	return s.GetFilteredPersons(ctx, "", "")
}

// GetPersonByID returns the person, or nil when id is nil or unknown.
func (s *PersonsGetterService) GetPersonByID(ctx context.Context, id *uuid.UUID) (*model.PersonResponse, error) {
	if id == nil {
		return nil, nil
	}

	person, err := s.persons.GetPersonByID(ctx, *id)
	if err != nil {
		if errors.Is(err, repository.ErrPersonNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get person: %w", err)
	}

	resp := person.ToResponse()
	return &resp, nil
}

// GetFilteredPersons returns the persons whose searchBy field contains
// searchString, ignoring case. A blank search string or an unknown field
// returns every person.
func (s *PersonsGetterService) GetFilteredPersons(ctx context.Context, searchBy, searchString string) ([]model.PersonResponse, error) {
	filter := repository.PersonFilter{Field: searchBy, Term: searchString}
	persons, err := s.persons.ListPersons(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("failed to list persons: %w", err)
	}
	return toPersonResponses(persons), nil
}

// GetPersonsCSV renders every person as CSV.
func (s *PersonsGetterService) GetPersonsCSV(ctx context.Context) ([]byte, error) {
	return s.render(ctx, "csv", export.CSVContentType, export.WriteCSV)
}

// GetPersonsExcel renders every person as an xlsx workbook.
func (s *PersonsGetterService) GetPersonsExcel(ctx context.Context) ([]byte, error) {
	return s.render(ctx, "xlsx", export.ExcelContentType, export.WriteExcel)
}

// GetPersonsPDF renders every person as a landscape PDF table.
func (s *PersonsGetterService) GetPersonsPDF(ctx context.Context) ([]byte, error) {
	return s.render(ctx, "pdf", export.PDFContentType, export.WritePDF)
}

func (s *PersonsGetterService) render(
	ctx context.Context,
	format, contentType string,
	write func(io.Writer, []model.PersonResponse) error,
) ([]byte, error) {
	start := time.Now()

	persons, err := s.GetAllPersons(ctx)
	if err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	if err := write(&buf, persons); err != nil {
		return nil, fmt.Errorf("failed to render %s export: %w", format, err)
	}
	data := buf.Bytes()

	s.deps.Metrics.ObserveExportDuration(format, time.Since(start))

	key := storage.ExportKey(start, format)
	if err := s.deps.Archiver.Archive(ctx, key, data, contentType); err != nil {
		s.log.Warn("failed to archive export", "key", key, "error", err)
	}

	return data, nil
}
