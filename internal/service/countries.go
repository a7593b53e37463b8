package service

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/contactsmgr/contacts/internal/events"
	"github.com/contactsmgr/contacts/internal/export"
	"github.com/contactsmgr/contacts/internal/model"
	"github.com/contactsmgr/contacts/internal/repository"
	"github.com/contactsmgr/contacts/internal/storage"
)

// CountriesService handles country business logic.
type CountriesService struct {
	repo CountryRepository
	deps Deps
	log  *slog.Logger
}

// NewCountriesService creates a new CountriesService.
func NewCountriesService(repo CountryRepository, deps Deps) *CountriesService {
	deps = deps.withDefaults()
	return &CountriesService{
		repo: repo,
		deps: deps,
		log:  deps.Logger.With("component", "service.countries"),
	}
}

// AddCountry creates a country with a unique name.
func (s *CountriesService) AddCountry(ctx context.Context, req *model.CountryAddRequest) (*model.CountryResponse, error) {
	if req == nil {
		return nil, ErrArgumentRequired
	}
	req.Normalize()
	if err := validateStruct(req); err != nil {
		return nil, err
	}

	if _, err := s.repo.GetCountryByName(ctx, req.CountryName); err == nil {
		return nil, ErrCountryExists
	} else if !errors.Is(err, repository.ErrCountryNotFound) {
		return nil, fmt.Errorf("failed to look up country: %w", err)
	}

	country := req.ToCountry()
	country.ID = uuid.New()

	if err := s.repo.CreateCountry(ctx, country); err != nil {
		if errors.Is(err, repository.ErrCountryNameExists) {
			return nil, ErrCountryExists
		}
		return nil, fmt.Errorf("failed to create country: %w", err)
	}

	s.deps.Metrics.IncCountryAdded()
	s.deps.Events.Dispatch(events.New(events.CountryCreated, country.ID, country.Name, actorID(ctx)))
	s.log.Info("country_added", "country_id", country.ID, "country_name", country.Name)

	resp := country.ToResponse()
	return &resp, nil
}

// GetAllCountries returns every country.
func (s *CountriesService) GetAllCountries(ctx context.Context) ([]model.CountryResponse, error) {
	countries, err := s.repo.ListCountries(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list countries: %w", err)
	}

	out := make([]model.CountryResponse, 0, len(countries))
	for _, c := range countries {
		out = append(out, c.ToResponse())
	}
	return out, nil
}

// GetCountryByID returns the country, or nil when id is nil or unknown.
func (s *CountriesService) GetCountryByID(ctx context.Context, id *uuid.UUID) (*model.CountryResponse, error) {
	if id == nil {
		return nil, nil
	}

	country, err := s.repo.GetCountryByID(ctx, *id)
	if err != nil {
		if errors.Is(err, repository.ErrCountryNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get country: %w", err)
	}

	resp := country.ToResponse()
	return &resp, nil
}

// UploadCountriesFromExcel inserts the country names listed in column A of
// the first worksheet, skipping blanks and names that already exist.
// It returns the number of countries inserted.
func (s *CountriesService) UploadCountriesFromExcel(ctx context.Context, filename string, r io.Reader) (int, error) {
	if r == nil {
		return 0, ErrArgumentRequired
	}
	if !strings.EqualFold(filepath.Ext(filename), ".xlsx") {
		return 0, newValidationError("excelFile", "Unsupported file. 'xlsx' file is expected")
	}

	data, err := io.ReadAll(r)
	if err != nil {
		return 0, fmt.Errorf("failed to read upload: %w", err)
	}
	if len(data) == 0 {
		return 0, newValidationError("excelFile", "Please select an xlsx file")
	}

	names, err := export.ReadCountryNames(bytes.NewReader(data))
	if err != nil {
		return 0, newValidationError("excelFile", "The file is not a readable xlsx workbook")
	}

	key := storage.UploadKey(time.Now(), filename)
	if err := s.deps.Archiver.Archive(ctx, key, data, export.ExcelContentType); err != nil {
		s.log.Warn("failed to archive upload", "key", key, "error", err)
	}

	candidates := make([]*model.Country, 0, len(names))
	for _, name := range names {
		candidates = append(candidates, &model.Country{ID: uuid.New(), Name: name})
	}

	inserted, err := s.repo.CreateCountries(ctx, candidates)
	if err != nil {
		return 0, fmt.Errorf("failed to insert countries: %w", err)
	}

	actor := actorID(ctx)
	for _, c := range inserted {
		s.deps.Events.Dispatch(events.New(events.CountryCreated, c.ID, c.Name, actor))
	}
	s.deps.Metrics.AddCountriesImported(len(inserted))
	s.log.Info("countries_uploaded", "file", filename, "rows", len(names), "inserted", len(inserted))

	return len(inserted), nil
}
