// Package seed loads the country and person fixtures and inserts the ones
// that are missing, so it can run on every start.
package seed

import (
	"context"
	"embed"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path"
	"strings"
	"time"

	"github.com/google/uuid"
	"gopkg.in/yaml.v3"

	"github.com/contactsmgr/contacts/internal/model"
	"github.com/contactsmgr/contacts/internal/repository"
)

//go:embed fixtures/*.json
var embedded embed.FS

// ErrFixtureMissing is returned when a fixture directory lacks a countries
// or persons file in any supported format.
var ErrFixtureMissing = errors.New("fixture file not found")

const dateLayout = "2006-01-02"

// Country is a country fixture row.
type Country struct {
	ID   uuid.UUID `json:"CountryID" yaml:"CountryID"`
	Name string    `json:"CountryName" yaml:"CountryName"`
}

// Person is a person fixture row. DateOfBirth is "2006-01-02" or blank.
type Person struct {
	ID                 uuid.UUID  `json:"PersonID" yaml:"PersonID"`
	Name               string     `json:"PersonName" yaml:"PersonName"`
	Email              string     `json:"Email" yaml:"Email"`
	DateOfBirth        string     `json:"DateOfBirth" yaml:"DateOfBirth"`
	Gender             string     `json:"Gender" yaml:"Gender"`
	CountryID          *uuid.UUID `json:"CountryID" yaml:"CountryID"`
	Address            string     `json:"Address" yaml:"Address"`
	ReceiveNewsLetters bool       `json:"ReceiveNewsLetters" yaml:"ReceiveNewsLetters"`
	TIN                string     `json:"TIN,omitempty" yaml:"TIN,omitempty"`
}

// Fixtures is a full data set.
type Fixtures struct {
	Countries []Country
	Persons   []Person
}

// Store is the persistence the seeder writes through.
type Store interface {
	CreateCountries(ctx context.Context, countries []*model.Country) ([]*model.Country, error)
	ListCountries(ctx context.Context) ([]*model.Country, error)
	GetPersonByID(ctx context.Context, id uuid.UUID) (*model.Person, error)
	CreatePerson(ctx context.Context, person *model.Person) error
}

// Result counts the rows a run inserted.
type Result struct {
	Countries int
	Persons   int
}

// Load reads fixtures from dir, or the embedded set when dir is empty.
func Load(dir string) (*Fixtures, error) {
	if dir == "" {
		sub, err := fs.Sub(embedded, "fixtures")
		if err != nil {
			return nil, err
		}
		return LoadFS(sub)
	}
	return LoadFS(os.DirFS(dir))
}

// LoadFS reads countries and persons from fsys. Each may be .json, .yaml or .yml.
func LoadFS(fsys fs.FS) (*Fixtures, error) {
	f := &Fixtures{}
	if err := decodeFile(fsys, "countries", &f.Countries); err != nil {
		return nil, err
	}
	if err := decodeFile(fsys, "persons", &f.Persons); err != nil {
		return nil, err
	}
	return f, nil
}

func decodeFile(fsys fs.FS, base string, dst any) error {
	for _, ext := range []string{".json", ".yaml", ".yml"} {
		name := base + ext
		data, err := fs.ReadFile(fsys, name)
		if errors.Is(err, fs.ErrNotExist) {
			continue
		}
		if err != nil {
			return fmt.Errorf("read %s: %w", name, err)
		}

		if ext == ".json" {
			err = json.Unmarshal(data, dst)
		} else {
			err = yaml.Unmarshal(data, dst)
		}
		if err != nil {
			return fmt.Errorf("decode %s: %w", name, err)
		}
		return nil
	}
	return fmt.Errorf("%s: %w", path.Join(".", base), ErrFixtureMissing)
}

// Apply inserts countries whose names are missing and persons whose ids are
// missing. Person country references are resolved by name, so a country that
// already exists under another id is still linked.
func Apply(ctx context.Context, store Store, f *Fixtures, logger *slog.Logger) (Result, error) {
	if logger == nil {
		logger = slog.Default()
	}
	var res Result

	candidates := make([]*model.Country, 0, len(f.Countries))
	for _, c := range f.Countries {
		name := strings.TrimSpace(c.Name)
		if name == "" {
			continue
		}
		id := c.ID
		if id == uuid.Nil {
			id = uuid.New()
		}
		candidates = append(candidates, &model.Country{ID: id, Name: name})
	}

	inserted, err := store.CreateCountries(ctx, candidates)
	if err != nil {
		return res, fmt.Errorf("seed countries: %w", err)
	}
	res.Countries = len(inserted)

	existing, err := store.ListCountries(ctx)
	if err != nil {
		return res, fmt.Errorf("list countries: %w", err)
	}
	byName := make(map[string]uuid.UUID, len(existing))
	for _, c := range existing {
		byName[c.Name] = c.ID
	}
	resolved := make(map[uuid.UUID]uuid.UUID, len(f.Countries))
	for _, c := range f.Countries {
		if id, ok := byName[strings.TrimSpace(c.Name)]; ok {
			resolved[c.ID] = id
		}
	}

	for _, p := range f.Persons {
		_, err := store.GetPersonByID(ctx, p.ID)
		if err == nil {
			continue
		}
		if !errors.Is(err, repository.ErrPersonNotFound) {
			return res, fmt.Errorf("look up person %s: %w", p.ID, err)
		}

		person, err := p.toPerson(resolved)
		if err != nil {
			return res, err
		}
		if err := store.CreatePerson(ctx, person); err != nil {
			return res, fmt.Errorf("seed person %s: %w", p.ID, err)
		}
		res.Persons++
	}

	logger.Info("seed applied", "countries_inserted", res.Countries, "persons_inserted", res.Persons)
	return res, nil
}

func (p Person) toPerson(countries map[uuid.UUID]uuid.UUID) (*model.Person, error) {
	if p.ID == uuid.Nil {
		return nil, fmt.Errorf("person %q: missing PersonID", p.Name)
	}

	person := &model.Person{
		ID:                 p.ID,
		Name:               p.Name,
		Email:              p.Email,
		Address:            p.Address,
		ReceiveNewsLetters: p.ReceiveNewsLetters,
		TIN:                p.TIN,
	}
	if person.TIN == "" {
		person.TIN = model.DefaultTIN
	}

	if p.Gender != "" {
		gender, ok := model.ParseGender(p.Gender)
		if !ok {
			return nil, fmt.Errorf("person %s: unknown gender %q", p.ID, p.Gender)
		}
		person.Gender = gender
	}

	if p.DateOfBirth != "" {
		dob, err := time.Parse(dateLayout, p.DateOfBirth)
		if err != nil {
			return nil, fmt.Errorf("person %s: date of birth: %w", p.ID, err)
		}
		person.DateOfBirth = &dob
	}

	// Unresolved references are dropped rather than failing the foreign key.
	if p.CountryID != nil {
		if id, ok := countries[*p.CountryID]; ok {
			person.CountryID = &id
		}
	}
	return person, nil
}
