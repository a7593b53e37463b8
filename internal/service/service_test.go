package service

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/contactsmgr/contacts/internal/auth"
	"github.com/contactsmgr/contacts/internal/cache"
	"github.com/contactsmgr/contacts/internal/events"
	"github.com/contactsmgr/contacts/internal/metrics"
	"github.com/contactsmgr/contacts/internal/model"
	"github.com/contactsmgr/contacts/internal/repository"
)

// cheapParams keeps password hashing fast in tests.
var cheapParams = auth.Params{Time: 1, Memory: 1024, Threads: 1, KeyLen: 32, SaltLen: 16}

type recordedEvents struct {
	mu     sync.Mutex
	events []events.Event
}

func (r *recordedEvents) Dispatch(e events.Event) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, e)
}

func (r *recordedEvents) types() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]string, len(r.events))
	for i, e := range r.events {
		out[i] = e.Type
	}
	return out
}

type recordedArchive struct {
	mu   sync.Mutex
	keys []string
}

func (r *recordedArchive) Archive(_ context.Context, key string, _ []byte, _ string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.keys = append(r.keys, key)
	return nil
}

type memorySessions struct {
	mu       sync.Mutex
	sessions map[string]*model.Session
}

func newMemorySessions() *memorySessions {
	return &memorySessions{sessions: make(map[string]*model.Session)}
}

func (m *memorySessions) SaveSession(_ context.Context, s *model.Session) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sessions[s.Token] = s
	return nil
}

func (m *memorySessions) GetSession(_ context.Context, token string) (*model.Session, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.sessions[token], nil
}

func (m *memorySessions) DeleteSession(_ context.Context, token string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.sessions, token)
	return nil
}

type denyLimiter struct{}

func (denyLimiter) CheckLoginRateLimit(context.Context, string, int, int) (*cache.RateLimitResult, error) {
	return &cache.RateLimitResult{Allowed: false, RetryAfter: 30 * time.Second}, nil
}

// burstLimiter allows burst attempts per subject and denies the rest.
type burstLimiter struct {
	mu     sync.Mutex
	burst  int
	counts map[string]int
	seen   []string
}

func newBurstLimiter(burst int) *burstLimiter {
	return &burstLimiter{burst: burst, counts: make(map[string]int)}
}

func (l *burstLimiter) CheckLoginRateLimit(_ context.Context, subject string, _, _ int) (*cache.RateLimitResult, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.seen = append(l.seen, subject)
	l.counts[subject]++
	if l.counts[subject] > l.burst {
		return &cache.RateLimitResult{Allowed: false, RetryAfter: time.Minute}, nil
	}
	return &cache.RateLimitResult{Allowed: true, Remaining: int64(l.burst - l.counts[subject])}, nil
}

func (l *burstLimiter) subjects() []string {
	l.mu.Lock()
	defer l.mu.Unlock()
	return append([]string(nil), l.seen...)
}

// testEnv wires every service over one in-memory repository.
type testEnv struct {
	repo      *repository.MemoryRepository
	metrics   *metrics.InMemoryRecorder
	events    *recordedEvents
	archive   *recordedArchive
	countries *CountriesService
	adder     *PersonsAdderService
	getter    *PersonsGetterService
	updater   *PersonsUpdaterService
	deleter   *PersonsDeleterService
	accounts  *AccountsService
	sessions  *memorySessions
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	env := &testEnv{
		repo:     repository.NewMemoryRepository(),
		metrics:  metrics.NewInMemory(),
		events:   &recordedEvents{},
		archive:  &recordedArchive{},
		sessions: newMemorySessions(),
	}
	deps := Deps{Metrics: env.metrics, Events: env.events, Archiver: env.archive}
	env.countries = NewCountriesService(env.repo, deps)
	env.adder = NewPersonsAdderService(env.repo, env.repo, deps)
	env.getter = NewPersonsGetterService(env.repo, deps)
	env.updater = NewPersonsUpdaterService(env.repo, env.repo, deps)
	env.deleter = NewPersonsDeleterService(env.repo, deps)
	env.accounts = NewAccountsService(env.repo, env.sessions, nil, auth.NewPasswordHasher(cheapParams),
		AccountsConfig{SessionTTL: time.Hour}, deps)
	return env
}

func (env *testEnv) addCountry(t *testing.T, name string) *model.CountryResponse {
	t.Helper()
	c, err := env.countries.AddCountry(context.Background(), &model.CountryAddRequest{CountryName: name})
	require.NoError(t, err)
	return c
}

func (env *testEnv) addPerson(t *testing.T, name, email string, country *model.CountryResponse) *model.PersonResponse {
	t.Helper()
	req := &model.PersonAddRequest{
		PersonName: name,
		Email:      email,
		Gender:     model.GenderFemale,
		Address:    "1 Sample Road",
	}
	if country != nil {
		req.CountryID = &country.ID
	}
	p, err := env.adder.AddPerson(context.Background(), req)
	require.NoError(t, err)
	return p
}

func date(year int, month time.Month, day int) *time.Time {
	d := time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
	return &d
}
