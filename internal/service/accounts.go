package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/contactsmgr/contacts/internal/auth"
	"github.com/contactsmgr/contacts/internal/model"
	"github.com/contactsmgr/contacts/internal/repository"
)

// AccountsConfig holds the session and login throttling settings.
type AccountsConfig struct {
	SessionTTL         time.Duration
	LoginRatePerMinute int
	LoginBurst         int
}

// AccountsService handles registration, login and sessions.
type AccountsService struct {
	users    UserRepository
	sessions SessionStore
	limiter  LoginLimiter
	hasher   *auth.PasswordHasher
	cfg      AccountsConfig
	deps     Deps
	log      *slog.Logger
}

// NewAccountsService creates a new AccountsService. A nil limiter disables
// login throttling.
func NewAccountsService(
	users UserRepository,
	sessions SessionStore,
	limiter LoginLimiter,
	hasher *auth.PasswordHasher,
	cfg AccountsConfig,
	deps Deps,
) *AccountsService {
	deps = deps.withDefaults()
	if hasher == nil {
		hasher = auth.NewPasswordHasher(auth.DefaultParams)
	}
	if cfg.SessionTTL <= 0 {
		cfg.SessionTTL = 8 * time.Hour
	}
	return &AccountsService{
		users:    users,
		sessions: sessions,
		limiter:  limiter,
		hasher:   hasher,
		cfg:      cfg,
		deps:     deps,
		log:      deps.Logger.With("component", "service.accounts"),
	}
}

// Register creates an account and signs it in.
// The first role is Admin when requested, User otherwise.
func (s *AccountsService) Register(ctx context.Context, req *model.RegisterRequest) (*model.Session, error) {
	if req == nil {
		return nil, ErrArgumentRequired
	}
	req.Normalize()
	if err := validateStruct(req); err != nil {
		return nil, err
	}

	exists, err := s.users.EmailExists(ctx, req.Email)
	if err != nil {
		return nil, fmt.Errorf("failed to check email: %w", err)
	}
	if exists {
		return nil, newValidationError("email", "Email is already in use")
	}

	hash, err := s.hasher.Hash(req.Password)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	role := model.RoleUser
	if req.UserType == model.RoleAdmin {
		role = model.RoleAdmin
	}

	user := &model.User{
		ID:           uuid.New(),
		PersonName:   req.PersonName,
		Email:        req.Email,
		Phone:        req.Phone,
		PasswordHash: hash,
		Roles:        []string{role},
		CreatedAt:    time.Now().UTC(),
	}

	if err := s.users.CreateUser(ctx, user); err != nil {
		if errors.Is(err, repository.ErrEmailExists) {
			return nil, newValidationError("email", "Email is already in use")
		}
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	s.log.Info("user_registered", "user_id", user.ID, "role", role)
	return s.startSession(ctx, user)
}

// Login verifies credentials and opens a session. Attempts are limited per
// account email; clientIP is only logged, since it can come from a
// forwarded header.
func (s *AccountsService) Login(ctx context.Context, req *model.LoginRequest, clientIP string) (*model.Session, error) {
	if req == nil {
		return nil, ErrArgumentRequired
	}
	req.Normalize()
	if err := validateStruct(req); err != nil {
		return nil, err
	}

	if s.limiter != nil {
		subject := strings.ToLower(req.Email)
		result, err := s.limiter.CheckLoginRateLimit(ctx, subject, s.cfg.LoginRatePerMinute, s.cfg.LoginBurst)
		if err != nil {
			s.log.Warn("login rate limit check failed", "error", err)
		} else if !result.Allowed {
			s.deps.Metrics.IncLoginAttempt("limited")
			s.log.Warn("login_rate_limited", "client_ip", clientIP)
			return nil, &RateLimitError{RetryAfter: result.RetryAfter}
		}
	}

	user, err := s.users.GetUserByEmail(ctx, req.Email)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			s.deps.Metrics.IncLoginAttempt("failed")
			return nil, ErrInvalidCredentials
		}
		return nil, fmt.Errorf("failed to get user: %w", err)
	}

	ok, err := s.hasher.Verify(req.Password, user.PasswordHash)
	if err != nil || !ok {
		s.deps.Metrics.IncLoginAttempt("failed")
		return nil, ErrInvalidCredentials
	}

	s.deps.Metrics.IncLoginAttempt("success")
	return s.startSession(ctx, user)
}

// Logout drops the session. Unknown tokens are ignored.
func (s *AccountsService) Logout(ctx context.Context, token string) error {
	if token == "" {
		return nil
	}
	if err := s.sessions.DeleteSession(ctx, token); err != nil {
		return fmt.Errorf("failed to delete session: %w", err)
	}
	return nil
}

// GetSession returns the live session for token, or nil when the token
// is malformed, unknown or expired.
func (s *AccountsService) GetSession(ctx context.Context, token string) (*model.Session, error) {
	if auth.ValidateToken(token) != nil {
		return nil, nil
	}
	session, err := s.sessions.GetSession(ctx, token)
	if err != nil {
		return nil, fmt.Errorf("failed to get session: %w", err)
	}
	if session == nil || session.IsExpired() {
		return nil, nil
	}
	return session, nil
}

// IsEmailAvailable reports whether no account uses email.
func (s *AccountsService) IsEmailAvailable(ctx context.Context, email string) (bool, error) {
	if strings.TrimSpace(email) == "" {
		return false, ErrArgumentRequired
	}
	exists, err := s.users.EmailExists(ctx, email)
	if err != nil {
		return false, fmt.Errorf("failed to check email: %w", err)
	}
	return !exists, nil
}

func (s *AccountsService) startSession(ctx context.Context, user *model.User) (*model.Session, error) {
	token, err := auth.NewSessionToken()
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	session := &model.Session{
		Token:      token,
		UserID:     user.ID,
		Email:      user.Email,
		PersonName: user.PersonName,
		Roles:      user.Roles,
		CreatedAt:  now,
		ExpiresAt:  now.Add(s.cfg.SessionTTL),
	}

	if err := s.sessions.SaveSession(ctx, session); err != nil {
		return nil, fmt.Errorf("failed to save session: %w", err)
	}
	return session, nil
}
