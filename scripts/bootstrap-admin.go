package main

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/contactsmgr/contacts/internal/auth"
	"github.com/contactsmgr/contacts/internal/model"
	"github.com/contactsmgr/contacts/internal/repository"
)

type output struct {
	UserID  string   `json:"user_id"`
	Email   string   `json:"email"`
	Roles   []string `json:"roles"`
	Created bool     `json:"created"`
}

func main() {
	var (
		databaseURL = flag.String("database-url", os.Getenv("DATABASE_URL"), "PostgreSQL connection string")
		email       = flag.String("email", "admin@contacts.local", "Admin email")
		name        = flag.String("name", "Administrator", "Admin display name")
		phone       = flag.String("phone", "0000000000", "Admin phone (digits only)")
		password    = flag.String("password", os.Getenv("ADMIN_PASSWORD"), "Admin password")
		format      = flag.String("format", "plain", "Output format: plain or json")
	)
	flag.Parse()

	if *databaseURL == "" {
		fmt.Fprintln(os.Stderr, "DATABASE_URL is required")
		os.Exit(1)
	}
	if strings.TrimSpace(*password) == "" {
		fmt.Fprintln(os.Stderr, "password is required (-password or ADMIN_PASSWORD)")
		os.Exit(1)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	db, err := sql.Open("postgres", *databaseURL)
	if err != nil {
		fmt.Fprintln(os.Stderr, "open database:", err)
		os.Exit(1)
	}
	defer db.Close()

	users := repository.NewUserRepository(db)

	user, created, err := ensureAdmin(ctx, users, *email, *name, *phone, *password)
	if err != nil {
		fmt.Fprintln(os.Stderr, err.Error())
		os.Exit(1)
	}

	out := output{
		UserID:  user.ID.String(),
		Email:   user.Email,
		Roles:   user.Roles,
		Created: created,
	}

	switch strings.ToLower(*format) {
	case "plain":
		fmt.Println(out.UserID)
	case "json":
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		_ = enc.Encode(out)
	default:
		fmt.Fprintln(os.Stderr, "invalid format; use plain or json")
		os.Exit(1)
	}
}

// ensureAdmin returns the existing account for email when it already holds
// the Admin role, and creates it otherwise.
func ensureAdmin(ctx context.Context, users *repository.UserRepository, email, name, phone, password string) (*model.User, bool, error) {
	existing, err := users.GetUserByEmail(ctx, email)
	if err == nil {
		if !existing.HasRole(model.RoleAdmin) {
			return nil, false, fmt.Errorf("user %s exists without the %s role", email, model.RoleAdmin)
		}
		return existing, false, nil
	}
	if !errors.Is(err, repository.ErrUserNotFound) {
		return nil, false, fmt.Errorf("look up user: %w", err)
	}

	hash, err := auth.NewPasswordHasher(auth.DefaultParams).Hash(password)
	if err != nil {
		return nil, false, fmt.Errorf("hash password: %w", err)
	}

	user := &model.User{
		ID:           uuid.New(),
		PersonName:   name,
		Email:        email,
		Phone:        phone,
		PasswordHash: hash,
		Roles:        []string{model.RoleAdmin},
		CreatedAt:    time.Now().UTC(),
	}
	if err := users.CreateUser(ctx, user); err != nil {
		return nil, false, fmt.Errorf("create user: %w", err)
	}
	return user, true, nil
}
