package model

import (
	"slices"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Role names assigned at registration.
const (
	RoleAdmin = "Admin"
	RoleUser  = "User"
)

// User is an account that can sign in to the contacts manager.
type User struct {
	ID           uuid.UUID `json:"id"`
	PersonName   string    `json:"personName"`
	Email        string    `json:"email"`
	Phone        string    `json:"phone"`
	PasswordHash string    `json:"-"` // Never serialize
	Roles        []string  `json:"roles"`
	CreatedAt    time.Time `json:"createdAt"`
}

// HasRole reports whether the user holds role.
func (u *User) HasRole(role string) bool {
	return slices.Contains(u.Roles, role)
}

// RegisterRequest is the sign-up form.
type RegisterRequest struct {
	PersonName      string `json:"personName" validate:"required"`
	Email           string `json:"email" validate:"required,email"`
	Phone           string `json:"phone" validate:"required,numeric"`
	Password        string `json:"password" validate:"required,min=5,haslower,minunique=2"`
	ConfirmPassword string `json:"confirmPassword" validate:"required,eqfield=Password"`
	UserType        string `json:"userType" validate:"omitempty,oneof=Admin User"`
}

// Normalize trims the identity fields. Passwords are taken as typed.
func (r *RegisterRequest) Normalize() {
	r.PersonName = strings.TrimSpace(r.PersonName)
	r.Email = strings.TrimSpace(r.Email)
	r.Phone = strings.TrimSpace(r.Phone)
	r.UserType = strings.TrimSpace(r.UserType)
}

// LoginRequest is the sign-in form.
type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// Normalize trims the email.
func (r *LoginRequest) Normalize() {
	r.Email = strings.TrimSpace(r.Email)
}

// Session is a signed-in browser session, stored server side.
type Session struct {
	Token      string    `json:"-"`
	UserID     uuid.UUID `json:"user_id"`
	Email      string    `json:"email"`
	PersonName string    `json:"person_name"`
	Roles      []string  `json:"roles"`
	CreatedAt  time.Time `json:"created_at"`
	ExpiresAt  time.Time `json:"expires_at"`
}

// IsExpired reports whether the session has passed its expiry.
func (s *Session) IsExpired() bool {
	return time.Now().After(s.ExpiresAt)
}

// HasRole reports whether the session's user holds role.
func (s *Session) HasRole(role string) bool {
	return slices.Contains(s.Roles, role)
}
