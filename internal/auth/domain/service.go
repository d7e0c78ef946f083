package domain

import (
	"context"
	"errors"

	"github.com/bwmarrin/snowflake"
	"gorm.io/gorm"
)

var (
	ErrInvalidCredentials = errors.New("invalid_credentials")
	ErrInvalidEmail       = errors.New("invalid_email")
	ErrInvalidPassword    = errors.New("invalid_password")
	ErrUserExists         = errors.New("user_exists")
	ErrInvalidSession     = errors.New("invalid_session")
	ErrSessionExpired     = errors.New("session_expired")
	ErrNotFound           = errors.New("not_found")
)

type CreateUserRequest struct {
	Email    string
	Password string
	// Role is set only by privileged callers (seed bootstrap, admin
	// provisioning). Registration always creates taxpayers.
	Role Role
}

type LoginRequest struct {
	Email    string
	Password string
}

type LoginResult struct {
	User     *User
	Session  *Session
	RawToken string
}

type Service interface {
	// CreateUserInTx inserts the user inside the caller's transaction.
	CreateUserInTx(ctx context.Context, tx *gorm.DB, req CreateUserRequest) (*User, error)
	CreateUser(ctx context.Context, req CreateUserRequest) (*User, error)
	Login(ctx context.Context, req LoginRequest) (*LoginResult, error)
	Logout(ctx context.Context, rawToken string) error
	// Authenticate resolves a session token to its user.
	Authenticate(ctx context.Context, rawToken string) (*User, error)
	GetUser(ctx context.Context, id snowflake.ID) (*User, error)
	ListUsers(ctx context.Context, limit, offset int) ([]User, error)
}
