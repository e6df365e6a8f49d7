// Package service holds the application's use cases on top of the repositories.
package service

import (
	"context"
	"log/slog"
	"strings"

	"campusgram/internal/middleware"
	"campusgram/internal/models"
	"campusgram/internal/repository"
	"campusgram/internal/validation"

	"golang.org/x/crypto/bcrypt"
)

const (
	msgInstitutionOnly = "Only UMass email addresses are allowed to register."
	msgBadCredentials  = "Invalid username or password"
)

// TokenRevoker invalidates an issued session token.
type TokenRevoker interface {
	Revoke(ctx context.Context, token string) error
}

type AuthService struct {
	users       repository.UserRepository
	revoker     TokenRevoker
	emailDomain string
	hashCost    int
}

type RegisterInput struct {
	Username string
	Email    string
	Password string
}

func NewAuthService(users repository.UserRepository, revoker TokenRevoker, emailDomain string) *AuthService {
	return &AuthService{
		users:       users,
		revoker:     revoker,
		emailDomain: emailDomain,
		hashCost:    bcrypt.DefaultCost,
	}
}

// Register validates the form, restricts the email domain and stores a bcrypt hash.
func (s *AuthService) Register(ctx context.Context, in RegisterInput) (*models.User, error) {
	email := validation.NormalizeEmail(in.Email)
	form := validation.RegisterForm{
		Username: in.Username,
		Email:    email,
		Password: in.Password,
	}
	if err := validation.Struct(form); err != nil {
		return nil, models.NewValidationError(err.Error())
	}
	if !validation.InstitutionalEmail(email, s.emailDomain) {
		return nil, models.NewValidationError(msgInstitutionOnly)
	}

	existing, err := s.users.GetByUsername(ctx, in.Username)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, models.NewConflictError("Username already exists")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), s.hashCost)
	if err != nil {
		return nil, models.NewInternalError(err)
	}

	user := &models.User{
		Username: in.Username,
		Email:    email,
		Password: string(hash),
	}
	// A concurrent registration can still lose the race on the unique index.
	if err := s.users.Create(ctx, user); err != nil {
		return nil, err
	}

	middleware.Logger.InfoContext(ctx, "User registered", slog.Uint64("user_id", uint64(user.ID)))
	return user, nil
}

// Login checks the credentials. Unknown users and wrong passwords share one error.
func (s *AuthService) Login(ctx context.Context, username, password string) (*models.User, error) {
	if strings.TrimSpace(username) == "" || password == "" {
		return nil, models.NewUnauthorizedError(msgBadCredentials)
	}

	user, err := s.users.GetByUsername(ctx, username)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, models.NewUnauthorizedError(msgBadCredentials)
	}
	if cmpErr := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(password)); cmpErr != nil {
		return nil, models.NewUnauthorizedError(msgBadCredentials)
	}
	return user, nil
}

// Logout revokes token. It never fails; revocation errors are only logged.
func (s *AuthService) Logout(ctx context.Context, token string) {
	if s.revoker == nil || token == "" {
		return
	}
	if err := s.revoker.Revoke(ctx, token); err != nil {
		middleware.Logger.WarnContext(ctx, "Session revocation failed", slog.String("error", err.Error()))
	}
}
