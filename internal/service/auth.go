package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/ecocycle/rewards-api/internal/crypto"
	"github.com/ecocycle/rewards-api/internal/model"
	"github.com/ecocycle/rewards-api/internal/repository"
)

// MinPasswordLength is the shortest password accepted at registration.
const MinPasswordLength = 6

var (
	ErrInvalidCredentials = errors.New("invalid username or password")
	ErrWeakPassword       = errors.New("password must be at least 6 characters")
	ErrNameRequired       = errors.New("name is required")
	ErrUsernameRequired   = errors.New("username is required")
	ErrInvalidEmail       = errors.New("a valid email is required")
	ErrIdentifierTaken    = errors.New("username or email already registered")
)

// AuthService handles registration, login and credential resets.
type AuthService struct {
	users       *repository.UserRepository
	tokens      *crypto.TokenIssuer
	emailDomain string
}

// NewAuthService creates a new AuthService. Bare usernames are stored as
// <username>@emailDomain.
func NewAuthService(users *repository.UserRepository, tokens *crypto.TokenIssuer, emailDomain string) *AuthService {
	return &AuthService{
		users:       users,
		tokens:      tokens,
		emailDomain: strings.ToLower(strings.TrimSpace(emailDomain)),
	}
}

// NormalizeIdentifier maps a login identifier to the stored email: emails are
// lower-cased, bare usernames get the configured domain.
func (s *AuthService) NormalizeIdentifier(identifier string) string {
	id := strings.ToLower(strings.TrimSpace(identifier))
	if id == "" || strings.Contains(id, "@") {
		return id
	}
	return id + "@" + s.emailDomain
}

// Register creates a username-based account and logs it in.
func (s *AuthService) Register(ctx context.Context, req model.RegisterRequest) (model.AuthResponse, error) {
	name := strings.TrimSpace(req.Name)
	if name == "" {
		return model.AuthResponse{}, ErrNameRequired
	}
	username := strings.TrimSpace(req.Username)
	if username == "" {
		return model.AuthResponse{}, ErrUsernameRequired
	}
	if utf8.RuneCountInString(req.Password) < MinPasswordLength {
		return model.AuthResponse{}, ErrWeakPassword
	}

	email := s.NormalizeIdentifier(username)
	if !validEmail(email) {
		return model.AuthResponse{}, ErrInvalidEmail
	}

	user, err := s.createUser(ctx, name, email, req.Password)
	if err != nil {
		return model.AuthResponse{}, err
	}

	token, err := s.tokens.Issue(user.ID, user.IsAdmin)
	if err != nil {
		return model.AuthResponse{}, err
	}

	return model.AuthResponse{
		Message: "registration successful",
		Token:   token,
		User:    user.ToResponse(),
	}, nil
}

// Signup creates an email-based account without logging it in.
func (s *AuthService) Signup(ctx context.Context, req model.SignupRequest) (model.SignupResponse, error) {
	email := strings.ToLower(strings.TrimSpace(req.Email))
	if !validEmail(email) {
		return model.SignupResponse{}, ErrInvalidEmail
	}
	name := strings.TrimSpace(req.Name)
	if name == "" {
		return model.SignupResponse{}, ErrNameRequired
	}
	if utf8.RuneCountInString(req.Password) < MinPasswordLength {
		return model.SignupResponse{}, ErrWeakPassword
	}

	user, err := s.createUser(ctx, name, email, req.Password)
	if err != nil {
		return model.SignupResponse{}, err
	}

	return model.SignupResponse{
		Message: "user created successfully",
		User:    user.ToResponse(),
	}, nil
}

func (s *AuthService) createUser(ctx context.Context, name, email, password string) (*model.User, error) {
	hash, err := crypto.HashPassword(password)
	if err != nil {
		return nil, err
	}

	user := &model.User{
		Name:         name,
		Email:        email,
		PasswordHash: hash,
	}
	if err := s.users.Create(ctx, user); err != nil {
		if errors.Is(err, repository.ErrDuplicateEmail) {
			return nil, ErrIdentifierTaken
		}
		return nil, err
	}
	return user, nil
}

// Login authenticates by username or email and returns a session token.
func (s *AuthService) Login(ctx context.Context, req model.LoginRequest) (model.AuthResponse, error) {
	email := s.NormalizeIdentifier(req.Username)
	if email == "" || req.Password == "" {
		return model.AuthResponse{}, ErrInvalidCredentials
	}

	user, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return model.AuthResponse{}, ErrInvalidCredentials
		}
		return model.AuthResponse{}, err
	}

	match, err := crypto.VerifyPassword(req.Password, user.PasswordHash)
	if err != nil {
		if errors.Is(err, crypto.ErrInvalidHashFormat) || errors.Is(err, crypto.ErrIncompatibleVersion) {
			return model.AuthResponse{}, ErrInvalidCredentials
		}
		return model.AuthResponse{}, err
	}
	if !match {
		return model.AuthResponse{}, ErrInvalidCredentials
	}

	token, err := s.tokens.Issue(user.ID, user.IsAdmin)
	if err != nil {
		return model.AuthResponse{}, err
	}

	return model.AuthResponse{
		Token: token,
		User:  user.ToResponse(),
	}, nil
}

// ResetPassword replaces a user's password with a generated one and returns it once.
func (s *AuthService) ResetPassword(ctx context.Context, userID int64) (model.PasswordResetResponse, error) {
	if userID <= 0 {
		return model.PasswordResetResponse{}, ErrInvalidUserID
	}

	password, err := crypto.TemporaryPassword(crypto.TemporaryPasswordLength)
	if err != nil {
		return model.PasswordResetResponse{}, fmt.Errorf("generate password: %w", err)
	}
	hash, err := crypto.HashPassword(password)
	if err != nil {
		return model.PasswordResetResponse{}, err
	}

	if err := s.users.UpdatePasswordHash(ctx, userID, hash); err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return model.PasswordResetResponse{}, ErrUserNotFound
		}
		return model.PasswordResetResponse{}, err
	}

	return model.PasswordResetResponse{
		Message:           "password reset",
		TemporaryPassword: password,
	}, nil
}

func validEmail(email string) bool {
	local, domain, ok := strings.Cut(email, "@")
	return ok && local != "" && domain != "" && !strings.Contains(domain, "@")
}
