package v1

import (
	"context"
	"fmt"

	"github.com/duynhne/social-service/internal/core/domain"
	"github.com/duynhne/social-service/middleware"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/crypto/bcrypt"
)

// AuthResult is returned by Register and Login.
type AuthResult struct {
	Token string      `json:"token"`
	User  domain.User `json:"user"`
}

// PasswordHasher hashes and compares passwords with bcrypt.
type PasswordHasher struct {
	cost int
}

// NewPasswordHasher returns a hasher using cost, or bcrypt.DefaultCost when
// cost is out of range.
func NewPasswordHasher(cost int) PasswordHasher {
	if cost < bcrypt.MinCost || cost > bcrypt.MaxCost {
		cost = bcrypt.DefaultCost
	}
	return PasswordHasher{cost: cost}
}

// Hash returns the bcrypt hash of password.
func (h PasswordHasher) Hash(password string) (string, error) {
	b, err := bcrypt.GenerateFromPassword([]byte(password), h.cost)
	if err != nil {
		return "", fmt.Errorf("hash password: %w", err)
	}
	return string(b), nil
}

// Compare reports whether password matches hash.
func (h PasswordHasher) Compare(hash, password string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) == nil
}

// AuthService implements authentication business rules.
// It depends on repository interfaces (injected via constructor) and
// MUST NOT access the database or SQL directly.
type AuthService struct {
	users  domain.UserRepository
	tokens *TokenManager
	hasher PasswordHasher
}

// NewAuthService creates a new AuthService with the given dependencies.
func NewAuthService(users domain.UserRepository, tokens *TokenManager, hasher PasswordHasher) *AuthService {
	return &AuthService{
		users:  users,
		tokens: tokens,
		hasher: hasher,
	}
}

// Register creates an account and signs the new user in.
func (s *AuthService) Register(ctx context.Context, email, password string, name *string) (*AuthResult, error) {
	ctx, span := middleware.StartSpan(ctx, "auth.register", trace.WithAttributes(
		attribute.String("layer", "logic"),
	))
	defer span.End()

	exists, err := s.users.ExistsByEmail(ctx, email)
	if err != nil {
		span.RecordError(err)
		return nil, fmt.Errorf("check email: %w", err)
	}
	if exists {
		span.AddEvent("registration.duplicate")
		return nil, fmt.Errorf("register %q: %w", email, ErrUserExists)
	}

	hash, err := s.hasher.Hash(password)
	if err != nil {
		span.RecordError(err)
		return nil, err
	}

	// A concurrent registration can still win the race; the unique
	// violation is returned as-is and normalized to 409.
	user, err := s.users.Create(ctx, email, hash, name)
	if err != nil {
		span.RecordError(err)
		return nil, fmt.Errorf("create user: %w", err)
	}

	token, _, err := s.tokens.Issue(user.ID)
	if err != nil {
		span.RecordError(err)
		return nil, err
	}

	span.SetAttributes(attribute.Int64("user.id", user.ID))
	return &AuthResult{Token: token, User: *user}, nil
}

// Login verifies credentials and issues a session token.
func (s *AuthService) Login(ctx context.Context, email, password string) (*AuthResult, error) {
	ctx, span := middleware.StartSpan(ctx, "auth.login", trace.WithAttributes(
		attribute.String("layer", "logic"),
	))
	defer span.End()

	row, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		span.RecordError(err)
		return nil, fmt.Errorf("query user %q: %w", email, err)
	}
	if row == nil {
		span.SetAttributes(attribute.Bool("auth.success", false))
		span.AddEvent("authentication.failed")
		return nil, fmt.Errorf("authenticate user %q: %w", email, ErrUserNotFound)
	}

	if !s.hasher.Compare(row.PasswordHash, password) {
		span.SetAttributes(attribute.Bool("auth.success", false))
		span.AddEvent("authentication.failed")
		return nil, fmt.Errorf("authenticate user %q: %w", email, ErrInvalidCredentials)
	}

	token, _, err := s.tokens.Issue(row.ID)
	if err != nil {
		span.RecordError(err)
		return nil, err
	}

	span.SetAttributes(
		attribute.Bool("auth.success", true),
		attribute.Int64("user.id", row.ID),
	)
	return &AuthResult{Token: token, User: *row}, nil
}

// Me returns the signed-in user.
func (s *AuthService) Me(ctx context.Context, callerID int64) (*domain.User, error) {
	ctx, span := middleware.StartSpan(ctx, "auth.me", trace.WithAttributes(
		attribute.String("layer", "logic"),
		attribute.Int64("user.id", callerID),
	))
	defer span.End()

	user, err := s.users.GetByID(ctx, callerID)
	if err != nil {
		span.RecordError(err)
		return nil, fmt.Errorf("get user %d: %w", callerID, err)
	}
	if user == nil {
		// Token outlived its account.
		return nil, fmt.Errorf("get user %d: %w", callerID, ErrUserNotFound)
	}
	return user, nil
}
