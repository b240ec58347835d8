package domain

import "context"

// UserUpdate lists the user columns that may change. Nil fields are kept.
type UserUpdate struct {
	Email *string
	Name  *string
}

// UserRepository defines the data-access contract for user operations.
// Implementations live in internal/core/repository (Core layer).
// The Logic layer depends on this interface only, never on SQL or pgx directly.
type UserRepository interface {
	// List returns all users ordered by id.
	List(ctx context.Context) ([]User, error)

	// GetByID returns the user with the given id.
	// Returns (nil, nil) when no user is found.
	GetByID(ctx context.Context, id int64) (*User, error)

	// GetByEmail returns the user matching the given email, including the password hash.
	// Returns (nil, nil) when no user is found.
	GetByEmail(ctx context.Context, email string) (*User, error)

	// ExistsByEmail reports whether a user with the given email exists.
	ExistsByEmail(ctx context.Context, email string) (bool, error)

	// Create inserts a new user and returns the stored row.
	Create(ctx context.Context, email, passwordHash string, name *string) (*User, error)

	// Update applies the non-nil fields. Returns ErrNotFound when the user does not exist.
	Update(ctx context.Context, id int64, upd UserUpdate) (*User, error)

	// Delete removes the user. Returns ErrNotFound when the user does not exist.
	Delete(ctx context.Context, id int64) error

	// Search returns users whose name or email contains q, case-insensitively.
	Search(ctx context.Context, q string) ([]User, error)
}
