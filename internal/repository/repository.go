package repository

import (
	"context"

	"neurosurg/learning-app/internal/domain"
)

// Error constants for the repository layer.
var (
	ErrNotFound = RepositoryError("not found")
)

// RepositoryError helps distinguish repository errors.
type RepositoryError string

func (e RepositoryError) Error() string {
	return string(e)
}

// ProcedureRepository defines the interface for interacting with the
// procedure library.
type ProcedureRepository interface {
	// List returns procedures matching the filters, sorted by name.
	// search is a case-insensitive substring match over name,
	// description and indications; category is an exact match. Both
	// filters combine with AND; empty means "no filter".
	List(ctx context.Context, search, category string) ([]domain.Procedure, error)
	GetByID(ctx context.Context, id int) (*domain.Procedure, error)
	Create(ctx context.Context, procedure *domain.Procedure) (int, error)
	// Update fully replaces the stored procedure's fields and re-issues
	// every step ID. Returns ErrNotFound if the ID is unknown.
	Update(ctx context.Context, id int, procedure *domain.Procedure) error
	Delete(ctx context.Context, id int) error
	// Categories returns the sorted distinct non-null category values.
	Categories(ctx context.Context) ([]string, error)
}

// UserRepository defines the interface for interacting with user data.
// It performs no uniqueness checks; the auth service is responsible
// for checking GetByUsername/GetByEmail before Create.
type UserRepository interface {
	Create(ctx context.Context, user *domain.User) (int, error)
	GetByUsername(ctx context.Context, username string) (*domain.User, error)
	GetByEmail(ctx context.Context, email string) (*domain.User, error)
	GetByID(ctx context.Context, id int) (*domain.User, error)
}

// CaseLogRepository defines the interface for interacting with case
// log data. Every method that takes a userID enforces ownership at the
// query: an existing log owned by another user is indistinguishable
// from a missing one.
type CaseLogRepository interface {
	// ListByUser returns the user's logs sorted descending by date
	// (plain string comparison; a missing date compares as "").
	ListByUser(ctx context.Context, userID int) ([]domain.CaseLog, error)
	GetByID(ctx context.Context, id, userID int) (*domain.CaseLog, error)
	Create(ctx context.Context, log *domain.CaseLog) (int, error)
	Update(ctx context.Context, id, userID int, update domain.CaseLogUpdate) error
	Delete(ctx context.Context, id, userID int) error
}
