package jsonfile

import (
	"context"
	"time"

	"neurosurg/learning-app/internal/domain"
	"neurosurg/learning-app/internal/repository"
)

// userRepository implements repository.UserRepository over the shared
// file store. It stores exactly what it is given (the password must
// already be hashed) and performs no uniqueness checks.
type userRepository struct {
	store *Store
}

// NewUserRepository creates a user repository backed by store.
func NewUserRepository(store *Store) repository.UserRepository {
	return &userRepository{store: store}
}

func (r *userRepository) Create(ctx context.Context, user *domain.User) (int, error) {
	var id int
	err := r.store.Update(func(doc *Document) error {
		id = doc.NextUserID
		doc.NextUserID++

		user.ID = id
		if user.DisplayName == "" {
			user.DisplayName = user.Username
		}
		if user.Role == "" {
			user.Role = domain.DefaultUserRole
		}
		if user.Specialization == "" {
			user.Specialization = domain.DefaultSpecialization
		}
		user.CreatedAt = time.Now().UTC()

		doc.Users = append(doc.Users, *user)
		return nil
	})
	if err != nil {
		return 0, err
	}
	return id, nil
}

func (r *userRepository) GetByUsername(ctx context.Context, username string) (*domain.User, error) {
	return r.find(func(u *domain.User) bool { return u.Username == username })
}

func (r *userRepository) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	return r.find(func(u *domain.User) bool { return u.Email == email })
}

func (r *userRepository) GetByID(ctx context.Context, id int) (*domain.User, error) {
	return r.find(func(u *domain.User) bool { return u.ID == id })
}

func (r *userRepository) find(match func(*domain.User) bool) (*domain.User, error) {
	var result *domain.User
	err := r.store.View(func(doc *Document) error {
		for i := range doc.Users {
			if match(&doc.Users[i]) {
				u := doc.Users[i]
				result = &u
				return nil
			}
		}
		return repository.ErrNotFound
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}
