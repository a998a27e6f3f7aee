package user

import (
	"context"

	domain "user-service/internal/domain/user"
)

// UserUsecase defines the interface for user business logic operations.
type UserUsecase interface {
	CreateUser(ctx context.Context, in *CreateUserRequest) (*CreateUserResponse, error)
	UpdateUser(ctx context.Context, in *UpdateUserRequest) error
	GetUser(ctx context.Context, in GetUserRequest) (*UserView, error)
}

// Repository defines the interface for user data access operations.
// It abstracts the data layer, allowing different implementations
// (e.g., PostgreSQL, SQLite) to be used interchangeably.
type Repository interface {
	Create(ctx context.Context, u *domain.User) error                              // Insert a new user
	GetByID(ctx context.Context, id string) (*domain.User, error)                  // Retrieve user by ID; NotFoundError when absent
	ExistsByUserName(ctx context.Context, userName, excludeID string) (bool, error) // Any other row holding userName
	Update(ctx context.Context, u *domain.User) error                              // Persist every mutable field
	WithinTransaction(ctx context.Context, fn func(repo Repository) error) error   // Run fn in one unit of work
}
