package user

import "time"

// CreateUserRequest represents the request payload for creating a new user.
type CreateUserRequest struct {
	Name      string `validate:"identifier"`
	Email     string `validate:"optional_email"`
	Role      string `validate:"identifier"`
	UserName  string `validate:"identifier"`
	CreatedBy string `validate:"identifier"`
}

// CreateUserResponse represents the response payload after creating a user.
type CreateUserResponse struct {
	ID      string
	Message string
}

// UpdateUserRequest represents the request payload for updating an existing user.
// Every mutable field is replaced; there is no partial update.
type UpdateUserRequest struct {
	ID        string `validate:"-"`
	Name      string `validate:"identifier"`
	Email     string `validate:"optional_email"`
	Role      string `validate:"identifier"`
	UserName  string `validate:"identifier"`
	UpdatedBy string `validate:"identifier"`
}

// GetUserRequest represents the request payload for retrieving a user.
type GetUserRequest struct {
	ID string
}

// UserView is the external projection of a stored user.
type UserView struct {
	ID          string
	Name        string
	Email       *string
	Role        string
	UserName    string
	CreatedBy   string
	UpdatedBy   string
	CreatedDate time.Time
	UpdatedDate time.Time
}
