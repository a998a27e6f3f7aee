package user

import "time"

// User represents a user entity in the system.
type User struct {
	ID          string    // ID is generated at creation and never changes
	Name        string    // Name is the display name of the user
	Email       *string   // Email is optional; nil when not provided
	Role        Role      // Role is one of the enumerated roles
	UserName    string    // UserName is unique across all users
	CreatedBy   string    // CreatedBy names the actor that created the record
	UpdatedBy   string    // UpdatedBy names the actor of the last mutation
	CreatedDate time.Time // CreatedDate is set once, in UTC
	UpdatedDate time.Time // UpdatedDate moves forward on every update, in UTC
}
