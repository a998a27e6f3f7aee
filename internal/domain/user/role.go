package user

import (
	"database/sql/driver"
	"fmt"
	"strings"
)

// Role is the closed set of roles a user can hold.
type Role struct {
	name string
}

var (
	RoleAdmin    = newRole("Admin")
	RoleCustomer = newRole("Customer")
)

// rolesByKey maps the lower-cased role name to its value.
var rolesByKey = make(map[string]Role)

func newRole(name string) Role {
	r := Role{name: name}
	rolesByKey[strings.ToLower(name)] = r
	return r
}

// ParseRole resolves s case-insensitively against the known roles.
func ParseRole(s string) (Role, error) {
	r, ok := rolesByKey[strings.ToLower(s)]
	if !ok {
		return Role{}, fmt.Errorf("invalid role: %q", s)
	}
	return r, nil
}

// String returns the display form of the role.
func (r Role) String() string {
	return r.name
}

// IsZero reports whether r was never assigned.
func (r Role) IsZero() bool {
	return r.name == ""
}

// MarshalText implements encoding.TextMarshaler.
func (r Role) MarshalText() ([]byte, error) {
	return []byte(r.name), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (r *Role) UnmarshalText(data []byte) error {
	parsed, err := ParseRole(string(data))
	if err != nil {
		return err
	}
	*r = parsed
	return nil
}

// Scan implements sql.Scanner. Unknown values are rejected so that no
// role outside the table ever leaves the database layer.
func (r *Role) Scan(val any) error {
	switch v := val.(type) {
	case string:
		return r.UnmarshalText([]byte(v))
	case []byte:
		return r.UnmarshalText(v)
	default:
		return fmt.Errorf("unsupported type for role: %T", val)
	}
}

// Value implements driver.Valuer.
func (r Role) Value() (driver.Value, error) {
	if r.IsZero() {
		return nil, fmt.Errorf("role is not set")
	}
	return r.name, nil
}
