package user

import (
	"errors"
	"strings"
	"time"
)

const (
	RoleUser  = "user"
	RoleAdmin = "admin"
)

var (
	ErrUserNotFound = errors.New("user not found")
	ErrEmailTaken   = errors.New("El email ya está registrado")
)

// InvalidProfileError reports a profile edit rejected by the validator.
type InvalidProfileError struct{ Err error }

func (e *InvalidProfileError) Error() string { return e.Err.Error() }
func (e *InvalidProfileError) Unwrap() error { return e.Err }

// User is a registered storefront customer or administrator.
type User struct {
	ID           int64     `json:"id"`
	Name         string    `json:"name"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	BirthDate    string    `json:"birth_date"`
	RUT          *string   `json:"rut,omitempty"`
	Address      *string   `json:"address,omitempty"`
	Role         string    `json:"role"`
	RemoteID     *int64    `json:"remote_id,omitempty"`
	RegisteredAt time.Time `json:"registered_at"`
}

func (u *User) IsAdmin() bool { return u.Role == RoleAdmin }

// ProfileUpdate holds the editable profile fields.
type ProfileUpdate struct {
	Name      string `json:"name"`
	Address   string `json:"address"`
	RUT       string `json:"rut"`
	BirthDate string `json:"birth_date"`
}

// NormalizeRole maps a remote role name onto a local role. Anything that is
// not an administrator is a regular user.
func NormalizeRole(name string) string {
	if strings.EqualFold(strings.TrimSpace(name), RoleAdmin) {
		return RoleAdmin
	}
	return RoleUser
}
