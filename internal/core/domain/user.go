package domain

import (
	"slices"
	"time"
)

// Role is the closed set of roles a storefront account can carry.
type Role string

const (
	RoleAdmin    Role = "admin"
	RoleDelivery Role = "delivery"
	RoleUser     Role = "user"
)

// ValidRoles lists every accepted role in validation order.
var ValidRoles = []Role{RoleAdmin, RoleDelivery, RoleUser}

// IsValid reports whether r is one of ValidRoles.
func (r Role) IsValid() bool {
	return slices.Contains(ValidRoles, r)
}

func (r Role) String() string {
	return string(r)
}

// User is the canonical account record. Client code only ever holds a User
// that passed validation; server code additionally fills PasswordHash and the
// audit timestamps.
type User struct {
	ID           string    `json:"id"`
	Role         Role      `json:"role"`
	FirstName    string    `json:"firstName"`
	LastName     string    `json:"lastName"`
	Email        string    `json:"email"`
	Username     string    `json:"username"`
	Name         string    `json:"name"`
	Phone        string    `json:"phone,omitempty"`
	Address      string    `json:"address,omitempty"`
	PasswordHash string    `json:"-"`
	CreatedAt    time.Time `json:"createdAt,omitzero"`
	UpdatedAt    time.Time `json:"updatedAt,omitzero"`
}

// DisplayName derives the name shown for a user: "first last" when both are
// present, otherwise the username, otherwise the email.
func DisplayName(firstName, lastName, username, email string) string {
	if firstName != "" && lastName != "" {
		return firstName + " " + lastName
	}
	if username != "" {
		return username
	}
	return email
}

// Registration carries the fields a visitor submits to create an account.
type Registration struct {
	Email     string `json:"email"`
	Password  string `json:"password"`
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	Username  string `json:"username,omitempty"`
	Phone     string `json:"phone,omitempty"`
	Address   string `json:"address,omitempty"`
}

// ProfileDraft is the one-shot hand-off written at login/registration and
// consumed by the profile editor.
type ProfileDraft struct {
	ID        string `json:"id,omitempty"`
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	Email     string `json:"email"`
	Phone     string `json:"phone"`
	Address   string `json:"address"`
}

// DraftFromUser builds the profile draft stashed after a successful login.
func DraftFromUser(u User) ProfileDraft {
	return ProfileDraft{
		FirstName: u.FirstName,
		LastName:  u.LastName,
		Email:     u.Email,
		Phone:     u.Phone,
		Address:   u.Address,
	}
}
