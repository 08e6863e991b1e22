package model

import "time"

// Principal is the authenticated entity on whose behalf tokens are issued.
// The ID is an opaque stable identifier: a UUID when the SQL backend is
// active, a numeric directory UID rendered as a string for LDAP. The core
// only ever reads principals; ownership stays with the identity backend.
type Principal struct {
	ID        string    `json:"id"`
	Email     string    `json:"email"`
	CreatedAt time.Time `json:"created_at"`
}

// User is the stored user record in the SQL identity backend. The password
// hash is never exposed in JSON responses.
type User struct {
	ID        string    `json:"id"`
	Email     string    `json:"email"`
	Password  string    `json:"-"`
	CreatedAt time.Time `json:"created_at"`
}

// FilterUserRecord reduces a stored user to the externally visible principal.
func FilterUserRecord(user *User) *Principal {
	return &Principal{
		ID:        user.ID,
		Email:     user.Email,
		CreatedAt: user.CreatedAt,
	}
}
