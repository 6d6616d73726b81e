// Package models holds the records persisted by the server repositories and
// the public projections serialized to clients.
package models

import "time"

// User is a registered account as stored by the users repository.
type User struct {
	ID           int64
	UserName     string
	PasswordHash string
	Email        string
	CreatedAt    time.Time
}

// PublicUser is the only user shape that leaves the server. It never carries
// the password hash.
type PublicUser struct {
	ID       int64  `json:"id"`
	UserName string `json:"username"`
	Email    string `json:"email,omitempty"`
}

// Public returns the client-facing projection of u.
func (u *User) Public() PublicUser {
	return PublicUser{ID: u.ID, UserName: u.UserName, Email: u.Email}
}
