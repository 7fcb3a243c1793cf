// Package models defines server-side data models persisted in the database
// and the typed write payloads accepted by the data loader.
package models

import "time"

// User is the public projection of a user row. The password hash is never
// part of it.
type User struct {
	ID        int64     `json:"id"`
	Email     string    `json:"email"`
	Phone     *string   `json:"phone,omitempty"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// UserCredentials is what a login needs from the users table.
type UserCredentials struct {
	UserID       int64
	PasswordHash string
}

// NewUser is the registration payload. Password is plaintext on input and
// is replaced by its hash before it reaches storage.
type NewUser struct {
	Email    string  `json:"email" validate:"required,email,max=255"`
	Phone    *string `json:"phone,omitempty" validate:"omitempty,max=32"`
	Password string  `json:"password" validate:"required,min=8,maxbytes=72"`
}

// Credentials is the login payload.
type Credentials struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}
