package types

import "github.com/google/uuid"

// TokenClaims is the decoded identity carried by a session token.
type TokenClaims struct {
	UserID uuid.UUID
	Name   string
}

// User is the internal session identity mapped from the auth collaborator.
type User struct {
	ID    uuid.UUID `json:"id"`
	Name  string    `json:"name"`
	Email string    `json:"email"`
}
