package auth

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
)

type User struct {
	ID                int64     `json:"-"`
	Email             string    `json:"email"`
	Token             string    `json:"token,omitempty"`
	Username          string    `json:"username"`
	Password          []byte    `json:"-"`
	PlaintextPassword string    `json:"-"`
	CreatedAt         time.Time `json:"-"`
}

type UserClaim struct {
	Username string `json:"username"`

	jwt.RegisteredClaims
}
