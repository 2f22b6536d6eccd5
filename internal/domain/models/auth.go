package models

import "github.com/golang-jwt/jwt/v5"

// Claims is the JWT claims structure issued by the identity provider.
// The subject claim is the caller address used throughout the page
// lifecycle (ownership checks, approvals, vote state, fee credits).
type Claims struct {
	jwt.RegisteredClaims
	Role string `json:"role"` // "authenticated" or "anon"
}

// Address returns the caller address from the JWT subject claim.
func (c *Claims) Address() string {
	return c.Subject
}
