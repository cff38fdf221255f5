package models

import "github.com/golang-jwt/jwt/v5"

// AccessClaims represents the JWT claims issued by the platform's identity
// provider. Permission checks live outside this service; the claims are used
// only to attribute revisions to their author.
type AccessClaims struct {
	jwt.RegisteredClaims        // Standard JWT claims (sub, iss, aud, exp, iat, etc.)
	Email                string `json:"email"`
	Role                 string `json:"role"` // "authenticated" or "anon"
}

// GetUserID returns the user ID from the JWT subject claim.
func (c *AccessClaims) GetUserID() string {
	return c.Subject
}
