// Package model defines the data structures used throughout the application.
// In Go, we use structs to represent our data — similar to classes in other
// languages, but without inheritance. Go favours composition over inheritance.
package model

import "time"

// User represents a registered account.
//
// WHY `json:"-"` ON PasswordHash?
// The dash tag tells encoding/json to NEVER serialize this field. Handlers
// return User values directly as JSON, so without it the bcrypt hash would
// leak into every /api/auth response. The tag makes "never send the password
// field" a property of the type rather than something every handler must
// remember to strip.
//
// AvatarURL is derived from the email at registration time (Gravatar) and
// stored, so changing the derivation later doesn't rewrite existing users.
type User struct {
	ID           string    `json:"id"`
	Name         string    `json:"name"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	AvatarURL    string    `json:"avatar"`
	CreatedAt    time.Time `json:"createdAt"`
}
