// Package models defines the persistent row types shared by repositories
// and services.
package models

import "time"

// Organizer is a registered activity organizer. PasswordHash holds the
// salted PBKDF2 verifier in "<hex salt>:<hex digest>" form, never the
// plaintext password. Avatar is a base64-encoded image, stored inline.
type Organizer struct {
	ID           string
	Username     string
	PasswordHash string
	Name         string
	Email        string
	Avatar       string
	CreatedAt    time.Time
}
