package domain

import "time"

// User models an account holder. Profile fields are optional and filled in
// through the profile page, not at signup.
type User struct {
	ID           string    `json:"id"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	Name         string    `json:"name,omitempty"`
	Phone        string    `json:"phone,omitempty"`
	Introduction string    `json:"introduction,omitempty"`
	ProfilePhoto string    `json:"profile_photo,omitempty"`
	UpdatedAt    time.Time `json:"updated_at"`
}
