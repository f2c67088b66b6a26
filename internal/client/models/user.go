// Package models defines client-side data models used by the FruitPie client.
package models

// User is the account record returned by GET /users/me. Only Username,
// IsSeeker and IsPoster drive client behaviour; the rest is carried as-is.
type User struct {
	ID       int64  `json:"id,omitempty"`
	Username string `json:"username"`
	Email    string `json:"email,omitempty"`
	IsSeeker bool   `json:"is_seeker"`
	IsPoster bool   `json:"is_poster"`
	Disabled bool   `json:"disabled,omitempty"`
}

// Credentials are submitted to the token endpoint.
type Credentials struct {
	Username string `validate:"required"`
	Password string `validate:"required"`
}

// Registration is the JSON body of POST /users/register.
type Registration struct {
	Username string `json:"username" validate:"required"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
	IsSeeker bool   `json:"is_seeker"`
	IsPoster bool   `json:"is_poster"`
}
