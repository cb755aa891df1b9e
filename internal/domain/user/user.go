package user

import "errors"

var (
	ErrNotFound   = errors.New("user not found")
	ErrEmailTaken = errors.New("email already taken")
)

// User is the full usuarios row. The hash stays inside the store boundary:
// it is never serialized and never crosses into a response or a token.
type User struct {
	ID           int64  `json:"id"`
	Email        string `json:"email"`
	PasswordHash string `json:"-"` // never expose hash in JSON
	Role         string `json:"rol"`
	Language     string `json:"lenguage"`
}

// PublicUser is the projected row returned to callers.
type PublicUser struct {
	ID       int64  `json:"id"`
	Email    string `json:"email"`
	Role     string `json:"rol"`
	Language string `json:"lenguage"`
}

func (u User) Public() PublicUser {
	return PublicUser{
		ID:       u.ID,
		Email:    u.Email,
		Role:     u.Role,
		Language: u.Language,
	}
}
