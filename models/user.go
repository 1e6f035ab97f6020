package models

import "strings"

// User is an account record. The password credential is stored as given:
// this service is a demo and does no hashing.
type User struct {
	ID         UserID   `json:"id" bson:"_id,omitempty"`
	Name       string   `json:"name" bson:"name" validate:"required"`
	Email      string   `json:"email" bson:"email" validate:"required,email"`
	Password   string   `json:"-" bson:"password_hash"`
	AvatarURL  string   `json:"avatar_url,omitempty" bson:"avatar_url,omitempty"`
	IsAdmin    bool     `json:"is_admin" bson:"is_admin"`
	Provider   string   `json:"provider,omitempty" bson:"provider,omitempty"`
	ProviderID string   `json:"provider_id,omitempty" bson:"provider_id,omitempty"`
	Tokens     []string `json:"-" bson:"tokens"`
}

// NewUser builds a validated, non-admin user with no tokens.
func NewUser(name, email, password string) (*User, error) {
	u := &User{
		Name:     strings.TrimSpace(name),
		Email:    strings.TrimSpace(email),
		Password: password,
		Tokens:   []string{},
	}
	if err := check(u); err != nil {
		return nil, err
	}
	return u, nil
}

// HasToken reports whether token was issued to this user.
func (u *User) HasToken(token string) bool {
	for _, t := range u.Tokens {
		if t == token {
			return true
		}
	}
	return false
}
