package auth

import (
	"time"

	"github.com/google/uuid"
)

// DefaultProfilePicture is assigned at signup when none was provided.
const DefaultProfilePicture = "https://via.placeholder.com/150"

// User is the full user record as persisted in the users table. The
// Password field holds whatever the configured PasswordAuthenticator
// produced; with the default authenticator that is the verbatim
// credential, a stand-in for real hashing.
type User struct {
	ID             uuid.UUID  `json:"id"`
	Email          string     `json:"email"`
	Username       string     `json:"username"`
	Name           string     `json:"name"`
	Password       string     `json:"password"`
	ProfilePicture string     `json:"profile_picture,omitempty"`
	DateJoined     time.Time  `json:"date_joined"`
	DateOfBirth    *time.Time `json:"date_of_birth,omitempty"`
	Occupation     string     `json:"occupation,omitempty"`
	IsVerified     bool       `json:"is_verified"`
}

// Redacted returns the credential-free projection of the record, the
// only form that may be held in session state.
func (u *User) Redacted() *SessionUser {
	if u == nil {
		return nil
	}
	return &SessionUser{
		ID:             u.ID,
		Email:          u.Email,
		Username:       u.Username,
		Name:           u.Name,
		ProfilePicture: u.ProfilePicture,
		DateJoined:     u.DateJoined,
		DateOfBirth:    u.DateOfBirth,
		Occupation:     u.Occupation,
		IsVerified:     u.IsVerified,
	}
}

// SessionUser is the redacted projection of a User. It carries no
// credential and is safe to persist as the current session.
type SessionUser struct {
	ID             uuid.UUID  `json:"id"`
	Email          string     `json:"email"`
	Username       string     `json:"username"`
	Name           string     `json:"name"`
	ProfilePicture string     `json:"profile_picture,omitempty"`
	DateJoined     time.Time  `json:"date_joined"`
	DateOfBirth    *time.Time `json:"date_of_birth,omitempty"`
	Occupation     string     `json:"occupation,omitempty"`
	IsVerified     bool       `json:"is_verified"`
}

// ProfileUpdate is a partial mutation of a user record. Nil fields are
// left untouched. Email, id, credential, and the verified flag cannot
// be changed through a profile update.
type ProfileUpdate struct {
	Username       *string    `json:"username,omitempty"`
	Name           *string    `json:"name,omitempty"`
	ProfilePicture *string    `json:"profile_picture,omitempty"`
	DateOfBirth    *time.Time `json:"date_of_birth,omitempty"`
	Occupation     *string    `json:"occupation,omitempty"`
}

func (p ProfileUpdate) apply(u *User) {
	if p.Username != nil {
		u.Username = *p.Username
	}
	if p.Name != nil {
		u.Name = *p.Name
	}
	if p.ProfilePicture != nil {
		u.ProfilePicture = *p.ProfilePicture
	}
	if p.DateOfBirth != nil {
		u.DateOfBirth = p.DateOfBirth
	}
	if p.Occupation != nil {
		u.Occupation = *p.Occupation
	}
}
