package auth

import (
	"time"

	validation "github.com/go-ozzo/ozzo-validation"
	"github.com/go-ozzo/ozzo-validation/is"
)

// SignupData carries everything needed to create an account. Birth
// date, occupation, and picture are optional.
type SignupData struct {
	Email          string     `json:"email"`
	Password       string     `json:"password"`
	Username       string     `json:"username"`
	Name           string     `json:"name"`
	DateOfBirth    *time.Time `json:"date_of_birth,omitempty"`
	Occupation     string     `json:"occupation,omitempty"`
	ProfilePicture string     `json:"profile_picture,omitempty"`
}

func (r SignupData) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Email, validation.Required, validation.Length(6, 100), is.Email),
		validation.Field(&r.Password, validation.Required, validation.Length(8, 100)),
		validation.Field(&r.Username, validation.Required, validation.Length(2, 30)),
		validation.Field(&r.Name, validation.Required, validation.Length(1, 200)),
		validation.Field(&r.ProfilePicture, is.URL),
	)
}

func (p ProfileUpdate) Validate() error {
	return validation.ValidateStruct(&p,
		validation.Field(&p.Username, validation.Length(2, 30)),
		validation.Field(&p.Name, validation.Length(1, 200)),
		validation.Field(&p.ProfilePicture, is.URL),
		validation.Field(&p.Occupation, validation.Length(0, 200)),
	)
}

// VerifyEmailPayload is the code entry form shape VerifyEmail screens
// before consulting the code store.
type VerifyEmailPayload struct {
	Email string `json:"email"`
	Code  string `json:"code"`
}

func (r VerifyEmailPayload) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Email, validation.Required, is.Email),
		validation.Field(&r.Code, validation.Required, validation.Length(6, 6), is.Digit),
	)
}
