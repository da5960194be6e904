package auth_test

import (
	"testing"

	auth "github.com/ayushchatterjee-official/auth1-conn"
	"github.com/stretchr/testify/assert"
)

func TestSignupDataValidate(t *testing.T) {
	valid := auth.SignupData{
		Email:    "a@x.com",
		Password: "pw123456",
		Username: "alice",
		Name:     "Alice",
	}
	assert.NoError(t, valid.Validate())

	t.Run("rejects malformed email", func(t *testing.T) {
		data := valid
		data.Email = "not-an-email"
		assert.Error(t, data.Validate())
	})

	t.Run("rejects short password", func(t *testing.T) {
		data := valid
		data.Password = "short"
		assert.Error(t, data.Validate())
	})

	t.Run("rejects missing username", func(t *testing.T) {
		data := valid
		data.Username = ""
		assert.Error(t, data.Validate())
	})

	t.Run("rejects bogus profile picture", func(t *testing.T) {
		data := valid
		data.ProfilePicture = "not a url"
		assert.Error(t, data.Validate())
	})

	t.Run("optional fields may stay empty", func(t *testing.T) {
		data := valid
		data.Occupation = ""
		data.ProfilePicture = ""
		data.DateOfBirth = nil
		assert.NoError(t, data.Validate())
	})
}

func TestProfileUpdateValidate(t *testing.T) {
	assert.NoError(t, auth.ProfileUpdate{}.Validate(), "an empty update is valid")

	short := "x"
	assert.Error(t, auth.ProfileUpdate{Username: &short}.Validate())

	ok := "alice2"
	assert.NoError(t, auth.ProfileUpdate{Username: &ok}.Validate())
}

func TestVerifyEmailPayloadValidate(t *testing.T) {
	assert.NoError(t, auth.VerifyEmailPayload{Email: "a@x.com", Code: "042371"}.Validate())
	assert.Error(t, auth.VerifyEmailPayload{Email: "a@x.com", Code: "12345"}.Validate())
	assert.Error(t, auth.VerifyEmailPayload{Email: "a@x.com", Code: "12345a"}.Validate())
	assert.Error(t, auth.VerifyEmailPayload{Email: "", Code: "123456"}.Validate())
}
