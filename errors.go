package auth

import (
	goerrors "github.com/goliatone/go-errors"
)

// Text codes identifying each failure mode of the operation surface.
// Callers branch on these (or the Is* helpers) to pick user messaging.
const (
	TextCodeDuplicateEmail       = "DUPLICATE_EMAIL"
	TextCodeDuplicateUsername    = "DUPLICATE_USERNAME"
	TextCodeInvalidCredentials   = "INVALID_CREDENTIALS"
	TextCodeEmailNotVerified     = "EMAIL_NOT_VERIFIED"
	TextCodeEmailNotRegistered   = "EMAIL_NOT_REGISTERED"
	TextCodeInvalidOrExpiredCode = "INVALID_OR_EXPIRED_CODE"
	TextCodeUserNotFound         = "USER_NOT_FOUND"
	TextCodeNotAuthenticated     = "NOT_AUTHENTICATED"
)

func errDuplicateEmail(email string) *goerrors.Error {
	return goerrors.New("email already registered", goerrors.CategoryConflict).
		WithTextCode(TextCodeDuplicateEmail).
		WithCode(goerrors.CodeConflict).
		WithMetadata(map[string]any{"email": email})
}

func errDuplicateUsername(username string) *goerrors.Error {
	return goerrors.New("username already taken", goerrors.CategoryConflict).
		WithTextCode(TextCodeDuplicateUsername).
		WithCode(goerrors.CodeConflict).
		WithMetadata(map[string]any{"username": username})
}

// errInvalidCredentials is returned both for unknown emails and for
// password mismatches so callers cannot tell which field was wrong.
func errInvalidCredentials() *goerrors.Error {
	return goerrors.New("invalid email or password", goerrors.CategoryAuth).
		WithTextCode(TextCodeInvalidCredentials).
		WithCode(goerrors.CodeUnauthorized)
}

func errEmailNotVerified(email string) *goerrors.Error {
	return goerrors.New("please verify your email before logging in", goerrors.CategoryAuth).
		WithTextCode(TextCodeEmailNotVerified).
		WithMetadata(map[string]any{"email": email})
}

func errEmailNotRegistered(email string) *goerrors.Error {
	return goerrors.New("email not registered", goerrors.CategoryNotFound).
		WithTextCode(TextCodeEmailNotRegistered).
		WithCode(goerrors.CodeNotFound).
		WithMetadata(map[string]any{"email": email})
}

func errInvalidOrExpiredCode(purpose CodePurpose) *goerrors.Error {
	msg := "invalid or expired verification code"
	if purpose == PurposeReset {
		msg = "invalid or expired reset code"
	}
	return goerrors.New(msg, goerrors.CategoryValidation).
		WithTextCode(TextCodeInvalidOrExpiredCode).
		WithMetadata(map[string]any{"purpose": string(purpose)})
}

func errUserNotFound(identifier string) *goerrors.Error {
	return goerrors.New("user not found", goerrors.CategoryNotFound).
		WithTextCode(TextCodeUserNotFound).
		WithCode(goerrors.CodeNotFound).
		WithMetadata(map[string]any{"identifier": identifier})
}

func errNotAuthenticated() *goerrors.Error {
	return goerrors.New("not authenticated", goerrors.CategoryAuth).
		WithTextCode(TextCodeNotAuthenticated).
		WithCode(goerrors.CodeUnauthorized)
}

// IsDuplicateEmail reports whether err is the duplicate-email failure.
func IsDuplicateEmail(err error) bool { return hasTextCode(err, TextCodeDuplicateEmail) }

// IsDuplicateUsername reports whether err is the duplicate-username failure.
func IsDuplicateUsername(err error) bool { return hasTextCode(err, TextCodeDuplicateUsername) }

// IsInvalidCredentials reports whether err is the credential failure
// shared by unknown-email and wrong-password logins.
func IsInvalidCredentials(err error) bool { return hasTextCode(err, TextCodeInvalidCredentials) }

// IsEmailNotVerified reports whether err is the unverified-email gate.
func IsEmailNotVerified(err error) bool { return hasTextCode(err, TextCodeEmailNotVerified) }

// IsEmailNotRegistered reports whether err is the unknown-email failure
// of the code sending operations.
func IsEmailNotRegistered(err error) bool { return hasTextCode(err, TextCodeEmailNotRegistered) }

// IsInvalidOrExpiredCode reports whether err is a one-time code rejection.
func IsInvalidOrExpiredCode(err error) bool { return hasTextCode(err, TextCodeInvalidOrExpiredCode) }

// IsUserNotFound reports whether err is a missing-user failure.
func IsUserNotFound(err error) bool { return hasTextCode(err, TextCodeUserNotFound) }

// IsNotAuthenticated reports whether err came from an operation that
// requires an active session.
func IsNotAuthenticated(err error) bool { return hasTextCode(err, TextCodeNotAuthenticated) }

func hasTextCode(err error, code string) bool {
	if err == nil {
		return false
	}
	var richErr *goerrors.Error
	if !goerrors.As(err, &richErr) {
		return false
	}
	return richErr.TextCode == code
}
