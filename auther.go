package auth

import (
	"context"
	"fmt"
	"strings"
	"time"

	goerrors "github.com/goliatone/go-errors"
)

const (
	mailSubjectSignup       = "Verify Your Email - Auth System"
	mailSubjectVerification = "Your Verification Code - Auth System"
	mailSubjectResend       = "Your New Verification Code - Auth System"
	mailSubjectReset        = "Password Reset Code - Auth System"

	mailBodySignup       = "Welcome to Auth System! Your verification code is: %s"
	mailBodyVerification = "Your verification code is: %s"
	mailBodyReset        = "Your password reset code is: %s"
)

// CodeDelivery reports how an issued code reached the user. Code is
// always populated; callers should only disclose it to the user when
// Delivered is false, as the fallback path for a failed channel.
type CodeDelivery struct {
	Code      string
	Delivered bool
}

// SignupResult is returned by a successful Signup. The account is
// created unverified and no session is established.
type SignupResult struct {
	User     *SessionUser
	Delivery CodeDelivery
}

// Auther orchestrates the user store, code store, session manager, and
// notifier into the authentication state machine. Build one with New
// and chain With* overrides.
type Auther struct {
	users    *UserStore
	codes    *CodeStore
	sessions *SessionManager
	notifier Notifier
	password PasswordAuthenticator
	logger   Logger
	now      func() time.Time
}

// New returns an Auther with all stores bound to the given storage.
// Defaults: no-op notifier, plaintext credential comparison, stderr-ish
// default logger, wall clock.
func New(store Storage) *Auther {
	return &Auther{
		users:    NewUserStore(store),
		codes:    NewCodeStore(store),
		sessions: NewSessionManager(store),
		notifier: noopNotifier{},
		password: PlaintextAuthenticator{},
		logger:   defLogger{},
		now:      time.Now,
	}
}

func (a *Auther) WithLogger(logger Logger) *Auther {
	if logger == nil {
		return a
	}
	a.logger = logger
	a.users.WithLogger(logger)
	a.codes.WithLogger(logger)
	a.sessions.WithLogger(logger)
	return a
}

func (a *Auther) WithNotifier(notifier Notifier) *Auther {
	if notifier != nil {
		a.notifier = notifier
	}
	return a
}

// WithPasswordAuthenticator replaces the credential scheme. The
// default compares verbatim; BcryptAuthenticator is the hardened
// alternative.
func (a *Auther) WithPasswordAuthenticator(p PasswordAuthenticator) *Auther {
	if p != nil {
		a.password = p
	}
	return a
}

// WithClock overrides the time source for join timestamps and code
// expiry.
func (a *Auther) WithClock(now func() time.Time) *Auther {
	if now != nil {
		a.now = now
		a.codes.WithClock(now)
	}
	return a
}

// WithDeterministicIDs derives user ids from the signup email.
func (a *Auther) WithDeterministicIDs() *Auther {
	a.users.WithDeterministicIDs()
	return a
}

// Users exposes the underlying user store.
func (a *Auther) Users() *UserStore { return a.users }

// Codes exposes the underlying code store.
func (a *Auther) Codes() *CodeStore { return a.codes }

// Sessions exposes the underlying session manager.
func (a *Auther) Sessions() *SessionManager { return a.sessions }

// Restore loads any persisted session; call once at startup.
func (a *Auther) Restore(ctx context.Context) error {
	return a.sessions.Restore(ctx)
}

// CurrentSession returns the snapshot the UI renders from.
func (a *Auther) CurrentSession() SessionSnapshot {
	return a.sessions.Snapshot()
}

// Signup creates an unverified account, issues a verification code,
// and attempts delivery. Delivery failure does not fail the signup.
// The new session stays anonymous.
func (a *Auther) Signup(ctx context.Context, data SignupData) (*SignupResult, error) {
	if err := data.Validate(); err != nil {
		return nil, goerrors.Wrap(err, goerrors.CategoryValidation, "invalid signup data")
	}

	credential, err := a.password.HashPassword(data.Password)
	if err != nil {
		return nil, goerrors.Wrap(err, goerrors.CategoryValidation, "invalid password provided")
	}

	user := &User{
		Email:          strings.TrimSpace(data.Email),
		Username:       strings.TrimSpace(data.Username),
		Name:           data.Name,
		Password:       credential,
		ProfilePicture: data.ProfilePicture,
		DateJoined:     a.now(),
		DateOfBirth:    data.DateOfBirth,
		Occupation:     data.Occupation,
	}
	if user.ProfilePicture == "" {
		user.ProfilePicture = DefaultProfilePicture
	}

	if user, err = a.users.Create(ctx, user); err != nil {
		return nil, err
	}

	delivery, err := a.issueAndSend(ctx, user.Email, PurposeVerification, mailSubjectSignup, mailBodySignup)
	if err != nil {
		return nil, err
	}

	a.logger.Info("account created for %s", user.Email)

	return &SignupResult{
		User:     user.Redacted(),
		Delivery: delivery,
	}, nil
}

// Login verifies the credential and establishes the session. Unknown
// email and wrong password produce the same failure. A matching but
// unverified account is rejected with EmailNotVerified.
func (a *Auther) Login(ctx context.Context, email, password string) (*SessionUser, error) {
	user, err := a.users.FindByEmail(ctx, email)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, errInvalidCredentials()
	}

	if err := a.password.ComparePasswordAndHash(password, user.Password); err != nil {
		a.logger.Debug("credential mismatch for %s", email)
		return nil, errInvalidCredentials()
	}

	if !user.IsVerified {
		return nil, errEmailNotVerified(user.Email)
	}

	session, err := a.sessions.Set(ctx, user)
	if err != nil {
		return nil, err
	}

	a.logger.Info("login successful for %s", user.Username)
	return session, nil
}

// VerifyEmail consumes a verification code and flips the verified flag.
// It does not establish a session. A malformed submission is rejected
// the same way as a wrong code: it could never match an issued one.
func (a *Auther) VerifyEmail(ctx context.Context, email, code string) error {
	payload := VerifyEmailPayload{Email: email, Code: code}
	if err := payload.Validate(); err != nil {
		a.logger.Debug("rejecting malformed verification submission: %v", err)
		return errInvalidOrExpiredCode(PurposeVerification)
	}

	ok, err := a.codes.Validate(ctx, email, PurposeVerification, code)
	if err != nil {
		return err
	}
	if !ok {
		return errInvalidOrExpiredCode(PurposeVerification)
	}

	user, err := a.users.FindByEmail(ctx, email)
	if err != nil {
		return err
	}
	if user == nil {
		return errUserNotFound(email)
	}

	if _, err := a.users.MarkVerified(ctx, user.ID); err != nil {
		return err
	}

	if err := a.codes.Invalidate(ctx, email, PurposeVerification); err != nil {
		return err
	}

	a.logger.Info("email verified for %s", email)
	return nil
}

// SendVerificationCode issues a fresh verification code for a
// registered address and attempts delivery.
func (a *Auther) SendVerificationCode(ctx context.Context, email string) (*CodeDelivery, error) {
	user, err := a.users.FindByEmail(ctx, email)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, errEmailNotRegistered(email)
	}

	delivery, err := a.issueAndSend(ctx, user.Email, PurposeVerification, mailSubjectVerification, mailBodyVerification)
	if err != nil {
		return nil, err
	}
	return &delivery, nil
}

// ResendVerificationCode issues a fresh code for the current session's
// address. Without an active session it is a no-op and returns nil.
func (a *Auther) ResendVerificationCode(ctx context.Context) (*CodeDelivery, error) {
	current := a.sessions.Current()
	if current == nil {
		return nil, nil
	}

	delivery, err := a.issueAndSend(ctx, current.Email, PurposeVerification, mailSubjectResend, mailBodyVerification)
	if err != nil {
		return nil, err
	}
	return &delivery, nil
}

// RequestPasswordReset issues a reset-purpose code for a registered
// address and attempts delivery.
func (a *Auther) RequestPasswordReset(ctx context.Context, email string) (*CodeDelivery, error) {
	user, err := a.users.FindByEmail(ctx, email)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, errEmailNotRegistered(email)
	}

	delivery, err := a.issueAndSend(ctx, user.Email, PurposeReset, mailSubjectReset, mailBodyReset)
	if err != nil {
		return nil, err
	}
	return &delivery, nil
}

// ResetPassword consumes a reset code and overwrites the credential.
// It does not establish a session.
func (a *Auther) ResetPassword(ctx context.Context, email, code, newPassword string) error {
	ok, err := a.codes.Validate(ctx, email, PurposeReset, code)
	if err != nil {
		return err
	}
	if !ok {
		return errInvalidOrExpiredCode(PurposeReset)
	}

	user, err := a.users.FindByEmail(ctx, email)
	if err != nil {
		return err
	}
	if user == nil {
		return errUserNotFound(email)
	}

	credential, err := a.password.HashPassword(newPassword)
	if err != nil {
		return goerrors.Wrap(err, goerrors.CategoryValidation, "invalid new password provided")
	}

	if _, err := a.users.SetPassword(ctx, user.ID, credential); err != nil {
		return err
	}

	if err := a.codes.Invalidate(ctx, email, PurposeReset); err != nil {
		return err
	}

	a.logger.Info("password reset for %s", email)
	return nil
}

// UpdateProfile merges the change into the current user's record and
// refreshes the session projection. Requires an active session.
func (a *Auther) UpdateProfile(ctx context.Context, change ProfileUpdate) (*SessionUser, error) {
	current := a.sessions.Current()
	if current == nil {
		return nil, errNotAuthenticated()
	}

	if err := change.Validate(); err != nil {
		return nil, goerrors.Wrap(err, goerrors.CategoryValidation, "invalid profile data")
	}

	user, err := a.users.Update(ctx, current.ID, change)
	if err != nil {
		return nil, err
	}

	return a.sessions.Set(ctx, user)
}

// DeleteAccount removes the current user's record and clears the
// session. Requires an active session.
func (a *Auther) DeleteAccount(ctx context.Context) error {
	current := a.sessions.Current()
	if current == nil {
		return errNotAuthenticated()
	}

	if err := a.users.Delete(ctx, current.ID); err != nil {
		return err
	}

	if err := a.sessions.Clear(ctx); err != nil {
		return err
	}

	a.logger.Info("account deleted for %s", current.Email)
	return nil
}

// Logout clears the session unconditionally. It never fails; a storage
// error during cleanup is logged and the in-memory session still drops.
func (a *Auther) Logout(ctx context.Context) {
	if err := a.sessions.Clear(ctx); err != nil {
		a.logger.Warn("logout cleanup error: %v", err)
	}
}

// issueAndSend issues a code and attempts delivery. The transition
// succeeds even when the notifier fails; the delivery outcome only
// affects user-visible messaging.
func (a *Auther) issueAndSend(ctx context.Context, email string, purpose CodePurpose, subject, bodyFormat string) (CodeDelivery, error) {
	code, err := a.codes.Issue(ctx, email, purpose)
	if err != nil {
		return CodeDelivery{}, err
	}

	delivered := true
	if err := a.notifier.Send(ctx, email, subject, fmt.Sprintf(bodyFormat, code)); err != nil {
		a.logger.Warn("notifier failed for %s: %v", email, err)
		delivered = false
	}

	return CodeDelivery{Code: code, Delivered: delivered}, nil
}
