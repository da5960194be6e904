package auth

import (
	"context"
	"crypto/rand"
	"fmt"
	"math/big"
	"strings"
	"time"

	goerrors "github.com/goliatone/go-errors"
)

// CodePurpose scopes a one-time code to the flow that issued it.
// Verification and reset codes live in independent tables.
type CodePurpose string

const (
	PurposeVerification CodePurpose = "verification"
	PurposeReset        CodePurpose = "password-reset"
)

const (
	// VerificationCodeTTL is how long an email verification code stays valid.
	VerificationCodeTTL = 30 * time.Minute
	// ResetCodeTTL is how long a password reset code stays valid.
	ResetCodeTTL = 15 * time.Minute
)

// storedCode is the persisted form of an issued code. Expiry is derived
// at validation time; entries are never swept on expiry alone.
type storedCode struct {
	Code      string    `json:"code"`
	IssuedAt  time.Time `json:"issued_at"`
	ExpiresAt time.Time `json:"expires_at"`
}

// CodeStore issues, validates, and invalidates one-time codes keyed by
// (email, purpose). The email key is canonicalized to lower case, so a
// code issued for an address validates regardless of the caller's
// casing. Issuing replaces any live code for the pair, so at most one
// code per pair is ever accepted.
type CodeStore struct {
	store  Storage
	logger Logger
	now    func() time.Time
}

func NewCodeStore(store Storage) *CodeStore {
	return &CodeStore{
		store:  store,
		logger: defLogger{},
		now:    time.Now,
	}
}

func (c *CodeStore) WithLogger(logger Logger) *CodeStore {
	if logger != nil {
		c.logger = logger
	}
	return c
}

// WithClock overrides the time source used for issuance and expiry.
func (c *CodeStore) WithClock(now func() time.Time) *CodeStore {
	if now != nil {
		c.now = now
	}
	return c
}

// Issue generates a fresh 6-digit code for the pair and persists it,
// replacing any prior code for the same email and purpose.
func (c *CodeStore) Issue(ctx context.Context, email string, purpose CodePurpose) (string, error) {
	code, err := generateCode()
	if err != nil {
		return "", err
	}

	codes, err := c.loadAll(ctx, purpose)
	if err != nil {
		return "", err
	}

	issuedAt := c.now()
	codes[codeKey(email)] = storedCode{
		Code:      code,
		IssuedAt:  issuedAt,
		ExpiresAt: issuedAt.Add(ttlFor(purpose)),
	}

	if err := writeTable(ctx, c.store, tableFor(purpose), codes); err != nil {
		return "", err
	}

	return code, nil
}

// Validate reports whether candidate matches the live code for the
// pair. Expiry is checked here, not at issuance: an expired entry stays
// stored but never validates.
func (c *CodeStore) Validate(ctx context.Context, email string, purpose CodePurpose, candidate string) (bool, error) {
	codes, err := c.loadAll(ctx, purpose)
	if err != nil {
		return false, err
	}

	stored, ok := codes[codeKey(email)]
	if !ok {
		return false, nil
	}

	if !c.now().Before(stored.ExpiresAt) {
		return false, nil
	}

	return stored.Code == candidate, nil
}

// Invalidate removes the stored code for the pair, making codes
// single-use. Call it only after a successful validation.
func (c *CodeStore) Invalidate(ctx context.Context, email string, purpose CodePurpose) error {
	codes, err := c.loadAll(ctx, purpose)
	if err != nil {
		return err
	}

	if _, ok := codes[codeKey(email)]; !ok {
		return nil
	}

	delete(codes, codeKey(email))
	return writeTable(ctx, c.store, tableFor(purpose), codes)
}

func (c *CodeStore) loadAll(ctx context.Context, purpose CodePurpose) (map[string]storedCode, error) {
	codes := map[string]storedCode{}
	if err := readTable(ctx, c.store, tableFor(purpose), c.logger, &codes); err != nil {
		return nil, err
	}
	return codes, nil
}

// codeKey canonicalizes the email half of the (email, purpose) pair so
// issuance and validation agree regardless of input casing.
func codeKey(email string) string {
	return strings.ToLower(email)
}

func tableFor(purpose CodePurpose) string {
	if purpose == PurposeReset {
		return TableResetCodes
	}
	return TableVerificationCodes
}

func ttlFor(purpose CodePurpose) time.Duration {
	if purpose == PurposeReset {
		return ResetCodeTTL
	}
	return VerificationCodeTTL
}

// generateCode draws uniformly from 000000 through 999999. The code is
// a fixed-width string; leading zeros are significant.
func generateCode() (string, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(1000000))
	if err != nil {
		return "", goerrors.Wrap(err, goerrors.CategoryInternal, "failed to generate one-time code")
	}
	return fmt.Sprintf("%06d", n.Int64()), nil
}
