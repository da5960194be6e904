package auth_test

import (
	"context"
	"regexp"
	"testing"
	"time"

	auth "github.com/ayushchatterjee-official/auth1-conn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var codeFormat = regexp.MustCompile(`^[0-9]{6}$`)

func TestCodeStoreIssueFormat(t *testing.T) {
	ctx := context.Background()
	codes := auth.NewCodeStore(auth.NewMemoryStorage())

	for i := 0; i < 25; i++ {
		code, err := codes.Issue(ctx, "a@x.com", auth.PurposeVerification)
		require.NoError(t, err)
		assert.Regexp(t, codeFormat, code, "codes are fixed-width 6-digit strings")
	}
}

func TestCodeStoreValidate(t *testing.T) {
	ctx := context.Background()
	codes := auth.NewCodeStore(auth.NewMemoryStorage())

	code, err := codes.Issue(ctx, "a@x.com", auth.PurposeVerification)
	require.NoError(t, err)

	ok, err := codes.Validate(ctx, "a@x.com", auth.PurposeVerification, code)
	require.NoError(t, err)
	assert.True(t, ok)

	// wrong candidate
	ok, err = codes.Validate(ctx, "a@x.com", auth.PurposeVerification, "000000x")
	require.NoError(t, err)
	assert.False(t, ok)

	// unknown email
	ok, err = codes.Validate(ctx, "b@x.com", auth.PurposeVerification, code)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestCodeStoreEmailKeyIsCaseInsensitive(t *testing.T) {
	ctx := context.Background()
	codes := auth.NewCodeStore(auth.NewMemoryStorage())

	code, err := codes.Issue(ctx, "Alice@X.com", auth.PurposeVerification)
	require.NoError(t, err)

	ok, err := codes.Validate(ctx, "alice@x.com", auth.PurposeVerification, code)
	require.NoError(t, err)
	assert.True(t, ok, "issuance and validation agree on the email key")

	require.NoError(t, codes.Invalidate(ctx, "ALICE@X.COM", auth.PurposeVerification))

	ok, err = codes.Validate(ctx, "Alice@X.com", auth.PurposeVerification, code)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestCodeStoreSingleUse(t *testing.T) {
	ctx := context.Background()
	codes := auth.NewCodeStore(auth.NewMemoryStorage())

	code, err := codes.Issue(ctx, "a@x.com", auth.PurposeVerification)
	require.NoError(t, err)

	ok, err := codes.Validate(ctx, "a@x.com", auth.PurposeVerification, code)
	require.NoError(t, err)
	require.True(t, ok)

	require.NoError(t, codes.Invalidate(ctx, "a@x.com", auth.PurposeVerification))

	ok, err = codes.Validate(ctx, "a@x.com", auth.PurposeVerification, code)
	require.NoError(t, err)
	assert.False(t, ok, "a consumed code must never validate again")
}

func TestCodeStoreExpiry(t *testing.T) {
	ctx := context.Background()
	clock := newTestClock()
	codes := auth.NewCodeStore(auth.NewMemoryStorage()).WithClock(clock.Now)

	code, err := codes.Issue(ctx, "a@x.com", auth.PurposeVerification)
	require.NoError(t, err)

	clock.Advance(auth.VerificationCodeTTL - time.Second)
	ok, err := codes.Validate(ctx, "a@x.com", auth.PurposeVerification, code)
	require.NoError(t, err)
	assert.True(t, ok, "still valid just before the offset elapses")

	clock.Advance(time.Second)
	ok, err = codes.Validate(ctx, "a@x.com", auth.PurposeVerification, code)
	require.NoError(t, err)
	assert.False(t, ok, "validity ends exactly at the expiry instant")
}

func TestCodeStoreResetExpiryIsShorter(t *testing.T) {
	ctx := context.Background()
	clock := newTestClock()
	codes := auth.NewCodeStore(auth.NewMemoryStorage()).WithClock(clock.Now)

	code, err := codes.Issue(ctx, "a@x.com", auth.PurposeReset)
	require.NoError(t, err)

	clock.Advance(auth.ResetCodeTTL + time.Minute)
	ok, err := codes.Validate(ctx, "a@x.com", auth.PurposeReset, code)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestCodeStoreReissueReplaces(t *testing.T) {
	ctx := context.Background()
	codes := auth.NewCodeStore(auth.NewMemoryStorage())

	first, err := codes.Issue(ctx, "a@x.com", auth.PurposeVerification)
	require.NoError(t, err)

	var second string
	for {
		second, err = codes.Issue(ctx, "a@x.com", auth.PurposeVerification)
		require.NoError(t, err)
		if second != first {
			break
		}
	}

	ok, err := codes.Validate(ctx, "a@x.com", auth.PurposeVerification, first)
	require.NoError(t, err)
	assert.False(t, ok, "only the newest code for the pair is accepted")

	ok, err = codes.Validate(ctx, "a@x.com", auth.PurposeVerification, second)
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestCodeStorePurposesIndependent(t *testing.T) {
	ctx := context.Background()
	codes := auth.NewCodeStore(auth.NewMemoryStorage())

	verification, err := codes.Issue(ctx, "a@x.com", auth.PurposeVerification)
	require.NoError(t, err)

	ok, err := codes.Validate(ctx, "a@x.com", auth.PurposeReset, verification)
	require.NoError(t, err)
	assert.False(t, ok, "verification codes never validate for the reset purpose")

	reset, err := codes.Issue(ctx, "a@x.com", auth.PurposeReset)
	require.NoError(t, err)

	require.NoError(t, codes.Invalidate(ctx, "a@x.com", auth.PurposeReset))

	ok, err = codes.Validate(ctx, "a@x.com", auth.PurposeVerification, verification)
	require.NoError(t, err)
	assert.True(t, ok, "invalidating one purpose leaves the other live")

	ok, err = codes.Validate(ctx, "a@x.com", auth.PurposeReset, reset)
	require.NoError(t, err)
	assert.False(t, ok)
}
