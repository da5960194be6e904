package auth_test

import (
	"context"
	"testing"

	auth "github.com/ayushchatterjee-official/auth1-conn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryStorage(t *testing.T) {
	ctx := context.Background()
	storage := auth.NewMemoryStorage()

	_, ok, err := storage.Get(ctx, auth.TableUsers)
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, storage.Set(ctx, auth.TableUsers, []byte(`{"a":1}`)))

	raw, ok, err := storage.Get(ctx, auth.TableUsers)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, `{"a":1}`, string(raw))

	require.NoError(t, storage.Set(ctx, auth.TableUsers, []byte(`{"a":2}`)))
	raw, _, err = storage.Get(ctx, auth.TableUsers)
	require.NoError(t, err)
	assert.Equal(t, `{"a":2}`, string(raw), "writes replace the whole value")

	require.NoError(t, storage.Delete(ctx, auth.TableUsers))
	_, ok, err = storage.Get(ctx, auth.TableUsers)
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, storage.Delete(ctx, auth.TableUsers), "deleting an absent table is fine")
}

func TestMemoryStorageCopiesValues(t *testing.T) {
	ctx := context.Background()
	storage := auth.NewMemoryStorage()

	value := []byte("original")
	require.NoError(t, storage.Set(ctx, "t", value))
	value[0] = 'X'

	raw, _, err := storage.Get(ctx, "t")
	require.NoError(t, err)
	assert.Equal(t, "original", string(raw))

	raw[0] = 'Y'
	again, _, err := storage.Get(ctx, "t")
	require.NoError(t, err)
	assert.Equal(t, "original", string(again))
}

func TestStorageTablesAreIndependent(t *testing.T) {
	ctx := context.Background()
	storage := auth.NewMemoryStorage()

	require.NoError(t, storage.Set(ctx, auth.TableVerificationCodes, []byte("v")))
	require.NoError(t, storage.Set(ctx, auth.TableResetCodes, []byte("r")))

	require.NoError(t, storage.Delete(ctx, auth.TableVerificationCodes))

	_, ok, err := storage.Get(ctx, auth.TableResetCodes)
	require.NoError(t, err)
	assert.True(t, ok)
}
