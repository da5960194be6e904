package auth

import (
	"context"
	"encoding/json"
	"sync"

	goerrors "github.com/goliatone/go-errors"
)

// Table names the simulator persists under. Existing data dumps keyed
// this way import without renaming.
const (
	TableUsers             = "auth_site_users"
	TableCurrentUser       = "auth_site_current_user"
	TableVerificationCodes = "auth_site_verification_codes"
	TableResetCodes        = "auth_site_reset_codes"
)

// Storage is the durable port the stores are built on: whole-value
// reads and writes of JSON blobs keyed by table name. Implementations
// must be safe to reopen across process restarts.
type Storage interface {
	Get(ctx context.Context, table string) ([]byte, bool, error)
	Set(ctx context.Context, table string, value []byte) error
	Delete(ctx context.Context, table string) error
}

// readTable loads and decodes a whole table into dst. A missing table
// leaves dst untouched. A corrupt blob is logged and treated as empty
// rather than propagated; the system degrades to "no data" instead of
// refusing to start.
func readTable(ctx context.Context, store Storage, table string, logger Logger, dst any) error {
	raw, ok, err := store.Get(ctx, table)
	if err != nil {
		return goerrors.Wrap(err, goerrors.CategoryInternal, "failed to read table").
			WithMetadata(map[string]any{"table": table})
	}
	if !ok || len(raw) == 0 {
		return nil
	}
	if err := json.Unmarshal(raw, dst); err != nil {
		logger.Warn("discarding corrupt table %q: %v", table, err)
	}
	return nil
}

func writeTable(ctx context.Context, store Storage, table string, value any) error {
	raw, err := json.Marshal(value)
	if err != nil {
		return goerrors.Wrap(err, goerrors.CategoryInternal, "failed to encode table").
			WithMetadata(map[string]any{"table": table})
	}
	if err := store.Set(ctx, table, raw); err != nil {
		return goerrors.Wrap(err, goerrors.CategoryInternal, "failed to persist table").
			WithMetadata(map[string]any{"table": table})
	}
	return nil
}

// MemoryStorage is an in-memory Storage, used in tests and throwaway
// runs. It does not survive a restart.
type MemoryStorage struct {
	mu     sync.RWMutex
	tables map[string][]byte
}

var _ Storage = (*MemoryStorage)(nil)

func NewMemoryStorage() *MemoryStorage {
	return &MemoryStorage{tables: map[string][]byte{}}
}

func (m *MemoryStorage) Get(_ context.Context, table string) ([]byte, bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	raw, ok := m.tables[table]
	if !ok {
		return nil, false, nil
	}

	cp := make([]byte, len(raw))
	copy(cp, raw)
	return cp, true, nil
}

func (m *MemoryStorage) Set(_ context.Context, table string, value []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	cp := make([]byte, len(value))
	copy(cp, value)
	m.tables[table] = cp
	return nil
}

func (m *MemoryStorage) Delete(_ context.Context, table string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	delete(m.tables, table)
	return nil
}
