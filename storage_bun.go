package auth

import (
	"context"
	"database/sql"
	"errors"
	"time"

	goerrors "github.com/goliatone/go-errors"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/sqlitedialect"
	"github.com/uptrace/bun/driver/sqliteshim"
)

// storedBlob is the single-row-per-table layout backing BunStorage.
type storedBlob struct {
	bun.BaseModel `bun:"table:storage_blobs,alias:blob"`
	Name          string    `bun:"table_name,pk" json:"table_name"`
	Value         []byte    `bun:"value,notnull" json:"value"`
	UpdatedAt     time.Time `bun:"updated_at,notnull" json:"updated_at"`
}

// BunStorage persists tables as JSON blobs in a SQLite key/value table.
// This is the durable store standing in for browser-local storage: the
// four auth tables survive process restarts but every write replaces
// the whole value, so concurrent writers are last-write-wins.
type BunStorage struct {
	db *bun.DB
}

var _ Storage = (*BunStorage)(nil)

// NewBunStorage wraps an existing bun DB. The blob table must already
// exist; use OpenBunStorage to create it on the fly.
func NewBunStorage(db *bun.DB) *BunStorage {
	return &BunStorage{db: db}
}

// OpenBunStorage opens (or creates) a SQLite database at dsn and
// ensures the blob table exists. Use ":memory:" for an ephemeral store.
func OpenBunStorage(ctx context.Context, dsn string) (*BunStorage, error) {
	sqldb, err := sql.Open(sqliteshim.ShimName, dsn)
	if err != nil {
		return nil, goerrors.Wrap(err, goerrors.CategoryInternal, "failed to open storage database").
			WithMetadata(map[string]any{"dsn": dsn})
	}

	db := bun.NewDB(sqldb, sqlitedialect.New())

	storage := &BunStorage{db: db}
	if err := storage.init(ctx); err != nil {
		db.Close()
		return nil, err
	}

	return storage, nil
}

func (s *BunStorage) init(ctx context.Context) error {
	_, err := s.db.NewCreateTable().
		Model((*storedBlob)(nil)).
		IfNotExists().
		Exec(ctx)
	if err != nil {
		return goerrors.Wrap(err, goerrors.CategoryInternal, "failed to create storage table")
	}
	return nil
}

func (s *BunStorage) Get(ctx context.Context, table string) ([]byte, bool, error) {
	record := &storedBlob{}
	err := s.db.NewSelect().
		Model(record).
		Where("?TableAlias.table_name = ?", table).
		Limit(1).
		Scan(ctx)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, false, nil
		}
		return nil, false, goerrors.Wrap(err, goerrors.CategoryInternal, "failed to load storage blob").
			WithMetadata(map[string]any{"table": table})
	}
	return record.Value, true, nil
}

func (s *BunStorage) Set(ctx context.Context, table string, value []byte) error {
	record := &storedBlob{
		Name:      table,
		Value:     value,
		UpdatedAt: time.Now(),
	}

	_, err := s.db.NewInsert().
		Model(record).
		On("CONFLICT (table_name) DO UPDATE").
		Set("value = EXCLUDED.value").
		Set("updated_at = EXCLUDED.updated_at").
		Exec(ctx)
	if err != nil {
		return goerrors.Wrap(err, goerrors.CategoryInternal, "failed to store blob").
			WithMetadata(map[string]any{"table": table})
	}
	return nil
}

func (s *BunStorage) Delete(ctx context.Context, table string) error {
	_, err := s.db.NewDelete().
		Model((*storedBlob)(nil)).
		Where("table_name = ?", table).
		Exec(ctx)
	if err != nil {
		return goerrors.Wrap(err, goerrors.CategoryInternal, "failed to delete storage blob").
			WithMetadata(map[string]any{"table": table})
	}
	return nil
}

// Close releases the underlying database handle.
func (s *BunStorage) Close() error {
	return s.db.Close()
}
