package auth

import (
	"context"
	"encoding/json"

	goerrors "github.com/goliatone/go-errors"
)

// SessionSnapshot is the read surface UI layers render from.
// IsLoading stays true until Restore has run once.
type SessionSnapshot struct {
	User            *SessionUser
	IsAuthenticated bool
	IsLoading       bool
}

// SessionManager owns the zero-or-one active session. The persisted
// form is the redacted projection only; a credential never reaches
// this table. Setting a new session silently replaces the prior one.
type SessionManager struct {
	store    Storage
	logger   Logger
	current  *SessionUser
	restored bool
}

func NewSessionManager(store Storage) *SessionManager {
	return &SessionManager{
		store:  store,
		logger: defLogger{},
	}
}

func (m *SessionManager) WithLogger(logger Logger) *SessionManager {
	if logger != nil {
		m.logger = logger
	}
	return m
}

// Restore loads the persisted session, if any. A corrupt blob is
// cleared and treated as "no session" rather than surfaced as a
// failure; only storage-level errors propagate.
func (m *SessionManager) Restore(ctx context.Context) error {
	defer func() { m.restored = true }()

	raw, ok, err := m.store.Get(ctx, TableCurrentUser)
	if err != nil {
		return goerrors.Wrap(err, goerrors.CategoryInternal, "failed to load persisted session")
	}
	if !ok || len(raw) == 0 {
		m.current = nil
		return nil
	}

	session := &SessionUser{}
	if err := json.Unmarshal(raw, session); err != nil {
		m.logger.Warn("discarding corrupt persisted session: %v", err)
		m.current = nil
		if err := m.store.Delete(ctx, TableCurrentUser); err != nil {
			m.logger.Warn("failed to clear corrupt session: %v", err)
		}
		return nil
	}

	m.current = session
	return nil
}

// Set stores the redacted projection of user as the active session and
// persists it.
func (m *SessionManager) Set(ctx context.Context, user *User) (*SessionUser, error) {
	session := user.Redacted()

	raw, err := json.Marshal(session)
	if err != nil {
		return nil, goerrors.Wrap(err, goerrors.CategoryInternal, "failed to encode session")
	}
	if err := m.store.Set(ctx, TableCurrentUser, raw); err != nil {
		return nil, goerrors.Wrap(err, goerrors.CategoryInternal, "failed to persist session")
	}

	m.current = session
	return session, nil
}

// Clear drops the active session and its persisted form.
func (m *SessionManager) Clear(ctx context.Context) error {
	m.current = nil
	if err := m.store.Delete(ctx, TableCurrentUser); err != nil {
		return goerrors.Wrap(err, goerrors.CategoryInternal, "failed to clear persisted session")
	}
	return nil
}

// Current returns the active session, or nil when anonymous.
func (m *SessionManager) Current() *SessionUser {
	return m.current
}

// Snapshot returns the current session state for rendering.
func (m *SessionManager) Snapshot() SessionSnapshot {
	return SessionSnapshot{
		User:            m.current,
		IsAuthenticated: m.current != nil,
		IsLoading:       !m.restored,
	}
}
