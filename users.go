package auth

import (
	"context"
	"strings"

	"github.com/goliatone/hashid/pkg/hashid"
	"github.com/google/uuid"
)

// UserStore is the durable mapping of user records keyed by id. Every
// mutation is a whole-table read-modify-write against the storage
// port; no partial-write durability is assumed.
type UserStore struct {
	store  Storage
	logger Logger
	newID  func(email string) uuid.UUID
}

func NewUserStore(store Storage) *UserStore {
	return &UserStore{
		store:  store,
		logger: defLogger{},
		newID: func(string) uuid.UUID {
			return uuid.New()
		},
	}
}

func (s *UserStore) WithLogger(logger Logger) *UserStore {
	if logger != nil {
		s.logger = logger
	}
	return s
}

// WithDeterministicIDs derives record ids from the signup email via
// hashid instead of random uuids, so re-registering the same address
// after deletion yields a stable id.
func (s *UserStore) WithDeterministicIDs() *UserStore {
	s.newID = func(email string) uuid.UUID {
		if id, err := hashid.NewUUID(email); err == nil {
			return id
		}
		return uuid.New()
	}
	return s
}

// Create persists a new record, enforcing case-insensitive email and
// username uniqueness. All emails are checked before any username, so
// a record colliding on both always reports the email. A zero id is
// assigned here.
func (s *UserStore) Create(ctx context.Context, user *User) (*User, error) {
	users, err := s.loadAll(ctx)
	if err != nil {
		return nil, err
	}

	for _, existing := range users {
		if strings.EqualFold(existing.Email, user.Email) {
			return nil, errDuplicateEmail(user.Email)
		}
	}
	for _, existing := range users {
		if strings.EqualFold(existing.Username, user.Username) {
			return nil, errDuplicateUsername(user.Username)
		}
	}

	if user.ID == uuid.Nil {
		user.ID = s.newID(user.Email)
	}

	users[user.ID.String()] = user
	if err := s.saveAll(ctx, users); err != nil {
		return nil, err
	}

	return user, nil
}

// FindByEmail looks a record up case-insensitively. A miss returns
// (nil, nil), not an error.
func (s *UserStore) FindByEmail(ctx context.Context, email string) (*User, error) {
	users, err := s.loadAll(ctx)
	if err != nil {
		return nil, err
	}

	for _, user := range users {
		if strings.EqualFold(user.Email, email) {
			return user, nil
		}
	}

	return nil, nil
}

// FindByID looks a record up by exact id. A miss returns (nil, nil).
func (s *UserStore) FindByID(ctx context.Context, id uuid.UUID) (*User, error) {
	users, err := s.loadAll(ctx)
	if err != nil {
		return nil, err
	}
	return users[id.String()], nil
}

// Update merges the partial change into the record. Changing the
// username to one held by a different id fails with DuplicateUsername
// and leaves the table untouched.
func (s *UserStore) Update(ctx context.Context, id uuid.UUID, change ProfileUpdate) (*User, error) {
	users, err := s.loadAll(ctx)
	if err != nil {
		return nil, err
	}

	user, ok := users[id.String()]
	if !ok {
		return nil, errUserNotFound(id.String())
	}

	if change.Username != nil && !strings.EqualFold(*change.Username, user.Username) {
		for _, other := range users {
			if other.ID != id && strings.EqualFold(other.Username, *change.Username) {
				return nil, errDuplicateUsername(*change.Username)
			}
		}
	}

	change.apply(user)
	users[id.String()] = user
	if err := s.saveAll(ctx, users); err != nil {
		return nil, err
	}

	return user, nil
}

// MarkVerified flips the verified flag on the record.
func (s *UserStore) MarkVerified(ctx context.Context, id uuid.UUID) (*User, error) {
	return s.mutate(ctx, id, func(u *User) {
		u.IsVerified = true
	})
}

// SetPassword overwrites the stored credential.
func (s *UserStore) SetPassword(ctx context.Context, id uuid.UUID, password string) (*User, error) {
	return s.mutate(ctx, id, func(u *User) {
		u.Password = password
	})
}

func (s *UserStore) mutate(ctx context.Context, id uuid.UUID, fn func(*User)) (*User, error) {
	users, err := s.loadAll(ctx)
	if err != nil {
		return nil, err
	}

	user, ok := users[id.String()]
	if !ok {
		return nil, errUserNotFound(id.String())
	}

	fn(user)
	users[id.String()] = user
	if err := s.saveAll(ctx, users); err != nil {
		return nil, err
	}

	return user, nil
}

// Delete removes the record. Deleting an absent id is a no-op.
func (s *UserStore) Delete(ctx context.Context, id uuid.UUID) error {
	users, err := s.loadAll(ctx)
	if err != nil {
		return err
	}

	if _, ok := users[id.String()]; !ok {
		return nil
	}

	delete(users, id.String())
	return s.saveAll(ctx, users)
}

func (s *UserStore) loadAll(ctx context.Context) (map[string]*User, error) {
	users := map[string]*User{}
	if err := readTable(ctx, s.store, TableUsers, s.logger, &users); err != nil {
		return nil, err
	}
	return users, nil
}

func (s *UserStore) saveAll(ctx context.Context, users map[string]*User) error {
	return writeTable(ctx, s.store, TableUsers, users)
}
