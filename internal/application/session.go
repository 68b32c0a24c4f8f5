package application

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/example/mahalla/internal/persistence"
)

// SessionKey is the slot key under which the current user is persisted.
const SessionKey = "currentUser"

// sessionRecord is the persisted form of the session user. The password digest never leaves the store.
type sessionRecord struct {
	ID           string `json:"id"`
	Username     string `json:"username"`
	Role         Role   `json:"role"`
	Apartment    string `json:"apartment,omitempty"`
	Room         string `json:"room,omitempty"`
	MembersCount int    `json:"membersCount,omitempty"`
}

func encodeSession(u User) ([]byte, error) {
	return json.Marshal(sessionRecord{
		ID:           u.ID,
		Username:     u.Username,
		Role:         u.Role,
		Apartment:    u.Apartment,
		Room:         u.Room,
		MembersCount: u.MembersCount,
	})
}

func decodeSession(data []byte) (User, error) {
	var rec sessionRecord
	if err := json.Unmarshal(data, &rec); err != nil {
		return User{}, err
	}
	if rec.ID == "" || rec.Username == "" {
		return User{}, errors.New("session record is missing id or username")
	}
	if rec.Role != RoleAdmin && rec.Role != RoleUser {
		return User{}, fmt.Errorf("session record has unknown role %q", rec.Role)
	}
	return User{
		ID:           rec.ID,
		Username:     rec.Username,
		Role:         rec.Role,
		Apartment:    rec.Apartment,
		Room:         rec.Room,
		MembersCount: rec.MembersCount,
	}, nil
}

// sessionView strips the digest from a user before it is handed out as the session.
func sessionView(u User) User {
	u.PasswordHash = ""
	return u
}

func (s *Store) persistSessionLocked(ctx context.Context, u User) error {
	if s.slot == nil {
		return fmt.Errorf("session slot not configured")
	}
	data, err := encodeSession(u)
	if err != nil {
		return fmt.Errorf("encode session: %w", err)
	}
	if err := s.slot.Put(ctx, SessionKey, data); err != nil {
		return fmt.Errorf("persist session: %w", err)
	}
	return nil
}

// Authenticate sets the current session to the user matching username and password.
// A mismatch returns ErrInvalidCredentials and leaves any prior session in place.
func (s *Store) Authenticate(ctx context.Context, username, password string) (user User, err error) {
	if s == nil {
		err = fmt.Errorf("Store is nil")
		return
	}

	logger := s.loggerWith(ctx, "Authenticate", "username", username)
	defer func() {
		if err != nil {
			logOutcome(ctx, logger, err, "authentication failed", "")
			return
		}
		logger.InfoContext(ctx, "authentication succeeded", "user_id", user.ID, "role", user.Role)
	}()

	if username == "" || password == "" {
		err = ErrInvalidCredentials
		return
	}

	s.mu.RLock()
	var candidate User
	found := false
	for _, u := range s.users {
		if u.Username == username {
			candidate, found = u, true
			break
		}
	}
	s.mu.RUnlock()
	if !found {
		err = ErrInvalidCredentials
		return
	}

	// Verification runs outside the lock.
	if verr := s.verifyPassword(candidate.PasswordHash, password); verr != nil {
		if !errors.Is(verr, ErrInvalidCredentials) {
			logger.WarnContext(ctx, "stored password digest rejected", "user_id", candidate.ID, "error", verr)
		}
		err = ErrInvalidCredentials
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	// The user may have been edited while the password was verified.
	idx := s.userIndexLocked(candidate.ID)
	if idx < 0 || s.users[idx].Username != username || s.users[idx].PasswordHash != candidate.PasswordHash {
		err = ErrInvalidCredentials
		return
	}

	view := sessionView(s.users[idx])
	if err = s.persistSessionLocked(ctx, view); err != nil {
		return
	}
	s.session = &view
	user = view
	return
}

// EndSession clears the current session in memory and in the slot. It is idempotent.
func (s *Store) EndSession(ctx context.Context) (err error) {
	if s == nil {
		return fmt.Errorf("Store is nil")
	}

	logger := s.loggerWith(ctx, "EndSession")
	defer func() { logOutcome(ctx, logger, err, "ending session failed", "session ended") }()

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.slot != nil {
		if derr := s.slot.Delete(ctx, SessionKey); derr != nil && !errors.Is(derr, persistence.ErrNotFound) {
			err = fmt.Errorf("clear session: %w", derr)
			return
		}
	}
	s.session = nil
	return nil
}

// RestoreSession loads the persisted session once at startup. A missing or
// unreadable slot value yields no session.
func (s *Store) RestoreSession(ctx context.Context) (user User, ok bool, err error) {
	if s == nil {
		err = fmt.Errorf("Store is nil")
		return
	}
	if s.slot == nil {
		err = fmt.Errorf("session slot not configured")
		return
	}

	logger := s.loggerWith(ctx, "RestoreSession")
	defer func() {
		switch {
		case err != nil:
			logOutcome(ctx, logger, err, "session restore failed", "")
		case ok:
			logger.InfoContext(ctx, "session restored", "user_id", user.ID)
		default:
			logger.InfoContext(ctx, "no session to restore")
		}
	}()

	data, gerr := s.slot.Get(ctx, SessionKey)
	if gerr != nil {
		if errors.Is(gerr, persistence.ErrNotFound) {
			return
		}
		err = fmt.Errorf("read session: %w", gerr)
		return
	}

	restored, derr := decodeSession(data)

	s.mu.Lock()
	defer s.mu.Unlock()

	if derr != nil {
		logger.WarnContext(ctx, "discarding unreadable session", "error", derr)
		if xerr := s.slot.Delete(ctx, SessionKey); xerr != nil && !errors.Is(xerr, persistence.ErrNotFound) {
			err = fmt.Errorf("clear session: %w", xerr)
		}
		return
	}

	if idx := s.userIndexLocked(restored.ID); idx >= 0 {
		restored = sessionView(s.users[idx])
	} else {
		logger.WarnContext(ctx, "session user not in collection, using persisted snapshot", "user_id", restored.ID)
	}
	s.session = &restored
	user, ok = restored, true
	return
}

// CurrentUser returns the session user, if any.
func (s *Store) CurrentUser() (User, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.session == nil {
		return User{}, false
	}
	return *s.session, true
}
