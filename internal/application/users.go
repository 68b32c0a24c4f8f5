package application

import (
	"context"
	"fmt"
	"strings"
)

func validateResidentFields(apartment, room string, membersCount int) *ValidationError {
	vErr := &ValidationError{}
	if apartment == "" {
		vErr.add("apartment", "apartment is required")
	}
	if room == "" {
		vErr.add("room", "room is required")
	}
	if membersCount < 1 {
		vErr.add("members_count", "members count must be positive")
	}
	return vErr
}

// CreateResidentUser registers a resident whose username is derived as "{apartment}_{room}".
func (s *Store) CreateResidentUser(ctx context.Context, apartment, room, password string, membersCount int) (user User, err error) {
	if s == nil {
		err = fmt.Errorf("Store is nil")
		return
	}

	apartment = strings.TrimSpace(apartment)
	room = strings.TrimSpace(room)
	username := residentUsername(apartment, room)

	logger := s.loggerWith(ctx, "CreateResidentUser", "username", username)
	defer func() {
		if err != nil {
			logOutcome(ctx, logger, err, "resident creation failed", "")
			return
		}
		logger.InfoContext(ctx, "resident created", "user_id", user.ID)
	}()

	vErr := &ValidationError{}
	if password == "" {
		vErr.add("password", "password is required")
	}
	vErr.merge(validateResidentFields(apartment, room, membersCount))
	if vErr.HasErrors() {
		err = vErr
		return
	}

	// Hashing runs outside the lock.
	hash, herr := s.hashPassword(password)
	if herr != nil {
		err = fmt.Errorf("hash password: %w", herr)
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.usernameTakenLocked(username, "") {
		err = ErrAlreadyExists
		return
	}

	user = User{
		ID:           s.idGenerator(),
		Username:     username,
		PasswordHash: hash,
		Role:         RoleUser,
		Apartment:    apartment,
		Room:         room,
		MembersCount: membersCount,
	}
	if user.ID == "" || s.userIndexLocked(user.ID) >= 0 {
		err = fmt.Errorf("generated user id %q is empty or in use", user.ID)
		user = User{}
		return
	}
	s.users = append(s.users, user)
	return
}

// EditUser replaces a resident's apartment, room and members count, regenerating the username.
// When the edited user holds the session, the session is refreshed and re-persisted.
func (s *Store) EditUser(ctx context.Context, userID, apartment, room string, membersCount int) (user User, err error) {
	if s == nil {
		err = fmt.Errorf("Store is nil")
		return
	}

	apartment = strings.TrimSpace(apartment)
	room = strings.TrimSpace(room)

	logger := s.loggerWith(ctx, "EditUser", "user_id", userID)
	defer func() {
		if err != nil {
			logOutcome(ctx, logger, err, "user edit failed", "")
			return
		}
		logger.InfoContext(ctx, "user edited", "username", user.Username)
	}()

	s.mu.Lock()
	defer s.mu.Unlock()

	idx := s.userIndexLocked(userID)
	if idx < 0 {
		err = ErrNotFound
		return
	}
	current := s.users[idx]

	if vErr := validateResidentFields(apartment, room, membersCount); vErr.HasErrors() {
		err = vErr
		return
	}

	username := residentUsername(apartment, room)
	if s.usernameTakenLocked(username, userID) {
		err = ErrAlreadyExists
		return
	}
	if current.Apartment == apartment && current.Room == room && current.MembersCount == membersCount {
		err = ErrNoChanges
		return
	}

	updated := current
	updated.Apartment = apartment
	updated.Room = room
	updated.Username = username
	updated.MembersCount = membersCount

	if s.session != nil && s.session.ID == userID {
		view := sessionView(updated)
		if err = s.persistSessionLocked(ctx, view); err != nil {
			return
		}
		s.session = &view
	}
	s.users[idx] = updated
	user = updated
	return
}

// UserByID returns the user with id or ErrNotFound.
func (s *Store) UserByID(id string) (User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if idx := s.userIndexLocked(id); idx >= 0 {
		return s.users[idx], nil
	}
	return User{}, ErrNotFound
}

// ListResidents returns users with the resident role whose username, apartment
// or room contains search, ignoring case.
func (s *Store) ListResidents(search string) []User {
	needle := strings.ToLower(strings.TrimSpace(search))

	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]User, 0, len(s.users))
	for _, u := range s.users {
		if u.Role != RoleUser {
			continue
		}
		if needle != "" && !containsFold(needle, u.Username, u.Apartment, u.Room) {
			continue
		}
		out = append(out, u)
	}
	return out
}

func containsFold(needle string, fields ...string) bool {
	for _, f := range fields {
		if strings.Contains(strings.ToLower(f), needle) {
			return true
		}
	}
	return false
}
