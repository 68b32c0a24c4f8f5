package application

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
)

const (
	orderIDPrefix  = "ORD"
	reviewIDPrefix = "REV"
)

// SessionSlot is the external key/value slot holding the serialized session user.
type SessionSlot interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Put(ctx context.Context, key string, value []byte) error
	Delete(ctx context.Context, key string) error
}

// StoreConfig captures the dependencies of a Store.
type StoreConfig struct {
	Slot           SessionSlot
	IDGenerator    func() string
	Now            func() time.Time
	HashPassword   PasswordHasher
	VerifyPassword PasswordVerifier
	Logger         *slog.Logger
}

// Store holds the users, orders, and reviews collections together with the
// current session. All mutations run under a single write lock, so readers
// never observe a partially applied operation.
type Store struct {
	mu sync.RWMutex

	users   []User
	orders  []Order
	reviews []Review
	session *User

	orderSeq  int
	reviewSeq int

	slot           SessionSlot
	idGenerator    func() string
	now            func() time.Time
	hashPassword   PasswordHasher
	verifyPassword PasswordVerifier
	logger         *slog.Logger
}

// NewStore constructs an empty Store.
func NewStore(slot SessionSlot, idGenerator func() string, now func() time.Time) *Store {
	return NewStoreWithConfig(StoreConfig{Slot: slot, IDGenerator: idGenerator, Now: now})
}

// NewStoreWithConfig constructs an empty Store with every dependency spelled out.
// Nil dependencies fall back to UUID identifiers, the wall clock, and argon2id hashing.
func NewStoreWithConfig(cfg StoreConfig) *Store {
	if cfg.IDGenerator == nil {
		cfg.IDGenerator = NewUserID
	}
	if cfg.Now == nil {
		cfg.Now = time.Now
	}
	if cfg.HashPassword == nil {
		cfg.HashPassword = HasherWithParams(DefaultArgon2idParams)
	}
	if cfg.VerifyPassword == nil {
		cfg.VerifyPassword = VerifyPassword
	}
	return &Store{
		slot:           cfg.Slot,
		idGenerator:    cfg.IDGenerator,
		now:            cfg.Now,
		hashPassword:   cfg.HashPassword,
		verifyPassword: cfg.VerifyPassword,
		logger:         defaultLogger(cfg.Logger),
	}
}

// NewUserID returns a collision resistant resident identifier.
func NewUserID() string {
	return "user-" + uuid.NewString()
}

func (s *Store) loggerWith(ctx context.Context, operation string, attrs ...any) *slog.Logger {
	return serviceLogger(ctx, s.logger, "Store", operation, attrs...)
}

// Users returns a snapshot of every user.
func (s *Store) Users() []User {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]User, 0, len(s.users))
	for _, u := range s.users {
		out = append(out, cloneUser(u))
	}
	return out
}

// Orders returns a snapshot of every order in insertion order.
func (s *Store) Orders() []Order {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return cloneOrders(s.orders)
}

// Reviews returns a snapshot of every review in insertion order.
func (s *Store) Reviews() []Review {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]Review, len(s.reviews))
	copy(out, s.reviews)
	return out
}

func formatSequentialID(prefix string, n int) string {
	return fmt.Sprintf("%s%03d", prefix, n)
}

// sequenceOf extracts the numeric suffix of a sequential identifier, or 0.
func sequenceOf(prefix, id string) int {
	if !strings.HasPrefix(id, prefix) {
		return 0
	}
	n, err := strconv.Atoi(strings.TrimPrefix(id, prefix))
	if err != nil || n < 0 {
		return 0
	}
	return n
}

func (s *Store) nextOrderIDLocked() string {
	s.orderSeq++
	return formatSequentialID(orderIDPrefix, s.orderSeq)
}

func (s *Store) nextReviewIDLocked() string {
	s.reviewSeq++
	return formatSequentialID(reviewIDPrefix, s.reviewSeq)
}

func (s *Store) userIndexLocked(id string) int {
	for i := range s.users {
		if s.users[i].ID == id {
			return i
		}
	}
	return -1
}

func (s *Store) usernameTakenLocked(username, exceptID string) bool {
	for _, u := range s.users {
		if u.ID != exceptID && u.Username == username {
			return true
		}
	}
	return false
}

func (s *Store) orderIndexLocked(id string) int {
	for i := range s.orders {
		if s.orders[i].ID == id {
			return i
		}
	}
	return -1
}

func (s *Store) reviewIndexLocked(id string) int {
	for i := range s.reviews {
		if s.reviews[i].ID == id {
			return i
		}
	}
	return -1
}

func residentUsername(apartment, room string) string {
	return apartment + "_" + room
}

func cloneUser(u User) User {
	return u
}

func cloneOrder(o Order) Order {
	if o.LastEditedAt != nil {
		t := *o.LastEditedAt
		o.LastEditedAt = &t
	}
	if o.EditedFields != nil {
		o.EditedFields = append([]EditableField(nil), o.EditedFields...)
	}
	return o
}

func cloneOrders(orders []Order) []Order {
	out := make([]Order, 0, len(orders))
	for _, o := range orders {
		out = append(out, cloneOrder(o))
	}
	return out
}
