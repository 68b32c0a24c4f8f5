package testfixtures

import (
	"fmt"
	"sync/atomic"
	"time"

	"github.com/example/mahalla/internal/application"
)

var (
	residentCounter uint64
	orderCounter    uint64
	reviewCounter   uint64
)

var referenceTime = time.Date(2024, time.May, 6, 10, 30, 0, 0, time.UTC)

// ReferenceTime returns the canonical baseline timestamp used by fixtures.
func ReferenceTime() time.Time {
	return referenceTime
}

// PlainHasher is a fast stand-in for argon2id. Digests are "plain:<password>".
func PlainHasher(password string) (string, error) {
	return "plain:" + password, nil
}

// PlainVerifier pairs with PlainHasher.
func PlainVerifier(hashed, password string) error {
	if hashed != "plain:"+password {
		return application.ErrInvalidCredentials
	}
	return nil
}

// ----------------------------- User fixtures -----------------------------

// UserOption configures a generated seed user.
type UserOption func(*application.SeedUser)

// NewResident returns a resident seed user with a unique apartment and room.
// The password defaults to "password".
func NewResident(opts ...UserOption) application.SeedUser {
	idx := atomic.AddUint64(&residentCounter, 1)
	apartment := fmt.Sprintf("%d", 100+idx)
	room := fmt.Sprintf("%d", idx)
	seed := application.SeedUser{
		User: application.User{
			ID:           fmt.Sprintf("resident-%03d", idx),
			Username:     apartment + "_" + room,
			Role:         application.RoleUser,
			Apartment:    apartment,
			Room:         room,
			MembersCount: 1,
		},
		Password: "password",
	}
	for _, opt := range opts {
		opt(&seed)
	}
	return seed
}

// NewAdmin returns the administrator seed user with password "admin123".
func NewAdmin(opts ...UserOption) application.SeedUser {
	seed := application.SeedUser{
		User:     application.User{ID: "admin", Username: "admin", Role: application.RoleAdmin},
		Password: "admin123",
	}
	for _, opt := range opts {
		opt(&seed)
	}
	return seed
}

// WithUserID overrides the generated user ID.
func WithUserID(id string) UserOption {
	return func(s *application.SeedUser) {
		s.User.ID = id
	}
}

// WithResidence sets apartment and room and derives the username from them.
func WithResidence(apartment, room string) UserOption {
	return func(s *application.SeedUser) {
		s.User.Apartment = apartment
		s.User.Room = room
		s.User.Username = apartment + "_" + room
	}
}

// WithPassword overrides the plaintext password.
func WithPassword(password string) UserOption {
	return func(s *application.SeedUser) {
		s.Password = password
	}
}

// WithMembersCount overrides the household size.
func WithMembersCount(n int) UserOption {
	return func(s *application.SeedUser) {
		s.User.MembersCount = n
	}
}

// ----------------------------- Order fixtures ----------------------------

// OrderOption configures a generated order.
type OrderOption func(*application.Order)

// NewOrder returns an open order owned by userID dated at ReferenceTime.
func NewOrder(userID string, opts ...OrderOption) application.Order {
	idx := atomic.AddUint64(&orderCounter, 1)
	order := application.Order{
		ID:          fmt.Sprintf("ORD%03d", idx),
		UserID:      userID,
		Type:        application.OrderTypeOther,
		Description: fmt.Sprintf("Request %03d", idx),
		Date:        referenceTime,
		Status:      application.OrderStatusOpen,
	}
	for _, opt := range opts {
		opt(&order)
	}
	return order
}

// WithOrderID overrides the generated order ID.
func WithOrderID(id string) OrderOption {
	return func(o *application.Order) {
		o.ID = id
	}
}

// WithOrderType overrides the order type.
func WithOrderType(t application.OrderType) OrderOption {
	return func(o *application.Order) {
		o.Type = t
	}
}

// WithDescription overrides the description.
func WithDescription(description string) OrderOption {
	return func(o *application.Order) {
		o.Description = description
	}
}

// WithOrderDate overrides the creation date.
func WithOrderDate(t time.Time) OrderOption {
	return func(o *application.Order) {
		o.Date = t
	}
}

// WithStatus overrides the status. Closed orders also need WithReview.
func WithStatus(status application.OrderStatus) OrderOption {
	return func(o *application.Order) {
		o.Status = status
	}
}

// ----------------------------- Seed builder ------------------------------

// SeedBuilder assembles consistent SeedData for tests.
type SeedBuilder struct {
	data application.SeedData
}

// NewSeedBuilder starts from the administrator account alone.
func NewSeedBuilder() *SeedBuilder {
	return &SeedBuilder{data: application.SeedData{Users: []application.SeedUser{NewAdmin()}}}
}

// WithUsers appends users.
func (b *SeedBuilder) WithUsers(users ...application.SeedUser) *SeedBuilder {
	b.data.Users = append(b.data.Users, users...)
	return b
}

// WithOrders appends orders.
func (b *SeedBuilder) WithOrders(orders ...application.Order) *SeedBuilder {
	b.data.Orders = append(b.data.Orders, orders...)
	return b
}

// WithClosedOrder appends order in the closed state together with its review.
func (b *SeedBuilder) WithClosedOrder(order application.Order, rating int, comment string) *SeedBuilder {
	idx := atomic.AddUint64(&reviewCounter, 1)
	review := application.Review{
		ID:      fmt.Sprintf("REV%03d", idx),
		OrderID: order.ID,
		UserID:  order.UserID,
		Rating:  rating,
		Comment: comment,
		Date:    order.Date.Add(time.Hour),
	}
	order.Status = application.OrderStatusClosed
	order.CommentID = review.ID
	b.data.Orders = append(b.data.Orders, order)
	b.data.Reviews = append(b.data.Reviews, review)
	return b
}

// Build returns the assembled data.
func (b *SeedBuilder) Build() application.SeedData {
	return b.data
}
