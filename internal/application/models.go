package application

import "time"

// Role distinguishes administrators from residents.
type Role string

const (
	RoleAdmin Role = "admin"
	RoleUser  Role = "user"
)

// OrderType names the trade a maintenance order is addressed to.
type OrderType string

const (
	OrderTypeElectrician OrderType = "electrician"
	OrderTypePlumber     OrderType = "plumber"
	OrderTypeHandyman    OrderType = "handyman"
	OrderTypeCarpenter   OrderType = "carpenter"
	OrderTypeOther       OrderType = "other"
)

// OrderTypes lists every accepted order type in display order.
var OrderTypes = []OrderType{
	OrderTypeElectrician,
	OrderTypePlumber,
	OrderTypeHandyman,
	OrderTypeCarpenter,
	OrderTypeOther,
}

// Valid reports whether t is one of the known order types.
func (t OrderType) Valid() bool {
	for _, known := range OrderTypes {
		if t == known {
			return true
		}
	}
	return false
}

// OrderStatus tracks the lifecycle of an order. Open is the only non-terminal state.
type OrderStatus string

const (
	OrderStatusOpen     OrderStatus = "open"
	OrderStatusClosed   OrderStatus = "closed"
	OrderStatusCanceled OrderStatus = "canceled"
)

// Valid reports whether s is one of the known statuses.
func (s OrderStatus) Valid() bool {
	switch s {
	case OrderStatusOpen, OrderStatusClosed, OrderStatusCanceled:
		return true
	}
	return false
}

// EditableField names an order attribute tracked by EditedFields.
type EditableField string

const (
	EditableFieldType        EditableField = "type"
	EditableFieldDescription EditableField = "description"
)

// User represents an administrator or resident account.
type User struct {
	ID           string
	Username     string
	PasswordHash string
	Role         Role
	Apartment    string
	Room         string
	MembersCount int
}

// IsAdmin reports whether the user holds the administrator role.
func (u User) IsAdmin() bool {
	return u.Role == RoleAdmin
}

// Order represents a maintenance request submitted by a resident.
type Order struct {
	ID           string
	UserID       string
	Type         OrderType
	Description  string
	Date         time.Time
	Status       OrderStatus
	CommentID    string
	LastEditedAt *time.Time
	EditedFields []EditableField
}

// Review is the rating and comment left when an order is closed.
type Review struct {
	ID      string
	OrderID string
	UserID  string
	Rating  int
	Comment string
	Date    time.Time
}

// OrderFilter narrows the administrator order listing.
type OrderFilter struct {
	// Status restricts results to a single status; empty means all.
	Status OrderStatus
	// Search matches case-insensitively against order id, user id, and description.
	Search string
}

// Statistics summarises the order collection for administrators.
type Statistics struct {
	TotalOrders    int
	OpenOrders     int
	ClosedOrders   int
	CanceledOrders int
	MostActive     []ActiveUser
}

// ActiveUser pairs a user with the number of orders they have submitted.
type ActiveUser struct {
	UserID     string
	Username   string
	OrderCount int
}

// ReviewEntry joins a review with its author for listings.
type ReviewEntry struct {
	Review Review
	Author *User
}
