package application

import (
	"context"
	"fmt"
	"sort"
	"strings"
)

func validateOrderFields(orderType OrderType, description string) *ValidationError {
	vErr := &ValidationError{}
	if !orderType.Valid() {
		vErr.add("type", "type is invalid")
	}
	if description == "" {
		vErr.add("description", "description is required")
	}
	return vErr
}

// CreateOrder files a new open order for userID.
func (s *Store) CreateOrder(ctx context.Context, userID string, orderType OrderType, description string) (order Order, err error) {
	if s == nil {
		err = fmt.Errorf("Store is nil")
		return
	}

	description = strings.TrimSpace(description)

	logger := s.loggerWith(ctx, "CreateOrder", "user_id", userID, "type", orderType)
	defer func() {
		if err != nil {
			logOutcome(ctx, logger, err, "order creation failed", "")
			return
		}
		logger.InfoContext(ctx, "order created", "order_id", order.ID)
	}()

	vErr := validateOrderFields(orderType, description)
	if userID == "" {
		vErr.add("user_id", "user id is required")
	}
	if vErr.HasErrors() {
		err = vErr
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	order = Order{
		ID:          s.nextOrderIDLocked(),
		UserID:      userID,
		Type:        orderType,
		Description: description,
		Date:        s.now(),
		Status:      OrderStatusOpen,
	}
	s.orders = append(s.orders, order)
	order = cloneOrder(order)
	return
}

// CloseOrder closes an open order and attaches a review written by userID.
// The review and the status change become visible together.
func (s *Store) CloseOrder(ctx context.Context, orderID, userID string, rating int, comment string) (order Order, review Review, err error) {
	if s == nil {
		err = fmt.Errorf("Store is nil")
		return
	}

	comment = strings.TrimSpace(comment)

	logger := s.loggerWith(ctx, "CloseOrder", "order_id", orderID, "user_id", userID)
	defer func() {
		if err != nil {
			logOutcome(ctx, logger, err, "order close failed", "")
			return
		}
		logger.InfoContext(ctx, "order closed", "review_id", review.ID, "rating", review.Rating)
	}()

	if rating < 1 || rating > 5 {
		vErr := &ValidationError{}
		vErr.add("rating", "rating must be between 1 and 5")
		err = vErr
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	idx := s.orderIndexLocked(orderID)
	if idx < 0 {
		err = ErrNotFound
		return
	}
	if s.orders[idx].Status != OrderStatusOpen {
		err = ErrInvalidState
		return
	}

	review = Review{
		ID:      s.nextReviewIDLocked(),
		OrderID: orderID,
		UserID:  userID,
		Rating:  rating,
		Comment: comment,
		Date:    s.now(),
	}
	s.reviews = append(s.reviews, review)
	s.orders[idx].Status = OrderStatusClosed
	s.orders[idx].CommentID = review.ID
	order = cloneOrder(s.orders[idx])
	return
}

// CancelOrder moves an open order to canceled. No other field changes.
func (s *Store) CancelOrder(ctx context.Context, orderID string) (order Order, err error) {
	if s == nil {
		err = fmt.Errorf("Store is nil")
		return
	}

	logger := s.loggerWith(ctx, "CancelOrder", "order_id", orderID)
	defer func() { logOutcome(ctx, logger, err, "order cancel failed", "order canceled") }()

	s.mu.Lock()
	defer s.mu.Unlock()

	idx := s.orderIndexLocked(orderID)
	if idx < 0 {
		err = ErrNotFound
		return
	}
	if s.orders[idx].Status != OrderStatusOpen {
		err = ErrInvalidState
		return
	}
	s.orders[idx].Status = OrderStatusCanceled
	order = cloneOrder(s.orders[idx])
	return
}

// EditOrder replaces the type and description of an order. EditedFields is set
// to exactly the fields this call changed.
func (s *Store) EditOrder(ctx context.Context, orderID string, orderType OrderType, description string) (order Order, err error) {
	if s == nil {
		err = fmt.Errorf("Store is nil")
		return
	}

	description = strings.TrimSpace(description)

	logger := s.loggerWith(ctx, "EditOrder", "order_id", orderID)
	defer func() {
		if err != nil {
			logOutcome(ctx, logger, err, "order edit failed", "")
			return
		}
		logger.InfoContext(ctx, "order edited", "edited_fields", order.EditedFields)
	}()

	s.mu.Lock()
	defer s.mu.Unlock()

	idx := s.orderIndexLocked(orderID)
	if idx < 0 {
		err = ErrNotFound
		return
	}
	if vErr := validateOrderFields(orderType, description); vErr.HasErrors() {
		err = vErr
		return
	}

	current := s.orders[idx]
	var changed []EditableField
	if current.Type != orderType {
		changed = append(changed, EditableFieldType)
	}
	if current.Description != description {
		changed = append(changed, EditableFieldDescription)
	}
	if len(changed) == 0 {
		err = ErrNoChanges
		return
	}

	editedAt := s.now()
	current.Type = orderType
	current.Description = description
	current.LastEditedAt = &editedAt
	current.EditedFields = changed
	s.orders[idx] = current
	order = cloneOrder(current)
	return
}

// OrderByID returns the order with id or ErrNotFound.
func (s *Store) OrderByID(id string) (Order, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if idx := s.orderIndexLocked(id); idx >= 0 {
		return cloneOrder(s.orders[idx]), nil
	}
	return Order{}, ErrNotFound
}

// UserOrders returns the orders submitted by userID in insertion order.
func (s *Store) UserOrders(userID string) []Order {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]Order, 0)
	for _, o := range s.orders {
		if o.UserID == userID {
			out = append(out, cloneOrder(o))
		}
	}
	return out
}

// ListOrders returns the orders matching filter, newest first.
func (s *Store) ListOrders(filter OrderFilter) []Order {
	needle := strings.ToLower(strings.TrimSpace(filter.Search))

	s.mu.RLock()
	out := make([]Order, 0, len(s.orders))
	for _, o := range s.orders {
		if filter.Status != "" && o.Status != filter.Status {
			continue
		}
		if needle != "" && !containsFold(needle, o.ID, o.UserID, o.Description) {
			continue
		}
		out = append(out, cloneOrder(o))
	}
	s.mu.RUnlock()

	sort.SliceStable(out, func(i, j int) bool {
		if !out[i].Date.Equal(out[j].Date) {
			return out[i].Date.After(out[j].Date)
		}
		return out[i].ID < out[j].ID
	})
	return out
}
