package application

import (
	"sort"
	"strings"
)

// ReviewByID returns the review with id or ErrNotFound.
func (s *Store) ReviewByID(id string) (Review, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if idx := s.reviewIndexLocked(id); idx >= 0 {
		return s.reviews[idx], nil
	}
	return Review{}, ErrNotFound
}

// OrderReview returns the review attached to a closed order.
func (s *Store) OrderReview(orderID string) (ReviewEntry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	idx := s.orderIndexLocked(orderID)
	if idx < 0 || s.orders[idx].CommentID == "" {
		return ReviewEntry{}, ErrNotFound
	}
	ridx := s.reviewIndexLocked(s.orders[idx].CommentID)
	if ridx < 0 {
		return ReviewEntry{}, ErrNotFound
	}
	return s.reviewEntryLocked(s.reviews[ridx]), nil
}

// ListReviews returns reviews newest first, keeping those whose order id,
// comment or author username contains search.
func (s *Store) ListReviews(search string) []ReviewEntry {
	needle := strings.ToLower(strings.TrimSpace(search))

	s.mu.RLock()
	out := make([]ReviewEntry, 0, len(s.reviews))
	for _, r := range s.reviews {
		entry := s.reviewEntryLocked(r)
		if needle != "" {
			author := ""
			if entry.Author != nil {
				author = entry.Author.Username
			}
			if !containsFold(needle, r.OrderID, r.Comment, author) {
				continue
			}
		}
		out = append(out, entry)
	}
	s.mu.RUnlock()

	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Review.Date.After(out[j].Review.Date)
	})
	return out
}

func (s *Store) reviewEntryLocked(r Review) ReviewEntry {
	entry := ReviewEntry{Review: r}
	if idx := s.userIndexLocked(r.UserID); idx >= 0 {
		author := sessionView(s.users[idx])
		entry.Author = &author
	}
	return entry
}
