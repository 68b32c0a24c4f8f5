package application

import "sort"

// mostActiveLimit caps the most active users list.
const mostActiveLimit = 5

// Statistics counts orders per status and ranks users by submitted orders.
func (s *Store) Statistics() Statistics {
	s.mu.RLock()
	defer s.mu.RUnlock()

	stats := Statistics{TotalOrders: len(s.orders)}
	counts := make(map[string]int)
	for _, o := range s.orders {
		switch o.Status {
		case OrderStatusOpen:
			stats.OpenOrders++
		case OrderStatusClosed:
			stats.ClosedOrders++
		case OrderStatusCanceled:
			stats.CanceledOrders++
		}
		counts[o.UserID]++
	}

	active := make([]ActiveUser, 0, len(counts))
	for userID, n := range counts {
		name := userID
		if idx := s.userIndexLocked(userID); idx >= 0 {
			name = s.users[idx].Username
		}
		active = append(active, ActiveUser{UserID: userID, Username: name, OrderCount: n})
	}
	sort.Slice(active, func(i, j int) bool {
		if active[i].OrderCount != active[j].OrderCount {
			return active[i].OrderCount > active[j].OrderCount
		}
		if active[i].Username != active[j].Username {
			return active[i].Username < active[j].Username
		}
		return active[i].UserID < active[j].UserID
	})
	if len(active) > mostActiveLimit {
		active = active[:mostActiveLimit]
	}
	stats.MostActive = active
	return stats
}
