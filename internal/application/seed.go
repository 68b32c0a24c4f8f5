package application

import (
	"context"
	"fmt"
	"time"
)

// SeedUser is a user record together with the credential used to derive its digest.
// PasswordHash wins over Password when both are set.
type SeedUser struct {
	User         User
	Password     string
	PasswordHash string
}

// SeedData is the initial content of a Store.
type SeedData struct {
	Users   []SeedUser
	Orders  []Order
	Reviews []Review
}

// AdminSeed returns the administrator account alone.
func AdminSeed(adminPassword, adminPasswordHash string) SeedData {
	return SeedData{Users: []SeedUser{{
		User:         User{ID: "admin", Username: "admin", Role: RoleAdmin},
		Password:     adminPassword,
		PasswordHash: adminPasswordHash,
	}}}
}

// DemoSeed returns the administrator, one resident, four orders and one review,
// with dates relative to now.
func DemoSeed(now time.Time, adminPassword, adminPasswordHash string) SeedData {
	data := AdminSeed(adminPassword, adminPasswordHash)
	resident := User{
		ID:           "user-21_169",
		Username:     "21_169",
		Role:         RoleUser,
		Apartment:    "21",
		Room:         "169",
		MembersCount: 3,
	}
	data.Users = append(data.Users, SeedUser{User: resident, Password: "password123"})

	day := 24 * time.Hour
	data.Orders = []Order{
		{ID: "ORD001", UserID: resident.ID, Type: OrderTypeElectrician, Description: "Light not working in living room.", Date: now, Status: OrderStatusOpen},
		{ID: "ORD002", UserID: resident.ID, Type: OrderTypePlumber, Description: "Leaky faucet in kitchen.", Date: now.Add(-day), Status: OrderStatusClosed, CommentID: "REV001"},
		{ID: "ORD003", UserID: "admin", Type: OrderTypeOther, Description: "General maintenance request.", Date: now.Add(-2 * day), Status: OrderStatusCanceled},
		{ID: "ORD004", UserID: resident.ID, Type: OrderTypeHandyman, Description: "Door handle broken.", Date: now, Status: OrderStatusOpen},
	}
	data.Reviews = []Review{
		{ID: "REV001", OrderID: "ORD002", UserID: resident.ID, Rating: 5, Comment: "Excellent service, plumber was very quick and efficient!", Date: now.Add(-day + time.Hour)},
	}
	return data
}

// Seed replaces the collections with data after checking the record invariants.
// The current session is left untouched.
func (s *Store) Seed(ctx context.Context, data SeedData) (err error) {
	if s == nil {
		return fmt.Errorf("Store is nil")
	}

	logger := s.loggerWith(ctx, "Seed",
		"users", len(data.Users),
		"orders", len(data.Orders),
		"reviews", len(data.Reviews),
	)
	defer func() { logOutcome(ctx, logger, err, "seeding failed", "store seeded") }()

	users := make([]User, 0, len(data.Users))
	ids := make(map[string]struct{}, len(data.Users))
	names := make(map[string]struct{}, len(data.Users))
	for _, seed := range data.Users {
		u := seed.User
		if u.ID == "" || u.Username == "" {
			return fmt.Errorf("seed user %q: id and username are required", u.ID)
		}
		if _, dup := ids[u.ID]; dup {
			return fmt.Errorf("seed user %q: duplicate id", u.ID)
		}
		if _, dup := names[u.Username]; dup {
			return fmt.Errorf("seed user %q: duplicate username %q", u.ID, u.Username)
		}
		ids[u.ID] = struct{}{}
		names[u.Username] = struct{}{}

		switch {
		case seed.PasswordHash != "":
			u.PasswordHash = seed.PasswordHash
		case seed.Password != "":
			if u.PasswordHash, err = s.hashPassword(seed.Password); err != nil {
				return fmt.Errorf("seed user %q: hash password: %w", u.ID, err)
			}
		case u.PasswordHash == "":
			return fmt.Errorf("seed user %q: password is required", u.ID)
		}
		users = append(users, u)
	}

	reviews := make(map[string]Review, len(data.Reviews))
	reviewSeq := 0
	for _, r := range data.Reviews {
		if _, dup := reviews[r.ID]; dup {
			return fmt.Errorf("seed review %q: duplicate id", r.ID)
		}
		if r.Rating < 1 || r.Rating > 5 {
			return fmt.Errorf("seed review %q: rating out of range", r.ID)
		}
		reviews[r.ID] = r
		reviewSeq = max(reviewSeq, sequenceOf(reviewIDPrefix, r.ID))
	}

	orderIDs := make(map[string]struct{}, len(data.Orders))
	reviewed := make(map[string]struct{}, len(data.Reviews))
	orderSeq := 0
	for _, o := range data.Orders {
		if _, dup := orderIDs[o.ID]; dup {
			return fmt.Errorf("seed order %q: duplicate id", o.ID)
		}
		orderIDs[o.ID] = struct{}{}
		if !o.Status.Valid() || !o.Type.Valid() {
			return fmt.Errorf("seed order %q: invalid status or type", o.ID)
		}
		if (o.Status == OrderStatusClosed) != (o.CommentID != "") {
			return fmt.Errorf("seed order %q: comment id must be set exactly when closed", o.ID)
		}
		if o.CommentID != "" {
			r, ok := reviews[o.CommentID]
			if !ok || r.OrderID != o.ID {
				return fmt.Errorf("seed order %q: review %q does not reference it", o.ID, o.CommentID)
			}
			reviewed[r.ID] = struct{}{}
		}
		orderSeq = max(orderSeq, sequenceOf(orderIDPrefix, o.ID))
	}
	if len(reviewed) != len(reviews) {
		return fmt.Errorf("seed reviews: every review must belong to a closed order")
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.users = users
	s.orders = cloneOrders(data.Orders)
	s.reviews = append([]Review(nil), data.Reviews...)
	s.orderSeq = orderSeq
	s.reviewSeq = reviewSeq
	return nil
}
