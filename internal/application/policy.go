package application

// Area names a section of the application that is gated by role.
type Area string

const (
	AreaDashboard  Area = "dashboard"
	AreaUsers      Area = "users"
	AreaCreateUser Area = "create-user"
	AreaStatistics Area = "statistics"
	AreaReviews    Area = "reviews"
	AreaOrders     Area = "orders"
	AreaProfile    Area = "profile"
)

var areasByRole = map[Role][]Area{
	RoleAdmin: {AreaDashboard, AreaUsers, AreaCreateUser, AreaStatistics, AreaReviews},
	RoleUser:  {AreaOrders, AreaProfile},
}

// AllowedAreas returns the areas a role may open, in navigation order.
// Every enforcement point consults this table.
func AllowedAreas(role Role) []Area {
	areas := areasByRole[role]
	out := make([]Area, len(areas))
	copy(out, areas)
	return out
}

// Authorize reports whether role may access area.
func Authorize(role Role, area Area) bool {
	for _, allowed := range areasByRole[role] {
		if allowed == area {
			return true
		}
	}
	return false
}

// HomeArea is where a freshly authenticated user lands.
func HomeArea(role Role) Area {
	switch role {
	case RoleAdmin:
		return AreaDashboard
	case RoleUser:
		return AreaOrders
	}
	return ""
}
