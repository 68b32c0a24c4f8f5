package application

import "testing"

func TestAuthorize(t *testing.T) {
	t.Parallel()

	tests := []struct {
		role Role
		area Area
		want bool
	}{
		{RoleAdmin, AreaDashboard, true},
		{RoleAdmin, AreaUsers, true},
		{RoleAdmin, AreaCreateUser, true},
		{RoleAdmin, AreaStatistics, true},
		{RoleAdmin, AreaReviews, true},
		{RoleAdmin, AreaOrders, false},
		{RoleAdmin, AreaProfile, false},
		{RoleUser, AreaOrders, true},
		{RoleUser, AreaProfile, true},
		{RoleUser, AreaDashboard, false},
		{RoleUser, AreaUsers, false},
		{Role("guest"), AreaOrders, false},
	}

	for _, tt := range tests {
		if got := Authorize(tt.role, tt.area); got != tt.want {
			t.Fatalf("Authorize(%s, %s) = %v, want %v", tt.role, tt.area, got, tt.want)
		}
	}
}

func TestAllowedAreasReturnsCopy(t *testing.T) {
	t.Parallel()

	areas := AllowedAreas(RoleUser)
	if len(areas) != 2 || areas[0] != AreaOrders || areas[1] != AreaProfile {
		t.Fatalf("unexpected areas %v", areas)
	}
	areas[0] = AreaDashboard
	if Authorize(RoleUser, AreaDashboard) {
		t.Fatalf("mutating the result must not widen the policy")
	}
}

func TestHomeArea(t *testing.T) {
	t.Parallel()

	if got := HomeArea(RoleAdmin); got != AreaDashboard {
		t.Fatalf("expected dashboard, got %q", got)
	}
	if got := HomeArea(RoleUser); got != AreaOrders {
		t.Fatalf("expected orders, got %q", got)
	}
	if got := HomeArea(Role("")); got != "" {
		t.Fatalf("expected no home for unknown role, got %q", got)
	}
	for _, role := range []Role{RoleAdmin, RoleUser} {
		if !Authorize(role, HomeArea(role)) {
			t.Fatalf("home area of %s must be authorized", role)
		}
	}
}
