package application

import (
	"errors"
	"testing"
)

func TestValidationError_Error(t *testing.T) {
	t.Parallel()

	var nilErr *ValidationError
	if nilErr.Error() != "" || nilErr.HasErrors() {
		t.Fatalf("nil validation error must be empty")
	}
	if got := (&ValidationError{FieldErrors: map[string]string{"room": "room is required"}}).Error(); got != "validation failed" {
		t.Fatalf("unexpected message %q", got)
	}
}

func TestValidationError_Merge(t *testing.T) {
	t.Parallel()

	vErr := &ValidationError{}
	vErr.add("password", "password is required")
	vErr.merge(validateResidentFields("", "12", 0))
	vErr.merge(nil)

	want := map[string]string{
		"password":      "password is required",
		"apartment":     "apartment is required",
		"members_count": "members count must be positive",
	}
	if len(vErr.FieldErrors) != len(want) {
		t.Fatalf("expected %d field errors, got %#v", len(want), vErr.FieldErrors)
	}
	for field, msg := range want {
		if got := vErr.FieldErrors[field]; got != msg {
			t.Fatalf("field %s: expected %q, got %q", field, msg, got)
		}
	}
}

func TestValidateOrderFields(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name        string
		orderType   OrderType
		description string
		wantFields  []string
	}{
		{name: "valid", orderType: OrderTypeCarpenter, description: "Shelf fell"},
		{name: "unknown type", orderType: "gardener", description: "Hedge", wantFields: []string{"type"}},
		{name: "empty description", orderType: OrderTypeOther, description: "", wantFields: []string{"description"}},
		{name: "both", orderType: "", description: "", wantFields: []string{"type", "description"}},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			vErr := validateOrderFields(tt.orderType, tt.description)
			if len(tt.wantFields) == 0 {
				if vErr.HasErrors() {
					t.Fatalf("expected no errors, got %#v", vErr.FieldErrors)
				}
				return
			}
			if len(vErr.FieldErrors) != len(tt.wantFields) {
				t.Fatalf("expected fields %v, got %#v", tt.wantFields, vErr.FieldErrors)
			}
			for _, f := range tt.wantFields {
				if _, ok := vErr.FieldErrors[f]; !ok {
					t.Fatalf("missing field %s in %#v", f, vErr.FieldErrors)
				}
			}
		})
	}
}

func TestSentinelsAreDistinct(t *testing.T) {
	t.Parallel()

	sentinels := []error{ErrUnauthorized, ErrNotFound, ErrAlreadyExists, ErrInvalidState, ErrNoChanges, ErrInvalidCredentials}
	for i, a := range sentinels {
		for j, b := range sentinels {
			if i != j && errors.Is(a, b) {
				t.Fatalf("%v must not match %v", a, b)
			}
		}
	}
}
