package models

import "testing"

func TestRoleValid(t *testing.T) {
	cases := map[Role]bool{
		RoleUser:  true,
		RoleAdmin: true,
		"user":    false,
		"":        false,
		"ROOT":    false,
	}
	for role, want := range cases {
		if got := role.Valid(); got != want {
			t.Errorf("Role(%q).Valid() = %v, want %v", role, got, want)
		}
	}
}
