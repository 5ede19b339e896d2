package registry

import (
	"testing"

	"github.com/couchgm/couchgm/pkg/api"
)

func TestRegisterAndLookup(t *testing.T) {
	r := New()
	err := r.Register(api.FunctionSpec{Name: "get_user", Description: "look up a user"})
	if err != nil {
		t.Fatalf("Register: %v", err)
	}

	spec, ok := r.Lookup("get_user")
	if !ok {
		t.Fatal("Lookup(get_user) = not found")
	}
	if spec.Description != "look up a user" {
		t.Errorf("Description = %q", spec.Description)
	}
	if r.Has("get_league") {
		t.Error("Has(get_league) = true for unregistered function")
	}
}

func TestDuplicateNameRejected(t *testing.T) {
	r := New()
	if err := r.Register(api.FunctionSpec{Name: "get_user"}); err != nil {
		t.Fatalf("first Register: %v", err)
	}
	if err := r.Register(api.FunctionSpec{Name: "get_user"}); err == nil {
		t.Fatal("second Register of same name: want error, got nil")
	}
}

func TestEmptyNameRejected(t *testing.T) {
	r := New()
	if err := r.Register(api.FunctionSpec{}); err == nil {
		t.Fatal("Register with empty name: want error, got nil")
	}
}

func TestSpecsPreserveRegistrationOrder(t *testing.T) {
	r := New()
	for _, name := range []string{"zeta", "alpha", "mid"} {
		if err := r.Register(api.FunctionSpec{Name: name}); err != nil {
			t.Fatalf("Register(%s): %v", name, err)
		}
	}

	specs := r.Specs()
	if len(specs) != 3 {
		t.Fatalf("len(Specs()) = %d, want 3", len(specs))
	}
	for i, want := range []string{"zeta", "alpha", "mid"} {
		if specs[i].Name != want {
			t.Errorf("Specs()[%d] = %q, want %q", i, specs[i].Name, want)
		}
	}
}

func TestDefaultRegistryContainsSleeperFunctions(t *testing.T) {
	r := Default()

	for _, name := range []string{
		"get_user", "get_user_leagues", "get_league", "get_league_rosters",
		"get_league_users", "get_league_drafts", "get_draft_picks",
		"get_season_picks", "get_nfl_state",
	} {
		if !r.Has(name) {
			t.Errorf("default registry missing %q", name)
		}
	}
	if r.Len() != len(SleeperSpecs()) {
		t.Errorf("Len() = %d, want %d", r.Len(), len(SleeperSpecs()))
	}
}
