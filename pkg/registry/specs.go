package registry

import "github.com/couchgm/couchgm/pkg/api"

// Default returns a Registry populated with the Sleeper function set.
func Default() *Registry {
	r := New()
	for _, spec := range SleeperSpecs() {
		// Specs below are static; duplicate names cannot occur.
		_ = r.Register(spec)
	}
	return r
}

// SleeperSpecs declares the fixed Sleeper lookup operations. All are
// read-only GETs against the Sleeper API; there are no write operations
// anywhere in the system.
func SleeperSpecs() []api.FunctionSpec {
	return []api.FunctionSpec{
		{
			Name:        "get_user",
			Description: "Get information about a Sleeper user by username or user ID",
			Parameters: map[string]api.ParameterSpec{
				"identifier": {
					Type:        "string",
					Required:    true,
					Description: "Username or user ID of the user to look up",
				},
			},
		},
		{
			Name:        "get_user_leagues",
			Description: "Get all leagues for a specific user in a given season",
			Parameters: map[string]api.ParameterSpec{
				"user_id": {
					Type:        "string",
					Required:    true,
					Description: "User ID to look up leagues for",
				},
				"season": {
					Type:        "string",
					Required:    true,
					Description: "Season year (e.g., '2024')",
				},
				"sport": {
					Type:        "string",
					Required:    false,
					Description: "Sport type",
					Default:     "nfl",
				},
			},
		},
		{
			Name:        "get_league",
			Description: "Get detailed information about a specific league",
			Parameters: map[string]api.ParameterSpec{
				"league_id": {
					Type:        "string",
					Required:    true,
					Description: "League ID to look up",
				},
			},
		},
		{
			Name:        "get_league_rosters",
			Description: "Get all rosters in a specific league",
			Parameters: map[string]api.ParameterSpec{
				"league_id": {
					Type:        "string",
					Required:    true,
					Description: "League ID to look up rosters for",
				},
			},
		},
		{
			Name:        "get_league_users",
			Description: "Get all members of a specific league",
			Parameters: map[string]api.ParameterSpec{
				"league_id": {
					Type:        "string",
					Required:    true,
					Description: "League ID to look up members for",
				},
			},
		},
		{
			Name:        "get_league_drafts",
			Description: "Get all drafts of a league, grouped by season",
			Parameters: map[string]api.ParameterSpec{
				"league_id": {
					Type:        "string",
					Required:    true,
					Description: "League ID to look up drafts for",
				},
			},
		},
		{
			Name:        "get_draft_picks",
			Description: "Get the picks of a specific draft",
			Parameters: map[string]api.ParameterSpec{
				"draft_id": {
					Type:        "string",
					Required:    true,
					Description: "Draft ID to look up picks for",
				},
			},
		},
		{
			Name:        "get_season_picks",
			Description: "Get all draft picks of a league for a given season",
			Parameters: map[string]api.ParameterSpec{
				"league_id": {
					Type:        "string",
					Required:    true,
					Description: "League ID whose drafts are searched",
				},
				"season": {
					Type:        "string",
					Required:    true,
					Description: "Season year to collect picks for",
				},
			},
		},
		{
			Name:        "get_nfl_state",
			Description: "Get current NFL season state information",
			Parameters:  map[string]api.ParameterSpec{},
		},
	}
}
