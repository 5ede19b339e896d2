package router

import "regexp"

// DefaultRules returns the built-in rule set for the Sleeper function set.
//
// Rules are ordered specific-before-generic within each tier; registration
// order is the tie-breaker between rules of equal priority. Patterns are
// matched against the lowercased, trimmed query with search-anywhere
// semantics, so they spell out the punctuation they tolerate.
func DefaultRules() []Rule {
	return []Rule{
		// User lookups. The leagues-for-user rule is registered before the
		// plain user rule: "leagues for user 123" matches both at the same
		// priority, and ties go to the earlier registration.
		{
			Function: "get_user_leagues",
			Patterns: []*regexp.Regexp{
				regexp.MustCompile(`leagues (?:for|of) (?:user )?([a-z0-9_.-]+)`),
				regexp.MustCompile(`which leagues .*\b([0-9]{4,})\b`),
			},
			Priority: PrioritySpecific,
			Extract:  CaptureAs("user_id"),
		},
		{
			Function: "get_user",
			Patterns: []*regexp.Regexp{
				regexp.MustCompile(`who is ([a-z0-9_.-]+)`),
				regexp.MustCompile(`user(?:name)? ([a-z0-9_.-]+)`),
				regexp.MustCompile(`look ?up ([a-z0-9_.-]+)`),
			},
			Priority: PrioritySpecific,
			Extract:  CaptureAs("identifier"),
		},

		// League-scoped lookups. The league ID itself is not in the text;
		// the engine fills it from the request or the configured default.
		{
			Function: "get_league",
			Patterns: []*regexp.Regexp{
				regexp.MustCompile(`league (?:info|information|details)`),
				regexp.MustCompile(`about (?:the|my|our) league`),
			},
			Priority: PrioritySpecific,
			Extract:  NoParams,
		},
		{
			Function: "get_league_rosters",
			Patterns: []*regexp.Regexp{
				regexp.MustCompile(`rosters?`),
				regexp.MustCompile(`standings?`),
				regexp.MustCompile(`(?:my|whose) team`),
			},
			Priority: PrioritySpecific,
			Extract:  NoParams,
		},
		{
			Function: "get_league_users",
			Patterns: []*regexp.Regexp{
				regexp.MustCompile(`(?:members|managers|owners)`),
				regexp.MustCompile(`who(?:'s| is) in (?:the|my|our) league`),
			},
			Priority: PrioritySpecific,
			Extract:  NoParams,
		},
		{
			Function: "get_season_picks",
			Patterns: []*regexp.Regexp{
				regexp.MustCompile(`picks? (?:for|from|in) (?:the )?(?:season )?([0-9]{4})`),
				regexp.MustCompile(`([0-9]{4}) draft picks?`),
			},
			Priority: PrioritySpecific,
			Extract:  CaptureAs("season"),
		},
		{
			Function: "get_league_drafts",
			Patterns: []*regexp.Regexp{
				regexp.MustCompile(`drafts?`),
				regexp.MustCompile(`seasons?\??$`),
			},
			Priority: PriorityNarrow,
			Extract:  NoParams,
		},
		{
			Function: "get_nfl_state",
			Patterns: []*regexp.Regexp{
				regexp.MustCompile(`(?:what|which) week`),
				regexp.MustCompile(`nfl state`),
			},
			Priority: PriorityNarrow,
			Extract:  NoParams,
		},

		// Catch-alls: a bare keyword with no qualifying phrase. These sit
		// in the broad tier so they can never shadow the rules above.
		{
			Function: "get_nfl_state",
			Patterns: []*regexp.Regexp{
				regexp.MustCompile(`\bnfl\b`),
				regexp.MustCompile(`\bseason\b`),
				regexp.MustCompile(`\bweek\b`),
			},
			Priority: PriorityBroad,
			Extract:  NoParams,
		},
		{
			Function: "get_league",
			Patterns: []*regexp.Regexp{
				regexp.MustCompile(`\bleague\b`),
			},
			Priority: PriorityBroad,
			Extract:  NoParams,
		},
	}
}
