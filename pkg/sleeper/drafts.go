package sleeper

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
)

// draft carries the fields of a Sleeper draft object the client cares
// about; the rest of the payload is preserved verbatim.
type draft struct {
	DraftID string `json:"draft_id"`
	Season  string `json:"season"`
}

// pick is the raw Sleeper draft pick shape.
type pick struct {
	Round    int `json:"round"`
	PickNo   int `json:"pick_no"`
	Metadata struct {
		FirstName string `json:"first_name"`
		LastName  string `json:"last_name"`
		Number    string `json:"number"`
		Team      string `json:"team"`
	} `json:"metadata"`
}

// simplifiedPick is the trimmed pick representation returned to callers.
// Full pick payloads are large and mostly noise for a conversational reply.
type simplifiedPick struct {
	FirstName  string `json:"first_name"`
	LastName   string `json:"last_name"`
	Number     string `json:"number"`
	Team       string `json:"team"`
	Round      int    `json:"round"`
	PickNumber int    `json:"pick_number"`
}

// maxPicksPerDraft caps how many picks of a draft are returned.
const maxPicksPerDraft = 12

// draftsBySeason fetches a league's drafts and groups them by season.
func (c *Client) draftsBySeason(ctx context.Context, function, leagueID string) (json.RawMessage, error) {
	data, err := c.getJSON(ctx, function, "/league/"+url.PathEscape(leagueID)+"/drafts")
	if err != nil {
		return nil, err
	}

	var drafts []json.RawMessage
	if err := json.Unmarshal(data, &drafts); err != nil {
		return nil, fmt.Errorf("decoding drafts: %w", err)
	}

	bySeason := make(map[string][]json.RawMessage)
	for _, raw := range drafts {
		var d draft
		if err := json.Unmarshal(raw, &d); err != nil {
			continue
		}
		bySeason[d.Season] = append(bySeason[d.Season], raw)
	}

	return json.Marshal(bySeason)
}

// draftPicks fetches a draft's picks and simplifies them.
func (c *Client) draftPicks(ctx context.Context, function, draftID string) (json.RawMessage, error) {
	data, err := c.getJSON(ctx, function, "/draft/"+url.PathEscape(draftID)+"/picks")
	if err != nil {
		return nil, err
	}

	var picks []pick
	if err := json.Unmarshal(data, &picks); err != nil {
		return nil, fmt.Errorf("decoding picks: %w", err)
	}

	return json.Marshal(simplify(picks))
}

// seasonPicks collects the picks of every draft a league held in the
// given season. An unknown season is a failure, not an empty success, so
// the composer can tell the user directly.
func (c *Client) seasonPicks(ctx context.Context, function, leagueID, season string) (json.RawMessage, error) {
	data, err := c.getJSON(ctx, function, "/league/"+url.PathEscape(leagueID)+"/drafts")
	if err != nil {
		return nil, err
	}

	var drafts []draft
	if err := json.Unmarshal(data, &drafts); err != nil {
		return nil, fmt.Errorf("decoding drafts: %w", err)
	}

	var all []simplifiedPick
	found := false
	for _, d := range drafts {
		if d.Season != season {
			continue
		}
		found = true

		pickData, err := c.getJSON(ctx, function, "/draft/"+url.PathEscape(d.DraftID)+"/picks")
		if err != nil {
			return nil, err
		}
		var picks []pick
		if err := json.Unmarshal(pickData, &picks); err != nil {
			return nil, fmt.Errorf("decoding picks for draft %s: %w", d.DraftID, err)
		}
		all = append(all, simplify(picks)...)
	}

	if !found {
		return nil, fmt.Errorf("no drafts found for season %s", season)
	}
	return json.Marshal(all)
}

func simplify(picks []pick) []simplifiedPick {
	if len(picks) > maxPicksPerDraft {
		picks = picks[:maxPicksPerDraft]
	}
	out := make([]simplifiedPick, 0, len(picks))
	for _, p := range picks {
		out = append(out, simplifiedPick{
			FirstName:  p.Metadata.FirstName,
			LastName:   p.Metadata.LastName,
			Number:     p.Metadata.Number,
			Team:       p.Metadata.Team,
			Round:      p.Round,
			PickNumber: p.PickNo,
		})
	}
	return out
}
