package compose

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/couchgm/couchgm/pkg/api"
)

// maxRawChars bounds how much of an unrecognized payload the fallback
// renders, to keep output chunkable by downstream transports.
const maxRawChars = 300

// maxListSamples is how many entries of a list payload are shown.
const maxListSamples = 3

// renderFallback walks the result list and produces one block per result:
// failures become a visible notice with the error message, successes get a
// type-specific summary.
func renderFallback(results []api.FunctionResult) string {
	var lines []string
	for _, r := range results {
		if !r.OK() {
			lines = append(lines, "Sorry, that lookup failed: "+r.Error)
			continue
		}
		lines = append(lines, summarize(r))
	}
	return strings.Join(lines, "\n")
}

// summarize renders one successful payload. Shapes it recognizes: a
// user-shaped object (username/display name), a named entity, and a
// list. Anything else is truncated raw JSON.
func summarize(r api.FunctionResult) string {
	var value any
	if err := json.Unmarshal(r.Data, &value); err != nil {
		return truncate(string(r.Data), maxRawChars)
	}

	switch v := value.(type) {
	case map[string]any:
		if username, ok := stringField(v, "username"); ok {
			display, _ := stringField(v, "display_name")
			if display != "" {
				return fmt.Sprintf("User %s (display name: %s).", username, display)
			}
			return fmt.Sprintf("User %s.", username)
		}
		if name, ok := stringField(v, "name"); ok {
			return fmt.Sprintf("%s: %s.", r.Function, name)
		}
		return r.Function + ": " + truncate(compact(r.Data), maxRawChars)

	case []any:
		return listSummary(r.Function, v)

	default:
		return r.Function + ": " + truncate(compact(r.Data), maxRawChars)
	}
}

func listSummary(function string, items []any) string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s returned %d entries.", function, len(items))
	for i, item := range items {
		if i == maxListSamples {
			break
		}
		data, err := json.Marshal(item)
		if err != nil {
			continue
		}
		b.WriteString("\n- " + truncate(string(data), maxRawChars))
	}
	return b.String()
}

func stringField(m map[string]any, key string) (string, bool) {
	s, ok := m[key].(string)
	return s, ok && s != ""
}

func compact(data json.RawMessage) string {
	var b bytes.Buffer
	if err := json.Compact(&b, data); err != nil {
		return string(data)
	}
	return b.String()
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
