package discord

import (
	"fmt"
	"strings"
)

// MessageLimit is the maximum length of one outgoing Discord message,
// kept below Discord's 2000-character cap to leave room for formatting.
const MessageLimit = 1900

// partLabelRoom reserves space in each chunk for the "Part i/n:" label.
const partLabelRoom = len("Part 99/99:\n")

// Chunk splits reply text into Discord-sized messages. Text within the
// limit is returned as a single unlabeled message. Longer text is split
// preferring line boundaries, and each piece is labeled "Part i/n" so
// readers can tell the messages belong together.
func Chunk(text string) []string {
	if len(text) <= MessageLimit {
		return []string{text}
	}

	budget := MessageLimit - partLabelRoom
	var parts []string
	rest := text
	for len(rest) > 0 {
		if len(rest) <= budget {
			parts = append(parts, rest)
			break
		}
		cut := strings.LastIndex(rest[:budget], "\n")
		if cut <= 0 {
			cut = budget
		}
		parts = append(parts, strings.TrimRight(rest[:cut], "\n"))
		rest = strings.TrimLeft(rest[cut:], "\n")
	}

	for i := range parts {
		parts[i] = fmt.Sprintf("Part %d/%d:\n%s", i+1, len(parts), parts[i])
	}
	return parts
}
