package recommend

import (
	"encoding/json"
	"fmt"
	"regexp"
	"strings"
)

var fencedBlockRe = regexp.MustCompile("(?s)```(?:json)?\\s*(.+?)\\s*```")

// parseNameLines extracts one name per non-empty line, stripping list bullets.
func parseNameLines(text string) []string {
	var names []string
	for _, line := range strings.Split(strings.TrimSpace(text), "\n") {
		name := strings.TrimSpace(strings.TrimLeft(strings.TrimSpace(line), "-*• "))
		if name == "" {
			continue
		}
		names = append(names, name)
	}
	return names
}

type namedPicks struct {
	Tracks  []string `json:"tracks"`
	Artists []string `json:"artists"`
	Albums  []string `json:"albums"`
}

// parsePicksJSON pulls the JSON object out of the model's reply, tolerating a
// fenced code block around it.
func parsePicksJSON(text string) (namedPicks, error) {
	cleaned := strings.TrimSpace(text)
	if match := fencedBlockRe.FindStringSubmatch(cleaned); match != nil {
		cleaned = strings.TrimSpace(match[1])
	}

	var picks namedPicks
	if err := json.Unmarshal([]byte(cleaned), &picks); err != nil {
		return namedPicks{}, fmt.Errorf("parsing picks json: %w", err)
	}
	return picks, nil
}
