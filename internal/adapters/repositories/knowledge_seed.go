package repositories

import (
	"encoding/json"
	"fmt"
	"net/url"
	"os"
	"strings"
)

// KnowledgeSeed is one document listed in the knowledge seed file.
type KnowledgeSeed struct {
	URL   string `json:"url"`
	Title string `json:"title,omitempty"`
}

// LoadKnowledgeSeeds reads a JSON array of documents and returns their
// URLs in file order, duplicates removed.
func LoadKnowledgeSeeds(path string) ([]string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("knowledge seeds: read %q: %w", path, err)
	}

	var seeds []KnowledgeSeed
	if err := json.Unmarshal(data, &seeds); err != nil {
		return nil, fmt.Errorf("knowledge seeds: parse json: %w", err)
	}

	seen := make(map[string]struct{}, len(seeds))
	urls := make([]string, 0, len(seeds))
	for i, s := range seeds {
		u := strings.TrimSpace(s.URL)
		if u == "" {
			return nil, fmt.Errorf("knowledge seeds: item %d: url cannot be empty", i+1)
		}
		parsed, err := url.Parse(u)
		if err != nil || (parsed.Scheme != "http" && parsed.Scheme != "https") {
			return nil, fmt.Errorf("knowledge seeds: item %d: invalid url %q", i+1, u)
		}
		if _, dup := seen[u]; dup {
			continue
		}
		seen[u] = struct{}{}
		urls = append(urls, u)
	}
	return urls, nil
}
