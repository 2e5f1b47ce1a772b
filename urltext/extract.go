// Package urltext extracts web links from free-form chat text for the
// bookmark hand-off.
package urltext

import (
	"regexp"
	"strings"
)

var urlPattern = regexp.MustCompile(`https?://[^\s<>"']+`)

// Extract returns the http(s) URLs found in text, in order of
// appearance, with trailing punctuation trimmed.
func Extract(text string) []string {
	if text == "" {
		return nil
	}
	var urls []string
	for _, match := range urlPattern.FindAllString(text, -1) {
		urls = append(urls, strings.TrimRight(match, ".,;:!?)"))
	}
	return urls
}

// Union merges URL lists preserving first-seen order and dropping
// duplicates and empty entries.
func Union(lists ...[]string) []string {
	seen := make(map[string]bool)
	var merged []string
	for _, list := range lists {
		for _, u := range list {
			u = strings.TrimSpace(u)
			if u == "" || seen[u] {
				continue
			}
			seen[u] = true
			merged = append(merged, u)
		}
	}
	return merged
}
