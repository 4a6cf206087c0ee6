package mapper

// This file contains the lexical tag extraction applied to spec and
// group titles.

import (
	"regexp"
	"strings"

	"github.com/testpulse/testpulse-go/model"
)

var (
	bracketPattern = regexp.MustCompile(`\[([^\]]*)\]`)
	atPattern      = regexp.MustCompile(`@([a-zA-Z0-9_-]+)`)
	hashPattern    = regexp.MustCompile(`#([a-zA-Z0-9_-]+)`)
)

// ExtractTags scans a title for embedded category markers and returns the
// candidate tag names in pattern-priority order: bracket groups first, then
// at-mentions, then hash-mentions, left to right within each pattern.
// Duplicates are kept; callers deduplicate across titles.
func ExtractTags(title string) []string {
	var names []string

	for _, m := range bracketPattern.FindAllStringSubmatch(title, -1) {
		for _, piece := range strings.Split(m[1], ",") {
			piece = strings.TrimSpace(piece)
			if piece != "" {
				names = append(names, piece)
			}
		}
	}

	for _, m := range atPattern.FindAllStringSubmatch(title, -1) {
		names = append(names, m[1])
	}

	for _, m := range hashPattern.FindAllStringSubmatch(title, -1) {
		names = append(names, m[1])
	}

	return names
}

// collectTags runs ExtractTags over the spec's own title and each ancestor
// title, deduplicates by name (first occurrence wins) and assigns dense
// 1-based IDs. A spec without any marker gets the single "default" tag.
func collectTags(title string, ancestors []string) []model.Tag {
	names := ExtractTags(title)
	for _, ancestor := range ancestors {
		names = append(names, ExtractTags(ancestor)...)
	}

	seen := make(map[string]struct{}, len(names))
	var tags []model.Tag
	for _, name := range names {
		if _, ok := seen[name]; ok {
			continue
		}
		seen[name] = struct{}{}
		tags = append(tags, model.Tag{ID: len(tags) + 1, Name: name})
	}

	if len(tags) == 0 {
		tags = []model.Tag{{ID: 1, Name: "default"}}
	}
	return tags
}
