package deckgen

import "regexp"

// tagPattern matches control tags embedded in slide notes. The identifier
// is ASCII letters, digits, and underscores; anything that does not match
// the exact grammar is ignored rather than reported.
var tagPattern = regexp.MustCompile(`\[\[tag:([A-Za-z0-9_]+)\]\]`)

// ExtractTags returns the set of control tag names found in a slide's notes
// text, in order of first appearance with duplicates collapsed. Empty notes
// yield an empty result.
func ExtractTags(notes string) []string {
	matches := tagPattern.FindAllStringSubmatch(notes, -1)
	if len(matches) == 0 {
		return nil
	}

	seen := make(map[string]bool, len(matches))
	tags := make([]string, 0, len(matches))
	for _, m := range matches {
		if !seen[m[1]] {
			seen[m[1]] = true
			tags = append(tags, m[1])
		}
	}
	return tags
}

// ShouldRemove reports whether a slide carrying the given tags should be
// dropped. A slide is removed when any tag maps to false in toggles; a tag
// absent from toggles defaults to include. A slide with no tags is never
// removed. Evaluation short-circuits on the first excluded tag.
func ShouldRemove(tags []string, toggles map[string]bool) bool {
	for _, tag := range tags {
		if include, ok := toggles[tag]; ok && !include {
			return true
		}
	}
	return false
}
