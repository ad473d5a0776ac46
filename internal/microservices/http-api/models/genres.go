package models

import "strings"

// ParseGenres splits a comma-delimited genre field into trimmed labels,
// dropping empty entries. A nil or blank field yields no labels.
func ParseGenres(genre *string) []string {
	if genre == nil {
		return []string{}
	}
	parts := strings.Split(*genre, ",")
	labels := make([]string, 0, len(parts))
	for _, p := range parts {
		if label := strings.TrimSpace(p); label != "" {
			labels = append(labels, label)
		}
	}
	return labels
}

// UniqueGenres is ParseGenres with repeated labels removed, first occurrence wins.
func UniqueGenres(genre *string) []string {
	labels := ParseGenres(genre)
	seen := make(map[string]struct{}, len(labels))
	out := labels[:0]
	for _, l := range labels {
		if _, dup := seen[l]; dup {
			continue
		}
		seen[l] = struct{}{}
		out = append(out, l)
	}
	return out
}

// JoinGenres is the inverse of ParseGenres: labels joined as "a, b".
func JoinGenres(labels []string) *string {
	cleaned := make([]string, 0, len(labels))
	for _, l := range labels {
		if l = strings.TrimSpace(l); l != "" {
			cleaned = append(cleaned, l)
		}
	}
	if len(cleaned) == 0 {
		return nil
	}
	s := strings.Join(cleaned, ", ")
	return &s
}
