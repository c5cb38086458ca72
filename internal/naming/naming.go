package naming

import "strings"

// Candidate is a possible display name for a region, tagged with the GeoJSON
// property it was read from. A non-zero Base replaces the built-in score of
// Source.
type Candidate struct {
	Name   string
	Source string
	Base   int
}

type normalizedCandidate struct {
	Source      string
	DisplayName string
	Score       int
}

// minScore is the quality bar a candidate must clear to be used as a display name.
const minScore = 60

// Caller-named sources score customTop for the first key and customStep less
// for each later one, never below customFloor.
const (
	customTop   = 95
	customStep  = 2
	customFloor = 70
)

// DefaultSources lists the property keys consulted for display names, in the
// order they are read from a feature.
var DefaultSources = []string{"NAME", "NAME_EN", "ADMIN", "name", "NAME_LONG", "SOVEREIGNT", "FORMAL_EN"}

func NormalizeCandidate(source, rawName string) (displayName string, score int, ok bool) {
	return normalize(strings.TrimSpace(source), rawName, 0)
}

func normalize(source, rawName string, base int) (string, int, bool) {
	name := strings.Join(strings.Fields(rawName), " ")
	if name == "" {
		return "", 0, false
	}

	if base == 0 {
		base = sourceBase(source)
	}
	s := scoreCandidate(base, name)
	if s < 0 {
		return name, s, false
	}
	return name, s, true
}

// ChooseBestDisplayName returns the highest scoring candidate, or ok=false when
// none clears the quality bar.
func ChooseBestDisplayName(candidates []Candidate) (string, bool) {
	best := normalizedCandidate{Score: -1_000_000}

	for _, c := range candidates {
		display, score, ok := normalize(strings.TrimSpace(c.Source), c.Name, c.Base)
		if !ok || score < minScore {
			continue
		}
		next := normalizedCandidate{
			Source:      c.Source,
			DisplayName: display,
			Score:       score,
		}
		if betterCandidate(next, best) {
			best = next
		}
	}

	if best.Score < minScore || best.DisplayName == "" {
		return "", false
	}
	return best.DisplayName, true
}

// CandidatesFromProperties collects string-valued properties named in sources.
// When sources is given, earlier keys outrank later ones regardless of their
// built-in scores.
func CandidatesFromProperties(props map[string]any, sources []string) []Candidate {
	custom := len(sources) > 0
	if !custom {
		sources = DefaultSources
	}
	out := make([]Candidate, 0, len(sources))
	for i, key := range sources {
		v, ok := props[key].(string)
		if !ok {
			continue
		}
		c := Candidate{Name: v, Source: key}
		if custom {
			c.Base = max(customTop-i*customStep, customFloor)
		}
		out = append(out, c)
	}
	return out
}

func betterCandidate(a, b normalizedCandidate) bool {
	if a.Score != b.Score {
		return a.Score > b.Score
	}
	// Shorter names win a tie; long formal names crowd the tooltip.
	if len(a.DisplayName) != len(b.DisplayName) {
		return len(a.DisplayName) < len(b.DisplayName)
	}
	return a.DisplayName < b.DisplayName
}

func sourceBase(source string) int {
	switch source {
	case "NAME":
		return 95
	case "NAME_EN":
		return 92
	case "ADMIN":
		return 90
	case "name":
		return 88
	case "NAME_LONG":
		return 85
	case "SOVEREIGNT":
		return 80
	case "FORMAL_EN":
		return 75
	}
	return 50
}

func scoreCandidate(base int, name string) int {
	if looksGarbage(strings.ToLower(name)) {
		return -1
	}

	if len([]rune(name)) < 2 {
		base -= 50
	}
	if len(name) > 40 {
		base -= 10
	}
	if !hasLetter(name) {
		base -= 40
	}

	return base
}

func hasLetter(value string) bool {
	for _, r := range value {
		if r >= '0' && r <= '9' {
			continue
		}
		switch r {
		case ' ', '-', '_', '.', ',', '(', ')':
			continue
		}
		return true
	}
	return false
}

func looksGarbage(normalized string) bool {
	switch normalized {
	case "", "-99", "null", "none", "n/a", "na", "unknown", "undefined":
		return true
	}
	return false
}
