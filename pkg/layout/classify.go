package layout

import (
	"regexp"
	"strings"
)

// =============================================================================
// Coastal Classifier
// =============================================================================

// inlandKeywords suppress coastal placement. Matched by substring against
// the lowercased free text; any hit wins over every coastal keyword, which
// keeps incidental word overlap ("a rural fishing village") from pushing a
// location out to the coast.
var inlandKeywords = []string{
	"mountain",
	"inland",
	"valley",
	"rural",
	"trade hub",
	"farming",
	"farmland",
	"plains",
	"prairie",
	"steppe",
	"desert",
	"forest",
	"woodland",
	"hill country",
	"highlands",
	"landlocked",
	"mining",
	"quarry",
	"vineyard",
	"orchard",
	"grassland",
	"tundra",
	"canyon",
	"foothills",
	"interior",
}

// coastalKeywords bias placement toward the map edge. Multi-word phrases
// match as substrings; single words match on word boundaries so "sea"
// never fires inside "seahorse".
var coastalKeywords = []string{
	"harbor",
	"harbour",
	"coastal",
	"coast",
	"port city",
	"port town",
	"seaport",
	"island",
	"lighthouse",
	"fishing village",
	"fishing fleet",
	"bay",
	"sea",
	"ocean",
	"beach",
	"shore",
	"shoreline",
	"tidal",
	"wharf",
	"dock",
	"pier",
	"naval",
	"maritime",
	"archipelago",
	"lagoon",
	"estuary",
	"peninsula",
	"cove",
	"reef",
	"ferry",
}

// coastalWordRe holds the precompiled word-boundary matchers for the
// single-word coastal keywords.
var coastalWordRe = func() map[string]*regexp.Regexp {
	m := make(map[string]*regexp.Regexp)
	for _, kw := range coastalKeywords {
		if !strings.Contains(kw, " ") {
			m[kw] = regexp.MustCompile(`\b` + regexp.QuoteMeta(kw) + `\b`)
		}
	}
	return m
}()

// Coastal classifies a location's free text as coastal (true) or
// inland/neutral (false). Empty text is inland. Inland evidence always
// wins over coastal evidence.
//
// This is a heuristic, not a classifier with precision guarantees: it is
// deliberately conservative, preferring false negatives over a map where
// every mention of water drags a town to the edge.
func Coastal(summary, overview, tags string) bool {
	text := strings.ToLower(summary + " " + overview + " " + tags)
	if strings.TrimSpace(text) == "" {
		return false
	}

	for _, kw := range inlandKeywords {
		if strings.Contains(text, kw) {
			return false
		}
	}

	for _, kw := range coastalKeywords {
		if re, ok := coastalWordRe[kw]; ok {
			if re.MatchString(text) {
				return true
			}
			continue
		}
		if strings.Contains(text, kw) {
			return true
		}
	}

	return false
}
