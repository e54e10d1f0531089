// Package relevance implements the tiered-match scoring policy every provider
// applies to its own candidates, so cross-type ranking stays comparable.
package relevance

import "strings"

// Tier weights. A field contributes its best matching tier; fields are additive,
// so a record matching on more axes outranks one matching on fewer.
const (
	// PrimaryExact is an exact case-insensitive match on the primary display field.
	PrimaryExact = 100.0
	// PrimaryPrefix is a primary field starting with the query.
	PrimaryPrefix = 75.0
	// PrimaryContains is a primary field containing the query.
	PrimaryContains = 50.0
	// SecondaryExact is an exact match on a secondary identifying field (SKU, slug).
	SecondaryExact = 90.0
	// SecondaryContains is a substring match on the secondary field.
	SecondaryContains = 40.0
	// ExcerptContains is a substring match in a short long-form field (excerpt,
	// summary). Slightly above BodyContains so the more specific field wins ties.
	ExcerptContains = 25.0
	// BodyContains is a substring match in the full long-form field.
	BodyContains = 20.0
)

// Fields holds the searchable fields of one candidate record.
// Empty fields contribute nothing.
type Fields struct {
	Primary   string
	Secondary string
	Excerpt   string
	Body      string
}

// Score computes the tiered-match score of a candidate for the given query text.
// Matching is case-insensitive. The result is never negative; a candidate that
// matches no field scores zero (providers filter such records out before scoring).
func Score(queryText string, f Fields) float64 {
	q := strings.ToLower(strings.TrimSpace(queryText))
	if q == "" {
		return 0
	}

	var score float64
	score += primaryTier(q, strings.ToLower(f.Primary))
	score += secondaryTier(q, strings.ToLower(f.Secondary))
	if contains(strings.ToLower(f.Excerpt), q) {
		score += ExcerptContains
	}
	if contains(strings.ToLower(f.Body), q) {
		score += BodyContains
	}
	return score
}

// Matches reports whether the candidate would be returned by the provider's own
// search predicate for this query.
func Matches(queryText string, f Fields) bool {
	q := strings.ToLower(strings.TrimSpace(queryText))
	if q == "" {
		return false
	}
	return contains(strings.ToLower(f.Primary), q) ||
		contains(strings.ToLower(f.Secondary), q) ||
		contains(strings.ToLower(f.Excerpt), q) ||
		contains(strings.ToLower(f.Body), q)
}

func primaryTier(q, primary string) float64 {
	switch {
	case primary == "":
		return 0
	case primary == q:
		return PrimaryExact
	case strings.HasPrefix(primary, q):
		return PrimaryPrefix
	case strings.Contains(primary, q):
		return PrimaryContains
	}
	return 0
}

func secondaryTier(q, secondary string) float64 {
	switch {
	case secondary == "":
		return 0
	case secondary == q:
		return SecondaryExact
	case strings.Contains(secondary, q):
		return SecondaryContains
	}
	return 0
}

func contains(field, q string) bool {
	return field != "" && strings.Contains(field, q)
}
