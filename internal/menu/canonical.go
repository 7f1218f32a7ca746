package menu

import (
	"strings"

	"github.com/agext/levenshtein"
	lru "github.com/hashicorp/golang-lru/v2"
	"github.com/pmezard/go-difflib/difflib"
)

const (
	// CanonicalCutoff is the minimum similarity for a fuzzy vocabulary hit.
	CanonicalCutoff = 0.85

	canonicalCacheSize = 512
)

// canonicalSubcategories maps known synonyms (lower-case) to the fixed vocabulary.
var canonicalSubcategories = map[string]string{
	"dessert":         "Dessert",
	"desserts":        "Dessert",
	"drinks":          "Drinks",
	"beverages":       "Drinks",
	"main dishes":     "Main Course",
	"main course":     "Main Course",
	"appetizer":       "Appetizer",
	"chef's specials": "Chef's Specials",
}

// Canonicalizer maps free-text subcategory labels onto the controlled vocabulary.
// Unknown labels are preserved (trimmed), never discarded.
type Canonicalizer struct {
	vocab map[string]string
	keys  []string
	fuzzy *lru.Cache[string, string]
}

func NewCanonicalizer() *Canonicalizer {
	keys := make([]string, 0, len(canonicalSubcategories))
	for k := range canonicalSubcategories {
		keys = append(keys, k)
	}
	// lru.New only fails on a non-positive size
	cache, _ := lru.New[string, string](canonicalCacheSize)
	return &Canonicalizer{
		vocab: canonicalSubcategories,
		keys:  keys,
		fuzzy: cache,
	}
}

// Canonical returns the vocabulary label for title, or the trimmed title when
// nothing in the vocabulary is close enough.
func (c *Canonicalizer) Canonical(title string) string {
	trimmed := strings.TrimSpace(title)
	key := strings.ToLower(trimmed)
	if canon, ok := c.vocab[key]; ok {
		return canon
	}
	if match, ok := c.closest(key); ok {
		return c.vocab[match]
	}
	return trimmed
}

// closest finds the vocabulary key most similar to key at or above the cutoff.
func (c *Canonicalizer) closest(key string) (string, bool) {
	if key == "" {
		return "", false
	}
	if hit, ok := c.fuzzy.Get(key); ok {
		return hit, hit != ""
	}
	match, ok := ClosestMatch(key, c.keys, CanonicalCutoff)
	c.fuzzy.Add(key, match)
	return match, ok
}

// ClosestMatch returns the candidate whose matching-blocks ratio against s
// (2*M/T, as difflib computes it) is highest, provided it reaches cutoff.
// Ties go to the smaller edit distance, then the lexically smaller candidate.
func ClosestMatch(s string, candidates []string, cutoff float64) (string, bool) {
	word := splitRunes(s)
	best := ""
	bestScore, bestDist := -1.0, 0
	for _, cand := range candidates {
		score := difflib.NewMatcher(splitRunes(cand), word).Ratio()
		if score < cutoff {
			continue
		}
		dist := levenshtein.Distance(s, cand, nil)
		switch {
		case score > bestScore,
			score == bestScore && dist < bestDist,
			score == bestScore && dist == bestDist && cand < best:
			best, bestScore, bestDist = cand, score, dist
		}
	}
	return best, bestScore >= cutoff
}

func splitRunes(s string) []string {
	out := make([]string, 0, len(s))
	for _, r := range s {
		out = append(out, string(r))
	}
	return out
}
