// Package classify implements the weighted-heuristic scam classifier.
// It scores one message against every category in the pattern library and
// reports the strictly highest scorer; ties resolve by the library's fixed
// severity order and a zero maximum yields the "none" category.
package classify

import (
	"strings"

	"golang.org/x/text/unicode/norm"

	"github.com/trapline/trapline/pkg/patterns"
)

// Result is the outcome of classifying one message.
// Confidence is the winning raw score (a sum of signal weights, not
// normalized) so callers can compare confidence across turns.
type Result struct {
	Category   patterns.Category `json:"category"`
	Confidence int               `json:"confidence"`
	Matched    []string          `json:"matched,omitempty"` // signal names, for diagnostics
}

// Classifier scores messages against the pattern library.
// Stateless and safe for concurrent use.
type Classifier struct {
	lib *patterns.Registry
}

// New returns a classifier backed by the shared pattern library.
func New() *Classifier {
	return &Classifier{lib: patterns.Get()}
}

// Classify scores text against every scam category and returns the winner.
// Empty or unmatched text is a legitimate "none" result, never an error.
//
// Each regex pattern and each trigger word contributes its weight at most
// once per message, so repeated substrings cannot inflate the score.
func (c *Classifier) Classify(text string) Result {
	result := Result{Category: patterns.CategoryNone}
	if text == "" {
		return result
	}

	// Fold fullwidth/compatibility forms before matching so trivial unicode
	// evasion ("ｂｌｏｃｋｅｄ") hits the same signals as plain ASCII.
	folded := strings.ToLower(norm.NFKC.String(text))

	best := 0
	var bestMatched []string

	for _, cat := range patterns.ScamCategories() {
		score, matched := c.scoreCategory(folded, cat)
		// Strictly-greater keeps the earlier (higher-priority) category on ties.
		if score > best {
			best = score
			result.Category = cat
			bestMatched = matched
		}
	}

	if best == 0 {
		return Result{Category: patterns.CategoryNone}
	}

	result.Confidence = best
	result.Matched = bestMatched
	return result
}

// scoreCategory sums the weights of every distinct signal the text hits in
// one category: phrase regexes first, then the bare trigger lexicon.
func (c *Classifier) scoreCategory(folded string, cat patterns.Category) (int, []string) {
	score := 0
	var matched []string

	for _, p := range c.lib.PatternsFor(cat) {
		if p.Regex.MatchString(folded) {
			score += p.Weight
			matched = append(matched, p.Name)
		}
	}

	for _, tr := range c.lib.TriggersFor(cat) {
		if strings.Contains(folded, tr.Word) {
			score += tr.Weight
			matched = append(matched, tr.Word)
		}
	}

	return score, matched
}
