// Package patterns provides the read-only pattern library for scam detection.
// All regex patterns and weighted trigger words are compiled once at first use
// and shared across the classifier and the intelligence extractor.
//
// Design principles:
// - COMPILE ONCE: All patterns compiled at init, not per-message
// - DRY: Single source of truth for scam signals and suspicious vocabulary
// - CATEGORIZED: Patterns organized by scam category for weighted scoring
// - READ-ONLY: The registry never mutates after initialization
package patterns

import (
	"regexp"
	"sync"
)

// Category represents a scam classification category
type Category string

const (
	CategoryBankFraud     Category = "bank_fraud"
	CategoryUPIFraud      Category = "upi_fraud"
	CategoryPhishing      Category = "phishing"
	CategoryFakeOffer     Category = "fake_offer"
	CategoryImpersonation Category = "impersonation"
	CategoryOTPFraud      Category = "otp_fraud"

	// CategoryNone indicates no category scored above zero
	CategoryNone Category = "none"
)

// categoryPriority is the fixed tie-break order when two categories score
// equally. Financial-harm categories rank above lower-severity ones so they
// are never masked by a tie.
var categoryPriority = []Category{
	CategoryBankFraud,
	CategoryUPIFraud,
	CategoryOTPFraud,
	CategoryPhishing,
	CategoryImpersonation,
	CategoryFakeOffer,
}

// ScamCategories returns all non-none categories in tie-break priority order.
// Callers must not mutate the returned slice.
func ScamCategories() []Category {
	return categoryPriority
}

// Priority returns the tie-break rank of a category (lower wins).
// Unknown categories (including "none") rank last.
func Priority(cat Category) int {
	for i, c := range categoryPriority {
		if c == cat {
			return i
		}
	}
	return len(categoryPriority)
}

// Pattern holds a compiled regex with its score contribution
type Pattern struct {
	Name        string         // Human-readable name for logging
	Regex       *regexp.Regexp // Compiled regex (never nil after init)
	Category    Category       // Scam category this signal feeds
	Weight      int            // Score contribution when matched
	Description string         // What this pattern detects
}

// Trigger is a bare trigger word (or phrase) with an integer weight.
// Triggers match by case-insensitive substring, the same way the
// suspicious-keyword vocabulary does.
type Trigger struct {
	Word   string
	Weight int
}

// Registry holds all compiled patterns and trigger lexicons by category,
// plus the suspicious-keyword vocabulary used by the extractor.
type Registry struct {
	mu         sync.RWMutex
	byCategory map[Category][]*Pattern
	triggers   map[Category][]Trigger
	vocabulary []string
	all        []*Pattern
}

// global singleton - initialized once at first use
var (
	globalRegistry *Registry
	initOnce       sync.Once
)

// Get returns the global pattern registry (singleton)
// Thread-safe and guaranteed to be initialized
func Get() *Registry {
	initOnce.Do(func() {
		globalRegistry = newRegistry()
	})
	return globalRegistry
}

// newRegistry creates and populates the pattern registry
func newRegistry() *Registry {
	r := &Registry{
		byCategory: make(map[Category][]*Pattern),
		triggers:   make(map[Category][]Trigger),
		all:        make([]*Pattern, 0, 64),
	}

	r.registerBankFraudPatterns()
	r.registerUPIFraudPatterns()
	r.registerPhishingPatterns()
	r.registerFakeOfferPatterns()
	r.registerImpersonationPatterns()
	r.registerOTPFraudPatterns()
	r.registerSuspiciousVocabulary()

	return r
}

// register adds a regex pattern to the registry (internal use only).
// All scam patterns are matched case-insensitively.
func (r *Registry) register(name string, pattern string, category Category, weight int, description string) {
	compiled := regexp.MustCompile(`(?i)` + pattern)
	p := &Pattern{
		Name:        name,
		Regex:       compiled,
		Category:    category,
		Weight:      weight,
		Description: description,
	}

	r.byCategory[category] = append(r.byCategory[category], p)
	r.all = append(r.all, p)
}

// trigger adds a weighted trigger word to a category's lexicon.
func (r *Registry) trigger(category Category, word string, weight int) {
	r.triggers[category] = append(r.triggers[category], Trigger{Word: word, Weight: weight})
}

// PatternsFor returns all regex patterns for a category.
// Returns empty slice if category not found (never nil)
func (r *Registry) PatternsFor(cat Category) []*Pattern {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if patterns, ok := r.byCategory[cat]; ok {
		return patterns
	}
	return []*Pattern{}
}

// TriggersFor returns the weighted trigger lexicon for a category.
func (r *Registry) TriggersFor(cat Category) []Trigger {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if triggers, ok := r.triggers[cat]; ok {
		return triggers
	}
	return []Trigger{}
}

// Vocabulary returns the suspicious-keyword list used by the extractor.
// All entries are lowercase. Callers must not mutate the returned slice.
func (r *Registry) Vocabulary() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.vocabulary
}

// TotalPatterns returns the total count of registered regex patterns
func (r *Registry) TotalPatterns() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.all)
}

// CategoryCount returns the number of regex patterns in a category
func (r *Registry) CategoryCount(cat Category) int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.byCategory[cat])
}

// TriggerCount returns the number of trigger words in a category
func (r *Registry) TriggerCount(cat Category) int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.triggers[cat])
}
