package intel

import (
	"regexp"
	"strings"

	"github.com/trapline/trapline/pkg/patterns"
)

// Package-level compiled regex patterns for extraction (compiled once).
var (
	// Maximal digit runs; length decides account vs phone treatment.
	reDigitRun = regexp.MustCompile(`\d+`)

	// 16-digit account/card style in 4-4-4-4 groups; each separator is
	// optional so mixed forms like 1234-56789012-3456 still match.
	reGroupedAccount = regexp.MustCompile(`\b\d{4}[-\s]?\d{4}[-\s]?\d{4}[-\s]?\d{4}\b`)

	// IFSC-style bank codes: 4 letters, a zero, 6 alphanumerics
	reIFSC = regexp.MustCompile(`\b[A-Z]{4}0[A-Z0-9]{6}\b`)

	// UPI handles against the closed provider suffix list
	reUPI = regexp.MustCompile(`(?i)\b[\w.\-]+@(paytm|phonepe|gpay|upi|ybl|oksbi|okaxis|okicici|okhdfcbank|okbizaxis|ibl|axl)\b`)

	// Links: explicit schemes first, then www forms, then bare domains with a
	// known or plausible top-level suffix. Alternation order matters so a full
	// URL is consumed before its host can match the bare-domain branch.
	reLink = regexp.MustCompile(`https?://[^\s]+|www\.[^\s]+|\b[a-zA-Z0-9][\w\-]*\.(?:com|in|org|net|co\.in|xyz|click|top|online|site|info|biz)(?:/[^\s]*)?`)

	// International phone form: leading + and country code
	reIntlPhone = regexp.MustCompile(`\+\d{1,4}[-\s]?\d{10}\b`)
)

// Extractor pulls typed indicators out of a single message.
// Stateless and safe for concurrent use.
type Extractor struct {
	vocabulary []string
}

// NewExtractor returns an extractor using the shared suspicious-keyword
// vocabulary from the pattern library.
func NewExtractor() *Extractor {
	return &Extractor{vocabulary: patterns.Get().Vocabulary()}
}

// Extract returns a fresh IndicatorSet containing only what this message
// reveals. Empty input yields an empty set, never an error.
func (e *Extractor) Extract(text string) IndicatorSet {
	var set IndicatorSet
	if text == "" {
		return set
	}

	set.BankAccounts, set.PhoneNumbers = extractNumbers(text)
	set.UPIIDs = extractUPIHandles(text)
	set.PhishingLinks = extractLinks(text)
	set.SuspiciousKeywords = e.extractKeywords(text)

	return set
}

// extractNumbers walks maximal digit runs so a 10-digit span inside a longer
// account number is never double-reported as a phone number (longest-match
// precedence). A standalone 10-digit run is both a plausible account number
// and a plausible phone number and lands in both collections.
func extractNumbers(text string) (accounts, phones []string) {
	var accRaw, phoneRaw []string

	// Grouped 16-digit forms (1234-5678-9012-3456) normalize to bare digits.
	grouped := make(map[string]bool)
	for _, m := range reGroupedAccount.FindAllString(text, -1) {
		normalized := strings.NewReplacer(" ", "", "-", "").Replace(m)
		accRaw = append(accRaw, normalized)
		grouped[normalized] = true
	}

	// International numbers are captured before bare-run scanning; their digit
	// runs are excluded below so the country code is not re-reported.
	intlSpans := reIntlPhone.FindAllStringIndex(text, -1)
	for _, span := range intlSpans {
		phoneRaw = append(phoneRaw, text[span[0]:span[1]])
	}

	for _, span := range reDigitRun.FindAllStringIndex(text, -1) {
		if insideAny(span, intlSpans) {
			continue
		}
		run := text[span[0]:span[1]]
		if len(run) >= 9 && len(run) <= 18 && !grouped[run] {
			accRaw = append(accRaw, run)
		}
		// 10 bare digits, or 11 with a trunk-prefix zero (09876543210).
		if len(run) == 10 || (len(run) == 11 && run[0] == '0') {
			phoneRaw = append(phoneRaw, run)
		}
	}

	// IFSC codes are a distinct capture into the account collection.
	upper := strings.ToUpper(text)
	accRaw = append(accRaw, reIFSC.FindAllString(upper, -1)...)

	accounts, _ = appendUnique(nil, accRaw, false, 0)
	phones, _ = appendUnique(nil, phoneRaw, false, 0)
	return accounts, phones
}

func extractUPIHandles(text string) []string {
	var raw []string
	for _, m := range reUPI.FindAllString(text, -1) {
		raw = append(raw, strings.ToLower(m))
	}
	out, _ := appendUnique(nil, raw, true, 0)
	return out
}

func extractLinks(text string) []string {
	out, _ := appendUnique(nil, reLink.FindAllString(text, -1), false, 0)
	return out
}

func (e *Extractor) extractKeywords(text string) []string {
	lower := strings.ToLower(text)
	var found []string
	for _, word := range e.vocabulary {
		if strings.Contains(lower, word) {
			found = append(found, word)
		}
	}
	return found
}

// insideAny reports whether span lies within any of the consumed spans.
func insideAny(span []int, consumed [][]int) bool {
	for _, c := range consumed {
		if span[0] >= c[0] && span[1] <= c[1] {
			return true
		}
	}
	return false
}
