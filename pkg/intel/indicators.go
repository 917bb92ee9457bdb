// Package intel harvests indicators of compromise from scammer messages:
// bank account numbers, UPI payment handles, links, phone numbers and
// suspicious vocabulary. Extraction is independent of classification; a
// message can yield indicators without ever classifying as a scam.
package intel

import "strings"

// IndicatorSet holds the five indicator collections. Each collection keeps
// unique values in first-seen order; UPI handles and keywords are stored
// lowercase, links and numbers exactly as matched to preserve their
// evidentiary value.
type IndicatorSet struct {
	BankAccounts       []string `json:"bankAccounts"`
	UPIIDs             []string `json:"upiIds"`
	PhishingLinks      []string `json:"phishingLinks"`
	PhoneNumbers       []string `json:"phoneNumbers"`
	SuspiciousKeywords []string `json:"suspiciousKeywords"`
}

// Merge appends every indicator from other that this set has not seen yet,
// preserving first-seen order. Returns the number of values added.
// UPI handles and keywords compare case-insensitively; the rest compare
// exactly.
func (s *IndicatorSet) Merge(other IndicatorSet) int {
	added := 0
	s.BankAccounts, added = appendUnique(s.BankAccounts, other.BankAccounts, false, added)
	s.UPIIDs, added = appendUnique(s.UPIIDs, other.UPIIDs, true, added)
	s.PhishingLinks, added = appendUnique(s.PhishingLinks, other.PhishingLinks, false, added)
	s.PhoneNumbers, added = appendUnique(s.PhoneNumbers, other.PhoneNumbers, false, added)
	s.SuspiciousKeywords, added = appendUnique(s.SuspiciousKeywords, other.SuspiciousKeywords, true, added)
	return added
}

// Total returns the number of indicators across all five collections.
func (s IndicatorSet) Total() int {
	return len(s.BankAccounts) + len(s.UPIIDs) + len(s.PhishingLinks) +
		len(s.PhoneNumbers) + len(s.SuspiciousKeywords)
}

// IsEmpty reports whether no indicator has been collected.
func (s IndicatorSet) IsEmpty() bool {
	return s.Total() == 0
}

// Clone returns a deep copy. Needed when a snapshot must outlive the
// session lock that protects the live set.
func (s IndicatorSet) Clone() IndicatorSet {
	return IndicatorSet{
		BankAccounts:       append([]string(nil), s.BankAccounts...),
		UPIIDs:             append([]string(nil), s.UPIIDs...),
		PhishingLinks:      append([]string(nil), s.PhishingLinks...),
		PhoneNumbers:       append([]string(nil), s.PhoneNumbers...),
		SuspiciousKeywords: append([]string(nil), s.SuspiciousKeywords...),
	}
}

func appendUnique(dst, src []string, foldCase bool, added int) ([]string, int) {
	seen := make(map[string]bool, len(dst))
	for _, v := range dst {
		seen[dedupKey(v, foldCase)] = true
	}
	for _, v := range src {
		k := dedupKey(v, foldCase)
		if seen[k] {
			continue
		}
		seen[k] = true
		dst = append(dst, v)
		added++
	}
	return dst, added
}

func dedupKey(v string, foldCase bool) string {
	if foldCase {
		return strings.ToLower(v)
	}
	return v
}
