// Package report delivers the one-shot final report for a sufficiently
// engaged scam session. Delivery is fire-and-forget with bounded retries;
// the reply path never waits on it, and a session that fails all attempts
// is a silent loss.
package report

import (
	"fmt"

	"github.com/trapline/trapline/pkg/intel"
	"github.com/trapline/trapline/pkg/session"
)

// Payload is the report body posted to the callback endpoint.
type Payload struct {
	ConversationID         string             `json:"conversationId"`
	ScamDetected           bool               `json:"scamDetected"`
	TotalMessagesExchanged int                `json:"totalMessagesExchanged"`
	ExtractedIntelligence  intel.IndicatorSet `json:"extractedIntelligence"`
	AgentNotes             string             `json:"agentNotes"`
}

// Build assembles the report payload from a session snapshot.
func Build(snap session.ReportSnapshot) Payload {
	return Payload{
		ConversationID:         snap.ConversationID,
		ScamDetected:           snap.ScamDetected,
		TotalMessagesExchanged: snap.ScammerTurns,
		ExtractedIntelligence:  withArrays(snap.Intelligence),
		AgentNotes:             buildNotes(snap),
	}
}

// withArrays replaces nil collections with empty ones. The endpoint expects
// every collection as a JSON array; a nil slice would serialize as null.
func withArrays(s intel.IndicatorSet) intel.IndicatorSet {
	if s.BankAccounts == nil {
		s.BankAccounts = []string{}
	}
	if s.UPIIDs == nil {
		s.UPIIDs = []string{}
	}
	if s.PhishingLinks == nil {
		s.PhishingLinks = []string{}
	}
	if s.PhoneNumbers == nil {
		s.PhoneNumbers = []string{}
	}
	if s.SuspiciousKeywords == nil {
		s.SuspiciousKeywords = []string{}
	}
	return s
}

// buildNotes summarizes the engagement for the human analyst on the other
// end of the callback.
func buildNotes(snap session.ReportSnapshot) string {
	category := string(snap.Dominant)
	if !snap.ScamDetected {
		category = "undetermined"
	}
	return fmt.Sprintf(
		"Honeypot engaged sender for %d turns. Detected scam type: %s. Harvested %d indicators (%d bank accounts, %d UPI IDs, %d links, %d phone numbers, %d keywords).",
		snap.ScammerTurns,
		category,
		snap.Intelligence.Total(),
		len(snap.Intelligence.BankAccounts),
		len(snap.Intelligence.UPIIDs),
		len(snap.Intelligence.PhishingLinks),
		len(snap.Intelligence.PhoneNumbers),
		len(snap.Intelligence.SuspiciousKeywords),
	)
}
