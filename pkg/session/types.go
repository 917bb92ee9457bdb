// Package session owns all per-conversation state. The Store is the single
// session authority: records are created, read and mutated only through it,
// so concurrent handlers can never fork or duplicate state for one
// conversation identifier.
package session

import (
	"sync"
	"time"

	"github.com/trapline/trapline/pkg/intel"
	"github.com/trapline/trapline/pkg/patterns"
)

// Stage is the engagement stage of a conversation. Stages advance with the
// scammer-turn count and never regress within a session.
type Stage string

const (
	StageInitial  Stage = "initial"
	StageProbing  Stage = "probing"
	StageHesitant Stage = "hesitant"
	StageFinal    Stage = "final"
)

// stageRank orders stages for the monotonicity guarantee.
var stageRank = map[Stage]int{
	StageInitial:  0,
	StageProbing:  1,
	StageHesitant: 2,
	StageFinal:    3,
}

// StageForTurn maps a scammer-turn count to its stage using the fixed
// breakpoints: turn 1 initial, 2-3 probing, 4-6 hesitant, 7+ final.
func StageForTurn(turn int) Stage {
	switch {
	case turn <= 1:
		return StageInitial
	case turn <= 3:
		return StageProbing
	case turn <= 6:
		return StageHesitant
	default:
		return StageFinal
	}
}

// Persona is the human voice the dialogue engine role-plays. Bound once per
// session from the first established dominant category, then held fixed.
type Persona string

const (
	PersonaConcernedElderly Persona = "concerned_elderly"
	PersonaBusyProfessional Persona = "busy_professional"
	PersonaTrustingUser     Persona = "trusting_user"
	PersonaCautiousUser     Persona = "cautious_user"

	// PersonaUnbound marks a session with no established scam category yet.
	PersonaUnbound Persona = ""
)

// personaByCategory is the fixed category-to-persona binding table.
var personaByCategory = map[patterns.Category]Persona{
	patterns.CategoryBankFraud:     PersonaConcernedElderly,
	patterns.CategoryImpersonation: PersonaConcernedElderly,
	patterns.CategoryUPIFraud:      PersonaTrustingUser,
	patterns.CategoryFakeOffer:     PersonaTrustingUser,
	patterns.CategoryPhishing:      PersonaCautiousUser,
	patterns.CategoryOTPFraud:      PersonaBusyProfessional,
}

// PersonaForCategory returns the persona bound to a scam category.
// CategoryNone yields PersonaUnbound.
func PersonaForCategory(cat patterns.Category) Persona {
	return personaByCategory[cat]
}

// Message is one inbound message as supplied by the caller.
// Immutable once received; Timestamp is the sender-supplied clock.
type Message struct {
	Sender    string `json:"sender"`
	Text      string `json:"text"`
	Timestamp int64  `json:"timestamp"`
}

// Turn is one message/reply pair in the conversation log.
type Turn struct {
	Message    Message           `json:"message"`
	Reply      string            `json:"reply"`
	Category   patterns.Category `json:"category"`
	Confidence int               `json:"confidence"`
	At         time.Time         `json:"at"`
}

// Record is the mutable per-conversation state. All fields are guarded by mu
// and mutated exclusively through Store methods; other components see
// consistent snapshots (TurnView, ReportSnapshot), never the live record.
type Record struct {
	mu sync.Mutex

	ConversationID string

	Turns        []Turn
	Intelligence intel.IndicatorSet

	Stage            Stage
	Persona          Persona
	DominantCategory patterns.Category
	ScammerTurns     int

	// categoryScores accumulates per-category confidence across turns and
	// drives the sticky dominant-category rule.
	categoryScores map[patterns.Category]int

	// usedTemplates suppresses immediate reply repetition per bucket.
	usedTemplates map[string]bool

	ReportSent bool

	CreatedAt  time.Time
	LastTurnAt time.Time
}

// TurnView is a consistent post-update snapshot of a record, taken under the
// record lock. The dialogue engine selects replies from a view, never from
// the live record.
type TurnView struct {
	ConversationID string
	ScammerTurns   int
	Stage          Stage
	Persona        Persona
	Dominant       patterns.Category
	Intelligence   intel.IndicatorSet
	UsedTemplates  map[string]bool
}

// ReportSnapshot carries everything the reporting client needs, copied under
// the record lock so the network call runs without holding it.
type ReportSnapshot struct {
	ConversationID string
	ScamDetected   bool
	Dominant       patterns.Category
	TotalTurns     int
	ScammerTurns   int
	Intelligence   intel.IndicatorSet
}

// Status is the read-only session view exposed to the status query.
type Status struct {
	ConversationID string            `json:"sessionId"`
	ScamDetected   bool              `json:"scamDetected"`
	ScamType       patterns.Category `json:"scamType"`
	Stage          Stage             `json:"stage"`
	Persona        Persona           `json:"persona,omitempty"`
	ScammerTurns   int               `json:"engagementCount"`
	TotalTurns     int               `json:"totalMessages"`
	ReportSent     bool              `json:"reportSent"`
	Indicators     IndicatorCounts   `json:"extractedIntelligence"`
}

// IndicatorCounts summarizes collection sizes for the status query.
type IndicatorCounts struct {
	BankAccounts       int `json:"bankAccounts"`
	UPIIDs             int `json:"upiIds"`
	PhishingLinks      int `json:"phishingLinks"`
	PhoneNumbers       int `json:"phoneNumbers"`
	SuspiciousKeywords int `json:"suspiciousKeywords"`
}
