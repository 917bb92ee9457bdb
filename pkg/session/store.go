package session

import (
	"sync"
	"time"

	"github.com/trapline/trapline/pkg/classify"
	"github.com/trapline/trapline/pkg/intel"
	"github.com/trapline/trapline/pkg/patterns"
)

// Store is the process-wide session authority. The lookup table has its own
// lock; every record carries a per-record mutex so turns for different
// conversations never serialize against each other.
//
// Sessions are evicted after a TTL since their last turn. State is
// non-persistent on purpose: a restart forgets everything.
type Store struct {
	mu      sync.RWMutex
	records map[string]*Record

	maxAge     time.Duration // session TTL since last turn
	cleanupTTL time.Duration // sweep interval

	stopCleanup chan struct{}
	cleanupOnce sync.Once
}

// StoreOption is a functional option for configuring a Store.
type StoreOption func(*Store)

// WithMaxAge sets the session TTL since the last turn.
func WithMaxAge(d time.Duration) StoreOption {
	return func(s *Store) {
		s.maxAge = d
	}
}

// WithCleanupInterval sets how often the eviction sweep runs.
func WithCleanupInterval(d time.Duration) StoreOption {
	return func(s *Store) {
		s.cleanupTTL = d
	}
}

// NewStore creates the session store and starts its eviction sweep.
func NewStore(opts ...StoreOption) *Store {
	s := &Store{
		records:     make(map[string]*Record),
		maxAge:      24 * time.Hour,
		cleanupTTL:  5 * time.Minute,
		stopCleanup: make(chan struct{}),
	}

	for _, opt := range opts {
		opt(s)
	}

	go s.cleanupLoop()

	return s
}

// GetOrCreate returns the record for a conversation identifier, creating it
// on first sight. This is the only way a record comes into existence.
func (s *Store) GetOrCreate(id string) *Record {
	s.mu.RLock()
	rec, ok := s.records[id]
	s.mu.RUnlock()
	if ok {
		return rec
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	// Another handler may have created it between the two locks.
	if rec, ok := s.records[id]; ok {
		return rec
	}

	now := time.Now()
	rec = &Record{
		ConversationID:   id,
		DominantCategory: patterns.CategoryNone,
		Stage:            StageInitial,
		categoryScores:   make(map[patterns.Category]int),
		usedTemplates:    make(map[string]bool),
		CreatedAt:        now,
		LastTurnAt:       now,
	}
	s.records[id] = rec
	return rec
}

// Get returns the record for an identifier, or false if the conversation is
// unknown (or already expired). Used by the read-only status query.
func (s *Store) Get(id string) (*Record, bool) {
	s.mu.RLock()
	rec, ok := s.records[id]
	s.mu.RUnlock()
	if !ok {
		return nil, false
	}

	rec.mu.Lock()
	stale := time.Since(rec.LastTurnAt) > s.maxAge
	rec.mu.Unlock()
	if stale {
		// Expired but not yet swept; treat as not found.
		return nil, false
	}
	return rec, true
}

// ApplyTurn folds one classified, extracted message into the record, in
// order: merge indicators, bump the scammer-turn count, recompute the
// dominant category under the sticky rule, recompute the stage. It returns a
// consistent post-update snapshot for the dialogue engine.
func (s *Store) ApplyTurn(rec *Record, res classify.Result, ind intel.IndicatorSet) TurnView {
	rec.mu.Lock()
	defer rec.mu.Unlock()

	rec.Intelligence.Merge(ind)
	rec.ScammerTurns++
	rec.LastTurnAt = time.Now()

	if res.Category != patterns.CategoryNone {
		rec.categoryScores[res.Category] += res.Confidence
		rec.applyDominant(res.Category)
	}

	// Stage follows the turn count and never regresses.
	if next := StageForTurn(rec.ScammerTurns); stageRank[next] > stageRank[rec.Stage] {
		rec.Stage = next
	}

	return TurnView{
		ConversationID: rec.ConversationID,
		ScammerTurns:   rec.ScammerTurns,
		Stage:          rec.Stage,
		Persona:        rec.Persona,
		Dominant:       rec.DominantCategory,
		Intelligence:   rec.Intelligence.Clone(),
		UsedTemplates:  cloneSet(rec.usedTemplates),
	}
}

// applyDominant implements the sticky dominant-category rule: the incumbent
// keeps its place unless another category's aggregate score strictly exceeds
// it. Ties keep the incumbent. Caller holds rec.mu.
func (rec *Record) applyDominant(cat patterns.Category) {
	if rec.DominantCategory == patterns.CategoryNone {
		rec.DominantCategory = cat
		return
	}
	if cat != rec.DominantCategory &&
		rec.categoryScores[cat] > rec.categoryScores[rec.DominantCategory] {
		rec.DominantCategory = cat
	}
}

// RecordReply completes the turn: appends the message/reply pair to the log,
// marks the chosen template as used (optionally resetting its bucket first),
// and binds the persona if the dialogue engine established one. The persona
// never rebinds once set.
func (s *Store) RecordReply(rec *Record, msg Message, reply string, res classify.Result, templateID string, bucketPrefix string, resetBucket bool, persona Persona) {
	rec.mu.Lock()
	defer rec.mu.Unlock()

	rec.Turns = append(rec.Turns, Turn{
		Message:    msg,
		Reply:      reply,
		Category:   res.Category,
		Confidence: res.Confidence,
		At:         time.Now(),
	})

	if resetBucket {
		for id := range rec.usedTemplates {
			if len(id) >= len(bucketPrefix) && id[:len(bucketPrefix)] == bucketPrefix {
				delete(rec.usedTemplates, id)
			}
		}
	}
	if templateID != "" {
		rec.usedTemplates[templateID] = true
	}

	if rec.Persona == PersonaUnbound && persona != PersonaUnbound {
		rec.Persona = persona
	}
}

// BeginReport atomically claims the right to send the one-shot report. The
// flag is set before any delivery attempt, so concurrent or repeated
// threshold triggers can never produce a duplicate send; a delivery failure
// after the claim is a silent loss by design.
func (s *Store) BeginReport(rec *Record, threshold int) (ReportSnapshot, bool) {
	rec.mu.Lock()
	defer rec.mu.Unlock()

	if rec.ReportSent || rec.ScammerTurns < threshold {
		return ReportSnapshot{}, false
	}
	rec.ReportSent = true

	return ReportSnapshot{
		ConversationID: rec.ConversationID,
		ScamDetected:   rec.DominantCategory != patterns.CategoryNone,
		Dominant:       rec.DominantCategory,
		TotalTurns:     len(rec.Turns),
		ScammerTurns:   rec.ScammerTurns,
		Intelligence:   rec.Intelligence.Clone(),
	}, true
}

// StatusOf returns the read-only status view for an identifier.
func (s *Store) StatusOf(id string) (Status, bool) {
	rec, ok := s.Get(id)
	if !ok {
		return Status{}, false
	}

	rec.mu.Lock()
	defer rec.mu.Unlock()

	return Status{
		ConversationID: rec.ConversationID,
		ScamDetected:   rec.DominantCategory != patterns.CategoryNone,
		ScamType:       rec.DominantCategory,
		Stage:          rec.Stage,
		Persona:        rec.Persona,
		ScammerTurns:   rec.ScammerTurns,
		TotalTurns:     len(rec.Turns),
		ReportSent:     rec.ReportSent,
		Indicators: IndicatorCounts{
			BankAccounts:       len(rec.Intelligence.BankAccounts),
			UPIIDs:             len(rec.Intelligence.UPIIDs),
			PhishingLinks:      len(rec.Intelligence.PhishingLinks),
			PhoneNumbers:       len(rec.Intelligence.PhoneNumbers),
			SuspiciousKeywords: len(rec.Intelligence.SuspiciousKeywords),
		},
	}, true
}

// Close stops the eviction sweep.
func (s *Store) Close() {
	s.cleanupOnce.Do(func() {
		close(s.stopCleanup)
	})
}

// cleanupLoop periodically evicts expired sessions.
func (s *Store) cleanupLoop() {
	ticker := time.NewTicker(s.cleanupTTL)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			s.cleanup()
		case <-s.stopCleanup:
			return
		}
	}
}

// cleanup removes sessions whose last turn is older than the TTL.
func (s *Store) cleanup() {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := time.Now()
	for id, rec := range s.records {
		rec.mu.Lock()
		stale := now.Sub(rec.LastTurnAt) > s.maxAge
		rec.mu.Unlock()
		if stale {
			delete(s.records, id)
		}
	}
}

// Stats returns current store statistics.
func (s *Store) Stats() StoreStats {
	s.mu.RLock()
	defer s.mu.RUnlock()

	stats := StoreStats{SessionCount: len(s.records)}
	for _, rec := range s.records {
		rec.mu.Lock()
		stats.TotalTurns += rec.ScammerTurns
		stats.TotalIndicators += rec.Intelligence.Total()
		rec.mu.Unlock()
	}
	return stats
}

// StoreStats contains session store statistics.
type StoreStats struct {
	SessionCount    int `json:"session_count"`
	TotalTurns      int `json:"total_turns"`
	TotalIndicators int `json:"total_indicators"`
}

func cloneSet(m map[string]bool) map[string]bool {
	out := make(map[string]bool, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}
