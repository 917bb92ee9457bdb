// Package honeypot wires the per-turn pipeline: classify the inbound
// message, extract indicators, fold both into the session, choose a persona
// reply, and trigger the one-shot report once the engagement threshold is
// reached.
package honeypot

import (
	"log"
	"math/rand"

	"github.com/trapline/trapline/pkg/classify"
	"github.com/trapline/trapline/pkg/config"
	"github.com/trapline/trapline/pkg/dialogue"
	"github.com/trapline/trapline/pkg/intel"
	"github.com/trapline/trapline/pkg/report"
	"github.com/trapline/trapline/pkg/session"
)

// globalRand adapts the goroutine-safe top-level math/rand source to the
// dialogue engine's Rand interface.
type globalRand struct{}

func (globalRand) Intn(n int) int { return rand.Intn(n) }

// Pipeline is the per-turn orchestrator. One instance serves the whole
// process; every stage it calls is safe for concurrent use.
type Pipeline struct {
	classifier *classify.Classifier
	extractor  *intel.Extractor
	store      *session.Store
	engine     *dialogue.Engine
	reporter   *report.Client

	threshold int
	rng       dialogue.Rand
}

// PipelineOption is a functional option for configuring a Pipeline.
type PipelineOption func(*Pipeline)

// WithRand overrides the random source for template selection, mainly for
// tests.
func WithRand(rng dialogue.Rand) PipelineOption {
	return func(p *Pipeline) {
		p.rng = rng
	}
}

// NewPipeline assembles the pipeline from its stages. The engagement
// threshold comes from cfg.
func NewPipeline(cfg *config.Config, store *session.Store, engine *dialogue.Engine, reporter *report.Client, opts ...PipelineOption) *Pipeline {
	p := &Pipeline{
		classifier: classify.New(),
		extractor:  intel.NewExtractor(),
		store:      store,
		engine:     engine,
		reporter:   reporter,
		threshold:  cfg.EngagementThreshold,
		rng:        globalRand{},
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// HandleTurn processes one inbound scammer message and returns the honeypot
// reply. The supplied history is advisory: the session record is the
// authority, and a mismatch is only logged.
func (p *Pipeline) HandleTurn(id string, msg session.Message, history []session.Message) string {
	res := p.classifier.Classify(msg.Text)
	ind := p.extractor.Extract(msg.Text)

	rec := p.store.GetOrCreate(id)
	view := p.store.ApplyTurn(rec, res, ind)

	if n := len(history); n > 0 && n != view.ScammerTurns-1 {
		log.Printf("[SESSION] History length %d for %s disagrees with recorded turns %d; trusting the record",
			n, id, view.ScammerTurns-1)
	}

	choice := p.engine.Choose(view, p.rng)
	p.store.RecordReply(rec, msg, choice.Reply, res, choice.TemplateID, choice.BucketPrefix, choice.ResetBucket, choice.BindPersona)

	log.Printf("[TURN] session=%s turn=%d category=%s confidence=%d stage=%s indicators=%d",
		id, view.ScammerTurns, res.Category, res.Confidence, view.Stage, view.Intelligence.Total())

	if snap, ok := p.store.BeginReport(rec, p.threshold); ok {
		log.Printf("[REPORT] Engagement threshold reached for %s after %d turns", id, snap.ScammerTurns)
		p.reporter.Dispatch(report.Build(snap))
	}

	return choice.Reply
}

// SessionStatus returns the read-only status view for a conversation.
func (p *Pipeline) SessionStatus(id string) (session.Status, bool) {
	return p.store.StatusOf(id)
}

// StoreStats exposes session store statistics for the health endpoint.
func (p *Pipeline) StoreStats() session.StoreStats {
	return p.store.Stats()
}
