package dialogue

import (
	"fmt"

	"github.com/trapline/trapline/pkg/intel"
	"github.com/trapline/trapline/pkg/session"
)

// Rand supplies randomness for template selection. math/rand.Rand satisfies
// it; tests inject a deterministic source.
type Rand interface {
	Intn(n int) int
}

// Choice is the engine's verdict for one turn: the rendered reply plus the
// bookkeeping the session store needs to record it.
type Choice struct {
	Reply        string
	TemplateID   string
	BucketPrefix string
	// ResetBucket signals that every eligible template in the bucket had
	// already been used, so the used-set for this bucket starts over.
	ResetBucket bool
	// BindPersona is the persona to bind on this turn, or PersonaUnbound when
	// the session already has one (or no category is established yet).
	BindPersona session.Persona
}

// fallbackReply covers the pathological case of an empty bucket, e.g. a bad
// override file that stripped a stage.
const fallbackReply = "Sorry, I didn't quite get that. Can you say it again?"

// Engine selects replies from a template library. It is stateless and safe
// for concurrent use; all per-session state arrives in the TurnView.
type Engine struct {
	lib *Library
}

// NewEngine creates a dialogue engine over a template library.
func NewEngine(lib *Library) *Engine {
	return &Engine{lib: lib}
}

// Choose picks the reply for one turn. Selection is uniform-random over the
// bucket's eligible, not-yet-used templates; when all are used the bucket
// resets and every eligible template is a candidate again. Parameterized
// templates are eligible only once the session holds an indicator of the
// echoed kind.
func (e *Engine) Choose(view session.TurnView, rng Rand) Choice {
	persona := view.Persona
	bind := session.PersonaUnbound
	if persona == session.PersonaUnbound {
		if p := session.PersonaForCategory(view.Dominant); p != session.PersonaUnbound {
			persona = p
			bind = p
		} else {
			persona = personaNeutral
		}
	}

	bucket := e.lib.Bucket(view.Stage, persona)
	if len(bucket) == 0 {
		bucket = e.lib.Bucket(view.Stage, personaNeutral)
	}

	eligible := make([]Template, 0, len(bucket))
	for _, tpl := range bucket {
		if echoValue(tpl.Echo, view.Intelligence) != "" || tpl.Echo == EchoNone {
			eligible = append(eligible, tpl)
		}
	}
	if len(eligible) == 0 {
		return Choice{Reply: fallbackReply, BindPersona: bind}
	}

	unused := make([]Template, 0, len(eligible))
	for _, tpl := range eligible {
		if !view.UsedTemplates[tpl.ID] {
			unused = append(unused, tpl)
		}
	}

	reset := false
	if len(unused) == 0 {
		reset = true
		unused = eligible
	}

	pick := unused[rng.Intn(len(unused))]

	return Choice{
		Reply:        render(pick, view.Intelligence),
		TemplateID:   pick.ID,
		BucketPrefix: BucketPrefix(view.Stage, persona),
		ResetBucket:  reset,
		BindPersona:  bind,
	}
}

// render fills a template's placeholder with the most recently harvested
// indicator of its echo kind.
func render(tpl Template, ind intel.IndicatorSet) string {
	if tpl.Echo == EchoNone {
		return tpl.Text
	}
	return fmt.Sprintf(tpl.Text, echoValue(tpl.Echo, ind))
}

// echoValue returns the latest indicator for an echo kind, or "" when the
// session has none of that kind.
func echoValue(kind EchoKind, ind intel.IndicatorSet) string {
	var pool []string
	switch kind {
	case EchoUPI:
		pool = ind.UPIIDs
	case EchoLink:
		pool = ind.PhishingLinks
	case EchoPhone:
		pool = ind.PhoneNumbers
	case EchoAccount:
		pool = ind.BankAccounts
	default:
		return ""
	}
	if len(pool) == 0 {
		return ""
	}
	return pool[len(pool)-1]
}
