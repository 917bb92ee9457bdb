package dialogue

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/trapline/trapline/pkg/intel"
	"github.com/trapline/trapline/pkg/patterns"
	"github.com/trapline/trapline/pkg/session"
)

// seqRand replays a fixed sequence of values, making selection deterministic.
type seqRand struct {
	vals []int
	i    int
}

func (r *seqRand) Intn(n int) int {
	v := r.vals[r.i%len(r.vals)]
	r.i++
	return v % n
}

func newEngine() *Engine {
	return NewEngine(DefaultLibrary())
}

func TestNeutralVoiceBeforeCategory(t *testing.T) {
	e := newEngine()

	view := session.TurnView{
		Stage:         session.StageInitial,
		Persona:       session.PersonaUnbound,
		Dominant:      patterns.CategoryNone,
		UsedTemplates: map[string]bool{},
	}

	choice := e.Choose(view, &seqRand{vals: []int{0}})

	if choice.BindPersona != session.PersonaUnbound {
		t.Errorf("no category established, but choice binds persona %q", choice.BindPersona)
	}
	if !strings.HasPrefix(choice.TemplateID, "initial/neutral/") {
		t.Errorf("expected a neutral-voice template, got %q", choice.TemplateID)
	}
	if choice.Reply == "" {
		t.Error("empty reply")
	}
}

func TestPersonaBindsFromDominantCategory(t *testing.T) {
	e := newEngine()

	testCases := []struct {
		category patterns.Category
		want     session.Persona
	}{
		{patterns.CategoryBankFraud, session.PersonaConcernedElderly},
		{patterns.CategoryImpersonation, session.PersonaConcernedElderly},
		{patterns.CategoryUPIFraud, session.PersonaTrustingUser},
		{patterns.CategoryFakeOffer, session.PersonaTrustingUser},
		{patterns.CategoryPhishing, session.PersonaCautiousUser},
		{patterns.CategoryOTPFraud, session.PersonaBusyProfessional},
	}

	for _, tc := range testCases {
		t.Run(string(tc.category), func(t *testing.T) {
			view := session.TurnView{
				Stage:         session.StageInitial,
				Persona:       session.PersonaUnbound,
				Dominant:      tc.category,
				UsedTemplates: map[string]bool{},
			}

			choice := e.Choose(view, &seqRand{vals: []int{0}})

			if choice.BindPersona != tc.want {
				t.Errorf("BindPersona = %q, want %q", choice.BindPersona, tc.want)
			}
			wantPrefix := BucketPrefix(session.StageInitial, tc.want)
			if !strings.HasPrefix(choice.TemplateID, wantPrefix) {
				t.Errorf("template %q not drawn from bucket %q", choice.TemplateID, wantPrefix)
			}
		})
	}
}

func TestBoundPersonaOverridesDominant(t *testing.T) {
	e := newEngine()

	// The dominant category shifted after binding; the voice must not follow.
	view := session.TurnView{
		Stage:         session.StageProbing,
		Persona:       session.PersonaConcernedElderly,
		Dominant:      patterns.CategoryOTPFraud,
		UsedTemplates: map[string]bool{},
	}

	choice := e.Choose(view, &seqRand{vals: []int{0}})

	if choice.BindPersona != session.PersonaUnbound {
		t.Errorf("already-bound session should not rebind, got %q", choice.BindPersona)
	}
	wantPrefix := BucketPrefix(session.StageProbing, session.PersonaConcernedElderly)
	if !strings.HasPrefix(choice.TemplateID, wantPrefix) {
		t.Errorf("template %q not drawn from the bound persona's bucket", choice.TemplateID)
	}
}

func TestEchoTemplateRequiresIndicator(t *testing.T) {
	e := newEngine()

	view := session.TurnView{
		Stage:         session.StageProbing,
		Persona:       session.PersonaTrustingUser,
		Dominant:      patterns.CategoryUPIFraud,
		UsedTemplates: map[string]bool{},
	}

	// No UPI handle harvested yet: the parameterized template must never be
	// chosen, whatever the random source says.
	for v := 0; v < 8; v++ {
		choice := e.Choose(view, &seqRand{vals: []int{v}})
		if strings.Contains(choice.Reply, "%s") || strings.Contains(choice.Reply, "%!s") {
			t.Fatalf("unfilled placeholder in reply %q", choice.Reply)
		}
		if strings.Contains(choice.Reply, "send it to") {
			t.Fatalf("echo template chosen without an indicator: %q", choice.Reply)
		}
	}
}

func TestEchoSubstitution(t *testing.T) {
	e := newEngine()

	view := session.TurnView{
		Stage:         session.StageProbing,
		Persona:       session.PersonaTrustingUser,
		Dominant:      patterns.CategoryUPIFraud,
		Intelligence:  intel.IndicatorSet{UPIIDs: []string{"old@upi", "scammer@paytm"}},
		UsedTemplates: map[string]bool{},
	}

	// Index 3 is the parameterized template in this bucket.
	choice := e.Choose(view, &seqRand{vals: []int{3}})

	if choice.TemplateID != "probing/trusting_user/3" {
		t.Fatalf("expected the echo template, got %q", choice.TemplateID)
	}
	if !strings.Contains(choice.Reply, "scammer@paytm") {
		t.Errorf("reply should echo the latest UPI handle: %q", choice.Reply)
	}
	if strings.Contains(choice.Reply, "old@upi") {
		t.Errorf("reply echoed a stale handle: %q", choice.Reply)
	}
}

func TestNoRepetitionUntilBucketExhausted(t *testing.T) {
	e := newEngine()

	used := map[string]bool{}
	view := session.TurnView{
		Stage:    session.StageInitial,
		Persona:  session.PersonaCautiousUser,
		Dominant: patterns.CategoryPhishing,
	}
	bucketSize := len(e.lib.Bucket(session.StageInitial, session.PersonaCautiousUser))

	seen := map[string]bool{}
	for i := 0; i < bucketSize; i++ {
		view.UsedTemplates = used
		choice := e.Choose(view, &seqRand{vals: []int{0}})

		if choice.ResetBucket {
			t.Fatalf("bucket reset before exhaustion at pick %d", i)
		}
		if seen[choice.TemplateID] {
			t.Fatalf("template %q repeated before the bucket was exhausted", choice.TemplateID)
		}
		seen[choice.TemplateID] = true
		used[choice.TemplateID] = true
	}

	// Everything is used now: the next pick must signal a reset and still
	// produce a reply.
	view.UsedTemplates = used
	choice := e.Choose(view, &seqRand{vals: []int{0}})
	if !choice.ResetBucket {
		t.Error("exhausted bucket should signal a reset")
	}
	if choice.Reply == "" || choice.TemplateID == "" {
		t.Errorf("reset pick should still select a template, got %+v", choice)
	}
}

func TestFinalStageAsksNothing(t *testing.T) {
	lib := DefaultLibrary()

	personas := []session.Persona{
		session.PersonaConcernedElderly,
		session.PersonaTrustingUser,
		session.PersonaCautiousUser,
		session.PersonaBusyProfessional,
		personaNeutral,
	}
	for _, p := range personas {
		for _, tpl := range lib.Bucket(session.StageFinal, p) {
			if strings.Contains(tpl.Text, "?") {
				t.Errorf("final-stage template %q asks a question: %q", tpl.ID, tpl.Text)
			}
		}
	}
}

func TestEveryBucketPopulated(t *testing.T) {
	lib := DefaultLibrary()

	stages := []session.Stage{
		session.StageInitial, session.StageProbing,
		session.StageHesitant, session.StageFinal,
	}
	personas := []session.Persona{
		session.PersonaConcernedElderly,
		session.PersonaTrustingUser,
		session.PersonaCautiousUser,
		session.PersonaBusyProfessional,
		personaNeutral,
	}

	for _, st := range stages {
		for _, p := range personas {
			bucket := lib.Bucket(st, p)
			if len(bucket) < 2 {
				t.Errorf("bucket %s/%s has only %d templates", st, p, len(bucket))
			}
			for _, tpl := range bucket {
				if !strings.HasPrefix(tpl.ID, BucketPrefix(st, p)) {
					t.Errorf("template ID %q outside its bucket prefix", tpl.ID)
				}
			}
		}
	}
}

func TestLoadLibraryOverride(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "templates.yaml")

	yaml := `
buckets:
  - stage: initial
    persona: trusting_user
    templates:
      - text: "Custom opener one."
      - text: "Custom opener two."
`
	if err := os.WriteFile(path, []byte(yaml), 0o644); err != nil {
		t.Fatal(err)
	}

	lib, err := LoadLibrary(path)
	if err != nil {
		t.Fatalf("LoadLibrary: %v", err)
	}

	got := lib.Bucket(session.StageInitial, session.PersonaTrustingUser)
	if len(got) != 2 || got[0].Text != "Custom opener one." {
		t.Errorf("override bucket not applied: %+v", got)
	}
	if got[0].ID != "initial/trusting_user/0" {
		t.Errorf("override templates should get stable IDs, got %q", got[0].ID)
	}

	// Buckets not named in the file keep their defaults.
	if len(lib.Bucket(session.StageFinal, session.PersonaTrustingUser)) == 0 {
		t.Error("override wiped an unrelated bucket")
	}
}

func TestLoadLibraryErrors(t *testing.T) {
	if _, err := LoadLibrary("/nonexistent/templates.yaml"); err == nil {
		t.Error("missing file should be an error")
	}

	dir := t.TempDir()
	bad := filepath.Join(dir, "bad.yaml")
	if err := os.WriteFile(bad, []byte("buckets: [not a mapping"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := LoadLibrary(bad); err == nil {
		t.Error("malformed YAML should be an error")
	}

	empty := filepath.Join(dir, "empty-bucket.yaml")
	content := "buckets:\n  - stage: initial\n    persona: trusting_user\n    templates: []\n"
	if err := os.WriteFile(empty, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := LoadLibrary(empty); err == nil {
		t.Error("empty override bucket should be an error")
	}

	lib, err := LoadLibrary("")
	if err != nil || lib.BucketCount() == 0 {
		t.Errorf("empty path should yield the defaults, got %v, %v", lib, err)
	}
}
