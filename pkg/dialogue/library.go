// Package dialogue selects honeypot replies. Replies come from template
// buckets keyed by (stage, persona); within a bucket, selection is a pure
// function of the candidates, the session's used-template set and a supplied
// random source, so tests can inject a deterministic source and assert exact
// outputs.
package dialogue

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/trapline/trapline/pkg/session"
)

// EchoKind names the indicator a parameterized template echoes back at the
// scammer. Templates with an echo are only eligible once the session has
// harvested at least one indicator of that kind.
type EchoKind string

const (
	EchoNone    EchoKind = ""
	EchoUPI     EchoKind = "upi"
	EchoLink    EchoKind = "link"
	EchoPhone   EchoKind = "phone"
	EchoAccount EchoKind = "account"
)

// Template is one candidate reply. Parameterized texts carry a single %s
// placeholder filled with the echoed indicator.
type Template struct {
	ID   string   `yaml:"-"`
	Text string   `yaml:"text"`
	Echo EchoKind `yaml:"echo,omitempty"`
}

// personaNeutral keys the generic bucket used while no scam category has
// been established. It is a dialogue-internal voice, never written to the
// session record.
const personaNeutral session.Persona = "neutral"

type bucketKey struct {
	Stage   session.Stage
	Persona session.Persona
}

// Library holds the (stage, persona) template buckets.
type Library struct {
	buckets map[bucketKey][]Template
}

// BucketPrefix is the used-set namespace for one bucket; template IDs are
// prefix + index, so clearing a bucket cannot disturb another bucket's
// suppression state.
func BucketPrefix(stage session.Stage, persona session.Persona) string {
	return string(stage) + "/" + string(persona) + "/"
}

// Bucket returns the candidate templates for a stage/persona pair.
// Returns empty slice if no bucket is defined (never nil).
func (l *Library) Bucket(stage session.Stage, persona session.Persona) []Template {
	if ts, ok := l.buckets[bucketKey{stage, persona}]; ok {
		return ts
	}
	return []Template{}
}

// BucketCount returns the number of populated buckets.
func (l *Library) BucketCount() int {
	return len(l.buckets)
}

// add registers a bucket and assigns stable template IDs.
func (l *Library) add(stage session.Stage, persona session.Persona, templates []Template) {
	prefix := BucketPrefix(stage, persona)
	for i := range templates {
		templates[i].ID = fmt.Sprintf("%s%d", prefix, i)
	}
	l.buckets[bucketKey{stage, persona}] = templates
}

// overrideFile is the YAML shape for operator-supplied template overrides.
// Buckets named in the file replace the built-in bucket wholesale; buckets
// not named keep their defaults.
type overrideFile struct {
	Buckets []struct {
		Stage     session.Stage   `yaml:"stage"`
		Persona   session.Persona `yaml:"persona"`
		Templates []Template      `yaml:"templates"`
	} `yaml:"buckets"`
}

// LoadLibrary builds the template library, overlaying the built-in defaults
// with a YAML override file when path is non-empty. A missing or malformed
// file is an error; callers fall back to DefaultLibrary.
func LoadLibrary(path string) (*Library, error) {
	lib := DefaultLibrary()
	if path == "" {
		return lib, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read template overrides: %w", err)
	}

	var file overrideFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("parse template overrides: %w", err)
	}

	for _, b := range file.Buckets {
		if len(b.Templates) == 0 {
			return nil, fmt.Errorf("override bucket %s/%s has no templates", b.Stage, b.Persona)
		}
		lib.add(b.Stage, b.Persona, b.Templates)
	}

	return lib, nil
}
