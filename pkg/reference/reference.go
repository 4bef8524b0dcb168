// Package reference provides the read-only tag vocabulary and browsing categories.
package reference

import (
	_ "embed"
	"fmt"
	"strings"
	"sync"

	"github.com/aretw0/dreamlog/pkg/core"
	"gopkg.in/yaml.v3"
)

//go:embed vocabulary.yaml
var vocabularyYAML []byte

// Vocabulary is the static reference data shipped with the journal.
type Vocabulary struct {
	Tags       []core.Tag      `yaml:"tags"`
	Categories []core.Category `yaml:"categories"`
}

var (
	loadOnce sync.Once
	builtin  Vocabulary
	loadErr  error
)

// Parse decodes a vocabulary document.
func Parse(data []byte) (Vocabulary, error) {
	var v Vocabulary
	if err := yaml.Unmarshal(data, &v); err != nil {
		return Vocabulary{}, fmt.Errorf("parse vocabulary: %w", err)
	}
	seen := make(map[string]bool, len(v.Tags))
	for _, t := range v.Tags {
		if t.Value == "" {
			return Vocabulary{}, fmt.Errorf("tag %q has no value", t.Name)
		}
		if seen[t.Value] {
			return Vocabulary{}, fmt.Errorf("duplicate tag value %q", t.Value)
		}
		seen[t.Value] = true
	}
	return v, nil
}

// Builtin returns the embedded vocabulary.
func Builtin() Vocabulary {
	loadOnce.Do(func() {
		builtin, loadErr = Parse(vocabularyYAML)
	})
	if loadErr != nil {
		panic(loadErr)
	}
	return builtin
}

// Tags returns the tag vocabulary, starting with the "all" sentinel.
func Tags() []core.Tag {
	return append([]core.Tag(nil), Builtin().Tags...)
}

// Categories returns the browsing categories.
func Categories() []core.Category {
	return append([]core.Category(nil), Builtin().Categories...)
}

// LookupTag finds a tag by value.
func (v Vocabulary) LookupTag(value string) (core.Tag, bool) {
	for _, t := range v.Tags {
		if t.Value == value {
			return t, true
		}
	}
	return core.Tag{}, false
}

// TagName returns the display name of a tag value, or the value itself when unknown.
func (v Vocabulary) TagName(value string) string {
	if t, ok := v.LookupTag(value); ok {
		return t.Name
	}
	return value
}

// CategoryFor returns the category describing a tag value.
// Categories are matched on the tag's display name, case-insensitively.
func (v Vocabulary) CategoryFor(value string) (core.Category, bool) {
	name := v.TagName(value)
	for _, c := range v.Categories {
		if strings.EqualFold(c.Name, name) {
			return c, true
		}
	}
	return core.Category{}, false
}

// Policy rejects tag values outside the vocabulary.
// The "all" sentinel is a filter, not a tag, and is rejected too.
type Policy struct {
	Vocabulary Vocabulary
}

// NewPolicy builds a policy over the embedded vocabulary.
func NewPolicy() Policy {
	return Policy{Vocabulary: Builtin()}
}

// CheckTags implements core.TagPolicy.
func (p Policy) CheckTags(tags []string) error {
	var unknown []string
	for _, tag := range tags {
		if tag == core.AllTags {
			unknown = append(unknown, tag)
			continue
		}
		if _, ok := p.Vocabulary.LookupTag(tag); !ok {
			unknown = append(unknown, tag)
		}
	}
	if len(unknown) > 0 {
		return fmt.Errorf("%w: unknown tags: %s", core.ErrValidation, strings.Join(unknown, ", "))
	}
	return nil
}

var _ core.TagPolicy = Policy{}
