// Package tracker holds the domain model for the poster production
// pipeline: topics, their fixed checklist steps, progress math, and
// manual-order reconciliation.
package tracker

import (
	"strings"

	"github.com/google/uuid"
)

// Step is one fixed pipeline stage with a stable storage key and a
// display label.
type Step struct {
	Key   string
	Label string
}

// Steps is the fixed checklist every topic moves through, in pipeline
// order. Keys are storage identifiers and must never be renamed.
var Steps = []Step{
	{"copyright_review_done", "Copyright review done"},
	{"posters_edited", "Posters edited"},
	{"quality_enhanced", "Quality enhanced"},
	{"product_descriptions_written", "Product descriptions written"},
	{"mockups_videos_created", "Mockups and videos created"},
	{"upload_marketplace_a", "Uploaded to marketplace A"},
	{"upload_marketplace_b", "Uploaded to marketplace B"},
}

// Variant is a product-format dimension under which steps are tracked.
type Variant struct {
	Key   string
	Label string
}

// Variants lists the active product variants. Historically there were
// several; only the vertical poster format remains, but the nested
// variant→step shape is kept for storage compatibility.
var Variants = []Variant{
	{"vertical", "Vertical"},
}

// Topic is one tracked poster concept moving through the pipeline.
type Topic struct {
	ID    string
	Label string
	Order int

	// GlobalSteps is a legacy schema field. It is always written out
	// empty and never interpreted; older rows may still carry values.
	GlobalSteps map[string]bool

	// Variants maps variant key → step key → done flag. Every variant
	// in Variants is present with exactly the keys in Steps.
	Variants map[string]map[string]bool
}

// NewTopic creates a topic with a fresh id, the given rank, and every
// step unchecked.
func NewTopic(label string, order int) *Topic {
	variants := make(map[string]map[string]bool, len(Variants))
	for _, v := range Variants {
		variants[v.Key] = EmptySteps()
	}
	return &Topic{
		ID:          strings.ReplaceAll(uuid.NewString(), "-", ""),
		Label:       strings.TrimSpace(label),
		Order:       order,
		GlobalSteps: map[string]bool{},
		Variants:    variants,
	}
}

// EmptySteps returns a step map with every enumerated key set to false.
func EmptySteps() map[string]bool {
	steps := make(map[string]bool, len(Steps))
	for _, s := range Steps {
		steps[s.Key] = false
	}
	return steps
}

// SetAll flips every step under every variant to the given value.
func (t *Topic) SetAll(done bool) {
	for _, v := range Variants {
		steps := make(map[string]bool, len(Steps))
		for _, s := range Steps {
			steps[s.Key] = done
		}
		t.Variants[v.Key] = steps
	}
}

// StepDone reports whether the step is checked under the variant.
// Unknown keys read as false.
func (t *Topic) StepDone(variantKey, stepKey string) bool {
	return t.Variants[variantKey][stepKey]
}

// SetStep sets one step flag. Unknown variant or step keys are ignored
// so stale form input cannot widen the step set.
func (t *Topic) SetStep(variantKey, stepKey string, done bool) {
	steps, ok := t.Variants[variantKey]
	if !ok {
		return
	}
	if _, ok := steps[stepKey]; !ok {
		return
	}
	steps[stepKey] = done
}

// NormalizeLabel trims the label, collapses internal whitespace, and
// lowercases it. Used for duplicate detection, never for display.
func NormalizeLabel(label string) string {
	return strings.ToLower(strings.Join(strings.Fields(label), " "))
}

// FindByLabel returns the topic whose normalized label matches, or nil.
func FindByLabel(topics map[string]*Topic, label string) *Topic {
	want := NormalizeLabel(label)
	for _, t := range topics {
		if NormalizeLabel(t.Label) == want {
			return t
		}
	}
	return nil
}

// MaxOrder returns the highest rank in the set, 0 when empty.
func MaxOrder(topics map[string]*Topic) int {
	max := 0
	for _, t := range topics {
		if t.Order > max {
			max = t.Order
		}
	}
	return max
}
