// Package scoring implements the five-dimension leadership scorecard:
// clamped running scores, the weighted total and the letter grade.
package scoring

import (
	"fmt"
	"sort"
	"strings"
)

const (
	Financial             = "financial"
	Reputational          = "reputational"
	Ethical               = "ethical"
	StakeholderConfidence = "stakeholder_confidence"
	LongTermStability     = "long_term_stability"
)

const (
	Baseline = 50
	Min      = 0
	Max      = 100
)

// Dimensions lists the score dimensions in their canonical order.
var Dimensions = []string{Financial, Reputational, Ethical, StakeholderConfidence, LongTermStability}

// Scores is a snapshot of the five dimensions.
type Scores struct {
	Financial             int `json:"financial"`
	Reputational          int `json:"reputational"`
	Ethical               int `json:"ethical"`
	StakeholderConfidence int `json:"stakeholder_confidence"`
	LongTermStability     int `json:"long_term_stability"`
}

// Delta is a signed per-dimension adjustment carried by a node option.
type Delta struct {
	Financial             int `json:"financial,omitempty" yaml:"financial,omitempty"`
	Reputational          int `json:"reputational,omitempty" yaml:"reputational,omitempty"`
	Ethical               int `json:"ethical,omitempty" yaml:"ethical,omitempty"`
	StakeholderConfidence int `json:"stakeholder_confidence,omitempty" yaml:"stakeholder_confidence,omitempty"`
	LongTermStability     int `json:"long_term_stability,omitempty" yaml:"long_term_stability,omitempty"`
}

// Initial returns the starting scorecard, every dimension at Baseline.
func Initial() Scores {
	return Scores{
		Financial:             Baseline,
		Reputational:          Baseline,
		Ethical:               Baseline,
		StakeholderConfidence: Baseline,
		LongTermStability:     Baseline,
	}
}

// Clamp bounds v to [Min, Max].
func Clamp(v int) int {
	if v < Min {
		return Min
	}
	if v > Max {
		return Max
	}
	return v
}

// Apply adds d to s and clamps every dimension.
func (s Scores) Apply(d Delta) Scores {
	return Scores{
		Financial:             Clamp(s.Financial + d.Financial),
		Reputational:          Clamp(s.Reputational + d.Reputational),
		Ethical:               Clamp(s.Ethical + d.Ethical),
		StakeholderConfidence: Clamp(s.StakeholderConfidence + d.StakeholderConfidence),
		LongTermStability:     Clamp(s.LongTermStability + d.LongTermStability),
	}
}

// Map returns the scores keyed by dimension name.
func (s Scores) Map() map[string]int {
	return map[string]int{
		Financial:             s.Financial,
		Reputational:          s.Reputational,
		Ethical:               s.Ethical,
		StakeholderConfidence: s.StakeholderConfidence,
		LongTermStability:     s.LongTermStability,
	}
}

// Replay applies deltas in order starting from Initial and returns the
// snapshot after each step.
func Replay(deltas []Delta) []Scores {
	out := make([]Scores, 0, len(deltas))
	cur := Initial()
	for _, d := range deltas {
		cur = cur.Apply(d)
		out = append(out, cur)
	}
	return out
}

// Final returns the scores after replaying all deltas.
func Final(deltas []Delta) Scores {
	cur := Initial()
	for _, d := range deltas {
		cur = cur.Apply(d)
	}
	return cur
}

// ParseDelta converts an authoring map into a Delta. Unknown keys are rejected.
func ParseDelta(m map[string]int) (Delta, error) {
	var d Delta
	var unknown []string
	for k, v := range m {
		switch k {
		case Financial:
			d.Financial = v
		case Reputational:
			d.Reputational = v
		case Ethical:
			d.Ethical = v
		case StakeholderConfidence:
			d.StakeholderConfidence = v
		case LongTermStability:
			d.LongTermStability = v
		default:
			unknown = append(unknown, k)
		}
	}
	if len(unknown) > 0 {
		sort.Strings(unknown)
		return Delta{}, fmt.Errorf("unknown score dimension(s): %s", strings.Join(unknown, ", "))
	}
	return d, nil
}
