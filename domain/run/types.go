package run

import (
	"fmt"
	"math"
	"sort"

	"gachasim/domain/core"
	"gachasim/domain/machine"
)

// ThresholdLabel names one fullness checkpoint, e.g. "75%".
type ThresholdLabel string

// Threshold is a fullness checkpoint expressed both as the configured
// fraction and as the absolute capsule count it maps to for a machine of a
// given initial size. A threshold is crossed at the first draw that brings
// total remaining to Capsules or below.
type Threshold struct {
	Label    ThresholdLabel
	Fraction float64
	Capsules int
}

// BuildThresholds derives absolute-capsule checkpoints from fractions in
// [0,1], ordered from fullest to emptiest. Labels follow the percent form
// of the fraction ("100%", "25%", "0%").
func BuildThresholds(fractions []float64, totalCapsules int) []Threshold {
	sorted := make([]float64, len(fractions))
	copy(sorted, fractions)
	sort.Sort(sort.Reverse(sort.Float64Slice(sorted)))

	thresholds := make([]Threshold, 0, len(sorted))
	for _, f := range sorted {
		// Round to avoid float artifacts in labels (0.1*100 != 10 exactly).
		thresholds = append(thresholds, Threshold{
			Label:    ThresholdLabel(fmt.Sprintf("%g%%", math.Round(f*10000)/100)),
			Fraction: f,
			Capsules: int(math.Floor(float64(totalCapsules) * f)),
		})
	}
	return thresholds
}

// Labels returns the threshold labels in capture order (fullest first).
func Labels(thresholds []Threshold) []ThresholdLabel {
	labels := make([]ThresholdLabel, len(thresholds))
	for i, t := range thresholds {
		labels[i] = t.Label
	}
	return labels
}

// SessionOutcome records one customer's visit: the prize they wanted,
// whether they got it, and how many pulls they spent. Never mutated after
// creation; PullsTaken is at least 1.
type SessionOutcome struct {
	DesiredItem machine.Item
	Succeeded   bool
	PullsTaken  int
}

// DepletionRecord maps each item to the 1-based global pull index at which
// its count first reached zero. A completed lifetime records every item
// with a nonzero starting count exactly once.
type DepletionRecord map[machine.Item]int

// LifetimeResult is the immutable product of one full machine lifetime:
// one snapshot per threshold, the ordered session outcomes, and the
// depletion record.
type LifetimeResult struct {
	RunID     core.RunID
	Snapshots map[ThresholdLabel]machine.Snapshot
	Outcomes  []SessionOutcome
	Depletion DepletionRecord
}
