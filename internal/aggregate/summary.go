package aggregate

import (
	"gachasim/domain/machine"
	"gachasim/domain/run"
)

// Summary is the finalized view of an aggregation: per-run means plus the
// raw per-lifetime rate samples. Never mutated after Finalize returns.
type Summary struct {
	Runs       int
	Items      []machine.Item
	Thresholds []run.ThresholdLabel

	// MeanSnapshotCounts is the average captured count per threshold/item.
	MeanSnapshotCounts map[run.ThresholdLabel]map[machine.Item]float64

	// RateSamples holds one observed fractional share per lifetime for each
	// threshold/item pair, passed through unmodified for significance
	// testing.
	RateSamples map[run.ThresholdLabel]map[machine.Item][]float64

	// SuccessRate is successes / (successes + failures) per desired item,
	// 0 when the item was never sought.
	SuccessRate map[machine.Item]float64

	// MeanSuccessPulls and MeanFailurePulls average pulls taken over
	// succeeded and failed sessions respectively.
	MeanSuccessPulls map[machine.Item]float64
	MeanFailurePulls map[machine.Item]float64

	// MeanPullsToDepletion averages the global pull index at which the item
	// emptied; +Inf when the item was never observed to deplete.
	MeanPullsToDepletion map[machine.Item]float64

	// PullPositionSuccesses counts succeeded sessions by the pull number
	// the success landed on.
	PullPositionSuccesses map[int]int
}

// SamplesFor returns the raw rate samples for one threshold/item pair.
func (s *Summary) SamplesFor(label run.ThresholdLabel, item machine.Item) []float64 {
	byItem, ok := s.RateSamples[label]
	if !ok {
		return nil
	}
	return byItem[item]
}
