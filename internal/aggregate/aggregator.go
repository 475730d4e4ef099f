package aggregate

import (
	"math"

	"gachasim/domain/core"
	"gachasim/domain/machine"
	"gachasim/domain/run"
)

// Aggregator folds independent lifetime results into running totals. Shape
// is fixed at construction (items and thresholds known up front), so adding
// a result never allocates new keys. Not safe for concurrent use; in a
// parallel run the aggregator is the sole serialization point and callers
// fold under a lock.
type Aggregator struct {
	items      []machine.Item
	thresholds []run.ThresholdLabel

	snapshotCounts map[run.ThresholdLabel]map[machine.Item]int
	rateSamples    map[run.ThresholdLabel]map[machine.Item][]float64

	successes    map[machine.Item]int
	failures     map[machine.Item]int
	successPulls map[machine.Item]int
	failurePulls map[machine.Item]int

	// pullPositionSuccesses[k] counts sessions that succeeded on pull k.
	pullPositionSuccesses map[int]int

	depletionPullSum map[machine.Item]int
	depletionCount   map[machine.Item]int
}

// New creates an empty aggregator over a fixed item catalog and threshold
// label set.
func New(items []machine.Item, thresholds []run.ThresholdLabel) *Aggregator {
	a := &Aggregator{
		items:                 items,
		thresholds:            thresholds,
		snapshotCounts:        make(map[run.ThresholdLabel]map[machine.Item]int, len(thresholds)),
		rateSamples:           make(map[run.ThresholdLabel]map[machine.Item][]float64, len(thresholds)),
		successes:             make(map[machine.Item]int, len(items)),
		failures:              make(map[machine.Item]int, len(items)),
		successPulls:          make(map[machine.Item]int, len(items)),
		failurePulls:          make(map[machine.Item]int, len(items)),
		pullPositionSuccesses: make(map[int]int),
		depletionPullSum:      make(map[machine.Item]int, len(items)),
		depletionCount:        make(map[machine.Item]int, len(items)),
	}
	for _, label := range thresholds {
		a.snapshotCounts[label] = make(map[machine.Item]int, len(items))
		a.rateSamples[label] = make(map[machine.Item][]float64, len(items))
	}
	return a
}

// AddResult folds one lifetime into the running totals.
func (a *Aggregator) AddResult(result *run.LifetimeResult) {
	for _, label := range a.thresholds {
		snap, ok := result.Snapshots[label]
		if !ok {
			continue
		}
		for _, item := range a.items {
			a.snapshotCounts[label][item] += snap.Count(item)
			// Rate resolves to 0 for an empty-machine snapshot.
			a.rateSamples[label][item] = append(a.rateSamples[label][item], snap.Rate(item))
		}
	}

	for _, outcome := range result.Outcomes {
		if outcome.Succeeded {
			a.successes[outcome.DesiredItem]++
			a.successPulls[outcome.DesiredItem] += outcome.PullsTaken
			a.pullPositionSuccesses[outcome.PullsTaken]++
		} else {
			a.failures[outcome.DesiredItem]++
			a.failurePulls[outcome.DesiredItem] += outcome.PullsTaken
		}
	}

	for item, pull := range result.Depletion {
		a.depletionPullSum[item] += pull
		a.depletionCount[item]++
	}
}

// Merge folds another aggregator's totals into this one. Merging N
// single-lifetime aggregators is equivalent to N AddResult calls, up to
// rate-sample ordering.
func (a *Aggregator) Merge(other *Aggregator) {
	for _, label := range a.thresholds {
		for _, item := range a.items {
			a.snapshotCounts[label][item] += other.snapshotCounts[label][item]
			a.rateSamples[label][item] = append(a.rateSamples[label][item], other.rateSamples[label][item]...)
		}
	}
	for _, item := range a.items {
		a.successes[item] += other.successes[item]
		a.failures[item] += other.failures[item]
		a.successPulls[item] += other.successPulls[item]
		a.failurePulls[item] += other.failurePulls[item]
		a.depletionPullSum[item] += other.depletionPullSum[item]
		a.depletionCount[item] += other.depletionCount[item]
	}
	for pos, n := range other.pullPositionSuccesses {
		a.pullPositionSuccesses[pos] += n
	}
}

// Finalize divides the running totals by runCount and returns the
// immutable summary. Raw rate-sample lists pass through unmodified for
// downstream significance testing. Fails with core.ErrInsufficientData
// when runCount is zero.
func (a *Aggregator) Finalize(runCount int) (*Summary, error) {
	if runCount == 0 {
		return nil, core.NewInsufficientDataError("no completed lifetimes")
	}

	s := &Summary{
		Runs:                  runCount,
		Items:                 a.items,
		Thresholds:            a.thresholds,
		MeanSnapshotCounts:    make(map[run.ThresholdLabel]map[machine.Item]float64, len(a.thresholds)),
		RateSamples:           make(map[run.ThresholdLabel]map[machine.Item][]float64, len(a.thresholds)),
		SuccessRate:           make(map[machine.Item]float64, len(a.items)),
		MeanSuccessPulls:      make(map[machine.Item]float64, len(a.items)),
		MeanFailurePulls:      make(map[machine.Item]float64, len(a.items)),
		MeanPullsToDepletion:  make(map[machine.Item]float64, len(a.items)),
		PullPositionSuccesses: make(map[int]int, len(a.pullPositionSuccesses)),
	}

	for _, label := range a.thresholds {
		s.MeanSnapshotCounts[label] = make(map[machine.Item]float64, len(a.items))
		s.RateSamples[label] = a.rateSamples[label]
		for _, item := range a.items {
			s.MeanSnapshotCounts[label][item] = float64(a.snapshotCounts[label][item]) / float64(runCount)
		}
	}

	for _, item := range a.items {
		sessions := a.successes[item] + a.failures[item]
		if sessions > 0 {
			s.SuccessRate[item] = float64(a.successes[item]) / float64(sessions)
		}
		if n := a.successes[item]; n > 0 {
			s.MeanSuccessPulls[item] = float64(a.successPulls[item]) / float64(n)
		}
		if n := a.failures[item]; n > 0 {
			s.MeanFailurePulls[item] = float64(a.failurePulls[item]) / float64(n)
		}
		if n := a.depletionCount[item]; n > 0 {
			s.MeanPullsToDepletion[item] = float64(a.depletionPullSum[item]) / float64(n)
		} else {
			// Never observed to deplete (zero starting count).
			s.MeanPullsToDepletion[item] = math.Inf(1)
		}
	}

	for pos, n := range a.pullPositionSuccesses {
		s.PullPositionSuccesses[pos] = n
	}
	return s, nil
}
