package aggregate

import (
	"errors"
	"math"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"gachasim/domain/core"
	"gachasim/domain/customer"
	"gachasim/domain/machine"
	"gachasim/domain/run"
	"gachasim/internal/sim"
)

func simulateLifetimes(t *testing.T, n int) ([]machine.Item, []run.Threshold, []*run.LifetimeResult) {
	t.Helper()
	items := []machine.Item{"Cat Keychain", "Dog Keychain", "Rare Gold Cat"}

	desire, err := customer.NewDesireDistribution(map[machine.Item]float64{"Rare Gold Cat": 1.0})
	require.NoError(t, err)
	patience, err := customer.NewPatienceDistribution(map[int]float64{3: 1.0})
	require.NoError(t, err)
	model, err := customer.NewBehaviorModel(desire, map[string]customer.PatienceDistribution{
		customer.DefaultPatienceKey: patience,
	})
	require.NoError(t, err)

	thresholds := run.BuildThresholds([]float64{1.0, 0.5, 0.25, 0}, 30)
	simulator := sim.NewLifetimeSimulator(model, thresholds)

	results := make([]*run.LifetimeResult, 0, n)
	for i := 0; i < n; i++ {
		rng := rand.New(rand.NewSource(int64(i)))
		result, err := simulator.Run(rng, machine.NewInventory(items, 10))
		require.NoError(t, err)
		results = append(results, result)
	}
	return items, thresholds, results
}

func TestFinalize_ZeroRunsFails(t *testing.T) {
	agg := New([]machine.Item{"Cat Keychain"}, []run.ThresholdLabel{"100%"})

	_, err := agg.Finalize(0)
	require.Error(t, err)
	assert.True(t, errors.Is(err, core.ErrInsufficientData))
}

func TestAddResult_AccumulatesSnapshotsAndRates(t *testing.T) {
	items, thresholds, results := simulateLifetimes(t, 5)
	agg := New(items, run.Labels(thresholds))
	for _, result := range results {
		agg.AddResult(result)
	}

	summary, err := agg.Finalize(len(results))
	require.NoError(t, err)
	assert.Equal(t, 5, summary.Runs)

	// The full-machine snapshot is identical every run.
	for _, item := range items {
		assert.Equal(t, 10.0, summary.MeanSnapshotCounts["100%"][item])
	}

	// One rate sample per lifetime per threshold/item pair, each a valid
	// fraction; the empty-machine threshold contributes rate 0.
	for _, label := range run.Labels(thresholds) {
		for _, item := range items {
			samples := summary.RateSamples[label][item]
			require.Len(t, samples, len(results))
			for _, rate := range samples {
				require.GreaterOrEqual(t, rate, 0.0)
				require.LessOrEqual(t, rate, 1.0)
			}
		}
	}
	for _, item := range items {
		for _, rate := range summary.RateSamples["0%"][item] {
			assert.Equal(t, 0.0, rate)
		}
	}
}

func TestFinalize_SuccessAndDepletionMeans(t *testing.T) {
	items, thresholds, results := simulateLifetimes(t, 10)
	agg := New(items, run.Labels(thresholds))
	for _, result := range results {
		agg.AddResult(result)
	}

	summary, err := agg.Finalize(len(results))
	require.NoError(t, err)

	// Every session sought the rare item; the other items were never
	// desired, so their success rate resolves to the 0 sentinel.
	assert.Greater(t, summary.SuccessRate["Rare Gold Cat"], 0.0)
	assert.Equal(t, 0.0, summary.SuccessRate["Cat Keychain"])

	// All items deplete in every completed lifetime of a stocked machine.
	for _, item := range items {
		mean := summary.MeanPullsToDepletion[item]
		assert.False(t, math.IsInf(mean, 1), "item %s should have depleted", item)
		assert.Greater(t, mean, 0.0)
		assert.LessOrEqual(t, mean, 30.0)
	}

	// Succeeded sessions land within patience.
	for pos := range summary.PullPositionSuccesses {
		assert.GreaterOrEqual(t, pos, 1)
		assert.LessOrEqual(t, pos, 3)
	}
}

func TestFinalize_NeverDepletedItemIsInfinite(t *testing.T) {
	items := []machine.Item{"Cat Keychain"}
	agg := New(items, []run.ThresholdLabel{"100%"})
	agg.AddResult(&run.LifetimeResult{
		Snapshots: map[run.ThresholdLabel]machine.Snapshot{},
		Depletion: run.DepletionRecord{},
	})

	summary, err := agg.Finalize(1)
	require.NoError(t, err)
	assert.True(t, math.IsInf(summary.MeanPullsToDepletion["Cat Keychain"], 1))
}

// Aggregating N results into one aggregator must match merging N
// single-result aggregators, field for field.
func TestAggregator_Linearity(t *testing.T) {
	items, thresholds, results := simulateLifetimes(t, 8)
	labels := run.Labels(thresholds)

	combined := New(items, labels)
	for _, result := range results {
		combined.AddResult(result)
	}

	merged := New(items, labels)
	for _, result := range results {
		single := New(items, labels)
		single.AddResult(result)
		merged.Merge(single)
	}

	combinedSummary, err := combined.Finalize(len(results))
	require.NoError(t, err)
	mergedSummary, err := merged.Finalize(len(results))
	require.NoError(t, err)

	assert.Equal(t, combinedSummary, mergedSummary)
}
