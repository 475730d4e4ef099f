package customer

import (
	"math"
	"sort"

	"gachasim/domain/core"
	"gachasim/domain/machine"
)

// WeightTolerance is the floating-point slack allowed when checking that a
// distribution's weights sum to 1.0.
const WeightTolerance = 1e-9

// DefaultPatienceKey is the fallback patience distribution, used for any
// item without a registered distribution of its own.
const DefaultPatienceKey = "Default"

// DesireDistribution is a categorical distribution over items, describing
// which prize a customer wants. Immutable after construction; shared
// read-only across all lifetimes.
type DesireDistribution struct {
	items   []machine.Item
	weights []float64
}

// NewDesireDistribution validates and freezes an item-weight mapping.
// Entries are sorted by item so sampling order is stable regardless of map
// iteration order.
func NewDesireDistribution(weights map[machine.Item]float64) (DesireDistribution, error) {
	if err := CheckWeights("item desire distribution", sumValues(weights)); err != nil {
		return DesireDistribution{}, err
	}
	items := make([]machine.Item, 0, len(weights))
	for item := range weights {
		items = append(items, item)
	}
	sort.Slice(items, func(i, j int) bool { return items[i] < items[j] })

	d := DesireDistribution{items: items, weights: make([]float64, len(items))}
	for i, item := range items {
		d.weights[i] = weights[item]
	}
	return d, nil
}

// Sample draws one item from the distribution.
func (d DesireDistribution) Sample(rng core.Rand) machine.Item {
	roll := rng.Float64()
	acc := 0.0
	for i, w := range d.weights {
		acc += w
		if roll < acc {
			return d.items[i]
		}
	}
	// Weight sum was validated to 1.0; land here only on rounding slack.
	return d.items[len(d.items)-1]
}

// PatienceDistribution is a categorical distribution over maximum pulls per
// session. Immutable after construction.
type PatienceDistribution struct {
	pulls   []int
	weights []float64
}

// NewPatienceDistribution validates and freezes a max-pulls weight mapping.
func NewPatienceDistribution(weights map[int]float64) (PatienceDistribution, error) {
	sum := 0.0
	for _, w := range weights {
		sum += w
	}
	if err := CheckWeights("patience distribution", sum); err != nil {
		return PatienceDistribution{}, err
	}
	pulls := make([]int, 0, len(weights))
	for p := range weights {
		pulls = append(pulls, p)
	}
	sort.Ints(pulls)

	d := PatienceDistribution{pulls: pulls, weights: make([]float64, len(pulls))}
	for i, p := range pulls {
		d.weights[i] = weights[p]
	}
	return d, nil
}

// Sample draws a maximum pull count from the distribution.
func (d PatienceDistribution) Sample(rng core.Rand) int {
	roll := rng.Float64()
	acc := 0.0
	for i, w := range d.weights {
		acc += w
		if roll < acc {
			return d.pulls[i]
		}
	}
	return d.pulls[len(d.pulls)-1]
}

// CheckWeights reports core.ErrWeightsNotNormal when a weight sum falls
// outside 1.0 ± WeightTolerance. Weights are never renormalized silently.
func CheckWeights(name string, sum float64) error {
	if math.Abs(sum-1.0) > WeightTolerance {
		return core.NewWeightSumError(name, sum)
	}
	return nil
}

func sumValues(weights map[machine.Item]float64) float64 {
	sum := 0.0
	for _, w := range weights {
		sum += w
	}
	return sum
}
