package customer

import (
	"fmt"

	"gachasim/domain/core"
	"gachasim/domain/machine"
)

// BehaviorModel decides what a customer wants and how persistently they
// pull. Stateless given its distributions: all randomness comes from the
// Rand passed per call, so the model is shared across parallel lifetimes.
type BehaviorModel struct {
	desire          DesireDistribution
	patience        map[machine.Item]PatienceDistribution
	defaultPatience PatienceDistribution
}

// NewBehaviorModel assembles a model from validated distributions.
// The patience set must include a DefaultPatienceKey entry; per-item
// entries override it.
func NewBehaviorModel(desire DesireDistribution, patience map[string]PatienceDistribution) (*BehaviorModel, error) {
	def, ok := patience[DefaultPatienceKey]
	if !ok {
		return nil, fmt.Errorf("%w: missing %q patience distribution", core.ErrInvalidConfig, DefaultPatienceKey)
	}
	byItem := make(map[machine.Item]PatienceDistribution, len(patience))
	for key, dist := range patience {
		if key == DefaultPatienceKey {
			continue
		}
		byItem[machine.Item(key)] = dist
	}
	return &BehaviorModel{desire: desire, patience: byItem, defaultPatience: def}, nil
}

// ChooseDesiredItem samples the prize this customer is after.
func (m *BehaviorModel) ChooseDesiredItem(rng core.Rand) machine.Item {
	return m.desire.Sample(rng)
}

// ChoosePatience samples how many pulls the customer will attempt before
// giving up on the desired item, falling back to the default distribution
// when the item has none of its own.
func (m *BehaviorModel) ChoosePatience(rng core.Rand, desired machine.Item) int {
	if dist, ok := m.patience[desired]; ok {
		return dist.Sample(rng)
	}
	return m.defaultPatience.Sample(rng)
}
