package config

import (
	"fmt"
	"os"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"

	"gachasim/domain/core"
	"gachasim/domain/customer"
	"gachasim/domain/machine"
	"gachasim/internal/errors"
)

// Config is the validated simulation scenario. The core components consume
// it read-only; there is no process-wide configuration state.
type Config struct {
	// Items lists the machine's prize catalog in draw order.
	Items []string `yaml:"items" validate:"required,min=1,unique"`

	// CapsulesPerItem is the starting count for every item.
	CapsulesPerItem int `yaml:"capsules_per_item" validate:"required,gt=0"`

	// ItemDesire maps item -> probability a customer wants it. Items left
	// out carry weight 0; weights must sum to 1.0.
	ItemDesire map[string]float64 `yaml:"item_desire" validate:"required,min=1"`

	// Patience maps item (or "Default") -> {max pulls -> probability}.
	// A "Default" entry is required; each distribution must sum to 1.0.
	Patience map[string]map[int]float64 `yaml:"patience" validate:"required,min=1"`

	// Lifetimes is how many independent machine lifetimes to simulate.
	Lifetimes int `yaml:"lifetimes" validate:"required,gt=0"`

	// Thresholds are the fullness fractions at which composition snapshots
	// are captured.
	Thresholds []float64 `yaml:"thresholds" validate:"required,min=1,unique,dive,gte=0,lte=1"`

	// Seed roots the deterministic per-lifetime random streams.
	Seed int64 `yaml:"seed"`

	// Workers bounds parallel lifetimes; 0 means one per CPU.
	Workers int `yaml:"workers" validate:"gte=0"`

	// Tests selects the (threshold, item) rate distributions to run the
	// significance test against.
	Tests []RateTest `yaml:"tests" validate:"dive"`
}

// RateTest names one threshold/item pair for significance testing.
type RateTest struct {
	Threshold float64 `yaml:"threshold" validate:"gte=0,lte=1"`
	Item      string  `yaml:"item" validate:"required"`
}

// Default returns the stock scenario: five items, fifty capsules each, all
// demand concentrated on the rare item with effectively infinite patience.
func Default() *Config {
	return &Config{
		Items: []string{
			"Cat Keychain",
			"Dog Keychain",
			"Rabbit Figurine",
			"Hamster Sticker",
			"Rare Gold Cat",
		},
		CapsulesPerItem: 50,
		ItemDesire: map[string]float64{
			"Rare Gold Cat": 1.0,
		},
		Patience: map[string]map[int]float64{
			customer.DefaultPatienceKey: {10000000: 1.0},
		},
		Lifetimes:  10000,
		Thresholds: []float64{1.0, 0.75, 0.50, 0.25, 0},
		Seed:       42,
		Tests: []RateTest{
			{Threshold: 0.25, Item: "Rare Gold Cat"},
		},
	}
}

// Load reads and validates a YAML scenario file.
func Load(path string) (*Config, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to read config file %s", path)
	}
	cfg := &Config{}
	if err := yaml.Unmarshal(raw, cfg); err != nil {
		return nil, errors.Wrapf(err, "failed to parse config file %s", path)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks structural constraints and domain invariants. Validating
// an already-valid config is idempotent. Violations are reported, never
// silently corrected.
func (c *Config) Validate() error {
	if err := validator.New().Struct(c); err != nil {
		return fmt.Errorf("%w: %v", core.ErrInvalidConfig, err)
	}

	known := make(map[string]bool, len(c.Items))
	for _, item := range c.Items {
		if item == "" {
			return fmt.Errorf("%w: empty item identifier", core.ErrInvalidConfig)
		}
		known[item] = true
	}

	desireSum := 0.0
	for item, w := range c.ItemDesire {
		if !known[item] {
			return core.NewUnknownItemError("item_desire", item)
		}
		if w < 0 {
			return fmt.Errorf("%w: negative desire weight for %q", core.ErrInvalidConfig, item)
		}
		desireSum += w
	}
	if err := customer.CheckWeights("item_desire", desireSum); err != nil {
		return err
	}

	if _, ok := c.Patience[customer.DefaultPatienceKey]; !ok {
		return fmt.Errorf("%w: patience set is missing the %q entry",
			core.ErrInvalidConfig, customer.DefaultPatienceKey)
	}
	for key, dist := range c.Patience {
		if key != customer.DefaultPatienceKey && !known[key] {
			return core.NewUnknownItemError("patience", key)
		}
		sum := 0.0
		for pulls, w := range dist {
			if pulls < 1 {
				return fmt.Errorf("%w: patience %q allows %d pulls; sessions take at least 1",
					core.ErrInvalidConfig, key, pulls)
			}
			if w < 0 {
				return fmt.Errorf("%w: negative patience weight in %q", core.ErrInvalidConfig, key)
			}
			sum += w
		}
		if err := customer.CheckWeights(fmt.Sprintf("patience[%s]", key), sum); err != nil {
			return err
		}
	}

	configured := make(map[float64]bool, len(c.Thresholds))
	for _, f := range c.Thresholds {
		configured[f] = true
	}
	for _, t := range c.Tests {
		if !known[t.Item] {
			return core.NewUnknownItemError("tests", t.Item)
		}
		if !configured[t.Threshold] {
			return fmt.Errorf("%w: test threshold %g is not in the snapshot threshold set",
				core.ErrInvalidConfig, t.Threshold)
		}
	}
	return nil
}

// ItemList returns the catalog as domain items.
func (c *Config) ItemList() []machine.Item {
	items := make([]machine.Item, len(c.Items))
	for i, s := range c.Items {
		items[i] = machine.Item(s)
	}
	return items
}

// TotalCapsules is the starting capsule count of a full machine.
func (c *Config) TotalCapsules() int {
	return c.CapsulesPerItem * len(c.Items)
}

// BaselineRate is an item's nominal physical share of the inventory, the
// null-hypothesis mean for significance testing.
func (c *Config) BaselineRate() float64 {
	return 1.0 / float64(len(c.Items))
}

// BehaviorModel builds the customer model from the configured
// distributions. Items without a desire entry get weight 0, so sessions
// seeking them can only arise when such items carry explicit weight; absent
// inventory fails sessions naturally by exhausting patience.
func (c *Config) BehaviorModel() (*customer.BehaviorModel, error) {
	desireWeights := make(map[machine.Item]float64, len(c.ItemDesire))
	for item, w := range c.ItemDesire {
		desireWeights[machine.Item(item)] = w
	}
	desire, err := customer.NewDesireDistribution(desireWeights)
	if err != nil {
		return nil, err
	}

	patience := make(map[string]customer.PatienceDistribution, len(c.Patience))
	for key, weights := range c.Patience {
		dist, err := customer.NewPatienceDistribution(weights)
		if err != nil {
			return nil, errors.Wrapf(err, "patience distribution %q", key)
		}
		patience[key] = dist
	}
	return customer.NewBehaviorModel(desire, patience)
}
