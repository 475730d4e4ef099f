package sim

import (
	"fmt"

	"gachasim/domain/core"
	"gachasim/domain/customer"
	"gachasim/domain/machine"
	"gachasim/domain/run"
)

// LifetimeSimulator drains one machine from full to empty through repeated
// customer sessions, capturing a snapshot at each fullness threshold and
// the depletion point of every item.
//
// Snapshots are captured per-draw: the instant a draw brings total
// remaining at or below a threshold's capsule count, that threshold is
// snapped, regardless of where the current session ends. Capturing only at
// session boundaries would weight the observed composition by session
// length; per-draw capture samples each crossing exactly once.
type LifetimeSimulator struct {
	behavior   *customer.BehaviorModel
	thresholds []run.Threshold
}

// NewLifetimeSimulator builds a simulator over a shared behavior model and
// threshold set. Both are read-only, so one simulator serves many parallel
// lifetimes.
func NewLifetimeSimulator(behavior *customer.BehaviorModel, thresholds []run.Threshold) *LifetimeSimulator {
	return &LifetimeSimulator{behavior: behavior, thresholds: thresholds}
}

// Run simulates one full lifetime of inv and returns its immutable result.
// Termination is guaranteed: every draw strictly decreases total remaining.
func (s *LifetimeSimulator) Run(rng core.Rand, inv *machine.Inventory) (*run.LifetimeResult, error) {
	result := &run.LifetimeResult{
		RunID:     core.NewRunID(),
		Snapshots: make(map[run.ThresholdLabel]machine.Snapshot, len(s.thresholds)),
		Depletion: run.DepletionRecord{},
	}

	captured := make(map[run.ThresholdLabel]bool, len(s.thresholds))
	// The 100% threshold (and any threshold at or above the starting
	// total) is captured once before any draws.
	s.capture(inv, result, captured)

	pull := 0
	for inv.TotalRemaining() > 0 {
		desired := s.behavior.ChooseDesiredItem(rng)
		patience := s.behavior.ChoosePatience(rng, desired)

		outcome, err := RunSession(inv, rng, desired, patience, func(drawn machine.Item) {
			pull++
			if inv.Count(drawn) == 0 {
				if _, seen := result.Depletion[drawn]; !seen {
					result.Depletion[drawn] = pull
				}
			}
			s.capture(inv, result, captured)
		})
		if err != nil {
			return nil, fmt.Errorf("lifetime %s: %w", result.RunID, err)
		}
		result.Outcomes = append(result.Outcomes, outcome)
	}

	for _, t := range s.thresholds {
		if !captured[t.Label] {
			return nil, fmt.Errorf("lifetime %s: threshold %s never captured", result.RunID, t.Label)
		}
	}
	return result, nil
}

// capture snaps every not-yet-captured threshold whose capsule count has
// been reached. Thresholds are checked fullest-first, so a single draw that
// crosses several at once records the same composition for each.
func (s *LifetimeSimulator) capture(inv *machine.Inventory, result *run.LifetimeResult, captured map[run.ThresholdLabel]bool) {
	remaining := inv.TotalRemaining()
	for _, t := range s.thresholds {
		if captured[t.Label] || remaining > t.Capsules {
			continue
		}
		result.Snapshots[t.Label] = inv.Snapshot()
		captured[t.Label] = true
	}
}
