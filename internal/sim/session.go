package sim

import (
	"gachasim/domain/core"
	"gachasim/domain/machine"
	"gachasim/domain/run"
)

// DrawObserver is invoked after every individual draw, before the session
// decides whether to stop. Lifetime-level bookkeeping (depletion points,
// threshold snapshots) hangs off this hook because those measurements must
// not depend on where session boundaries fall.
type DrawObserver func(drawn machine.Item)

// RunSession drives one customer against the inventory: draw until the
// desired item appears, patience runs out, or the machine empties
// mid-session. The outcome reflects the pulls actually taken, with success
// iff the final draw matched the desired item.
//
// The caller must not start a session against an empty inventory; a draw
// failing with core.ErrEmptyInventory is propagated as a fatal control-flow
// defect.
func RunSession(inv *machine.Inventory, rng core.Rand, desired machine.Item, maxPulls int, observe DrawObserver) (run.SessionOutcome, error) {
	outcome := run.SessionOutcome{DesiredItem: desired}

	for outcome.PullsTaken < maxPulls {
		if inv.TotalRemaining() == 0 {
			break
		}
		drawn, err := inv.Draw(rng)
		if err != nil {
			return run.SessionOutcome{}, err
		}
		outcome.PullsTaken++
		if observe != nil {
			observe(drawn)
		}
		if drawn == desired {
			outcome.Succeeded = true
			break
		}
	}
	return outcome, nil
}
