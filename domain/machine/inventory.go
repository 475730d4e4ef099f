package machine

import (
	"gachasim/domain/core"
)

// Item identifies one prize type held by the machine.
type Item string

// Inventory is the mutable multiset of capsules remaining in one machine.
// It is lifetime-local: each simulated lifetime builds a fresh Inventory
// and drains it to zero. Not safe for concurrent use.
type Inventory struct {
	order  []Item
	counts map[Item]int
	total  int
}

// NewInventory builds a full machine holding perItem capsules of every item.
// Item order is preserved so that draws are deterministic under a seeded Rand.
func NewInventory(items []Item, perItem int) *Inventory {
	inv := &Inventory{
		order:  make([]Item, len(items)),
		counts: make(map[Item]int, len(items)),
	}
	copy(inv.order, items)
	for _, item := range items {
		inv.counts[item] = perItem
		inv.total += perItem
	}
	return inv
}

// NewInventoryWithCounts builds a machine with explicit per-item counts.
// Items with a zero count stay in the catalog but carry no drawing weight.
func NewInventoryWithCounts(items []Item, counts map[Item]int) *Inventory {
	inv := &Inventory{
		order:  make([]Item, len(items)),
		counts: make(map[Item]int, len(items)),
	}
	copy(inv.order, items)
	for _, item := range items {
		inv.counts[item] = counts[item]
		inv.total += counts[item]
	}
	return inv
}

// Draw removes one capsule chosen uniformly over the remaining physical
// units, so each item is drawn with probability proportional to its
// remaining count. Returns core.ErrEmptyInventory when nothing remains;
// callers treat that as a control-flow defect, not a recoverable state.
func (inv *Inventory) Draw(rng core.Rand) (Item, error) {
	if inv.total == 0 {
		return "", core.ErrEmptyInventory
	}
	pick := rng.Intn(inv.total)
	for _, item := range inv.order {
		n := inv.counts[item]
		if pick < n {
			inv.counts[item] = n - 1
			inv.total--
			return item, nil
		}
		pick -= n
	}
	// Unreachable while counts and total agree.
	return "", core.ErrEmptyInventory
}

// TotalRemaining returns the number of capsules left in the machine.
func (inv *Inventory) TotalRemaining() int {
	return inv.total
}

// Count returns the remaining capsules of one item.
func (inv *Inventory) Count(item Item) int {
	return inv.counts[item]
}

// Items returns the machine's item catalog in draw order.
func (inv *Inventory) Items() []Item {
	items := make([]Item, len(inv.order))
	copy(items, inv.order)
	return items
}

// Snapshot captures the current composition as an immutable copy.
func (inv *Inventory) Snapshot() Snapshot {
	counts := make(map[Item]int, len(inv.counts))
	for item, n := range inv.counts {
		counts[item] = n
	}
	return Snapshot{counts: counts, total: inv.total}
}
