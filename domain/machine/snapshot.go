package machine

// Snapshot is a frozen copy of an Inventory's composition, captured at the
// draw where a fullness threshold was crossed. Read-only once created.
type Snapshot struct {
	counts map[Item]int
	total  int
}

// Count returns the captured count for one item.
func (s Snapshot) Count(item Item) int {
	return s.counts[item]
}

// Total returns the captured total remaining capsules.
func (s Snapshot) Total() int {
	return s.total
}

// Rate returns the item's fractional share of the captured composition,
// or 0 when the snapshot is of an empty machine.
func (s Snapshot) Rate(item Item) float64 {
	if s.total == 0 {
		return 0
	}
	return float64(s.counts[item]) / float64(s.total)
}
