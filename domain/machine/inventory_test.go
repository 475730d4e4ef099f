package machine

import (
	"errors"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"gachasim/domain/core"
)

func testItems() []Item {
	return []Item{"Cat Keychain", "Dog Keychain", "Rabbit Figurine", "Hamster Sticker", "Rare Gold Cat"}
}

func TestNewInventory_StartsFull(t *testing.T) {
	inv := NewInventory(testItems(), 50)

	assert.Equal(t, 250, inv.TotalRemaining())
	for _, item := range testItems() {
		assert.Equal(t, 50, inv.Count(item))
	}
}

func TestDraw_DecrementsExactlyOne(t *testing.T) {
	inv := NewInventory(testItems(), 10)
	rng := rand.New(rand.NewSource(1))

	item, err := inv.Draw(rng)
	require.NoError(t, err)
	assert.Equal(t, 49, inv.TotalRemaining())
	assert.Equal(t, 9, inv.Count(item))
}

func TestDraw_TotalStrictlyDecreasesToZero(t *testing.T) {
	inv := NewInventory(testItems(), 10)
	rng := rand.New(rand.NewSource(7))

	prev := inv.TotalRemaining()
	for inv.TotalRemaining() > 0 {
		_, err := inv.Draw(rng)
		require.NoError(t, err)
		require.Equal(t, prev-1, inv.TotalRemaining())
		prev = inv.TotalRemaining()
	}
	assert.Equal(t, 0, inv.TotalRemaining())
}

func TestDraw_EmptyInventoryFails(t *testing.T) {
	inv := NewInventory([]Item{"Cat Keychain"}, 1)
	rng := rand.New(rand.NewSource(1))

	_, err := inv.Draw(rng)
	require.NoError(t, err)

	_, err = inv.Draw(rng)
	require.Error(t, err)
	assert.True(t, errors.Is(err, core.ErrEmptyInventory))
}

func TestDraw_ZeroCountItemNeverDrawn(t *testing.T) {
	items := []Item{"Common", "Absent"}
	inv := NewInventoryWithCounts(items, map[Item]int{"Common": 20, "Absent": 0})
	rng := rand.New(rand.NewSource(3))

	for inv.TotalRemaining() > 0 {
		item, err := inv.Draw(rng)
		require.NoError(t, err)
		require.Equal(t, Item("Common"), item)
	}
}

func TestDraw_WeightedByRemainingCount(t *testing.T) {
	// One item holds 90% of the capsules; over many fresh machines the
	// first draw should land on it about 90% of the time.
	items := []Item{"Heavy", "Light"}
	rng := rand.New(rand.NewSource(11))

	heavy := 0
	const trials = 5000
	for i := 0; i < trials; i++ {
		inv := NewInventoryWithCounts(items, map[Item]int{"Heavy": 90, "Light": 10})
		item, err := inv.Draw(rng)
		require.NoError(t, err)
		if item == "Heavy" {
			heavy++
		}
	}
	assert.InDelta(t, 0.9, float64(heavy)/trials, 0.02)
}

func TestSnapshot_ImmutableCopy(t *testing.T) {
	inv := NewInventory(testItems(), 5)
	snap := inv.Snapshot()
	rng := rand.New(rand.NewSource(2))

	for i := 0; i < 10; i++ {
		_, err := inv.Draw(rng)
		require.NoError(t, err)
	}

	assert.Equal(t, 25, snap.Total())
	for _, item := range testItems() {
		assert.Equal(t, 5, snap.Count(item))
	}
}

func TestSnapshot_RateOfEmptyMachineIsZero(t *testing.T) {
	inv := NewInventoryWithCounts([]Item{"Cat Keychain"}, map[Item]int{"Cat Keychain": 0})
	snap := inv.Snapshot()

	assert.Equal(t, 0, snap.Total())
	assert.Equal(t, 0.0, snap.Rate("Cat Keychain"))
}
