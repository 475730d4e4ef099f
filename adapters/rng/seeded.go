package rng

import (
	"crypto/sha256"
	"encoding/binary"
	"fmt"
	"math/rand"

	"gachasim/domain/core"
)

// SeededRNG derives per-lifetime random streams from a single base seed.
// Stream seeds are hashed rather than offset so that neighboring lifetime
// indices do not produce correlated generators.
type SeededRNG struct {
	baseSeed int64
}

// NewSeeded creates an RNG adapter rooted at baseSeed.
func NewSeeded(baseSeed int64) *SeededRNG {
	return &SeededRNG{baseSeed: baseSeed}
}

// LifetimeStream returns the deterministic stream for one lifetime index.
func (r *SeededRNG) LifetimeStream(index int) core.Rand {
	return rand.New(rand.NewSource(streamSeed(r.baseSeed, index)))
}

// streamSeed generates a deterministic seed from the base seed and stream
// identity using SHA256.
func streamSeed(baseSeed int64, index int) int64 {
	data := fmt.Sprintf("seed:%d|lifetime:%d", baseSeed, index)
	hash := sha256.Sum256([]byte(data))
	return int64(binary.BigEndian.Uint64(hash[:8]) &^ (1 << 63))
}
