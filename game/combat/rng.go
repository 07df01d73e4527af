package combat

import (
	"math/rand"
	"time"
)

// RNG supplies the uniform draws combat consumes. Every crit, dodge,
// block and loot decision is one independent draw, so tests can script
// outcomes by injecting a stub.
type RNG interface {
	Float64() float64
	Intn(n int) int
}

// NewRNG returns a time-seeded math/rand source.
func NewRNG() RNG {
	return rand.New(rand.NewSource(time.Now().UnixNano()))
}
