// Package random provides the pseudo-random source used for treasury
// distribution.
//
// Participant selection is deliberately weak: an adversary who controls
// transaction ordering can derive or bias the outcome. That limitation is
// inherited behavior - replacing the source with something stronger would
// change external behavior, so the weakness is documented here instead of
// fixed. The Source interface exists so tests can supply deterministic
// values and deployments can swap the entropy backend.
package random

import (
	crand "crypto/rand"
	"encoding/binary"
	"fmt"
	"math/rand"
)

// Source yields pseudo-random indices for weighted selections.
type Source interface {
	// Intn returns a value in [0, n). Panics if n <= 0.
	Intn(n int) int
}

// NewSeed generates a random seed using crypto/rand.
func NewSeed() (int64, error) {
	var b [8]byte
	if _, err := crand.Read(b[:]); err != nil {
		return 0, fmt.Errorf("read random seed: %w", err)
	}

	return int64(binary.LittleEndian.Uint64(b[:])), nil
}

// NewSeededSource returns a math/rand source seeded from crypto/rand.
func NewSeededSource() (Source, error) {
	seed, err := NewSeed()
	if err != nil {
		return nil, err
	}

	return rand.New(rand.NewSource(seed)), nil
}
