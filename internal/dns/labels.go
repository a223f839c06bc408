package dns

import (
	"math/rand"
	"sync"
	"time"
)

const labelAlphabet = "abcdefghijklmnopqrstuvwxyz0123456789"

// LabelGenerator produces random labels for names that should not exist
type LabelGenerator interface {
	Label(length int) string
}

// RandomLabels is a LabelGenerator safe for concurrent use
type RandomLabels struct {
	mu  sync.Mutex
	rng *rand.Rand
}

// NewRandomLabels creates a generator seeded from the clock
func NewRandomLabels() *RandomLabels {
	return NewSeededLabels(time.Now().UnixNano())
}

// NewSeededLabels creates a deterministic generator
func NewSeededLabels(seed int64) *RandomLabels {
	return &RandomLabels{rng: rand.New(rand.NewSource(seed))}
}

// Label returns length lowercase alphanumeric characters
func (g *RandomLabels) Label(length int) string {
	g.mu.Lock()
	defer g.mu.Unlock()

	b := make([]byte, length)
	for i := range b {
		b[i] = labelAlphabet[g.rng.Intn(len(labelAlphabet))]
	}
	return string(b)
}
