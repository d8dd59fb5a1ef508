package key

import (
	"crypto/rand"
	"fmt"
	"math/big"
)

var generator Generator = &RandomGenerator{}

/* Generator */

type Generator interface {
	New() string
}

// Reset restores the original random key generator.
// Useful in tests with a defer after overriding the default generator.
func Reset() {
	generator = &RandomGenerator{}
}

/*
 * RandomGenerator
 */

// RandomGenerator is a production-grade Generator returning random keys.
type RandomGenerator struct{}

func NewRandomGenerator() *RandomGenerator {
	return &RandomGenerator{}
}

// New generates a key.
// Keys are not guaranteed unique but collisions inside a single
// stream's lifetime are unlikely enough for a copy/paste protocol.
func (g *RandomGenerator) New() string {
	b := make([]byte, Length)
	max := big.NewInt(int64(len(Charset)))
	for i := range b {
		n, err := rand.Int(rand.Reader, max)
		if err != nil {
			// crypto/rand only fails when the OS entropy source is broken
			panic(err)
		}
		b[i] = Charset[n.Int64()]
	}
	return string(b)
}

/*
 * SuiteGenerator
 */

// SuiteGenerator returns a predefined suite of keys.
// This generator is useful for tests when keys are relevant for the test case.
type SuiteGenerator struct {
	nextKeys []string
}

func NewSuiteGenerator(nextKeys ...string) *SuiteGenerator {
	return &SuiteGenerator{nextKeys: nextKeys}
}

func (g *SuiteGenerator) New() string {
	if len(g.nextKeys) > 0 {
		key, nextKeys := g.nextKeys[0], g.nextKeys[1:]
		g.nextKeys = nextKeys
		return key
	}
	panic("No more keys")
}

/*
 * FixedGenerator
 */

// FixedGenerator returns always the same key.
// This generator is useful for tests when keys are relevant for the test case.
type FixedGenerator struct {
	key string
}

func NewFixedGenerator(key string) *FixedGenerator {
	return &FixedGenerator{key: key}
}

func (g *FixedGenerator) New() string {
	return g.key
}

/*
 * SequenceGenerator
 */

// SequenceGenerator returns numbered keys in a predictable format.
// This generator is useful for tests when checking successive exchanges.
type SequenceGenerator struct {
	count int
}

func NewSequenceGenerator() *SequenceGenerator {
	return &SequenceGenerator{count: 0}
}

func (g *SequenceGenerator) New() string {
	g.count++
	return fmt.Sprintf("%0*d", Length, g.count)
}
