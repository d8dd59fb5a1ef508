package key

import "testing"

// UseNext configures a predefined list of keys
func UseNext(t *testing.T, keys ...string) {
	generator = NewSuiteGenerator(keys...)
	t.Cleanup(Reset)
}

// UseFixed configures a fixed key value
func UseFixed(t *testing.T, value string) {
	generator = NewFixedGenerator(value)
	t.Cleanup(Reset)
}

// UseSequence configures a predefined sequence
func UseSequence(t *testing.T) {
	generator = NewSequenceGenerator()
	t.Cleanup(Reset)
}
