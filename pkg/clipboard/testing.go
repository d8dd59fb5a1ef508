package clipboard

import "testing"

// UseMemory configures an in-memory clipboard and returns it for inspection.
func UseMemory(t *testing.T) *MemoryClipboard {
	c := NewMemoryClipboard()
	current = c
	t.Cleanup(Reset)
	return c
}

// UseFailing configures a clipboard where every operation fails with err.
func UseFailing(t *testing.T, err error) {
	current = &FailingClipboard{Err: err}
	t.Cleanup(Reset)
}
