// Package resync provides a sync.Once that can be reset,
// which is convenient to reinitialize singletons between unit tests.
package resync

import (
	"sync"
	"sync/atomic"
)

// Once behaves like sync.Once but supports Reset to allow Do to be called again.
type Once struct {
	m    sync.Mutex
	done uint32
}

// Do calls the function f only once until Reset is called.
func (o *Once) Do(f func()) {
	if atomic.LoadUint32(&o.done) == 1 {
		return
	}

	o.m.Lock()
	defer o.m.Unlock()
	if o.done == 0 {
		defer atomic.StoreUint32(&o.done, 1)
		f()
	}
}

// Reset makes the next call to Do execute its function again.
func (o *Once) Reset() {
	o.m.Lock()
	defer o.m.Unlock()
	atomic.StoreUint32(&o.done, 0)
}
