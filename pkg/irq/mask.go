package irq

import "sync"

// Mask is an interrupt mask. The zero value is ready to use with
// interrupts enabled.
type Mask struct {
	lock sync.Mutex
}

// Disable masks interrupts. Every Disable must be paired with Enable.
// Mask is not re-entrant: calling Disable again from the same context
// before Enable deadlocks, like nesting a non-restoring cli/sei pair.
func (m *Mask) Disable() {
	m.lock.Lock()
}

// Enable restores interrupts.
func (m *Mask) Enable() {
	m.lock.Unlock()
}

// Atomic runs fn with interrupts masked.
func (m *Mask) Atomic(fn func()) {
	m.lock.Lock()
	defer m.lock.Unlock()
	fn()
}
