package reader

import "github.com/robotalks/logicbox/pkg/irq"

// Handoff is the single-slot buffer carrying a sample from interrupt
// context to the polling loop.
type Handoff struct {
	mask    *irq.Mask
	event   SampleEvent
	present bool
}

// NewHandoff creates a Handoff guarded by mask.
func NewHandoff(mask *irq.Mask) *Handoff {
	return &Handoff{mask: mask}
}

// Publish stores ev, replacing any undrained event.
// Interrupt context only: the caller already runs with interrupts masked.
func (h *Handoff) Publish(ev SampleEvent) {
	h.event, h.present = ev, true
}

// Clear drops the pending event. Same context rules as Publish.
func (h *Handoff) Clear() {
	h.event, h.present = SampleEvent{}, false
}

// Drain takes the pending event if there is one.
// Polling context only.
func (h *Handoff) Drain() (ev SampleEvent, ok bool) {
	h.mask.Disable()
	if ok = h.present; ok {
		ev, h.present = h.event, false
	}
	h.mask.Enable()
	return
}
