// Package irq provides the critical-section primitive shared by the
// tick (interrupt) context and the polling context.
package irq

// On a microcontroller the tick handler runs with interrupts disabled and
// the polling loop masks interrupts around every access to state it shares
// with the handler. Mask emulates that on a host: the tick dispatcher holds
// the mask for the whole handler run, and the polling side holds it only for
// the few field copies it needs. A tick that fires while the polling side
// holds the mask is deferred until the mask is restored, which is exactly
// what a pending hardware interrupt does.
//
// Sections must stay short and must never call anything that can block.
