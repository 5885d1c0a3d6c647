// Package bus provides 16-bit input bus sources for the reader.
package bus

import (
	"sync/atomic"
)

// Register is a bus whose value is set from outside, like a latch
// written by another part of the system.
type Register struct {
	value uint32
}

// Set sets the bus value.
func (r *Register) Set(v uint16) {
	atomic.StoreUint32(&r.value, uint32(v))
}

// Read16 implements reader.Bus.
func (r *Register) Read16() uint16 {
	return uint16(atomic.LoadUint32(&r.value))
}

// Clock supplies tick counts to Pattern.
type Clock interface {
	Ticks() uint32
}

// Pattern generates a deterministic test pattern: the bus value steps
// through Values, holding each one for Hold ticks.
type Pattern struct {
	Clock  Clock
	Values []uint16
	Hold   uint32
}

// Counter returns a Pattern counting from 0 to 0xffff, advancing every
// hold ticks.
func Counter(clock Clock, hold uint32) *Pattern {
	return &Pattern{Clock: clock, Hold: hold}
}

// Read16 implements reader.Bus.
func (p *Pattern) Read16() uint16 {
	hold := p.Hold
	if hold == 0 {
		hold = 1
	}
	step := p.Clock.Ticks() / hold
	if len(p.Values) == 0 {
		return uint16(step)
	}
	return p.Values[step%uint32(len(p.Values))]
}

// Scripted replays a fixed sequence of values, one per read, and then
// keeps returning the last one.
type Scripted struct {
	Values []uint16
	next   int
}

// Read16 implements reader.Bus.
func (s *Scripted) Read16() uint16 {
	if len(s.Values) == 0 {
		return 0
	}
	v := s.Values[s.next]
	if s.next+1 < len(s.Values) {
		s.next++
	}
	return v
}
