package bus

import (
	"testing"

	"github.com/stretchr/testify/require"
)

type fixedClock uint32

func (c *fixedClock) Ticks() uint32 { return uint32(*c) }

func TestRegister(t *testing.T) {
	var r Register
	require.Equal(t, uint16(0), r.Read16())
	r.Set(0xbeef)
	require.Equal(t, uint16(0xbeef), r.Read16())
}

func TestPattern(t *testing.T) {
	var clock fixedClock
	p := &Pattern{Clock: &clock, Values: []uint16{1, 2, 3}, Hold: 2}
	var got []uint16
	for ; clock < 8; clock++ {
		got = append(got, p.Read16())
	}
	require.Equal(t, []uint16{1, 1, 2, 2, 3, 3, 1, 1}, got)
}

func TestCounter(t *testing.T) {
	clock := fixedClock(0x10005)
	require.Equal(t, uint16(5), Counter(&clock, 1).Read16())
	require.Equal(t, uint16(0x8002), Counter(&clock, 2).Read16())
}

func TestScripted(t *testing.T) {
	s := &Scripted{Values: []uint16{4, 5}}
	require.Equal(t, uint16(4), s.Read16())
	require.Equal(t, uint16(5), s.Read16())
	require.Equal(t, uint16(5), s.Read16())
	require.Equal(t, uint16(0), (&Scripted{}).Read16())
}
