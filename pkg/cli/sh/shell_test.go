package sh

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestFormatLine(t *testing.T) {
	require.Equal(t, "+0000002a0005  t=42  value=0x0005  bits=0000000000000101",
		FormatLine("+0000002a0005"))
	require.Equal(t, "mode=change-detect verbosity=medium ticks/sec=10000",
		FormatLine("Read mode:  diff    Verbosity:    med    Ticks/sec:  10000"))
	require.Equal(t, "devicetype: Digital Box", FormatLine("devicetype: Digital Box"))
}

func TestIsSerial(t *testing.T) {
	require.True(t, isSerial("/dev/ttyUSB0"))
	require.True(t, isSerial("com3"))
	require.False(t, isSerial("localhost:7000"))
}

func TestParseArg(t *testing.T) {
	v, err := ParseArg("65535")
	require.NoError(t, err)
	require.Equal(t, uint16(65535), v)
	_, err = ParseArg("65536")
	require.Error(t, err)
	_, err = ParseArg("-1")
	require.Error(t, err)
}
