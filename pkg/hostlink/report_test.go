package hostlink

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/robotalks/logicbox/pkg/reader"
)

func TestParseReportRoundTrip(t *testing.T) {
	ev := &reader.SampleEvent{Timestamp: 0x00abcdef, Value: 0x1234}
	testCases := []struct {
		verb reader.Verbosity
		ts   uint32
	}{
		{reader.VerbFull, 0x00abcdef},
		{reader.VerbMedium, 0xabcdef},
		{reader.VerbShort, 0xcdef},
	}
	for _, tc := range testCases {
		t.Run(tc.verb.String(), func(t *testing.T) {
			line, kind := reader.MakeReport(ev, false, tc.verb, reader.ModeChangeDetect, 10000)
			require.Equal(t, reader.ReportSample, kind)
			rpt, err := ParseReport(line)
			require.NoError(t, err)
			require.Equal(t, tc.ts, rpt.Timestamp)
			require.Equal(t, uint16(0x1234), rpt.Value)
			require.Equal(t, tc.verb, rpt.Verbosity())
		})
	}
}

func TestParseReportRejects(t *testing.T) {
	for _, line := range []string{
		"",
		"+",
		"00abcdef1234",
		"+00abcdef123",
		"+0abcdef1234",
		"+00abcdeg1234",
		"Read mode:  diff    Verbosity:   full    Ticks/sec:  10000",
	} {
		_, err := ParseReport(line)
		require.Equal(t, ErrNotReport, err, line)
	}
}

func TestParseStatusRoundTrip(t *testing.T) {
	for _, mode := range []reader.Mode{reader.ModeOff, reader.ModeChangeDetect, reader.ModeRateDetect} {
		for verb := reader.VerbNone; verb <= reader.VerbFull; verb++ {
			line, kind := reader.MakeReport(nil, true, verb, mode, 20000)
			require.Equal(t, reader.ReportQuery, kind)
			st, err := ParseStatus(line)
			require.NoError(t, err)
			require.Equal(t, &Status{Mode: mode, Verbosity: verb, TicksPerSecond: 20000}, st)
		}
	}
}

func TestParseStatusRejects(t *testing.T) {
	for _, line := range []string{
		"",
		"+00abcdef1234",
		"Read mode:  fast    Verbosity:   full    Ticks/sec:  10000",
		"Read mode:  diff    Verbosity:   loud    Ticks/sec:  10000",
		"Read mode:  diff    Verbosity:   full    Ticks/sec:  many",
	} {
		_, err := ParseStatus(line)
		require.Equal(t, ErrNotStatus, err, line)
	}
}
