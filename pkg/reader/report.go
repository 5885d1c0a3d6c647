package reader

import (
	"fmt"
)

// ReportKind tells what MakeReport produced.
type ReportKind int

// Report kinds.
const (
	ReportNone ReportKind = iota
	ReportSample
	ReportQuery
)

const hexDigits = "0123456789abcdef"

// MakeReport renders a report line. A sample report takes priority: the
// query response is only produced when no sample line is, so a pending
// query survives a call that reports a sample.
func MakeReport(ev *SampleEvent, queryPending bool, verb Verbosity, mode Mode, ticksPerSecond uint32) (string, ReportKind) {
	if ev != nil {
		if digits := verb.TimestampDigits(); digits > 0 {
			return string(AppendSample(nil, *ev, digits)), ReportSample
		}
	}
	if queryPending {
		return fmt.Sprintf("Read mode:  %s    Verbosity:  %s    Ticks/sec:  %d\r\n",
			mode.Label(), verb.Label(), ticksPerSecond), ReportQuery
	}
	return "", ReportNone
}

// AppendSample appends the sample line for ev with tsDigits timestamp
// digits to dst.
func AppendSample(dst []byte, ev SampleEvent, tsDigits int) []byte {
	dst = append(dst, '+')
	dst = appendHex(dst, ev.Timestamp, tsDigits)
	dst = appendHex(dst, uint32(ev.Value), 4)
	return append(dst, '\r', '\n')
}

// appendHex writes the low digits nibbles of v, most significant first.
func appendHex(dst []byte, v uint32, digits int) []byte {
	for shift := uint(digits-1) * 4; ; shift -= 4 {
		dst = append(dst, hexDigits[(v>>shift)&0xf])
		if shift == 0 {
			return dst
		}
	}
}
