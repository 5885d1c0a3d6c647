package hostlink

import (
	"errors"
	"strconv"
	"strings"

	"github.com/robotalks/logicbox/pkg/reader"
)

var (
	// ErrNotReport indicates the line is not a sample report.
	ErrNotReport = errors.New("not a sample report")
	// ErrNotStatus indicates the line is not a query response.
	ErrNotStatus = errors.New("not a query response")
)

// Report is a decoded sample report line.
type Report struct {
	// Timestamp holds only the digits present in the line.
	Timestamp uint32
	Value     uint16
	// TimestampDigits is the number of hex digits of Timestamp.
	TimestampDigits int
}

// Verbosity returns the verbosity the report was produced at.
func (r Report) Verbosity() reader.Verbosity {
	switch r.TimestampDigits {
	case 8:
		return reader.VerbFull
	case 6:
		return reader.VerbMedium
	case 4:
		return reader.VerbShort
	}
	return reader.VerbNone
}

// Status is a decoded query response.
type Status struct {
	Mode           reader.Mode
	Verbosity      reader.Verbosity
	TicksPerSecond uint32
}

// ParseReport decodes a sample report line. The line terminator is
// optional.
func ParseReport(line string) (*Report, error) {
	line = strings.TrimRight(line, "\r\n")
	if len(line) < 1 || line[0] != '+' {
		return nil, ErrNotReport
	}
	hex := line[1:]
	digits := len(hex) - 4
	if digits != 4 && digits != 6 && digits != 8 {
		return nil, ErrNotReport
	}
	ts, err := strconv.ParseUint(hex[:digits], 16, 32)
	if err != nil {
		return nil, ErrNotReport
	}
	val, err := strconv.ParseUint(hex[digits:], 16, 16)
	if err != nil {
		return nil, ErrNotReport
	}
	return &Report{Timestamp: uint32(ts), Value: uint16(val), TimestampDigits: digits}, nil
}

// ParseStatus decodes a query response line.
func ParseStatus(line string) (*Status, error) {
	fields := strings.Fields(line)
	if len(fields) != 7 || fields[0] != "Read" || fields[1] != "mode:" ||
		fields[3] != "Verbosity:" || fields[5] != "Ticks/sec:" {
		return nil, ErrNotStatus
	}
	var st Status
	switch fields[2] {
	case "off":
		st.Mode = reader.ModeOff
	case "diff":
		st.Mode = reader.ModeChangeDetect
	case "rate":
		st.Mode = reader.ModeRateDetect
	default:
		return nil, ErrNotStatus
	}
	switch fields[4] {
	case "off":
		st.Verbosity = reader.VerbNone
	case "short":
		st.Verbosity = reader.VerbShort
	case "med":
		st.Verbosity = reader.VerbMedium
	case "full":
		st.Verbosity = reader.VerbFull
	default:
		return nil, ErrNotStatus
	}
	rate, err := strconv.ParseUint(fields[6], 10, 32)
	if err != nil {
		return nil, ErrNotStatus
	}
	st.TicksPerSecond = uint32(rate)
	return &st, nil
}
