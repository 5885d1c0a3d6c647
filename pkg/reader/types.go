package reader

// Mode is the sampling mode.
type Mode int

// Sampling modes.
const (
	ModeOff Mode = iota
	ModeChangeDetect
	// ModeRateDetect is accepted but sampling at a fixed rate is not
	// supported yet; the reader behaves as if it were off.
	ModeRateDetect
)

// Label returns the fixed-width label used in query responses.
func (m Mode) Label() string {
	switch m {
	case ModeChangeDetect:
		return "diff"
	case ModeRateDetect:
		return "rate"
	default:
		return " off"
	}
}

func (m Mode) String() string {
	switch m {
	case ModeChangeDetect:
		return "change-detect"
	case ModeRateDetect:
		return "rate-detect"
	default:
		return "off"
	}
}

// Verbosity controls how many timestamp digits a sample report carries.
type Verbosity int

// Report verbosity levels, in command argument order.
const (
	VerbNone Verbosity = iota
	VerbShort
	VerbMedium
	VerbFull
)

// IsValid tells whether v is a defined level.
func (v Verbosity) IsValid() bool {
	return v >= VerbNone && v <= VerbFull
}

// Label returns the fixed-width label used in query responses.
func (v Verbosity) Label() string {
	switch v {
	case VerbFull:
		return " full"
	case VerbMedium:
		return "  med"
	case VerbShort:
		return "short"
	default:
		return "  off"
	}
}

func (v Verbosity) String() string {
	switch v {
	case VerbFull:
		return "full"
	case VerbMedium:
		return "medium"
	case VerbShort:
		return "short"
	default:
		return "none"
	}
}

// TimestampDigits is the number of hex digits of the timestamp emitted at
// this verbosity, 0 if samples are not reported.
func (v Verbosity) TimestampDigits() int {
	switch v {
	case VerbFull:
		return 8
	case VerbMedium:
		return 6
	case VerbShort:
		return 4
	default:
		return 0
	}
}

// SampleEvent is one reportable bus sample.
type SampleEvent struct {
	Timestamp uint32
	Value     uint16
}

// Clock supplies the free-running tick counter.
// It is only called from interrupt context.
type Clock interface {
	Ticks() uint32
}

// Bus supplies the current 16-bit input bus value.
// It is only called from interrupt context.
type Bus interface {
	Read16() uint16
}

// Command opcodes.
const (
	OpStop uint8 = iota
	OpChangeDetect
	OpRateDetect
	OpVerbosity
	OpQuery
)

const (
	// DefaultVerbosity is the verbosity after reset.
	DefaultVerbosity = VerbFull
	// DefaultTicksPerSecond is the timer tick rate reported by queries.
	DefaultTicksPerSecond uint32 = 10000
)
