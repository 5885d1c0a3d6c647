package reader

import (
	"bytes"

	fx "github.com/robotalks/logicbox/pkg/framework"
	"github.com/robotalks/logicbox/pkg/irq"
)

// Reader is the logic analyzer event handler.
type Reader struct {
	Clock Clock
	Bus   Bus

	// TicksPerSecond is reported by query responses.
	TicksPerSecond uint32
	// ResetVerbosity is applied by InitState.
	ResetVerbosity Verbosity

	mask *irq.Mask

	// Shared with interrupt context, guarded by mask.
	mode        Mode
	rate        uint16
	firstSample bool
	prevValue   uint16
	pending     *Handoff

	// Polling context only.
	verbosity Verbosity
	wantQuery bool
}

// New creates a Reader sampling bus at the ticks counted by clock.
// mask must be the same mask the tick dispatcher holds while calling
// HandleTickISR; nil allocates a private one.
func New(clock Clock, bus Bus, mask *irq.Mask) *Reader {
	if mask == nil {
		mask = &irq.Mask{}
	}
	r := &Reader{
		Clock:          clock,
		Bus:            bus,
		TicksPerSecond: DefaultTicksPerSecond,
		ResetVerbosity: DefaultVerbosity,
		mask:           mask,
		pending:        NewHandoff(mask),
	}
	r.InitState()
	return r
}

// InitState implements fx.Initializer. Multiple calls are ok.
func (r *Reader) InitState() {
	r.Configure(ModeOff, 0)
	r.verbosity = r.ResetVerbosity
	r.wantQuery = false
}

// Configure switches to mode, discarding all per-mode state and any
// pending sample. rate is only kept for ModeRateDetect.
func (r *Reader) Configure(mode Mode, rate uint16) {
	r.mask.Disable()
	r.mode, r.rate = ModeOff, 0
	r.firstSample, r.prevValue = true, 0
	r.pending.Clear()
	switch mode {
	case ModeChangeDetect:
		r.mode = ModeChangeDetect
	case ModeRateDetect:
		// Fixed-rate sampling is not supported yet. Keep the selection so
		// queries show it, but OnTick produces nothing in this mode.
		r.mode, r.rate = ModeRateDetect, rate
	}
	r.mask.Enable()
}

// HandleTickISR implements fx.TickHandler.
// It must complete within one tick.
func (r *Reader) HandleTickISR() {
	r.OnTick(r.Clock.Ticks(), r.Bus.Read16())
}

// OnTick decides whether the sample taken at timestamp is reportable.
// Interrupt context only.
func (r *Reader) OnTick(timestamp uint32, value uint16) {
	switch r.mode {
	case ModeChangeDetect:
		// An undrained report is only replaced by new data.
		if r.firstSample || value != r.prevValue {
			r.firstSample = false
			r.pending.Publish(SampleEvent{Timestamp: timestamp, Value: value})
			r.prevValue = value
		}
	case ModeRateDetect:
		// TODO: queue samples at r.rate once the high-priority poll hook exists.
		r.pending.Clear()
	default:
		r.pending.Clear()
	}
}

// HandleCommand implements fx.CommandHandler.
// Unknown opcodes and out-of-range verbosity levels are ignored.
func (r *Reader) HandleCommand(opcode uint8, arg1, arg2 uint16) {
	switch opcode {
	case OpStop:
		r.Configure(ModeOff, arg1)
	case OpChangeDetect:
		r.Configure(ModeChangeDetect, arg1)
	case OpRateDetect:
		r.Configure(ModeRateDetect, arg1)
	case OpVerbosity:
		if v := Verbosity(arg1); v.IsValid() {
			r.verbosity = v
		}
	case OpQuery:
		r.wantQuery = true
	}
}

// DrainAndReport implements fx.Reporter.
// It appends at most one line to buf and tells whether it did.
func (r *Reader) DrainAndReport(buf *bytes.Buffer) bool {
	var evp *SampleEvent
	if ev, ok := r.pending.Drain(); ok {
		evp = &ev
	}
	line, kind := MakeReport(evp, r.wantQuery, r.verbosity, r.mode, r.TicksPerSecond)
	switch kind {
	case ReportQuery:
		r.wantQuery = false
	case ReportNone:
		return false
	}
	buf.WriteString(line)
	return true
}

// Commands implements fx.CommandHandler.
func (r *Reader) Commands() []fx.CommandDef {
	return []fx.CommandDef{
		{Name: "LST", Opcode: OpStop},
		{Name: "LCH", Opcode: OpChangeDetect},
		{Name: "LRA", Opcode: OpRateDetect, Args: 1},
		{Name: "LVB", Opcode: OpVerbosity, Args: 1},
		{Name: "LQY", Opcode: OpQuery},
	}
}

// HelpScreen implements fx.Helper.
func (r *Reader) HelpScreen() string {
	return helpScreen
}

// Mode returns the active mode. Polling context only.
func (r *Reader) Mode() Mode {
	return r.mode
}

// Rate returns the requested sample rate of ModeRateDetect.
func (r *Reader) Rate() uint16 {
	return r.rate
}

// Verbosity returns the report verbosity.
func (r *Reader) Verbosity() Verbosity {
	return r.verbosity
}

// QueryPending tells whether a query response is still owed.
func (r *Reader) QueryPending() bool {
	return r.wantQuery
}

const helpScreen = "Logic analyzer commands:\r\n" +
	"\r\n" +
	"LST  :  Stop reading.\r\n" +
	"LCH  :  Start reading, reporting input changes.\r\n" +
	"LRA n:  Start reading, reporting n samples per second.\r\n" +
	"LVB n:  Set report verbosity. 0 = none, 1 = short, 2 = medium, 3 = full.\r\n" +
	"LQY  :  Query logic analyzer configuration.\r\n"
