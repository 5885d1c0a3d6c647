package framework

import (
	"bytes"
	"context"
)

// Named is an abstraction for things with a name.
type Named interface {
	Name() string
}

// Runnable defines a generic interface for background runners.
type Runnable interface {
	Run(context.Context) error
}

// RunFunc is the func form of Runnable.
type RunFunc func(context.Context) error

// Run implements Runnable.
func (f RunFunc) Run(ctx context.Context) error {
	return f(ctx)
}

// Event handlers implement any subset of the capability interfaces below.
// A handler is registered once with App.Add.

// Initializer resets handler state. It is called on registration and
// may be called again at any time from polling context.
type Initializer interface {
	InitState()
}

// TickHandler is called once per timer tick in interrupt context.
// HandleTickISR must complete within one tick and must not block.
type TickHandler interface {
	HandleTickISR()
}

// CommandDef maps a command mnemonic to a handler opcode.
type CommandDef struct {
	// Name is the mnemonic, upper case.
	Name string
	// Opcode is passed to HandleCommand.
	Opcode uint8
	// Args is the number of arguments the command takes, at most 2.
	Args int
}

// CommandHandler receives commands routed by mnemonic.
// Opcodes with fewer than two arguments get the extra args set to zero.
type CommandHandler interface {
	Commands() []CommandDef
	HandleCommand(opcode uint8, arg1, arg2 uint16)
}

// Reporter is asked once per polling pass for a report line.
// It appends at most one line to buf and tells whether it did.
type Reporter interface {
	DrainAndReport(buf *bytes.Buffer) bool
}

// Helper provides the help screen for its commands.
type Helper interface {
	HelpScreen() string
}

// ISRHandler is what a timer driver calls on every tick.
type ISRHandler interface {
	DoUpdateISR()
}

// ISRHandlerFunc is the func form of ISRHandler.
type ISRHandlerFunc func()

// DoUpdateISR implements ISRHandler.
func (f ISRHandlerFunc) DoUpdateISR() {
	f()
}

// Command is a parsed host command.
type Command struct {
	Name string
	Args []uint16
}

// CommandPoster accepts commands from a host link.
type CommandPoster interface {
	PostCommand(Command)
}
