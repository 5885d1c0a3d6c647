package hostlink

import (
	"errors"

	fx "github.com/robotalks/logicbox/pkg/framework"
)

const (
	// MaxNameLen is the longest accepted mnemonic.
	MaxNameLen = 8
	// MaxArgs is the maximum number of arguments of a command.
	MaxArgs = 2
)

var (
	// ErrBadLine indicates a malformed command line was dropped.
	ErrBadLine = errors.New("malformed command line")
)

// Parser parses command lines one byte at a time.
type Parser struct {
	state parseState
	name  []byte
	args  []uint16
	arg   uint32
}

type parseState int

const (
	stateIdle    parseState = iota // waiting for mnemonic
	stateName                      // in mnemonic
	stateBlank                     // after a token
	stateArg                       // in a decimal argument
	stateDiscard                   // bad line, waiting for end of line
)

// Reset drops any partial line.
func (p *Parser) Reset() {
	p.state, p.name, p.args, p.arg = stateIdle, p.name[:0], nil, 0
}

// Parse consumes one byte. It returns the command when b completes a
// valid line, or ErrBadLine when b ends a malformed one.
func (p *Parser) Parse(b byte) (*fx.Command, error) {
	switch {
	case b == '\r' || b == '\n':
		return p.endOfLine()
	case b == ' ' || b == '\t':
		switch p.state {
		case stateName:
			p.state = stateBlank
		case stateArg:
			p.pushArg()
		}
	case b < 0x20 || b >= 0x7f:
		p.state = stateDiscard
	default:
		p.parsePrintable(b)
	}
	return nil, nil
}

func (p *Parser) parsePrintable(b byte) {
	switch p.state {
	case stateIdle, stateName:
		if len(p.name) >= MaxNameLen {
			p.state = stateDiscard
			return
		}
		if b >= 'a' && b <= 'z' {
			b -= 'a' - 'A'
		}
		p.name, p.state = append(p.name, b), stateName
	case stateBlank:
		if b < '0' || b > '9' || len(p.args) >= MaxArgs {
			p.state = stateDiscard
			return
		}
		p.arg, p.state = uint32(b-'0'), stateArg
	case stateArg:
		if b < '0' || b > '9' {
			p.state = stateDiscard
			return
		}
		if p.arg = p.arg*10 + uint32(b-'0'); p.arg > 0xffff {
			p.state = stateDiscard
		}
	}
}

func (p *Parser) pushArg() {
	p.args = append(p.args, uint16(p.arg))
	p.arg, p.state = 0, stateBlank
}

func (p *Parser) endOfLine() (cmd *fx.Command, err error) {
	switch p.state {
	case stateIdle:
		return
	case stateDiscard:
		err = ErrBadLine
	case stateArg:
		p.pushArg()
		fallthrough
	default:
		cmd = &fx.Command{Name: string(p.name), Args: p.args}
	}
	p.Reset()
	return
}
