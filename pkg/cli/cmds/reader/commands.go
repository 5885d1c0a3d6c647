// Package reader adds the logic reader commands to the shell.
package reader

import (
	"fmt"
	"strings"

	"github.com/abiosoft/ishell"

	"github.com/robotalks/logicbox/pkg/cli/sh"
	fx "github.com/robotalks/logicbox/pkg/framework"
	rd "github.com/robotalks/logicbox/pkg/reader"
)

var verbosityNames = map[string]rd.Verbosity{
	"off":    rd.VerbNone,
	"none":   rd.VerbNone,
	"short":  rd.VerbShort,
	"med":    rd.VerbMedium,
	"medium": rd.VerbMedium,
	"full":   rd.VerbFull,
}

// ParseVerbosity accepts a verbosity name or number. Numbers are passed
// through unchecked so the device decides.
func ParseVerbosity(s string) (uint16, error) {
	if v, ok := verbosityNames[strings.ToLower(s)]; ok {
		return uint16(v), nil
	}
	return sh.ParseArg(s)
}

func simpleCmd(name string, aliases []string, mnemonic string) ishell.Cmd {
	return ishell.Cmd{
		Name:    name,
		Aliases: aliases,
		Func: sh.MustBeConnected(func(c *ishell.Context) {
			sh.Send(c, mnemonic)
		}),
	}
}

var (
	// StopCmd stops reading.
	StopCmd = simpleCmd("stop", []string{"lst"}, "LST")
	// DiffCmd starts change detection.
	DiffCmd = simpleCmd("diff", []string{"lch"}, "LCH")
	// QueryCmd asks for the reader status.
	QueryCmd = simpleCmd("query", []string{"q", "lqy"}, "LQY")
	// DeviceHelpCmd prints the device help screen.
	DeviceHelpCmd = simpleCmd("usage", []string{"?"}, fx.CmdHelp)
	// IdentifyCmd prints the device version line.
	IdentifyCmd = simpleCmd("id", []string{"idq"}, fx.CmdVersion)

	// RateCmd starts rate sampling.
	RateCmd = ishell.Cmd{
		Name:    "rate",
		Aliases: []string{"lra"},
		Help:    "RATE",
		Func: sh.MustBeConnected(func(c *ishell.Context) {
			if len(c.Args) != 1 {
				c.Err(fmt.Errorf("RATE required"))
				return
			}
			rate, err := sh.ParseArg(c.Args[0])
			if err != nil {
				c.Err(err)
				return
			}
			sh.Send(c, "LRA", rate)
		}),
	}

	// VerbosityCmd sets report verbosity.
	VerbosityCmd = ishell.Cmd{
		Name:    "verb",
		Aliases: []string{"lvb"},
		Help:    "off|short|med|full|0-3",
		Func: sh.MustBeConnected(func(c *ishell.Context) {
			if len(c.Args) != 1 {
				c.Err(fmt.Errorf("VERBOSITY required"))
				return
			}
			verb, err := ParseVerbosity(c.Args[0])
			if err != nil {
				c.Err(err)
				return
			}
			sh.Send(c, "LVB", verb)
		}),
	}
)

func init() {
	sh.AddCmds(
		&StopCmd,
		&DiffCmd,
		&RateCmd,
		&VerbosityCmd,
		&QueryCmd,
		&DeviceHelpCmd,
		&IdentifyCmd,
	)
}
