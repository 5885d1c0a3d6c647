package hostlink

import (
	"testing"

	"github.com/stretchr/testify/require"

	fx "github.com/robotalks/logicbox/pkg/framework"
)

type parsed struct {
	cmds []fx.Command
	bad  int
}

func parseAll(p *Parser, input string) (res parsed) {
	for _, b := range []byte(input) {
		cmd, err := p.Parse(b)
		if err != nil {
			res.bad++
		}
		if cmd != nil {
			res.cmds = append(res.cmds, *cmd)
		}
	}
	return
}

func TestParser(t *testing.T) {
	testCases := []struct {
		name   string
		input  string
		expect []fx.Command
		bad    int
	}{
		{"no args", "LST\r\n", []fx.Command{{Name: "LST"}}, 0},
		{"lower case", "lqy\n", []fx.Command{{Name: "LQY"}}, 0},
		{"one arg", "LVB 2\r", []fx.Command{{Name: "LVB", Args: []uint16{2}}}, 0},
		{"two args", "ABC  12\t65535\n", []fx.Command{{Name: "ABC", Args: []uint16{12, 65535}}}, 0},
		{"trailing blanks", "LRA 100  \n", []fx.Command{{Name: "LRA", Args: []uint16{100}}}, 0},
		{"leading blanks", "  LCH\n", []fx.Command{{Name: "LCH"}}, 0},
		{"help", "?\n", []fx.Command{{Name: "?"}}, 0},
		{"blank lines", "\r\n\n \n", nil, 0},
		{"multiple", "LCH\r\nLVB 1\r\nLQY\r\n", []fx.Command{
			{Name: "LCH"},
			{Name: "LVB", Args: []uint16{1}},
			{Name: "LQY"},
		}, 0},
		{"arg overflow", "LVB 65536\nLQY\n", []fx.Command{{Name: "LQY"}}, 1},
		{"too many args", "LVB 1 2 3\n", nil, 1},
		{"non numeric arg", "LVB x\n", nil, 1},
		{"digit then letter", "LVB 1x\n", nil, 1},
		{"name too long", "ABCDEFGHI\n", nil, 1},
		{"control char", "LS\x01T\nLST\n", []fx.Command{{Name: "LST"}}, 1},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			var p Parser
			res := parseAll(&p, tc.input)
			require.Equal(t, tc.expect, res.cmds)
			require.Equal(t, tc.bad, res.bad)
		})
	}
}

func TestParserReset(t *testing.T) {
	var p Parser
	parseAll(&p, "LVB 12")
	p.Reset()
	res := parseAll(&p, "LQY\n")
	require.Equal(t, []fx.Command{{Name: "LQY"}}, res.cmds)
}
