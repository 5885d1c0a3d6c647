package sh

import (
	"context"
	"flag"
	"fmt"
	"net"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/abiosoft/ishell"
	"github.com/golang/glog"

	"github.com/robotalks/logicbox/pkg/config"
	fx "github.com/robotalks/logicbox/pkg/framework"
	"github.com/robotalks/logicbox/pkg/hostlink"
)

// Shell provides ishell backed interactive shell.
type Shell struct {
	Interactive bool
	AutoConnect bool

	Shell    *ishell.Shell
	Config   *config.Config
	Monitors *Monitors

	connLock sync.Mutex
	conn     *Conn
}

// Conn is a running connection to a device link.
type Conn struct {
	Name   string
	Client *hostlink.Client
	Cancel func()
}

const (
	shellKey          = "$shell"
	unconnectedPrompt = "[none] > "
)

var (
	evalOnly bool

	commands = []*ishell.Cmd{
		&ConnectCmd,
		&DisconnectCmd,
		&RawCmd,
	}
)

func init() {
	flag.BoolVar(&evalOnly, "e", evalOnly, "Evaluation only, no interactive shell.")
}

// AddCmds is used by other commands providers during init func.
func AddCmds(cmds ...*ishell.Cmd) {
	commands = append(commands, cmds...)
}

// New creates a new shell and starts the monitors enabled in conf.
func New(conf *config.Config) (*Shell, error) {
	s := &Shell{
		Interactive: !evalOnly,
		Shell:       ishell.New(),
		Config:      conf,
	}
	s.Shell.Set(shellKey, s)
	s.Shell.SetPrompt(unconnectedPrompt)
	for _, cmd := range commands {
		s.Shell.AddCmd(cmd)
	}
	mon, err := StartMonitors(conf, s, hostlink.HandleLineFunc(s.printLine))
	if err != nil {
		return nil, err
	}
	s.Monitors = mon
	return s, nil
}

// ShellFrom gets Shell from ishell context.
func ShellFrom(c *ishell.Context) *Shell {
	return c.Get(shellKey).(*Shell)
}

// MustBeConnected wraps command func requires a connection.
func MustBeConnected(fn func(c *ishell.Context)) func(c *ishell.Context) {
	return func(c *ishell.Context) {
		if ShellFrom(c).Conn() == nil {
			c.Err(fmt.Errorf("not connected"))
			return
		}
		fn(c)
	}
}

// Send sends a command to the connected device, reporting failures to c.
func Send(c *ishell.Context, name string, args ...uint16) error {
	conn := ShellFrom(c).Conn()
	if conn == nil {
		err := fmt.Errorf("not connected")
		c.Err(err)
		return err
	}
	if err := conn.Client.Send(name, args...); err != nil {
		c.Err(err)
		return err
	}
	return nil
}

// ParseArg parses a decimal command argument.
func ParseArg(s string) (uint16, error) {
	val, err := strconv.ParseUint(s, 10, 16)
	if err != nil {
		return 0, fmt.Errorf("invalid argument %q", s)
	}
	return uint16(val), nil
}

// WithAutoConnect sets AutoConnect.
func (s *Shell) WithAutoConnect(en bool) *Shell {
	s.AutoConnect = en
	return s
}

// Conn returns the current connection, nil if not connected.
func (s *Shell) Conn() *Conn {
	s.connLock.Lock()
	defer s.connLock.Unlock()
	return s.conn
}

// PostCommand implements fx.CommandPoster, forwarding commands from the
// monitors to the connected device.
func (s *Shell) PostCommand(cmd fx.Command) {
	if conn := s.Conn(); conn != nil {
		conn.Client.PostCommand(cmd)
		return
	}
	glog.V(2).Infof("command %s dropped: not connected", cmd.Name)
}

// Connect connects the device link at target, a TCP address or a serial
// device path.
func (s *Shell) Connect(target string) error {
	var client *hostlink.Client
	if isSerial(target) {
		port, err := hostlink.OpenSerial(target, s.Config.Link.Baud)
		if err != nil {
			return err
		}
		client = hostlink.NewClient(port, s.Monitors)
	} else {
		conn, err := net.DialTimeout("tcp", target, 5*time.Second)
		if err != nil {
			return err
		}
		client = hostlink.NewClient(conn, s.Monitors)
	}

	ctx, cancel := context.WithCancel(context.Background())
	conn := &Conn{Name: target, Client: client, Cancel: cancel}
	s.Disconnect()
	s.connLock.Lock()
	s.conn = conn
	s.connLock.Unlock()
	if err := s.Monitors.StartSession(target); err != nil {
		glog.Errorf("capture session error: %v", err)
	}
	go func() {
		if err := client.Run(ctx); err != nil && err != context.Canceled {
			s.Shell.Printf("link %s closed: %v\n", target, err)
		}
		s.dropConn(conn)
	}()
	s.Shell.SetPrompt(fmt.Sprintf("%s > ", target))
	return nil
}

// Disconnect disconnects current device.
func (s *Shell) Disconnect() {
	s.connLock.Lock()
	conn := s.conn
	s.connLock.Unlock()
	if conn != nil {
		conn.Cancel()
		s.dropConn(conn)
	}
}

// Close disconnects and stops the monitors.
func (s *Shell) Close() error {
	s.Disconnect()
	return s.Monitors.Close()
}

// Run runs the shell.
func (s *Shell) Run(args ...string) {
	if target := s.Config.Link.Target(); s.AutoConnect && target != "" {
		if s.Interactive {
			s.Shell.Printf("Connecting %s ...\n", target)
		}
		if err := s.Connect(target); err != nil {
			glog.Exitf("connect %q failed: %v", target, err)
		}
	}

	if len(args) > 0 {
		if err := s.Shell.Process(args...); err != nil {
			glog.Exit(err)
		}
		return
	}
	if s.Interactive {
		s.Shell.Run()
		return
	}
	glog.Exit("command expected")
}

func (s *Shell) dropConn(conn *Conn) {
	s.connLock.Lock()
	defer s.connLock.Unlock()
	if s.conn == conn {
		s.conn = nil
		s.Shell.SetPrompt(unconnectedPrompt)
	}
}

func (s *Shell) printLine(line string) {
	s.Shell.Println(FormatLine(line))
}

// FormatLine decorates a line from the device for display.
func FormatLine(line string) string {
	if rep, err := hostlink.ParseReport(line); err == nil {
		return fmt.Sprintf("%s  t=%d  value=0x%04x  bits=%016b",
			line, rep.Timestamp, rep.Value, rep.Value)
	}
	if st, err := hostlink.ParseStatus(line); err == nil {
		return fmt.Sprintf("mode=%s verbosity=%s ticks/sec=%d",
			st.Mode, st.Verbosity, st.TicksPerSecond)
	}
	return line
}

func isSerial(target string) bool {
	return strings.HasPrefix(target, "/dev/") || strings.HasPrefix(strings.ToUpper(target), "COM")
}

var (
	// ConnectCmd connects a device link.
	ConnectCmd = ishell.Cmd{
		Name:    "connect",
		Aliases: []string{"c"},
		Help:    "[HOST:PORT|SERIAL-DEVICE]",
		Func: func(c *ishell.Context) {
			s := ShellFrom(c)
			target := s.Config.Link.Target()
			if len(c.Args) > 0 {
				target = c.Args[0]
			}
			if target == "" {
				c.Err(fmt.Errorf("link address required"))
				return
			}
			if err := s.Connect(target); err != nil {
				c.Err(err)
			}
		},
	}

	// DisconnectCmd disconnects current device.
	DisconnectCmd = ishell.Cmd{
		Name:    "disconnect",
		Aliases: []string{"d"},
		Help:    "",
		Func: func(c *ishell.Context) {
			ShellFrom(c).Disconnect()
		},
	}

	// RawCmd sends a command line as typed.
	RawCmd = ishell.Cmd{
		Name: "raw",
		Help: "LINE",
		Func: func(c *ishell.Context) {
			conn := ShellFrom(c).Conn()
			if conn == nil {
				c.Err(fmt.Errorf("not connected"))
				return
			}
			if len(c.Args) == 0 {
				c.Err(fmt.Errorf("LINE required"))
				return
			}
			if err := conn.Client.SendLine(strings.Join(c.Args, " ")); err != nil {
				c.Err(err)
			}
		},
	}
)

// Main is a helper to provide a single call in main.
func Main() {
	flag.Parse()
	conf, err := config.Load()
	if err != nil {
		glog.Exit(err)
	}
	s, err := New(conf)
	if err != nil {
		glog.Exit(err)
	}
	s.WithAutoConnect(true).Run(flag.Args()...)
	if err := s.Close(); err != nil {
		glog.Errorf("close error: %v", err)
	}
	glog.Flush()
}
