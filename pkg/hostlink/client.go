package hostlink

import (
	"bufio"
	"context"
	"io"
	"strconv"
	"strings"
	"sync"

	fx "github.com/robotalks/logicbox/pkg/framework"
)

// LineHandler receives lines sent by the peripheral.
type LineHandler interface {
	HandleLine(line string)
}

// HandleLineFunc is the func form of LineHandler.
type HandleLineFunc func(line string)

// HandleLine implements LineHandler.
func (f HandleLineFunc) HandleLine(line string) {
	f(line)
}

// LineHandlers fans a line out to every handler in order.
type LineHandlers []LineHandler

// HandleLine implements LineHandler.
func (hs LineHandlers) HandleLine(line string) {
	for _, h := range hs {
		h.HandleLine(line)
	}
}

// Client is the host side of the link.
type Client struct {
	ReadWriter io.ReadWriter
	Handler    LineHandler

	writeLock sync.Mutex
}

// NewClient creates a Client.
func NewClient(rw io.ReadWriter, handler LineHandler) *Client {
	return &Client{ReadWriter: rw, Handler: handler}
}

// Send sends one command line, e.g. Send("LVB", 2).
func (c *Client) Send(name string, args ...uint16) error {
	var sb strings.Builder
	sb.WriteString(name)
	for _, arg := range args {
		sb.WriteByte(' ')
		sb.WriteString(strconv.FormatUint(uint64(arg), 10))
	}
	return c.SendLine(sb.String())
}

// SendLine sends a raw command line. The line terminator is appended.
func (c *Client) SendLine(line string) error {
	c.writeLock.Lock()
	defer c.writeLock.Unlock()
	_, err := io.WriteString(c.ReadWriter, strings.TrimRight(line, "\r\n")+"\r\n")
	return err
}

// PostCommand implements fx.CommandPoster, forwarding commands to the
// peripheral.
func (c *Client) PostCommand(cmd fx.Command) {
	c.Send(cmd.Name, cmd.Args...)
}

// Run implements Runnable. Lines are delivered without terminator.
func (c *Client) Run(ctx context.Context) error {
	fn := func() error {
		scanner := bufio.NewScanner(c.ReadWriter)
		for scanner.Scan() {
			if h := c.Handler; h != nil {
				h.HandleLine(strings.TrimRight(scanner.Text(), "\r"))
			}
		}
		if err := scanner.Err(); err != nil {
			return err
		}
		return io.EOF
	}
	if closer, ok := c.ReadWriter.(io.Closer); ok {
		return fx.RunWithContextCloser(ctx, closer, fn)
	}
	return fx.RunWithContext(ctx, fn)
}
