package hostlink

import (
	"context"
	"io"
	"sync"

	"github.com/golang/glog"

	fx "github.com/robotalks/logicbox/pkg/framework"
)

// Link is the peripheral side of the host link. It parses commands read
// from ReadWriter and posts them to Poster; report lines are written
// through Write.
type Link struct {
	ReadWriter io.ReadWriter
	Poster     fx.CommandPoster

	writeLock sync.Mutex
	parser    Parser
}

// NewLink creates a Link.
func NewLink(rw io.ReadWriter, poster fx.CommandPoster) *Link {
	return &Link{ReadWriter: rw, Poster: poster}
}

// Write implements io.Writer. Concurrent writes never interleave.
func (l *Link) Write(p []byte) (int, error) {
	l.writeLock.Lock()
	defer l.writeLock.Unlock()
	return l.ReadWriter.Write(p)
}

// Run implements Runnable. It returns when reading fails or ctx is
// done; if ReadWriter is an io.Closer it is closed to unblock reading.
func (l *Link) Run(ctx context.Context) error {
	if closer, ok := l.ReadWriter.(io.Closer); ok {
		return fx.RunWithContextCloser(ctx, closer, l.readLoop)
	}
	return fx.RunWithContext(ctx, l.readLoop)
}

func (l *Link) readLoop() error {
	buf := make([]byte, 64)
	for {
		n, err := l.ReadWriter.Read(buf)
		for _, b := range buf[:n] {
			l.parseByte(b)
		}
		if err != nil {
			return err
		}
	}
}

func (l *Link) parseByte(b byte) {
	cmd, err := l.parser.Parse(b)
	if err != nil {
		glog.V(2).Infof("command line dropped: %v", err)
		return
	}
	if cmd != nil {
		glog.V(3).Infof("command %s %v", cmd.Name, cmd.Args)
		l.Poster.PostCommand(*cmd)
	}
}
