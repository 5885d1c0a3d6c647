package hostlink

import (
	"context"
	"net"
	"sync"

	"github.com/golang/glog"

	fx "github.com/robotalks/logicbox/pkg/framework"
)

// Server accepts host connections over a network listener, one at a
// time. Output written while no host is connected is dropped, like bytes
// sent to an unplugged UART.
type Server struct {
	Listener net.Listener
	Poster   fx.CommandPoster

	lock sync.Mutex
	link *Link
}

// Listen creates a Server listening on a TCP address.
func Listen(addr string, poster fx.CommandPoster) (*Server, error) {
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return nil, err
	}
	return &Server{Listener: ln, Poster: poster}, nil
}

// Addr returns the listening address.
func (s *Server) Addr() net.Addr {
	return s.Listener.Addr()
}

// Write implements io.Writer.
func (s *Server) Write(p []byte) (int, error) {
	s.lock.Lock()
	link := s.link
	s.lock.Unlock()
	if link == nil {
		return len(p), nil
	}
	if _, err := link.Write(p); err != nil {
		glog.V(2).Infof("host write error: %v", err)
	}
	return len(p), nil
}

// Run implements Runnable.
func (s *Server) Run(ctx context.Context) error {
	return fx.RunWithContextCloser(ctx, s.Listener, func() error {
		for {
			conn, err := s.Listener.Accept()
			if err != nil {
				return err
			}
			s.serve(ctx, conn)
		}
	})
}

func (s *Server) serve(ctx context.Context, conn net.Conn) {
	glog.Infof("host connected from %s", conn.RemoteAddr())
	link := NewLink(conn, s.Poster)
	s.lock.Lock()
	s.link = link
	s.lock.Unlock()
	err := link.Run(ctx)
	s.lock.Lock()
	s.link = nil
	s.lock.Unlock()
	glog.Infof("host %s disconnected: %v", conn.RemoteAddr(), err)
}
