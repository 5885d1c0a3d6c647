// Package websocket broadcasts peripheral output lines to websocket
// clients.
package websocket

import (
	"context"
	"net"
	"net/http"
	"sync"

	"github.com/golang/glog"
	"golang.org/x/net/websocket"

	fx "github.com/robotalks/logicbox/pkg/framework"
)

// DefaultBacklog is the number of lines queued per client before lines
// are dropped for that client.
const DefaultBacklog = 256

// Broadcaster sends every line it handles to all connected clients, one
// text message per line. A slow client loses lines, it never blocks the
// others.
type Broadcaster struct {
	Backlog int

	lock    sync.Mutex
	clients map[*websocket.Conn]chan string
}

// NewBroadcaster creates a Broadcaster.
func NewBroadcaster() *Broadcaster {
	return &Broadcaster{
		Backlog: DefaultBacklog,
		clients: make(map[*websocket.Conn]chan string),
	}
}

// Handler returns the websocket HTTP handler.
func (b *Broadcaster) Handler() http.Handler {
	return websocket.Handler(b.serve)
}

// ClientCount returns the number of connected clients.
func (b *Broadcaster) ClientCount() int {
	b.lock.Lock()
	defer b.lock.Unlock()
	return len(b.clients)
}

// HandleLine implements hostlink.LineHandler.
func (b *Broadcaster) HandleLine(line string) {
	b.lock.Lock()
	defer b.lock.Unlock()
	for conn, ch := range b.clients {
		select {
		case ch <- line:
		default:
			glog.V(2).Infof("websocket %s: line dropped", conn.Request().RemoteAddr)
		}
	}
}

func (b *Broadcaster) serve(conn *websocket.Conn) {
	ch := make(chan string, b.Backlog)
	b.lock.Lock()
	b.clients[conn] = ch
	b.lock.Unlock()
	glog.V(1).Infof("websocket %s connected", conn.Request().RemoteAddr)

	done := make(chan struct{})
	go func() {
		defer close(done)
		var msg []byte
		for {
			// clients never send, reading only detects the close
			if err := websocket.Message.Receive(conn, &msg); err != nil {
				return
			}
		}
	}()

	defer func() {
		b.lock.Lock()
		delete(b.clients, conn)
		b.lock.Unlock()
		conn.Close()
		glog.V(1).Infof("websocket %s disconnected", conn.Request().RemoteAddr)
	}()
	for {
		select {
		case <-done:
			return
		case line := <-ch:
			if err := websocket.Message.Send(conn, line); err != nil {
				glog.V(2).Infof("websocket send error: %v", err)
				return
			}
		}
	}
}

// Server serves a Broadcaster over HTTP at Path.
type Server struct {
	Listener    net.Listener
	Path        string
	Broadcaster *Broadcaster
}

// Listen creates a Server listening on addr.
func Listen(addr, path string, b *Broadcaster) (*Server, error) {
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return nil, err
	}
	return &Server{Listener: ln, Path: path, Broadcaster: b}, nil
}

// Run implements Runnable.
func (s *Server) Run(ctx context.Context) error {
	mux := http.NewServeMux()
	mux.Handle(s.Path, s.Broadcaster.Handler())
	srv := &http.Server{Handler: mux}
	return fx.RunWithContextCancel(ctx, func() { srv.Close() }, func() error {
		return srv.Serve(s.Listener)
	})
}
