package hostlink

import (
	"bytes"
	"context"
	"io"
	"net"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	fx "github.com/robotalks/logicbox/pkg/framework"
	"github.com/robotalks/logicbox/pkg/irq"
	"github.com/robotalks/logicbox/pkg/reader"
)

type chanPoster chan fx.Command

func (p chanPoster) PostCommand(cmd fx.Command) { p <- cmd }

type readWriter struct {
	io.Reader
	io.Writer
}

func TestLinkParsesCommands(t *testing.T) {
	var out bytes.Buffer
	poster := make(chanPoster, 4)
	link := NewLink(&readWriter{
		Reader: strings.NewReader("LCH\r\nLVB 9 9 9\r\nLVB 2\r\n"),
		Writer: &out,
	}, poster)
	err := link.Run(context.Background())
	require.Equal(t, io.EOF, err)
	require.Len(t, poster, 2)
	require.Equal(t, fx.Command{Name: "LCH"}, <-poster)
	require.Equal(t, fx.Command{Name: "LVB", Args: []uint16{2}}, <-poster)

	n, err := link.Write([]byte("+00000001ffff\r\n"))
	require.NoError(t, err)
	require.Equal(t, 15, n)
	require.Equal(t, "+00000001ffff\r\n", out.String())
}

type pipeEnd struct {
	*io.PipeReader
	*io.PipeWriter
}

func (p *pipeEnd) Close() error {
	p.PipeReader.Close()
	return p.PipeWriter.Close()
}

func newPipePair() (*pipeEnd, *pipeEnd) {
	ar, bw := io.Pipe()
	br, aw := io.Pipe()
	return &pipeEnd{PipeReader: ar, PipeWriter: aw}, &pipeEnd{PipeReader: br, PipeWriter: bw}
}

type busFunc func() uint16

func (f busFunc) Read16() uint16 { return f() }

func TestLinkEndToEnd(t *testing.T) {
	devEnd, hostEnd := newPipePair()

	var (
		mask     irq.Mask
		busValue uint16
	)
	ticker := fx.NewTicker(fx.DefaultTicksPerSecond, nil)
	rd := reader.New(ticker, busFunc(func() uint16 { return busValue }), &mask)
	app := fx.NewApp(&mask, nil).Add(rd)
	ticker.Handler = app
	link := NewLink(devEnd, app)
	app.Output = link

	lines := make(chan string, 16)
	client := NewClient(hostEnd, HandleLineFunc(func(line string) {
		lines <- line
	}))

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go link.Run(ctx)
	go client.Run(ctx)

	pollUntil := func(cond func() bool) {
		deadline := time.Now().Add(time.Second)
		for !cond() {
			require.True(t, time.Now().Before(deadline), "timeout")
			app.DoPolling()
			time.Sleep(time.Millisecond)
		}
	}
	expectLine := func(expected string) {
		select {
		case line := <-lines:
			require.Equal(t, expected, line)
		case <-time.After(time.Second):
			t.Fatalf("expect %q", expected)
		}
	}

	require.NoError(t, client.Send("LCH"))
	pollUntil(func() bool { return rd.Mode() == reader.ModeChangeDetect })

	busValue = 0x00ff
	ticker.Tick()
	require.Equal(t, 1, app.DoPolling())
	expectLine("+0000000100ff")

	ticker.Tick()
	require.Equal(t, 0, app.DoPolling())

	require.NoError(t, client.Send("LVB", 1))
	pollUntil(func() bool { return rd.Verbosity() == reader.VerbShort })
	busValue = 0x0100
	ticker.Tick()
	require.Equal(t, 1, app.DoPolling())
	expectLine("+00030100")

	require.NoError(t, client.Send("lqy"))
	var got int
	pollUntil(func() bool {
		got += app.DoPolling()
		return got > 0
	})
	expectLine("Read mode:  diff    Verbosity:  short    Ticks/sec:  10000")
}

func TestServerDropsOutputWithoutHost(t *testing.T) {
	poster := make(chanPoster, 1)
	srv, err := Listen("127.0.0.1:0", poster)
	require.NoError(t, err)
	n, err := srv.Write([]byte("+0000\r\n"))
	require.NoError(t, err)
	require.Equal(t, 7, n)

	ctx, cancel := context.WithCancel(context.Background())
	doneCh := make(chan error, 1)
	go func() { doneCh <- srv.Run(ctx) }()

	conn, err := net.Dial("tcp", srv.Addr().String())
	require.NoError(t, err)
	defer conn.Close()
	_, err = conn.Write([]byte("LST\r\n"))
	require.NoError(t, err)
	select {
	case cmd := <-poster:
		require.Equal(t, fx.Command{Name: "LST"}, cmd)
	case <-time.After(time.Second):
		t.Fatal("command not received")
	}

	_, err = srv.Write([]byte("+00010002\r\n"))
	require.NoError(t, err)
	buf := make([]byte, 11)
	conn.SetReadDeadline(time.Now().Add(time.Second))
	_, err = io.ReadFull(conn, buf)
	require.NoError(t, err)
	require.Equal(t, "+00010002\r\n", string(buf))

	cancel()
	require.Equal(t, context.Canceled, <-doneCh)
}
