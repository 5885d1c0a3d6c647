package sh

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/robotalks/logicbox/pkg/capture"
	"github.com/robotalks/logicbox/pkg/config"
	fx "github.com/robotalks/logicbox/pkg/framework"
	"github.com/robotalks/logicbox/pkg/hostlink"
)

type discardPoster struct{}

func (discardPoster) PostCommand(fx.Command) {}

func TestMonitorsCaptureReports(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "capture.db")
	conf := config.NewConfig()
	conf.Device.ID = "box1"
	conf.Monitor = config.MonitorConfig{
		CaptureDB:     dbPath,
		WebsocketAddr: "127.0.0.1:0",
	}

	var printed []string
	m, err := StartMonitors(conf, discardPoster{}, hostlink.HandleLineFunc(func(line string) {
		printed = append(printed, line)
	}))
	require.NoError(t, err)
	require.Len(t, m.LineHandlers, 3)
	require.NoError(t, m.StartSession("localhost:7000"))

	m.HandleLine("+000100ff")
	m.HandleLine("devicetype: Digital Box  subtype: v1  revision: 20200729")
	require.Len(t, printed, 2)
	require.NoError(t, m.Close())

	store, err := capture.Open(dbPath)
	require.NoError(t, err)
	defer store.Close()
	sessions, err := store.Sessions()
	require.NoError(t, err)
	require.Len(t, sessions, 1)
	require.Equal(t, "box1@localhost:7000", sessions[0].Device)
	samples, err := store.Samples(sessions[0].ID)
	require.NoError(t, err)
	require.Len(t, samples, 1)
	require.Equal(t, uint32(1), samples[0].Timestamp)
	require.Equal(t, uint16(0xff), samples[0].Value)
}
