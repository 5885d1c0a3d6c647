package sh

import (
	"time"

	"github.com/golang/glog"

	"github.com/robotalks/logicbox/pkg/capture"
	"github.com/robotalks/logicbox/pkg/config"
	fx "github.com/robotalks/logicbox/pkg/framework"
	"github.com/robotalks/logicbox/pkg/hostlink"
	"github.com/robotalks/logicbox/pkg/sink/mqtt"
	"github.com/robotalks/logicbox/pkg/sink/websocket"
)

// WebsocketPath is where report lines are served.
const WebsocketPath = "/lines"

// Monitors receives every line from the device and hands it to the
// enabled sinks.
type Monitors struct {
	hostlink.LineHandlers

	Device string

	queue  *mqtt.Queue
	cmdSub *mqtt.Subscription
	store  *capture.Store
	runner *fx.Runner
}

// StartMonitors starts the sinks enabled in conf. Commands received from
// MQTT are posted to poster. printer, if not nil, receives lines first.
func StartMonitors(conf *config.Config, poster fx.CommandPoster, printer hostlink.LineHandler) (m *Monitors, err error) {
	m = &Monitors{Device: conf.Device.ID}
	defer func() {
		if err != nil {
			m.Close()
			m = nil
		}
	}()
	if printer != nil {
		m.LineHandlers = append(m.LineHandlers, printer)
	}

	if path := conf.Monitor.CaptureDB; path != "" {
		if m.store, err = capture.Open(path); err != nil {
			return
		}
		m.LineHandlers = append(m.LineHandlers, capture.NewRecorder(m.store))
	}

	if addr := conf.Monitor.WebsocketAddr; addr != "" {
		var srv *websocket.Server
		b := websocket.NewBroadcaster()
		if srv, err = websocket.Listen(addr, WebsocketPath, b); err != nil {
			return
		}
		glog.Infof("serving lines at ws://%s%s", srv.Listener.Addr(), WebsocketPath)
		m.runner = fx.NewRunner().Go(fx.NamedRun("websocket", srv))
		m.LineHandlers = append(m.LineHandlers, b)
	}

	if brokerURL := conf.Monitor.MQTTBrokerURL; brokerURL != "" {
		if m.queue, err = mqtt.NewQueueFromURL(brokerURL); err != nil {
			return
		}
		if err = m.queue.Connect(); err != nil {
			return
		}
		pub := mqtt.NewPublisher(m.queue, m.Device)
		m.cmdSub = pub.ForwardCommands(poster)
		m.LineHandlers = append(m.LineHandlers, pub)
	}
	return m, nil
}

// StartSession starts a capture session, if capturing, for a new link.
func (m *Monitors) StartSession(link string) error {
	if m.store == nil {
		return nil
	}
	id, err := m.store.StartSession(m.Device+"@"+link, time.Now())
	if err == nil {
		glog.V(1).Infof("capture session %s", id)
	}
	return err
}

// Close stops all sinks.
func (m *Monitors) Close() error {
	errs := &fx.AggregatedError{}
	if m.cmdSub != nil {
		errs.Add(m.cmdSub.Close())
	}
	if m.queue != nil {
		errs.Add(m.queue.Close())
	}
	if m.runner != nil {
		m.runner.Stop()
		errs.Add(m.runner.Wait())
	}
	if m.store != nil {
		errs.Add(m.store.Close())
	}
	return errs.Aggregate()
}
