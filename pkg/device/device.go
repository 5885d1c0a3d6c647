// Package device assembles the emulated logic box: timer, bus source,
// reader and host link.
package device

import (
	"context"
	"io"
	"os"

	"github.com/golang/glog"

	"github.com/robotalks/logicbox/pkg/config"
	fx "github.com/robotalks/logicbox/pkg/framework"
	"github.com/robotalks/logicbox/pkg/hostlink"
	"github.com/robotalks/logicbox/pkg/irq"
	"github.com/robotalks/logicbox/pkg/reader"
)

// Identity of the device.
const (
	DeviceType    = "Digital Box"
	DeviceSubtype = "v1"
	Revision      = "20200729"
)

// VersionLine answers the version query.
const VersionLine = "devicetype: " + DeviceType + "  subtype: " + DeviceSubtype +
	"  revision: " + Revision + "\r\n"

// HelpScreen heads the help screen.
const HelpScreen = DeviceType + " " + DeviceSubtype + " revision " + Revision + "\r\n" +
	"\r\n" +
	"This device acts as a logic analyzer and digital pattern generator.\r\n"

// Device is a running logic box.
type Device struct {
	App    *fx.App
	Ticker *fx.Ticker
	Reader *reader.Reader
	Link   fx.Runnable
}

type stdio struct {
	io.Reader
	io.Writer
}

// New assembles a Device from conf. The link is opened but nothing runs
// until Run.
func New(conf *config.Config) (*Device, error) {
	var mask irq.Mask
	d := &Device{App: fx.NewApp(&mask, nil)}
	d.App.VersionLine = VersionLine
	d.App.HelpScreen = HelpScreen
	d.Ticker = fx.NewTicker(uint32(conf.Device.TicksPerSecond), d.App)

	d.Reader = reader.New(d.Ticker, conf.Bus.NewSource(d.Ticker), &mask)
	d.Reader.TicksPerSecond = uint32(conf.Device.TicksPerSecond)
	d.Reader.ResetVerbosity = reader.Verbosity(conf.Device.Verbosity)
	d.App.Add(d.Reader)

	switch {
	case conf.Link.Serial != "":
		port, err := hostlink.OpenSerial(conf.Link.Serial, conf.Link.Baud)
		if err != nil {
			return nil, err
		}
		link := hostlink.NewLink(port, d.App)
		d.App.Output, d.Link = link, link
		glog.Infof("link on %s", conf.Link.Serial)
	case conf.Link.Listen != "":
		srv, err := hostlink.Listen(conf.Link.Listen, d.App)
		if err != nil {
			return nil, err
		}
		d.App.Output, d.Link = srv, srv
		glog.Infof("link on %s", srv.Addr())
	default:
		link := hostlink.NewLink(stdio{Reader: os.Stdin, Writer: os.Stdout}, d.App)
		d.App.Output, d.Link = link, link
	}
	return d, nil
}

// Run implements Runnable. It stops when any part stops.
func (d *Device) Run(ctx context.Context) error {
	return fx.NewRunnerWith(ctx).Go(
		fx.NamedRun("ticker", d.Ticker),
		fx.NamedRun("app", d.App),
		fx.NamedRun("link", d.Link),
	).Wait()
}
