package main

import (
	"flag"

	"github.com/golang/glog"

	"github.com/robotalks/logicbox/pkg/config"
	"github.com/robotalks/logicbox/pkg/device"
	fx "github.com/robotalks/logicbox/pkg/framework"
)

func init() {
	config.SetupFlags()
}

func main() {
	flag.Parse()
	defer glog.Flush()

	conf, err := config.Load()
	if err != nil {
		glog.Exit(err)
	}
	dev, err := device.New(conf)
	if err != nil {
		glog.Exit(err)
	}
	if err := fx.NewRunner().HandleSignals().Go(fx.NamedRun("device", dev)).Wait(); err != nil {
		glog.Exit(err)
	}
}
