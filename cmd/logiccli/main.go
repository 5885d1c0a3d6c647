package main

import (
	"github.com/robotalks/logicbox/pkg/cli/sh"
	"github.com/robotalks/logicbox/pkg/config"

	_ "github.com/robotalks/logicbox/pkg/cli/cmds/reader"
)

func init() {
	config.SetupFlags()
}

func main() {
	sh.Main()
}
