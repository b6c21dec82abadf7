package main

import (
	"github.com/Stadt-Geschichte-Basel/omeka2dsp/cmd"
)

var (
	version   = "dev"
	buildTime = "unknown"
)

func main() {
	cmd.SetVersion(version, buildTime)
	cmd.Execute()
}
