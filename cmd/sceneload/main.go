// Command sceneload loads VRML and X3D scenes with all of their external
// resources.
package main

import (
	"context"
	"os"

	"github.com/custodia-labs/sceneload/internal/adapters/driving/cli"
	"github.com/custodia-labs/sceneload/internal/logger"
)

// version is set at build time with -ldflags "-X main.version=...".
var version = "dev"

func main() {
	os.Exit(run())
}

func run() int {
	a, err := newApp()
	if err != nil {
		logger.Error("%v", err)
		return 1
	}
	defer a.Close()

	cli.SetVersion(version)
	if err := cli.Configure(a.ports); err != nil {
		logger.Error("%v", err)
		return 1
	}
	if err := cli.Execute(context.Background()); err != nil {
		return 1
	}
	return 0
}
