/*
This is an example of application that will use the
engine package to test things out
*/
package main

import (
	"errors"
	"flag"
	"io/fs"
	"os"
	"os/signal"
	"syscall"

	"github.com/j3d/aviatrix3d-sub002/engine"
	"github.com/j3d/aviatrix3d-sub002/engine/core"
	"github.com/j3d/aviatrix3d-sub002/testbed"
)

func main() {
	configPath := flag.String("config", "aviatrix3d.toml", "path to the TOML configuration")
	flag.Parse()

	cfg, err := core.LoadConfig(*configPath)
	if errors.Is(err, fs.ErrNotExist) {
		cfg, err = core.DefaultConfig(), nil
	}
	if err != nil {
		core.LogFatal("loading %s: %v", *configPath, err)
	}

	tb := testbed.NewTestGame(cfg)

	e, err := engine.New(tb.Game)
	if err != nil {
		core.LogFatal("%v", err)
	}

	if err := e.Initialize(); err != nil {
		core.LogFatal("%v", err)
	}

	// signal channel to capture system calls
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGTERM, syscall.SIGINT, syscall.SIGQUIT)

	// The loop owns the GL contexts, so a signal only asks it to stop.
	go func() {
		<-sigCh
		e.Stop()
	}()

	// run engine
	if err := e.Run(); err != nil {
		core.LogError("%v", err)
	}
	if err := e.Shutdown(); err != nil {
		core.LogError("%v", err)
	}
}
