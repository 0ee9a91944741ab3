/*
Helios is an interactive solar system viewer. This binary loads the
configuration, wires the viewer into the engine and runs the frame loop
until the window closes or a terminal signal arrives.
*/
package main

import (
	"os"
	"os/signal"
	"syscall"

	"github.com/spaghettifunk/helios/engine"
	"github.com/spaghettifunk/helios/engine/core"
	"github.com/spaghettifunk/helios/viewer"
)

func main() {
	config, err := engine.LoadApplicationConfig("assets/config.toml")
	if err != nil {
		panic(err)
	}

	game := viewer.NewViewerGame(config)

	e, err := engine.New(game.Game)
	if err != nil {
		panic(err)
	}
	if err := e.Initialize(); err != nil {
		panic(err)
	}

	// A terminal signal posts a quit event instead of tearing down from
	// this goroutine. The frame loop picks it up on the next pump and the
	// shutdown runs on the main thread, where the GL context lives.
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGTERM, syscall.SIGINT, syscall.SIGQUIT)
	go func() {
		<-sigCh
		_ = core.EventPost(core.EventContext{Type: core.EVENT_CODE_APPLICATION_QUIT})
	}()

	if err := e.Run(); err != nil {
		panic(err)
	}
	if err := e.Shutdown(); err != nil {
		panic(err)
	}
}
