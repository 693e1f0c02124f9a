// Command ecs-term is a terminal demo driving two scenes from tcell input.
package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"

	"github.com/gdamore/tcell/v2"
	"github.com/plus3/scenery/ecs"
	"github.com/plus3/scenery/ecs/app"
)

func main() {
	fps := flag.Int("fps", 30, "Update rate.")
	logFile := flag.String("log", "", "Write logs to this file instead of discarding them.")
	flag.Parse()

	if err := run(*fps, *logFile); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run(fps int, logFile string) error {
	cfg, err := app.FromEnv(app.DefaultConfig())
	if err != nil {
		return err
	}
	cfg.Title = "ecs-term"
	cfg.FPS = fps
	cfg.StartScene = "menu"
	if err := cfg.Validate(); err != nil {
		return err
	}

	logger := app.NewLogger(cfg)
	logger.SetOutput(io.Discard)
	if logFile != "" {
		f, err := os.OpenFile(logFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			return err
		}
		defer f.Close()
		logger.SetOutput(f)
	}

	screen, err := tcell.NewScreen()
	if err != nil {
		return err
	}
	if err := screen.Init(); err != nil {
		return err
	}
	defer screen.Fini()

	events := app.NewChannelEvents(64)
	go pollEvents(screen, events)

	a := app.New(cfg, app.WithLogger(logger), app.WithEvents(events))
	registerComponents(a.Registry())
	ecs.SetResource(a.Resources(), Terminal{Screen: screen})
	a.RegisterScene("menu", menuScene)
	a.RegisterScene("field", fieldScene)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	return a.Run(ctx, ecs.SceneId(cfg.StartScene))
}

// pollEvents forwards terminal events until the screen is finalized.
func pollEvents(screen tcell.Screen, events *app.ChannelEvents) {
	for {
		ev := screen.PollEvent()
		if ev == nil {
			return
		}
		if _, ok := ev.(*tcell.EventResize); ok {
			screen.Sync()
			continue
		}
		events.Push(ev)
	}
}
