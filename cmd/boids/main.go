package main

import (
	"context"
	"errors"
	"flag"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/hajimehoshi/ebiten/v2"

	"github.com/lao-tseu-is-alive/go-flock-simulation/internal/cli"
	"github.com/lao-tseu-is-alive/go-flock-simulation/internal/game"
	"github.com/lao-tseu-is-alive/go-flock-simulation/internal/logger"
	"github.com/lao-tseu-is-alive/go-flock-simulation/pkg/simulation"
)

const (
	screenWidth  = 900
	screenHeight = 900
)

func main() {
	opts := cli.NewOptions()
	opts.Bind(flag.CommandLine)
	flag.Parse()

	logg, err := logger.New(opts.LogLevel, os.Stderr)
	if err != nil {
		log.Fatal(err)
	}
	cfg, err := opts.Config(flag.CommandLine)
	if err != nil {
		log.Fatal(err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	world, err := simulation.NewWorld(cfg, simulation.WithLogger(logg))
	if err != nil {
		log.Fatal(err)
	}

	ebiten.SetWindowSize(screenWidth, screenHeight)
	ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)
	ebiten.SetWindowTitle("Boids")
	ebiten.SetVsyncEnabled(false)

	if err := ebiten.RunGame(game.NewGame(ctx, world, logg)); err != nil && !errors.Is(err, ebiten.Termination) {
		log.Fatal(err)
	}
	logg.Infof("Stopped after %d frames", world.Frame())
}
