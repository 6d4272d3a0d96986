package main

import (
	"context"
	"flag"
	"net/http"
	"os"
	"os/signal"
	"time"

	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"metrosim/mapfile"
	"metrosim/metro"
	"metrosim/stream"
	"metrosim/view"
)

func main() {
	defer zap.S().Sync()
	level := zap.LevelFlag("log-level", zap.InfoLevel, "set log level")
	mapPath := flag.String("map", "maps/demo.json", "network definition to load")
	tick := flag.Duration("tick", 100*time.Millisecond, "simulation tick interval")
	seed := flag.Int64("seed", 30006, "passenger generation seed")
	ui := flag.Bool("ui", false, "render the network in the terminal")
	flag.Parse()
	cfg := zap.NewDevelopmentConfig()
	cfg.Level = zap.NewAtomicLevelAt(*level)
	if *ui {
		// the terminal belongs to the renderer
		cfg.OutputPaths = []string{"metrosim.log"}
	}
	dev, err := cfg.Build()
	if err != nil {
		panic(err)
	}
	zap.ReplaceGlobals(dev)

	_ = godotenv.Load()
	addr := os.Getenv("METROSIM_ADDR")
	if addr == "" {
		addr = "0.0.0.0:8001"
	}

	net, err := mapfile.Load(*mapPath)
	if err != nil {
		zap.S().Fatalf("load %s: %s", *mapPath, err)
	}
	w := metro.NewWorld(*seed)
	s := metro.NewSim(w, net.Stations, net.Lines, net.Trains)
	zap.S().Infof("run %s: %d stations, %d lines, %d trains",
		s.RunID, len(net.Stations), len(net.Lines), len(net.Trains))

	go logEvents(w)
	srv := stream.NewServer(s)
	go func() {
		zap.S().Infof("serving snapshots on %s", addr)
		zap.S().Error(http.ListenAndServe(addr, srv))
	}()

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt)
	defer cancel()
	go s.Run(ctx, *tick)

	if *ui {
		err = view.Run(ctx, s.SnapshotMux)
		if err != nil {
			zap.S().Fatalf("view: %s", err)
		}
		return
	}
	<-ctx.Done()
}

func logEvents(w *metro.World) {
	ch := make(chan metro.Event, 64)
	w.Events.Subscribe("log", ch)
	defer w.Events.Unsubscribe(ch)
	for ev := range ch {
		zap.S().Info(ev.String())
	}
}
