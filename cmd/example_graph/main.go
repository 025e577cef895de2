// Command example_graph builds a small node set and renders a few frames:
// a source feeds a chain of gains whose outputs are summed.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"

	"github.com/birdayz/kgraph"
	"github.com/birdayz/kgraph/internal/testnodes"
	"github.com/birdayz/kgraph/knode"
	"github.com/birdayz/kgraph/pkg/log"
)

var (
	frames  = flag.Int("frames", 3, "number of render passes")
	workers = flag.Int("workers", 0, "render workers, 0 for GOMAXPROCS")
	verbose = flag.Bool("v", false, "verbose logging")
)

func main() {
	flag.Parse()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := run(ctx); err != nil {
		fmt.Fprintln(os.Stderr, "example_graph:", err)
		os.Exit(1)
	}
}

func run(ctx context.Context) error {
	zlog := log.New(*verbose)
	for _, reg := range knode.Registrations() {
		zlog.Debug().Str("definition", reg.Name()).Stringer("kind", reg.Kind).Msg("Registered definition")
	}
	set := kgraph.New(
		kgraph.WithLogr(log.Logr(zlog, "kgraph")),
		kgraph.WithWorkersCount(*workers),
	)
	defer func() {
		if err := set.Close(); err != nil {
			zlog.Error().Err(err).Msg("Close failed")
		}
	}()

	src, err := kgraph.Create[testnodes.Source](set)
	if err != nil {
		return err
	}
	sum, err := kgraph.Create[testnodes.Sum](set)
	if err != nil {
		return err
	}
	srcDef := src.Def()
	gainPorts := knode.Get[testnodes.Gain]().KernelPorts
	sumPorts := sum.Def().KernelPorts

	const taps = 3
	if err := kgraph.SetPortArraySize(set, sum, sumPorts.In, taps); err != nil {
		return err
	}
	for i := 0; i < taps; i++ {
		gain, err := kgraph.Create[testnodes.Gain](set)
		if err != nil {
			return err
		}
		if err := kgraph.SetKernelData(set, gain.ID, testnodes.GainData{Factor: float64(i + 1)}); err != nil {
			return err
		}
		if _, err := kgraph.ConnectData(set, src, srcDef.KernelPorts.Out, gain, gainPorts.In); err != nil {
			return err
		}
		if _, err := kgraph.ConnectDataToArray(set, gain, gainPorts.Out, sum, sumPorts.In, i); err != nil {
			return err
		}
	}

	for frame := 0; frame < *frames; frame++ {
		if err := kgraph.SendMessage(set, src, srcDef.SimulationPorts.Level, float64(frame)); err != nil {
			return err
		}
		if err := set.Update(ctx); err != nil {
			return err
		}
		out, err := kgraph.ReadOutput(set, sum, sumPorts.Out)
		if err != nil {
			return err
		}
		zlog.Info().Uint64("tick", set.Tick()).Float64("sum", out).Msg("Rendered frame")
	}
	return nil
}
