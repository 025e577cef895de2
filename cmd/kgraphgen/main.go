// Command kgraphgen generates the companion code of kgraph node definitions.
// It is meant to be run from a go:generate directive:
//
//	//go:generate go run github.com/birdayz/kgraph/cmd/kgraphgen
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"strings"

	"github.com/birdayz/kgraph/internal/diag"
	"github.com/birdayz/kgraph/kgen"
	"github.com/birdayz/kgraph/pkg/log"
)

var (
	configPath = flag.String("config", "", "YAML config file; flags override its values")
	dir        = flag.String("dir", ".", "directory patterns are resolved in")
	output     = flag.String("output", "kgraph_gen.go", "name of the generated file in each package")
	manifest   = flag.String("manifest", "", "write a YAML manifest of generated definitions to this path")
	tags       = flag.String("tags", "", "comma-separated build tags")
	strict     = flag.Bool("strict", false, "treat warnings as errors")
	dryRun     = flag.Bool("dry-run", false, "validate and render without writing files")
	verbose    = flag.Bool("v", false, "verbose logging")
)

func usage() {
	fmt.Fprintf(os.Stderr, "usage: kgraphgen [flags] [packages]\n")
	flag.PrintDefaults()
}

func main() {
	flag.Usage = usage
	flag.Parse()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := run(ctx); err != nil {
		fmt.Fprintln(os.Stderr, "kgraphgen:", err)
		os.Exit(1)
	}
}

func run(ctx context.Context) error {
	zlog := log.New(*verbose)

	cfg := kgen.DefaultConfig()
	if *configPath != "" {
		var err error
		if cfg, err = kgen.LoadConfig(*configPath); err != nil {
			return err
		}
	}
	applyFlags(&cfg)
	cfg.Log = log.Logr(zlog, "kgraphgen")

	res, err := kgen.Generate(ctx, cfg)
	if res != nil {
		for _, d := range res.Diagnostics {
			if d.Severity() == diag.Error {
				zlog.Error().Str("rule", d.Rule.ID).Msg(d.Error())
			}
		}
	}
	if errors.Is(err, kgen.ErrValidationFailed) || errors.Is(err, kgen.ErrInternal) {
		// Diagnostics were logged one by one above.
		return fmt.Errorf("generation failed with %d diagnostic(s)", len(res.Diagnostics))
	}
	return err
}

// applyFlags overrides cfg with the flags given on the command line.
func applyFlags(cfg *kgen.Config) {
	flag.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "dir":
			cfg.Dir = *dir
		case "output":
			cfg.Output = *output
		case "manifest":
			cfg.Manifest = *manifest
		case "tags":
			cfg.Tags = strings.Split(*tags, ",")
		case "strict":
			cfg.Strict = *strict
		case "dry-run":
			cfg.DryRun = *dryRun
		}
	})
	if args := flag.Args(); len(args) > 0 {
		cfg.Patterns = args
	}
}
