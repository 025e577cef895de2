// Package kgen runs the node definition generator: it loads packages,
// classifies and validates every definition, and writes the synthesized code.
package kgen

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"

	"go.uber.org/multierr"
	"golang.org/x/tools/go/packages"

	"github.com/birdayz/kgraph/internal/atomicfile"
	"github.com/birdayz/kgraph/internal/classify"
	"github.com/birdayz/kgraph/internal/diag"
	"github.com/birdayz/kgraph/internal/loader"
	"github.com/birdayz/kgraph/internal/model"
	"github.com/birdayz/kgraph/internal/synth"
	"github.com/birdayz/kgraph/internal/validate"
)

var (
	ErrValidationFailed = errors.New("kgraph: validation failed")
	ErrInternal         = errors.New("kgraph: internal generator error")
)

// PackageResult is the outcome for one package.
type PackageResult struct {
	Path        string
	Output      string
	Definitions []*model.Definition
	Source      []byte
	// Written is false for dry runs and for outputs that did not change.
	Written bool
	// Removed is set when a stale generated file was deleted.
	Removed bool
}

type Result struct {
	Packages    []*PackageResult
	Diagnostics diag.List
}

type pkgState struct {
	pkg    *packages.Package
	result *PackageResult
}

// Generate runs all phases in order. Nothing is written unless every package
// classified and validated without errors and all code was rendered.
func Generate(ctx context.Context, cfg Config) (*Result, error) {
	log := cfg.Log
	res := &Result{}

	// Parse.
	pkgs, loadDiags, err := loader.Load(cfg.loaderConfig())
	if err != nil {
		return res, err
	}
	res.Diagnostics = append(res.Diagnostics, loadDiags...)
	if loadDiags.HasErrors() {
		res.Diagnostics.Sort()
		return res, fmt.Errorf("%w: %w", ErrValidationFailed, res.Diagnostics.Err())
	}

	var states []*pkgState
	for _, pkg := range pkgs {
		out, err := loader.OutputPath(pkg, cfg.Output)
		if err != nil {
			return res, err
		}
		defs, internal := classify.Package(pkg)
		res.Diagnostics = append(res.Diagnostics, internal...)
		st := &pkgState{pkg: pkg, result: &PackageResult{Path: pkg.PkgPath, Output: out, Definitions: defs}}
		states = append(states, st)
		res.Packages = append(res.Packages, st.result)
		log.V(1).Info("Classified package", "package", pkg.PkgPath, "definitions", len(defs))
	}
	if err := ctx.Err(); err != nil {
		return res, err
	}

	// Analyze.
	for _, st := range states {
		res.Diagnostics = append(res.Diagnostics, validate.All(st.result.Definitions)...)
	}
	res.Diagnostics.Sort()
	for _, d := range res.Diagnostics.Filter(diag.Warning) {
		log.Info("Validation warning", "diagnostic", d.Error())
	}
	if err := checkDiagnostics(res.Diagnostics, cfg.Strict); err != nil {
		return res, err
	}

	// Synthesize everything before touching the file system.
	for _, st := range states {
		defs := synthesizable(st.result.Definitions)
		src, diags := synth.Package(st.pkg.Types, defs)
		res.Diagnostics = append(res.Diagnostics, diags...)
		st.result.Source = src
	}
	if res.Diagnostics.HasInternal() {
		res.Diagnostics.Sort()
		return res, fmt.Errorf("%w: %w", ErrInternal, res.Diagnostics.Err())
	}
	if err := ctx.Err(); err != nil {
		return res, err
	}

	// Mutate.
	if cfg.DryRun {
		return res, nil
	}
	for _, st := range states {
		if err := write(st.result); err != nil {
			return res, err
		}
		switch {
		case st.result.Written:
			log.Info("Generated companion file", "package", st.result.Path, "file", st.result.Output, "definitions", len(st.result.Definitions))
		case st.result.Removed:
			log.Info("Removed stale companion file", "package", st.result.Path, "file", st.result.Output)
		}
	}

	if cfg.Manifest != "" {
		if err := WriteManifest(cfg.Manifest, BuildManifest(res)); err != nil {
			return res, err
		}
	}
	return res, nil
}

func checkDiagnostics(l diag.List, strict bool) error {
	switch {
	case l.HasInternal():
		return fmt.Errorf("%w: %w", ErrInternal, l.Err())
	case l.HasErrors():
		return fmt.Errorf("%w: %w", ErrValidationFailed, l.Err())
	case strict && len(l) > 0:
		var err error
		for _, d := range l {
			err = multierr.Append(err, d)
		}
		return fmt.Errorf("%w: warnings are errors in strict mode: %w", ErrValidationFailed, err)
	}
	return nil
}

// synthesizable drops generic definitions, which only carry a warning.
func synthesizable(defs []*model.Definition) []*model.Definition {
	out := make([]*model.Definition, 0, len(defs))
	for _, d := range defs {
		if !d.Generic {
			out = append(out, d)
		}
	}
	return out
}

func write(r *PackageResult) error {
	existing, err := os.ReadFile(r.Output)
	if err != nil && !errors.Is(err, os.ErrNotExist) {
		return err
	}
	generated := bytes.HasPrefix(existing, []byte("// "+synth.Header))

	if len(r.Source) == 0 {
		if generated {
			if err := atomicfile.Remove(r.Output); err != nil {
				return err
			}
			r.Removed = true
		}
		return nil
	}
	if len(existing) > 0 && !generated {
		return fmt.Errorf("refusing to overwrite %s: not a generated file", r.Output)
	}
	if bytes.Equal(existing, r.Source) {
		return nil
	}
	if err := atomicfile.Write(r.Output, r.Source, 0o644); err != nil {
		return err
	}
	r.Written = true
	return nil
}
