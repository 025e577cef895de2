// Package loader loads the Go packages kgraphgen works on.
package loader

import (
	"fmt"
	"go/token"
	"path/filepath"
	"strconv"
	"strings"

	"golang.org/x/tools/go/packages"

	"github.com/birdayz/kgraph/internal/diag"
)

const (
	// KnodePath is the import path of the declaration contract.
	KnodePath = "github.com/birdayz/kgraph/knode"
	// KkernelPath is the import path of the kernel invoker.
	KkernelPath = "github.com/birdayz/kgraph/kkernel"
	// DefaultOutput is the name of the generated file in each package.
	DefaultOutput = "kgraph_gen.go"
)

type Config struct {
	Dir      string
	Patterns []string
	// Output is the base name of the generated file.
	Output string
	Tags   []string
}

// Modes returns the package load modes needed by the classifiers.
func Modes() packages.LoadMode {
	return packages.NeedName | packages.NeedFiles | packages.NeedCompiledGoFiles | packages.NeedImports |
		packages.NeedTypes | packages.NeedTypesSizes | packages.NeedSyntax | packages.NeedTypesInfo
}

// Load loads the packages matching cfg.Patterns. A previously generated
// output file is replaced by its package clause, so stale generated code can
// neither break type checking nor be mistaken for user code. Package errors
// are returned as KG0100 diagnostics; the error return is reserved for
// failures of the go tool itself.
func Load(cfg Config) ([]*packages.Package, diag.List, error) {
	patterns := cfg.Patterns
	if len(patterns) == 0 {
		patterns = []string{"."}
	}
	output := cfg.Output
	if output == "" {
		output = DefaultOutput
	}
	var buildFlags []string
	if len(cfg.Tags) > 0 {
		buildFlags = []string{"-tags=" + strings.Join(cfg.Tags, ",")}
	}

	listed, err := packages.Load(&packages.Config{
		Mode:       packages.NeedName | packages.NeedFiles,
		Dir:        cfg.Dir,
		BuildFlags: buildFlags,
	}, patterns...)
	if err != nil {
		return nil, nil, fmt.Errorf("listing packages: %w", err)
	}

	overlay := map[string][]byte{}
	for _, pkg := range listed {
		for _, file := range pkg.GoFiles {
			if filepath.Base(file) == output {
				overlay[file] = []byte("package " + pkg.Name + "\n")
			}
		}
	}

	pkgs, err := packages.Load(&packages.Config{
		Mode:       Modes(),
		Dir:        cfg.Dir,
		BuildFlags: buildFlags,
		Overlay:    overlay,
	}, patterns...)
	if err != nil {
		return nil, nil, fmt.Errorf("loading packages: %w", err)
	}

	var diags diag.List
	for _, pkg := range pkgs {
		for _, e := range pkg.Errors {
			diags = append(diags, diag.New(diag.LoadError, ParsePosition(e.Pos), "%s: %s", pkg.PkgPath, e.Msg))
		}
	}
	return pkgs, diags, nil
}

// ParsePosition parses the "file:line:col" positions reported by the go tool.
func ParsePosition(s string) token.Position {
	var pos token.Position
	if s == "" || s == "-" {
		return pos
	}
	parts := strings.Split(s, ":")
	nums := make([]int, 0, 2)
	for len(parts) > 1 && len(nums) < 2 {
		n, err := strconv.Atoi(parts[len(parts)-1])
		if err != nil {
			break
		}
		nums = append([]int{n}, nums...)
		parts = parts[:len(parts)-1]
	}
	pos.Filename = strings.Join(parts, ":")
	if len(nums) > 0 {
		pos.Line = nums[0]
	}
	if len(nums) > 1 {
		pos.Column = nums[1]
	}
	return pos
}

// OutputPath returns the path of the generated file of pkg.
func OutputPath(pkg *packages.Package, output string) (string, error) {
	if output == "" {
		output = DefaultOutput
	}
	files := pkg.GoFiles
	if len(files) == 0 {
		files = pkg.CompiledGoFiles
	}
	if len(files) == 0 {
		return "", fmt.Errorf("package %s has no Go files", pkg.PkgPath)
	}
	return filepath.Join(filepath.Dir(files[0]), output), nil
}
