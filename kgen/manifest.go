package kgen

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/birdayz/kgraph/internal/atomicfile"
	"github.com/birdayz/kgraph/internal/model"
)

// Manifest summarizes the generated definitions of a run.
type Manifest struct {
	Generator string            `yaml:"generator"`
	Packages  []ManifestPackage `yaml:"packages"`
}

type ManifestPackage struct {
	Path        string               `yaml:"path"`
	Output      string               `yaml:"output"`
	Definitions []ManifestDefinition `yaml:"definitions"`
}

type ManifestDefinition struct {
	Name     string         `yaml:"name"`
	Kind     string         `yaml:"kind"`
	Traits   string         `yaml:"traits"`
	Managed  bool           `yaml:"managed,omitempty"`
	Ports    []ManifestPort `yaml:"ports,omitempty"`
	Handlers []string       `yaml:"handlers,omitempty"`
}

type ManifestPort struct {
	Name string `yaml:"name"`
	ID   string `yaml:"id"`
}

// BuildManifest lists every synthesized definition of res.
func BuildManifest(res *Result) Manifest {
	m := Manifest{Generator: "kgraphgen"}
	for _, p := range res.Packages {
		if len(p.Source) == 0 {
			continue
		}
		mp := ManifestPackage{Path: p.Path, Output: p.Output}
		for _, def := range synthesizable(p.Definitions) {
			mp.Definitions = append(mp.Definitions, manifestDefinition(def))
		}
		m.Packages = append(m.Packages, mp)
	}
	return m
}

func manifestDefinition(def *model.Definition) ManifestDefinition {
	md := ManifestDefinition{
		Name:    def.Name(),
		Kind:    def.Shape.Kind.String(),
		Traits:  def.Shape.Arity.String(),
		Managed: def.Shape.Managed,
	}
	for _, p := range def.Ports() {
		md.Ports = append(md.Ports, ManifestPort{Name: p.Name, ID: p.ID().String()})
	}
	for _, b := range def.Bindings {
		md.Handlers = append(md.Handlers, fmt.Sprintf("%s -> %s", b.Port.Name, b.Method))
	}
	return md
}

func WriteManifest(path string, m Manifest) error {
	out, err := yaml.Marshal(m)
	if err != nil {
		return err
	}
	return atomicfile.Write(path, out, 0o644)
}

// ReadManifest parses a manifest written by WriteManifest.
func ReadManifest(path string) (Manifest, error) {
	var m Manifest
	raw, err := os.ReadFile(path)
	if err != nil {
		return m, err
	}
	err = yaml.Unmarshal(raw, &m)
	return m, err
}
