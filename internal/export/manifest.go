package export

import (
	"fmt"
	"io"
	"os"

	"github.com/lawnchairsociety/cavemesh/internal/generator"
	"gopkg.in/yaml.v3"
)

// Manifest describes one generated cave. It carries everything needed to
// regenerate the run, never the grid itself.
type Manifest struct {
	Seed        string                  `yaml:"seed"`
	Fingerprint string                  `yaml:"fingerprint"`
	Empty       bool                    `yaml:"empty,omitempty"`
	Params      generator.Params        `yaml:"params"`
	GridWidth   int                     `yaml:"grid_width"`
	GridHeight  int                     `yaml:"grid_height"`
	Floor       MeshStats               `yaml:"floor"`
	Walls       MeshStats               `yaml:"walls"`
	Outlines    int                     `yaml:"outlines"`
	Passages    int                     `yaml:"passages"`
	Rooms       []generator.RoomSummary `yaml:"rooms"`
}

// MeshStats counts a mesh.
type MeshStats struct {
	Vertices  int `yaml:"vertices"`
	Triangles int `yaml:"triangles"`
}

// NewManifest summarises res.
func NewManifest(res *generator.Result) *Manifest {
	m := &Manifest{
		Seed:        res.Seed,
		Fingerprint: res.Fingerprint,
		Empty:       res.Empty,
		Params:      res.Params,
		Floor:       MeshStats{len(res.Floor.Vertices), res.Floor.TriangleCount()},
		Walls:       MeshStats{len(res.Walls.Vertices), res.Walls.TriangleCount()},
		Outlines:    len(res.Outlines),
		Passages:    res.Passages,
		Rooms:       res.Rooms,
	}
	if res.Grid != nil {
		m.GridWidth = res.Grid.Width()
		m.GridHeight = res.Grid.Height()
	}
	return m
}

// EncodeManifest writes m as YAML preceded by a comment header.
func EncodeManifest(w io.Writer, m *Manifest) error {
	fmt.Fprintf(w, "# Cave generated with seed: %s\n", m.Seed)
	fmt.Fprintf(w, "# Fingerprint: %s\n", m.Fingerprint)
	fmt.Fprintf(w, "# Room count: %d\n\n", len(m.Rooms))

	encoder := yaml.NewEncoder(w)
	encoder.SetIndent(2)
	if err := encoder.Encode(m); err != nil {
		return fmt.Errorf("failed to encode YAML: %w", err)
	}
	return encoder.Close()
}

// WriteManifest writes the manifest of res to path.
func WriteManifest(path string, res *generator.Result) error {
	return writeFile(path, func(w io.Writer) error {
		return EncodeManifest(w, NewManifest(res))
	})
}

// ReadManifest loads a manifest written by WriteManifest.
func ReadManifest(path string) (*Manifest, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read manifest: %w", err)
	}
	var m Manifest
	if err := yaml.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("failed to parse manifest: %w", err)
	}
	return &m, nil
}
