// Package export writes generated caves to disk: Wavefront OBJ for the
// meshes and a YAML manifest describing the run.
package export

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"

	"github.com/lawnchairsociety/cavemesh/internal/marching"
)

// WriteOBJ writes m as a single OBJ object. Face indices are 1-based.
func WriteOBJ(w io.Writer, m marching.Mesh, name string) error {
	bw := bufio.NewWriter(w)

	fmt.Fprintf(bw, "o %s\n", name)
	for _, v := range m.Vertices {
		bw.WriteString("v ")
		bw.WriteString(formatFloat(v.X))
		bw.WriteByte(' ')
		bw.WriteString(formatFloat(v.Y))
		bw.WriteByte(' ')
		bw.WriteString(formatFloat(v.Z))
		bw.WriteByte('\n')
	}
	for i := 0; i+2 < len(m.Triangles); i += 3 {
		fmt.Fprintf(bw, "f %d %d %d\n", m.Triangles[i]+1, m.Triangles[i+1]+1, m.Triangles[i+2]+1)
	}

	if err := bw.Flush(); err != nil {
		return fmt.Errorf("failed to write %s mesh: %w", name, err)
	}
	return nil
}

func formatFloat(f float64) string {
	return strconv.FormatFloat(f, 'f', -1, 64)
}

// WriteOBJFiles writes floor.obj and walls.obj into dir and returns their
// paths.
func WriteOBJFiles(dir string, floor, walls marching.Mesh) ([]string, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create output directory: %w", err)
	}

	outputs := []struct {
		name string
		mesh marching.Mesh
	}{
		{"floor", floor},
		{"walls", walls},
	}

	var paths []string
	for _, out := range outputs {
		path := filepath.Join(dir, out.name+".obj")
		if err := writeFile(path, func(w io.Writer) error {
			return WriteOBJ(w, out.mesh, out.name)
		}); err != nil {
			return paths, err
		}
		paths = append(paths, path)
	}
	return paths, nil
}

func writeFile(path string, write func(io.Writer) error) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create file: %w", err)
	}
	if err := write(f); err != nil {
		f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("failed to close %s: %w", path, err)
	}
	return nil
}
