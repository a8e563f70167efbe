package export

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/lawnchairsociety/cavemesh/internal/generator"
	"github.com/lawnchairsociety/cavemesh/internal/marching"
)

func TestWriteOBJ(t *testing.T) {
	m := marching.Mesh{
		Vertices:  []marching.Vec3{{X: 0, Y: 0, Z: 0}, {X: 1.5, Y: 0, Z: 0}, {X: 0, Y: -5, Z: 0.25}},
		Triangles: []int{0, 2, 1},
	}

	var buf bytes.Buffer
	if err := WriteOBJ(&buf, m, "floor"); err != nil {
		t.Fatalf("WriteOBJ: %v", err)
	}

	want := "o floor\n" +
		"v 0 0 0\n" +
		"v 1.5 0 0\n" +
		"v 0 -5 0.25\n" +
		"f 1 3 2\n"
	if buf.String() != want {
		t.Errorf("WriteOBJ output:\n%s\nwant:\n%s", buf.String(), want)
	}
}

func TestWriteOBJEmptyMesh(t *testing.T) {
	var buf bytes.Buffer
	if err := WriteOBJ(&buf, marching.Mesh{}, "walls"); err != nil {
		t.Fatalf("WriteOBJ: %v", err)
	}
	if buf.String() != "o walls\n" {
		t.Errorf("output = %q", buf.String())
	}
}

func generate(t *testing.T) *generator.Result {
	t.Helper()
	p := generator.DefaultParams()
	p.Width, p.Height = 40, 30
	p.Seed = "export"
	res, err := generator.New().Generate(p)
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	return res
}

func TestWriteOBJFiles(t *testing.T) {
	res := generate(t)
	dir := filepath.Join(t.TempDir(), "out")

	paths, err := WriteOBJFiles(dir, res.Floor, res.Walls)
	if err != nil {
		t.Fatalf("WriteOBJFiles: %v", err)
	}
	if len(paths) != 2 {
		t.Fatalf("paths = %v", paths)
	}

	data, err := os.ReadFile(paths[0])
	if err != nil {
		t.Fatal(err)
	}
	text := string(data)
	if got := strings.Count(text, "\nv "); got != len(res.Floor.Vertices) {
		t.Errorf("floor.obj has %d vertices, want %d", got, len(res.Floor.Vertices))
	}
	if got := strings.Count(text, "\nf "); got != res.Floor.TriangleCount() {
		t.Errorf("floor.obj has %d faces, want %d", got, res.Floor.TriangleCount())
	}
}

func TestManifestRoundTrip(t *testing.T) {
	res := generate(t)
	path := filepath.Join(t.TempDir(), "cave.yaml")

	if err := WriteManifest(path, res); err != nil {
		t.Fatalf("WriteManifest: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.HasPrefix(string(data), "# Cave generated with seed: export\n") {
		t.Errorf("missing header comment:\n%s", data)
	}

	m, err := ReadManifest(path)
	if err != nil {
		t.Fatalf("ReadManifest: %v", err)
	}
	if m.Seed != res.Seed || m.Fingerprint != res.Fingerprint || m.Params != res.Params {
		t.Errorf("manifest = %+v", m)
	}
	if m.Floor.Triangles != res.Floor.TriangleCount() || m.Outlines != len(res.Outlines) {
		t.Errorf("mesh stats = %+v", m.Floor)
	}
	if len(m.Rooms) != len(res.Rooms) || !m.Rooms[0].Main {
		t.Errorf("rooms = %+v", m.Rooms)
	}
	if m.GridWidth != res.Grid.Width() || m.GridHeight != res.Grid.Height() {
		t.Errorf("grid = %dx%d", m.GridWidth, m.GridHeight)
	}
}

func TestReadManifestMissing(t *testing.T) {
	if _, err := ReadManifest(filepath.Join(t.TempDir(), "nope.yaml")); err == nil {
		t.Error("expected error for missing manifest")
	}
}
