package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"go.uber.org/zap"

	"github.com/Faultbox/meshtopo/internal/config"
	"github.com/Faultbox/meshtopo/internal/editor"
	"github.com/Faultbox/meshtopo/internal/logger"
	"github.com/Faultbox/meshtopo/internal/meshio"
	"github.com/Faultbox/meshtopo/pkg/math"
	"github.com/Faultbox/meshtopo/pkg/mesh"
	"github.com/Faultbox/meshtopo/pkg/shapes"
	"github.com/Faultbox/meshtopo/pkg/winged"
)

var errUsage = errors.New("invalid usage")

type tool struct {
	cfg *config.Config
	log *zap.Logger
	out io.Writer
}

func (t *tool) stdout() io.Writer {
	if t.out != nil {
		return t.out
	}
	return os.Stdout
}

// loadMesh reads and builds a mesh document, repairing attributes when
// mesh.sanitize is set.
func (t *tool) loadMesh(path string, sanitize bool) (*mesh.Mesh, error) {
	doc, err := meshio.Load(path)
	if err != nil {
		return nil, err
	}
	defaults, err := t.cfg.UnwrapSettings()
	if err != nil {
		return nil, err
	}
	m, err := doc.Build(t.cfg.BuildOptions(), defaults)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	if sanitize {
		if n := m.SanitizeAttributes(); n > 0 {
			t.log.Warn("replaced non-finite attribute values", zap.String("file", path), zap.Int("count", n))
		}
	}
	t.log.Debug("mesh loaded",
		zap.String("file", path),
		zap.Int("vertices", m.VertexCount()),
		zap.Int("faces", m.FaceCount()))
	return m, nil
}

// writeMesh saves m to path, or to stdout when path is empty.
func (t *tool) writeMesh(m *mesh.Mesh, path string) error {
	doc := meshio.FromMesh(m)
	if path == "" {
		return meshio.Encode(t.stdout(), doc)
	}
	if err := meshio.Save(path, doc); err != nil {
		return err
	}
	t.log.Info("mesh written", zap.String("file", path))
	return nil
}

func (t *tool) session(m *mesh.Mesh) (*editor.Session, error) {
	topo, err := t.cfg.Topology()
	if err != nil {
		return nil, err
	}
	opts := editor.Options{Topology: topo, AutoUV: t.cfg.Mesh.AutoUV}
	return editor.NewSession(m, opts, logger.Named("editor")), nil
}

// parseFile parses a subcommand's flags and returns its single file argument.
// The file may come before or after the flags.
func parseFile(fs *flag.FlagSet, args []string) (string, error) {
	var path string
	if len(args) > 0 && !strings.HasPrefix(args[0], "-") {
		path, args = args[0], args[1:]
	}
	if err := fs.Parse(args); err != nil {
		return "", fmt.Errorf("%w: %v", errUsage, err)
	}

	rest := fs.Args()
	if path == "" && len(rest) > 0 {
		path, rest = rest[0], rest[1:]
	}
	if path == "" || len(rest) != 0 {
		return "", fmt.Errorf("%w: %s expects one mesh file", errUsage, fs.Name())
	}
	return path, nil
}

func parseInts(s string) ([]int, error) {
	if s == "" {
		return nil, nil
	}
	parts := strings.Split(s, ",")
	out := make([]int, len(parts))
	for i, p := range parts {
		v, err := strconv.Atoi(strings.TrimSpace(p))
		if err != nil {
			return nil, fmt.Errorf("%w: %q is not an integer list", errUsage, s)
		}
		out[i] = v
	}
	return out, nil
}

func parseFloats(s string, n int) ([]float32, error) {
	parts := strings.Split(s, ",")
	if len(parts) != n {
		return nil, fmt.Errorf("%w: %q needs %d comma-separated values", errUsage, s, n)
	}
	out := make([]float32, n)
	for i, p := range parts {
		v, err := strconv.ParseFloat(strings.TrimSpace(p), 32)
		if err != nil {
			return nil, fmt.Errorf("%w: %q: %v", errUsage, s, err)
		}
		out[i] = float32(v)
	}
	return out, nil
}

func (t *tool) cmdInfo(args []string) error {
	fs := flag.NewFlagSet("info", flag.ExitOnError)
	path, err := parseFile(fs, args)
	if err != nil {
		return err
	}
	m, err := t.loadMesh(path, t.cfg.Mesh.Sanitize)
	if err != nil {
		return err
	}

	var tris, quads int
	for _, f := range m.Faces() {
		tris += f.TriangleCount()
		if f.IsQuad() {
			quads++
		}
	}
	coincident := 0
	for _, g := range m.SharedVertices() {
		if len(g) > 1 {
			coincident++
		}
	}
	wings, err := winged.Build(m, m.Faces(), false)
	if err != nil {
		return err
	}

	w := t.stdout()
	fmt.Fprintf(w, "File:       %s\n", path)
	fmt.Fprintf(w, "Vertices:   %d\n", m.VertexCount())
	fmt.Fprintf(w, "Faces:      %d (%d quads)\n", m.FaceCount(), quads)
	fmt.Fprintf(w, "Triangles:  %d\n", tris)
	fmt.Fprintf(w, "Groups:     %d (%d coincident)\n", len(m.SharedVertices()), coincident)
	fmt.Fprintf(w, "Submeshes:  %d\n", len(m.Compile(mesh.Triangles)))
	fmt.Fprintf(w, "Edges:      %d wings, %d open\n", len(wings), len(winged.PerimeterEdges(wings)))
	fmt.Fprintf(w, "Unused:     %d vertices\n", len(m.UnusedVertices()))
	return nil
}

func (t *tool) cmdGroups(args []string) error {
	fs := flag.NewFlagSet("groups", flag.ExitOnError)
	all := fs.Bool("all", false, "Include single-vertex groups")
	path, err := parseFile(fs, args)
	if err != nil {
		return err
	}
	m, err := t.loadMesh(path, t.cfg.Mesh.Sanitize)
	if err != nil {
		return err
	}

	w := t.stdout()
	for i, g := range m.SharedVertices() {
		if len(g) < 2 && !*all {
			continue
		}
		p := m.Positions()[g[0]]
		fmt.Fprintf(w, "%4d  (%g, %g, %g)  %v\n", i, p[0], p[1], p[2], []int(g))
	}
	return nil
}

// printSink writes compiled buffers as text.
type printSink struct {
	w io.Writer
}

func (p printSink) Submit(m *mesh.Mesh, submeshes []mesh.Submesh) error {
	for _, s := range submeshes {
		fmt.Fprintf(p.w, "submesh %d: %s, %d primitives\n", s.Index, s.Topology, s.PrimitiveCount())
		fmt.Fprintf(p.w, "  %v\n", s.Indexes)
	}
	return nil
}

func (t *tool) cmdCompile(args []string) error {
	fs := flag.NewFlagSet("compile", flag.ExitOnError)
	path, err := parseFile(fs, args)
	if err != nil {
		return err
	}
	m, err := t.loadMesh(path, t.cfg.Mesh.Sanitize)
	if err != nil {
		return err
	}
	s, err := t.session(m)
	if err != nil {
		return err
	}
	return s.Rebuild(printSink{w: t.stdout()})
}

func (t *tool) cmdWings(args []string) error {
	fs := flag.NewFlagSet("wings", flag.ExitOnError)
	faceIdx := fs.Int("face", 0, "Face index")
	path, err := parseFile(fs, args)
	if err != nil {
		return err
	}
	m, err := t.loadMesh(path, t.cfg.Mesh.Sanitize)
	if err != nil {
		return err
	}
	if *faceIdx < 0 || *faceIdx >= m.FaceCount() {
		return fmt.Errorf("%w: face %d, mesh has %d", mesh.ErrIndexOutOfRange, *faceIdx, m.FaceCount())
	}

	wings, err := winged.Build(m, m.Faces(), false)
	if err != nil {
		return err
	}
	target := m.Faces()[*faceIdx]
	w := t.stdout()
	for _, wing := range wings {
		if wing.Face != target {
			continue
		}
		opposite := "open"
		if wing.Opposite != nil {
			opposite = fmt.Sprintf("face %d", m.IndexOfFace(wing.Opposite.Face))
		}
		fmt.Fprintf(w, "%-12s common %-10s -> %s\n", wing.Edge.Local, wing.Edge.Common, opposite)
	}
	return nil
}

func (t *tool) cmdUnwrap(args []string) error {
	fs := flag.NewFlagSet("unwrap", flag.ExitOnError)
	out := fs.String("o", "", "Output file")
	path, err := parseFile(fs, args)
	if err != nil {
		return err
	}
	m, err := t.loadMesh(path, t.cfg.Mesh.Sanitize)
	if err != nil {
		return err
	}
	s, err := t.session(m)
	if err != nil {
		return err
	}
	if !t.cfg.Mesh.AutoUV {
		t.log.Warn("auto UV is disabled, only normals are rebuilt")
	}
	if err := s.Rebuild(nil); err != nil {
		return err
	}
	return t.writeMesh(m, *out)
}

func (t *tool) cmdWeld(args []string) error {
	fs := flag.NewFlagSet("weld", flag.ExitOnError)
	verts := fs.String("v", "", "Comma-separated vertex indexes")
	out := fs.String("o", "", "Output file")
	path, err := parseFile(fs, args)
	if err != nil {
		return err
	}
	indexes, err := parseInts(*verts)
	if err != nil {
		return err
	}
	m, err := t.loadMesh(path, t.cfg.Mesh.Sanitize)
	if err != nil {
		return err
	}
	s, err := t.session(m)
	if err != nil {
		return err
	}
	if err := s.SelectVertices(indexes...); err != nil {
		return err
	}
	if err := s.Weld(); err != nil {
		return err
	}
	return t.writeMesh(m, *out)
}

func (t *tool) cmdMerge(args []string) error {
	fs := flag.NewFlagSet("merge", flag.ExitOnError)
	out := fs.String("o", "", "Output file")
	path, err := parseFile(fs, args)
	if err != nil {
		return err
	}
	m, err := t.loadMesh(path, t.cfg.Mesh.Sanitize)
	if err != nil {
		return err
	}
	s, err := t.session(m)
	if err != nil {
		return err
	}
	if err := s.SelectFaces(m.Faces()...); err != nil {
		return err
	}
	quads, err := s.MergeTriangles()
	if err != nil {
		return err
	}
	fmt.Fprintf(os.Stderr, "(%d quads made)\n", quads)
	return t.writeMesh(m, *out)
}

func (t *tool) cmdDelete(args []string) error {
	fs := flag.NewFlagSet("delete", flag.ExitOnError)
	faceList := fs.String("f", "", "Comma-separated face indexes")
	out := fs.String("o", "", "Output file")
	path, err := parseFile(fs, args)
	if err != nil {
		return err
	}
	indexes, err := parseInts(*faceList)
	if err != nil {
		return err
	}
	m, err := t.loadMesh(path, t.cfg.Mesh.Sanitize)
	if err != nil {
		return err
	}

	faces := make([]*mesh.Face, 0, len(indexes))
	for _, i := range indexes {
		if i < 0 || i >= m.FaceCount() {
			return fmt.Errorf("%w: face %d, mesh has %d", mesh.ErrIndexOutOfRange, i, m.FaceCount())
		}
		faces = append(faces, m.Faces()[i])
	}
	s, err := t.session(m)
	if err != nil {
		return err
	}
	if err := s.SelectFaces(faces...); err != nil {
		return err
	}
	if err := s.DeleteSelectedFaces(); err != nil {
		return err
	}
	return t.writeMesh(m, *out)
}

func (t *tool) cmdSanitize(args []string) error {
	fs := flag.NewFlagSet("sanitize", flag.ExitOnError)
	out := fs.String("o", "", "Output file")
	path, err := parseFile(fs, args)
	if err != nil {
		return err
	}
	m, err := t.loadMesh(path, false)
	if err != nil {
		return err
	}
	n := m.SanitizeAttributes()
	fmt.Fprintf(os.Stderr, "(%d values replaced)\n", n)
	return t.writeMesh(m, *out)
}

func (t *tool) cmdCube(args []string) error {
	fs := flag.NewFlagSet("cube", flag.ExitOnError)
	size := fs.String("size", "1,1,1", "Edge lengths x,y,z")
	out := fs.String("o", "", "Output file")
	fs.Parse(args)

	s, err := parseFloats(*size, 3)
	if err != nil {
		return err
	}
	m, err := shapes.Cube(math.Vec3{s[0], s[1], s[2]})
	if err != nil {
		return err
	}
	return t.writeMesh(m, *out)
}

func (t *tool) cmdPlane(args []string) error {
	fs := flag.NewFlagSet("plane", flag.ExitOnError)
	size := fs.String("size", "1,1", "Width and depth")
	cols := fs.Int("cols", 1, "Columns")
	rows := fs.Int("rows", 1, "Rows")
	out := fs.String("o", "", "Output file")
	fs.Parse(args)

	s, err := parseFloats(*size, 2)
	if err != nil {
		return err
	}
	m, err := shapes.Plane(s[0], s[1], *cols, *rows)
	if err != nil {
		return err
	}
	return t.writeMesh(m, *out)
}
