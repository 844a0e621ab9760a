// meshview opens a mesh in an interactive OpenGL preview.
//
// Right drag orbits, the wheel zooms and a left click selects the face under
// the cursor (shift adds to the selection). Keys:
//
//	F          frame the mesh
//	R          regenerate UVs and normals and upload again
//	G          grow the face selection
//	M          merge selected triangle pairs into quads
//	Delete     delete selected faces
//	Space      clear the selection
//	S          write the mesh to the -o file
//	Escape     quit
package main

import (
	"flag"
	"fmt"
	"os"

	"go.uber.org/zap"

	"github.com/Faultbox/meshtopo/internal/config"
	"github.com/Faultbox/meshtopo/internal/editor"
	"github.com/Faultbox/meshtopo/internal/logger"
	"github.com/Faultbox/meshtopo/internal/meshio"
	"github.com/Faultbox/meshtopo/pkg/math"
	"github.com/Faultbox/meshtopo/pkg/mesh"
	"github.com/Faultbox/meshtopo/pkg/shapes"
)

var (
	flagWidth  = flag.Int("width", 1280, "Window width")
	flagHeight = flag.Int("height", 800, "Window height")
	flagNoSync = flag.Bool("no-vsync", false, "Disable vertical sync")
	flagOut    = flag.String("o", "", "File written when S is pressed")
)

func main() {
	config.ParseFlags()

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Config error: %v\n", err)
		os.Exit(1)
	}

	if err := logger.Init(cfg.Logging.Level, cfg.Logging.LogFile); err != nil {
		fmt.Fprintf(os.Stderr, "Logger error: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	args := config.Args()
	if len(args) > 1 {
		fmt.Fprintln(os.Stderr, "Usage: meshview [flags] [mesh.yaml]")
		os.Exit(1)
	}

	name := "cube"
	var m *mesh.Mesh
	if len(args) == 1 {
		name = args[0]
		m, err = loadMesh(cfg, name)
	} else {
		m, err = shapes.Cube(math.Vec3{1, 1, 1})
	}
	if err != nil {
		logger.Error("failed to load mesh", zap.String("file", name), zap.Error(err))
		os.Exit(1)
	}

	topo, err := cfg.Topology()
	if err != nil {
		logger.Error("invalid topology", zap.Error(err))
		os.Exit(1)
	}
	sess := editor.NewSession(m, editor.Options{Topology: topo, AutoUV: cfg.Mesh.AutoUV}, logger.Named("editor"))

	v, err := newViewer(sess, name, *flagOut, windowConfig{
		title:  "meshview",
		width:  *flagWidth,
		height: *flagHeight,
		vsync:  !*flagNoSync,
	}, logger.Named("meshview"))
	if err != nil {
		logger.Error("failed to open viewer", zap.Error(err))
		os.Exit(1)
	}
	defer v.close()

	if err := v.run(); err != nil {
		logger.Error("viewer error", zap.Error(err))
		os.Exit(1)
	}
	logger.Info("viewer closed normally")
}

// loadMesh reads a mesh document and builds it with the configured options.
func loadMesh(cfg *config.Config, path string) (*mesh.Mesh, error) {
	doc, err := meshio.Load(path)
	if err != nil {
		return nil, err
	}
	defaults, err := cfg.UnwrapSettings()
	if err != nil {
		return nil, err
	}
	m, err := doc.Build(cfg.BuildOptions(), defaults)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	if cfg.Mesh.Sanitize {
		if n := m.SanitizeAttributes(); n > 0 {
			logger.Warn("replaced non-finite attribute values", zap.String("file", path), zap.Int("count", n))
		}
	}
	return m, nil
}
