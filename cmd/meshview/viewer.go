package main

import (
	"errors"
	"fmt"
	"path/filepath"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/veandco/go-sdl2/sdl"
	"go.uber.org/zap"

	"github.com/Faultbox/meshtopo/internal/editor"
	"github.com/Faultbox/meshtopo/internal/gpu"
	"github.com/Faultbox/meshtopo/internal/meshio"
	"github.com/Faultbox/meshtopo/pkg/mesh"
)

var lightDir = mgl32.Vec3{-0.4, -1, -0.6}

// viewer owns the window, the GPU copy of the mesh and the editing session.
type viewer struct {
	log  *zap.Logger
	win  *window
	up   *gpu.Uploader
	sess *editor.Session
	cam  *orbit

	name     string
	savePath string

	dragging bool
	dirty    bool
}

func newViewer(sess *editor.Session, name, savePath string, wcfg windowConfig, log *zap.Logger) (*viewer, error) {
	win, err := openWindow(wcfg, log.Named("window"))
	if err != nil {
		return nil, err
	}
	// The uploader loads GL entry points, so it comes after the context.
	up, err := gpu.NewUploader(log.Named("gpu"))
	if err != nil {
		win.close()
		return nil, err
	}

	v := &viewer{
		log:      log,
		win:      win,
		up:       up,
		sess:     sess,
		cam:      newOrbit(),
		name:     name,
		savePath: savePath,
		dirty:    true,
	}
	v.frame()
	return v, nil
}

func (v *viewer) close() {
	v.up.Close()
	v.win.close()
}

// run draws until the window is closed or Escape is pressed.
func (v *viewer) run() error {
	for {
		if v.poll() {
			return nil
		}
		if v.dirty {
			if err := v.sess.Rebuild(v.up); err != nil {
				return fmt.Errorf("rebuild: %w", err)
			}
			v.dirty = false
			v.updateTitle()
		}
		w, h := v.win.drawableSize()
		gpu.BeginFrame(w, h)
		aspect := float32(w) / float32(max(h, 1))
		v.up.Draw(v.cam.projection(aspect).Mul4(v.cam.view()), lightDir)
		v.win.swap()
	}
}

// poll handles pending events and reports whether to quit.
func (v *viewer) poll() bool {
	for event := sdl.PollEvent(); event != nil; event = sdl.PollEvent() {
		switch e := event.(type) {
		case *sdl.QuitEvent:
			return true

		case *sdl.KeyboardEvent:
			if e.Type != sdl.KEYDOWN || e.Repeat != 0 {
				continue
			}
			if e.Keysym.Scancode == sdl.SCANCODE_ESCAPE {
				return true
			}
			v.key(e.Keysym.Scancode)

		case *sdl.MouseButtonEvent:
			switch {
			case e.Button == sdl.BUTTON_RIGHT:
				v.dragging = e.Type == sdl.MOUSEBUTTONDOWN
			case e.Button == sdl.BUTTON_LEFT && e.Type == sdl.MOUSEBUTTONDOWN:
				v.pick(int(e.X), int(e.Y), sdl.GetModState()&sdl.KMOD_SHIFT != 0)
			}

		case *sdl.MouseMotionEvent:
			if v.dragging {
				v.cam.drag(float32(e.XRel), float32(e.YRel))
			}

		case *sdl.MouseWheelEvent:
			v.cam.zoom(float32(e.Y))
		}
	}
	return false
}

func (v *viewer) key(code sdl.Scancode) {
	var err error
	switch code {
	case sdl.SCANCODE_F:
		v.frame()
	case sdl.SCANCODE_R:
		v.dirty = true
	case sdl.SCANCODE_SPACE:
		v.sess.ClearSelection()
		v.updateTitle()
	case sdl.SCANCODE_G:
		var added int
		if added, err = v.sess.GrowFaceSelection(); err == nil {
			v.log.Debug("selection grown", zap.Int("added", added))
			v.updateTitle()
		}
	case sdl.SCANCODE_M:
		var quads int
		if quads, err = v.sess.MergeTriangles(); err == nil && quads > 0 {
			v.dirty = true
		}
	case sdl.SCANCODE_DELETE, sdl.SCANCODE_BACKSPACE:
		if err = v.sess.DeleteSelectedFaces(); err == nil {
			v.dirty = true
		}
	case sdl.SCANCODE_S:
		err = v.save()
	}

	if errors.Is(err, editor.ErrEmptySelection) {
		v.log.Info("nothing selected")
	} else if err != nil {
		v.log.Warn("edit failed", zap.Error(err))
	}
}

// pick selects the face under the cursor. With add the face joins the
// current selection; a miss without add clears it.
func (v *viewer) pick(x, y int, add bool) {
	w, h := v.win.size()
	r, err := v.cam.ray(x, y, w, h)
	if err != nil {
		v.log.Debug("no pick ray", zap.Error(err))
		return
	}
	m := v.sess.Mesh()
	hit := v.sess.Pick(toModel(r, m.Transform))

	var faces []*mesh.Face
	if add {
		faces = v.sess.Selection().Faces()
	}
	if hit != nil {
		faces = append(faces[:len(faces):len(faces)], hit)
		v.log.Debug("face picked", zap.Int("face", m.IndexOfFace(hit)), zap.Stringer("info", hit))
	}
	if err := v.sess.SelectFaces(faces...); err != nil {
		v.log.Warn("select failed", zap.Error(err))
	}
	v.updateTitle()
}

func (v *viewer) frame() {
	m := v.sess.Mesh()
	v.cam.fit(toWorld(m.Positions(), m.Transform))
}

func (v *viewer) save() error {
	if v.savePath == "" {
		return errors.New("no output file, start with -o")
	}
	if err := meshio.Save(v.savePath, meshio.FromMesh(v.sess.Mesh())); err != nil {
		return err
	}
	v.log.Info("mesh written", zap.String("file", v.savePath))
	return nil
}

func (v *viewer) updateTitle() {
	m := v.sess.Mesh()
	v.win.setTitle(fmt.Sprintf("meshview - %s - %d faces, %d vertices, %d selected",
		filepath.Base(v.name), m.FaceCount(), m.VertexCount(), len(v.sess.Selection().Faces())))
}
