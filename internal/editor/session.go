// Package editor implements an interactive editing session over a mesh:
// selection with coincident expansion, editing operators and rebuilding the
// compiled buffers for a renderer.
package editor

import (
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/Faultbox/meshtopo/pkg/mesh"
	"github.com/Faultbox/meshtopo/pkg/uv"
)

var (
	// ErrEmptySelection is returned by operators that need a selection.
	ErrEmptySelection = errors.New("editor: selection is empty")
	// ErrForeignFace is returned when selecting a face the mesh does not own.
	ErrForeignFace = errors.New("editor: face does not belong to mesh")
)

// Sink receives compiled submeshes after a rebuild. A GPU uploader is the
// usual implementation.
type Sink interface {
	Submit(m *mesh.Mesh, submeshes []mesh.Submesh) error
}

// Options controls rebuilds.
type Options struct {
	Topology mesh.Topology
	// AutoUV regenerates channel 0 on every rebuild.
	AutoUV bool
}

// Session owns a mesh being edited.
type Session struct {
	mesh *mesh.Mesh
	sel  Selection
	opts Options
	log  *zap.Logger
}

// NewSession starts a session on m. A nil logger disables logging.
func NewSession(m *mesh.Mesh, opts Options, log *zap.Logger) *Session {
	if log == nil {
		log = zap.NewNop()
	}
	return &Session{mesh: m, opts: opts, log: log}
}

// Mesh returns the edited mesh. Call Invalidate after modifying it directly.
func (s *Session) Mesh() *mesh.Mesh { return s.mesh }

// Selection returns the current selection.
func (s *Session) Selection() *Selection { return &s.sel }

// Invalidate drops cached selection data after an external mesh edit.
func (s *Session) Invalidate() {
	s.sel.invalidate()
}

// SelectFaces replaces the face selection.
func (s *Session) SelectFaces(faces ...*mesh.Face) error {
	for _, f := range faces {
		if s.mesh.IndexOfFace(f) < 0 {
			return ErrForeignFace
		}
	}
	s.sel.setFaces(faces)
	return nil
}

// SelectEdges replaces the edge selection.
func (s *Session) SelectEdges(edges ...mesh.Edge) error {
	for _, e := range edges {
		if _, err := s.mesh.Position(e.A); err != nil {
			return err
		}
		if _, err := s.mesh.Position(e.B); err != nil {
			return err
		}
	}
	s.sel.setEdges(edges)
	return nil
}

// SelectVertices replaces the vertex selection.
func (s *Session) SelectVertices(indexes ...int) error {
	for _, i := range indexes {
		if _, err := s.mesh.Position(i); err != nil {
			return err
		}
	}
	s.sel.setVertices(indexes)
	return nil
}

// ClearSelection drops the whole selection.
func (s *Session) ClearSelection() {
	s.sel.Clear()
}

// SelectedVertices returns every render index coincident with the selection.
// The result is cached until the selection or the mesh changes and must not be
// modified. Later selection changes never overwrite a returned slice. If the
// selection no longer fits the mesh it is cleared and nil is returned.
func (s *Session) SelectedVertices() []int {
	if s.sel.expandedValid {
		if len(s.sel.expanded) == 0 {
			return nil
		}
		return s.sel.expanded
	}

	seeds := s.sel.seeds()
	expanded, err := s.mesh.AppendCoincidentVertices(nil, seeds)
	if err != nil {
		s.log.Warn("selection is stale, clearing",
			zap.Int("seeds", len(seeds)),
			zap.Int("vertices", s.mesh.VertexCount()),
			zap.Error(err))
		s.sel.Clear()
		s.sel.expandedValid = true
		return nil
	}

	s.sel.expanded = expanded
	s.sel.expandedValid = true
	return expanded
}

// Rebuild regenerates derived data and hands the compiled submeshes to sink.
func (s *Session) Rebuild(sink Sink) error {
	if s.opts.AutoUV {
		if err := uv.Refresh(s.mesh, nil); err != nil {
			return fmt.Errorf("refreshing uvs: %w", err)
		}
	}
	s.mesh.RecalculateNormals()

	submeshes := s.mesh.Compile(s.opts.Topology)
	s.log.Debug("rebuilt mesh",
		zap.Int("vertices", s.mesh.VertexCount()),
		zap.Int("faces", s.mesh.FaceCount()),
		zap.Int("submeshes", len(submeshes)),
		zap.Stringer("topology", s.opts.Topology))

	if sink == nil {
		return nil
	}
	return sink.Submit(s.mesh, submeshes)
}
