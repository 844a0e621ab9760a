package editor

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/Faultbox/meshtopo/pkg/math"
	"github.com/Faultbox/meshtopo/pkg/mesh"
	"github.com/Faultbox/meshtopo/pkg/winged"
)

// Translate moves the selected vertices and everything coincident with them.
func (s *Session) Translate(delta math.Vec3) error {
	verts := s.SelectedVertices()
	if len(verts) == 0 {
		return ErrEmptySelection
	}
	if err := s.mesh.TranslateVertices(verts, delta); err != nil {
		return err
	}
	s.log.Debug("translated", zap.Int("vertices", len(verts)), zap.Any("delta", delta))
	return nil
}

// Weld moves the selected vertices to their average and merges them into one
// coincident group.
func (s *Session) Weld() error {
	verts := s.SelectedVertices()
	if len(verts) < 2 {
		return fmt.Errorf("%w: weld needs at least two vertices", ErrEmptySelection)
	}

	center := math.Average(s.mesh.Positions(), verts)
	positions := append([]math.Vec3(nil), s.mesh.Positions()...)
	for _, i := range verts {
		positions[i] = center
	}
	if err := s.mesh.SetPositions(positions); err != nil {
		return err
	}
	if err := s.mesh.MergeVertices(verts); err != nil {
		return err
	}

	s.sel.invalidate()
	s.log.Info("welded vertices", zap.Int("count", len(verts)))
	return nil
}

// DeleteSelectedFaces removes the selected faces and the vertices only they
// used. The selection is cleared.
func (s *Session) DeleteSelectedFaces() error {
	faces := s.sel.Faces()
	if len(faces) == 0 {
		return ErrEmptySelection
	}
	removed, err := s.mesh.DeleteFaces(faces...)
	if err != nil {
		return err
	}
	s.sel.Clear()
	s.log.Info("deleted faces",
		zap.Int("faces", len(faces)),
		zap.Int("vertices_removed", len(removed)))
	return nil
}

// SetSmoothingGroup assigns group to every selected face. Zero clears it.
func (s *Session) SetSmoothingGroup(group int) error {
	faces := s.sel.Faces()
	if len(faces) == 0 {
		return ErrEmptySelection
	}
	for _, f := range faces {
		f.SmoothingGroup = group
	}
	return nil
}

// SetTextureGroup assigns group to every selected face so they unwrap as one
// island. Zero clears it.
func (s *Session) SetTextureGroup(group int) error {
	faces := s.sel.Faces()
	if len(faces) == 0 {
		return ErrEmptySelection
	}
	for _, f := range faces {
		f.TextureGroup = group
		f.ManualUV = false
	}
	return nil
}

// GrowFaceSelection adds every face sharing an edge with the selection. Returns
// the number of faces added.
func (s *Session) GrowFaceSelection() (int, error) {
	if len(s.sel.faces) == 0 {
		return 0, ErrEmptySelection
	}
	wings, err := winged.Build(s.mesh, s.mesh.Faces(), false)
	if err != nil {
		return 0, err
	}

	selected := make(map[*mesh.Face]struct{}, len(s.sel.faces))
	for _, f := range s.sel.faces {
		selected[f] = struct{}{}
	}
	grown := append([]*mesh.Face(nil), s.sel.faces...)
	for _, w := range wings {
		if _, ok := selected[w.Face]; !ok || w.Opposite == nil {
			continue
		}
		nb := w.Opposite.Face
		if _, ok := selected[nb]; ok {
			continue
		}
		selected[nb] = struct{}{}
		grown = append(grown, nb)
	}

	added := len(grown) - len(s.sel.faces)
	s.sel.setFaces(grown)
	return added, nil
}

// Pick returns the face nearest to the ray origin that the ray hits in model
// space, or nil.
func (s *Session) Pick(r math.Ray) *mesh.Face {
	positions := s.mesh.Positions()
	var (
		best  *mesh.Face
		bestT float32
	)
	for _, f := range s.mesh.Faces() {
		tris := f.Indexes()
		for i := 0; i+2 < len(tris); i += 3 {
			t, hit := r.IntersectTriangle(positions[tris[i]], positions[tris[i+1]], positions[tris[i+2]])
			if hit && (best == nil || t < bestT) {
				best, bestT = f, t
			}
		}
	}
	return best
}

// MergeTriangles joins pairs of selected triangles that share an edge into
// quads. The first face of each pair keeps its settings. Returns the number of
// quads made; the selection becomes the resulting faces.
func (s *Session) MergeTriangles() (int, error) {
	faces := s.sel.Faces()
	if len(faces) < 2 {
		return 0, fmt.Errorf("%w: merging needs at least two faces", ErrEmptySelection)
	}
	wings, err := winged.Build(s.mesh, faces, false)
	if err != nil {
		return 0, err
	}

	used := make(map[*mesh.Face]struct{})
	replace := make(map[*mesh.Face]*mesh.Face)
	for _, w := range wings {
		if w.Opposite == nil {
			continue
		}
		left, right := w.Face, w.Opposite.Face
		_, lu := used[left]
		_, ru := used[right]
		if lu || ru || left == right {
			continue
		}
		q, ok := winged.MakeQuad(w, w.Opposite)
		if !ok {
			continue
		}
		quad, err := mesh.NewFace([]int{q[0], q[1], q[2], q[2], q[3], q[0]})
		if err != nil {
			return 0, err
		}
		quad.SmoothingGroup = left.SmoothingGroup
		quad.SubmeshIndex = left.SubmeshIndex
		quad.TextureGroup = left.TextureGroup
		quad.ManualUV = left.ManualUV
		quad.UV = left.UV

		used[left] = struct{}{}
		used[right] = struct{}{}
		replace[left] = quad
		replace[right] = nil
	}
	if len(used) == 0 {
		return 0, nil
	}

	out := make([]*mesh.Face, 0, s.mesh.FaceCount()-len(used)/2)
	selected := make([]*mesh.Face, 0, len(faces))
	for _, f := range s.mesh.Faces() {
		rep, ok := replace[f]
		switch {
		case !ok:
			out = append(out, f)
		case rep != nil:
			out = append(out, rep)
			selected = append(selected, rep)
		}
	}
	for _, f := range faces {
		if _, ok := used[f]; !ok {
			selected = append(selected, f)
		}
	}
	if err := s.mesh.SetFaces(out); err != nil {
		return 0, err
	}
	// Only seam vertices of the merged pairs are dropped. Unreferenced vertices
	// elsewhere in the mesh are left alone.
	if err := s.mesh.RemoveVertices(orphaned(s.mesh, used)); err != nil {
		return 0, err
	}

	quads := len(used) / 2
	s.sel.Clear()
	s.sel.setFaces(selected)
	s.log.Info("merged triangles", zap.Int("quads", quads))
	return quads, nil
}

// orphaned returns the vertices of the replaced faces that no face of m
// references any more.
func orphaned(m *mesh.Mesh, replaced map[*mesh.Face]struct{}) []int {
	candidates := make(map[int]struct{})
	for f := range replaced {
		for _, i := range f.DistinctIndexes() {
			candidates[i] = struct{}{}
		}
	}
	var out []int
	for _, i := range m.UnusedVertices() {
		if _, ok := candidates[i]; ok {
			out = append(out, i)
		}
	}
	return out
}
