package gpu

import (
	"fmt"
	"unsafe"

	"github.com/go-gl/gl/v4.1-core/gl"
	"github.com/go-gl/mathgl/mgl32"
	"go.uber.org/zap"

	"github.com/Faultbox/meshtopo/pkg/mesh"
)

// drawCall is one uploaded submesh.
type drawCall struct {
	submesh    int
	ebo        uint32
	indexCount int32
}

// Uploader keeps a mesh resident on the GPU and redraws it. It implements
// editor.Sink. All methods need a current OpenGL 4.1 core context on the
// calling thread.
type Uploader struct {
	log *zap.Logger

	prog *program

	vao   uint32
	vbo   uint32
	draws []drawCall
	model mgl32.Mat4
}

// NewUploader loads OpenGL entry points and compiles the preview shader.
func NewUploader(log *zap.Logger) (*Uploader, error) {
	if log == nil {
		log = zap.NewNop()
	}
	if err := gl.Init(); err != nil {
		return nil, fmt.Errorf("failed to initialize OpenGL: %w", err)
	}
	log.Info("OpenGL initialized",
		zap.String("version", gl.GoStr(gl.GetString(gl.VERSION))),
		zap.String("renderer", gl.GoStr(gl.GetString(gl.RENDERER))),
	)

	prog, err := newPreviewProgram()
	if err != nil {
		return nil, fmt.Errorf("failed to create shader program: %w", err)
	}

	u := &Uploader{
		log:   log,
		prog:  prog,
		model: mgl32.Ident4(),
	}
	gl.GenVertexArrays(1, &u.vao)
	gl.GenBuffers(1, &u.vbo)
	return u, nil
}

// Submit replaces the GPU copy of m with its interleaved vertices and one index
// buffer per submesh.
func (u *Uploader) Submit(m *mesh.Mesh, submeshes []mesh.Submesh) error {
	indexes := make([][]uint32, len(submeshes))
	for i, s := range submeshes {
		idx, err := DrawIndexes(s)
		if err != nil {
			return err
		}
		indexes[i] = idx
	}

	vertices, layout := Interleave(m)

	gl.BindVertexArray(u.vao)
	gl.BindBuffer(gl.ARRAY_BUFFER, u.vbo)
	if len(vertices) > 0 {
		gl.BufferData(gl.ARRAY_BUFFER, len(vertices)*floatSize, unsafe.Pointer(&vertices[0]), gl.DYNAMIC_DRAW)
	} else {
		gl.BufferData(gl.ARRAY_BUFFER, 0, nil, gl.DYNAMIC_DRAW)
	}

	gl.VertexAttribPointerWithOffset(LocPosition, 3, gl.FLOAT, false, layout.Stride, layout.PositionOffset)
	gl.EnableVertexAttribArray(LocPosition)
	gl.VertexAttribPointerWithOffset(LocNormal, 3, gl.FLOAT, false, layout.Stride, layout.NormalOffset)
	gl.EnableVertexAttribArray(LocNormal)
	gl.VertexAttribPointerWithOffset(LocUV, 2, gl.FLOAT, false, layout.Stride, layout.UVOffset)
	gl.EnableVertexAttribArray(LocUV)
	gl.BindVertexArray(0)
	gl.BindBuffer(gl.ARRAY_BUFFER, 0)

	u.releaseIndexBuffers()
	for i, idx := range indexes {
		if len(idx) == 0 {
			continue
		}
		dc := drawCall{submesh: submeshes[i].Index, indexCount: int32(len(idx))}
		gl.GenBuffers(1, &dc.ebo)
		gl.BindBuffer(gl.ELEMENT_ARRAY_BUFFER, dc.ebo)
		gl.BufferData(gl.ELEMENT_ARRAY_BUFFER, len(idx)*4, unsafe.Pointer(&idx[0]), gl.DYNAMIC_DRAW)
		u.draws = append(u.draws, dc)
	}
	gl.BindBuffer(gl.ELEMENT_ARRAY_BUFFER, 0)

	u.model = m.Transform
	u.log.Debug("mesh uploaded",
		zap.Int("vertices", m.VertexCount()),
		zap.Int("submeshes", len(u.draws)),
		zap.Uint32("vao", u.vao),
	)
	return nil
}

// BeginFrame sets the viewport to the drawable size and clears color and depth.
func BeginFrame(width, height int32) {
	gl.Viewport(0, 0, width, height)
	gl.Enable(gl.DEPTH_TEST)
	gl.ClearColor(0.12, 0.13, 0.15, 1)
	gl.Clear(gl.COLOR_BUFFER_BIT | gl.DEPTH_BUFFER_BIT)
}

// Draw renders every uploaded submesh with viewProj and a directional light.
func (u *Uploader) Draw(viewProj mgl32.Mat4, lightDir mgl32.Vec3) {
	if len(u.draws) == 0 {
		return
	}
	u.prog.use(viewProj.Mul4(u.model), u.model, lightDir.Normalize())

	gl.BindVertexArray(u.vao)
	for _, dc := range u.draws {
		u.prog.setTint(TintFor(dc.submesh))
		// Element buffer binding is VAO state, so bind per draw.
		gl.BindBuffer(gl.ELEMENT_ARRAY_BUFFER, dc.ebo)
		gl.DrawElements(gl.TRIANGLES, dc.indexCount, gl.UNSIGNED_INT, nil)
	}
	gl.BindVertexArray(0)
}

func (u *Uploader) releaseIndexBuffers() {
	for i := range u.draws {
		gl.DeleteBuffers(1, &u.draws[i].ebo)
	}
	u.draws = u.draws[:0]
}

// Close frees all GPU resources.
func (u *Uploader) Close() {
	u.log.Info("closing uploader")
	u.releaseIndexBuffers()
	if u.vbo != 0 {
		gl.DeleteBuffers(1, &u.vbo)
	}
	if u.vao != 0 {
		gl.DeleteVertexArrays(1, &u.vao)
	}
	u.prog.delete()
}
