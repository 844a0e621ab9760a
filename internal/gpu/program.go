package gpu

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-gl/gl/v4.1-core/gl"
	"github.com/go-gl/mathgl/mgl32"
)

// ErrShader is returned when the preview program fails to compile or link.
var ErrShader = errors.New("gpu: shader")

// Attribute locations match LocPosition, LocNormal and LocUV.
const previewVertex = `#version 410 core
layout (location = 0) in vec3 position;
layout (location = 1) in vec3 normal;
layout (location = 2) in vec2 uv;

uniform mat4 mvp;
uniform mat4 model;

out vec3 worldNormal;
out vec2 texcoord;

void main() {
	worldNormal = mat3(model) * normal;
	texcoord = uv;
	gl_Position = mvp * vec4(position, 1.0);
}
`

// Faces are tinted by submesh and shaded with a UV checker so seams and island
// scale are visible without a texture.
const previewFragment = `#version 410 core
in vec3 worldNormal;
in vec2 texcoord;

uniform vec3 lightDir;
uniform vec3 tint;

out vec4 color;

void main() {
	vec3 n = normalize(worldNormal);
	float lambert = max(dot(n, -lightDir), 0.0);
	float sky = 0.5 + 0.5 * n.y;
	vec2 cell = floor(texcoord * 8.0);
	float checker = mix(0.7, 1.0, mod(cell.x + cell.y, 2.0));
	color = vec4(tint * checker * (0.25 * sky + 0.75 * lambert), 1.0);
}
`

// submeshTints cycles per submesh index.
var submeshTints = []mgl32.Vec3{
	{0.85, 0.85, 0.85},
	{0.95, 0.55, 0.35},
	{0.40, 0.70, 0.95},
	{0.55, 0.90, 0.45},
	{0.90, 0.80, 0.35},
	{0.75, 0.50, 0.90},
}

// TintFor returns the preview color for a submesh index.
func TintFor(submesh int) mgl32.Vec3 {
	if submesh < 0 {
		submesh = 0
	}
	return submeshTints[submesh%len(submeshTints)]
}

// program is the linked preview shader and its uniform locations.
type program struct {
	id       uint32
	mvp      int32
	model    int32
	lightDir int32
	tint     int32
}

type stage struct {
	kind uint32
	name string
	src  string
}

func newPreviewProgram() (*program, error) {
	id, err := link(
		stage{gl.VERTEX_SHADER, "vertex", previewVertex},
		stage{gl.FRAGMENT_SHADER, "fragment", previewFragment},
	)
	if err != nil {
		return nil, err
	}
	p := &program{id: id}
	for name, loc := range map[string]*int32{
		"mvp":      &p.mvp,
		"model":    &p.model,
		"lightDir": &p.lightDir,
		"tint":     &p.tint,
	} {
		*loc = gl.GetUniformLocation(id, gl.Str(name+"\x00"))
	}
	return p, nil
}

func link(stages ...stage) (uint32, error) {
	id := gl.CreateProgram()
	shaders := make([]uint32, 0, len(stages))
	defer func() {
		for _, s := range shaders {
			gl.DetachShader(id, s)
			gl.DeleteShader(s)
		}
	}()

	for _, st := range stages {
		s := gl.CreateShader(st.kind)
		shaders = append(shaders, s)
		src, free := gl.Strs(st.src + "\x00")
		gl.ShaderSource(s, 1, src, nil)
		free()
		gl.CompileShader(s)

		var ok int32
		gl.GetShaderiv(s, gl.COMPILE_STATUS, &ok)
		if ok == gl.FALSE {
			gl.DeleteProgram(id)
			return 0, fmt.Errorf("%w: %s stage: %s", ErrShader, st.name, infoLog(s, gl.GetShaderiv, gl.GetShaderInfoLog))
		}
		gl.AttachShader(id, s)
	}

	gl.LinkProgram(id)
	var ok int32
	gl.GetProgramiv(id, gl.LINK_STATUS, &ok)
	if ok == gl.FALSE {
		msg := infoLog(id, gl.GetProgramiv, gl.GetProgramInfoLog)
		gl.DeleteProgram(id)
		return 0, fmt.Errorf("%w: link: %s", ErrShader, msg)
	}
	return id, nil
}

// infoLog reads a shader or program log through the matching query pair.
func infoLog(obj uint32, param func(uint32, uint32, *int32), read func(uint32, int32, *int32, *uint8)) string {
	var n int32
	param(obj, gl.INFO_LOG_LENGTH, &n)
	if n <= 0 {
		return "(no log)"
	}
	buf := make([]byte, n)
	read(obj, n, nil, &buf[0])
	return strings.TrimRight(string(buf), "\x00\n")
}

func (p *program) use(mvp, model mgl32.Mat4, lightDir mgl32.Vec3) {
	gl.UseProgram(p.id)
	gl.UniformMatrix4fv(p.mvp, 1, false, &mvp[0])
	gl.UniformMatrix4fv(p.model, 1, false, &model[0])
	gl.Uniform3fv(p.lightDir, 1, &lightDir[0])
}

func (p *program) setTint(c mgl32.Vec3) {
	gl.Uniform3fv(p.tint, 1, &c[0])
}

func (p *program) delete() {
	if p.id != 0 {
		gl.DeleteProgram(p.id)
		p.id = 0
	}
}
