// Package glbackend implements the batch sink on an OpenGL 3.3 core context.
package glbackend

import (
	"fmt"
	"strings"
	"unsafe"

	"github.com/go-gl/gl/v3.3-core/gl"
	"github.com/go-gl/mathgl/mgl32"

	"github.com/emberline/ember/engine/colors"
	"github.com/emberline/ember/engine/gfx/batch"
)

// one VAO plus position/texcoord/normal/color VBOs and the static index
// buffer, per batch buffer in rotation
type bufferObjects struct {
	vao  uint32
	vbos [4]uint32
	ibo  uint32
}

type Sink struct {
	program uint32
	buffers []bufferObjects
	mvpLoc  int32
	texLoc  int32
	mvp     mgl32.Mat4
	white   uint32
	current int
}

// New allocates GPU-side storage mirroring a batch built with cfg. Must run
// on the thread owning the GL context.
func New(cfg batch.Config) (*Sink, error) {
	if cfg.Buffers <= 0 {
		cfg.Buffers = 1
	}
	if cfg.Elements <= 0 {
		cfg.Elements = 8192
	}

	program, err := makeProgram(vertexSource, fragmentSource)
	if err != nil {
		return nil, err
	}

	s := &Sink{
		program: program,
		buffers: make([]bufferObjects, cfg.Buffers),
		mvpLoc:  gl.GetUniformLocation(program, gl.Str("uMVP\x00")),
		texLoc:  gl.GetUniformLocation(program, gl.Str("uTexture\x00")),
		mvp:     mgl32.Ident4(),
	}

	indices := batch.QuadIndices(cfg.Elements)
	vertexCap := cfg.Elements * 4

	for i := range s.buffers {
		bo := &s.buffers[i]
		gl.GenVertexArrays(1, &bo.vao)
		gl.BindVertexArray(bo.vao)

		sizes := [4]int{3, 2, 3, 4}
		for loc, size := range sizes {
			gl.GenBuffers(1, &bo.vbos[loc])
			gl.BindBuffer(gl.ARRAY_BUFFER, bo.vbos[loc])
			if loc == 3 {
				gl.BufferData(gl.ARRAY_BUFFER, vertexCap*size, nil, gl.DYNAMIC_DRAW)
				gl.VertexAttribPointerWithOffset(uint32(loc), int32(size), gl.UNSIGNED_BYTE, true, 0, 0)
			} else {
				gl.BufferData(gl.ARRAY_BUFFER, vertexCap*size*4, nil, gl.DYNAMIC_DRAW)
				gl.VertexAttribPointerWithOffset(uint32(loc), int32(size), gl.FLOAT, false, 0, 0)
			}
			gl.EnableVertexAttribArray(uint32(loc))
		}

		gl.GenBuffers(1, &bo.ibo)
		gl.BindBuffer(gl.ELEMENT_ARRAY_BUFFER, bo.ibo)
		gl.BufferData(gl.ELEMENT_ARRAY_BUFFER, len(indices)*4, gl.Ptr(indices), gl.STATIC_DRAW)
	}
	gl.BindVertexArray(0)

	// 1x1 white fallback for draw calls with no texture bound
	whitePix := []byte{255, 255, 255, 255}
	gl.GenTextures(1, &s.white)
	gl.BindTexture(gl.TEXTURE_2D, s.white)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_MIN_FILTER, gl.NEAREST)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_MAG_FILTER, gl.NEAREST)
	gl.TexImage2D(gl.TEXTURE_2D, 0, gl.RGBA8, 1, 1, 0, gl.RGBA, gl.UNSIGNED_BYTE, gl.Ptr(whitePix))

	gl.Enable(gl.BLEND)
	gl.BlendFunc(gl.SRC_ALPHA, gl.ONE_MINUS_SRC_ALPHA)

	return s, nil
}

// SetMVP sets the matrix uploaded before each flush.
func (s *Sink) SetMVP(m mgl32.Mat4) { s.mvp = m }

// Clear wipes the color buffer.
func (s *Sink) Clear(c colors.Color) {
	gl.ClearColor(c[0], c[1], c[2], c[3])
	gl.Clear(gl.COLOR_BUFFER_BIT)
}

// Resize updates the viewport.
func (s *Sink) Resize(w, h int) {
	gl.Viewport(0, 0, int32(w), int32(h))
}

// CreateTexture uploads tightly packed RGBA8 pixels and returns the id.
func (s *Sink) CreateTexture(w, h int, pixels []byte) (batch.TextureID, error) {
	if len(pixels) != w*h*4 {
		return 0, fmt.Errorf("glbackend: pixel data is %d bytes, want %d", len(pixels), w*h*4)
	}
	var id uint32
	gl.GenTextures(1, &id)
	gl.BindTexture(gl.TEXTURE_2D, id)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_MIN_FILTER, gl.LINEAR)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_MAG_FILTER, gl.NEAREST)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_WRAP_S, gl.CLAMP_TO_EDGE)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_WRAP_T, gl.CLAMP_TO_EDGE)
	gl.TexImage2D(gl.TEXTURE_2D, 0, gl.RGBA8, int32(w), int32(h), 0, gl.RGBA, gl.UNSIGNED_BYTE, gl.Ptr(pixels))
	return batch.TextureID(id), nil
}

// Shutdown releases GPU resources.
func (s *Sink) Shutdown() {
	for i := range s.buffers {
		bo := &s.buffers[i]
		gl.DeleteBuffers(4, &bo.vbos[0])
		gl.DeleteBuffers(1, &bo.ibo)
		gl.DeleteVertexArrays(1, &bo.vao)
	}
	if s.white != 0 {
		gl.DeleteTextures(1, &s.white)
	}
	if s.program != 0 {
		gl.DeleteProgram(s.program)
	}
}

// --- batch.Sink ---

func (s *Sink) UploadVertices(buffer, count int, pos, tex, nor []float32, col []uint8) {
	s.current = buffer
	bo := &s.buffers[buffer]
	gl.BindVertexArray(bo.vao)

	gl.BindBuffer(gl.ARRAY_BUFFER, bo.vbos[0])
	gl.BufferSubData(gl.ARRAY_BUFFER, 0, count*3*4, gl.Ptr(pos))
	gl.BindBuffer(gl.ARRAY_BUFFER, bo.vbos[1])
	gl.BufferSubData(gl.ARRAY_BUFFER, 0, count*2*4, gl.Ptr(tex))
	gl.BindBuffer(gl.ARRAY_BUFFER, bo.vbos[2])
	gl.BufferSubData(gl.ARRAY_BUFFER, 0, count*3*4, gl.Ptr(nor))
	gl.BindBuffer(gl.ARRAY_BUFFER, bo.vbos[3])
	gl.BufferSubData(gl.ARRAY_BUFFER, 0, count*4, gl.Ptr(col))

	gl.UseProgram(s.program)
	mvp := s.mvp
	gl.UniformMatrix4fv(s.mvpLoc, 1, false, &mvp[0])
	gl.Uniform1i(s.texLoc, 0)
	gl.ActiveTexture(gl.TEXTURE0)
}

func (s *Sink) BindTexture(id batch.TextureID) {
	if id == 0 {
		gl.BindTexture(gl.TEXTURE_2D, s.white)
		return
	}
	gl.BindTexture(gl.TEXTURE_2D, uint32(id))
}

func (s *Sink) SubmitDraw(t batch.Topology, vertexOffset, vertexCount int) {
	gl.DrawArrays(glMode(t), int32(vertexOffset), int32(vertexCount))
}

func (s *Sink) SubmitIndexedDraw(_ batch.Topology, indexOffset, indexCount int) {
	gl.DrawElementsWithOffset(gl.TRIANGLES, int32(indexCount), gl.UNSIGNED_INT, uintptr(indexOffset)*unsafe.Sizeof(uint32(0)))
}

func glMode(t batch.Topology) uint32 {
	if t == batch.Lines {
		return gl.LINES
	}
	return gl.TRIANGLES
}

// --- Shader utilities ---

const vertexSource = `
#version 330 core
layout(location=0) in vec3 aPos;
layout(location=1) in vec2 aUV;
layout(location=2) in vec3 aNormal;
layout(location=3) in vec4 aColor;
uniform mat4 uMVP;
out vec2 vUV;
out vec4 vColor;
void main() {
    vUV = aUV;
    vColor = aColor;
    gl_Position = uMVP * vec4(aPos, 1.0);
}
` + "\x00"

const fragmentSource = `
#version 330 core
in vec2 vUV;
in vec4 vColor;
uniform sampler2D uTexture;
out vec4 FragColor;
void main() {
    FragColor = texture(uTexture, vUV) * vColor;
}
` + "\x00"

func makeShader(src string, shaderType uint32) (uint32, error) {
	sh := gl.CreateShader(shaderType)
	csrc, free := gl.Strs(src)
	defer free()
	gl.ShaderSource(sh, 1, csrc, nil)
	gl.CompileShader(sh)

	var status int32
	gl.GetShaderiv(sh, gl.COMPILE_STATUS, &status)
	if status == gl.FALSE {
		var logLen int32
		gl.GetShaderiv(sh, gl.INFO_LOG_LENGTH, &logLen)
		log := strings.Repeat("\x00", int(logLen))
		gl.GetShaderInfoLog(sh, logLen, nil, gl.Str(log))
		return 0, fmt.Errorf("shader compile error: %s", log)
	}
	return sh, nil
}

func makeProgram(vsSrc, fsSrc string) (uint32, error) {
	vs, err := makeShader(vsSrc, gl.VERTEX_SHADER)
	if err != nil {
		return 0, err
	}
	fs, err := makeShader(fsSrc, gl.FRAGMENT_SHADER)
	if err != nil {
		gl.DeleteShader(vs)
		return 0, err
	}
	prog := gl.CreateProgram()
	gl.AttachShader(prog, vs)
	gl.AttachShader(prog, fs)
	gl.LinkProgram(prog)

	var status int32
	gl.GetProgramiv(prog, gl.LINK_STATUS, &status)
	gl.DeleteShader(vs)
	gl.DeleteShader(fs)

	if status == gl.FALSE {
		var logLen int32
		gl.GetProgramiv(prog, gl.INFO_LOG_LENGTH, &logLen)
		log := strings.Repeat("\x00", int(logLen))
		gl.GetProgramInfoLog(prog, logLen, nil, gl.Str(log))
		return 0, fmt.Errorf("program link error: %s", log)
	}
	return prog, nil
}
