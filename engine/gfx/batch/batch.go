package batch

import (
	"fmt"

	"github.com/go-gl/mathgl/mgl32"
)

const (
	defaultBuffers   = 1
	defaultElements  = 8192
	defaultMaxDraws  = 256
	defaultDepthStep = 1.0 / 20000.0

	// initialDepth matches an ortho projection with near=-1.
	initialDepth = -1.0
)

// Config sizes a Batch. Zero values select the defaults.
type Config struct {
	Buffers  int // vertex buffers kept in rotation
	Elements int // capacity per buffer, in quads (4 vertices each)
	MaxDraws int // draw-call table size before a forced flush
	// DepthStep is the synthetic depth increment applied by End, used only
	// for stable 2D layering.
	DepthStep float32
	// DefaultTexture is bound to fresh draw calls (usually a 1x1 white).
	DefaultTexture TextureID
}

func (c *Config) fillDefaults() {
	if c.Buffers <= 0 {
		c.Buffers = defaultBuffers
	}
	if c.Elements <= 0 {
		c.Elements = defaultElements
	}
	if c.MaxDraws <= 0 {
		c.MaxDraws = defaultMaxDraws
	}
	if c.DepthStep <= 0 {
		c.DepthStep = defaultDepthStep
	}
}

// DrawCall is one contiguous run of vertices sharing topology and texture.
type DrawCall struct {
	Topology    Topology
	VertexCount int
	// Alignment counts padding vertices appended when the call was closed;
	// they advance the cursor but are never rendered.
	Alignment int
	Texture   TextureID
}

type vertexBuffer struct {
	positions []float32 // 3 per vertex
	texcoords []float32 // 2 per vertex
	normals   []float32 // 3 per vertex
	colors    []uint8   // 4 per vertex
}

// Stats accumulates per-frame counters, reset by ResetStats.
type Stats struct {
	Flushes   int
	DrawCalls int
	Vertices  int
}

// Batch accumulates vertex emissions into draw calls keyed by (topology,
// texture) and flushes them to the sink in emission order. All methods must
// be called from the single frame-loop goroutine.
type Batch struct {
	sink Sink

	buffers  []vertexBuffer
	current  int
	elements int

	draws     []DrawCall
	drawCount int

	vertexCount int

	depth     float32
	depthStep float32

	// latched attribute state applied to every emitted vertex
	u, v           float32
	nx, ny, nz     float32
	cr, cg, cb, ca uint8

	transform         mgl32.Mat4
	transformRequired bool
	stack             []mgl32.Mat4

	defaultTexture TextureID
	stats          Stats
}

// New creates a batch bound to sink. Construction is the only failing
// operation; every later overflow is absorbed by auto-flush.
func New(sink Sink, cfg Config) (*Batch, error) {
	if sink == nil {
		return nil, fmt.Errorf("batch: nil sink")
	}
	cfg.fillDefaults()

	b := &Batch{
		sink:           sink,
		buffers:        make([]vertexBuffer, cfg.Buffers),
		elements:       cfg.Elements,
		draws:          make([]DrawCall, cfg.MaxDraws),
		depth:          initialDepth,
		depthStep:      cfg.DepthStep,
		nz:             1,
		cr:             255,
		cg:             255,
		cb:             255,
		ca:             255,
		transform:      mgl32.Ident4(),
		defaultTexture: cfg.DefaultTexture,
	}
	for i := range b.buffers {
		b.buffers[i] = vertexBuffer{
			positions: make([]float32, cfg.Elements*4*3),
			texcoords: make([]float32, cfg.Elements*4*2),
			normals:   make([]float32, cfg.Elements*4*3),
			colors:    make([]uint8, cfg.Elements*4*4),
		}
	}
	b.resetDraws()
	b.drawCount = 1
	return b, nil
}

// Capacity returns the vertex capacity of one buffer.
func (b *Batch) Capacity() int { return b.elements * 4 }

// Pending returns the number of vertices accumulated since the last flush.
func (b *Batch) Pending() int { return b.vertexCount }

// CurrentBuffer returns the index of the buffer being filled.
func (b *Batch) CurrentBuffer() int { return b.current }

// Depth returns the current synthetic depth value.
func (b *Batch) Depth() float32 { return b.depth }

// Stats returns the counters accumulated since the last ResetStats.
func (b *Batch) Stats() Stats { return b.stats }

// ResetStats clears the frame counters.
func (b *Batch) ResetStats() { b.stats = Stats{} }

// Begin declares the primitive topology for subsequent vertices. A topology
// change closes the active draw call, padding it to its alignment boundary
// so no primitive is ever split across draw calls.
func (b *Batch) Begin(t Topology) {
	d := &b.draws[b.drawCount-1]
	if d.Topology == t {
		return
	}
	if d.VertexCount > 0 {
		b.closeDraw()
	}
	if b.drawCount >= len(b.draws) {
		b.Flush()
	}
	d = &b.draws[b.drawCount-1]
	d.Topology = t
	d.VertexCount = 0
	d.Texture = b.defaultTexture
}

// End closes the current primitive group and advances the synthetic depth
// used for stable 2D layering. It never flushes.
func (b *Batch) End() {
	b.depth += b.depthStep
}

// TexCoord latches the texture coordinate applied to following vertices.
func (b *Batch) TexCoord(u, v float32) {
	b.u, b.v = u, v
}

// Normal latches the (normalized) vertex normal, transformed if a matrix is
// active.
func (b *Batch) Normal(x, y, z float32) {
	if b.transformRequired {
		n := b.transform.Mat3().Mul3x1(mgl32.Vec3{x, y, z})
		x, y, z = n[0], n[1], n[2]
	}
	if l := (mgl32.Vec3{x, y, z}).Len(); l != 0 {
		x, y, z = x/l, y/l, z/l
	}
	b.nx, b.ny, b.nz = x, y, z
}

// Color4ub latches the vertex color.
func (b *Batch) Color4ub(r, g, bl, a uint8) {
	b.cr, b.cg, b.cb, b.ca = r, g, bl, a
}

// ColorF latches the vertex color from normalized floats.
func (b *Batch) ColorF(r, g, bl, a float32) {
	b.Color4ub(uint8(r*255), uint8(g*255), uint8(bl*255), uint8(a*255))
}

// Vertex2 appends a vertex at the current synthetic depth.
func (b *Batch) Vertex2(x, y float32) {
	b.Vertex3(x, y, b.depth)
}

// Vertex3 appends one vertex carrying the latched texcoord/normal/color. If
// the buffer is near capacity and the active primitive is complete, the
// batch flushes and continues transparently; a primitive is never split
// across buffer rotations.
func (b *Batch) Vertex3(x, y, z float32) {
	tx, ty, tz := x, y, z
	if b.transformRequired {
		out := b.transform.Mul4x1(mgl32.Vec4{x, y, z, 1})
		tx, ty, tz = out[0], out[1], out[2]
	}

	d := &b.draws[b.drawCount-1]
	if b.vertexCount > b.Capacity()-4 {
		stride := d.Topology.primitiveStride()
		if d.VertexCount%stride == 0 {
			b.CheckLimit(stride + 1)
			d = &b.draws[b.drawCount-1]
		}
	}

	buf := &b.buffers[b.current]
	i := b.vertexCount
	buf.positions[3*i] = tx
	buf.positions[3*i+1] = ty
	buf.positions[3*i+2] = tz
	buf.texcoords[2*i] = b.u
	buf.texcoords[2*i+1] = b.v
	buf.normals[3*i] = b.nx
	buf.normals[3*i+1] = b.ny
	buf.normals[3*i+2] = b.nz
	buf.colors[4*i] = b.cr
	buf.colors[4*i+1] = b.cg
	buf.colors[4*i+2] = b.cb
	buf.colors[4*i+3] = b.ca

	b.vertexCount++
	d.VertexCount++
	b.stats.Vertices++
}

// SetTexture binds a texture for subsequent vertices. Switching textures
// closes the active draw call with alignment padding; id zero leaves the
// binding alone but flushes a saturated buffer.
func (b *Batch) SetTexture(id TextureID) {
	if id == 0 {
		if b.vertexCount >= b.Capacity() {
			b.Flush()
		}
		return
	}
	d := &b.draws[b.drawCount-1]
	if d.Texture == id {
		return
	}
	if d.VertexCount > 0 {
		b.closeDraw()
	}
	if b.drawCount >= len(b.draws) {
		b.Flush()
	}
	d = &b.draws[b.drawCount-1]
	d.Texture = id
	d.VertexCount = 0
}

// ResetTexture closes the active draw call if a non-default texture is
// bound, so following vertices render untextured instead of inheriting the
// previous binding.
func (b *Batch) ResetTexture() {
	d := &b.draws[b.drawCount-1]
	if d.Texture == b.defaultTexture {
		return
	}
	if d.VertexCount > 0 {
		b.closeDraw()
	}
	if b.drawCount >= len(b.draws) {
		b.Flush()
	}
	d = &b.draws[b.drawCount-1]
	d.Texture = b.defaultTexture
	d.VertexCount = 0
}

// CheckLimit reports whether appending count vertices would overflow the
// buffer, flushing first when it would. The active topology and texture
// carry over so accumulation continues seamlessly.
func (b *Batch) CheckLimit(count int) bool {
	if b.vertexCount+count < b.Capacity() {
		return false
	}
	d := b.draws[b.drawCount-1]
	b.Flush()
	b.draws[b.drawCount-1].Topology = d.Topology
	b.draws[b.drawCount-1].Texture = d.Texture
	return true
}

// Flush uploads the live vertex prefix, replays the draw-call table in
// emission order, resets all counters and rotates to the next buffer. With
// no pending vertices it is a no-op.
func (b *Batch) Flush() {
	if b.vertexCount == 0 {
		return
	}

	buf := &b.buffers[b.current]
	n := b.vertexCount
	b.sink.UploadVertices(b.current, n,
		buf.positions[:3*n], buf.texcoords[:2*n], buf.normals[:3*n], buf.colors[:4*n])

	offset := 0
	for i := 0; i < b.drawCount; i++ {
		d := b.draws[i]
		if d.VertexCount > 0 {
			b.sink.BindTexture(d.Texture)
			if d.Topology == Quads {
				b.sink.SubmitIndexedDraw(d.Topology, offset/4*6, d.VertexCount/4*6)
			} else {
				b.sink.SubmitDraw(d.Topology, offset, d.VertexCount)
			}
			b.stats.DrawCalls++
		}
		offset += d.VertexCount + d.Alignment
	}
	b.stats.Flushes++

	b.vertexCount = 0
	b.depth = initialDepth
	b.resetDraws()
	b.drawCount = 1

	b.current++
	if b.current >= len(b.buffers) {
		b.current = 0
	}
}

// closeDraw pads the active draw call to its alignment boundary and opens
// the next table entry.
func (b *Batch) closeDraw() {
	d := &b.draws[b.drawCount-1]
	d.Alignment = alignment(d.Topology, d.VertexCount)
	if !b.CheckLimit(d.Alignment) {
		b.vertexCount += d.Alignment
		b.drawCount++
	}
}

func (b *Batch) resetDraws() {
	for i := range b.draws {
		b.draws[i] = DrawCall{Topology: Quads, Texture: b.defaultTexture}
	}
}

// Calls returns a copy of the live draw-call table, for inspection.
func (b *Batch) Calls() []DrawCall {
	out := make([]DrawCall, b.drawCount)
	copy(out, b.draws[:b.drawCount])
	return out
}
