package batch

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type upload struct {
	buffer, count int
	positions     []float32
	texcoords     []float32
	normals       []float32
	colors        []uint8
}

type submission struct {
	topo          Topology
	indexed       bool
	offset, count int
}

// recorder captures every sink call for inspection.
type recorder struct {
	uploads     []upload
	binds       []TextureID
	submissions []submission
}

func (r *recorder) UploadVertices(buffer, count int, pos, tex, nor []float32, col []uint8) {
	r.uploads = append(r.uploads, upload{
		buffer:    buffer,
		count:     count,
		positions: append([]float32(nil), pos...),
		texcoords: append([]float32(nil), tex...),
		normals:   append([]float32(nil), nor...),
		colors:    append([]uint8(nil), col...),
	})
}

func (r *recorder) BindTexture(id TextureID) { r.binds = append(r.binds, id) }

func (r *recorder) SubmitDraw(t Topology, off, count int) {
	r.submissions = append(r.submissions, submission{topo: t, offset: off, count: count})
}

func (r *recorder) SubmitIndexedDraw(t Topology, off, count int) {
	r.submissions = append(r.submissions, submission{topo: t, indexed: true, offset: off, count: count})
}

func newTestBatch(t *testing.T, cfg Config) (*Batch, *recorder) {
	t.Helper()
	rec := &recorder{}
	b, err := New(rec, cfg)
	require.NoError(t, err)
	return b, rec
}

func emitQuad(b *Batch, x float32) {
	b.Begin(Quads)
	b.Vertex2(x, 0)
	b.Vertex2(x, 1)
	b.Vertex2(x+1, 1)
	b.Vertex2(x+1, 0)
	b.End()
}

func TestNewRejectsNilSink(t *testing.T) {
	_, err := New(nil, Config{})
	assert.Error(t, err)
}

func TestFlushIdempotentWhenEmpty(t *testing.T) {
	b, rec := newTestBatch(t, Config{Buffers: 2, Elements: 16})

	b.Flush()
	b.Flush()

	assert.Empty(t, rec.uploads)
	assert.Empty(t, rec.submissions)
	assert.Zero(t, b.Pending())
	assert.Zero(t, b.CurrentBuffer(), "empty flush must not rotate buffers")
	assert.Zero(t, b.Stats().Flushes)
}

func TestPrimitiveIntegrityWithAlignment(t *testing.T) {
	b, rec := newTestBatch(t, Config{Elements: 64})

	b.Begin(Lines)
	for i := 0; i < 6; i++ {
		b.Vertex2(float32(i), 0)
	}
	b.End()

	b.Begin(Triangles)
	for i := 0; i < 3; i++ {
		b.Vertex2(float32(i), 1)
	}
	b.End()

	emitQuad(b, 0)
	b.Flush()

	require.Len(t, rec.submissions, 3)

	lines := rec.submissions[0]
	assert.Equal(t, Lines, lines.topo)
	assert.Zero(t, lines.count%2, "line draws stay even")
	assert.Equal(t, 6, lines.count)
	assert.Equal(t, 0, lines.offset)

	tris := rec.submissions[1]
	assert.Equal(t, Triangles, tris.topo)
	assert.Zero(t, tris.count%3, "triangle draws stay multiples of 3")
	// lines padded 6 -> 8 before the triangle run starts
	assert.Equal(t, 8, tris.offset)

	quads := rec.submissions[2]
	assert.True(t, quads.indexed)
	// triangles padded 3 -> 4, so quads start at vertex 12 = index 18
	assert.Equal(t, 12/4*6, quads.offset)
	assert.Equal(t, 6, quads.count)
}

func TestCapacityRoundTrip(t *testing.T) {
	b, rec := newTestBatch(t, Config{Elements: 4})
	cap4 := b.Capacity()
	require.Equal(t, 16, cap4)

	for i := 0; i < cap4/4; i++ {
		emitQuad(b, float32(i))
	}
	assert.Equal(t, cap4, b.Pending())
	assert.Zero(t, b.Stats().Flushes, "exactly full is not yet overflow")

	// One more vertex forces exactly one flush and survives into the fresh
	// batch alone.
	b.Begin(Quads)
	b.Vertex2(99, 99)

	assert.Equal(t, 1, b.Stats().Flushes)
	assert.Equal(t, 1, b.Pending())
	require.Len(t, rec.uploads, 1)
	assert.Equal(t, cap4, rec.uploads[0].count)
}

func TestOrderPreservation(t *testing.T) {
	b, rec := newTestBatch(t, Config{Elements: 64})

	textures := []TextureID{7, 3, 7, 12}
	for run, tex := range textures {
		b.SetTexture(tex)
		emitQuad(b, float32(run*10))
	}
	b.Flush()

	require.Len(t, rec.submissions, len(textures))
	assert.Equal(t, textures, rec.binds, "texture binds replay in emission order")

	// Quads carry no alignment padding, so the vertex ranges concatenate
	// back into the exact emission sequence.
	offset := 0
	require.Len(t, rec.uploads, 1)
	for run, sub := range rec.submissions {
		assert.True(t, sub.indexed)
		assert.Equal(t, offset/4*6, sub.offset)
		assert.Equal(t, 6, sub.count)
		x := rec.uploads[0].positions[3*offset]
		assert.Equal(t, float32(run*10), x)
		offset += 4
	}
}

func TestQuadBatchWithTextureSwap(t *testing.T) {
	b, rec := newTestBatch(t, Config{Elements: 64})

	const texA, texB = TextureID(1), TextureID(2)

	b.SetTexture(texA)
	emitQuad(b, 0)
	b.SetTexture(texB)
	emitQuad(b, 1)
	b.Flush()

	require.Len(t, rec.submissions, 2)
	require.Len(t, rec.binds, 2)
	assert.Equal(t, []TextureID{texA, texB}, rec.binds)

	// vertex cursor advances 0 -> 4 -> 8
	assert.Equal(t, 0, rec.submissions[0].offset)
	assert.Equal(t, 6, rec.submissions[0].count)
	assert.Equal(t, 4/4*6, rec.submissions[1].offset)
	assert.Equal(t, 6, rec.submissions[1].count)
	assert.Equal(t, 8, rec.uploads[0].count)
}

func TestDrawTableExhaustionFlushes(t *testing.T) {
	b, rec := newTestBatch(t, Config{Elements: 64, MaxDraws: 2})

	for i := 0; i < 4; i++ {
		b.SetTexture(TextureID(i + 1))
		emitQuad(b, float32(i))
	}
	assert.GreaterOrEqual(t, b.Stats().Flushes, 1, "table exhaustion forces a flush")

	b.Flush()
	total := 0
	for _, u := range rec.uploads {
		total += u.count
	}
	assert.Equal(t, 16, total, "no vertex lost across forced flushes")
}

func TestBufferRotation(t *testing.T) {
	b, rec := newTestBatch(t, Config{Buffers: 3, Elements: 16})

	for i := 0; i < 4; i++ {
		assert.Equal(t, i%3, b.CurrentBuffer())
		emitQuad(b, float32(i))
		b.Flush()
	}
	require.Len(t, rec.uploads, 4)
	for i, u := range rec.uploads {
		assert.Equal(t, i%3, u.buffer)
	}
}

func TestSyntheticDepth(t *testing.T) {
	b, _ := newTestBatch(t, Config{Elements: 16, DepthStep: 0.125})

	start := b.Depth()
	emitQuad(b, 0)
	assert.InDelta(t, float64(start)+0.125, float64(b.Depth()), 1e-6)
	emitQuad(b, 1)
	assert.InDelta(t, float64(start)+0.25, float64(b.Depth()), 1e-6)

	b.Flush()
	assert.Equal(t, start, b.Depth(), "flush resets the depth ramp")
}

func TestLinesNeverSplitMidPrimitive(t *testing.T) {
	b, rec := newTestBatch(t, Config{Elements: 1})

	b.Begin(Lines)
	for i := 0; i < 6; i++ {
		b.Vertex2(float32(i), 0)
	}
	b.End()
	b.Flush()

	for _, sub := range rec.submissions {
		assert.Equal(t, Lines, sub.topo)
		assert.Zero(t, sub.count%2, "flush boundaries land between line pairs")
	}
	total := 0
	for _, sub := range rec.submissions {
		total += sub.count
	}
	assert.Equal(t, 6, total)
}

func TestSetTextureZeroFlushesSaturatedBuffer(t *testing.T) {
	b, _ := newTestBatch(t, Config{Elements: 1})

	emitQuad(b, 0)
	require.Equal(t, b.Capacity(), b.Pending())

	b.SetTexture(0)
	assert.Equal(t, 1, b.Stats().Flushes)
	assert.Zero(t, b.Pending())
}

func TestLatchedAttributesPerVertex(t *testing.T) {
	b, rec := newTestBatch(t, Config{Elements: 16})

	b.Begin(Quads)
	b.Color4ub(10, 20, 30, 40)
	b.TexCoord(0.25, 0.75)
	b.Vertex2(0, 0)
	b.Color4ub(50, 60, 70, 80)
	b.Vertex2(1, 0)
	b.Vertex2(1, 1)
	b.Vertex2(0, 1)
	b.End()
	b.Flush()

	require.Len(t, rec.uploads, 1)
	u := rec.uploads[0]
	assert.Equal(t, []uint8{10, 20, 30, 40}, u.colors[:4])
	assert.Equal(t, []uint8{50, 60, 70, 80}, u.colors[4:8])
	assert.Equal(t, float32(0.25), u.texcoords[0])
	assert.Equal(t, float32(0.75), u.texcoords[1])
	// latched texcoord persists until changed
	assert.Equal(t, float32(0.25), u.texcoords[6])
}

func TestNormalLatchedAndRenormalized(t *testing.T) {
	b, rec := newTestBatch(t, Config{Elements: 16})

	b.Begin(Triangles)
	b.Normal(0, 0, 2)
	b.Vertex2(0, 0)
	b.Normal(0, 3, 0)
	b.Vertex2(1, 0)
	b.Vertex2(1, 1)
	b.End()
	b.Flush()

	require.Len(t, rec.uploads, 1)
	nor := rec.uploads[0].normals
	assert.Equal(t, []float32{0, 0, 1}, nor[0:3])
	assert.Equal(t, []float32{0, 1, 0}, nor[3:6])
	// latched normal persists until changed
	assert.Equal(t, []float32{0, 1, 0}, nor[6:9])
}

func TestResetTextureClosesActiveDraw(t *testing.T) {
	b, rec := newTestBatch(t, Config{Elements: 16})

	b.SetTexture(9)
	emitQuad(b, 0)
	b.ResetTexture()
	emitQuad(b, 1)
	b.Flush()

	require.Len(t, rec.submissions, 2)
	assert.Equal(t, []TextureID{9, 0}, rec.binds)
	assert.Equal(t, 0, rec.submissions[0].offset)
	assert.Equal(t, 4/4*6, rec.submissions[1].offset)
}

func TestTransformStack(t *testing.T) {
	b, rec := newTestBatch(t, Config{Elements: 16})

	b.PushMatrix()
	b.Translate(10, 20, 0)
	b.Begin(Triangles)
	b.Vertex3(1, 2, 3)
	b.Vertex3(0, 0, 0)
	b.Vertex3(1, 0, 0)
	b.End()
	b.PopMatrix()

	b.Begin(Triangles)
	b.Vertex3(1, 2, 3)
	b.Vertex3(0, 0, 0)
	b.Vertex3(1, 0, 0)
	b.End()
	b.Flush()

	require.Len(t, rec.uploads, 1)
	pos := rec.uploads[0].positions
	assert.Equal(t, float32(11), pos[0])
	assert.Equal(t, float32(22), pos[1])
	assert.Equal(t, float32(3), pos[2])
	// after PopMatrix the transform is inactive again
	assert.Equal(t, float32(1), pos[9])
	assert.Equal(t, float32(2), pos[10])
}

func TestQuadIndices(t *testing.T) {
	idx := QuadIndices(2)
	assert.Equal(t, []uint32{0, 1, 2, 0, 2, 3, 4, 5, 6, 4, 6, 7}, idx)
}
