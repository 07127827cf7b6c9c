package shapes

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/emberline/ember/engine/colors"
	"github.com/emberline/ember/engine/gfx/batch"
)

type submission struct {
	topo          batch.Topology
	indexed       bool
	offset, count int
}

type recorder struct {
	count       int
	binds       []batch.TextureID
	submissions []submission
}

func (r *recorder) UploadVertices(_, count int, _, _, _ []float32, _ []uint8) { r.count = count }
func (r *recorder) BindTexture(id batch.TextureID)                           { r.binds = append(r.binds, id) }
func (r *recorder) SubmitDraw(t batch.Topology, off, n int) {
	r.submissions = append(r.submissions, submission{topo: t, offset: off, count: n})
}
func (r *recorder) SubmitIndexedDraw(t batch.Topology, off, n int) {
	r.submissions = append(r.submissions, submission{topo: t, indexed: true, offset: off, count: n})
}

func newCanvas(t *testing.T) (*Canvas, *recorder) {
	t.Helper()
	rec := &recorder{}
	b, err := batch.New(rec, batch.Config{Elements: 64})
	require.NoError(t, err)
	return New(b), rec
}

func TestRectangleEmitsOneQuad(t *testing.T) {
	c, rec := newCanvas(t)

	c.Rectangle(0, 0, 10, 10, colors.Red)
	c.Batch().Flush()

	require.Len(t, rec.submissions, 1)
	sub := rec.submissions[0]
	assert.True(t, sub.indexed)
	assert.Equal(t, 6, sub.count)
	assert.Equal(t, 4, rec.count)
}

func TestLineEmitsPair(t *testing.T) {
	c, rec := newCanvas(t)

	c.Line(0, 0, 5, 5, colors.White)
	c.Batch().Flush()

	require.Len(t, rec.submissions, 1)
	assert.Equal(t, batch.Lines, rec.submissions[0].topo)
	assert.Equal(t, 2, rec.submissions[0].count)
}

func TestRectangleLinesEmitsFourPairs(t *testing.T) {
	c, rec := newCanvas(t)

	c.RectangleLines(1, 1, 8, 8, colors.Yellow)
	c.Batch().Flush()

	require.Len(t, rec.submissions, 1)
	assert.Equal(t, batch.Lines, rec.submissions[0].topo)
	assert.Equal(t, 8, rec.submissions[0].count)
}

func TestTextureBindsAndRestores(t *testing.T) {
	c, rec := newCanvas(t)

	c.Rectangle(0, 0, 4, 4, colors.White)
	c.Texture(9, 0, 0, 4, 4, colors.White)
	c.Batch().Flush()

	require.Len(t, rec.submissions, 2)
	assert.Equal(t, []batch.TextureID{0, 9}, rec.binds)
}

func TestSolidShapeAfterTexturedIsUntextured(t *testing.T) {
	c, rec := newCanvas(t)

	c.Texture(9, 0, 0, 4, 4, colors.White)
	c.Rectangle(10, 10, 4, 4, colors.Red)
	c.Batch().Flush()

	// the solid rectangle must not join the textured draw call
	require.Len(t, rec.submissions, 2)
	assert.Equal(t, []batch.TextureID{9, 0}, rec.binds)
	assert.Equal(t, 0, rec.submissions[0].offset)
	assert.Equal(t, 6, rec.submissions[1].offset)
}

func TestMixedShapesKeepEmissionOrder(t *testing.T) {
	c, rec := newCanvas(t)

	c.Line(0, 0, 1, 1, colors.White)
	c.Rectangle(0, 0, 2, 2, colors.Red)
	c.Triangle(0, 0, 1, 0, 0, 1, colors.Blue)
	c.Batch().Flush()

	require.Len(t, rec.submissions, 3)
	assert.Equal(t, batch.Lines, rec.submissions[0].topo)
	assert.True(t, rec.submissions[1].indexed)
	assert.Equal(t, batch.Triangles, rec.submissions[2].topo)
}

func TestCircleVertexCount(t *testing.T) {
	c, rec := newCanvas(t)

	c.Circle(10, 10, 5, colors.Green)
	c.Batch().Flush()

	require.Len(t, rec.submissions, 1)
	assert.Equal(t, batch.Triangles, rec.submissions[0].topo)
	assert.Zero(t, rec.submissions[0].count%3)
	assert.Equal(t, 3*circleSegments, rec.submissions[0].count)
}
