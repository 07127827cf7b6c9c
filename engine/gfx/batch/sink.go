package batch

// TextureID names a texture owned by the sink. Zero means no texture bound.
type TextureID uint32

// Sink receives the accumulated vertex data and the draw submissions produced
// by a flush. Submissions arrive in strict emission order; vertex offsets are
// relative to the uploaded range. A sink is never called concurrently.
type Sink interface {
	// UploadVertices transfers the live prefix of the given buffer's
	// attribute arrays. count is in vertices; positions and normals carry
	// 3 floats per vertex, texcoords 2 floats, colors 4 bytes.
	UploadVertices(buffer, count int, positions, texcoords, normals []float32, colors []uint8)

	// BindTexture makes id the active texture for subsequent submissions.
	BindTexture(id TextureID)

	// SubmitDraw issues a direct draw over the uploaded vertex range.
	SubmitDraw(t Topology, vertexOffset, vertexCount int)

	// SubmitIndexedDraw issues an indexed draw using the canonical
	// quad-to-triangles index table (see QuadIndices).
	SubmitIndexedDraw(t Topology, indexOffset, indexCount int)
}

// QuadIndices builds the index table mapping each quad's 4 vertices to two
// counter-clockwise triangles. The table depends only on the element count
// and is immutable once built.
func QuadIndices(elements int) []uint32 {
	out := make([]uint32, 0, elements*6)
	for k := 0; k < elements; k++ {
		base := uint32(4 * k)
		out = append(out, base, base+1, base+2, base, base+2, base+3)
	}
	return out
}
