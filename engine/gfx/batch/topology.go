package batch

// Topology selects how accumulated vertices are assembled by the sink.
type Topology int

const (
	Lines Topology = iota
	Triangles
	Quads
)

func (t Topology) String() string {
	switch t {
	case Lines:
		return "lines"
	case Triangles:
		return "triangles"
	case Quads:
		return "quads"
	}
	return "unknown"
}

// primitiveStride is the number of vertices forming one complete primitive.
func (t Topology) primitiveStride() int {
	switch t {
	case Lines:
		return 2
	case Triangles:
		return 3
	default:
		return 4
	}
}

// alignment returns the number of padding vertices needed to close a draw
// call so the following quads stay aligned with the shared index table.
// Padding vertices are skipped by the sink but advance the vertex cursor.
func alignment(t Topology, count int) int {
	switch t {
	case Lines:
		if count < 4 {
			return count
		}
		return count % 4
	case Triangles:
		if count < 4 {
			return 1
		}
		return 4 - count%4
	default:
		return 0
	}
}
