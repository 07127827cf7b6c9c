package batch

import "github.com/go-gl/mathgl/mgl32"

// Matrix stack applied to emitted vertices. Transforms compose right to
// left, matching the usual fixed-function conventions.

// PushMatrix saves the current transform and keeps it active for following
// vertices.
func (b *Batch) PushMatrix() {
	b.stack = append(b.stack, b.transform)
	b.transformRequired = true
}

// PopMatrix restores the previously pushed transform. Popping the last entry
// deactivates transformation entirely.
func (b *Batch) PopMatrix() {
	if n := len(b.stack); n > 0 {
		b.transform = b.stack[n-1]
		b.stack = b.stack[:n-1]
	}
	if len(b.stack) == 0 {
		b.transform = mgl32.Ident4()
		b.transformRequired = false
	}
}

// LoadIdentity resets the current transform.
func (b *Batch) LoadIdentity() {
	b.transform = mgl32.Ident4()
}

// Translate post-multiplies a translation onto the current transform.
func (b *Batch) Translate(x, y, z float32) {
	b.transform = b.transform.Mul4(mgl32.Translate3D(x, y, z))
}

// Rotate post-multiplies a rotation of angleRad around the given axis.
func (b *Batch) Rotate(angleRad, x, y, z float32) {
	axis := mgl32.Vec3{x, y, z}
	if axis.Len() == 0 {
		return
	}
	b.transform = b.transform.Mul4(mgl32.HomogRotate3D(angleRad, axis.Normalize()))
}

// Scale post-multiplies a scale onto the current transform.
func (b *Batch) Scale(x, y, z float32) {
	b.transform = b.transform.Mul4(mgl32.Scale3D(x, y, z))
}

// MultMatrix post-multiplies an arbitrary matrix onto the current transform.
func (b *Batch) MultMatrix(m mgl32.Mat4) {
	b.transform = b.transform.Mul4(m)
}
