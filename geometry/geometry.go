// Package geometry - axis-aligned rectangle primitives for detection evaluation.
package geometry

import "github.com/chewxy/math32"

// Rect is a lightweight axis-aligned bounding box in image pixel coordinates.
// The convention is X1 <= X2 and Y1 <= Y2, but callers are not required to
// enforce it: every operation canonicalizes through max/min, so a box with
// swapped corners degrades to zero area rather than producing negative values.
type Rect struct {
	X1, Y1, X2, Y2 float32
}

// Area returns the area of r in square pixels. Degenerate boxes (zero width
// or height, or swapped corners) have area 0.
func (r Rect) Area() float32 {
	w := r.X2 - r.X1
	h := r.Y2 - r.Y1
	if w <= 0 || h <= 0 {
		return 0
	}
	return w * h
}

// CalculateIoU computes the Intersection over Union of two rectangles.
//
// IoU is the standard overlap metric in object detection: the area where the
// two boxes intersect divided by the total area they cover together.
//
//	IoU = Area of Intersection / Area of Union
//
//	- 1.0 means the boxes are identical.
//	- 0.0 means they do not overlap at all.
//
// The intersection corner coordinates are the max of the two top-left corners
// and the min of the two bottom-right corners; if the resulting width or
// height is zero or negative the boxes are disjoint and the result is 0. The
// union uses inclusion-exclusion: Area(A) + Area(B) - Area(Intersection).
// When the union itself is 0 (two zero-area boxes) the result is exactly 0,
// never NaN.
//
// Example:
//
//	a := Rect{X1: 0, Y1: 0, X2: 100, Y2: 100}
//	b := Rect{X1: 50, Y1: 50, X2: 150, Y2: 150}
//	CalculateIoU(a, b) // intersection 2500, union 17500, result ≈ 0.142857
func CalculateIoU(a, b Rect) float32 {
	ix1 := math32.Max(a.X1, b.X1)
	iy1 := math32.Max(a.Y1, b.Y1)
	ix2 := math32.Min(a.X2, b.X2)
	iy2 := math32.Min(a.Y2, b.Y2)

	interW := ix2 - ix1
	interH := iy2 - iy1
	if interW <= 0 || interH <= 0 {
		return 0
	}
	interArea := interW * interH

	union := a.Area() + b.Area() - interArea
	if union <= 0 {
		return 0
	}

	return interArea / union
}
