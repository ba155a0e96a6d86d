package geometry

// Point represents a 2D position in screen cells.
type Point struct {
	X int `json:"x"`
	Y int `json:"y"`
}

// Rect is an axis-aligned rectangle. Min is the top-left corner (inclusive),
// Max the bottom-right corner (exclusive), matching terminal cell addressing.
type Rect struct {
	Min Point `json:"min"`
	Max Point `json:"max"`
}

// NewRect creates a rectangle from a top-left corner and a size.
func NewRect(x, y, width, height int) Rect {
	return Rect{
		Min: Point{X: x, Y: y},
		Max: Point{X: x + width, Y: y + height},
	}
}

// Width returns the horizontal extent of the rectangle.
func (r Rect) Width() int {
	return r.Max.X - r.Min.X
}

// Height returns the vertical extent of the rectangle.
func (r Rect) Height() int {
	return r.Max.Y - r.Min.Y
}

// Empty reports whether the rectangle covers no cells.
func (r Rect) Empty() bool {
	return r.Min.X >= r.Max.X || r.Min.Y >= r.Max.Y
}

// Contains reports whether the point lies inside the rectangle.
func (r Rect) Contains(p Point) bool {
	return p.X >= r.Min.X && p.X < r.Max.X && p.Y >= r.Min.Y && p.Y < r.Max.Y
}

// Intersects reports whether the two rectangles overlap by at least one cell.
func (r Rect) Intersects(other Rect) bool {
	if r.Empty() || other.Empty() {
		return false
	}
	return r.Min.X < other.Max.X && other.Min.X < r.Max.X &&
		r.Min.Y < other.Max.Y && other.Min.Y < r.Max.Y
}

// Center returns the midpoint of the rectangle.
func (r Rect) Center() Point {
	return Point{
		X: r.Min.X + r.Width()/2,
		Y: r.Min.Y + r.Height()/2,
	}
}

// DistanceSq returns the squared euclidean distance between two points.
// Squared distance avoids floating point and is sufficient for ordering.
func DistanceSq(a, b Point) int {
	dx := a.X - b.X
	dy := a.Y - b.Y
	return dx*dx + dy*dy
}
