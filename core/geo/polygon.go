package geo

// Polygon is a single closed planar region in the same reference
// system as record geometry. The ring is a sequence of vertices; the
// closing edge from the last vertex back to the first is implicit, and
// an explicitly closed ring (last vertex equal to the first) is
// accepted as well.
type Polygon struct {
	// ID is the configured identifier the polygon was resolved by.
	ID string

	// Ring is the outer boundary of the region.
	Ring []Point
}

// ring returns the vertex count treating an explicitly closed ring as
// open, so the implicit closing edge is never counted twice.
func (p Polygon) ringLen() int {
	n := len(p.Ring)
	if n > 1 && p.Ring[0] == p.Ring[n-1] {
		n--
	}
	return n
}

// Contains reports whether the point lies within or on the boundary of
// the polygon. Boundary points are inside (closed-region semantics):
// an event on the region border still belongs to the region.
//
// Interior membership uses the even-odd ray casting rule; the boundary
// is tested explicitly first because ray casting is unreliable exactly
// on edges.
func (p Polygon) Contains(pt Point) bool {
	n := p.ringLen()
	if n < 3 {
		return false
	}

	for i := 0; i < n; i++ {
		a := p.Ring[i]
		b := p.Ring[(i+1)%n]
		if onSegment(pt, a, b) {
			return true
		}
	}

	inside := false
	for i := 0; i < n; i++ {
		a := p.Ring[i]
		b := p.Ring[(i+1)%n]
		if (a.Y > pt.Y) != (b.Y > pt.Y) {
			xCross := a.X + (pt.Y-a.Y)*(b.X-a.X)/(b.Y-a.Y)
			if pt.X < xCross {
				inside = !inside
			}
		}
	}
	return inside
}

// onSegment reports whether pt lies on the segment a-b.
func onSegment(pt, a, b Point) bool {
	cross := (b.X-a.X)*(pt.Y-a.Y) - (b.Y-a.Y)*(pt.X-a.X)
	if cross != 0 {
		return false
	}
	if pt.X < min(a.X, b.X) || pt.X > max(a.X, b.X) {
		return false
	}
	if pt.Y < min(a.Y, b.Y) || pt.Y > max(a.Y, b.Y) {
		return false
	}
	return true
}
