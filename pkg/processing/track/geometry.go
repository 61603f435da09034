package track

import (
	"math"
	"sort"

	"gonum.org/v1/gonum/floats"

	"github.com/mpapenbr/racereplay/pkg/model"
)

// Geometry holds the derived attributes of a track centerline.
type Geometry struct {
	points     []model.Point
	cumulative []float64 // arc length from point 0 to point i
	length     float64
}

func NewGeometry(t model.Track) *Geometry {
	g := &Geometry{points: t.Points}
	if len(t.Points) == 0 {
		g.length = t.Length
		return g
	}
	seg := make([]float64, len(t.Points))
	for i := 1; i < len(t.Points); i++ {
		seg[i] = math.Hypot(
			t.Points[i].X-t.Points[i-1].X,
			t.Points[i].Y-t.Points[i-1].Y)
	}
	g.cumulative = floats.CumSum(make([]float64, len(seg)), seg)
	g.length = g.cumulative[len(g.cumulative)-1]
	if t.Length > 0 {
		// the dataset value wins, the points may be a reduced set
		g.length = t.Length
	}
	return g
}

// Length returns the track length
func (g *Geometry) Length() float64 {
	return g.length
}

// HasPoints reports if positions on the track can be computed
func (g *Geometry) HasPoints() bool {
	return len(g.points) > 0
}

func (g *Geometry) Cumulative() []float64 {
	return g.cumulative
}

func (g *Geometry) polyLength() float64 {
	if len(g.cumulative) == 0 {
		return 0
	}
	return g.cumulative[len(g.cumulative)-1]
}

// Wrap maps a race distance onto the lap distance [0,length)
func (g *Geometry) Wrap(distance float64) float64 {
	if g.length <= 0 {
		return 0
	}
	ret := math.Mod(distance, g.length)
	if ret < 0 {
		ret += g.length
	}
	return ret
}

// scale converts a lap distance into a distance on the polyline.
// Both may differ if the dataset provides its own track length.
func (g *Geometry) scale(s float64) float64 {
	poly := g.polyLength()
	if g.length <= 0 || poly <= 0 {
		return 0
	}
	return s * poly / g.length
}

// PointAt returns the point on the centerline at lap distance s.
// s is clamped to [0,length].
func (g *Geometry) PointAt(s float64) model.Point {
	if len(g.points) == 0 {
		return model.Point{}
	}
	s = g.scale(math.Max(0, math.Min(s, g.length)))
	i := sort.SearchFloat64s(g.cumulative, s)
	if i == 0 {
		return g.points[0]
	}
	if i >= len(g.points) {
		return g.points[len(g.points)-1]
	}
	segLen := g.cumulative[i] - g.cumulative[i-1]
	if segLen == 0 {
		return g.points[i-1]
	}
	ratio := (s - g.cumulative[i-1]) / segLen
	p0, p1 := g.points[i-1], g.points[i]
	return model.Point{
		X: p0.X + (p1.X-p0.X)*ratio,
		Y: p0.Y + (p1.Y-p0.Y)*ratio,
	}
}

// Direction returns the unit direction of travel at lap distance s.
// Zero length segments (duplicate points) are skipped, a track without any
// usable segment yields (1,0).
func (g *Geometry) Direction(s float64) model.Point {
	n := len(g.points)
	if n < 2 {
		return model.Point{X: 1}
	}
	s = g.scale(math.Max(0, math.Min(s, g.length)))
	i := max(1, sort.SearchFloat64s(g.cumulative, s))
	i = min(i, n-1)
	// search forward first, then backward
	for j := i; j < n; j++ {
		if d, ok := g.segmentDir(j); ok {
			return d
		}
	}
	for j := i - 1; j >= 1; j-- {
		if d, ok := g.segmentDir(j); ok {
			return d
		}
	}
	return model.Point{X: 1}
}

// Normal returns the left hand normal of Direction(s)
func (g *Geometry) Normal(s float64) model.Point {
	d := g.Direction(s)
	return model.Point{X: -d.Y, Y: d.X}
}

// segmentDir computes the unit vector of the segment ending at point j
func (g *Geometry) segmentDir(j int) (model.Point, bool) {
	segLen := g.cumulative[j] - g.cumulative[j-1]
	if segLen == 0 {
		return model.Point{}, false
	}
	p0, p1 := g.points[j-1], g.points[j]
	return model.Point{X: (p1.X - p0.X) / segLen, Y: (p1.Y - p0.Y) / segLen}, true
}
