package plot

import "math"

const (
	// MinScale and MaxScale bound node scaling from any input path.
	MinScale = 0.2
	MaxScale = 8.0

	// rotationSnapStep snaps rotations to 15 degree increments when the
	// angle lands within rotationSnapWindow of one.
	rotationSnapStep   = 15.0
	rotationSnapWindow = 3.0
)

// Point is a pointer position in stage coordinates.
type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Pinch captures a two-finger gesture as the start and current positions
// of both touches.
type Pinch struct {
	StartA, StartB     Point
	CurrentA, CurrentB Point
}

// Transform is the node delta a gesture resolves to.
type Transform struct {
	TranslateX  float64
	TranslateY  float64
	ScaleFactor float64
	RotateBy    float64
}

// ClampScale bounds an absolute scale value.
func ClampScale(s float64) float64 {
	if s < MinScale {
		return MinScale
	}
	if s > MaxScale {
		return MaxScale
	}
	return s
}

// NormalizeDegrees wraps an angle into [0, 360).
func NormalizeDegrees(deg float64) float64 {
	deg = math.Mod(deg, 360)
	if deg < 0 {
		deg += 360
	}
	return deg
}

// SnapDegrees pulls an angle onto the nearest 15 degree increment when it
// falls within the snap window; otherwise the angle passes through.
func SnapDegrees(deg float64) float64 {
	deg = NormalizeDegrees(deg)
	nearest := math.Round(deg/rotationSnapStep) * rotationSnapStep
	if math.Abs(deg-nearest) <= rotationSnapWindow {
		return NormalizeDegrees(nearest)
	}
	return deg
}

func distance(a, b Point) float64 {
	return math.Hypot(b.X-a.X, b.Y-a.Y)
}

func angleDegrees(a, b Point) float64 {
	return math.Atan2(b.Y-a.Y, b.X-a.X) * 180 / math.Pi
}

func midpoint(a, b Point) Point {
	return Point{X: (a.X + b.X) / 2, Y: (a.Y + b.Y) / 2}
}

// Resolve maps a pinch gesture onto a node transform: midpoint drift
// translates, span ratio scales, and the angle between the touches
// rotates. Degenerate gestures (coincident start touches) resolve to the
// identity scale.
func (p Pinch) Resolve() Transform {
	startMid := midpoint(p.StartA, p.StartB)
	currentMid := midpoint(p.CurrentA, p.CurrentB)

	scale := 1.0
	if d := distance(p.StartA, p.StartB); d > 0 {
		scale = distance(p.CurrentA, p.CurrentB) / d
	}

	return Transform{
		TranslateX:  currentMid.X - startMid.X,
		TranslateY:  currentMid.Y - startMid.Y,
		ScaleFactor: scale,
		RotateBy:    angleDegrees(p.CurrentA, p.CurrentB) - angleDegrees(p.StartA, p.StartB),
	}
}

// ApplyToNode folds a resolved transform into node fields, honoring the
// scale clamp and rotation snapping.
func (t Transform) ApplyToNode(x, y, rotation, scale float64) (nx, ny, nrotation, nscale float64) {
	nx = x + t.TranslateX
	ny = y + t.TranslateY
	nrotation = SnapDegrees(NormalizeDegrees(rotation + t.RotateBy))
	nscale = ClampScale(scale * t.ScaleFactor)
	return
}
