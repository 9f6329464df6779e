package engine

import (
	"math/rand"

	"github.com/m-mizutani/goerr/v2"
)

// Point is a circle center in window coordinates (origin top-left).
type Point struct {
	X int
	Y int
}

// Rect is an axis-aligned region of the window.
type Rect struct {
	X int
	Y int
	W int
	H int
}

// StimulusField is the region circle centers may occupy: the window inset by
// the frame padding plus one circle diameter, so every circle lands fully
// inside the framed area.
func (cfg *Config) StimulusField() (Rect, error) {
	inset := cfg.FramePadding/2 + 2*cfg.CircleRadius + 1
	field := Rect{
		X: inset,
		Y: inset,
		W: cfg.WindowWidth - 2*inset,
		H: cfg.WindowHeight - 2*inset,
	}
	if field.W <= 0 || field.H <= 0 {
		return Rect{}, goerr.New("window too small for frame padding and circle radius",
			goerr.V("window_width", cfg.WindowWidth),
			goerr.V("window_height", cfg.WindowHeight),
			goerr.V("frame_padding", cfg.FramePadding),
			goerr.V("circle_radius", cfg.CircleRadius))
	}
	return field, nil
}

// FrameRect is the border rectangle drawn around the stimulus area.
func (cfg *Config) FrameRect() Rect {
	return Rect{
		X: cfg.FramePadding / 2,
		Y: cfg.FramePadding / 2,
		W: cfg.WindowWidth - cfg.FramePadding,
		H: cfg.WindowHeight - cfg.FramePadding,
	}
}

const placementAttempts = 10000

// PlaceCircles picks n circle centers uniformly at random inside field,
// rejecting any candidate whose center lies within one diameter of an already
// placed circle. Placement fails if the field cannot fit n circles within the
// attempt budget.
func PlaceCircles(rng *rand.Rand, n int, field Rect, radius int) ([]Point, error) {
	diameter := 2 * radius
	points := make([]Point, 0, n)
	attempts := 0
	for len(points) < n {
		if attempts >= placementAttempts {
			return nil, goerr.New("could not place circles without overlap",
				goerr.V("circles", n), goerr.V("placed", len(points)),
				goerr.V("field", field), goerr.V("radius", radius))
		}
		attempts++

		p := Point{
			X: field.X + rng.Intn(field.W),
			Y: field.Y + rng.Intn(field.H),
		}
		if overlapsAny(p, points, diameter) {
			continue
		}
		points = append(points, p)
	}
	return points, nil
}

func overlapsAny(p Point, placed []Point, diameter int) bool {
	for _, q := range placed {
		dx := p.X - q.X
		dy := p.Y - q.Y
		if dx*dx+dy*dy <= diameter*diameter {
			return true
		}
	}
	return false
}
