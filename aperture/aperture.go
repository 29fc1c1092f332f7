// Public domain.

// Package aperture computes sky areas of photometric extraction regions.
//
// Areas are returned in square arc seconds, the convention of the detect
// tools this package supports.  Radii are typed angles so that callers
// working in degrees or radians cannot silently pass the wrong unit.
package aperture

import (
	"fmt"
	"math"

	"github.com/soniakeys/unit"
)

// Circle returns the area of a circular aperture of radius r.
func Circle(r unit.Angle) (float64, error) {
	if r <= 0 {
		return 0, fmt.Errorf("aperture radius must be positive, got %g arcsec", r.Sec())
	}
	s := r.Sec()
	return math.Pi * s * s, nil
}

// Annulus returns the area of an annular background region with inner
// radius rin and outer radius rout.
func Annulus(rin, rout unit.Angle) (float64, error) {
	if rin < 0 {
		return 0, fmt.Errorf("inner radius must be non-negative, got %g arcsec", rin.Sec())
	}
	if rout <= rin {
		return 0, fmt.Errorf("outer radius %g arcsec must exceed inner radius %g arcsec",
			rout.Sec(), rin.Sec())
	}
	si, so := rin.Sec(), rout.Sec()
	return math.Pi * (so*so - si*si), nil
}

// Ellipse returns the area of an elliptical aperture with semi-axes a and b.
func Ellipse(a, b unit.Angle) (float64, error) {
	if a <= 0 || b <= 0 {
		return 0, fmt.Errorf("semi-axes must be positive, got %g, %g arcsec",
			a.Sec(), b.Sec())
	}
	return math.Pi * a.Sec() * b.Sec(), nil
}
