// Public domain.

package aperture_test

import (
	"math"
	"testing"

	"github.com/soniakeys/unit"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/DougBurke/ciao-contrib/aperture"
)

func TestCircle(t *testing.T) {
	a, err := aperture.Circle(unit.AngleFromSec(2))
	require.NoError(t, err)
	assert.InDelta(t, 4*math.Pi, a, 1e-12)

	_, err = aperture.Circle(0)
	assert.Error(t, err)
	_, err = aperture.Circle(unit.AngleFromSec(-1))
	assert.Error(t, err)
}

func TestAnnulus(t *testing.T) {
	a, err := aperture.Annulus(unit.AngleFromSec(3), unit.AngleFromSec(5))
	require.NoError(t, err)
	assert.InDelta(t, 16*math.Pi, a, 1e-12)

	// degenerate inner radius makes a circle
	a, err = aperture.Annulus(0, unit.AngleFromSec(5))
	require.NoError(t, err)
	assert.InDelta(t, 25*math.Pi, a, 1e-12)

	_, err = aperture.Annulus(unit.AngleFromSec(5), unit.AngleFromSec(5))
	assert.Error(t, err)
	_, err = aperture.Annulus(unit.AngleFromSec(5), unit.AngleFromSec(3))
	assert.Error(t, err)
	_, err = aperture.Annulus(unit.AngleFromSec(-1), unit.AngleFromSec(3))
	assert.Error(t, err)
}

func TestEllipse(t *testing.T) {
	a, err := aperture.Ellipse(unit.AngleFromSec(2), unit.AngleFromSec(3))
	require.NoError(t, err)
	assert.InDelta(t, 6*math.Pi, a, 1e-12)

	_, err = aperture.Ellipse(0, unit.AngleFromSec(3))
	assert.Error(t, err)
	_, err = aperture.Ellipse(unit.AngleFromSec(2), unit.AngleFromSec(-3))
	assert.Error(t, err)
}
