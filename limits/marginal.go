// Public domain.

package limits

import (
	"fmt"
	"math"
	"sort"

	"gonum.org/v1/gonum/stat/distuv"
)

// size of the primary and supplementary integration grids
const gridSize = 1000

// CountEstimated models a background known only through nBkg counts observed
// in a reference region of exposure tauBkg and area areaRatio times the
// source aperture area.  A flat prior on the background rate conjugated with
// the Poisson likelihood gives a Gamma posterior with shape 1+nBkg and rate
// tauBkg*areaRatio; detection probabilities are expectations over that
// posterior, taken on a fixed grid sized from the posterior's mean and
// standard deviation.
type CountEstimated struct {
	NBkg      int
	TauSource float64
	TauBkg    float64
	AreaRatio float64

	cond      KnownRate // conditional detection formula
	posterior distuv.Gamma

	// integration abscissas and posterior density, fixed at construction
	grid    []float64
	density []float64
}

// NewCountEstimated validates parameters and precomputes the posterior and
// its integration grid.  Zero counts are rejected: a flat prior with no
// observed counts cannot be normalized into a proper posterior.
func NewCountEstimated(nBkg int, tauSource, tauBkg, areaRatio float64) (*CountEstimated, error) {
	if nBkg < 0 {
		return nil, fmt.Errorf("background counts must be non-negative, got %d", nBkg)
	}
	if nBkg == 0 {
		return nil, fmt.Errorf("cannot estimate a background from zero counts")
	}
	if tauSource <= 0 {
		return nil, fmt.Errorf("source exposure must be positive, got %g", tauSource)
	}
	if tauBkg <= 0 {
		return nil, fmt.Errorf("background exposure must be positive, got %g", tauBkg)
	}
	if areaRatio <= 0 {
		return nil, fmt.Errorf("area ratio must be positive, got %g", areaRatio)
	}
	m := &CountEstimated{
		NBkg:      nBkg,
		TauSource: tauSource,
		TauBkg:    tauBkg,
		AreaRatio: areaRatio,
		cond:      KnownRate{0, tauSource, tauBkg, areaRatio},
		posterior: distuv.Gamma{
			Alpha: 1 + float64(nBkg),
			Beta:  tauBkg * areaRatio,
		},
	}
	m.grid = m.makeGrid()
	m.density = make([]float64, len(m.grid))
	for i, b := range m.grid {
		m.density[i] = m.posterior.Prob(b)
	}
	return m, nil
}

// makeGrid builds the abscissas for the posterior expectation.
//
// The primary grid spans 10 posterior widths below the peak to 20 above;
// the asymmetry follows the posterior's right skew at small counts.  When
// the peak sits within 3 widths of the origin the primary grid resolves the
// rise near zero poorly, so a supplementary grid over [0, 20*peak) is
// merged in.
func (m *CountEstimated) makeGrid() []float64 {
	scale := m.AreaRatio * m.TauBkg
	peak := float64(m.NBkg) / scale
	width := math.Sqrt(peak / scale)

	lo := math.Max(0, peak-10*width)
	hi := peak + 20*width
	grid := make([]float64, gridSize, 2*gridSize)
	step := (hi - lo) / (gridSize - 1)
	for i := range grid {
		grid[i] = lo + float64(i)*step
	}

	if peak < 3*width {
		step = 20 * peak / gridSize
		for i := 0; i < gridSize; i++ {
			grid = append(grid, float64(i)*step)
		}
		sort.Float64s(grid)
	}
	return grid
}

// DetectionProbability implements BackgroundModel.  It is the expectation of
// the conditional detection probability over the background rate posterior,
// integrated by the trapezoid rule over the construction-time grid.
func (m *CountEstimated) DetectionProbability(intensity float64, threshold int) float64 {
	var sum float64
	f0 := m.cond.given(intensity, threshold, m.grid[0]) * m.density[0]
	for i := 1; i < len(m.grid); i++ {
		f1 := m.cond.given(intensity, threshold, m.grid[i]) * m.density[i]
		sum += .5 * (f0 + f1) * (m.grid[i] - m.grid[i-1])
		f0 = f1
	}
	return sum
}
