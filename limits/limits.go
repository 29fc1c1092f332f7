// Public domain.

// Package limits computes Poisson detection thresholds and upper limits
// for aperture photometry.
//
// Given a background expectation for a source aperture, the package answers
// two questions.  First, how many counts must be seen in the aperture before
// a source can be claimed, if a pure background fluctuation may only be
// mistaken for a source with some small probability.  Second, what is the
// faintest source intensity that would still reach that threshold with an
// acceptable probability of being missed.
//
// The background may be known exactly (KnownRate) or known only through a
// count observed in a reference region (CountEstimated).  In the latter case
// detection probabilities are marginalized over the posterior distribution
// of the background rate.
package limits

import (
	"fmt"
	"math"

	"github.com/rs/zerolog"
	"gonum.org/v1/gonum/mathext"
)

// Log receives non-fatal warnings, such as a root search returning before
// reaching its residual tolerance.  It is disabled by default; commands
// install their own logger during startup.
var Log = zerolog.Nop()

// Result is the outcome of an upper limit computation.  UpperLimit is the
// faintest source intensity still reliably detected, SStar the count
// threshold that defines "detected."
type Result struct {
	UpperLimit float64
	SStar      int
}

// BackgroundModel gives the probability of detecting a source of the passed
// intensity against the model's background, using a count threshold.
//
// Implementations must be monotonically non-increasing in threshold for
// fixed intensity, and non-decreasing in intensity for fixed threshold.
// FindThreshold and SolveIntensity rely on both properties.
type BackgroundModel interface {
	DetectionProbability(intensity float64, threshold int) float64
}

// residual tolerance and default evaluation budget for SolveIntensity
const (
	solveTol       = 1e-6
	DefaultMaxIter = 500
)

// pDetect is the probability that a Poisson variate with the given mean is
// at least threshold+1, the survival function of the Poisson distribution
// at the integer threshold.
func pDetect(threshold int, mean float64) float64 {
	if mean <= 0 {
		return 0
	}
	return mathext.GammaIncReg(float64(threshold+1), mean)
}

// KnownRate models a background rate known exactly rather than estimated
// from counts.  LambdaBkg is the background count rate in the source
// aperture per unit source exposure time.  TauBkg and AreaRatio are not
// used by this model; they are carried for symmetry with CountEstimated.
type KnownRate struct {
	LambdaBkg float64
	TauSource float64
	TauBkg    float64
	AreaRatio float64
}

// NewKnownRate validates parameters for a known background rate model.
func NewKnownRate(lambdaBkg, tauSource, tauBkg, areaRatio float64) (KnownRate, error) {
	if lambdaBkg < 0 {
		return KnownRate{}, fmt.Errorf("background rate must be non-negative, got %g", lambdaBkg)
	}
	if tauSource <= 0 {
		return KnownRate{}, fmt.Errorf("source exposure must be positive, got %g", tauSource)
	}
	return KnownRate{lambdaBkg, tauSource, tauBkg, areaRatio}, nil
}

// DetectionProbability implements BackgroundModel.
func (m KnownRate) DetectionProbability(intensity float64, threshold int) float64 {
	return m.given(intensity, threshold, m.LambdaBkg)
}

// given is the conditional detection probability for an explicit background
// rate.  CountEstimated reuses it per posterior sample.
func (m KnownRate) given(intensity float64, threshold int, background float64) float64 {
	return pDetect(threshold, (background+intensity)*m.TauSource)
}

// checkProb rejects probabilities outside the open interval (0,1).
func checkProb(name string, p float64) error {
	if !(p > 0 && p < 1) {
		return fmt.Errorf("%s must be inside (0,1), got %g", name, p)
	}
	return nil
}

// FindThreshold returns the smallest count threshold at which a pure
// background fluctuation is mistaken for a detection with probability at
// most probFalse.
//
// The scan runs upward from zero; detection probability decreases strictly
// with threshold and reaches zero in the limit, so no upper bound is needed
// for realistic background expectations.  If the bound already holds at
// threshold zero the conventional value 1 is returned, signalling that any
// count at all is significant.
func FindThreshold(m BackgroundModel, probFalse float64) (int, error) {
	if err := checkProb("false detection probability", probFalse); err != nil {
		return 0, err
	}
	for t := 0; ; t++ {
		if m.DetectionProbability(0, t) <= probFalse {
			if t == 0 {
				return 1, nil
			}
			return t, nil
		}
	}
}

// SolveIntensity computes the upper limit for the model: the threshold for
// probFalse, then the source intensity whose detection probability at that
// threshold equals probMissed.  The returned intensity is a count rate per
// unit source exposure time in the source aperture.
//
// maxIter bounds the number of bisection steps; zero selects
// DefaultMaxIter.  Exhausting the budget is not an error: the best estimate
// found is returned and a warning logged, since an approximate limit is
// still useful.
func SolveIntensity(m BackgroundModel, probFalse, probMissed float64, maxIter int) (Result, error) {
	if err := checkProb("false detection probability", probFalse); err != nil {
		return Result{}, err
	}
	if err := checkProb("missed detection probability", probMissed); err != nil {
		return Result{}, err
	}
	if maxIter < 0 {
		return Result{}, fmt.Errorf("iteration limit must be non-negative, got %d", maxIter)
	}
	if maxIter == 0 {
		maxIter = DefaultMaxIter
	}

	threshold, err := FindThreshold(m, probFalse)
	if err != nil {
		return Result{}, err
	}

	f := func(s float64) float64 {
		return m.DetectionProbability(s, threshold) - probMissed
	}

	// An intensity of zero may already be "detected" more often than the
	// target allows.  f then has no root for any positive intensity and no
	// positive limit is meaningful.
	if f(0) > 0 {
		return Result{0, 1}, nil
	}

	// bracket the root by doubling.  f tends to 1-probMissed > 0 with
	// increasing intensity, so this terminates.
	hi := math.Max(float64(threshold), 1)
	for f(hi) <= 0 {
		hi *= 2
	}

	lo := 0.
	mid := hi
	for i := 0; i < maxIter; i++ {
		mid = .5 * (lo + hi)
		res := f(mid)
		if math.Abs(res) <= solveTol {
			return Result{mid, threshold}, nil
		}
		if res < 0 {
			lo = mid
		} else {
			hi = mid
		}
	}
	Log.Warn().
		Int("maxIter", maxIter).
		Float64("intensity", mid).
		Int("threshold", threshold).
		Msg("upper limit search did not reach tolerance")
	return Result{mid, threshold}, nil
}
