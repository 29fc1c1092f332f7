// Public domain.

package limits

import "fmt"

// default cutover from the marginalized model to the point estimate
const DefaultMaxCounts = 50

// Params carries the aperture photometry description of an upper limit
// computation.  Exactly one of the background specifications must be
// supplied: a known rate (HaveRate) or an observed count with its region
// exposure and area (HaveCounts).
type Params struct {
	ProbFalse  float64 // false detection probability, in (0,1)
	ProbMissed float64 // missed detection probability, in (0,1)

	TauSource  float64 // source exposure time
	AreaSource float64 // source aperture area

	BkgRate  float64 // background rate, counts per unit area per unit time
	HaveRate bool

	BkgCounts  int // counts observed in the background region
	HaveCounts bool
	TauBkg     float64 // background region exposure time
	AreaBkg    float64 // background region area

	// MaxCounts is the background count above which the posterior is
	// narrow enough that the point estimate model is used instead of
	// marginalization.  Zero selects DefaultMaxCounts.
	MaxCounts int

	// MaxIter bounds the upper limit root search.  Zero selects
	// DefaultMaxIter.
	MaxIter int
}

// Limits computes the minimum detection count and upper limit source rate
// for aperture photometry parameters.  It translates areas and exposures
// into the intensity normalization used by the background models, selects
// a model, and converts the solved intensity back to a rate in the units of
// the supplied background rate (counts per unit area per unit time).
func Limits(p Params) (Result, error) {
	if err := checkProb("false detection probability", p.ProbFalse); err != nil {
		return Result{}, err
	}
	if err := checkProb("missed detection probability", p.ProbMissed); err != nil {
		return Result{}, err
	}
	if p.TauSource <= 0 {
		return Result{}, fmt.Errorf("source exposure must be positive, got %g", p.TauSource)
	}
	if p.AreaSource <= 0 {
		return Result{}, fmt.Errorf("source aperture area must be positive, got %g", p.AreaSource)
	}
	maxCounts := p.MaxCounts
	if maxCounts == 0 {
		maxCounts = DefaultMaxCounts
	}

	useRate := p.HaveRate
	switch {
	case p.HaveRate && p.HaveCounts:
		Log.Warn().
			Float64("bkgRate", p.BkgRate).
			Int("bkgCounts", p.BkgCounts).
			Msg("both a background rate and a background count supplied; using the rate")
	case !p.HaveRate && !p.HaveCounts:
		return Result{}, fmt.Errorf("either a background rate or a background count must be supplied")
	}

	var m BackgroundModel
	if useRate {
		kr, err := NewKnownRate(p.BkgRate*p.AreaSource, p.TauSource, p.TauBkg, 1)
		if err != nil {
			return Result{}, err
		}
		m = kr
	} else {
		if p.BkgCounts < 0 {
			return Result{}, fmt.Errorf("background counts must be non-negative, got %d", p.BkgCounts)
		}
		if p.TauBkg <= 0 {
			return Result{}, fmt.Errorf("background exposure must be positive, got %g", p.TauBkg)
		}
		if p.AreaBkg <= 0 {
			return Result{}, fmt.Errorf("background region area must be positive, got %g", p.AreaBkg)
		}
		ratio := p.AreaBkg / p.AreaSource
		if p.BkgCounts > maxCounts {
			// enough counts that the posterior width is negligible
			kr, err := NewKnownRate(
				float64(p.BkgCounts)/(ratio*p.TauBkg),
				p.TauSource, p.TauBkg, ratio)
			if err != nil {
				return Result{}, err
			}
			m = kr
		} else {
			ce, err := NewCountEstimated(p.BkgCounts, p.TauSource, p.TauBkg, ratio)
			if err != nil {
				return Result{}, err
			}
			m = ce
		}
	}

	r, err := SolveIntensity(m, p.ProbFalse, p.ProbMissed, p.MaxIter)
	if err != nil {
		return Result{}, err
	}
	// back to the caller's per-area rate convention
	r.UpperLimit /= p.AreaSource
	return r, nil
}
