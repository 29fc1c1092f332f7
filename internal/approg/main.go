// Public domain.

// Package approg implements the aplimits command.
package approg

import (
	"flag"
	"fmt"
	"os"

	"github.com/rs/zerolog"
	"github.com/soniakeys/exit"
	"github.com/soniakeys/unit"

	"github.com/DougBurke/ciao-contrib/aperture"
	"github.com/DougBurke/ciao-contrib/limits"
)

const versionString = "aplimits version 0.1 Go source."
const copyrightString = "Public domain."

func Main() {
	defer exit.Handler()

	// warnings from the limits package go to stderr in console form
	limits.Log = zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).
		With().Timestamp().Logger()

	cl := parseCommandLine()
	cfg := readConfig(cl)

	if cl.fnCatalog == "" {
		runSingle(cl, cfg)
		return
	}
	runBatch(cl, cfg)
}

type commandLine struct {
	cfgFile   string // -c
	fnOut     string // -o
	fnCatalog string // positional, "" for single shot mode

	alpha, beta  float64
	tauSrc       float64
	areaSrc      float64
	rSrc         float64 // source radius, arcsec; alternative to areaSrc
	bgRate       float64
	bgCounts     int
	tauBkg       float64
	areaBkg      float64
	rBkg, rBkgIn float64 // background annulus radii, arcsec
	maxCounts    int
	maxIter      int

	set map[string]bool // flags present on the command line
}

func parseCommandLine() *commandLine {
	var cl commandLine
	dv := flag.Bool("v", false, "")
	flag.StringVar(&cl.cfgFile, "c", "", "")
	flag.StringVar(&cl.fnOut, "o", "", "")
	flag.Float64Var(&cl.alpha, "alpha", .1, "")
	flag.Float64Var(&cl.beta, "beta", .5, "")
	flag.Float64Var(&cl.tauSrc, "T", 1, "")
	flag.Float64Var(&cl.areaSrc, "A", 1, "")
	flag.Float64Var(&cl.rSrc, "rsrc", 0, "")
	flag.Float64Var(&cl.bgRate, "bgrate", 0, "")
	flag.IntVar(&cl.bgCounts, "bgcounts", 0, "")
	flag.Float64Var(&cl.tauBkg, "Tbkg", 1, "")
	flag.Float64Var(&cl.areaBkg, "Abkg", 1, "")
	flag.Float64Var(&cl.rBkg, "rbkg", 0, "")
	flag.Float64Var(&cl.rBkgIn, "rbkgin", 0, "")
	flag.IntVar(&cl.maxCounts, "maxcounts", limits.DefaultMaxCounts, "")
	flag.IntVar(&cl.maxIter, "maxiter", limits.DefaultMaxIter, "")
	flag.Usage = func() {
		os.Stderr.WriteString(`
Usage: aplimits [options]              single upper limit from options
       aplimits [options] <catalog>    upper limits for a source catalog
       aplimits [options] -            read catalog from stdin
       aplimits -h                     display help
       aplimits -v                     display version and copyright

Options:
       -alpha <prob>      false detection probability
       -beta <prob>       missed detection probability
       -T <time>          source exposure
       -A <area>          source aperture area
       -rsrc <arcsec>     source aperture radius, alternative to -A
       -bgrate <rate>     known background rate per unit area and time
       -bgcounts <n>      counts observed in the background region
       -Tbkg <time>       background region exposure
       -Abkg <area>       background region area
       -rbkg <arcsec>     background annulus outer radius
       -rbkgin <arcsec>   background annulus inner radius
       -maxcounts <n>     cutover from marginalized to point estimate model
       -maxiter <n>       upper limit root search budget
       -c <config-file>
       -o <output-file>
`)
	}
	flag.Parse()
	switch {
	case *dv:
		fmt.Println(versionString)
		fmt.Println(copyrightString)
		os.Exit(0)
	case flag.NArg() > 1:
		flag.Usage()
		os.Exit(1)
	}
	cl.fnCatalog = flag.Arg(0)
	cl.set = make(map[string]bool)
	flag.Visit(func(f *flag.Flag) { cl.set[f.Name] = true })
	return &cl
}

// srcArea resolves the source aperture area, preferring an explicit area
// over a radius.
func (cl *commandLine) srcArea() (float64, error) {
	if cl.set["rsrc"] && !cl.set["A"] {
		return aperture.Circle(unit.AngleFromSec(cl.rSrc))
	}
	return cl.areaSrc, nil
}

// bkgArea resolves the background region area the same way, allowing an
// annulus when an inner radius is given.
func (cl *commandLine) bkgArea() (float64, error) {
	if cl.set["rbkg"] && !cl.set["Abkg"] {
		return aperture.Annulus(
			unit.AngleFromSec(cl.rBkgIn), unit.AngleFromSec(cl.rBkg))
	}
	return cl.areaBkg, nil
}

// params assembles limit computation parameters from command line and
// config file settings.  Background counts and exposure come from the
// catalog in batch mode, from flags otherwise.
func (cl *commandLine) params(cfg *config) (limits.Params, error) {
	srcArea, err := cl.srcArea()
	if err != nil {
		return limits.Params{}, err
	}
	bkgArea, err := cl.bkgArea()
	if err != nil {
		return limits.Params{}, err
	}
	return limits.Params{
		ProbFalse:  cfg.alpha,
		ProbMissed: cfg.beta,
		TauSource:  cl.tauSrc,
		AreaSource: srcArea,
		BkgRate:    cl.bgRate,
		HaveRate:   cl.set["bgrate"],
		BkgCounts:  cl.bgCounts,
		HaveCounts: cl.set["bgcounts"],
		TauBkg:     cl.tauBkg,
		AreaBkg:    bkgArea,
		MaxCounts:  cfg.maxCounts,
		MaxIter:    cfg.maxIter,
	}, nil
}

func runSingle(cl *commandLine, cfg *config) {
	p, err := cl.params(cfg)
	if err != nil {
		exit.Log(err)
	}
	r, err := limits.Limits(p)
	if err != nil {
		exit.Log(err)
	}
	w := outputWriter(cl)
	if cfg.headings {
		fmt.Fprintln(w, versionString)
		fmt.Fprintln(w, "   UpLimit  SStar")
	}
	fmt.Fprintf(w, "%10.5g %6d\n", r.UpperLimit, r.SStar)
}

// outputWriter opens -o for writing, or returns stdout.
func outputWriter(cl *commandLine) *os.File {
	if cl.fnOut == "" {
		return os.Stdout
	}
	f, err := os.Create(cl.fnOut)
	if err != nil {
		exit.Log(err)
	}
	return f
}
