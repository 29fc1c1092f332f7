// Public domain.

package approg

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"runtime"
	"strconv"
	"strings"

	"github.com/soniakeys/exit"

	"github.com/DougBurke/ciao-contrib/limits"
)

// source is one catalog line: a named source with its background count and
// the exposures and areas of its apertures.
type source struct {
	name    string
	nBkg    int
	tauSrc  float64
	areaSrc float64
	tauBkg  float64
	areaBkg float64
}

type srcSeq struct {
	s   *source
	rch chan string
}

// runBatch computes limits for every source in a catalog, concurrently but
// printing results in catalog order.
func runBatch(cl *commandLine, cfg *config) {
	var f *os.File
	if cl.fnCatalog == "-" {
		f = os.Stdin
	} else {
		var err error
		f, err = os.Open(cl.fnCatalog)
		if err != nil {
			exit.Log(err)
		}
		defer f.Close()
	}

	srcCh := make(chan *source)
	errCh := make(chan error)
	go splitter(f, srcCh, errCh)

	// prCh keeps processed results in submission order.  buffered so a
	// fast worker can drop off its result without waiting for workers
	// ahead of it.
	maxWorkers := runtime.GOMAXPROCS(0)
	prCh := make(chan chan string, maxWorkers*2)
	srcChSeq := make(chan *srcSeq)

	// dispatcher.  for each source, attach a return channel that works
	// like a ticket for picking up the result, queue the source for a
	// worker and the ticket for printing.
	go func() {
		for s := range srcCh {
			rch := make(chan string, 1)
			srcChSeq <- &srcSeq{s, rch}
			prCh <- rch
		}
		close(prCh)
	}()

	// start workers on demand, up to maxWorkers.
	go func() {
		for n := 0; n < maxWorkers; n++ {
			s, ok := <-srcChSeq
			if !ok {
				return
			}
			go solve(cl, cfg, s, srcChSeq)
		}
	}()

	w := outputWriter(cl)
	if cfg.headings {
		fmt.Fprintln(w, versionString)
		fmt.Fprintln(w, "Source          UpLimit  SStar")
	}
	for {
		select {
		case err := <-errCh:
			exit.Log(err)
		case rch, ok := <-prCh:
			if !ok {
				return
			}
			select {
			case err := <-errCh:
				exit.Log(err)
			case r := <-rch:
				fmt.Fprintln(w, r)
			}
		}
	}
}

// splitter parses catalog lines and feeds sources to the dispatcher.
// Blank lines and # comments are skipped.  A malformed line stops the run.
func splitter(r io.Reader, srcCh chan *source, errCh chan error) {
	scn := bufio.NewScanner(r)
	for n := 1; scn.Scan(); n++ {
		line := strings.TrimSpace(scn.Text())
		if line == "" || line[0] == '#' {
			continue
		}
		s, err := parseSource(line)
		if err != nil {
			errCh <- fmt.Errorf("catalog line %d: %w", n, err)
			return
		}
		srcCh <- s
	}
	if err := scn.Err(); err != nil {
		errCh <- err
		return
	}
	close(srcCh)
}

// parseSource parses one catalog line:
//
//	name  nBkg  tauSrc  areaSrc  tauBkg  areaBkg
func parseSource(line string) (*source, error) {
	f := strings.Fields(line)
	if len(f) != 6 {
		return nil, fmt.Errorf("expected 6 fields, got %d", len(f))
	}
	var s source
	s.name = f[0]
	var err error
	if s.nBkg, err = strconv.Atoi(f[1]); err != nil {
		return nil, fmt.Errorf("background counts: %w", err)
	}
	fl := []*float64{&s.tauSrc, &s.areaSrc, &s.tauBkg, &s.areaBkg}
	for i, p := range fl {
		if *p, err = strconv.ParseFloat(f[i+2], 64); err != nil {
			return nil, err
		}
	}
	return &s, nil
}

// worker.  the first source to solve is waiting in s; more are requested
// by receiving from srcCh until the program shuts down.
func solve(cl *commandLine, cfg *config, s *srcSeq, srcCh chan *srcSeq) {
	for ; ; s = <-srcCh {
		p := limits.Params{
			ProbFalse:  cfg.alpha,
			ProbMissed: cfg.beta,
			TauSource:  s.s.tauSrc,
			AreaSource: s.s.areaSrc,
			HaveCounts: true,
			BkgCounts:  s.s.nBkg,
			TauBkg:     s.s.tauBkg,
			AreaBkg:    s.s.areaBkg,
			MaxCounts:  cfg.maxCounts,
			MaxIter:    cfg.maxIter,
		}
		r, err := limits.Limits(p)
		if err != nil {
			s.rch <- fmt.Sprintf("%-12s %s", s.s.name, err)
			continue
		}
		s.rch <- fmt.Sprintf("%-12s %10.5g %6d", s.s.name, r.UpperLimit, r.SStar)
	}
}
