// Public domain.

package approg

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"regexp"
	"strconv"
	"strings"

	"github.com/soniakeys/exit"
)

// config holds settings that may come from the command line or a config
// file.  Command line values seed the defaults; config file lines override.
type config struct {
	headings  bool
	alpha     float64
	beta      float64
	maxCounts int
	maxIter   int
}

var rxKeyValue = regexp.MustCompile(`^[ \t]*(.*?)[ \t]*=[ \t]*(.+)$`)

// readConfig applies the optional config file over command line settings.
// A file specified with -c must exist; without -c there is no default file.
func readConfig(cl *commandLine) *config {
	cfg := &config{
		headings:  true,
		alpha:     cl.alpha,
		beta:      cl.beta,
		maxCounts: cl.maxCounts,
		maxIter:   cl.maxIter,
	}
	if cl.cfgFile == "" {
		return cfg
	}
	f, err := os.Open(cl.cfgFile)
	if err != nil {
		exit.Log(err)
	}
	defer f.Close()
	if err := cfg.read(f); err != nil {
		exit.Log(err)
	}
	return cfg
}

func (cfg *config) read(r io.Reader) error {
	for lr := bufio.NewReader(r); ; {
		l, isPre, err := lr.ReadLine()
		switch {
		case err == io.EOF:
			return nil
		case err != nil:
			return err
		case isPre:
			return fmt.Errorf("unexpected long line in config file")
		case len(l) == 0:
			continue
		case l[0] == '#':
			continue
		}
		ls := string(l)
		switch ls {
		case "headings":
			cfg.headings = true
			continue
		case "noheadings":
			cfg.headings = false
			continue
		}
		if err := cfg.parseKeyValue(ls); err != nil {
			return fmt.Errorf("%w\nconfig file line: %s", err, ls)
		}
	}
}

func (cfg *config) parseKeyValue(ls string) error {
	ss := rxKeyValue.FindStringSubmatch(ls)
	if len(ss) != 3 {
		return fmt.Errorf("unrecognized line in config file")
	}
	switch key := strings.ToLower(ss[1]); key {
	case "alpha", "beta":
		v, err := strconv.ParseFloat(ss[2], 64)
		if err != nil {
			return err
		}
		if !(v > 0 && v < 1) {
			return fmt.Errorf("%s must be inside (0,1)", key)
		}
		if key == "alpha" {
			cfg.alpha = v
		} else {
			cfg.beta = v
		}
	case "maxcounts", "maxiter":
		v, err := strconv.Atoi(ss[2])
		if err != nil {
			return err
		}
		if v < 1 {
			return fmt.Errorf("%s must be positive", key)
		}
		if key == "maxcounts" {
			cfg.maxCounts = v
		} else {
			cfg.maxIter = v
		}
	default:
		return fmt.Errorf("unrecognized config keyword %q", ss[1])
	}
	return nil
}
