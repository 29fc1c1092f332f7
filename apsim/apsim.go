/*
Command apsim checks aplimits results by Monte Carlo simulation.

Given a background rate, a candidate source intensity, and a detection
threshold, apsim draws Poisson counts for the background alone and for
background plus source, and reports the fraction of background draws
mistaken for detections and the fraction of source draws detected, next to
the analytic probabilities used by aplimits.

Usage:

   apsim [options]

Options:

   -b <rate>    background rate in the source aperture (per unit time)
   -s <rate>    source intensity (per unit time)
   -t <count>   detection threshold (counts above threshold are detections)
   -T <time>    exposure
   -n <trials>  number of Monte Carlo draws
   -seed <n>    random seed; 0 seeds from the clock

Example, checking the threshold and limit reported by
aplimits -alpha 0.1 -beta 0.5 -bgrate 3:

   apsim -b 3 -s 2.6712 -t 5 -n 1000000

-------------
Public domain.
*/
package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"time"

	xrand "golang.org/x/exp/rand"
	"gonum.org/v1/gonum/stat/distuv"

	"github.com/DougBurke/ciao-contrib/limits"
)

const versionString = "apsim version 0.1"
const copyrightString = "Public domain."

func main() {
	b := flag.Float64("b", 1, "")
	s := flag.Float64("s", 1, "")
	t := flag.Int("t", 1, "")
	tau := flag.Float64("T", 1, "")
	n := flag.Int("n", 100000, "")
	seed := flag.Uint64("seed", 0, "")
	v := flag.Bool("v", false, "")
	flag.Usage = func() {
		os.Stderr.WriteString(`Usage: apsim [options]
Options:
   -b <rate>    background rate in the source aperture
   -s <rate>    source intensity
   -t <count>   detection threshold
   -T <time>    exposure
   -n <trials>  number of Monte Carlo draws
   -seed <n>    random seed; 0 seeds from the clock
`)
	}
	flag.Parse()
	if *v {
		fmt.Println(versionString)
		fmt.Println(copyrightString)
		os.Exit(0)
	}
	switch {
	case *b < 0:
		log.Fatal("background rate must be non-negative")
	case *s < 0:
		log.Fatal("source intensity must be non-negative")
	case *t < 0:
		log.Fatal("threshold must be non-negative")
	case *tau <= 0:
		log.Fatal("exposure must be positive")
	case *n < 1:
		log.Fatal("at least one trial required")
	}

	src := &xrand.PCGSource{}
	if *seed == 0 {
		src.Seed(uint64(time.Now().UnixNano()))
	} else {
		src.Seed(*seed)
	}

	falseAlarm := detectFraction(*b**tau, *t, *n, src)
	detected := detectFraction((*b+*s)**tau, *t, *n, src)

	m, err := limits.NewKnownRate(*b, *tau, 0, 1)
	if err != nil {
		log.Fatal(err)
	}

	fmt.Println(versionString)
	fmt.Printf("threshold %d, exposure %g, %d trials\n", *t, *tau, *n)
	fmt.Printf("                  empirical   analytic\n")
	fmt.Printf("false alarm rate  %9.5f  %9.5f\n",
		falseAlarm, m.DetectionProbability(0, *t))
	fmt.Printf("detection rate    %9.5f  %9.5f\n",
		detected, m.DetectionProbability(*s, *t))
}

// detectFraction draws Poisson counts with the passed mean and returns the
// fraction exceeding the threshold.
func detectFraction(mean float64, threshold, trials int, src xrand.Source) float64 {
	if mean <= 0 {
		return 0
	}
	p := distuv.Poisson{Lambda: mean, Src: src}
	hits := 0
	for i := 0; i < trials; i++ {
		if int(p.Rand()) >= threshold+1 {
			hits++
		}
	}
	return float64(hits) / float64(trials)
}
