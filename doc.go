/*
Command aplimits computes source detection upper limits for aperture
photometry of Poisson count data.

Contents

Version 0.1

  Program overview
  Command line usage
  Catalog format
  Configuration file
  Algorithm outline


Program overview

Given a background expectation for a source aperture, aplimits reports two
numbers: the minimum number of counts at which a source can be claimed
without mistaking a pure background fluctuation for a detection more often
than a chosen false alarm probability, and the faintest source intensity
that would still reach that threshold with a chosen probability of a missed
detection.  The background may be supplied as a known rate, or as a count
observed in a background region, in which case the detection probability is
marginalized over the posterior distribution of the background rate.

Sample run:

  aplimits -alpha 0.1 -beta 0.5 -bgrate 3

  aplimits version 0.1 Go source.
     UpLimit  SStar
      2.6712      5

The upper limit is a rate in the units implied by the supplied areas and
exposures (counts per unit area per unit time); SStar is the minimum count
that counts as a detection.


Command line usage

Invoking the program with invalid arguments shows this usage prompt.

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

Exactly one of -bgrate and -bgcounts must be supplied.  If both are given
the rate takes precedence and a warning is printed.  Aperture areas may be
given directly with -A and -Abkg, or as circular and annular region radii
in arc seconds with -rsrc, -rbkg and -rbkgin.


Catalog format

Batch mode reads a whitespace separated catalog with one source per line,

  name  nBkg  tauSrc  areaSrc  tauBkg  areaBkg

Blank lines and lines beginning with # are ignored.  Sources are evaluated
concurrently; output lines keep catalog order.


Configuration file

The optional configuration file named with -c is a text file.  Empty lines
and lines beginning with # are ignored.  Other lines contain either the
keyword headings or noheadings, or a key = value setting for alpha, beta,
maxcounts or maxiter.  File settings override command line options.


Algorithm outline

1.  The detection threshold is the smallest count at which the background
alone produces that count or more with probability at most alpha.  It is
found by scanning counts upward from zero; the probability is the survival
function of the Poisson distribution with the background expectation.  If
even a threshold of zero satisfies the bound, 1 is reported, meaning any
count at all is significant.

2.  The upper limit is the source intensity whose detection probability at
that threshold equals beta.  The detection probability increases with
intensity, so the root is unique; it is bracketed by doubling and found by
bisection with a bounded number of evaluations.  Running out of the budget
is reported as a warning and the best estimate is still printed.

3.  With a background known only from an observed count, the flat prior on
the background rate conjugates with the Poisson likelihood into a Gamma
posterior, and each detection probability becomes an expectation over that
posterior, evaluated by the trapezoid rule on a grid sized from the
posterior's mean and standard deviation.  Above -maxcounts observed counts
the posterior is narrow enough that the point estimate model is used
instead.

-------------
Public domain.
*/
package main
