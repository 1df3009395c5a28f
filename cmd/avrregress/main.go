// Copyright 2025, Jason S. McMullan <jason.mcmullan@gmail.com>

package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"iter"
	"log"
	"os"
	"regexp"
	"time"

	"golang.org/x/term"

	"github.com/ezrec/avrregress/gdbremote"
	"github.com/ezrec/avrregress/regress"
	"github.com/ezrec/avrregress/translate"
)

var f = translate.From

const (
	EXIT_FAILED = 1 // Some case failed.
	EXIT_ERROR  = 2 // Usage or target error.
)

// marker formats the per-case pass/fail marker, in color on a terminal.
type marker struct {
	color bool
}

func (mk marker) mark(passed bool) string {
	switch {
	case passed && mk.color:
		return "\x1b[32mok\x1b[0m"
	case passed:
		return "ok"
	case mk.color:
		return "\x1b[31mFAIL\x1b[0m"
	}
	return "FAIL"
}

// filterCases yields the cases whose names match re.
func filterCases(cases iter.Seq[regress.Case], re *regexp.Regexp) iter.Seq[regress.Case] {
	if re == nil {
		return cases
	}
	return func(yield func(regress.Case) bool) {
		for c := range cases {
			if re.MatchString(c.Name()) && !yield(c) {
				return
			}
		}
	}
}

// report writes one result, with each failure on its own line.
func report(out io.Writer, mk marker, res regress.Result) {
	fmt.Fprintf(out, "%-4s %v\n", mk.mark(res.Passed()), res.Case.Name())
	for _, fail := range res.Failures {
		fmt.Fprintf(out, "     %v\n", fail)
	}
}

func main() {
	var target string
	var config string
	var match string
	var list bool
	var timeout time.Duration
	var verbose bool

	flag.StringVar(&target, "t", "localhost:1212", "simulavr gdb server address")
	flag.StringVar(&config, "c", "", ".star value table to use")
	flag.StringVar(&match, "r", "", "Only run cases matching this regexp")
	flag.BoolVar(&list, "l", false, "List case names, do not run")
	flag.DurationVar(&timeout, "timeout", 5*time.Second, "Deadline for each case")
	flag.BoolVar(&verbose, "v", false, "Verbose mode")

	flag.Parse()

	if flag.NArg() != 0 {
		log.Printf("%v: %v", os.Args[0], f("Unknown arguments: %v", flag.Args()))
		os.Exit(EXIT_ERROR)
	}

	values := regress.AndiValues
	if len(config) != 0 {
		var err error
		values, err = regress.LoadValues(config, nil)
		if err != nil {
			log.Printf("%v", err)
			os.Exit(EXIT_ERROR)
		}
	}

	var re *regexp.Regexp
	if len(match) != 0 {
		var err error
		re, err = regexp.Compile(match)
		if err != nil {
			log.Printf("-r %v: %v", match, err)
			os.Exit(EXIT_ERROR)
		}
	}

	cases := filterCases(regress.Cases(values...), re)

	if list {
		for c := range cases {
			fmt.Println(c.Name())
		}
		return
	}

	ctx := context.Background()

	dialCtx, cancel := context.WithTimeout(ctx, timeout)
	cl, err := gdbremote.Dial(dialCtx, target)
	cancel()
	if err != nil {
		log.Printf("%v: %v", target, err)
		os.Exit(EXIT_ERROR)
	}
	cl.Verbose = verbose

	run := &regress.Runner{
		Verbose: verbose,
		Target:  cl,
		Timeout: timeout,
	}

	mk := marker{color: term.IsTerminal(int(os.Stdout.Fd()))}

	sum, err := run.RunAll(ctx, cases, func(res regress.Result) {
		report(os.Stdout, mk, res)
	})

	detachCtx, cancel := context.WithTimeout(ctx, timeout)
	derr := cl.Detach(detachCtx)
	cancel()
	if derr != nil && verbose {
		log.Printf("%v: %v", target, derr)
	}
	cl.Close()

	fmt.Println(f("%d passed, %d failed, %d total", sum.Passed, sum.Failed, sum.Total()))

	if err != nil {
		log.Printf("%v: %v", target, err)
		os.Exit(EXIT_ERROR)
	}

	if sum.Failed != 0 {
		os.Exit(EXIT_FAILED)
	}
}
