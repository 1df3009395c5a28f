package regress

import (
	"context"
	"iter"
	"log"
	"time"

	"github.com/ezrec/avrregress/avr"
)

// Target is the simulator under test.
type Target interface {
	// ReadState reads the register file, SP and PC.
	ReadState(ctx context.Context) (avr.State, error)
	// WriteState replaces the register file, SP and PC.
	WriteState(ctx context.Context, st avr.State) error
	// Step places the instruction at PC and executes exactly one instruction.
	Step(ctx context.Context, code avr.Code) error
}

// Result is the outcome of a single case.
type Result struct {
	Case     Case
	Failures []Failure
}

// Passed returns true if the case had no failures.
func (res Result) Passed() bool {
	return len(res.Failures) == 0
}

// Summary counts the outcomes of a run.
type Summary struct {
	Passed int
	Failed int
}

// Total returns the number of cases run.
func (sum Summary) Total() int {
	return sum.Passed + sum.Failed
}

// Runner runs cases against a Target. It is not safe for concurrent use,
// as the target has a single register file.
type Runner struct {
	Verbose bool          // If set, logs each case and its failures.
	Target  Target        // Simulator under test.
	Timeout time.Duration // Deadline for each case in RunAll, if non-zero.
}

// Run executes one case and compares the simulator against the reference
// model. Mismatches are returned as failures; err is set only when the
// case could not be run at all.
func (run *Runner) Run(ctx context.Context, c Case) (fails []Failure, err error) {
	defer func() {
		if err != nil {
			err = &ErrRun{Case: c, Err: err}
		}
	}()

	code, err := c.Code()
	if err != nil {
		return
	}

	before, err := run.Target.ReadState(ctx)
	if err != nil {
		return
	}

	c.Setup().Apply(&before.Regs)

	err = run.Target.WriteState(ctx, before)
	if err != nil {
		return
	}

	if run.Verbose {
		log.Printf("regress: %v: %06x: %v", c.Name(), before.Pc, code)
	}

	err = run.Target.Step(ctx, code)
	if err != nil {
		return
	}

	after, err := run.Target.ReadState(ctx)
	if err != nil {
		return
	}

	fails = c.Check(before, after)

	if run.Verbose {
		if len(fails) == 0 {
			log.Printf("regress: %v ok", c.Name())
		}
		for _, fail := range fails {
			log.Printf("regress: %v FAIL %v", c.Name(), fail)
		}
	}

	return
}

// RunAll runs every case, reporting each result as it completes. A case
// that fails does not stop the run; a Target error or a cancelled context
// does.
func (run *Runner) RunAll(ctx context.Context, cases iter.Seq[Case], report func(Result)) (sum Summary, err error) {
	for c := range cases {
		err = ctx.Err()
		if err != nil {
			return
		}

		var fails []Failure
		fails, err = run.runCase(ctx, c)
		if err != nil {
			return
		}

		res := Result{Case: c, Failures: fails}
		if res.Passed() {
			sum.Passed++
		} else {
			sum.Failed++
		}

		if report != nil {
			report(res)
		}
	}

	return
}

// runCase runs one case under the runner's timeout.
func (run *Runner) runCase(ctx context.Context, c Case) (fails []Failure, err error) {
	if run.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, run.Timeout)
		defer cancel()
	}

	return run.Run(ctx, c)
}
