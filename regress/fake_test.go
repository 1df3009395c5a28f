package regress

import (
	"context"
	"errors"

	"github.com/ezrec/avrregress/avr"
)

var errFakeOffline = errors.New("fake target offline")

// fakeTarget is an in-memory simulator that only knows ANDI. The fault
// fields break it in specific ways.
type fakeTarget struct {
	state avr.State

	steps  int
	offAt  int  // Fail the Nth step (1-based) with errFakeOffline, if non-zero.
	orBug  bool // Computes OR instead of AND.
	keepV  bool // Leaves V set.
	noZ    bool // Never sets Z.
	spill  bool // Also writes the result to r0.
	hang   bool // Step blocks until the context is done.
	pcStep uint32
	spBump uint16
}

func newFakeTarget() *fakeTarget {
	ft := &fakeTarget{pcStep: 2}
	ft.state.Sp = 0x10ff
	for n := range 32 {
		ft.state.Regs[n] = uint8(0xa0 + n)
	}
	return ft
}

func (ft *fakeTarget) ReadState(ctx context.Context) (avr.State, error) {
	return ft.state, nil
}

func (ft *fakeTarget) WriteState(ctx context.Context, st avr.State) error {
	ft.state = st
	return nil
}

func (ft *fakeTarget) Step(ctx context.Context, code avr.Code) error {
	ft.steps++
	if ft.hang {
		<-ctx.Done()
		return ctx.Err()
	}
	if ft.offAt != 0 && ft.steps == ft.offAt {
		return errFakeOffline
	}

	rd, k, ok := code.AndiDecode()
	if !ok {
		return errors.New("fake target: unknown opcode")
	}

	regs := &ft.state.Regs
	result := regs[rd] & k
	if ft.orBug {
		result = regs[rd] | k
	}
	regs[rd] = result
	if ft.spill {
		regs[avr.REG_R0] = result
	}

	sreg := regs.Sreg()
	sreg = sreg.With(avr.FLAG_V, ft.keepV && sreg.Flag(avr.FLAG_V))
	sreg = sreg.With(avr.FLAG_N, result&0x80 != 0)
	sreg = sreg.With(avr.FLAG_S, sreg.Flag(avr.FLAG_N) != sreg.Flag(avr.FLAG_V))
	sreg = sreg.With(avr.FLAG_Z, result == 0 && !ft.noZ)
	regs.SetSreg(sreg)

	ft.state.Pc += ft.pcStep
	ft.state.Sp += ft.spBump

	return nil
}
