package regress

import (
	"fmt"
	"strings"

	"github.com/ezrec/avrregress/avr"
)

// FailureKind is the kind of mismatch a Failure reports.
type FailureKind int

//go:generate go tool stringer -linecomment -type=FailureKind
const (
	FAIL_RESULT  = FailureKind(0) // result
	FAIL_SREG    = FailureKind(1) // sreg
	FAIL_CLOBBER = FailureKind(2) // clobber
	FAIL_SP      = FailureKind(3) // sp
	FAIL_PC      = FailureKind(4) // pc
)

// Err returns the sentinel error matching the kind.
func (kind FailureKind) Err() error {
	switch kind {
	case FAIL_RESULT:
		return ErrResultMismatch
	case FAIL_SREG:
		return ErrFlagMismatch
	case FAIL_CLOBBER:
		return ErrRegisterClobbered
	case FAIL_SP:
		return ErrSpMismatch
	case FAIL_PC:
		return ErrPcMismatch
	}
	return nil
}

// Failure is a single mismatch between the simulator and the reference
// model for a case.
type Failure struct {
	Case   Case
	Kind   FailureKind
	Reg    avr.Reg // Register compared, for FAIL_RESULT, FAIL_SREG and FAIL_CLOBBER.
	Expect uint32
	Got    uint32
}

var _ error = Failure{}

func (fail Failure) Error() string {
	c := fail.Case
	prefix := fmt.Sprintf("%v r%02d, 0x%02x", avr.MNEMONIC_ANDI, int(c.Rd), c.Vk)

	switch fail.Kind {
	case FAIL_RESULT:
		return f("%v: 0x%02x & 0x%02x = (expect=%02x, got=%02x)",
			prefix, c.Vd, c.Vk, fail.Expect, fail.Got)
	case FAIL_SREG:
		var names []string
		for _, flag := range avr.Sreg(fail.Expect).Diff(avr.Sreg(fail.Got)) {
			names = append(names, flag.String())
		}
		return f("%v: 0x%02x & 0x%02x -> SREG (expect=%02x, got=%02x) [%v]",
			prefix, c.Vd, c.Vk, fail.Expect, fail.Got, strings.Join(names, " "))
	case FAIL_CLOBBER:
		return f("%v: r%02d changed (expect=%02x, got=%02x)",
			prefix, int(fail.Reg), fail.Expect, fail.Got)
	case FAIL_SP:
		return f("%v: SP changed (expect=%04x, got=%04x)",
			prefix, fail.Expect, fail.Got)
	case FAIL_PC:
		return f("%v: PC (expect=%04x, got=%04x)",
			prefix, fail.Expect, fail.Got)
	}

	return f("%v: %v (expect=%x, got=%x)", prefix, fail.Kind, fail.Expect, fail.Got)
}

// Is matches the sentinel error of the failure's kind.
func (fail Failure) Is(target error) bool {
	return target != nil && target == fail.Kind.Err()
}

// Check compares the state after a step with the state the case was
// started from, and returns every mismatch found.
//
// Only Rd, SREG and PC may change. PC must advance by one instruction word.
func (c Case) Check(before, after avr.State) (fails []Failure) {
	exp := c.Expect()

	fail := func(kind FailureKind, reg avr.Reg, expect, got uint32) {
		fails = append(fails, Failure{Case: c, Kind: kind, Reg: reg, Expect: expect, Got: got})
	}

	if got := after.Regs[c.Rd]; got != exp.Result {
		fail(FAIL_RESULT, c.Rd, uint32(exp.Result), uint32(got))
	}

	if got := after.Regs.Sreg(); got != exp.Sreg {
		fail(FAIL_SREG, avr.REG_SREG, uint32(exp.Sreg), uint32(got))
	}

	for reg := avr.REG_R0; reg <= avr.REG_R31; reg++ {
		if reg == c.Rd {
			continue
		}
		if before.Regs[reg] != after.Regs[reg] {
			fail(FAIL_CLOBBER, reg, uint32(before.Regs[reg]), uint32(after.Regs[reg]))
		}
	}

	if before.Sp != after.Sp {
		fail(FAIL_SP, 0, uint32(before.Sp), uint32(after.Sp))
	}

	if next := before.Pc + 2; after.Pc != next {
		fail(FAIL_PC, 0, next, after.Pc)
	}

	return
}
