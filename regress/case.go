// Package regress builds the ANDI regression cases and checks a
// simulator's state against the reference model.
//
// Each Case is an immutable (Rd, Vd, Vk) triple. The harness applies the
// case's register overlay to the simulator, executes the case's
// instruction word once, and hands the state before and after the step
// to Check.
package regress

import (
	"fmt"
	"iter"
	"slices"

	"github.com/ezrec/avrregress/avr"
	"github.com/ezrec/avrregress/internal"
)

// ValuePair is a register value and immediate operand to test with.
type ValuePair struct {
	Vd uint8 // Initial value of Rd.
	Vk uint8 // Immediate operand.
}

// AndiValues covers the SREG transitions of ANDI.
var AndiValues = []ValuePair{
	{0x00, 0x00}, // Z
	{0xff, 0x00}, // Z, by zero immediate
	{0xfe, 0x01}, // Z, mixed bits
	{0x0f, 0x00}, // Z, by zero immediate
	{0x0f, 0xf0}, // Z, disjoint nibbles
	{0x01, 0x02}, // Z, disjoint bits
	{0x80, 0x80}, // N and S
}

// Case is a single ANDI regression case.
type Case struct {
	Rd avr.Reg // Destination register, r16-r31.
	Vd uint8   // Initial value of Rd.
	Vk uint8   // Immediate operand.
}

// Expect is the state the reference model predicts for a case.
type Expect struct {
	Result uint8    // Value of Rd after the step.
	Sreg   avr.Sreg // Status register after the step.
}

// Overlay is a set of register values to apply before the step.
type Overlay map[avr.Reg]uint8

// Apply writes the overlay into a register file.
func (ov Overlay) Apply(rf *avr.RegisterFile) {
	for reg, val := range ov {
		rf[reg] = val
	}
}

// Name returns the unique name of the case.
func (c Case) Name() string {
	return fmt.Sprintf("%v_r%02d_v%02x_k%02x", avr.MNEMONIC_ANDI, int(c.Rd), c.Vd, c.Vk)
}

// String returns the case as assembly language with its input.
func (c Case) String() string {
	return fmt.Sprintf("%v r%02d, 0x%02x", avr.MNEMONIC_ANDI, int(c.Rd), c.Vk)
}

// Setup returns the register overlay for the case. Only V is set in SREG,
// so the step must be seen to clear it.
func (c Case) Setup() Overlay {
	return Overlay{
		c.Rd:         c.Vd,
		avr.REG_SREG: uint8(avr.FLAG_V.Mask()),
	}
}

// Code returns the instruction word for the case.
func (c Case) Code() (avr.Code, error) {
	return avr.MakeCodeAndi(c.Rd, int(c.Vk))
}

// Expect returns the reference model's prediction for the case.
func (c Case) Expect() (exp Expect) {
	exp.Result, exp.Sreg = avr.PredictAndi(c.Vd, c.Vk)
	return
}

// Cases crosses every register from r16 to r31 with each value pair.
// With no values, AndiValues is used.
func Cases(values ...ValuePair) iter.Seq[Case] {
	if len(values) == 0 {
		values = AndiValues
	}
	values = slices.Clone(values)

	return func(yield func(Case) bool) {
		regs := internal.IterSeqRange(avr.REG_R16, avr.REG_R31)
		for rd, vp := range internal.IterSeqProduct(regs, slices.Values(values)) {
			if !yield(Case{Rd: rd, Vd: vp.Vd, Vk: vp.Vk}) {
				return
			}
		}
	}
}

// AllCases returns the default regression suite.
func AllCases() []Case {
	return slices.Collect(Cases())
}
