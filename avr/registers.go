package avr

import (
	"fmt"
	"strings"
)

// Reg identifies a register in the register file.
type Reg int

const (
	REG_R0    = Reg(0)  // First general purpose register.
	REG_R16   = Reg(16) // First register usable with immediate opcodes.
	REG_R31   = Reg(31) // Last general purpose register.
	REG_SREG  = Reg(32) // Status register.
	REG_COUNT = 33      // Registers in a RegisterFile.
)

// String returns the assembler name of the register.
func (reg Reg) String() string {
	switch {
	case reg == REG_SREG:
		return "sreg"
	case reg >= REG_R0 && reg <= REG_R31:
		return fmt.Sprintf("r%d", int(reg))
	}

	return fmt.Sprintf("Reg(%d)", int(reg))
}

// Upper returns true if the register is one of r16-r31.
func (reg Reg) Upper() bool {
	return reg >= REG_R16 && reg <= REG_R31
}

// RegisterFile maps each register to its 8-bit value.
type RegisterFile [REG_COUNT]uint8

// Sreg returns the status register.
func (rf *RegisterFile) Sreg() Sreg {
	return Sreg(rf[REG_SREG])
}

// SetSreg sets the status register.
func (rf *RegisterFile) SetSreg(sreg Sreg) {
	rf[REG_SREG] = uint8(sreg)
}

// Flag is a bit position in the status register.
type Flag int

//go:generate go tool stringer -linecomment -type=Flag
const (
	FLAG_C = Flag(0) // C
	FLAG_Z = Flag(1) // Z
	FLAG_N = Flag(2) // N
	FLAG_V = Flag(3) // V
	FLAG_S = Flag(4) // S
	FLAG_H = Flag(5) // H
	FLAG_T = Flag(6) // T
	FLAG_I = Flag(7) // I
)

// Sreg is the contents of the status register.
type Sreg uint8

// Mask returns the SREG bit for a flag.
func (flag Flag) Mask() Sreg {
	return Sreg(1) << uint(flag)
}

// Flag returns true if the flag is set.
func (sreg Sreg) Flag(flag Flag) bool {
	return (sreg & flag.Mask()) != 0
}

// With returns a copy of sreg with the flag set or cleared.
func (sreg Sreg) With(flag Flag, on bool) Sreg {
	if on {
		return sreg | flag.Mask()
	}
	return sreg &^ flag.Mask()
}

// Diff returns the flags that differ between two status registers, from
// bit 0 upwards.
func (sreg Sreg) Diff(other Sreg) (flags []Flag) {
	for n := FLAG_C; n <= FLAG_I; n++ {
		if sreg.Flag(n) != other.Flag(n) {
			flags = append(flags, n)
		}
	}
	return
}

// String returns the flags from I down to C, set flags in upper case.
func (sreg Sreg) String() string {
	var sb strings.Builder
	for n := FLAG_I; n >= FLAG_C; n-- {
		name := n.String()
		if !sreg.Flag(n) {
			name = strings.ToLower(name)
		}
		sb.WriteString(name)
	}
	return sb.String()
}

// State is the observable CPU state of a simulator.
type State struct {
	Regs RegisterFile // r0-r31 and SREG.
	Sp   uint16       // Stack pointer.
	Pc   uint32       // Program counter, as a byte address.
}

// String returns the state as a register dump.
func (st State) String() (text string) {
	for row := 0; row < 32; row += 8 {
		text += fmt.Sprintf("r%02d:", row)
		for _, val := range st.Regs[row : row+8] {
			text += fmt.Sprintf(" %02x", val)
		}
		text += "\n"
	}
	text += fmt.Sprintf("sreg: %v  sp: %04x  pc: %06x\n", st.Regs.Sreg(), st.Sp, st.Pc)

	return
}
