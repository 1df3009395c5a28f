package avr

import (
	"fmt"
)

// Instruction mnemonics.
const (
	MNEMONIC_ANDI = "ANDI"
)

// Opcode prefixes and masks.
const (
	OP_ANDI      = uint16(0b0111 << 12) // 0111 KKKK dddd KKKK
	OP_ANDI_MASK = uint16(0b1111 << 12) // Fixed bits of ANDI.
)

// Code is a single 16-bit instruction word.
type Code uint16

// MakeCodeAndi creates an ANDI Rd, K instruction.
//
// Rd must be one of r16-r31, and K must fit in 8 bits. The immediate is
// split around the register index:
//
//	15    12 11     8 7      4 3      0
//	| 0111  | K[7:4] | d[3:0] | K[3:0] |
func MakeCodeAndi(rd Reg, k int) (code Code, err error) {
	if !rd.Upper() {
		err = ErrOperand{Mnemonic: MNEMONIC_ANDI, Operand: "Rd", Value: int(rd), Err: ErrRegisterRange}
		return
	}
	if k < 0 || k > 0xff {
		err = ErrOperand{Mnemonic: MNEMONIC_ANDI, Operand: "K", Value: k, Err: ErrImmediateRange}
		return
	}

	d := uint16(rd-REG_R16) & 0xf
	imm := uint16(k)

	code = Code(OP_ANDI | ((imm & 0xf0) << 4) | (d << 4) | (imm & 0x0f))

	return
}

// IsAndi returns true if the instruction word is an ANDI.
func (code Code) IsAndi() bool {
	return (uint16(code) & OP_ANDI_MASK) == OP_ANDI
}

// AndiDecode decodes the destination register and immediate of an ANDI.
func (code Code) AndiDecode() (rd Reg, k uint8, ok bool) {
	if !code.IsAndi() {
		return
	}

	word := uint16(code)
	rd = REG_R16 + Reg((word>>4)&0xf)
	k = uint8(((word >> 4) & 0xf0) | (word & 0x0f))
	ok = true

	return
}

// Bytes returns the instruction as it is laid out in flash.
func (code Code) Bytes() []byte {
	return []byte{byte(code), byte(code >> 8)}
}

// String returns the assembly language representation of this instruction.
func (code Code) String() string {
	rd, k, ok := code.AndiDecode()
	if !ok {
		return fmt.Sprintf(".word 0x%04x", uint16(code))
	}

	return fmt.Sprintf("andi %v, 0x%02x", rd, k)
}
