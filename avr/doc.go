// Package avr models the slice of the AVR core needed to check the ANDI
// instruction on a simulator.
//
// The register file holds the 32 general-purpose registers r0-r31 and the
// status register (SREG). SREG is addressed by flag bit position, never
// by raw byte arithmetic. The package packs ANDI into its 16-bit
// instruction word and predicts the result and SREG it must produce, so
// that a harness can compare the simulator's state after one step.
package avr
