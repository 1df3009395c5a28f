package avr

import (
	"errors"

	"github.com/ezrec/avrregress/translate"
)

var f = translate.From

var (
	// Operand errors
	ErrInvalidOperand = errors.New(f("invalid operand"))
	ErrRegisterRange  = errors.New(f("register out of range"))
	ErrImmediateRange = errors.New(f("immediate out of range"))
)

// ErrOperand describes an operand that violates an encoder precondition.
type ErrOperand struct {
	Mnemonic string
	Operand  string
	Value    int
	Err      error
}

func (err ErrOperand) Error() string {
	return f("%v: %v %d: %v", err.Mnemonic, err.Operand, err.Value, err.Err)
}

func (err ErrOperand) Unwrap() error {
	return err.Err
}

func (err ErrOperand) Is(target error) bool {
	return target == ErrInvalidOperand
}
