package regress

import (
	"errors"

	"github.com/ezrec/avrregress/translate"
)

var f = translate.From

var (
	// Comparison errors
	ErrResultMismatch    = errors.New(f("result mismatch"))
	ErrFlagMismatch      = errors.New(f("sreg mismatch"))
	ErrRegisterClobbered = errors.New(f("register clobbered"))
	ErrSpMismatch        = errors.New(f("sp mismatch"))
	ErrPcMismatch        = errors.New(f("pc mismatch"))

	// Value table errors
	ErrConfigMissing = errors.New(f("neither vals nor extra defined"))
	ErrConfigType    = errors.New(f("expected a sequence of (vd, vk) pairs"))
	ErrConfigRange   = errors.New(f("value out of range 0..255"))
)

// ErrRun indicates the case that was running when the target failed.
type ErrRun struct {
	Case Case
	Err  error
}

func (err *ErrRun) Error() string {
	return f("%v: %v", err.Case.Name(), err.Err)
}

func (err *ErrRun) Unwrap() error {
	return err.Err
}

// ErrConfig indicates a value table script that could not be used.
type ErrConfig struct {
	Filename string
	Err      error
}

func (err *ErrConfig) Error() string {
	return f("%v: %v", err.Filename, err.Err)
}

func (err *ErrConfig) Unwrap() error {
	return err.Err
}
