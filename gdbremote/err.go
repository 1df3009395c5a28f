package gdbremote

import (
	"errors"

	"github.com/ezrec/avrregress/translate"
)

var f = translate.From

var (
	// Transport errors
	ErrChecksum = errors.New(f("packet checksum"))
	ErrRetry    = errors.New(f("packet retries exhausted"))
	ErrPacket   = errors.New(f("malformed packet"))

	// Target errors
	ErrStop      = errors.New(f("unexpected stop"))
	ErrRegisters = errors.New(f("short register block"))
	ErrReplyOk   = errors.New(f("expected OK"))
)

// ErrReply is an 'Exx' error reply from the stub.
type ErrReply uint8

func (err ErrReply) Error() string {
	return f("stub error E%02x", uint8(err))
}

// ErrStopReply is a stop reply other than a SIGTRAP after a step.
type ErrStopReply string

func (err ErrStopReply) Error() string {
	return f("stop reply '%v'", string(err))
}

func (err ErrStopReply) Is(target error) bool {
	return target == ErrStop
}
