package avr

// PredictAndi computes the result and status register that ANDI must
// leave behind for a register value vd and immediate vk.
//
// The status register is rebuilt from zero, so only N, S, and Z can be
// set. V is always cleared by a logical operation.
func PredictAndi(vd, vk uint8) (result uint8, sreg Sreg) {
	result = vd & vk

	v := false
	n := (result & 0x80) != 0

	sreg = sreg.With(FLAG_N, n)
	sreg = sreg.With(FLAG_S, n != v)
	sreg = sreg.With(FLAG_Z, result == 0)
	sreg = sreg.With(FLAG_V, v)

	return
}
