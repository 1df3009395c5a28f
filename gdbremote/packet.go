package gdbremote

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
)

const (
	MAX_RETRY = 3 // Attempts to send or receive one packet.
)

// checksum is the modulo 256 sum of a packet payload.
func checksum(payload []byte) (sum uint8) {
	for _, b := range payload {
		sum += b
	}
	return
}

// encodePacket frames a payload as '$payload#cs'.
func encodePacket(payload string) []byte {
	return fmt.Appendf(nil, "$%v#%02x", payload, checksum([]byte(payload)))
}

// readPacket reads the next '$payload#cs' frame, skipping anything before
// the '$'. It returns the raw payload and whether the checksum matched.
func readPacket(rd *bufio.Reader) (payload []byte, ok bool, err error) {
	for {
		var b byte
		b, err = rd.ReadByte()
		if err != nil {
			return
		}
		if b == '$' {
			break
		}
	}

	payload, err = rd.ReadBytes('#')
	if err != nil {
		return
	}
	payload = payload[:len(payload)-1]

	var cs [2]byte
	_, err = io.ReadFull(rd, cs[:])
	if err != nil {
		return
	}

	sum, err := strconv.ParseUint(string(cs[:]), 16, 8)
	if err != nil {
		err = ErrPacket
		return
	}

	ok = uint8(sum) == checksum(payload)

	return
}

// decodePayload expands '}' escapes and '*' run-length encoding.
func decodePayload(raw []byte) (payload []byte, err error) {
	payload = make([]byte, 0, len(raw))

	for n := 0; n < len(raw); n++ {
		b := raw[n]
		switch b {
		case '}':
			n++
			if n >= len(raw) {
				err = ErrPacket
				return
			}
			payload = append(payload, raw[n]^0x20)
		case '*':
			n++
			if n >= len(raw) || len(payload) == 0 || raw[n] < 29 {
				err = ErrPacket
				return
			}
			last := payload[len(payload)-1]
			for range int(raw[n]) - 29 {
				payload = append(payload, last)
			}
		default:
			payload = append(payload, b)
		}
	}

	return
}
