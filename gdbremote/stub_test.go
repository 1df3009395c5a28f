package gdbremote

import (
	"bufio"
	"encoding/binary"
	"encoding/hex"
	"fmt"
	"net"
	"strconv"
	"strings"
	"sync"

	"github.com/ezrec/avrregress/avr"
)

// stub is an in-process GDB remote stub for an AVR that only executes
// ANDI. It speaks over one end of a net.Pipe.
type stub struct {
	mutex sync.Mutex
	regs  [REG_BLOCK_BYTES]byte
	flash [256]byte
	log   []string // Commands received, in order.

	nakFirst     bool   // Reply '-' to the first packet.
	corruptFirst bool   // Send the first reply with a bad checksum.
	stepReply    string // Stop reply to a step, if not S05.

	conn net.Conn
	rd   *bufio.Reader
	done chan struct{}
}

// newStub starts a stub, and returns a client connected to it.
func newStub() (st *stub, cl *Client) {
	server, client := net.Pipe()

	st = &stub{
		conn: server,
		rd:   bufio.NewReader(server),
		done: make(chan struct{}),
	}
	binary.LittleEndian.PutUint16(st.regs[REG_BLOCK_SP:], 0x08ff)

	go st.serve()

	cl = NewClient(client)
	return
}

func (st *stub) Close() {
	st.conn.Close()
	<-st.done
}

func (st *stub) Commands() []string {
	st.mutex.Lock()
	defer st.mutex.Unlock()
	return append([]string(nil), st.log...)
}

func (st *stub) reply(payload string, corrupt bool) error {
	for {
		pkt := encodePacket(payload)
		if corrupt {
			pkt[len(pkt)-1] ^= 0x01
			corrupt = false
		}
		_, err := st.conn.Write(pkt)
		if err != nil {
			return err
		}

		ack, err := st.rd.ReadByte()
		if err != nil {
			return err
		}
		if ack == '+' {
			return nil
		}
	}
}

func (st *stub) serve() {
	defer close(st.done)

	for first := true; ; first = false {
		raw, ok, err := readPacket(st.rd)
		if err != nil {
			return
		}
		if !ok || (first && st.nakFirst) {
			st.conn.Write([]byte{'-'})
			raw, ok, err = readPacket(st.rd)
			if err != nil || !ok {
				return
			}
		}
		st.conn.Write([]byte{'+'})

		st.mutex.Lock()
		cmd := string(raw)
		st.log = append(st.log, cmd)
		resp := st.handle(cmd)
		st.mutex.Unlock()

		if cmd == "k" {
			return
		}

		err = st.reply(resp, first && st.corruptFirst)
		if err != nil {
			return
		}
	}
}

func (st *stub) handle(cmd string) string {
	switch {
	case cmd == "g":
		return hex.EncodeToString(st.regs[:])
	case cmd[0] == 'G':
		data, err := hex.DecodeString(cmd[1:])
		if err != nil || len(data) != REG_BLOCK_BYTES {
			return "E01"
		}
		copy(st.regs[:], data)
		return "OK"
	case cmd[0] == 'm':
		addr, length, ok := parseAddrLen(cmd[1:])
		if !ok || addr+length > len(st.flash) {
			return "E02"
		}
		return hex.EncodeToString(st.flash[addr : addr+length])
	case cmd[0] == 'M':
		head, body, _ := strings.Cut(cmd[1:], ":")
		addr, length, ok := parseAddrLen(head)
		data, err := hex.DecodeString(body)
		if !ok || err != nil || len(data) != length || addr+length > len(st.flash) {
			return "E03"
		}
		copy(st.flash[addr:], data)
		return "OK"
	case cmd == "s":
		if st.stepReply != "" {
			return st.stepReply
		}
		st.step()
		return "S05"
	case cmd == "D":
		return "OK"
	}

	return ""
}

func parseAddrLen(text string) (addr, length int, ok bool) {
	a, l, found := strings.Cut(text, ",")
	if !found {
		return
	}
	av, err := strconv.ParseUint(a, 16, 32)
	if err != nil {
		return
	}
	lv, err := strconv.ParseUint(l, 16, 32)
	if err != nil {
		return
	}
	return int(av), int(lv), true
}

func (st *stub) step() {
	pc := binary.LittleEndian.Uint32(st.regs[REG_BLOCK_PC:])
	word := binary.LittleEndian.Uint16(st.flash[pc%uint32(len(st.flash)):])

	if rd, k, ok := avr.Code(word).AndiDecode(); ok {
		result := st.regs[rd] & k
		st.regs[rd] = result

		sreg := avr.Sreg(st.regs[REG_BLOCK_SREG])
		sreg = sreg.With(avr.FLAG_V, false)
		sreg = sreg.With(avr.FLAG_N, result&0x80 != 0)
		sreg = sreg.With(avr.FLAG_S, result&0x80 != 0)
		sreg = sreg.With(avr.FLAG_Z, result == 0)
		st.regs[REG_BLOCK_SREG] = uint8(sreg)
	}

	binary.LittleEndian.PutUint32(st.regs[REG_BLOCK_PC:], pc+2)
}

func (st *stub) String() string {
	return fmt.Sprintf("stub: %x", st.regs)
}
