// Package gdbremote drives an AVR simulator through its GDB remote serial
// protocol stub, as simulavr provides with its -g option.
//
// The Client implements regress.Target: it reads and writes the register
// block, places instruction words in flash, and single steps.
package gdbremote

import (
	"bufio"
	"context"
	"encoding/binary"
	"encoding/hex"
	"errors"
	"fmt"
	"log"
	"net"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/ezrec/avrregress/avr"
	"github.com/ezrec/avrregress/regress"
)

// AVR memory map and register block layout, as seen by gdb.
const (
	FLASH_BASE = uint32(0x000000) // Program memory.
	SRAM_BASE  = uint32(0x800000) // Data memory.

	REG_BLOCK_SREG  = 32 // Offset of SREG in the 'g' block.
	REG_BLOCK_SP    = 33 // Offset of SPL, SPH.
	REG_BLOCK_PC    = 35 // Offset of the 4 byte little-endian PC.
	REG_BLOCK_BYTES = 39 // Size of the 'g' block.

	SIGTRAP = 5 // Stop signal after a single step.
)

// Client is a connection to a GDB remote stub.
type Client struct {
	Verbose bool // If set, logs every packet.

	mutex sync.Mutex
	conn  net.Conn
	rd    *bufio.Reader
}

var _ regress.Target = (*Client)(nil)

// Dial connects to a stub listening on a TCP address.
func Dial(ctx context.Context, addr string) (cl *Client, err error) {
	var dialer net.Dialer
	conn, err := dialer.DialContext(ctx, "tcp", addr)
	if err != nil {
		return
	}

	cl = NewClient(conn)
	return
}

// NewClient creates a client on an established connection.
func NewClient(conn net.Conn) *Client {
	return &Client{
		conn: conn,
		rd:   bufio.NewReader(conn),
	}
}

// Close closes the connection.
func (cl *Client) Close() error {
	return cl.conn.Close()
}

// send writes a packet until the stub acknowledges it.
func (cl *Client) send(payload string) (err error) {
	pkt := encodePacket(payload)

	for range MAX_RETRY {
		if cl.Verbose {
			log.Printf("gdbremote: -> %s", pkt)
		}
		_, err = cl.conn.Write(pkt)
		if err != nil {
			return
		}

		for {
			var ack byte
			ack, err = cl.rd.ReadByte()
			if err != nil {
				return
			}
			if ack == '+' {
				return
			}
			if ack == '-' {
				break
			}
		}
	}

	err = ErrRetry
	return
}

// receive reads a reply packet, asking the stub to resend it on a bad
// checksum.
func (cl *Client) receive() (reply string, err error) {
	for range MAX_RETRY {
		var raw []byte
		var ok bool
		raw, ok, err = readPacket(cl.rd)
		if err != nil {
			return
		}

		if !ok {
			if cl.Verbose {
				log.Printf("gdbremote: <- $%s (bad checksum)", raw)
			}
			_, err = cl.conn.Write([]byte{'-'})
			if err != nil {
				return
			}
			continue
		}

		_, err = cl.conn.Write([]byte{'+'})
		if err != nil {
			return
		}

		if cl.Verbose {
			log.Printf("gdbremote: <- $%s", raw)
		}

		var payload []byte
		payload, err = decodePayload(raw)
		reply = string(payload)
		return
	}

	err = errors.Join(ErrRetry, ErrChecksum)
	return
}

// exchange sends a command and waits for its reply. The context bounds
// the whole exchange.
func (cl *Client) exchange(ctx context.Context, cmd string) (reply string, err error) {
	cl.mutex.Lock()
	defer cl.mutex.Unlock()

	err = ctx.Err()
	if err != nil {
		return
	}

	// A done context, by deadline or cancel, expires the connection.
	cl.conn.SetDeadline(time.Time{})
	stop := context.AfterFunc(ctx, func() {
		cl.conn.SetDeadline(time.Unix(1, 0))
	})
	defer func() {
		stop()
		if err != nil && ctx.Err() != nil {
			err = errors.Join(ctx.Err(), err)
		}
	}()

	err = cl.send(cmd)
	if err != nil {
		return
	}

	reply, err = cl.receive()
	if err != nil {
		return
	}

	err = replyError(reply)

	return
}

// replyError decodes an 'Exx' reply.
func replyError(reply string) error {
	if len(reply) != 3 || reply[0] != 'E' {
		return nil
	}

	code, err := strconv.ParseUint(reply[1:], 16, 8)
	if err != nil {
		return nil
	}

	return ErrReply(code)
}

// command sends a command that must be answered with 'OK'.
func (cl *Client) command(ctx context.Context, cmd string) (err error) {
	reply, err := cl.exchange(ctx, cmd)
	if err != nil {
		return
	}

	if reply != "OK" {
		err = errors.Join(ErrReplyOk, errors.New(f("%v: '%v'", cmd[:1], reply)))
	}

	return
}

// ReadState reads the register block.
func (cl *Client) ReadState(ctx context.Context) (st avr.State, err error) {
	reply, err := cl.exchange(ctx, "g")
	if err != nil {
		return
	}

	block, err := hex.DecodeString(reply)
	if err != nil {
		err = errors.Join(ErrPacket, err)
		return
	}

	if len(block) < REG_BLOCK_BYTES {
		err = ErrRegisters
		return
	}

	copy(st.Regs[:REG_BLOCK_SREG+1], block)
	st.Sp = binary.LittleEndian.Uint16(block[REG_BLOCK_SP:])
	st.Pc = binary.LittleEndian.Uint32(block[REG_BLOCK_PC:])

	return
}

// WriteState writes the register block.
func (cl *Client) WriteState(ctx context.Context, st avr.State) (err error) {
	var block [REG_BLOCK_BYTES]byte

	copy(block[:], st.Regs[:REG_BLOCK_SREG+1])
	binary.LittleEndian.PutUint16(block[REG_BLOCK_SP:], st.Sp)
	binary.LittleEndian.PutUint32(block[REG_BLOCK_PC:], st.Pc)

	return cl.command(ctx, "G"+hex.EncodeToString(block[:]))
}

// ReadMemory reads length bytes at a gdb address.
func (cl *Client) ReadMemory(ctx context.Context, addr uint32, length int) (data []byte, err error) {
	reply, err := cl.exchange(ctx, fmt.Sprintf("m%x,%x", addr, length))
	if err != nil {
		return
	}

	data, err = hex.DecodeString(reply)
	if err != nil {
		err = errors.Join(ErrPacket, err)
	}

	return
}

// WriteMemory writes data at a gdb address.
func (cl *Client) WriteMemory(ctx context.Context, addr uint32, data []byte) (err error) {
	return cl.command(ctx, fmt.Sprintf("M%x,%x:%s", addr, len(data), hex.EncodeToString(data)))
}

// Step writes an instruction at PC in flash and executes it.
func (cl *Client) Step(ctx context.Context, code avr.Code) (err error) {
	st, err := cl.ReadState(ctx)
	if err != nil {
		return
	}

	err = cl.WriteMemory(ctx, FLASH_BASE+st.Pc, code.Bytes())
	if err != nil {
		return
	}

	reply, err := cl.exchange(ctx, "s")
	if err != nil {
		return
	}

	err = stopError(reply)

	return
}

// stopError accepts a SIGTRAP stop reply.
func stopError(reply string) error {
	if len(reply) >= 3 && (reply[0] == 'S' || reply[0] == 'T') {
		signal, err := strconv.ParseUint(reply[1:3], 16, 8)
		if err == nil && signal == SIGTRAP {
			return nil
		}
	}

	return ErrStopReply(reply)
}

// Detach tells the stub to resume and drop the connection.
func (cl *Client) Detach(ctx context.Context) (err error) {
	reply, err := cl.exchange(ctx, "D")
	if err != nil {
		return
	}

	if reply != "OK" && !strings.HasPrefix(reply, "W") {
		err = errors.Join(ErrReplyOk, errors.New(f("D: '%v'", reply)))
	}

	return
}
