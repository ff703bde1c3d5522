package chip8

import (
	"fmt"
	"math/rand/v2"

	"gochip8/pkg/grid"
)

const (
	ScreenWidth  = 64
	ScreenHeight = 32

	MemorySize   = 4096
	NumRegisters = 16
	StackSize    = 16
	NumKeys      = 16

	// StartAddr is where program images are installed and where the
	// program counter points after construction and reset.
	StartAddr uint16 = 0x200

	// MaxProgramSize is the largest program image Load accepts.
	MaxProgramSize = MemorySize - int(StartAddr)
)

// Machine is one complete interpreter: memory, registers, call stack,
// display surface, timers and key latch. It has no internal concurrency;
// the host drives Step and TickTimers at whatever cadences it chooses, and
// independent Machine values never interfere with each other.
type Machine struct {
	PC uint16
	I  uint16

	// V holds the 16 general registers. V[0xF] doubles as the flag
	// register for carry, borrow and sprite collision.
	V [NumRegisters]uint8

	Memory  [MemorySize]byte
	Display [ScreenWidth * ScreenHeight]bool

	Stack [StackSize]uint16
	SP    uint8

	DelayTimer uint8
	SoundTimer uint8

	// Keys is the pressed/released latch for the 16-key pad. The host
	// mutates it through SetKey; the interpreter only reads it.
	Keys [NumKeys]bool

	// Rand supplies bytes for the random instruction.
	// If nil, math/rand/v2 is used.
	Rand func() uint8
}

// New returns a machine with zeroed state, the glyph table written at
// address 0 and the program counter at StartAddr.
func New() *Machine {
	m := &Machine{}
	m.Reset()
	return m
}

// Reset restores the machine to its construction-time state in place,
// including re-writing the glyph table. The Rand hook survives.
func (m *Machine) Reset() {
	*m = Machine{
		PC:   StartAddr,
		Rand: m.Rand,
	}
	copy(m.Memory[:FontSize], fontSet[:])
}

// Load installs a program image at StartAddr. An image larger than
// MaxProgramSize is rejected with ErrProgramTooLarge and memory is left
// untouched.
func (m *Machine) Load(program []byte) error {
	if len(program) > MaxProgramSize {
		return fmt.Errorf("%d byte image exceeds %d byte limit: %w",
			len(program), MaxProgramSize, ErrProgramTooLarge)
	}
	copy(m.Memory[StartAddr:], program)
	return nil
}

// SetKey latches the pressed/released state for pad key idx (0-15).
// Out-of-range indices are ignored.
func (m *Machine) SetKey(idx int, pressed bool) {
	if idx >= 0 && idx < NumKeys {
		m.Keys[idx] = pressed
	}
}

// TickTimers decrements the delay and sound counters by one each, floored
// at zero. The host calls this at its timer cadence (conventionally 60 Hz)
// and observes SoundTimer itself to decide when to make noise; the machine
// emits no event.
func (m *Machine) TickTimers() {
	if m.DelayTimer > 0 {
		m.DelayTimer--
	}
	if m.SoundTimer > 0 {
		m.SoundTimer--
	}
}

// Step runs exactly one fetch-decode-execute cycle. On error the failing
// step is abandoned and the machine is left in a consistent state; the
// host decides whether to halt, reset or carry on.
func (m *Machine) Step() error {
	word, err := m.fetch()
	if err != nil {
		return err
	}
	return m.execute(decode(word), word)
}

// fetch reads the two bytes at PC as one big-endian word and advances PC
// past them.
func (m *Machine) fetch() (uint16, error) {
	if int(m.PC)+1 >= MemorySize {
		return 0, fmt.Errorf("fetch at 0x%04X: %w", m.PC, ErrOutOfBounds)
	}
	word := uint16(m.Memory[m.PC])<<8 | uint16(m.Memory[m.PC+1])
	m.PC += 2
	return word, nil
}

func (m *Machine) push(val uint16) error {
	if int(m.SP) >= StackSize {
		return ErrStackOverflow
	}
	m.Stack[m.SP] = val
	m.SP++
	return nil
}

func (m *Machine) pop() (uint16, error) {
	if m.SP == 0 {
		return 0, ErrStackUnderflow
	}
	m.SP--
	return m.Stack[m.SP], nil
}

func (m *Machine) randByte() uint8 {
	if m.Rand != nil {
		return m.Rand()
	}
	return uint8(rand.UintN(256))
}

func (m *Machine) execute(op opcode, word uint16) error {
	switch op.kind {
	case opNop:
		// No state change.

	case opClear:
		m.Display = [ScreenWidth * ScreenHeight]bool{}

	case opReturn:
		addr, err := m.pop()
		if err != nil {
			return err
		}
		m.PC = addr

	case opJump:
		m.PC = op.nnn

	case opCall:
		if err := m.push(m.PC); err != nil {
			return err
		}
		m.PC = op.nnn

	case opSkipEqImm:
		if m.V[op.x] == op.nn {
			m.PC += 2
		}

	case opSkipNeImm:
		if m.V[op.x] != op.nn {
			m.PC += 2
		}

	case opSkipEqReg:
		if m.V[op.x] == m.V[op.y] {
			m.PC += 2
		}

	case opLoadImm:
		m.V[op.x] = op.nn

	case opAddImm:
		// Wraps mod 256, no flag.
		m.V[op.x] += op.nn

	case opMove:
		m.V[op.x] = m.V[op.y]

	case opOr:
		m.V[op.x] |= m.V[op.y]

	case opAnd:
		m.V[op.x] &= m.V[op.y]

	case opXor:
		m.V[op.x] ^= m.V[op.y]

	case opAddCarry:
		sum := uint16(m.V[op.x]) + uint16(m.V[op.y])
		m.V[op.x] = uint8(sum)
		if sum > 0xFF {
			m.V[0xF] = 1
		} else {
			m.V[0xF] = 0
		}

	case opSubBorrow:
		x, y := m.V[op.x], m.V[op.y]
		m.V[op.x] = x - y
		if y > x {
			m.V[0xF] = 0
		} else {
			m.V[0xF] = 1
		}

	case opShiftRight:
		lsb := m.V[op.x] & 1
		m.V[op.x] >>= 1
		m.V[0xF] = lsb

	case opSubReverse:
		x, y := m.V[op.x], m.V[op.y]
		m.V[op.x] = y - x
		if x > y {
			m.V[0xF] = 0
		} else {
			m.V[0xF] = 1
		}

	case opShiftLeft:
		msb := m.V[op.x] >> 7
		m.V[op.x] <<= 1
		m.V[0xF] = msb

	case opSkipNeReg:
		if m.V[op.x] != m.V[op.y] {
			m.PC += 2
		}

	case opLoadIndex:
		m.I = op.nnn

	case opJumpOffset:
		m.PC = uint16(m.V[0]) + op.nnn

	case opRandom:
		m.V[op.x] = m.randByte() & op.nn

	case opDraw:
		return m.drawSprite(op.x, op.y, op.n)

	case opSkipKeyDown:
		if m.Keys[m.V[op.x]&0xF] {
			m.PC += 2
		}

	case opSkipKeyUp:
		if !m.Keys[m.V[op.x]&0xF] {
			m.PC += 2
		}

	case opReadDelay:
		m.V[op.x] = m.DelayTimer

	case opWaitKey:
		for i, down := range m.Keys {
			if down {
				m.V[op.x] = uint8(i)
				return nil
			}
		}
		// Nothing pressed: rewind so the next step re-executes this
		// instruction. The host's step loop provides the stall.
		m.PC -= 2

	case opSetDelay:
		m.DelayTimer = m.V[op.x]

	case opSetSound:
		m.SoundTimer = m.V[op.x]

	case opAddIndex:
		// 16-bit add, no carry flag.
		m.I += uint16(m.V[op.x])

	case opGlyphIndex:
		m.I = uint16(m.V[op.x]) * GlyphHeight

	case opStoreBCD:
		if int(m.I)+2 >= MemorySize {
			return fmt.Errorf("bcd store at 0x%04X: %w", m.I, ErrOutOfBounds)
		}
		v := m.V[op.x]
		m.Memory[m.I] = v / 100
		m.Memory[m.I+1] = v / 10 % 10
		m.Memory[m.I+2] = v % 10

	case opStoreRegs:
		if int(m.I)+int(op.x) >= MemorySize {
			return fmt.Errorf("register store at 0x%04X: %w", m.I, ErrOutOfBounds)
		}
		for i := 0; i <= int(op.x); i++ {
			m.Memory[int(m.I)+i] = m.V[i]
		}

	case opLoadRegs:
		if int(m.I)+int(op.x) >= MemorySize {
			return fmt.Errorf("register load at 0x%04X: %w", m.I, ErrOutOfBounds)
		}
		for i := 0; i <= int(op.x); i++ {
			m.V[i] = m.Memory[int(m.I)+i]
		}

	default:
		return &OpcodeError{Word: word, Addr: m.PC - 2}
	}

	return nil
}

// drawSprite XOR-composites an n-row sprite read from memory[I:] at
// (V[x], V[y]). Both axes wrap via modulo. V[F] reports whether any pixel
// was flipped from set to unset, written after all rows are processed.
func (m *Machine) drawSprite(x, y, rows uint8) error {
	xOrig := int(m.V[x])
	yOrig := int(m.V[y])

	collided := false
	for row := 0; row < int(rows); row++ {
		addr := int(m.I) + row
		if addr >= MemorySize {
			return fmt.Errorf("sprite row at 0x%04X: %w", addr, ErrOutOfBounds)
		}
		bits := m.Memory[addr]
		for col := 0; col < 8; col++ {
			if bits&(0x80>>col) == 0 {
				continue
			}
			px := (xOrig + col) % ScreenWidth
			py := (yOrig + row) % ScreenHeight
			idx := grid.GetGridIndex(px, py, ScreenWidth)
			if m.Display[idx] {
				collided = true
			}
			m.Display[idx] = !m.Display[idx]
		}
	}

	if collided {
		m.V[0xF] = 1
	} else {
		m.V[0xF] = 0
	}
	return nil
}
