package chip8

// opKind identifies one operation of the instruction set. Decoding an
// instruction word classifies it into exactly one kind; anything that
// matches no pattern classifies to opUnknown, which execution turns into
// an OpcodeError. Keeping classification separate from execution isolates
// the unknown-pattern case to a single place.
type opKind uint8

const (
	opUnknown opKind = iota
	opNop
	opClear
	opReturn
	opJump
	opCall
	opSkipEqImm
	opSkipNeImm
	opSkipEqReg
	opLoadImm
	opAddImm
	opMove
	opOr
	opAnd
	opXor
	opAddCarry
	opSubBorrow
	opShiftRight
	opSubReverse
	opShiftLeft
	opSkipNeReg
	opLoadIndex
	opJumpOffset
	opRandom
	opDraw
	opSkipKeyDown
	opSkipKeyUp
	opReadDelay
	opWaitKey
	opSetDelay
	opSetSound
	opAddIndex
	opGlyphIndex
	opStoreBCD
	opStoreRegs
	opLoadRegs
)

// opcode is one decoded instruction: its kind plus every operand field the
// word can carry. Operands that a given kind does not use are simply left
// populated and ignored by execution.
type opcode struct {
	kind opKind
	x    uint8  // second nibble, usually a register index
	y    uint8  // third nibble, usually a register index
	n    uint8  // low nibble
	nn   uint8  // low byte
	nnn  uint16 // low 12 bits, usually an address
}

// decode splits the 16-bit word into its nibble fields and classifies it
// by pattern. It never fails; unrecognized words come back as opUnknown.
func decode(word uint16) opcode {
	op := opcode{
		kind: opUnknown,
		x:    uint8(word >> 8 & 0xF),
		y:    uint8(word >> 4 & 0xF),
		n:    uint8(word & 0xF),
		nn:   uint8(word),
		nnn:  word & 0x0FFF,
	}

	switch word >> 12 {
	case 0x0:
		switch word {
		case 0x0000:
			op.kind = opNop
		case 0x00E0:
			op.kind = opClear
		case 0x00EE:
			op.kind = opReturn
		}
	case 0x1:
		op.kind = opJump
	case 0x2:
		op.kind = opCall
	case 0x3:
		op.kind = opSkipEqImm
	case 0x4:
		op.kind = opSkipNeImm
	case 0x5:
		if op.n == 0 {
			op.kind = opSkipEqReg
		}
	case 0x6:
		op.kind = opLoadImm
	case 0x7:
		op.kind = opAddImm
	case 0x8:
		switch op.n {
		case 0x0:
			op.kind = opMove
		case 0x1:
			op.kind = opOr
		case 0x2:
			op.kind = opAnd
		case 0x3:
			op.kind = opXor
		case 0x4:
			op.kind = opAddCarry
		case 0x5:
			op.kind = opSubBorrow
		case 0x6:
			op.kind = opShiftRight
		case 0x7:
			op.kind = opSubReverse
		case 0xE:
			op.kind = opShiftLeft
		}
	case 0x9:
		if op.n == 0 {
			op.kind = opSkipNeReg
		}
	case 0xA:
		op.kind = opLoadIndex
	case 0xB:
		op.kind = opJumpOffset
	case 0xC:
		op.kind = opRandom
	case 0xD:
		op.kind = opDraw
	case 0xE:
		switch op.nn {
		case 0x9E:
			op.kind = opSkipKeyDown
		case 0xA1:
			op.kind = opSkipKeyUp
		}
	case 0xF:
		switch op.nn {
		case 0x07:
			op.kind = opReadDelay
		case 0x0A:
			op.kind = opWaitKey
		case 0x15:
			op.kind = opSetDelay
		case 0x18:
			op.kind = opSetSound
		case 0x1E:
			op.kind = opAddIndex
		case 0x29:
			op.kind = opGlyphIndex
		case 0x33:
			op.kind = opStoreBCD
		case 0x55:
			op.kind = opStoreRegs
		case 0x65:
			op.kind = opLoadRegs
		}
	}

	return op
}
