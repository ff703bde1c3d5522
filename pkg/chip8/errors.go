package chip8

import (
	"errors"
	"fmt"
)

var (
	// ErrProgramTooLarge is returned by Load when the program image would
	// not fit between the start address and the end of memory. Memory is
	// left unchanged.
	ErrProgramTooLarge = errors.New("program too large for memory")

	// ErrStackOverflow is returned when a call would push a 17th return
	// address onto the stack.
	ErrStackOverflow = errors.New("call stack overflow")

	// ErrStackUnderflow is returned when a return executes with an empty
	// stack.
	ErrStackUnderflow = errors.New("call stack underflow")

	// ErrOutOfBounds is returned when the program counter, the index
	// register, or a computed offset would touch an address outside memory.
	// The check happens before the access.
	ErrOutOfBounds = errors.New("memory access out of bounds")
)

// OpcodeError reports a fetched instruction word that matches no known bit
// pattern. Word is the raw instruction and Addr the address it was fetched
// from. The step that hit it is abandoned; the machine state is otherwise
// intact, so the host may reset and continue.
type OpcodeError struct {
	Word uint16
	Addr uint16
}

func (e *OpcodeError) Error() string {
	return fmt.Sprintf("unimplemented opcode 0x%04X at 0x%04X", e.Word, e.Addr)
}
