// Package vm implements the bot interpreter: a fixed-length opcode program
// executed one instruction per simulation tick against a shared food field.
package vm

import "fmt"

// Opcode is a single bot instruction.
type Opcode int

const (
	TurnL  Opcode = iota // Rotate heading counter-clockwise
	TurnR                // Rotate heading clockwise
	MoveF                // Step forward, eating any food at the destination
	Sense                // b <- a, a <- distance to food along heading
	Label                // No-op jump target
	PrevLT               // If a < b, jump back to the nearest LABEL
	NextLT               // If a < b, jump forward to the nearest LABEL

	NumOpcodes = 7
)

var opcodeNames = [NumOpcodes]string{
	TurnL:  "TURN_L",
	TurnR:  "TURN_R",
	MoveF:  "MOVE_F",
	Sense:  "SENSE",
	Label:  "LABEL",
	PrevLT: "PREV_LT",
	NextLT: "NEXT_LT",
}

// Kind groups opcodes for display.
type Kind string

const (
	KindMove    Kind = "move"
	KindSensor  Kind = "sensor"
	KindLabel   Kind = "label"
	KindJump    Kind = "jump"
	KindInvalid Kind = "invalid"
)

// Valid reports whether op is one of the seven defined instructions.
func (op Opcode) Valid() bool {
	return op >= 0 && op < NumOpcodes
}

func (op Opcode) String() string {
	if !op.Valid() {
		return fmt.Sprintf("Opcode(%d)", int(op))
	}
	return opcodeNames[op]
}

// Kind returns the display group of the opcode.
func (op Opcode) Kind() Kind {
	switch op {
	case TurnL, TurnR, MoveF:
		return KindMove
	case Sense:
		return KindSensor
	case Label:
		return KindLabel
	case PrevLT, NextLT:
		return KindJump
	default:
		return KindInvalid
	}
}

// ParseOpcode returns the opcode with the given symbolic name.
func ParseOpcode(name string) (Opcode, error) {
	for i, n := range opcodeNames {
		if n == name {
			return Opcode(i), nil
		}
	}
	return 0, fmt.Errorf("unknown opcode %q", name)
}

// MarshalText encodes the opcode as its symbolic name, so []Opcode encodes
// as a JSON array of strings.
func (op Opcode) MarshalText() ([]byte, error) {
	if !op.Valid() {
		return nil, fmt.Errorf("cannot encode invalid opcode %d", int(op))
	}
	return []byte(opcodeNames[op]), nil
}

// UnmarshalText decodes a symbolic opcode name.
func (op *Opcode) UnmarshalText(text []byte) error {
	parsed, err := ParseOpcode(string(text))
	if err != nil {
		return err
	}
	*op = parsed
	return nil
}
