package vm

import (
	"errors"
	"fmt"
	"math/rand"
)

// DefaultLifetime is the number of instructions a bot may execute per generation.
const DefaultLifetime = 512

// ErrHalted is returned by Step when the bot can no longer run.
var ErrHalted = errors.New("vm: bot already halted")

// InvalidOpcodeError reports an instruction outside the defined set.
// The instruction is executed as a no-op.
type InvalidOpcodeError struct {
	PC int
	Op Opcode
}

func (e *InvalidOpcodeError) Error() string {
	return fmt.Sprintf("vm: invalid opcode %d at pc %d", int(e.Op), e.PC)
}

// Field is the shared world a bot reads and writes. Coordinates are
// toroidal: implementations wrap out-of-range values instead of rejecting them.
type Field interface {
	Width() int
	Height() int
	Get(x, y int) bool
	Set(x, y int, val bool)
}

// Bot is the runtime state of one program.
type Bot struct {
	Genome *Genome
	PC     int
	Dir    Direction
	X, Y   int
	A, B   int // A is the latest sensor reading, B the one before
	Life   int
	Food   int
}

// NewBot creates a bot at the given position facing east with zeroed registers.
func NewBot(genome *Genome, x, y, lifetime int) Bot {
	return Bot{
		Genome: genome,
		X:      x,
		Y:      y,
		Life:   lifetime,
	}
}

// SpawnBot creates a bot at a random cell of f.
func SpawnBot(genome *Genome, f Field, lifetime int, rng *rand.Rand) Bot {
	x := rng.Intn(f.Width())
	y := rng.Intn(f.Height())
	return NewBot(genome, x, y, lifetime)
}

// Dead reports whether the bot has run out of life or off the end of its program.
func (b *Bot) Dead() bool {
	return b.Life <= 0 || b.PC >= b.Genome.Len()
}

// Halted reports whether the program counter reached the end of the program.
func (b *Bot) Halted() bool {
	return b.PC >= b.Genome.Len()
}

// Step executes the instruction at PC against f. It returns ErrHalted
// without touching any state when the bot is dead, and an
// *InvalidOpcodeError when the instruction was skipped.
func (b *Bot) Step(f Field) error {
	if b.Dead() {
		return ErrHalted
	}

	code := b.Genome.Code
	var err error

	switch op := code[b.PC]; op {
	case TurnL:
		b.Dir = b.Dir.Left()

	case TurnR:
		b.Dir = b.Dir.Right()

	case MoveF:
		dx, dy := b.Dir.Vector()
		b.X = wrap(b.X+dx, f.Width())
		b.Y = wrap(b.Y+dy, f.Height())
		if f.Get(b.X, b.Y) {
			b.Food++
			f.Set(b.X, b.Y, false)
		}

	case Sense:
		b.B = b.A
		b.A = b.sense(f)

	case Label:
		// no-op

	case PrevLT:
		if b.A >= b.B {
			break
		}
		// A miss runs PC to -1; the increment below restarts at 0.
		for b.PC >= 0 && code[b.PC] != Label {
			b.PC--
		}

	case NextLT:
		if b.A >= b.B {
			break
		}
		// A miss runs PC to len(code), which halts the bot.
		for b.PC < len(code) && code[b.PC] != Label {
			b.PC++
		}

	default:
		err = &InvalidOpcodeError{PC: b.PC, Op: op}
	}

	if b.PC == len(code) {
		b.Life = 0
	} else {
		b.PC++
		b.Life--
	}

	return err
}

// sense returns the number of steps along the current heading to the first
// food cell, or 0 if the ray wraps back to the bot's own cell first.
func (b *Bot) sense(f Field) int {
	w, h := f.Width(), f.Height()
	dx, dy := b.Dir.Vector()

	span := w
	if dx == 0 {
		span = h
	}

	x, y := b.X, b.Y
	for dist := 1; dist <= span; dist++ {
		x = wrap(x+dx, w)
		y = wrap(y+dy, h)
		if x == b.X && y == b.Y {
			return 0
		}
		if f.Get(x, y) {
			return dist
		}
	}
	return 0
}
