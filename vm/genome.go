package vm

import (
	"encoding/json"
	"fmt"
	"math/rand"
)

// GenomeLength is the canonical program length.
const GenomeLength = 256

// Genome is a bot program plus the volatility trait that scales its
// mutation probability. Its length never changes once created.
type Genome struct {
	Code       []Opcode
	Volatility float64
}

// NewGenome returns a genome of the given length filled with TURN_L (opcode 0).
func NewGenome(length int, volatility float64) *Genome {
	return &Genome{
		Code:       make([]Opcode, length),
		Volatility: volatility,
	}
}

// RandomGenome returns a genome with independently drawn opcodes.
func RandomGenome(length int, volatility float64, rng *rand.Rand) *Genome {
	g := NewGenome(length, volatility)
	for i := range g.Code {
		g.Code[i] = RandomOpcode(rng)
	}
	return g
}

// RandomOpcode draws a uniform opcode.
func RandomOpcode(rng *rand.Rand) Opcode {
	return Opcode(rng.Intn(NumOpcodes))
}

// Len returns the program length.
func (g *Genome) Len() int {
	return len(g.Code)
}

// Clone returns a deep copy.
func (g *Genome) Clone() *Genome {
	code := make([]Opcode, len(g.Code))
	copy(code, g.Code)
	return &Genome{Code: code, Volatility: g.Volatility}
}

// Names returns the symbolic name of every gene in order.
func (g *Genome) Names() []string {
	names := make([]string, len(g.Code))
	for i, op := range g.Code {
		names[i] = op.String()
	}
	return names
}

// MarshalNames encodes the program as a compact JSON array of opcode names,
// e.g. ["TURN_L","MOVE_F"]. This is the export format for best genomes.
func (g *Genome) MarshalNames() ([]byte, error) {
	for i, op := range g.Code {
		if !op.Valid() {
			return nil, fmt.Errorf("gene %d: invalid opcode %d", i, int(op))
		}
	}
	return json.Marshal(g.Names())
}

// ParseNames decodes an exported JSON array of opcode names.
// Volatility is not part of the export format and is left at zero.
func ParseNames(data []byte) (*Genome, error) {
	var code []Opcode
	if err := json.Unmarshal(data, &code); err != nil {
		return nil, fmt.Errorf("decoding genome: %w", err)
	}
	return &Genome{Code: code}, nil
}
