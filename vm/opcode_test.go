package vm

import (
	"encoding/json"
	"math/rand"
	"testing"
)

func TestOpcodeNames(t *testing.T) {
	tests := []struct {
		op   Opcode
		name string
		kind Kind
	}{
		{TurnL, "TURN_L", KindMove},
		{TurnR, "TURN_R", KindMove},
		{MoveF, "MOVE_F", KindMove},
		{Sense, "SENSE", KindSensor},
		{Label, "LABEL", KindLabel},
		{PrevLT, "PREV_LT", KindJump},
		{NextLT, "NEXT_LT", KindJump},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.op.String(); got != tt.name {
				t.Errorf("String() = %q, want %q", got, tt.name)
			}
			if got := tt.op.Kind(); got != tt.kind {
				t.Errorf("Kind() = %q, want %q", got, tt.kind)
			}
			parsed, err := ParseOpcode(tt.name)
			if err != nil {
				t.Fatalf("ParseOpcode(%q) failed: %v", tt.name, err)
			}
			if parsed != tt.op {
				t.Errorf("ParseOpcode(%q) = %v, want %v", tt.name, parsed, tt.op)
			}
		})
	}
}

func TestInvalidOpcode(t *testing.T) {
	op := Opcode(NumOpcodes)
	if op.Valid() {
		t.Error("opcode 7 should be invalid")
	}
	if got := op.String(); got != "Opcode(7)" {
		t.Errorf("String() = %q, want Opcode(7)", got)
	}
	if got := op.Kind(); got != KindInvalid {
		t.Errorf("Kind() = %q, want %q", got, KindInvalid)
	}
	if _, err := op.MarshalText(); err == nil {
		t.Error("MarshalText should reject invalid opcodes")
	}
	if _, err := ParseOpcode("JUMP"); err == nil {
		t.Error("ParseOpcode should reject unknown names")
	}
}

func TestMarshalNames(t *testing.T) {
	g := &Genome{Code: []Opcode{TurnL, MoveF, NextLT}}

	data, err := g.MarshalNames()
	if err != nil {
		t.Fatalf("MarshalNames failed: %v", err)
	}
	if want := `["TURN_L","MOVE_F","NEXT_LT"]`; string(data) != want {
		t.Errorf("MarshalNames = %s, want %s", data, want)
	}

	parsed, err := ParseNames(data)
	if err != nil {
		t.Fatalf("ParseNames failed: %v", err)
	}
	if parsed.Len() != 3 || parsed.Code[2] != NextLT {
		t.Errorf("ParseNames = %v, want [TURN_L MOVE_F NEXT_LT]", parsed.Code)
	}

	g.Code[1] = Opcode(-1)
	if _, err := g.MarshalNames(); err == nil {
		t.Error("MarshalNames should reject invalid genes")
	}
}

func TestOpcodeSliceEncodesAsStrings(t *testing.T) {
	data, err := json.Marshal([]Opcode{Sense, Label})
	if err != nil {
		t.Fatalf("json.Marshal failed: %v", err)
	}
	if want := `["SENSE","LABEL"]`; string(data) != want {
		t.Errorf("json.Marshal = %s, want %s", data, want)
	}

	if _, err := ParseNames([]byte(`["SENSE","BOGUS"]`)); err == nil {
		t.Error("ParseNames should reject unknown names")
	}
}

func TestRandomGenome(t *testing.T) {
	rng := rand.New(rand.NewSource(1))
	g := RandomGenome(GenomeLength, 0.25, rng)

	if g.Len() != GenomeLength {
		t.Fatalf("len = %d, want %d", g.Len(), GenomeLength)
	}
	if g.Volatility != 0.25 {
		t.Errorf("volatility = %v, want 0.25", g.Volatility)
	}

	seen := make(map[Opcode]bool)
	for i, op := range g.Code {
		if !op.Valid() {
			t.Fatalf("gene %d invalid: %d", i, int(op))
		}
		seen[op] = true
	}
	if len(seen) != NumOpcodes {
		t.Errorf("saw %d distinct opcodes in %d genes, want %d", len(seen), GenomeLength, NumOpcodes)
	}

	again := RandomGenome(GenomeLength, 0.25, rand.New(rand.NewSource(1)))
	for i := range g.Code {
		if g.Code[i] != again.Code[i] {
			t.Fatalf("gene %d differs for the same seed", i)
		}
	}
}

func TestGenomeClone(t *testing.T) {
	g := NewGenome(4, 0.5)
	c := g.Clone()
	c.Code[0] = Sense
	c.Volatility = 1

	if g.Code[0] != TurnL || g.Volatility != 0.5 {
		t.Error("clone shares state with the original")
	}
}

func TestDirectionTurns(t *testing.T) {
	d := East
	for i := 0; i < 4; i++ {
		d = d.Left()
	}
	if d != East {
		t.Errorf("four left turns = %v, want east", d)
	}
	if East.Right() != South || South.Left() != East {
		t.Error("left and right are not inverses")
	}

	dx, dy := North.Vector()
	if dx != 0 || dy != -1 {
		t.Errorf("north vector = (%d,%d), want (0,-1)", dx, dy)
	}
}
