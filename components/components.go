// Package components defines ECS components for the simulation.
package components

// Organism is the lineage record attached to every bot entity. The bot's
// runtime state lives alongside it in a vm.Bot component.
type Organism struct {
	ID         uint32 // Unique across the run
	Generation int
	ParentA    uint32 // Zero for generation 0
	ParentB    uint32
}

// Founder reports whether the organism was randomly generated rather than bred.
func (o *Organism) Founder() bool {
	return o.ParentA == 0 && o.ParentB == 0
}
