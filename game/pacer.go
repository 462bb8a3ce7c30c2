package game

// MaxSpeed is the largest speed multiplier a presenter may request.
const MaxSpeed = 64

// Pacer converts wall-clock time into a tick budget at a fixed rate,
// scaled by a speed multiplier. Presenters use it to drive Tick.
type Pacer struct {
	rate   float64 // Ticks per second at speed 1
	speed  int
	paused bool
	acc    float64
}

// NewPacer creates a pacer running at ticksPerSecond.
func NewPacer(ticksPerSecond int) *Pacer {
	return &Pacer{rate: float64(ticksPerSecond), speed: 1}
}

// Steps returns how many ticks to run for dt elapsed seconds.
func (p *Pacer) Steps(dt float64) int {
	if p.paused || dt <= 0 {
		return 0
	}
	p.acc += dt * p.rate * float64(p.speed)
	n := int(p.acc)
	p.acc -= float64(n)
	return n
}

// Faster doubles the speed up to MaxSpeed.
func (p *Pacer) Faster() {
	if p.speed < MaxSpeed {
		p.speed *= 2
	}
}

// Slower halves the speed down to 1.
func (p *Pacer) Slower() {
	if p.speed > 1 {
		p.speed /= 2
	}
}

// Speed returns the current multiplier.
func (p *Pacer) Speed() int {
	return p.speed
}

// TogglePause pauses or resumes. Time accumulated before a pause is dropped.
func (p *Pacer) TogglePause() {
	p.paused = !p.paused
	p.acc = 0
}

// Paused reports whether the pacer is paused.
func (p *Pacer) Paused() bool {
	return p.paused
}
