package vm

// Direction is one of four grid headings.
type Direction int

const (
	East  Direction = iota // (+1, 0)
	North                  // (0, -1)
	West                   // (-1, 0)
	South                  // (0, +1)

	numDirections = 4
)

var headings = [numDirections][2]int{
	East:  {1, 0},
	North: {0, -1},
	West:  {-1, 0},
	South: {0, 1},
}

// Left returns the heading after a TURN_L.
func (d Direction) Left() Direction {
	return Direction(wrap(int(d)+1, numDirections))
}

// Right returns the heading after a TURN_R.
func (d Direction) Right() Direction {
	return Direction(wrap(int(d)-1, numDirections))
}

// Vector returns the unit step for the heading.
func (d Direction) Vector() (dx, dy int) {
	h := headings[wrap(int(d), numDirections)]
	return h[0], h[1]
}

func (d Direction) String() string {
	switch wrap(int(d), numDirections) {
	case int(East):
		return "east"
	case int(North):
		return "north"
	case int(West):
		return "west"
	default:
		return "south"
	}
}

// wrap returns the non-negative remainder of v modulo n.
func wrap(v, n int) int {
	return ((v % n) + n) % n
}
