package model

// Direction is one of the eight unit steps a piece can take. Up is toward
// rank 8 from White's side of the board.
type Direction int

const (
	Up Direction = iota
	Down
	Left
	Right
	UpLeft
	UpRight
	DownLeft
	DownRight
)

// DeltaX is the change in file for one step.
func (d Direction) DeltaX() int {
	switch d {
	case Left, UpLeft, DownLeft:
		return -1
	case Right, UpRight, DownRight:
		return 1
	default:
		return 0
	}
}

// DeltaY is the change in rank for one step, as seen by White.
func (d Direction) DeltaY() int {
	switch d {
	case Up, UpLeft, UpRight:
		return 1
	case Down, DownLeft, DownRight:
		return -1
	default:
		return 0
	}
}

// Backwards returns the direction pointing the opposite way.
func (d Direction) Backwards() Direction {
	switch d {
	case Up:
		return Down
	case Down:
		return Up
	case Left:
		return Right
	case Right:
		return Left
	case UpLeft:
		return DownRight
	case UpRight:
		return DownLeft
	case DownLeft:
		return UpRight
	case DownRight:
		return UpLeft
	}
	panic("model: unknown direction")
}

func (d Direction) String() string {
	switch d {
	case Up:
		return "up"
	case Down:
		return "down"
	case Left:
		return "left"
	case Right:
		return "right"
	case UpLeft:
		return "up-left"
	case UpRight:
		return "up-right"
	case DownLeft:
		return "down-left"
	case DownRight:
		return "down-right"
	}
	return "unknown"
}
