package core

// CellRole tags a cell for level mechanics. The cascade does not read it.
type CellRole uint8

const (
	RoleNormal CellRole = iota
	RoleSpawner
	RoleExit
)

func (r CellRole) String() string {
	switch r {
	case RoleSpawner:
		return "spawner"
	case RoleExit:
		return "exit"
	default:
		return "normal"
	}
}

// Occupant is the content of a cell: either empty or one element.
type Occupant struct {
	elem *Element
}

// Empty returns the empty occupant.
func Empty() Occupant {
	return Occupant{}
}

// Occupied returns an occupant holding e. A nil element yields Empty.
func Occupied(e *Element) Occupant {
	return Occupant{elem: e}
}

// IsEmpty reports whether the occupant holds no element.
func (o Occupant) IsEmpty() bool {
	return o.elem == nil
}

// Element returns the held element and true, or nil and false when empty.
func (o Occupant) Element() (*Element, bool) {
	return o.elem, o.elem != nil
}

// Cell is one slot of the grid. Its position is fixed at creation.
type Cell struct {
	pos       Position
	occupant  Occupant
	available bool
	role      CellRole
}

// Pos returns the cell's position.
func (c *Cell) Pos() Position {
	return c.pos
}

// Occupant returns the cell's current occupant.
func (c *Cell) Occupant() Occupant {
	return c.occupant
}

// Element is shorthand for c.Occupant().Element().
func (c *Cell) Element() (*Element, bool) {
	return c.occupant.Element()
}

// IsEmpty reports whether the cell holds no element.
func (c *Cell) IsEmpty() bool {
	return c.occupant.IsEmpty()
}

// Available reports whether the cell is playable.
func (c *Cell) Available() bool {
	return c.available
}

// Role returns the cell's role tag.
func (c *Cell) Role() CellRole {
	return c.role
}
