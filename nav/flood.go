package nav

// FloodField is a breadth-first distance field over a whole square grid. Every adjacent pair that is not
// a known wall counts as open, so the field is optimistic about cells nobody has sensed yet.
type FloodField struct {
	side   int
	target Cell
	dist   []int // y*side + x, Unknown when unreachable
	queue  []Cell
	valid  bool
}

// NewFloodField allocates an empty field for a grid of the given side length.
func NewFloodField(side int) *FloodField {
	return &FloodField{
		side:  side,
		dist:  make([]int, side*side),
		queue: make([]Cell, 0, side*side),
	}
}

// Flood allocates a field and computes it toward target.
func Flood(side int, target Cell, walls *WallSet) *FloodField {
	f := NewFloodField(side)
	f.Compute(target, walls)
	return f
}

// Compute overwrites the field with distances to target given the walls known so far.
// A target outside the grid leaves every cell Unknown.
func (f *FloodField) Compute(target Cell, walls *WallSet) {
	for i := range f.dist {
		f.dist[i] = Unknown
	}
	f.target = target
	f.valid = target.InBounds(f.side)
	if !f.valid {
		return
	}

	f.dist[f.index(target)] = 0
	f.queue = append(f.queue[:0], target)
	for qi := 0; qi < len(f.queue); qi++ {
		u := f.queue[qi]
		du := f.dist[f.index(u)]
		for _, d := range Directions {
			v := u.Step(d)
			if !v.InBounds(f.side) || f.dist[f.index(v)] != Unknown {
				continue
			}
			if walls != nil && walls.Blocked(u, v) {
				continue
			}
			f.dist[f.index(v)] = du + 1
			f.queue = append(f.queue, v)
		}
	}
}

// Target returns the cell the field was last computed toward.
func (f *FloodField) Target() Cell {
	return f.target
}

// Side returns the grid side length.
func (f *FloodField) Side() int {
	return f.side
}

// At returns the distance of c from the target, or Unknown when c is off the grid or unreachable.
func (f *FloodField) At(c Cell) int {
	if !f.valid || !c.InBounds(f.side) {
		return Unknown
	}
	return f.dist[f.index(c)]
}

// NextHop picks the neighbour of c with the strictly smallest distance that no known wall blocks,
// trying headings in the given order so earlier headings win ties. ok is false when no neighbour is
// strictly closer, which on a reachable cell means c is the target.
func (f *FloodField) NextHop(c Cell, walls *WallSet, order []Direction) (next Cell, ok bool) {
	best := f.At(c)
	if best == Unknown {
		return c, false
	}
	if len(order) == 0 {
		order = Directions[:]
	}
	next = c
	for _, d := range order {
		n := c.Step(d)
		if walls != nil && walls.Blocked(c, n) {
			continue
		}
		if v := f.At(n); v != Unknown && v < best {
			best = v
			next = n
		}
	}
	return next, next != c
}

func (f *FloodField) index(c Cell) int {
	return c.Y*f.side + c.X
}
