package game

import "fmt"

type Coord struct {
	X int `json:"x" yaml:"x"`
	Y int `json:"y" yaml:"y"`
}

func (c Coord) String() string {
	return fmt.Sprintf("(%d,%d)", c.X, c.Y)
}

// Chebyshev is the king-move distance between two coordinates.
func Chebyshev(a, b Coord) int {
	return max(abs(a.X-b.X), abs(a.Y-b.Y))
}

func abs(n int) int {
	if n < 0 {
		return -n
	}
	return n
}

// Corner is a capital slot. Players take them in declaration order.
type Corner int

const (
	TopLeft Corner = iota
	TopRight
	BottomLeft
	BottomRight
)

var corners = []Corner{TopLeft, TopRight, BottomLeft, BottomRight}

func (c Corner) String() string {
	switch c {
	case TopLeft:
		return "Top Left"
	case TopRight:
		return "Top Right"
	case BottomLeft:
		return "Bottom Left"
	case BottomRight:
		return "Bottom Right"
	default:
		return fmt.Sprintf("Corner(%d)", int(c))
	}
}

// Board is the tile grid, stored row-major.
type Board struct {
	Width      int
	Height     int
	OceanWidth int
	tiles      []Tile
	occupants  [4]int
}

// MaxBoardSide bounds either board dimension regardless of rules.
const MaxBoardSide = 1024

// NewBoard creates an unassigned grid. Generate fills it in.
func NewBoard(width, height, oceanWidth int) (*Board, error) {
	if width < 2 || height < 2 {
		return nil, fmt.Errorf("board must be at least 2x2, got %dx%d", width, height)
	}
	if width > MaxBoardSide || height > MaxBoardSide {
		return nil, fmt.Errorf("board must be at most %dx%d, got %dx%d", MaxBoardSide, MaxBoardSide, width, height)
	}
	if oceanWidth < 0 || oceanWidth >= min(width, height) {
		return nil, fmt.Errorf("ocean width %d does not fit a %dx%d board", oceanWidth, width, height)
	}
	b := &Board{
		Width:      width,
		Height:     height,
		OceanWidth: oceanWidth,
		tiles:      make([]Tile, width*height),
	}
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			b.tiles[b.idx(x, y)] = newTile(Coord{X: x, Y: y})
		}
	}
	for i := range b.occupants {
		b.occupants[i] = NoOwner
	}
	return b, nil
}

func (b *Board) idx(x, y int) int {
	return y*b.Width + x
}

func (b *Board) InBounds(c Coord) bool {
	return c.X >= 0 && c.X < b.Width && c.Y >= 0 && c.Y < b.Height
}

// Tile returns nil for out-of-bounds coordinates.
func (b *Board) Tile(c Coord) *Tile {
	if !b.InBounds(c) {
		return nil
	}
	return &b.tiles[b.idx(c.X, c.Y)]
}

func (b *Board) CornerCoord(c Corner) Coord {
	switch c {
	case TopRight:
		return Coord{X: b.Width - 1, Y: 0}
	case BottomLeft:
		return Coord{X: 0, Y: b.Height - 1}
	case BottomRight:
		return Coord{X: b.Width - 1, Y: b.Height - 1}
	default:
		return Coord{}
	}
}

// ClaimCorner gives the next free corner to owner.
func (b *Board) ClaimCorner(owner int) (Corner, bool) {
	for _, c := range corners {
		if b.occupants[c] == NoOwner {
			b.occupants[c] = owner
			return c, true
		}
	}
	return 0, false
}

func (b *Board) Occupant(c Corner) int {
	return b.occupants[c]
}

// Neighbors returns the in-bounds tiles at Chebyshev distance 1.
func (b *Board) Neighbors(c Coord) []Coord {
	var out []Coord
	for dy := -1; dy <= 1; dy++ {
		for dx := -1; dx <= 1; dx++ {
			if dx == 0 && dy == 0 {
				continue
			}
			n := Coord{X: c.X + dx, Y: c.Y + dy}
			if b.InBounds(n) {
				out = append(out, n)
			}
		}
	}
	return out
}

// IsShore reports whether c is a non-ocean tile touching the ocean.
func (b *Board) IsShore(c Coord) bool {
	t := b.Tile(c)
	if t == nil || t.Terrain == Ocean {
		return false
	}
	for _, n := range b.Neighbors(c) {
		if b.Tile(n).Terrain == Ocean {
			return true
		}
	}
	return false
}

func (b *Board) each(fn func(t *Tile)) {
	for i := range b.tiles {
		fn(&b.tiles[i])
	}
}

