package wafer

// DefaultLattice returns the lattice of the reference wafer: x in [-4, 9],
// y in [-3, 10], square cells of height 9, vertically flipped.
func DefaultLattice() Lattice {
	return Lattice{
		X:      Range{Min: -4, Max: 9},
		Y:      Range{Min: -3, Max: 10},
		Height: 9,
		Aspect: 1,
		VFlip:  true,
	}
}

// DefaultWaferDies returns the member dies of the reference wafer.
func DefaultWaferDies() []Coord {
	out := make([]Coord, len(defaultWaferDies))
	for i, d := range defaultWaferDies {
		out[i] = Coord{X: d[0], Y: d[1]}
	}
	return out
}

var defaultWaferDies = [][2]int{
	{-4, 2}, {-4, 3}, {-4, 4}, {-4, 5},
	{-3, 0}, {-3, 1}, {-3, 2}, {-3, 3}, {-3, 4}, {-3, 5}, {-3, 6},
	{-2, -1}, {-2, 0}, {-2, 1}, {-2, 2}, {-2, 3}, {-2, 4}, {-2, 5}, {-2, 6}, {-2, 7},
	{-1, -1}, {-1, 0}, {-1, 1}, {-1, 2}, {-1, 3}, {-1, 4}, {-1, 5}, {-1, 6}, {-1, 7}, {-1, 8},
	{0, -2}, {0, -1}, {0, 0}, {0, 1}, {0, 2}, {0, 3}, {0, 4}, {0, 5}, {0, 6}, {0, 7}, {0, 8}, {0, 9},
	{1, -3}, {1, -2}, {1, -1}, {1, 0}, {1, 1}, {1, 2}, {1, 3}, {1, 4}, {1, 5}, {1, 6}, {1, 7}, {1, 8}, {1, 9},
	{2, -3}, {2, -2}, {2, -1}, {2, 0}, {2, 1}, {2, 2}, {2, 3}, {2, 4}, {2, 5}, {2, 6}, {2, 7}, {2, 8}, {2, 9},
	{3, -3}, {3, -2}, {3, -1}, {3, 0}, {3, 1}, {3, 2}, {3, 3}, {3, 4}, {3, 5}, {3, 6}, {3, 7}, {3, 8}, {3, 9},
	{4, -3}, {4, -2}, {4, -1}, {4, 0}, {4, 1}, {4, 2}, {4, 3}, {4, 4}, {4, 5}, {4, 6}, {4, 7}, {4, 8}, {4, 9},
	{5, -2}, {5, -1}, {5, 0}, {5, 1}, {5, 2}, {5, 3}, {5, 4}, {5, 5}, {5, 6}, {5, 7}, {5, 8}, {5, 9},
	{6, -1}, {6, 0}, {6, 1}, {6, 2}, {6, 3}, {6, 4}, {6, 5}, {6, 6}, {6, 7}, {6, 8},
	{7, 0}, {7, 1}, {7, 2}, {7, 3}, {7, 4}, {7, 5}, {7, 6}, {7, 7},
	{8, 1}, {8, 2}, {8, 3}, {8, 4}, {8, 5}, {8, 6},
	{9, 2}, {9, 3}, {9, 4}, {9, 5},
}
