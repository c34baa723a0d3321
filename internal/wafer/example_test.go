package wafer_test

import (
	"fmt"

	"wafermap/internal/wafer"
)

func ExampleMap_DiesInRadius() {
	l := wafer.Lattice{X: wafer.Range{Min: 0, Max: 2}, Y: wafer.Range{Min: 0, Max: 2}, Height: 1, Aspect: 1}
	m, err := wafer.New(l, nil)
	if err != nil {
		fmt.Println(err)
		return
	}
	dies, _ := m.DiesInRadius(1.2)
	fmt.Println(dies)
	// Output: [X0Y1 X1Y0 X1Y1 X1Y2 X2Y1]
}

func ExampleLattice_Transform() {
	l := wafer.Lattice{X: wafer.Range{Min: 1, Max: 6}, Y: wafer.Range{Min: 1, Max: 5}, Height: 2, Aspect: 1.5, HFlip: true}
	fmt.Println(l.Transform(1, 1))
	// Output: {18 2}
}
