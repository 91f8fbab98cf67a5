package spectral

import (
	"fmt"

	"github.com/notargets/goks/utils"
)

type Axis uint8

const (
	SpaceAxis Axis = iota
	TimeAxis
)

// SwapModes exchanges the cosine and sine halves of a packed mode array
// along the given axis. Along space the two half-width column blocks trade
// places. Along time the mean row stays put and the two half-height row
// blocks below it trade places, so the row count must be odd.
func SwapModes(M utils.Matrix, ax Axis) (R utils.Matrix) {
	var (
		nr, nc = M.Dims()
	)
	switch ax {
	case SpaceAxis:
		if nc%2 != 0 {
			err := fmt.Errorf("swap along space needs an even column count, have %v", nc)
			panic(err)
		}
		half := nc / 2
		R = utils.NewMatrix(nr, nc)
		R.AssignBlock(0, 0, M.Slice(0, nr, half, nc))
		R.AssignBlock(0, half, M.Slice(0, nr, 0, half))
	case TimeAxis:
		if nr%2 != 1 {
			err := fmt.Errorf("swap along time needs an odd row count, have %v", nr)
			panic(err)
		}
		half := (nr - 1) / 2
		R = utils.NewMatrix(nr, nc)
		R.SetRow(0, M.Row(0).DataP())
		R.AssignBlock(1, 0, M.Slice(1+half, nr, 0, nc))
		R.AssignBlock(1+half, 0, M.Slice(1, 1+half, 0, nc))
	default:
		err := fmt.Errorf("unknown axis %v", ax)
		panic(err)
	}
	return
}
