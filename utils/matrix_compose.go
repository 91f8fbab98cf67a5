package utils

import "fmt"

// Constructors for the structured matrices used in operator assembly.

func Eye(n int) (R Matrix) {
	R = NewMatrix(n, n)
	for i := 0; i < n; i++ {
		R.Set(i, i, 1)
	}
	return
}

func Diag(d []float64) (R Matrix) {
	var (
		n = len(d)
	)
	R = NewMatrix(n, n)
	for i, val := range d {
		R.Set(i, i, val)
	}
	return
}

// Kron is the Kronecker product of A (p x q) and B (r x s), giving pr x qs.
func Kron(A, B Matrix) (R Matrix) {
	var (
		p, q  = A.Dims()
		r, s  = B.Dims()
		dataA = A.RawMatrix().Data
		dataB = B.RawMatrix().Data
	)
	R = NewMatrix(p*r, q*s)
	dataR := R.RawMatrix().Data
	for i := 0; i < p; i++ {
		for j := 0; j < q; j++ {
			a := dataA[i*q+j]
			if a == 0 {
				continue
			}
			for k := 0; k < r; k++ {
				for l := 0; l < s; l++ {
					dataR[(i*r+k)*(q*s)+(j*s+l)] = a * dataB[k*s+l]
				}
			}
		}
	}
	return
}

// BlockDiag places the argument matrices along the diagonal of a zero matrix.
func BlockDiag(blocks ...Matrix) (R Matrix) {
	var (
		nr, nc int
	)
	for _, b := range blocks {
		r, c := b.Dims()
		nr += r
		nc += c
	}
	R = NewMatrix(nr, nc)
	var i0, j0 int
	for _, b := range blocks {
		r, c := b.Dims()
		R.AssignBlock(i0, j0, b)
		i0 += r
		j0 += c
	}
	return
}

// VStack concatenates matrices vertically; column counts must agree.
func VStack(blocks ...Matrix) (R Matrix) {
	var (
		nr    int
		_, nc = blocks[0].Dims()
	)
	for _, b := range blocks {
		r, c := b.Dims()
		if c != nc {
			err := fmt.Errorf("column count mismatch in VStack: %v vs %v", c, nc)
			panic(err)
		}
		nr += r
	}
	R = NewMatrix(nr, nc)
	var i0 int
	for _, b := range blocks {
		r, _ := b.Dims()
		R.AssignBlock(i0, 0, b)
		i0 += r
	}
	return
}

// HStack concatenates matrices horizontally; row counts must agree.
func HStack(blocks ...Matrix) (R Matrix) {
	var (
		nc    int
		nr, _ = blocks[0].Dims()
	)
	for _, b := range blocks {
		r, c := b.Dims()
		if r != nr {
			err := fmt.Errorf("row count mismatch in HStack: %v vs %v", r, nr)
			panic(err)
		}
		nc += c
	}
	R = NewMatrix(nr, nc)
	var j0 int
	for _, b := range blocks {
		_, c := b.Dims()
		R.AssignBlock(0, j0, b)
		j0 += c
	}
	return
}

// TileRows repeats the row vector nr times to form an nr x len(row) matrix.
func TileRows(row []float64, nr int) (R Matrix) {
	var (
		nc = len(row)
	)
	R = NewMatrix(nr, nc)
	for i := 0; i < nr; i++ {
		R.SetRow(i, row)
	}
	return
}

// TileCols repeats the column vector nc times to form a len(col) x nc matrix.
func TileCols(col []float64, nc int) (R Matrix) {
	var (
		nr = len(col)
	)
	R = NewMatrix(nr, nc)
	for i, val := range col {
		for j := 0; j < nc; j++ {
			R.Set(i, j, val)
		}
	}
	return
}
