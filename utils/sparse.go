package utils

import (
	"fmt"

	"github.com/james-bowman/sparse"
	"gonum.org/v1/gonum/mat"
)

// DOK is a dictionary-of-keys sparse matrix used to stage the block and
// diagonal structure of operators before densifying for composition.
type DOK struct {
	M        *sparse.DOK
	readOnly bool
	name     string
}

func NewDOK(nr, nc int) (R DOK) {
	R = DOK{
		sparse.NewDOK(nr, nc),
		false,
		"unnamed - hint: pass a variable name to SetReadOnly()",
	}
	return
}

// Dims, At and T minimally satisfy the mat.Matrix interface.
func (m DOK) Dims() (r, c int)    { return m.M.Dims() }
func (m DOK) At(i, j int) float64 { return m.M.At(i, j) }
func (m DOK) T() mat.Matrix       { return m.M.T() }

func (m *DOK) SetReadOnly(name ...string) DOK {
	if len(name) != 0 {
		m.name = name[0]
	}
	m.readOnly = true
	return *m
}

func (m *DOK) SetWritable() DOK {
	m.readOnly = false
	return *m
}

func (m DOK) Set(i, j int, val float64) DOK { // Changes receiver
	var (
		nr, nc = m.Dims()
	)
	m.checkWritable()
	m.M.Set(lim(i, nr), lim(j, nc), val)
	return m
}

// SetDiag writes d along the diagonal starting at (i0, j0).
func (m DOK) SetDiag(i0, j0 int, d []float64) DOK { // Changes receiver
	var (
		nr, nc = m.Dims()
	)
	m.checkWritable()
	if i0+len(d) > nr || j0+len(d) > nc {
		err := fmt.Errorf("diagonal of length %v at %v,%v exceeds matrix bounds %v,%v", len(d), i0, j0, nr, nc)
		panic(err)
	}
	for k, val := range d {
		if val != 0 {
			m.M.Set(i0+k, j0+k, val)
		}
	}
	return m
}

// AssignBlock pastes the nonzero entries of A with upper left corner at (i0, j0).
func (m DOK) AssignBlock(i0, j0 int, A Matrix) DOK { // Changes receiver
	var (
		nr, nc   = m.Dims()
		nrA, ncA = A.Dims()
		dataA    = A.RawMatrix().Data
	)
	m.checkWritable()
	if i0+nrA > nr || j0+ncA > nc {
		err := fmt.Errorf("block of size %v,%v at %v,%v exceeds matrix bounds %v,%v", nrA, ncA, i0, j0, nr, nc)
		panic(err)
	}
	for i := 0; i < nrA; i++ {
		for j := 0; j < ncA; j++ {
			if val := dataA[i*ncA+j]; val != 0 {
				m.M.Set(i0+i, j0+j, val)
			}
		}
	}
	return m
}

func (m DOK) ToDense() (R Matrix) {
	R = Matrix{
		m.M.ToDense(),
		false,
		"unnamed - hint: pass a variable name to SetReadOnly()",
	}
	return
}

func (m DOK) checkWritable() {
	if m.readOnly {
		err := fmt.Errorf("attempt to write to a read only matrix named: \"%v\"", m.name)
		panic(err)
	}
}
