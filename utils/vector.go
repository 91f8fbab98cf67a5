package utils

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/blas/blas64"
	"gonum.org/v1/gonum/mat"
)

type Vector struct {
	V *mat.VecDense
}

func NewVector(n int, dataO ...[]float64) (R Vector) {
	if len(dataO) != 0 {
		if len(dataO[0]) != n {
			err := fmt.Errorf("mismatch in allocation: NewVector n = %v, len(data[0]) = %v\n", n, len(dataO[0]))
			panic(err)
		}
		R = Vector{mat.NewVecDense(n, dataO[0])}
	} else {
		R = Vector{mat.NewVecDense(n, make([]float64, n))}
	}
	return
}

// Dims, At and T minimally satisfy the mat.Matrix interface.
func (v Vector) Dims() (r, c int)         { return v.V.Dims() }
func (v Vector) At(i, j int) float64      { return v.V.At(i, j) }
func (v Vector) T() mat.Matrix            { return v.V.T() }
func (v Vector) AtVec(i int) float64      { return v.V.AtVec(lim(i, v.Len())) }
func (v Vector) RawVector() blas64.Vector { return v.V.RawVector() }
func (v Vector) Len() int                 { return v.V.Len() }

func (v Vector) DataP() []float64 { return v.V.RawVector().Data }

// Chainable (extended) methods
func (v Vector) Copy() (R Vector) {
	var (
		data  = v.RawVector().Data
		dataR = make([]float64, v.Len())
	)
	copy(dataR, data)
	R = NewVector(v.Len(), dataR)
	return
}

func (v Vector) Scale(a float64) Vector {
	var (
		data = v.RawVector().Data
	)
	for i := range data {
		data[i] *= a
	}
	return v
}

func (v Vector) Add(a float64) Vector {
	var (
		data = v.RawVector().Data
	)
	for i := range data {
		data[i] += a
	}
	return v
}

func (v Vector) Apply(f func(float64) float64) Vector {
	var (
		data = v.RawVector().Data
	)
	for i, val := range data {
		data[i] = f(val)
	}
	return v
}

func (v Vector) POW(p int) Vector {
	var (
		data = v.RawVector().Data
	)
	for i, val := range data {
		data[i] = POW(val, p)
	}
	return v
}

// Concat returns a new vector holding the receiver followed by a.
func (v Vector) Concat(a Vector) (R Vector) {
	var (
		nv   = v.Len()
		na   = a.Len()
		data = make([]float64, nv+na)
	)
	copy(data, v.RawVector().Data)
	copy(data[nv:], a.RawVector().Data)
	R = NewVector(nv+na, data)
	return
}

func (v Vector) Dot(a Vector) (d float64) {
	var (
		data  = v.RawVector().Data
		dataA = a.RawVector().Data
	)
	if len(data) != len(dataA) {
		err := fmt.Errorf("dimension mismatch in Dot: %v vs %v", len(data), len(dataA))
		panic(err)
	}
	for i, val := range data {
		d += val * dataA[i]
	}
	return
}

func (v Vector) Norm() (nrm float64) {
	var (
		data = v.RawVector().Data
	)
	for _, val := range data {
		nrm += val * val
	}
	nrm = math.Sqrt(nrm)
	return
}

func (v Vector) Min() (min float64) {
	var (
		data = v.RawVector().Data
	)
	min = data[0]
	for _, val := range data {
		if val < min {
			min = val
		}
	}
	return
}

func (v Vector) Max() (max float64) {
	var (
		data = v.RawVector().Data
	)
	max = data[0]
	for _, val := range data {
		if val > max {
			max = val
		}
	}
	return
}

// ToMatrix reshapes the vector contents into an nr x nc matrix in row-major order.
func (v Vector) ToMatrix(nr, nc int) (R Matrix) {
	if nr*nc != v.Len() {
		err := fmt.Errorf("mismatch in reshape: nr,nc = %v,%v, len = %v", nr, nc, v.Len())
		panic(err)
	}
	data := make([]float64, v.Len())
	copy(data, v.RawVector().Data)
	R = NewMatrix(nr, nc, data)
	return
}
