// Package torus implements the spectral representation of doubly periodic
// solutions u(x, t) of the Kuramoto-Sivashinsky equation
//
//	u_t + u_xx + u_xxxx + 1/2 (u^2)_x = 0
//
// on the space-time domain [0, T] x [0, L]. A state is held in one of three
// bases forming a linear chain: the physical field on the N x M collocation
// grid, the spatially transformed "s_modes", and the fully transformed
// spacetime "modes". Real coefficients are packed as concatenated cosine and
// sine blocks; the zeroth and Nyquist spatial frequencies are structurally
// zero and never stored, while the temporal mean row is kept and the temporal
// Nyquist dropped. Rows are ordered so that the last field row is t = 0 with
// time increasing upward, which puts the minus sign of the temporal
// frequencies into the frequency vector rather than the transforms.
//
// Five symmetry variants share the model. FULL stores every retained mode,
// RELATIVE adds a comoving spatial shift S per period, and the three discrete
// symmetries (shift-reflection, antisymmetry, and time-independent
// equilibria) fold the redundant half of the spectrum out of storage.
package torus

import (
	"errors"
	"fmt"
	"strings"

	"github.com/notargets/goks/utils"
)

type Basis uint8

const (
	Field Basis = iota
	SpaceModes
	SpacetimeModes
)

func (b Basis) String() string {
	switch b {
	case Field:
		return "field"
	case SpaceModes:
		return "s_modes"
	case SpacetimeModes:
		return "modes"
	}
	return fmt.Sprintf("basis(%d)", uint8(b))
}

type Symmetry uint8

const (
	Full Symmetry = iota
	Relative
	ShiftReflection
	Antisymmetric
	Equilibrium
)

func (s Symmetry) String() string {
	switch s {
	case Full:
		return "full"
	case Relative:
		return "relative"
	case ShiftReflection:
		return "shift-reflection"
	case Antisymmetric:
		return "antisymmetric"
	case Equilibrium:
		return "equilibrium"
	}
	return fmt.Sprintf("symmetry(%d)", uint8(s))
}

// ParseSymmetry maps a symmetry name or its filename tag back to the enum.
// Matching is case-insensitive.
func ParseSymmetry(name string) (Symmetry, error) {
	switch strings.ToLower(name) {
	case "full":
		return Full, nil
	case "relative":
		return Relative, nil
	case "shift-reflection", "shiftrefl":
		return ShiftReflection, nil
	case "antisymmetric", "antisym":
		return Antisymmetric, nil
	case "equilibrium", "eqva":
		return Equilibrium, nil
	}
	return Full, fmt.Errorf("unknown symmetry %q", name)
}

// Tag is the compact form of the symmetry name used in filenames and
// archive rows.
func (s Symmetry) Tag() string {
	switch s {
	case Full:
		return "full"
	case Relative:
		return "relative"
	case ShiftReflection:
		return "shiftrefl"
	case Antisymmetric:
		return "antisym"
	case Equilibrium:
		return "eqva"
	}
	return "unknown"
}

var (
	ErrShapeMismatch       = errors.New("state shape inconsistent with basis and symmetry")
	ErrUnrecognizedBasis   = errors.New("unrecognized basis")
	ErrDegenerateParameter = errors.New("degenerate domain parameter")
	ErrSymmetryBroken      = errors.New("operation leaves the symmetry subspace")
)

// Torus is a single candidate solution: a state array in one of the three
// bases together with the domain parameters and the field discretization.
// Operations produce new instances; the state array is never shared between
// them. T is structurally zero for EQUILIBRIUM and S is zero for everything
// but RELATIVE.
type Torus struct {
	State    utils.Matrix
	Basis    Basis
	Symmetry Symmetry
	T, L, S  float64
	N, M     int
}

// ModeShape gives the spacetime mode array dimensions of a symmetry variant
// with field discretization N x M.
func ModeShape(sym Symmetry, N, M int) (nr, nc int) {
	switch sym {
	case Full, Relative:
		return N - 1, M - 2
	case ShiftReflection, Antisymmetric:
		return N - 1, M/2 - 1
	case Equilibrium:
		return 1, M/2 - 1
	}
	panic(fmt.Errorf("unknown symmetry %v", sym))
}

func stateShape(basis Basis, sym Symmetry, N, M int) (nr, nc int, err error) {
	switch basis {
	case Field:
		nr, nc = N, M
	case SpaceModes:
		nr, nc = N, M-2
	case SpacetimeModes:
		nr, nc = ModeShape(sym, N, M)
	default:
		err = fmt.Errorf("%w: %v", ErrUnrecognizedBasis, basis)
	}
	return
}

// New validates the state array against the declared basis and symmetry and
// wraps it in a Torus. N and M are inferred from the array dimensions; the
// optional trailing argument supplies the time discretization in the one
// case where it cannot be inferred, an EQUILIBRIUM state built from its
// single row of spacetime modes.
func New(state utils.Matrix, basis Basis, sym Symmetry, T, L, S float64, NO ...int) (t Torus, err error) {
	var (
		nr, nc = state.Dims()
		N, M   int
	)
	switch basis {
	case Field:
		N, M = nr, nc
	case SpaceModes:
		N, M = nr, nc+2
	case SpacetimeModes:
		switch sym {
		case Full, Relative:
			N, M = nr+1, nc+2
		case ShiftReflection, Antisymmetric:
			N, M = nr+1, 2*(nc+1)
		case Equilibrium:
			if nr != 1 {
				err = fmt.Errorf("%w: equilibrium modes are a single row, have %dx%d", ErrShapeMismatch, nr, nc)
				return
			}
			N, M = 1, 2*(nc+1)
			if len(NO) != 0 {
				N = NO[0]
			}
		default:
			panic(fmt.Errorf("unknown symmetry %v", sym))
		}
	default:
		err = fmt.Errorf("%w: %v", ErrUnrecognizedBasis, basis)
		return
	}
	if len(NO) != 0 && NO[0] != N {
		err = fmt.Errorf("%w: declared N=%d disagrees with inferred N=%d", ErrShapeMismatch, NO[0], N)
		return
	}
	if M < 4 || M%2 != 0 {
		err = fmt.Errorf("%w: spatial discretization M=%d must be even and at least 4", ErrShapeMismatch, M)
		return
	}
	if sym == Equilibrium {
		if N != 1 && (N < 4 || N%2 != 0) {
			err = fmt.Errorf("%w: time discretization N=%d must be 1 or even and at least 4", ErrShapeMismatch, N)
			return
		}
	} else if N < 4 || N%2 != 0 {
		err = fmt.Errorf("%w: time discretization N=%d must be even and at least 4", ErrShapeMismatch, N)
		return
	}
	if T < 0 || L < 0 {
		err = fmt.Errorf("%w: negative period T=%v, L=%v", ErrDegenerateParameter, T, L)
		return
	}
	if sym == Equilibrium {
		T = 0
	}
	if sym != Relative {
		S = 0
	}
	t = Torus{
		State:    state.Copy(),
		Basis:    basis,
		Symmetry: sym,
		T:        T,
		L:        L,
		S:        S,
		N:        N,
		M:        M,
	}
	return
}

// Zeros builds a torus with an all-zero state of the right shape.
func Zeros(basis Basis, sym Symmetry, N, M int, T, L, S float64) (t Torus, err error) {
	nr, nc, err := stateShape(basis, sym, N, M)
	if err != nil {
		return
	}
	return New(utils.NewMatrix(nr, nc), basis, sym, T, L, S, N)
}

func (t Torus) n() int { return t.N/2 - 1 }
func (t Torus) m() int { return t.M/2 - 1 }

func (t Torus) Copy() (r Torus) {
	r = t
	r.State = t.State.Copy()
	return
}

// with keeps the domain parameters and swaps in a new state array.
func (t Torus) with(state utils.Matrix, basis Basis) (r Torus) {
	r = t
	r.State = state
	r.Basis = basis
	return
}

func (t Torus) compatible(other Torus) error {
	if t.Symmetry != other.Symmetry {
		return fmt.Errorf("%w: %v vs %v", ErrShapeMismatch, t.Symmetry, other.Symmetry)
	}
	if t.Basis != other.Basis {
		return fmt.Errorf("%w: %v vs %v", ErrShapeMismatch, t.Basis, other.Basis)
	}
	nr, nc := t.State.Dims()
	or, oc := other.State.Dims()
	if nr != or || nc != oc {
		return fmt.Errorf("%w: %dx%d vs %dx%d", ErrShapeMismatch, nr, nc, or, oc)
	}
	return nil
}

// Add sums the state arrays, keeping the receiver's parameters.
func (t Torus) Add(other Torus) (r Torus, err error) {
	if err = t.compatible(other); err != nil {
		return
	}
	r = t.with(t.State.Copy().Add(other.State), t.Basis)
	return
}

// Sub differences the state arrays, keeping the receiver's parameters.
func (t Torus) Sub(other Torus) (r Torus, err error) {
	if err = t.compatible(other); err != nil {
		return
	}
	r = t.with(t.State.Copy().Subtract(other.State), t.Basis)
	return
}

// Scale multiplies the state by a scalar.
func (t Torus) Scale(c float64) Torus {
	return t.with(t.State.Copy().Scale(c), t.Basis)
}

// StateMul is the elementwise product of two states in the same basis.
func (t Torus) StateMul(other Torus) (r Torus, err error) {
	if err = t.compatible(other); err != nil {
		return
	}
	r = t.with(t.State.Copy().ElMul(other.State), t.Basis)
	return
}

// Renormalize rescales the physical field so that its extremum has absolute
// value 1/denom, returning the result in the field basis.
func (t Torus) Renormalize(denom float64) (r Torus, err error) {
	field, err := t.ConvertTo(Field)
	if err != nil {
		return
	}
	max := field.State.MaxAbs()
	if max == 0 || denom == 0 {
		err = fmt.Errorf("%w: cannot renormalize a zero field", ErrDegenerateParameter)
		return
	}
	r = field.with(field.State.Scale(1/(denom*max)), Field)
	return
}

// Norm is the L2 norm of the state array. The transforms are unitary, so
// the value does not depend on the basis.
func (t Torus) Norm() float64 {
	return t.State.Norm()
}

// Dot is the L2 inner product of two states in the same basis.
func (t Torus) Dot(other Torus) (d float64, err error) {
	if err = t.compatible(other); err != nil {
		return
	}
	d = t.State.Dot(other.State)
	return
}

// L2Distance is the norm of the elementwise difference of two states.
func (t Torus) L2Distance(other Torus) (d float64, err error) {
	diff, err := t.Sub(other)
	if err != nil {
		return
	}
	d = diff.State.Norm()
	return
}

const equilibriumTol = 1e-8

// IsZeroOrEquilibrium detects states that have collapsed to zero or lost
// all temporal variation. It returns a replacement torus and true when a
// collapse is detected: the zero state of the same variant, or an
// EQUILIBRIUM built from the time-averaged field. Otherwise the receiver
// comes back unchanged with false.
func (t Torus) IsZeroOrEquilibrium() (Torus, bool) {
	field := t.mustConvert(Field)
	if field.State.Norm() < equilibriumTol {
		z, _ := Zeros(Field, t.Symmetry, t.N, t.M, t.T, t.L, t.S)
		return z, true
	}
	if t.Symmetry == Equilibrium {
		return t, false
	}
	modes := t.mustConvert(SpacetimeModes)
	nr, nc := modes.State.Dims()
	if nr > 1 && modes.State.Slice(1, nr, 0, nc).Norm() < equilibriumTol {
		eq, err := New(field.State, Field, Equilibrium, 0, t.L, 0)
		if err == nil {
			return eq, true
		}
	}
	return t, false
}

func (t Torus) String() string {
	return fmt.Sprintf("%v torus %dx%d (%v basis) T=%.4f L=%.4f S=%.4f",
		t.Symmetry, t.N, t.M, t.Basis, t.T, t.L, t.S)
}
