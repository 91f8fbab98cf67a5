// Package persist reads and writes torus states. The canonical surface is
// the physical field together with the domain parameters, discretization,
// and the residual at save time; records round-trip through a YAML file
// codec or a SQLite solution archive.
package persist

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/ghodss/yaml"

	"github.com/notargets/goks/ks"
	"github.com/notargets/goks/torus"
	"github.com/notargets/goks/utils"
)

// Record is the serialized form of a torus. Field rows follow the state
// array ordering, last row t = 0.
type Record struct {
	Symmetry string      `json:"symmetry"`
	T        float64     `json:"period"`
	L        float64     `json:"speriod"`
	S        float64     `json:"spatial_shift"`
	N        int         `json:"time_discretization"`
	M        int         `json:"space_discretization"`
	Residual float64     `json:"residual"`
	Field    [][]float64 `json:"field"`
}

// FromTorus captures a state in record form, converting to the field basis
// and evaluating the residual at the current parameters.
func FromTorus(t torus.Torus) (rec Record, err error) {
	field, err := t.ConvertTo(torus.Field)
	if err != nil {
		return
	}
	res, err := ks.Residual(t)
	if err != nil {
		return
	}
	rows := make([][]float64, t.N)
	for i := range rows {
		rows[i] = make([]float64, t.M)
		for j := 0; j < t.M; j++ {
			rows[i][j] = field.State.At(i, j)
		}
	}
	rec = Record{
		Symmetry: t.Symmetry.Tag(),
		T:        t.T,
		L:        t.L,
		S:        t.S,
		N:        t.N,
		M:        t.M,
		Residual: res,
		Field:    rows,
	}
	return
}

// ToTorus rebuilds the field-basis state a record describes.
func ToTorus(rec Record) (t torus.Torus, err error) {
	sym, err := torus.ParseSymmetry(rec.Symmetry)
	if err != nil {
		return
	}
	if err = rec.checkShape(); err != nil {
		return
	}
	state := utils.NewMatrix(rec.N, rec.M)
	for i, row := range rec.Field {
		state.SetRow(i, row)
	}
	return torus.New(state, torus.Field, sym, rec.T, rec.L, rec.S)
}

// checkShape verifies the field payload against the declared discretization.
func (r Record) checkShape() error {
	if len(r.Field) != r.N {
		return fmt.Errorf("%w: record field has %d rows, N=%d",
			torus.ErrShapeMismatch, len(r.Field), r.N)
	}
	for i, row := range r.Field {
		if len(row) != r.M {
			return fmt.Errorf("%w: record field row %d has %d columns, M=%d",
				torus.ErrShapeMismatch, i, len(row), r.M)
		}
	}
	return nil
}

// Filename is the parameter-dependent default save name,
// {symmetry}_L{int}p{frac}_T{int}p{frac}.yaml with two fractional digits.
func (r Record) Filename() string {
	return fmt.Sprintf("%s_L%s_T%s.yaml", r.Symmetry, pname(r.L), pname(r.T))
}

func pname(x float64) string {
	return strings.Replace(strconv.FormatFloat(x, 'f', 2, 64), ".", "p", 1)
}

// Save writes the record as a YAML document.
func Save(path string, rec Record) error {
	b, err := yaml.Marshal(rec)
	if err != nil {
		return fmt.Errorf("marshal record: %w", err)
	}
	return os.WriteFile(path, b, 0644)
}

// Load reads a YAML record written by Save.
func Load(path string) (rec Record, err error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return
	}
	if err = yaml.Unmarshal(b, &rec); err != nil {
		err = fmt.Errorf("unmarshal %s: %w", path, err)
	}
	return
}
