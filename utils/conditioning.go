package utils

import "gonum.org/v1/gonum/mat"

// SingularValues returns the extreme singular values of the matrix. A
// failed factorization reports the degenerate pair (0, 1e16).
func (m Matrix) SingularValues() (min, max float64) { // Does not change receiver
	var svd mat.SVD
	if !svd.Factorize(m.M, mat.SVDThin) {
		return 0, 1e16
	}
	values := svd.Values(nil)
	if len(values) == 0 {
		return 0, 1e16
	}
	// Values come back in descending order.
	return values[len(values)-1], values[0]
}

// ConditionNumber is the ratio of the extreme singular values, capped at
// 1e16 when the smallest is numerically zero.
func (m Matrix) ConditionNumber() float64 { // Does not change receiver
	min, max := m.SingularValues()
	if min < 1e-16 {
		return 1e16
	}
	return max / min
}
