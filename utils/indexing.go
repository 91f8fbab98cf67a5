package utils

// Index addresses a set of rows or columns for the Matrix slicing ops.
type Index []int

func NewIndex(N int) (I Index) {
	return make(Index, N)
}
