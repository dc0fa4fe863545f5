// Package vec has elementwise helpers over small numeric slices.
package vec

type Number interface {
	~int | ~int32 | ~int64 | ~uint | ~uint8 | ~uint16 | ~uint32 | ~uint64 | ~float32 | ~float64
}

// Add adds src into dst elementwise. Only the common prefix is touched.
func Add[T Number](dst, src []T) {
	for i := range min(len(dst), len(src)) {
		dst[i] += src[i]
	}
}

// Sum returns the elementwise sum of vs, as long as the shortest input.
func Sum[T Number](vs ...[]T) []T {
	if len(vs) == 0 {
		return nil
	}
	n := len(vs[0])
	for _, v := range vs[1:] {
		n = min(n, len(v))
	}
	res := make([]T, n)
	for _, v := range vs {
		Add(res, v)
	}
	return res
}

// Scale returns v multiplied by f.
func Scale[T Number](v []T, f T) []T {
	res := make([]T, len(v))
	for i, x := range v {
		res[i] = x * f
	}
	return res
}

// SumRuns sums every run of n consecutive values. A trailing run shorter
// than n is dropped.
func SumRuns[T Number](v []T, n int) []T {
	if n < 1 {
		return nil
	}
	res := make([]T, len(v)/n)
	for i := range res {
		var s T
		for _, x := range v[i*n : (i+1)*n] {
			s += x
		}
		res[i] = s
	}
	return res
}

// Widen converts a byte slice to a wider numeric type.
func Widen[T Number](v []byte) []T {
	res := make([]T, len(v))
	for i, x := range v {
		res[i] = T(x)
	}
	return res
}
