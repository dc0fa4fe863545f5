package parallel

// Range is the half-open interval [Lo, Hi).
type Range struct {
	Lo, Hi int
}

func (r Range) Len() int {
	return r.Hi - r.Lo
}

// Chunks splits [0, total) into at most parts ranges of near equal length.
// Every boundary is a multiple of align, so ranges never split a unit of
// align elements; total should itself be a multiple of align.
func Chunks(total, parts, align int) []Range {
	if total <= 0 {
		return nil
	}
	if align < 1 {
		align = 1
	}
	units := (total + align - 1) / align
	parts = max(1, min(parts, units))

	res := make([]Range, 0, parts)
	lo := 0
	for i := range parts {
		hi := min(total, (units*(i+1)/parts)*align)
		if hi > lo {
			res = append(res, Range{Lo: lo, Hi: hi})
		}
		lo = hi
	}
	return res
}
