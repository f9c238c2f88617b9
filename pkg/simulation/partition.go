package simulation

// Range is the half-open index interval [Start, End) owned by one worker.
type Range struct {
	Start, End int
}

func (r Range) Len() int { return r.End - r.Start }

// Partition splits [0, n) into t contiguous ranges whose lengths differ by at
// most one. Boundaries are ceil(i*n/t), computed in integers so the ranges
// always cover every index exactly once. t < 1 is treated as 1.
// Some ranges are empty when t > n.
func Partition(n, t int) []Range {
	if t < 1 {
		t = 1
	}
	if n < 0 {
		n = 0
	}
	ranges := make([]Range, t)
	for i := range ranges {
		ranges[i] = Range{Start: ceilDiv(i*n, t), End: ceilDiv((i+1)*n, t)}
	}
	return ranges
}

func ceilDiv(a, b int) int {
	return (a + b - 1) / b
}
