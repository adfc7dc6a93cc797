package utils

// AbsInt64 returns the absolute value of an int64.
func AbsInt64(x int64) int64 {
	if x < 0 {
		return -x
	}
	return x
}

// SplitCents divides totalCents into parts whole-cent amounts that sum back
// to totalCents exactly: every part gets floor(total/parts) and the first
// (total mod parts) parts get one extra cent, in index order. Negative
// totals split by magnitude and keep their sign. parts must be >= 1.
func SplitCents(totalCents int64, parts int) []int64 {
	if parts < 1 {
		return nil
	}
	sign := int64(1)
	if totalCents < 0 {
		sign = -1
		totalCents = -totalCents
	}
	base := totalCents / int64(parts)
	remainder := totalCents % int64(parts)
	out := make([]int64, parts)
	for i := range out {
		share := base
		if int64(i) < remainder {
			share++
		}
		out[i] = sign * share
	}
	return out
}
