// Package levenshtein computes edit distances between short names and picks
// the closest candidate for "did you mean" hints.
package levenshtein

// Context reuses one row buffer across Distance calls.
// It is not safe for concurrent use.
type Context struct {
	row []int
}

func (ctx *Context) buffer(length int) []int {
	if cap(ctx.row) < length {
		ctx.row = make([]int, length)
	}

	return ctx.row[:length]
}

// Distance returns the minimum number of single-rune insertions, deletions
// and substitutions turning a into b.
func (ctx *Context) Distance(a, b string) int {
	src, dst := []rune(a), []rune(b)
	if len(src) < len(dst) {
		src, dst = dst, src
	}

	if len(dst) == 0 {
		return len(src)
	}

	// row holds distances from src[:i] to dst[:j] for the current i.
	row := ctx.buffer(len(dst) + 1)
	for j := range row {
		row[j] = j
	}

	for i, sr := range src {
		diag := row[0]
		row[0] = i + 1

		for j, dr := range dst {
			above := row[j+1]

			cost := 1
			if sr == dr {
				cost = 0
			}

			row[j+1] = min(above+1, row[j]+1, diag+cost)
			diag = above
		}
	}

	return row[len(dst)]
}

// Closest returns the candidate nearest to name when its distance is at most
// maxDistance. Ties go to the earlier candidate.
func Closest(name string, candidates []string, maxDistance int) (string, bool) {
	var (
		ctx  Context
		best string
	)

	bestDistance := maxDistance + 1

	for _, candidate := range candidates {
		d := ctx.Distance(name, candidate)
		if d < bestDistance {
			best, bestDistance = candidate, d
		}
	}

	return best, bestDistance <= maxDistance
}
