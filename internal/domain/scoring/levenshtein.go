// Package scoring grades typed answers against the expected word using
// Levenshtein distance with a full alignment.
package scoring

import (
	"slices"

	"golang.org/x/text/cases"
)

// OpKind is one step of an alignment between a guess and a target.
type OpKind string

// Alignment operations
const (
	OpEqual      OpKind = "eq"
	OpSubstitute OpKind = "sub"
	OpDelete     OpKind = "del" // character present in the guess only
	OpInsert     OpKind = "ins" // character missing from the guess
)

// Op is a single aligned step. Source is the guess character and Target the
// expected character; one of them is empty for deletions and insertions.
type Op struct {
	Kind   OpKind `json:"kind"`
	Source string `json:"source"`
	Target string `json:"target"`
}

// Result is the edit distance and the alignment that achieves it.
type Result struct {
	Distance int  `json:"distance"`
	Ops      []Op `json:"ops"`
}

// backtrace directions
const (
	fromDiag byte = iota + 1
	fromUp
	fromLeft
)

// Score computes the case-insensitive edit distance from guess to target
// together with the sequence of operations that turns one into the other.
// Inputs are compared rune by rune after Unicode case folding and are not
// trimmed. When several paths have the same cost the diagonal wins, then
// deletion, then insertion.
func Score(guess, target string) Result {
	src := []rune(guess)
	dst := []rune(target)
	m, n := len(src), len(dst)

	srcKey := foldRunes(src)
	dstKey := foldRunes(dst)

	dp := make([][]int, m+1)
	bt := make([][]byte, m+1)
	for i := range dp {
		dp[i] = make([]int, n+1)
		bt[i] = make([]byte, n+1)
		dp[i][0] = i
		bt[i][0] = fromUp
	}
	for j := 0; j <= n; j++ {
		dp[0][j] = j
		bt[0][j] = fromLeft
	}
	bt[0][0] = 0

	for i := 1; i <= m; i++ {
		for j := 1; j <= n; j++ {
			cost := 1
			if srcKey[i-1] == dstKey[j-1] {
				cost = 0
			}

			best, dir := dp[i-1][j-1]+cost, fromDiag
			if v := dp[i-1][j] + 1; v < best {
				best, dir = v, fromUp
			}
			if v := dp[i][j-1] + 1; v < best {
				best, dir = v, fromLeft
			}
			dp[i][j] = best
			bt[i][j] = dir
		}
	}

	ops := make([]Op, 0, max(m, n))
	for i, j := m, n; i > 0 || j > 0; {
		switch bt[i][j] {
		case fromDiag:
			kind := OpSubstitute
			if srcKey[i-1] == dstKey[j-1] {
				kind = OpEqual
			}
			ops = append(ops, Op{Kind: kind, Source: string(src[i-1]), Target: string(dst[j-1])})
			i--
			j--
		case fromUp:
			ops = append(ops, Op{Kind: OpDelete, Source: string(src[i-1])})
			i--
		default:
			ops = append(ops, Op{Kind: OpInsert, Target: string(dst[j-1])})
			j--
		}
	}
	slices.Reverse(ops)

	return Result{Distance: dp[m][n], Ops: ops}
}

// foldRunes returns the case-folded form of every rune as a comparison key.
func foldRunes(rs []rune) []string {
	folder := cases.Fold()
	keys := make([]string, len(rs))
	for i, r := range rs {
		keys[i] = folder.String(string(r))
	}
	return keys
}
