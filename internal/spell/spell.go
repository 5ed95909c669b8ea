// Copyright 2017 The Bazel Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package spell suggests corrections for misspelled names
// ("foo is not defined (did you mean food?)").
package spell // import "github.com/squiggle-lang/squiggle-go/internal/spell"

// Nearest returns the candidate closest to x, or "" if none is within
// half the length of x. Names are compared by their keys, so callers
// choose what counts as the same spelling; a nil key compares names
// as they are. Of equally close candidates the earliest wins.
func Nearest(x string, candidates []string, key func(string) string) string {
	if key == nil {
		key = func(s string) string { return s }
	}
	kx := key(x)
	best, bestD := "", (len(kx)+1)/2
	for _, c := range candidates {
		if d := Distance(kx, key(c)); d < bestD {
			best, bestD = c, d
		}
	}
	return best
}

// Distance returns the Levenshtein edit distance between the byte
// strings a and b: the fewest insertions, deletions and substitutions
// that turn one into the other.
func Distance(a, b string) int {
	prev := make([]int, len(b)+1)
	cur := make([]int, len(b)+1)
	for j := range prev {
		prev[j] = j
	}
	for i := 1; i <= len(a); i++ {
		cur[0] = i
		for j := 1; j <= len(b); j++ {
			cost := 1
			if a[i-1] == b[j-1] {
				cost = 0
			}
			cur[j] = minOf(prev[j-1]+cost, prev[j]+1, cur[j-1]+1)
		}
		prev, cur = cur, prev
	}
	return prev[len(b)]
}

func minOf(x int, rest ...int) int {
	for _, y := range rest {
		if y < x {
			x = y
		}
	}
	return x
}
