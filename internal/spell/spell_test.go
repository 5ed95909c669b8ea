// Copyright 2017 The Bazel Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package spell_test

import (
	"strings"
	"testing"

	"github.com/squiggle-lang/squiggle-go/internal/spell"
)

func TestNearest(t *testing.T) {
	candidates := []string{"normal", "lognormal", "uniform", "meters", "Tag.name", "Tag.doc"}
	for _, test := range []struct {
		x    string
		key  func(string) string
		want string
	}{
		{"normla", nil, "normal"},
		{"NORMAL", nil, ""},
		{"NORMAL", strings.ToLower, "normal"},
		{"unifrom", nil, "uniform"},
		{"Tag.nmae", nil, "Tag.name"},
		{"Tag.bogus", nil, "Tag.doc"},
		{"xyzzy", nil, ""},
		{"x", nil, ""},
	} {
		if got := spell.Nearest(test.x, candidates, test.key); got != test.want {
			t.Errorf("Nearest(%q) = %q, want %q", test.x, got, test.want)
		}
	}
}

// Of equally close candidates, the first is chosen.
func TestNearestTie(t *testing.T) {
	if got := spell.Nearest("cat", []string{"bat", "cab", "cut"}, nil); got != "bat" {
		t.Errorf("Nearest(cat) = %q, want bat", got)
	}
}

func TestDistance(t *testing.T) {
	for _, test := range []struct {
		x, y string
		want int
	}{
		{"", "", 0},
		{"abc", "abc", 0},
		{"abc", "", 3},
		{"", "abc", 3},
		{"kitten", "sitting", 3},
		{"flaw", "lawn", 2},
		{"prefix", "prefixes", 2},
		{"bogus", "doc", 4},
	} {
		if got := spell.Distance(test.x, test.y); got != test.want {
			t.Errorf("Distance(%q, %q) = %d, want %d", test.x, test.y, got, test.want)
		}
		if got := spell.Distance(test.y, test.x); got != test.want {
			t.Errorf("Distance(%q, %q) = %d, want %d", test.y, test.x, got, test.want)
		}
	}
}
