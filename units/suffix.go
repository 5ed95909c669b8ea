// Copyright 2017 The Bazel Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package units

// ScaleSuffixes maps each magnitude suffix of a numeric literal to its
// multiplier. A suffixed literal such as 5k or 3% is unitless; any other
// suffix (5_meters) names a physical unit.
var ScaleSuffixes = map[string]float64{
	"n": 1e-9,
	"m": 1e-3,
	"%": 1e-2,
	"k": 1e3,
	"M": 1e6,
	"B": 1e9,
	"G": 1e9,
	"T": 1e12,
	"P": 1e15,
}

// IsScale reports whether suffix is a magnitude suffix rather than a unit.
func IsScale(suffix string) bool {
	_, ok := ScaleSuffixes[suffix]
	return ok
}
