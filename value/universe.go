// Copyright 2017 The Bazel Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package value

import "github.com/squiggle-lang/squiggle-go/units"

// Names of the functions that operators and lookups compile to.
const (
	AtIndex = "$_atIndex_$"
)

// InfixFunctions maps each infix operator to the function it calls.
var InfixFunctions = map[string]string{
	"+":  "add",
	"-":  "subtract",
	"*":  "multiply",
	"/":  "divide",
	"^":  "pow",
	".+": "dotAdd",
	".-": "dotSubtract",
	".*": "dotMultiply",
	"./": "dotDivide",
	".^": "dotPow",
	"==": "equal",
	"!=": "unequal",
	"<":  "smaller",
	"<=": "smallerEq",
	">":  "larger",
	">=": "largerEq",
	"&&": "and",
	"||": "or",
	"to": "credibleIntervalToDistribution",
}

// UnaryFunctions maps each prefix operator to the function it calls.
var UnaryFunctions = map[string]string{
	"-":  "unaryMinus",
	"!":  "not",
	".-": "unaryDotMinus",
}

// Tags lists the decorators the standard library implements.
// @name(...) compiles to a call of Tag.name.
var Tags = []string{"name", "doc", "format", "hide", "showAs", "startOpen", "startClosed", "location"}

// Library lists other standard library functions.
var Library = []string{
	"normal", "lognormal", "uniform", "beta", "cauchy", "gamma", "triangular",
	"pointMass", "mx", "mixture", "sample", "sampleN", "mean", "stdev",
	"quantile", "cdf", "pdf", "inv", "log", "exp", "sqrt", "max", "min",
	"List.map", "List.reduce", "List.upTo", "Dict.get", "Dict.set",
}

// Universe is the default externals table: the standard library as
// seen by the compiler. It must not be modified; compilations share it.
var Universe StringDict

func init() {
	Universe = make(StringDict)
	add := func(name string) { Universe[name] = NewBuiltin(name) }
	for _, name := range InfixFunctions {
		add(name)
	}
	for _, name := range UnaryFunctions {
		add(name)
	}
	for _, tag := range Tags {
		add("Tag." + tag)
	}
	for suffix := range units.ScaleSuffixes {
		add("fromUnit_" + suffix)
	}
	for _, name := range Library {
		add(name)
	}
	add(AtIndex)
	Universe["true"] = Bool(true)
	Universe["false"] = Bool(false)
	Universe["Math.pi"] = Number(3.141592653589793)
}
