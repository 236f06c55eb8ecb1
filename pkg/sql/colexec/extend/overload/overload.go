// Copyright 2024 TableKit Authors
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//      http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Package overload defines the operators usable inside key expressions
// and their per-type evaluation rules.
package overload

const (
	// unary
	UnaryMinus = iota
	Not

	// binary arithmetic
	Plus
	Minus
	Mult
	Div
	Mod

	// binary comparison
	EQ
	NE
	LT
	LE
	GT
	GE

	// binary logical
	And
	Or
)

var OpName = map[int]string{
	UnaryMinus: "-",
	Not:        "not",
	Plus:       "+",
	Minus:      "-",
	Mult:       "*",
	Div:        "/",
	Mod:        "%",
	EQ:         "=",
	NE:         "<>",
	LT:         "<",
	LE:         "<=",
	GT:         ">",
	GE:         ">=",
	And:        "and",
	Or:         "or",
}
