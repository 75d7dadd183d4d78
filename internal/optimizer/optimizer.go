// Copyright Consensys Software Inc.
//
// Licensed under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with
// the License. You may obtain a copy of the License at
//
// http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on
// an "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied. See the License for the
// specific language governing permissions and limitations under the License.
//
// SPDX-License-Identifier: Apache-2.0

// Package optimizer runs the one active transformation of spec §4.J over an
// IL module: rewriting the peek/poke hardware intrinsics into direct
// absolute reads/writes wherever the address is a compile-time constant,
// then removing the address constants that rewrite left dead. Every
// transformation preserves the register/block shape internal/ssa expects --
// ssa.Verify returns clean both before and after a Run.
package optimizer

import "blendsdk.dev/blend65c/internal/il"

// Level selects how aggressively Run transforms a module. Only O0 is active
// today; the remaining levels are accepted and recorded but currently
// behave identically to O0, reserved for future peephole/inlining passes.
type Level int

// Optimization levels, mirroring the compiler's optimization_level option.
const (
	O0 Level = iota
	O1
	O2
	O3
	Os
	Oz
)

func (l Level) String() string {
	switch l {
	case O0:
		return "O0"
	case O1:
		return "O1"
	case O2:
		return "O2"
	case O3:
		return "O3"
	case Os:
		return "Os"
	case Oz:
		return "Oz"
	default:
		return "O0"
	}
}

// ParseLevel resolves a level name as written in a compiler configuration.
// An unrecognized name resolves to O0 rather than erroring, since every
// level is currently equivalent to O0 in behavior anyway.
func ParseLevel(name string) Level {
	switch name {
	case "O1":
		return O1
	case "O2":
		return O2
	case "O3":
		return O3
	case "Os":
		return Os
	case "Oz":
		return Oz
	default:
		return O0
	}
}

// Stats reports what a Run accomplished, for diagnostics/phase reporting.
type Stats struct {
	IntrinsicsLowered int
	ConstsEliminated  int
}

// Run applies the optimizer to every function in mod at the given level.
// All levels currently run the same pass sequence; the level is threaded
// through so later passes can key off it once more than one exists.
func Run(mod *il.Module, level Level) Stats {
	var stats Stats
	for _, fn := range mod.Functions() {
		stats.IntrinsicsLowered += lowerIntrinsics(fn)
		stats.ConstsEliminated += eliminateDeadConsts(fn)
	}
	return stats
}

// RunFunction applies the same pass sequence to a single function, for
// callers (tests, the analysis phases) that work below module granularity.
func RunFunction(fn *il.Function, level Level) Stats {
	return Stats{
		IntrinsicsLowered: lowerIntrinsics(fn),
		ConstsEliminated:  eliminateDeadConsts(fn),
	}
}
