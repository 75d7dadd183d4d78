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

// Package analysis is the tiered analysis framework of spec §3.8/§4.E: a
// strongly-typed metadata key enumeration (in place of an untyped property
// bag), a shared Analyzer interface, and an Orchestrator that runs analyses
// in fixed tier order and accumulates their diagnostics.
package analysis

// Key enumerates every optimization-metadata key an analysis may attach to
// an AST node. Using a dedicated type (rather than bare strings scattered
// across the analyses) catches typos at compile time; String gives the
// stable wire form stored in ast.Node.Meta().
type Key int

// Metadata keys, grouped by the analysis that owns them.
const (
	// Definite assignment (internal/analysis/defassign).
	AlwaysInitialized Key = iota
	DefiniteAssignmentInitValue

	// Variable usage (internal/analysis/usage).
	UsageReadCount
	UsageWriteCount
	UsageHotPathCount
	UsageUnused
	UsageWriteOnly
	UsageDeadStore

	// Purity (internal/analysis/purity).
	PurityLevel
	PurityHasSideEffects
	PurityWrittenLocations
	PurityCalledFunctions

	// Call graph (internal/analysis/callgraph).
	CallGraphCallCount
	CallGraphInlineCandidate
	CallGraphFunctionSize
	CallGraphRecursive

	// Loop invariance (internal/analysis/loopinv).
	LoopInvariant

	// Global value numbering (internal/analysis/gvn).
	GVNNumber
	GVNRedundant
	GVNReplacement

	// Common subexpression elimination (internal/analysis/cse).
	CSEAvailable
	CSECandidate

	// Expression complexity (internal/analysis/complexity).
	ExprComplexityScore
	ExprRegisterPressure
	ExprTreeDepth
	ExprContainsMemoryAccess

	// Dead code (internal/analysis/deadcode).
	DeadCodeUnreachable
	DeadCodeKind
	DeadCodeReason
	DeadCodeRemovable
)

var keyNames = [...]string{
	"AlwaysInitialized",
	"DefiniteAssignmentInitValue",
	"UsageReadCount",
	"UsageWriteCount",
	"UsageHotPathCount",
	"UsageUnused",
	"UsageWriteOnly",
	"UsageDeadStore",
	"PurityLevel",
	"PurityHasSideEffects",
	"PurityWrittenLocations",
	"PurityCalledFunctions",
	"CallGraphCallCount",
	"CallGraphInlineCandidate",
	"CallGraphFunctionSize",
	"CallGraphRecursive",
	"LoopInvariant",
	"GVNNumber",
	"GVNRedundant",
	"GVNReplacement",
	"CSEAvailable",
	"CSECandidate",
	"ExprComplexityScore",
	"ExprRegisterPressure",
	"ExprTreeDepth",
	"ExprContainsMemoryAccess",
	"DeadCodeUnreachable",
	"DeadCodeKind",
	"DeadCodeReason",
	"DeadCodeRemovable",
}

// String returns the stable name used as the map key in ast.Node.Meta().
func (k Key) String() string {
	if int(k) < 0 || int(k) >= len(keyNames) {
		return "unknown"
	}
	return keyNames[k]
}

// DeadCodeKindValue is the value stored under DeadCodeKind.
type DeadCodeKindValue int

// Dead-code classifications.
const (
	UnreachableStatement DeadCodeKindValue = iota
	UnreachableBranch
)

func (k DeadCodeKindValue) String() string {
	if k == UnreachableBranch {
		return "UnreachableBranch"
	}
	return "UnreachableStatement"
}

// Purity is the four-valued lattice of spec §4.F, ordered from most to
// least restrictive: Pure > ReadOnly > LocalEffects > Impure.
type Purity int

// Purity levels, in lattice order.
const (
	Pure Purity = iota
	ReadOnly
	LocalEffects
	Impure
)

func (p Purity) String() string {
	switch p {
	case Pure:
		return "Pure"
	case ReadOnly:
		return "ReadOnly"
	case LocalEffects:
		return "LocalEffects"
	default:
		return "Impure"
	}
}

// Meet returns the more restrictive (i.e. "weaker guarantee") of two purity
// levels, used when combining the purity of multiple call targets or
// sub-expressions.
func Meet(a, b Purity) Purity {
	if a > b {
		return a
	}
	return b
}
