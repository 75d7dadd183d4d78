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
package diag

// Code enumerates every diagnostic the core can emit.  Lexical/parse codes are
// included only so the type can round-trip diagnostics produced by the
// external parser; the core itself never constructs them.
type Code string

// Name resolution
const (
	UndefinedSymbol Code = "UNDEFINED_SYMBOL"
	AlreadyDeclared Code = "ALREADY_DECLARED"
	ModuleNotFound  Code = "MODULE_NOT_FOUND"
)

// Type checking
const (
	TypeMismatch           Code = "TYPE_MISMATCH"
	NarrowingConversionReq Code = "NARROWING_CONVERSION_REQUIRED"
	InvalidOperandType     Code = "INVALID_OPERAND_TYPE"
	ArraySizeMismatch      Code = "ARRAY_SIZE_MISMATCH"
	UnknownType            Code = "UNKNOWN_TYPE"
	InvalidTypeConstructed Code = "INVALID_TYPE"
)

// Control flow
const (
	UseBeforeInit   Code = "USE_BEFORE_INIT"
	UnreachableCode Code = "UNREACHABLE_CODE"
	MissingReturn   Code = "MISSING_RETURN"
)

// Import hygiene
const (
	UnusedImport Code = "UNUSED_IMPORT"
)

// Variable usage hints
const (
	UnusedVariable    Code = "UNUSED_VARIABLE"
	WriteOnlyVariable Code = "WRITE_ONLY_VARIABLE"
	DeadStore         Code = "DEAD_STORE"
)

// IL / SSA
const (
	MultipleDefinitions     Code = "MULTIPLE_DEFINITIONS"
	UseBeforeDefinition     Code = "USE_BEFORE_DEFINITION"
	DominanceViolation      Code = "DOMINANCE_VIOLATION"
	PhiNotAtBlockStart      Code = "PHI_NOT_AT_BLOCK_START"
	PhiInEntryBlock         Code = "PHI_IN_ENTRY_BLOCK"
	PhiMissingOperand       Code = "PHI_MISSING_OPERAND"
	PhiOperandCountMismatch Code = "PHI_OPERAND_COUNT_MISMATCH"
	PhiInvalidPredecessor   Code = "PHI_INVALID_PREDECESSOR"
)

// Internal
const (
	InternalError Code = "INTERNAL_ERROR"
)

// Lexical/parse (external; carried only for completeness of round-tripping).
const (
	UnexpectedToken    Code = "UNEXPECTED_TOKEN"
	UnterminatedString Code = "UNTERMINATED_STRING"
)

// Severity orders the urgency of a diagnostic.  Severity values are ordered so
// that Error is the most severe and Info the least.
type Severity int

// Severity levels, most to least severe.
const (
	Error Severity = iota
	Warning
	Hint
	Info
)

// String renders a severity as lower-case text.
func (s Severity) String() string {
	switch s {
	case Error:
		return "error"
	case Warning:
		return "warning"
	case Hint:
		return "hint"
	case Info:
		return "info"
	default:
		return "unknown"
	}
}
