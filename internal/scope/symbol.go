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

// Package scope implements the scope/symbol tree: hierarchical name
// resolution, declaration, shadowing and module-level visibility (spec
// §3.4, §4.B).
package scope

import "blendsdk.dev/blend65c/internal/types"

// SymbolKind identifies what a symbol denotes.
type SymbolKind int

// Symbol kinds.
const (
	Variable SymbolKind = iota
	Constant
	Parameter
	Function
	Imported
	EnumMember
	TypeAlias
)

// String renders a symbol kind for diagnostics/debugging.
func (k SymbolKind) String() string {
	switch k {
	case Variable:
		return "variable"
	case Constant:
		return "constant"
	case Parameter:
		return "parameter"
	case Function:
		return "function"
	case Imported:
		return "imported"
	case EnumMember:
		return "enum-member"
	case TypeAlias:
		return "type-alias"
	default:
		return "?"
	}
}

// Flags are boolean attributes attached to a symbol.
type Flags struct {
	IsConst    bool
	IsExported bool
}

// ImportPayload is the kind-specific payload carried by an Imported symbol.
type ImportPayload struct {
	OriginalName string
	SourceModule string
}

// FunctionParam describes one parameter of a function symbol.
type FunctionParam struct {
	Name string
	Type types.Type
}

// FunctionPayload is the kind-specific payload carried by a Function symbol.
type FunctionPayload struct {
	Params []FunctionParam
}

// Symbol is a single named entity declared within a scope.
type Symbol struct {
	Name string
	Kind SymbolKind
	// Site is an opaque back-reference to the declaration AST node; callers
	// type-assert it to the concrete ast.Declaration/ast.Stmt they expect.
	Site any
	// Type is nil until the type-resolution pass runs.
	Type    types.Type
	Flags   Flags
	Payload any
}

// HasType reports whether this symbol's type has been resolved yet.
func (s *Symbol) HasType() bool {
	return s.Type != nil
}
