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

// Package ast defines the typed syntax tree the external lexer/parser hands
// to this module (spec §6's "parser contract").  The core never constructs
// source text into these nodes itself; it only reads and annotates them.
//
// Every node carries a source location and a mutable metadata map keyed by
// the enumerated optimisation-metadata keys of internal/analysis. Metadata
// is purely advisory (see internal/analysis) -- a node with no metadata at
// all is always a legal, conservative state.
package ast

import "blendsdk.dev/blend65c/internal/diag"

// Node is implemented by every syntax tree node.
type Node interface {
	// Span returns this node's location in its originating source file.
	Span() diag.Span
	// Meta returns this node's mutable optimisation-metadata map. The map is
	// created lazily; callers should use the Get/Set helpers in
	// internal/analysis rather than touching it directly where possible.
	Meta() map[string]any
}

// Base is embedded by every concrete node to supply Span/Meta for free.
type Base struct {
	Location diag.Span
	Metadata map[string]any
}

// Span implements Node.
func (b *Base) Span() diag.Span { return b.Location }

// Meta implements Node.
func (b *Base) Meta() map[string]any {
	if b.Metadata == nil {
		b.Metadata = make(map[string]any)
	}
	return b.Metadata
}

// Program is the root of a single parsed source file: a module declaration
// followed by zero or more top-level declarations.
type Program struct {
	Base
	Module       ModuleDecl
	Declarations []Declaration
}

// Declaration is implemented by every top-level declaration kind: module,
// import, variable, constant, function, memory-mapped, zero-page, enum.
type Declaration interface {
	Node
	declNode()
}

// Expr is implemented by every expression kind.
type Expr interface {
	Node
	exprNode()
}

// Stmt is implemented by every statement kind.
type Stmt interface {
	Node
	stmtNode()
}
