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
package analysis

import (
	"blendsdk.dev/blend65c/internal/ast"
	"blendsdk.dev/blend65c/internal/cfg"
)

// Context is the read-mostly view every analyzer shares. The program and
// the per-function CFGs are built by earlier phases and treated as
// read-only here, except for each node's metadata map, which is
// append-only and keyed by enumerated Key values per analysis (spec §5
// "shared resources").
type Context struct {
	Program *ast.Program
	Funcs   []*ast.FuncDecl
	CFGs    map[*ast.FuncDecl]*cfg.Graph
	// Globals is the set of module-level storage names (var/@map/@zp decls)
	// visible to the purity analysis's global-write detection.
	Globals map[string]bool
	// Consts is the set of module-level const and enum-member names: always
	// read-only, never a dataflow source a definite-assignment check needs
	// to track.
	Consts map[string]bool
}

// NewContext builds a Context by constructing one CFG per function
// declaration found in program's top-level declarations, and collecting
// the set of module-level global and constant names.
func NewContext(program *ast.Program) *Context {
	ctx := &Context{
		Program: program,
		CFGs:    make(map[*ast.FuncDecl]*cfg.Graph),
		Globals: make(map[string]bool),
		Consts:  make(map[string]bool),
	}
	for _, decl := range program.Declarations {
		switch d := decl.(type) {
		case *ast.FuncDecl:
			ctx.Funcs = append(ctx.Funcs, d)
			ctx.CFGs[d] = cfg.Build(d)
		case *ast.VarDecl:
			ctx.Globals[d.Name] = true
		case *ast.MapDecl:
			ctx.Globals[d.Name] = true
		case *ast.ZeroPageDecl:
			ctx.Globals[d.Name] = true
		case *ast.ConstDecl:
			ctx.Consts[d.Name] = true
		case *ast.EnumDecl:
			for _, m := range d.Members {
				ctx.Consts[m.Name] = true
			}
		}
	}
	return ctx
}
