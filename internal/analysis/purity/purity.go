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

// Package purity implements the four-valued purity lattice of spec §4.F:
// Pure > ReadOnly > LocalEffects > Impure, seeded from each function's
// direct global/memory reads and writes, then propagated to a fixed point
// along the call graph.
package purity

import (
	"sort"

	"blendsdk.dev/blend65c/internal/analysis"
	"blendsdk.dev/blend65c/internal/analysis/callgraph"
	"blendsdk.dev/blend65c/internal/ast"
	"blendsdk.dev/blend65c/internal/diag"
)

// Analyzer is the Tier2 purity analysis.
type Analyzer struct{}

// New constructs the purity analyzer.
func New() *Analyzer { return &Analyzer{} }

// Name implements analysis.Analyzer.
func (*Analyzer) Name() string { return "purity" }

// Tier implements analysis.Analyzer.
func (*Analyzer) Tier() analysis.Tier { return analysis.Tier2 }

type facts struct {
	level    analysis.Purity
	writes   map[string]bool
	calledFn map[string]bool
}

// Analyze implements analysis.Analyzer.
func (a *Analyzer) Analyze(ctx *analysis.Context) []diag.Diagnostic {
	g := callgraph.Build(ctx)

	perFunc := make(map[string]*facts)
	for _, fn := range ctx.Funcs {
		perFunc[fn.Name] = directFacts(fn, ctx.Globals)
	}

	// Propagate along the call graph to a fixed point: a caller is at least
	// as impure as every function it calls.
	changed := true
	for changed {
		changed = false
		for _, fn := range ctx.Funcs {
			f := perFunc[fn.Name]
			for callee := range g.Edges[fn.Name] {
				cf, ok := perFunc[callee]
				if !ok {
					continue // external/unresolved callee: conservatively no additional info
				}
				merged := analysis.Meet(f.level, cf.level)
				if merged != f.level {
					f.level = merged
					changed = true
				}
				for w := range cf.writes {
					if !f.writes[w] {
						f.writes[w] = true
						changed = true
					}
				}
				if !f.calledFn[callee] {
					f.calledFn[callee] = true
					changed = true
				}
				for c := range cf.calledFn {
					if !f.calledFn[c] {
						f.calledFn[c] = true
						changed = true
					}
				}
			}
		}
	}

	for _, fn := range ctx.Funcs {
		f := perFunc[fn.Name]
		analysis.Set(fn, analysis.PurityLevel, f.level)
		analysis.Set(fn, analysis.PurityHasSideEffects, f.level >= analysis.LocalEffects)
		analysis.Set(fn, analysis.PurityWrittenLocations, sortedKeys(f.writes))
		analysis.Set(fn, analysis.PurityCalledFunctions, sortedKeys(f.calledFn))
	}
	return nil
}

// directFacts computes fn's purity ignoring its callees' transitive
// behavior (that's folded in by the fixed-point loop above).
func directFacts(fn *ast.FuncDecl, globals map[string]bool) *facts {
	f := &facts{level: analysis.Pure, writes: make(map[string]bool), calledFn: make(map[string]bool)}
	if fn.Body != nil {
		walkStmt(fn.Body, globals, f)
	}
	return f
}

func raise(f *facts, level analysis.Purity) {
	f.level = analysis.Meet(f.level, level)
}

func walkStmt(s ast.Stmt, globals map[string]bool, f *facts) {
	switch x := s.(type) {
	case nil:
		return
	case *ast.LetStmt:
		walkExpr(x.Init, globals, f)
	case *ast.AssignStmt:
		if id, ok := x.Target.(*ast.IdentExpr); ok && globals[id.Name] {
			f.writes[id.Name] = true
			raise(f, analysis.LocalEffects)
		}
		if _, ok := x.Target.(*ast.IndexExpr); ok {
			raise(f, analysis.LocalEffects)
		}
		walkExpr(x.Target, globals, f)
		walkExpr(x.Value, globals, f)
	case *ast.CompoundAssignStmt:
		if id, ok := x.Target.(*ast.IdentExpr); ok && globals[id.Name] {
			f.writes[id.Name] = true
			raise(f, analysis.LocalEffects)
		}
		walkExpr(x.Target, globals, f)
		walkExpr(x.Value, globals, f)
	case *ast.ExprStmt:
		walkExpr(x.Value, globals, f)
	case *ast.ReturnStmt:
		walkExpr(x.Value, globals, f)
	case *ast.IfStmt:
		walkExpr(x.Cond, globals, f)
		walkStmt(x.Then, globals, f)
		walkStmt(x.Else, globals, f)
	case *ast.WhileStmt:
		walkExpr(x.Cond, globals, f)
		walkStmt(x.Body, globals, f)
	case *ast.ForRangeStmt:
		walkExpr(x.Low, globals, f)
		walkExpr(x.High, globals, f)
		walkStmt(x.Body, globals, f)
	case *ast.BlockStmt:
		for _, stmt := range x.Stmts {
			walkStmt(stmt, globals, f)
		}
	}
}

func walkExpr(e ast.Expr, globals map[string]bool, f *facts) {
	switch x := e.(type) {
	case nil:
		return
	case *ast.IdentExpr:
		if globals[x.Name] {
			raise(f, analysis.ReadOnly)
		}
	case *ast.BinaryExpr:
		walkExpr(x.Left, globals, f)
		walkExpr(x.Right, globals, f)
	case *ast.UnaryExpr:
		walkExpr(x.Operand, globals, f)
	case *ast.CallExpr:
		if id, ok := x.Callee.(*ast.IdentExpr); ok {
			f.calledFn[id.Name] = true
			switch id.Name {
			case "peek", "peekw":
				raise(f, analysis.ReadOnly)
			case "poke", "pokew":
				raise(f, analysis.LocalEffects)
			}
		}
		for _, arg := range x.Args {
			walkExpr(arg, globals, f)
		}
	case *ast.IndexExpr:
		raise(f, analysis.ReadOnly)
		walkExpr(x.Array, globals, f)
		walkExpr(x.Index, globals, f)
	case *ast.MemberExpr:
		walkExpr(x.Target, globals, f)
	case *ast.TernaryExpr:
		walkExpr(x.Cond, globals, f)
		walkExpr(x.Then, globals, f)
		walkExpr(x.Else, globals, f)
	case *ast.CastExpr:
		walkExpr(x.Value, globals, f)
	}
}

func sortedKeys(m map[string]bool) []string {
	if len(m) == 0 {
		return nil
	}
	out := make([]string, 0, len(m))
	for k := range m {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}
