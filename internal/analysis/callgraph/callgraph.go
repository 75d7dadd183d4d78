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

// Package callgraph implements the call-graph analysis of spec §4.F: nodes
// are functions, edges are direct call sites; recursion is detected by
// Tarjan SCC, and small non-recursive non-exported functions with no loops
// and few call sites are marked inline candidates.
package callgraph

import (
	"blendsdk.dev/blend65c/internal/analysis"
	"blendsdk.dev/blend65c/internal/ast"
	"blendsdk.dev/blend65c/internal/diag"
)

// Graph is the call graph built for one program: function name -> set of
// directly-called function names, plus a per-call-site count.
type Graph struct {
	Edges     map[string]map[string]bool
	CallCount map[string]int
	funcs     map[string]*ast.FuncDecl
}

// Build constructs the call graph for every function in ctx.
func Build(ctx *analysis.Context) *Graph {
	g := &Graph{
		Edges:     make(map[string]map[string]bool),
		CallCount: make(map[string]int),
		funcs:     make(map[string]*ast.FuncDecl),
	}
	for _, fn := range ctx.Funcs {
		g.funcs[fn.Name] = fn
		g.Edges[fn.Name] = make(map[string]bool)
		if fn.Body != nil {
			collectCalls(fn.Body, fn.Name, g)
		}
	}
	return g
}

func collectCalls(s ast.Stmt, caller string, g *Graph) {
	switch x := s.(type) {
	case nil:
		return
	case *ast.ExprStmt:
		collectCallsExpr(x.Value, caller, g)
	case *ast.LetStmt:
		collectCallsExpr(x.Init, caller, g)
	case *ast.AssignStmt:
		collectCallsExpr(x.Value, caller, g)
	case *ast.CompoundAssignStmt:
		collectCallsExpr(x.Value, caller, g)
	case *ast.ReturnStmt:
		collectCallsExpr(x.Value, caller, g)
	case *ast.IfStmt:
		collectCallsExpr(x.Cond, caller, g)
		collectCalls(x.Then, caller, g)
		collectCalls(x.Else, caller, g)
	case *ast.WhileStmt:
		collectCallsExpr(x.Cond, caller, g)
		collectCalls(x.Body, caller, g)
	case *ast.ForRangeStmt:
		collectCalls(x.Body, caller, g)
	case *ast.BlockStmt:
		for _, stmt := range x.Stmts {
			collectCalls(stmt, caller, g)
		}
	}
}

func collectCallsExpr(e ast.Expr, caller string, g *Graph) {
	switch x := e.(type) {
	case nil:
		return
	case *ast.CallExpr:
		if id, ok := x.Callee.(*ast.IdentExpr); ok {
			g.Edges[caller][id.Name] = true
			g.CallCount[id.Name]++
		}
		for _, arg := range x.Args {
			collectCallsExpr(arg, caller, g)
		}
	case *ast.BinaryExpr:
		collectCallsExpr(x.Left, caller, g)
		collectCallsExpr(x.Right, caller, g)
	case *ast.UnaryExpr:
		collectCallsExpr(x.Operand, caller, g)
	case *ast.IndexExpr:
		collectCallsExpr(x.Array, caller, g)
		collectCallsExpr(x.Index, caller, g)
	case *ast.MemberExpr:
		collectCallsExpr(x.Target, caller, g)
	case *ast.TernaryExpr:
		collectCallsExpr(x.Cond, caller, g)
		collectCallsExpr(x.Then, caller, g)
		collectCallsExpr(x.Else, caller, g)
	case *ast.CastExpr:
		collectCallsExpr(x.Value, caller, g)
	}
}

// sccFinder runs Tarjan's strongly-connected-components algorithm to find
// recursive (single-node self-loop, or multi-node mutual recursion) sets.
type sccFinder struct {
	g        *Graph
	index    map[string]int
	lowlink  map[string]int
	onStack  map[string]bool
	stack    []string
	counter  int
	recursive map[string]bool
}

func (g *Graph) recursiveFunctions() map[string]bool {
	f := &sccFinder{
		g:         g,
		index:     make(map[string]int),
		lowlink:   make(map[string]int),
		onStack:   make(map[string]bool),
		recursive: make(map[string]bool),
	}
	for name := range g.funcs {
		if _, visited := f.index[name]; !visited {
			f.strongconnect(name)
		}
	}
	return f.recursive
}

func (f *sccFinder) strongconnect(v string) {
	f.index[v] = f.counter
	f.lowlink[v] = f.counter
	f.counter++
	f.stack = append(f.stack, v)
	f.onStack[v] = true

	for w := range f.g.Edges[v] {
		if _, visited := f.index[w]; !visited {
			if _, isFunc := f.g.funcs[w]; !isFunc {
				continue
			}
			f.strongconnect(w)
			if f.lowlink[w] < f.lowlink[v] {
				f.lowlink[v] = f.lowlink[w]
			}
		} else if f.onStack[w] {
			if f.index[w] < f.lowlink[v] {
				f.lowlink[v] = f.index[w]
			}
		}
	}

	if f.lowlink[v] == f.index[v] {
		var scc []string
		for {
			n := len(f.stack) - 1
			w := f.stack[n]
			f.stack = f.stack[:n]
			f.onStack[w] = false
			scc = append(scc, w)
			if w == v {
				break
			}
		}
		if len(scc) > 1 {
			for _, w := range scc {
				f.recursive[w] = true
			}
		} else if f.g.Edges[v][v] {
			f.recursive[v] = true
		}
	}
}

func countTopLevelStatements(body *ast.BlockStmt) int {
	if body == nil {
		return 0
	}
	return len(body.Stmts)
}

func containsLoop(s ast.Stmt) bool {
	switch x := s.(type) {
	case nil:
		return false
	case *ast.WhileStmt, *ast.ForRangeStmt:
		return true
	case *ast.IfStmt:
		return containsLoop(x.Then) || containsLoop(x.Else)
	case *ast.BlockStmt:
		for _, stmt := range x.Stmts {
			if containsLoop(stmt) {
				return true
			}
		}
	}
	return false
}

// Analyzer is the Tier2 call-graph analysis.
type Analyzer struct{}

// New constructs the call-graph analyzer.
func New() *Analyzer { return &Analyzer{} }

// Name implements analysis.Analyzer.
func (*Analyzer) Name() string { return "callgraph" }

// Tier implements analysis.Analyzer.
func (*Analyzer) Tier() analysis.Tier { return analysis.Tier2 }

// Analyze implements analysis.Analyzer.
func (a *Analyzer) Analyze(ctx *analysis.Context) []diag.Diagnostic {
	g := Build(ctx)
	recursive := g.recursiveFunctions()

	for _, fn := range ctx.Funcs {
		analysis.Set(fn, analysis.CallGraphCallCount, g.CallCount[fn.Name])
		size := countTopLevelStatements(fn.Body)
		analysis.Set(fn, analysis.CallGraphFunctionSize, size)
		analysis.Set(fn, analysis.CallGraphRecursive, recursive[fn.Name])

		inline := size <= 10 &&
			!recursive[fn.Name] &&
			!fn.IsExported &&
			!containsLoop(fn.Body) &&
			g.CallCount[fn.Name] < 5
		analysis.Set(fn, analysis.CallGraphInlineCandidate, inline)
	}
	return nil
}
