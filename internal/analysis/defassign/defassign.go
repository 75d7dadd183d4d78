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

// Package defassign implements the definite-assignment analysis of spec
// §4.F: a forward dataflow over the CFG treating local initialization
// sites as sources and assignments as kills, flagging reads that are not
// guaranteed initialized on every path.
package defassign

import (
	"blendsdk.dev/blend65c/internal/analysis"
	"blendsdk.dev/blend65c/internal/ast"
	"blendsdk.dev/blend65c/internal/cfg"
	"blendsdk.dev/blend65c/internal/diag"
)

// Analyzer is the Tier1 definite-assignment analysis.
type Analyzer struct{}

// New constructs the definite-assignment analyzer.
func New() *Analyzer { return &Analyzer{} }

// Name implements analysis.Analyzer.
func (*Analyzer) Name() string { return "defassign" }

// Tier implements analysis.Analyzer.
func (*Analyzer) Tier() analysis.Tier { return analysis.Tier1 }

type nameSet map[string]bool

func (s nameSet) clone() nameSet {
	out := make(nameSet, len(s))
	for k := range s {
		out[k] = true
	}
	return out
}

func intersect(sets []nameSet) nameSet {
	if len(sets) == 0 {
		return nameSet{}
	}
	out := sets[0].clone()
	for _, s := range sets[1:] {
		for k := range out {
			if !s[k] {
				delete(out, k)
			}
		}
	}
	return out
}

// Analyze implements analysis.Analyzer.
func (a *Analyzer) Analyze(ctx *analysis.Context) []diag.Diagnostic {
	var diags []diag.Diagnostic
	for _, fn := range ctx.Funcs {
		diags = append(diags, a.analyzeFunc(fn, ctx.CFGs[fn], ctx.Globals, ctx.Consts)...)
	}
	return diags
}

// analyzeFunc runs the fixed-point dataflow for one function. globals and
// consts name module-level storage and compile-time constants (spec §4.F
// scopes this analysis to "each local"): neither is a dataflow source, since
// both are available everywhere unconditionally, so checkReads never flags
// a read of either.
func (a *Analyzer) analyzeFunc(fn *ast.FuncDecl, g *cfg.Graph, globals, consts nameSet) []diag.Diagnostic {
	var diags []diag.Diagnostic

	initial := nameSet{}
	for _, p := range fn.Params {
		initial[p.Name] = true
	}

	before := make([]nameSet, len(g.Nodes))
	after := make([]nameSet, len(g.Nodes))
	after[g.EntryID] = initial

	// The fixed-point loop below only settles the definitely-assigned sets;
	// it must not report diagnostics itself, since a node can be revisited
	// several times before the sets stop changing and checkReads would
	// otherwise report the same read once per revisit. Diagnostics are
	// reported in a single pass once the sets have converged.
	changed := true
	for changed {
		changed = false
		for _, n := range g.Nodes {
			if n.ID == g.EntryID {
				continue
			}
			var preds []nameSet
			for _, p := range n.Preds {
				if after[p] != nil {
					preds = append(preds, after[p])
				}
			}
			in := intersect(preds)
			before[n.ID] = in

			out := a.transfer(n, in)
			if !sameSet(out, after[n.ID]) {
				after[n.ID] = out
				changed = true
			}
		}
	}

	for _, n := range g.Nodes {
		if n.ID == g.EntryID {
			continue
		}
		a.report(n, before[n.ID], globals, consts, &diags)
	}

	return diags
}

func sameSet(a, b nameSet) bool {
	if len(a) != len(b) {
		return false
	}
	for k := range a {
		if !b[k] {
			return false
		}
	}
	return true
}

// transfer applies one node's effect on the definitely-assigned set: a
// let/assignment adds its target. It never reports diagnostics, since the
// fixed-point loop that calls it may revisit a node several times before
// the sets converge; see report for the read-checking pass.
func (a *Analyzer) transfer(n *cfg.Node, in nameSet) nameSet {
	out := in.clone()

	switch stmt := n.AST.(type) {
	case *ast.LetStmt:
		out[stmt.Name] = true
	case *ast.AssignStmt:
		if id, ok := stmt.Target.(*ast.IdentExpr); ok {
			out[id.Name] = true
		}
	case *ast.ForRangeStmt:
		out[stmt.Var] = true
	}

	return out
}

// report runs once the dataflow has converged: it re-derives each node's
// diagnostics and metadata from its final "before" (definitely-assigned-on-
// entry) set, reporting USE_BEFORE_INIT for any read neither in that set nor
// a module-level global or constant.
func (a *Analyzer) report(n *cfg.Node, in, globals, consts nameSet, diags *[]diag.Diagnostic) {
	switch stmt := n.AST.(type) {
	case *ast.LetStmt:
		if stmt.Init != nil {
			checkReads(stmt.Init, in, globals, consts, diags)
			if lit, ok := stmt.Init.(*ast.LiteralExpr); ok {
				analysis.Set(stmt, analysis.DefiniteAssignmentInitValue, lit.Value)
			}
		}
		analysis.Set(stmt, analysis.AlwaysInitialized, true)
	case *ast.AssignStmt:
		checkReads(stmt.Value, in, globals, consts, diags)
	case *ast.CompoundAssignStmt:
		checkReads(stmt.Target, in, globals, consts, diags)
		checkReads(stmt.Value, in, globals, consts, diags)
	case *ast.ExprStmt:
		checkReads(stmt.Value, in, globals, consts, diags)
	case *ast.ReturnStmt:
		if stmt.Value != nil {
			checkReads(stmt.Value, in, globals, consts, diags)
		}
	case *ast.IfStmt:
		checkReads(stmt.Cond, in, globals, consts, diags)
	case *ast.WhileStmt:
		checkReads(stmt.Cond, in, globals, consts, diags)
	case *ast.ForRangeStmt:
		checkReads(stmt.Low, in, globals, consts, diags)
		checkReads(stmt.High, in, globals, consts, diags)
	}
}

// checkReads walks an expression tree and reports USE_BEFORE_INIT for any
// identifier read that is neither in the definitely-assigned set nor a
// module-level global or constant (spec §4.F scopes this analysis to each
// local; globals/consts are available unconditionally). It does not descend
// into a call's callee (a call target is a function name, not a local
// read).
func checkReads(e ast.Expr, in, globals, consts nameSet, diags *[]diag.Diagnostic) {
	switch x := e.(type) {
	case nil:
		return
	case *ast.IdentExpr:
		if !in[x.Name] && !globals[x.Name] && !consts[x.Name] {
			*diags = append(*diags, diag.Errorf(diag.UseBeforeInit, x.Span(), "use of possibly uninitialized variable %q", x.Name))
		}
	case *ast.BinaryExpr:
		checkReads(x.Left, in, globals, consts, diags)
		checkReads(x.Right, in, globals, consts, diags)
	case *ast.UnaryExpr:
		checkReads(x.Operand, in, globals, consts, diags)
	case *ast.CallExpr:
		for _, arg := range x.Args {
			checkReads(arg, in, globals, consts, diags)
		}
	case *ast.IndexExpr:
		checkReads(x.Array, in, globals, consts, diags)
		checkReads(x.Index, in, globals, consts, diags)
	case *ast.MemberExpr:
		checkReads(x.Target, in, globals, consts, diags)
	case *ast.TernaryExpr:
		checkReads(x.Cond, in, globals, consts, diags)
		checkReads(x.Then, in, globals, consts, diags)
		checkReads(x.Else, in, globals, consts, diags)
	case *ast.CastExpr:
		checkReads(x.Value, in, globals, consts, diags)
	}
}
