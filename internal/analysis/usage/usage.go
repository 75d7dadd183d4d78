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

// Package usage implements the variable-usage analysis of spec §4.F:
// per-symbol read/write counts and per-loop hot-path counts, with hints
// (never errors) for unused, write-only, and dead-store locals.
package usage

import (
	"blendsdk.dev/blend65c/internal/analysis"
	"blendsdk.dev/blend65c/internal/ast"
	"blendsdk.dev/blend65c/internal/diag"
)

// Analyzer is the Tier1 variable-usage analysis.
type Analyzer struct{}

// New constructs the usage analyzer.
func New() *Analyzer { return &Analyzer{} }

// Name implements analysis.Analyzer.
func (*Analyzer) Name() string { return "usage" }

// Tier implements analysis.Analyzer.
func (*Analyzer) Tier() analysis.Tier { return analysis.Tier1 }

type counter struct {
	decl    ast.Stmt
	reads   int
	writes  int
	hotPath int
}

// writeSite is the most recent write to a variable that has not yet been
// read. Spec §4.F: "dead stores are marked when the variable usage
// analysis reports zero reads between a write and the next write or scope
// exit" -- recordWrite checks this when a name is written again, and
// analyzeFunc's sweep over whatever is still live checks it again once the
// function body has been walked in full.
type writeSite struct {
	stmt ast.Stmt
	read bool
}

// Analyze implements analysis.Analyzer.
func (a *Analyzer) Analyze(ctx *analysis.Context) []diag.Diagnostic {
	var diags []diag.Diagnostic
	for _, fn := range ctx.Funcs {
		diags = append(diags, a.analyzeFunc(fn)...)
	}
	return diags
}

func (a *Analyzer) analyzeFunc(fn *ast.FuncDecl) []diag.Diagnostic {
	counters := make(map[string]*counter)
	var diags []diag.Diagnostic
	live := make(map[string]*writeSite)
	if fn.Body != nil {
		walkStmt(fn.Body, 0, counters, live, &diags)
	}

	for _, c := range counters {
		if c.decl == nil {
			continue
		}
		analysis.Set(c.decl, analysis.UsageReadCount, c.reads)
		analysis.Set(c.decl, analysis.UsageWriteCount, c.writes)
		analysis.Set(c.decl, analysis.UsageHotPathCount, c.hotPath)

		if c.reads == 0 && c.writes == 0 {
			analysis.Set(c.decl, analysis.UsageUnused, true)
			diags = append(diags, diag.Hintf(diag.UnusedVariable, c.decl.Span(), "variable is never used"))
		} else if c.reads == 0 && c.writes > 0 {
			analysis.Set(c.decl, analysis.UsageWriteOnly, true)
			diags = append(diags, diag.Hintf(diag.WriteOnlyVariable, c.decl.Span(), "variable is written but never read"))
		}
	}

	// A name that is never read at all is already covered by
	// UNUSED_VARIABLE or WRITE_ONLY_VARIABLE above; flagging its final
	// write as a separate dead store too would just restate the same
	// finding. Scope-exit DEAD_STORE only adds information when some
	// earlier read exists that the final write's value never reached.
	for name, w := range live {
		if c, ok := counters[name]; ok && c.reads == 0 {
			continue
		}
		reportIfDead(w, &diags)
	}
	return diags
}

func walkStmt(s ast.Stmt, depth int, counters map[string]*counter, live map[string]*writeSite, diags *[]diag.Diagnostic) {
	switch x := s.(type) {
	case nil:
		return
	case *ast.LetStmt:
		counters[x.Name] = &counter{decl: x}
		walkExpr(x.Init, depth, counters, live)
		recordWrite(x.Name, x, live, diags)
	case *ast.AssignStmt:
		walkExpr(x.Value, depth, counters, live)
		if id, ok := x.Target.(*ast.IdentExpr); ok {
			bump(counters, id.Name, depth, false)
			recordWrite(id.Name, x, live, diags)
		} else {
			walkExpr(x.Target, depth, counters, live)
		}
	case *ast.CompoundAssignStmt:
		if id, ok := x.Target.(*ast.IdentExpr); ok {
			bump(counters, id.Name, depth, true)
			bump(counters, id.Name, depth, false)
			markRead(id.Name, live)
		}
		walkExpr(x.Value, depth, counters, live)
		if id, ok := x.Target.(*ast.IdentExpr); ok {
			recordWrite(id.Name, x, live, diags)
		}
	case *ast.ExprStmt:
		walkExpr(x.Value, depth, counters, live)
	case *ast.ReturnStmt:
		walkExpr(x.Value, depth, counters, live)
	case *ast.IfStmt:
		walkExpr(x.Cond, depth, counters, live)
		walkBranch(x.Then, depth, counters, live, diags)
		walkBranch(x.Else, depth, counters, live, diags)
	case *ast.WhileStmt:
		walkExpr(x.Cond, depth, counters, live)
		walkBranch(x.Body, depth+1, counters, live, diags)
	case *ast.ForRangeStmt:
		counters[x.Var] = &counter{decl: x}
		walkExpr(x.Low, depth, counters, live)
		walkExpr(x.High, depth, counters, live)
		recordWrite(x.Var, x, live, diags)
		walkBranch(x.Body, depth+1, counters, live, diags)
	case *ast.BlockStmt:
		for _, stmt := range x.Stmts {
			walkStmt(stmt, depth, counters, live, diags)
		}
	}
}

// walkBranch walks a conditionally-executed statement (an if/else arm or a
// loop body) against a forked copy of live: a write made inside the branch
// might not execute at all, so it must not be able to clobber or be
// clobbered by tracking for statements outside the branch. A read found
// inside the branch is merged back into the caller's live set, so a write
// preceding the branch is not flagged dead merely because only one arm
// happens to read it.
func walkBranch(s ast.Stmt, depth int, counters map[string]*counter, live map[string]*writeSite, diags *[]diag.Diagnostic) {
	if s == nil {
		return
	}
	forked := cloneLive(live)
	readsBefore := make(map[string]int, len(forked))
	for name, w := range forked {
		if c, ok := counters[name]; ok {
			readsBefore[name] = c.reads
			w.read = true // a write inside the branch must not flag an outer write dead
		}
	}
	walkStmt(s, depth, counters, forked, diags)
	for name, w := range live {
		if c, ok := counters[name]; ok {
			if c.reads > readsBefore[name] {
				w.read = true
			}
		} else if f, ok := forked[name]; ok && f.read {
			w.read = true
		}
	}
}

func cloneLive(live map[string]*writeSite) map[string]*writeSite {
	out := make(map[string]*writeSite, len(live))
	for name, w := range live {
		cp := *w
		out[name] = &cp
	}
	return out
}

// recordWrite registers a new write to name at stmt. If the previous write
// to name was never read, it is a dead store.
func recordWrite(name string, stmt ast.Stmt, live map[string]*writeSite, diags *[]diag.Diagnostic) {
	if prev, ok := live[name]; ok {
		reportIfDead(prev, diags)
	}
	live[name] = &writeSite{stmt: stmt}
}

func reportIfDead(w *writeSite, diags *[]diag.Diagnostic) {
	if w.read {
		return
	}
	analysis.Set(w.stmt, analysis.UsageDeadStore, true)
	*diags = append(*diags, diag.Hintf(diag.DeadStore, w.stmt.Span(),
		"store is never read before it is overwritten or its scope ends"))
}

func markRead(name string, live map[string]*writeSite) {
	if w, ok := live[name]; ok {
		w.read = true
	}
}

func walkExpr(e ast.Expr, depth int, counters map[string]*counter, live map[string]*writeSite) {
	switch x := e.(type) {
	case nil:
		return
	case *ast.IdentExpr:
		bump(counters, x.Name, depth, true)
		markRead(x.Name, live)
	case *ast.BinaryExpr:
		walkExpr(x.Left, depth, counters, live)
		walkExpr(x.Right, depth, counters, live)
	case *ast.UnaryExpr:
		walkExpr(x.Operand, depth, counters, live)
	case *ast.CallExpr:
		walkExpr(x.Callee, depth, counters, live)
		for _, arg := range x.Args {
			walkExpr(arg, depth, counters, live)
		}
	case *ast.IndexExpr:
		walkExpr(x.Array, depth, counters, live)
		walkExpr(x.Index, depth, counters, live)
	case *ast.MemberExpr:
		walkExpr(x.Target, depth, counters, live)
	case *ast.TernaryExpr:
		walkExpr(x.Cond, depth, counters, live)
		walkExpr(x.Then, depth, counters, live)
		walkExpr(x.Else, depth, counters, live)
	case *ast.CastExpr:
		walkExpr(x.Value, depth, counters, live)
	}
}

// bump records one read or write of name at the given loop nesting depth.
// Per spec §4.F the hot-path weight is +1 per nesting level; a use at depth
// 0 (outside any loop) contributes nothing to the hot-path count.
func bump(counters map[string]*counter, name string, depth int, read bool) {
	c, ok := counters[name]
	if !ok {
		return
	}
	if read {
		c.reads++
	} else {
		c.writes++
	}
	c.hotPath += depth
}
