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

// Package loopinv implements the loop-invariance analysis of spec §4.F: an
// expression is loop-invariant when it is a literal, a read of a variable
// not written anywhere in the loop body, or a pure operator over invariant
// subexpressions. Calls are conservatively never invariant.
package loopinv

import (
	"blendsdk.dev/blend65c/internal/analysis"
	"blendsdk.dev/blend65c/internal/ast"
	"blendsdk.dev/blend65c/internal/diag"
)

// Analyzer is the Tier2 loop-invariance analysis.
type Analyzer struct{}

// New constructs the loop-invariance analyzer.
func New() *Analyzer { return &Analyzer{} }

// Name implements analysis.Analyzer.
func (*Analyzer) Name() string { return "loopinv" }

// Tier implements analysis.Analyzer.
func (*Analyzer) Tier() analysis.Tier { return analysis.Tier2 }

// Analyze implements analysis.Analyzer.
func (a *Analyzer) Analyze(ctx *analysis.Context) []diag.Diagnostic {
	for _, fn := range ctx.Funcs {
		if fn.Body != nil {
			analyzeStmt(fn.Body)
		}
	}
	return nil
}

func analyzeStmt(s ast.Stmt) {
	switch x := s.(type) {
	case nil:
		return
	case *ast.WhileStmt:
		written := writtenVars(x.Body)
		annotateStmt(x.Body, written)
		analyzeStmt(x.Body)
	case *ast.ForRangeStmt:
		written := writtenVars(x.Body)
		written[x.Var] = true
		annotateStmt(x.Body, written)
		analyzeStmt(x.Body)
	case *ast.IfStmt:
		analyzeStmt(x.Then)
		analyzeStmt(x.Else)
	case *ast.BlockStmt:
		for _, stmt := range x.Stmts {
			analyzeStmt(stmt)
		}
	}
}

// annotateStmt marks every expression within s with LoopInvariant metadata,
// given the set of variables written anywhere in the enclosing loop body.
func annotateStmt(s ast.Stmt, written map[string]bool) {
	switch x := s.(type) {
	case nil:
		return
	case *ast.LetStmt:
		annotateExpr(x.Init, written)
	case *ast.AssignStmt:
		annotateExpr(x.Value, written)
	case *ast.CompoundAssignStmt:
		annotateExpr(x.Value, written)
	case *ast.ExprStmt:
		annotateExpr(x.Value, written)
	case *ast.ReturnStmt:
		annotateExpr(x.Value, written)
	case *ast.IfStmt:
		annotateExpr(x.Cond, written)
		annotateStmt(x.Then, written)
		annotateStmt(x.Else, written)
	case *ast.WhileStmt:
		annotateExpr(x.Cond, written)
		annotateStmt(x.Body, written)
	case *ast.ForRangeStmt:
		annotateExpr(x.Low, written)
		annotateExpr(x.High, written)
		annotateStmt(x.Body, written)
	case *ast.BlockStmt:
		for _, stmt := range x.Stmts {
			annotateStmt(stmt, written)
		}
	}
}

// annotateExpr returns whether e is loop-invariant, recording the verdict
// as metadata on every subexpression it visits.
func annotateExpr(e ast.Expr, written map[string]bool) bool {
	if e == nil {
		return true
	}
	invariant := computeInvariant(e, written)
	analysis.Set(e, analysis.LoopInvariant, invariant)
	return invariant
}

func computeInvariant(e ast.Expr, written map[string]bool) bool {
	switch x := e.(type) {
	case *ast.LiteralExpr:
		return true
	case *ast.IdentExpr:
		return !written[x.Name]
	case *ast.BinaryExpr:
		return annotateExpr(x.Left, written) && annotateExpr(x.Right, written)
	case *ast.UnaryExpr:
		return annotateExpr(x.Operand, written)
	case *ast.CastExpr:
		return annotateExpr(x.Value, written)
	case *ast.TernaryExpr:
		cond := annotateExpr(x.Cond, written)
		then := annotateExpr(x.Then, written)
		els := annotateExpr(x.Else, written)
		return cond && then && els
	case *ast.IndexExpr:
		arr := annotateExpr(x.Array, written)
		idx := annotateExpr(x.Index, written)
		return arr && idx
	case *ast.MemberExpr:
		return annotateExpr(x.Target, written)
	case *ast.CallExpr:
		for _, arg := range x.Args {
			annotateExpr(arg, written)
		}
		return false // calls are conservatively never invariant
	default:
		return false
	}
}

func writtenVars(s ast.Stmt) map[string]bool {
	out := make(map[string]bool)
	collectWrites(s, out)
	return out
}

func collectWrites(s ast.Stmt, out map[string]bool) {
	switch x := s.(type) {
	case nil:
		return
	case *ast.LetStmt:
		out[x.Name] = true
	case *ast.AssignStmt:
		if id, ok := x.Target.(*ast.IdentExpr); ok {
			out[id.Name] = true
		}
	case *ast.CompoundAssignStmt:
		if id, ok := x.Target.(*ast.IdentExpr); ok {
			out[id.Name] = true
		}
	case *ast.IfStmt:
		collectWrites(x.Then, out)
		collectWrites(x.Else, out)
	case *ast.WhileStmt:
		collectWrites(x.Body, out)
	case *ast.ForRangeStmt:
		out[x.Var] = true
		collectWrites(x.Body, out)
	case *ast.BlockStmt:
		for _, stmt := range x.Stmts {
			collectWrites(stmt, out)
		}
	}
}
