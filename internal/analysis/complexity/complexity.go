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

// Package complexity implements the expression-complexity analysis of spec
// §4.F, scoring every expression for the 6502 target: post-order tree
// depth, a complexity score (literals=1, loads=2, arithmetic=op+children),
// register pressure clamped to [1,3] (A/X/Y), and whether it touches
// memory (array index or pointer dereference).
package complexity

import (
	"blendsdk.dev/blend65c/internal/analysis"
	"blendsdk.dev/blend65c/internal/ast"
	"blendsdk.dev/blend65c/internal/diag"
)

// Analyzer is the Tier3 expression-complexity analysis.
type Analyzer struct{}

// New constructs the expression-complexity analyzer.
func New() *Analyzer { return &Analyzer{} }

// Name implements analysis.Analyzer.
func (*Analyzer) Name() string { return "complexity" }

// Tier implements analysis.Analyzer.
func (*Analyzer) Tier() analysis.Tier { return analysis.Tier3 }

// Analyze implements analysis.Analyzer.
func (a *Analyzer) Analyze(ctx *analysis.Context) []diag.Diagnostic {
	for _, fn := range ctx.Funcs {
		if fn.Body != nil {
			walkStmt(fn.Body)
		}
	}
	return nil
}

func walkStmt(s ast.Stmt) {
	switch x := s.(type) {
	case nil:
		return
	case *ast.LetStmt:
		score(x.Init)
	case *ast.AssignStmt:
		score(x.Target)
		score(x.Value)
	case *ast.CompoundAssignStmt:
		score(x.Target)
		score(x.Value)
	case *ast.ExprStmt:
		score(x.Value)
	case *ast.ReturnStmt:
		score(x.Value)
	case *ast.IfStmt:
		score(x.Cond)
		walkStmt(x.Then)
		walkStmt(x.Else)
	case *ast.WhileStmt:
		score(x.Cond)
		walkStmt(x.Body)
	case *ast.ForRangeStmt:
		score(x.Low)
		score(x.High)
		walkStmt(x.Body)
	case *ast.BlockStmt:
		for _, stmt := range x.Stmts {
			walkStmt(stmt)
		}
	}
}

type metrics struct {
	depth        int
	complexity   int
	memoryAccess bool
}

func score(e ast.Expr) metrics {
	if e == nil {
		return metrics{}
	}
	var m metrics
	switch x := e.(type) {
	case *ast.LiteralExpr:
		m = metrics{depth: 1, complexity: 1}
	case *ast.IdentExpr:
		m = metrics{depth: 1, complexity: 2}
	case *ast.BinaryExpr:
		left := score(x.Left)
		right := score(x.Right)
		m = metrics{
			depth:        1 + maxInt(left.depth, right.depth),
			complexity:   1 + left.complexity + right.complexity,
			memoryAccess: left.memoryAccess || right.memoryAccess,
		}
	case *ast.UnaryExpr:
		operand := score(x.Operand)
		m = metrics{depth: 1 + operand.depth, complexity: 1 + operand.complexity, memoryAccess: operand.memoryAccess || x.Op == ast.OpDeref}
	case *ast.CastExpr:
		m = score(x.Value)
		m.depth++
	case *ast.TernaryExpr:
		cond := score(x.Cond)
		then := score(x.Then)
		els := score(x.Else)
		m = metrics{
			depth:        1 + maxInt(cond.depth, maxInt(then.depth, els.depth)),
			complexity:   1 + cond.complexity + then.complexity + els.complexity,
			memoryAccess: cond.memoryAccess || then.memoryAccess || els.memoryAccess,
		}
	case *ast.IndexExpr:
		arr := score(x.Array)
		idx := score(x.Index)
		m = metrics{
			depth:        1 + maxInt(arr.depth, idx.depth),
			complexity:   2 + arr.complexity + idx.complexity,
			memoryAccess: true,
		}
	case *ast.MemberExpr:
		target := score(x.Target)
		m = metrics{depth: 1 + target.depth, complexity: 1 + target.complexity, memoryAccess: target.memoryAccess}
	case *ast.CallExpr:
		depth, complexityScore := 1, 1
		for _, arg := range x.Args {
			am := score(arg)
			depth = maxInt(depth, 1+am.depth)
			complexityScore += am.complexity
		}
		m = metrics{depth: depth, complexity: complexityScore}
	}

	analysis.Set(e, analysis.ExprTreeDepth, m.depth)
	analysis.Set(e, analysis.ExprComplexityScore, m.complexity)
	analysis.Set(e, analysis.ExprContainsMemoryAccess, m.memoryAccess)
	analysis.Set(e, analysis.ExprRegisterPressure, clamp(1+m.depth/2, 1, 3))

	return m
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
