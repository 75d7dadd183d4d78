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

// Package gvn implements the global-value-numbering analysis of spec
// §4.F: every pure expression within a function is assigned a stable
// integer value number; commutative operators are order-insensitive on
// their operands; writes to a variable invalidate every number that
// transitively depended on it.
package gvn

import (
	"fmt"

	"blendsdk.dev/blend65c/internal/analysis"
	"blendsdk.dev/blend65c/internal/ast"
	"blendsdk.dev/blend65c/internal/diag"
)

// Analyzer is the Tier3 GVN analysis.
type Analyzer struct{}

// New constructs the GVN analyzer.
func New() *Analyzer { return &Analyzer{} }

// Name implements analysis.Analyzer.
func (*Analyzer) Name() string { return "gvn" }

// Tier implements analysis.Analyzer.
func (*Analyzer) Tier() analysis.Tier { return analysis.Tier3 }

type tableEntry struct {
	number int
	holder string
	deps   map[string]bool
}

type state struct {
	varNum map[string]int
	litNum map[string]int
	table  map[string]*tableEntry
	next   int
}

func newState() *state {
	return &state{
		varNum: make(map[string]int),
		litNum: make(map[string]int),
		table:  make(map[string]*tableEntry),
	}
}

func (s *state) fresh() int {
	n := s.next
	s.next++
	return n
}

// Analyze implements analysis.Analyzer.
func (a *Analyzer) Analyze(ctx *analysis.Context) []diag.Diagnostic {
	for _, fn := range ctx.Funcs {
		s := newState()
		for _, p := range fn.Params {
			s.varNum[p.Name] = s.fresh()
		}
		if fn.Body != nil {
			walkStmt(fn.Body, s)
		}
	}
	return nil
}

func walkStmt(stmt ast.Stmt, s *state) {
	switch x := stmt.(type) {
	case nil:
		return
	case *ast.LetStmt:
		num := numberNamed(x.Init, x.Name, s)
		s.varNum[x.Name] = num
	case *ast.AssignStmt:
		if id, ok := x.Target.(*ast.IdentExpr); ok {
			num := numberNamed(x.Value, id.Name, s)
			invalidate(s, id.Name)
			s.varNum[id.Name] = num
		} else {
			number(x.Value, s)
		}
	case *ast.CompoundAssignStmt:
		number(x.Value, s)
		if id, ok := x.Target.(*ast.IdentExpr); ok {
			invalidate(s, id.Name)
			s.varNum[id.Name] = s.fresh()
		}
	case *ast.ExprStmt:
		number(x.Value, s)
	case *ast.ReturnStmt:
		number(x.Value, s)
	case *ast.IfStmt:
		number(x.Cond, s)
		walkStmt(x.Then, s)
		walkStmt(x.Else, s)
	case *ast.WhileStmt:
		number(x.Cond, s)
		walkStmt(x.Body, s)
	case *ast.ForRangeStmt:
		number(x.Low, s)
		number(x.High, s)
		s.varNum[x.Var] = s.fresh()
		walkStmt(x.Body, s)
	case *ast.BlockStmt:
		for _, st := range x.Stmts {
			walkStmt(st, s)
		}
	}
}

// numberNamed numbers e as the initializer/RHS bound to variable name,
// registering name as the table holder on first occurrence.
func numberNamed(e ast.Expr, name string, s *state) int {
	num, _, pure := numberExpr(e, s, name)
	if !pure {
		return s.fresh()
	}
	return num
}

func number(e ast.Expr, s *state) {
	numberExpr(e, s, "")
}

// numberExpr computes (value number, dependency set, purity) for e,
// recording GVNNumber/GVNRedundant/GVNReplacement metadata as it goes.
// declaredName, when non-empty, names the variable this expression is
// being bound to -- used only to seed a fresh table entry's holder.
func numberExpr(e ast.Expr, s *state, declaredName string) (int, map[string]bool, bool) {
	if e == nil {
		return s.fresh(), nil, false
	}

	switch x := e.(type) {
	case *ast.LiteralExpr:
		key := fmt.Sprintf("lit:%v:%v", x.Kind, x.Value)
		num, ok := s.litNum[key]
		if !ok {
			num = s.fresh()
			s.litNum[key] = num
		}
		analysis.Set(x, analysis.GVNNumber, num)
		return num, map[string]bool{}, true

	case *ast.IdentExpr:
		num, ok := s.varNum[x.Name]
		if !ok {
			num = s.fresh()
			s.varNum[x.Name] = num
		}
		analysis.Set(x, analysis.GVNNumber, num)
		return num, map[string]bool{x.Name: true}, true

	case *ast.BinaryExpr:
		ln, ldeps, lpure := numberExpr(x.Left, s, "")
		rn, rdeps, rpure := numberExpr(x.Right, s, "")
		deps := unionDeps(ldeps, rdeps)
		if !lpure || !rpure {
			return s.fresh(), deps, false
		}
		key := canonicalKey(x.Op, ln, rn)
		entry, exists := s.table[key]
		if exists {
			analysis.Set(x, analysis.GVNNumber, entry.number)
			analysis.Set(x, analysis.GVNRedundant, true)
			analysis.Set(x, analysis.GVNReplacement, entry.holder)
			return entry.number, deps, true
		}
		num := s.fresh()
		s.table[key] = &tableEntry{number: num, holder: declaredName, deps: deps}
		analysis.Set(x, analysis.GVNNumber, num)
		return num, deps, true

	case *ast.UnaryExpr:
		operand, deps, pure := numberExpr(x.Operand, s, "")
		if !pure {
			return s.fresh(), deps, false
		}
		key := fmt.Sprintf("u:%v:%d", x.Op, operand)
		entry, exists := s.table[key]
		if exists {
			analysis.Set(x, analysis.GVNNumber, entry.number)
			analysis.Set(x, analysis.GVNRedundant, true)
			analysis.Set(x, analysis.GVNReplacement, entry.holder)
			return entry.number, deps, true
		}
		num := s.fresh()
		s.table[key] = &tableEntry{number: num, holder: declaredName, deps: deps}
		analysis.Set(x, analysis.GVNNumber, num)
		return num, deps, true

	default:
		// Calls, index expressions, member access, casts and ternaries are
		// conservatively treated as impure for numbering purposes (a call may
		// have side effects; an index may alias a concurrent write). They
		// still get a (non-shared) number so every expression has one.
		deps := collectDeps(e)
		for _, sub := range subExprs(e) {
			number(sub, s)
		}
		num := s.fresh()
		analysis.Set(e, analysis.GVNNumber, num)
		return num, deps, false
	}
}

func subExprs(e ast.Expr) []ast.Expr {
	switch x := e.(type) {
	case *ast.CallExpr:
		return x.Args
	case *ast.IndexExpr:
		return []ast.Expr{x.Array, x.Index}
	case *ast.MemberExpr:
		return []ast.Expr{x.Target}
	case *ast.TernaryExpr:
		return []ast.Expr{x.Cond, x.Then, x.Else}
	case *ast.CastExpr:
		return []ast.Expr{x.Value}
	default:
		return nil
	}
}

func collectDeps(e ast.Expr) map[string]bool {
	deps := make(map[string]bool)
	var walk func(ast.Expr)
	walk = func(x ast.Expr) {
		switch n := x.(type) {
		case nil:
			return
		case *ast.IdentExpr:
			deps[n.Name] = true
		case *ast.BinaryExpr:
			walk(n.Left)
			walk(n.Right)
		case *ast.UnaryExpr:
			walk(n.Operand)
		default:
			for _, s := range subExprs(x) {
				walk(s)
			}
		}
	}
	walk(e)
	return deps
}

func unionDeps(a, b map[string]bool) map[string]bool {
	out := make(map[string]bool, len(a)+len(b))
	for k := range a {
		out[k] = true
	}
	for k := range b {
		out[k] = true
	}
	return out
}

// canonicalKey builds the value-numbering table key for a binary operator
// application, treating commutative operators as order-insensitive on
// their operand numbers.
func canonicalKey(op ast.BinaryOp, left, right int) string {
	if isCommutative(op) && left > right {
		left, right = right, left
	}
	return fmt.Sprintf("b:%v:%d:%d", op, left, right)
}

func isCommutative(op ast.BinaryOp) bool {
	switch op {
	case ast.OpAdd, ast.OpMul, ast.OpAnd, ast.OpOr, ast.OpXor, ast.OpEq, ast.OpNe:
		return true
	default:
		return false
	}
}

// invalidate removes every table entry whose dependency set mentions name,
// since a fresh write to name makes those numbers stale.
func invalidate(s *state, name string) {
	for key, entry := range s.table {
		if entry.deps[name] {
			delete(s.table, key)
		}
	}
}
