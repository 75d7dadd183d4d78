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

// Package cse implements the block-local common-subexpression-elimination
// analysis of spec §4.F: a map from expression fingerprint to the
// variable that first computed it, reset whenever control flow enters a
// branch or loop. This is a deliberate, conservative simplification: it
// never merges availability back out of a branch or loop body.
package cse

import (
	"fmt"
	"sort"

	"blendsdk.dev/blend65c/internal/analysis"
	"blendsdk.dev/blend65c/internal/ast"
	"blendsdk.dev/blend65c/internal/diag"
)

// Analyzer is the Tier3 common-subexpression-elimination analysis.
type Analyzer struct{}

// New constructs the CSE analyzer.
func New() *Analyzer { return &Analyzer{} }

// Name implements analysis.Analyzer.
func (*Analyzer) Name() string { return "cse" }

// Tier implements analysis.Analyzer.
func (*Analyzer) Tier() analysis.Tier { return analysis.Tier3 }

// available is the fingerprint -> holding-variable map for one
// straight-line block. It keeps no insertion order; snapshot lists its
// entries sorted by fingerprint.
type available map[string]string

// Analyze implements analysis.Analyzer.
func (a *Analyzer) Analyze(ctx *analysis.Context) []diag.Diagnostic {
	for _, fn := range ctx.Funcs {
		if fn.Body != nil {
			walkBlock(fn.Body, make(available))
		}
	}
	return nil
}

// walkBlock processes a straight-line sequence of statements against avail,
// mutating avail in place. Branch and loop bodies are analyzed against a
// fresh, empty map and never contribute their findings back to avail.
func walkBlock(block *ast.BlockStmt, avail available) {
	if block == nil {
		return
	}
	for _, stmt := range block.Stmts {
		walkStmt(stmt, avail)
	}
}

func walkStmt(stmt ast.Stmt, avail available) {
	switch x := stmt.(type) {
	case nil:
		return

	case *ast.LetStmt:
		process(x, x.Init, x.Name, avail)

	case *ast.AssignStmt:
		name := ""
		if id, ok := x.Target.(*ast.IdentExpr); ok {
			name = id.Name
		}
		process(x, x.Value, name, avail)

	case *ast.CompoundAssignStmt:
		if id, ok := x.Target.(*ast.IdentExpr); ok {
			invalidate(avail, id.Name)
		}

	case *ast.ExprStmt, *ast.ReturnStmt:
		// No binding to record or make available.

	case *ast.IfStmt:
		walkStmt(x.Then, make(available))
		if x.Else != nil {
			walkStmt(x.Else, make(available))
		}

	case *ast.WhileStmt:
		walkStmt(x.Body, make(available))

	case *ast.ForRangeStmt:
		walkStmt(x.Body, make(available))

	case *ast.BlockStmt:
		walkBlock(x, avail)
	}
}

// process handles a let/assign binding `name = expr`: first invalidates any
// entries that mention the name about to be overwritten, then records CSE
// metadata on expr if a matching fingerprint is still available, or (when
// expr is itself a candidate expression) registers name as its new holder,
// and finally stamps the CSEAvailable snapshot onto the statement.
func process(stmt ast.Stmt, expr ast.Expr, name string, avail available) {
	if name != "" {
		invalidate(avail, name)
	}

	fp, ok := fingerprint(expr)
	if ok {
		if holder, exists := avail[fp]; exists {
			analysis.Set(expr, analysis.CSECandidate, true)
			analysis.Set(expr, analysis.GVNReplacement, holder)
		} else if name != "" {
			avail[fp] = name
		}
	}

	analysis.Set(stmt, analysis.CSEAvailable, snapshot(avail))
}

// invalidate drops every available entry whose fingerprint mentions name, or
// whose holder is name, since a fresh write makes both stale.
func invalidate(avail available, name string) {
	for fp, holder := range avail {
		if holder == name || mentions(fp, name) {
			delete(avail, fp)
		}
	}
}

// mentions reports whether the textual fingerprint touches identifier name.
// Fingerprints are built from identifier names directly, so a substring-safe
// token scan suffices without re-parsing the expression.
func mentions(fingerprint, name string) bool {
	for _, tok := range splitTokens(fingerprint) {
		if tok == name {
			return true
		}
	}
	return false
}

func splitTokens(s string) []string {
	var toks []string
	cur := ""
	for _, r := range s {
		if r == '(' || r == ')' || r == ' ' {
			if cur != "" {
				toks = append(toks, cur)
				cur = ""
			}
			continue
		}
		cur += string(r)
	}
	if cur != "" {
		toks = append(toks, cur)
	}
	return toks
}

// fingerprint builds a structural, order-sensitive key for e. Only pure
// arithmetic/logical shapes participate in CSE; calls, indices and member
// access are never candidates since they may alias memory or have effects.
func fingerprint(e ast.Expr) (string, bool) {
	switch x := e.(type) {
	case *ast.LiteralExpr:
		return fmt.Sprintf("%v", x.Value), true
	case *ast.IdentExpr:
		return x.Name, true
	case *ast.BinaryExpr:
		l, ok := fingerprint(x.Left)
		if !ok {
			return "", false
		}
		r, ok := fingerprint(x.Right)
		if !ok {
			return "", false
		}
		return fmt.Sprintf("(%s %v %s)", l, x.Op, r), true
	case *ast.UnaryExpr:
		o, ok := fingerprint(x.Operand)
		if !ok {
			return "", false
		}
		return fmt.Sprintf("(%v %s)", x.Op, o), true
	default:
		return "", false
	}
}

func snapshot(avail available) []string {
	if len(avail) == 0 {
		return nil
	}
	out := make([]string, 0, len(avail))
	for fp := range avail {
		out = append(out, fp)
	}
	sort.Strings(out)
	return out
}
