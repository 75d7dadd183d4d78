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

// Package deadcode implements the dead-code analysis of spec §4.F: it uses
// CFG reachability to find statements with no live predecessor, and folds
// constant branch conditions to find always-true/always-false branches.
package deadcode

import (
	"blendsdk.dev/blend65c/internal/analysis"
	"blendsdk.dev/blend65c/internal/ast"
	"blendsdk.dev/blend65c/internal/cfg"
	"blendsdk.dev/blend65c/internal/diag"
)

// Analyzer is the Tier1 dead-code analysis.
type Analyzer struct{}

// New constructs the dead-code analyzer.
func New() *Analyzer { return &Analyzer{} }

// Name implements analysis.Analyzer.
func (*Analyzer) Name() string { return "deadcode" }

// Tier implements analysis.Analyzer.
func (*Analyzer) Tier() analysis.Tier { return analysis.Tier1 }

// Analyze implements analysis.Analyzer.
func (a *Analyzer) Analyze(ctx *analysis.Context) []diag.Diagnostic {
	var diags []diag.Diagnostic
	for _, fn := range ctx.Funcs {
		g := ctx.CFGs[fn]
		diags = append(diags, a.analyzeFunc(g)...)
	}
	return diags
}

func (a *Analyzer) analyzeFunc(g *cfg.Graph) []diag.Diagnostic {
	var diags []diag.Diagnostic
	for _, n := range cfg.UnreachableNodes(g) {
		node, ok := n.AST.(ast.Stmt)
		if !ok || node == nil {
			continue
		}
		analysis.Set(node, analysis.DeadCodeUnreachable, true)
		analysis.Set(node, analysis.DeadCodeKind, analysis.UnreachableStatement)
		analysis.Set(node, analysis.DeadCodeReason, "statement has no reachable predecessor")
		analysis.Set(node, analysis.DeadCodeRemovable, true)
		diags = append(diags, diag.Warnf(diag.UnreachableCode, node.Span(), "unreachable statement"))
	}
	for _, n := range g.Nodes {
		if n.Kind != cfg.Branch {
			continue
		}
		ifStmt, ok := n.AST.(*ast.IfStmt)
		if !ok {
			continue
		}
		lit, ok := ifStmt.Cond.(*ast.LiteralExpr)
		if !ok || lit.Kind != ast.LitBool {
			continue
		}
		always, _ := lit.Value.(bool)
		reason := "condition always false"
		if always {
			reason = "condition always true"
		}
		analysis.Set(ifStmt, analysis.DeadCodeKind, analysis.UnreachableBranch)
		analysis.Set(ifStmt, analysis.DeadCodeReason, reason)
		diags = append(diags, diag.Warnf(diag.UnreachableCode, ifStmt.Span(), "branch is never taken: %s", reason))
	}
	return diags
}
