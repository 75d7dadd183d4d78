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
package callgraph_test

import (
	"testing"

	"blendsdk.dev/blend65c/internal/analysis"
	"blendsdk.dev/blend65c/internal/analysis/callgraph"
	"blendsdk.dev/blend65c/internal/ast"
)

func callStmt(name string) ast.Stmt {
	return &ast.ExprStmt{Value: &ast.CallExpr{Callee: &ast.IdentExpr{Name: name}}}
}

func TestDirectSelfRecursionDetected(t *testing.T) {
	fn := &ast.FuncDecl{Name: "fact", Body: &ast.BlockStmt{Stmts: []ast.Stmt{callStmt("fact")}}}
	program := &ast.Program{Declarations: []ast.Declaration{fn}}
	ctx := analysis.NewContext(program)

	callgraph.New().Analyze(ctx)

	if !analysis.Bool(fn, analysis.CallGraphRecursive) {
		t.Fatal("expected a direct self-call to be flagged recursive")
	}
	if analysis.Bool(fn, analysis.CallGraphInlineCandidate) {
		t.Fatal("a recursive function must never be an inline candidate")
	}
}

func TestMutualRecursionDetected(t *testing.T) {
	even := &ast.FuncDecl{Name: "even", Body: &ast.BlockStmt{Stmts: []ast.Stmt{callStmt("odd")}}}
	odd := &ast.FuncDecl{Name: "odd", Body: &ast.BlockStmt{Stmts: []ast.Stmt{callStmt("even")}}}
	program := &ast.Program{Declarations: []ast.Declaration{even, odd}}
	ctx := analysis.NewContext(program)

	callgraph.New().Analyze(ctx)

	if !analysis.Bool(even, analysis.CallGraphRecursive) || !analysis.Bool(odd, analysis.CallGraphRecursive) {
		t.Fatal("expected mutual recursion to be flagged on both functions")
	}
}

func TestSmallLeafFunctionIsInlineCandidate(t *testing.T) {
	fn := &ast.FuncDecl{
		Name: "add1",
		Body: &ast.BlockStmt{Stmts: []ast.Stmt{
			&ast.ReturnStmt{Value: &ast.BinaryExpr{Op: ast.OpAdd, Left: &ast.IdentExpr{Name: "x"}, Right: &ast.LiteralExpr{Kind: ast.LitByte, Value: int64(1)}}},
		}},
	}
	caller := &ast.FuncDecl{Name: "main", Body: &ast.BlockStmt{Stmts: []ast.Stmt{callStmt("add1")}}}
	program := &ast.Program{Declarations: []ast.Declaration{fn, caller}}
	ctx := analysis.NewContext(program)

	callgraph.New().Analyze(ctx)

	if !analysis.Bool(fn, analysis.CallGraphInlineCandidate) {
		t.Fatal("expected a small, non-recursive, non-exported, loop-free, rarely-called function to be an inline candidate")
	}
}

func TestExportedFunctionIsNeverInlineCandidate(t *testing.T) {
	fn := &ast.FuncDecl{
		Name:       "add1",
		IsExported: true,
		Body: &ast.BlockStmt{Stmts: []ast.Stmt{
			&ast.ReturnStmt{Value: &ast.LiteralExpr{Kind: ast.LitByte, Value: int64(1)}},
		}},
	}
	program := &ast.Program{Declarations: []ast.Declaration{fn}}
	ctx := analysis.NewContext(program)

	callgraph.New().Analyze(ctx)

	if analysis.Bool(fn, analysis.CallGraphInlineCandidate) {
		t.Fatal("an exported function must never be an inline candidate")
	}
}
