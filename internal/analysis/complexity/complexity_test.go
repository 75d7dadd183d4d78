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
package complexity_test

import (
	"testing"

	"blendsdk.dev/blend65c/internal/analysis"
	"blendsdk.dev/blend65c/internal/analysis/complexity"
	"blendsdk.dev/blend65c/internal/ast"
)

func TestLiteralHasMinimalScore(t *testing.T) {
	lit := &ast.LiteralExpr{Kind: ast.LitByte, Value: int64(1)}
	fn := &ast.FuncDecl{Name: "f", Body: &ast.BlockStmt{Stmts: []ast.Stmt{&ast.ReturnStmt{Value: lit}}}}
	program := &ast.Program{Declarations: []ast.Declaration{fn}}
	ctx := analysis.NewContext(program)

	complexity.New().Analyze(ctx)

	if analysis.Int(lit, analysis.ExprTreeDepth) != 1 {
		t.Fatalf("expected tree depth 1 for a literal, got %d", analysis.Int(lit, analysis.ExprTreeDepth))
	}
	if analysis.Int(lit, analysis.ExprComplexityScore) != 1 {
		t.Fatalf("expected complexity score 1 for a literal, got %d", analysis.Int(lit, analysis.ExprComplexityScore))
	}
	if analysis.Bool(lit, analysis.ExprContainsMemoryAccess) {
		t.Fatal("a literal must never be flagged as a memory access")
	}
}

func TestIndexExprFlagsMemoryAccess(t *testing.T) {
	idx := &ast.IndexExpr{Array: &ast.IdentExpr{Name: "buf"}, Index: &ast.IdentExpr{Name: "i"}}
	fn := &ast.FuncDecl{Name: "f", Body: &ast.BlockStmt{Stmts: []ast.Stmt{&ast.ReturnStmt{Value: idx}}}}
	program := &ast.Program{Declarations: []ast.Declaration{fn}}
	ctx := analysis.NewContext(program)

	complexity.New().Analyze(ctx)

	if !analysis.Bool(idx, analysis.ExprContainsMemoryAccess) {
		t.Fatal("expected an array index expression to flag memory access")
	}
}

func TestRegisterPressureIsClamped(t *testing.T) {
	// A deeply nested expression must still clamp register pressure to [1,3].
	var e ast.Expr = &ast.LiteralExpr{Kind: ast.LitByte, Value: int64(1)}
	for i := 0; i < 10; i++ {
		e = &ast.BinaryExpr{Op: ast.OpAdd, Left: e, Right: &ast.LiteralExpr{Kind: ast.LitByte, Value: int64(1)}}
	}
	fn := &ast.FuncDecl{Name: "f", Body: &ast.BlockStmt{Stmts: []ast.Stmt{&ast.ReturnStmt{Value: e}}}}
	program := &ast.Program{Declarations: []ast.Declaration{fn}}
	ctx := analysis.NewContext(program)

	complexity.New().Analyze(ctx)

	pressure := analysis.Int(e, analysis.ExprRegisterPressure)
	if pressure < 1 || pressure > 3 {
		t.Fatalf("expected register pressure clamped to [1,3], got %d", pressure)
	}
}
