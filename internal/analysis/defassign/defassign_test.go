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
package defassign_test

import (
	"testing"

	"blendsdk.dev/blend65c/internal/analysis"
	"blendsdk.dev/blend65c/internal/analysis/defassign"
	"blendsdk.dev/blend65c/internal/ast"
	"blendsdk.dev/blend65c/internal/diag"
)

func TestParametersInitializedAtEntry(t *testing.T) {
	fn := &ast.FuncDecl{
		Name:   "f",
		Params: []*ast.Param{{Name: "p"}},
		Body: &ast.BlockStmt{Stmts: []ast.Stmt{
			&ast.ReturnStmt{Value: &ast.IdentExpr{Name: "p"}},
		}},
	}
	program := &ast.Program{Declarations: []ast.Declaration{fn}}
	ctx := analysis.NewContext(program)

	diags := defassign.New().Analyze(ctx)
	for _, d := range diags {
		if d.Code == diag.UseBeforeInit {
			t.Fatalf("parameter read should never trigger USE_BEFORE_INIT, got %+v", d)
		}
	}
}

func TestUseBeforeInitDetected(t *testing.T) {
	fn := &ast.FuncDecl{
		Name: "f",
		Body: &ast.BlockStmt{Stmts: []ast.Stmt{
			&ast.ReturnStmt{Value: &ast.IdentExpr{Name: "x"}},
		}},
	}
	program := &ast.Program{Declarations: []ast.Declaration{fn}}
	ctx := analysis.NewContext(program)

	diags := defassign.New().Analyze(ctx)
	found := false
	for _, d := range diags {
		if d.Code == diag.UseBeforeInit {
			found = true
		}
	}
	if !found {
		t.Fatal("expected USE_BEFORE_INIT for a read of an undeclared/unassigned variable")
	}
}

// TestGlobalsAndConstsNeverFlagged checks that reads of a module-level var,
// a @map global, a const, and an enum member inside a function body never
// trigger USE_BEFORE_INIT: spec §4.F scopes this analysis to "each local",
// and none of these names ever appear in the per-function dataflow set.
func TestGlobalsAndConstsNeverFlagged(t *testing.T) {
	fn := &ast.FuncDecl{
		Name: "f",
		Body: &ast.BlockStmt{Stmts: []ast.Stmt{
			&ast.ExprStmt{Value: &ast.IdentExpr{Name: "counter"}},
			&ast.ExprStmt{Value: &ast.IdentExpr{Name: "screenBase"}},
			&ast.ExprStmt{Value: &ast.IdentExpr{Name: "maxLives"}},
			&ast.ExprStmt{Value: &ast.IdentExpr{Name: "colorRed"}},
		}},
	}
	program := &ast.Program{
		Declarations: []ast.Declaration{
			&ast.VarDecl{Name: "counter", Type: &ast.TypeExpr{Name: "byte"}},
			&ast.MapDecl{Name: "screenBase", Address: 0x0400, Type: &ast.TypeExpr{Name: "byte"}},
			&ast.ConstDecl{Name: "maxLives", Type: &ast.TypeExpr{Name: "byte"},
				Init: &ast.LiteralExpr{Kind: ast.LitByte, Value: int64(3)}},
			&ast.EnumDecl{Name: "Color", Members: []*ast.EnumMember{{Name: "colorRed"}}},
			fn,
		},
	}
	ctx := analysis.NewContext(program)

	diags := defassign.New().Analyze(ctx)
	for _, d := range diags {
		if d.Code == diag.UseBeforeInit {
			t.Fatalf("reading a global/const/enum-member should never trigger USE_BEFORE_INIT, got %+v", d)
		}
	}
}

func TestLetMarksAlwaysInitialized(t *testing.T) {
	letX := &ast.LetStmt{Name: "x", Init: &ast.LiteralExpr{Kind: ast.LitByte, Value: int64(5)}}
	fn := &ast.FuncDecl{
		Name: "f",
		Body: &ast.BlockStmt{Stmts: []ast.Stmt{letX}},
	}
	program := &ast.Program{Declarations: []ast.Declaration{fn}}
	ctx := analysis.NewContext(program)

	defassign.New().Analyze(ctx)
	if !analysis.Bool(letX, analysis.AlwaysInitialized) {
		t.Fatal("expected AlwaysInitialized=true on the let statement")
	}
	v, _ := analysis.Get(letX, analysis.DefiniteAssignmentInitValue)
	if v != int64(5) {
		t.Fatalf("expected DefiniteAssignmentInitValue=5, got %v", v)
	}
}
