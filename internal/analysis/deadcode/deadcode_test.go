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
package deadcode_test

import (
	"testing"

	"blendsdk.dev/blend65c/internal/analysis"
	"blendsdk.dev/blend65c/internal/analysis/deadcode"
	"blendsdk.dev/blend65c/internal/ast"
	"blendsdk.dev/blend65c/internal/diag"
)

// TestDeadCodeAfterReturn reproduces spec §8 scenario 3 exactly: function
// f(): void { return; let x: byte = 1; } -> one UNREACHABLE_CODE warning;
// the let statement carries DeadCodeKind=UnreachableStatement,
// DeadCodeUnreachable=true, DeadCodeRemovable=true.
func TestDeadCodeAfterReturn(t *testing.T) {
	letX := &ast.LetStmt{Name: "x", Init: &ast.LiteralExpr{Kind: ast.LitByte, Value: int64(1)}}
	fn := &ast.FuncDecl{
		Name: "f",
		Body: &ast.BlockStmt{Stmts: []ast.Stmt{
			&ast.ReturnStmt{},
			letX,
		}},
	}
	program := &ast.Program{Declarations: []ast.Declaration{fn}}
	ctx := analysis.NewContext(program)

	diags := deadcode.New().Analyze(ctx)
	if len(diags) != 1 {
		t.Fatalf("expected exactly one diagnostic, got %d: %v", len(diags), diags)
	}
	if diags[0].Code != diag.UnreachableCode || diags[0].Severity != diag.Warning {
		t.Fatalf("expected a warning-severity UNREACHABLE_CODE diagnostic, got %+v", diags[0])
	}

	if !analysis.Bool(letX, analysis.DeadCodeUnreachable) {
		t.Fatal("expected DeadCodeUnreachable=true on the let statement")
	}
	if !analysis.Bool(letX, analysis.DeadCodeRemovable) {
		t.Fatal("expected DeadCodeRemovable=true on the let statement")
	}
	kind, _ := analysis.Get(letX, analysis.DeadCodeKind)
	if kind != analysis.UnreachableStatement {
		t.Fatalf("expected DeadCodeKind=UnreachableStatement, got %v", kind)
	}
}

func TestConstantBranchFolding(t *testing.T) {
	fn := &ast.FuncDecl{
		Name: "f",
		Body: &ast.BlockStmt{Stmts: []ast.Stmt{
			&ast.IfStmt{
				Cond: &ast.LiteralExpr{Kind: ast.LitBool, Value: false},
				Then: &ast.BlockStmt{Stmts: []ast.Stmt{
					&ast.ExprStmt{Value: &ast.IdentExpr{Name: "never"}},
				}},
			},
		}},
	}
	program := &ast.Program{Declarations: []ast.Declaration{fn}}
	ctx := analysis.NewContext(program)

	diags := deadcode.New().Analyze(ctx)
	found := false
	for _, d := range diags {
		if d.Code == diag.UnreachableCode {
			found = true
		}
	}
	if !found {
		t.Fatal("expected an UNREACHABLE_CODE diagnostic for the always-false branch")
	}
}
