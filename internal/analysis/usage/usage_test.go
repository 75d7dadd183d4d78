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
package usage_test

import (
	"testing"

	"blendsdk.dev/blend65c/internal/analysis"
	"blendsdk.dev/blend65c/internal/analysis/usage"
	"blendsdk.dev/blend65c/internal/ast"
	"blendsdk.dev/blend65c/internal/diag"
)

func TestUnusedVariableHint(t *testing.T) {
	letX := &ast.LetStmt{Name: "x", Init: &ast.LiteralExpr{Kind: ast.LitByte, Value: int64(1)}}
	fn := &ast.FuncDecl{Name: "f", Body: &ast.BlockStmt{Stmts: []ast.Stmt{letX}}}
	program := &ast.Program{Declarations: []ast.Declaration{fn}}
	ctx := analysis.NewContext(program)

	diags := usage.New().Analyze(ctx)
	if len(diags) != 1 || diags[0].Code != diag.UnusedVariable || diags[0].Severity != diag.Hint {
		t.Fatalf("expected one hint-severity UNUSED_VARIABLE diagnostic, got %v", diags)
	}
	if !analysis.Bool(letX, analysis.UsageUnused) {
		t.Fatal("expected UsageUnused=true")
	}
}

func TestWriteOnlyVariableHint(t *testing.T) {
	letX := &ast.LetStmt{Name: "x", Init: &ast.LiteralExpr{Kind: ast.LitByte, Value: int64(1)}}
	assign := &ast.AssignStmt{Target: &ast.IdentExpr{Name: "x"}, Value: &ast.LiteralExpr{Kind: ast.LitByte, Value: int64(2)}}
	fn := &ast.FuncDecl{Name: "f", Body: &ast.BlockStmt{Stmts: []ast.Stmt{letX, assign}}}
	program := &ast.Program{Declarations: []ast.Declaration{fn}}
	ctx := analysis.NewContext(program)

	diags := usage.New().Analyze(ctx)
	// The initialization is itself a dead store (x is never read before
	// assign overwrites it), in addition to x being write-only overall.
	var sawWriteOnly, sawDeadStore bool
	for _, d := range diags {
		switch d.Code {
		case diag.WriteOnlyVariable:
			sawWriteOnly = true
		case diag.DeadStore:
			sawDeadStore = true
		}
	}
	if len(diags) != 2 || !sawWriteOnly || !sawDeadStore {
		t.Fatalf("expected WRITE_ONLY_VARIABLE and DEAD_STORE diagnostics, got %v", diags)
	}
	if !analysis.Bool(letX, analysis.UsageDeadStore) {
		t.Fatal("expected UsageDeadStore=true on the initializer")
	}
}

func TestDeadStoreDetectedOnOverwriteWithoutRead(t *testing.T) {
	letX := &ast.LetStmt{Name: "x", Init: &ast.LiteralExpr{Kind: ast.LitByte, Value: int64(1)}}
	assign := &ast.AssignStmt{Target: &ast.IdentExpr{Name: "x"}, Value: &ast.LiteralExpr{Kind: ast.LitByte, Value: int64(2)}}
	ret := &ast.ReturnStmt{Value: &ast.IdentExpr{Name: "x"}}
	fn := &ast.FuncDecl{Name: "f", Body: &ast.BlockStmt{Stmts: []ast.Stmt{letX, assign, ret}}}
	program := &ast.Program{Declarations: []ast.Declaration{fn}}
	ctx := analysis.NewContext(program)

	diags := usage.New().Analyze(ctx)
	found := false
	for _, d := range diags {
		if d.Code == diag.DeadStore {
			found = true
		}
	}
	if !found {
		t.Fatalf("expected a DEAD_STORE diagnostic for the overwritten initializer, got %v", diags)
	}
	if !analysis.Bool(letX, analysis.UsageDeadStore) {
		t.Fatal("expected UsageDeadStore=true on the initializer")
	}
	if analysis.Bool(assign, analysis.UsageDeadStore) {
		t.Fatal("the final write is read by the return, so it should not be flagged dead")
	}
}

func TestReadBetweenWritesSuppressesDeadStore(t *testing.T) {
	letX := &ast.LetStmt{Name: "x", Init: &ast.LiteralExpr{Kind: ast.LitByte, Value: int64(1)}}
	useX := &ast.ExprStmt{Value: &ast.IdentExpr{Name: "x"}}
	assign := &ast.AssignStmt{Target: &ast.IdentExpr{Name: "x"}, Value: &ast.LiteralExpr{Kind: ast.LitByte, Value: int64(2)}}
	ret := &ast.ReturnStmt{Value: &ast.IdentExpr{Name: "x"}}
	fn := &ast.FuncDecl{Name: "f", Body: &ast.BlockStmt{Stmts: []ast.Stmt{letX, useX, assign, ret}}}
	program := &ast.Program{Declarations: []ast.Declaration{fn}}
	ctx := analysis.NewContext(program)

	diags := usage.New().Analyze(ctx)
	for _, d := range diags {
		if d.Code == diag.DeadStore {
			t.Fatalf("a read between the two writes should suppress DEAD_STORE, got %v", diags)
		}
	}
}

func TestUsedVariableProducesNoHint(t *testing.T) {
	letX := &ast.LetStmt{Name: "x", Init: &ast.LiteralExpr{Kind: ast.LitByte, Value: int64(1)}}
	fn := &ast.FuncDecl{
		Name: "f",
		Body: &ast.BlockStmt{Stmts: []ast.Stmt{
			letX,
			&ast.ReturnStmt{Value: &ast.IdentExpr{Name: "x"}},
		}},
	}
	program := &ast.Program{Declarations: []ast.Declaration{fn}}
	ctx := analysis.NewContext(program)

	diags := usage.New().Analyze(ctx)
	if len(diags) != 0 {
		t.Fatalf("expected no diagnostics, got %v", diags)
	}
	if analysis.Int(letX, analysis.UsageReadCount) != 1 {
		t.Fatalf("expected UsageReadCount=1, got %d", analysis.Int(letX, analysis.UsageReadCount))
	}
}
