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
package purity_test

import (
	"testing"

	"blendsdk.dev/blend65c/internal/analysis"
	"blendsdk.dev/blend65c/internal/analysis/purity"
	"blendsdk.dev/blend65c/internal/ast"
)

func TestPureArithmeticFunction(t *testing.T) {
	fn := &ast.FuncDecl{
		Name: "add",
		Body: &ast.BlockStmt{Stmts: []ast.Stmt{
			&ast.ReturnStmt{Value: &ast.BinaryExpr{Op: ast.OpAdd, Left: &ast.IdentExpr{Name: "a"}, Right: &ast.IdentExpr{Name: "b"}}},
		}},
	}
	program := &ast.Program{Declarations: []ast.Declaration{fn}}
	ctx := analysis.NewContext(program)

	purity.New().Analyze(ctx)

	level, _ := analysis.Get(fn, analysis.PurityLevel)
	if level != analysis.Pure {
		t.Fatalf("expected Pure, got %v", level)
	}
	if analysis.Bool(fn, analysis.PurityHasSideEffects) {
		t.Fatal("a pure function must not be flagged as having side effects")
	}
}

func TestGlobalWriteIsLocalEffects(t *testing.T) {
	global := &ast.VarDecl{Name: "counter"}
	fn := &ast.FuncDecl{
		Name: "bump",
		Body: &ast.BlockStmt{Stmts: []ast.Stmt{
			&ast.AssignStmt{Target: &ast.IdentExpr{Name: "counter"}, Value: &ast.LiteralExpr{Kind: ast.LitByte, Value: int64(1)}},
		}},
	}
	program := &ast.Program{Declarations: []ast.Declaration{global, fn}}
	ctx := analysis.NewContext(program)

	purity.New().Analyze(ctx)

	level, _ := analysis.Get(fn, analysis.PurityLevel)
	if level != analysis.LocalEffects {
		t.Fatalf("expected LocalEffects, got %v", level)
	}
	if !analysis.Bool(fn, analysis.PurityHasSideEffects) {
		t.Fatal("expected PurityHasSideEffects=true")
	}
	written := analysis.StringSet(fn, analysis.PurityWrittenLocations)
	if len(written) != 1 || written[0] != "counter" {
		t.Fatalf("expected PurityWrittenLocations=[counter], got %v", written)
	}
}

func TestImpurityPropagatesThroughCalls(t *testing.T) {
	global := &ast.VarDecl{Name: "flag"}
	setter := &ast.FuncDecl{
		Name: "setFlag",
		Body: &ast.BlockStmt{Stmts: []ast.Stmt{
			&ast.AssignStmt{Target: &ast.IdentExpr{Name: "flag"}, Value: &ast.LiteralExpr{Kind: ast.LitBool, Value: true}},
		}},
	}
	caller := &ast.FuncDecl{
		Name: "run",
		Body: &ast.BlockStmt{Stmts: []ast.Stmt{
			&ast.ExprStmt{Value: &ast.CallExpr{Callee: &ast.IdentExpr{Name: "setFlag"}}},
		}},
	}
	program := &ast.Program{Declarations: []ast.Declaration{global, setter, caller}}
	ctx := analysis.NewContext(program)

	purity.New().Analyze(ctx)

	level, _ := analysis.Get(caller, analysis.PurityLevel)
	if level != analysis.LocalEffects {
		t.Fatalf("expected the caller's purity to inherit LocalEffects from its callee, got %v", level)
	}
	called := analysis.StringSet(caller, analysis.PurityCalledFunctions)
	if len(called) != 1 || called[0] != "setFlag" {
		t.Fatalf("expected PurityCalledFunctions=[setFlag], got %v", called)
	}
}

func TestHardwarePeekIsReadOnly(t *testing.T) {
	fn := &ast.FuncDecl{
		Name: "readBorder",
		Body: &ast.BlockStmt{Stmts: []ast.Stmt{
			&ast.ReturnStmt{Value: &ast.CallExpr{Callee: &ast.IdentExpr{Name: "peek"}, Args: []ast.Expr{&ast.LiteralExpr{Kind: ast.LitWord, Value: int64(0xD020)}}}},
		}},
	}
	program := &ast.Program{Declarations: []ast.Declaration{fn}}
	ctx := analysis.NewContext(program)

	purity.New().Analyze(ctx)

	level, _ := analysis.Get(fn, analysis.PurityLevel)
	if level != analysis.ReadOnly {
		t.Fatalf("expected ReadOnly, got %v", level)
	}
}
