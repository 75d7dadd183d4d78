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
package cse_test

import (
	"testing"

	"blendsdk.dev/blend65c/internal/analysis"
	"blendsdk.dev/blend65c/internal/analysis/cse"
	"blendsdk.dev/blend65c/internal/ast"
)

// TestSecondOccurrenceIsCandidate reproduces the CSE half of spec §8 scenario
// 4: the y declaration's a+b matches x's earlier a+b and is flagged a CSE
// candidate, pointing back at "x"; the y statement's CSEAvailable snapshot
// lists the a+b fingerprint.
func TestSecondOccurrenceIsCandidate(t *testing.T) {
	xInit := &ast.BinaryExpr{Op: ast.OpAdd, Left: &ast.IdentExpr{Name: "a"}, Right: &ast.IdentExpr{Name: "b"}}
	yInit := &ast.BinaryExpr{Op: ast.OpAdd, Left: &ast.IdentExpr{Name: "a"}, Right: &ast.IdentExpr{Name: "b"}}
	yStmt := &ast.LetStmt{Name: "y", Init: yInit}

	fn := &ast.FuncDecl{
		Name: "f",
		Body: &ast.BlockStmt{Stmts: []ast.Stmt{
			&ast.LetStmt{Name: "a", Init: &ast.LiteralExpr{Kind: ast.LitByte, Value: int64(10)}},
			&ast.LetStmt{Name: "b", Init: &ast.LiteralExpr{Kind: ast.LitByte, Value: int64(20)}},
			&ast.LetStmt{Name: "x", Init: xInit},
			yStmt,
		}},
	}
	program := &ast.Program{Declarations: []ast.Declaration{fn}}
	ctx := analysis.NewContext(program)
	cse.New().Analyze(ctx)

	if analysis.Bool(xInit, analysis.CSECandidate) {
		t.Fatal("x's initializer is the first occurrence and must not be a CSE candidate")
	}
	if !analysis.Bool(yInit, analysis.CSECandidate) {
		t.Fatal("expected CSECandidate=true on y's initializer")
	}
	replacement, _ := analysis.Get(yInit, analysis.GVNReplacement)
	if replacement != "x" {
		t.Fatalf("expected GVNReplacement=\"x\" on y's initializer, got %v", replacement)
	}

	avail := analysis.StringSet(yStmt, analysis.CSEAvailable)
	found := false
	for _, fp := range avail {
		if fp == "(a + b)" {
			found = true
		}
	}
	if !found {
		t.Fatalf("expected CSEAvailable to list the a+b fingerprint, got %v", avail)
	}
}

// TestBranchResetsAvailability checks that entering an if-branch does not
// leak its local availability back into the outer block.
func TestBranchResetsAvailability(t *testing.T) {
	innerSum := &ast.BinaryExpr{Op: ast.OpAdd, Left: &ast.IdentExpr{Name: "a"}, Right: &ast.IdentExpr{Name: "b"}}
	afterSum := &ast.BinaryExpr{Op: ast.OpAdd, Left: &ast.IdentExpr{Name: "a"}, Right: &ast.IdentExpr{Name: "b"}}

	fn := &ast.FuncDecl{
		Name: "f",
		Body: &ast.BlockStmt{Stmts: []ast.Stmt{
			&ast.LetStmt{Name: "a", Init: &ast.LiteralExpr{Kind: ast.LitByte, Value: int64(10)}},
			&ast.LetStmt{Name: "b", Init: &ast.LiteralExpr{Kind: ast.LitByte, Value: int64(20)}},
			&ast.IfStmt{
				Cond: &ast.LiteralExpr{Kind: ast.LitBool, Value: true},
				Then: &ast.BlockStmt{Stmts: []ast.Stmt{
					&ast.LetStmt{Name: "inner", Init: innerSum},
				}},
			},
			&ast.LetStmt{Name: "after", Init: afterSum},
		}},
	}
	program := &ast.Program{Declarations: []ast.Declaration{fn}}
	ctx := analysis.NewContext(program)
	cse.New().Analyze(ctx)

	if analysis.Bool(afterSum, analysis.CSECandidate) {
		t.Fatal("availability computed inside the branch must not leak to the outer block")
	}
}
