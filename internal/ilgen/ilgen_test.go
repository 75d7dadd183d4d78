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
package ilgen_test

import (
	"testing"

	"blendsdk.dev/blend65c/internal/ast"
	"blendsdk.dev/blend65c/internal/il"
	"blendsdk.dev/blend65c/internal/ilgen"
	"blendsdk.dev/blend65c/internal/ssa"
)

func byteLit(v int64) *ast.LiteralExpr { return &ast.LiteralExpr{Kind: ast.LitByte, Value: v} }
func boolLit(v bool) *ast.LiteralExpr  { return &ast.LiteralExpr{Kind: ast.LitBool, Value: v} }
func ident(name string) *ast.IdentExpr { return &ast.IdentExpr{Name: name} }

// TestLowerImplicitVoidReturn reproduces a void function whose body falls off
// the end with no explicit return statement.
func TestLowerImplicitVoidReturn(t *testing.T) {
	decl := &ast.FuncDecl{
		Name: "f",
		Body: &ast.BlockStmt{Stmts: []ast.Stmt{
			&ast.LetStmt{Name: "x", Init: byteLit(1)},
		}},
	}
	fn := ilgen.Lower(decl, nil)

	term := fn.Entry().Terminator()
	ret, ok := term.(*il.ReturnInst)
	if !ok {
		t.Fatalf("expected an implicit ReturnInst terminator, got %T", term)
	}
	if ret.HasValue {
		t.Fatalf("implicit return of a fallen-off-the-end void body must not carry a value")
	}
}

// TestLowerExplicitReturnDoesNotDoubleTerminate ensures a body ending in an
// explicit return is not given a second, implicit terminator.
func TestLowerExplicitReturnDoesNotDoubleTerminate(t *testing.T) {
	decl := &ast.FuncDecl{
		Name: "f",
		Body: &ast.BlockStmt{Stmts: []ast.Stmt{
			&ast.ReturnStmt{Value: byteLit(5)},
		}},
	}
	fn := ilgen.Lower(decl, nil)
	if len(fn.Blocks()) != 1 {
		t.Fatalf("expected exactly one block, got %d", len(fn.Blocks()))
	}
}

// buildIfElseMutatingLocal models:
//
//	func f() -> byte {
//	    let x: byte = 0
//	    if true { x = 10 } else { x = 20 }
//	    return x
//	}
func buildIfElseMutatingLocal() *ast.FuncDecl {
	return &ast.FuncDecl{
		Name:       "f",
		ReturnType: &ast.TypeExpr{Name: "byte"},
		Body: &ast.BlockStmt{Stmts: []ast.Stmt{
			&ast.LetStmt{Name: "x", Type: &ast.TypeExpr{Name: "byte"}, Init: byteLit(0)},
			&ast.IfStmt{
				Cond: boolLit(true),
				Then: &ast.BlockStmt{Stmts: []ast.Stmt{
					&ast.AssignStmt{Target: ident("x"), Value: byteLit(10)},
				}},
				Else: &ast.BlockStmt{Stmts: []ast.Stmt{
					&ast.AssignStmt{Target: ident("x"), Value: byteLit(20)},
				}},
			},
			&ast.ReturnStmt{Value: ident("x")},
		}},
	}
}

// TestLowerIfElseProducesValidSSAAfterBuild checks that an if/else mutating a
// shared local lowers into a shape internal/ssa can both phi-insert and
// verify clean -- the join block's mem2reg phi is the whole point of storing
// through a slot rather than hand-building control-flow merges in ilgen.
func TestLowerIfElseProducesValidSSAAfterBuild(t *testing.T) {
	fn := ilgen.Lower(buildIfElseMutatingLocal(), nil)

	stats := ssa.NewBuilder().Build(fn)
	if stats.PhisInserted == 0 {
		t.Fatalf("expected at least one phi inserted for the local mutated on both arms")
	}
	if diags := ssa.Verify(fn); len(diags) != 0 {
		t.Fatalf("expected valid SSA after Build, got diagnostics: %v", diags)
	}
}

// TestLowerIfBothArmsReturnMarksJoinUnreachable reproduces an if/else where
// both arms return: the join block immediately following has no live
// predecessor and must terminate with Unreachable, not a dangling branch.
func TestLowerIfBothArmsReturnMarksJoinUnreachable(t *testing.T) {
	decl := &ast.FuncDecl{
		Name: "f",
		Body: &ast.BlockStmt{Stmts: []ast.Stmt{
			&ast.IfStmt{
				Cond: boolLit(true),
				Then: &ast.BlockStmt{Stmts: []ast.Stmt{&ast.ReturnStmt{}}},
				Else: &ast.BlockStmt{Stmts: []ast.Stmt{&ast.ReturnStmt{}}},
			},
		}},
	}
	fn := ilgen.Lower(decl, nil)

	var join *il.Block
	for _, blk := range fn.Blocks() {
		if _, ok := blk.Terminator().(*il.UnreachableInst); ok {
			join = blk
		}
	}
	if join == nil {
		t.Fatalf("expected one block terminated with Unreachable for the dead join")
	}
}

// TestLowerWhileLoopStructure checks the header/body/exit block shape and
// that a trailing continue jumps straight back to the header.
func TestLowerWhileLoopStructure(t *testing.T) {
	decl := &ast.FuncDecl{
		Name: "f",
		Body: &ast.BlockStmt{Stmts: []ast.Stmt{
			&ast.WhileStmt{
				Cond: boolLit(true),
				Body: &ast.BlockStmt{Stmts: []ast.Stmt{&ast.ContinueStmt{}}},
			},
		}},
	}
	fn := ilgen.Lower(decl, nil)

	var header *il.Block
	for _, blk := range fn.Blocks() {
		if term, ok := blk.Terminator().(*il.CondBranchInst); ok {
			_ = term
			header = blk
		}
	}
	if header == nil {
		t.Fatalf("expected a CondBranchInst-terminated header block")
	}

	body := fn.Block(header.Succs()[0])
	br, ok := body.Terminator().(*il.BranchInst)
	if !ok {
		t.Fatalf("expected the continue to lower to a BranchInst, got %T", body.Terminator())
	}
	if br.Target != header.ID {
		t.Fatalf("while's continue should jump straight back to the header, got block%d want block%d", br.Target, header.ID)
	}
}

// buildForRange models: for i = 0 to 3 { continue }
func buildForRange() *ast.FuncDecl {
	return &ast.FuncDecl{
		Name: "f",
		Body: &ast.BlockStmt{Stmts: []ast.Stmt{
			&ast.ForRangeStmt{
				Var:  "i",
				Low:  byteLit(0),
				High: byteLit(3),
				Body: &ast.BlockStmt{Stmts: []ast.Stmt{&ast.ContinueStmt{}}},
			},
		}},
	}
}

// TestLowerForRangeIsInclusiveAndContinuesToIncrement checks the bound
// comparison is <= (inclusive) and that continue targets the dedicated
// increment block rather than the header, unlike while.
func TestLowerForRangeIsInclusiveAndContinuesToIncrement(t *testing.T) {
	fn := ilgen.Lower(buildForRange(), nil)

	var header, body *il.Block
	for _, blk := range fn.Blocks() {
		for _, inst := range blk.Instructions() {
			if cmp, ok := inst.(*il.CompareInst); ok {
				if cmp.Op != il.CmpLe {
					t.Fatalf("for-range bound check should use CmpLe (inclusive), got %s", cmp.Op)
				}
				header = blk
			}
		}
	}
	if header == nil {
		t.Fatalf("expected a block containing the loop bound CompareInst")
	}

	cb := header.Terminator().(*il.CondBranchInst)
	body = fn.Block(cb.IfTrue)

	br, ok := body.Terminator().(*il.BranchInst)
	if !ok {
		t.Fatalf("expected the continue to lower to a BranchInst, got %T", body.Terminator())
	}
	if br.Target == header.ID {
		t.Fatalf("for-range's continue must target the increment block, not jump straight back to the header (would skip the increment)")
	}
	incr := fn.Block(br.Target)
	foundIncrement := false
	for _, inst := range incr.Instructions() {
		if bi, ok := inst.(*il.BinaryInst); ok && bi.Op == il.BinAdd {
			foundIncrement = true
		}
	}
	if !foundIncrement {
		t.Fatalf("continue's target block should contain the loop variable's increment")
	}
}

// buildLogicalAnd models: return (a && b)
func buildLogicalAnd() *ast.FuncDecl {
	return &ast.FuncDecl{
		Name:       "f",
		ReturnType: &ast.TypeExpr{Name: "bool"},
		Params: []*ast.Param{
			{Name: "a", Type: &ast.TypeExpr{Name: "bool"}},
			{Name: "b", Type: &ast.TypeExpr{Name: "bool"}},
		},
		Body: &ast.BlockStmt{Stmts: []ast.Stmt{
			&ast.ReturnStmt{Value: &ast.BinaryExpr{Op: ast.OpLogicalAnd, Left: ident("a"), Right: ident("b")}},
		}},
	}
}

// TestLowerLogicalAndShortCircuits checks that && only evaluates its right
// operand on the branch where the left operand was true, and that the
// result merges cleanly through internal/ssa.
func TestLowerLogicalAndShortCircuits(t *testing.T) {
	fn := ilgen.Lower(buildLogicalAnd(), nil)

	entry := fn.Entry()
	cb, ok := entry.Terminator().(*il.CondBranchInst)
	if !ok {
		t.Fatalf("expected the entry block to end in a CondBranchInst over the left operand, got %T", entry.Terminator())
	}
	if cb.IfFalse == cb.IfTrue {
		t.Fatalf("true and false arms of && must diverge")
	}

	if diags := ssa.Verify(ssaBuilt(fn)); len(diags) != 0 {
		t.Fatalf("expected valid SSA after Build, got diagnostics: %v", diags)
	}
}

func ssaBuilt(fn *il.Function) *il.Function {
	ssa.NewBuilder().Build(fn)
	return fn
}

// TestLowerEnumMemberFoldsToConstant checks that collectConsts-driven
// folding turns a reference to an enum member into a ConstInst, never a
// Load of a slot that was never stored.
func TestLowerEnumMemberFoldsToConstant(t *testing.T) {
	prog := &ast.Program{
		Module: ast.ModuleDecl{Name: "m"},
		Declarations: []ast.Declaration{
			&ast.EnumDecl{Name: "Color", Members: []*ast.EnumMember{
				{Name: "Red"},
				{Name: "Green"},
			}},
			&ast.FuncDecl{
				Name:       "f",
				ReturnType: &ast.TypeExpr{Name: "byte"},
				Body: &ast.BlockStmt{Stmts: []ast.Stmt{
					&ast.ReturnStmt{Value: ident("Green")},
				}},
			},
		},
	}
	mod := ilgen.LowerModule(prog)
	fn, ok := mod.Function("f")
	if !ok {
		t.Fatalf("expected function f in lowered module")
	}

	var foundConst bool
	for _, inst := range fn.Entry().Instructions() {
		if c, ok := inst.(*il.ConstInst); ok && c.Value == 1 {
			foundConst = true
		}
		if _, ok := inst.(*il.LoadInst); ok {
			t.Fatalf("enum member reference should never lower to a Load")
		}
	}
	if !foundConst {
		t.Fatalf("expected Green (auto-incremented to 1) to fold to a ConstInst")
	}
}
