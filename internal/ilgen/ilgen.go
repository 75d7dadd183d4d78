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

// Package ilgen lowers the typed AST to the IL core, one module at a time
// (spec §4.I): statement lowering creates basic blocks for control flow,
// expression lowering returns a (register, block) pair. Every local and
// module-level mutable is represented as a named storage slot (Load/Store),
// left for internal/ssa to promote to registers -- ilgen itself never
// decides which slots are SSA-eligible.
package ilgen

import (
	"fmt"

	"blendsdk.dev/blend65c/internal/ast"
	"blendsdk.dev/blend65c/internal/il"
	"blendsdk.dev/blend65c/internal/types"
)

// ResolveTypeExpr resolves a syntactic type (as written by the programmer)
// into its internal/types.Type. A nil TypeExpr resolves to void, matching a
// function with no declared return type.
func ResolveTypeExpr(te *ast.TypeExpr) types.Type {
	if te == nil {
		return types.Void()
	}

	var base types.Type
	switch te.Name {
	case "byte":
		base = types.Byte()
	case "word":
		base = types.Word()
	case "bool":
		base = types.Bool()
	case "void":
		base = types.Void()
	default:
		base = types.Unknown()
	}

	if te.Unsized {
		base = types.NewUnsizedArrayType(base)
	} else if te.ArrayLength != nil {
		if arr, err := types.NewArrayType(base, *te.ArrayLength); err == nil {
			base = arr
		} else {
			base = types.Unknown()
		}
	}

	for i := 0; i < te.PointerDepth; i++ {
		base = types.NewPointerType(base)
	}
	return base
}

// loopFrame records the continuation targets of one enclosing loop: where a
// continue jumps (the condition re-check for while, the increment step for
// for-range) and where a break jumps.
type loopFrame struct {
	continueTarget int
	exit           int
}

type builder struct {
	fn     *il.Function
	loops  []loopFrame
	tmp    int
	consts map[string]int64
}

func (b *builder) block(id int) *il.Block { return b.fn.Block(id) }

func (b *builder) newTemp() string {
	b.tmp++
	return fmt.Sprintf("$t%d", b.tmp)
}

// LowerModule lowers every function, global, constant and enum declaration
// in prog into an IL module. Module/import declarations are the module
// registry's concern (internal/module) and are skipped here.
//
// Constants and enum members are collected into a folding table ahead of
// function lowering, so a reference to one inside a function body lowers
// directly to a ConstInst rather than a Load of a slot that would otherwise
// need to exist as real storage.
func LowerModule(prog *ast.Program) *il.Module {
	mod := il.NewModule(prog.Module.Name)
	consts := collectConsts(prog)

	var prevEnumValue *int
	for _, d := range prog.Declarations {
		switch x := d.(type) {
		case *ast.FuncDecl:
			fn := Lower(x, consts)
			mod.AddFunction(fn)
			if x.IsExported {
				mod.AddExport(il.Export{LocalName: x.Name, ExternalName: x.Name, Kind: il.ExportFunction})
			}
		case *ast.VarDecl:
			mod.AddGlobal(il.Global{Name: x.Name, Type: ResolveTypeExpr(x.Type), Class: il.Ram})
			if x.IsExported {
				mod.AddExport(il.Export{LocalName: x.Name, ExternalName: x.Name, Kind: il.ExportGlobal})
			}
		case *ast.ConstDecl:
			mod.AddGlobal(il.Global{Name: x.Name, Type: ResolveTypeExpr(x.Type), Class: il.ImmediateConstant})
			if x.IsExported {
				mod.AddExport(il.Export{LocalName: x.Name, ExternalName: x.Name, Kind: il.ExportGlobal})
			}
		case *ast.MapDecl:
			mod.AddGlobal(il.Global{Name: x.Name, Type: ResolveTypeExpr(x.Type), Class: il.Map, Address: x.Address})
		case *ast.ZeroPageDecl:
			mod.AddGlobal(il.Global{Name: x.Name, Type: ResolveTypeExpr(x.Type), Class: il.ZeroPage, Address: x.Address})
		case *ast.EnumDecl:
			prevEnumValue = nil
			for _, m := range x.Members {
				v := 0
				if m.Value != nil {
					v = *m.Value
				} else if prevEnumValue != nil {
					v = *prevEnumValue + 1
				}
				mod.AddGlobal(il.Global{Name: m.Name, Type: types.Byte(), Class: il.ImmediateConstant})
				prevEnumValue = &v
			}
			if x.IsExported {
				for _, m := range x.Members {
					mod.AddExport(il.Export{LocalName: m.Name, ExternalName: m.Name, Kind: il.ExportGlobal})
				}
			}
		}
	}
	return mod
}

// collectConsts folds every ConstDecl with a literal initializer and every
// enum member (explicit or auto-incremented) into name -> value, so
// lowerIdent can resolve a reference to either as an immediate constant.
func collectConsts(prog *ast.Program) map[string]int64 {
	consts := make(map[string]int64)

	var prevEnumValue *int
	for _, d := range prog.Declarations {
		switch x := d.(type) {
		case *ast.ConstDecl:
			if lit, ok := x.Init.(*ast.LiteralExpr); ok {
				if v, ok := lit.Value.(int64); ok {
					consts[x.Name] = v
				}
			}
		case *ast.EnumDecl:
			prevEnumValue = nil
			for _, m := range x.Members {
				v := 0
				if m.Value != nil {
					v = *m.Value
				} else if prevEnumValue != nil {
					v = *prevEnumValue + 1
				}
				consts[m.Name] = int64(v)
				prevEnumValue = &v
			}
		}
	}
	return consts
}

// Lower lowers one function declaration to IL. consts is the module-wide
// constant/enum-member folding table built by collectConsts; pass nil from
// a caller lowering a single function with no module context (tests).
func Lower(decl *ast.FuncDecl, consts map[string]int64) *il.Function {
	params := make([]il.Param, len(decl.Params))
	for i, p := range decl.Params {
		params[i] = il.Param{Name: p.Name, Type: ResolveTypeExpr(p.Type)}
	}
	retType := ResolveTypeExpr(decl.ReturnType)

	fn := il.NewFunction(decl.Name, retType, params)
	fn.SetInterrupt(decl.Interrupt)

	entry := fn.Entry().ID
	for _, p := range params {
		reg := fn.CreateRegister(p.Type, p.Name)
		fn.Block(entry).Append(&il.StoreInst{Slot: p.Name, Value: reg.ID()})
	}

	b := &builder{fn: fn, consts: consts}
	cur := entry
	if decl.Body != nil {
		cur = b.lowerStmts(decl.Body.Stmts, cur)
	}
	if cur != -1 {
		// An empty (or fallen-through) body receives an implicit return;
		// type-checking upstream guarantees this can only be reached for a
		// void return type.
		fn.Block(cur).SetTerminator(&il.ReturnInst{HasValue: false})
	}
	return fn
}

func (b *builder) lowerStmts(stmts []ast.Stmt, cur int) int {
	for _, s := range stmts {
		cur = b.lowerStmt(s, cur)
		if cur == -1 {
			break
		}
	}
	return cur
}

func (b *builder) lowerStmt(s ast.Stmt, cur int) int {
	if cur == -1 {
		return -1
	}
	switch x := s.(type) {
	case nil:
		return cur
	case *ast.BlockStmt:
		return b.lowerStmts(x.Stmts, cur)
	case *ast.LetStmt:
		return b.lowerLet(x, cur)
	case *ast.AssignStmt:
		return b.lowerAssign(x, cur)
	case *ast.CompoundAssignStmt:
		return b.lowerCompoundAssign(x, cur)
	case *ast.ExprStmt:
		_, cur = b.lowerExpr(x.Value, cur)
		return cur
	case *ast.ReturnStmt:
		return b.lowerReturn(x, cur)
	case *ast.IfStmt:
		return b.lowerIf(x, cur)
	case *ast.WhileStmt:
		return b.lowerWhile(x, cur)
	case *ast.ForRangeStmt:
		return b.lowerForRange(x, cur)
	case *ast.BreakStmt:
		return b.lowerBreak(cur)
	case *ast.ContinueStmt:
		return b.lowerContinue(cur)
	default:
		return cur
	}
}

func (b *builder) lowerLet(x *ast.LetStmt, cur int) int {
	if x.Init == nil {
		declType := types.Byte()
		if x.Type != nil {
			declType = ResolveTypeExpr(x.Type)
		}
		zero := b.fn.CreateRegister(declType, "")
		b.block(cur).Append(&il.ConstInst{ResultReg: zero.ID(), Value: 0})
		b.block(cur).Append(&il.StoreInst{Slot: x.Name, Value: zero.ID()})
		return cur
	}

	v, cur := b.lowerExpr(x.Init, cur)
	declType := exprType(x.Init)
	if x.Type != nil {
		declType = ResolveTypeExpr(x.Type)
	}
	v = b.widenIfNeeded(v, exprType(x.Init), declType, cur)
	b.block(cur).Append(&il.StoreInst{Slot: x.Name, Value: v})
	return cur
}

func (b *builder) lowerAssign(x *ast.AssignStmt, cur int) int {
	name := identName(x.Target)
	v, cur := b.lowerExpr(x.Value, cur)
	v = b.widenIfNeeded(v, exprType(x.Value), exprType(x.Target), cur)
	b.block(cur).Append(&il.StoreInst{Slot: name, Value: v})
	return cur
}

func (b *builder) lowerCompoundAssign(x *ast.CompoundAssignStmt, cur int) int {
	name := identName(x.Target)
	targetType := exprType(x.Target)

	lv := b.fn.CreateRegister(targetType, name)
	b.block(cur).Append(&il.LoadInst{ResultReg: lv.ID(), Slot: name})

	rv, cur := b.lowerExpr(x.Value, cur)
	opType := widerOf(targetType, exprType(x.Value))
	l := b.widenIfNeeded(lv.ID(), targetType, opType, cur)
	r := b.widenIfNeeded(rv, exprType(x.Value), opType, cur)

	result := b.fn.CreateRegister(opType, "")
	b.block(cur).Append(&il.BinaryInst{ResultReg: result.ID(), Op: toBinaryOp(x.Op), Left: l, Right: r})

	stored := b.narrowIfNeeded(result.ID(), opType, targetType, cur)
	b.block(cur).Append(&il.StoreInst{Slot: name, Value: stored})
	return cur
}

func (b *builder) lowerReturn(x *ast.ReturnStmt, cur int) int {
	if x.Value == nil {
		b.block(cur).SetTerminator(&il.ReturnInst{HasValue: false})
		return -1
	}
	v, cur := b.lowerExpr(x.Value, cur)
	v = b.widenIfNeeded(v, exprType(x.Value), b.fn.ReturnType, cur)
	b.block(cur).SetTerminator(&il.ReturnInst{Value: v, HasValue: true})
	return -1
}

func (b *builder) lowerIf(x *ast.IfStmt, cur int) int {
	cv, cur := b.lowerExpr(x.Cond, cur)

	thenBlock := b.fn.CreateBlock("")
	joinBlock := b.fn.CreateBlock("")

	hasElse := x.Else != nil
	elseID := joinBlock.ID
	var elseBlockID int
	if hasElse {
		elseBlock := b.fn.CreateBlock("")
		elseID = elseBlock.ID
		elseBlockID = elseBlock.ID
	}

	b.block(cur).SetTerminator(&il.CondBranchInst{Cond: cv, IfTrue: thenBlock.ID, IfFalse: elseID})
	b.fn.AddEdge(cur, thenBlock.ID)
	b.fn.AddEdge(cur, elseID)

	thenOpen := b.lowerStmt(x.Then, thenBlock.ID)
	if thenOpen != -1 {
		b.block(thenOpen).SetTerminator(&il.BranchInst{Target: joinBlock.ID})
		b.fn.AddEdge(thenOpen, joinBlock.ID)
	}

	elseOpen := -1
	if hasElse {
		elseOpen = b.lowerStmt(x.Else, elseBlockID)
		if elseOpen != -1 {
			b.block(elseOpen).SetTerminator(&il.BranchInst{Target: joinBlock.ID})
			b.fn.AddEdge(elseOpen, joinBlock.ID)
		}
	}

	if thenOpen == -1 && hasElse && elseOpen == -1 {
		joinBlock.SetTerminator(&il.UnreachableInst{})
		return -1
	}
	return joinBlock.ID
}

func (b *builder) lowerWhile(x *ast.WhileStmt, cur int) int {
	header := b.fn.CreateBlock("")
	b.block(cur).SetTerminator(&il.BranchInst{Target: header.ID})
	b.fn.AddEdge(cur, header.ID)

	cv, hcur := b.lowerExpr(x.Cond, header.ID)
	body := b.fn.CreateBlock("")
	exit := b.fn.CreateBlock("")
	b.block(hcur).SetTerminator(&il.CondBranchInst{Cond: cv, IfTrue: body.ID, IfFalse: exit.ID})
	b.fn.AddEdge(hcur, body.ID)
	b.fn.AddEdge(hcur, exit.ID)

	b.loops = append(b.loops, loopFrame{continueTarget: header.ID, exit: exit.ID})
	bodyOpen := b.lowerStmt(x.Body, body.ID)
	b.loops = b.loops[:len(b.loops)-1]

	if bodyOpen != -1 {
		b.block(bodyOpen).SetTerminator(&il.BranchInst{Target: header.ID})
		b.fn.AddEdge(bodyOpen, header.ID)
	}
	return exit.ID
}

// lowerForRange desugars `for v = low to high { ... }` into an explicit
// counter slot, iterating inclusively of high (§12 open-question decision).
// continue jumps to the increment block, not the header, so a loop that
// continues still advances -- unlike while, where re-checking the
// condition IS the next-iteration step.
func (b *builder) lowerForRange(x *ast.ForRangeStmt, cur int) int {
	varType := widerOf(exprType(x.Low), exprType(x.High))

	lowv, cur := b.lowerExpr(x.Low, cur)
	lowv = b.widenIfNeeded(lowv, exprType(x.Low), varType, cur)
	b.block(cur).Append(&il.StoreInst{Slot: x.Var, Value: lowv})

	header := b.fn.CreateBlock("")
	b.block(cur).SetTerminator(&il.BranchInst{Target: header.ID})
	b.fn.AddEdge(cur, header.ID)

	iv := b.fn.CreateRegister(varType, x.Var)
	header.Append(&il.LoadInst{ResultReg: iv.ID(), Slot: x.Var})

	highv, hcur := b.lowerExpr(x.High, header.ID)
	highv = b.widenIfNeeded(highv, exprType(x.High), varType, hcur)

	cond := b.fn.CreateRegister(types.Bool(), "")
	b.block(hcur).Append(&il.CompareInst{ResultReg: cond.ID(), Op: il.CmpLe, Left: iv.ID(), Right: highv})

	body := b.fn.CreateBlock("")
	incr := b.fn.CreateBlock("")
	exit := b.fn.CreateBlock("")
	b.block(hcur).SetTerminator(&il.CondBranchInst{Cond: cond.ID(), IfTrue: body.ID, IfFalse: exit.ID})
	b.fn.AddEdge(hcur, body.ID)
	b.fn.AddEdge(hcur, exit.ID)

	b.loops = append(b.loops, loopFrame{continueTarget: incr.ID, exit: exit.ID})
	bodyOpen := b.lowerStmt(x.Body, body.ID)
	b.loops = b.loops[:len(b.loops)-1]

	if bodyOpen != -1 {
		b.block(bodyOpen).SetTerminator(&il.BranchInst{Target: incr.ID})
		b.fn.AddEdge(bodyOpen, incr.ID)
	}

	curI := b.fn.CreateRegister(varType, "")
	incr.Append(&il.LoadInst{ResultReg: curI.ID(), Slot: x.Var})
	one := b.fn.CreateRegister(varType, "")
	incr.Append(&il.ConstInst{ResultReg: one.ID(), Value: 1})
	next := b.fn.CreateRegister(varType, "")
	incr.Append(&il.BinaryInst{ResultReg: next.ID(), Op: il.BinAdd, Left: curI.ID(), Right: one.ID()})
	incr.Append(&il.StoreInst{Slot: x.Var, Value: next.ID()})
	incr.SetTerminator(&il.BranchInst{Target: header.ID})
	b.fn.AddEdge(incr.ID, header.ID)

	return exit.ID
}

func (b *builder) lowerBreak(cur int) int {
	if n := len(b.loops); n > 0 {
		target := b.loops[n-1].exit
		b.block(cur).SetTerminator(&il.BranchInst{Target: target})
		b.fn.AddEdge(cur, target)
	}
	return -1
}

func (b *builder) lowerContinue(cur int) int {
	if n := len(b.loops); n > 0 {
		target := b.loops[n-1].continueTarget
		b.block(cur).SetTerminator(&il.BranchInst{Target: target})
		b.fn.AddEdge(cur, target)
	}
	return -1
}
