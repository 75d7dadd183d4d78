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
package ilgen

import (
	"blendsdk.dev/blend65c/internal/ast"
	"blendsdk.dev/blend65c/internal/il"
	"blendsdk.dev/blend65c/internal/types"
)

// exprType extracts the type resolution pass assigned to e. Expr itself
// carries no Type method -- only the concretely embedded typed struct does --
// so every node is probed through an anonymous interface.
func exprType(e ast.Expr) types.Type {
	if t, ok := e.(interface{ Type() types.Type }); ok {
		if ty := t.Type(); ty != nil {
			return ty
		}
	}
	return types.Unknown()
}

// widerOf returns word if either operand is word, else a (byte wins ties).
func widerOf(a, b types.Type) types.Type {
	if a != nil && a.Kind() == types.KindWord {
		return types.Word()
	}
	if b != nil && b.Kind() == types.KindWord {
		return types.Word()
	}
	if a != nil {
		return a
	}
	return b
}

// widenIfNeeded inserts an explicit byte->word ConvertInst only when crossing
// that boundary; byte always widens silently, word never narrows implicitly.
func (b *builder) widenIfNeeded(v il.RegisterID, from, to types.Type, cur int) il.RegisterID {
	if from == nil || to == nil || from.Kind() != types.KindByte || to.Kind() != types.KindWord {
		return v
	}
	out := b.fn.CreateRegister(types.Word(), "")
	b.block(cur).Append(&il.ConvertInst{ResultReg: out.ID(), Operand: v, Widen: true})
	return out.ID()
}

// narrowIfNeeded inserts an explicit word->byte ConvertInst, used only where
// the source already holds an explicit narrowing request (a CastExpr, or a
// compound assignment storing back into a byte-typed target).
func (b *builder) narrowIfNeeded(v il.RegisterID, from, to types.Type, cur int) il.RegisterID {
	if from == nil || to == nil || from.Kind() != types.KindWord || to.Kind() != types.KindByte {
		return v
	}
	out := b.fn.CreateRegister(types.Byte(), "")
	b.block(cur).Append(&il.ConvertInst{ResultReg: out.ID(), Operand: v, Widen: false})
	return out.ID()
}

func toBinaryOp(op ast.BinaryOp) il.BinaryOp {
	switch op {
	case ast.OpAdd:
		return il.BinAdd
	case ast.OpSub:
		return il.BinSub
	case ast.OpMul:
		return il.BinMul
	case ast.OpDiv:
		return il.BinDiv
	case ast.OpMod:
		return il.BinMod
	case ast.OpAnd:
		return il.BinAnd
	case ast.OpOr:
		return il.BinOr
	case ast.OpXor:
		return il.BinXor
	case ast.OpShl:
		return il.BinShl
	case ast.OpShr:
		return il.BinShr
	default:
		return il.BinAdd
	}
}

func toCompareOp(op ast.BinaryOp) il.CompareOp {
	switch op {
	case ast.OpEq:
		return il.CmpEq
	case ast.OpNe:
		return il.CmpNe
	case ast.OpLt:
		return il.CmpLt
	case ast.OpLe:
		return il.CmpLe
	case ast.OpGt:
		return il.CmpGt
	case ast.OpGe:
		return il.CmpGe
	default:
		return il.CmpEq
	}
}

// identName extracts the storage slot name of an assignment target. Array
// and member targets need a memory-layout pass this lowering does not yet
// implement, so they fall back to a discard slot rather than panicking.
func identName(e ast.Expr) string {
	if id, ok := e.(*ast.IdentExpr); ok {
		return id.Name
	}
	return "$discard"
}

func calleeName(e ast.Expr) (string, bool) {
	if id, ok := e.(*ast.IdentExpr); ok {
		return id.Name, true
	}
	return "", false
}

// lowerExpr lowers e, appending any instructions needed into the open block
// chain starting at cur, and returns the register holding its value together
// with the (possibly different, if e itself branched) block now open.
func (b *builder) lowerExpr(e ast.Expr, cur int) (il.RegisterID, int) {
	switch x := e.(type) {
	case *ast.LiteralExpr:
		return b.lowerLiteral(x, cur)
	case *ast.IdentExpr:
		return b.lowerIdent(x, cur)
	case *ast.BinaryExpr:
		return b.lowerBinaryExpr(x, cur)
	case *ast.UnaryExpr:
		return b.lowerUnary(x, cur)
	case *ast.CallExpr:
		return b.lowerCall(x, cur)
	case *ast.TernaryExpr:
		return b.lowerTernary(x, cur)
	case *ast.CastExpr:
		return b.lowerCast(x, cur)
	default:
		// IndexExpr/MemberExpr need a memory-layout pass this lowering does
		// not yet implement; emit a placeholder rather than lose block shape.
		reg := b.fn.CreateRegister(exprType(e), "")
		b.block(cur).Append(&il.ConstInst{ResultReg: reg.ID(), Value: 0})
		return reg.ID(), cur
	}
}

func (b *builder) lowerLiteral(x *ast.LiteralExpr, cur int) (il.RegisterID, int) {
	switch x.Kind {
	case ast.LitBool:
		v := int64(0)
		if bv, ok := x.Value.(bool); ok && bv {
			v = 1
		}
		reg := b.fn.CreateRegister(types.Bool(), "")
		b.block(cur).Append(&il.ConstInst{ResultReg: reg.ID(), Value: v})
		return reg.ID(), cur
	case ast.LitWord:
		v, _ := x.Value.(int64)
		reg := b.fn.CreateRegister(types.Word(), "")
		b.block(cur).Append(&il.ConstInst{ResultReg: reg.ID(), Value: v})
		return reg.ID(), cur
	case ast.LitByte:
		v, _ := x.Value.(int64)
		reg := b.fn.CreateRegister(types.Byte(), "")
		b.block(cur).Append(&il.ConstInst{ResultReg: reg.ID(), Value: v})
		return reg.ID(), cur
	default:
		// String literals have no scalar IL form; they are only meaningful as
		// arguments to intrinsics/calls handled directly in lowerCall.
		reg := b.fn.CreateRegister(types.Unknown(), "")
		b.block(cur).Append(&il.ConstInst{ResultReg: reg.ID(), Value: 0})
		return reg.ID(), cur
	}
}

func (b *builder) lowerIdent(x *ast.IdentExpr, cur int) (il.RegisterID, int) {
	if v, ok := b.consts[x.Name]; ok {
		reg := b.fn.CreateRegister(exprType(x), "")
		b.block(cur).Append(&il.ConstInst{ResultReg: reg.ID(), Value: v})
		return reg.ID(), cur
	}
	reg := b.fn.CreateRegister(exprType(x), x.Name)
	b.block(cur).Append(&il.LoadInst{ResultReg: reg.ID(), Slot: x.Name})
	return reg.ID(), cur
}

func (b *builder) lowerBinaryExpr(x *ast.BinaryExpr, cur int) (il.RegisterID, int) {
	switch x.Op {
	case ast.OpLogicalAnd, ast.OpLogicalOr:
		return b.lowerLogical(x, cur)
	case ast.OpEq, ast.OpNe, ast.OpLt, ast.OpLe, ast.OpGt, ast.OpGe:
		return b.lowerCompare(x, cur)
	default:
		return b.lowerBinary(x, cur)
	}
}

func (b *builder) lowerBinary(x *ast.BinaryExpr, cur int) (il.RegisterID, int) {
	lv, cur := b.lowerExpr(x.Left, cur)
	rv, cur := b.lowerExpr(x.Right, cur)

	opType := widerOf(exprType(x.Left), exprType(x.Right))
	lv = b.widenIfNeeded(lv, exprType(x.Left), opType, cur)
	rv = b.widenIfNeeded(rv, exprType(x.Right), opType, cur)

	result := b.fn.CreateRegister(opType, "")
	b.block(cur).Append(&il.BinaryInst{ResultReg: result.ID(), Op: toBinaryOp(x.Op), Left: lv, Right: rv})
	return result.ID(), cur
}

func (b *builder) lowerCompare(x *ast.BinaryExpr, cur int) (il.RegisterID, int) {
	lv, cur := b.lowerExpr(x.Left, cur)
	rv, cur := b.lowerExpr(x.Right, cur)

	opType := widerOf(exprType(x.Left), exprType(x.Right))
	lv = b.widenIfNeeded(lv, exprType(x.Left), opType, cur)
	rv = b.widenIfNeeded(rv, exprType(x.Right), opType, cur)

	result := b.fn.CreateRegister(types.Bool(), "")
	b.block(cur).Append(&il.CompareInst{ResultReg: result.ID(), Op: toCompareOp(x.Op), Left: lv, Right: rv})
	return result.ID(), cur
}

// lowerLogical lowers && and || with short-circuit control flow: the right
// operand is only evaluated on the branch where it can affect the result.
// The result itself is threaded through a synthetic slot so the existing
// mem2reg pass inserts the join phi -- ilgen never builds a phi directly.
func (b *builder) lowerLogical(x *ast.BinaryExpr, cur int) (il.RegisterID, int) {
	lv, cur := b.lowerExpr(x.Left, cur)

	rhsBlock := b.fn.CreateBlock("")
	join := b.fn.CreateBlock("")
	slot := b.newTemp()

	b.block(cur).Append(&il.StoreInst{Slot: slot, Value: lv})
	if x.Op == ast.OpLogicalAnd {
		b.block(cur).SetTerminator(&il.CondBranchInst{Cond: lv, IfTrue: rhsBlock.ID, IfFalse: join.ID})
	} else {
		b.block(cur).SetTerminator(&il.CondBranchInst{Cond: lv, IfTrue: join.ID, IfFalse: rhsBlock.ID})
	}
	b.fn.AddEdge(cur, rhsBlock.ID)
	b.fn.AddEdge(cur, join.ID)

	rv, rcur := b.lowerExpr(x.Right, rhsBlock.ID)
	b.block(rcur).Append(&il.StoreInst{Slot: slot, Value: rv})
	b.block(rcur).SetTerminator(&il.BranchInst{Target: join.ID})
	b.fn.AddEdge(rcur, join.ID)

	result := b.fn.CreateRegister(types.Bool(), "")
	join.Append(&il.LoadInst{ResultReg: result.ID(), Slot: slot})
	return result.ID(), join.ID
}

func (b *builder) lowerUnary(x *ast.UnaryExpr, cur int) (il.RegisterID, int) {
	v, cur := b.lowerExpr(x.Operand, cur)

	var op il.UnaryOp
	switch x.Op {
	case ast.OpNeg:
		op = il.UnaryNeg
	case ast.OpNot:
		op = il.UnaryNot
	case ast.OpBitNot:
		op = il.UnaryBitNot
	default:
		// Address-of/dereference need pointer support this lowering does not
		// yet implement; pass the operand through unchanged.
		return v, cur
	}

	result := b.fn.CreateRegister(exprType(x), "")
	b.block(cur).Append(&il.UnaryInst{ResultReg: result.ID(), Op: op, Operand: v})
	return result.ID(), cur
}

// lowerCall special-cases the four hardware-access intrinsics (spec §5); any
// other callee lowers to a plain IL call.
func (b *builder) lowerCall(x *ast.CallExpr, cur int) (il.RegisterID, int) {
	if name, ok := calleeName(x.Callee); ok {
		switch name {
		case "peek", "peekw":
			addr, c := b.lowerExpr(x.Args[0], cur)
			wide := name == "peekw"
			ty := types.Byte()
			if wide {
				ty = types.Word()
			}
			result := b.fn.CreateRegister(ty, "")
			b.block(c).Append(&il.PeekInst{ResultReg: result.ID(), Addr: addr, Wide: wide})
			return result.ID(), c
		case "poke", "pokew":
			addr, c := b.lowerExpr(x.Args[0], cur)
			val, c2 := b.lowerExpr(x.Args[1], c)
			b.block(c2).Append(&il.PokeInst{Addr: addr, Value: val, Wide: name == "pokew"})
			result := b.fn.CreateRegister(types.Void(), "")
			b.block(c2).Append(&il.ConstInst{ResultReg: result.ID(), Value: 0})
			return result.ID(), c2
		}
	}

	name, _ := calleeName(x.Callee)
	args := make([]il.RegisterID, len(x.Args))
	c := cur
	for i, a := range x.Args {
		args[i], c = b.lowerExpr(a, c)
	}

	ty := exprType(x)
	hasResult := ty.Kind() != types.KindVoid
	result := b.fn.CreateRegister(ty, "")
	b.block(c).Append(&il.CallInst{Callee: name, Args: args, ResultReg: result.ID(), HasResult: hasResult})
	return result.ID(), c
}

// lowerTernary mirrors lowerLogical's synthetic-slot pattern for "cond ?
// then : else".
func (b *builder) lowerTernary(x *ast.TernaryExpr, cur int) (il.RegisterID, int) {
	cv, cur := b.lowerExpr(x.Cond, cur)
	ty := exprType(x)

	thenBlock := b.fn.CreateBlock("")
	elseBlock := b.fn.CreateBlock("")
	join := b.fn.CreateBlock("")
	slot := b.newTemp()

	b.block(cur).SetTerminator(&il.CondBranchInst{Cond: cv, IfTrue: thenBlock.ID, IfFalse: elseBlock.ID})
	b.fn.AddEdge(cur, thenBlock.ID)
	b.fn.AddEdge(cur, elseBlock.ID)

	tv, tcur := b.lowerExpr(x.Then, thenBlock.ID)
	tv = b.widenIfNeeded(tv, exprType(x.Then), ty, tcur)
	b.block(tcur).Append(&il.StoreInst{Slot: slot, Value: tv})
	b.block(tcur).SetTerminator(&il.BranchInst{Target: join.ID})
	b.fn.AddEdge(tcur, join.ID)

	ev, ecur := b.lowerExpr(x.Else, elseBlock.ID)
	ev = b.widenIfNeeded(ev, exprType(x.Else), ty, ecur)
	b.block(ecur).Append(&il.StoreInst{Slot: slot, Value: ev})
	b.block(ecur).SetTerminator(&il.BranchInst{Target: join.ID})
	b.fn.AddEdge(ecur, join.ID)

	result := b.fn.CreateRegister(ty, "")
	join.Append(&il.LoadInst{ResultReg: result.ID(), Slot: slot})
	return result.ID(), join.ID
}

func (b *builder) lowerCast(x *ast.CastExpr, cur int) (il.RegisterID, int) {
	v, cur := b.lowerExpr(x.Value, cur)
	from := exprType(x.Value)
	to := ResolveTypeExpr(x.Target)

	if from != nil && from.Kind() == types.KindByte && to.Kind() == types.KindWord {
		return b.widenIfNeeded(v, from, to, cur), cur
	}
	if from != nil && from.Kind() == types.KindWord && to.Kind() == types.KindByte {
		return b.narrowIfNeeded(v, from, to, cur), cur
	}
	return v, cur
}
