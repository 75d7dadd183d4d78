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
package pipeline

import (
	"fmt"

	"blendsdk.dev/blend65c/internal/asmil"
	"blendsdk.dev/blend65c/internal/il"
	"blendsdk.dev/blend65c/internal/types"
)

// codegen lowers one il.Module to an asmil.Builder. It is a deliberately
// narrow code generator: byte-width scalar code, globals and hardware
// registers all lower to real 6502 instructions, but word-width arithmetic,
// calls, unary operators and phis are left as explicit Raw stubs. A
// concrete assembler's calling convention and register allocation are
// outside this generator's scope -- it exists to exercise asmil, not to
// replace a production back-end.
type codegen struct {
	b *asmil.Builder

	globalAddr map[string]uint16
	regCursor  uint16

	fn       *il.Function
	regAddr  map[il.RegisterID]uint16
	regType  map[il.RegisterID]types.Type
	labelNum int
}

// lowerModuleToAsm allocates storage for every global and per-function
// register, then emits one label plus instruction sequence per function in
// module declaration order.
func lowerModuleToAsm(mod *il.Module) *asmil.Builder {
	cg := &codegen{
		b:          asmil.NewBuilder(),
		globalAddr: make(map[string]uint16),
	}
	cg.allocateGlobals(mod)
	for _, fn := range mod.Functions() {
		cg.lowerFunction(fn)
	}
	return cg.b
}

// zero-page slots 0x00-0x01 are left alone (commonly reserved by runtime
// conventions for an indirect-addressing pointer); allocation starts just
// past them.
const zeroPageBase = 0x02

// ramBase is an arbitrary start address for Ram-class globals. No linker
// exists at this layer, so addresses are assigned sequentially rather than
// by any real memory map.
const ramBase = 0xC000

func (cg *codegen) allocateGlobals(mod *il.Module) {
	zpCursor := uint16(zeroPageBase)
	ramCursor := uint16(ramBase)

	for _, g := range mod.Globals {
		size := g.Type.Size()
		if size == 0 {
			size = 1
		}
		switch g.Class {
		case il.Map:
			cg.globalAddr[g.Name] = g.Address
		case il.ZeroPage:
			if g.Address != 0 {
				cg.globalAddr[g.Name] = g.Address
			} else {
				cg.globalAddr[g.Name] = zpCursor
				zpCursor += uint16(size)
			}
		case il.Ram:
			cg.globalAddr[g.Name] = ramCursor
			ramCursor += uint16(size)
		case il.ImmediateConstant:
			// Folded directly into ConstInst at every use site by ilgen;
			// never loaded through a named slot, so it needs no address.
		}
	}
	cg.regCursor = zpCursor
}

func (cg *codegen) lowerFunction(fn *il.Function) {
	cg.fn = fn
	cg.regAddr = make(map[il.RegisterID]uint16, len(fn.Registers()))
	cg.regType = make(map[il.RegisterID]types.Type, len(fn.Registers()))

	for _, r := range fn.Registers() {
		size := r.Type().Size()
		if size == 0 {
			size = 1
		}
		cg.regAddr[r.ID()] = cg.regCursor
		cg.regType[r.ID()] = r.Type()
		cg.regCursor += uint16(size)
	}

	cg.b.EmitLabel(fn.Name, asmil.CodeLabel, true)
	for _, blk := range fn.Blocks() {
		if blk.ID != 0 {
			cg.b.EmitLabel(cg.blockLabel(blk.ID), asmil.CodeLabel, false)
		}
		for _, inst := range blk.Instructions() {
			cg.lowerInst(inst)
		}
	}
}

func (cg *codegen) blockLabel(id int) string {
	return fmt.Sprintf("%s_block%d", cg.fn.Name, id)
}

func (cg *codegen) uniqueLabel(prefix string) string {
	cg.labelNum++
	return fmt.Sprintf("%s_%s%d", cg.fn.Name, prefix, cg.labelNum)
}

func isWord(t types.Type) bool { return t != nil && t.Kind() == types.KindWord }

func (cg *codegen) loadRegToA(reg il.RegisterID) {
	cg.b.LDA(asmil.AddrZeroPage, asmil.Addr(cg.regAddr[reg]))
}

func (cg *codegen) storeReg(reg il.RegisterID) {
	cg.b.STA(asmil.AddrZeroPage, asmil.Addr(cg.regAddr[reg]))
}

func (cg *codegen) stub(inst il.Instruction) {
	cg.b.Raw(fmt.Sprintf("; not lowered: %s", inst.String()))
}

func (cg *codegen) lowerInst(inst il.Instruction) {
	switch x := inst.(type) {
	case *il.ConstInst:
		if isWord(cg.regType[x.ResultReg]) {
			cg.stub(inst)
			return
		}
		cg.b.LDA(asmil.AddrImmediate, asmil.Imm(uint8(x.Value)))
		cg.storeReg(x.ResultReg)

	case *il.LoadInst:
		if isWord(cg.regType[x.ResultReg]) {
			cg.stub(inst)
			return
		}
		addr, ok := cg.globalAddr[x.Slot]
		if !ok {
			cg.stub(inst)
			return
		}
		cg.b.LDA(asmil.AddrAbsolute, asmil.Addr(addr))
		cg.storeReg(x.ResultReg)

	case *il.StoreInst:
		if isWord(cg.regType[x.Value]) {
			cg.stub(inst)
			return
		}
		addr, ok := cg.globalAddr[x.Slot]
		if !ok {
			cg.stub(inst)
			return
		}
		cg.loadRegToA(x.Value)
		cg.b.STA(asmil.AddrAbsolute, asmil.Addr(addr))

	case *il.BinaryInst:
		cg.lowerBinary(x)

	case *il.CompareInst:
		cg.lowerCompare(x)

	case *il.BranchInst:
		cg.b.JMP(asmil.Sym(cg.blockLabel(x.Target)))

	case *il.CondBranchInst:
		cg.loadRegToA(x.Cond)
		cg.b.CMP(asmil.AddrImmediate, asmil.Imm(0))
		cg.b.BNE(cg.blockLabel(x.IfTrue))
		cg.b.JMP(asmil.Sym(cg.blockLabel(x.IfFalse)))

	case *il.ReturnInst:
		if x.HasValue && !isWord(cg.regType[x.Value]) {
			cg.loadRegToA(x.Value)
		} else if x.HasValue {
			cg.stub(inst)
		}
		cg.b.RTS()

	case *il.UnreachableInst:
		cg.b.BRK()

	case *il.ConvertInst:
		cg.lowerConvert(x)

	case *il.HardwareReadInst:
		cg.b.LDA(asmil.AddrAbsolute, asmil.Addr(x.Address))
		cg.storeReg(x.ResultReg)

	case *il.HardwareWriteInst:
		cg.loadRegToA(x.Value)
		cg.b.STA(asmil.AddrAbsolute, asmil.Addr(x.Address))

	default:
		// CallInst, UnaryInst, PhiInst, PeekInst, PokeInst: calling
		// convention, register allocation and intrinsic addressing are a
		// concrete assembler back-end's job, not this generator's.
		cg.stub(inst)
	}
}

func (cg *codegen) lowerBinary(x *il.BinaryInst) {
	if isWord(cg.regType[x.ResultReg]) {
		cg.stub(x)
		return
	}
	switch x.Op {
	case il.BinAdd:
		cg.loadRegToA(x.Left)
		cg.b.CLC()
		cg.b.ADC(asmil.AddrZeroPage, asmil.Addr(cg.regAddr[x.Right]))
	case il.BinSub:
		cg.loadRegToA(x.Left)
		cg.b.SEC()
		cg.b.SBC(asmil.AddrZeroPage, asmil.Addr(cg.regAddr[x.Right]))
	case il.BinAnd:
		cg.loadRegToA(x.Left)
		cg.b.AND(asmil.AddrZeroPage, asmil.Addr(cg.regAddr[x.Right]))
	case il.BinOr:
		cg.loadRegToA(x.Left)
		cg.b.ORA(asmil.AddrZeroPage, asmil.Addr(cg.regAddr[x.Right]))
	case il.BinXor:
		cg.loadRegToA(x.Left)
		cg.b.EOR(asmil.AddrZeroPage, asmil.Addr(cg.regAddr[x.Right]))
	default:
		// Mul, Div, Mod, Shl, Shr have no single native NMOS opcode; a real
		// back-end expands them into a shift/add loop or a library call.
		cg.stub(x)
		return
	}
	cg.storeReg(x.ResultReg)
}

func (cg *codegen) lowerCompare(x *il.CompareInst) {
	if isWord(cg.regType[x.Left]) || isWord(cg.regType[x.Right]) {
		cg.stub(x)
		return
	}
	cg.loadRegToA(x.Left)
	cg.b.CMP(asmil.AddrZeroPage, asmil.Addr(cg.regAddr[x.Right]))

	trueLabel := cg.uniqueLabel("cmp_true")
	doneLabel := cg.uniqueLabel("cmp_done")
	cg.emitCompareBranch(x.Op, trueLabel)
	cg.b.LDA(asmil.AddrImmediate, asmil.Imm(0))
	cg.b.JMP(asmil.Sym(doneLabel))
	cg.b.EmitLabel(trueLabel, asmil.CodeLabel, false)
	cg.b.LDA(asmil.AddrImmediate, asmil.Imm(1))
	cg.b.EmitLabel(doneLabel, asmil.CodeLabel, false)
	cg.storeReg(x.ResultReg)
}

// emitCompareBranch emits the branch(es), following a CMP already issued
// against unsigned operands, that jump to trueLabel when op holds and
// otherwise fall through.
func (cg *codegen) emitCompareBranch(op il.CompareOp, trueLabel string) {
	switch op {
	case il.CmpEq:
		cg.b.BEQ(trueLabel)
	case il.CmpNe:
		cg.b.BNE(trueLabel)
	case il.CmpLt:
		cg.b.BCC(trueLabel)
	case il.CmpGe:
		cg.b.BCS(trueLabel)
	case il.CmpLe:
		cg.b.BCC(trueLabel)
		cg.b.BEQ(trueLabel)
	case il.CmpGt:
		falseLabel := cg.uniqueLabel("cmp_false")
		cg.b.BCC(falseLabel)
		cg.b.BEQ(falseLabel)
		cg.b.JMP(asmil.Sym(trueLabel))
		cg.b.EmitLabel(falseLabel, asmil.CodeLabel, false)
	}
}

func (cg *codegen) lowerConvert(x *il.ConvertInst) {
	if x.Widen {
		addr := cg.regAddr[x.ResultReg]
		cg.loadRegToA(x.Operand)
		cg.b.STA(asmil.AddrZeroPage, asmil.Addr(addr))
		cg.b.LDA(asmil.AddrImmediate, asmil.Imm(0))
		cg.b.STA(asmil.AddrZeroPage, asmil.Addr(addr+1))
		return
	}
	// Narrowing: take the operand's low byte, dropping the high byte.
	cg.b.LDA(asmil.AddrZeroPage, asmil.Addr(cg.regAddr[x.Operand]))
	cg.storeReg(x.ResultReg)
}
