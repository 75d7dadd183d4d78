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
package optimizer

import (
	"blendsdk.dev/blend65c/internal/il"
	"blendsdk.dev/blend65c/internal/types"
)

// constAddrs collects every register defined by a ConstInst in fn, mapped to
// its folded value. ilgen never reuses a register across two definitions,
// so a single forward sweep over every block -- in any order, before or
// after SSA construction -- is enough; there is no chain of dependent
// consts to resolve iteratively.
func constAddrs(fn *il.Function) map[il.RegisterID]int64 {
	out := make(map[il.RegisterID]int64)
	for _, b := range fn.Blocks() {
		for _, inst := range b.Instructions() {
			if c, ok := inst.(*il.ConstInst); ok {
				out[c.ResultReg] = c.Value
			}
		}
	}
	return out
}

// constAddr resolves reg to a 16-bit absolute address, if it was defined by
// a ConstInst whose value fits the address space.
func constAddr(reg il.RegisterID, consts map[il.RegisterID]int64) (uint16, bool) {
	v, ok := consts[reg]
	if !ok || v < 0 || v > 0xFFFF {
		return 0, false
	}
	return uint16(v), true
}

// lowerIntrinsics rewrites every Peek/Poke whose address resolves to a
// compile-time constant into HardwareRead/HardwareWrite instructions,
// splitting the word-width (peekw/pokew) forms into two little-endian byte
// accesses at addr and addr+1. An intrinsic whose address is not a known
// constant -- or whose wide access would spill past 0xFFFF -- is left
// untouched; spec §5 leaves that case to the intrinsic's general calling
// convention.
func lowerIntrinsics(fn *il.Function) int {
	consts := constAddrs(fn)
	lowered := 0

	for _, b := range fn.Blocks() {
		insts := b.Instructions()
		out := make([]il.Instruction, 0, len(insts))
		for _, inst := range insts {
			switch p := inst.(type) {
			case *il.PeekInst:
				if addr, ok := constAddr(p.Addr, consts); ok && fitsWide(addr, p.Wide) {
					out = appendPeekLowering(fn, out, p, addr)
					lowered++
					continue
				}
			case *il.PokeInst:
				if addr, ok := constAddr(p.Addr, consts); ok && fitsWide(addr, p.Wide) {
					out = appendPokeLowering(fn, out, p, addr)
					lowered++
					continue
				}
			}
			out = append(out, inst)
		}
		b.SetInstructions(out)
	}
	return lowered
}

// fitsWide reports whether a (possibly two-byte) hardware access starting at
// addr stays within the 16-bit address space.
func fitsWide(addr uint16, wide bool) bool {
	return !wide || addr != 0xFFFF
}

func appendPeekLowering(fn *il.Function, out []il.Instruction, p *il.PeekInst, addr uint16) []il.Instruction {
	if !p.Wide {
		return append(out, &il.HardwareReadInst{ResultReg: p.ResultReg, Address: addr})
	}

	lowReg := fn.CreateRegister(types.Byte(), "")
	out = append(out, &il.HardwareReadInst{ResultReg: lowReg.ID(), Address: addr})

	highReg := fn.CreateRegister(types.Byte(), "")
	out = append(out, &il.HardwareReadInst{ResultReg: highReg.ID(), Address: addr + 1})

	lowWide := fn.CreateRegister(types.Word(), "")
	out = append(out, &il.ConvertInst{ResultReg: lowWide.ID(), Operand: lowReg.ID(), Widen: true})

	highWide := fn.CreateRegister(types.Word(), "")
	out = append(out, &il.ConvertInst{ResultReg: highWide.ID(), Operand: highReg.ID(), Widen: true})

	shiftAmount := fn.CreateRegister(types.Byte(), "")
	out = append(out, &il.ConstInst{ResultReg: shiftAmount.ID(), Value: 8})

	shifted := fn.CreateRegister(types.Word(), "")
	out = append(out, &il.BinaryInst{ResultReg: shifted.ID(), Op: il.BinShl, Left: highWide.ID(), Right: shiftAmount.ID()})

	// Reuse the peek's own result register for the final combine, so every
	// use downstream of the original PeekInst keeps resolving correctly.
	out = append(out, &il.BinaryInst{ResultReg: p.ResultReg, Op: il.BinOr, Left: shifted.ID(), Right: lowWide.ID()})
	return out
}

func appendPokeLowering(fn *il.Function, out []il.Instruction, p *il.PokeInst, addr uint16) []il.Instruction {
	if !p.Wide {
		return append(out, &il.HardwareWriteInst{Address: addr, Value: p.Value})
	}

	mask := fn.CreateRegister(types.Word(), "")
	out = append(out, &il.ConstInst{ResultReg: mask.ID(), Value: 0xFF})

	maskedLow := fn.CreateRegister(types.Word(), "")
	out = append(out, &il.BinaryInst{ResultReg: maskedLow.ID(), Op: il.BinAnd, Left: p.Value, Right: mask.ID()})

	lowByte := fn.CreateRegister(types.Byte(), "")
	out = append(out, &il.ConvertInst{ResultReg: lowByte.ID(), Operand: maskedLow.ID(), Widen: false})

	shiftAmount := fn.CreateRegister(types.Byte(), "")
	out = append(out, &il.ConstInst{ResultReg: shiftAmount.ID(), Value: 8})

	shifted := fn.CreateRegister(types.Word(), "")
	out = append(out, &il.BinaryInst{ResultReg: shifted.ID(), Op: il.BinShr, Left: p.Value, Right: shiftAmount.ID()})

	highByte := fn.CreateRegister(types.Byte(), "")
	out = append(out, &il.ConvertInst{ResultReg: highByte.ID(), Operand: shifted.ID(), Widen: false})

	out = append(out, &il.HardwareWriteInst{Address: addr, Value: lowByte.ID()})
	out = append(out, &il.HardwareWriteInst{Address: addr + 1, Value: highByte.ID()})
	return out
}
