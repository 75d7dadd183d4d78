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
package ssa

import "blendsdk.dev/blend65c/internal/il"

// remapInstruction returns a copy of inst with every operand register
// substituted per subst (operands not present in subst pass through
// unchanged). Result registers are never substituted: every CreateRegister
// call already yields a unique id, so non-load/store definitions are
// single-assignment by construction.
func remapInstruction(inst il.Instruction, subst map[il.RegisterID]il.RegisterID) il.Instruction {
	switch x := inst.(type) {
	case *il.BinaryInst:
		y := *x
		y.Left = remapReg(x.Left, subst)
		y.Right = remapReg(x.Right, subst)
		return &y
	case *il.UnaryInst:
		y := *x
		y.Operand = remapReg(x.Operand, subst)
		return &y
	case *il.CompareInst:
		y := *x
		y.Left = remapReg(x.Left, subst)
		y.Right = remapReg(x.Right, subst)
		return &y
	case *il.CondBranchInst:
		y := *x
		y.Cond = remapReg(x.Cond, subst)
		return &y
	case *il.ReturnInst:
		y := *x
		if y.HasValue {
			y.Value = remapReg(x.Value, subst)
		}
		return &y
	case *il.CallInst:
		y := *x
		if len(x.Args) > 0 {
			args := make([]il.RegisterID, len(x.Args))
			for i, a := range x.Args {
				args[i] = remapReg(a, subst)
			}
			y.Args = args
		}
		return &y
	case *il.PeekInst:
		y := *x
		y.Addr = remapReg(x.Addr, subst)
		return &y
	case *il.PokeInst:
		y := *x
		y.Addr = remapReg(x.Addr, subst)
		y.Value = remapReg(x.Value, subst)
		return &y
	case *il.HardwareWriteInst:
		y := *x
		y.Value = remapReg(x.Value, subst)
		return &y
	case *il.ConvertInst:
		y := *x
		y.Operand = remapReg(x.Operand, subst)
		return &y
	case *il.PhiInst:
		y := *x
		ops := make([]il.PhiOperand, len(x.Operands))
		for i, o := range x.Operands {
			ops[i] = il.PhiOperand{Value: remapReg(o.Value, subst), PredecessorID: o.PredecessorID}
		}
		y.Operands = ops
		return &y
	default:
		// ConstInst, BranchInst, UnreachableInst, HardwareReadInst have no
		// register operands to substitute.
		return inst
	}
}
