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

import "blendsdk.dev/blend65c/internal/il"

// eliminateDeadConsts removes every ConstInst whose result register is never
// read by another instruction. A ConstInst has no operands of its own, so a
// single used-registers sweep is sufficient -- removing one can never make
// another newly dead the way it would for a general expression.
//
// This exists chiefly to clean up after lowerIntrinsics: an address constant
// folded into a HardwareRead/HardwareWriteInst's immediate Address field is
// no longer referenced by register, and would otherwise sit in the block as
// inert dead code.
func eliminateDeadConsts(fn *il.Function) int {
	used := make(map[il.RegisterID]bool)
	for _, b := range fn.Blocks() {
		for _, inst := range b.Instructions() {
			for _, r := range inst.UsedRegisters() {
				used[r] = true
			}
		}
	}

	removed := 0
	for _, b := range fn.Blocks() {
		insts := b.Instructions()
		out := make([]il.Instruction, 0, len(insts))
		for _, inst := range insts {
			if c, ok := inst.(*il.ConstInst); ok && !used[c.ResultReg] {
				removed++
				continue
			}
			out = append(out, inst)
		}
		b.SetInstructions(out)
	}
	return removed
}
