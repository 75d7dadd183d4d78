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
package il

import "fmt"

// Block is a single basic block: an ordered list of instructions ending in
// exactly one terminator once finalized. Predecessor/successor lists are
// kept mirrored by the owning Function on every edge insertion/removal.
type Block struct {
	ID    int
	Label string

	instructions []Instruction
	preds, succs []int
}

// Instructions returns this block's instructions in order, including the
// terminator if one has been set.
func (b *Block) Instructions() []Instruction { return b.instructions }

// Preds returns the ids of blocks with an edge into this one.
func (b *Block) Preds() []int { return b.preds }

// Succs returns the ids of blocks this one has an edge into.
func (b *Block) Succs() []int { return b.succs }

// Append adds an instruction to the end of the block.
func (b *Block) Append(inst Instruction) {
	b.instructions = append(b.instructions, inst)
}

// InsertAt inserts an instruction before the instruction currently at index.
func (b *Block) InsertAt(index int, inst Instruction) {
	b.instructions = append(b.instructions, nil)
	copy(b.instructions[index+1:], b.instructions[index:])
	b.instructions[index] = inst
}

// RemoveAt removes the instruction at index.
func (b *Block) RemoveAt(index int) {
	b.instructions = append(b.instructions[:index], b.instructions[index+1:]...)
}

// ReplaceAt swaps the instruction at index for inst.
func (b *Block) ReplaceAt(index int, inst Instruction) {
	b.instructions[index] = inst
}

// SetInstructions replaces the block's entire instruction list, for passes
// (SSA construction, the optimizer) that rebuild a block wholesale rather
// than editing it instruction-by-instruction.
func (b *Block) SetInstructions(insts []Instruction) {
	b.instructions = insts
}

// Terminator returns the block's last instruction if it is a recognized
// terminator opcode, or nil if the block has not been finalized yet.
func (b *Block) Terminator() Instruction {
	if len(b.instructions) == 0 {
		return nil
	}
	last := b.instructions[len(b.instructions)-1]
	switch last.Opcode() {
	case OpBranch, OpCondBranch, OpReturn, OpUnreachable:
		return last
	default:
		return nil
	}
}

// SetTerminator appends inst as the block's terminator. It panics if the
// block already has one, mirroring the "exactly one terminator" invariant
// of spec §3.7/§4.G -- callers are expected to check Terminator() first in
// contexts where a pre-existing terminator is a legitimate possibility.
func (b *Block) SetTerminator(inst Instruction) {
	if b.Terminator() != nil {
		panic(fmt.Sprintf("block%d already has a terminator", b.ID))
	}
	b.instructions = append(b.instructions, inst)
}

// Phis returns the contiguous prefix of phi instructions at the head of the
// block (possibly empty).
func (b *Block) Phis() []*PhiInst {
	var out []*PhiInst
	for _, inst := range b.instructions {
		phi, ok := inst.(*PhiInst)
		if !ok {
			break
		}
		out = append(out, phi)
	}
	return out
}

func hasBlockEdge(ids []int, target int) bool {
	for _, id := range ids {
		if id == target {
			return true
		}
	}
	return false
}

func removeBlockEdge(ids []int, target int) []int {
	out := ids[:0]
	for _, id := range ids {
		if id != target {
			out = append(out, id)
		}
	}
	return out
}
