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

import (
	"blendsdk.dev/blend65c/internal/diag"
	"blendsdk.dev/blend65c/internal/il"
)

type definition struct {
	blockID int
	index   int // position within the block's instruction list
	inst    il.Instruction
}

// spanOf returns inst's source location, or the zero Span if it has none
// (synthesized instructions such as inserted phis carry no location).
func spanOf(inst il.Instruction) diag.Span {
	if loc := inst.Location(); loc != nil {
		return *loc
	}
	return diag.Span{}
}

// Verify walks fn once and checks the SSA invariants of spec §4.H: single
// assignment, use-before-def, same-block use ordering, cross-block
// dominance, and phi well-formedness. Parameter registers count as defined
// at the start of the entry block. It never mutates fn.
func Verify(fn *il.Function) []diag.Diagnostic {
	var diags []diag.Diagnostic
	dom := BuildDomTree(fn)

	defs := make(map[il.RegisterID]definition)

	// Parameter registers are defined on entry, before any instruction:
	// ilgen allocates them first, one per parameter in order, with no
	// defining instruction.
	regs := fn.Registers()
	for i, p := range fn.Params {
		if i < len(regs) && regs[i].Name() == p.Name {
			defs[regs[i].ID()] = definition{blockID: fn.Entry().ID, index: -1}
		}
	}

	for _, blk := range fn.Blocks() {
		for idx, inst := range blk.Instructions() {
			result, ok := inst.Result()
			if !ok {
				continue
			}
			if existing, seen := defs[result]; seen {
				diags = append(diags, diag.Errorf(diag.MultipleDefinitions, spanOf(inst),
					"register %%%d defined in block%d and again in block%d", result, existing.blockID, blk.ID))
				continue
			}
			defs[result] = definition{blockID: blk.ID, index: idx, inst: inst}
		}
	}

	for _, blk := range fn.Blocks() {
		diags = append(diags, verifyPhis(fn, blk)...)

		for idx, inst := range blk.Instructions() {
			if phi, ok := inst.(*il.PhiInst); ok {
				for _, op := range phi.Operands {
					d, seen := defs[op.Value]
					if !seen {
						diags = append(diags, diag.Errorf(diag.UseBeforeDefinition, spanOf(phi),
							"block%d: phi operand %%%d from predecessor block%d has no definition", blk.ID, op.Value, op.PredecessorID))
						continue
					}
					if !dom.Dominates(d.blockID, op.PredecessorID) {
						diags = append(diags, diag.Errorf(diag.DominanceViolation, spanOf(phi),
							"block%d: phi operand %%%d's definition in block%d does not dominate predecessor block%d", blk.ID, op.Value, d.blockID, op.PredecessorID))
					}
				}
				continue
			}

			for _, used := range inst.UsedRegisters() {
				d, seen := defs[used]
				if !seen {
					diags = append(diags, diag.Errorf(diag.UseBeforeDefinition, spanOf(inst),
						"block%d: use of %%%d has no definition", blk.ID, used))
					continue
				}
				if d.blockID == blk.ID {
					if d.index >= idx {
						diags = append(diags, diag.Errorf(diag.UseBeforeDefinition, spanOf(inst),
							"block%d: use of %%%d at instruction %d precedes its definition at instruction %d", blk.ID, used, idx, d.index))
					}
					continue
				}
				if !dom.Dominates(d.blockID, blk.ID) {
					diags = append(diags, diag.Errorf(diag.DominanceViolation, spanOf(inst),
						"block%d: use of %%%d defined in block%d, which does not dominate this block", blk.ID, used, d.blockID))
				}
			}
		}
	}

	return diags
}

// verifyPhis checks phi position (contiguous block-head prefix, never in
// the entry block), operand count and predecessor membership.
func verifyPhis(fn *il.Function, blk *il.Block) []diag.Diagnostic {
	var diags []diag.Diagnostic
	phis := blk.Phis()

	if blk.ID == fn.Entry().ID && len(phis) > 0 {
		diags = append(diags, diag.Errorf(diag.PhiInEntryBlock, spanOf(phis[0]), "block%d: phi instruction in entry block", blk.ID))
	}

	seenNonPhi := false
	for _, inst := range blk.Instructions() {
		if _, ok := inst.(*il.PhiInst); ok {
			if seenNonPhi {
				diags = append(diags, diag.Errorf(diag.PhiNotAtBlockStart, spanOf(inst),
					"block%d: phi instruction does not appear at block start", blk.ID))
			}
			continue
		}
		seenNonPhi = true
	}

	preds := blk.Preds()
	for _, phi := range phis {
		if len(phi.Operands) != len(preds) {
			diags = append(diags, diag.Errorf(diag.PhiOperandCountMismatch, spanOf(phi),
				"block%d: phi %%%d has %d operands, expected %d (one per predecessor)", blk.ID, phi.ResultReg, len(phi.Operands), len(preds)))
		}
		seenOperand := make(map[int]bool)
		for _, op := range phi.Operands {
			if !hasPred(preds, op.PredecessorID) {
				diags = append(diags, diag.Errorf(diag.PhiInvalidPredecessor, spanOf(phi),
					"block%d: phi %%%d operand names block%d, which is not a predecessor", blk.ID, phi.ResultReg, op.PredecessorID))
				continue
			}
			if seenOperand[op.PredecessorID] {
				diags = append(diags, diag.Errorf(diag.PhiMissingOperand, spanOf(phi),
					"block%d: phi %%%d has more than one operand for predecessor block%d", blk.ID, phi.ResultReg, op.PredecessorID))
			}
			seenOperand[op.PredecessorID] = true
		}
		for _, p := range preds {
			if !seenOperand[p] {
				diags = append(diags, diag.Errorf(diag.PhiMissingOperand, spanOf(phi),
					"block%d: phi %%%d is missing an operand for predecessor block%d", blk.ID, phi.ResultReg, p))
			}
		}
	}
	return diags
}

func hasPred(preds []int, id int) bool {
	for _, p := range preds {
		if p == id {
			return true
		}
	}
	return false
}
