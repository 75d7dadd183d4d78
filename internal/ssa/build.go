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
	"blendsdk.dev/blend65c/internal/il"
	"blendsdk.dev/blend65c/internal/types"
)

// Stats records the collect_ssa_stats counters of spec §6.
type Stats struct {
	PhisInserted           int
	RegistersRenamed       int
	DominanceChecksPerformed int
}

// Builder constructs SSA form for a function: named-slot load/store pairs
// (the pre-SSA representation of a mutable local) are promoted to direct
// register use, with phis inserted at the iterated dominance frontier of
// each slot's defining blocks (Cytron et al.) and resolved by a preorder
// dominator-tree renaming walk.
type Builder struct {
	stats Stats
}

// NewBuilder constructs an SSA builder.
func NewBuilder() *Builder { return &Builder{} }

// Stats returns the statistics accumulated by the most recent Build call.
func (b *Builder) Stats() Stats { return b.stats }

// Build promotes every local-variable slot of fn to SSA form in place and
// returns the accumulated statistics.
func (b *Builder) Build(fn *il.Function) Stats {
	b.stats = Stats{}

	dom := BuildDomTree(fn)
	df := dom.DominanceFrontier()

	slots := collectSlots(fn)
	phis := make(map[int]map[string]*il.PhiInst) // blockID -> slot -> phi

	for slot, defsites := range slots {
		typ := slotType(fn, slot)
		hasPhi := make(map[int]bool)
		worklist := append([]int(nil), defsites...)
		everOnWorklist := make(map[int]bool)
		for _, d := range defsites {
			everOnWorklist[d] = true
		}
		for len(worklist) > 0 {
			n := worklist[len(worklist)-1]
			worklist = worklist[:len(worklist)-1]
			for _, d := range df[n] {
				if hasPhi[d] {
					continue
				}
				hasPhi[d] = true
				b.stats.PhisInserted++
				reg := fn.CreateRegister(typ, slot)
				phi := &il.PhiInst{ResultReg: reg.ID()}
				fn.Block(d).InsertAt(0, phi)
				if phis[d] == nil {
					phis[d] = make(map[string]*il.PhiInst)
				}
				phis[d][slot] = phi
				if !everOnWorklist[d] {
					everOnWorklist[d] = true
					worklist = append(worklist, d)
				}
			}
		}
	}

	stacks := make(map[string][]il.RegisterID)
	b.rename(fn, dom, dom.Root(), phis, stacks)

	b.stats.DominanceChecksPerformed = dom.ChecksPerformed()
	return b.stats
}

// collectSlots finds every local slot name referenced by a Load/StoreInst in
// fn, mapped to the set of block ids containing a StoreInst for that slot.
func collectSlots(fn *il.Function) map[string][]int {
	defsites := make(map[string][]int)
	seen := make(map[string]map[int]bool)
	for _, blk := range fn.Blocks() {
		for _, inst := range blk.Instructions() {
			st, ok := inst.(*il.StoreInst)
			if !ok {
				continue
			}
			if seen[st.Slot] == nil {
				seen[st.Slot] = make(map[int]bool)
			}
			if !seen[st.Slot][blk.ID] {
				seen[st.Slot][blk.ID] = true
				defsites[st.Slot] = append(defsites[st.Slot], blk.ID)
			}
		}
	}
	return defsites
}

// slotType infers a slot's IL type from any store targeting it; falls back
// to the entry block's register table if nothing is found (should not
// happen for a well-formed function).
func slotType(fn *il.Function, slot string) types.Type {
	for _, reg := range fn.Registers() {
		if reg.Name() == slot {
			return reg.Type()
		}
	}
	for _, blk := range fn.Blocks() {
		for _, inst := range blk.Instructions() {
			if st, ok := inst.(*il.StoreInst); ok && st.Slot == slot {
				for _, reg := range fn.Registers() {
					if reg.ID() == st.Value {
						return reg.Type()
					}
				}
			}
		}
	}
	return fn.ReturnType
}

// rename performs the dominator-tree-preorder renaming walk of spec §4.H:
// on entering a block, push new names for phi results and for every local
// def; fill in phi operands of each successor; recurse into dominator-tree
// children; pop on leaving.
func (b *Builder) rename(fn *il.Function, dom *DomTree, blockID int, phis map[int]map[string]*il.PhiInst, stacks map[string][]il.RegisterID) {
	blk := fn.Block(blockID)
	pushed := make(map[string]int) // slot -> number of pushes this frame, for popping

	for slot, phi := range phis[blockID] {
		stacks[slot] = append(stacks[slot], phi.ResultReg)
		pushed[slot]++
	}

	subst := make(map[il.RegisterID]il.RegisterID)
	var rebuilt []il.Instruction
	for _, inst := range blk.Instructions() {
		switch x := inst.(type) {
		case *il.PhiInst:
			rebuilt = append(rebuilt, x)
		case *il.StoreInst:
			val := remapReg(x.Value, subst)
			stacks[x.Slot] = append(stacks[x.Slot], val)
			pushed[x.Slot]++
			b.stats.RegistersRenamed++
			// Store instructions are eliminated: the slot's current value is
			// now tracked purely by the stack.
		case *il.LoadInst:
			if top, ok := currentTop(stacks, x.Slot); ok {
				subst[resultOf(x)] = top
			}
			// Load instructions are eliminated in favor of direct register use.
		default:
			rebuilt = append(rebuilt, remapInstruction(inst, subst))
		}
	}
	blk.SetInstructions(rebuilt)

	for _, succID := range blk.Succs() {
		for slot, phi := range phis[succID] {
			val, ok := currentTop(stacks, slot)
			if !ok {
				continue
			}
			phi.Operands = append(phi.Operands, il.PhiOperand{Value: val, PredecessorID: blockID})
		}
	}

	for _, child := range dom.Children(blockID) {
		b.rename(fn, dom, child, phis, stacks)
	}

	for slot, n := range pushed {
		stacks[slot] = stacks[slot][:len(stacks[slot])-n]
	}
}

func currentTop(stacks map[string][]il.RegisterID, slot string) (il.RegisterID, bool) {
	s := stacks[slot]
	if len(s) == 0 {
		return 0, false
	}
	return s[len(s)-1], true
}

func resultOf(inst il.Instruction) il.RegisterID {
	r, _ := inst.Result()
	return r
}

func remapReg(r il.RegisterID, subst map[il.RegisterID]il.RegisterID) il.RegisterID {
	if v, ok := subst[r]; ok {
		return v
	}
	return r
}
