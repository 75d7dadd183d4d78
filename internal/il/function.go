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

import (
	"fmt"

	"blendsdk.dev/blend65c/internal/types"
)

// Param is a single function parameter: a name paired with its IL type.
type Param struct {
	Name string
	Type types.Type
}

// Function owns an ordered set of basic blocks (the first is the entry
// block), a virtual-register factory, and the bookkeeping spec §3.7
// describes: parameter-storage hints and the interrupt flag.
type Function struct {
	Name       string
	ReturnType types.Type
	Params     []Param

	blocks       []*Block
	instrCounter int
	regs         registerFactory
	storageHints map[string]StorageClass
	interrupt    bool
}

// NewFunction constructs an empty function with a single entry block.
func NewFunction(name string, returnType types.Type, params []Param) *Function {
	f := &Function{
		Name:         name,
		ReturnType:   returnType,
		Params:       params,
		storageHints: make(map[string]StorageClass),
	}
	f.CreateBlock("entry")
	return f
}

// Blocks returns the function's basic blocks in order; Blocks()[0] is the
// entry block.
func (f *Function) Blocks() []*Block { return f.blocks }

// Entry returns the function's entry block.
func (f *Function) Entry() *Block { return f.blocks[0] }

// Block returns the block with the given id.
func (f *Function) Block(id int) *Block { return f.blocks[id] }

// CreateBlock appends a new, empty block and returns it. An empty label is
// permitted; labels need not be unique at this layer (the assembly-IL
// emitter is responsible for synthesizing unique labels downstream).
func (f *Function) CreateBlock(label string) *Block {
	b := &Block{ID: len(f.blocks), Label: label}
	f.blocks = append(f.blocks, b)
	return b
}

// CreateRegister allocates a fresh virtual register of the given type and
// optional debug name.
func (f *Function) CreateRegister(typ types.Type, name string) Register {
	return f.regs.create(typ, name)
}

// Registers returns every register allocated for this function so far.
func (f *Function) Registers() []Register { return f.regs.all() }

// NextInstructionID returns a fresh, monotonically increasing instruction
// id for this function.
func (f *Function) NextInstructionID() int {
	id := f.instrCounter
	f.instrCounter++
	return id
}

// SetInterrupt marks or unmarks this function as a hardware interrupt
// handler.
func (f *Function) SetInterrupt(v bool) { f.interrupt = v }

// Interrupt reports whether this function is an interrupt handler.
func (f *Function) Interrupt() bool { return f.interrupt }

// SetParameterStorageHint records the preferred storage class for a named
// parameter (consulted by the assembly-IL emitter, ignored by the
// optimizer).
func (f *Function) SetParameterStorageHint(name string, class StorageClass) {
	f.storageHints[name] = class
}

// ParameterStorageHint returns the recorded hint for name, if any.
func (f *Function) ParameterStorageHint(name string) (StorageClass, bool) {
	class, ok := f.storageHints[name]
	return class, ok
}

// AddEdge records a from->to control-flow edge, mirroring it on both
// blocks' predecessor/successor lists. Parallel edges are deduplicated: an
// edge already recorded (e.g. a cond-branch with identical arms) is not
// added a second time.
func (f *Function) AddEdge(from, to int) {
	a, b := f.blocks[from], f.blocks[to]
	if !hasBlockEdge(a.succs, to) {
		a.succs = append(a.succs, to)
	}
	if !hasBlockEdge(b.preds, from) {
		b.preds = append(b.preds, from)
	}
}

// RemoveEdge removes a from->to control-flow edge from both sides.
func (f *Function) RemoveEdge(from, to int) {
	a, b := f.blocks[from], f.blocks[to]
	a.succs = removeBlockEdge(a.succs, to)
	b.preds = removeBlockEdge(b.preds, from)
}

// Validate checks the well-formedness invariants of spec §4.G: every block
// has exactly one terminator, predecessor/successor lists agree, the entry
// block has no predecessors, and phis appear only as a block-head prefix in
// non-entry blocks.
func (f *Function) Validate() error {
	for _, b := range f.blocks {
		if b.Terminator() == nil {
			return fmt.Errorf("block%d (%s): missing terminator", b.ID, f.Name)
		}
		if b.ID == 0 && len(b.Phis()) > 0 {
			return fmt.Errorf("block%d (%s): phi in entry block", b.ID, f.Name)
		}
		if !phisAreBlockPrefix(b) {
			return fmt.Errorf("block%d (%s): phi instructions are not a contiguous block-head prefix", b.ID, f.Name)
		}
		for _, p := range b.preds {
			if !hasBlockEdge(f.blocks[p].succs, b.ID) {
				return fmt.Errorf("block%d (%s): predecessor %d does not list this block as a successor", b.ID, f.Name, p)
			}
		}
		for _, s := range b.succs {
			if !hasBlockEdge(f.blocks[s].preds, b.ID) {
				return fmt.Errorf("block%d (%s): successor %d does not list this block as a predecessor", b.ID, f.Name, s)
			}
		}
	}
	if len(f.blocks) > 0 && len(f.blocks[0].preds) != 0 {
		return fmt.Errorf("function %s: entry block has predecessors", f.Name)
	}
	return nil
}

func isPhi(inst Instruction) bool {
	_, ok := inst.(*PhiInst)
	return ok
}

func phisAreBlockPrefix(b *Block) bool {
	seenNonPhi := false
	for _, inst := range b.instructions {
		if isPhi(inst) {
			if seenNonPhi {
				return false
			}
			continue
		}
		seenNonPhi = true
	}
	return true
}
