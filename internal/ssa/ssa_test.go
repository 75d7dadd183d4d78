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
package ssa_test

import (
	"testing"

	"blendsdk.dev/blend65c/internal/diag"
	"blendsdk.dev/blend65c/internal/il"
	"blendsdk.dev/blend65c/internal/ssa"
	"blendsdk.dev/blend65c/internal/types"
)

// diamond builds: entry -> {then, els} -> join, a textbook if/else with a
// single mutable local "x" stored on both arms, loaded back in join.
func diamond() *il.Function {
	fn := il.NewFunction("f", types.Byte(), nil)
	entry := fn.Entry()
	then := fn.CreateBlock("then")
	els := fn.CreateBlock("els")
	join := fn.CreateBlock("join")

	cond := fn.CreateRegister(types.Bool(), "cond")
	entry.Append(&il.ConstInst{ResultReg: cond.ID(), Value: 1})
	entry.SetTerminator(&il.CondBranchInst{Cond: cond.ID(), IfTrue: then.ID, IfFalse: els.ID})
	fn.AddEdge(entry.ID, then.ID)
	fn.AddEdge(entry.ID, els.ID)

	tenReg := fn.CreateRegister(types.Byte(), "")
	then.Append(&il.ConstInst{ResultReg: tenReg.ID(), Value: 10})
	then.Append(&il.StoreInst{Slot: "x", Value: tenReg.ID()})
	then.SetTerminator(&il.BranchInst{Target: join.ID})
	fn.AddEdge(then.ID, join.ID)

	twentyReg := fn.CreateRegister(types.Byte(), "")
	els.Append(&il.ConstInst{ResultReg: twentyReg.ID(), Value: 20})
	els.Append(&il.StoreInst{Slot: "x", Value: twentyReg.ID()})
	els.SetTerminator(&il.BranchInst{Target: join.ID})
	fn.AddEdge(els.ID, join.ID)

	loadReg := fn.CreateRegister(types.Byte(), "x")
	join.Append(&il.LoadInst{ResultReg: loadReg.ID(), Slot: "x"})
	join.SetTerminator(&il.ReturnInst{Value: loadReg.ID(), HasValue: true})

	return fn
}

// loopWithBackEdge builds: entry -> header -> {body -> header, exit}, with a
// local "i" stored in both entry (init) and body (increment), loaded in the
// header to feed the loop condition.
func loopWithBackEdge() *il.Function {
	fn := il.NewFunction("f", types.Byte(), nil)
	entry := fn.Entry()
	header := fn.CreateBlock("header")
	body := fn.CreateBlock("body")
	exit := fn.CreateBlock("exit")

	zero := fn.CreateRegister(types.Byte(), "")
	entry.Append(&il.ConstInst{ResultReg: zero.ID(), Value: 0})
	entry.Append(&il.StoreInst{Slot: "i", Value: zero.ID()})
	entry.SetTerminator(&il.BranchInst{Target: header.ID})
	fn.AddEdge(entry.ID, header.ID)

	iLoad := fn.CreateRegister(types.Byte(), "i")
	header.Append(&il.LoadInst{ResultReg: iLoad.ID(), Slot: "i"})
	cond := fn.CreateRegister(types.Bool(), "")
	header.Append(&il.ConstInst{ResultReg: cond.ID(), Value: 1})
	header.SetTerminator(&il.CondBranchInst{Cond: cond.ID(), IfTrue: body.ID, IfFalse: exit.ID})
	fn.AddEdge(header.ID, body.ID)
	fn.AddEdge(header.ID, exit.ID)

	iLoad2 := fn.CreateRegister(types.Byte(), "i")
	one := fn.CreateRegister(types.Byte(), "")
	sum := fn.CreateRegister(types.Byte(), "")
	body.Append(&il.LoadInst{ResultReg: iLoad2.ID(), Slot: "i"})
	body.Append(&il.ConstInst{ResultReg: one.ID(), Value: 1})
	body.Append(&il.BinaryInst{ResultReg: sum.ID(), Op: il.BinAdd, Left: iLoad2.ID(), Right: one.ID()})
	body.Append(&il.StoreInst{Slot: "i", Value: sum.ID()})
	body.SetTerminator(&il.BranchInst{Target: header.ID})
	fn.AddEdge(body.ID, header.ID)

	exit.SetTerminator(&il.ReturnInst{HasValue: false})

	return fn
}

func TestDominatorTreeDiamond(t *testing.T) {
	fn := diamond()
	dom := ssa.BuildDomTree(fn)

	entry, then, els, join := 0, 1, 2, 3
	if !dom.Dominates(entry, then) || !dom.Dominates(entry, els) || !dom.Dominates(entry, join) {
		t.Fatalf("entry block must dominate every other block")
	}
	if dom.Dominates(then, join) {
		t.Fatalf("then must not dominate join: els is an alternate path")
	}
	if dom.IDom(join) != entry {
		t.Fatalf("join's immediate dominator should be entry, got block%d", dom.IDom(join))
	}
}

func TestDominatorTreeLoopBackEdge(t *testing.T) {
	fn := loopWithBackEdge()
	dom := ssa.BuildDomTree(fn)

	entry, header, body, exit := 0, 1, 2, 3
	if dom.IDom(header) != entry {
		t.Fatalf("header's immediate dominator should be entry, got block%d", dom.IDom(header))
	}
	if dom.IDom(body) != header || dom.IDom(exit) != header {
		t.Fatalf("body and exit should be immediately dominated by header")
	}
	if !dom.Dominates(header, body) {
		t.Fatalf("header must dominate body, since every path to body passes through the loop header")
	}
}

func TestBuildInsertsPhiAtDiamondJoin(t *testing.T) {
	fn := diamond()
	stats := ssa.NewBuilder().Build(fn)

	if stats.PhisInserted != 1 {
		t.Fatalf("expected exactly one phi inserted at the join block, got %d", stats.PhisInserted)
	}

	join := fn.Block(3)
	phis := join.Phis()
	if len(phis) != 1 {
		t.Fatalf("expected one phi at join's head, got %d", len(phis))
	}
	if len(phis[0].Operands) != 2 {
		t.Fatalf("join's phi should have two operands (one per predecessor), got %d", len(phis[0].Operands))
	}

	for _, blk := range fn.Blocks() {
		for _, inst := range blk.Instructions() {
			switch inst.(type) {
			case *il.LoadInst, *il.StoreInst:
				t.Fatalf("block%d: load/store of slot \"x\" should have been eliminated by SSA construction", blk.ID)
			}
		}
	}

	if diags := ssa.Verify(fn); len(diags) != 0 {
		t.Fatalf("expected a verified-valid function after Build, got diagnostics: %v", diags)
	}
}

func TestBuildInsertsPhiAtLoopHeader(t *testing.T) {
	fn := loopWithBackEdge()
	stats := ssa.NewBuilder().Build(fn)

	if stats.PhisInserted != 1 {
		t.Fatalf("expected exactly one phi inserted at the loop header, got %d", stats.PhisInserted)
	}

	header := fn.Block(1)
	phis := header.Phis()
	if len(phis) != 1 {
		t.Fatalf("expected one phi at the loop header, got %d", len(phis))
	}
	if len(phis[0].Operands) != 2 {
		t.Fatalf("header's phi should have two operands (entry and the back edge from body), got %d", len(phis[0].Operands))
	}

	if diags := ssa.Verify(fn); len(diags) != 0 {
		t.Fatalf("expected a verified-valid function after Build, got diagnostics: %v", diags)
	}
}

func TestVerifyCatchesMultipleDefinitions(t *testing.T) {
	fn := il.NewFunction("f", types.Byte(), nil)
	entry := fn.Entry()
	r := fn.CreateRegister(types.Byte(), "")
	entry.Append(&il.ConstInst{ResultReg: r.ID(), Value: 1})
	entry.Append(&il.ConstInst{ResultReg: r.ID(), Value: 2})
	entry.SetTerminator(&il.ReturnInst{Value: r.ID(), HasValue: true})

	diags := ssa.Verify(fn)
	if len(diags) != 1 || diags[0].Code != diag.MultipleDefinitions {
		t.Fatalf("expected a single MultipleDefinitions diagnostic, got %v", diags)
	}
}

func TestVerifyCatchesUseBeforeDefinition(t *testing.T) {
	fn := il.NewFunction("f", types.Byte(), nil)
	entry := fn.Entry()
	r := fn.CreateRegister(types.Byte(), "")
	entry.Append(&il.ReturnInst{Value: r.ID(), HasValue: true})

	diags := ssa.Verify(fn)
	if len(diags) == 0 {
		t.Fatalf("expected a UseBeforeDefinition diagnostic for a never-defined register")
	}
}

func TestVerifyCatchesCrossBlockDominanceViolation(t *testing.T) {
	fn := il.NewFunction("f", types.Byte(), nil)
	entry := fn.Entry()
	then := fn.CreateBlock("then")
	els := fn.CreateBlock("els")
	join := fn.CreateBlock("join")

	cond := fn.CreateRegister(types.Bool(), "")
	entry.Append(&il.ConstInst{ResultReg: cond.ID(), Value: 1})
	entry.SetTerminator(&il.CondBranchInst{Cond: cond.ID(), IfTrue: then.ID, IfFalse: els.ID})
	fn.AddEdge(entry.ID, then.ID)
	fn.AddEdge(entry.ID, els.ID)

	onlyInThen := fn.CreateRegister(types.Byte(), "")
	then.Append(&il.ConstInst{ResultReg: onlyInThen.ID(), Value: 5})
	then.SetTerminator(&il.BranchInst{Target: join.ID})
	fn.AddEdge(then.ID, join.ID)

	els.SetTerminator(&il.BranchInst{Target: join.ID})
	fn.AddEdge(els.ID, join.ID)

	// join uses a register defined only on the then-arm -- not dominated,
	// since the els-arm reaches join without it.
	join.SetTerminator(&il.ReturnInst{Value: onlyInThen.ID(), HasValue: true})

	diags := ssa.Verify(fn)
	if len(diags) == 0 {
		t.Fatalf("expected a DominanceViolation diagnostic for a use not dominated by its definition")
	}
}

func TestVerifyCatchesPhiInEntryBlock(t *testing.T) {
	fn := il.NewFunction("f", types.Byte(), nil)
	entry := fn.Entry()
	r := fn.CreateRegister(types.Byte(), "")
	entry.InsertAt(0, &il.PhiInst{ResultReg: r.ID()})
	entry.SetTerminator(&il.ReturnInst{HasValue: false})

	diags := ssa.Verify(fn)
	if len(diags) == 0 {
		t.Fatalf("expected a PhiInEntryBlock diagnostic")
	}
}

func TestVerifyCatchesPhiOperandCountMismatch(t *testing.T) {
	fn := diamond()
	join := fn.Block(3)

	r := fn.CreateRegister(types.Byte(), "")
	only := fn.CreateRegister(types.Byte(), "")
	join.Append(&il.ConstInst{ResultReg: only.ID(), Value: 0})
	phi := &il.PhiInst{ResultReg: r.ID(), Operands: []il.PhiOperand{{Value: only.ID(), PredecessorID: 1}}}
	join.InsertAt(0, phi)

	diags := ssa.Verify(fn)
	if len(diags) == 0 {
		t.Fatalf("expected a PhiOperandCountMismatch diagnostic for a two-predecessor join with a one-operand phi")
	}
}
