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
package il_test

import (
	"testing"

	"blendsdk.dev/blend65c/internal/il"
	"blendsdk.dev/blend65c/internal/types"
)

func TestFunctionValidateRequiresTerminator(t *testing.T) {
	fn := il.NewFunction("f", types.Void(), nil)
	if err := fn.Validate(); err == nil {
		t.Fatal("expected validation error for a block with no terminator")
	}
	fn.Entry().SetTerminator(&il.ReturnInst{})
	if err := fn.Validate(); err != nil {
		t.Fatalf("unexpected validation error: %v", err)
	}
}

func TestFunctionValidateRejectsEntryPredecessor(t *testing.T) {
	fn := il.NewFunction("f", types.Void(), nil)
	other := fn.CreateBlock("other")
	fn.AddEdge(other.ID, fn.Entry().ID)
	fn.Entry().SetTerminator(&il.ReturnInst{})
	other.SetTerminator(&il.BranchInst{Target: fn.Entry().ID})

	if err := fn.Validate(); err == nil {
		t.Fatal("expected validation error: entry block must have no predecessors")
	}
}

func TestFunctionValidateRejectsPhiInEntry(t *testing.T) {
	fn := il.NewFunction("f", types.Byte(), nil)
	reg := fn.CreateRegister(types.Byte(), "x")
	fn.Entry().Append(&il.PhiInst{ResultReg: reg.ID()})
	fn.Entry().SetTerminator(&il.ReturnInst{Value: reg.ID(), HasValue: true})

	if err := fn.Validate(); err == nil {
		t.Fatal("expected validation error: phi in entry block")
	}
}

func TestBlockEdgesMirrored(t *testing.T) {
	fn := il.NewFunction("f", types.Void(), nil)
	b1 := fn.CreateBlock("b1")
	fn.AddEdge(fn.Entry().ID, b1.ID)

	if len(fn.Entry().Succs()) != 1 || fn.Entry().Succs()[0] != b1.ID {
		t.Fatal("entry block should record b1 as a successor")
	}
	if len(b1.Preds()) != 1 || b1.Preds()[0] != fn.Entry().ID {
		t.Fatal("b1 should record entry as a predecessor")
	}

	fn.RemoveEdge(fn.Entry().ID, b1.ID)
	if len(fn.Entry().Succs()) != 0 || len(b1.Preds()) != 0 {
		t.Fatal("removing the edge should clear both mirrored lists")
	}
}

func TestModuleRejectsDuplicateFunction(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Fatal("expected a panic on duplicate function declaration")
		}
	}()
	m := il.NewModule("main")
	m.AddFunction(il.NewFunction("f", types.Void(), nil))
	m.AddFunction(il.NewFunction("f", types.Void(), nil))
}

func TestInstructionUsedRegisters(t *testing.T) {
	fn := il.NewFunction("f", types.Byte(), nil)
	a := fn.CreateRegister(types.Byte(), "a")
	b := fn.CreateRegister(types.Byte(), "b")
	sum := fn.CreateRegister(types.Byte(), "sum")

	add := &il.BinaryInst{ResultReg: sum.ID(), Op: il.BinAdd, Left: a.ID(), Right: b.ID()}
	used := add.UsedRegisters()
	if len(used) != 2 || used[0] != a.ID() || used[1] != b.ID() {
		t.Fatalf("unexpected used registers: %v", used)
	}
	result, ok := add.Result()
	if !ok || result != sum.ID() {
		t.Fatal("expected BinaryInst to report its result register")
	}
}
