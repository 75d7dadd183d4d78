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

	"blendsdk.dev/blend65c/internal/diag"
)

// Instruction is the common interface satisfied by every IL instruction
// variant. UsedRegisters reports every register read by the instruction;
// Result reports the register written, if any.
type Instruction interface {
	ID() int
	Opcode() Opcode
	UsedRegisters() []RegisterID
	Result() (RegisterID, bool)
	Meta() map[string]any
	Location() *diag.Span
	String() string
}

// base carries the fields common to every instruction kind. It is embedded,
// never used directly.
type base struct {
	id       int
	metadata map[string]any
	location *diag.Span
}

func (b *base) ID() int { return b.id }

func (b *base) Meta() map[string]any {
	if b.metadata == nil {
		b.metadata = make(map[string]any)
	}
	return b.metadata
}

func (b *base) Location() *diag.Span { return b.location }

// ConstInst loads a compile-time constant value into Result.
type ConstInst struct {
	base
	ResultReg RegisterID
	Value     int64
}

func (c *ConstInst) Opcode() Opcode             { return OpConst }
func (c *ConstInst) UsedRegisters() []RegisterID { return nil }
func (c *ConstInst) Result() (RegisterID, bool)  { return c.ResultReg, true }
func (c *ConstInst) String() string {
	return fmt.Sprintf("%%%d = const %d", c.ResultReg, c.Value)
}

// LoadInst reads the current value of a local/global storage slot into
// Result. Before SSA construction, Slot names a symbol; after, loads of
// SSA-promoted locals disappear (replaced by register uses directly).
type LoadInst struct {
	base
	ResultReg RegisterID
	Slot      string
}

func (l *LoadInst) Opcode() Opcode             { return OpLoad }
func (l *LoadInst) UsedRegisters() []RegisterID { return nil }
func (l *LoadInst) Result() (RegisterID, bool)  { return l.ResultReg, true }
func (l *LoadInst) String() string {
	return fmt.Sprintf("%%%d = load %s", l.ResultReg, l.Slot)
}

// StoreInst writes Value into a named storage slot. Has no result register.
type StoreInst struct {
	base
	Slot  string
	Value RegisterID
}

func (s *StoreInst) Opcode() Opcode              { return OpStore }
func (s *StoreInst) UsedRegisters() []RegisterID { return []RegisterID{s.Value} }
func (s *StoreInst) Result() (RegisterID, bool)  { return 0, false }
func (s *StoreInst) String() string {
	return fmt.Sprintf("store %s, %%%d", s.Slot, s.Value)
}

// BinaryInst applies a typed binary operation to Left and Right.
type BinaryInst struct {
	base
	ResultReg   RegisterID
	Op          BinaryOp
	Left, Right RegisterID
}

func (b *BinaryInst) Opcode() Opcode { return OpBinary }
func (b *BinaryInst) UsedRegisters() []RegisterID {
	return []RegisterID{b.Left, b.Right}
}
func (b *BinaryInst) Result() (RegisterID, bool) { return b.ResultReg, true }
func (b *BinaryInst) String() string {
	return fmt.Sprintf("%%%d = %s %%%d, %%%d", b.ResultReg, b.Op, b.Left, b.Right)
}

// UnaryInst applies a unary operation to Operand.
type UnaryInst struct {
	base
	ResultReg RegisterID
	Op        UnaryOp
	Operand   RegisterID
}

func (u *UnaryInst) Opcode() Opcode              { return OpUnary }
func (u *UnaryInst) UsedRegisters() []RegisterID { return []RegisterID{u.Operand} }
func (u *UnaryInst) Result() (RegisterID, bool)  { return u.ResultReg, true }
func (u *UnaryInst) String() string {
	return fmt.Sprintf("%%%d = %s %%%d", u.ResultReg, u.Op, u.Operand)
}

// CompareInst evaluates a relational comparison, producing a bool result.
type CompareInst struct {
	base
	ResultReg   RegisterID
	Op          CompareOp
	Left, Right RegisterID
}

func (c *CompareInst) Opcode() Opcode { return OpCompare }
func (c *CompareInst) UsedRegisters() []RegisterID {
	return []RegisterID{c.Left, c.Right}
}
func (c *CompareInst) Result() (RegisterID, bool) { return c.ResultReg, true }
func (c *CompareInst) String() string {
	return fmt.Sprintf("%%%d = cmp.%s %%%d, %%%d", c.ResultReg, c.Op, c.Left, c.Right)
}

// BranchInst is an unconditional jump terminator.
type BranchInst struct {
	base
	Target int
}

func (b *BranchInst) Opcode() Opcode              { return OpBranch }
func (b *BranchInst) UsedRegisters() []RegisterID { return nil }
func (b *BranchInst) Result() (RegisterID, bool)  { return 0, false }
func (b *BranchInst) String() string              { return fmt.Sprintf("br block%d", b.Target) }

// CondBranchInst is a two-way conditional jump terminator.
type CondBranchInst struct {
	base
	Cond              RegisterID
	IfTrue, IfFalse   int
}

func (c *CondBranchInst) Opcode() Opcode              { return OpCondBranch }
func (c *CondBranchInst) UsedRegisters() []RegisterID { return []RegisterID{c.Cond} }
func (c *CondBranchInst) Result() (RegisterID, bool)  { return 0, false }
func (c *CondBranchInst) String() string {
	return fmt.Sprintf("br.cond %%%d, block%d, block%d", c.Cond, c.IfTrue, c.IfFalse)
}

// ReturnInst is the return terminator. Value is absent for a void return.
type ReturnInst struct {
	base
	Value   RegisterID
	HasValue bool
}

func (r *ReturnInst) Opcode() Opcode { return OpReturn }
func (r *ReturnInst) UsedRegisters() []RegisterID {
	if r.HasValue {
		return []RegisterID{r.Value}
	}
	return nil
}
func (r *ReturnInst) Result() (RegisterID, bool) { return 0, false }
func (r *ReturnInst) String() string {
	if r.HasValue {
		return fmt.Sprintf("ret %%%d", r.Value)
	}
	return "ret"
}

// UnreachableInst marks a block that can never execute to completion; used
// as the terminator of blocks built after an unconditional return/break/
// continue with no following statement to attach a real terminator to.
type UnreachableInst struct {
	base
}

func (u *UnreachableInst) Opcode() Opcode              { return OpUnreachable }
func (u *UnreachableInst) UsedRegisters() []RegisterID { return nil }
func (u *UnreachableInst) Result() (RegisterID, bool)  { return 0, false }
func (u *UnreachableInst) String() string              { return "unreachable" }

// CallInst invokes a named function with Args, producing an optional result.
type CallInst struct {
	base
	Callee    string
	Args      []RegisterID
	ResultReg RegisterID
	HasResult bool
}

func (c *CallInst) Opcode() Opcode              { return OpCall }
func (c *CallInst) UsedRegisters() []RegisterID { return c.Args }
func (c *CallInst) Result() (RegisterID, bool)  { return c.ResultReg, c.HasResult }
func (c *CallInst) String() string {
	if c.HasResult {
		return fmt.Sprintf("%%%d = call %s(%v)", c.ResultReg, c.Callee, c.Args)
	}
	return fmt.Sprintf("call %s(%v)", c.Callee, c.Args)
}

// PeekInst is the `peek(addr)` intrinsic before lowering: it reads a byte
// from a runtime-computed address.
type PeekInst struct {
	base
	ResultReg RegisterID
	Addr      RegisterID
	Wide      bool // true for peekw
}

func (p *PeekInst) Opcode() Opcode              { return OpPeek }
func (p *PeekInst) UsedRegisters() []RegisterID { return []RegisterID{p.Addr} }
func (p *PeekInst) Result() (RegisterID, bool)  { return p.ResultReg, true }
func (p *PeekInst) String() string {
	if p.Wide {
		return fmt.Sprintf("%%%d = peekw %%%d", p.ResultReg, p.Addr)
	}
	return fmt.Sprintf("%%%d = peek %%%d", p.ResultReg, p.Addr)
}

// PokeInst is the `poke(addr, val)` intrinsic before lowering: it writes a
// byte to a runtime-computed address.
type PokeInst struct {
	base
	Addr  RegisterID
	Value RegisterID
	Wide  bool // true for pokew
}

func (p *PokeInst) Opcode() Opcode              { return OpPoke }
func (p *PokeInst) UsedRegisters() []RegisterID { return []RegisterID{p.Addr, p.Value} }
func (p *PokeInst) Result() (RegisterID, bool)  { return 0, false }
func (p *PokeInst) String() string {
	if p.Wide {
		return fmt.Sprintf("pokew %%%d, %%%d", p.Addr, p.Value)
	}
	return fmt.Sprintf("poke %%%d, %%%d", p.Addr, p.Value)
}

// HardwareReadInst reads a byte from a constant absolute address. It is the
// optimizer's lowering target for Peek when the address is a known constant.
type HardwareReadInst struct {
	base
	ResultReg RegisterID
	Address   uint16
}

func (h *HardwareReadInst) Opcode() Opcode              { return OpHardwareRead }
func (h *HardwareReadInst) UsedRegisters() []RegisterID { return nil }
func (h *HardwareReadInst) Result() (RegisterID, bool)  { return h.ResultReg, true }
func (h *HardwareReadInst) String() string {
	return fmt.Sprintf("%%%d = hw_read 0x%04X", h.ResultReg, h.Address)
}

// HardwareWriteInst writes a byte to a constant absolute address.
type HardwareWriteInst struct {
	base
	Address uint16
	Value   RegisterID
}

func (h *HardwareWriteInst) Opcode() Opcode              { return OpHardwareWrite }
func (h *HardwareWriteInst) UsedRegisters() []RegisterID { return []RegisterID{h.Value} }
func (h *HardwareWriteInst) Result() (RegisterID, bool)  { return 0, false }
func (h *HardwareWriteInst) String() string {
	return fmt.Sprintf("hw_write 0x%04X, %%%d", h.Address, h.Value)
}

// PhiOperand is one (value, predecessor block) pair of a phi instruction.
type PhiOperand struct {
	Value         RegisterID
	PredecessorID int
}

// PhiInst merges values flowing in from distinct predecessors. Per spec
// §3.7/§4.H it appears only as a prefix of a non-entry block, with exactly
// one operand per predecessor.
type PhiInst struct {
	base
	ResultReg RegisterID
	Operands  []PhiOperand
}

func (p *PhiInst) Opcode() Opcode { return OpPhi }
func (p *PhiInst) UsedRegisters() []RegisterID {
	out := make([]RegisterID, len(p.Operands))
	for i, o := range p.Operands {
		out[i] = o.Value
	}
	return out
}
func (p *PhiInst) Result() (RegisterID, bool) { return p.ResultReg, true }
func (p *PhiInst) String() string {
	return fmt.Sprintf("%%%d = phi %v", p.ResultReg, p.Operands)
}

// ConvertInst performs an explicit byte<->word conversion (widening is
// always legal; narrowing requires this explicit instruction, never an
// implicit one, per spec §4.I).
type ConvertInst struct {
	base
	ResultReg RegisterID
	Operand   RegisterID
	Widen     bool // true = byte->word, false = word->byte
}

func (c *ConvertInst) Opcode() Opcode              { return OpConvert }
func (c *ConvertInst) UsedRegisters() []RegisterID { return []RegisterID{c.Operand} }
func (c *ConvertInst) Result() (RegisterID, bool)  { return c.ResultReg, true }
func (c *ConvertInst) String() string {
	if c.Widen {
		return fmt.Sprintf("%%%d = widen %%%d", c.ResultReg, c.Operand)
	}
	return fmt.Sprintf("%%%d = narrow %%%d", c.ResultReg, c.Operand)
}
