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

// Named convenience wrappers over Builder.Emit, grouped by mnemonic family
// for readability at the call site. These are the "union of methods" the
// flat Builder exposes in place of the teacher's inheritance chain; nothing
// here holds state of its own.
package asmil

// Load/store family.

func (b *Builder) LDA(mode AddressingMode, op Operand) *Builder { return b.Emit("LDA", mode, op) }
func (b *Builder) LDX(mode AddressingMode, op Operand) *Builder { return b.Emit("LDX", mode, op) }
func (b *Builder) LDY(mode AddressingMode, op Operand) *Builder { return b.Emit("LDY", mode, op) }
func (b *Builder) STA(mode AddressingMode, op Operand) *Builder { return b.Emit("STA", mode, op) }
func (b *Builder) STX(mode AddressingMode, op Operand) *Builder { return b.Emit("STX", mode, op) }
func (b *Builder) STY(mode AddressingMode, op Operand) *Builder { return b.Emit("STY", mode, op) }

// Transfer/stack family.

func (b *Builder) TAX() *Builder { return b.Emit("TAX", AddrImplied, Operand{}) }
func (b *Builder) TAY() *Builder { return b.Emit("TAY", AddrImplied, Operand{}) }
func (b *Builder) TXA() *Builder { return b.Emit("TXA", AddrImplied, Operand{}) }
func (b *Builder) TYA() *Builder { return b.Emit("TYA", AddrImplied, Operand{}) }
func (b *Builder) TSX() *Builder { return b.Emit("TSX", AddrImplied, Operand{}) }
func (b *Builder) TXS() *Builder { return b.Emit("TXS", AddrImplied, Operand{}) }
func (b *Builder) PHA() *Builder { return b.Emit("PHA", AddrImplied, Operand{}) }
func (b *Builder) PLA() *Builder { return b.Emit("PLA", AddrImplied, Operand{}) }
func (b *Builder) PHP() *Builder { return b.Emit("PHP", AddrImplied, Operand{}) }
func (b *Builder) PLP() *Builder { return b.Emit("PLP", AddrImplied, Operand{}) }

// Arithmetic/comparison family.

func (b *Builder) ADC(mode AddressingMode, op Operand) *Builder { return b.Emit("ADC", mode, op) }
func (b *Builder) SBC(mode AddressingMode, op Operand) *Builder { return b.Emit("SBC", mode, op) }
func (b *Builder) CMP(mode AddressingMode, op Operand) *Builder { return b.Emit("CMP", mode, op) }
func (b *Builder) CPX(mode AddressingMode, op Operand) *Builder { return b.Emit("CPX", mode, op) }
func (b *Builder) CPY(mode AddressingMode, op Operand) *Builder { return b.Emit("CPY", mode, op) }
func (b *Builder) INC(mode AddressingMode, op Operand) *Builder { return b.Emit("INC", mode, op) }
func (b *Builder) DEC(mode AddressingMode, op Operand) *Builder { return b.Emit("DEC", mode, op) }
func (b *Builder) INX() *Builder { return b.Emit("INX", AddrImplied, Operand{}) }
func (b *Builder) INY() *Builder { return b.Emit("INY", AddrImplied, Operand{}) }
func (b *Builder) DEX() *Builder { return b.Emit("DEX", AddrImplied, Operand{}) }
func (b *Builder) DEY() *Builder { return b.Emit("DEY", AddrImplied, Operand{}) }

// Logical/shift family.

func (b *Builder) AND(mode AddressingMode, op Operand) *Builder { return b.Emit("AND", mode, op) }
func (b *Builder) ORA(mode AddressingMode, op Operand) *Builder { return b.Emit("ORA", mode, op) }
func (b *Builder) EOR(mode AddressingMode, op Operand) *Builder { return b.Emit("EOR", mode, op) }
func (b *Builder) BIT(mode AddressingMode, op Operand) *Builder { return b.Emit("BIT", mode, op) }
func (b *Builder) ASL(mode AddressingMode, op Operand) *Builder { return b.Emit("ASL", mode, op) }
func (b *Builder) LSR(mode AddressingMode, op Operand) *Builder { return b.Emit("LSR", mode, op) }
func (b *Builder) ROL(mode AddressingMode, op Operand) *Builder { return b.Emit("ROL", mode, op) }
func (b *Builder) ROR(mode AddressingMode, op Operand) *Builder { return b.Emit("ROR", mode, op) }

// Branch/jump family. Branch targets are always symbolic: the assembler
// back-end resolves the relative displacement once every label's final
// address is known.

func (b *Builder) BCC(label string) *Builder { return b.Emit("BCC", AddrRelative, Sym(label)) }
func (b *Builder) BCS(label string) *Builder { return b.Emit("BCS", AddrRelative, Sym(label)) }
func (b *Builder) BEQ(label string) *Builder { return b.Emit("BEQ", AddrRelative, Sym(label)) }
func (b *Builder) BMI(label string) *Builder { return b.Emit("BMI", AddrRelative, Sym(label)) }
func (b *Builder) BNE(label string) *Builder { return b.Emit("BNE", AddrRelative, Sym(label)) }
func (b *Builder) BPL(label string) *Builder { return b.Emit("BPL", AddrRelative, Sym(label)) }
func (b *Builder) BVC(label string) *Builder { return b.Emit("BVC", AddrRelative, Sym(label)) }
func (b *Builder) BVS(label string) *Builder { return b.Emit("BVS", AddrRelative, Sym(label)) }
func (b *Builder) JMP(op Operand) *Builder   { return b.Emit("JMP", AddrAbsolute, op) }
func (b *Builder) JSR(op Operand) *Builder   { return b.Emit("JSR", AddrAbsolute, op) }
func (b *Builder) RTS() *Builder             { return b.Emit("RTS", AddrImplied, Operand{}) }
func (b *Builder) RTI() *Builder             { return b.Emit("RTI", AddrImplied, Operand{}) }

// Flags/misc family.

func (b *Builder) CLC() *Builder { return b.Emit("CLC", AddrImplied, Operand{}) }
func (b *Builder) SEC() *Builder { return b.Emit("SEC", AddrImplied, Operand{}) }
func (b *Builder) CLI() *Builder { return b.Emit("CLI", AddrImplied, Operand{}) }
func (b *Builder) SEI() *Builder { return b.Emit("SEI", AddrImplied, Operand{}) }
func (b *Builder) CLD() *Builder { return b.Emit("CLD", AddrImplied, Operand{}) }
func (b *Builder) SED() *Builder { return b.Emit("SED", AddrImplied, Operand{}) }
func (b *Builder) CLV() *Builder { return b.Emit("CLV", AddrImplied, Operand{}) }
func (b *Builder) NOP() *Builder { return b.Emit("NOP", AddrImplied, Operand{}) }
func (b *Builder) BRK() *Builder { return b.Emit("BRK", AddrImplied, Operand{}) }
