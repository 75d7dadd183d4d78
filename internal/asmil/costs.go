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
package asmil

// cost is the byte size and base cycle count of one (mnemonic, addressing
// mode) encoding. Cycle counts are the NMOS 6502's base cost; the extra
// cycle for a taken branch or a page-boundary crossing on an indexed/
// indirect-indexed access is a runtime back-end concern, not something this
// static table can know.
type cost struct {
	Bytes  uint
	Cycles uint
}

type costEntry struct {
	mnemonic string
	mode     AddressingMode
	bytes    uint
	cycles   uint
}

// costTable enumerates every legal encoding of the NMOS 6502's 56
// documented mnemonics. Illegal/undocumented opcodes are deliberately
// absent: the code generator never emits them.
var costTable = buildCostTable()

func buildCostTable() map[string]map[AddressingMode]cost {
	// group lists the modes/bytes/cycles shared by the seven classic
	// accumulator ops (ADC, AND, CMP, EOR, LDA, ORA, SBC): immediate,
	// zero-page(,x), absolute(,x/,y) and both indexed-indirect forms.
	group := []costEntry{
		{"", AddrImmediate, 2, 2},
		{"", AddrZeroPage, 2, 3},
		{"", AddrZeroPageX, 2, 4},
		{"", AddrAbsolute, 3, 4},
		{"", AddrAbsoluteX, 3, 4},
		{"", AddrAbsoluteY, 3, 4},
		{"", AddrIndirectX, 2, 6},
		{"", AddrIndirectY, 2, 5},
	}
	// shiftGroup lists the modes shared by the four shift/rotate ops (ASL,
	// LSR, ROL, ROR).
	shiftGroup := []costEntry{
		{"", AddrAccumulator, 1, 2},
		{"", AddrZeroPage, 2, 5},
		{"", AddrZeroPageX, 2, 6},
		{"", AddrAbsolute, 3, 6},
		{"", AddrAbsoluteX, 3, 7},
	}
	// incDecGroup lists the modes shared by INC/DEC.
	incDecGroup := []costEntry{
		{"", AddrZeroPage, 2, 5},
		{"", AddrZeroPageX, 2, 6},
		{"", AddrAbsolute, 3, 6},
		{"", AddrAbsoluteX, 3, 7},
	}

	t := make(map[string]map[AddressingMode]cost)
	add := func(mnemonic string, entries []costEntry) {
		m := make(map[AddressingMode]cost, len(entries))
		for _, e := range entries {
			m[e.mode] = cost{Bytes: e.bytes, Cycles: e.cycles}
		}
		t[mnemonic] = m
	}
	addSingle := func(mnemonic string, mode AddressingMode, bytes, cycles uint) {
		if t[mnemonic] == nil {
			t[mnemonic] = make(map[AddressingMode]cost)
		}
		t[mnemonic][mode] = cost{Bytes: bytes, Cycles: cycles}
	}

	for _, mnemonic := range []string{"ADC", "AND", "CMP", "EOR", "LDA", "ORA", "SBC"} {
		add(mnemonic, group)
	}
	for _, mnemonic := range []string{"ASL", "LSR", "ROL", "ROR"} {
		add(mnemonic, shiftGroup)
	}
	for _, mnemonic := range []string{"INC", "DEC"} {
		add(mnemonic, incDecGroup)
	}

	// STA shares the accumulator-group addressing modes except immediate.
	// The absolute,X/absolute,Y and (zp),Y writes cost one cycle more than
	// the matching read's base count (no page-cross discount applies to a
	// store); zp,X and (zp,X) cost the same as the read.
	add("STA", []costEntry{
		{"", AddrZeroPage, 2, 3},
		{"", AddrZeroPageX, 2, 4},
		{"", AddrAbsolute, 3, 4},
		{"", AddrAbsoluteX, 3, 5},
		{"", AddrAbsoluteY, 3, 5},
		{"", AddrIndirectX, 2, 6},
		{"", AddrIndirectY, 2, 6},
	})

	add("LDX", []costEntry{
		{"", AddrImmediate, 2, 2},
		{"", AddrZeroPage, 2, 3},
		{"", AddrZeroPageY, 2, 4},
		{"", AddrAbsolute, 3, 4},
		{"", AddrAbsoluteY, 3, 4},
	})
	add("LDY", []costEntry{
		{"", AddrImmediate, 2, 2},
		{"", AddrZeroPage, 2, 3},
		{"", AddrZeroPageX, 2, 4},
		{"", AddrAbsolute, 3, 4},
		{"", AddrAbsoluteX, 3, 4},
	})
	add("STX", []costEntry{
		{"", AddrZeroPage, 2, 3},
		{"", AddrZeroPageY, 2, 4},
		{"", AddrAbsolute, 3, 4},
	})
	add("STY", []costEntry{
		{"", AddrZeroPage, 2, 3},
		{"", AddrZeroPageX, 2, 4},
		{"", AddrAbsolute, 3, 4},
	})
	add("CPX", []costEntry{
		{"", AddrImmediate, 2, 2},
		{"", AddrZeroPage, 2, 3},
		{"", AddrAbsolute, 3, 4},
	})
	add("CPY", []costEntry{
		{"", AddrImmediate, 2, 2},
		{"", AddrZeroPage, 2, 3},
		{"", AddrAbsolute, 3, 4},
	})
	add("BIT", []costEntry{
		{"", AddrZeroPage, 2, 3},
		{"", AddrAbsolute, 3, 4},
	})

	for _, mnemonic := range []string{"BCC", "BCS", "BEQ", "BMI", "BNE", "BPL", "BVC", "BVS"} {
		addSingle(mnemonic, AddrRelative, 2, 2)
	}

	for _, mnemonic := range []string{
		"CLC", "CLD", "CLI", "CLV", "SEC", "SED", "SEI",
		"DEX", "DEY", "INX", "INY", "NOP",
		"TAX", "TAY", "TSX", "TXA", "TXS", "TYA",
	} {
		addSingle(mnemonic, AddrImplied, 1, 2)
	}

	addSingle("BRK", AddrImplied, 1, 7)
	addSingle("PHA", AddrImplied, 1, 3)
	addSingle("PHP", AddrImplied, 1, 3)
	addSingle("PLA", AddrImplied, 1, 4)
	addSingle("PLP", AddrImplied, 1, 4)
	addSingle("RTI", AddrImplied, 1, 6)
	addSingle("RTS", AddrImplied, 1, 6)

	addSingle("JMP", AddrAbsolute, 3, 3)
	addSingle("JMP", AddrIndirect, 3, 5)
	addSingle("JSR", AddrAbsolute, 3, 6)

	return t
}

func lookupCost(mnemonic string, mode AddressingMode) (cost, bool) {
	modes, ok := costTable[mnemonic]
	if !ok {
		return cost{}, false
	}
	c, ok := modes[mode]
	return c, ok
}
