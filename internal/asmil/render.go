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

import "fmt"

// Render formats a Builder's items as a plain-text listing, one line per
// item, in the style of a hand-written assembly source file. It exists for
// human inspection (cmd/blendc's --emit-asm output, debugging) -- the actual
// hand-off to an assembler back-end is the bytes/labels the Builder already
// tracks, not this text.
func Render(b *Builder) string {
	var out string
	for _, it := range b.Items() {
		switch x := it.(type) {
		case Label:
			out += fmt.Sprintf("%s:\n", x.Name)
		case Instruction:
			if x.Operand.Kind == NoOperand {
				out += fmt.Sprintf("\t%s\n", x.Mnemonic)
			} else {
				out += fmt.Sprintf("\t%s %s\n", x.Mnemonic, formatOperand(x))
			}
		case Origin:
			out += fmt.Sprintf("\t* = $%04X\n", x.Address)
		case Comment:
			out += fmt.Sprintf("\t; %s\n", x.Text)
		case Blank:
			out += "\n"
		case Raw:
			out += fmt.Sprintf("\t%s\n", x.Text)
		}
	}
	return out
}

// formatOperand renders an instruction's operand under its addressing mode,
// e.g. "#$01", "$C000", "$0002,X" -- Operand.String doesn't know the
// addressing mode, so indexed/indirect modes are spelled out here instead.
func formatOperand(inst Instruction) string {
	base := inst.Operand.String()
	switch inst.Mode {
	case AddrZeroPageX, AddrAbsoluteX:
		return base + ",X"
	case AddrZeroPageY, AddrAbsoluteY:
		return base + ",Y"
	case AddrIndirectX:
		return "(" + base + ",X)"
	case AddrIndirectY:
		return "(" + base + "),Y"
	case AddrIndirect:
		return "(" + base + ")"
	default:
		return base
	}
}
