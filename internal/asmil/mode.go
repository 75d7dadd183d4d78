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

// AddressingMode identifies one of the 6502's thirteen addressing modes.
type AddressingMode int

// Addressing modes.
const (
	AddrImplied AddressingMode = iota
	AddrAccumulator
	AddrImmediate
	AddrZeroPage
	AddrZeroPageX
	AddrZeroPageY
	AddrAbsolute
	AddrAbsoluteX
	AddrAbsoluteY
	AddrIndirect
	AddrIndirectX // (zp,X)
	AddrIndirectY // (zp),Y
	AddrRelative  // branches
)

func (m AddressingMode) String() string {
	switch m {
	case AddrImplied:
		return "implied"
	case AddrAccumulator:
		return "accumulator"
	case AddrImmediate:
		return "immediate"
	case AddrZeroPage:
		return "zeropage"
	case AddrZeroPageX:
		return "zeropage,x"
	case AddrZeroPageY:
		return "zeropage,y"
	case AddrAbsolute:
		return "absolute"
	case AddrAbsoluteX:
		return "absolute,x"
	case AddrAbsoluteY:
		return "absolute,y"
	case AddrIndirect:
		return "indirect"
	case AddrIndirectX:
		return "(indirect,x)"
	case AddrIndirectY:
		return "(indirect),y"
	case AddrRelative:
		return "relative"
	default:
		return "unknown"
	}
}
