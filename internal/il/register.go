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

// Package il is the intermediate language core (spec §3.7, §4.G): modules
// owning functions and globals, functions owning basic blocks, blocks owning
// instructions operating on typed virtual registers.
package il

import (
	"fmt"

	"blendsdk.dev/blend65c/internal/types"
)

// RegisterID identifies a virtual register within its owning function.
type RegisterID int

// Register is an immutable handle to a typed virtual register. Instructions
// reference registers by RegisterID; the Register value itself is never
// mutated once created.
type Register struct {
	id   RegisterID
	typ  types.Type
	name string
}

// ID returns this register's identifier.
func (r Register) ID() RegisterID { return r.id }

// Type returns this register's IL type.
func (r Register) Type() types.Type { return r.typ }

// Name returns this register's debug name, or "" if anonymous.
func (r Register) Name() string { return r.name }

func (r Register) String() string {
	if r.name != "" {
		return fmt.Sprintf("%%%d(%s)", r.id, r.name)
	}
	return fmt.Sprintf("%%%d", r.id)
}

// registerFactory hands out fresh RegisterIDs for one function.
type registerFactory struct {
	next      RegisterID
	registers []Register
}

// create allocates a new register of the given type and optional debug name.
func (f *registerFactory) create(typ types.Type, name string) Register {
	reg := Register{id: f.next, typ: typ, name: name}
	f.registers = append(f.registers, reg)
	f.next++
	return reg
}

func (f *registerFactory) all() []Register {
	return f.registers
}
