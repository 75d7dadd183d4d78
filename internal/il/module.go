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

// Global is a module-level storage slot: a RAM local, a zero-page local, a
// fixed-address hardware register (Map), or a read-only constant.
type Global struct {
	Name    string
	Type    types.Type
	Class   StorageClass
	Address uint16 // meaningful only when Class == Map or ZeroPage with a fixed slot
}

// ExportKind distinguishes what an export binds to.
type ExportKind int

// Export kinds.
const (
	ExportFunction ExportKind = iota
	ExportGlobal
)

// Export is one (local_name, external_name, kind) triple, per spec §4.G.
type Export struct {
	LocalName    string
	ExternalName string
	Kind         ExportKind
}

// Import is one (local_name, original_name, source_module) triple.
type Import struct {
	LocalName    string
	OriginalName string
	SourceModule string
}

// Module owns a name, its functions, globals, export/import tables, and a
// free-form metadata map opaque to the optimizer (target hints, VIC/SID
// usage summaries, timing budgets).
type Module struct {
	Name     string
	Globals  []Global
	Exports  []Export
	Imports  []Import
	Metadata map[string]any

	functions     []*Function
	functionIndex map[string]int
}

// NewModule constructs an empty module with the given name.
func NewModule(name string) *Module {
	return &Module{
		Name:          name,
		Metadata:      make(map[string]any),
		functionIndex: make(map[string]int),
	}
}

// Functions returns the module's functions in declaration order.
func (m *Module) Functions() []*Function { return m.functions }

// AddFunction registers fn with the module. Panics if a function with the
// same name is already present, mirroring the teacher's register-allocation
// "cannot shadow" convention for a build-time programmer error.
func (m *Module) AddFunction(fn *Function) {
	if _, exists := m.functionIndex[fn.Name]; exists {
		panic(fmt.Sprintf("module %s: function %s already declared", m.Name, fn.Name))
	}
	m.functionIndex[fn.Name] = len(m.functions)
	m.functions = append(m.functions, fn)
}

// Function looks up a function by name.
func (m *Module) Function(name string) (*Function, bool) {
	idx, ok := m.functionIndex[name]
	if !ok {
		return nil, false
	}
	return m.functions[idx], true
}

// AddGlobal registers a module-level storage slot.
func (m *Module) AddGlobal(g Global) { m.Globals = append(m.Globals, g) }

// AddExport records an (local_name, external_name, kind) export entry.
func (m *Module) AddExport(e Export) { m.Exports = append(m.Exports, e) }

// AddImport records an (local_name, original_name, source_module) import
// entry.
func (m *Module) AddImport(i Import) { m.Imports = append(m.Imports, i) }

// Validate checks every function in the module per Function.Validate.
func (m *Module) Validate() error {
	for _, fn := range m.functions {
		if err := fn.Validate(); err != nil {
			return err
		}
	}
	return nil
}
