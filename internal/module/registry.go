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

// Package module implements the cross-module import resolver and module
// registry (spec §3.5, §4.C): resolving imports against a registry of
// parsed programs, and flagging imported identifiers that are never
// referenced.
package module

import "blendsdk.dev/blend65c/internal/ast"

// Registry maps fully-qualified, dot-separated module names to their parsed
// programs.
type Registry struct {
	programs map[string]*ast.Program
	// order preserves registration order, so resolution (and its
	// diagnostics) is deterministic across runs.
	order []string
}

// NewRegistry constructs an empty module registry.
func NewRegistry() *Registry {
	return &Registry{programs: make(map[string]*ast.Program)}
}

// Register adds a parsed program under the given fully-qualified module
// name.
func (r *Registry) Register(name string, program *ast.Program) {
	if _, ok := r.programs[name]; !ok {
		r.order = append(r.order, name)
	}
	r.programs[name] = program
}

// Lookup returns the program registered under name, if any.
func (r *Registry) Lookup(name string) (*ast.Program, bool) {
	p, ok := r.programs[name]
	return p, ok
}

// Names returns every registered module name, in registration order.
func (r *Registry) Names() []string {
	out := make([]string, len(r.order))
	copy(out, r.order)
	return out
}
