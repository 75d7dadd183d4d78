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
package module

import (
	"blendsdk.dev/blend65c/internal/ast"
	"blendsdk.dev/blend65c/internal/diag"
)

// ResolvedImport records a single import that was successfully matched
// against a registered module.
type ResolvedImport struct {
	ImportingModule string
	TargetModule    string
	// Identifiers is empty for a wildcard import.
	Identifiers []string
	Node        *ast.ImportDecl
}

// Resolve runs both import-resolution passes over every program in the
// registry: pass 1 reports MODULE_NOT_FOUND for imports whose target is
// absent; pass 2 builds the resolved-imports list, skipping imports that
// failed pass 1. Self-imports are permitted at this stage (spec §4.C notes
// this is a semantic error caught elsewhere).
func Resolve(reg *Registry) ([]ResolvedImport, []diag.Diagnostic) {
	var (
		resolved []ResolvedImport
		diags    []diag.Diagnostic
	)
	for _, name := range reg.Names() {
		program, _ := reg.Lookup(name)
		for _, decl := range program.Declarations {
			imp, ok := decl.(*ast.ImportDecl)
			if !ok {
				continue
			}
			if _, ok := reg.Lookup(imp.Module); !ok {
				diags = append(diags, diag.Errorf(diag.ModuleNotFound, imp.Span(),
					"module %q not found", imp.Module))
				continue
			}
			resolved = append(resolved, ResolvedImport{
				ImportingModule: name,
				TargetModule:    imp.Module,
				Identifiers:     imp.Identifiers,
				Node:            imp,
			})
		}
	}
	return resolved, diags
}
