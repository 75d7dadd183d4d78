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
package module_test

import (
	"testing"

	"blendsdk.dev/blend65c/internal/ast"
	"blendsdk.dev/blend65c/internal/diag"
	"blendsdk.dev/blend65c/internal/module"
)

func TestModuleNotFound(t *testing.T) {
	reg := module.NewRegistry()
	reg.Register("a", &ast.Program{
		Declarations: []ast.Declaration{
			&ast.ImportDecl{Module: "missing", Identifiers: []string{"x"}},
		},
	})
	_, diags := module.Resolve(reg)
	if len(diags) != 1 || diags[0].Code != diag.ModuleNotFound {
		t.Fatalf("expected one MODULE_NOT_FOUND diagnostic, got %v", diags)
	}
}

// TestUnusedImport reproduces spec §8 scenario 6: module A exports helper;
// module B imports helper and never references it.
func TestUnusedImport(t *testing.T) {
	reg := module.NewRegistry()
	reg.Register("a", &ast.Program{
		Declarations: []ast.Declaration{
			&ast.FuncDecl{Name: "helper", IsExported: true, Body: &ast.BlockStmt{}},
		},
	})
	reg.Register("b", &ast.Program{
		Declarations: []ast.Declaration{
			&ast.ImportDecl{Module: "a", Identifiers: []string{"helper"}},
			&ast.FuncDecl{Name: "main", Body: &ast.BlockStmt{}},
		},
	})

	resolved, diags := module.Resolve(reg)
	if len(diags) != 0 {
		t.Fatalf("expected no resolution errors, got %v", diags)
	}
	unused := module.UnusedImports(reg, resolved)
	if len(unused) != 1 {
		t.Fatalf("expected exactly one UNUSED_IMPORT diagnostic, got %d: %v", len(unused), unused)
	}
	if unused[0].Severity != diag.Hint {
		t.Fatalf("expected hint severity, got %v", unused[0].Severity)
	}
	if unused[0].Code != diag.UnusedImport {
		t.Fatalf("expected UNUSED_IMPORT code, got %v", unused[0].Code)
	}
}

func TestWildcardImportNeverFlagged(t *testing.T) {
	reg := module.NewRegistry()
	reg.Register("a", &ast.Program{})
	reg.Register("b", &ast.Program{
		Declarations: []ast.Declaration{
			&ast.ImportDecl{Module: "a", Wildcard: true},
		},
	})
	resolved, _ := module.Resolve(reg)
	if len(resolved) != 1 || len(resolved[0].Identifiers) != 0 {
		t.Fatalf("expected one wildcard import with empty identifier list")
	}
	if unused := module.UnusedImports(reg, resolved); len(unused) != 0 {
		t.Fatalf("wildcard imports must never be flagged, got %v", unused)
	}
}
