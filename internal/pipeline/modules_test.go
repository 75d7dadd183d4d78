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
package pipeline_test

import (
	"testing"

	"blendsdk.dev/blend65c/internal/ast"
	"blendsdk.dev/blend65c/internal/diag"
	"blendsdk.dev/blend65c/internal/module"
	"blendsdk.dev/blend65c/internal/pipeline"
)

// TestCompileModulesResolvesImportsThenRunsEntryPipeline checks that
// CompileModules runs module_resolution ahead of the entry module's normal
// phase sequence, and that a successfully-used import produces no hint.
func TestCompileModulesResolvesImportsThenRunsEntryPipeline(t *testing.T) {
	reg := module.NewRegistry()
	reg.Register("helpers", &ast.Program{
		Module: ast.ModuleDecl{Name: "helpers"},
		Declarations: []ast.Declaration{
			&ast.FuncDecl{
				Name: "helper", IsExported: true, ReturnType: &ast.TypeExpr{Name: "byte"},
				Body: &ast.BlockStmt{Stmts: []ast.Stmt{
					&ast.ReturnStmt{Value: byteLit(1)},
				}},
			},
		},
	})
	reg.Register("main", &ast.Program{
		Module: ast.ModuleDecl{Name: "main"},
		Declarations: []ast.Declaration{
			&ast.ImportDecl{Module: "helpers", Identifiers: []string{"helper"}},
			&ast.FuncDecl{
				Name: "add", ReturnType: &ast.TypeExpr{Name: "byte"},
				Params: []*ast.Param{
					{Name: "a", Type: &ast.TypeExpr{Name: "byte"}},
					{Name: "b", Type: &ast.TypeExpr{Name: "byte"}},
				},
				Body: &ast.BlockStmt{Stmts: []ast.Stmt{
					&ast.LetStmt{Name: "x", Type: &ast.TypeExpr{Name: "byte"}, Init: ident("a")},
					&ast.ExprStmt{Value: &ast.CallExpr{Callee: ident("helper")}},
					&ast.ReturnStmt{Value: &ast.BinaryExpr{Op: ast.OpAdd, Left: ident("x"), Right: ident("b")}},
				}},
			},
		},
	})

	r := pipeline.CompileModules(reg, pipeline.DefaultConfig())

	if len(r.Phases) == 0 || r.Phases[0].Name != "module_resolution" {
		t.Fatalf("expected module_resolution to run first, got phases: %v", phaseNames(r))
	}
	if !hasPhase(r, "assembly_il") {
		t.Fatalf("expected the entry module's phase sequence to run to completion, got phases: %v", phaseNames(r))
	}
	for _, d := range r.Diagnostics {
		if d.Code == diag.UnusedImport {
			t.Fatalf("did not expect an UNUSED_IMPORT diagnostic for a referenced import, got: %v", d)
		}
	}
	if r.Module == nil || r.Assembly == nil {
		t.Fatalf("expected the entry module to produce an IL module and assembly")
	}
}

// TestCompileModulesFlagsUnusedImport reproduces spec §8 scenario 6 through
// the full CompileModules entry point, rather than calling module.Resolve
// directly.
func TestCompileModulesFlagsUnusedImport(t *testing.T) {
	reg := module.NewRegistry()
	reg.Register("a", &ast.Program{
		Module:       ast.ModuleDecl{Name: "a"},
		Declarations: []ast.Declaration{&ast.FuncDecl{Name: "helper", IsExported: true, Body: &ast.BlockStmt{}}},
	})
	reg.Register("main", &ast.Program{
		Module: ast.ModuleDecl{Name: "main"},
		Declarations: []ast.Declaration{
			&ast.ImportDecl{Module: "a", Identifiers: []string{"helper"}},
			&ast.FuncDecl{Name: "main", Body: &ast.BlockStmt{}},
		},
	})

	r := pipeline.CompileModules(reg, pipeline.DefaultConfig())

	found := false
	for _, d := range r.Diagnostics {
		if d.Code == diag.UnusedImport && d.Severity == diag.Hint {
			found = true
		}
	}
	if !found {
		t.Fatalf("expected a hint-severity UNUSED_IMPORT diagnostic, got: %v", r.Diagnostics)
	}
}

// TestCompileModulesShortCircuitsOnModuleNotFound checks that a missing
// import target halts before the entry module's own pipeline ever runs.
func TestCompileModulesShortCircuitsOnModuleNotFound(t *testing.T) {
	reg := module.NewRegistry()
	reg.Register("main", &ast.Program{
		Module: ast.ModuleDecl{Name: "main"},
		Declarations: []ast.Declaration{
			&ast.ImportDecl{Module: "missing", Identifiers: []string{"x"}},
		},
	})

	r := pipeline.CompileModules(reg, pipeline.DefaultConfig())

	if !r.HasErrors() {
		t.Fatalf("expected a MODULE_NOT_FOUND error diagnostic")
	}
	if len(r.Phases) != 1 || r.Phases[0].Name != "module_resolution" {
		t.Fatalf("expected the pipeline to stop after module_resolution, got phases: %v", phaseNames(r))
	}
	if r.Module != nil {
		t.Fatalf("expected no IL module to have been produced")
	}
}
