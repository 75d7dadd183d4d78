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

// UnusedImports compares each successfully resolved import's identifier list
// against the set of names referenced anywhere in the importing module's
// body, producing a hint-severity UNUSED_IMPORT diagnostic (never fatal) for
// each identifier that is never referenced. Wildcard imports (an empty
// Identifiers list) are never flagged, since there is no fixed set of names
// to check.
func UnusedImports(reg *Registry, resolved []ResolvedImport) []diag.Diagnostic {
	var diags []diag.Diagnostic
	byModule := make(map[string][]ResolvedImport)
	for _, r := range resolved {
		byModule[r.ImportingModule] = append(byModule[r.ImportingModule], r)
	}
	for moduleName, imports := range byModule {
		program, ok := reg.Lookup(moduleName)
		if !ok {
			continue
		}
		referenced := collectReferencedNames(program)
		for _, imp := range imports {
			if len(imp.Identifiers) == 0 {
				continue // wildcard import
			}
			for _, id := range imp.Identifiers {
				if !referenced[id] {
					diags = append(diags, diag.Hintf(diag.UnusedImport, imp.Node.Span(),
						"imported name %q is never used", id))
				}
			}
		}
	}
	return diags
}

// collectReferencedNames walks every declaration in a program and gathers
// the set of identifier names referenced anywhere within (not counting the
// import statements themselves).
func collectReferencedNames(program *ast.Program) map[string]bool {
	names := make(map[string]bool)
	for _, decl := range program.Declarations {
		switch d := decl.(type) {
		case *ast.ImportDecl:
			// skip: the import declaration itself is not a "use"
		case *ast.VarDecl:
			walkExpr(d.Init, names)
		case *ast.ConstDecl:
			walkExpr(d.Init, names)
		case *ast.FuncDecl:
			if d.Body != nil {
				walkStmt(d.Body, names)
			}
		}
	}
	return names
}

func walkExpr(e ast.Expr, names map[string]bool) {
	if e == nil {
		return
	}
	switch x := e.(type) {
	case *ast.IdentExpr:
		names[x.Name] = true
	case *ast.BinaryExpr:
		walkExpr(x.Left, names)
		walkExpr(x.Right, names)
	case *ast.UnaryExpr:
		walkExpr(x.Operand, names)
	case *ast.CallExpr:
		walkExpr(x.Callee, names)
		for _, a := range x.Args {
			walkExpr(a, names)
		}
	case *ast.IndexExpr:
		walkExpr(x.Array, names)
		walkExpr(x.Index, names)
	case *ast.MemberExpr:
		walkExpr(x.Target, names)
	case *ast.TernaryExpr:
		walkExpr(x.Cond, names)
		walkExpr(x.Then, names)
		walkExpr(x.Else, names)
	case *ast.CastExpr:
		walkExpr(x.Value, names)
	}
}

func walkStmt(s ast.Stmt, names map[string]bool) {
	if s == nil {
		return
	}
	switch x := s.(type) {
	case *ast.BlockStmt:
		for _, st := range x.Stmts {
			walkStmt(st, names)
		}
	case *ast.LetStmt:
		walkExpr(x.Init, names)
	case *ast.AssignStmt:
		walkExpr(x.Target, names)
		walkExpr(x.Value, names)
	case *ast.CompoundAssignStmt:
		walkExpr(x.Target, names)
		walkExpr(x.Value, names)
	case *ast.IfStmt:
		walkExpr(x.Cond, names)
		walkStmt(x.Then, names)
		walkStmt(x.Else, names)
	case *ast.WhileStmt:
		walkExpr(x.Cond, names)
		walkStmt(x.Body, names)
	case *ast.ForRangeStmt:
		walkExpr(x.Low, names)
		walkExpr(x.High, names)
		walkStmt(x.Body, names)
	case *ast.ReturnStmt:
		walkExpr(x.Value, names)
	case *ast.ExprStmt:
		walkExpr(x.Value, names)
	}
}
