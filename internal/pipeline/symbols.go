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
package pipeline

import (
	"blendsdk.dev/blend65c/internal/ast"
	"blendsdk.dev/blend65c/internal/diag"
	"blendsdk.dev/blend65c/internal/ilgen"
	"blendsdk.dev/blend65c/internal/scope"
	"blendsdk.dev/blend65c/internal/types"
)

// buildSymbolTable declares every module-level name -- variables,
// constants, functions (with their parameter shapes), memory-mapped and
// zero-page globals, enum members, and imports -- into a fresh symbol
// table. Function bodies are not walked here: their locals are declared as
// type resolution descends into them, since a local's visibility and a
// local's type both depend on the same statement-by-statement walk.
func buildSymbolTable(prog *ast.Program) (*scope.Table, []diag.Diagnostic) {
	table := scope.NewTable()
	var diags []diag.Diagnostic

	declare := func(name string, site ast.Node, fn func() (*scope.Symbol, error)) {
		if _, err := fn(); err != nil {
			if _, ok := err.(*scope.AlreadyDeclaredError); ok {
				diags = append(diags, diag.Errorf(diag.AlreadyDeclared, site.Span(), "%q is already declared", name))
			}
		}
	}

	var prevEnumValue *int
	for _, d := range prog.Declarations {
		switch x := d.(type) {
		case *ast.ImportDecl:
			for _, name := range x.Identifiers {
				declare(name, x, func() (*scope.Symbol, error) {
					return table.DeclareImport(name, x, name, x.Module)
				})
			}
		case *ast.VarDecl:
			declare(x.Name, x, func() (*scope.Symbol, error) {
				return table.DeclareVariable(x.Name, x, ilgen.ResolveTypeExpr(x.Type), scope.Flags{IsExported: x.IsExported})
			})
		case *ast.ConstDecl:
			declare(x.Name, x, func() (*scope.Symbol, error) {
				return table.DeclareConstant(x.Name, x, ilgen.ResolveTypeExpr(x.Type), scope.Flags{IsExported: x.IsExported})
			})
		case *ast.MapDecl:
			declare(x.Name, x, func() (*scope.Symbol, error) {
				return table.DeclareVariable(x.Name, x, ilgen.ResolveTypeExpr(x.Type), scope.Flags{})
			})
		case *ast.ZeroPageDecl:
			declare(x.Name, x, func() (*scope.Symbol, error) {
				return table.DeclareVariable(x.Name, x, ilgen.ResolveTypeExpr(x.Type), scope.Flags{})
			})
		case *ast.EnumDecl:
			prevEnumValue = nil
			for _, m := range x.Members {
				v := 0
				if m.Value != nil {
					v = *m.Value
				} else if prevEnumValue != nil {
					v = *prevEnumValue + 1
				}
				mv := m
				declare(mv.Name, mv, func() (*scope.Symbol, error) {
					return table.DeclareEnumMember(mv.Name, mv, types.Byte(), v)
				})
				prevEnumValue = &v
			}
		case *ast.FuncDecl:
			params := make([]scope.FunctionParam, len(x.Params))
			for i, p := range x.Params {
				params[i] = scope.FunctionParam{Name: p.Name, Type: ilgen.ResolveTypeExpr(p.Type)}
			}
			fnType := types.NewFunctionType(paramTypes(params), ilgen.ResolveTypeExpr(x.ReturnType))
			declare(x.Name, x, func() (*scope.Symbol, error) {
				return table.DeclareFunction(x.Name, x, fnType, scope.Flags{IsExported: x.IsExported}, params)
			})
		}
	}

	return table, diags
}

func paramTypes(params []scope.FunctionParam) []types.Type {
	out := make([]types.Type, len(params))
	for i, p := range params {
		out[i] = p.Type
	}
	return out
}
