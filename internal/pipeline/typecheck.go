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

// typeResolver walks every function body once, extending the symbol table
// with parameter and local-variable scopes as it descends (no separate
// driver in internal/scope builds these -- declaring a local and resolving
// its initializer's type happen in the same statement-by-statement walk)
// and assigning a types.Type to every expression node via ast's SetType.
type typeResolver struct {
	table *scope.Table
	diags []diag.Diagnostic
	returnType types.Type
}

// resolveTypes runs the type-resolution phase over every function declared
// in prog, using the module-level symbol table built by buildSymbolTable.
func resolveTypes(prog *ast.Program, table *scope.Table) []diag.Diagnostic {
	r := &typeResolver{table: table}

	for _, d := range prog.Declarations {
		switch x := d.(type) {
		case *ast.VarDecl:
			if x.Init != nil {
				r.resolveExpr(x.Init)
			}
		case *ast.ConstDecl:
			if x.Init != nil {
				r.resolveExpr(x.Init)
			}
		case *ast.FuncDecl:
			r.resolveFunc(x)
		}
	}
	return r.diags
}

func (r *typeResolver) errorf(code diag.Code, span diag.Span, format string, args ...any) {
	r.diags = append(r.diags, diag.Errorf(code, span, format, args...))
}

func (r *typeResolver) resolveFunc(x *ast.FuncDecl) {
	fnSym, _ := r.table.LookupGlobal(x.Name)
	r.table.EnterFunctionScope(fnSym)
	defer r.table.ExitScope()

	for _, p := range x.Params {
		ty := ilgen.ResolveTypeExpr(p.Type)
		if _, err := r.table.DeclareParameter(p.Name, p, ty); err != nil {
			r.errorf(diag.AlreadyDeclared, p.Span(), "parameter %q already declared", p.Name)
		}
	}

	prevReturn := r.returnType
	r.returnType = ilgen.ResolveTypeExpr(x.ReturnType)
	r.resolveStmts(x.Body.Stmts)
	r.returnType = prevReturn
}

func (r *typeResolver) resolveBlock(b *ast.BlockStmt) {
	r.table.EnterBlockScope()
	defer r.table.ExitScope()
	r.resolveStmts(b.Stmts)
}

func (r *typeResolver) resolveLoopBlock(b *ast.BlockStmt) {
	r.table.EnterLoopScope()
	defer r.table.ExitScope()
	r.resolveStmts(b.Stmts)
}

func (r *typeResolver) resolveStmts(stmts []ast.Stmt) {
	for _, s := range stmts {
		r.resolveStmt(s)
	}
}

func (r *typeResolver) resolveStmt(s ast.Stmt) {
	switch x := s.(type) {
	case *ast.LetStmt:
		var ty types.Type
		if x.Init != nil {
			ty = r.resolveExpr(x.Init)
		}
		if x.Type != nil {
			ty = ilgen.ResolveTypeExpr(x.Type)
		}
		if ty == nil {
			ty = types.Unknown()
		}
		if _, err := r.table.DeclareVariable(x.Name, x, ty, scope.Flags{}); err != nil {
			r.errorf(diag.AlreadyDeclared, x.Span(), "%q already declared", x.Name)
		}
	case *ast.AssignStmt:
		r.resolveExpr(x.Target)
		r.resolveExpr(x.Value)
	case *ast.CompoundAssignStmt:
		r.resolveExpr(x.Target)
		r.resolveExpr(x.Value)
	case *ast.IfStmt:
		r.resolveExpr(x.Cond)
		r.resolveBlock(x.Then)
		switch e := x.Else.(type) {
		case *ast.BlockStmt:
			r.resolveBlock(e)
		case *ast.IfStmt:
			r.resolveStmt(e)
		}
	case *ast.WhileStmt:
		r.resolveExpr(x.Cond)
		r.resolveLoopBlock(x.Body)
	case *ast.ForRangeStmt:
		r.resolveExpr(x.Low)
		r.resolveExpr(x.High)
		r.table.EnterLoopScope()
		r.table.DeclareVariable(x.Var, x, types.Word(), scope.Flags{})
		r.resolveStmts(x.Body.Stmts)
		r.table.ExitScope()
	case *ast.ReturnStmt:
		if x.Value != nil {
			ty := r.resolveExpr(x.Value)
			if r.returnType != nil && !types.IsUnknown(ty) && !types.IsUnknown(r.returnType) && !ty.Equal(r.returnType) {
				r.errorf(diag.TypeMismatch, x.Span(), "returns %s, expected %s", ty, r.returnType)
			}
		}
	case *ast.ExprStmt:
		r.resolveExpr(x.Value)
	case *ast.BlockStmt:
		r.resolveBlock(x)
	}
}

// resolveExpr assigns a type to e (via its embedded typed.SetType) and
// returns it, recursively resolving every subexpression first.
func (r *typeResolver) resolveExpr(e ast.Expr) types.Type {
	setter, hasSetter := e.(interface{ SetType(types.Type) })

	var ty types.Type
	switch x := e.(type) {
	case *ast.LiteralExpr:
		ty = r.resolveLiteral(x)
	case *ast.IdentExpr:
		ty = r.resolveIdent(x)
	case *ast.BinaryExpr:
		ty = r.resolveBinary(x)
	case *ast.UnaryExpr:
		ty = r.resolveUnary(x)
	case *ast.CallExpr:
		ty = r.resolveCall(x)
	case *ast.IndexExpr:
		ty = r.resolveIndex(x)
	case *ast.MemberExpr:
		r.resolveExpr(x.Target)
		ty = types.Unknown()
	case *ast.TernaryExpr:
		r.resolveExpr(x.Cond)
		thenTy := r.resolveExpr(x.Then)
		elseTy := r.resolveExpr(x.Else)
		ty = wider(thenTy, elseTy)
	case *ast.CastExpr:
		r.resolveExpr(x.Value)
		ty = ilgen.ResolveTypeExpr(x.Target)
	default:
		ty = types.Unknown()
	}

	if hasSetter {
		setter.SetType(ty)
	}
	return ty
}

func (r *typeResolver) resolveLiteral(x *ast.LiteralExpr) types.Type {
	switch x.Kind {
	case ast.LitByte:
		return types.Byte()
	case ast.LitWord:
		return types.Word()
	case ast.LitBool:
		return types.Bool()
	case ast.LitString:
		if s, ok := x.Value.(string); ok {
			if t, err := types.NewArrayType(types.Byte(), len(s)); err == nil {
				return t
			}
		}
		return types.Unknown()
	default:
		return types.Unknown()
	}
}

func (r *typeResolver) resolveIdent(x *ast.IdentExpr) types.Type {
	sym, ok := r.table.Lookup(r.table.Current(), x.Name)
	if !ok {
		r.errorf(diag.UndefinedSymbol, x.Span(), "undefined symbol %q", x.Name)
		return types.Unknown()
	}
	if !sym.HasType() {
		return types.Unknown()
	}
	return sym.Type
}

func (r *typeResolver) resolveBinary(x *ast.BinaryExpr) types.Type {
	left := r.resolveExpr(x.Left)
	right := r.resolveExpr(x.Right)
	switch x.Op {
	case ast.OpEq, ast.OpNe, ast.OpLt, ast.OpLe, ast.OpGt, ast.OpGe, ast.OpLogicalAnd, ast.OpLogicalOr:
		return types.Bool()
	default:
		return wider(left, right)
	}
}

func (r *typeResolver) resolveUnary(x *ast.UnaryExpr) types.Type {
	operand := r.resolveExpr(x.Operand)
	switch x.Op {
	case ast.OpAddressOf:
		return types.NewPointerType(operand)
	case ast.OpDeref:
		if p, ok := operand.(*types.PointerType); ok {
			return p.Pointee
		}
		r.errorf(diag.InvalidOperandType, x.Span(), "cannot dereference non-pointer type %s", operand)
		return types.Unknown()
	default:
		return operand
	}
}

func (r *typeResolver) resolveCall(x *ast.CallExpr) types.Type {
	for _, a := range x.Args {
		r.resolveExpr(a)
	}
	name, ok := calleeName(x.Callee)
	if !ok {
		r.resolveExpr(x.Callee)
		return types.Unknown()
	}
	sym, ok := r.table.Lookup(r.table.Current(), name)
	if !ok {
		r.errorf(diag.UndefinedSymbol, x.Span(), "call to undefined function %q", name)
		return types.Unknown()
	}
	fnType, ok := sym.Type.(*types.FunctionType)
	if !ok {
		return types.Unknown()
	}
	return fnType.Return
}

func calleeName(e ast.Expr) (string, bool) {
	id, ok := e.(*ast.IdentExpr)
	if !ok {
		return "", false
	}
	return id.Name, true
}

func (r *typeResolver) resolveIndex(x *ast.IndexExpr) types.Type {
	arrTy := r.resolveExpr(x.Array)
	r.resolveExpr(x.Index)
	if arr, ok := arrTy.(*types.ArrayType); ok {
		return arr.Elem
	}
	r.errorf(diag.InvalidOperandType, x.Span(), "cannot index non-array type %s", arrTy)
	return types.Unknown()
}

// wider mirrors internal/ilgen's byte/word promotion rule: word wins over
// byte, matching the IL's implicit-widen-only policy.
func wider(a, b types.Type) types.Type {
	if a != nil && a.Kind() == types.KindWord {
		return types.Word()
	}
	if b != nil && b.Kind() == types.KindWord {
		return types.Word()
	}
	if a != nil {
		return a
	}
	return b
}
