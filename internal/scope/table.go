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
package scope

import (
	"fmt"

	"blendsdk.dev/blend65c/internal/types"
)

// AlreadyDeclaredError reports that a symbol was declared twice in the same
// scope.
type AlreadyDeclaredError struct {
	Name     string
	Existing *Symbol
}

func (e *AlreadyDeclaredError) Error() string {
	return fmt.Sprintf("%q already declared in this scope", e.Name)
}

// ExitModuleScopeError reports an attempt to exit the module (root) scope,
// which is a programmer/compiler-internal error (spec §9).
type ExitModuleScopeError struct{}

func (e *ExitModuleScopeError) Error() string {
	return "cannot exit the module scope"
}

// Table is the symbol table: the scope tree plus a cursor tracking the scope
// currently being populated. Lookup is O(scope depth); tables grow
// monotonically and never shrink.
type Table struct {
	root    *Scope
	current *Scope
}

// NewTable constructs a table with a single, empty module (root) scope.
func NewTable() *Table {
	root := &Scope{kind: ModuleScope, symbols: make(map[string]*Symbol)}
	return &Table{root: root, current: root}
}

// Root returns the module (root) scope.
func (t *Table) Root() *Scope { return t.root }

// Current returns the scope currently being populated.
func (t *Table) Current() *Scope { return t.current }

func (t *Table) declare(kind SymbolKind, name string, site any, ty types.Type, flags Flags, payload any) (*Symbol, error) {
	sym := &Symbol{Name: name, Kind: kind, Site: site, Type: ty, Flags: flags, Payload: payload}
	existing, ok := t.current.declareLocal(name, sym)
	if !ok {
		return existing, &AlreadyDeclaredError{Name: name, Existing: existing}
	}
	return sym, nil
}

// DeclareVariable declares a new variable in the current scope.
func (t *Table) DeclareVariable(name string, site any, ty types.Type, flags Flags) (*Symbol, error) {
	return t.declare(Variable, name, site, ty, flags, nil)
}

// DeclareConstant declares a new constant in the current scope.
func (t *Table) DeclareConstant(name string, site any, ty types.Type, flags Flags) (*Symbol, error) {
	flags.IsConst = true
	return t.declare(Constant, name, site, ty, flags, nil)
}

// DeclareParameter declares a function parameter in the current (function)
// scope. Parameters are treated as definitely initialized at function entry
// (spec §4.F).
func (t *Table) DeclareParameter(name string, site any, ty types.Type) (*Symbol, error) {
	return t.declare(Parameter, name, site, ty, Flags{}, nil)
}

// DeclareFunction declares a function in the current scope.
func (t *Table) DeclareFunction(name string, site any, ty types.Type, flags Flags, params []FunctionParam) (*Symbol, error) {
	return t.declare(Function, name, site, ty, flags, &FunctionPayload{Params: params})
}

// DeclareImport declares an imported name in the current scope, recording
// the original name and source module it was imported from.
func (t *Table) DeclareImport(name string, site any, originalName, sourceModule string) (*Symbol, error) {
	return t.declare(Imported, name, site, nil, Flags{}, &ImportPayload{OriginalName: originalName, SourceModule: sourceModule})
}

// DeclareEnumMember declares a member of an enum in the current scope.
func (t *Table) DeclareEnumMember(name string, site any, ty types.Type, value int) (*Symbol, error) {
	return t.declare(EnumMember, name, site, ty, Flags{IsConst: true}, value)
}

// EnterFunctionScope pushes a new function scope owned by fn.
func (t *Table) EnterFunctionScope(fn *Symbol) *Scope {
	child := newChild(t.current, FunctionScope)
	child.owningFunction = fn
	t.current = child
	return child
}

// EnterBlockScope pushes a new, plain nested scope.
func (t *Table) EnterBlockScope() *Scope {
	child := newChild(t.current, BlockScope)
	t.current = child
	return child
}

// EnterLoopScope pushes a new scope whose loop-depth counter is one more
// than its parent's.
func (t *Table) EnterLoopScope() *Scope {
	child := newChild(t.current, LoopScope)
	t.current = child
	return child
}

// ExitScope pops back to the parent of the current scope. It is an error to
// exit the module (root) scope.
func (t *Table) ExitScope() error {
	if t.current.parent == nil {
		return &ExitModuleScopeError{}
	}
	t.current = t.current.parent
	return nil
}

// LookupLocal looks up name in the given scope only (no ancestor walk).
func (t *Table) LookupLocal(s *Scope, name string) (*Symbol, bool) {
	return s.lookupLocal(name)
}

// Lookup walks from s up through ancestors, returning the nearest
// definition.
func (t *Table) Lookup(s *Scope, name string) (*Symbol, bool) {
	return s.lookup(name)
}

// LookupGlobal looks up name in the module (root) scope only.
func (t *Table) LookupGlobal(name string) (*Symbol, bool) {
	return t.root.lookupLocal(name)
}

// IsInLoop reports whether the current scope is nested within a loop.
func (t *Table) IsInLoop() bool {
	return t.current.loopDepth > 0
}

// IsInFunction reports whether the current scope is nested within a
// function.
func (t *Table) IsInFunction() bool {
	return t.current.owningFunction != nil
}

// CurrentFunction returns the symbol of the function enclosing the current
// scope, or nil if not in a function.
func (t *Table) CurrentFunction() *Symbol {
	return t.current.owningFunction
}

// ExportedSymbols returns every exported symbol declared at module scope.
func (t *Table) ExportedSymbols() []*Symbol {
	var out []*Symbol
	for _, sym := range t.root.localSymbols() {
		if sym.Flags.IsExported {
			out = append(out, sym)
		}
	}
	return out
}

// FunctionSymbols returns every function symbol declared at module scope, in
// declaration order.
func (t *Table) FunctionSymbols() []*Symbol {
	var out []*Symbol
	for _, sym := range t.root.localSymbols() {
		if sym.Kind == Function {
			out = append(out, sym)
		}
	}
	return out
}

// SymbolsByKind returns every symbol of the given kind within scope (or, if
// scope is nil, within the entire module scope's direct symbols).
func (t *Table) SymbolsByKind(kind SymbolKind, s *Scope) []*Symbol {
	if s == nil {
		s = t.root
	}
	var out []*Symbol
	for _, sym := range s.localSymbols() {
		if sym.Kind == kind {
			out = append(out, sym)
		}
	}
	return out
}
