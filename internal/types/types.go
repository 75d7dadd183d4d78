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

// Package types implements the canonical representation of Blend65 language
// (and IL) types: the four primitives, arrays, pointers and function types,
// plus the dedicated "unknown" bottom type used to absorb type errors so a
// single mistake cannot cascade into spurious downstream diagnostics.
//
// All constructed types are immutable.  Equality is structural and
// recursive; constructors are free to intern canonical instances but are not
// required to -- callers must always compare with Equal, never with Go's
// "==".
package types

import "fmt"

// Kind identifies the top-level shape of a type.
type Kind int

// The type kinds.
const (
	KindVoid Kind = iota
	KindBool
	KindByte
	KindWord
	KindArray
	KindPointer
	KindFunction
	KindUnknown
)

// Type is the common interface implemented by every Blend65 type.
type Type interface {
	// Kind identifies which shape of type this is.
	Kind() Kind
	// Size returns the size of a value of this type, in bytes.
	Size() uint
	// Equal performs structural, recursive type equality.
	Equal(other Type) bool
	// String renders the canonical textual form of this type.
	String() string
}

// primitive implements the four primitive types (and Unknown) as simple
// singletons distinguished only by kind.
type primitive struct {
	kind Kind
}

var (
	voidSingleton    = &primitive{KindVoid}
	boolSingleton    = &primitive{KindBool}
	byteSingleton    = &primitive{KindByte}
	wordSingleton    = &primitive{KindWord}
	unknownSingleton = &primitive{KindUnknown}
)

// Void returns the singleton void type.
func Void() Type { return voidSingleton }

// Bool returns the singleton bool type.
func Bool() Type { return boolSingleton }

// Byte returns the singleton byte (unsigned 8-bit) type.
func Byte() Type { return byteSingleton }

// Word returns the singleton word (unsigned 16-bit) type.
func Word() Type { return wordSingleton }

// Unknown returns the singleton bottom type.  Unknown is compatible with
// anything and propagates silently through later passes; it is the answer
// given when a type cannot be determined because of an earlier error.
func Unknown() Type { return unknownSingleton }

func (p *primitive) Kind() Kind { return p.kind }

func (p *primitive) Size() uint {
	switch p.kind {
	case KindVoid:
		return 0
	case KindBool, KindByte:
		return 1
	case KindWord:
		return 2
	default:
		// Unknown has no fixed size; callers must never rely on it.
		return 0
	}
}

func (p *primitive) Equal(other Type) bool {
	o, ok := other.(*primitive)
	return ok && o.kind == p.kind
}

func (p *primitive) String() string {
	switch p.kind {
	case KindVoid:
		return "void"
	case KindBool:
		return "bool"
	case KindByte:
		return "byte"
	case KindWord:
		return "word"
	case KindUnknown:
		return "unknown"
	default:
		return "?"
	}
}

// IsUnknown reports whether t is the bottom type.
func IsUnknown(t Type) bool {
	return t != nil && t.Kind() == KindUnknown
}

// ArrayType is a fixed- or unsized- length array of some element type.
type ArrayType struct {
	Elem Type
	// Length is nil for an unsized array (e.g. a function parameter of array
	// type, which decays to a pointer).
	Length *uint
}

// InvalidTypeError reports a structurally malformed type construction
// request, such as a negative array length.
type InvalidTypeError struct {
	Reason string
}

func (e *InvalidTypeError) Error() string {
	return fmt.Sprintf("invalid type: %s", e.Reason)
}

// NewArrayType constructs a fixed-length array type.  A negative length is
// rejected with an InvalidTypeError.
func NewArrayType(elem Type, length int) (Type, error) {
	if length < 0 {
		return nil, &InvalidTypeError{Reason: fmt.Sprintf("negative array length %d", length)}
	}
	n := uint(length)
	return &ArrayType{Elem: elem, Length: &n}, nil
}

// NewUnsizedArrayType constructs an unsized ("open") array type, as used for
// array-typed parameters.
func NewUnsizedArrayType(elem Type) Type {
	return &ArrayType{Elem: elem, Length: nil}
}

func (a *ArrayType) Kind() Kind { return KindArray }

func (a *ArrayType) Size() uint {
	if a.Length == nil {
		// An unsized array decays to a pointer at the ABI boundary.
		return 2
	}
	return *a.Length * a.Elem.Size()
}

func (a *ArrayType) Equal(other Type) bool {
	o, ok := other.(*ArrayType)
	if !ok || !a.Elem.Equal(o.Elem) {
		return false
	}
	if a.Length == nil || o.Length == nil {
		return a.Length == nil && o.Length == nil
	}
	return *a.Length == *o.Length
}

func (a *ArrayType) String() string {
	if a.Length == nil {
		return fmt.Sprintf("%s[]", a.Elem.String())
	}
	return fmt.Sprintf("%s[%d]", a.Elem.String(), *a.Length)
}

// PointerType points at values of some other type.
type PointerType struct {
	Pointee Type
}

// NewPointerType constructs a pointer-to-pointee type.
func NewPointerType(pointee Type) Type {
	return &PointerType{Pointee: pointee}
}

func (p *PointerType) Kind() Kind { return KindPointer }
func (p *PointerType) Size() uint { return 2 }

func (p *PointerType) Equal(other Type) bool {
	o, ok := other.(*PointerType)
	return ok && p.Pointee.Equal(o.Pointee)
}

func (p *PointerType) String() string {
	return "*" + p.Pointee.String()
}

// FunctionType describes a callable's parameter and return types.  Parameter
// names are not part of the type.
type FunctionType struct {
	Params []Type
	Return Type
}

// NewFunctionType constructs a function type from the given parameter types
// and return type.
func NewFunctionType(params []Type, ret Type) Type {
	cp := make([]Type, len(params))
	copy(cp, params)
	return &FunctionType{Params: cp, Return: ret}
}

func (f *FunctionType) Kind() Kind { return KindFunction }
func (f *FunctionType) Size() uint { return 2 }

func (f *FunctionType) Equal(other Type) bool {
	o, ok := other.(*FunctionType)
	if !ok || len(f.Params) != len(o.Params) || !f.Return.Equal(o.Return) {
		return false
	}
	for i := range f.Params {
		if !f.Params[i].Equal(o.Params[i]) {
			return false
		}
	}
	return true
}

func (f *FunctionType) String() string {
	s := "("
	for i, p := range f.Params {
		if i > 0 {
			s += ", "
		}
		s += p.String()
	}
	return s + ") -> " + f.Return.String()
}
