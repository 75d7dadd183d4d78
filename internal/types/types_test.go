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
package types_test

import (
	"testing"

	"blendsdk.dev/blend65c/internal/types"
)

func sampleTypes(t *testing.T) []types.Type {
	t.Helper()

	word10, err := types.NewArrayType(types.Byte(), 10)
	if err != nil {
		t.Fatal(err)
	}

	return []types.Type{
		types.Void(),
		types.Bool(),
		types.Byte(),
		types.Word(),
		types.Unknown(),
		word10,
		types.NewUnsizedArrayType(types.Word()),
		types.NewPointerType(types.Byte()),
		types.NewPointerType(types.NewPointerType(types.Byte())),
		types.NewFunctionType([]types.Type{types.Byte(), types.Word()}, types.Word()),
	}
}

func TestEqualityIsReflexive(t *testing.T) {
	for _, ty := range sampleTypes(t) {
		if !ty.Equal(ty) {
			t.Errorf("%s is not reflexively equal to itself", ty)
		}
	}
}

func TestEqualityIsSymmetric(t *testing.T) {
	ts := sampleTypes(t)
	for _, a := range ts {
		for _, b := range ts {
			if a.Equal(b) != b.Equal(a) {
				t.Errorf("equality not symmetric for %s vs %s", a, b)
			}
		}
	}
}

func TestEqualityIsTransitive(t *testing.T) {
	a, _ := types.NewArrayType(types.Byte(), 4)
	b, _ := types.NewArrayType(types.Byte(), 4)
	c, _ := types.NewArrayType(types.Byte(), 4)

	if !(a.Equal(b) && b.Equal(c) && a.Equal(c)) {
		t.Fatal("expected three independently constructed equal array types to be mutually equal")
	}
}

func TestSizeOf(t *testing.T) {
	cases := []struct {
		ty   types.Type
		want uint
	}{
		{types.Void(), 0},
		{types.Bool(), 1},
		{types.Byte(), 1},
		{types.Word(), 2},
		{types.NewPointerType(types.Byte()), 2},
		{types.NewFunctionType(nil, types.Void()), 2},
	}
	for _, c := range cases {
		if got := c.ty.Size(); got != c.want {
			t.Errorf("Size(%s) = %d, want %d", c.ty, got, c.want)
		}
	}

	arr, err := types.NewArrayType(types.Word(), 5)
	if err != nil {
		t.Fatal(err)
	}
	if got, want := arr.Size(), uint(10); got != want {
		t.Errorf("Size(word[5]) = %d, want %d", got, want)
	}
}

func TestNegativeArrayLengthRejected(t *testing.T) {
	_, err := types.NewArrayType(types.Byte(), -1)
	if err == nil {
		t.Fatal("expected error for negative array length")
	}
	var invalid *types.InvalidTypeError
	if !asInvalidType(err, &invalid) {
		t.Fatalf("expected InvalidTypeError, got %T: %v", err, err)
	}
}

func asInvalidType(err error, target **types.InvalidTypeError) bool {
	if e, ok := err.(*types.InvalidTypeError); ok {
		*target = e
		return true
	}
	return false
}

func TestToString(t *testing.T) {
	arr, _ := types.NewArrayType(types.Word(), 10)
	cases := []struct {
		ty   types.Type
		want string
	}{
		{types.Byte(), "byte"},
		{arr, "word[10]"},
		{types.NewUnsizedArrayType(types.Word()), "word[]"},
		{types.NewPointerType(types.Byte()), "*byte"},
		{types.NewPointerType(types.NewPointerType(types.Byte())), "**byte"},
		{types.NewFunctionType([]types.Type{types.Byte(), types.Word()}, types.Word()), "(byte, word) -> word"},
	}
	for _, c := range cases {
		if got := c.ty.String(); got != c.want {
			t.Errorf("String() = %q, want %q", got, c.want)
		}
	}
}

func TestUnknownIsBottom(t *testing.T) {
	if !types.IsUnknown(types.Unknown()) {
		t.Fatal("Unknown() should report IsUnknown")
	}
	if types.IsUnknown(types.Byte()) {
		t.Fatal("Byte() should not report IsUnknown")
	}
}
