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
package analysis

import "blendsdk.dev/blend65c/internal/ast"

// Annotated is satisfied by anything carrying a metadata map: ast.Node and,
// via il.Instruction's Meta() method, IL instructions.
type Annotated interface {
	Meta() map[string]any
}

// Set records value under key on n. Missing metadata is always a legal,
// conservative state, so Set is the only mutator; there is no Delete.
func Set(n Annotated, key Key, value any) {
	n.Meta()[key.String()] = value
}

// Get retrieves the raw value stored under key on n.
func Get(n Annotated, key Key) (any, bool) {
	v, ok := n.Meta()[key.String()]
	return v, ok
}

// Bool retrieves a bool-valued key, defaulting to false if absent or of the
// wrong dynamic type.
func Bool(n Annotated, key Key) bool {
	v, ok := Get(n, key)
	if !ok {
		return false
	}
	b, _ := v.(bool)
	return b
}

// Int retrieves an int-valued key, defaulting to 0 if absent.
func Int(n Annotated, key Key) int {
	v, ok := Get(n, key)
	if !ok {
		return 0
	}
	i, _ := v.(int)
	return i
}

// String retrieves a string-valued key, defaulting to "" if absent.
func String(n Annotated, key Key) string {
	v, ok := Get(n, key)
	if !ok {
		return ""
	}
	s, _ := v.(string)
	return s
}

// StringSet retrieves a []string-valued key, defaulting to nil if absent.
func StringSet(n Annotated, key Key) []string {
	v, ok := Get(n, key)
	if !ok {
		return nil
	}
	s, _ := v.([]string)
	return s
}

var _ Annotated = (ast.Node)(nil)
