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
package diag

import (
	"fmt"
	"sort"
)

// Diagnostic is a single reportable problem (or informational note) attached
// to a source span.  Diagnostics are data, not errors: a phase collects as
// many as it finds and keeps going.
type Diagnostic struct {
	Code     Code
	Severity Severity
	Message  string
	Span     Span
	Related  []Diagnostic
}

// New constructs a diagnostic at the given severity.
func New(code Code, severity Severity, span Span, format string, args ...any) Diagnostic {
	return Diagnostic{Code: code, Severity: severity, Message: fmt.Sprintf(format, args...), Span: span}
}

// Errorf constructs an error-severity diagnostic.
func Errorf(code Code, span Span, format string, args ...any) Diagnostic {
	return New(code, Error, span, format, args...)
}

// Warnf constructs a warning-severity diagnostic.
func Warnf(code Code, span Span, format string, args ...any) Diagnostic {
	return New(code, Warning, span, format, args...)
}

// Hintf constructs a hint-severity diagnostic.
func Hintf(code Code, span Span, format string, args ...any) Diagnostic {
	return New(code, Hint, span, format, args...)
}

// Error implements the error interface, allowing a Diagnostic to be used
// wherever a single Go error is convenient (e.g. in tests).
func (d Diagnostic) Error() string {
	return fmt.Sprintf("%s: %s [%s]", d.Span.String(), d.Message, d.Code)
}

// Bag is an append-only, ordered collection of diagnostics produced by a
// single compilation.  Ordering is stable and matches source order of the
// triggering construct.
type Bag struct {
	items []Diagnostic
}

// Add appends a diagnostic to the bag.
func (b *Bag) Add(d Diagnostic) {
	b.items = append(b.items, d)
}

// Addf is a convenience wrapper around Add+New.
func (b *Bag) Addf(code Code, severity Severity, span Span, format string, args ...any) {
	b.Add(New(code, severity, span, format, args...))
}

// Extend appends every diagnostic from another bag (or slice) preserving
// order.
func (b *Bag) Extend(ds []Diagnostic) {
	b.items = append(b.items, ds...)
}

// All returns every diagnostic recorded so far, in source order.
func (b *Bag) All() []Diagnostic {
	return b.items
}

// HasErrors reports whether any error-severity diagnostic has been recorded.
func (b *Bag) HasErrors() bool {
	for _, d := range b.items {
		if d.Severity == Error {
			return true
		}
	}
	return false
}

// SortBySpan sorts diagnostics by source name, then by their span's starting
// offset within the same source. This is used to guarantee stable, source-ordered output
// even when diagnostics are appended out of traversal order (e.g. when two
// independent analyses both report on the same function in different passes).
func SortBySpan(ds []Diagnostic) {
	sort.SliceStable(ds, func(i, j int) bool {
		if ds[i].Span.Source != ds[j].Span.Source {
			return ds[i].Span.Source < ds[j].Span.Source
		}
		return ds[i].Span.Start.Offset < ds[j].Span.Start.Offset
	})
}
