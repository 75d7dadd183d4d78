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

// Package diag defines the diagnostic and source-location data model shared by
// every compilation phase.  Diagnostics are modelled as plain data (never as Go
// errors crossing phase boundaries) so that a phase can report many problems
// and keep going.
package diag

import "fmt"

// Position identifies a single character within a source file.  Lines and
// columns are 1-based; offsets are 0-based byte offsets into the file.
type Position struct {
	Line   int
	Column int
	Offset int
}

// String renders a position as "line:column".
func (p Position) String() string {
	return fmt.Sprintf("%d:%d", p.Line, p.Column)
}

// Span is a contiguous range within a named source.  Start and End are
// inclusive/exclusive in the same sense as Go slice bounds: End denotes one
// past the final character covered.
type Span struct {
	Source string
	Start  Position
	End    Position
}

// NewSpan constructs a span within the given named source.
func NewSpan(source string, start, end Position) Span {
	return Span{Source: source, Start: start, End: end}
}

// String renders a span as "source:startLine:startCol".
func (s Span) String() string {
	if s.Source == "" {
		return s.Start.String()
	}
	return fmt.Sprintf("%s:%s", s.Source, s.Start.String())
}
