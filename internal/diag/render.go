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

import "fmt"

// FormatPlain renders a diagnostic as a single unadorned line, e.g.
// "foo.bl5:3:10: error: use of possibly uninitialized variable "x" [USE_BEFORE_INIT]".
// This exists only so tests (and a minimal CLI) have something human-readable
// to print; a full renderer (colour, source snippets, squiggly underlines) is
// the diagnostic-rendering collaborator described in spec §6 and lives outside
// this module.
func FormatPlain(d Diagnostic) string {
	return fmt.Sprintf("%s: %s: %s [%s]", d.Span.String(), d.Severity.String(), d.Message, d.Code)
}

// FormatAll renders every diagnostic in a bag, one per line, in the order
// given (SortBySpan puts them in source order first).
func FormatAll(ds []Diagnostic) []string {
	out := make([]string, len(ds))
	for i, d := range ds {
		out[i] = FormatPlain(d)
	}
	return out
}
