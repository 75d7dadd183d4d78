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
package loader_test

import (
	"testing"

	"blendsdk.dev/blend65c/internal/loader"
)

const manifestYAML = `
version: 1
libraries:
  - source_key: "@stdlib/string"
    path: "stdlib/string.b65"
    targets: ["c64", "c128", "x16"]
  - source_key: "@stdlib/vic"
    path: "stdlib/vic.b65"
    targets: ["c64", "c128"]
`

func TestParseManifestDecodesEntries(t *testing.T) {
	m, err := loader.ParseManifest([]byte(manifestYAML))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if m.Version != 1 {
		t.Fatalf("expected version 1, got %d", m.Version)
	}
	if len(m.Libraries) != 2 {
		t.Fatalf("expected 2 library entries, got %d", len(m.Libraries))
	}
}

func TestForTargetFiltersByTarget(t *testing.T) {
	m, err := loader.ParseManifest([]byte(manifestYAML))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	x16 := m.ForTarget("x16")
	if len(x16) != 1 || x16[0].SourceKey != "@stdlib/string" {
		t.Fatalf("expected only @stdlib/string available for x16, got %v", x16)
	}
	c64 := m.ForTarget("c64")
	if len(c64) != 2 {
		t.Fatalf("expected both entries available for c64, got %d", len(c64))
	}
}

func TestLookupFindsEntryBySourceKey(t *testing.T) {
	m, _ := loader.ParseManifest([]byte(manifestYAML))
	e, ok := m.Lookup("@stdlib/vic")
	if !ok || e.Path != "stdlib/vic.b65" {
		t.Fatalf("expected to find @stdlib/vic, got %+v (ok=%v)", e, ok)
	}
	if _, ok := m.Lookup("@stdlib/missing"); ok {
		t.Fatalf("expected no entry for an unknown source key")
	}
}

func TestMapLoaderLoadsRegisteredSource(t *testing.T) {
	l := loader.NewMapLoader(map[string]string{
		"@stdlib/string": "fn len(s: word) -> word { return 0; }",
	})
	text, err := l.Load("@stdlib/string")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if text == "" {
		t.Fatalf("expected non-empty source text")
	}

	if _, err := l.Load("@stdlib/missing"); err == nil {
		t.Fatalf("expected an error for an unregistered source key")
	}

	l.Put("@stdlib/missing", "fn f() {}")
	if _, err := l.Load("@stdlib/missing"); err != nil {
		t.Fatalf("expected Put to register the source, got error: %v", err)
	}
}

// var-implements checks Loader is actually satisfied by MapLoader at
// compile time.
var _ loader.Loader = (*loader.MapLoader)(nil)
