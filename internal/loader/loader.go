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

// Package loader models the external library-loader boundary (spec §6):
// disk access itself is out of scope, but the pipeline still depends on a
// Loader that hands back `@stdlib/`-rooted source text keyed by source_key,
// and on a manifest describing which library files exist for a given
// target. LibraryManifest is the YAML-decoded shape of that manifest;
// MapLoader is a pure in-memory test double standing in for whatever reads
// the real filesystem/network in production.
package loader

import (
	"fmt"

	"gopkg.in/yaml.v3"
)

// LibraryEntry describes one library source file available to a target.
type LibraryEntry struct {
	SourceKey string   `yaml:"source_key"`
	Path      string   `yaml:"path"`
	Targets   []string `yaml:"targets"`
}

// LibraryManifest is the YAML-decoded description of every library source
// file the loader can hand back, across every supported target.
type LibraryManifest struct {
	Version   int            `yaml:"version"`
	Libraries []LibraryEntry `yaml:"libraries"`
}

// ParseManifest decodes a LibraryManifest from raw YAML text.
func ParseManifest(data []byte) (*LibraryManifest, error) {
	var m LibraryManifest
	if err := yaml.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("loader: parse manifest: %w", err)
	}
	return &m, nil
}

// ForTarget returns every entry in the manifest available to target.
func (m *LibraryManifest) ForTarget(target string) []LibraryEntry {
	var out []LibraryEntry
	for _, e := range m.Libraries {
		for _, t := range e.Targets {
			if t == target {
				out = append(out, e)
				break
			}
		}
	}
	return out
}

// Lookup returns the manifest entry for sourceKey, if any.
func (m *LibraryManifest) Lookup(sourceKey string) (LibraryEntry, bool) {
	for _, e := range m.Libraries {
		if e.SourceKey == sourceKey {
			return e, true
		}
	}
	return LibraryEntry{}, false
}

// Loader resolves a source_key (e.g. "@stdlib/string") to its source text.
// The pipeline treats a call to Load as a single atomic, synchronous step
// (spec §5): it never suspends partway through.
type Loader interface {
	Load(sourceKey string) (text string, err error)
}

// MapLoader is a pure in-memory Loader, standing in for whatever reads the
// real filesystem or network in production -- a test double, not a cut-down
// implementation of the real thing.
type MapLoader struct {
	sources map[string]string
}

// NewMapLoader builds a MapLoader from a ready-made source_key -> text map.
func NewMapLoader(sources map[string]string) *MapLoader {
	if sources == nil {
		sources = make(map[string]string)
	}
	return &MapLoader{sources: sources}
}

// Load returns the registered text for sourceKey, or an error if absent.
func (m *MapLoader) Load(sourceKey string) (string, error) {
	text, ok := m.sources[sourceKey]
	if !ok {
		return "", fmt.Errorf("loader: unknown source %q", sourceKey)
	}
	return text, nil
}

// Put registers (or replaces) the text for sourceKey.
func (m *MapLoader) Put(sourceKey, text string) {
	m.sources[sourceKey] = text
}
