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

import "blendsdk.dev/blend65c/internal/diag"

// Orchestrator runs registered analyzers in fixed tier order, accumulating
// their diagnostics. Advanced (tier-3) analysis may be skipped entirely by
// configuration, per spec §4.E/§6's run_advanced_analysis option.
type Orchestrator struct {
	analyzers []Analyzer
	skipTier3 bool
}

// NewOrchestrator constructs an orchestrator. When skipTier3 is true, Run
// never invokes any Tier3 analyzer.
func NewOrchestrator(skipTier3 bool) *Orchestrator {
	return &Orchestrator{skipTier3: skipTier3}
}

// Register adds an analyzer to the orchestrator's pool.
func (o *Orchestrator) Register(a Analyzer) {
	o.analyzers = append(o.analyzers, a)
}

// Run executes every registered analyzer in tier order (Tier1, then Tier2,
// then Tier3 unless skipped) and returns the concatenation of every
// analyzer's diagnostics in the order they ran.
func (o *Orchestrator) Run(ctx *Context) []diag.Diagnostic {
	var out []diag.Diagnostic
	for _, tier := range []Tier{Tier1, Tier2, Tier3} {
		if tier == Tier3 && o.skipTier3 {
			continue
		}
		for _, a := range o.analyzers {
			if a.Tier() != tier {
				continue
			}
			out = append(out, a.Analyze(ctx)...)
		}
	}
	return out
}
