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

// Tier fixes the order analyses run in. Tier1 analyses consult only the
// CFG; Tier2 analyses consult the call graph and loop structure; Tier3
// analyses consume Tier1/Tier2 metadata and may themselves leave metadata
// for later Tier3 passes.
type Tier int

// Tiers, in run order.
const (
	Tier1 Tier = iota
	Tier2
	Tier3
)

func (t Tier) String() string {
	switch t {
	case Tier1:
		return "tier1"
	case Tier2:
		return "tier2"
	case Tier3:
		return "tier3"
	default:
		return "unknown"
	}
}

// Analyzer is implemented by every concrete analysis
// (internal/analysis/{defassign,usage,purity,callgraph,loopinv,gvn,cse,
// complexity,deadcode}). Analyze attaches metadata on the AST nodes it
// studies and returns any diagnostics it produced; it must never panic on
// a construct it does not understand -- skipping it is always legal.
type Analyzer interface {
	Name() string
	Tier() Tier
	Analyze(ctx *Context) []diag.Diagnostic
}
