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
package pipeline

import (
	"blendsdk.dev/blend65c/internal/diag"
	"blendsdk.dev/blend65c/internal/module"
)

// CompileModules runs cross-module import resolution and unused-import
// detection (spec §3.5, §4.C) over reg before compiling the module named by
// cfg.ModuleName through the rest of the pipeline. It prepends a
// module_resolution phase to the result; a MODULE_NOT_FOUND diagnostic is
// error-severity and short-circuits everything after it, matching Compile's
// own short-circuit policy for phases whose failure makes later phases
// meaningless.
func CompileModules(reg *module.Registry, cfg CompilationConfig) *Result {
	p := &compilation{
		cfg:    cfg,
		result: &Result{Timings: Timings{Phases: make(map[string]float64)}},
		now:    defaultNow,
		since:  millisSince,
	}

	diags := p.run("module_resolution", func() (any, []diag.Diagnostic, bool) {
		resolved, rdiags := module.Resolve(reg)
		ok := true
		for _, d := range rdiags {
			if d.Severity == diag.Error {
				ok = false
			}
		}
		if ok {
			rdiags = append(rdiags, module.UnusedImports(reg, resolved)...)
		}
		return resolved, rdiags, ok
	})
	for _, d := range diags {
		if d.Severity == diag.Error {
			return p.result
		}
	}

	entry, ok := reg.Lookup(cfg.ModuleName)
	if !ok {
		p.result.Diagnostics = append(p.result.Diagnostics, diag.Errorf(diag.ModuleNotFound, diag.Span{},
			"entry module %q not found in registry", cfg.ModuleName))
		return p.result
	}

	rest := Compile(entry, cfg)
	p.result.Phases = append(p.result.Phases, rest.Phases...)
	p.result.Diagnostics = append(p.result.Diagnostics, rest.Diagnostics...)
	p.result.Module = rest.Module
	p.result.Assembly = rest.Assembly
	p.result.SSAStats = rest.SSAStats
	for name, ms := range rest.Timings.Phases {
		p.result.Timings.Phases[name] = ms
	}
	p.result.Timings.TotalMS += rest.Timings.TotalMS

	return p.result
}
