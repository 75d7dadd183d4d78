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

// Package pipeline sequences a single compilation from a parsed program
// through to assembly IL (spec §4.L): symbol-table construction, type
// resolution, CFG construction, analyses, IL generation, optional SSA
// construction/verification, optimization, and assembly-IL emission. Every
// phase contributes a PhaseResult; the pipeline keeps going as long as no
// error-severity diagnostic is present, short-circuiting only when a
// phase's failure makes every later phase meaningless.
package pipeline

import (
	"time"

	log "github.com/sirupsen/logrus"

	"blendsdk.dev/blend65c/internal/analysis"
	"blendsdk.dev/blend65c/internal/analysis/callgraph"
	"blendsdk.dev/blend65c/internal/analysis/complexity"
	"blendsdk.dev/blend65c/internal/analysis/cse"
	"blendsdk.dev/blend65c/internal/analysis/deadcode"
	"blendsdk.dev/blend65c/internal/analysis/defassign"
	"blendsdk.dev/blend65c/internal/analysis/gvn"
	"blendsdk.dev/blend65c/internal/analysis/loopinv"
	"blendsdk.dev/blend65c/internal/analysis/purity"
	"blendsdk.dev/blend65c/internal/analysis/usage"
	"blendsdk.dev/blend65c/internal/ast"
	"blendsdk.dev/blend65c/internal/asmil"
	"blendsdk.dev/blend65c/internal/diag"
	"blendsdk.dev/blend65c/internal/il"
	"blendsdk.dev/blend65c/internal/ilgen"
	"blendsdk.dev/blend65c/internal/optimizer"
	"blendsdk.dev/blend65c/internal/scope"
	"blendsdk.dev/blend65c/internal/ssa"
)

// Target identifies the 6502-family machine being compiled for. It selects
// memory map and cycle tables at a downstream codegen layer; the core only
// carries it through.
type Target string

// Supported targets (spec §6).
const (
	TargetC64 Target = "c64"
	TargetC128 Target = "c128"
	TargetX16 Target = "x16"
)

// CompilationConfig mirrors the teacher's corset.CompilationConfig: a plain
// struct of options set by the embedding driver, never read from a file by
// the core itself (spec §6's options table).
type CompilationConfig struct {
	Target Target
	OptimizationLevel optimizer.Level
	RunAdvancedAnalysis bool
	EnableSSA bool
	VerifySSA bool
	CollectSSAStats bool
	ModuleName string
}

// SetTarget sets the target machine, returning the receiver for chaining,
// matching the teacher's builder-returns-receiver setter idiom.
func (c CompilationConfig) SetTarget(t Target) CompilationConfig { c.Target = t; return c }

// SetOptimizationLevel sets the optimization level, returning the receiver.
func (c CompilationConfig) SetOptimizationLevel(lvl optimizer.Level) CompilationConfig {
	c.OptimizationLevel = lvl
	return c
}

// DefaultConfig returns the configuration spec §6 describes as the default:
// O0, advanced analysis and SSA construction/verification all enabled, no
// stats collection, root module named "main".
func DefaultConfig() CompilationConfig {
	return CompilationConfig{
		Target: TargetC64,
		OptimizationLevel: optimizer.O0,
		RunAdvancedAnalysis: true,
		EnableSSA: true,
		VerifySSA: true,
		CollectSSAStats: false,
		ModuleName: "main",
	}
}

// PhaseResult is the uniform shape every pipeline phase reports (spec
// §4.L): opaque phase-specific data, the diagnostics it produced, whether
// it succeeded, and how long it took.
type PhaseResult struct {
	Name string
	Data any
	Diagnostics []diag.Diagnostic
	Success bool
	TimeMS float64
}

// Timings is the per-phase and total wall-clock summary of one compilation
// (spec §5 supplement), grounded in the teacher's ad hoc timing prints in
// pkg/cmd/compile.go.
type Timings struct {
	Phases map[string]float64
	TotalMS float64
}

// Result is the outcome of one call to Compile: the phase sequence that
// ran, the final IL module (nil if IL generation never ran), the emitted
// assembly IL (nil if that phase never ran), every diagnostic across every
// phase, SSA statistics (if collected), and the timing summary.
type Result struct {
	Phases []PhaseResult
	Module *il.Module
	Assembly *asmil.Builder
	Diagnostics []diag.Diagnostic
	SSAStats ssa.Stats
	Timings Timings
}

// HasErrors reports whether any phase produced an error-severity diagnostic.
func (r *Result) HasErrors() bool {
	for _, d := range r.Diagnostics {
		if d.Severity == diag.Error {
			return true
		}
	}
	return false
}

// run executes fn, timing it and logging its outcome, and appends a
// PhaseResult to state. It returns the phase's diagnostics so the caller
// can decide whether to short-circuit.
func (p *compilation) run(name string, fn func() (any, []diag.Diagnostic, bool)) []diag.Diagnostic {
	start := p.now()
	data, diags, success := fn()
	elapsed := p.since(start)
	p.result.Phases = append(p.result.Phases, PhaseResult{
		Name: name, Data: data, Diagnostics: diags, Success: success, TimeMS: elapsed,
	})
	p.result.Diagnostics = append(p.result.Diagnostics, diags...)
	p.result.Timings.Phases[name] = elapsed
	p.result.Timings.TotalMS += elapsed

	hasError := false
	for _, d := range diags {
		if d.Severity == diag.Error {
			hasError = true
			break
		}
	}
	entry := log.WithFields(log.Fields{"phase": name, "success": success, "elapsed_ms": elapsed})
	if hasError {
		entry.Warn("phase produced error diagnostics")
	} else {
		entry.Debug("phase complete")
	}
	return diags
}

// compilation carries the mutable state threaded through Compile's phase
// sequence. It exists so `run` can time and log uniformly without every
// phase closure repeating that boilerplate.
type compilation struct {
	cfg CompilationConfig
	result *Result
	now func() time.Time
	since func(time.Time) float64
}

func defaultNow() time.Time { return time.Now() }

func millisSince(start time.Time) float64 {
	return float64(time.Since(start)) / float64(time.Millisecond)
}

// Compile runs every phase of spec §4.L's pipeline over an already-parsed
// program (parsing itself is the external collaborator's job, per spec §6).
// It always returns a non-nil Result; callers inspect Result.HasErrors and
// Result.Phases to decide what happened.
func Compile(prog *ast.Program, cfg CompilationConfig) *Result {
	p := &compilation{
		cfg: cfg,
		result: &Result{Timings: Timings{Phases: make(map[string]float64)}},
		now: defaultNow,
		since: millisSince,
	}

	var table *scope.Table

	diags := p.run("symbol_table", func() (any, []diag.Diagnostic, bool) {
		t, ds := buildSymbolTable(prog)
		table = t
		return t, ds, !hasError(ds)
	})
	if hasError(diags) {
		return p.result
	}

	p.run("type_resolution", func() (any, []diag.Diagnostic, bool) {
		ds := resolveTypes(prog, table)
		return nil, ds, true
	})

	var ctx *analysis.Context
	p.run("cfg_construction", func() (any, []diag.Diagnostic, bool) {
		ctx = analysis.NewContext(prog)
		return ctx, nil, true
	})

	p.run("analyses", func() (any, []diag.Diagnostic, bool) {
		orch := analysis.NewOrchestrator(!cfg.RunAdvancedAnalysis)
		orch.Register(defassign.New())
		orch.Register(usage.New())
		orch.Register(deadcode.New())
		orch.Register(callgraph.New())
		orch.Register(purity.New())
		orch.Register(loopinv.New())
		orch.Register(complexity.New())
		orch.Register(gvn.New())
		orch.Register(cse.New())
		ds := orch.Run(ctx)
		return nil, ds, true
	})

	var mod *il.Module
	p.run("il_generation", func() (any, []diag.Diagnostic, bool) {
		mod = ilgen.LowerModule(prog)
		if err := mod.Validate(); err != nil {
			return mod, []diag.Diagnostic{diag.Errorf(diag.InternalError, diag.Span{}, "%s", err.Error())}, false
		}
		return mod, nil, true
	})
	p.result.Module = mod
	if !lastSuccess(p.result) {
		return p.result
	}

	var stats ssa.Stats
	if cfg.EnableSSA {
		p.run("ssa_construction", func() (any, []diag.Diagnostic, bool) {
			builder := ssa.NewBuilder()
			for _, fn := range mod.Functions() {
				s := builder.Build(fn)
				if cfg.CollectSSAStats {
					stats.PhisInserted += s.PhisInserted
					stats.RegistersRenamed += s.RegistersRenamed
					stats.DominanceChecksPerformed += s.DominanceChecksPerformed
				}
			}
			return stats, nil, true
		})

		if cfg.VerifySSA {
			p.run("ssa_verification", func() (any, []diag.Diagnostic, bool) {
				var ds []diag.Diagnostic
				for _, fn := range mod.Functions() {
					ds = append(ds, ssa.Verify(fn)...)
				}
				return nil, ds, !hasError(ds)
			})
		}
	}
	if cfg.CollectSSAStats {
		p.result.SSAStats = stats
	}

	p.run("optimizer", func() (any, []diag.Diagnostic, bool) {
		s := optimizer.Run(mod, cfg.OptimizationLevel)
		return s, nil, true
	})

	if cfg.EnableSSA && cfg.VerifySSA {
		p.run("ssa_verification_post_optimize", func() (any, []diag.Diagnostic, bool) {
			var ds []diag.Diagnostic
			for _, fn := range mod.Functions() {
				ds = append(ds, ssa.Verify(fn)...)
			}
			return nil, ds, !hasError(ds)
		})
	}

	var asm *asmil.Builder
	p.run("assembly_il", func() (any, []diag.Diagnostic, bool) {
		asm = lowerModuleToAsm(mod)
		return asm, nil, true
	})
	p.result.Assembly = asm

	return p.result
}

func hasError(ds []diag.Diagnostic) bool {
	for _, d := range ds {
		if d.Severity == diag.Error {
			return true
		}
	}
	return false
}

func lastSuccess(r *Result) bool {
	if len(r.Phases) == 0 {
		return true
	}
	return r.Phases[len(r.Phases)-1].Success
}
