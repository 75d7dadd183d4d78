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
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var analyzeCmd = &cobra.Command{
	Use:   "analyze [flags] ast_file.json [dependency_file.json...]",
	Short: "run every pipeline phase and report diagnostics without emitting assembly",
	Long: `Analyze runs the same pipeline as compile, always with SSA statistics
collection enabled, but never prints assembly IL -- it exists for callers who
only care whether a program is well-formed and how the optimizer/analyses
phases behaved. As with compile, a single file runs directly while two or
more register a dependency module set resolved before compilation.`,
	Args: cobra.MinimumNArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		cfg := configFromFlags(cmd)
		cfg.CollectSSAStats = true

		result := runCompile(args, cfg)
		printDiagnostics(result.Diagnostics)
		fmt.Printf("phis inserted: %d, registers renamed: %d, dominance checks: %d\n",
			result.SSAStats.PhisInserted, result.SSAStats.RegistersRenamed, result.SSAStats.DominanceChecksPerformed)
		printTimings(cmd, result)

		if result.HasErrors() {
			os.Exit(1)
		}
	},
}

func init() {
	rootCmd.AddCommand(analyzeCmd)
}
