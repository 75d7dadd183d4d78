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

// Command blendc is a thin wrapper exercising internal/pipeline's
// programmatic entry point. It does not parse Blend65 source itself --
// lexing/parsing is an external collaborator (spec §6) -- it reads an
// already-parsed program from a JSON fixture file (internal/astjson) and
// runs it through the pipeline, printing diagnostics and phase timings.
package main

import (
	"fmt"
	"os"

	"github.com/fatih/color"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

// Version is filled in at build time via -ldflags; when it is left empty
// the root command gets no version string and so no --version flag.
var Version string

var rootCmd = &cobra.Command{
	Use:   "blendc",
	Short: "blendc drives the Blend65 compiler core",
	Long: `blendc is a thin command-line wrapper around the Blend65 compiler core.
It exists to exercise the pipeline's programmatic entry point end-to-end;
source parsing and diagnostic rendering belong to external collaborators.`,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		if GetFlag(cmd, "verbose") {
			log.SetLevel(log.DebugLevel)
		}
		color.NoColor = !interactiveColorEnabled(cmd)
	},
	Run: func(cmd *cobra.Command, args []string) {
		cmd.Help()
	},
}

// Execute runs the root command, exiting the process with status 1 on
// failure.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}

//nolint:errcheck
func init() {
	rootCmd.PersistentFlags().Bool("verbose", false, "enable debug logging and phase timing output")
	rootCmd.PersistentFlags().Bool("no-color", false, "disable colored output even on an interactive terminal")
	rootCmd.PersistentFlags().String("target", "c64", "target machine: c64, c128, x16")
	rootCmd.PersistentFlags().String("opt-level", "O0", "optimization level: O0, O1, O2, O3, Os, Oz")
	rootCmd.PersistentFlags().Bool("no-ssa", false, "disable SSA construction and verification")
	rootCmd.PersistentFlags().Bool("no-advanced-analysis", false, "run only Tier 1/2 analyses")
	rootCmd.PersistentFlags().Bool("stats", false, "collect and print SSA statistics")
}

func main() {
	if Version != "" {
		rootCmd.Version = Version
	}
	Execute()
}
