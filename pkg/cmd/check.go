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
package cmd

import (
	"fmt"
	"os"
	"runtime"

	cmd_util "github.com/consensys/go-etable/pkg/cmd/util"
	"github.com/consensys/go-etable/pkg/etable"
	"github.com/consensys/go-etable/pkg/util/field"
	"github.com/consensys/go-etable/pkg/util/field/bls12_377"
	"github.com/consensys/go-etable/pkg/util/field/bn254"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

// checkCmd represents the check command
var checkCmd = &cobra.Command{
	Use:   "check [flags] trace_file",
	Short: "Check a given trace against the event table.",
	Long: `Check a given trace against an event table hosting every available opcode
	plugin.  Traces are given as JSON files holding an array of event table entries.`,
	Run: func(cmd *cobra.Command, args []string) {
		var (
			cfg    checkConfig
			ok     bool
			layout = getLayout(cmd)
		)
		//
		if len(args) != 1 {
			fmt.Println(cmd.UsageString())
			os.Exit(1)
		}
		//
		cfg.padding = GetUint(cmd, "padding")
		cfg.parallelism = GetUint(cmd, "parallelism")
		cfg.report = GetFlag(cmd, "report")
		// Parse trace
		entries := readTraceFile(args[0])
		// Go!
		switch *getFieldConfig(cmd) {
		case field.BN254:
			ok = checkTrace[bn254.Element](entries, layout, cfg)
		case field.BLS12_377:
			ok = checkTrace[bls12_377.Element](entries, layout, cfg)
		}
		//
		if !ok {
			os.Exit(3)
		}
	},
}

// check config encapsulates certain parameters to be used when checking
// traces.
type checkConfig struct {
	// Number of padding steps to append after the trace.
	padding uint
	// Maximum number of steps assigned concurrently.  Steps are assigned
	// sequentially when this is 0 or 1.
	parallelism uint
	// Specifies whether or not to report details of every failure (e.g. for
	// debugging purposes).
	report bool
}

// Check a given trace against an event table, reporting any failures.  This
// returns true when the trace is accepted.
func checkTrace[F field.Element[F]](entries []etable.EventTableEntry, layout etable.Layout, cfg checkConfig) bool {
	stack, err := cmd_util.NewCircuitStack[F](layout)
	if err != nil {
		log.Error(err)
		return false
	}
	//
	failures, err := stack.Check(entries, cfg.padding, cfg.parallelism)
	if err != nil {
		log.Errorf("trace rejected: %v", err)
		return false
	} else if len(failures) == 0 {
		log.Infof("trace accepted (%d steps)", len(entries))
		return true
	}
	//
	if cfg.report {
		for _, failure := range failures {
			log.Error(failure.Message())
		}
	} else {
		log.Errorf("trace rejected: %s (and %d more failures)", failures[0].Message(), len(failures)-1)
	}
	//
	return false
}

func init() {
	rootCmd.AddCommand(checkCmd)
	checkCmd.Flags().Uint("padding", 0, "specify amount of (additional) padding steps to apply")
	checkCmd.Flags().Uint("parallelism", uint(runtime.NumCPU()),
		"maximum number of steps assigned concurrently (0 or 1 for sequential)")
	checkCmd.Flags().Bool("report", false, "report details of every failure")
}
