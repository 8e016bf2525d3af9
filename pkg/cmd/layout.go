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
	"io"
	"os"
	"strings"

	cmd_util "github.com/consensys/go-etable/pkg/cmd/util"
	"github.com/consensys/go-etable/pkg/etable"
	"github.com/consensys/go-etable/pkg/util/field"
	"github.com/consensys/go-etable/pkg/util/field/bls12_377"
	"github.com/consensys/go-etable/pkg/util/field/bn254"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"golang.org/x/term"
)

// DEFAULT_WIDTH is used for tables when the output is not a terminal.
const DEFAULT_WIDTH = 80

// layoutCmd reports how the cells of each opcode plugin are laid out.
var layoutCmd = &cobra.Command{
	Use:   "layout [flags]",
	Short: "Report the cell usage of every opcode plugin.",
	Long: `Configure an event table hosting every available opcode plugin, and then
	report how many cells of each kind every plugin occupies within a step.`,
	Run: func(cmd *cobra.Command, args []string) {
		var (
			err    error
			layout = getLayout(cmd)
		)
		//
		if len(args) != 0 {
			fmt.Println(cmd.UsageString())
			os.Exit(1)
		}
		//
		switch *getFieldConfig(cmd) {
		case field.BN254:
			err = printLayout[bn254.Element](os.Stdout, layout, terminalWidth())
		case field.BLS12_377:
			err = printLayout[bls12_377.Element](os.Stdout, layout, terminalWidth())
		}
		//
		if err != nil {
			log.Error(err)
			os.Exit(3)
		}
	},
}

// Print the layout and per-plugin cell usage of an event table configured with
// every available opcode plugin.
func printLayout[F field.Element[F]](out io.Writer, layout etable.Layout, width int) error {
	stack, err := cmd_util.NewCircuitStack[F](layout)
	if err != nil {
		return err
	}
	//
	var (
		config   = stack.Config()
		cs       = stack.ConstraintSystem()
		ceilings = etable.Usage{
			Bits:         layout.StepSize - layout.BitStart,
			CommonRange:  layout.StepSize - layout.CommonRangeStart,
			Unlimited:    layout.StepSize - layout.SharedStart,
			U64:          layout.U4Columns,
			MTableLookup: layout.MTableLookupSlots(),
		}
		rows = [][]string{usageRow("available", ceilings)}
	)
	//
	for _, class := range config.Classes() {
		usage, _ := config.Usage(class)
		rows = append(rows, usageRow(class.String(), usage))
	}
	//
	fmt.Fprintf(out, "layout: %s\n", layout)
	fmt.Fprintf(out, "columns: %d advice, %d fixed\n", cs.NumAdviceColumns(), cs.NumFixedColumns())
	fmt.Fprintf(out, "constraints: %d gates, %d lookups, %d range checks (max degree %d)\n",
		len(cs.Gates()), len(cs.Lookups()), len(cs.RangeChecks()), cs.MaxDegree())
	fmt.Fprintln(out)
	printTable(out, []string{"class", "bit", "common_range", "unlimited", "u64", "mtable_lookup"}, rows, width)
	//
	return nil
}

func usageRow(name string, usage etable.Usage) []string {
	return []string{
		name,
		fmt.Sprintf("%d", usage.Bits),
		fmt.Sprintf("%d", usage.CommonRange),
		fmt.Sprintf("%d", usage.Unlimited),
		fmt.Sprintf("%d", usage.U64),
		fmt.Sprintf("%d", usage.MTableLookup),
	}
}

// Print a simple table whose columns are sized to fit their contents, and
// whose rows are truncated to fit within a given width.
func printTable(out io.Writer, header []string, rows [][]string, width int) {
	widths := make([]int, len(header))
	//
	for _, row := range append([][]string{header}, rows...) {
		for i, cell := range row {
			widths[i] = max(widths[i], len(cell))
		}
	}
	//
	line := func(row []string) {
		var builder strings.Builder
		//
		for i, cell := range row {
			if i != 0 {
				builder.WriteString(" | ")
			}
			//
			builder.WriteString(fmt.Sprintf("%-*s", widths[i], cell))
		}
		//
		fmt.Fprintln(out, truncate(builder.String(), width))
	}
	//
	line(header)
	//
	total := len(widths)*3 - 3
	for _, w := range widths {
		total += w
	}
	//
	fmt.Fprintln(out, strings.Repeat("-", min(total, width)))
	//
	for _, row := range rows {
		line(row)
	}
}

func truncate(text string, width int) string {
	if len(text) <= width {
		return text
	}
	//
	return text[:width]
}

// Determine the width of the terminal attached to stdout (if any).
func terminalWidth() int {
	fd := int(os.Stdout.Fd())
	//
	if term.IsTerminal(fd) {
		if width, _, err := term.GetSize(fd); err == nil && width > 0 {
			return width
		}
	}
	//
	return DEFAULT_WIDTH
}

func init() {
	rootCmd.AddCommand(layoutCmd)
}
