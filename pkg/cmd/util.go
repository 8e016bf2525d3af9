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

	"github.com/consensys/go-etable/pkg/etable"
	"github.com/consensys/go-etable/pkg/trace/json"
	"github.com/consensys/go-etable/pkg/util/field"
	"github.com/spf13/cobra"
)

// GetFlag gets an expected flag, or panic if an error arises.
func GetFlag(cmd *cobra.Command, flag string) bool {
	r, err := cmd.Flags().GetBool(flag)
	if err != nil {
		fmt.Println(err)
		os.Exit(2)
	}

	return r
}

// GetUint gets an expected unsigned integer, or panic if an error arises.
func GetUint(cmd *cobra.Command, flag string) uint {
	r, err := cmd.Flags().GetUint(flag)
	if err != nil {
		fmt.Println(err)
		os.Exit(2)
	}

	return r
}

// GetString gets an expected string, or panic if an error arises.
func GetString(cmd *cobra.Command, flag string) string {
	r, err := cmd.Flags().GetString(flag)
	if err != nil {
		fmt.Println(err)
		os.Exit(2)
	}

	return r
}

// Determine the prime field selected on the command line, or exit if it is not
// recognised.
func getFieldConfig(cmd *cobra.Command) *field.Config {
	name := GetString(cmd, "field")
	config := field.GetConfig(name)
	//
	if config == nil {
		fmt.Printf("unknown prime field \"%s\"\n", name)
		os.Exit(2)
	}
	//
	return config
}

// Determine the step layout selected on the command line (i.e. via a config
// file and/or the environment), or exit if it is malformed.
func getLayout(cmd *cobra.Command) etable.Layout {
	layout, err := LoadLayout(GetString(cmd, "config"))
	if err != nil {
		fmt.Println(err)
		os.Exit(2)
	}
	//
	return layout
}

// Read a trace file, or exit if this fails for some reason.
func readTraceFile(filename string) []etable.EventTableEntry {
	entries, err := json.ReadFile(filename)
	if err != nil {
		fmt.Println(err)
		os.Exit(2)
	}
	//
	return entries
}
