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
package util

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"testing"

	cmd_util "github.com/consensys/go-etable/pkg/cmd/util"
	"github.com/consensys/go-etable/pkg/etable"
	"github.com/consensys/go-etable/pkg/trace/json"
	"github.com/consensys/go-etable/pkg/util/field"
	"github.com/consensys/go-etable/pkg/util/field/bls12_377"
	"github.com/consensys/go-etable/pkg/util/field/bn254"
)

// TestDir determines the (relative) location of the test directory.  That is
// where the traces (accepts/rejects) are found.
const TestDir = "../../testdata"

// MAX_PADDING determines the maximum number of additional padding steps to use
// when testing.  Specifically, every trace is tested with varying amounts of
// padding upto this value.
const MAX_PADDING uint = 3

// TraceFile identifies a kind of trace file by its extension, along with
// whether the traces it holds should be accepted or not.
type TraceFile struct {
	extension string
	expected  bool
}

// TRACE_FILES lists the kinds of trace file read for each test.  The "auto"
// files are produced by the testgen utility.
var TRACE_FILES = []TraceFile{
	{"accepts", true},
	{"rejects", false},
	{"auto.accepts", true},
	{"auto.rejects", false},
}

// TraceFilename determines the file holding the traces of a given kind for a
// given test.
func TraceFilename(test string, kind TraceFile) string {
	return fmt.Sprintf("%s/%s.%s", TestDir, test, kind.extension)
}

// Expected determines whether traces of this kind should be accepted.
func (p TraceFile) Expected() bool {
	return p.expected
}

// PARALLELISM determines how many steps are assigned concurrently when testing.
const PARALLELISM uint = 4

// Check checks that all traces which we expect to be accepted are accepted by
// the default event table, and all traces that we expect to be rejected are
// rejected.  All fields provided are tested against.
func Check(t *testing.T, test string, fields ...field.Config) {
	// Sanity check
	if len(fields) == 0 {
		panic("no field configurations")
	}
	// Enable testing each trace in parallel
	t.Parallel()
	//
	for _, f := range fields {
		switch f {
		case field.BN254:
			checkWithField[bn254.Element](t, test, f)
		case field.BLS12_377:
			checkWithField[bls12_377.Element](t, test, f)
		default:
			panic(fmt.Sprintf("unknown field configuration: %s", f.Name))
		}
	}
}

func checkWithField[F field.Element[F]](t *testing.T, test string, config field.Config) {
	stack, err := cmd_util.NewCircuitStack[F](etable.DefaultLayout())
	// Sanity check
	if err != nil {
		t.Fatalf("configuring event table: %v", err)
	}
	// Record how many tests executed.
	nTests := 0
	//
	for _, ext := range TRACE_FILES {
		filename := TraceFilename(test, ext)
		//
		for i, entries := range ReadTracesFile(t, filename) {
			for padding := uint(0); padding <= MAX_PADDING; padding++ {
				id := fmt.Sprintf("%s:%d (field %s, padding %d)", filename, i+1, config.Name, padding)
				checkTrace(t, id, ext.expected, stack, entries, padding)
			}
			//
			nTests++
		}
	}
	// Sanity check at least one trace found.
	if nTests == 0 {
		panic(fmt.Sprintf("missing any tests for %s", test))
	}
}

func checkTrace[F field.Element[F]](t *testing.T, id string, expected bool, stack *cmd_util.CircuitStack[F],
	entries []etable.EventTableEntry, padding uint) {
	failures, err := stack.Check(entries, padding, PARALLELISM)
	//
	switch {
	case expected && err != nil:
		t.Errorf("Trace %s should have been assigned: %v", id, err)
	case expected && len(failures) > 0:
		t.Errorf("Trace %s should have been accepted: %s", id, failures[0].Message())
	case !expected && err == nil && len(failures) == 0:
		t.Errorf("Trace %s should have been rejected", id)
	}
}

// ReadTracesFile reads a file containing zero or more traces, one per line.  A
// missing file contains no traces.
func ReadTracesFile(t *testing.T, filename string) [][]etable.EventTableEntry {
	var traces [][]etable.EventTableEntry
	//
	bytes, err := os.ReadFile(filename)
	if errors.Is(err, os.ErrNotExist) {
		return nil
	} else if err != nil {
		t.Fatal(err)
	}
	//
	for i, line := range strings.Split(string(bytes), "\n") {
		if line = strings.TrimSpace(line); line == "" {
			continue
		}
		//
		entries, err := json.FromBytes([]byte(line))
		if err != nil {
			t.Fatalf("%s:%d: %v", filename, i+1, err)
		}
		//
		traces = append(traces, entries)
	}
	//
	return traces
}
