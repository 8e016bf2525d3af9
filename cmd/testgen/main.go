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
	"math/rand/v2"
	"os"
	"strings"

	util "github.com/consensys/go-etable/pkg/cmd"
	"github.com/consensys/go-etable/pkg/etable"
	"github.com/consensys/go-etable/pkg/trace/json"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

func main() {
	err := rootCmd.Execute()
	if err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.Flags().Uint64("seed", 1, "Seed for the random number generator")
	rootCmd.Flags().Uint("count", 10, "Number of traces to generate for each length")
	rootCmd.Flags().Uint("min-lines", 1, "Minimum number of steps")
	rootCmd.Flags().Uint("max-lines", 8, "Maximum number of steps")
}

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "testgen model",
	Short: "Test generation utility for go-etable.",
	Run: func(cmd *cobra.Command, args []string) {
		if len(args) != 1 {
			fmt.Println(cmd.UsageString())
			os.Exit(1)
		}
		//
		seed, err := cmd.Flags().GetUint64("seed")
		if err != nil {
			fmt.Println(err)
			os.Exit(2)
		}
		//
		var cfg TestGenConfig
		// Lookup model
		cfg.model = findModel(args[0])
		cfg.count = util.GetUint(cmd, "count")
		cfg.min_lines = util.GetUint(cmd, "min-lines")
		cfg.max_lines = util.GetUint(cmd, "max-lines")
		// Generate & split traces
		valid, invalid := generateTestTraces(cfg, rand.New(rand.NewPCG(seed, seed)))
		// Write out
		writeTestTraces(cfg.model, "accepts", valid)
		writeTestTraces(cfg.model, "rejects", invalid)
		os.Exit(0)
	},
}

// TestGenConfig encapsulates configuration related to test generation.
type TestGenConfig struct {
	model     Model
	count     uint
	min_lines uint
	max_lines uint
}

// Model represents a hard-coded machine from which traces are generated.
type Model struct {
	// Name of the model in question
	Name string
	// Determines whether the model returns from its initial call frame.
	Returns bool
}

var models []Model = []Model{
	{"stack", false},
	{"call_return", true},
}

func findModel(name string) Model {
	for _, m := range models {
		if m.Name == name {
			return m
		}
	}
	//
	panic(fmt.Sprintf("unknown model \"%s\"", name))
}

// Generate test traces.  Every valid trace is accompanied by an invalid trace
// obtained by corrupting one of its steps (provided it has more than one step).
func generateTestTraces(cfg TestGenConfig, rng *rand.Rand) ([][]etable.EventTableEntry, [][]etable.EventTableEntry) {
	valid := make([][]etable.EventTableEntry, 0)
	invalid := make([][]etable.EventTableEntry, 0)
	//
	for n := cfg.min_lines; n <= cfg.max_lines; n++ {
		for range cfg.count {
			trace := generateTrace(cfg.model, n, rng)
			valid = append(valid, trace)
			//
			if len(trace) > 1 {
				invalid = append(invalid, corruptTrace(trace, rng))
			}
		}
	}
	// Done
	return valid, invalid
}

func writeTestTraces(model Model, ext string, traces [][]etable.EventTableEntry) {
	var sb strings.Builder
	// Construct filename
	filename := fmt.Sprintf("testdata/etable/%s.auto.%s", model.Name, ext)
	// Generate lines
	for _, trace := range traces {
		line, err := json.ToJsonString(trace)
		if err != nil {
			panic(err)
		}
		//
		sb.WriteString(line)
		sb.WriteString("\n")
	}
	// Write the file
	if err := os.WriteFile(filename, []byte(sb.String()), 0644); err != nil {
		panic(err)
	}
	// Log what happened
	log.Infof("Wrote %s (%d traces)\n", filename, len(traces))
}

// ============================================================================
// Machine
// ============================================================================

// INITIAL_SP is the stack pointer at which every generated trace starts.  This
// leaves ample room for the stack to grow downwards.
const INITIAL_SP = 4000

// A value held on the stack of the machine.
type slot struct {
	vtype etable.VarType
	value uint64
}

// Machine captures the state of a simple stack machine executing within a
// single call frame.
type machine struct {
	rng   *rand.Rand
	entry etable.EventTableEntry
	stack []slot
	// Frame to which the machine returns
	frame etable.JumpTableEntry
	// Set once the machine has returned from its initial frame
	returned bool
}

// Generate a valid trace with n steps for a given model.
func generateTrace(model Model, n uint, rng *rand.Rand) []etable.EventTableEntry {
	var (
		trace = make([]etable.EventTableEntry, 0, n)
		m     = machine{rng: rng}
	)
	// Initial frame
	m.frame = etable.JumpTableEntry{Eid: 5, LastJumpEid: 1, Moid: 0, Fid: 1, Iid: rng.Uint64N(16)}
	m.entry = etable.EventTableEntry{Eid: 6, Sp: INITIAL_SP, LastJumpEid: m.frame.Eid}
	m.entry.Inst.Fid = 2
	//
	for i := range n {
		var entry etable.EventTableEntry
		// Return from the middle of the trace
		if model.Returns && !m.returned && i == n/2 {
			entry = m.ret()
		} else {
			entry = m.step()
		}
		//
		trace = append(trace, entry)
	}
	//
	return trace
}

// Execute a random stack instruction.
func (p *machine) step() etable.EventTableEntry {
	if len(p.stack) == 0 || p.rng.IntN(2) == 0 {
		return p.push()
	} else if p.rng.IntN(2) == 0 {
		return p.localGet()
	}
	//
	return p.drop()
}

func (p *machine) push() etable.EventTableEntry {
	val := slot{etable.VAR_I64, p.rng.Uint64()}
	//
	if p.rng.IntN(2) == 0 {
		val = slot{etable.VAR_I32, val.value & 0xffffffff}
	}
	//
	return p.advance(etable.Opcode{Class: etable.CLASS_CONST, VType: val.vtype, Value: val.value},
		etable.ConstStep{VType: val.vtype, Value: val.value}, 0, val)
}

func (p *machine) localGet() etable.EventTableEntry {
	var (
		depth = 1 + p.rng.IntN(len(p.stack))
		val   = p.stack[len(p.stack)-depth]
	)
	//
	return p.advance(etable.Opcode{Class: etable.CLASS_LOCAL_GET, VType: val.vtype, Depth: uint64(depth)},
		etable.LocalGetStep{VType: val.vtype, Depth: uint64(depth), Value: val.value}, 0, val)
}

func (p *machine) drop() etable.EventTableEntry {
	return p.advance(etable.Opcode{Class: etable.CLASS_DROP}, etable.DropStep{}, 1)
}

// Construct the entry for a given instruction, and then update the machine by
// popping and pushing a given number of values.
func (p *machine) advance(opcode etable.Opcode, step etable.StepInfo, pops int,
	pushes ...slot) etable.EventTableEntry {
	entry := p.entry
	entry.Inst.Opcode = opcode
	entry.Step = step
	//
	p.stack = append(p.stack[:len(p.stack)-pops], pushes...)
	p.entry.Eid++
	p.entry.Sp = p.entry.Sp + uint64(pops) - uint64(len(pushes))
	p.entry.Inst.Iid++
	//
	return entry
}

// Return from the initial frame, keeping at most one value.
func (p *machine) ret() etable.EventTableEntry {
	var (
		keep   = uint64(0)
		kept   []slot
		vtype  etable.VarType
		value  uint64
		height = len(p.stack)
	)
	//
	if height > 0 && p.rng.IntN(2) == 0 {
		keep, kept = 1, p.stack[height-1:]
		vtype, value = kept[0].vtype, kept[0].value
	}
	//
	drop := uint64(p.rng.IntN(height - int(keep) + 1))
	opcode := etable.Opcode{Class: etable.CLASS_RETURN, VType: vtype, Drop: drop, Keep: keep}
	step := etable.ReturnStep{Drop: drop, Keep: keep, VType: vtype, KeepValue: value, Frame: p.frame}
	//
	entry := p.entry
	entry.Inst.Opcode = opcode
	entry.Step = step
	// Resume the caller, which sees only the kept value.
	p.stack = append([]slot{}, kept...)
	p.returned = true
	p.entry.Eid++
	p.entry.Sp += drop
	p.entry.LastJumpEid = p.frame.LastJumpEid
	p.entry.Inst.Moid = p.frame.Moid
	p.entry.Inst.Fid = p.frame.Fid
	p.entry.Inst.Iid = p.frame.Iid
	//
	return entry
}

// Corrupt one step (other than the first) of a given trace, such that it no
// longer follows from its predecessor.
func corruptTrace(trace []etable.EventTableEntry, rng *rand.Rand) []etable.EventTableEntry {
	var (
		corrupted = append([]etable.EventTableEntry{}, trace...)
		i         = 1 + rng.IntN(len(trace)-1)
	)
	//
	if rng.IntN(2) == 0 {
		corrupted[i].Eid++
	} else {
		corrupted[i].Sp++
	}
	//
	return corrupted
}
