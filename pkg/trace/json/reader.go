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
package json

import (
	"fmt"
	"os"

	"github.com/consensys/go-etable/pkg/etable"
	pkgErrors "github.com/pkg/errors"
	"github.com/segmentio/encoding/json"
)

// Frame is the JSON representation of a call frame.
type Frame struct {
	Eid         uint64 `json:"eid"`
	LastJumpEid uint64 `json:"last_jump_eid"`
	Moid        uint64 `json:"moid"`
	Fid         uint64 `json:"fid"`
	Iid         uint64 `json:"iid"`
}

// Entry is the JSON representation of a single step of an event table.  For
// example, {"eid": 1, "sp": 100, "class": "const", "vtype": "i32", "value": 7}
// is a step pushing a 32bit constant.  Fields which are irrelevant to the class
// of an entry are omitted.
type Entry struct {
	Eid         uint64 `json:"eid"`
	Sp          uint64 `json:"sp"`
	LastJumpEid uint64 `json:"last_jump_eid"`
	Moid        uint64 `json:"moid"`
	Mmid        uint64 `json:"mmid"`
	Fid         uint64 `json:"fid"`
	Iid         uint64 `json:"iid"`
	Class       string `json:"class"`
	VType       string `json:"vtype,omitempty"`
	Value       uint64 `json:"value,omitempty"`
	Depth       uint64 `json:"depth,omitempty"`
	Drop        uint64 `json:"drop,omitempty"`
	Keep        uint64 `json:"keep,omitempty"`
	Frame       *Frame `json:"frame,omitempty"`
}

// ReadFile reads a trace from a given JSON file.
func ReadFile(filename string) ([]etable.EventTableEntry, error) {
	bytes, err := os.ReadFile(filename)
	if err != nil {
		return nil, pkgErrors.Wrapf(err, "failed to read trace file %#v", filename)
	}
	//
	entries, err := FromBytes(bytes)
	if err != nil {
		return nil, pkgErrors.Wrapf(err, "failed to parse trace file %#v", filename)
	}
	// Done
	return entries, nil
}

// FromBytes parses a trace expressed as a JSON array of entries.
func FromBytes(data []byte) ([]etable.EventTableEntry, error) {
	var raw []Entry
	// Attempt to unmarshall
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, err
	}
	//
	entries := make([]etable.EventTableEntry, len(raw))
	//
	for i, r := range raw {
		entry, err := r.ToEntry()
		if err != nil {
			return nil, fmt.Errorf("entry %d: %w", i, err)
		}
		//
		entries[i] = entry
	}
	// Done.
	return entries, nil
}

// ToEntry converts this JSON representation into an event table entry.
func (p *Entry) ToEntry() (etable.EventTableEntry, error) {
	var (
		opcode etable.Opcode
		step   etable.StepInfo
		vtype  etable.VarType
	)
	//
	class, ok := etable.ParseOpcodeClass(p.Class)
	if !ok {
		return etable.EventTableEntry{}, fmt.Errorf("unknown opcode class \"%s\"", p.Class)
	} else if p.VType != "" {
		if vtype, ok = etable.ParseVarType(p.VType); !ok {
			return etable.EventTableEntry{}, fmt.Errorf("unknown value type \"%s\"", p.VType)
		}
	}
	//
	opcode.Class = class
	//
	switch class {
	case etable.CLASS_CONST:
		opcode.VType, opcode.Value = vtype, p.Value
		step = etable.ConstStep{VType: vtype, Value: p.Value}
	case etable.CLASS_DROP:
		step = etable.DropStep{}
	case etable.CLASS_LOCAL_GET:
		opcode.VType, opcode.Depth = vtype, p.Depth
		step = etable.LocalGetStep{VType: vtype, Depth: p.Depth, Value: p.Value}
	case etable.CLASS_RETURN:
		if p.Frame == nil {
			return etable.EventTableEntry{}, fmt.Errorf("return (eid %d) is missing its frame", p.Eid)
		}
		//
		opcode.VType, opcode.Drop, opcode.Keep = vtype, p.Drop, p.Keep
		step = etable.ReturnStep{
			Drop:      p.Drop,
			Keep:      p.Keep,
			VType:     vtype,
			KeepValue: p.Value,
			Frame:     etable.JumpTableEntry(*p.Frame),
		}
	default:
		return etable.EventTableEntry{}, fmt.Errorf("opcode class \"%s\" not supported", p.Class)
	}
	//
	return etable.EventTableEntry{
		Eid:         p.Eid,
		Sp:          p.Sp,
		LastJumpEid: p.LastJumpEid,
		Inst: etable.Instruction{
			Moid:   p.Moid,
			Mmid:   p.Mmid,
			Fid:    p.Fid,
			Iid:    p.Iid,
			Opcode: opcode,
		},
		Step: step,
	}, nil
}
