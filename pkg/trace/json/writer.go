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
	"github.com/consensys/go-etable/pkg/etable"
	"github.com/segmentio/encoding/json"
)

// ToBytes converts a trace into JSON.
func ToBytes(entries []etable.EventTableEntry) ([]byte, error) {
	raw := make([]Entry, len(entries))
	//
	for i := range entries {
		raw[i] = FromEntry(&entries[i])
	}
	//
	return json.MarshalIndent(raw, "", "  ")
}

// ToJsonString converts a trace into JSON on a single line, as used for the
// accepts and rejects files of the test suite.
func ToJsonString(entries []etable.EventTableEntry) (string, error) {
	raw := make([]Entry, len(entries))
	//
	for i := range entries {
		raw[i] = FromEntry(&entries[i])
	}
	//
	bytes, err := json.Marshal(raw)
	//
	return string(bytes), err
}

// FromEntry converts an event table entry into its JSON representation.
func FromEntry(entry *etable.EventTableEntry) Entry {
	raw := Entry{
		Eid:         entry.Eid,
		Sp:          entry.Sp,
		LastJumpEid: entry.LastJumpEid,
		Moid:        entry.Inst.Moid,
		Mmid:        entry.Inst.Mmid,
		Fid:         entry.Inst.Fid,
		Iid:         entry.Inst.Iid,
		Class:       entry.Class().String(),
	}
	//
	switch step := entry.Step.(type) {
	case etable.ConstStep:
		raw.VType, raw.Value = vtypeName(step.VType), step.Value
	case etable.LocalGetStep:
		raw.VType, raw.Depth, raw.Value = vtypeName(step.VType), step.Depth, step.Value
	case etable.ReturnStep:
		frame := Frame(step.Frame)
		raw.VType, raw.Value = vtypeName(step.VType), step.KeepValue
		raw.Drop, raw.Keep, raw.Frame = step.Drop, step.Keep, &frame
	}
	//
	return raw
}

func vtypeName(vtype etable.VarType) string {
	if vtype == 0 {
		return ""
	}
	//
	return vtype.String()
}
