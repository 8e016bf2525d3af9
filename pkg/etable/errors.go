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
package etable

import (
	"errors"
	"fmt"
)

var (
	// ErrCapacityExceeded signals an allocation beyond the capacity of a step
	// region.  This is a configuration error: the step region must either be
	// widened, or the opcode plugins repacked.
	ErrCapacityExceeded = errors.New("step capacity exceeded")
	// ErrAssignmentMismatch signals a trace entry whose contents do not match
	// those expected by the opcode plugin it was dispatched to.
	ErrAssignmentMismatch = errors.New("assignment mismatch")
	// ErrUnknownOpcodeClass signals a trace entry whose opcode class has no
	// registered plugin.
	ErrUnknownOpcodeClass = errors.New("unknown opcode class")
	// ErrDuplicateOpcodeClass signals two plugins registered for the same
	// opcode class.
	ErrDuplicateOpcodeClass = errors.New("duplicate opcode class")
	// ErrOpcodeClassMismatch signals a plugin whose runtime configuration
	// reports a different class from its builder.
	ErrOpcodeClassMismatch = errors.New("opcode class mismatch")
	// ErrTraceTooLong signals a trace with more steps than rows available.
	ErrTraceTooLong = errors.New("trace too long")
)

// CapacityError reports an allocation which would exceed the ceiling for a
// given kind of cell.
type CapacityError struct {
	// Kind of cell being allocated.
	Kind CellKind
	// Ceiling which the allocation would have exceeded.
	Ceiling uint
}

func (p *CapacityError) Error() string {
	return fmt.Sprintf("%s: no %s cell available below %d", ErrCapacityExceeded, p.Kind, p.Ceiling)
}

// Is allows a capacity error to match ErrCapacityExceeded.
func (p *CapacityError) Is(target error) bool {
	return target == ErrCapacityExceeded
}

// AssignmentMismatch reports a trace entry which does not match the opcode
// plugin to which it was dispatched.
type AssignmentMismatch struct {
	// Class of the plugin which rejected the entry.
	Class OpcodeClass
	// Event identifier of the rejected entry.
	Eid uint64
	// Reason for the rejection.
	Reason string
}

// NewAssignmentMismatch constructs a mismatch error for a given entry.
func NewAssignmentMismatch(class OpcodeClass, entry *EventTableEntry, format string, args ...any) *AssignmentMismatch {
	return &AssignmentMismatch{class, entry.Eid, fmt.Sprintf(format, args...)}
}

func (p *AssignmentMismatch) Error() string {
	return fmt.Sprintf("%s: %s (eid %d): %s", ErrAssignmentMismatch, p.Class, p.Eid, p.Reason)
}

// Is allows an assignment mismatch to match ErrAssignmentMismatch.
func (p *AssignmentMismatch) Is(target error) bool {
	return target == ErrAssignmentMismatch
}
