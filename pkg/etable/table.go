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
	"cmp"
	"fmt"
	"slices"

	"github.com/consensys/go-etable/pkg/circuit"
	"github.com/consensys/go-etable/pkg/util"
	"github.com/consensys/go-etable/pkg/util/field"
	log "github.com/sirupsen/logrus"
)

// ExternalTables identifies the (fixed) columns of the tables against which an
// event table makes lookups.
type ExternalTables struct {
	// Encoded instructions.
	ITable circuit.Column
	// Encoded call frames.
	JTable circuit.Column
	// Encoded memory operations.
	MTable circuit.Column
}

// AssignOptions controls how the witness of an event table is assigned.
type AssignOptions struct {
	// Maximum number of steps assigned concurrently.  Zero (or one) assigns
	// steps sequentially.
	Parallelism uint
}

// EventTableConfig is the configuration of an event table hosting a given set
// of opcode plugins.
type EventTableConfig[F field.Element[F]] struct {
	common  *CommonConfig
	tables  ExternalTables
	plugins []*registeredPlugin[F]
	byClass map[OpcodeClass]*registeredPlugin[F]
}

// registeredPlugin captures everything the host needs about a configured
// plugin.
type registeredPlugin[F field.Element[F]] struct {
	// Rotation of the opcode_bits column selecting this plugin.
	index uint
	// Runtime configuration returned by the builder.
	config OpcodeConfig[F]
	// Cells allocated by the builder.
	usage Usage
	// Memory operations per step, if any.
	mops util.Option[circuit.Expr[F]]
	// Value of the itable lookup cell.
	itable circuit.Expr[F]
	// Value of the jtable lookup cell, if any.
	jtable util.Option[circuit.Expr[F]]
}

// Configure constructs an event table with a given layout hosting a given set
// of opcode plugins.  Plugins are configured in ascending order of their class,
// each with its own allocator over the same shared columns.  This is sound
// because exactly one opcode bit is set on any step, and every plugin gates its
// constraints by its own bit.
func Configure[F field.Element[F]](cs *circuit.ConstraintSystem[F], layout Layout, tables ExternalTables,
	builders []OpcodeConfigBuilder[F]) (*EventTableConfig[F], error) {
	var stats = util.NewPerfStats()
	//
	common, err := NewCommonConfig(cs, layout)
	if err != nil {
		return nil, err
	}
	// Fix the registration order
	sorted := slices.Clone(builders)
	slices.SortStableFunc(sorted, func(l, r OpcodeConfigBuilder[F]) int {
		return cmp.Compare(l.Class(), r.Class())
	})
	//
	if uint(len(sorted)) > layout.StepSize {
		return nil, fmt.Errorf("%w: %d opcode classes exceed %d selector rows", ErrCapacityExceeded,
			len(sorted), layout.StepSize)
	}
	//
	config := &EventTableConfig[F]{common, tables, nil, make(map[OpcodeClass]*registeredPlugin[F])}
	//
	for i, builder := range sorted {
		if err := config.register(cs, uint(i), builder); err != nil {
			return nil, err
		}
	}
	//
	config.configureHost(cs)
	//
	stats.Log("Configuring event table")
	// Success
	return config, nil
}

func (p *EventTableConfig[F]) register(cs *circuit.ConstraintSystem[F], index uint,
	builder OpcodeConfigBuilder[F]) error {
	var (
		class = builder.Class()
		alloc = NewCellAllocator(p.common)
		meta  circuit.VirtualCells[F]
	)
	//
	if class == CLASS_NONE {
		return fmt.Errorf("%w: %s", ErrUnknownOpcodeClass, class)
	} else if _, ok := p.byClass[class]; ok {
		return fmt.Errorf("%w: %s", ErrDuplicateOpcodeClass, class)
	}
	//
	enable := func(meta *circuit.VirtualCells[F]) circuit.Expr[F] {
		return circuit.Mul(meta.QueryFixed(p.common.StepSel, 0), Curr(meta, p.common.OpcodeBit(index)))
	}
	//
	config, err := builder.Configure(cs, alloc, enable)
	if err != nil {
		return fmt.Errorf("configuring %s: %w", class, err)
	} else if config.OpcodeClass() != class {
		return fmt.Errorf("%w: builder for %s returned %s", ErrOpcodeClassMismatch, class, config.OpcodeClass())
	}
	//
	usage := alloc.Usage()
	log.Debugf("opcode %s: %d bit, %d common range, %d unlimited, %d u64 and %d mtable lookup cells", class,
		usage.Bits, usage.CommonRange, usage.Unlimited, usage.U64, usage.MTableLookup)
	//
	plugin := &registeredPlugin[F]{
		index:  index,
		config: config,
		usage:  usage,
		mops:   config.Mops(&meta),
		itable: p.itableEntry(&meta, config),
		jtable: config.JTableLookup(&meta),
	}
	//
	p.plugins = append(p.plugins, plugin)
	p.byClass[class] = plugin
	//
	return nil
}

// itableEntry returns the instruction table entry of a plugin, defaulting to
// the instruction at the current position.
func (p *EventTableConfig[F]) itableEntry(meta *circuit.VirtualCells[F], config OpcodeConfig[F]) circuit.Expr[F] {
	if entry := config.ITableLookup(meta); entry.HasValue() {
		return entry.Unwrap()
	}
	//
	return PackExpr(ITABLE_SHIFTS,
		Curr(meta, p.common.Moid()),
		Curr(meta, p.common.Fid()),
		Curr(meta, p.common.Iid()),
		config.Opcode(meta))
}

// aggregate combines a contribution over every plugin, selecting each by its
// opcode bit.  Plugins without the contribution are omitted.
func (p *EventTableConfig[F]) aggregate(meta *circuit.VirtualCells[F],
	contribution func(OpcodeConfig[F]) util.Option[circuit.Expr[F]]) circuit.Expr[F] {
	var terms []circuit.Expr[F]
	//
	for _, plugin := range p.plugins {
		if c := contribution(plugin.config); c.HasValue() {
			bit := Curr(meta, p.common.OpcodeBit(plugin.index))
			terms = append(terms, circuit.Mul(bit, c.Unwrap()))
		}
	}
	//
	return circuit.Add(terms...)
}

func (p *EventTableConfig[F]) configureHost(cs *circuit.ConstraintSystem[F]) {
	var (
		common = p.common
		layout = common.Layout
	)
	//
	sel := func(meta *circuit.VirtualCells[F]) circuit.Expr[F] {
		return meta.QueryFixed(common.StepSel, 0)
	}
	// Booleanity
	for _, col := range []circuit.Column{common.SharedBits, common.OpcodeBits} {
		cs.CreateGate(fmt.Sprintf("%s.boolean", cs.ColumnName(col)), func(meta *circuit.VirtualCells[F]) []circuit.Expr[F] {
			bit := meta.QueryAdvice(col, 0)
			return []circuit.Expr[F]{circuit.Mul(bit, circuit.OneMinus(bit))}
		})
	}
	//
	cs.CreateGate("etable.opcode_bits.one_hot", func(meta *circuit.VirtualCells[F]) []circuit.Expr[F] {
		var bits []circuit.Expr[F]
		//
		for _, plugin := range p.plugins {
			bits = append(bits, Curr(meta, common.OpcodeBit(plugin.index)))
		}
		//
		return []circuit.Expr[F]{
			circuit.Mul(sel(meta), circuit.Sub(circuit.Add(bits...), Curr(meta, common.Enable()))),
		}
	})
	//
	cs.CreateGate("etable.enable.contiguous", func(meta *circuit.VirtualCells[F]) []circuit.Expr[F] {
		enable := Curr(meta, common.Enable())
		next := Next(meta, layout, common.Enable())
		//
		return []circuit.Expr[F]{circuit.Mul(sel(meta), next, circuit.OneMinus(enable))}
	})
	//
	p.configureTransitions(cs, sel)
	p.configureLookupCells(cs, sel)
	// Range checks
	cs.RangeCheck("etable.aux_in_common.range", layout.CommonRangeBits, func(meta *circuit.VirtualCells[F]) circuit.Expr[F] {
		return meta.QueryAdvice(common.AuxInCommon, 0)
	})
	//
	for j, col := range common.U4Shared {
		cs.RangeCheck(fmt.Sprintf("etable.u4_shared_%d.range", j), 4, func(meta *circuit.VirtualCells[F]) circuit.Expr[F] {
			return meta.QueryAdvice(col, 0)
		})
		//
		cs.CreateGate(fmt.Sprintf("etable.u64_%d.decompose", j), func(meta *circuit.VirtualCells[F]) []circuit.Expr[F] {
			var nibbles = make([]circuit.Expr[F], NIBBLES_PER_U64)
			//
			for r := range nibbles {
				nibbles[r] = circuit.Scale(meta.QueryAdvice(col, r), field.TwoPowN[F](uint(4*r)))
			}
			//
			value := meta.QueryAdvice(common.Aux, int(layout.U64Start)+j)
			//
			return []circuit.Expr[F]{circuit.Mul(sel(meta), circuit.Sub(value, circuit.Add(nibbles...)))}
		})
	}
}

// configureTransitions registers the constraints relating the header of each
// active step to that of the step before it.
func (p *EventTableConfig[F]) configureTransitions(cs *circuit.ConstraintSystem[F],
	sel func(*circuit.VirtualCells[F]) circuit.Expr[F]) {
	var (
		common = p.common
		layout = common.Layout
	)
	// transition constructs a gate requiring the next value of a header cell
	// to match a given expression.
	transition := func(name string, cell AnyCell, next func(*circuit.VirtualCells[F]) circuit.Expr[F]) {
		cs.CreateGate(fmt.Sprintf("etable.%s.next", name), func(meta *circuit.VirtualCells[F]) []circuit.Expr[F] {
			enableNext := Next(meta, layout, common.Enable())
			diff := circuit.Sub(Next(meta, layout, cell), next(meta))
			//
			return []circuit.Expr[F]{circuit.Mul(sel(meta), enableNext, diff)}
		})
	}
	//
	mops := func(meta *circuit.VirtualCells[F]) circuit.Expr[F] {
		return p.aggregate(meta, func(c OpcodeConfig[F]) util.Option[circuit.Expr[F]] { return c.Mops(meta) })
	}
	//
	transition("eid", common.Eid(), func(meta *circuit.VirtualCells[F]) circuit.Expr[F] {
		return circuit.Add(Curr(meta, common.Eid()), circuit.ConstUint64[F](1))
	})
	//
	transition("sp", common.Sp(), func(meta *circuit.VirtualCells[F]) circuit.Expr[F] {
		diff := p.aggregate(meta, func(c OpcodeConfig[F]) util.Option[circuit.Expr[F]] {
			return util.Some(c.SpDiff(meta))
		})
		//
		return circuit.Add(Curr(meta, common.Sp()), diff)
	})
	//
	transition("rest_mops", common.RestMops(), func(meta *circuit.VirtualCells[F]) circuit.Expr[F] {
		return circuit.Sub(Curr(meta, common.RestMops()), mops(meta))
	})
	//
	transition("iid", common.Iid(), func(meta *circuit.VirtualCells[F]) circuit.Expr[F] {
		succ := circuit.Add(Curr(meta, common.Iid()), circuit.ConstUint64[F](1))
		//
		return p.aggregate(meta, func(c OpcodeConfig[F]) util.Option[circuit.Expr[F]] {
			return util.Some(c.NextIid(meta).UnwrapOr(succ))
		})
	})
	//
	transition("moid", common.Moid(), func(meta *circuit.VirtualCells[F]) circuit.Expr[F] {
		moid := Curr(meta, common.Moid())
		//
		return p.aggregate(meta, func(c OpcodeConfig[F]) util.Option[circuit.Expr[F]] {
			return util.Some(c.NextMoid(meta).UnwrapOr(moid))
		})
	})
	//
	transition("last_jump_eid", common.LastJumpEid(), func(meta *circuit.VirtualCells[F]) circuit.Expr[F] {
		eid := Curr(meta, common.LastJumpEid())
		//
		return p.aggregate(meta, func(c OpcodeConfig[F]) util.Option[circuit.Expr[F]] {
			return util.Some(c.LastJumpEidChange(meta).UnwrapOr(eid))
		})
	})
	// The final active step must exhaust the remaining memory operations.
	cs.CreateGate("etable.rest_mops.exhausted", func(meta *circuit.VirtualCells[F]) []circuit.Expr[F] {
		enable := Curr(meta, common.Enable())
		last := circuit.OneMinus(Next(meta, layout, common.Enable()))
		rest := circuit.Sub(Curr(meta, common.RestMops()), mops(meta))
		//
		return []circuit.Expr[F]{circuit.Mul(sel(meta), enable, last, rest)}
	})
}

// configureLookupCells registers the constraints tying each lookup cell to the
// contributions of the plugins, along with the lookups of those cells into the
// external tables.
func (p *EventTableConfig[F]) configureLookupCells(cs *circuit.ConstraintSystem[F],
	sel func(*circuit.VirtualCells[F]) circuit.Expr[F]) {
	var (
		common = p.common
		slots  = common.Layout.MTableLookupSlots()
	)
	// lookupCell constructs the gate and lookup for a given lookup cell.
	lookupCell := func(name string, cell AnyCell, table circuit.Column,
		contribution func(*circuit.VirtualCells[F], OpcodeConfig[F]) util.Option[circuit.Expr[F]]) {
		cs.CreateGate(fmt.Sprintf("etable.%s.cell", name), func(meta *circuit.VirtualCells[F]) []circuit.Expr[F] {
			value := p.aggregate(meta, func(c OpcodeConfig[F]) util.Option[circuit.Expr[F]] {
				return contribution(meta, c)
			})
			//
			return []circuit.Expr[F]{circuit.Mul(sel(meta), circuit.Sub(Curr(meta, cell), value))}
		})
		//
		cs.Lookup(fmt.Sprintf("etable.%s", name), table, func(meta *circuit.VirtualCells[F]) circuit.Expr[F] {
			return circuit.Mul(sel(meta), Curr(meta, cell))
		})
	}
	//
	lookupCell("itable_lookup", common.ITableLookupCell(), p.tables.ITable,
		func(meta *circuit.VirtualCells[F], c OpcodeConfig[F]) util.Option[circuit.Expr[F]] {
			return util.Some(p.itableEntry(meta, c))
		})
	//
	lookupCell("jtable_lookup", common.JTableLookupCell(), p.tables.JTable,
		func(meta *circuit.VirtualCells[F], c OpcodeConfig[F]) util.Option[circuit.Expr[F]] {
			return c.JTableLookup(meta)
		})
	//
	for i := range slots {
		lookupCell(fmt.Sprintf("mtable_lookup_%d", i), common.MTableLookupCellAt(i), p.tables.MTable,
			func(meta *circuit.VirtualCells[F], c OpcodeConfig[F]) util.Option[circuit.Expr[F]] {
				return c.MTableLookup(meta, i)
			})
	}
}

// ============================================================================
// Assignment
// ============================================================================

// RequiredHeight returns the minimum height of an assignment holding a given
// number of steps.  At least one (disabled) step always follows the last
// active step.
func (p *EventTableConfig[F]) RequiredHeight(steps uint) uint {
	return (steps + 1) * p.common.Layout.StepSize
}

// Assign writes the witness for a given sequence of trace entries.  Steps are
// assigned independently (and possibly concurrently) before the remaining
// memory operations are filled in.  The first error aborts the whole witness.
func (p *EventTableConfig[F]) Assign(asg *circuit.Assignment[F], entries []EventTableEntry, opts AssignOptions) error {
	var (
		stats    = util.NewPerfStats()
		stepSize = p.common.Layout.StepSize
		nsteps   = asg.Height() / stepSize
	)
	//
	if height := p.RequiredHeight(uint(len(entries))); asg.Height() < height {
		return fmt.Errorf("%w: %d steps require %d rows (have %d)", ErrTraceTooLong, len(entries), height,
			asg.Height())
	}
	//
	for i := range nsteps {
		if err := asg.Assign(p.common.StepSel, int(i*stepSize), field.One[F]()); err != nil {
			return err
		}
	}
	//
	err := util.ParFor(uint(len(entries)), opts.Parallelism, func(index uint) error {
		return p.assignStep(asg, int(index*stepSize), &entries[index])
	})
	//
	if err != nil {
		return err
	} else if err = p.assignRestMops(asg, entries); err != nil {
		return err
	}
	//
	stats.Log("Assigning event table")
	// Success
	return nil
}

func (p *EventTableConfig[F]) assignStep(asg *circuit.Assignment[F], offset int, entry *EventTableEntry) error {
	var (
		common = p.common
		ctx    = NewStepContext(asg, offset)
		class  = entry.Class()
	)
	//
	plugin, ok := p.byClass[class]
	if !ok {
		return fmt.Errorf("%w: %s (eid %d)", ErrUnknownOpcodeClass, class, entry.Eid)
	} else if entry.Inst.Opcode.Class != class {
		return NewAssignmentMismatch(class, entry, "instruction has class %s", entry.Inst.Opcode.Class)
	}
	// Header
	header := []struct {
		cell AnyCell
		val  uint64
	}{
		{common.Enable(), 1},
		{common.OpcodeBit(plugin.index), 1},
		{common.Sp(), entry.Sp},
		{common.Moid(), entry.Inst.Moid},
		{common.Fid(), entry.Inst.Fid},
		{common.Iid(), entry.Inst.Iid},
		{common.Mmid(), entry.Inst.Mmid},
		{common.LastJumpEid(), entry.LastJumpEid},
		{common.Eid(), entry.Eid},
	}
	//
	for _, h := range header {
		if err := ctx.AssignUint64(h.cell, h.val); err != nil {
			return err
		}
	}
	//
	if err := plugin.config.Assign(ctx, entry); err != nil {
		return err
	}
	// Lookup cells
	if err := p.assignExpr(ctx, common.ITableLookupCell(), plugin.itable); err != nil {
		return err
	} else if plugin.jtable.HasValue() {
		return p.assignExpr(ctx, common.JTableLookupCell(), plugin.jtable.Unwrap())
	}
	//
	return nil
}

// assignExpr writes the value of an expression on the current step into a
// given cell.
func (p *EventTableConfig[F]) assignExpr(ctx *StepContext[F], cell AnyCell, expr circuit.Expr[F]) error {
	val, ok := expr.EvalAt(ctx.Offset(), ctx.Assignment())
	if !ok {
		return fmt.Errorf("%w: evaluating %s at row %d", circuit.ErrOutOfBounds, expr, ctx.Offset())
	}
	//
	return ctx.Assign(cell, val)
}

// assignRestMops fills in the remaining memory operations of each step, which
// requires walking the steps backwards.
func (p *EventTableConfig[F]) assignRestMops(asg *circuit.Assignment[F], entries []EventTableEntry) error {
	var (
		stepSize = int(p.common.Layout.StepSize)
		rest     = field.Zero[F]()
	)
	//
	for i := len(entries) - 1; i >= 0; i-- {
		var (
			plugin = p.byClass[entries[i].Class()]
			ctx    = NewStepContext(asg, i*stepSize)
		)
		//
		if plugin.mops.HasValue() {
			mops, ok := plugin.mops.Unwrap().EvalAt(ctx.Offset(), asg)
			if !ok {
				return fmt.Errorf("%w: evaluating mops at row %d", circuit.ErrOutOfBounds, ctx.Offset())
			}
			//
			rest = rest.Add(mops)
		}
		//
		if err := ctx.Assign(p.common.RestMops(), rest); err != nil {
			return err
		}
	}
	// Done
	return nil
}

// ============================================================================
// Accessors
// ============================================================================

// Common returns the shared columns of this event table.
func (p *EventTableConfig[F]) Common() *CommonConfig {
	return p.common
}

// Tables returns the external tables used for lookups.
func (p *EventTableConfig[F]) Tables() ExternalTables {
	return p.tables
}

// Classes returns the registered opcode classes, in registration order.
func (p *EventTableConfig[F]) Classes() []OpcodeClass {
	classes := make([]OpcodeClass, len(p.plugins))
	//
	for i, plugin := range p.plugins {
		classes[i] = plugin.config.OpcodeClass()
	}
	//
	return classes
}

// Usage returns the cells allocated by the plugin for a given class.
func (p *EventTableConfig[F]) Usage(class OpcodeClass) (Usage, bool) {
	if plugin, ok := p.byClass[class]; ok {
		return plugin.usage, true
	}
	//
	return Usage{}, false
}

// Config returns the runtime configuration of the plugin for a given class.
func (p *EventTableConfig[F]) Config(class OpcodeClass) (OpcodeConfig[F], bool) {
	if plugin, ok := p.byClass[class]; ok {
		return plugin.config, true
	}
	//
	return nil, false
}
