// Copyright 2024 The ledgerkernel Authors
// This file is part of the ledgerkernel library.
//
// The ledgerkernel library is free software: you can redistribute it and/or modify
// it under the terms of the GNU Lesser General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// The ledgerkernel library is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE. See the
// GNU Lesser General Public License for more details.
//
// You should have received a copy of the GNU Lesser General Public License
// along with the ledgerkernel library. If not, see <http://www.gnu.org/licenses/>.

// Package fee is the pluggable meter spec.md treats as an external
// collaborator (out of scope to design in depth) but which the kernel
// cannot run without some implementation of. It stays deliberately
// minimal: a bounded counter plus a constant-cost table, not a full
// economic model (spec §6, §9 open question (c)).
package fee

import (
	"errors"
	"fmt"

	"github.com/prometheus/client_golang/prometheus"
)

// Reason names the kernel operation a cost was charged for, for
// diagnostics and metrics labeling.
type Reason string

const (
	ReasonInvokeFunction Reason = "invoke_function"
	ReasonInvokeMethod   Reason = "invoke_method"
	ReasonBorrowLocal    Reason = "borrow_local"
	ReasonBorrowGlobal   Reason = "borrow_global"
	ReasonReturnLocal    Reason = "return_local"
	ReasonReturnGlobal   Reason = "return_global"
	ReasonRead           Reason = "read"
	ReasonWrite          Reason = "write"
	ReasonCreate         Reason = "create"
	ReasonGlobalize      Reason = "globalize"
	ReasonEmitLog        Reason = "emit_log"
	ReasonGenerateUUID   Reason = "generate_uuid"
	ReasonTransactionHash Reason = "read_transaction_hash"
)

var ErrReserveExhausted = errors.New("fee: reserve exhausted")

var consumedCounter = prometheus.NewCounterVec(prometheus.CounterOpts{
	Name: "ledgerkernel_fee_consumed_total",
	Help: "Total fee units consumed, labeled by reason.",
}, []string{"reason"})

func init() {
	prometheus.MustRegister(consumedCounter)
}

// Reserve is a bounded fee counter: consume() subtracts from the
// remaining balance or fails with CostingError once exhausted.
type Reserve struct {
	limit     uint64
	consumed  uint64
	repayable uint64 // amount already locked via lock-fee, available to repay below zero limit
}

func NewReserve(limit uint64) *Reserve {
	return &Reserve{limit: limit}
}

// Consume charges amount against the reserve.
func (r *Reserve) Consume(amount uint64, reason Reason) error {
	if r.consumed+amount > r.limit+r.repayable {
		return fmt.Errorf("fee: consume %d for %s: %w", amount, reason, ErrReserveExhausted)
	}
	r.consumed += amount
	consumedCounter.WithLabelValues(string(reason)).Add(float64(amount))
	return nil
}

// Repay increases the effective limit by amount, called by
// Vault::lock_fee once a vault has committed funds to cover
// consumption (spec §6).
func (r *Reserve) Repay(amount uint64) {
	r.repayable += amount
}

func (r *Reserve) Consumed() uint64  { return r.consumed }
func (r *Reserve) Remaining() uint64 { return r.limit + r.repayable - r.consumed }

// WasmMeteringParams is handed to the WASM instrumenter (spec §6).
type WasmMeteringParams struct {
	InstructionCostUnits uint64
	GrowMemoryCostUnits  uint64
}

// Table classifies every kernel operation's cost (spec §6). Costs
// distinguish local (heap) from global (store) borrows and carry a
// size field for reads/writes.
type Table struct {
	InvokeFunction uint64
	InvokeMethod   uint64
	BorrowLocal    uint64
	BorrowGlobal   func(loaded bool, size uint64) uint64
	ReturnLocal    uint64
	ReturnGlobal   func(size uint64) uint64
	Read           func(size uint64) uint64
	Write          func(size uint64) uint64
	Create         func(size uint64) uint64
	Globalize      func(size uint64) uint64
	EmitLog        func(size uint64) uint64
	GenerateUUID   uint64
	ReadTxHash     uint64

	Wasm WasmMeteringParams
}

// DefaultTable supplies the literal constants spec.md's scenarios
// exercise: cheap heap operations, store operations scaled by size.
// Spec §9 open question (c) notes the original's Borrow costs leave
// size/loaded as constants (0/false); here they are wired to the
// actual size instead, for more accurate metering.
func DefaultTable() *Table {
	return &Table{
		InvokeFunction: 10_000,
		InvokeMethod:   10_000,
		BorrowLocal:    100,
		BorrowGlobal: func(loaded bool, size uint64) uint64 {
			base := uint64(1_000)
			if loaded {
				base += size * 10
			}
			return base
		},
		ReturnLocal: 100,
		ReturnGlobal: func(size uint64) uint64 {
			return 500 + size*10
		},
		Read: func(size uint64) uint64 {
			return 200 + size*5
		},
		Write: func(size uint64) uint64 {
			return 300 + size*10
		},
		Create: func(size uint64) uint64 {
			return 1_000 + size*10
		},
		Globalize: func(size uint64) uint64 {
			return 2_000 + size*10
		},
		EmitLog: func(size uint64) uint64 {
			return 100 + size*2
		},
		GenerateUUID: 100,
		ReadTxHash:   50,
		Wasm: WasmMeteringParams{
			InstructionCostUnits: 1,
			GrowMemoryCostUnits:  10,
		},
	}
}

func (t *Table) WasmMeteringParams() WasmMeteringParams { return t.Wasm }
