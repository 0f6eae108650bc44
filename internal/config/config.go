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

// Package config loads the kernel's ambient settings — call-depth
// limit, fee reserve and per-operation costs, trace/system flags —
// from a TOML file, the way cmd/geth's own node configuration is
// loaded, rather than wiring literal constants directly into callers.
package config

import (
	"bytes"
	"fmt"
	"io"
	"os"

	"github.com/BurntSushi/toml"

	"github.com/radkit/ledgerkernel/internal/fee"
)

// EngineConfig is the top-level settings document a host process loads
// once at startup and hands to every transaction run via txentry.Config.
type EngineConfig struct {
	MaxDepth  int              `toml:"max_depth"`
	FeeLimit  uint64           `toml:"fee_limit"`
	Trace     bool             `toml:"trace"`
	FeeSchedule FeeScheduleConfig `toml:"fee_schedule"`
}

// FeeScheduleConfig is the TOML-shaped mirror of fee.Table: plain
// scalars and per-byte multipliers, since fee.Table's func fields
// can't be unmarshaled directly.
type FeeScheduleConfig struct {
	InvokeFunction uint64 `toml:"invoke_function"`
	InvokeMethod   uint64 `toml:"invoke_method"`

	BorrowLocal       uint64 `toml:"borrow_local"`
	BorrowGlobalBase  uint64 `toml:"borrow_global_base"`
	BorrowGlobalPerByte uint64 `toml:"borrow_global_per_byte"`

	ReturnLocal        uint64 `toml:"return_local"`
	ReturnGlobalBase   uint64 `toml:"return_global_base"`
	ReturnGlobalPerByte uint64 `toml:"return_global_per_byte"`

	ReadBase    uint64 `toml:"read_base"`
	ReadPerByte uint64 `toml:"read_per_byte"`

	WriteBase    uint64 `toml:"write_base"`
	WritePerByte uint64 `toml:"write_per_byte"`

	CreateBase    uint64 `toml:"create_base"`
	CreatePerByte uint64 `toml:"create_per_byte"`

	GlobalizeBase    uint64 `toml:"globalize_base"`
	GlobalizePerByte uint64 `toml:"globalize_per_byte"`

	EmitLogBase    uint64 `toml:"emit_log_base"`
	EmitLogPerByte uint64 `toml:"emit_log_per_byte"`

	GenerateUUID uint64 `toml:"generate_uuid"`
	ReadTxHash   uint64 `toml:"read_transaction_hash"`

	WasmInstructionCostUnits uint64 `toml:"wasm_instruction_cost_units"`
	WasmGrowMemoryCostUnits  uint64 `toml:"wasm_grow_memory_cost_units"`
}

// Default returns the engine's out-of-the-box configuration: an 8-deep
// call stack (spec §4.6's literal depth-limit scenario assumes a small
// bound) and fee.DefaultTable's literal costs mirrored into TOML shape.
func Default() EngineConfig {
	return EngineConfig{
		MaxDepth: 8,
		FeeLimit: 10_000_000,
		Trace:    false,
		FeeSchedule: FeeScheduleConfig{
			InvokeFunction:      10_000,
			InvokeMethod:        10_000,
			BorrowLocal:         100,
			BorrowGlobalBase:    1_000,
			BorrowGlobalPerByte: 10,
			ReturnLocal:         100,
			ReturnGlobalBase:    500,
			ReturnGlobalPerByte: 10,
			ReadBase:            200,
			ReadPerByte:         5,
			WriteBase:           300,
			WritePerByte:        10,
			CreateBase:          1_000,
			CreatePerByte:       10,
			GlobalizeBase:       2_000,
			GlobalizePerByte:    10,
			EmitLogBase:         100,
			EmitLogPerByte:      2,
			GenerateUUID:        100,
			ReadTxHash:          50,
			WasmInstructionCostUnits: 1,
			WasmGrowMemoryCostUnits:  10,
		},
	}
}

// Load reads and decodes an EngineConfig from a TOML file at path,
// starting from Default() so a partial file only overrides what it
// names.
func Load(path string) (EngineConfig, error) {
	f, err := os.Open(path)
	if err != nil {
		return EngineConfig{}, fmt.Errorf("config: open %s: %w", path, err)
	}
	defer f.Close()
	return Decode(f)
}

// Decode reads and decodes an EngineConfig from r, the same underlying
// step Load performs, exposed separately so callers can feed an
// in-memory manifest (tests, embedded defaults) without a filesystem.
func Decode(r io.Reader) (EngineConfig, error) {
	cfg := Default()
	var buf bytes.Buffer
	if _, err := buf.ReadFrom(r); err != nil {
		return EngineConfig{}, fmt.Errorf("config: read: %w", err)
	}
	if _, err := toml.Decode(buf.String(), &cfg); err != nil {
		return EngineConfig{}, fmt.Errorf("config: decode: %w", err)
	}
	return cfg, nil
}

// FeeTable builds the closures fee.Table needs from the scalar
// TOML-decoded schedule.
func (c FeeScheduleConfig) FeeTable() *fee.Table {
	s := c
	return &fee.Table{
		InvokeFunction: s.InvokeFunction,
		InvokeMethod:   s.InvokeMethod,
		BorrowLocal:    s.BorrowLocal,
		BorrowGlobal: func(loaded bool, size uint64) uint64 {
			base := s.BorrowGlobalBase
			if loaded {
				base += size * s.BorrowGlobalPerByte
			}
			return base
		},
		ReturnLocal: s.ReturnLocal,
		ReturnGlobal: func(size uint64) uint64 {
			return s.ReturnGlobalBase + size*s.ReturnGlobalPerByte
		},
		Read: func(size uint64) uint64 {
			return s.ReadBase + size*s.ReadPerByte
		},
		Write: func(size uint64) uint64 {
			return s.WriteBase + size*s.WritePerByte
		},
		Create: func(size uint64) uint64 {
			return s.CreateBase + size*s.CreatePerByte
		},
		Globalize: func(size uint64) uint64 {
			return s.GlobalizeBase + size*s.GlobalizePerByte
		},
		EmitLog: func(size uint64) uint64 {
			return s.EmitLogBase + size*s.EmitLogPerByte
		},
		GenerateUUID: s.GenerateUUID,
		ReadTxHash:   s.ReadTxHash,
		Wasm: fee.WasmMeteringParams{
			InstructionCostUnits: s.WasmInstructionCostUnits,
			GrowMemoryCostUnits:  s.WasmGrowMemoryCostUnits,
		},
	}
}
