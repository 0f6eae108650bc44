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

// Package wasmapi defines the stable boundary between hosted code
// (including WASM guests) and the kernel (spec §4.7, §6): the Value
// shape carried across every call, the SystemApi surface hosted code
// invokes, and the WASM engine/instrumenter plug-in contract the
// kernel treats as an external collaborator.
package wasmapi

import (
	"github.com/google/uuid"

	"github.com/radkit/ledgerkernel/internal/addressing"
	"github.com/radkit/ledgerkernel/internal/auth"
	"github.com/radkit/ledgerkernel/internal/fee"
	"github.com/radkit/ledgerkernel/internal/track"
)

// Value stands in for ScryptoValue: a schema-validated payload in the
// real system, here reduced to exactly what kernel mechanics need —
// an opaque byte payload plus the set of node ids and component
// addresses it carries (spec §1 excludes ABI/schema validation beyond
// what the kernel itself must enforce).
type Value struct {
	Raw           []byte
	NodeIDs       []addressing.RENodeID
	ComponentRefs []addressing.Address
	ResourceRefs  []addressing.Address
}

// SystemApi is the stable set of operations hosted code invokes
// (spec §4.7).
type SystemApi interface {
	InvokeFunction(fn addressing.FnIdentifier, input Value) (Value, error)
	InvokeMethod(receiver addressing.Receiver, fn addressing.FnIdentifier, input Value) (Value, error)

	NodeCreate(kind addressing.NodeKind, childIDs []addressing.RENodeID, payload any) (addressing.RENodeID, error)
	NodeGlobalize(id addressing.RENodeID) error

	SubstateRead(id addressing.SubstateID) (Value, error)
	SubstateWrite(id addressing.SubstateID, value Value) error
	SubstateTake(id addressing.SubstateID) (Value, error)

	BorrowNode(id addressing.RENodeID) (any, error)
	SubstateBorrowMut(id addressing.SubstateID) (any, error)
	SubstateReturnMut(id addressing.SubstateID, value any) error

	GenerateUUID() (uuid.UUID, error)
	TransactionHash() [32]byte
	EmitLog(level track.LogLevel, message string)
	CheckAccessRule(rule auth.AccessRule, proofIDs []addressing.RENodeID) (bool, error)

	FeeReserve() *fee.Reserve
	FeeTable() *fee.Table
}

// WasmInstance is one instantiated, instrumented guest module.
type WasmInstance interface {
	InvokeExport(name string, input Value, runtime SystemApi) (Value, error)
}

// WasmEngine instantiates instrumented code (spec §6).
type WasmEngine interface {
	Instantiate(instrumentedCode []byte) (WasmInstance, error)
}

// WasmInstrumenter injects metering into raw guest code before
// instantiation (spec §6).
type WasmInstrumenter interface {
	Instrument(code []byte, params fee.WasmMeteringParams) ([]byte, error)
}
