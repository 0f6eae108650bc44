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

// Package noopwasm provides the minimum WasmEngine/WasmInstrumenter
// implementation needed to drive the kernel without a real WASM
// runtime (spec §1 keeps the WASM engine itself out of scope). Guest
// "exports" are registered host functions keyed by (blueprint,
// export) so native Go code can stand in for Scrypto blueprints in
// tests and in embeddings that don't need real WASM.
package noopwasm

import (
	"fmt"

	"github.com/radkit/ledgerkernel/internal/fee"
	"github.com/radkit/ledgerkernel/internal/wasmapi"
)

// ExportFunc is a host-implemented stand-in for a compiled WASM
// export.
type ExportFunc func(input wasmapi.Value, runtime wasmapi.SystemApi) (wasmapi.Value, error)

// Engine is a registry-backed WasmEngine: "instantiating" code looks
// the code's key up in a table of registered exports rather than
// running a real WASM module.
type Engine struct {
	exports map[string]map[string]ExportFunc
}

func NewEngine() *Engine {
	return &Engine{exports: make(map[string]map[string]ExportFunc)}
}

// Register associates a blueprint's export name with a host function.
// packageKey is the raw "instrumented code" bytes used as the package
// payload by PackageNode.Code.
func (e *Engine) Register(packageKey string, exportName string, fn ExportFunc) {
	if e.exports[packageKey] == nil {
		e.exports[packageKey] = make(map[string]ExportFunc)
	}
	e.exports[packageKey][exportName] = fn
}

func (e *Engine) Instantiate(instrumentedCode []byte) (wasmapi.WasmInstance, error) {
	return &instance{engine: e, codeKey: string(instrumentedCode)}, nil
}

type instance struct {
	engine  *Engine
	codeKey string
}

func (i *instance) InvokeExport(name string, input wasmapi.Value, runtime wasmapi.SystemApi) (wasmapi.Value, error) {
	fns, ok := i.engine.exports[i.codeKey]
	if !ok {
		return wasmapi.Value{}, fmt.Errorf("noopwasm: no exports registered for package")
	}
	fn, ok := fns[name]
	if !ok {
		return wasmapi.Value{}, fmt.Errorf("noopwasm: export %q not registered", name)
	}
	return fn(input, runtime)
}

// Instrumenter is a pass-through WasmInstrumenter: it returns the
// code unchanged, since noopwasm never runs real bytecode that needs
// metering injected into it.
type Instrumenter struct{}

func (Instrumenter) Instrument(code []byte, _ fee.WasmMeteringParams) ([]byte, error) {
	return code, nil
}
