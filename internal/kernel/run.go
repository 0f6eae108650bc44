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

package kernel

import (
	"github.com/radkit/ledgerkernel/internal/addressing"
	"github.com/radkit/ledgerkernel/internal/kernelerr"
	"github.com/radkit/ledgerkernel/internal/kheap"
	"github.com/radkit/ledgerkernel/internal/wasmapi"
)

// runFrame drives child to completion — native dispatch or, for
// Scrypto actors, instrumented WASM instantiation — and then performs
// spec §4.6's post-return validation: the return value's node ids must
// still be owned by the child, key-value stores may never be returned,
// whatever the child didn't return must be droppable, and any
// component ref handed back must be store-backed rather than a local
// heap pointer the caller could never resolve. The child's auth zone
// (if any) is cleared before control returns to the caller, regardless
// of outcome.
func runFrame(child *CallFrame, input wasmapi.Value) (wasmapi.Value, map[addressing.RENodeID]*kheap.HeapRootRENode, error) {
	defer func() {
		if child.authZone != nil {
			child.authZone.Clear()
		}
	}()

	var result wasmapi.Value
	var err error
	if child.actor.Fn.IsNative {
		result, err = dispatchNative(child, input)
	} else {
		result, err = dispatchScrypto(child, input)
	}
	if err != nil {
		return wasmapi.Value{}, nil, err
	}

	moved, err := child.heap.TakeAvailableValues(result.NodeIDs, false)
	if err != nil {
		return wasmapi.Value{}, nil, err
	}
	for id, root := range moved {
		if root.Root.Kind == addressing.NodeKeyValueStore {
			return wasmapi.Value{}, nil, kernelerr.New(kernelerr.KeyValueStoreNotAllowed, stringerID(id), "key-value stores may not be returned from an invocation")
		}
	}

	remaining := make(map[addressing.RENodeID]*kheap.HeapRootRENode)
	for _, id := range child.heap.Ids() {
		root, _ := child.heap.Get(id)
		remaining[id] = root
	}
	if err := kheap.DropNodes(remaining); err != nil {
		return wasmapi.Value{}, nil, err
	}

	for _, addr := range result.ComponentRefs {
		id := addressing.ComponentID(addr)
		p, ok := child.nodeRefs[id]
		if !ok || !p.InStore {
			return wasmapi.Value{}, nil, kernelerr.New(kernelerr.InvokeMethodInvalidReferencePass, stringerID(id), "returned component ref is not store-backed")
		}
	}

	return result, moved, nil
}

// dispatchScrypto loads the target package's code, instruments it for
// the shared fee table's metering parameters, instantiates it on the
// shared WASM engine, and invokes the named export with child acting
// as its SystemApi (spec §4.6, §6).
func dispatchScrypto(child *CallFrame, input wasmapi.Value) (wasmapi.Value, error) {
	fn := child.actor.Fn
	sub := addressing.PackageSubstate(fn.PackageAddress)
	if err := child.shared.Track.AcquireLock(sub, child.depth, false, false); err != nil {
		return wasmapi.Value{}, err
	}
	defer child.shared.Track.ReleaseLock(sub, child.depth)

	ov, err := child.shared.Track.ReadSubstate(sub)
	if err != nil {
		return wasmapi.Value{}, kernelerr.New(kernelerr.PackageNotFound, stringerAddr(fn.PackageAddress), "")
	}
	pkg, ok := ov.Value.(*kheap.PackageNode)
	if !ok {
		return wasmapi.Value{}, kernelerr.New(kernelerr.PackageNotFound, stringerAddr(fn.PackageAddress), "corrupt package substate")
	}

	instrumented, err := child.shared.Instrumenter.Instrument(pkg.Code, child.shared.FeeTable.WasmMeteringParams())
	if err != nil {
		return wasmapi.Value{}, kernelerr.Wrap(kernelerr.InvokeErrorWasm, nil, err)
	}
	inst, err := child.shared.WasmEngine.Instantiate(instrumented)
	if err != nil {
		return wasmapi.Value{}, kernelerr.Wrap(kernelerr.InvokeErrorWasm, nil, err)
	}
	result, err := inst.InvokeExport(fn.Ident, input, child)
	if err != nil {
		return wasmapi.Value{}, kernelerr.Wrap(kernelerr.InvokeErrorWasm, nil, err)
	}
	return result, nil
}

type stringerAddr addressing.Address

func (a stringerAddr) String() string { return addressing.Address(a).String() }

type stringerID addressing.RENodeID

func (id stringerID) String() string { return addressing.RENodeID(id).String() }
