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
	"github.com/radkit/ledgerkernel/internal/fee"
	"github.com/radkit/ledgerkernel/internal/kernelerr"
	"github.com/radkit/ledgerkernel/internal/kheap"
	"github.com/radkit/ledgerkernel/internal/wasmapi"
	"github.com/radkit/ledgerkernel/internal/xlog"
)

// InvokeFunction implements spec §4.6's invoke_function: depth/fee
// checks, moving the caller's owned objects into a fresh child frame,
// building the child's node-refs table, running the child to
// completion, and folding its results back into the caller.
func (f *CallFrame) InvokeFunction(fnID addressing.FnIdentifier, input wasmapi.Value) (wasmapi.Value, error) {
	if f.depth+1 > f.maxDepth {
		return wasmapi.Value{}, kernelerr.NewMaxCallDepthLimitReached()
	}
	if err := f.shared.FeeReserve.Consume(f.shared.FeeTable.InvokeFunction, fee.ReasonInvokeFunction); err != nil {
		return wasmapi.Value{}, kernelerr.Wrap(kernelerr.CostingError, nil, err)
	}

	moved, err := f.heap.TakeAvailableValues(input.NodeIDs, false)
	if err != nil {
		return wasmapi.Value{}, err
	}
	restrictMovedProofs(moved)

	var pkgLock *addressing.SubstateID
	if !fnID.IsNative {
		sub := addressing.PackageSubstate(fnID.PackageAddress)
		if err := f.shared.Track.AcquireLock(sub, f.depth, false, false); err != nil {
			return wasmapi.Value{}, err
		}
		if _, err := f.shared.Track.ReadSubstate(sub); err != nil {
			f.shared.Track.ReleaseLock(sub, f.depth)
			return wasmapi.Value{}, kernelerr.New(kernelerr.BlueprintNotFound, nil, fnID.BlueprintName)
		}
		pkgLock = &sub
	}

	refs, err := f.buildChildNodeRefsForFunction(input)
	if err != nil {
		if pkgLock != nil {
			f.shared.Track.ReleaseLock(*pkgLock, f.depth)
		}
		return wasmapi.Value{}, err
	}

	child := f.childFrame(addressing.FunctionActor(fnID), moved, refs, true, f.authZone)
	if f.trace {
		xlog.Debug("invoke_function", "fn", fnID.String(), "depth", child.depth)
	}

	result, returned, runErr := runFrame(child, input)

	if pkgLock != nil {
		f.shared.Track.ReleaseLock(*pkgLock, f.depth)
	}
	if runErr != nil {
		return wasmapi.Value{}, runErr
	}

	f.foldChildResult(returned, result)
	return result, nil
}

// InvokeMethod implements spec §4.6's invoke_method.
func (f *CallFrame) InvokeMethod(receiver addressing.Receiver, fnID addressing.FnIdentifier, input wasmapi.Value) (wasmapi.Value, error) {
	if f.depth+1 > f.maxDepth {
		return wasmapi.Value{}, kernelerr.NewMaxCallDepthLimitReached()
	}
	if err := f.shared.FeeReserve.Consume(f.shared.FeeTable.InvokeMethod, fee.ReasonInvokeMethod); err != nil {
		return wasmapi.Value{}, kernelerr.Wrap(kernelerr.CostingError, nil, err)
	}

	if receiver.Kind == addressing.ReceiverAuthZoneRef {
		return f.invokeAuthZoneMethod(fnID, input)
	}

	pointer, ok := f.resolve(receiver.Node)
	if !ok {
		return wasmapi.Value{}, kernelerr.New(kernelerr.InvokeMethodInvalidReceiver, nil, receiver.Node.String())
	}

	moved, err := f.heap.TakeAvailableValues(input.NodeIDs, false)
	if err != nil {
		return wasmapi.Value{}, err
	}
	restrictMovedProofs(moved)

	var releaseOnReturn []addressing.SubstateID
	release := func() {
		for i := len(releaseOnReturn) - 1; i >= 0; i-- {
			f.shared.Track.ReleaseLock(releaseOnReturn[i], f.depth)
		}
	}

	primary := primarySubstateID(receiver.Node, fnID)
	lockFee := fnID.IsNative && fnID.Native == addressing.NativeVault && fnID.Ident == "lock_fee"
	if lockFee && !pointer.InStore {
		return wasmapi.Value{}, kernelerr.NewLockFeeRENodeNotInTrack()
	}
	if err := f.shared.Track.AcquireLock(primary, f.depth, true, lockFee); err != nil {
		return wasmapi.Value{}, err
	}
	releaseOnReturn = append(releaseOnReturn, primary)

	refs := make(map[addressing.RENodeID]RENodePointer)
	refs[receiver.Node] = pointer

	if !fnID.IsNative && receiver.Node.Kind == addressing.NodeComponent {
		infoSub := addressing.ComponentInfoSubstate(receiver.Node.Addr)
		if err := f.shared.Track.AcquireLock(infoSub, f.depth, false, false); err != nil {
			release()
			return wasmapi.Value{}, err
		}
		ov, err := f.shared.Track.ReadSubstate(infoSub)
		f.shared.Track.ReleaseLock(infoSub, f.depth)
		if err != nil {
			release()
			return wasmapi.Value{}, err
		}
		info, ok := ov.Value.(*kheap.ComponentInfo)
		if !ok || info.PackageAddress != fnID.PackageAddress || info.BlueprintName != fnID.BlueprintName {
			release()
			return wasmapi.Value{}, kernelerr.New(kernelerr.InvokeMethodInvalidReceiver, nil, "package/blueprint mismatch")
		}
	}

	parentLocks, parentRefs, err := f.lockParentSubstates(receiver.Node)
	if err != nil {
		release()
		return wasmapi.Value{}, err
	}
	releaseOnReturn = append(releaseOnReturn, parentLocks...)
	for id, p := range parentRefs {
		refs[id] = p
	}

	resourceLocks, err := f.lockResourceRefs(input.ResourceRefs, refs)
	if err != nil {
		release()
		return wasmapi.Value{}, err
	}
	releaseOnReturn = append(releaseOnReturn, resourceLocks...)

	rule := f.resolveAccessRule(receiver.Node, fnID)
	if err := authCheck(rule, f.authZone, f.callerAuthZone); err != nil {
		release()
		return wasmapi.Value{}, err
	}

	if receiver.Kind == addressing.ReceiverConsumed {
		taken, ok := f.heap.Remove(receiver.Node)
		if !ok {
			release()
			return wasmapi.Value{}, kernelerr.New(kernelerr.RENodeNotFound, nil, receiver.Node.String())
		}
		moved[receiver.Node] = taken
		delete(refs, receiver.Node)
	}

	withAuthZone := !fnID.IsNative
	child := f.childFrame(addressing.MethodActor(fnID, receiver), moved, refs, withAuthZone, f.authZone)
	if f.trace {
		xlog.Debug("invoke_method", "fn", fnID.String(), "receiver", receiver.Node.String(), "depth", child.depth)
	}

	result, returned, runErr := runFrame(child, input)
	release()
	if runErr != nil {
		return wasmapi.Value{}, runErr
	}

	f.foldChildResult(returned, result)
	return result, nil
}

func restrictMovedProofs(moved map[addressing.RENodeID]*kheap.HeapRootRENode) {
	for _, root := range moved {
		if root.Root.Kind == addressing.NodeProof {
			root.Root.Proof.Restricted = true
		}
	}
}
