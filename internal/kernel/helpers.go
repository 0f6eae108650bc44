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
	"github.com/radkit/ledgerkernel/internal/auth"
	"github.com/radkit/ledgerkernel/internal/fee"
	"github.com/radkit/ledgerkernel/internal/kernelerr"
	"github.com/radkit/ledgerkernel/internal/kheap"
	"github.com/radkit/ledgerkernel/internal/wasmapi"
)

// buildChildNodeRefsForFunction resolves the component/resource refs a
// function call carries into the child's node-refs table (spec §4.6
// step 5): at depth 0 a ref is proved by its ComponentInfo substate
// existing in the Track; below depth 0 the caller must already hold
// the ref itself, since nothing outside the caller's own refs and heap
// is visible to it.
func (f *CallFrame) buildChildNodeRefsForFunction(input wasmapi.Value) (map[addressing.RENodeID]RENodePointer, error) {
	refs := make(map[addressing.RENodeID]RENodePointer)
	for _, addr := range input.ComponentRefs {
		id := addressing.ComponentID(addr)
		if f.depth == 0 {
			sub := addressing.ComponentInfoSubstate(addr)
			if err := f.shared.Track.AcquireLock(sub, f.depth, false, false); err != nil {
				return nil, err
			}
			_, err := f.shared.Track.ReadSubstate(sub)
			f.shared.Track.ReleaseLock(sub, f.depth)
			if err != nil {
				return nil, kernelerr.New(kernelerr.InvokeMethodInvalidReferencePass, stringerID(id), "component does not exist")
			}
			refs[id] = StorePointer(id)
			continue
		}
		p, ok := f.resolve(id)
		if !ok {
			return nil, kernelerr.New(kernelerr.InvokeMethodInvalidReferencePass, stringerID(id), "caller does not hold this reference")
		}
		refs[id] = p
	}
	for _, addr := range input.ResourceRefs {
		id := addressing.ResourceManagerID(addr)
		refs[id] = StorePointer(id)
	}
	return refs, nil
}

// foldChildResult merges a completed child frame's returned nodes back
// into the caller's heap and promotes every component address the
// child returned into the caller's own node-refs table (spec §4.6 step
// 8): once a callee has proven a component's existence by returning
// its address, the caller may address it too.
func (f *CallFrame) foldChildResult(moved map[addressing.RENodeID]*kheap.HeapRootRENode, result wasmapi.Value) {
	for id, root := range moved {
		f.heap.Insert(id, root)
	}
	for _, addr := range result.ComponentRefs {
		id := addressing.ComponentID(addr)
		f.nodeRefs[id] = StorePointer(id)
	}
}

// primarySubstateID names the substate an invoke_method call locks to
// serialize concurrent-in-spirit access to the receiver itself (spec
// §4.6); each node kind maps to the one substate that represents its
// mutable body.
func primarySubstateID(node addressing.RENodeID, fn addressing.FnIdentifier) addressing.SubstateID {
	switch node.Kind {
	case addressing.NodeComponent:
		return addressing.ComponentStateSubstate(node.Addr)
	case addressing.NodeVault:
		return addressing.VaultSubstate(node)
	case addressing.NodeResourceManager:
		return addressing.ResourceManagerSubstate(node.Addr)
	case addressing.NodeBucket:
		return addressing.BucketSubstate(node)
	case addressing.NodeProof:
		return addressing.ProofSubstate(node)
	case addressing.NodeKeyValueStore:
		return addressing.KeyValueStoreSpaceSubstate(node.U256)
	case addressing.NodeWorktop:
		return addressing.WorktopSubstate()
	case addressing.NodeSystem:
		return addressing.SystemSubstate()
	default:
		return addressing.PackageSubstate(node.Addr)
	}
}

// lockParentSubstates locks whatever substate establishes the
// receiver's provenance and hands a ref to it into the child frame —
// a component's defining package, so a Scrypto callee can address its
// own blueprint's other functions without re-deriving the package
// address out of band. Vault/bucket access to their resource manager
// goes through lockResourceRefs instead, driven by the caller naming
// it explicitly in the call's ResourceRefs (spec §4.6 leaves the
// receiver's other ancestors to be named this way rather than walked
// automatically, since only the component/package relationship is
// fixed at instantiation time).
func (f *CallFrame) lockParentSubstates(node addressing.RENodeID) ([]addressing.SubstateID, map[addressing.RENodeID]RENodePointer, error) {
	if node.Kind != addressing.NodeComponent {
		return nil, nil, nil
	}
	infoSub := addressing.ComponentInfoSubstate(node.Addr)
	if err := f.shared.Track.AcquireLock(infoSub, f.depth, false, false); err != nil {
		return nil, nil, err
	}
	ov, err := f.shared.Track.ReadSubstate(infoSub)
	f.shared.Track.ReleaseLock(infoSub, f.depth)
	if err != nil {
		return nil, nil, err
	}
	info, ok := ov.Value.(*kheap.ComponentInfo)
	if !ok {
		return nil, nil, kernelerr.New(kernelerr.InvokeMethodInvalidReceiver, stringerID(node), "corrupt component info")
	}

	pkgSub := addressing.PackageSubstate(info.PackageAddress)
	if err := f.shared.Track.AcquireLock(pkgSub, f.depth, false, false); err != nil {
		return nil, nil, err
	}
	pkgID := addressing.PackageID(info.PackageAddress)
	return []addressing.SubstateID{pkgSub}, map[addressing.RENodeID]RENodePointer{pkgID: StorePointer(pkgID)}, nil
}

// lockResourceRefs locks every resource manager the caller named in
// the call's ResourceRefs and exposes each as a ref in the child's
// node-refs table.
func (f *CallFrame) lockResourceRefs(addrs []addressing.Address, refs map[addressing.RENodeID]RENodePointer) ([]addressing.SubstateID, error) {
	var locks []addressing.SubstateID
	for _, addr := range addrs {
		sub := addressing.ResourceManagerSubstate(addr)
		if err := f.shared.Track.AcquireLock(sub, f.depth, false, false); err != nil {
			for _, l := range locks {
				f.shared.Track.ReleaseLock(l, f.depth)
			}
			return nil, err
		}
		locks = append(locks, sub)
		refs[addressing.ResourceManagerID(addr)] = StorePointer(addressing.ResourceManagerID(addr))
	}
	return locks, nil
}

// resolveAccessRule looks up the rule guarding fn on node: components
// declare per-method rules in their ComponentInfo (spec §4.4); every
// other native receiver kind has no declared rule language in this
// model and defaults to AllowAll, a simplification recorded in the
// project's design notes since spec.md does not otherwise name a rule
// source for native objects.
func (f *CallFrame) resolveAccessRule(node addressing.RENodeID, fn addressing.FnIdentifier) auth.AccessRule {
	if node.Kind != addressing.NodeComponent {
		return auth.RuleAllowAll()
	}
	sub := addressing.ComponentInfoSubstate(node.Addr)
	if err := f.shared.Track.AcquireLock(sub, f.depth, false, false); err != nil {
		return auth.RuleDenyAll()
	}
	ov, err := f.shared.Track.ReadSubstate(sub)
	f.shared.Track.ReleaseLock(sub, f.depth)
	if err != nil {
		return auth.RuleDenyAll()
	}
	info, ok := ov.Value.(*kheap.ComponentInfo)
	if !ok {
		return auth.RuleDenyAll()
	}
	return info.AccessRuleFor(fn.Ident)
}

func authCheck(rule auth.AccessRule, frameZone, callerZone *auth.AuthZone) error {
	return auth.ReceiverAuth(rule, frameZone, callerZone)
}

// invokeAuthZoneMethod implements the handful of AuthZone operations
// that act directly on the calling frame's own zone rather than
// dispatching through a child frame — AuthZoneRef is a pseudo-receiver
// naming "this frame's zone", not a RENodeID the kernel tracks
// ownership of (spec §4.4, §4.5).
func (f *CallFrame) invokeAuthZoneMethod(fn addressing.FnIdentifier, input wasmapi.Value) (wasmapi.Value, error) {
	if err := f.shared.FeeReserve.Consume(f.shared.FeeTable.InvokeMethod, fee.ReasonInvokeMethod); err != nil {
		return wasmapi.Value{}, kernelerr.Wrap(kernelerr.CostingError, nil, err)
	}
	switch fn.Ident {
	case "clear":
		f.authZone.Clear()
		return wasmapi.Value{}, nil
	case "push":
		proofs, err := f.heap.TakeAvailableValues(input.NodeIDs, false)
		if err != nil {
			return wasmapi.Value{}, err
		}
		for id, root := range proofs {
			if root.Root.Kind != addressing.NodeProof {
				return wasmapi.Value{}, kernelerr.New(kernelerr.AuthZoneError, stringerID(id), "push requires a Proof node")
			}
			p := root.Root.Proof
			f.authZone.Push(auth.Proof{ResourceAddress: p.ResourceAddress, Fungible: p.Fungible, Amount: p.Amount, NonFungibleIDs: p.NonFungibleIDs})
		}
		return wasmapi.Value{}, nil
	case "pop":
		p, ok := f.authZone.Pop()
		if !ok {
			return wasmapi.Value{}, kernelerr.New(kernelerr.AuthZoneError, nil, "auth zone is empty")
		}
		id, err := f.shared.IDAllocator.NewProofID()
		if err != nil {
			return wasmapi.Value{}, kernelerr.Wrap(kernelerr.AuthZoneError, nil, err)
		}
		root := kheap.NewRoot(kheap.FromProof(&kheap.ProofNode{
			ResourceAddress: p.ResourceAddress,
			Fungible:        p.Fungible,
			Amount:          p.Amount,
			NonFungibleIDs:  p.NonFungibleIDs,
		}))
		f.heap.Insert(id, root)
		return wasmapi.Value{NodeIDs: []addressing.RENodeID{id}}, nil
	default:
		return wasmapi.Value{}, kernelerr.New(kernelerr.MethodDoesNotExist, nil, fn.Ident)
	}
}
