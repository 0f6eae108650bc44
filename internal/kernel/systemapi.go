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
	"github.com/google/uuid"

	"github.com/radkit/ledgerkernel/internal/addressing"
	"github.com/radkit/ledgerkernel/internal/auth"
	"github.com/radkit/ledgerkernel/internal/fee"
	"github.com/radkit/ledgerkernel/internal/kernelerr"
	"github.com/radkit/ledgerkernel/internal/kheap"
	"github.com/radkit/ledgerkernel/internal/track"
	"github.com/radkit/ledgerkernel/internal/wasmapi"
)

// NodeCreate allocates a fresh RENodeID of kind, assembling it from
// whatever child ids the caller has already moved into this frame's
// heap, and inserts the new root there — purely a heap operation
// until NodeGlobalize persists it (spec §4.6).
func (f *CallFrame) NodeCreate(kind addressing.NodeKind, childIDs []addressing.RENodeID, payload any) (addressing.RENodeID, error) {
	// persist_only=true: every child of a newly created node must
	// itself be persistable, since the new node may later be
	// globalized wholesale along with its descendants (spec §4.6).
	children, err := f.heap.TakeAvailableValues(childIDs, true)
	if err != nil {
		return addressing.RENodeID{}, err
	}

	var id addressing.RENodeID
	var node kheap.HeapRENode
	switch kind {
	case addressing.NodeVault:
		rid, aerr := f.shared.IDAllocator.NewVaultID()
		if aerr != nil {
			return addressing.RENodeID{}, aerr
		}
		id = rid
		node = kheap.FromVault(payload.(*kheap.VaultNode))
	case addressing.NodeKeyValueStore:
		rid, aerr := f.shared.IDAllocator.NewKVStoreID()
		if aerr != nil {
			return addressing.RENodeID{}, aerr
		}
		id = rid
		node = kheap.FromKVStore(payload.(*kheap.KVStoreNode))
	case addressing.NodeComponent:
		addr, aerr := f.shared.IDAllocator.NewComponentAddress()
		if aerr != nil {
			return addressing.RENodeID{}, aerr
		}
		id = addressing.ComponentID(addr)
		node = kheap.FromComponent(payload.(*kheap.ComponentNode))
	case addressing.NodePackage:
		addr, aerr := f.shared.IDAllocator.NewPackageAddress()
		if aerr != nil {
			return addressing.RENodeID{}, aerr
		}
		id = addressing.PackageID(addr)
		node = kheap.FromPackage(payload.(*kheap.PackageNode))
	case addressing.NodeResourceManager:
		addr, aerr := f.shared.IDAllocator.NewResourceAddress()
		if aerr != nil {
			return addressing.RENodeID{}, aerr
		}
		id = addressing.ResourceManagerID(addr)
		node = kheap.FromResource(payload.(*kheap.ResourceNode))
	case addressing.NodeBucket:
		rid, aerr := f.shared.IDAllocator.NewBucketID()
		if aerr != nil {
			return addressing.RENodeID{}, aerr
		}
		id = rid
		node = kheap.FromBucket(payload.(*kheap.BucketNode))
	case addressing.NodeProof:
		rid, aerr := f.shared.IDAllocator.NewProofID()
		if aerr != nil {
			return addressing.RENodeID{}, aerr
		}
		id = rid
		node = kheap.FromProof(payload.(*kheap.ProofNode))
	default:
		return addressing.RENodeID{}, kernelerr.New(kernelerr.RENodeCreateNodeNotFound, nil, kind.String())
	}

	root := kheap.NewRoot(node)
	descendants := make(map[addressing.RENodeID]kheap.HeapRENode, len(children))
	for cid, croot := range children {
		descendants[cid] = croot.Root
		for gcid, gc := range croot.Children {
			descendants[gcid] = gc
		}
	}
	if err := root.InsertNonRootNodes(descendants); err != nil {
		return addressing.RENodeID{}, err
	}

	size := uint64(len(childIDs))
	if err := f.shared.FeeReserve.Consume(f.shared.FeeTable.Create(size), fee.ReasonCreate); err != nil {
		return addressing.RENodeID{}, kernelerr.Wrap(kernelerr.CostingError, nil, err)
	}

	f.heap.Insert(id, root)
	return id, nil
}

// NodeGlobalize moves a heap-owned node (and its descendants) into the
// Track as its canonical substate(s), failing for node kinds that may
// never be store roots on their own — a Vault only ever persists as a
// component's child, never a free-standing global (spec §8 boundary
// case).
func (f *CallFrame) NodeGlobalize(id addressing.RENodeID) error {
	if id.Kind == addressing.NodeVault || id.Kind == addressing.NodeBucket || id.Kind == addressing.NodeProof || id.Kind == addressing.NodeWorktop {
		return kernelerr.NewRENodeGlobalizeTypeNotAllowed(stringerID(id))
	}
	root, ok := f.heap.Remove(id)
	if !ok {
		return kernelerr.NewRENodeNotFound(stringerID(id))
	}

	size := uint64(1 + len(root.Children))
	if err := f.shared.FeeReserve.Consume(f.shared.FeeTable.Globalize(size), fee.ReasonGlobalize); err != nil {
		return kernelerr.Wrap(kernelerr.CostingError, nil, err)
	}

	switch id.Kind {
	case addressing.NodePackage:
		if err := f.shared.Track.CreateUUIDSubstate(addressing.PackageSubstate(id.Addr), root.Root.Package); err != nil {
			return err
		}
	case addressing.NodeComponent:
		info := root.Root.Component.Info
		if err := f.shared.Track.CreateUUIDSubstate(addressing.ComponentInfoSubstate(id.Addr), &info); err != nil {
			return err
		}
		state := root.Root.Component.State
		if err := f.shared.Track.CreateUUIDSubstate(addressing.ComponentStateSubstate(id.Addr), &state); err != nil {
			return err
		}
	case addressing.NodeResourceManager:
		if err := f.shared.Track.CreateUUIDSubstate(addressing.ResourceManagerSubstate(id.Addr), root.Root.Resource); err != nil {
			return err
		}
	case addressing.NodeKeyValueStore:
		if err := f.shared.Track.CreateUUIDSubstate(addressing.KeyValueStoreSpaceSubstate(id.U256), root.Root.KVStore); err != nil {
			return err
		}
	default:
		return kernelerr.NewRENodeGlobalizeTypeNotAllowed(stringerID(id))
	}

	// A globalized root's owned descendants (vaults nested in a
	// component's state, kv-stores nested in either) become their own
	// addressable substates too, so later invoke_method calls can
	// reach them directly by id rather than through their parent's
	// blob (spec §3's one-substate-per-node rule applies recursively).
	for cid, cnode := range root.Children {
		switch cid.Kind {
		case addressing.NodeVault:
			if err := f.shared.Track.CreateUUIDSubstate(addressing.VaultSubstate(cid), cnode.Vault); err != nil {
				return err
			}
		case addressing.NodeKeyValueStore:
			if err := f.shared.Track.CreateUUIDSubstate(addressing.KeyValueStoreSpaceSubstate(cid.U256), cnode.KVStore); err != nil {
				return err
			}
		}
	}
	return nil
}

// substateValueChildren extracts the child RENodeIDs a stored substate
// value references, however it happens to be represented: a generic
// Scrypto write stores the wasmapi.Value verbatim (NodeIDs carries its
// children); a globalized ComponentState stores the typed kheap node
// directly, whose ChildRefs plays the same role (spec §4.6's
// substate_write/substate_take delta computation needs both).
func substateValueChildren(v any) []addressing.RENodeID {
	switch val := v.(type) {
	case wasmapi.Value:
		return val.NodeIDs
	case *kheap.ComponentStateNode:
		out := make([]addressing.RENodeID, 0, len(val.ChildRefs))
		for _, id := range val.ChildRefs {
			out = append(out, id)
		}
		return out
	default:
		return nil
	}
}

// substateValueRaw extracts the raw payload bytes from a stored
// substate value, whether it was written by SubstateWrite (a
// wasmapi.Value, with NodeIDs carried alongside) or predates that path
// (a bare []byte, the representation SubstateWrite itself used before
// it needed to preserve child references across reads).
func substateValueRaw(v any) []byte {
	switch val := v.(type) {
	case wasmapi.Value:
		return val.Raw
	case []byte:
		return val
	default:
		return nil
	}
}

// SubstateRead reads id, failing unless the caller's actor may read
// this substate (spec §4.6's is_substate_readable), and charging
// per-byte read cost. Every child the stored value references is
// added to the caller's own node-refs table under the same derived
// Store pointer, so a subsequent call can address it directly.
func (f *CallFrame) SubstateRead(id addressing.SubstateID) (wasmapi.Value, error) {
	if !f.actor.IsReadableBy(id.GetOwningNode()) {
		return wasmapi.Value{}, kernelerr.NewSubstateReadNotReadable(id)
	}
	ov, err := f.shared.Track.ReadSubstate(id)
	if err != nil {
		return wasmapi.Value{}, err
	}
	raw := substateValueRaw(ov.Value)
	if err := f.shared.FeeReserve.Consume(f.shared.FeeTable.Read(uint64(len(raw))), fee.ReasonRead); err != nil {
		return wasmapi.Value{}, kernelerr.Wrap(kernelerr.CostingError, nil, err)
	}
	children := substateValueChildren(ov.Value)
	for _, cid := range children {
		f.nodeRefs[cid] = StorePointer(cid)
	}
	return wasmapi.Value{Raw: raw, NodeIDs: children}, nil
}

// SubstateWrite overwrites id's value under whatever lock the caller
// already holds, failing unless the actor may write this substate
// (spec §4.6's is_substate_writeable). New child ids the value carries
// must already be owned (and persistable) by the caller and are moved
// into the substate; a child the previous value referenced but the
// new one drops must no longer be in the caller's heap, or the write
// silently orphaned it (verify_stored_value_update, spec §4.6/§8).
func (f *CallFrame) SubstateWrite(id addressing.SubstateID, value wasmapi.Value) error {
	if !f.actor.IsWritableBy(id.GetOwningNode()) {
		return kernelerr.NewSubstateWriteNotWriteable(id)
	}

	var prevChildren []addressing.RENodeID
	if ov, err := f.shared.Track.ReadSubstate(id); err == nil {
		prevChildren = substateValueChildren(ov.Value)
	}
	prevSet := make(map[addressing.RENodeID]bool, len(prevChildren))
	for _, c := range prevChildren {
		prevSet[c] = true
	}
	newSet := make(map[addressing.RENodeID]bool, len(value.NodeIDs))
	for _, c := range value.NodeIDs {
		newSet[c] = true
	}

	for c := range newSet {
		if prevSet[c] {
			continue
		}
		if !f.heap.Contains(c) {
			return kernelerr.NewRENodeNotFound(stringerID(c))
		}
	}
	for c := range prevSet {
		if newSet[c] {
			continue
		}
		if f.heap.Contains(c) {
			return kernelerr.NewStoredNodeRemoved(id, c.String())
		}
	}

	if len(value.NodeIDs) > 0 {
		if _, err := f.heap.TakeAvailableValues(value.NodeIDs, true); err != nil {
			return err
		}
	}

	if err := f.shared.FeeReserve.Consume(f.shared.FeeTable.Write(uint64(len(value.Raw))), fee.ReasonWrite); err != nil {
		return kernelerr.Wrap(kernelerr.CostingError, nil, err)
	}
	f.shared.Track.MarkTouched(id)
	return f.shared.Track.WriteSubstate(id, value)
}

// SubstateTake moves id's value out of the Track entirely, used by
// operations that convert a persisted substate back into a heap
// object (e.g. Vault::take on a store-resident vault). Shares
// SubstateWrite's authorization rule and refuses values that still
// carry child node references — only leaf values are takeable (spec
// §4.6).
func (f *CallFrame) SubstateTake(id addressing.SubstateID) (wasmapi.Value, error) {
	if !f.actor.IsWritableBy(id.GetOwningNode()) {
		return wasmapi.Value{}, kernelerr.NewSubstateWriteNotWriteable(id)
	}
	ov, err := f.shared.Track.ReadSubstate(id)
	if err != nil {
		return wasmapi.Value{}, err
	}
	if children := substateValueChildren(ov.Value); len(children) > 0 {
		return wasmapi.Value{}, kernelerr.NewValueNotAllowed(id, "value contains child node references")
	}
	v, err := f.shared.Track.TakeSubstate(id)
	if err != nil {
		return wasmapi.Value{}, err
	}
	return wasmapi.Value{Raw: substateValueRaw(v)}, nil
}

// BorrowNode resolves id to its underlying heap payload (own frame,
// an ancestor's, or the Track's), charging the local/global borrow
// cost accordingly (spec §4.6, §6).
func (f *CallFrame) BorrowNode(id addressing.RENodeID) (any, error) {
	if root, ok := f.heap.Get(id); ok {
		if err := f.shared.FeeReserve.Consume(f.shared.FeeTable.BorrowLocal, fee.ReasonBorrowLocal); err != nil {
			return nil, kernelerr.Wrap(kernelerr.CostingError, nil, err)
		}
		return root.Root, nil
	}
	for i := len(f.parentHeaps) - 1; i >= 0; i-- {
		if root, ok := f.parentHeaps[i].Get(id); ok {
			if err := f.shared.FeeReserve.Consume(f.shared.FeeTable.BorrowLocal, fee.ReasonBorrowLocal); err != nil {
				return nil, kernelerr.Wrap(kernelerr.CostingError, nil, err)
			}
			return root.Root, nil
		}
	}
	if p, ok := f.nodeRefs[id]; ok && p.InStore {
		if err := f.shared.FeeReserve.Consume(f.shared.FeeTable.BorrowGlobal(true, 0), fee.ReasonBorrowGlobal); err != nil {
			return nil, kernelerr.Wrap(kernelerr.CostingError, nil, err)
		}
		return p, nil
	}
	return nil, kernelerr.New(kernelerr.RENodeNotFound, stringerID(id), "not borrowable from this frame")
}

// SubstateBorrowMut acquires a short-lived exclusive lock on id and
// returns its current value for in-place mutation by the caller, who
// must call SubstateReturnMut to write it back and release the lock.
func (f *CallFrame) SubstateBorrowMut(id addressing.SubstateID) (any, error) {
	if err := f.shared.Track.AcquireLock(id, f.depth, true, false); err != nil {
		return nil, err
	}
	ov, err := f.shared.Track.ReadSubstate(id)
	if err != nil {
		f.shared.Track.ReleaseLock(id, f.depth)
		return nil, err
	}
	return ov.Value, nil
}

// SubstateReturnMut writes value back to id and releases the lock
// SubstateBorrowMut acquired.
func (f *CallFrame) SubstateReturnMut(id addressing.SubstateID, value any) error {
	if err := f.shared.Track.WriteSubstate(id, value); err != nil {
		return err
	}
	f.shared.Track.MarkTouched(id)
	return f.shared.Track.ReleaseLock(id, f.depth)
}

// GenerateUUID mints a deterministic uuid scoped to this transaction
// (spec §4.1, §4.6).
func (f *CallFrame) GenerateUUID() (uuid.UUID, error) {
	if err := f.shared.FeeReserve.Consume(f.shared.FeeTable.GenerateUUID, fee.ReasonGenerateUUID); err != nil {
		return uuid.UUID{}, kernelerr.Wrap(kernelerr.CostingError, nil, err)
	}
	return f.shared.IDAllocator.NewUUID()
}

func (f *CallFrame) TransactionHash() [32]byte { return f.shared.TxHash }

func (f *CallFrame) EmitLog(level track.LogLevel, message string) {
	_ = f.shared.FeeReserve.Consume(f.shared.FeeTable.EmitLog(uint64(len(message))), fee.ReasonEmitLog)
	f.shared.Track.AddLog(level, message)
}

// CheckAccessRule evaluates rule against proofs the caller names out
// of its own heap (e.g. a just-created proof not yet pushed to the
// auth zone) in addition to the frame's auth zone — the predicate
// hosted code uses to gate its own logic, distinct from the kernel's
// own receiver-authorization check in invoke_method (spec §4.4).
func (f *CallFrame) CheckAccessRule(rule auth.AccessRule, proofIDs []addressing.RENodeID) (bool, error) {
	zone := auth.NewAuthZone()
	for _, id := range proofIDs {
		root, ok := f.heap.Get(id)
		if !ok || root.Root.Kind != addressing.NodeProof {
			return false, kernelerr.New(kernelerr.ProofError, stringerID(id), "not a proof owned by this frame")
		}
		p := root.Root.Proof
		zone.Push(auth.Proof{ResourceAddress: p.ResourceAddress, Fungible: p.Fungible, Amount: p.Amount, NonFungibleIDs: p.NonFungibleIDs})
	}
	err := auth.ReceiverAuth(rule, f.authZone, zone)
	if err != nil {
		return false, nil
	}
	return true, nil
}

func (f *CallFrame) FeeReserve() *fee.Reserve { return f.shared.FeeReserve }
func (f *CallFrame) FeeTable() *fee.Table     { return f.shared.FeeTable }
