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

// Package kheap implements the per-frame heap arena of transient
// objects (spec §4.3): HeapRENode as a tagged union over typed
// payloads (bucket/proof/worktop/vault/kv-store/component/package/
// resource/system), root-plus-descendants grouping, and the movement
// and destruction rules the kernel enforces on them.
//
// Following spec §9's arena-index guidance, objects are addressed by
// RENodeID rather than by pointer; an ancestor's objects are reached
// by walking the borrowed-heaps stack kept in the kernel package, not
// by Go references that would otherwise force the whole call stack
// into a single borrow-checked arena.
package kheap

import (
	"fmt"

	"github.com/holiman/uint256"

	"github.com/radkit/ledgerkernel/internal/addressing"
	"github.com/radkit/ledgerkernel/internal/auth"
)

// ResourceContainer holds either a fungible amount or a set of
// non-fungible ids for one resource address. It backs buckets,
// vaults, and worktop entries alike.
type ResourceContainer struct {
	ResourceAddress addressing.Address
	Fungible        bool
	Amount          uint256.Int
	NonFungibles    map[string]addressing.NonFungibleID
}

func NewFungibleContainer(addr addressing.Address, amount uint256.Int) *ResourceContainer {
	return &ResourceContainer{ResourceAddress: addr, Fungible: true, Amount: amount}
}

func NewNonFungibleContainer(addr addressing.Address, ids []addressing.NonFungibleID) *ResourceContainer {
	m := make(map[string]addressing.NonFungibleID, len(ids))
	for _, id := range ids {
		m[nfKey(id)] = id
	}
	return &ResourceContainer{ResourceAddress: addr, NonFungibles: m}
}

func nfKey(id addressing.NonFungibleID) string {
	if id.IsBytes {
		return "b:" + string(id.Bytes)
	}
	return "n:" + id.Num.Hex()
}

func (c *ResourceContainer) IsEmpty() bool {
	if c.Fungible {
		return c.Amount.IsZero()
	}
	return len(c.NonFungibles) == 0
}

// Put merges other into c; both must carry the same resource address
// and fungibility.
func (c *ResourceContainer) Put(other *ResourceContainer) error {
	if c.ResourceAddress != other.ResourceAddress || c.Fungible != other.Fungible {
		return fmt.Errorf("kheap: resource container mismatch")
	}
	if c.Fungible {
		c.Amount.Add(&c.Amount, &other.Amount)
		return nil
	}
	if c.NonFungibles == nil {
		c.NonFungibles = make(map[string]addressing.NonFungibleID)
	}
	for k, v := range other.NonFungibles {
		c.NonFungibles[k] = v
	}
	return nil
}

// Take removes amount (fungible) from c, returning a new container
// carrying exactly that amount.
func (c *ResourceContainer) Take(amount uint256.Int) (*ResourceContainer, error) {
	if !c.Fungible {
		return nil, fmt.Errorf("kheap: take-by-amount on non-fungible container")
	}
	if c.Amount.Lt(&amount) {
		return nil, fmt.Errorf("kheap: insufficient balance")
	}
	c.Amount.Sub(&c.Amount, &amount)
	return NewFungibleContainer(c.ResourceAddress, amount), nil
}

// BucketNode is a transient fungible/non-fungible resource container.
type BucketNode struct {
	Container *ResourceContainer
}

// ProofNode is a bearer token evidencing authority over some amount
// or set of a resource. Restricted proofs (received from a caller via
// an invocation) may not be cloned by the callee (spec §4.6 step 4).
type ProofNode struct {
	ResourceAddress addressing.Address
	Fungible        bool
	Amount          uint256.Int
	NonFungibleIDs  map[string]addressing.NonFungibleID
	Restricted      bool
}

// WorktopNode holds resources not yet placed in a vault, scoped to
// the transaction processor (GLOSSARY).
type WorktopNode struct {
	Resources map[addressing.Address]*ResourceContainer
}

func NewWorktop() *WorktopNode {
	return &WorktopNode{Resources: make(map[addressing.Address]*ResourceContainer)}
}

// VaultNode is a persistable resource container owned by a component.
type VaultNode struct {
	Container *ResourceContainer
}

// KVStoreNode is a persistable map; ChildRefs records which stored
// entries themselves reference other RENodeIDs (vaults, nested
// kv-stores) so get_child_nodes can walk the ownership tree without
// deserializing every entry.
type KVStoreNode struct {
	Store     map[string][]byte
	ChildRefs map[string]addressing.RENodeID
}

func NewKVStore() *KVStoreNode {
	return &KVStoreNode{Store: make(map[string][]byte), ChildRefs: make(map[string]addressing.RENodeID)}
}

// ComponentInfo is the component's persisted metadata: which
// package/blueprint it was instantiated from, and the access rule
// required per method ident (spec §4.4).
type ComponentInfo struct {
	PackageAddress addressing.Address
	BlueprintName  string
	AccessRules    map[string]auth.AccessRule
}

// AccessRuleFor resolves the rule guarding ident, defaulting to
// AllowAll when the component didn't declare one explicitly.
func (c ComponentInfo) AccessRuleFor(ident string) auth.AccessRule {
	if r, ok := c.AccessRules[ident]; ok {
		return r
	}
	return auth.RuleAllowAll()
}

type ComponentStateNode struct {
	Raw       []byte
	ChildRefs map[string]addressing.RENodeID
}

type ComponentNode struct {
	Info  ComponentInfo
	State ComponentStateNode
}

type BlueprintDef struct {
	Functions []string
	Methods   []string
}

type PackageNode struct {
	Code       []byte
	Blueprints map[string]BlueprintDef
}

type ResourceManagerDef struct {
	Fungible    bool
	Divisibility uint8
	Metadata    map[string]string
}

type ResourceNode struct {
	Manager      ResourceManagerDef
	NonFungibles map[string][]byte // present only for non-fungible resources
}

type SystemNode struct {
	Epoch uint64
}

// HeapRENode is the tagged union over every live-object kind (spec
// §3). Exactly one payload field is non-nil, matching Kind. Accessors
// below panic on a wrong-variant access: per spec §7 this is a
// kernel-internal contract violation, never reachable from well-formed
// user code.
type HeapRENode struct {
	Kind addressing.NodeKind

	Bucket    *BucketNode
	Proof     *ProofNode
	Worktop   *WorktopNode
	Vault     *VaultNode
	KVStore   *KVStoreNode
	Component *ComponentNode
	Package   *PackageNode
	Resource  *ResourceNode
	System    *SystemNode
}

func FromBucket(n *BucketNode) HeapRENode { return HeapRENode{Kind: addressing.NodeBucket, Bucket: n} }
func FromProof(n *ProofNode) HeapRENode   { return HeapRENode{Kind: addressing.NodeProof, Proof: n} }
func FromWorktop(n *WorktopNode) HeapRENode {
	return HeapRENode{Kind: addressing.NodeWorktop, Worktop: n}
}
func FromVault(n *VaultNode) HeapRENode { return HeapRENode{Kind: addressing.NodeVault, Vault: n} }
func FromKVStore(n *KVStoreNode) HeapRENode {
	return HeapRENode{Kind: addressing.NodeKeyValueStore, KVStore: n}
}
func FromComponent(n *ComponentNode) HeapRENode {
	return HeapRENode{Kind: addressing.NodeComponent, Component: n}
}
func FromPackage(n *PackageNode) HeapRENode {
	return HeapRENode{Kind: addressing.NodePackage, Package: n}
}
func FromResource(n *ResourceNode) HeapRENode {
	return HeapRENode{Kind: addressing.NodeResourceManager, Resource: n}
}
func FromSystem(n *SystemNode) HeapRENode { return HeapRENode{Kind: addressing.NodeSystem, System: n} }

func wrongVariant(want addressing.NodeKind, have addressing.NodeKind) {
	panic(fmt.Sprintf("kheap: expected %s node, got %s (kernel bug)", want, have))
}

func (n *HeapRENode) BucketMut() *BucketNode {
	if n.Kind != addressing.NodeBucket {
		wrongVariant(addressing.NodeBucket, n.Kind)
	}
	return n.Bucket
}

func (n *HeapRENode) ProofMut() *ProofNode {
	if n.Kind != addressing.NodeProof {
		wrongVariant(addressing.NodeProof, n.Kind)
	}
	return n.Proof
}

func (n *HeapRENode) WorktopMut() *WorktopNode {
	if n.Kind != addressing.NodeWorktop {
		wrongVariant(addressing.NodeWorktop, n.Kind)
	}
	return n.Worktop
}

func (n *HeapRENode) VaultMut() *VaultNode {
	if n.Kind != addressing.NodeVault {
		wrongVariant(addressing.NodeVault, n.Kind)
	}
	return n.Vault
}

func (n *HeapRENode) KVStoreMut() *KVStoreNode {
	if n.Kind != addressing.NodeKeyValueStore {
		wrongVariant(addressing.NodeKeyValueStore, n.Kind)
	}
	return n.KVStore
}

func (n *HeapRENode) ComponentMut() *ComponentNode {
	if n.Kind != addressing.NodeComponent {
		wrongVariant(addressing.NodeComponent, n.Kind)
	}
	return n.Component
}

func (n *HeapRENode) PackageMut() *PackageNode {
	if n.Kind != addressing.NodePackage {
		wrongVariant(addressing.NodePackage, n.Kind)
	}
	return n.Package
}

func (n *HeapRENode) ResourceMut() *ResourceNode {
	if n.Kind != addressing.NodeResourceManager {
		wrongVariant(addressing.NodeResourceManager, n.Kind)
	}
	return n.Resource
}

// GetChildNodes returns the set of ids this node directly references
// (spec §4.3).
func (n *HeapRENode) GetChildNodes() []addressing.RENodeID {
	switch n.Kind {
	case addressing.NodeComponent:
		out := make([]addressing.RENodeID, 0, len(n.Component.State.ChildRefs))
		for _, id := range n.Component.State.ChildRefs {
			out = append(out, id)
		}
		return out
	case addressing.NodeKeyValueStore:
		out := make([]addressing.RENodeID, 0, len(n.KVStore.ChildRefs))
		for _, id := range n.KVStore.ChildRefs {
			out = append(out, id)
		}
		return out
	default:
		return nil
	}
}

// CanPersist reports whether this node kind may be globalized or
// inserted into the Track: buckets, proofs and worktops are
// transaction-scoped only.
func (n *HeapRENode) CanPersist() bool {
	switch n.Kind {
	case addressing.NodeComponent, addressing.NodePackage, addressing.NodeResourceManager,
		addressing.NodeVault, addressing.NodeKeyValueStore:
		return true
	default:
		return false
	}
}

// CanDrop reports whether a root of this kind may be dropped outright
// at frame exit: buckets/proofs/worktops drop freely, vaults/
// kv-stores/components never do (spec §4.3).
func (n *HeapRENode) CanDrop() bool {
	switch n.Kind {
	case addressing.NodeBucket, addressing.NodeProof, addressing.NodeWorktop:
		return true
	default:
		return false
	}
}

// IsEmpty reports whether a droppable node currently holds nothing,
// used by DropNodes to additionally reject non-empty vaults/etc. if
// ever passed by mistake (defense matching the original's panic on
// wrong node kind; here surfaced as a normal error).
func (n *HeapRENode) IsEmpty() bool {
	switch n.Kind {
	case addressing.NodeBucket:
		return n.Bucket.Container == nil || n.Bucket.Container.IsEmpty()
	case addressing.NodeWorktop:
		for _, c := range n.Worktop.Resources {
			if !c.IsEmpty() {
				return false
			}
		}
		return true
	case addressing.NodeProof:
		return true
	case addressing.NodeVault:
		return n.Vault.Container == nil || n.Vault.Container.IsEmpty()
	default:
		return false
	}
}
