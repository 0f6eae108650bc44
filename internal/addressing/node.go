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

// Package addressing defines the tagged identifiers for live objects
// (RENodeID) and persistent substates (SubstateID), their canonical
// byte encoding, and the visibility/ownership predicates the kernel
// consults on every SystemApi call.
package addressing

import (
	"encoding/binary"
	"fmt"

	"github.com/holiman/uint256"
)

// NodeKind tags the variant carried by a RENodeID.
type NodeKind uint8

const (
	NodeBucket NodeKind = iota
	NodeProof
	NodeWorktop
	NodeVault
	NodeKeyValueStore
	NodeComponent
	NodeResourceManager
	NodePackage
	NodeSystem
)

func (k NodeKind) String() string {
	switch k {
	case NodeBucket:
		return "Bucket"
	case NodeProof:
		return "Proof"
	case NodeWorktop:
		return "Worktop"
	case NodeVault:
		return "Vault"
	case NodeKeyValueStore:
		return "KeyValueStore"
	case NodeComponent:
		return "Component"
	case NodeResourceManager:
		return "ResourceManager"
	case NodePackage:
		return "Package"
	case NodeSystem:
		return "System"
	default:
		return fmt.Sprintf("NodeKind(%d)", uint8(k))
	}
}

// Address is a 27-byte node address, matching the canonical width the
// original substate encoding uses for component/package/resource
// addresses so that prefix-range iteration over the store lines up on
// byte boundaries regardless of address kind.
type Address [27]byte

func (a Address) String() string { return fmt.Sprintf("%x", a) }

// RENodeID identifies a live object known to some frame's heap, or
// (once persisted) the node a SubstateID belongs to.
type RENodeID struct {
	Kind NodeKind
	U32  uint32
	U256 uint256.Int
	Addr Address
}

func BucketID(id uint32) RENodeID      { return RENodeID{Kind: NodeBucket, U32: id} }
func ProofID(id uint32) RENodeID       { return RENodeID{Kind: NodeProof, U32: id} }
func WorktopID() RENodeID              { return RENodeID{Kind: NodeWorktop} }
func SystemID() RENodeID               { return RENodeID{Kind: NodeSystem} }
func VaultID(id uint256.Int) RENodeID  { return RENodeID{Kind: NodeVault, U256: id} }
func KVStoreID(id uint256.Int) RENodeID {
	return RENodeID{Kind: NodeKeyValueStore, U256: id}
}
func ComponentID(addr Address) RENodeID { return RENodeID{Kind: NodeComponent, Addr: addr} }
func ResourceManagerID(addr Address) RENodeID {
	return RENodeID{Kind: NodeResourceManager, Addr: addr}
}
func PackageID(addr Address) RENodeID { return RENodeID{Kind: NodePackage, Addr: addr} }

// Key renders a RENodeID as a stable map key usable in ordered
// containers and as the basis of the SubstateID encoding below.
func (id RENodeID) Key() string {
	switch id.Kind {
	case NodeBucket, NodeProof:
		return fmt.Sprintf("%d:%d", id.Kind, id.U32)
	case NodeWorktop, NodeSystem:
		return fmt.Sprintf("%d", id.Kind)
	case NodeVault, NodeKeyValueStore:
		return fmt.Sprintf("%d:%s", id.Kind, id.U256.Hex())
	default:
		return fmt.Sprintf("%d:%x", id.Kind, id.Addr)
	}
}

func (id RENodeID) String() string { return id.Kind.String() + "(" + id.Key() + ")" }

// CanMove reports whether objects of this kind may be moved between
// frame heaps (buckets, proofs, vaults, kv-stores, components). The
// worktop and System node never leave the frame that owns them.
func (id RENodeID) CanMove() bool {
	switch id.Kind {
	case NodeBucket, NodeProof, NodeVault, NodeKeyValueStore, NodeComponent:
		return true
	default:
		return false
	}
}

// SubstateKind tags the variant carried by a SubstateID.
type SubstateKind uint8

const (
	SubPackage SubstateKind = iota
	SubComponentInfo
	SubComponentState
	SubResourceManager
	SubNonFungibleSpace
	SubNonFungible
	SubKeyValueStoreSpace
	SubKeyValueStoreEntry
	SubVault
	SubSystem
	SubBucket
	SubProof
	SubWorktop
)

// NonFungibleID mirrors the original two practical id kinds: a small
// integer and an opaque byte string (restored from original_source's
// resource model; spec.md only names the NonFungible substate shape).
type NonFungibleID struct {
	IsBytes bool
	Num     uint256.Int
	Bytes   []byte
}

func (n NonFungibleID) key() string {
	if n.IsBytes {
		return "b:" + string(n.Bytes)
	}
	return "n:" + n.Num.Hex()
}

// SubstateID is the tagged persistent address of a cell in the Track.
type SubstateID struct {
	Kind    SubstateKind
	Addr    Address
	NFID    NonFungibleID
	KVStore uint256.Int
	Key     []byte // raw kv-store entry key bytes
	Local   RENodeID
}

func PackageSubstate(addr Address) SubstateID {
	return SubstateID{Kind: SubPackage, Addr: addr}
}
func ComponentInfoSubstate(addr Address) SubstateID {
	return SubstateID{Kind: SubComponentInfo, Addr: addr}
}
func ComponentStateSubstate(addr Address) SubstateID {
	return SubstateID{Kind: SubComponentState, Addr: addr}
}
func ResourceManagerSubstate(addr Address) SubstateID {
	return SubstateID{Kind: SubResourceManager, Addr: addr}
}
func NonFungibleSpaceSubstate(addr Address) SubstateID {
	return SubstateID{Kind: SubNonFungibleSpace, Addr: addr}
}
func NonFungibleSubstate(addr Address, nfid NonFungibleID) SubstateID {
	return SubstateID{Kind: SubNonFungible, Addr: addr, NFID: nfid}
}
func KeyValueStoreSpaceSubstate(id uint256.Int) SubstateID {
	return SubstateID{Kind: SubKeyValueStoreSpace, KVStore: id}
}
func KeyValueStoreEntrySubstate(id uint256.Int, key []byte) SubstateID {
	return SubstateID{Kind: SubKeyValueStoreEntry, KVStore: id, Key: key}
}
func VaultSubstate(id RENodeID) SubstateID { return SubstateID{Kind: SubVault, Local: id} }
func SystemSubstate() SubstateID           { return SubstateID{Kind: SubSystem} }
func BucketSubstate(id RENodeID) SubstateID { return SubstateID{Kind: SubBucket, Local: id} }
func ProofSubstate(id RENodeID) SubstateID  { return SubstateID{Kind: SubProof, Local: id} }
func WorktopSubstate() SubstateID           { return SubstateID{Kind: SubWorktop} }

// Encode renders the canonical store key: a tag byte followed by a
// fixed-width payload, so range iteration by prefix (§6) lands on
// exact key-length boundaries per kind.
func (id SubstateID) Encode() []byte {
	buf := []byte{byte(id.Kind)}
	switch id.Kind {
	case SubPackage, SubComponentInfo, SubComponentState, SubResourceManager, SubNonFungibleSpace:
		buf = append(buf, id.Addr[:]...)
	case SubNonFungible:
		buf = append(buf, id.Addr[:]...)
		buf = append(buf, []byte(id.NFID.key())...)
	case SubKeyValueStoreSpace:
		b := id.KVStore.Bytes32()
		buf = append(buf, b[:]...)
	case SubKeyValueStoreEntry:
		b := id.KVStore.Bytes32()
		buf = append(buf, b[:]...)
		var lenBuf [4]byte
		binary.BigEndian.PutUint32(lenBuf[:], uint32(len(id.Key)))
		buf = append(buf, lenBuf[:]...)
		buf = append(buf, id.Key...)
	case SubVault, SubBucket, SubProof:
		buf = append(buf, []byte(id.Local.Key())...)
	case SubSystem, SubWorktop:
		// no payload
	}
	return buf
}

func (id SubstateID) String() string {
	return fmt.Sprintf("Substate(kind=%d addr=%x)", id.Kind, id.Addr)
}

// GetOwningNode maps a SubstateID to the RENodeID of the node it
// belongs to, the one-to-one relation spec.md §3 requires.
func (id SubstateID) GetOwningNode() RENodeID {
	switch id.Kind {
	case SubPackage:
		return PackageID(id.Addr)
	case SubComponentInfo, SubComponentState:
		return ComponentID(id.Addr)
	case SubResourceManager, SubNonFungibleSpace, SubNonFungible:
		return ResourceManagerID(id.Addr)
	case SubKeyValueStoreSpace, SubKeyValueStoreEntry:
		return KVStoreID(id.KVStore)
	case SubVault:
		return id.Local
	case SubSystem:
		return SystemID()
	case SubBucket:
		return id.Local
	case SubProof:
		return id.Local
	case SubWorktop:
		return WorktopID()
	default:
		panic(fmt.Sprintf("addressing: unhandled substate kind %d", id.Kind))
	}
}

// CanOwnChildren reports whether a node of this kind may itself own
// descendant RENodeIDs (components own state that may reference
// vaults/kv-stores; kv-stores own entries that may reference nested
// structures; resources own non-fungible data).
func CanOwnChildren(kind NodeKind) bool {
	switch kind {
	case NodeComponent, NodeKeyValueStore, NodeResourceManager:
		return true
	default:
		return false
	}
}
