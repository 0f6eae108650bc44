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

// Package idalloc deterministically mints every identifier kind the
// kernel hands out (spec §4.1): buckets and proofs get transaction-local
// sequential counters; everything else is derived from a
// domain-separated hash of the transaction hash and a monotonic
// per-kind counter, so replaying a transaction with identical inputs
// always produces identical ids.
package idalloc

import (
	"encoding/binary"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/holiman/uint256"
	"golang.org/x/crypto/sha3"

	"github.com/radkit/ledgerkernel/internal/addressing"
)

// ErrOutOfIds is returned once a counter of a given kind has minted
// 2^32 ids within the same transaction.
var ErrOutOfIds = errors.New("idalloc: out of ids")

type domain byte

const (
	domainVault domain = iota
	domainKVStore
	domainPackage
	domainComponent
	domainResource
	domainUUID
)

// Allocator mints identifiers for one transaction. It is not
// goroutine-safe; the kernel is single-threaded per transaction
// (spec §5).
type Allocator struct {
	txHash [32]byte

	bucketCounter uint32
	proofCounter  uint32

	kindCounters map[domain]uint32
}

func New(txHash [32]byte) *Allocator {
	return &Allocator{
		txHash:       txHash,
		kindCounters: make(map[domain]uint32),
	}
}

func (a *Allocator) nextSequential(counter *uint32) (uint32, error) {
	if *counter == ^uint32(0) {
		return 0, fmt.Errorf("idalloc: %w", ErrOutOfIds)
	}
	id := *counter
	*counter++
	return id, nil
}

func (a *Allocator) NewBucketID() (addressing.RENodeID, error) {
	id, err := a.nextSequential(&a.bucketCounter)
	if err != nil {
		return addressing.RENodeID{}, err
	}
	return addressing.BucketID(id), nil
}

func (a *Allocator) NewProofID() (addressing.RENodeID, error) {
	id, err := a.nextSequential(&a.proofCounter)
	if err != nil {
		return addressing.RENodeID{}, err
	}
	return addressing.ProofID(id), nil
}

// next advances the per-domain counter, returning the value to use in
// this mint and erroring once a domain has minted 2^32 ids.
func (a *Allocator) next(d domain) (uint32, error) {
	c := a.kindCounters[d]
	if c == ^uint32(0) {
		return 0, fmt.Errorf("idalloc: %w", ErrOutOfIds)
	}
	a.kindCounters[d] = c + 1
	return c, nil
}

func (a *Allocator) hash(d domain) []byte {
	c, err := a.next(d)
	if err != nil {
		return nil
	}
	h := sha3.NewLegacyKeccak256()
	h.Write(a.txHash[:])
	h.Write([]byte{byte(d)})
	var cbuf [4]byte
	binary.BigEndian.PutUint32(cbuf[:], c)
	h.Write(cbuf[:])
	return h.Sum(nil)
}

func (a *Allocator) NewVaultID() (addressing.RENodeID, error) {
	digest := a.hash(domainVault)
	if digest == nil {
		return addressing.RENodeID{}, fmt.Errorf("idalloc: vault: %w", ErrOutOfIds)
	}
	var u uint256.Int
	u.SetBytes32(pad32(digest))
	return addressing.VaultID(u), nil
}

func (a *Allocator) NewKVStoreID() (addressing.RENodeID, error) {
	digest := a.hash(domainKVStore)
	if digest == nil {
		return addressing.RENodeID{}, fmt.Errorf("idalloc: kvstore: %w", ErrOutOfIds)
	}
	var u uint256.Int
	u.SetBytes32(pad32(digest))
	return addressing.KVStoreID(u), nil
}

func (a *Allocator) NewPackageAddress() (addressing.Address, error) {
	digest := a.hash(domainPackage)
	if digest == nil {
		return addressing.Address{}, fmt.Errorf("idalloc: package: %w", ErrOutOfIds)
	}
	return toAddress(digest), nil
}

func (a *Allocator) NewComponentAddress() (addressing.Address, error) {
	digest := a.hash(domainComponent)
	if digest == nil {
		return addressing.Address{}, fmt.Errorf("idalloc: component: %w", ErrOutOfIds)
	}
	return toAddress(digest), nil
}

func (a *Allocator) NewResourceAddress() (addressing.Address, error) {
	digest := a.hash(domainResource)
	if digest == nil {
		return addressing.Address{}, fmt.Errorf("idalloc: resource: %w", ErrOutOfIds)
	}
	return toAddress(digest), nil
}

// NewUUID backs the SystemApi generate_uuid call. It is layered on
// the same deterministic counter/hash chain as every other id so that
// replaying the transaction yields byte-identical uuids.
func (a *Allocator) NewUUID() (uuid.UUID, error) {
	digest := a.hash(domainUUID)
	if digest == nil {
		return uuid.UUID{}, fmt.Errorf("idalloc: uuid: %w", ErrOutOfIds)
	}
	var id uuid.UUID
	copy(id[:], digest[:16])
	id[6] = (id[6] & 0x0f) | 0x40 // version 4
	id[8] = (id[8] & 0x3f) | 0x80 // variant 10
	return id, nil
}

func pad32(b []byte) []byte {
	if len(b) >= 32 {
		return b[len(b)-32:]
	}
	out := make([]byte, 32)
	copy(out[32-len(b):], b)
	return out
}

func toAddress(digest []byte) addressing.Address {
	var addr addressing.Address
	copy(addr[:], digest[len(digest)-len(addr):])
	return addr
}
