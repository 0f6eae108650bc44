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

// Package auth implements the frame-local AuthZone and the
// AuthModule policy engine that decides whether a caller is
// authorized to invoke a given receiver/method (spec §4.4).
package auth

import (
	"github.com/holiman/uint256"

	"github.com/radkit/ledgerkernel/internal/addressing"
)

// Proof is a bearer token evidencing authority over some amount or
// set of a resource (GLOSSARY). It is the AuthZone's content type;
// the full ProofNode lifecycle (restriction, cloning) lives in kheap.
type Proof struct {
	ResourceAddress addressing.Address
	Fungible        bool
	Amount          uint256.Int
	NonFungibleIDs  map[string]addressing.NonFungibleID
}

// AuthZone is a frame-local ordered container of proofs (spec §4.4).
type AuthZone struct {
	proofs []Proof
}

func NewAuthZone() *AuthZone { return &AuthZone{} }

func (z *AuthZone) Push(p Proof) { z.proofs = append(z.proofs, p) }

func (z *AuthZone) Pop() (Proof, bool) {
	if len(z.proofs) == 0 {
		return Proof{}, false
	}
	p := z.proofs[len(z.proofs)-1]
	z.proofs = z.proofs[:len(z.proofs)-1]
	return p, true
}

// Clear drops every contained proof, invoked automatically at frame
// exit when the frame owns an auth zone (spec §4.4). Idempotent.
func (z *AuthZone) Clear() { z.proofs = nil }

func (z *AuthZone) Proofs() []Proof {
	out := make([]Proof, len(z.proofs))
	copy(out, z.proofs)
	return out
}

// CreateProof synthesizes a proof carrying the resource's entire
// balance/id-set as tracked by the caller (the concrete amount/ids are
// supplied by the resource manager in the kernel layer; AuthZone
// itself only stores the resulting proof).
func (z *AuthZone) CreateProof(p Proof) { z.Push(p) }

// HasResource reports whether any contained proof evidences authority
// over resourceAddr, used by AuthModule's RequireProof evaluation.
func (z *AuthZone) HasResource(resourceAddr addressing.Address) bool {
	for _, p := range z.proofs {
		if p.ResourceAddress == resourceAddr {
			return true
		}
	}
	return false
}

// HasAmount reports whether the zone's proofs for resourceAddr sum to
// at least amount.
func (z *AuthZone) HasAmount(resourceAddr addressing.Address, amount uint256.Int) bool {
	var total uint256.Int
	for _, p := range z.proofs {
		if p.ResourceAddress == resourceAddr && p.Fungible {
			total.Add(&total, &p.Amount)
		}
	}
	return !total.Lt(&amount)
}
