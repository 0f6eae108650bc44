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

package addressing

import "fmt"

// NativeFn enumerates the built-in modules a FnIdentifier may name.
type NativeFn uint8

const (
	NativeTransactionProcessor NativeFn = iota
	NativePackage
	NativeResourceManager
	NativeBucket
	NativeProof
	NativeWorktop
	NativeVault
	NativeComponent
	NativeSystem
	NativeAuthZone
	NativeAccount
)

// FnIdentifier is either a built-in native function or a reference
// into a Scrypto (WASM-hosted) blueprint.
type FnIdentifier struct {
	IsNative bool
	Native   NativeFn
	Ident    string // method/function name, for both native and scrypto

	// Scrypto-only fields.
	PackageAddress Address
	BlueprintName  string
}

func NativeFnID(fn NativeFn, ident string) FnIdentifier {
	return FnIdentifier{IsNative: true, Native: fn, Ident: ident}
}

func ScryptoFnID(pkg Address, blueprint, ident string) FnIdentifier {
	return FnIdentifier{PackageAddress: pkg, BlueprintName: blueprint, Ident: ident}
}

func (f FnIdentifier) String() string {
	if f.IsNative {
		return fmt.Sprintf("Native(%d::%s)", f.Native, f.Ident)
	}
	return fmt.Sprintf("Scrypto(%x::%s::%s)", f.PackageAddress, f.BlueprintName, f.Ident)
}

// ReceiverKind tags the variant carried by a Receiver.
type ReceiverKind uint8

const (
	ReceiverRef ReceiverKind = iota
	ReceiverConsumed
	ReceiverAuthZoneRef
)

// Receiver names the object a method call targets, if any.
type Receiver struct {
	Kind ReceiverKind
	Node RENodeID // unused when Kind == ReceiverAuthZoneRef
}

func RefReceiver(id RENodeID) Receiver      { return Receiver{Kind: ReceiverRef, Node: id} }
func ConsumedReceiver(id RENodeID) Receiver { return Receiver{Kind: ReceiverConsumed, Node: id} }
func AuthZoneReceiver() Receiver            { return Receiver{Kind: ReceiverAuthZoneRef} }

// Actor is the (FnIdentifier, optional Receiver) pair under whose
// identity a frame executes.
type Actor struct {
	Fn          FnIdentifier
	HasReceiver bool
	Receiver    Receiver
}

func FunctionActor(fn FnIdentifier) Actor {
	return Actor{Fn: fn}
}

func MethodActor(fn FnIdentifier, recv Receiver) Actor {
	return Actor{Fn: fn, HasReceiver: true, Receiver: recv}
}

// IsReadableBy reports whether a substate owned by owner is one a
// is allowed to read without further proof (spec §2's
// is_readable_by(actor)): native code is the kernel's own trusted
// dispatch, already gated by invoke_method's receiver/auth checks
// before it ever runs, so it may read anything it resolved; Scrypto
// code may only reach the one substate body its own receiver names —
// any other substate it needs (a parent package, a referenced
// resource manager) is reached through the node-refs invoke_method
// already populated, not through a second substate_read.
func (a Actor) IsReadableBy(owner RENodeID) bool {
	if a.Fn.IsNative {
		return true
	}
	return a.HasReceiver && a.Receiver.Node == owner
}

// IsWritableBy applies the same rule for writes (spec §2's
// is_writable_by(actor)); this model draws no distinction between
// read and write visibility, only between native and Scrypto callers.
func (a Actor) IsWritableBy(owner RENodeID) bool {
	return a.IsReadableBy(owner)
}

func (a Actor) String() string {
	if !a.HasReceiver {
		return a.Fn.String()
	}
	return fmt.Sprintf("%s@%s", a.Fn, a.Receiver.Node)
}
