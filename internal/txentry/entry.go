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

// Package txentry builds the root call frame for one transaction,
// seeds its auth zone from the signer set, drives the
// TransactionProcessor's instruction list to completion, and hands
// back the resulting change set — the entry point spec §4.5's "root
// frame" and §8's literal scenarios assume already exists (spec.md
// names the transaction processor as the root actor without
// describing how a caller constructs one).
package txentry

import (
	"fmt"

	"github.com/holiman/uint256"
	"golang.org/x/crypto/sha3"

	"github.com/radkit/ledgerkernel/internal/addressing"
	"github.com/radkit/ledgerkernel/internal/auth"
	"github.com/radkit/ledgerkernel/internal/fee"
	"github.com/radkit/ledgerkernel/internal/idalloc"
	"github.com/radkit/ledgerkernel/internal/kernel"
	"github.com/radkit/ledgerkernel/internal/kernelerr"
	"github.com/radkit/ledgerkernel/internal/kheap"
	"github.com/radkit/ledgerkernel/internal/track"
	"github.com/radkit/ledgerkernel/internal/wasmapi"
)

// ECDSATokenAddress and SystemTokenAddress name the two resource
// addresses the root auth zone is ever seeded with: one
// non-fungible proof per signing key, plus a system badge when the
// transaction is a protocol-internal one (spec §4.5, restored from
// original_source's auth_zone_params since spec.md only names "one
// ECDSA_TOKEN proof per signer key" without giving it an address).
var (
	ECDSATokenAddress = addressing.Address{0x01}
	SystemTokenAddress = addressing.Address{0x02}
)

// InstrKind tags the variant carried by an Instruction.
type InstrKind int

const (
	InstrPublishPackage InstrKind = iota
	InstrCallFunction
	InstrCallMethod
)

// Instruction is one step of a transaction manifest, narrowed to
// exactly what spec §8's literal scenarios exercise: publishing a
// package, calling one of its functions, and calling a method on an
// already-globalized component (optionally draining the whole worktop
// into the call, modeling a Scrypto manifest's "deposit_batch" idiom).
type Instruction struct {
	Kind InstrKind

	// PublishPackage
	Code []byte

	// CallFunction
	Package                 addressing.Address
	UseLastPublishedPackage bool
	Blueprint               string

	// CallMethod
	Component addressing.Address

	// CallFunction / CallMethod
	Ident string
	Arg   wasmapi.Value
	// Amount, when non-nil, overrides Arg with an encoded numeric
	// argument (e.g. withdraw(amount)).
	Amount *uint256.Int
	// FromWorktop drains every non-empty worktop resource into one
	// bucket apiece and passes them as the call's NodeIDs, the model
	// for a manifest's "deposit_batch" step.
	FromWorktop bool
}

// Result is what a successful Run hands back: the final instruction's
// output value and the transaction's committed change set.
type Result struct {
	Output  wasmapi.Value
	Changes track.ChangeSet
}

// Config bundles the literal constants a transaction run needs beyond
// its instructions and signer set.
type Config struct {
	TxHash       [32]byte
	SignerKeys   [][]byte
	IsSystem     bool
	MaxDepth     int
	Trace        bool
	FeeLimit     uint64
	FeeTable     *fee.Table
	Store        track.SubstateStore
	WasmEngine   wasmapi.WasmEngine
	Instrumenter wasmapi.WasmInstrumenter
}

// Run executes one transaction's instructions against shared,
// returning the resulting change set on success or discarding all
// pending writes (retaining only write-through fee payments) on
// failure, per spec §7 and §8 scenario 4/5.
func Run(cfg Config, instructions []Instruction) (Result, error) {
	t := track.New(cfg.Store)
	shared := &kernel.Shared{
		Track:        t,
		IDAllocator:  idalloc.New(cfg.TxHash),
		FeeReserve:   fee.NewReserve(cfg.FeeLimit),
		FeeTable:     cfg.FeeTable,
		WasmEngine:   cfg.WasmEngine,
		Instrumenter: cfg.Instrumenter,
		TxHash:       cfg.TxHash,
	}

	actor := addressing.FunctionActor(addressing.NativeFnID(addressing.NativeTransactionProcessor, "run"))
	root := kernel.NewRootFrame(shared, actor, cfg.MaxDepth, cfg.Trace)

	if err := shared.FeeReserve.Consume(shared.FeeTable.InvokeFunction, fee.ReasonInvokeFunction); err != nil {
		return Result{}, kernelerr.Wrap(kernelerr.CostingError, nil, err)
	}
	seedAuthZone(root, cfg.SignerKeys, cfg.IsSystem)

	worktopID := addressing.WorktopID()
	root.Heap().Insert(worktopID, kheap.NewRoot(kheap.FromWorktop(kheap.NewWorktop())))

	var lastOutput wasmapi.Value
	var lastPublished addressing.Address

	for i, instr := range instructions {
		var err error
		switch instr.Kind {
		case InstrPublishPackage:
			lastPublished, err = publishPackage(shared, instr.Code)
		case InstrCallFunction:
			pkg := instr.Package
			if instr.UseLastPublishedPackage {
				pkg = lastPublished
			}
			fnID := addressing.ScryptoFnID(pkg, instr.Blueprint, instr.Ident)
			lastOutput, err = root.InvokeFunction(fnID, instr.Arg)
		case InstrCallMethod:
			lastOutput, err = callMethod(root, shared, worktopID, instr)
		default:
			err = fmt.Errorf("txentry: unknown instruction kind %d", instr.Kind)
		}
		if err != nil {
			t.Discard()
			return Result{}, fmt.Errorf("txentry: instruction %d: %w", i, err)
		}
	}

	if wRoot, ok := root.Heap().Remove(worktopID); ok {
		if err := kheap.DropNodes(map[addressing.RENodeID]*kheap.HeapRootRENode{worktopID: wRoot}); err != nil {
			t.Discard()
			return Result{}, err
		}
	}
	root.AuthZone().Clear()

	return Result{Output: lastOutput, Changes: t.Commit()}, nil
}

func publishPackage(shared *kernel.Shared, code []byte) (addressing.Address, error) {
	addr, err := shared.IDAllocator.NewPackageAddress()
	if err != nil {
		return addressing.Address{}, err
	}
	if err := shared.FeeReserve.Consume(shared.FeeTable.Create(uint64(len(code))), fee.ReasonCreate); err != nil {
		return addressing.Address{}, kernelerr.Wrap(kernelerr.CostingError, nil, err)
	}
	pkg := &kheap.PackageNode{Code: code, Blueprints: make(map[string]kheap.BlueprintDef)}
	if err := shared.Track.CreateUUIDSubstate(addressing.PackageSubstate(addr), pkg); err != nil {
		return addressing.Address{}, err
	}
	return addr, nil
}

func callMethod(root *kernel.CallFrame, shared *kernel.Shared, worktopID addressing.RENodeID, instr Instruction) (wasmapi.Value, error) {
	arg := instr.Arg
	switch {
	case instr.FromWorktop:
		wRoot, _ := root.Heap().Get(worktopID)
		wNode := wRoot.Root.WorktopMut()
		var bucketIDs []addressing.RENodeID
		for resAddr, container := range wNode.Resources {
			if container.IsEmpty() {
				continue
			}
			bid, err := shared.IDAllocator.NewBucketID()
			if err != nil {
				return wasmapi.Value{}, err
			}
			root.Heap().Insert(bid, kheap.NewRoot(kheap.FromBucket(&kheap.BucketNode{Container: container})))
			bucketIDs = append(bucketIDs, bid)
			delete(wNode.Resources, resAddr)
		}
		arg = wasmapi.Value{NodeIDs: bucketIDs}
	case instr.Amount != nil:
		arg = wasmapi.Value{Raw: kernel.EncodeAmount(*instr.Amount)}
	}

	fnID, err := resolveMethodFnID(shared, instr.Component, instr.Ident)
	if err != nil {
		return wasmapi.Value{}, err
	}
	receiver := addressing.RefReceiver(addressing.ComponentID(instr.Component))
	result, err := root.InvokeMethod(receiver, fnID, arg)
	if err != nil {
		return wasmapi.Value{}, err
	}

	// Any bucket the call handed back (e.g. withdraw) lands on the
	// worktop for a later instruction to pick up, mirroring a real
	// manifest's implicit worktop threading between steps.
	for _, nid := range result.NodeIDs {
		if nid.Kind != addressing.NodeBucket {
			continue
		}
		bRoot, ok := root.Heap().Remove(nid)
		if !ok {
			continue
		}
		wRoot, _ := root.Heap().Get(worktopID)
		wNode := wRoot.Root.WorktopMut()
		c := bRoot.Root.BucketMut().Container
		if existing, ok := wNode.Resources[c.ResourceAddress]; ok {
			if err := existing.Put(c); err != nil {
				return wasmapi.Value{}, err
			}
		} else {
			wNode.Resources[c.ResourceAddress] = c
		}
	}
	return result, nil
}

// resolveMethodFnID decides whether a component's receiver is native
// (today, only the Account blueprint) or Scrypto, from its persisted
// ComponentInfo.
func resolveMethodFnID(shared *kernel.Shared, addr addressing.Address, ident string) (addressing.FnIdentifier, error) {
	sub := addressing.ComponentInfoSubstate(addr)
	if err := shared.Track.AcquireLock(sub, 0, false, false); err != nil {
		return addressing.FnIdentifier{}, err
	}
	defer shared.Track.ReleaseLock(sub, 0)
	ov, err := shared.Track.ReadSubstate(sub)
	if err != nil {
		return addressing.FnIdentifier{}, err
	}
	info, ok := ov.Value.(*kheap.ComponentInfo)
	if !ok {
		return addressing.FnIdentifier{}, kernelerr.New(kernelerr.InvokeMethodInvalidReceiver, nil, "corrupt component info")
	}
	if info.BlueprintName == "Account" {
		return addressing.NativeFnID(addressing.NativeAccount, ident), nil
	}
	return addressing.ScryptoFnID(info.PackageAddress, info.BlueprintName, ident), nil
}

// seedAuthZone pushes one ECDSA_TOKEN proof per signer key, plus a
// SYSTEM_TOKEN proof when the transaction is system-originated (spec
// §8 boundary: an empty signer set yields a root zone with no ECDSA
// proof at all).
func seedAuthZone(root *kernel.CallFrame, signerKeys [][]byte, isSystem bool) {
	zone := root.AuthZone()
	for _, key := range signerKeys {
		h := sha3.NewLegacyKeccak256()
		h.Write(key)
		digest := h.Sum(nil)
		zone.Push(auth.Proof{
			ResourceAddress: ECDSATokenAddress,
			Fungible:        false,
			NonFungibleIDs: map[string]addressing.NonFungibleID{
				nfidKey(digest): {IsBytes: true, Bytes: digest},
			},
		})
	}
	if isSystem {
		zone.Push(auth.Proof{
			ResourceAddress: SystemTokenAddress,
			Fungible:        false,
			NonFungibleIDs: map[string]addressing.NonFungibleID{
				"system": {IsBytes: true, Bytes: []byte("system")},
			},
		})
	}
}

func nfidKey(b []byte) string { return fmt.Sprintf("b:%s", b) }
