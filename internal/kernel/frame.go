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

// Package kernel is the Call-Frame Kernel (spec §4.5, §4.6): the
// scheduler of nested invocations that owns each frame's heap,
// node-ref table, fee reserve handle, WASM engine handle and actor
// identity, and that implements the SystemApi surface hosted code
// invokes.
package kernel

import (
	"github.com/radkit/ledgerkernel/internal/addressing"
	"github.com/radkit/ledgerkernel/internal/auth"
	"github.com/radkit/ledgerkernel/internal/fee"
	"github.com/radkit/ledgerkernel/internal/idalloc"
	"github.com/radkit/ledgerkernel/internal/kheap"
	"github.com/radkit/ledgerkernel/internal/track"
	"github.com/radkit/ledgerkernel/internal/wasmapi"
)

// RENodePointer locates a live object, either in some frame's heap or
// persisted in the Track (spec §3).
type RENodePointer struct {
	InStore bool

	// Heap variant.
	FrameID  int
	Root     addressing.RENodeID
	HasChild bool
	Child    addressing.RENodeID

	// Store variant.
	StoreNode addressing.RENodeID
}

func HeapPointer(frameID int, root addressing.RENodeID) RENodePointer {
	return RENodePointer{FrameID: frameID, Root: root}
}

func HeapChildPointer(frameID int, root, child addressing.RENodeID) RENodePointer {
	return RENodePointer{FrameID: frameID, Root: root, HasChild: true, Child: child}
}

func StorePointer(node addressing.RENodeID) RENodePointer {
	return RENodePointer{InStore: true, StoreNode: node}
}

// Shared is the set of collaborators threaded, by reference, through
// every live frame of one transaction (spec §4.5, §5).
type Shared struct {
	Track        *track.Track
	IDAllocator  *idalloc.Allocator
	FeeReserve   *fee.Reserve
	FeeTable     *fee.Table
	WasmEngine   wasmapi.WasmEngine
	Instrumenter wasmapi.WasmInstrumenter
	TxHash       [32]byte
}

// CallFrame is the per-invocation record of spec §3: depth, actor,
// owned heap, node-refs, borrowed ancestor heaps and the shared
// collaborators above.
type CallFrame struct {
	shared *Shared

	depth    int
	maxDepth int
	trace    bool

	actor addressing.Actor

	authZone *auth.AuthZone

	heap     *kheap.Heap
	nodeRefs map[addressing.RENodeID]RENodePointer

	parentHeaps    []*kheap.Heap // index 0 = root frame's heap ... index depth-1 = immediate parent
	callerAuthZone *auth.AuthZone
}

// NewRootFrame builds the depth-0 frame (spec §4.5); the caller
// (txentry) is responsible for seeding its auth zone.
func NewRootFrame(shared *Shared, actor addressing.Actor, maxDepth int, trace bool) *CallFrame {
	return &CallFrame{
		shared:   shared,
		depth:    0,
		maxDepth: maxDepth,
		trace:    trace,
		actor:    actor,
		authZone: auth.NewAuthZone(),
		heap:     kheap.NewHeap(),
		nodeRefs: make(map[addressing.RENodeID]RENodePointer),
	}
}

func (f *CallFrame) Depth() int               { return f.depth }
func (f *CallFrame) MaxDepth() int            { return f.maxDepth }
func (f *CallFrame) Actor() addressing.Actor  { return f.actor }
func (f *CallFrame) AuthZone() *auth.AuthZone { return f.authZone }
func (f *CallFrame) Heap() *kheap.Heap        { return f.heap }
func (f *CallFrame) Shared() *Shared          { return f.shared }

// resolve maps a RENodeID to its current pointer, consulting the
// frame's own heap before its node-refs table.
func (f *CallFrame) resolve(id addressing.RENodeID) (RENodePointer, bool) {
	if f.heap.Contains(id) {
		return HeapPointer(f.depth, id), true
	}
	p, ok := f.nodeRefs[id]
	return p, ok
}

// childFrame builds depth+1's frame, moving the given owned nodes
// from this frame into it and exposing the given node-refs (spec
// §4.5). The new frame gets a fresh auth zone unless withAuthZone is
// false (native calls); passCallerZone is this frame's own auth zone,
// threaded through so the child's own invoke_method calls can run
// AuthModule's two-level check (own zone, then caller's) against a
// real zone rather than nil.
func (f *CallFrame) childFrame(actor addressing.Actor, moved map[addressing.RENodeID]*kheap.HeapRootRENode, refs map[addressing.RENodeID]RENodePointer, withAuthZone bool, passCallerZone *auth.AuthZone) *CallFrame {
	childHeap := kheap.NewHeap()
	for id, root := range moved {
		childHeap.Insert(id, root)
	}

	var az *auth.AuthZone
	if withAuthZone {
		az = auth.NewAuthZone()
	}

	parentHeaps := make([]*kheap.Heap, len(f.parentHeaps)+1)
	copy(parentHeaps, f.parentHeaps)
	parentHeaps[len(f.parentHeaps)] = f.heap

	return &CallFrame{
		shared:         f.shared,
		depth:          f.depth + 1,
		maxDepth:       f.maxDepth,
		trace:          f.trace,
		actor:          actor,
		authZone:       az,
		heap:           childHeap,
		nodeRefs:       refs,
		parentHeaps:    parentHeaps,
		callerAuthZone: passCallerZone,
	}
}
