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

package kheap

import (
	"fmt"

	"github.com/radkit/ledgerkernel/internal/addressing"
	"github.com/radkit/ledgerkernel/internal/kernelerr"
)

// HeapRootRENode is a root HeapRENode plus the descendants it owns,
// keyed by their own RENodeID (spec §3).
type HeapRootRENode struct {
	Root     HeapRENode
	Children map[addressing.RENodeID]HeapRENode
}

func NewRoot(root HeapRENode) *HeapRootRENode {
	return &HeapRootRENode{Root: root, Children: make(map[addressing.RENodeID]HeapRENode)}
}

// InsertNonRootNodes merges incoming descendants after validating no
// id collision (spec §4.3).
func (r *HeapRootRENode) InsertNonRootNodes(nodes map[addressing.RENodeID]HeapRENode) error {
	for id := range nodes {
		if _, exists := r.Children[id]; exists {
			return kernelerr.New(kernelerr.RENodeCreateNodeNotFound, stringer(id.String()), "id collision on insert")
		}
	}
	for id, n := range nodes {
		r.Children[id] = n
	}
	return nil
}

type stringer string

func (s stringer) String() string { return string(s) }

// Heap is a per-frame arena of root nodes, keyed by the root's own
// RENodeID. It is the concrete home of spec §4.3's "HeapRENode graph".
type Heap struct {
	roots map[addressing.RENodeID]*HeapRootRENode
}

func NewHeap() *Heap {
	return &Heap{roots: make(map[addressing.RENodeID]*HeapRootRENode)}
}

func (h *Heap) Insert(id addressing.RENodeID, root *HeapRootRENode) {
	h.roots[id] = root
}

func (h *Heap) Get(id addressing.RENodeID) (*HeapRootRENode, bool) {
	r, ok := h.roots[id]
	return r, ok
}

func (h *Heap) Remove(id addressing.RENodeID) (*HeapRootRENode, bool) {
	r, ok := h.roots[id]
	if ok {
		delete(h.roots, id)
	}
	return r, ok
}

func (h *Heap) Contains(id addressing.RENodeID) bool {
	_, ok := h.roots[id]
	return ok
}

func (h *Heap) Len() int { return len(h.roots) }

// Ids returns every root id currently owned, used only for
// deterministic iteration (spec §9: no map-order-dependent behavior
// may leak into user-visible results).
func (h *Heap) Ids() []addressing.RENodeID {
	out := make([]addressing.RENodeID, 0, len(h.roots))
	for id := range h.roots {
		out = append(out, id)
	}
	return out
}

// TakeAvailableValues extracts every id in ids from the heap,
// returning RENodeNotFound if any is missing. When persistOnly is
// true (used by node_create, spec §4.6) every returned root must
// additionally satisfy CanPersist.
func (h *Heap) TakeAvailableValues(ids []addressing.RENodeID, persistOnly bool) (map[addressing.RENodeID]*HeapRootRENode, error) {
	out := make(map[addressing.RENodeID]*HeapRootRENode, len(ids))
	for _, id := range ids {
		root, ok := h.roots[id]
		if !ok {
			return nil, kernelerr.New(kernelerr.RENodeNotFound, stringer(id.String()), "")
		}
		if persistOnly && !root.Root.CanPersist() {
			return nil, kernelerr.New(kernelerr.RENodeNotFound, stringer(id.String()), "not persistable")
		}
		out[id] = root
	}
	for id := range out {
		delete(h.roots, id)
	}
	return out, nil
}

// DropNodes validates that every supplied root is of a droppable kind
// and, for containers, empty — buckets/proofs/worktops drop freely;
// non-empty vaults, live kv-stores and components cannot be dropped
// (spec §4.3).
func DropNodes(roots map[addressing.RENodeID]*HeapRootRENode) error {
	for id, root := range roots {
		if !root.Root.CanDrop() {
			return kernelerr.New(kernelerr.DropFailure, stringer(id.String()), fmt.Sprintf("kind %s is not droppable", root.Root.Kind))
		}
		if !root.Root.IsEmpty() {
			return kernelerr.New(kernelerr.DropFailure, stringer(id.String()), "container not empty")
		}
	}
	return nil
}
