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

// Package track implements the transactional overlay cache over a
// read-only substate store (spec §4.2): read-through cache, a
// per-substate lock table, the pending change log, append-only
// transaction logs, and "touched" bookkeeping for fee-lock
// correctness.
package track

import (
	"fmt"
	"sort"
	"sync"

	mapset "github.com/deckarep/golang-set/v2"
	lru "github.com/hashicorp/golang-lru"
	"github.com/holiman/uint256"

	"github.com/radkit/ledgerkernel/internal/addressing"
	"github.com/radkit/ledgerkernel/internal/kernelerr"
)

// OutputValue is a (Substate, version) pair; version increments on
// every write (spec §3).
type OutputValue struct {
	Value   any
	Version uint64
}

// LogLevel mirrors the handful of severities emit_log may carry.
type LogLevel int

const (
	LogError LogLevel = iota
	LogWarn
	LogInfo
	LogDebug
)

type LogEntry struct {
	Level   LogLevel
	Message string
}

// ChangeSet is the commit output the kernel never persists itself
// (spec §6): created/updated/deleted substates, logs and fee payments.
type ChangeSet struct {
	Upserted     map[string]OutputValue
	Deleted      map[string]struct{}
	Logs         []LogEntry
	FeePayments  map[string]uint256.Int
}

type subjectKey string

func (s subjectKey) String() string { return string(s) }

// Track is the transactional substate cache described in spec §4.2.
// It is single-threaded per transaction; the mutex guards only the
// underlying cache/store, not cross-frame concurrency (there is none,
// per spec §5).
type Track struct {
	mu sync.Mutex

	store SubstateStore
	cache *lru.Cache // string(encoded id) -> OutputValue

	reads   map[string]OutputValue
	updates map[string]OutputValue

	uuidCreated map[string]struct{}

	locks map[string]*lockState

	logs        []LogEntry
	feePayments map[string]uint256.Int

	touched mapset.Set[string]
}

func New(store SubstateStore) *Track {
	cache, err := lru.New(4096)
	if err != nil {
		panic(fmt.Sprintf("track: failed to allocate cache: %v", err))
	}
	return &Track{
		store:       store,
		cache:       cache,
		reads:       make(map[string]OutputValue),
		updates:     make(map[string]OutputValue),
		uuidCreated: make(map[string]struct{}),
		locks:       make(map[string]*lockState),
		feePayments: make(map[string]uint256.Int),
		touched:     mapset.NewSet[string](),
	}
}

func key(id addressing.SubstateID) string { return string(id.Encode()) }

// AcquireLock acquires a Shared or Exclusive lock on id, rejecting
// reentrant acquisition by the same call-frame depth and any conflict
// between an exclusive holder and any other (spec §4.2).
func (t *Track) AcquireLock(id addressing.SubstateID, depth int, mutable, writeThrough bool) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	k := key(id)
	mode := Shared
	if mutable {
		mode = Exclusive
	}

	// lock-fee is the only write-through caller (spec §4.6); a vault
	// already mutated earlier in this transaction may not pay fees
	// from write-through again, since that would let a partially
	// reverted balance escape an aborted transaction's rollback.
	if writeThrough && t.touched.Contains(k) {
		return kernelerr.NewLockFeeRENodeAlreadyTouched(subjectKey(id.String()))
	}

	ls, exists := t.locks[k]
	if !exists {
		if _, _, err := t.loadLocked(id); err != nil {
			return err
		}
		ls = newLockState(mode, writeThrough)
		ls.holders.Add(depth)
		t.locks[k] = ls
		return nil
	}

	if ls.holders.Contains(depth) {
		return kernelerr.NewReentrancy(subjectKey(id.String()), "already held by this frame")
	}
	if mode == Exclusive || ls.mode == Exclusive {
		return kernelerr.NewReentrancy(subjectKey(id.String()), "conflicting lock mode")
	}
	ls.holders.Add(depth)
	if writeThrough {
		ls.writeThrough = true
	}
	return nil
}

// ReleaseLock lowers the holder count; write-through forces the
// pending value into the durable snapshot on release rather than on
// commit (used by lock-fee, spec §4.6).
func (t *Track) ReleaseLock(id addressing.SubstateID, depth int) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	k := key(id)
	ls, ok := t.locks[k]
	if !ok {
		return kernelerr.New(kernelerr.SubstateReadSubstateNotFound, subjectKey(id.String()), "no lock held")
	}
	ls.holders.Remove(depth)
	if ls.holders.Cardinality() == 0 {
		if ls.writeThrough {
			if v, ok := t.updates[k]; ok {
				t.flushToStore(id, v)
			}
		}
		delete(t.locks, k)
	}
	return nil
}

// MarkTouched flags a substate as touched for the remainder of the
// transaction; touched is sticky (spec §4.2).
func (t *Track) MarkTouched(id addressing.SubstateID) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.touched.Add(key(id))
	if ls, ok := t.locks[key(id)]; ok {
		ls.touched = true
	}
}

func (t *Track) IsTouched(id addressing.SubstateID) bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.touched.Contains(key(id))
}

// loadLocked reads-through the cache/store into t.reads, assuming
// t.mu is already held.
func (t *Track) loadLocked(id addressing.SubstateID) (OutputValue, bool, error) {
	k := key(id)
	if v, ok := t.updates[k]; ok {
		return v, true, nil
	}
	if v, ok := t.reads[k]; ok {
		return v, true, nil
	}
	if cached, ok := t.cache.Get(k); ok {
		ov := cached.(OutputValue)
		t.reads[k] = ov
		return ov, true, nil
	}
	raw, found, err := t.store.Get([]byte(k))
	if err != nil {
		return OutputValue{}, false, err
	}
	if !found {
		return OutputValue{}, false, nil
	}
	ov := OutputValue{Value: raw, Version: 0}
	t.reads[k] = ov
	t.cache.Add(k, ov)
	return ov, true, nil
}

// ReadSubstate returns the current value of id; a prior lock or
// same-transaction create must exist.
func (t *Track) ReadSubstate(id addressing.SubstateID) (OutputValue, error) {
	t.mu.Lock()
	defer t.mu.Unlock()
	ov, ok, err := t.loadLocked(id)
	if err != nil {
		return OutputValue{}, err
	}
	if !ok {
		return OutputValue{}, kernelerr.New(kernelerr.SubstateReadSubstateNotFound, subjectKey(id.String()), "")
	}
	return ov, nil
}

// WriteSubstate records a new value for id, incrementing its version.
func (t *Track) WriteSubstate(id addressing.SubstateID, value any) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	k := key(id)
	version := uint64(0)
	if prev, ok := t.updates[k]; ok {
		version = prev.Version + 1
	} else if prev, ok := t.reads[k]; ok {
		version = prev.Version + 1
	}
	t.updates[k] = OutputValue{Value: value, Version: version}
	return nil
}

// CreateUUIDSubstate creates a create-only substate, failing if it
// already exists anywhere in this transaction's view (spec §4.2).
func (t *Track) CreateUUIDSubstate(id addressing.SubstateID, value any) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	k := key(id)
	if _, ok := t.uuidCreated[k]; ok {
		return kernelerr.New(kernelerr.RENodeCreateNodeNotFound, subjectKey(id.String()), "substate already exists")
	}
	if _, found, err := t.loadLocked(id); err == nil && found {
		return kernelerr.New(kernelerr.RENodeCreateNodeNotFound, subjectKey(id.String()), "substate already exists")
	}
	t.uuidCreated[k] = struct{}{}
	t.updates[k] = OutputValue{Value: value, Version: 0}
	return nil
}

// TakeSubstate moves a value out of the store under an exclusive
// lock, leaving the key absent (spec §4.2).
func (t *Track) TakeSubstate(id addressing.SubstateID) (any, error) {
	ov, err := t.ReadSubstate(id)
	if err != nil {
		return nil, err
	}
	t.mu.Lock()
	defer t.mu.Unlock()
	k := key(id)
	delete(t.reads, k)
	delete(t.updates, k)
	t.cache.Remove(k)
	return ov.Value, nil
}

func kvKey(space addressing.SubstateID, kvKeyBytes []byte) string {
	return key(space) + "|" + string(kvKeyBytes)
}

// SetKeyValue writes a keyed child under a kv-store space.
func (t *Track) SetKeyValue(space addressing.SubstateID, kvKeyBytes []byte, value any) {
	t.mu.Lock()
	defer t.mu.Unlock()
	k := kvKey(space, kvKeyBytes)
	version := uint64(0)
	if prev, ok := t.updates[k]; ok {
		version = prev.Version + 1
	}
	t.updates[k] = OutputValue{Value: value, Version: version}
}

// ReadKeyValue reads a keyed child, returning found=false if absent.
func (t *Track) ReadKeyValue(space addressing.SubstateID, kvKeyBytes []byte) (any, bool) {
	t.mu.Lock()
	defer t.mu.Unlock()
	k := kvKey(space, kvKeyBytes)
	if v, ok := t.updates[k]; ok {
		return v.Value, true
	}
	if cached, ok := t.cache.Get(k); ok {
		return cached.(OutputValue).Value, true
	}
	raw, found, err := t.store.Get([]byte(k))
	if err != nil || !found {
		return nil, false
	}
	return raw, true
}

func (t *Track) AddLog(level LogLevel, message string) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.logs = append(t.logs, LogEntry{Level: level, Message: message})
}

// RecordFeePayment accumulates a per-vault fee debit, surviving abort
// when made under a write-through lock (lock_fee, spec §4.6/§8).
func (t *Track) RecordFeePayment(vault addressing.RENodeID, amount uint256.Int) {
	t.mu.Lock()
	defer t.mu.Unlock()
	k := vault.Key()
	cur := t.feePayments[k]
	cur.Add(&cur, &amount)
	t.feePayments[k] = cur
}

func (t *Track) flushToStore(id addressing.SubstateID, v OutputValue) {
	// Only MemStore/LevelDBStore expose Put; the read-only
	// SubstateStore interface deliberately omits it so ordinary
	// reads can't accidentally write through. Flush is therefore
	// done via a narrow type assertion, matching the "physical
	// database is the caller's concern" stance of spec §1.
	type putter interface {
		Put(key, value []byte) error
	}
	if p, ok := t.store.(putter); ok {
		if raw, ok := v.Value.([]byte); ok {
			_ = p.Put([]byte(key(id)), raw)
		}
	}
}

// Commit finalizes the transaction's pending updates into the
// change set the caller (transaction entry) will flush, releasing
// every outstanding lock. It is an error to commit with locks still
// held by a live frame; the kernel guarantees this never happens by
// construction (spec §8: every lock a frame acquired is released at
// frame exit).
func (t *Track) Commit() ChangeSet {
	t.mu.Lock()
	defer t.mu.Unlock()
	cs := ChangeSet{
		Upserted:    make(map[string]OutputValue, len(t.updates)),
		Deleted:     make(map[string]struct{}),
		Logs:        append([]LogEntry(nil), t.logs...),
		FeePayments: make(map[string]uint256.Int, len(t.feePayments)),
	}
	for k, v := range t.updates {
		cs.Upserted[k] = v
	}
	for k, v := range t.feePayments {
		cs.FeePayments[k] = v
	}
	return cs
}

// Discard abandons every pending update (a failed transaction, spec
// §7), retaining only write-through fee payments and logs.
func (t *Track) Discard() ChangeSet {
	t.mu.Lock()
	defer t.mu.Unlock()
	cs := ChangeSet{
		Upserted:    make(map[string]OutputValue),
		Deleted:     make(map[string]struct{}),
		Logs:        append([]LogEntry(nil), t.logs...),
		FeePayments: make(map[string]uint256.Int, len(t.feePayments)),
	}
	for k, v := range t.feePayments {
		cs.FeePayments[k] = v
	}
	return cs
}

// SortedUpsertedKeys returns cs.Upserted's keys in ascending order,
// the deterministic iteration spec §9 requires for anything
// user-visible (e.g. a printed diff or a replay check).
func (cs ChangeSet) SortedUpsertedKeys() []string {
	out := make([]string, 0, len(cs.Upserted))
	for k := range cs.Upserted {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}
