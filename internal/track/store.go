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

package track

import (
	"bytes"
	"sort"
	"sync"

	"github.com/syndtr/goleveldb/leveldb"
	"github.com/syndtr/goleveldb/leveldb/util"
)

// SubstateStore is the external, read-mostly key-value collaborator
// the Track overlays (spec §6): a byte-keyed store with prefix-range
// iteration so callers can enumerate addresses by kind. Opening and
// closing the physical database is the caller's responsibility — the
// physical key-value database itself is out of scope (spec §1).
type SubstateStore interface {
	Get(key []byte) ([]byte, bool, error)
	Iterator(prefix []byte) Iterator
}

// Iterator walks keys sharing a prefix in ascending order.
type Iterator interface {
	Next() bool
	Key() []byte
	Value() []byte
	Release()
}

// MemStore is an in-memory SubstateStore, the default for tests and
// for embedding the kernel without a physical database.
type MemStore struct {
	mu   sync.RWMutex
	data map[string][]byte
}

func NewMemStore() *MemStore {
	return &MemStore{data: make(map[string][]byte)}
}

func (m *MemStore) Get(key []byte) ([]byte, bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	v, ok := m.data[string(key)]
	if !ok {
		return nil, false, nil
	}
	cp := make([]byte, len(v))
	copy(cp, v)
	return cp, true, nil
}

func (m *MemStore) Put(key, value []byte) {
	m.mu.Lock()
	defer m.mu.Unlock()
	cp := make([]byte, len(value))
	copy(cp, value)
	m.data[string(key)] = cp
}

func (m *MemStore) Delete(key []byte) {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.data, string(key))
}

func (m *MemStore) Iterator(prefix []byte) Iterator {
	m.mu.RLock()
	defer m.mu.RUnlock()
	keys := make([]string, 0)
	for k := range m.data {
		if bytes.HasPrefix([]byte(k), prefix) {
			keys = append(keys, k)
		}
	}
	sort.Strings(keys)
	return &memIterator{store: m, keys: keys, idx: -1}
}

type memIterator struct {
	store *MemStore
	keys  []string
	idx   int
}

func (it *memIterator) Next() bool {
	it.idx++
	return it.idx < len(it.keys)
}

func (it *memIterator) Key() []byte { return []byte(it.keys[it.idx]) }

func (it *memIterator) Value() []byte {
	it.store.mu.RLock()
	defer it.store.mu.RUnlock()
	return it.store.data[it.keys[it.idx]]
}

func (it *memIterator) Release() {}

// LevelDBStore adapts a goleveldb database to SubstateStore, the
// realistic physical-store shape the teacher's own historical state
// database used (the `goleveldb` dependency). The caller owns opening
// and closing db.
type LevelDBStore struct {
	db *leveldb.DB
}

func NewLevelDBStore(db *leveldb.DB) *LevelDBStore {
	return &LevelDBStore{db: db}
}

func (s *LevelDBStore) Get(key []byte) ([]byte, bool, error) {
	v, err := s.db.Get(key, nil)
	if err == leveldb.ErrNotFound {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	return v, true, nil
}

func (s *LevelDBStore) Put(key, value []byte) error {
	return s.db.Put(key, value, nil)
}

func (s *LevelDBStore) Iterator(prefix []byte) Iterator {
	it := s.db.NewIterator(util.BytesPrefix(prefix), nil)
	return &levelDBIterator{it: it}
}

type levelDBIterator struct {
	it interface {
		Next() bool
		Key() []byte
		Value() []byte
		Release()
	}
}

func (it *levelDBIterator) Next() bool   { return it.it.Next() }
func (it *levelDBIterator) Key() []byte  { return it.it.Key() }
func (it *levelDBIterator) Value() []byte { return it.it.Value() }
func (it *levelDBIterator) Release()     { it.it.Release() }
