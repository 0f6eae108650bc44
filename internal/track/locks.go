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

import mapset "github.com/deckarep/golang-set/v2"

// LockMode is Shared or Exclusive (spec §4.2).
type LockMode int

const (
	Shared LockMode = iota
	Exclusive
)

// lockState is the per-substate lock-table entry. holders tracks the
// call-frame depths currently holding the lock; acquiring again from a
// depth already present is the reentrancy the Track must reject, since
// single-threaded recursive descent (spec §5) means the only way two
// acquisitions of the same substate can coexist is via the same
// frame's own call path.
type lockState struct {
	mode         LockMode
	writeThrough bool
	touched      bool
	holders      mapset.Set[int]
}

func newLockState(mode LockMode, writeThrough bool) *lockState {
	return &lockState{mode: mode, writeThrough: writeThrough, holders: mapset.NewSet[int]()}
}
