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

// Package kernelerr defines the kernel's error taxonomy (spec §7) as a
// single typed error carrying an error-kind enum plus contextual
// fields, so callers can errors.As into it instead of string matching.
package kernelerr

import "fmt"

type Kind int

const (
	MaxCallDepthLimitReached Kind = iota
	RENodeNotFound
	RENodeCreateNodeNotFound
	RENodeGlobalizeTypeNotAllowed
	InvokeMethodInvalidReceiver
	InvokeMethodInvalidReferencePass
	MethodDoesNotExist
	InvalidFnInput
	InvalidFnOutput
	KeyValueStoreNotAllowed
	VaultNotAllowed
	ValueNotAllowed
	StoredNodeRemoved
	SubstateReadNotReadable
	SubstateReadSubstateNotFound
	SubstateWriteNotWriteable
	LockFeeRENodeAlreadyTouched
	LockFeeRENodeNotInTrack
	Reentrancy
	DropFailure
	CostingError
	NotAuthorized
	InvokeErrorWasm
	BlueprintNotFound
	PackageNotFound
	BucketError
	VaultError
	ProofError
	ResourceManagerError
	ComponentError
	WorktopError
	SystemError
	AuthZoneError
	PackageError
)

var names = map[Kind]string{
	MaxCallDepthLimitReached:         "MaxCallDepthLimitReached",
	RENodeNotFound:                   "RENodeNotFound",
	RENodeCreateNodeNotFound:         "RENodeCreateNodeNotFound",
	RENodeGlobalizeTypeNotAllowed:    "RENodeGlobalizeTypeNotAllowed",
	InvokeMethodInvalidReceiver:      "InvokeMethodInvalidReceiver",
	InvokeMethodInvalidReferencePass: "InvokeMethodInvalidReferencePass",
	MethodDoesNotExist:               "MethodDoesNotExist",
	InvalidFnInput:                   "InvalidFnInput",
	InvalidFnOutput:                  "InvalidFnOutput",
	KeyValueStoreNotAllowed:          "KeyValueStoreNotAllowed",
	VaultNotAllowed:                  "VaultNotAllowed",
	ValueNotAllowed:                  "ValueNotAllowed",
	StoredNodeRemoved:                "StoredNodeRemoved",
	SubstateReadNotReadable:          "SubstateReadNotReadable",
	SubstateReadSubstateNotFound:     "SubstateReadSubstateNotFound",
	SubstateWriteNotWriteable:        "SubstateWriteNotWriteable",
	LockFeeRENodeAlreadyTouched:      "LockFeeError(RENodeAlreadyTouched)",
	LockFeeRENodeNotInTrack:          "LockFeeError(RENodeNotInTrack)",
	Reentrancy:                       "Reentrancy",
	DropFailure:                      "DropFailure",
	CostingError:                     "CostingError",
	NotAuthorized:                    "NotAuthorized",
	InvokeErrorWasm:                  "InvokeError",
	BlueprintNotFound:                "BlueprintNotFound",
	PackageNotFound:                  "PackageNotFound",
	BucketError:                      "BucketError",
	VaultError:                       "VaultError",
	ProofError:                       "ProofError",
	ResourceManagerError:             "ResourceManagerError",
	ComponentError:                   "ComponentError",
	WorktopError:                     "WorktopError",
	SystemError:                      "SystemError",
	AuthZoneError:                    "AuthZoneError",
	PackageError:                     "PackageError",
}

func (k Kind) String() string {
	if s, ok := names[k]; ok {
		return s
	}
	return fmt.Sprintf("Kind(%d)", int(k))
}

// KernelError is the single error type every kernel-visible failure is
// reported through.
type KernelError struct {
	Kind    Kind
	Subject fmt.Stringer // a SubstateID, RENodeID, or similar, may be nil
	Detail  string
	Wrapped error
}

func New(kind Kind, subject fmt.Stringer, detail string) *KernelError {
	return &KernelError{Kind: kind, Subject: subject, Detail: detail}
}

func Wrap(kind Kind, subject fmt.Stringer, err error) *KernelError {
	return &KernelError{Kind: kind, Subject: subject, Wrapped: err}
}

// The constructors below are thin, commonly-reached-for sentinels over
// New for the kinds callers raise without a bespoke detail string; the
// rest of the taxonomy is still raised directly via New/Wrap, matching
// the teacher's own preference for a handful of named sentinels over a
// constructor for every error value.

func NewRENodeNotFound(subject fmt.Stringer) *KernelError {
	return New(RENodeNotFound, subject, "")
}

func NewMaxCallDepthLimitReached() *KernelError {
	return New(MaxCallDepthLimitReached, nil, "")
}

func NewReentrancy(subject fmt.Stringer, detail string) *KernelError {
	return New(Reentrancy, subject, detail)
}

func NewNotAuthorized(subject fmt.Stringer, detail string) *KernelError {
	return New(NotAuthorized, subject, detail)
}

func NewRENodeGlobalizeTypeNotAllowed(subject fmt.Stringer) *KernelError {
	return New(RENodeGlobalizeTypeNotAllowed, subject, "")
}

func NewLockFeeRENodeNotInTrack() *KernelError {
	return New(LockFeeRENodeNotInTrack, nil, "")
}

func NewLockFeeRENodeAlreadyTouched(subject fmt.Stringer) *KernelError {
	return New(LockFeeRENodeAlreadyTouched, subject, "")
}

func NewSubstateReadNotReadable(subject fmt.Stringer) *KernelError {
	return New(SubstateReadNotReadable, subject, "")
}

func NewSubstateWriteNotWriteable(subject fmt.Stringer) *KernelError {
	return New(SubstateWriteNotWriteable, subject, "")
}

func NewValueNotAllowed(subject fmt.Stringer, detail string) *KernelError {
	return New(ValueNotAllowed, subject, detail)
}

func NewStoredNodeRemoved(subject fmt.Stringer, detail string) *KernelError {
	return New(StoredNodeRemoved, subject, detail)
}

func (e *KernelError) Error() string {
	if e.Subject != nil {
		if e.Detail != "" {
			return fmt.Sprintf("%s: %s (%s)", e.Kind, e.Subject, e.Detail)
		}
		return fmt.Sprintf("%s: %s", e.Kind, e.Subject)
	}
	if e.Wrapped != nil {
		return fmt.Sprintf("%s: %v", e.Kind, e.Wrapped)
	}
	return e.Kind.String()
}

func (e *KernelError) Unwrap() error { return e.Wrapped }

// Is reports whether target names the same error Kind, so callers can
// write errors.Is(err, kernelerr.New(kernelerr.RENodeNotFound, nil, "")).
func (e *KernelError) Is(target error) bool {
	other, ok := target.(*KernelError)
	if !ok {
		return false
	}
	return other.Kind == e.Kind
}
