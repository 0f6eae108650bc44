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

package auth

import (
	"fmt"

	"github.com/holiman/uint256"

	"github.com/radkit/ledgerkernel/internal/addressing"
	"github.com/radkit/ledgerkernel/internal/kernelerr"
)

// AccessRuleKind tags the variant of an AccessRule. Restored from
// original_source's radix-engine access-rule model (supplementing
// spec.md, which only says the method's required access rule is
// resolved from node metadata without naming the rule language).
type AccessRuleKind int

const (
	AllowAll AccessRuleKind = iota
	DenyAll
	RequireProof
	RequireAmount
	AnyOf
	AllOf
)

type AccessRule struct {
	Kind     AccessRuleKind
	Resource addressing.Address
	Amount   uint256.Int
	Rules    []AccessRule
}

func RuleAllowAll() AccessRule { return AccessRule{Kind: AllowAll} }
func RuleDenyAll() AccessRule  { return AccessRule{Kind: DenyAll} }
func RuleRequireProof(resource addressing.Address) AccessRule {
	return AccessRule{Kind: RequireProof, Resource: resource}
}
func RuleRequireAmount(resource addressing.Address, amount uint256.Int) AccessRule {
	return AccessRule{Kind: RequireAmount, Resource: resource, Amount: amount}
}
func RuleAnyOf(rules ...AccessRule) AccessRule { return AccessRule{Kind: AnyOf, Rules: rules} }
func RuleAllOf(rules ...AccessRule) AccessRule { return AccessRule{Kind: AllOf, Rules: rules} }

// zones bundles the two logically visible auth zones consulted in
// order: the frame's own, then the caller's (spec §4.4).
type zones struct {
	own    *AuthZone
	caller *AuthZone
}

func (z zones) satisfies(rule AccessRule) bool {
	switch rule.Kind {
	case AllowAll:
		return true
	case DenyAll:
		return false
	case RequireProof:
		if z.own != nil && z.own.HasResource(rule.Resource) {
			return true
		}
		return z.caller != nil && z.caller.HasResource(rule.Resource)
	case RequireAmount:
		if z.own != nil && z.own.HasAmount(rule.Resource, rule.Amount) {
			return true
		}
		return z.caller != nil && z.caller.HasAmount(rule.Resource, rule.Amount)
	case AnyOf:
		for _, r := range rule.Rules {
			if z.satisfies(r) {
				return true
			}
		}
		return false
	case AllOf:
		for _, r := range rule.Rules {
			if !z.satisfies(r) {
				return false
			}
		}
		return true
	default:
		return false
	}
}

// ReceiverAuth checks rule against the frame's own auth zone and the
// caller's, in that order, failing with NotAuthorized carrying a
// snapshot of both zones' resource addresses for diagnostics (spec
// §4.4, §7).
func ReceiverAuth(rule AccessRule, frameZone, callerZone *AuthZone) error {
	z := zones{own: frameZone, caller: callerZone}
	if z.satisfies(rule) {
		return nil
	}
	return kernelerr.NewNotAuthorized(snapshotStringer{frameZone, callerZone}, fmt.Sprintf("rule kind %d not satisfied", rule.Kind))
}

type snapshotStringer struct {
	frame, caller *AuthZone
}

func (s snapshotStringer) String() string {
	describe := func(z *AuthZone) []addressing.Address {
		if z == nil {
			return nil
		}
		out := make([]addressing.Address, 0, len(z.proofs))
		for _, p := range z.proofs {
			out = append(out, p.ResourceAddress)
		}
		return out
	}
	return fmt.Sprintf("auth_zones{frame=%v caller=%v}", describe(s.frame), describe(s.caller))
}
