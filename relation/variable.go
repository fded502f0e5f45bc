// Copyright 2020-2021 Dolthub, Inc.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Package relation implements the multiset relational-algebra kernel:
// Variable, Tuple, MultisetRelation, and Catalog.
package relation

import (
	"sort"
	"strings"
)

// Variable is an opaque attribute-name symbol. Equality is by value.
type Variable string

// VarSet is a finite set of Variables with value equality and a
// deterministic iteration order, imposed wherever one is needed (§5
// of the design requires lexicographic order for reproducibility).
type VarSet map[Variable]struct{}

// NewVarSet builds a VarSet from the given variables.
func NewVarSet(vars ...Variable) VarSet {
	s := make(VarSet, len(vars))
	for _, v := range vars {
		s[v] = struct{}{}
	}
	return s
}

// Contains reports whether v is a member of s.
func (s VarSet) Contains(v Variable) bool {
	_, ok := s[v]
	return ok
}

// Len returns the number of variables in s.
func (s VarSet) Len() int {
	return len(s)
}

// Union returns a new set containing every variable in s or other.
func (s VarSet) Union(other VarSet) VarSet {
	out := make(VarSet, len(s)+len(other))
	for v := range s {
		out[v] = struct{}{}
	}
	for v := range other {
		out[v] = struct{}{}
	}
	return out
}

// Intersect returns a new set containing variables present in both s and other.
func (s VarSet) Intersect(other VarSet) VarSet {
	out := make(VarSet)
	small, big := s, other
	if len(other) < len(s) {
		small, big = other, s
	}
	for v := range small {
		if big.Contains(v) {
			out[v] = struct{}{}
		}
	}
	return out
}

// Intersects reports whether s and other share at least one variable.
func (s VarSet) Intersects(other VarSet) bool {
	small, big := s, other
	if len(other) < len(s) {
		small, big = other, s
	}
	for v := range small {
		if big.Contains(v) {
			return true
		}
	}
	return false
}

// Difference returns the variables in s that are not in other.
func (s VarSet) Difference(other VarSet) VarSet {
	out := make(VarSet)
	for v := range s {
		if !other.Contains(v) {
			out[v] = struct{}{}
		}
	}
	return out
}

// Subset reports whether every variable in s is also in other.
func (s VarSet) Subset(other VarSet) bool {
	for v := range s {
		if !other.Contains(v) {
			return false
		}
	}
	return true
}

// Equal reports whether s and other contain exactly the same variables.
func (s VarSet) Equal(other VarSet) bool {
	if len(s) != len(other) {
		return false
	}
	return s.Subset(other)
}

// Sorted returns the variables of s as a slice in ascending lexicographic
// order, the canonical iteration order required throughout this module.
func (s VarSet) Sorted() []Variable {
	out := make([]Variable, 0, len(s))
	for v := range s {
		out = append(out, v)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

// Key returns a canonical string fingerprint of the variable set, suitable
// for use as a map key (e.g. to distinguish indices built on different
// key-variable sets).
func (s VarSet) Key() string {
	vars := s.Sorted()
	strs := make([]string, len(vars))
	for i, v := range vars {
		strs[i] = string(v)
	}
	return strings.Join(strs, ",")
}

func (s VarSet) String() string {
	return "{" + s.Key() + "}"
}
