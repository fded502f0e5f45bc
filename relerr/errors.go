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

// Package relerr declares the error kinds shared by the relation,
// hypergraph, jointree, and gjt packages.
package relerr

import "gopkg.in/src-d/go-errors.v1"

var (
	// ErrDecompositionFailure is returned when a hypergraph is not
	// acyclic and no join tree could be found for a robbers region.
	ErrDecompositionFailure = errors.NewKind("hypergraph is not acyclic: no decomposition found for region %v")

	// ErrAttributeMismatch is returned when a projection or join is
	// attempted against attributes not present in the operand.
	ErrAttributeMismatch = errors.NewKind("attribute %v not present in tuple or relation")

	// ErrArityMismatch is returned when a data row read from a relation
	// file has a different number of fields than the header.
	ErrArityMismatch = errors.NewKind("line %d: expected %d values per header, got %d")

	// ErrMissingIndex is returned when Retrieve is called on a key that
	// has no matching index built by a prior CreateIndex call.
	ErrMissingIndex = errors.NewKind("no index built on key variables %v")

	// ErrUnknownRelation is returned when a catalog lookup names a
	// relation that was never registered.
	ErrUnknownRelation = errors.NewKind("unknown relation %q")
)
