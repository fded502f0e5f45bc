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

// Package hypergraph models hyperedges, hypergraphs, and the primal-graph
// derived predicates (v-adjacency, v-paths, v-components) the join-tree
// search depends on.
package hypergraph

import (
	"fmt"

	"github.com/dolthub/go-acyclic-query/relation"
)

// Hyperedge is a named relation symbol together with its attribute set.
// An atom hyperedge (IsAtom true) names an original base relation; a
// representative hyperedge (IsAtom false, Label "") is a synthetic node
// introduced by the generalized-join-tree rewrite.
type Hyperedge struct {
	Label  string
	Vars   relation.VarSet
	IsAtom bool
}

// NewAtom builds an atom hyperedge for a base relation.
func NewAtom(label string, vars relation.VarSet) Hyperedge {
	return Hyperedge{Label: label, Vars: vars, IsAtom: true}
}

// EdgeRepr returns the representative hyperedge for e's variable set: the
// same variables, empty label, IsAtom false.
func (e Hyperedge) EdgeRepr() Hyperedge {
	return Hyperedge{Label: "", Vars: e.Vars, IsAtom: false}
}

func (e Hyperedge) String() string {
	return fmt.Sprintf("%s(%v)", e.Label, e.Vars.Sorted())
}
