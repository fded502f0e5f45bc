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

// Package gjt implements the generalized-join-tree rewrite and the
// Yannakakis-style evaluation and delta-maintenance engine.
package gjt

import (
	uuid "github.com/satori/go.uuid"

	"github.com/dolthub/go-acyclic-query/hypergraph"
	"github.com/dolthub/go-acyclic-query/relation"
)

// GJTNode is a node of a generalized join tree. Every internal
// (non-atom) node carries exactly one guard child whose attribute set
// equals the node's own — the structural invariant §3 calls the "guard
// property". id is a correlation key for log fields and trace tags only;
// it never participates in the node's semantics.
type GJTNode struct {
	id uuid.UUID

	Label    hypergraph.Hyperedge
	Parent   *GJTNode
	Guard    *GJTNode
	Children []*GJTNode

	Lambda *relation.MultisetRelation
	Psi    *relation.MultisetRelation
	Gamma  *relation.MultisetRelation

	DeltaLambda *relation.MultisetRelation
	DeltaPsi    *relation.MultisetRelation
	DeltaGamma  *relation.MultisetRelation
}

func newNode(label hypergraph.Hyperedge) *GJTNode {
	return &GJTNode{id: uuid.NewV4(), Label: label}
}

// ID returns the node's correlation identifier, for logging/tracing only.
func (n *GJTNode) ID() string {
	return n.id.String()
}

// PVar returns the intersection of n's attribute set with its parent's,
// or the empty set at the root.
func (n *GJTNode) PVar() relation.VarSet {
	if n.Parent == nil {
		return relation.NewVarSet()
	}
	return n.Label.Vars.Intersect(n.Parent.Label.Vars)
}

// NonGuards returns n's children other than the guard, in their fixed
// append order (see DESIGN.md's Open Question decision on iteration
// order across children).
func (n *GJTNode) NonGuards() []*GJTNode {
	out := make([]*GJTNode, 0, len(n.Children))
	for _, c := range n.Children {
		if c != n.Guard {
			out = append(out, c)
		}
	}
	return out
}

// Serialize returns a nested [attribute-set-or-label, [children...]]
// structure suitable for diagnostic dumps.
func (n *GJTNode) Serialize() []any {
	label := n.Label.Label
	if !n.Label.IsAtom {
		label = n.Label.String()
	}
	children := make([]any, len(n.Children))
	for i, c := range n.Children {
		children[i] = c.Serialize()
	}
	return []any{label, children}
}

// GJT is a generalized join tree.
type GJT struct {
	Root *GJTNode
}

// Serialize delegates to the root, returning nil for an empty tree.
func (g *GJT) Serialize() []any {
	if g.Root == nil {
		return nil
	}
	return g.Root.Serialize()
}
