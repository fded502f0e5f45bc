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

// Package jointree implements the Robbers-and-Marshals search that
// decomposes an acyclic hypergraph into a join tree.
package jointree

import (
	"github.com/dolthub/go-acyclic-query/hypergraph"
	"github.com/dolthub/go-acyclic-query/relation"
)

// TreeNode is a node of a join tree: a hyperedge label and its ordered
// children.
type TreeNode struct {
	Label    hypergraph.Hyperedge
	Children []*TreeNode
}

// Contains returns the non-atom node representing vars, searched
// depth-first from n, or nil if none exists.
func (n *TreeNode) Contains(vars relation.VarSet) *TreeNode {
	if !n.Label.IsAtom && n.Label.Vars.Equal(vars) {
		return n
	}
	for _, c := range n.Children {
		if found := c.Contains(vars); found != nil {
			return found
		}
	}
	return nil
}

// Serialize returns a nested [label, [children...]] structure suitable
// for diagnostic dumps.
func (n *TreeNode) Serialize() []any {
	children := make([]any, len(n.Children))
	for i, c := range n.Children {
		children[i] = c.Serialize()
	}
	return []any{n.Label.String(), children}
}

// JoinTree is a rooted join tree over a hypergraph's hyperedges.
type JoinTree struct {
	Root *TreeNode
}

// Contains delegates to the root, returning nil for an empty tree.
func (t *JoinTree) Contains(vars relation.VarSet) *TreeNode {
	if t.Root == nil {
		return nil
	}
	return t.Root.Contains(vars)
}

// Serialize returns the tree's nested diagnostic representation, or nil
// if the tree is empty.
func (t *JoinTree) Serialize() []any {
	if t.Root == nil {
		return nil
	}
	return t.Root.Serialize()
}
