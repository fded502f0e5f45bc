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

package gjt

import (
	"github.com/dolthub/go-acyclic-query/jointree"
	"github.com/dolthub/go-acyclic-query/relation"
)

// Generalize rewrites a join tree into a generalized join tree in which
// every internal node has exactly one guard child bearing the node's
// full attribute set (spec §4.4).
func Generalize(jt *jointree.JoinTree) *GJT {
	g := &GJT{}
	if jt.Root == nil {
		return g
	}
	emit(jt.Root, g, nil)
	return g
}

// emit implements the rewrite's recursive step. A join-tree leaf becomes
// a non-guard GJT leaf attached to parentRepr. An internal join-tree node
// n contributes an atom child A for n's label, consolidated under the
// representative R for n.label.Vars — reusing an existing R found by
// searching the in-progress GJT from the root, or creating a fresh one
// (with A as its guard) otherwise.
func emit(n *jointree.TreeNode, g *GJT, parentRepr *GJTNode) {
	if len(n.Children) == 0 {
		leaf := newNode(n.Label)
		leaf.Parent = parentRepr
		parentRepr.Children = append(parentRepr.Children, leaf)
		return
	}

	atomChild := newNode(n.Label)

	repr := findRepresentative(g, n.Label.Vars)
	if repr == nil {
		repr = newNode(n.Label.EdgeRepr())
		repr.Guard = atomChild
		repr.Parent = parentRepr

		if parentRepr == nil {
			g.Root = repr
		} else {
			parentRepr.Children = append(parentRepr.Children, repr)
		}
	}

	atomChild.Parent = repr
	repr.Children = append(repr.Children, atomChild)

	for _, c := range n.Children {
		emit(c, g, repr)
	}
}

// findRepresentative searches the in-progress GJT, from the root, for an
// existing representative node (a non-atom node) whose attribute set
// equals vars.
func findRepresentative(g *GJT, vars relation.VarSet) *GJTNode {
	if g.Root == nil {
		return nil
	}
	return findRepresentativeIn(g.Root, vars)
}

func findRepresentativeIn(n *GJTNode, vars relation.VarSet) *GJTNode {
	if !n.Label.IsAtom && n.Label.Vars.Equal(vars) {
		return n
	}
	for _, c := range n.Children {
		if found := findRepresentativeIn(c, vars); found != nil {
			return found
		}
	}
	return nil
}
