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

package jointree

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/dolthub/go-acyclic-query/hypergraph"
	"github.com/dolthub/go-acyclic-query/relation"
	"github.com/dolthub/go-acyclic-query/relerr"
)

func pathHypergraph() *hypergraph.Hypergraph {
	vars := relation.NewVarSet("x", "y", "z", "w")
	edges := []hypergraph.Hyperedge{
		hypergraph.NewAtom("R", relation.NewVarSet("x", "y")),
		hypergraph.NewAtom("S", relation.NewVarSet("y", "z")),
		hypergraph.NewAtom("T", relation.NewVarSet("z", "w")),
	}
	return hypergraph.New(vars, edges)
}

func TestDecomposePathHypergraphSucceeds(t *testing.T) {
	h := pathHypergraph()
	jt, err := Decompose(h, nil)
	require.NoError(t, err)
	require.NotNil(t, jt.Root)

	// Every edge must appear somewhere in the resulting tree.
	for _, e := range h.Edges {
		require.NotNil(t, jt.Root.findLabel(e.Label), "missing edge %s in join tree", e.Label)
	}
}

// findLabel is a small test helper walking the tree by atom label.
func (n *TreeNode) findLabel(label string) *TreeNode {
	if n.Label.Label == label {
		return n
	}
	for _, c := range n.Children {
		if found := c.findLabel(label); found != nil {
			return found
		}
	}
	return nil
}

func TestDecomposeCyclicHypergraphFails(t *testing.T) {
	vars := relation.NewVarSet("x", "y", "z")
	edges := []hypergraph.Hyperedge{
		hypergraph.NewAtom("R", relation.NewVarSet("x", "y")),
		hypergraph.NewAtom("S", relation.NewVarSet("y", "z")),
		hypergraph.NewAtom("T", relation.NewVarSet("z", "x")),
	}
	h := hypergraph.New(vars, edges)

	_, err := Decompose(h, nil)
	require.True(t, relerr.ErrDecompositionFailure.Is(err))
}

func TestDecomposeStarHypergraphSucceeds(t *testing.T) {
	vars := relation.NewVarSet("x", "y", "z", "w")
	edges := []hypergraph.Hyperedge{
		hypergraph.NewAtom("R", relation.NewVarSet("x", "y")),
		hypergraph.NewAtom("S", relation.NewVarSet("x", "z")),
		hypergraph.NewAtom("T", relation.NewVarSet("x", "w")),
	}
	h := hypergraph.New(vars, edges)

	jt, err := Decompose(h, nil)
	require.NoError(t, err)
	require.NotNil(t, jt.Root)
}
