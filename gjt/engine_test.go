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
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/dolthub/go-acyclic-query/hypergraph"
	"github.com/dolthub/go-acyclic-query/jointree"
	"github.com/dolthub/go-acyclic-query/relation"
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

func buildPathGJT(t *testing.T) *GJT {
	t.Helper()
	jt, err := jointree.Decompose(pathHypergraph(), nil)
	require.NoError(t, err)
	return Generalize(jt)
}

func rowTuple(vars ...string) relation.Tuple {
	attrs := make(map[relation.Variable]string)
	for i := 0; i+1 < len(vars); i += 2 {
		attrs[relation.Variable(vars[i])] = vars[i+1]
	}
	return relation.NewTuple(attrs)
}

func pathCatalog(withDangling bool) *relation.Catalog {
	c := relation.NewCatalog()

	r := relation.NewMultisetRelation("R", relation.NewVarSet("x", "y"))
	r.SetMultiplicity(rowTuple("x", "1", "y", "1"), 2)
	r.SetMultiplicity(rowTuple("x", "1", "y", "2"), 1)
	if withDangling {
		r.SetMultiplicity(rowTuple("x", "9", "y", "99"), 7)
	}
	c.Put(r)

	s := relation.NewMultisetRelation("S", relation.NewVarSet("y", "z"))
	s.SetMultiplicity(rowTuple("y", "1", "z", "10"), 1)
	s.SetMultiplicity(rowTuple("y", "2", "z", "20"), 1)
	c.Put(s)

	tr := relation.NewMultisetRelation("T", relation.NewVarSet("z", "w"))
	tr.SetMultiplicity(rowTuple("z", "10", "w", "100"), 1)
	tr.SetMultiplicity(rowTuple("z", "20", "w", "200"), 3)
	c.Put(tr)

	return c
}

func TestPathQueryEnumeratesFullJoin(t *testing.T) {
	g := buildPathGJT(t)
	eng := NewEngine(g, nil)

	require.NoError(t, eng.Initialize(pathCatalog(false)))
	require.NoError(t, eng.SemiJoinReduction())

	result, err := eng.Enumerate()
	require.NoError(t, err)

	require.Equal(t, 2, result.GetMultiplicity(rowTuple("x", "1", "y", "1", "z", "10", "w", "100")))
	require.Equal(t, 3, result.GetMultiplicity(rowTuple("x", "1", "y", "2", "z", "20", "w", "200")))
	require.Equal(t, 2, result.Len())
}

func TestPathQuerySemiJoinDropsDanglingTuples(t *testing.T) {
	g := buildPathGJT(t)
	eng := NewEngine(g, nil)

	require.NoError(t, eng.Initialize(pathCatalog(true)))
	require.NoError(t, eng.SemiJoinReduction())

	result, err := eng.Enumerate()
	require.NoError(t, err)

	require.Equal(t, 0, result.GetMultiplicity(rowTuple("x", "9", "y", "99", "z", "0", "w", "0")))
	require.Equal(t, 2, result.Len())
}

func TestPathQueryIncrementalUpdate(t *testing.T) {
	g := buildPathGJT(t)
	eng := NewEngine(g, nil)

	require.NoError(t, eng.Initialize(pathCatalog(false)))
	require.NoError(t, eng.SemiJoinReduction())

	delta := relation.NewCatalog()
	dr := relation.NewMultisetRelation("R", relation.NewVarSet("x", "y"))
	dr.SetMultiplicity(rowTuple("x", "1", "y", "1"), 1)
	delta.Put(dr)

	require.NoError(t, eng.Update(delta))

	result, err := eng.Enumerate()
	require.NoError(t, err)
	require.Equal(t, 3, result.GetMultiplicity(rowTuple("x", "1", "y", "1", "z", "10", "w", "100")))
}

func TestPathQueryIncrementalUpdateOnNonGuardLeaf(t *testing.T) {
	g := buildPathGJT(t)
	eng := NewEngine(g, nil)

	require.NoError(t, eng.Initialize(pathCatalog(false)))
	require.NoError(t, eng.SemiJoinReduction())

	delta := relation.NewCatalog()
	dt := relation.NewMultisetRelation("T", relation.NewVarSet("z", "w"))
	dt.SetMultiplicity(rowTuple("z", "20", "w", "200"), 2)
	delta.Put(dt)

	require.NoError(t, eng.Update(delta))

	result, err := eng.Enumerate()
	require.NoError(t, err)

	require.Equal(t, 2, result.GetMultiplicity(rowTuple("x", "1", "y", "1", "z", "10", "w", "100")))
	require.Equal(t, 5, result.GetMultiplicity(rowTuple("x", "1", "y", "2", "z", "20", "w", "200")))
}

func TestGeneralizeProducesGuardedTree(t *testing.T) {
	g := buildPathGJT(t)
	require.NotNil(t, g.Root)

	var walk func(n *GJTNode)
	walk = func(n *GJTNode) {
		if !n.Label.IsAtom {
			require.NotNil(t, n.Guard, "representative node missing guard")
			require.True(t, n.Guard.Label.Vars.Equal(n.Label.Vars))
		}
		for _, c := range n.Children {
			walk(c)
		}
	}
	walk(g.Root)
}
