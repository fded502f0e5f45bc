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

package relation

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func tup(kv map[Variable]string) Tuple { return NewTuple(kv) }

func TestMultisetRelationProjectSumsMultiplicities(t *testing.T) {
	r := NewMultisetRelation("r", NewVarSet("x", "y"))
	r.SetMultiplicity(tup(map[Variable]string{"x": "1", "y": "a"}), 2)
	r.SetMultiplicity(tup(map[Variable]string{"x": "1", "y": "b"}), 3)

	proj, err := r.Project(NewVarSet("x"))
	require.NoError(t, err)
	require.Equal(t, 5, proj.GetMultiplicity(tup(map[Variable]string{"x": "1"})))
}

func TestMultisetRelationMergeOverwrites(t *testing.T) {
	left := NewMultisetRelation("l", NewVarSet("x"))
	left.SetMultiplicity(tup(map[Variable]string{"x": "1"}), 5)

	right := NewMultisetRelation("r", NewVarSet("x"))
	right.SetMultiplicity(tup(map[Variable]string{"x": "1"}), 9)
	right.SetMultiplicity(tup(map[Variable]string{"x": "2"}), 1)

	merged := left.Merge(right)
	require.Equal(t, 9, merged.GetMultiplicity(tup(map[Variable]string{"x": "1"})))
	require.Equal(t, 1, merged.GetMultiplicity(tup(map[Variable]string{"x": "2"})))
}

func TestMultisetRelationAddIsPointwiseSum(t *testing.T) {
	left := NewMultisetRelation("l", NewVarSet("x"))
	left.SetMultiplicity(tup(map[Variable]string{"x": "1"}), 5)

	right := NewMultisetRelation("r", NewVarSet("x"))
	right.SetMultiplicity(tup(map[Variable]string{"x": "1"}), 9)
	right.SetMultiplicity(tup(map[Variable]string{"x": "2"}), -1)

	left.Add(right)
	require.Equal(t, 14, left.GetMultiplicity(tup(map[Variable]string{"x": "1"})))
	require.Equal(t, -1, left.GetMultiplicity(tup(map[Variable]string{"x": "2"})))
}

func TestMultisetRelationCartProd(t *testing.T) {
	left := NewMultisetRelation("l", NewVarSet("x"))
	left.SetMultiplicity(tup(map[Variable]string{"x": "1"}), 2)

	right := NewMultisetRelation("r", NewVarSet("y"))
	right.SetMultiplicity(tup(map[Variable]string{"y": "a"}), 3)

	prod := left.CartProd(right)
	require.Equal(t, NewVarSet("x", "y"), prod.Variables())
	require.Equal(t, 6, prod.GetMultiplicity(tup(map[Variable]string{"x": "1", "y": "a"})))
}

func TestMultisetRelationSemiJoinDropsNonMatches(t *testing.T) {
	left := NewMultisetRelation("l", NewVarSet("x", "y"))
	left.SetMultiplicity(tup(map[Variable]string{"x": "1", "y": "a"}), 2)
	left.SetMultiplicity(tup(map[Variable]string{"x": "2", "y": "b"}), 5)

	right := NewMultisetRelation("r", NewVarSet("x"))
	right.SetMultiplicity(tup(map[Variable]string{"x": "1"}), 4)

	reduced, err := left.SemiJoin(right)
	require.NoError(t, err)
	require.Equal(t, 1, reduced.Len())
	require.Equal(t, 8, reduced.GetMultiplicity(tup(map[Variable]string{"x": "1", "y": "a"})))
}

func TestMultisetRelationRetrieveRequiresIndex(t *testing.T) {
	r := NewMultisetRelation("r", NewVarSet("x"))
	r.SetMultiplicity(tup(map[Variable]string{"x": "1"}), 1)

	_, err := r.Retrieve(NewVarSet("x"), tup(map[Variable]string{"x": "1"}))
	require.Error(t, err)

	r.CreateIndex(NewVarSet("x"))
	found, err := r.Retrieve(NewVarSet("x"), tup(map[Variable]string{"x": "1"}))
	require.NoError(t, err)
	require.Equal(t, 1, found.Len())
}

func TestMultisetRelationRetrieveEmptyKeyBypassesIndex(t *testing.T) {
	r := NewMultisetRelation("r", NewVarSet("x"))
	r.SetMultiplicity(tup(map[Variable]string{"x": "1"}), 1)

	whole, err := r.Retrieve(NewVarSet(), EmptyTuple())
	require.NoError(t, err)
	require.Equal(t, 1, whole.Len())
}

func TestMultisetRelationCopyIsIndependent(t *testing.T) {
	r := NewMultisetRelation("r", NewVarSet("x"))
	r.SetMultiplicity(tup(map[Variable]string{"x": "1"}), 1)

	cp := r.Copy()
	cp.SetMultiplicity(tup(map[Variable]string{"x": "2"}), 1)
	require.Equal(t, 1, r.Len())
	require.Equal(t, 2, cp.Len())
}
