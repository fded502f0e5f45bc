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
	"github.com/sirupsen/logrus"

	"github.com/dolthub/go-acyclic-query/hypergraph"
	"github.com/dolthub/go-acyclic-query/relation"
	"github.com/dolthub/go-acyclic-query/relerr"
)

// Decompose runs the Robbers-and-Marshals game over h and returns a join
// tree certifying its acyclicity, or relerr.ErrDecompositionFailure if h
// is not acyclic. log may be nil, in which case a discarding entry is
// used — decomposition tracing never affects the returned tree.
func Decompose(h *hypergraph.Hypergraph, log *logrus.Entry) (*JoinTree, error) {
	if log == nil {
		log = logrus.NewEntry(logrus.New())
	}

	root, err := search(h, h.Variables, nil, log)
	if err != nil {
		return nil, err
	}
	return &JoinTree{Root: root}, nil
}

// search implements the recursive robbers-and-marshals procedure of
// spec §4.3: for each candidate move, in the hypergraph's fixed edge
// order, check enclosure and progress, then recurse into every
// move-component of the robbers region with the marshals reset to the
// singleton {move}.
func search(h *hypergraph.Hypergraph, cRobbers relation.VarSet, marshals []hypergraph.Hyperedge, log *logrus.Entry) (*TreeNode, error) {
	for _, move := range h.Edges {
		moveLog := log.WithFields(logrus.Fields{
			"move":     move.Label,
			"robbers":  cRobbers.Sorted(),
			"marshals": marshalLabels(marshals),
		})

		if !enclosed(h, cRobbers, marshals, move) {
			moveLog.Debug("move rejected: robbers not enclosed")
			continue
		}
		if !cRobbers.Intersects(move.Vars) {
			moveLog.Debug("move rejected: no progress on robbers region")
			continue
		}

		comps := h.MComponents(move.Vars, cRobbers)
		children := make([]*TreeNode, 0, len(comps))
		ok := true
		for _, comp := range comps {
			child, err := search(h, comp, []hypergraph.Hyperedge{move}, log)
			if err != nil {
				ok = false
				break
			}
			children = append(children, child)
		}

		if ok {
			moveLog.Debug("move accepted")
			return &TreeNode{Label: move, Children: children}, nil
		}
		moveLog.Debug("move rejected: a component failed to decompose")
	}

	return nil, relerr.ErrDecompositionFailure.New(cRobbers.Sorted())
}

// enclosed reports whether the marshals, together with the candidate
// move, still seal every edge touching the robbers region.
func enclosed(h *hypergraph.Hypergraph, cRobbers relation.VarSet, marshals []hypergraph.Hyperedge, move hypergraph.Hyperedge) bool {
	flat := relation.NewVarSet()
	for _, m := range marshals {
		flat = flat.Union(m.Vars)
	}

	for _, e := range h.EdgesTouching(cRobbers) {
		if !flat.Intersect(e.Vars).Subset(move.Vars) {
			return false
		}
	}
	return true
}

func marshalLabels(marshals []hypergraph.Hyperedge) []string {
	labels := make([]string, len(marshals))
	for i, m := range marshals {
		labels[i] = m.Label
	}
	return labels
}
