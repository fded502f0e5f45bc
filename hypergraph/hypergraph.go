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

package hypergraph

import (
	"sort"

	"github.com/dolthub/go-acyclic-query/relation"
)

// Hypergraph is a set of Variables together with a set of Hyperedges over
// them. Edges are kept sorted by label so every traversal in this module
// iterates them in a fixed, deterministic order.
type Hypergraph struct {
	Variables relation.VarSet
	Edges     []Hyperedge

	primal *primalGraph
}

// New builds a Hypergraph. Every edge's variables must be a subset of
// vars; edges must have distinct labels (not enforced here — callers are
// expected to construct well-formed hypergraphs, matching the teacher's
// convention of trusting catalog/analyzer-stage invariants).
func New(vars relation.VarSet, edges []Hyperedge) *Hypergraph {
	sorted := make([]Hyperedge, len(edges))
	copy(sorted, edges)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].Label < sorted[j].Label })
	return &Hypergraph{Variables: vars, Edges: sorted}
}

// EdgesTouching returns the edges whose variables intersect c, in the
// hypergraph's fixed edge order.
func (h *Hypergraph) EdgesTouching(c relation.VarSet) []Hyperedge {
	var out []Hyperedge
	for _, e := range h.Edges {
		if c.Intersects(e.Vars) {
			out = append(out, e)
		}
	}
	return out
}

// VAdjacent reports whether a and b are v-adjacent: some hyperedge
// contains both a and b outside of v.
func (h *Hypergraph) VAdjacent(v relation.VarSet, a, b relation.Variable) bool {
	if v.Contains(a) || v.Contains(b) {
		return false
	}
	for _, e := range h.Edges {
		if e.Vars.Contains(a) && e.Vars.Contains(b) {
			return true
		}
	}
	return false
}

// VPath reports whether every consecutive pair in sequence is v-adjacent.
func (h *Hypergraph) VPath(v relation.VarSet, sequence []relation.Variable) bool {
	for i := 0; i < len(sequence)-1; i++ {
		if !h.VAdjacent(v, sequence[i], sequence[i+1]) {
			return false
		}
	}
	return true
}

// VConnected reports whether every pair of variables in w is joined by a
// simple path in the primal graph that is also a v-path. Rather than
// enumerating all simple paths and filtering (the direct reading of the
// contract, exposed separately via PrimalGraph.Paths for diagnostics),
// this restricts the search to primal edges that are themselves
// v-adjacent and asks for plain reachability — the optimization
// DESIGN.md's Open Question section adopts; the existence predicate is
// identical.
func (h *Hypergraph) VConnected(v, w relation.VarSet) bool {
	if w.Len() <= 1 {
		return true
	}

	pg := h.PrimalGraph()
	members := w.Sorted()
	for i := 1; i < len(members); i++ {
		if !pg.vReachable(h, v, members[0], members[i]) {
			return false
		}
	}
	return true
}

// VComponent reports whether w is a v-component: a maximal v-connected
// subset of the variables outside v.
func (h *Hypergraph) VComponent(v, w relation.VarSet) bool {
	rest := h.Variables.Difference(v)
	if !w.Subset(rest) {
		return false
	}
	if !h.VConnected(v, w) {
		return false
	}

	for _, x := range rest.Difference(w).Sorted() {
		if h.VConnected(v, w.Union(relation.NewVarSet(x))) {
			return false
		}
	}
	return true
}

// MComponents returns the v-components (v = moveVars) that are nonempty
// subsets of cRobbers, used by the join-tree search to split the robbers
// region across a move's recursive branches. Components are returned in a
// fixed, canonical order (sorted by their member variables).
func (h *Hypergraph) MComponents(moveVars, cRobbers relation.VarSet) []relation.VarSet {
	candidates := cRobbers.Sorted()
	n := len(candidates)

	var comps []relation.VarSet
	for mask := 1; mask < (1 << n); mask++ {
		vars := make([]relation.Variable, 0, n)
		for i := 0; i < n; i++ {
			if mask&(1<<i) != 0 {
				vars = append(vars, candidates[i])
			}
		}
		s := relation.NewVarSet(vars...)
		if h.VComponent(moveVars, s) {
			comps = append(comps, s)
		}
	}

	sort.Slice(comps, func(i, j int) bool { return comps[i].Key() < comps[j].Key() })
	return comps
}

// primalGraph is the undirected graph over Hypergraph.Variables whose
// edges are pairs co-occurring in some hyperedge.
type primalGraph struct {
	adjacency map[relation.Variable]relation.VarSet
}

// PrimalGraph returns (building and memoizing on first call) the primal
// graph of h.
func (h *Hypergraph) PrimalGraph() *primalGraph {
	if h.primal != nil {
		return h.primal
	}

	adj := make(map[relation.Variable]relation.VarSet, h.Variables.Len())
	for v := range h.Variables {
		adj[v] = relation.NewVarSet()
	}
	for _, e := range h.Edges {
		vars := e.Vars.Sorted()
		for i := 0; i < len(vars); i++ {
			for j := i + 1; j < len(vars); j++ {
				adj[vars[i]][vars[j]] = struct{}{}
				adj[vars[j]][vars[i]] = struct{}{}
			}
		}
	}

	h.primal = &primalGraph{adjacency: adj}
	return h.primal
}

// Paths enumerates every simple path from source to dest in the primal
// graph using depth-first search with an explicit visited set, exposed as
// the raw primitive §4.2 specifies. It is exponential in the worst case,
// acceptable only because the hypergraphs this engine targets are small;
// VConnected itself does not call this — see its doc comment.
func (pg *primalGraph) Paths(source, dest relation.Variable) [][]relation.Variable {
	var results [][]relation.Variable
	visited := make(map[relation.Variable]bool)
	var path []relation.Variable

	var dfs func(cur relation.Variable)
	dfs = func(cur relation.Variable) {
		visited[cur] = true
		path = append(path, cur)

		if cur == dest {
			cp := make([]relation.Variable, len(path))
			copy(cp, path)
			results = append(results, cp)
		} else {
			for _, next := range pg.adjacency[cur].Sorted() {
				if !visited[next] {
					dfs(next)
				}
			}
		}

		path = path[:len(path)-1]
		visited[cur] = false
	}
	dfs(source)

	return results
}

// vReachable reports whether dest is reachable from source using only
// primal edges that are v-adjacent in h — the subgraph restricted to
// v-passable edges that DESIGN.md's Open Question decision substitutes
// for enumerating every simple path and testing it against VPath.
func (pg *primalGraph) vReachable(h *Hypergraph, v relation.VarSet, source, dest relation.Variable) bool {
	if source == dest {
		return true
	}

	visited := map[relation.Variable]bool{source: true}
	queue := []relation.Variable{source}

	for len(queue) > 0 {
		cur := queue[0]
		queue = queue[1:]

		for _, next := range pg.adjacency[cur].Sorted() {
			if visited[next] || !h.VAdjacent(v, cur, next) {
				continue
			}
			if next == dest {
				return true
			}
			visited[next] = true
			queue = append(queue, next)
		}
	}
	return false
}
