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
	"sort"

	"github.com/dolthub/go-acyclic-query/relerr"
)

// entry pairs a tuple with its current multiplicity.
type entry struct {
	tuple Tuple
	mult  int
}

// TupleCount is the public view of a (Tuple, multiplicity) pair, returned
// in deterministic order by Entries.
type TupleCount struct {
	Tuple Tuple
	Mult  int
}

// index holds the bucketed lookup structure built by CreateIndex for one
// particular key-variable set. MultisetRelation may carry several of
// these simultaneously (e.g. a representative's gamma relation needs one
// per non-guard child's pvar).
type index struct {
	keyVars VarSet
	buckets map[string][]entry
}

// MultisetRelation is a named multiset of Tuples sharing a fixed
// attribute set, with integer (possibly negative, during delta
// computation) multiplicities.
type MultisetRelation struct {
	name    string
	vars    VarSet
	counts  map[string]entry
	indices map[string]*index
}

// NewMultisetRelation returns an empty relation with the given name and
// attribute set.
func NewMultisetRelation(name string, vars VarSet) *MultisetRelation {
	return &MultisetRelation{
		name:   name,
		vars:   vars,
		counts: make(map[string]entry),
	}
}

// Name returns the relation's name.
func (r *MultisetRelation) Name() string {
	return r.name
}

// Variables returns the relation's attribute set.
func (r *MultisetRelation) Variables() VarSet {
	return r.vars
}

// GetMultiplicity returns the multiplicity of t, or 0 if t is not present.
func (r *MultisetRelation) GetMultiplicity(t Tuple) int {
	if e, ok := r.counts[t.Fingerprint()]; ok {
		return e.mult
	}
	return 0
}

// SetMultiplicity stores exactly m as the multiplicity of t, replacing
// any prior value. m may be negative or zero; this method is the raw
// assignment primitive delta computation relies on.
func (r *MultisetRelation) SetMultiplicity(t Tuple, m int) {
	r.counts[t.Fingerprint()] = entry{tuple: t, mult: m}
}

// sortedEntries returns every stored entry in ascending fingerprint order,
// the single point through which this package imposes the determinism §5
// requires whenever it would otherwise iterate a Go map.
func (r *MultisetRelation) sortedEntries() []entry {
	es := make([]entry, 0, len(r.counts))
	for _, e := range r.counts {
		es = append(es, e)
	}
	sort.Slice(es, func(i, j int) bool { return es[i].tuple.fingerprint < es[j].tuple.fingerprint })
	return es
}

// Entries returns every (Tuple, multiplicity) pair in the relation, sorted
// lexicographically by tuple fingerprint.
func (r *MultisetRelation) Entries() []TupleCount {
	es := r.sortedEntries()
	out := make([]TupleCount, len(es))
	for i, e := range es {
		out[i] = TupleCount{Tuple: e.tuple, Mult: e.mult}
	}
	return out
}

// Len returns the number of distinct tuples stored (regardless of sign).
func (r *MultisetRelation) Len() int {
	return len(r.counts)
}

// Copy returns a deep-enough copy: a new relation with the same name,
// attribute set and counts. Tuples themselves are immutable and shared.
func (r *MultisetRelation) Copy() *MultisetRelation {
	out := NewMultisetRelation(r.name, r.vars)
	for k, e := range r.counts {
		out.counts[k] = e
	}
	return out
}

// Project returns a new relation with attribute set vars, multiplicities
// summed over pre-images. Fails with relerr.ErrAttributeMismatch if vars
// is not a subset of the relation's attribute set.
func (r *MultisetRelation) Project(vars VarSet) (*MultisetRelation, error) {
	if !vars.Subset(r.vars) {
		return nil, relerr.ErrAttributeMismatch.New(vars)
	}

	out := NewMultisetRelation("", vars)
	for _, e := range r.sortedEntries() {
		proj, err := e.tuple.Project(vars)
		if err != nil {
			return nil, err
		}
		out.SetMultiplicity(proj, out.GetMultiplicity(proj)+e.mult)
	}
	return out, nil
}

// Merge returns a new relation where each tuple's count is taken from
// other if present there, else from r. This is an attribute-compatible
// overwrite, not an additive combination — "right overrides left" on
// keys present in both operands, a deliberately preserved quirk (see
// DESIGN.md). Use Add for pointwise summation.
func (r *MultisetRelation) Merge(other *MultisetRelation) *MultisetRelation {
	out := NewMultisetRelation("", r.vars)
	for k, e := range r.counts {
		out.counts[k] = e
	}
	for k, e := range other.counts {
		out.counts[k] = e
	}
	return out
}

// CartProd returns the multiset cartesian product of r and other: the
// attribute set is the union, and each joined tuple's multiplicity is the
// product of its constituents'. Every pair of tuples is joined, so callers
// guarantee the two attribute sets are disjoint or that all tuples agree
// on the shared attributes (as the engine's per-binding contributions do).
func (r *MultisetRelation) CartProd(other *MultisetRelation) *MultisetRelation {
	out := NewMultisetRelation("", r.vars.Union(other.vars))
	for _, l := range r.sortedEntries() {
		for _, rr := range other.sortedEntries() {
			joined := l.tuple.Join(rr.tuple)
			out.SetMultiplicity(joined, l.mult*rr.mult)
		}
	}
	return out
}

// SemiJoin returns the tuples of r whose projection onto the shared
// attributes has a positive match in other, scaled by that match's
// multiplicity. Tuples with no match are dropped entirely (not stored
// with multiplicity 0). A surviving tuple's multiplicity is its original
// times the match's multiplicity, so it exceeds its original whenever
// that match count is above 1.
func (r *MultisetRelation) SemiJoin(other *MultisetRelation) (*MultisetRelation, error) {
	joinVars := r.vars.Intersect(other.vars)
	projected, err := other.Project(joinVars)
	if err != nil {
		return nil, err
	}

	out := NewMultisetRelation("", r.vars)
	for _, e := range r.sortedEntries() {
		key, err := e.tuple.Project(joinVars)
		if err != nil {
			return nil, err
		}
		rightMult := projected.GetMultiplicity(key)
		if rightMult > 0 {
			out.SetMultiplicity(e.tuple, e.mult*rightMult)
		}
	}
	return out, nil
}

// CreateIndex builds a lookup structure from projections onto keyVars to
// the list of entries sharing that projection. A relation may carry
// several indices simultaneously, keyed by distinct keyVars. Rebuilding
// an index on the same keyVars replaces the prior one.
func (r *MultisetRelation) CreateIndex(keyVars VarSet) {
	if r.indices == nil {
		r.indices = make(map[string]*index)
	}

	buckets := make(map[string][]entry)
	for _, e := range r.sortedEntries() {
		key, err := e.tuple.Project(keyVars)
		if err != nil {
			// keyVars is required to be a subset of r.vars by every call
			// site in this module; a mismatch here is a programming error
			// in the caller, not a data condition to recover from.
			panic(err)
		}
		fp := key.Fingerprint()
		buckets[fp] = append(buckets[fp], e)
	}

	r.indices[keyVars.Key()] = &index{keyVars: keyVars, buckets: buckets}
}

// Retrieve returns the tuples whose projection onto keyVars equals key,
// using a previously built index. With an empty keyVars and empty key it
// returns a copy of the whole relation without requiring any index.
func (r *MultisetRelation) Retrieve(keyVars VarSet, key Tuple) (*MultisetRelation, error) {
	if keyVars.Len() == 0 {
		return r.Copy(), nil
	}

	idx, ok := r.indices[keyVars.Key()]
	if !ok {
		return nil, relerr.ErrMissingIndex.New(keyVars)
	}

	out := NewMultisetRelation("", r.vars)
	for _, e := range idx.buckets[key.Fingerprint()] {
		out.SetMultiplicity(e.tuple, e.mult)
	}
	return out, nil
}

// Add performs an in-place pointwise sum of multiplicities: for every
// tuple in other, r's multiplicity is increased by other's. This is the
// arithmetic combinator the gjt engine's applyDeltas uses; it is deliberately distinct from
// Merge's overwrite semantics (see DESIGN.md's Open Question decision).
func (r *MultisetRelation) Add(other *MultisetRelation) {
	if other == nil {
		return
	}
	for _, e := range other.sortedEntries() {
		r.SetMultiplicity(e.tuple, r.GetMultiplicity(e.tuple)+e.mult)
	}
}
